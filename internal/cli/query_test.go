package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/predsql/internal/testutil"
)

func runQueryCommand(t *testing.T, opts *RootOptions, args ...string) (string, string, error) {
	t.Helper()
	if opts.ModelsDir == "" {
		opts.ModelsDir = modelsDir
	}
	if opts.Dialect == "" {
		opts.Dialect = "sqlite"
	}
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	cmd := NewQueryCommand(opts)
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestQuery_Text(t *testing.T) {
	db := testutil.UsersDB(t)

	out, _, err := runQueryCommand(t, &RootOptions{Format: "text", Database: db}, predicate("adults"))
	require.NoError(t, err)
	assert.Equal(t, "✓ 1 row(s)\n  Id=1 Name=alice Age=30 IsActive=true\n", out)
}

func TestQuery_JSON(t *testing.T) {
	db := testutil.UsersDB(t)

	out, _, err := runQueryCommand(t, &RootOptions{Format: "json", Database: db}, predicate("active"))
	require.NoError(t, err)

	var resp struct {
		Status string `json:"status"`
		Data   struct {
			Model string           `json:"model"`
			Count int              `json:"count"`
			Rows  []map[string]any `json:"rows"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "User", resp.Data.Model)
	assert.Equal(t, 2, resp.Data.Count)

	var names []any
	for _, row := range resp.Data.Rows {
		names = append(names, row["Name"])
	}
	assert.ElementsMatch(t, []any{"alice", "bob"}, names)
}

func TestQuery_VerboseLogsStatement(t *testing.T) {
	db := testutil.UsersDB(t)

	_, errOut, err := runQueryCommand(t, &RootOptions{Format: "text", Database: db, Verbose: true}, predicate("active"))
	require.NoError(t, err)
	assert.Contains(t, errOut, "[DEBUG] predsql.User: where:")
	assert.Contains(t, errOut, "is_active")
	assert.Contains(t, errOut, ":p1")
	assert.Contains(t, errOut, "trace_id=")
}

func TestQuery_TranslateError(t *testing.T) {
	db := testutil.UsersDB(t)

	out, _, err := runQueryCommand(t, &RootOptions{Format: "text", Database: db}, predicate("unmapped"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error [E201]")
}

func TestQuery_MissingDatabase(t *testing.T) {
	tests := []struct {
		name string
		db   string
		want string
	}{
		{"not configured", "", "no database configured"},
		{"not found", filepath.Join(t.TempDir(), "missing.db"), "database not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := runQueryCommand(t, &RootOptions{Format: "text", Database: tt.db}, predicate("active"))
			require.Error(t, err)
			assert.Contains(t, out, "Error [E005]")
			assert.Contains(t, out, tt.want)
		})
	}
}

func TestQuery_MissingTable(t *testing.T) {
	path := testutil.SQLiteFile(t)

	out, _, err := runQueryCommand(t, &RootOptions{Format: "text", Database: path}, predicate("active"))
	require.Error(t, err)
	assert.Contains(t, out, "Error [E301]")
}

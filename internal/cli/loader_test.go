package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeModels(t *testing.T, src string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "models.cue"), []byte(src), 0o644))
	return dir
}

func TestLoadModels(t *testing.T) {
	result, errs := LoadModels(modelsDir)
	require.Empty(t, errs)
	require.NotNil(t, result)

	assert.Equal(t, 1, result.FileCount)
	require.Len(t, result.Models, 2)

	user, ok := result.Model("User")
	require.True(t, ok)
	assert.Equal(t, "users", user.Set())
	col, err := user.Resolve("Name")
	require.NoError(t, err)
	assert.Equal(t, "user_name", col)

	order, ok := result.Model("Order")
	require.True(t, ok)
	assert.Equal(t, "order_no", order.KeyColumn())

	_, ok = result.Model("Invoice")
	assert.False(t, ok)
}

func TestLoadModels_DirectoryErrors(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file.cue")
	require.NoError(t, os.WriteFile(file, []byte("package models\n"), 0o644))

	tests := []struct {
		name     string
		dir      string
		wantCode string
	}{
		{"missing", filepath.Join(t.TempDir(), "nope"), ErrCodeNotFound},
		{"not a directory", file, ErrCodeNotFound},
		{"empty", t.TempDir(), ErrCodeNoFiles},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, errs := LoadModels(tt.dir)
			assert.Nil(t, result)
			require.Len(t, errs, 1)

			var loadErr *LoadError
			require.ErrorAs(t, errs[0], &loadErr)
			assert.Equal(t, tt.wantCode, loadErr.Code)
		})
	}
}

func TestLoadModels_NoModelField(t *testing.T) {
	dir := writeModels(t, "package models\n\nother: 1\n")

	result, errs := LoadModels(dir)
	require.NotNil(t, result)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), ErrCodeNoModels)
}

func TestLoadModels_CollectsCompileErrors(t *testing.T) {
	dir := writeModels(t, `package models

model: Good: {
	members: {Id: {type: "int"}}
}

model: BadType: {
	members: {Id: {type: "complex"}}
}

model: Empty: {
	members: {}
}
`)

	result, errs := LoadModels(dir)
	require.NotNil(t, result)
	require.Len(t, result.Models, 1)
	assert.Equal(t, "Good", result.Models[0].Name())

	require.Len(t, errs, 2)
	var codes []string
	for _, err := range errs {
		var loadErr *LoadError
		require.ErrorAs(t, err, &loadErr)
		codes = append(codes, loadErr.Code)
		assert.True(t, loadErr.Pos.IsValid(), "expected a position for %v", err)
	}
	assert.ElementsMatch(t, []string{ErrCodeMemberType, ErrCodeModelMembers}, codes)
}

func TestMapFieldToErrorCode(t *testing.T) {
	tests := []struct {
		field string
		want  string
	}{
		{"members", ErrCodeModelMembers},
		{"members.Id.type", ErrCodeMemberType},
		{"set", ErrCodeModelField},
		{"column", ErrCodeModelField},
		{"model.User", ErrCodeModelConflict},
		{"cue", ErrCodeGeneric},
	}

	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			assert.Equal(t, tt.want, MapFieldToErrorCode(tt.field))
		})
	}
}

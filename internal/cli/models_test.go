package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModelsText(t *testing.T) {
	buf := &bytes.Buffer{}
	cmd := NewModelsCommand(&RootOptions{Format: "text", ModelsDir: modelsDir})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{})

	require.NoError(t, cmd.Execute())

	output := buf.String()
	assert.Contains(t, output, "✓ 2 model(s)")
	assert.Contains(t, output, "User -> users (key Id)")
	assert.Contains(t, output, "  Name: user_name string")
	assert.Contains(t, output, "Order -> orders (key order_no)")
}

func TestModelsJSON(t *testing.T) {
	buf := &bytes.Buffer{}
	cmd := NewModelsCommand(&RootOptions{Format: "json", ModelsDir: modelsDir})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{})

	require.NoError(t, cmd.Execute())

	var resp struct {
		Status string      `json:"status"`
		Data   []ModelInfo `json:"data"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	require.Len(t, resp.Data, 2)

	user := resp.Data[0]
	assert.Equal(t, "User", user.Name)
	require.Len(t, user.Members, 4)
	assert.Equal(t, MemberInfo{Name: "Name", Column: "user_name", Kind: "string", Length: 64}, user.Members[1])
	assert.Equal(t, MemberInfo{Name: "IsActive", Column: "is_active", Kind: "bool"}, user.Members[3])
}

func TestModelsCompileErrors(t *testing.T) {
	dir := writeModels(t, `package models

model: A: {members: {Id: {type: "complex"}}}
model: B: {members: {Id: {type: 3}}}
`)

	buf := &bytes.Buffer{}
	cmd := NewModelsCommand(&RootOptions{Format: "json", ModelsDir: dir})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Len(t, resp.Error.Details, 2)
}

func TestModelsMissingDir(t *testing.T) {
	buf := &bytes.Buffer{}
	cmd := NewModelsCommand(&RootOptions{Format: "text", ModelsDir: "testdata/nope"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, buf.String(), "Error [E005]")
}

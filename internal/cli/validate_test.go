package cli

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/pointflow/internal/errs"
)

func TestValidate_Valid(t *testing.T) {
	program := writeFile(t, t.TempDir(), "split.cue", `proc: "split"
options: {
	columns: ["a", "b"]
	arrays:  false
}
`)

	stdout, _, err := execute(t, "", "validate", program)
	require.NoError(t, err)
	assert.Equal(t, "✓ "+program+": valid split program\n", stdout)
}

func TestValidate_ValidJSON(t *testing.T) {
	program := writeFile(t, t.TempDir(), "split.cue", `proc: "split"`)

	stdout, _, err := execute(t, "", "--format", "json", "validate", program)
	require.NoError(t, err)

	var resp struct {
		Status string           `json:"status"`
		Data   ValidationResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.True(t, resp.Data.Valid)
	assert.Equal(t, "split", resp.Data.Proc)
}

func TestValidate_SyntaxError(t *testing.T) {
	program := writeFile(t, t.TempDir(), "bad.cue", "proc: \"split\"\noptions: {\n")

	stdout, _, err := execute(t, "", "--format", "json", "validate", program)

	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, errs.CodeProgramSyntax, resp.Error.Code)
	assert.Contains(t, resp.Error.Info, errs.LocationKey)
}

func TestValidate_ConstructionError(t *testing.T) {
	program := writeFile(t, t.TempDir(), "p.cue", `proc: "split"
options: limit: 3
`)

	stdout, _, err := execute(t, "", "-v", "validate", program)

	require.Error(t, err)
	assert.Contains(t, stdout, `Error [UNKNOWN-OPTION]: split does not support option "limit"`)
	assert.Contains(t, stdout, "  at "+program+":1:")
}

func TestValidate_MissingFile(t *testing.T) {
	_, _, err := execute(t, "", "validate", filepath.Join(t.TempDir(), "nope.cue"))

	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

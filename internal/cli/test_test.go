package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const passingScenario = `name: split_basic
description: Split with explicit columns
proc: split
options:
  columns: [a]
input:
  - a: 1
    b: 2
expect:
  output:
    - b: 2
      name: a
      value: 1
`

const failingScenario = `name: split_wrong
description: Expects the wrong value
proc: split
input:
  - a: 1
expect:
  output:
    - name: a
      value: 2
`

func TestTestCommand_Pass(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "basic.yaml", passingScenario)

	stdout, _, err := execute(t, "", "test", dir)
	require.NoError(t, err)

	assert.Contains(t, stdout, "✓ split_basic")
	assert.Contains(t, stdout, "Test Summary: 1 passed, 0 failed, 1 total")
}

func TestTestCommand_Fail(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "basic.yaml", passingScenario)
	writeFile(t, dir, "wrong.yaml", failingScenario)

	stdout, _, err := execute(t, "", "test", dir)

	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, stdout, "✗ split_wrong")
	assert.Contains(t, stdout, "output[0]")
	assert.Contains(t, stdout, "Test Summary: 1 passed, 1 failed, 2 total")
}

func TestTestCommand_JSON(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "basic.yaml", passingScenario)
	writeFile(t, dir, "wrong.yaml", failingScenario)

	stdout, _, err := execute(t, "", "--format", "json", "test", dir)

	require.Error(t, err)
	assert.True(t, IsReported(err))

	var resp struct {
		Status string     `json:"status"`
		Data   TestResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, 2, resp.Data.Total)
	assert.Equal(t, 1, resp.Data.Failed)
	require.Len(t, resp.Data.Scenarios, 2)
	assert.True(t, resp.Data.Scenarios[0].Pass)
	assert.False(t, resp.Data.Scenarios[1].Pass)
}

func TestTestCommand_Filter(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "basic.yaml", passingScenario)
	writeFile(t, dir, "wrong.yaml", failingScenario)

	stdout, _, err := execute(t, "", "test", "--filter", "bas*", dir)
	require.NoError(t, err)
	assert.Contains(t, stdout, "1 total")
}

func TestTestCommand_UpdateAndCompareGolden(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "scenarios")
	writeFile(t, dir, "basic.yaml", passingScenario)

	stdout, _, err := execute(t, "", "test", "--update", dir)
	require.NoError(t, err)
	assert.Contains(t, stdout, "(golden updated)")

	goldenPath := filepath.Join(root, "golden", "split_basic.golden")
	golden, err := os.ReadFile(goldenPath)
	require.NoError(t, err)
	assert.Equal(t, "{\"b\":2,\"name\":\"a\",\"value\":1}\n", string(golden))

	_, _, err = execute(t, "", "test", dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(goldenPath, []byte("{}\n"), 0644))
	stdout, _, err = execute(t, "", "test", dir)
	require.Error(t, err)
	assert.Contains(t, stdout, "does not match golden file")
}

func TestTestCommand_HarnessTestdata(t *testing.T) {
	dir := filepath.Join("..", "harness", "testdata", "scenarios")
	goldenDir := filepath.Join("..", "harness", "testdata", "golden")

	stdout, _, err := execute(t, "", "test", dir)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Test Summary: 4 passed, 0 failed, 4 total")

	// The same golden files the harness package checks are read here too:
	// a corrupted copy of the tree must fail.
	root := t.TempDir()
	copyDir(t, dir, filepath.Join(root, "scenarios"))
	copyDir(t, goldenDir, filepath.Join(root, "golden"))
	copyDir(t, filepath.Join("..", "harness", "testdata", "programs"), filepath.Join(root, "programs"))
	require.NoError(t, os.WriteFile(filepath.Join(root, "golden", "split_all_fields.golden"), []byte("{}\n"), 0644))

	stdout, _, err = execute(t, "", "test", filepath.Join(root, "scenarios"))
	require.Error(t, err)
	assert.Contains(t, stdout, "✗ split_all_fields")
	assert.Contains(t, stdout, "does not match golden file")
	assert.Contains(t, stdout, "Test Summary: 3 passed, 1 failed, 4 total")
}

func copyDir(t *testing.T, src, dst string) {
	t.Helper()
	entries, err := os.ReadDir(src)
	require.NoError(t, err)
	for _, entry := range entries {
		data, err := os.ReadFile(filepath.Join(src, entry.Name()))
		require.NoError(t, err)
		writeFile(t, dst, entry.Name(), string(data))
	}
}

func TestTestCommand_LoadError(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "broken.yaml", "name: x\n")

	stdout, _, err := execute(t, "", "test", dir)

	require.Error(t, err)
	assert.Contains(t, stdout, "✗ broken.yaml")
	assert.Contains(t, stdout, "failed to load scenario")
}

func TestTestCommand_EmptyDir(t *testing.T) {
	stdout, _, err := execute(t, "", "test", t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, stdout, "No scenarios found")
}

func TestTestCommand_MissingDir(t *testing.T) {
	_, _, err := execute(t, "", "test", "/nonexistent/scenarios")

	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "scenarios directory not found")
}

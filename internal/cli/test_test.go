package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func executeTest(t *testing.T, opts *RootOptions, args ...string) (string, error) {
	t.Helper()

	buf := &bytes.Buffer{}
	cmd := NewTestCommand(opts)
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)

	err := cmd.Execute()
	return buf.String(), err
}

// copyScenarios copies the test scenarios into a temp directory.
func copyScenarios(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	entries, err := os.ReadDir("testdata/scenarios")
	require.NoError(t, err)
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		data, err := os.ReadFile(filepath.Join("testdata/scenarios", e.Name()))
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.Join(dir, e.Name()), data, 0644))
	}
	return dir
}

func TestTestCommand_MissingArgs(t *testing.T) {
	_, err := executeTest(t, &RootOptions{Format: "text"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg")
}

func TestTestCommand_NonExistentDirectory(t *testing.T) {
	_, err := executeTest(t, &RootOptions{Format: "text"}, "/nonexistent/path")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scenarios directory not found")
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestTestCommand_EmptyDirectory(t *testing.T) {
	out, err := executeTest(t, &RootOptions{Format: "text"}, t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, out, "No scenarios found.")
}

func TestTestCommand_EmptyDirectoryJSON(t *testing.T) {
	out, err := executeTest(t, &RootOptions{Format: "json"}, t.TempDir())
	require.NoError(t, err)

	var resp struct {
		Status string     `json:"status"`
		Data   TestResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Zero(t, resp.Data.Total)
}

func TestTestCommand_Passes(t *testing.T) {
	out, err := executeTest(t, &RootOptions{Format: "text", Registry: testCatalogDir}, "testdata/scenarios")
	require.NoError(t, err, out)

	assert.Contains(t, out, "✓ strict_concurrency_off")
	assert.Contains(t, out, "✓ unknown_feature")
	assert.Contains(t, out, "Test Summary: 2 passed, 0 failed, 2 total")
	assert.Contains(t, out, "✓ All scenarios passed")
}

func TestTestCommand_Filter(t *testing.T) {
	out, err := executeTest(t, &RootOptions{Format: "json", Registry: testCatalogDir},
		"testdata/scenarios", "--filter", "unknown_*")
	require.NoError(t, err)

	var resp struct {
		Data TestResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Len(t, resp.Data.Scenarios, 1)
	assert.Equal(t, "unknown_feature", resp.Data.Scenarios[0].Name)
	assert.True(t, resp.Data.Scenarios[0].Pass)
}

func TestTestCommand_Update(t *testing.T) {
	dir := copyScenarios(t)

	out, err := executeTest(t, &RootOptions{Format: "text", Registry: testCatalogDir}, dir, "--update")
	require.NoError(t, err, out)
	assert.Contains(t, out, "(golden updated)")

	got, err := os.ReadFile(filepath.Join(dir, "golden", "strict_concurrency_off.golden"))
	require.NoError(t, err)
	want, err := os.ReadFile("testdata/scenarios/golden/strict_concurrency_off.golden")
	require.NoError(t, err)
	assert.Equal(t, string(want), string(got))

	// Regenerated files compare clean
	out, err = executeTest(t, &RootOptions{Format: "text", Registry: testCatalogDir}, dir)
	require.NoError(t, err, out)
}

func TestTestCommand_GoldenMismatch(t *testing.T) {
	dir := copyScenarios(t)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "golden"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "golden", "unknown_feature.golden"), []byte(`{}`), 0644))

	out, err := executeTest(t, &RootOptions{Format: "text", Registry: testCatalogDir}, dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "Golden file mismatch")
}

func TestTestCommand_FailingScenario(t *testing.T) {
	dir := t.TempDir()
	src := `name: wrong_expectation
description: "Expects a feature the flags never enable"
flags: []
expect:
  StrictConcurrency: enabled
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "wrong.yaml"), []byte(src), 0644))

	out, err := executeTest(t, &RootOptions{Format: "json", Registry: testCatalogDir}, dir)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	var resp struct {
		Status string     `json:"status"`
		Data   TestResult `json:"data"`
		Error  *CLIError  `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, 1, resp.Data.Failed)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeTestFailed, resp.Error.Code)
	require.Len(t, resp.Data.Scenarios, 1)
	assert.Contains(t, resp.Data.Scenarios[0].Errors[0], `feature "StrictConcurrency" is off, want enabled`)
}

func TestTestCommand_InvalidScenario(t *testing.T) {
	dir := t.TempDir()
	src := `name: broken
description: "Uses the wrong key for the language mode"
flags:
  - flag: language-version
    value: "6"
expect:
  AsyncAwait: enabled
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.yaml"), []byte(src), 0644))

	out, err := executeTest(t, &RootOptions{Format: "text", Registry: testCatalogDir}, dir)
	require.Error(t, err)
	assert.Contains(t, out, "Load error")
	assert.Contains(t, out, "use language_version")
}

func TestGoldenFilePath(t *testing.T) {
	assert.Equal(t, filepath.Join("a", "golden", "b.golden"), goldenFilePath(filepath.Join("a", "b.yaml")))
}

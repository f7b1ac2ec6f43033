package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Hooo1941/cwe-checker/internal/pcode"
)

func runExportCommand(t *testing.T, format string, args ...string) (string, error) {
	t.Helper()

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: format}
	cmd := NewExportCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)

	err := cmd.Execute()
	return buf.String(), err
}

func TestExportText(t *testing.T) {
	output, err := runExportCommand(t, "text", "testdata/simple_copy_dump.json")
	require.NoError(t, err)

	assert.Contains(t, output, "✓ Exported 1 function(s), 2 operation(s)")
	assert.Contains(t, output, "example.bin")
}

func TestExportJSON(t *testing.T) {
	output, err := runExportCommand(t, "json", "testdata/simple_copy_dump.json")
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(output), &resp))
	assert.Equal(t, "ok", resp.Status)

	data, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "example.bin", data["program"])
	assert.Equal(t, float64(2), data["operation_count"])
	assert.Len(t, data["digest"], 64)
}

func TestExportWritesOutputFile(t *testing.T) {
	outPath := filepath.Join(t.TempDir(), "records.json")

	_, err := runExportCommand(t, "text", "testdata/simple_copy_dump.json", "-o", outPath)
	require.NoError(t, err)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)

	var prog pcode.ProgramRecord
	require.NoError(t, json.Unmarshal(data, &prog))
	assert.Equal(t, "example.bin", prog.Program)
	assert.Equal(t, 2, prog.OperationCount())
}

func TestExportMissingDump(t *testing.T) {
	output, err := runExportCommand(t, "text", "testdata/nope.json")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, output, ErrCodeNotFound)
}

func TestExportBadFormatVersion(t *testing.T) {
	badPath := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(badPath, []byte(`{"format": "99", "program": "x"}`), 0644))

	output, err := runExportCommand(t, "text", badPath)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, output, ErrCodeParseFailed)
}

func TestExportResolutionFailure(t *testing.T) {
	output, err := runExportCommand(t, "text", "testdata/broken_dump.json")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err), "resolution failures exit 1, not 2")
	assert.Contains(t, output, "✗ Export failed")
	assert.Contains(t, output, "unknown register location")
}

func TestExportResolutionFailureJSON(t *testing.T) {
	output, err := runExportCommand(t, "json", "testdata/broken_dump.json")
	require.Error(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(output), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeExportFailed, resp.Error.Code)
}

func TestExportToStore(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "pcode.db")

	// First export stores the program.
	output, err := runExportCommand(t, "json", "testdata/simple_copy_dump.json", "--db", dbPath)
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(output), &resp))
	data := resp.Data.(map[string]any)
	assert.Equal(t, true, data["stored"])

	// Second export of the same dump dedupes on digest.
	output, err = runExportCommand(t, "json", "testdata/simple_copy_dump.json", "--db", dbPath)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(output), &resp))
	data = resp.Data.(map[string]any)
	_, stored := data["stored"]
	assert.False(t, stored, "duplicate import reports stored=false (omitted from JSON)")
}

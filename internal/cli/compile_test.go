package cli

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/msgidl/msgidl/internal/config"
	"github.com/msgidl/msgidl/internal/ir"
)

var schemasDir = filepath.Join("testdata", "schemas")

// runCompileCmd executes the compile command and returns stdout.
func runCompileCmd(t *testing.T, opts *RootOptions, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := NewCompileCommand(opts)
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

// decodeCompileResult decodes the data of a JSON compile response.
func decodeCompileResult(t *testing.T, out string) CompilationResult {
	t.Helper()
	var resp struct {
		Status string            `json:"status"`
		Data   CompilationResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Equal(t, "ok", resp.Status)
	return resp.Data
}

func TestCompileValidSchemas(t *testing.T) {
	out, err := runCompileCmd(t, &RootOptions{Format: "text"}, schemasDir)
	require.NoError(t, err)

	assert.Contains(t, out, "✓ Compiled 2 file(s)")
	assert.Contains(t, out, `(global): namespace "shop", 2 message(s), 1 exception(s), 1 enum(s), 1 service(s), 1 application(s)`)
	assert.NotContains(t, out, "Recorded build")
}

func TestCompileValidSchemasJSON(t *testing.T) {
	out, err := runCompileCmd(t, &RootOptions{Format: "json"}, schemasDir)
	require.NoError(t, err)

	result := decodeCompileResult(t, out)
	assert.Equal(t, []string{
		filepath.Join(schemasDir, "01_types.yaml"),
		filepath.Join(schemasDir, "02_services.cue"),
	}, result.Files)
	assert.Len(t, result.SourceHash, 64)
	require.Len(t, result.Specs, 1)
	assert.Equal(t, "", result.Specs[0].Lang)
	assert.Equal(t, "shop", result.Specs[0].Namespace)
	assert.Len(t, result.Specs[0].SpecHash, 64)
	assert.Equal(t, 2, result.Specs[0].Messages, "exceptions count as messages")
	assert.Equal(t, 1, result.Specs[0].Exceptions)
	assert.Empty(t, result.BuildID)
}

func TestCompileLanguages(t *testing.T) {
	t.Run("lang flag", func(t *testing.T) {
		out, err := runCompileCmd(t, &RootOptions{Format: "json"}, schemasDir, "--lang", "java", "--lang", "java")
		require.NoError(t, err)

		result := decodeCompileResult(t, out)
		require.Len(t, result.Specs, 1)
		assert.Equal(t, "java", result.Specs[0].Lang)
		assert.Equal(t, "com.example.shop", result.Specs[0].Namespace)
	})

	t.Run("unknown lang uses global namespace", func(t *testing.T) {
		out, err := runCompileCmd(t, &RootOptions{Format: "json"}, schemasDir, "--lang", "python")
		require.NoError(t, err)

		result := decodeCompileResult(t, out)
		require.Len(t, result.Specs, 1)
		assert.Equal(t, "shop", result.Specs[0].Namespace)
	})

	t.Run("all langs", func(t *testing.T) {
		out, err := runCompileCmd(t, &RootOptions{Format: "json"}, schemasDir, "--all-langs")
		require.NoError(t, err)

		result := decodeCompileResult(t, out)
		require.Len(t, result.Specs, 2)
		assert.Equal(t, "", result.Specs[0].Lang)
		assert.Equal(t, "java", result.Specs[1].Lang)
		assert.NotEqual(t, result.Specs[0].SpecHash, result.Specs[1].SpecHash)
	})

	t.Run("config languages", func(t *testing.T) {
		cfg := config.Default()
		cfg.Languages = []string{"java"}
		out, err := runCompileCmd(t, &RootOptions{Format: "json", Config: &cfg}, schemasDir)
		require.NoError(t, err)

		result := decodeCompileResult(t, out)
		require.Len(t, result.Specs, 1)
		assert.Equal(t, "java", result.Specs[0].Lang)
	})
}

func TestCompileSchemasFromConfig(t *testing.T) {
	dir := t.TempDir()
	data, err := os.ReadFile(filepath.Join(schemasDir, "01_types.yaml"))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "types.yaml"), data, 0644))

	cfgPath := filepath.Join(dir, config.FileName)
	require.NoError(t, os.WriteFile(cfgPath, []byte("schemas = [\"types.yaml\"]\n"), 0644))
	cfg, err := config.Load(cfgPath)
	require.NoError(t, err)

	out, err := runCompileCmd(t, &RootOptions{Format: "json", Config: &cfg})
	require.NoError(t, err)

	result := decodeCompileResult(t, out)
	assert.Equal(t, []string{filepath.Join(dir, "types.yaml")}, result.Files)
}

func TestCompileOutputToFile(t *testing.T) {
	outputFile := filepath.Join(t.TempDir(), "spec.json")

	out, err := runCompileCmd(t, &RootOptions{Format: "text"}, schemasDir, "--output", outputFile)
	require.NoError(t, err)
	assert.Contains(t, out, "wrote "+outputFile)

	data, err := os.ReadFile(outputFile)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, []any{"shop"}, doc["namespace"])
}

func TestCompileOutputToDirectory(t *testing.T) {
	outputDir := filepath.Join(t.TempDir(), "out")

	out, err := runCompileCmd(t, &RootOptions{Format: "json"}, schemasDir, "--all-langs", "-o", outputDir)
	require.NoError(t, err)

	result := decodeCompileResult(t, out)
	require.Len(t, result.Specs, 2)
	assert.Equal(t, filepath.Join(outputDir, "spec.json"), result.Specs[0].Output)
	assert.Equal(t, filepath.Join(outputDir, "spec.java.json"), result.Specs[1].Output)

	data, err := os.ReadFile(filepath.Join(outputDir, "spec.java.json"))
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, []any{"com", "example", "shop"}, doc["namespace"])
}

func TestCompileOutputMatchesCanonicalIndent(t *testing.T) {
	outputFile := filepath.Join(t.TempDir(), "spec.json")
	out, err := runCompileCmd(t, &RootOptions{Format: "json"}, schemasDir, "-o", outputFile)
	require.NoError(t, err)
	result := decodeCompileResult(t, out)

	data, err := os.ReadFile(outputFile)
	require.NoError(t, err)

	var compact bytes.Buffer
	require.NoError(t, json.Compact(&compact, data))
	assert.Equal(t, result.Specs[0].SpecHash, hashCanonical(t, compact.Bytes()))
}

// hashCanonical recomputes the spec hash of a compact canonical document.
func hashCanonical(t *testing.T, data []byte) string {
	t.Helper()
	h := sha256.New()
	h.Write([]byte(ir.DomainSpec))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

func TestCompileRecord(t *testing.T) {
	storePath := filepath.Join(t.TempDir(), "nested", "builds.db")
	opts := &RootOptions{Format: "json", StorePath: storePath}

	out, err := runCompileCmd(t, opts, schemasDir, "--record")
	require.NoError(t, err)
	first := decodeCompileResult(t, out)
	assert.NotEmpty(t, first.BuildID)
	assert.Equal(t, int64(1), first.Seq)
	assert.Empty(t, first.Specs[0].UnchangedSince)

	out, err = runCompileCmd(t, opts, schemasDir, "--record")
	require.NoError(t, err)
	second := decodeCompileResult(t, out)
	assert.NotEqual(t, first.BuildID, second.BuildID)
	assert.Equal(t, int64(2), second.Seq)
	assert.Equal(t, first.BuildID, second.Specs[0].UnchangedSince)
}

func TestCompileRecordText(t *testing.T) {
	opts := &RootOptions{Format: "text", StorePath: filepath.Join(t.TempDir(), "builds.db")}

	out, err := runCompileCmd(t, opts, schemasDir, "--record")
	require.NoError(t, err)
	assert.Contains(t, out, "Recorded build ")
	assert.Contains(t, out, "(seq 1)")
}

func TestCompileEvaluationError(t *testing.T) {
	out, err := runCompileCmd(t, &RootOptions{Format: "text"}, filepath.Join("testdata", "invalid"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	assert.Contains(t, out, "✗ Compilation failed")
	assert.Contains(t, out, ErrCodeNameNotFound)
	assert.Contains(t, out, "Customer")
}

func TestCompileEvaluationErrorJSON(t *testing.T) {
	out, err := runCompileCmd(t, &RootOptions{Format: "json"}, filepath.Join("testdata", "invalid"))
	require.Error(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeNameNotFound, resp.Error.Code)
}

func TestCompileDecodeError(t *testing.T) {
	out, err := runCompileCmd(t, &RootOptions{Format: "text"}, filepath.Join("testdata", "broken"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	assert.Contains(t, out, filepath.Join("testdata", "broken", "bad_key.yaml")+":")
	assert.Contains(t, out, ErrCodeLoadFailed)
	assert.Contains(t, out, "colour")
}

func TestCompileMissingPath(t *testing.T) {
	out, err := runCompileCmd(t, &RootOptions{Format: "json"}, filepath.Join("testdata", "nope"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeNotFound, resp.Error.Code)
}

func TestCompileNoPaths(t *testing.T) {
	out, err := runCompileCmd(t, &RootOptions{Format: "text"})
	require.Error(t, err)
	assert.Contains(t, out, ErrCodeNoFiles)
}

func TestCompileStrictInt(t *testing.T) {
	dir := t.TempDir()
	schema := "decls:\n  - message:\n      name: Small\n      fields:\n        - {id: 1, type: byte, name: b, value: 300}\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "small.yaml"), []byte(schema), 0644))

	_, err := runCompileCmd(t, &RootOptions{Format: "text"}, dir)
	require.NoError(t, err)

	out, err := runCompileCmd(t, &RootOptions{Format: "text"}, dir, "--strict-int")
	require.Error(t, err)
	assert.Contains(t, out, ErrCodeTypeMismatch)

	cfg := config.Default()
	cfg.StrictIntegerRange = true
	_, err = runCompileCmd(t, &RootOptions{Format: "text", Config: &cfg}, dir)
	require.Error(t, err)

	_, err = runCompileCmd(t, &RootOptions{Format: "text", Config: &cfg}, dir, "--strict-int=false")
	require.NoError(t, err)
}

func TestSpecFileName(t *testing.T) {
	assert.Equal(t, "spec.json", specFileName(""))
	assert.Equal(t, "spec.go.json", specFileName("go"))
}

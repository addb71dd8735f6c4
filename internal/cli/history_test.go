package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs cmd with args and returns stdout.
func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

// recordSchema writes schema to dir/schema.yaml and records a build of it.
func recordSchema(t *testing.T, opts *RootOptions, dir, schema string) CompilationResult {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "schema.yaml"), []byte(schema), 0644))

	jsonOpts := *opts
	jsonOpts.Format = "json"
	out, err := runCompileCmd(t, &jsonOpts, dir, "--all-langs", "--record")
	require.NoError(t, err)
	return decodeCompileResult(t, out)
}

const schemaV1 = `decls:
  - namespace: {scopes: [shop]}
  - namespace: {scopes: [shop, gen], lang: go}
  - message:
      name: Order
      fields:
        - {id: 1, type: long, name: id}
`

const schemaV2 = `decls:
  - namespace: {scopes: [shop]}
  - namespace: {scopes: [shop, gen], lang: go}
  - message:
      name: Order
      fields:
        - {id: 1, type: long, name: id}
        - {id: 2, type: string, name: note, optional: true}
`

func newHistoryFixture(t *testing.T) (*RootOptions, CompilationResult, CompilationResult) {
	t.Helper()
	opts := &RootOptions{Format: "text", StorePath: filepath.Join(t.TempDir(), "builds.db")}
	dir := t.TempDir()
	first := recordSchema(t, opts, dir, schemaV1)
	second := recordSchema(t, opts, dir, schemaV2)
	return opts, first, second
}

func TestShowLatest(t *testing.T) {
	opts, _, second := newHistoryFixture(t)

	out, err := execute(t, NewShowCommand(opts))
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, []any{"shop"}, doc["namespace"])
	assert.Contains(t, out, `"note"`)
	assert.Contains(t, out, "\n  ")

	out, err = execute(t, NewShowCommand(opts), second.BuildID)
	require.NoError(t, err)
	assert.Contains(t, out, `"note"`)
}

func TestShowBuildAndLang(t *testing.T) {
	opts, first, _ := newHistoryFixture(t)

	out, err := execute(t, NewShowCommand(opts), first.BuildID, "--lang", "go")
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, []any{"shop", "gen"}, doc["namespace"])
	assert.NotContains(t, out, `"note"`)
}

func TestShowJSON(t *testing.T) {
	opts, first, _ := newHistoryFixture(t)
	opts.Format = "json"

	out, err := execute(t, NewShowCommand(opts), first.BuildID)
	require.NoError(t, err)

	var resp struct {
		Status string     `json:"status"`
		Data   ShowResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, first.BuildID, resp.Data.BuildID)
	assert.Equal(t, int64(1), resp.Data.Seq)
	assert.Equal(t, "shop", resp.Data.Namespace)
	assert.Equal(t, first.Specs[0].SpecHash, resp.Data.SpecHash)
	assert.True(t, json.Valid(resp.Data.Document))
}

func TestShowErrors(t *testing.T) {
	t.Run("no store", func(t *testing.T) {
		opts := &RootOptions{Format: "text", StorePath: filepath.Join(t.TempDir(), "missing.db")}
		out, err := execute(t, NewShowCommand(opts))
		require.Error(t, err)
		assert.Equal(t, ExitCommandError, GetExitCode(err))
		assert.Contains(t, out, "Error ["+ErrCodeNotFound+"]")
	})

	t.Run("unknown build", func(t *testing.T) {
		opts, _, _ := newHistoryFixture(t)
		out, err := execute(t, NewShowCommand(opts), "nope")
		require.Error(t, err)
		assert.Contains(t, out, "build not found: nope")
	})

	t.Run("unknown lang", func(t *testing.T) {
		opts, _, _ := newHistoryFixture(t)
		out, err := execute(t, NewShowCommand(opts), "latest", "--lang", "rust")
		require.Error(t, err)
		assert.Contains(t, out, "no spec for language rust")
	})
}

func TestBuildsList(t *testing.T) {
	opts, first, second := newHistoryFixture(t)

	out, err := execute(t, NewBuildsCommand(opts))
	require.NoError(t, err)
	assert.Contains(t, out, "SEQ")
	assert.Contains(t, out, first.BuildID)
	assert.Contains(t, out, second.BuildID)
	assert.Contains(t, out, "(global),go")

	opts.Format = "json"
	out, err = execute(t, NewBuildsCommand(opts))
	require.NoError(t, err)

	var resp struct {
		Status string         `json:"status"`
		Data   []BuildSummary `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Len(t, resp.Data, 2)
	assert.Equal(t, first.BuildID, resp.Data[0].ID)
	assert.Equal(t, int64(2), resp.Data[1].Seq)
	assert.Equal(t, first.SourceHash, resp.Data[0].SourceHash)
	assert.Len(t, resp.Data[0].Sources, 1)
	assert.Equal(t, map[string]string{
		"":   first.Specs[0].SpecHash,
		"go": first.Specs[1].SpecHash,
	}, resp.Data[0].Specs)
}

func TestBuildsEmptyStore(t *testing.T) {
	storePath := filepath.Join(t.TempDir(), "builds.db")
	opts := &RootOptions{Format: "text", StorePath: storePath}

	_, err := execute(t, NewBuildsCommand(opts))
	require.Error(t, err)

	// An empty file opens as a fresh store.
	require.NoError(t, os.WriteFile(storePath, nil, 0644))
	out, err := execute(t, NewBuildsCommand(opts))
	require.NoError(t, err)
	assert.Contains(t, out, "No builds recorded")
}

func TestDiff(t *testing.T) {
	opts, first, second := newHistoryFixture(t)

	out, err := execute(t, NewDiffCommand(opts), first.BuildID, "latest")
	require.NoError(t, err)
	assert.Contains(t, out, "--- build 1 ("+first.BuildID+")")
	assert.Contains(t, out, "+++ build 2 ("+second.BuildID+")")
	assert.Contains(t, out, `+`)
	assert.Contains(t, out, `"note"`)

	out, err = execute(t, NewDiffCommand(opts), "latest", "latest", "--lang", "go")
	require.NoError(t, err)
	assert.Equal(t, "No differences (go)\n", out)
}

func TestDiffJSON(t *testing.T) {
	opts, first, second := newHistoryFixture(t)
	opts.Format = "json"

	out, err := execute(t, NewDiffCommand(opts), first.BuildID, second.BuildID)
	require.NoError(t, err)

	var resp struct {
		Status string     `json:"status"`
		Data   DiffResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, first.BuildID, resp.Data.From)
	assert.Equal(t, second.BuildID, resp.Data.To)
	assert.False(t, resp.Data.Identical)
	assert.Contains(t, resp.Data.Diff, "@@")
}

func TestDiffRequiresTwoBuilds(t *testing.T) {
	opts := &RootOptions{Format: "text"}
	_, err := execute(t, NewDiffCommand(opts), "latest")
	require.Error(t, err)
}

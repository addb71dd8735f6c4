package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/msgidl/msgidl/internal/ast"
	"github.com/msgidl/msgidl/internal/compiler"
	"github.com/msgidl/msgidl/internal/ir"
	tu "github.com/msgidl/msgidl/internal/testutil"
)

// createTestStore creates a new store in a temporary directory.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestBuild creates a build with predictable id and seq.
func createTestBuild(gen BuildIDGenerator, clock *tu.DeterministicClock, sources ...string) Build {
	return NewBuild(gen, clock.Next(), sources, "source-hash")
}

// compileTestSpec compiles a small schema for lang.
func compileTestSpec(t *testing.T, lang string) *ir.Spec {
	t.Helper()
	doc := tu.Doc(
		&ast.Namespace{Scopes: []string{"demo"}},
		&ast.Namespace{Scopes: []string{"demo", "gen"}, Lang: "go"},
		tu.Msg("User", tu.F(1, tu.T("string"), "name")),
	)
	spec, err := compiler.Compile(doc, lang)
	if err != nil {
		t.Fatalf("Compile() failed: %v", err)
	}
	return spec
}

// recordTestBuild records a build with a spec for each lang.
func recordTestBuild(t *testing.T, s *Store, b Build, langs ...string) []StoredSpec {
	t.Helper()
	specs := make(map[string]*ir.Spec, len(langs))
	for _, lang := range langs {
		specs[lang] = compileTestSpec(t, lang)
	}
	_, stored, err := s.RecordCompilation(context.Background(), b, specs)
	if err != nil {
		t.Fatalf("RecordCompilation() failed: %v", err)
	}
	return stored
}

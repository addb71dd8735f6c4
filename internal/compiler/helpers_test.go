package compiler

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/msgidl/msgidl/internal/ast"
	"github.com/msgidl/msgidl/internal/ir"
)

// newTestEvaluator returns an evaluator that discards its logs.
func newTestEvaluator(opts ...EvaluatorOption) *Evaluator {
	quiet := WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	return New(append([]EvaluatorOption{quiet}, opts...)...)
}

// mustLink evaluates decls, links, and fails the test on any error.
func mustLink(t *testing.T, decls ...ast.Decl) *Evaluator {
	t.Helper()
	e := newTestEvaluator()
	require.NoError(t, e.Evaluate(ast.Document(decls)))
	require.NoError(t, e.Link())
	return e
}

// evalAndLink returns the first error from evaluation or linking.
func evalAndLink(decls ...ast.Decl) error {
	e := newTestEvaluator()
	if err := e.Evaluate(ast.Document(decls)); err != nil {
		return err
	}
	return e.Link()
}

// mustSpec links decls and assembles the spec for the global namespace.
func mustSpec(t *testing.T, decls ...ast.Decl) *ir.Spec {
	t.Helper()
	spec, err := mustLink(t, decls...).Spec("")
	require.NoError(t, err)
	return spec
}

// functionNames returns the names of the functions of v in order.
func functionNames(v *ir.ServiceVersion) []string {
	names := make([]string, len(v.Functions))
	for i, fn := range v.Functions {
		names[i] = fn.Signature().Name
	}
	return names
}

// fieldIDs returns the ids of fields in order.
func fieldIDs(fields []*ir.Field) []int64 {
	ids := make([]int64, len(fields))
	for i, f := range fields {
		ids[i] = f.ID
	}
	return ids
}

// requireKind asserts err carries kind.
func requireKind(t *testing.T, err error, kind ErrorKind) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, kind, KindOf(err), "error: %v", err)
}

package compiler

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/msgidl/msgidl/internal/ast"
	tu "github.com/msgidl/msgidl/internal/testutil"
)

func TestCompileErrorMessage(t *testing.T) {
	err := newError(KindNameNotFound, "type not found %q", "Foo")

	assert.Equal(t, `type not found "Foo"`, err.Error())
	assert.Equal(t, KindNameNotFound, err.Kind)
}

func TestContextErrorFormat(t *testing.T) {
	msg := tu.Msg("User", tu.F(1, tu.T("Foo"), "foo"))
	err := withContext(newError(KindNameNotFound, "type not found %q", "Foo"), msg)

	want := "type not found \"Foo\"\n\nwhile processing:\n  message User {\n      1: Foo foo\n  }"
	assert.Equal(t, want, err.Error())
	assert.True(t, IsKind(err, KindNameNotFound))
}

func TestContextErrorNests(t *testing.T) {
	field := tu.F(1, tu.T("Foo"), "foo")
	msg := tu.Msg("User", field)
	inner := withContext(newError(KindNameNotFound, "type not found %q", "Foo"), field)
	err := withContext(inner, msg)

	assert.Equal(t, 2, strings.Count(err.Error(), "while processing:"))
	assert.Equal(t, KindNameNotFound, KindOf(err))

	var ce *ContextError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, ast.Summary(msg), ce.Summary)
}

func TestContextErrorTruncatesLongDeclarations(t *testing.T) {
	var fields []*ast.Field
	for i := int64(1); i <= 8; i++ {
		fields = append(fields, tu.F(i, tu.T("int"), fmt.Sprintf("f%d", i)))
	}
	err := withContext(newError(KindTypeMismatch, "bad"), tu.Msg("Wide", fields...))

	want := "bad\n\nwhile processing:\n" +
		"  message Wide {\n" +
		"      1: int f1\n" +
		"      2: int f2\n" +
		"      3: int f3\n" +
		"      ...\n" +
		"  }"
	assert.Equal(t, want, err.Error())
}

func TestWithContextLeavesInternalErrors(t *testing.T) {
	bug := malformed("nil field")
	err := withContext(bug, tu.Msg("M"))

	assert.Same(t, bug, err)
	assert.Equal(t, "BUG: malformed input: nil field", err.Error())
	assert.True(t, IsMalformed(err))
	assert.Equal(t, KindMalformedInput, KindOf(err))
}

func TestWithContextNil(t *testing.T) {
	assert.NoError(t, withContext(nil, tu.Msg("M")))
}

func TestKindOfForeignError(t *testing.T) {
	assert.Equal(t, ErrorKind(""), KindOf(errors.New("other")))
	assert.False(t, IsKind(nil, KindNameNotFound))
	assert.False(t, IsMalformed(fmt.Errorf("wrapped: %w", newError(KindTypeMismatch, "x"))))
	assert.True(t, IsKind(fmt.Errorf("wrapped: %w", newError(KindTypeMismatch, "x")), KindTypeMismatch))
}

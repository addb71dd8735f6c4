package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/msgidl/msgidl/internal/ast"
	"github.com/msgidl/msgidl/internal/ir"
	tu "github.com/msgidl/msgidl/internal/testutil"
)

func TestFieldsSortedByID(t *testing.T) {
	spec := mustSpec(t, tu.Msg("M",
		tu.F(5, tu.T("int"), "e"),
		tu.F(2, tu.T("int"), "b"),
		tu.Opt(9, tu.T("string"), "i"),
	))

	m := spec.Messages()[0]
	assert.Equal(t, []int64{2, 5, 9}, fieldIDs(m.NewFields))
	assert.Equal(t, []int64{2, 5, 9}, fieldIDs(m.AllFields))
	assert.Equal(t, int64(9), m.MaxID)
	assert.Equal(t, int64(5), m.MaxRequiredID)
	assert.True(t, m.Field(9).IsOptional())
}

func TestAllFieldsIsUnionOfSuperAndNew(t *testing.T) {
	spec := mustSpec(t,
		tu.Msg("Base", tu.F(3, tu.T("int"), "x"), tu.F(1, tu.T("int"), "y")),
		tu.SubMsg("Mid", "Base", tu.F(2, tu.T("string"), "z")),
		tu.SubMsg("Leaf", "Mid", tu.Opt(7, tu.T("bool"), "w")),
	)

	msgs := spec.Messages()
	require.Len(t, msgs, 3)
	mid, leaf := msgs[1], msgs[2]

	assert.Equal(t, []int64{2}, fieldIDs(mid.NewFields))
	assert.Equal(t, []int64{1, 2, 3}, fieldIDs(mid.AllFields))
	assert.Same(t, msgs[0], mid.Super)

	assert.Equal(t, []int64{7}, fieldIDs(leaf.NewFields))
	assert.Equal(t, []int64{1, 2, 3, 7}, fieldIDs(leaf.AllFields))
	assert.Equal(t, int64(7), leaf.MaxID)
	assert.Equal(t, int64(3), leaf.MaxRequiredID)

	for _, m := range msgs {
		ids := make(map[int64]bool)
		names := make(map[string]bool)
		for _, f := range m.AllFields {
			assert.False(t, ids[f.ID], "duplicate id %d in %s", f.ID, m.Name)
			assert.False(t, names[f.Name], "duplicate name %s in %s", f.Name, m.Name)
			ids[f.ID] = true
			names[f.Name] = true
		}
	}
}

func TestFieldIDMustBePositive(t *testing.T) {
	tests := []struct {
		name string
		decl ast.Decl
	}{
		{"message id 0", tu.Msg("M", tu.F(0, tu.T("int"), "a"))},
		{"message negative id", tu.Msg("M", tu.F(-1, tu.T("int"), "a"))},
		{"exception id 0", tu.Exc("E", tu.F(1, tu.T("int"), "a"), tu.F(0, tu.T("int"), "b"))},
		{"argument id 0", tu.Svc("S", 0, tu.Fn(tu.T("void"), "f", tu.F(0, tu.T("int"), "a")))},
		{"argument negative id", tu.Svc("S", 0, tu.Fn(tu.T("void"), "f", tu.F(-5, tu.T("int"), "a")))},
		{"inherit signature id 0", tu.Svc("S", 0, tu.InheritSig(tu.T("void"), "f", tu.F(0, tu.T("int"), "a")))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := newTestEvaluator().EvaluateOne(tt.decl)
			requireKind(t, err, KindInvalidIdentifier)
		})
	}
}

func TestFieldIDZeroRejectedWithSuper(t *testing.T) {
	err := evalAndLink(
		tu.Msg("Base", tu.F(1, tu.T("int"), "a")),
		tu.SubMsg("Sub", "Base", tu.F(0, tu.T("int"), "b")),
	)
	requireKind(t, err, KindInvalidIdentifier)
}

func TestFieldDuplicates(t *testing.T) {
	tests := []struct {
		name string
		decl ast.Decl
		msg  string
	}{
		{
			"duplicate id",
			tu.Msg("M", tu.F(1, tu.T("int"), "a"), tu.F(1, tu.T("int"), "b")),
			`duplicated field id 1 (already used by "a")`,
		},
		{
			"duplicate name",
			tu.Msg("M", tu.F(1, tu.T("int"), "a"), tu.F(2, tu.T("string"), "a")),
			`duplicated field name "a"`,
		},
		{
			"duplicate argument",
			tu.Svc("S", 0, tu.Fn(tu.T("void"), "f", tu.F(1, tu.T("int"), "a"), tu.F(1, tu.T("int"), "b"))),
			`duplicated argument id 1`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := newTestEvaluator().EvaluateOne(tt.decl)
			requireKind(t, err, KindDuplicatedName)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestFieldCollidesWithAncestor(t *testing.T) {
	tests := []struct {
		name string
		sub  ast.Decl
		msg  string
	}{
		{"id of parent", tu.SubMsg("C", "B", tu.F(2, tu.T("int"), "c")), `field id 2 is already used by "b" of super type B`},
		{"id of grandparent", tu.SubMsg("C", "B", tu.F(1, tu.T("int"), "c")), `field id 1 is already used by "a" of super type B`},
		{"name of grandparent", tu.SubMsg("C", "B", tu.F(9, tu.T("int"), "a")), `field name "a" is already used by super type B`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := evalAndLink(
				tu.Msg("A", tu.F(1, tu.T("int"), "a")),
				tu.SubMsg("B", "A", tu.F(2, tu.T("int"), "b")),
				tt.sub,
			)
			requireKind(t, err, KindInheritanceViolation)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestLocalDuplicateReportedBeforeAncestorCollision(t *testing.T) {
	err := evalAndLink(
		tu.Msg("A", tu.F(1, tu.T("int"), "a")),
		tu.SubMsg("B", "A", tu.F(2, tu.T("int"), "b"), tu.F(2, tu.T("int"), "a")),
	)
	requireKind(t, err, KindDuplicatedName)
}

func TestFieldValues(t *testing.T) {
	spec := mustSpec(t,
		tu.Enum("Color", "RED", "GREEN"),
		tu.Msg("M",
			tu.F(1, tu.T("int"), "count"),
			tu.F(2, tu.N("int"), "maybe"),
			tu.FV(3, tu.T("long"), "limit", ast.ConstLiteral{Name: "LONG_MAX"}),
			tu.FV(4, tu.T("Color"), "color", ast.EnumLiteral{Enum: "Color", Member: "GREEN"}),
			tu.F(5, tu.T("Color"), "fallback"),
			tu.F(6, tu.G("list", tu.T("string")), "tags"),
			tu.FV(7, tu.T("bool"), "on", ast.BoolLiteral{Value: true}),
		),
	)

	m := spec.Messages()[0]
	assert.Equal(t, "0", m.Field(1).Value.String())
	assert.Equal(t, ir.NilValue{}, m.Field(2).Value, "nullable int defaults to nil, not 0")
	assert.Equal(t, "9223372036854775807", m.Field(3).Value.String())
	assert.Equal(t, "Color.GREEN", m.Field(4).Value.String())
	assert.Equal(t, "Color.RED", m.Field(5).Value.String())
	assert.Equal(t, ir.EmptyValue{}, m.Field(6).Value)
	assert.Equal(t, ir.True, m.Field(7).Value)
}

func TestFieldErrorsCarryFieldAndDeclaration(t *testing.T) {
	err := newTestEvaluator().EvaluateOne(tu.Msg("M", tu.F(1, tu.T("Foo"), "foo")))

	want := "type not found \"Foo\"\n\n" +
		"while processing:\n  1: Foo foo\n\n" +
		"while processing:\n  message M {\n      1: Foo foo\n  }"
	assert.Equal(t, want, err.Error())
}

func TestNilFieldIsMalformed(t *testing.T) {
	err := newTestEvaluator().EvaluateOne(&ast.Message{Name: "M", Fields: []*ast.Field{nil}})
	assert.True(t, IsMalformed(err))
	assert.NotContains(t, err.Error(), "while processing")

	err = newTestEvaluator().EvaluateOne(tu.Msg("M", tu.F(1, nil, "a")))
	assert.True(t, IsMalformed(err))
}

func TestEnumMembers(t *testing.T) {
	spec := mustSpec(t, &ast.Enum{Name: "E", Members: []*ast.EnumMember{
		{ID: 2, Name: "TWO"},
		{ID: 0, Name: "ZERO"},
		{ID: 1, Name: "ONE"},
	}})

	e := spec.Enums()[0]
	require.Len(t, e.Members, 3)
	assert.Equal(t, "ZERO", e.Members[0].Name)
	assert.Equal(t, "ONE", e.Members[1].Name)
	assert.Equal(t, "TWO", e.Members[2].Name)
	assert.Equal(t, "ZERO", e.First().Name)
}

func TestEnumMemberErrors(t *testing.T) {
	tests := []struct {
		name    string
		members []*ast.EnumMember
		kind    ErrorKind
	}{
		{"negative id", []*ast.EnumMember{{ID: -1, Name: "A"}}, KindInvalidIdentifier},
		{"duplicate id", []*ast.EnumMember{{ID: 1, Name: "A"}, {ID: 1, Name: "B"}}, KindDuplicatedName},
		{"duplicate name", []*ast.EnumMember{{ID: 1, Name: "A"}, {ID: 2, Name: "A"}}, KindDuplicatedName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := newTestEvaluator().EvaluateOne(&ast.Enum{Name: "E", Members: tt.members})
			requireKind(t, err, tt.kind)
			assert.Contains(t, err.Error(), "while processing:\n  enum E {")
		})
	}
}

func TestRecordsCannotReferToThemselves(t *testing.T) {
	err := evalAndLink(tu.Msg("Node", tu.F(1, tu.N("Node"), "next")))
	requireKind(t, err, KindNameNotFound)

	err = evalAndLink(
		tu.Msg("A", tu.F(1, tu.T("B"), "b")),
		tu.Msg("B"),
	)
	requireKind(t, err, KindNameNotFound)
}

func TestSuperTypeRules(t *testing.T) {
	tests := []struct {
		name  string
		decls []ast.Decl
		kind  ErrorKind
	}{
		{"message extends exception", []ast.Decl{tu.Exc("E"), tu.SubMsg("M", "E")}, KindInheritanceViolation},
		{"exception extends message", []ast.Decl{tu.Msg("M"), tu.SubExc("E", "M")}, KindInheritanceViolation},
		{"message extends enum", []ast.Decl{tu.Enum("C", "A"), tu.SubMsg("M", "C")}, KindInheritanceViolation},
		{"message extends primitive", []ast.Decl{tu.SubMsg("M", "int")}, KindInheritanceViolation},
		{"unknown super", []ast.Decl{tu.SubMsg("M", "Nope")}, KindNameNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			requireKind(t, evalAndLink(tt.decls...), tt.kind)
		})
	}
}

func TestExceptionHierarchy(t *testing.T) {
	spec := mustSpec(t,
		tu.Exc("Base", tu.F(1, tu.T("string"), "reason")),
		tu.SubExc("NotFound", "Base", tu.F(2, tu.T("string"), "key")),
	)

	excs := spec.Exceptions()
	require.Len(t, excs, 2)
	assert.True(t, excs[1].IsException())
	assert.Equal(t, []int64{1, 2}, fieldIDs(excs[1].AllFields))
	assert.Equal(t, excs, spec.Messages())
}

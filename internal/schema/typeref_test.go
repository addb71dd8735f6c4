package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/msgidl/msgidl/internal/ast"
)

func TestParseTypeRef(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"int", "int"},
		{"User?", "User?"},
		{" string ", "string"},
		{"list<int>", "list<int>"},
		{"map<string, list<int?>>?", "map<string,list<int?>>?"},
		{"nullable<User>", "nullable<User>"},
		{"_Private1", "_Private1"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			ref, err := ParseTypeRef(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, ref.Text())
		})
	}
}

func TestParseTypeRef_Shapes(t *testing.T) {
	ref, err := ParseTypeRef("map<string,User?>?")
	require.NoError(t, err)

	g, ok := ref.(*ast.GenericType)
	require.True(t, ok)
	assert.Equal(t, "map", g.Name)
	assert.True(t, g.Nullable)
	require.Len(t, g.Params, 2)
	assert.Equal(t, &ast.SimpleType{Name: "string"}, g.Params[0])
	assert.Equal(t, &ast.SimpleType{Name: "User", Nullable: true}, g.Params[1])
}

func TestParseTypeRef_Errors(t *testing.T) {
	for _, input := range []string{"", "list<", "list<int", "map<int,>", "int??", "1abc", "a b", "list<>"} {
		t.Run(input, func(t *testing.T) {
			_, err := ParseTypeRef(input)
			assert.Error(t, err)
		})
	}
}

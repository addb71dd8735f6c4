package schema

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/msgidl/msgidl/internal/ast"
)

// ParseLiteral parses an initializer value: nil, true, false, an integer
// (decimal, 0x, 0o or 0b, underscores allowed), a named constant such as
// INT_MAX, an enum member such as Color.RED, or a double-quoted string.
func ParseLiteral(s string) (ast.Literal, error) {
	s = strings.TrimSpace(s)
	switch s {
	case "":
		return nil, fmt.Errorf("empty literal")
	case "nil", "null":
		return ast.NilLiteral{}, nil
	case "true":
		return ast.BoolLiteral{Value: true}, nil
	case "false":
		return ast.BoolLiteral{Value: false}, nil
	}

	if s[0] == '"' {
		v, err := strconv.Unquote(s)
		if err != nil {
			return nil, fmt.Errorf("invalid string literal %s: %w", s, err)
		}
		return ast.StringLiteral{Value: v}, nil
	}

	if c := s[0]; c == '-' || c == '+' || (c >= '0' && c <= '9') {
		n, ok := new(big.Int).SetString(s, 0)
		if !ok {
			return nil, fmt.Errorf("invalid integer literal %q", s)
		}
		return ast.IntLiteral{Value: n}, nil
	}

	if enum, member, found := strings.Cut(s, "."); found {
		if !isIdent(enum) || !isIdent(member) {
			return nil, fmt.Errorf("invalid enum literal %q", s)
		}
		return ast.EnumLiteral{Enum: enum, Member: member}, nil
	}

	if !isIdent(s) {
		return nil, fmt.Errorf("invalid literal %q", s)
	}
	return ast.ConstLiteral{Name: s}, nil
}

package ast

import (
	"math/big"
	"strconv"
)

// Literal is an initializer value written in the schema.
type Literal interface {
	Node
	literal()
}

// NilLiteral is "nil".
type NilLiteral struct{}

func (NilLiteral) literal()     {}
func (NilLiteral) Text() string { return "nil" }

// BoolLiteral is "true" or "false".
type BoolLiteral struct {
	Value bool
}

func (BoolLiteral) literal()       {}
func (l BoolLiteral) Text() string { return strconv.FormatBool(l.Value) }

// IntLiteral is an integer of any width.
type IntLiteral struct {
	Value *big.Int
}

// Int returns an IntLiteral for n.
func Int(n int64) IntLiteral { return IntLiteral{Value: big.NewInt(n)} }

func (IntLiteral) literal() {}

func (l IntLiteral) Text() string {
	if l.Value == nil {
		return "0"
	}
	return l.Value.String()
}

// ConstLiteral names a built-in constant such as INT_MAX.
type ConstLiteral struct {
	Name string
}

func (ConstLiteral) literal()       {}
func (l ConstLiteral) Text() string { return l.Name }

// EnumLiteral references a member of an enum, written "Enum.MEMBER".
type EnumLiteral struct {
	Enum   string
	Member string
}

func (EnumLiteral) literal()       {}
func (l EnumLiteral) Text() string { return l.Enum + "." + l.Member }

// StringLiteral is a quoted string.
type StringLiteral struct {
	Value string
}

func (StringLiteral) literal()       {}
func (l StringLiteral) Text() string { return strconv.Quote(l.Value) }

package ir

import (
	"math/big"
	"strconv"
)

// Value is a resolved field or argument value.
// Only NilValue, BoolValue, IntValue, EnumValue and EmptyValue implement it.
type Value interface {
	String() string
	irValue()
}

// NilValue is the value of a nullable field without a payload.
type NilValue struct{}

func (NilValue) irValue()       {}
func (NilValue) String() string { return "nil" }

// BoolValue is true or false.
type BoolValue bool

// Boolean values.
const (
	True  BoolValue = true
	False BoolValue = false
)

func (BoolValue) irValue()         {}
func (b BoolValue) String() string { return strconv.FormatBool(bool(b)) }

// IntValue is an integer of arbitrary precision.
type IntValue struct {
	V *big.Int
}

// NewIntValue returns an IntValue holding n.
func NewIntValue(n int64) IntValue { return IntValue{V: big.NewInt(n)} }

func (IntValue) irValue() {}

func (i IntValue) String() string {
	if i.V == nil {
		return "0"
	}
	return i.V.String()
}

// EnumValue selects a member of an enum.
type EnumValue struct {
	Enum   *Enum
	Member *EnumMember
}

func (EnumValue) irValue()         {}
func (e EnumValue) String() string { return e.Enum.Name + "." + e.Member.Name }

// EmptyValue stands for the natural empty value of a type without a zero
// literal, such as a message, list or map. Generators decide how to build it.
type EmptyValue struct{}

func (EmptyValue) irValue()       {}
func (EmptyValue) String() string { return "<empty>" }

// ValueEqual compares two values structurally.
func ValueEqual(a, b Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch x := a.(type) {
	case NilValue:
		_, ok := b.(NilValue)
		return ok
	case EmptyValue:
		_, ok := b.(EmptyValue)
		return ok
	case BoolValue:
		y, ok := b.(BoolValue)
		return ok && x == y
	case IntValue:
		y, ok := b.(IntValue)
		return ok && intOf(x).Cmp(intOf(y)) == 0
	case EnumValue:
		y, ok := b.(EnumValue)
		return ok && x.Enum.Name == y.Enum.Name && x.Member.ID == y.Member.ID && x.Member.Name == y.Member.Name
	default:
		return false
	}
}

func intOf(v IntValue) *big.Int {
	if v.V == nil {
		return new(big.Int)
	}
	return v.V
}

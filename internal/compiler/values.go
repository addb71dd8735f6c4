package compiler

import (
	"math/big"

	"github.com/msgidl/msgidl/internal/ast"
	"github.com/msgidl/msgidl/internal/ir"
)

// builtinConstant returns the value of a named integer constant such as
// INT_MAX. Each call returns a fresh big.Int.
func builtinConstant(name string) (*big.Int, bool) {
	signedMax := func(bits uint) *big.Int {
		return new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), bits-1), big.NewInt(1))
	}
	signedMin := func(bits uint) *big.Int {
		return new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), bits-1))
	}
	unsignedMax := func(bits uint) *big.Int {
		return new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), bits), big.NewInt(1))
	}

	switch name {
	case "BYTE_MAX":
		return signedMax(8), true
	case "SHORT_MAX":
		return signedMax(16), true
	case "INT_MAX":
		return signedMax(32), true
	case "LONG_MAX":
		return signedMax(64), true
	case "UBYTE_MAX":
		return unsignedMax(8), true
	case "USHORT_MAX":
		return unsignedMax(16), true
	case "UINT_MAX":
		return unsignedMax(32), true
	case "ULONG_MAX":
		return unsignedMax(64), true
	case "BYTE_MIN":
		return signedMin(8), true
	case "SHORT_MIN":
		return signedMin(16), true
	case "INT_MIN":
		return signedMin(32), true
	case "LONG_MIN":
		return signedMin(64), true
	}
	return nil, false
}

// integerBounds returns the inclusive range of an integer primitive.
func integerBounds(name string) (lo, hi *big.Int) {
	switch name {
	case "byte", "short", "int", "long":
		prefix := map[string]string{"byte": "BYTE", "short": "SHORT", "int": "INT", "long": "LONG"}[name]
		lo, _ = builtinConstant(prefix + "_MIN")
		hi, _ = builtinConstant(prefix + "_MAX")
	default:
		prefix := map[string]string{"ubyte": "UBYTE", "ushort": "USHORT", "uint": "UINT", "ulong": "ULONG"}[name]
		lo = new(big.Int)
		hi, _ = builtinConstant(prefix + "_MAX")
	}
	return lo, hi
}

// resolveLiteral converts lit into a value and checks it against expected.
func (e *Evaluator) resolveLiteral(expected ir.Type, lit ast.Literal) (ir.Value, error) {
	if c, ok := lit.(ast.ConstLiteral); ok {
		n, found := builtinConstant(c.Name)
		if !found {
			return nil, newError(KindNameNotFound, "unknown constant %q", c.Name)
		}
		lit = ast.IntLiteral{Value: n}
	}

	var v ir.Value
	switch l := lit.(type) {
	case ast.NilLiteral:
		v = ir.NilValue{}
	case ast.BoolLiteral:
		v = ir.BoolValue(l.Value)
	case ast.IntLiteral:
		if l.Value == nil {
			return nil, malformed("integer literal without a value")
		}
		v = ir.IntValue{V: new(big.Int).Set(l.Value)}
	case ast.EnumLiteral:
		t, ok := e.registry.lookup(l.Enum)
		if !ok {
			return nil, newError(KindNameNotFound, "type not found %q", l.Enum)
		}
		enum, ok := t.(*ir.Enum)
		if !ok {
			return nil, newError(KindNameNotFound, "not an enum type %q", l.Enum)
		}
		member := enum.Member(l.Member)
		if member == nil {
			return nil, newError(KindNameNotFound, "no such member in enum %q: %s", l.Enum, l.Member)
		}
		v = ir.EnumValue{Enum: enum, Member: member}
	case ast.StringLiteral:
		return nil, newError(KindTypeMismatch, "string literals are not supported as initial values: %s", l.Text())
	case nil:
		return nil, malformed("missing literal")
	default:
		return nil, malformed("unknown literal %T", lit)
	}

	if err := e.checkAssignable(expected, v); err != nil {
		return nil, err
	}
	return v, nil
}

// checkAssignable enforces that nil goes only to nullable types, that a
// nullable type takes nothing but nil, and that ints, bools and enum members
// target a matching type.
func (e *Evaluator) checkAssignable(t ir.Type, v ir.Value) error {
	if ir.IsNullable(t) {
		if _, isNil := v.(ir.NilValue); !isNil {
			return newError(KindTypeMismatch, "non-null value for nullable type %s is not allowed", t)
		}
		return nil
	}

	switch val := v.(type) {
	case ir.NilValue:
		return newError(KindTypeMismatch, "assigning null to non-nullable type %s", t)
	case ir.IntValue:
		if !ir.IsInteger(t) {
			return newError(KindTypeMismatch, "integer type is expected: %s", t)
		}
		if e.strictIntegers {
			lo, hi := integerBounds(t.TypeName())
			if val.V.Cmp(lo) < 0 || val.V.Cmp(hi) > 0 {
				return newError(KindTypeMismatch, "value %s is out of range for %s", val.V, t)
			}
		}
	case ir.BoolValue:
		if !ir.IsBool(t) {
			return newError(KindTypeMismatch, "bool type is expected: %s", t)
		}
	case ir.EnumValue:
		enum, ok := t.(*ir.Enum)
		if !ok || enum.Name != val.Enum.Name {
			return newError(KindTypeMismatch, "enum %s is expected: %s", val.Enum.Name, t)
		}
	}
	return nil
}

// implicitDefault is the value of a field declared without an initializer.
func (e *Evaluator) implicitDefault(t ir.Type) (ir.Value, error) {
	switch {
	case ir.IsNullable(t):
		return ir.NilValue{}, nil
	case ir.IsInteger(t):
		return ir.NewIntValue(0), nil
	case ir.IsBool(t):
		return ir.False, nil
	}
	if enum, ok := t.(*ir.Enum); ok {
		first := enum.First()
		if first == nil {
			return nil, newError(KindTypeMismatch, "empty enum is not allowed: enum %s", enum.Name)
		}
		return ir.EnumValue{Enum: enum, Member: first}, nil
	}
	return ir.EmptyValue{}, nil
}

package ir

import "strings"

// Type is a resolved type. Implemented by *PrimitiveType, *TypeParameterSymbol,
// *ParameterizedType, *NullableType, *Message and *Enum.
type Type interface {
	// TypeName is the declared or template name, without arguments.
	TypeName() string
	// String renders the type the way it is written in a schema.
	String() string
	irType()
}

// PrimitiveType is a built-in scalar type. Obtain instances from Primitives.
type PrimitiveType struct {
	name string
}

func (*PrimitiveType) irType()            {}
func (p *PrimitiveType) TypeName() string { return p.name }
func (p *PrimitiveType) String() string   { return p.name }

// TypeParameterSymbol is a symbolic parameter of a generic template, such as
// the E of list<E>. It never appears in a resolved field type.
type TypeParameterSymbol struct {
	Name string
}

func (*TypeParameterSymbol) irType()            {}
func (s *TypeParameterSymbol) TypeName() string { return s.Name }
func (s *TypeParameterSymbol) String() string   { return s.Name }

// GenericType is a template with a fixed number of symbolic parameters. It is
// not a Type itself; only its instances are. Nullable marks the built-in
// nullable<T> template.
type GenericType struct {
	Name     string
	Params   []*TypeParameterSymbol
	Nullable bool
}

// NewGenericType creates a template named name with the given parameter names.
func NewGenericType(name string, params ...string) *GenericType {
	g := &GenericType{Name: name, Params: make([]*TypeParameterSymbol, len(params))}
	for i, p := range params {
		g.Params[i] = &TypeParameterSymbol{Name: p}
	}
	return g
}

// Arity returns the number of type parameters.
func (g *GenericType) Arity() int { return len(g.Params) }

// Accepts reports whether args can be bound to this template: the arity must
// match and every argument must be concrete.
func (g *GenericType) Accepts(args []Type) bool {
	if len(args) != len(g.Params) {
		return false
	}
	for _, a := range args {
		if _, symbolic := a.(*TypeParameterSymbol); symbolic {
			return false
		}
	}
	return true
}

func (g *GenericType) String() string {
	names := make([]string, len(g.Params))
	for i, p := range g.Params {
		names[i] = p.Name
	}
	return g.Name + "<" + strings.Join(names, ",") + ">"
}

// ParameterizedType binds concrete arguments to a template.
type ParameterizedType struct {
	Generic *GenericType
	Args    []Type
}

func (*ParameterizedType) irType()            {}
func (p *ParameterizedType) TypeName() string { return p.Generic.Name }

func (p *ParameterizedType) String() string {
	args := make([]string, len(p.Args))
	for i, a := range p.Args {
		args[i] = a.String()
	}
	return p.Generic.Name + "<" + strings.Join(args, ",") + ">"
}

// NullableType is nullable<T> with exactly one argument. The registry never
// wraps a type that is already nullable.
type NullableType struct {
	ParameterizedType
}

// NewNullableType wraps elem in the nullable template. It does not normalize;
// callers check IsNullable first.
func NewNullableType(template *GenericType, elem Type) *NullableType {
	return &NullableType{ParameterizedType{Generic: template, Args: []Type{elem}}}
}

// Elem returns the wrapped type.
func (n *NullableType) Elem() Type { return n.Args[0] }

func (n *NullableType) String() string { return n.Elem().String() + "?" }

// IsNullable reports whether t is a NullableType.
func IsNullable(t Type) bool {
	_, ok := t.(*NullableType)
	return ok
}

// RealType strips one level of nullability.
func RealType(t Type) Type {
	if n, ok := t.(*NullableType); ok {
		return n.Elem()
	}
	return t
}

// integerNames lists the eight integer primitives.
var integerNames = map[string]bool{
	"byte": true, "short": true, "int": true, "long": true,
	"ubyte": true, "ushort": true, "uint": true, "ulong": true,
}

// IsInteger reports whether t is one of the integer primitives.
func IsInteger(t Type) bool {
	p, ok := t.(*PrimitiveType)
	return ok && integerNames[p.name]
}

// IsBool reports whether t is the bool primitive.
func IsBool(t Type) bool {
	p, ok := t.(*PrimitiveType)
	return ok && p.name == "bool"
}

// IsVoid reports whether t is the void primitive.
func IsVoid(t Type) bool {
	p, ok := t.(*PrimitiveType)
	return ok && p.name == "void"
}

// IsList reports whether t is a list<E> instance.
func IsList(t Type) bool {
	p, ok := t.(*ParameterizedType)
	return ok && p.Generic.Name == "list"
}

// IsMap reports whether t is a map<K,V> instance.
func IsMap(t Type) bool {
	p, ok := t.(*ParameterizedType)
	return ok && p.Generic.Name == "map"
}

// TypeEqual compares two types structurally. Primitive and declared types
// compare by name; parameterized types compare template and arguments in
// order.
func TypeEqual(a, b Type) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch x := a.(type) {
	case *PrimitiveType:
		y, ok := b.(*PrimitiveType)
		return ok && x.name == y.name
	case *TypeParameterSymbol:
		y, ok := b.(*TypeParameterSymbol)
		return ok && x.Name == y.Name
	case *ParameterizedType:
		y, ok := b.(*ParameterizedType)
		return ok && x.Generic.Name == y.Generic.Name && typesEqual(x.Args, y.Args)
	case *NullableType:
		y, ok := b.(*NullableType)
		return ok && TypeEqual(x.Elem(), y.Elem())
	case *Message:
		y, ok := b.(*Message)
		return ok && x.Name == y.Name && x.exception == y.exception
	case *Enum:
		y, ok := b.(*Enum)
		return ok && x.Name == y.Name
	default:
		return false
	}
}

func typesEqual(a, b []Type) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !TypeEqual(a[i], b[i]) {
			return false
		}
	}
	return true
}

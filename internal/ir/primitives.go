package ir

// PrimitiveNames lists the built-in scalar types in declaration order.
var PrimitiveNames = []string{
	"byte", "short", "int", "long",
	"ubyte", "ushort", "uint", "ulong",
	"float", "double", "bool", "raw", "string", "void",
}

// Primitives is the immutable set of built-in types owned by one evaluator.
type Primitives struct {
	byName   map[string]*PrimitiveType
	list     *GenericType
	mapT     *GenericType
	nullable *GenericType
}

// NewPrimitives builds a fresh set of primitive types and templates.
func NewPrimitives() *Primitives {
	p := &Primitives{byName: make(map[string]*PrimitiveType, len(PrimitiveNames))}
	for _, name := range PrimitiveNames {
		p.byName[name] = &PrimitiveType{name: name}
	}
	p.list = NewGenericType("list", "E")
	p.mapT = NewGenericType("map", "K", "V")
	p.nullable = NewGenericType("nullable", "T")
	p.nullable.Nullable = true
	return p
}

// Lookup returns the primitive called name.
func (p *Primitives) Lookup(name string) (*PrimitiveType, bool) {
	t, ok := p.byName[name]
	return t, ok
}

// MustLookup is like Lookup but panics for unknown names.
// Use only in tests or with names from PrimitiveNames.
func (p *Primitives) MustLookup(name string) *PrimitiveType {
	t, ok := p.byName[name]
	if !ok {
		panic("unknown primitive type: " + name)
	}
	return t
}

// Void returns the void primitive.
func (p *Primitives) Void() *PrimitiveType { return p.byName["void"] }

// List returns the list<E> template.
func (p *Primitives) List() *GenericType { return p.list }

// Map returns the map<K,V> template.
func (p *Primitives) Map() *GenericType { return p.mapT }

// Nullable returns the nullable<T> template.
func (p *Primitives) Nullable() *GenericType { return p.nullable }

// Templates returns the built-in templates.
func (p *Primitives) Templates() []*GenericType {
	return []*GenericType{p.list, p.mapT, p.nullable}
}

// ListOf builds list<elem>.
func (p *Primitives) ListOf(elem Type) *ParameterizedType {
	return &ParameterizedType{Generic: p.list, Args: []Type{elem}}
}

// MapOf builds map<key,value>.
func (p *Primitives) MapOf(key, value Type) *ParameterizedType {
	return &ParameterizedType{Generic: p.mapT, Args: []Type{key, value}}
}

// NullableOf returns t wrapped as nullable, or t itself when it already is.
func (p *Primitives) NullableOf(t Type) Type {
	if IsNullable(t) {
		return t
	}
	return NewNullableType(p.nullable, t)
}

package ast

import "strings"

// TypeRef is a reference to a type by name, as written in the schema.
type TypeRef interface {
	Node
	TypeName() string
	IsNullable() bool
	typeRef()
}

// SimpleType is a plain type name such as "int" or "User?".
type SimpleType struct {
	Name     string
	Nullable bool
}

func (*SimpleType) typeRef()           {}
func (t *SimpleType) TypeName() string { return t.Name }
func (t *SimpleType) IsNullable() bool { return t.Nullable }

func (t *SimpleType) Text() string {
	if t.Nullable {
		return t.Name + "?"
	}
	return t.Name
}

// GenericType is a template application such as "map<string,int>".
type GenericType struct {
	Name     string
	Params   []TypeRef
	Nullable bool
}

func (*GenericType) typeRef()           {}
func (t *GenericType) TypeName() string { return t.Name }
func (t *GenericType) IsNullable() bool { return t.Nullable }

func (t *GenericType) Text() string {
	params := make([]string, len(t.Params))
	for i, p := range t.Params {
		params[i] = p.Text()
	}
	s := t.Name + "<" + strings.Join(params, ",") + ">"
	if t.Nullable {
		s += "?"
	}
	return s
}

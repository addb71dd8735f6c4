package ast

import "strings"

// BodyItem is an entry of a service body: a function or an inherit directive.
type BodyItem interface {
	Node
	AcceptBody(v BodyVisitor) error
	bodyItem()
}

// BodyVisitor has one method per service body item kind.
type BodyVisitor interface {
	VisitFunc(*Func) error
	VisitInheritAll(*InheritAll) error
	VisitInheritName(*InheritName) error
	VisitInheritFunc(*InheritFunc) error
}

// Func declares a function. Throws lists exception type names.
type Func struct {
	Name       string
	ReturnType TypeRef
	Args       []*Field
	Throws     []string
}

func (*Func) bodyItem()                        {}
func (f *Func) AcceptBody(v BodyVisitor) error { return v.VisitFunc(f) }
func (f *Func) Text() string                   { return signatureText(f.Name, f.ReturnType, f.Args, f.Throws) }

// InheritAll carries over every function of the preceding version.
type InheritAll struct{}

func (*InheritAll) bodyItem()                        {}
func (i *InheritAll) AcceptBody(v BodyVisitor) error { return v.VisitInheritAll(i) }
func (*InheritAll) Text() string                     { return "inherit *" }

// InheritName carries over the most recent function called Name.
type InheritName struct {
	Name string
}

func (*InheritName) bodyItem()                        {}
func (i *InheritName) AcceptBody(v BodyVisitor) error { return v.VisitInheritName(i) }
func (i *InheritName) Text() string                   { return "inherit " + i.Name }

// InheritFunc carries over a function and asserts its signature.
type InheritFunc struct {
	Name       string
	ReturnType TypeRef
	Args       []*Field
	Throws     []string
}

func (*InheritFunc) bodyItem()                        {}
func (i *InheritFunc) AcceptBody(v BodyVisitor) error { return v.VisitInheritFunc(i) }

func (i *InheritFunc) Text() string {
	return "inherit " + signatureText(i.Name, i.ReturnType, i.Args, i.Throws)
}

func signatureText(name string, ret TypeRef, args []*Field, throws []string) string {
	var b strings.Builder
	if ret != nil {
		b.WriteString(ret.Text() + " ")
	}
	b.WriteString(name + "(")
	for i, a := range args {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(a.Text())
	}
	b.WriteString(")")
	if len(throws) > 0 {
		b.WriteString(" throws " + strings.Join(throws, ", "))
	}
	return b.String()
}

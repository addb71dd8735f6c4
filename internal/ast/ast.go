package ast

import (
	"fmt"
	"strings"
)

// Node is implemented by every syntax tree element.
type Node interface {
	Text() string
}

// Document is an ordered sequence of top-level declarations.
type Document []Decl

// Decl is a top-level declaration.
type Decl interface {
	Node
	Accept(v DeclVisitor) error
	decl()
}

// DeclVisitor has one method per declaration kind.
type DeclVisitor interface {
	VisitNamespace(*Namespace) error
	VisitMessage(*Message) error
	VisitException(*Exception) error
	VisitEnum(*Enum) error
	VisitService(*Service) error
	VisitApplication(*Application) error
}

// Namespace declares the package path for generated code. Lang is empty for
// the global namespace.
type Namespace struct {
	Scopes []string
	Lang   string
}

func (*Namespace) decl()                        {}
func (n *Namespace) Accept(v DeclVisitor) error { return v.VisitNamespace(n) }

func (n *Namespace) Text() string {
	if n.Lang != "" {
		return fmt.Sprintf("namespace %s %s", n.Lang, strings.Join(n.Scopes, "."))
	}
	return "namespace " + strings.Join(n.Scopes, ".")
}

// Message declares a record type. Super is nil when the message has no
// super type.
type Message struct {
	Name   string
	Super  TypeRef
	Fields []*Field
}

func (*Message) decl()                        {}
func (m *Message) Accept(v DeclVisitor) error { return v.VisitMessage(m) }
func (m *Message) Text() string               { return recordText("message", m.Name, m.Super, m.Fields) }

// Exception declares a throwable record type.
type Exception struct {
	Name   string
	Super  TypeRef
	Fields []*Field
}

func (*Exception) decl()                        {}
func (e *Exception) Accept(v DeclVisitor) error { return v.VisitException(e) }
func (e *Exception) Text() string               { return recordText("exception", e.Name, e.Super, e.Fields) }

func recordText(keyword, name string, super TypeRef, fields []*Field) string {
	var b strings.Builder
	b.WriteString(keyword + " " + name)
	if super != nil {
		b.WriteString(" < " + super.Text())
	}
	b.WriteString(" {\n")
	for _, f := range fields {
		b.WriteString("    " + f.Text() + "\n")
	}
	b.WriteString("}")
	return b.String()
}

// Field is a message field or a function argument.
type Field struct {
	ID       int64
	Type     TypeRef
	Optional bool
	Name     string
	Value    Literal // nil when no initializer is given
}

func (f *Field) Text() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d: ", f.ID)
	if f.Optional {
		b.WriteString("optional ")
	}
	if f.Type != nil {
		b.WriteString(f.Type.Text())
	}
	b.WriteString(" " + f.Name)
	if f.Value != nil {
		b.WriteString(" = " + f.Value.Text())
	}
	return b.String()
}

// Enum declares an enumeration.
type Enum struct {
	Name    string
	Members []*EnumMember
}

func (*Enum) decl()                        {}
func (e *Enum) Accept(v DeclVisitor) error { return v.VisitEnum(e) }

func (e *Enum) Text() string {
	var b strings.Builder
	b.WriteString("enum " + e.Name + " {\n")
	for _, m := range e.Members {
		b.WriteString("    " + m.Text() + "\n")
	}
	b.WriteString("}")
	return b.String()
}

// EnumMember is one {id, name} entry of an enum.
type EnumMember struct {
	ID   int64
	Name string
}

func (m *EnumMember) Text() string { return fmt.Sprintf("%d: %s", m.ID, m.Name) }

// Service declares one version of a service. A nil Version means version 0.
type Service struct {
	Name    string
	Version *int64
	Body    []BodyItem
}

func (*Service) decl()                        {}
func (s *Service) Accept(v DeclVisitor) error { return v.VisitService(s) }

// VersionNumber returns the declared version, or 0 when none was given.
func (s *Service) VersionNumber() int64 {
	if s.Version == nil {
		return 0
	}
	return *s.Version
}

func (s *Service) Text() string {
	var b strings.Builder
	b.WriteString("service " + s.Name)
	if s.Version != nil {
		fmt.Fprintf(&b, ":%d", *s.Version)
	}
	b.WriteString(" {\n")
	for _, item := range s.Body {
		b.WriteString("    " + item.Text() + "\n")
	}
	b.WriteString("}")
	return b.String()
}

// Application binds service versions under scope names.
type Application struct {
	Name   string
	Scopes []*Scope
}

func (*Application) decl()                        {}
func (a *Application) Accept(v DeclVisitor) error { return v.VisitApplication(a) }

func (a *Application) Text() string {
	var b strings.Builder
	b.WriteString("application " + a.Name + " {\n")
	for _, sc := range a.Scopes {
		b.WriteString("    " + sc.Text() + "\n")
	}
	b.WriteString("}")
	return b.String()
}

// Scope binds Service at Version under Name inside an application.
type Scope struct {
	Service string
	Version int64
	Name    string
	Default bool
}

func (s *Scope) Text() string {
	t := fmt.Sprintf("%s:%d %s", s.Service, s.Version, s.Name)
	if s.Default {
		t += " default"
	}
	return t
}

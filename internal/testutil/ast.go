package testutil

import "github.com/msgidl/msgidl/internal/ast"

// AST builders keep evaluator tests short. They build exactly the shapes the
// schema decoders produce.

// T returns a simple type reference.
func T(name string) *ast.SimpleType {
	return &ast.SimpleType{Name: name}
}

// N returns a nullable simple type reference ("name?").
func N(name string) *ast.SimpleType {
	return &ast.SimpleType{Name: name, Nullable: true}
}

// G returns a generic type reference such as list<string>.
func G(name string, params ...ast.TypeRef) *ast.GenericType {
	return &ast.GenericType{Name: name, Params: params}
}

// NG returns a nullable generic type reference.
func NG(name string, params ...ast.TypeRef) *ast.GenericType {
	return &ast.GenericType{Name: name, Params: params, Nullable: true}
}

// F returns a required field without an initializer.
func F(id int64, typ ast.TypeRef, name string) *ast.Field {
	return &ast.Field{ID: id, Type: typ, Name: name}
}

// Opt returns an optional field without an initializer.
func Opt(id int64, typ ast.TypeRef, name string) *ast.Field {
	return &ast.Field{ID: id, Type: typ, Name: name, Optional: true}
}

// FV returns a required field with an initializer.
func FV(id int64, typ ast.TypeRef, name string, value ast.Literal) *ast.Field {
	return &ast.Field{ID: id, Type: typ, Name: name, Value: value}
}

// Msg returns a message declaration without a super type.
func Msg(name string, fields ...*ast.Field) *ast.Message {
	return &ast.Message{Name: name, Fields: fields}
}

// SubMsg returns a message declaration extending super.
func SubMsg(name, super string, fields ...*ast.Field) *ast.Message {
	return &ast.Message{Name: name, Super: T(super), Fields: fields}
}

// Exc returns an exception declaration without a super type.
func Exc(name string, fields ...*ast.Field) *ast.Exception {
	return &ast.Exception{Name: name, Fields: fields}
}

// SubExc returns an exception declaration extending super.
func SubExc(name, super string, fields ...*ast.Field) *ast.Exception {
	return &ast.Exception{Name: name, Super: T(super), Fields: fields}
}

// Enum returns an enum whose members are numbered from 1 in order.
func Enum(name string, members ...string) *ast.Enum {
	e := &ast.Enum{Name: name}
	for i, m := range members {
		e.Members = append(e.Members, &ast.EnumMember{ID: int64(i + 1), Name: m})
	}
	return e
}

// Svc returns version v of service name.
func Svc(name string, v int64, body ...ast.BodyItem) *ast.Service {
	return &ast.Service{Name: name, Version: &v, Body: body}
}

// Fn returns a function declaration.
func Fn(ret ast.TypeRef, name string, args ...*ast.Field) *ast.Func {
	return &ast.Func{Name: name, ReturnType: ret, Args: args}
}

// Throws sets the throws list of fn and returns it.
func Throws(fn *ast.Func, exceptions ...string) *ast.Func {
	fn.Throws = exceptions
	return fn
}

// InheritAll returns an "inherit *" directive.
func InheritAll() *ast.InheritAll {
	return &ast.InheritAll{}
}

// Inherit returns an "inherit name" directive.
func Inherit(name string) *ast.InheritName {
	return &ast.InheritName{Name: name}
}

// InheritSig returns an inherit directive carrying an expected signature.
func InheritSig(ret ast.TypeRef, name string, args ...*ast.Field) *ast.InheritFunc {
	return &ast.InheritFunc{Name: name, ReturnType: ret, Args: args}
}

// App returns an application declaration.
func App(name string, scopes ...*ast.Scope) *ast.Application {
	return &ast.Application{Name: name, Scopes: scopes}
}

// Scope returns a scope binding service:version under name.
func Scope(service string, version int64, name string, isDefault bool) *ast.Scope {
	return &ast.Scope{Service: service, Version: version, Name: name, Default: isDefault}
}

// Doc collects declarations into a document.
func Doc(decls ...ast.Decl) ast.Document {
	return ast.Document(decls)
}

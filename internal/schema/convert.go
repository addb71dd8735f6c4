package schema

import (
	"errors"
	"fmt"
	"slices"

	"cuelang.org/go/cue"

	"github.com/msgidl/msgidl/internal/ast"
)

// errNoKind and errManyKinds describe a declaration or body item that does
// not hold exactly one entry.
var (
	errNoKind    = errors.New("entry must have exactly one key")
	errManyKinds = errors.New("entry has more than one key")
)

// converter turns raw decoded shapes into AST nodes. locate maps a path to
// a source position; it may return zeros when positions are unknown.
type converter struct {
	file   string
	locate func(cue.Path) (line, column int)
}

// fail wraps err with the file, path and position of the offending entry.
func (c *converter) fail(path []cue.Selector, err error) error {
	p := cue.MakePath(path...)
	de := &DecodeError{File: c.file, Path: p.String(), Err: err}
	if c.locate != nil {
		de.Line, de.Column = c.locate(p)
	}
	return de
}

// at appends selectors to a copy of path.
func at(path []cue.Selector, sels ...cue.Selector) []cue.Selector {
	return append(slices.Clip(path), sels...)
}

func (c *converter) document(raw rawDocument) (ast.Document, error) {
	doc := ast.Document{}
	for i, rd := range raw.Decls {
		decl, err := c.decl(at(nil, cue.Str("decls"), cue.Index(i)), rd)
		if err != nil {
			return nil, err
		}
		doc = append(doc, decl)
	}
	return doc, nil
}

func (c *converter) decl(path []cue.Selector, rd rawDecl) (ast.Decl, error) {
	var decls []ast.Decl
	var err error
	add := func(d ast.Decl, e error) {
		if err == nil && e != nil {
			err = e
		}
		decls = append(decls, d)
	}

	if rd.Namespace != nil {
		add(&ast.Namespace{Scopes: slices.Clone(rd.Namespace.Scopes), Lang: rd.Namespace.Lang}, nil)
	}
	if rd.Message != nil {
		name, super, fields, e := c.record(at(path, cue.Str("message")), rd.Message)
		add(&ast.Message{Name: name, Super: super, Fields: fields}, e)
	}
	if rd.Exception != nil {
		name, super, fields, e := c.record(at(path, cue.Str("exception")), rd.Exception)
		add(&ast.Exception{Name: name, Super: super, Fields: fields}, e)
	}
	if rd.Enum != nil {
		add(c.enum(rd.Enum), nil)
	}
	if rd.Service != nil {
		svc, e := c.service(at(path, cue.Str("service")), rd.Service)
		add(svc, e)
	}
	if rd.Application != nil {
		add(c.application(rd.Application), nil)
	}

	switch {
	case err != nil:
		return nil, err
	case len(decls) == 0:
		return nil, c.fail(path, errNoKind)
	case len(decls) > 1:
		return nil, c.fail(path, errManyKinds)
	}
	return decls[0], nil
}

func (c *converter) record(path []cue.Selector, r *rawRecord) (string, ast.TypeRef, []*ast.Field, error) {
	var super ast.TypeRef
	if r.Extends != "" {
		t, err := ParseTypeRef(r.Extends)
		if err != nil {
			return "", nil, nil, c.fail(at(path, cue.Str("extends")), err)
		}
		super = t
	}
	fields, err := c.fields(at(path, cue.Str("fields")), r.Fields)
	if err != nil {
		return "", nil, nil, err
	}
	return r.Name, super, fields, nil
}

func (c *converter) fields(path []cue.Selector, raw []rawField) ([]*ast.Field, error) {
	var fields []*ast.Field
	for i, rf := range raw {
		fp := at(path, cue.Index(i))
		typ, err := ParseTypeRef(rf.Type)
		if err != nil {
			return nil, c.fail(at(fp, cue.Str("type")), err)
		}
		f := &ast.Field{ID: rf.ID, Type: typ, Optional: rf.Optional, Name: rf.Name}
		switch {
		case rf.Value.null:
			f.Value = ast.NilLiteral{}
		case rf.Value.set:
			lit, err := ParseLiteral(rf.Value.text)
			if err != nil {
				return nil, c.fail(at(fp, cue.Str("value")), err)
			}
			f.Value = lit
		}
		fields = append(fields, f)
	}
	return fields, nil
}

func (c *converter) enum(r *rawEnum) *ast.Enum {
	e := &ast.Enum{Name: r.Name}
	for _, m := range r.Members {
		e.Members = append(e.Members, &ast.EnumMember{ID: m.ID, Name: m.Name})
	}
	return e
}

func (c *converter) service(path []cue.Selector, r *rawService) (*ast.Service, error) {
	svc := &ast.Service{Name: r.Name}
	if r.Version != nil {
		v := *r.Version
		svc.Version = &v
	}
	for i, rb := range r.Body {
		item, err := c.bodyItem(at(path, cue.Str("body"), cue.Index(i)), rb)
		if err != nil {
			return nil, err
		}
		svc.Body = append(svc.Body, item)
	}
	return svc, nil
}

func (c *converter) bodyItem(path []cue.Selector, rb rawBodyItem) (ast.BodyItem, error) {
	switch {
	case rb.Func != nil && rb.Inherit != nil:
		return nil, c.fail(path, errManyKinds)
	case rb.Func != nil:
		ret, args, err := c.signature(at(path, cue.Str("func")), rb.Func)
		if err != nil {
			return nil, err
		}
		return &ast.Func{Name: rb.Func.Name, ReturnType: ret, Args: args, Throws: slices.Clone(rb.Func.Throws)}, nil
	case rb.Inherit != nil:
		return c.inherit(at(path, cue.Str("inherit")), rb.Inherit)
	}
	return nil, c.fail(path, errNoKind)
}

func (c *converter) inherit(path []cue.Selector, ri *rawInherit) (ast.BodyItem, error) {
	set := 0
	for _, ok := range []bool{ri.All, ri.Name != "", ri.Func != nil} {
		if ok {
			set++
		}
	}
	if set != 1 {
		return nil, c.fail(path, fmt.Errorf("inherit must have exactly one of all, name or func"))
	}

	switch {
	case ri.All:
		return &ast.InheritAll{}, nil
	case ri.Name != "":
		return &ast.InheritName{Name: ri.Name}, nil
	}
	ret, args, err := c.signature(at(path, cue.Str("func")), ri.Func)
	if err != nil {
		return nil, err
	}
	return &ast.InheritFunc{Name: ri.Func.Name, ReturnType: ret, Args: args, Throws: slices.Clone(ri.Func.Throws)}, nil
}

func (c *converter) signature(path []cue.Selector, rf *rawFunc) (ast.TypeRef, []*ast.Field, error) {
	ret, err := ParseTypeRef(rf.Returns)
	if err != nil {
		return nil, nil, c.fail(at(path, cue.Str("returns")), err)
	}
	args, err := c.fields(at(path, cue.Str("args")), rf.Args)
	if err != nil {
		return nil, nil, err
	}
	return ret, args, nil
}

func (c *converter) application(r *rawApplication) *ast.Application {
	app := &ast.Application{Name: r.Name}
	for _, s := range r.Scopes {
		app.Scopes = append(app.Scopes, &ast.Scope{Service: s.Service, Version: s.Version, Name: s.Name, Default: s.Default})
	}
	return app
}

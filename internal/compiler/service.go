package compiler

import (
	"cmp"
	"slices"

	"github.com/msgidl/msgidl/internal/ast"
	"github.com/msgidl/msgidl/internal/ir"
)

// partialVersion is one service version before linking. Its entries may
// still contain inheritance marks.
type partialVersion struct {
	service string
	version int64
	node    *ast.Service
	entries []versionEntry
}

// versionEntry is a concrete function or an inheritance mark.
type versionEntry interface {
	entryName() string
	versionEntry()
}

type concreteEntry struct {
	fn *ir.Function
}

// inheritAllMark copies every function of the preceding version.
type inheritAllMark struct {
	node *ast.InheritAll
}

// inheritNameMark copies the most recent function called name.
type inheritNameMark struct {
	name string
	node *ast.InheritName
}

// inheritSignatureMark copies the most recent function called name and
// requires it to match signature.
type inheritSignatureMark struct {
	name      string
	signature *ir.Function
	node      *ast.InheritFunc
}

func (c concreteEntry) entryName() string        { return c.fn.Name }
func (inheritAllMark) entryName() string         { return "" }
func (m inheritNameMark) entryName() string      { return m.name }
func (m inheritSignatureMark) entryName() string { return m.name }

func (concreteEntry) versionEntry()        {}
func (inheritAllMark) versionEntry()       {}
func (inheritNameMark) versionEntry()      {}
func (inheritSignatureMark) versionEntry() {}

// serviceDecl collects the versions of one service in declaration order.
type serviceDecl struct {
	name     string
	versions []*partialVersion
}

func (s *serviceDecl) version(n int64) *partialVersion {
	for _, v := range s.versions {
		if v.version == n {
			return v
		}
	}
	return nil
}

// checkServiceVersion declares the service name on its first version and
// rejects a version number seen before.
func (e *Evaluator) checkServiceVersion(s *ast.Service) (*serviceDecl, error) {
	decl, ok := e.serviceDecls[s.Name]
	if !ok {
		if err := e.symbols.declare(s.Name, "service"); err != nil {
			return nil, err
		}
		decl = &serviceDecl{name: s.Name}
		e.serviceDecls[s.Name] = decl
		e.serviceOrder = append(e.serviceOrder, s.Name)
		return decl, nil
	}
	if decl.version(s.VersionNumber()) != nil {
		return nil, newError(KindDuplicatedName, "duplicated version %d of service %q", s.VersionNumber(), s.Name)
	}
	return decl, nil
}

// resolveVersion resolves one service body. Entries are sorted by name with
// inherit-all marks first.
func (e *Evaluator) resolveVersion(s *ast.Service) (*partialVersion, error) {
	br := &bodyResolver{e: e, used: make(map[string]bool)}
	for _, item := range s.Body {
		if item == nil {
			return nil, malformed("nil item in body of service %q", s.Name)
		}
		if err := item.AcceptBody(br); err != nil {
			return nil, withContext(err, item)
		}
	}
	slices.SortStableFunc(br.entries, func(a, b versionEntry) int {
		return cmp.Compare(a.entryName(), b.entryName())
	})
	return &partialVersion{
		service: s.Name,
		version: s.VersionNumber(),
		node:    s,
		entries: br.entries,
	}, nil
}

// bodyResolver turns service body items into version entries.
type bodyResolver struct {
	e       *Evaluator
	used    map[string]bool
	entries []versionEntry
}

func (b *bodyResolver) claim(name string) error {
	if name == "" {
		return malformed("function without a name")
	}
	if b.used[name] {
		return newError(KindDuplicatedName, "duplicated function name %q", name)
	}
	b.used[name] = true
	return nil
}

func (b *bodyResolver) VisitFunc(f *ast.Func) error {
	if err := b.claim(f.Name); err != nil {
		return err
	}
	fn, err := b.e.resolveFunc(f.Name, f.ReturnType, f.Args, f.Throws)
	if err != nil {
		return err
	}
	b.entries = append(b.entries, concreteEntry{fn: fn})
	return nil
}

func (b *bodyResolver) VisitInheritAll(m *ast.InheritAll) error {
	b.entries = append(b.entries, inheritAllMark{node: m})
	return nil
}

func (b *bodyResolver) VisitInheritName(m *ast.InheritName) error {
	if err := b.claim(m.Name); err != nil {
		return err
	}
	b.entries = append(b.entries, inheritNameMark{name: m.Name, node: m})
	return nil
}

func (b *bodyResolver) VisitInheritFunc(m *ast.InheritFunc) error {
	if err := b.claim(m.Name); err != nil {
		return err
	}
	sig, err := b.e.resolveFunc(m.Name, m.ReturnType, m.Args, m.Throws)
	if err != nil {
		return err
	}
	b.entries = append(b.entries, inheritSignatureMark{name: m.Name, signature: sig, node: m})
	return nil
}

// resolveFunc resolves a function signature. A return type spelled "void"
// is the void primitive; void is not valid anywhere else.
func (e *Evaluator) resolveFunc(name string, ret ast.TypeRef, rawArgs []*ast.Field, throws []string) (*ir.Function, error) {
	returnType, err := e.resolveReturnType(ret)
	if err != nil {
		return nil, err
	}
	args, err := e.resolveArgs(rawArgs)
	if err != nil {
		return nil, err
	}
	exceptions, err := e.resolveExceptions(throws)
	if err != nil {
		return nil, err
	}
	return ir.NewFunction(name, returnType, args, exceptions), nil
}

func (e *Evaluator) resolveReturnType(ret ast.TypeRef) (ir.Type, error) {
	if st, ok := ret.(*ast.SimpleType); ok && st != nil && st.Name == "void" {
		if st.Nullable {
			return nil, newError(KindTypeMismatch, "void cannot be nullable")
		}
		return e.prims.Void(), nil
	}
	return e.registry.resolve(ret)
}

// resolveExceptions resolves a throws list in declared order.
func (e *Evaluator) resolveExceptions(names []string) ([]*ir.Message, error) {
	out := make([]*ir.Message, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if name == "" {
			return nil, malformed("empty exception name")
		}
		if seen[name] {
			return nil, newError(KindDuplicatedName, "duplicated exception %q in throws list", name)
		}
		seen[name] = true

		t, ok := e.registry.lookup(name)
		if !ok {
			return nil, newError(KindNameNotFound, "exception not found %q", name)
		}
		m, ok := t.(*ir.Message)
		if !ok || !m.IsException() {
			return nil, newError(KindTypeMismatch, "%s is not an exception", name)
		}
		out = append(out, m)
	}
	return out, nil
}

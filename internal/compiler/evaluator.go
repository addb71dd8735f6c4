package compiler

import (
	"log/slog"

	"github.com/msgidl/msgidl/internal/ast"
	"github.com/msgidl/msgidl/internal/ir"
)

// Evaluator turns AST declarations into linked IR. It owns all state of one
// compilation run and is not safe for concurrent use.
//
// Usage: Evaluate (or EvaluateOne per declaration, in document order), then
// Link once, then Spec for each target language.
type Evaluator struct {
	logger         *slog.Logger
	strictIntegers bool

	prims    *ir.Primitives
	registry *typeRegistry
	symbols  *symbolTable

	namespace      ir.Namespace
	langNamespaces map[string]ir.Namespace
	types          []ir.Type
	serviceDecls   map[string]*serviceDecl
	serviceOrder   []string
	pendingApps    []*pendingApplication

	// Set by Link.
	services     []*ir.Service
	applications []*ir.Application
	linked       bool
}

// EvaluatorOption configures an Evaluator.
type EvaluatorOption func(*Evaluator)

// WithLogger sets the logger for debug records. Default: slog.Default().
func WithLogger(logger *slog.Logger) EvaluatorOption {
	return func(e *Evaluator) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithIntegerRangeCheck rejects integer literals that do not fit the width
// and signedness of their target type. Off by default.
func WithIntegerRangeCheck(enabled bool) EvaluatorOption {
	return func(e *Evaluator) {
		e.strictIntegers = enabled
	}
}

// New creates an Evaluator with a fresh primitive set, type registry and
// symbol table.
func New(opts ...EvaluatorOption) *Evaluator {
	prims := ir.NewPrimitives()
	e := &Evaluator{
		logger:         slog.Default(),
		prims:          prims,
		registry:       newTypeRegistry(prims),
		symbols:        newSymbolTable(prims),
		langNamespaces: make(map[string]ir.Namespace),
		serviceDecls:   make(map[string]*serviceDecl),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Primitives returns the primitive set shared by every type this evaluator
// produces.
func (e *Evaluator) Primitives() *ir.Primitives {
	return e.prims
}

// Evaluate evaluates the declarations of doc in order and stops at the first
// error.
func (e *Evaluator) Evaluate(doc ast.Document) error {
	for _, decl := range doc {
		if err := e.EvaluateOne(decl); err != nil {
			return err
		}
	}
	return nil
}

// EvaluateOne evaluates a single top-level declaration. Errors carry the
// summary of decl.
func (e *Evaluator) EvaluateOne(decl ast.Decl) error {
	if e.linked {
		return ErrAlreadyLinked
	}
	if decl == nil {
		return malformed("nil declaration")
	}
	if err := decl.Accept(declVisitor{e}); err != nil {
		return withContext(err, decl)
	}
	return nil
}

// Compile runs every pass over doc and assembles the spec for lang.
func Compile(doc ast.Document, lang string, opts ...EvaluatorOption) (*ir.Spec, error) {
	e := New(opts...)
	if err := e.Evaluate(doc); err != nil {
		return nil, err
	}
	if err := e.Link(); err != nil {
		return nil, err
	}
	return e.Spec(lang)
}

// declVisitor dispatches top-level declarations.
type declVisitor struct {
	e *Evaluator
}

func (v declVisitor) VisitNamespace(n *ast.Namespace) error {
	ns := ir.Namespace(append([]string(nil), n.Scopes...))
	if n.Lang == "" {
		v.e.namespace = ns
	} else {
		v.e.langNamespaces[n.Lang] = ns
	}
	v.e.logger.Debug("evaluated namespace", "lang", n.Lang, "namespace", ns.String())
	return nil
}

func (v declVisitor) VisitMessage(m *ast.Message) error {
	msg, err := v.e.evalRecord("message", m.Name, m.Super, m.Fields, false)
	if err != nil {
		return err
	}
	v.e.logger.Debug("evaluated message", "name", msg.Name, "fields", len(msg.AllFields))
	return nil
}

func (v declVisitor) VisitException(x *ast.Exception) error {
	msg, err := v.e.evalRecord("exception", x.Name, x.Super, x.Fields, true)
	if err != nil {
		return err
	}
	v.e.logger.Debug("evaluated exception", "name", msg.Name, "fields", len(msg.AllFields))
	return nil
}

func (v declVisitor) VisitEnum(en *ast.Enum) error {
	if err := v.e.symbols.declare(en.Name, "enum"); err != nil {
		return err
	}
	members, err := v.e.resolveEnumMembers(en.Members)
	if err != nil {
		return err
	}
	enum := &ir.Enum{Name: en.Name, Members: members}
	v.e.registry.register(en.Name, enum)
	v.e.types = append(v.e.types, enum)
	v.e.logger.Debug("evaluated enum", "name", enum.Name, "members", len(members))
	return nil
}

func (v declVisitor) VisitService(s *ast.Service) error {
	decl, err := v.e.checkServiceVersion(s)
	if err != nil {
		return err
	}
	pv, err := v.e.resolveVersion(s)
	if err != nil {
		return err
	}
	decl.versions = append(decl.versions, pv)
	v.e.logger.Debug("evaluated service version", "service", s.Name, "version", pv.version, "entries", len(pv.entries))
	return nil
}

func (v declVisitor) VisitApplication(a *ast.Application) error {
	if err := v.e.symbols.declare(a.Name, "application"); err != nil {
		return err
	}
	app, err := v.e.resolveScopes(a)
	if err != nil {
		return err
	}
	v.e.pendingApps = append(v.e.pendingApps, app)
	v.e.logger.Debug("evaluated application", "name", a.Name, "scopes", len(app.scopes))
	return nil
}

// evalRecord evaluates a message or exception. The name is registered as a
// type only after its fields resolve, so a record cannot refer to itself.
func (e *Evaluator) evalRecord(kind, name string, superRef ast.TypeRef, raw []*ast.Field, exception bool) (*ir.Message, error) {
	if err := e.symbols.declare(name, kind); err != nil {
		return nil, err
	}

	var super *ir.Message
	if superRef != nil {
		s, err := e.resolveSuper(superRef, exception)
		if err != nil {
			return nil, err
		}
		super = s
	}

	fields, err := e.resolveFields(raw, super)
	if err != nil {
		return nil, err
	}

	var msg *ir.Message
	if exception {
		msg = ir.NewException(name, super, fields)
	} else {
		msg = ir.NewMessage(name, super, fields)
	}
	e.registry.register(name, msg)
	e.types = append(e.types, msg)
	return msg, nil
}

// resolveSuper resolves a super type reference. Messages extend messages and
// exceptions extend exceptions.
func (e *Evaluator) resolveSuper(ref ast.TypeRef, exception bool) (*ir.Message, error) {
	t, err := e.registry.resolve(ref)
	if err != nil {
		return nil, err
	}
	super, ok := t.(*ir.Message)
	switch {
	case !ok:
		return nil, newError(KindInheritanceViolation, "super type must be a message: %s", t)
	case exception && !super.IsException():
		return nil, newError(KindInheritanceViolation, "super type of an exception must be an exception: %s", t)
	case !exception && super.IsException():
		return nil, newError(KindInheritanceViolation, "super type of a message must not be an exception: %s", t)
	}
	return super, nil
}

// pendingApplication is an application whose scopes are checked but not yet
// bound to linked services.
type pendingApplication struct {
	name   string
	scopes []pendingScope
}

type pendingScope struct {
	name      string
	service   string
	version   int64
	isDefault bool
}

// resolveScopes checks scope names, the default flag and the referenced
// service versions. With no scope marked default, the first one is.
func (e *Evaluator) resolveScopes(a *ast.Application) (*pendingApplication, error) {
	app := &pendingApplication{name: a.Name}
	names := make(map[string]bool, len(a.Scopes))
	hasDefault := false
	for _, sc := range a.Scopes {
		if sc == nil {
			return nil, malformed("nil scope in application %q", a.Name)
		}
		if err := e.checkScope(sc, names, hasDefault); err != nil {
			return nil, withContext(err, sc)
		}
		names[sc.Name] = true
		hasDefault = hasDefault || sc.Default
		app.scopes = append(app.scopes, pendingScope{
			name:      sc.Name,
			service:   sc.Service,
			version:   sc.Version,
			isDefault: sc.Default,
		})
	}
	if !hasDefault && len(app.scopes) > 0 {
		app.scopes[0].isDefault = true
	}
	return app, nil
}

func (e *Evaluator) checkScope(sc *ast.Scope, names map[string]bool, hasDefault bool) error {
	if sc.Name == "" {
		return malformed("scope without a name")
	}
	if names[sc.Name] {
		return newError(KindDuplicatedName, "duplicated scope name %q", sc.Name)
	}
	if sc.Default && hasDefault {
		return newError(KindDuplicatedName, "default scope is already declared: %s", sc.Name)
	}
	decl, ok := e.serviceDecls[sc.Service]
	if !ok {
		return newError(KindNameNotFound, "service not found %q", sc.Service)
	}
	if decl.version(sc.Version) == nil {
		return newError(KindNameNotFound, "version %d of service %q not found", sc.Version, sc.Service)
	}
	return nil
}

package compiler

import (
	"github.com/msgidl/msgidl/internal/ast"
	"github.com/msgidl/msgidl/internal/ir"
)

// typeRegistry resolves type references against registered names and
// templates.
type typeRegistry struct {
	prims     *ir.Primitives
	types     map[string]ir.Type
	templates []*ir.GenericType
}

// newTypeRegistry registers every primitive except void, which is only
// valid as a return type, and the built-in templates.
func newTypeRegistry(prims *ir.Primitives) *typeRegistry {
	r := &typeRegistry{prims: prims, types: make(map[string]ir.Type)}
	for _, name := range ir.PrimitiveNames {
		if name == "void" {
			continue
		}
		r.registerPrimitive(name)
	}
	for _, tmpl := range prims.Templates() {
		r.registerTemplate(tmpl)
	}
	return r
}

func (r *typeRegistry) registerPrimitive(name string) {
	if t, ok := r.prims.Lookup(name); ok {
		r.types[name] = t
	}
}

func (r *typeRegistry) registerTemplate(tmpl *ir.GenericType) {
	r.templates = append(r.templates, tmpl)
}

// register makes a declared message, exception or enum resolvable.
func (r *typeRegistry) register(name string, t ir.Type) {
	r.types[name] = t
}

func (r *typeRegistry) lookup(name string) (ir.Type, bool) {
	t, ok := r.types[name]
	return t, ok
}

// resolve turns a reference into a type. A nullable flag wraps the result
// unless it is already nullable.
func (r *typeRegistry) resolve(ref ast.TypeRef) (ir.Type, error) {
	switch ref := ref.(type) {
	case *ast.SimpleType:
		return r.resolveSimple(ref)
	case *ast.GenericType:
		return r.resolveGeneric(ref)
	case nil:
		return nil, malformed("missing type reference")
	default:
		return nil, malformed("unknown type reference %T", ref)
	}
}

func (r *typeRegistry) resolveSimple(ref *ast.SimpleType) (ir.Type, error) {
	if ref.Name == "" {
		return nil, malformed("type reference without a name")
	}
	t, ok := r.types[ref.Name]
	if !ok {
		return nil, newError(KindNameNotFound, "type not found %q", ref.Name)
	}
	if ref.Nullable {
		return r.prims.NullableOf(t), nil
	}
	return t, nil
}

func (r *typeRegistry) resolveGeneric(ref *ast.GenericType) (ir.Type, error) {
	if ref.Name == "" || len(ref.Params) == 0 {
		return nil, malformed("generic type reference %q without parameters", ref.Name)
	}
	args := make([]ir.Type, len(ref.Params))
	for i, p := range ref.Params {
		t, err := r.resolve(p)
		if err != nil {
			return nil, err
		}
		args[i] = t
	}

	for _, tmpl := range r.templates {
		if tmpl.Name != ref.Name || !tmpl.Accepts(args) {
			continue
		}
		if tmpl.Nullable {
			return r.prims.NullableOf(args[0]), nil
		}
		var t ir.Type = &ir.ParameterizedType{Generic: tmpl, Args: args}
		if ref.Nullable {
			t = r.prims.NullableOf(t)
		}
		return t, nil
	}
	return nil, newError(KindNameNotFound, "generic type not matched %q", ref.Text())
}

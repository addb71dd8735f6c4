package compiler

import "github.com/msgidl/msgidl/internal/ir"

// symbolTable is the single flat namespace of top-level names.
type symbolTable struct {
	names map[string]string // name -> kind of declaration
}

// newSymbolTable pre-seeds the built-in type and template names, void
// included.
func newSymbolTable(prims *ir.Primitives) *symbolTable {
	s := &symbolTable{names: make(map[string]string)}
	for _, name := range ir.PrimitiveNames {
		s.names[name] = "built-in type"
	}
	for _, tmpl := range prims.Templates() {
		s.names[tmpl.Name] = "built-in template"
	}
	return s
}

// declare claims name for a declaration of the given kind.
func (s *symbolTable) declare(name, kind string) error {
	if name == "" {
		return malformed("%s without a name", kind)
	}
	if prev, ok := s.names[name]; ok {
		return newError(KindDuplicatedName, "duplicated name %q (already declared as %s)", name, prev)
	}
	s.names[name] = kind
	return nil
}

func (s *symbolTable) declared(name string) bool {
	_, ok := s.names[name]
	return ok
}

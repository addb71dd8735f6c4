package compiler

import (
	"slices"

	"github.com/msgidl/msgidl/internal/ast"
	"github.com/msgidl/msgidl/internal/ir"
)

// usedSet tracks ids and names already claimed by a field list.
type usedSet struct {
	ids   map[int64]string
	names map[string]int64
}

func newUsedSet() *usedSet {
	return &usedSet{ids: make(map[int64]string), names: make(map[string]int64)}
}

func (u *usedSet) add(id int64, name string) {
	u.ids[id] = name
	u.names[name] = id
}

// resolveFields resolves the locally declared fields of a message or
// exception. super may be nil. The result is sorted by id.
func (e *Evaluator) resolveFields(raw []*ast.Field, super *ir.Message) ([]*ir.Field, error) {
	inherited := newUsedSet()
	if super != nil {
		for _, f := range super.AllFields {
			inherited.add(f.ID, f.Name)
		}
	}
	return e.resolveFieldList("field", raw, super, inherited)
}

// resolveArgs resolves function arguments. Arguments follow the field rules
// without a super type.
func (e *Evaluator) resolveArgs(raw []*ast.Field) ([]*ir.Argument, error) {
	return e.resolveFieldList("argument", raw, nil, newUsedSet())
}

func (e *Evaluator) resolveFieldList(what string, raw []*ast.Field, super *ir.Message, inherited *usedSet) ([]*ir.Field, error) {
	local := newUsedSet()
	out := make([]*ir.Field, 0, len(raw))
	for _, rf := range raw {
		if rf == nil {
			return nil, malformed("nil %s", what)
		}
		f, err := e.resolveField(what, rf, super, local, inherited)
		if err != nil {
			return nil, withContext(err, rf)
		}
		local.add(f.ID, f.Name)
		out = append(out, f)
	}
	return ir.SortFields(out), nil
}

func (e *Evaluator) resolveField(what string, rf *ast.Field, super *ir.Message, local, inherited *usedSet) (*ir.Field, error) {
	if rf.Name == "" {
		return nil, malformed("%s %d without a name", what, rf.ID)
	}
	switch {
	case rf.ID == 0:
		return nil, newError(KindInvalidIdentifier, "%s id 0 is not allowed: %s", what, rf.Name)
	case rf.ID < 0:
		return nil, newError(KindInvalidIdentifier, "negative %s id is not allowed: %d", what, rf.ID)
	}
	if prev, ok := local.ids[rf.ID]; ok {
		return nil, newError(KindDuplicatedName, "duplicated %s id %d (already used by %q)", what, rf.ID, prev)
	}
	if _, ok := local.names[rf.Name]; ok {
		return nil, newError(KindDuplicatedName, "duplicated %s name %q", what, rf.Name)
	}
	if prev, ok := inherited.ids[rf.ID]; ok {
		return nil, newError(KindInheritanceViolation,
			"%s id %d is already used by %q of super type %s", what, rf.ID, prev, super.Name)
	}
	if _, ok := inherited.names[rf.Name]; ok {
		return nil, newError(KindInheritanceViolation,
			"%s name %q is already used by super type %s", what, rf.Name, super.Name)
	}

	t, err := e.registry.resolve(rf.Type)
	if err != nil {
		return nil, err
	}

	var v ir.Value
	if rf.Value != nil {
		v, err = e.resolveLiteral(t, rf.Value)
	} else {
		v, err = e.implicitDefault(t)
	}
	if err != nil {
		return nil, err
	}

	option := ir.FieldRequired
	if rf.Optional {
		option = ir.FieldOptional
	}
	return &ir.Field{ID: rf.ID, Type: t, Name: rf.Name, Option: option, Value: v}, nil
}

// resolveEnumMembers checks member ids and names. Id 0 is a valid member id.
func (e *Evaluator) resolveEnumMembers(raw []*ast.EnumMember) ([]*ir.EnumMember, error) {
	used := newUsedSet()
	out := make([]*ir.EnumMember, 0, len(raw))
	for _, rm := range raw {
		if rm == nil {
			return nil, malformed("nil enum member")
		}
		if err := checkEnumMember(rm, used); err != nil {
			return nil, withContext(err, rm)
		}
		used.add(rm.ID, rm.Name)
		out = append(out, &ir.EnumMember{ID: rm.ID, Name: rm.Name})
	}
	slices.SortFunc(out, func(a, b *ir.EnumMember) int {
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		}
		return 0
	})
	return out, nil
}

func checkEnumMember(rm *ast.EnumMember, used *usedSet) error {
	if rm.Name == "" {
		return malformed("enum member %d without a name", rm.ID)
	}
	if rm.ID < 0 {
		return newError(KindInvalidIdentifier, "negative enum member id is not allowed: %d", rm.ID)
	}
	if prev, ok := used.ids[rm.ID]; ok {
		return newError(KindDuplicatedName, "duplicated enum member id %d (already used by %q)", rm.ID, prev)
	}
	if _, ok := used.names[rm.Name]; ok {
		return newError(KindDuplicatedName, "duplicated enum member name %q", rm.Name)
	}
	return nil
}

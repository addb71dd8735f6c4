package ir

import "slices"

// Function is a resolved function signature.
type Function struct {
	Name          string
	ReturnType    Type
	Args          []*Argument
	Exceptions    []*Message
	MaxID         int64
	MaxRequiredID int64
}

// NewFunction builds a function. args must already be sorted by id.
func NewFunction(name string, returnType Type, args []*Argument, exceptions []*Message) *Function {
	maxID, maxRequiredID := maxIDs(args)
	return &Function{
		Name:          name,
		ReturnType:    returnType,
		Args:          args,
		Exceptions:    exceptions,
		MaxID:         maxID,
		MaxRequiredID: maxRequiredID,
	}
}

// IsVoid reports whether the function returns nothing.
func (f *Function) IsVoid() bool { return IsVoid(f.ReturnType) }

// Arg returns the argument with the given id, or nil.
func (f *Function) Arg(id int64) *Argument {
	for _, a := range f.Args {
		if a.ID == id {
			return a
		}
	}
	return nil
}

// SignatureEqual compares return type, arguments and exception list.
func SignatureEqual(a, b *Function) bool {
	return TypeEqual(a.ReturnType, b.ReturnType) &&
		FieldsEqual(a.Args, b.Args) &&
		slices.EqualFunc(a.Exceptions, b.Exceptions, func(x, y *Message) bool {
			return TypeEqual(x, y)
		})
}

// InheritedFunction is a function carried over from an earlier version.
// Version is the version the function was found in.
type InheritedFunction struct {
	*Function
	Version int64
}

// ServiceFunction is an entry of a linked service version: either a
// *Function or an *InheritedFunction.
type ServiceFunction interface {
	Signature() *Function
	serviceFunction()
}

func (f *Function) Signature() *Function { return f }
func (*Function) serviceFunction()       {}

func (f *InheritedFunction) Signature() *Function { return f.Function }
func (*InheritedFunction) serviceFunction()       {}

// InheritedFrom reports the version fn was inherited from.
func InheritedFrom(fn ServiceFunction) (int64, bool) {
	if inh, ok := fn.(*InheritedFunction); ok {
		return inh.Version, true
	}
	return 0, false
}

// ServiceVersion is one linked version of a service. Functions are sorted by
// name and contain no unresolved inheritance directives.
type ServiceVersion struct {
	Version   int64
	Functions []ServiceFunction
}

// Function returns the entry called name, or nil.
func (v *ServiceVersion) Function(name string) ServiceFunction {
	for _, fn := range v.Functions {
		if fn.Signature().Name == name {
			return fn
		}
	}
	return nil
}

// Service is a linked service. Versions are sorted ascending.
type Service struct {
	Name     string
	Versions []*ServiceVersion
}

// Version returns the version numbered n, or nil.
func (s *Service) Version(n int64) *ServiceVersion {
	for _, v := range s.Versions {
		if v.Version == n {
			return v
		}
	}
	return nil
}

// VersionsUpTo returns the versions numbered n or lower, oldest first.
func (s *Service) VersionsUpTo(n int64) []*ServiceVersion {
	var out []*ServiceVersion
	for _, v := range s.Versions {
		if v.Version <= n {
			out = append(out, v)
		}
	}
	return out
}

// Latest returns the highest version, or nil when the service has none.
func (s *Service) Latest() *ServiceVersion {
	if len(s.Versions) == 0 {
		return nil
	}
	return s.Versions[len(s.Versions)-1]
}

// Application binds service versions under scope names.
type Application struct {
	Name   string
	Scopes []*Scope
}

// DefaultScope returns the scope marked default.
func (a *Application) DefaultScope() *Scope {
	for _, sc := range a.Scopes {
		if sc.Default {
			return sc
		}
	}
	return nil
}

// Scope binds one service version under a name.
type Scope struct {
	Name    string
	Service *Service
	Version int64
	Default bool
}

// ServiceVersion returns the bound version.
func (s *Scope) ServiceVersion() *ServiceVersion { return s.Service.Version(s.Version) }

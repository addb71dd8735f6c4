package compiler

import (
	"cmp"
	"slices"

	"github.com/msgidl/msgidl/internal/ir"
)

// Link resolves every inheritance mark and materializes applications. It
// runs once, after all declarations have been evaluated.
func (e *Evaluator) Link() error {
	if e.linked {
		return ErrAlreadyLinked
	}

	services := make([]*ir.Service, 0, len(e.serviceOrder))
	byName := make(map[string]*ir.Service, len(e.serviceOrder))
	for _, name := range e.serviceOrder {
		svc, err := e.linkService(e.serviceDecls[name])
		if err != nil {
			return err
		}
		services = append(services, svc)
		byName[name] = svc
	}

	apps := make([]*ir.Application, 0, len(e.pendingApps))
	for _, pa := range e.pendingApps {
		app := &ir.Application{Name: pa.name, Scopes: make([]*ir.Scope, 0, len(pa.scopes))}
		for _, ps := range pa.scopes {
			app.Scopes = append(app.Scopes, &ir.Scope{
				Name:    ps.name,
				Service: byName[ps.service],
				Version: ps.version,
				Default: ps.isDefault,
			})
		}
		apps = append(apps, app)
	}

	e.services = services
	e.applications = apps
	e.linked = true
	e.logger.Debug("linked services", "services", len(services), "applications", len(apps))
	return nil
}

// linkService links the versions of one service in ascending order. Each
// version sees only the versions linked before it.
func (e *Evaluator) linkService(decl *serviceDecl) (*ir.Service, error) {
	partials := slices.Clone(decl.versions)
	slices.SortFunc(partials, func(a, b *partialVersion) int {
		return cmp.Compare(a.version, b.version)
	})

	var prior []*ir.ServiceVersion
	for _, pv := range partials {
		linked, err := e.linkVersion(pv, prior)
		if err != nil {
			return nil, withContext(err, pv.node)
		}
		e.logger.Debug("linked service version",
			"service", pv.service,
			"version", pv.version,
			"functions", len(linked.Functions),
		)
		prior = append(prior, linked)
	}
	return &ir.Service{Name: decl.name, Versions: prior}, nil
}

// linkVersion replaces the marks of pv with inherited functions. When the
// same name comes from more than one source, a concrete function wins over
// an explicit inherit, which wins over inherit-all.
func (e *Evaluator) linkVersion(pv *partialVersion, prior []*ir.ServiceVersion) (*ir.ServiceVersion, error) {
	fromAll := make(map[string]ir.ServiceFunction)
	explicit := make(map[string]ir.ServiceFunction)
	concrete := make(map[string]ir.ServiceFunction)

	for _, entry := range pv.entries {
		switch m := entry.(type) {
		case concreteEntry:
			concrete[m.fn.Name] = m.fn
		case inheritAllMark:
			if len(prior) == 0 {
				return nil, withContext(oldestVersionError(pv), m.node)
			}
			last := prior[len(prior)-1]
			for _, fn := range last.Functions {
				base := fn.Signature()
				fromAll[base.Name] = &ir.InheritedFunction{Function: base, Version: last.Version}
			}
		case inheritNameMark:
			fn, err := findInherited(pv, m.name, nil, prior)
			if err != nil {
				return nil, withContext(err, m.node)
			}
			explicit[m.name] = fn
		case inheritSignatureMark:
			fn, err := findInherited(pv, m.name, m.signature, prior)
			if err != nil {
				return nil, withContext(err, m.node)
			}
			explicit[m.name] = fn
		default:
			return nil, malformed("unknown version entry %T", entry)
		}
	}

	merged := fromAll
	for name, fn := range explicit {
		merged[name] = fn
	}
	for name, fn := range concrete {
		merged[name] = fn
	}

	functions := make([]ir.ServiceFunction, 0, len(merged))
	for _, fn := range merged {
		functions = append(functions, fn)
	}
	slices.SortFunc(functions, func(a, b ir.ServiceFunction) int {
		return cmp.Compare(a.Signature().Name, b.Signature().Name)
	})
	return &ir.ServiceVersion{Version: pv.version, Functions: functions}, nil
}

// findInherited searches prior versions from newest to oldest for name. A
// function that was itself inherited still counts. The result is tagged
// with the version it was found in.
func findInherited(pv *partialVersion, name string, signature *ir.Function, prior []*ir.ServiceVersion) (*ir.InheritedFunction, error) {
	if len(prior) == 0 {
		return nil, oldestVersionError(pv)
	}
	for i := len(prior) - 1; i >= 0; i-- {
		found := prior[i].Function(name)
		if found == nil {
			continue
		}
		base := found.Signature()
		if signature != nil && !ir.SignatureEqual(signature, base) {
			return nil, newError(KindInheritanceViolation,
				"function signature is mismatched with %s:%d.%s", pv.service, prior[i].Version, name)
		}
		return &ir.InheritedFunction{Function: base, Version: prior[i].Version}, nil
	}
	return nil, newError(KindNameNotFound, "inherited function not found %q in service %s before version %d",
		name, pv.service, pv.version)
}

func oldestVersionError(pv *partialVersion) error {
	return newError(KindInheritanceViolation,
		"cannot inherit on the oldest version %d of service %s", pv.version, pv.service)
}

package ir

import (
	"fmt"
	"math/big"
)

// DocValue is a sealed interface for values of a spec document.
// Only DocString, DocInt, DocBool, DocArray and DocObject implement it.
// There is no null and no float.
type DocValue interface {
	docValue()
}

// DocString is a string value.
type DocString string

func (DocString) docValue() {}

// DocInt is an integer value of arbitrary precision.
type DocInt struct {
	V *big.Int
}

func (DocInt) docValue() {}

// DocBool is a boolean value.
type DocBool bool

func (DocBool) docValue() {}

// DocArray is an ordered list of values.
type DocArray []DocValue

func (DocArray) docValue() {}

// DocObject maps keys to values. Use SortedKeys for deterministic iteration.
type DocObject map[string]DocValue

func (DocObject) docValue() {}

func docInt(n int64) DocInt { return DocInt{V: big.NewInt(n)} }

// SpecDocument renders spec as a document for hashing, storage and display.
func SpecDocument(spec *Spec) DocObject {
	types := make(DocArray, len(spec.Types))
	for i, t := range spec.Types {
		types[i] = typeDocument(t)
	}
	services := make(DocArray, len(spec.Services))
	for i, svc := range spec.Services {
		services[i] = serviceDocument(svc)
	}
	apps := make(DocArray, len(spec.Applications))
	for i, app := range spec.Applications {
		apps[i] = applicationDocument(app)
	}
	ns := make(DocArray, len(spec.Namespace))
	for i, seg := range spec.Namespace {
		ns[i] = DocString(seg)
	}
	return DocObject{
		"ir_version":   DocString(IRVersion),
		"namespace":    ns,
		"types":        types,
		"services":     services,
		"applications": apps,
	}
}

func typeDocument(t Type) DocObject {
	switch tt := t.(type) {
	case *Message:
		kind := "message"
		if tt.IsException() {
			kind = "exception"
		}
		obj := DocObject{
			"kind":            DocString(kind),
			"name":            DocString(tt.Name),
			"fields":          fieldsDocument(tt.AllFields),
			"max_id":          docInt(tt.MaxID),
			"max_required_id": docInt(tt.MaxRequiredID),
		}
		if tt.Super != nil {
			obj["super"] = DocString(tt.Super.Name)
		}
		return obj
	case *Enum:
		members := make(DocArray, len(tt.Members))
		for i, m := range tt.Members {
			members[i] = DocObject{"id": docInt(m.ID), "name": DocString(m.Name)}
		}
		return DocObject{
			"kind":    DocString("enum"),
			"name":    DocString(tt.Name),
			"members": members,
		}
	default:
		return DocObject{"kind": DocString("type"), "name": DocString(t.String())}
	}
}

func fieldsDocument(fields []*Field) DocArray {
	out := make(DocArray, len(fields))
	for i, f := range fields {
		out[i] = DocObject{
			"id":     docInt(f.ID),
			"name":   DocString(f.Name),
			"type":   DocString(f.Type.String()),
			"option": DocString(f.Option.String()),
			"value":  valueDocument(f.Value),
		}
	}
	return out
}

func valueDocument(v Value) DocObject {
	switch val := v.(type) {
	case NilValue:
		return DocObject{"kind": DocString("nil")}
	case BoolValue:
		return DocObject{"kind": DocString("bool"), "value": DocBool(val)}
	case IntValue:
		return DocObject{"kind": DocString("int"), "value": DocInt{V: intOf(val)}}
	case EnumValue:
		return DocObject{
			"kind":   DocString("enum"),
			"enum":   DocString(val.Enum.Name),
			"member": DocString(val.Member.Name),
		}
	default:
		return DocObject{"kind": DocString("empty")}
	}
}

func serviceDocument(svc *Service) DocObject {
	versions := make(DocArray, len(svc.Versions))
	for i, v := range svc.Versions {
		fns := make(DocArray, len(v.Functions))
		for j, fn := range v.Functions {
			fns[j] = functionDocument(fn)
		}
		versions[i] = DocObject{"version": docInt(v.Version), "functions": fns}
	}
	return DocObject{"name": DocString(svc.Name), "versions": versions}
}

func functionDocument(fn ServiceFunction) DocObject {
	sig := fn.Signature()
	exceptions := make(DocArray, len(sig.Exceptions))
	for i, e := range sig.Exceptions {
		exceptions[i] = DocString(e.Name)
	}
	obj := DocObject{
		"name":        DocString(sig.Name),
		"return_type": DocString(sig.ReturnType.String()),
		"args":        fieldsDocument(sig.Args),
		"exceptions":  exceptions,
	}
	if version, ok := InheritedFrom(fn); ok {
		obj["inherited_from"] = docInt(version)
	}
	return obj
}

func applicationDocument(app *Application) DocObject {
	scopes := make(DocArray, len(app.Scopes))
	for i, sc := range app.Scopes {
		scopes[i] = DocObject{
			"name":    DocString(sc.Name),
			"service": DocString(sc.Service.Name),
			"version": docInt(sc.Version),
			"default": DocBool(sc.Default),
		}
	}
	return DocObject{"name": DocString(app.Name), "scopes": scopes}
}

// String renders the document value as canonical JSON, for debugging.
func (obj DocObject) String() string {
	data, err := MarshalCanonical(obj)
	if err != nil {
		return fmt.Sprintf("<invalid document: %v>", err)
	}
	return string(data)
}

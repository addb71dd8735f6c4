package compiler

import (
	"fmt"

	"github.com/msgidl/msgidl/internal/ir"
)

// Validation error codes (E100-E199)
const (
	// General validation errors (E100)
	ErrUnsupportedIRType = "E100" // unsupported IR type for validation

	// Message and exception errors (E101-E106)
	ErrNonPositiveID      = "E101" // field or argument id must be positive
	ErrDuplicateField     = "E102" // duplicate field id or name
	ErrFieldsUnsorted     = "E103" // fields must be sorted by id
	ErrMaxIDMismatch      = "E104" // max_id / max_required_id disagree with fields
	ErrValueNotAssignable = "E105" // default value does not fit the field type
	ErrDoubleNullable     = "E106" // nullable wrapped in nullable

	// Enum errors (E107-E109)
	ErrEnumMember = "E107" // negative, duplicate or unsorted member

	// Service errors (E110-E114)
	ErrVersionOrder     = "E110" // versions must be unique and ascending
	ErrFunctionOrder    = "E111" // function names must be unique and sorted
	ErrInheritedVersion = "E112" // inherited from a version that is not earlier
	ErrNotException     = "E113" // throws list entry is not an exception

	// Application errors (E115-E119)
	ErrDefaultScope = "E115" // exactly one default scope required
	ErrScopeVersion = "E116" // scope refers to a missing service version
)

// ValidationError represents an IR validation error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// Validate checks linked IR against its structural invariants.
// Returns all errors found (does not fail-fast).
// Supports Spec, Message, Enum, Service and Application values.
func Validate(v any) []ValidationError {
	switch node := v.(type) {
	case *ir.Spec:
		return validateSpec(node)
	case *ir.Message:
		return validateMessage(node, "types."+node.Name)
	case *ir.Enum:
		return validateEnum(node, "types."+node.Name)
	case *ir.Service:
		return validateService(node, "services."+node.Name)
	case *ir.Application:
		return validateApplication(node, "applications."+node.Name)
	default:
		return []ValidationError{{
			Field:   "type",
			Message: fmt.Sprintf("unsupported IR type: %T", v),
			Code:    ErrUnsupportedIRType,
		}}
	}
}

func validateSpec(spec *ir.Spec) []ValidationError {
	var errs []ValidationError
	for _, t := range spec.Types {
		switch t := t.(type) {
		case *ir.Message:
			errs = append(errs, validateMessage(t, "types."+t.Name)...)
		case *ir.Enum:
			errs = append(errs, validateEnum(t, "types."+t.Name)...)
		}
	}
	for _, svc := range spec.Services {
		errs = append(errs, validateService(svc, "services."+svc.Name)...)
	}
	for _, app := range spec.Applications {
		errs = append(errs, validateApplication(app, "applications."+app.Name)...)
	}
	return errs
}

func validateMessage(m *ir.Message, path string) []ValidationError {
	errs := validateFields(m.AllFields, path+".fields")

	maxID, maxRequiredID := int64(0), int64(0)
	for _, f := range m.AllFields {
		maxID = max(maxID, f.ID)
		if f.IsRequired() {
			maxRequiredID = max(maxRequiredID, f.ID)
		}
	}
	// E104: cached max ids
	if maxID != m.MaxID || maxRequiredID != m.MaxRequiredID {
		errs = append(errs, ValidationError{
			Field:   path,
			Message: fmt.Sprintf("max ids (%d, %d) do not match fields (%d, %d)", m.MaxID, m.MaxRequiredID, maxID, maxRequiredID),
			Code:    ErrMaxIDMismatch,
		})
	}
	return errs
}

// validateFields checks a field or argument list.
func validateFields(fields []*ir.Field, path string) []ValidationError {
	var errs []ValidationError
	ids := make(map[int64]bool)
	names := make(map[string]bool)

	for i, f := range fields {
		fp := fmt.Sprintf("%s[%d]", path, i)

		// E101: ids are positive
		if f.ID <= 0 {
			errs = append(errs, ValidationError{
				Field:   fp + ".id",
				Message: fmt.Sprintf("id must be positive, got %d", f.ID),
				Code:    ErrNonPositiveID,
			})
		}

		// E102: duplicates
		if ids[f.ID] || names[f.Name] {
			errs = append(errs, ValidationError{
				Field:   fp,
				Message: fmt.Sprintf("duplicate field %d: %s", f.ID, f.Name),
				Code:    ErrDuplicateField,
			})
		}
		ids[f.ID] = true
		names[f.Name] = true

		// E103: sorted by id
		if i > 0 && fields[i-1].ID > f.ID {
			errs = append(errs, ValidationError{
				Field:   fp + ".id",
				Message: fmt.Sprintf("field %d follows field %d", f.ID, fields[i-1].ID),
				Code:    ErrFieldsUnsorted,
			})
		}

		errs = append(errs, validateFieldType(f.Type, fp+".type")...)

		// E105: value fits the type
		if msg := assignableMessage(f.Type, f.Value); msg != "" {
			errs = append(errs, ValidationError{
				Field:   fp + ".value",
				Message: msg,
				Code:    ErrValueNotAssignable,
			})
		}
	}
	return errs
}

// validateFieldType reports nullable types wrapped in nullable, at any depth.
func validateFieldType(t ir.Type, path string) []ValidationError {
	var errs []ValidationError
	if n, ok := t.(*ir.NullableType); ok && ir.IsNullable(n.Elem()) {
		errs = append(errs, ValidationError{
			Field:   path,
			Message: fmt.Sprintf("type %s is nullable twice", t),
			Code:    ErrDoubleNullable,
		})
	}
	if p, ok := ir.RealType(t).(*ir.ParameterizedType); ok {
		for i, arg := range p.Args {
			errs = append(errs, validateFieldType(arg, fmt.Sprintf("%s.args[%d]", path, i))...)
		}
	}
	return errs
}

// assignableMessage returns why v cannot be the value of a t field, or "".
func assignableMessage(t ir.Type, v ir.Value) string {
	_, isNil := v.(ir.NilValue)
	switch {
	case v == nil:
		return "missing value"
	case ir.IsNullable(t) && !isNil:
		return fmt.Sprintf("nullable type %s must default to nil, got %s", t, v)
	case !ir.IsNullable(t) && isNil:
		return fmt.Sprintf("nil is not assignable to %s", t)
	}
	switch v := v.(type) {
	case ir.IntValue:
		if !ir.IsInteger(t) {
			return fmt.Sprintf("integer %s is not assignable to %s", v, t)
		}
	case ir.BoolValue:
		if !ir.IsBool(t) {
			return fmt.Sprintf("bool %s is not assignable to %s", v, t)
		}
	case ir.EnumValue:
		if e, ok := t.(*ir.Enum); !ok || e.Name != v.Enum.Name {
			return fmt.Sprintf("enum value %s is not assignable to %s", v, t)
		}
	}
	return ""
}

func validateEnum(e *ir.Enum, path string) []ValidationError {
	var errs []ValidationError
	ids := make(map[int64]bool)
	names := make(map[string]bool)

	// E107: members
	for i, m := range e.Members {
		fp := fmt.Sprintf("%s.members[%d]", path, i)
		switch {
		case m.ID < 0:
			errs = append(errs, ValidationError{Field: fp, Message: fmt.Sprintf("negative member id %d", m.ID), Code: ErrEnumMember})
		case ids[m.ID] || names[m.Name]:
			errs = append(errs, ValidationError{Field: fp, Message: fmt.Sprintf("duplicate member %d: %s", m.ID, m.Name), Code: ErrEnumMember})
		case i > 0 && e.Members[i-1].ID > m.ID:
			errs = append(errs, ValidationError{Field: fp, Message: fmt.Sprintf("member %d follows member %d", m.ID, e.Members[i-1].ID), Code: ErrEnumMember})
		}
		ids[m.ID] = true
		names[m.Name] = true
	}
	return errs
}

func validateService(svc *ir.Service, path string) []ValidationError {
	var errs []ValidationError
	for i, v := range svc.Versions {
		vp := fmt.Sprintf("%s.versions[%d]", path, i)

		// E110: strictly ascending versions
		if i > 0 && svc.Versions[i-1].Version >= v.Version {
			errs = append(errs, ValidationError{
				Field:   vp,
				Message: fmt.Sprintf("version %d follows version %d", v.Version, svc.Versions[i-1].Version),
				Code:    ErrVersionOrder,
			})
		}

		for j, fn := range v.Functions {
			fp := fmt.Sprintf("%s.functions[%d]", vp, j)
			sig := fn.Signature()

			// E111: unique and sorted names
			if j > 0 && v.Functions[j-1].Signature().Name >= sig.Name {
				errs = append(errs, ValidationError{
					Field:   fp,
					Message: fmt.Sprintf("function %q follows %q", sig.Name, v.Functions[j-1].Signature().Name),
					Code:    ErrFunctionOrder,
				})
			}

			// E112: inherited from an earlier version of this service
			if from, ok := ir.InheritedFrom(fn); ok && (from >= v.Version || svc.Version(from) == nil) {
				errs = append(errs, ValidationError{
					Field:   fp,
					Message: fmt.Sprintf("function %q inherited from version %d", sig.Name, from),
					Code:    ErrInheritedVersion,
				})
			}

			// E113: throws list
			for k, ex := range sig.Exceptions {
				if !ex.IsException() {
					errs = append(errs, ValidationError{
						Field:   fmt.Sprintf("%s.exceptions[%d]", fp, k),
						Message: fmt.Sprintf("%s is not an exception", ex.Name),
						Code:    ErrNotException,
					})
				}
			}

			errs = append(errs, validateFields(sig.Args, fp+".args")...)
		}
	}
	return errs
}

func validateApplication(app *ir.Application, path string) []ValidationError {
	var errs []ValidationError
	defaults := 0
	for i, sc := range app.Scopes {
		if sc.Default {
			defaults++
		}
		// E116: bound version exists
		if sc.Service == nil || sc.ServiceVersion() == nil {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("%s.scopes[%d]", path, i),
				Message: fmt.Sprintf("scope %q refers to a missing service version %d", sc.Name, sc.Version),
				Code:    ErrScopeVersion,
			})
		}
	}
	// E115: exactly one default
	if len(app.Scopes) > 0 && defaults != 1 {
		errs = append(errs, ValidationError{
			Field:   path + ".scopes",
			Message: fmt.Sprintf("expected exactly one default scope, found %d", defaults),
			Code:    ErrDefaultScope,
		})
	}
	return errs
}

package ir

import (
	"fmt"
	"slices"
)

// FieldOption is the required/optional modifier of a field or argument.
type FieldOption int

const (
	FieldRequired FieldOption = iota
	FieldOptional
)

func (o FieldOption) String() string {
	if o == FieldOptional {
		return "optional"
	}
	return "required"
}

// Field is a resolved message field.
type Field struct {
	ID     int64
	Type   Type
	Name   string
	Option FieldOption
	Value  Value
}

// Argument is a resolved function argument. Arguments follow the field rules
// without super-type inheritance.
type Argument = Field

func (f *Field) IsRequired() bool { return f.Option == FieldRequired }
func (f *Field) IsOptional() bool { return f.Option == FieldOptional }

func (f *Field) String() string {
	s := fmt.Sprintf("%d: ", f.ID)
	if f.IsOptional() {
		s += "optional "
	}
	return s + f.Type.String() + " " + f.Name
}

// FieldsEqual compares two field lists structurally, in order.
func FieldsEqual(a, b []*Field) bool {
	return slices.EqualFunc(a, b, func(x, y *Field) bool {
		return x.ID == y.ID &&
			x.Name == y.Name &&
			x.Option == y.Option &&
			TypeEqual(x.Type, y.Type) &&
			ValueEqual(x.Value, y.Value)
	})
}

// SortFields returns a copy of fields ordered by ascending id.
func SortFields(fields []*Field) []*Field {
	out := slices.Clone(fields)
	slices.SortFunc(out, func(a, b *Field) int {
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		}
		return 0
	})
	return out
}

// maxIDs returns the largest id and the largest required id of fields.
func maxIDs(fields []*Field) (maxID, maxRequiredID int64) {
	for _, f := range fields {
		if f.ID > maxID {
			maxID = f.ID
		}
		if f.IsRequired() && f.ID > maxRequiredID {
			maxRequiredID = f.ID
		}
	}
	return maxID, maxRequiredID
}

// Message is a resolved message or exception.
type Message struct {
	Name          string
	Super         *Message
	NewFields     []*Field
	AllFields     []*Field
	MaxID         int64
	MaxRequiredID int64

	exception bool
}

// NewMessage builds a message. newFields must already be sorted by id and
// must not collide with the fields of super.
func NewMessage(name string, super *Message, newFields []*Field) *Message {
	return newRecord(name, super, newFields, false)
}

// NewException builds an exception.
func NewException(name string, super *Message, newFields []*Field) *Message {
	return newRecord(name, super, newFields, true)
}

func newRecord(name string, super *Message, newFields []*Field, exception bool) *Message {
	all := newFields
	if super != nil {
		all = SortFields(append(slices.Clone(super.AllFields), newFields...))
	}
	maxID, maxRequiredID := maxIDs(all)
	return &Message{
		Name:          name,
		Super:         super,
		NewFields:     newFields,
		AllFields:     all,
		MaxID:         maxID,
		MaxRequiredID: maxRequiredID,
		exception:     exception,
	}
}

func (*Message) irType()            {}
func (m *Message) TypeName() string { return m.Name }
func (m *Message) String() string   { return m.Name }

// IsException reports whether m was declared as an exception.
func (m *Message) IsException() bool { return m.exception }

// Field returns the field with the given id from AllFields, or nil.
func (m *Message) Field(id int64) *Field {
	for _, f := range m.AllFields {
		if f.ID == id {
			return f
		}
	}
	return nil
}

// Enum is a resolved enumeration. Members are sorted by id.
type Enum struct {
	Name    string
	Members []*EnumMember
}

// EnumMember is one entry of an enum.
type EnumMember struct {
	ID   int64
	Name string
}

func (*Enum) irType()            {}
func (e *Enum) TypeName() string { return e.Name }
func (e *Enum) String() string   { return e.Name }

// Member returns the member called name, or nil.
func (e *Enum) Member(name string) *EnumMember {
	for _, m := range e.Members {
		if m.Name == name {
			return m
		}
	}
	return nil
}

// First returns the member with the smallest id, or nil for an empty enum.
func (e *Enum) First() *EnumMember {
	if len(e.Members) == 0 {
		return nil
	}
	return e.Members[0]
}

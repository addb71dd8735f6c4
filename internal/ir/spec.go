package ir

import "strings"

// Namespace is an ordered list of package path segments.
type Namespace []string

func (n Namespace) String() string { return strings.Join(n, ".") }

// Spec is the output of one evaluation for one target language.
type Spec struct {
	Namespace    Namespace
	Types        []Type
	Services     []*Service
	Applications []*Application
}

// Messages returns every declared message, exceptions included.
func (s *Spec) Messages() []*Message {
	var out []*Message
	for _, t := range s.Types {
		if m, ok := t.(*Message); ok {
			out = append(out, m)
		}
	}
	return out
}

// Exceptions returns the declared exceptions.
func (s *Spec) Exceptions() []*Message {
	var out []*Message
	for _, t := range s.Types {
		if m, ok := t.(*Message); ok && m.IsException() {
			out = append(out, m)
		}
	}
	return out
}

// Enums returns the declared enums.
func (s *Spec) Enums() []*Enum {
	var out []*Enum
	for _, t := range s.Types {
		if e, ok := t.(*Enum); ok {
			out = append(out, e)
		}
	}
	return out
}

// Service returns the service called name, or nil.
func (s *Spec) Service(name string) *Service {
	for _, svc := range s.Services {
		if svc.Name == name {
			return svc
		}
	}
	return nil
}

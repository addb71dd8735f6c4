package schema

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Raw document shapes shared by the YAML and CUE decoders. Field tags carry
// both encodings; CUE values decode through their JSON form.

type rawDocument struct {
	Decls []rawDecl `json:"decls" yaml:"decls"`
}

// rawDecl holds exactly one non-nil declaration.
type rawDecl struct {
	Namespace   *rawNamespace   `json:"namespace,omitempty" yaml:"namespace,omitempty"`
	Message     *rawRecord      `json:"message,omitempty" yaml:"message,omitempty"`
	Exception   *rawRecord      `json:"exception,omitempty" yaml:"exception,omitempty"`
	Enum        *rawEnum        `json:"enum,omitempty" yaml:"enum,omitempty"`
	Service     *rawService     `json:"service,omitempty" yaml:"service,omitempty"`
	Application *rawApplication `json:"application,omitempty" yaml:"application,omitempty"`
}

type rawNamespace struct {
	Scopes []string `json:"scopes" yaml:"scopes"`
	Lang   string   `json:"lang,omitempty" yaml:"lang,omitempty"`
}

type rawRecord struct {
	Name    string     `json:"name" yaml:"name"`
	Extends string     `json:"extends,omitempty" yaml:"extends,omitempty"`
	Fields  []rawField `json:"fields,omitempty" yaml:"fields,omitempty"`
}

type rawField struct {
	ID       int64      `json:"id" yaml:"id"`
	Type     string     `json:"type" yaml:"type"`
	Name     string     `json:"name" yaml:"name"`
	Optional bool       `json:"optional,omitempty" yaml:"optional,omitempty"`
	Value    rawLiteral `json:"value,omitempty" yaml:"value,omitempty"`
}

// rawFieldKeys are the keys a field mapping may carry.
var rawFieldKeys = map[string]bool{"id": true, "type": true, "name": true, "optional": true, "value": true}

// UnmarshalYAML decodes a field and records an explicit null initializer,
// which yaml.v3 would otherwise decode as an absent one.
func (f *rawField) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.MappingNode {
		var unknown []string
		for i := 0; i+1 < len(node.Content); i += 2 {
			if k := node.Content[i]; !rawFieldKeys[k.Value] {
				unknown = append(unknown, fmt.Sprintf("line %d: field %s not found in type schema.rawField", k.Line, k.Value))
			}
		}
		if len(unknown) > 0 {
			return &yaml.TypeError{Errors: unknown}
		}
	}

	type plain rawField
	if err := node.Decode((*plain)(f)); err != nil {
		return err
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == "value" && node.Content[i+1].ShortTag() == "!!null" {
			f.Value = rawLiteral{null: true, set: true}
		}
	}
	return nil
}

type rawEnum struct {
	Name    string      `json:"name" yaml:"name"`
	Members []rawMember `json:"members" yaml:"members"`
}

type rawMember struct {
	ID   int64  `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

type rawService struct {
	Name    string        `json:"name" yaml:"name"`
	Version *int64        `json:"version,omitempty" yaml:"version,omitempty"`
	Body    []rawBodyItem `json:"body,omitempty" yaml:"body,omitempty"`
}

// rawBodyItem holds exactly one of Func or Inherit.
type rawBodyItem struct {
	Func    *rawFunc    `json:"func,omitempty" yaml:"func,omitempty"`
	Inherit *rawInherit `json:"inherit,omitempty" yaml:"inherit,omitempty"`
}

type rawFunc struct {
	Name    string     `json:"name" yaml:"name"`
	Returns string     `json:"returns" yaml:"returns"`
	Args    []rawField `json:"args,omitempty" yaml:"args,omitempty"`
	Throws  []string   `json:"throws,omitempty" yaml:"throws,omitempty"`
}

// rawInherit holds exactly one of All, Name or Func.
type rawInherit struct {
	All  bool     `json:"all,omitempty" yaml:"all,omitempty"`
	Name string   `json:"name,omitempty" yaml:"name,omitempty"`
	Func *rawFunc `json:"func,omitempty" yaml:"func,omitempty"`
}

type rawApplication struct {
	Name   string     `json:"name" yaml:"name"`
	Scopes []rawScope `json:"scopes,omitempty" yaml:"scopes,omitempty"`
}

type rawScope struct {
	Service string `json:"service" yaml:"service"`
	Version int64  `json:"version" yaml:"version"`
	Name    string `json:"name" yaml:"name"`
	Default bool   `json:"default,omitempty" yaml:"default,omitempty"`
}

// rawLiteral is the source text of an initializer. Scalars of any type are
// accepted and parsed later with ParseLiteral. set is false when the field
// has no initializer; null marks an explicit null.
type rawLiteral struct {
	text string
	null bool
	set  bool
}

func (l *rawLiteral) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: value must be a scalar", node.Line)
	}
	l.text = node.Value
	l.set = true
	return nil
}

func (l *rawLiteral) UnmarshalJSON(data []byte) error {
	l.set = true
	if string(data) == "null" {
		l.null = true
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		l.text = s
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		l.text = n.String()
		return nil
	}
	var b bool
	if err := json.Unmarshal(data, &b); err != nil {
		return fmt.Errorf("value must be a string, number or bool: %s", data)
	}
	l.text = fmt.Sprint(b)
	return nil
}

package schema

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"gopkg.in/yaml.v3"

	"github.com/msgidl/msgidl/internal/ast"
)

// ErrUnsupportedFormat is returned for files whose extension has no decoder.
var ErrUnsupportedFormat = errors.New("unsupported schema format")

// DecodeError reports a document that could not be turned into AST nodes.
// Line and Column are zero when the position is unknown.
type DecodeError struct {
	File   string
	Line   int
	Column int
	Path   string
	Err    error
}

func (e *DecodeError) Error() string {
	var b bytes.Buffer
	if e.File != "" {
		b.WriteString(e.File)
		if e.Line > 0 {
			fmt.Fprintf(&b, ":%d:%d", e.Line, e.Column)
		}
		b.WriteString(": ")
	}
	if e.Path != "" {
		b.WriteString(e.Path + ": ")
	}
	b.WriteString(e.Err.Error())
	return b.String()
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// DecodeYAML decodes a YAML (or JSON) schema document. Unknown keys are
// rejected. An empty document has no declarations.
func DecodeYAML(filename string, data []byte) (ast.Document, error) {
	var raw rawDocument
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return ast.Document{}, nil
		}
		return nil, &DecodeError{File: filename, Line: yamlErrorLine(err), Err: err}
	}

	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, &DecodeError{File: filename, Err: err}
	}
	c := &converter{file: filename, locate: func(p cue.Path) (int, int) {
		return locateYAML(&root, p.Selectors())
	}}
	return c.document(raw)
}

// yamlErrorLine returns the line of the first problem reported by a strict
// decode, or 0.
func yamlErrorLine(err error) int {
	var te *yaml.TypeError
	if !errors.As(err, &te) || len(te.Errors) == 0 {
		return 0
	}
	var line int
	if _, err := fmt.Sscanf(te.Errors[0], "line %d:", &line); err != nil {
		return 0
	}
	return line
}

// locateYAML returns the position of the node at path, or of the deepest
// ancestor that exists.
func locateYAML(node *yaml.Node, path []cue.Selector) (int, int) {
	if node.Kind == yaml.DocumentNode && len(node.Content) > 0 {
		node = node.Content[0]
	}
	for _, sel := range path {
		next := yamlChild(node, sel)
		if next == nil {
			break
		}
		node = next
	}
	return node.Line, node.Column
}

func yamlChild(node *yaml.Node, sel cue.Selector) *yaml.Node {
	switch {
	case node.Kind == yaml.SequenceNode && sel.Type() == cue.IndexLabel:
		if i := sel.Index(); i < len(node.Content) {
			return node.Content[i]
		}
	case node.Kind == yaml.MappingNode && sel.IsString():
		key := sel.Unquoted()
		for i := 0; i+1 < len(node.Content); i += 2 {
			if node.Content[i].Value == key {
				return node.Content[i+1]
			}
		}
	}
	return nil
}

// DecodeCUE compiles a CUE schema document and decodes its concrete value.
func DecodeCUE(filename string, data []byte) (ast.Document, error) {
	v := cuecontext.New().CompileBytes(data, cue.Filename(filename))
	if err := v.Err(); err != nil {
		return nil, cueDecodeError(filename, err)
	}

	var raw rawDocument
	if err := v.Decode(&raw); err != nil {
		return nil, cueDecodeError(filename, err)
	}

	c := &converter{file: filename, locate: func(p cue.Path) (int, int) {
		pos := v.LookupPath(p).Pos()
		if !pos.IsValid() {
			return 0, 0
		}
		return pos.Line(), pos.Column()
	}}
	return c.document(raw)
}

func cueDecodeError(filename string, err error) *DecodeError {
	de := &DecodeError{File: filename, Err: err}
	if positions := cueerrors.Positions(err); len(positions) > 0 {
		de.Line, de.Column = positions[0].Line(), positions[0].Column()
	}
	return de
}

// IsSchemaFile reports whether path has an extension DecodeFile handles.
func IsSchemaFile(path string) bool {
	switch filepath.Ext(path) {
	case ".yaml", ".yml", ".json", ".cue":
		return true
	}
	return false
}

// Decode decodes data with the decoder matching the extension of filename.
func Decode(filename string, data []byte) (ast.Document, error) {
	switch filepath.Ext(filename) {
	case ".yaml", ".yml", ".json":
		return DecodeYAML(filename, data)
	case ".cue":
		return DecodeCUE(filename, data)
	}
	return nil, &DecodeError{File: filename, Err: ErrUnsupportedFormat}
}

// DecodeFile reads path and decodes it according to its extension.
func DecodeFile(path string) (ast.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Decode(path, data)
}

// FindSchemaFiles walks dir and returns every schema file in lexical order.
func FindSchemaFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && IsSchemaFile(path) {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

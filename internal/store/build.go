package store

import (
	"encoding/json"
	"fmt"
	"slices"

	"github.com/msgidl/msgidl/internal/ir"
)

// Build is one recorded compilation.
type Build struct {
	ID          string
	Seq         int64
	Sources     []string
	SourceHash  string
	IRVersion   string
	ToolVersion string
}

// NewBuild returns a build for the given sources, stamped with the current
// IR and tool versions.
func NewBuild(gen BuildIDGenerator, seq int64, sources []string, sourceHash string) Build {
	return Build{
		ID:          gen.Generate(),
		Seq:         seq,
		Sources:     slices.Clone(sources),
		SourceHash:  sourceHash,
		IRVersion:   ir.IRVersion,
		ToolVersion: ir.ToolVersion,
	}
}

// StoredSpec is the spec document of one build for one language. Lang is
// empty for the global namespace.
type StoredSpec struct {
	BuildID   string
	Lang      string
	Namespace string
	SpecHash  string
	Document  []byte
}

// NewStoredSpec renders spec as a canonical document and computes its hash.
func NewStoredSpec(buildID, lang string, spec *ir.Spec) (StoredSpec, error) {
	doc := ir.SpecDocument(spec)
	data, err := ir.MarshalCanonical(doc)
	if err != nil {
		return StoredSpec{}, fmt.Errorf("marshal spec %q: %w", lang, err)
	}
	hash, err := ir.SpecHash(doc)
	if err != nil {
		return StoredSpec{}, err
	}
	return StoredSpec{
		BuildID:   buildID,
		Lang:      lang,
		Namespace: spec.Namespace.String(),
		SpecHash:  hash,
		Document:  data,
	}, nil
}

// Indented returns the document re-indented for display.
func (s StoredSpec) Indented() ([]byte, error) {
	return ir.IndentCanonical(s.Document)
}

func marshalSources(sources []string) (string, error) {
	arr := make(ir.DocArray, 0, len(sources))
	for _, src := range sources {
		arr = append(arr, ir.DocString(src))
	}
	data, err := ir.MarshalCanonical(arr)
	if err != nil {
		return "", fmt.Errorf("marshal sources: %w", err)
	}
	return string(data), nil
}

func unmarshalSources(data string) ([]string, error) {
	var sources []string
	if err := json.Unmarshal([]byte(data), &sources); err != nil {
		return nil, fmt.Errorf("unmarshal sources: %w", err)
	}
	if sources == nil {
		sources = []string{}
	}
	return sources, nil
}

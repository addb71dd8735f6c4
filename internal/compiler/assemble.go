package compiler

import (
	"slices"

	"github.com/msgidl/msgidl/internal/ir"
)

// Spec assembles the IR for one target language. The namespace declared for
// lang is used when present, otherwise the global namespace. Types, services
// and applications are not filtered by language.
//
// Spec only reads evaluator state and may be called any number of times.
func (e *Evaluator) Spec(lang string) (*ir.Spec, error) {
	if !e.linked {
		return nil, ErrNotLinked
	}

	ns := e.namespace
	if override, ok := e.langNamespaces[lang]; ok && lang != "" {
		ns = override
	}

	e.logger.Debug("assembled spec", "lang", lang, "namespace", ns.String(), "types", len(e.types))
	return &ir.Spec{
		Namespace:    slices.Clone(ns),
		Types:        slices.Clone(e.types),
		Services:     slices.Clone(e.services),
		Applications: slices.Clone(e.applications),
	}, nil
}

// Languages returns the languages that declared a namespace override,
// sorted.
func (e *Evaluator) Languages() []string {
	langs := make([]string, 0, len(e.langNamespaces))
	for lang := range e.langNamespaces {
		langs = append(langs, lang)
	}
	slices.Sort(langs)
	return langs
}

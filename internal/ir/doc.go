// Package ir provides the resolved intermediate representation produced by
// the evaluator and consumed by code generators.
//
// This package contains type definitions and pure helpers only. All other
// internal packages import ir; ir imports nothing internal.
//
// Key design constraints:
//   - Nodes are built once by the evaluator and never mutated afterwards
//   - Primitive types come from an explicitly constructed Primitives set,
//     never from package-level singletons
//   - Type and value equality is structural (TypeEqual, ValueEqual)
//   - The JSON document view (SpecDocument) has no floats and no nulls
package ir

// Package ast defines the syntax tree the evaluator consumes.
//
// Nodes are plain immutable values produced by a front end (see
// internal/schema). Every node renders back to schema text via Text, and
// Summary gives the shortened form used in diagnostics.
//
// Key design constraints:
//   - Decl and BodyItem are closed sets; dispatch goes through DeclVisitor
//     and BodyVisitor so a new variant fails the build until handled
//   - TypeRef and Literal are sealed by unexported marker methods
//   - Integer literals are arbitrary precision (*big.Int)
package ast

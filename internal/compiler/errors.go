package compiler

import (
	"errors"
	"fmt"
	"strings"

	"github.com/msgidl/msgidl/internal/ast"
)

// ErrorKind categorizes evaluation failures.
type ErrorKind string

const (
	// KindDuplicatedName covers re-declared top-level names, duplicate
	// field, argument, enum member, scope or function names and ids, and
	// duplicate service versions.
	KindDuplicatedName ErrorKind = "DUPLICATED_NAME"

	// KindNameNotFound covers unresolvable types, templates, constants,
	// enum members, inherited functions, services and versions.
	KindNameNotFound ErrorKind = "NAME_NOT_FOUND"

	// KindInvalidIdentifier indicates a non-positive field or argument id,
	// or a negative enum member id.
	KindInvalidIdentifier ErrorKind = "INVALID_IDENTIFIER"

	// KindInheritanceViolation indicates a collision with a super type
	// field, an inherit on the oldest version, or a signature mismatch.
	KindInheritanceViolation ErrorKind = "INHERITANCE_VIOLATION"

	// KindTypeMismatch indicates a value that is not assignable to its type.
	KindTypeMismatch ErrorKind = "TYPE_MISMATCH"

	// KindMalformedInput indicates an AST shape the evaluator cannot handle.
	// It is reported through *InternalError, never through *CompileError.
	KindMalformedInput ErrorKind = "MALFORMED_INPUT"
)

// Sentinel errors for evaluator misuse.
var (
	ErrAlreadyLinked = errors.New("evaluator is already linked")
	ErrNotLinked     = errors.New("evaluator is not linked")
)

// CompileError is a user-facing validation failure in a schema.
type CompileError struct {
	Kind    ErrorKind
	Message string
}

func (e *CompileError) Error() string {
	return e.Message
}

func newError(kind ErrorKind, format string, args ...any) *CompileError {
	return &CompileError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// InternalError reports an AST node the front end should never produce.
type InternalError struct {
	Message string
}

func (e *InternalError) Error() string {
	return "BUG: malformed input: " + e.Message
}

func malformed(format string, args ...any) *InternalError {
	return &InternalError{Message: fmt.Sprintf(format, args...)}
}

// ContextError attaches the summary of the node being processed when Err
// occurred. Errors nest: each enclosing declaration adds its own summary.
type ContextError struct {
	Err     error
	Summary string
}

func (e *ContextError) Error() string {
	lines := strings.Split(e.Summary, "\n")
	for i, l := range lines {
		lines[i] = "  " + l
	}
	return e.Err.Error() + "\n\nwhile processing:\n" + strings.Join(lines, "\n")
}

func (e *ContextError) Unwrap() error {
	return e.Err
}

// withContext wraps err with the summary of node. Internal errors are
// returned unchanged.
func withContext(err error, node ast.Node) error {
	if err == nil {
		return nil
	}
	var internal *InternalError
	if errors.As(err, &internal) {
		return err
	}
	return &ContextError{Err: err, Summary: ast.Summary(node)}
}

// KindOf returns the kind of err, or "" if err did not come from evaluation.
func KindOf(err error) ErrorKind {
	var ce *CompileError
	if errors.As(err, &ce) {
		return ce.Kind
	}
	var ie *InternalError
	if errors.As(err, &ie) {
		return KindMalformedInput
	}
	return ""
}

// IsKind reports whether err carries the given kind.
// Uses errors.As to handle wrapped errors.
func IsKind(err error, kind ErrorKind) bool {
	return err != nil && KindOf(err) == kind
}

// IsMalformed reports whether err is an internal contract violation.
func IsMalformed(err error) bool {
	var ie *InternalError
	return errors.As(err, &ie)
}

package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/msgidl/msgidl/internal/ast"
	"github.com/msgidl/msgidl/internal/compiler"
	"github.com/msgidl/msgidl/internal/config"
	"github.com/msgidl/msgidl/internal/ir"
	"github.com/msgidl/msgidl/internal/schema"
)

// LoadMode controls how errors are handled during schema loading.
type LoadMode int

const (
	// LoadModeFailFast stops on the first error encountered.
	LoadModeFailFast LoadMode = iota
	// LoadModeCollectAll reports every file that fails to decode.
	LoadModeCollectAll
)

// LoadResult contains the decoded schema files.
type LoadResult struct {
	Document   ast.Document // declarations of all files, in file order
	Files      []string
	SourceHash string
}

// LoadError represents an error that occurred during schema loading.
// Line and Column are zero when the position is unknown.
type LoadError struct {
	Code    string
	Message string
	File    string
	Line    int
	Column  int
}

func (e *LoadError) Error() string {
	if e.File != "" && e.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.File, e.Line, e.Column, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// LoadSchemas decodes the schema files at paths. A path is either a schema
// file or a directory searched recursively. Declarations of all files are
// concatenated in the order the files were found.
// If mode is LoadModeFailFast, returns on first decode error.
// If mode is LoadModeCollectAll, collects all decode errors.
func LoadSchemas(paths []string, mode LoadMode) (*LoadResult, []error) {
	if len(paths) == 0 {
		return nil, []error{&LoadError{Code: ErrCodeNoFiles, Message: "no schema paths given (pass paths or set schemas in " + config.FileName + ")"}}
	}

	files, err := collectSchemaFiles(paths)
	if err != nil {
		return nil, []error{err}
	}

	var errs []error
	result := &LoadResult{Files: files, Document: ast.Document{}}
	sources := make([][]byte, 0, len(files))
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, []error{&LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("reading schema: %v", err), File: file}}
		}
		sources = append(sources, data)

		doc, err := schema.Decode(file, data)
		if err != nil {
			errs = append(errs, convertDecodeError(err, file))
			if mode == LoadModeFailFast {
				return nil, errs
			}
			continue
		}
		result.Document = append(result.Document, doc...)
	}
	if len(errs) > 0 {
		return nil, errs
	}

	result.SourceHash = ir.SourceHash(sources...)
	return result, nil
}

// collectSchemaFiles expands directories and drops duplicates.
func collectSchemaFiles(paths []string) ([]string, error) {
	var files []string
	seen := make(map[string]bool)
	add := func(f string) {
		if !seen[f] {
			seen[f] = true
			files = append(files, f)
		}
	}

	for _, p := range paths {
		info, err := os.Stat(p)
		if os.IsNotExist(err) {
			return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("schema path not found: %s", p)}
		}
		if err != nil {
			return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing schema path: %v", err)}
		}

		if !info.IsDir() {
			if !schema.IsSchemaFile(p) {
				return nil, &LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("not a schema file (want .yaml, .yml, .json or .cue): %s", p)}
			}
			add(p)
			continue
		}

		found, err := schema.FindSchemaFiles(p)
		if err != nil {
			return nil, &LoadError{Code: ErrCodeScanError, Message: fmt.Sprintf("error scanning directory: %v", err)}
		}
		if len(found) == 0 {
			return nil, &LoadError{Code: ErrCodeNoFiles, Message: fmt.Sprintf("no schema files found in %s", p)}
		}
		for _, f := range found {
			add(f)
		}
	}
	return files, nil
}

// convertDecodeError converts a decoder error to a LoadError with position info.
func convertDecodeError(err error, file string) *LoadError {
	var de *schema.DecodeError
	if errors.As(err, &de) {
		msg := de.Err.Error()
		if de.Path != "" {
			msg = de.Path + ": " + msg
		}
		return &LoadError{Code: ErrCodeLoadFailed, Message: msg, File: de.File, Line: de.Line, Column: de.Column}
	}
	return &LoadError{Code: ErrCodeLoadFailed, Message: err.Error(), File: file}
}

// Error code constants - unified across all CLI commands.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeScanError   = "E002" // Directory scan error
	ErrCodeNoFiles     = "E003" // No schema files found
	ErrCodeLoadFailed  = "E004" // Schema file could not be read or decoded
	ErrCodeNotFound    = "E005" // Path, build or spec not found
	ErrCodeStore       = "E006" // Build store error
	ErrCodeWriteFailed = "E007" // File write error
	ErrCodeInvalidArgs = "E008" // Invalid flag or argument
	ErrCodeConfig      = "E009" // Config file error

	// Evaluation errors, one per compiler.ErrorKind
	ErrCodeDuplicatedName       = "E120"
	ErrCodeNameNotFound         = "E121"
	ErrCodeInvalidIdentifier    = "E122"
	ErrCodeInheritanceViolation = "E123"
	ErrCodeTypeMismatch         = "E124"
	ErrCodeMalformedInput       = "E125"
)

// MapKindToErrorCode maps an evaluation error kind to an error code.
func MapKindToErrorCode(kind compiler.ErrorKind) string {
	switch kind {
	case compiler.KindDuplicatedName:
		return ErrCodeDuplicatedName
	case compiler.KindNameNotFound:
		return ErrCodeNameNotFound
	case compiler.KindInvalidIdentifier:
		return ErrCodeInvalidIdentifier
	case compiler.KindInheritanceViolation:
		return ErrCodeInheritanceViolation
	case compiler.KindTypeMismatch:
		return ErrCodeTypeMismatch
	case compiler.KindMalformedInput:
		return ErrCodeMalformedInput
	default:
		return ErrCodeGeneric
	}
}

// parseError extracts error code and message from an error.
func parseError(err error) (string, string) {
	var loadErr *LoadError
	if errors.As(err, &loadErr) {
		return loadErr.Code, loadErr.Message
	}
	return MapKindToErrorCode(compiler.KindOf(err)), err.Error()
}

// errorLocation returns "file:line:col" for errors that carry a position.
func errorLocation(err error) string {
	var loadErr *LoadError
	if !errors.As(err, &loadErr) || loadErr.File == "" {
		return ""
	}
	if loadErr.Line == 0 {
		return loadErr.File
	}
	return fmt.Sprintf("%s:%d:%d", loadErr.File, loadErr.Line, loadErr.Column)
}

package cli

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/msgidl/msgidl/internal/compiler"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid  bool                       `json:"valid"`
	Files  int                        `json:"files"`
	Errors []compiler.ValidationError `json:"errors,omitempty"`
}

// ValidateOptions holds flags for the validate command.
type ValidateOptions struct {
	*RootOptions
	Langs     []string
	StrictInt bool
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ValidateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "validate [paths...]",
		Short: "Check schemas without writing output",
		Long: `Evaluate MessagePack IDL schemas and check the resulting IR.

Reports decode errors, evaluation errors and IR self-check failures
without writing files or recording a build. Faster than compile for
development feedback.`,
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("strict-int") {
				opts.StrictInt = opts.config().StrictIntegerRange
			}
			return runValidate(opts, args, cmd)
		},
	}

	cmd.Flags().StringArrayVarP(&opts.Langs, "lang", "l", nil, "target language (repeatable; default from config, else the global namespace)")
	cmd.Flags().BoolVar(&opts.StrictInt, "strict-int", false, "reject integer values outside the range of their type")

	return cmd
}

func runValidate(opts *ValidateOptions, args []string, cmd *cobra.Command) error {
	formatter := opts.newFormatter(cmd)

	paths := args
	if len(paths) == 0 {
		paths = opts.config().SchemaPaths()
	}
	langs := opts.Langs
	if len(langs) == 0 {
		langs = opts.config().Languages
	}

	result, err := ValidateSchemas(paths, langs, opts.StrictInt, opts.logger())
	if err != nil {
		code, message := parseError(err)
		_ = formatter.Error(code, message, nil)
		// Unreadable paths are command-level errors (exit code 2)
		return NewExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, message))
	}
	formatter.VerboseLog("Checked %d schema file(s)", result.Files)

	if !result.Valid {
		return outputValidationErrors(formatter, result.Errors)
	}
	return outputValidateSuccess(formatter, result)
}

// ValidateSchemas loads, evaluates and checks the schemas at paths for each
// language in langs (the global namespace when empty). Schema problems are
// returned in the result; err is set only when the paths cannot be used.
func ValidateSchemas(paths, langs []string, strictInt bool, logger *slog.Logger) (*ValidationResult, error) {
	loadResult, loadErrors := LoadSchemas(paths, LoadModeCollectAll)
	if len(loadErrors) > 0 {
		var errs []compiler.ValidationError
		for _, err := range loadErrors {
			var loadErr *LoadError
			if !errors.As(err, &loadErr) || loadErr.Code != ErrCodeLoadFailed || loadErr.File == "" {
				return nil, err
			}
			errs = append(errs, compiler.ValidationError{
				Field:   errorLocation(err),
				Message: loadErr.Message,
				Code:    loadErr.Code,
			})
		}
		return &ValidationResult{Valid: false, Errors: errs}, nil
	}

	result := &ValidationResult{Files: len(loadResult.Files)}
	e := compiler.New(compiler.WithLogger(logger), compiler.WithIntegerRangeCheck(strictInt))
	if err := e.Evaluate(loadResult.Document); err != nil {
		result.Errors = []compiler.ValidationError{evaluationError(err)}
		return result, nil
	}
	if err := e.Link(); err != nil {
		result.Errors = []compiler.ValidationError{evaluationError(err)}
		return result, nil
	}

	if len(langs) == 0 {
		langs = []string{""}
	}
	for _, lang := range langs {
		spec, err := e.Spec(lang)
		if err != nil {
			return nil, err
		}
		result.Errors = append(result.Errors, compiler.Validate(spec)...)
	}
	result.Valid = len(result.Errors) == 0
	return result, nil
}

// evaluationError converts an evaluation failure to a validation error.
func evaluationError(err error) compiler.ValidationError {
	code, message := parseError(err)
	return compiler.ValidationError{Field: "schema", Message: message, Code: code}
}

// outputValidateSuccess outputs successful validation results.
func outputValidateSuccess(formatter *OutputFormatter, result *ValidationResult) error {
	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	formatter.Printf("✓ All schemas valid (%d file(s))\n", result.Files)
	return nil
}

// outputValidationErrors outputs multiple validation errors.
func outputValidationErrors(formatter *OutputFormatter, errs []compiler.ValidationError) error {
	if formatter.Format == "json" {
		response := CLIResponse{
			Status: "error",
			Data:   ValidationResult{Valid: false, Errors: errs},
			Error: &CLIError{
				Code:    errs[0].Code,
				Message: errs[0].Message,
			},
		}
		if err := formatter.encode(response); err != nil {
			return err
		}

		// Validation failures = exit code 1
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
	}

	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)

	for _, err := range errs {
		if err.Field != "" {
			fmt.Fprintln(formatter.Writer, err.Field)
		}
		formatter.Printf("  %s: %s\n\n", err.Code, err.Message)
	}

	// Validation failures = exit code 1
	return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
}

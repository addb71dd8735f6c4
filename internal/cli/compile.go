package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/msgidl/msgidl/internal/compiler"
	"github.com/msgidl/msgidl/internal/ir"
	"github.com/msgidl/msgidl/internal/store"
)

// CompileOptions holds flags for the compile command.
type CompileOptions struct {
	*RootOptions
	Langs     []string // target languages; "" is the global namespace
	AllLangs  bool     // compile every language with a namespace override
	StrictInt bool     // reject integer values that overflow their type
	Output    string   // output file or directory
	Record    bool     // record the build in the store
}

// CompilationResult is the outcome of one compile run.
type CompilationResult struct {
	Files      []string       `json:"files"`
	SourceHash string         `json:"source_hash"`
	Specs      []CompiledSpec `json:"specs"`
	BuildID    string         `json:"build_id,omitempty"`
	Seq        int64          `json:"seq,omitempty"`
}

// CompiledSpec summarizes the spec assembled for one language.
type CompiledSpec struct {
	Lang           string `json:"lang"`
	Namespace      string `json:"namespace"`
	SpecHash       string `json:"spec_hash"`
	Messages       int    `json:"messages"`
	Exceptions     int    `json:"exceptions"`
	Enums          int    `json:"enums"`
	Services       int    `json:"services"`
	Applications   int    `json:"applications"`
	Output         string `json:"output,omitempty"`
	UnchangedSince string `json:"unchanged_since,omitempty"` // earliest build with the same spec hash
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compile [paths...]",
		Short: "Evaluate schemas to canonical IR",
		Long: `Evaluate MessagePack IDL schemas and assemble one spec per target language.

Paths are schema files (.yaml, .yml, .json, .cue) or directories searched
recursively. Without paths, the schemas listed in msgidl.toml are used.

With --output, the canonical spec documents are written to disk. With
--record, the build is stored so it can be listed, shown and diffed later.`,
		SilenceUsage:  true, // Don't print usage on errors - we handle our own error output
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("strict-int") {
				opts.StrictInt = opts.config().StrictIntegerRange
			}
			return runCompile(cmd.Context(), opts, args, cmd)
		},
	}

	cmd.Flags().StringArrayVarP(&opts.Langs, "lang", "l", nil, "target language (repeatable; default from config, else the global namespace)")
	cmd.Flags().BoolVar(&opts.AllLangs, "all-langs", false, "compile the global namespace and every language override")
	cmd.Flags().BoolVar(&opts.StrictInt, "strict-int", false, "reject integer values outside the range of their type")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file (single language) or directory")
	cmd.Flags().BoolVar(&opts.Record, "record", false, "record the build in the store")

	return cmd
}

func runCompile(ctx context.Context, opts *CompileOptions, args []string, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	formatter := opts.newFormatter(cmd)
	logger := opts.logger()

	paths := args
	if len(paths) == 0 {
		paths = opts.config().SchemaPaths()
	}

	loadResult, loadErrors := LoadSchemas(paths, LoadModeCollectAll)
	if len(loadErrors) > 0 {
		return outputCompileErrors(formatter, loadErrors)
	}
	formatter.VerboseLog("Loaded %d schema file(s), %d declaration(s)", len(loadResult.Files), len(loadResult.Document))

	e := compiler.New(
		compiler.WithLogger(logger),
		compiler.WithIntegerRangeCheck(opts.StrictInt),
	)
	if err := e.Evaluate(loadResult.Document); err != nil {
		return outputCompileErrors(formatter, []error{err})
	}
	if err := e.Link(); err != nil {
		return outputCompileErrors(formatter, []error{err})
	}

	langs := compileLanguages(opts, e)
	specs := make(map[string]*ir.Spec, len(langs))
	result := &CompilationResult{Files: loadResult.Files, SourceHash: loadResult.SourceHash}
	for _, lang := range langs {
		spec, err := e.Spec(lang)
		if err != nil {
			return outputCompileErrors(formatter, []error{err})
		}
		specs[lang] = spec

		hash, err := ir.SpecHash(ir.SpecDocument(spec))
		if err != nil {
			return outputCompileError(formatter, ErrCodeGeneric, fmt.Sprintf("hashing spec: %v", err))
		}
		result.Specs = append(result.Specs, CompiledSpec{
			Lang:         lang,
			Namespace:    spec.Namespace.String(),
			SpecHash:     hash,
			Messages:     len(spec.Messages()),
			Exceptions:   len(spec.Exceptions()),
			Enums:        len(spec.Enums()),
			Services:     len(spec.Services),
			Applications: len(spec.Applications),
		})
		logger.Info("compiled spec", "lang", lang, "namespace", spec.Namespace.String(), "hash", hash)
	}

	if opts.Output != "" {
		if err := writeSpecs(opts.Output, langs, specs, result); err != nil {
			return outputCompileError(formatter, ErrCodeWriteFailed, fmt.Sprintf("writing output: %v", err))
		}
	}

	if opts.Record {
		if err := recordBuild(ctx, opts, specs, result); err != nil {
			return outputCompileError(formatter, ErrCodeStore, err.Error())
		}
		logger.Info("recorded build", "id", result.BuildID, "seq", result.Seq)
	}

	return outputCompileSuccess(formatter, result)
}

// compileLanguages returns the languages to assemble, without duplicates.
func compileLanguages(opts *CompileOptions, e *compiler.Evaluator) []string {
	var langs []string
	switch {
	case opts.AllLangs:
		langs = append([]string{""}, e.Languages()...)
	case len(opts.Langs) > 0:
		langs = opts.Langs
	case len(opts.config().Languages) > 0:
		langs = opts.config().Languages
	default:
		langs = []string{""}
	}

	seen := make(map[string]bool, len(langs))
	out := make([]string, 0, len(langs))
	for _, l := range langs {
		if !seen[l] {
			seen[l] = true
			out = append(out, l)
		}
	}
	return out
}

// specFileName returns the file name used for lang inside an output
// directory.
func specFileName(lang string) string {
	if lang == "" {
		return "spec.json"
	}
	return "spec." + lang + ".json"
}

// writeSpecs writes the indented canonical documents. A single language is
// written to output itself unless output is an existing directory or ends
// with a path separator.
func writeSpecs(output string, langs []string, specs map[string]*ir.Spec, result *CompilationResult) error {
	asDir := len(langs) > 1 || strings.HasSuffix(output, string(filepath.Separator))
	if info, err := os.Stat(output); err == nil && info.IsDir() {
		asDir = true
	}
	if asDir {
		if err := os.MkdirAll(output, 0755); err != nil {
			return err
		}
	}

	for i, lang := range langs {
		data, err := ir.MarshalIndent(ir.SpecDocument(specs[lang]))
		if err != nil {
			return fmt.Errorf("marshaling spec: %w", err)
		}
		path := output
		if asDir {
			path = filepath.Join(output, specFileName(lang))
		}
		if err := os.WriteFile(path, data, 0644); err != nil {
			return err
		}
		result.Specs[i].Output = path
	}
	return nil
}

// recordBuild stores the build and marks specs already recorded by an
// earlier build.
func recordBuild(ctx context.Context, opts *CompileOptions, specs map[string]*ir.Spec, result *CompilationResult) error {
	path := opts.storePath()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating store directory: %w", err)
	}
	st, err := store.Open(path)
	if err != nil {
		return err
	}
	defer st.Close()

	for i, cs := range result.Specs {
		prev, err := st.FirstBuildWithSpec(ctx, cs.Lang, cs.SpecHash)
		switch {
		case err == nil:
			result.Specs[i].UnchangedSince = prev.ID
		case !errors.Is(err, store.ErrNotFound):
			return err
		}
	}

	b, _, err := st.RecordCompilation(ctx, store.NewBuild(store.UUIDv7Generator{}, 0, result.Files, result.SourceHash), specs)
	if err != nil {
		return err
	}
	result.BuildID = b.ID
	result.Seq = b.Seq
	return nil
}

// langLabel renders a language for text output.
func langLabel(lang string) string {
	if lang == "" {
		return "(global)"
	}
	return lang
}

// outputCompileSuccess outputs successful compilation results.
func outputCompileSuccess(formatter *OutputFormatter, result *CompilationResult) error {
	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	formatter.Printf("✓ Compiled %d file(s)\n\n", len(result.Files))
	fmt.Fprintln(formatter.Writer, "Specs:")
	for _, s := range result.Specs {
		formatter.Printf("  %s: namespace %q, %d message(s), %d exception(s), %d enum(s), %d service(s), %d application(s)\n",
			langLabel(s.Lang), s.Namespace, s.Messages, s.Exceptions, s.Enums, s.Services, s.Applications)
		formatter.Printf("    hash %s\n", s.SpecHash)
		if s.Output != "" {
			formatter.Printf("    wrote %s\n", s.Output)
		}
		if s.UnchangedSince != "" {
			formatter.Printf("    unchanged since build %s\n", s.UnchangedSince)
		}
	}

	if result.BuildID != "" {
		formatter.Printf("\nRecorded build %s (seq %d)\n", result.BuildID, result.Seq)
	}
	return nil
}

// outputCompileError outputs a single command error.
func outputCompileError(formatter *OutputFormatter, code, message string) error {
	_ = formatter.Error(code, message, nil)
	return NewExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, message))
}

// outputCompileErrors outputs load or evaluation errors.
func outputCompileErrors(formatter *OutputFormatter, errs []error) error {
	if formatter.Format == "json" {
		cliErrors := make([]CLIError, len(errs))
		for i, err := range errs {
			code, message := parseError(err)
			cliErrors[i] = CLIError{Code: code, Message: message}
			if loc := errorLocation(err); loc != "" {
				cliErrors[i].Details = loc
			}
		}

		if err := formatter.encode(CLIResponse{
			Status: "error",
			Error:  &cliErrors[0],
			Data:   cliErrors, // Include all errors in data
		}); err != nil {
			return err
		}
		return NewExitError(ExitCommandError, fmt.Sprintf("compilation failed with %d error(s)", len(errs)))
	}

	fmt.Fprintln(formatter.Writer, "✗ Compilation failed")
	fmt.Fprintln(formatter.Writer)
	for _, err := range errs {
		code, message := parseError(err)
		if loc := errorLocation(err); loc != "" {
			fmt.Fprintln(formatter.Writer, loc)
		}
		formatter.Printf("  %s: %s\n\n", code, message)
	}

	// Compilation errors are command-level errors (exit code 2)
	return NewExitError(ExitCommandError, fmt.Sprintf("compilation failed with %d error(s)", len(errs)))
}

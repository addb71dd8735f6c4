package cli

import (
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/msgidl/msgidl/internal/config"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigPath string
	StorePath  string

	// Set by the root command before any subcommand runs. Subcommands
	// created on their own (as in tests) fall back to defaults.
	Config *config.Config
	Logger *slog.Logger
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the msgidl CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "msgidl",
		Short: "msgidl - MessagePack IDL evaluator",
		Long: `Evaluate MessagePack IDL schemas into a language-independent IR.

Schemas are YAML or CUE documents. The evaluator resolves types, values,
inheritance and service versions, and records each build in a local store.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Errors here are reported on stderr as text; --format may be the problem.
			f := &OutputFormatter{Format: "text", Writer: cmd.ErrOrStderr()}
			if !isValidFormat(opts.Format) {
				msg := fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
				_ = f.Error(ErrCodeInvalidArgs, msg, nil)
				return NewExitError(ExitCommandError, msg)
			}
			if err := opts.init(cmd.ErrOrStderr()); err != nil {
				_ = f.Error(ErrCodeConfig, err.Error(), nil)
				return WrapExitError(ExitCommandError, "loading config", err)
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "config file (default: nearest "+config.FileName+")")
	cmd.PersistentFlags().StringVar(&opts.StorePath, "store", "", "build store path (overrides config)")

	cmd.AddCommand(NewCompileCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewShowCommand(opts))
	cmd.AddCommand(NewBuildsCommand(opts))
	cmd.AddCommand(NewDiffCommand(opts))

	return cmd
}

// init loads the config and installs the logger.
func (o *RootOptions) init(stderr io.Writer) error {
	var cfg config.Config
	var err error
	if o.ConfigPath != "" {
		cfg, err = config.Load(o.ConfigPath)
	} else {
		cfg, err = config.LoadOrDefault(".")
	}
	if err != nil {
		return err
	}
	o.Config = &cfg

	level, err := cfg.Log.SlogLevel()
	if err != nil {
		return err
	}
	if o.Verbose {
		level = slog.LevelDebug
	}
	o.Logger = newLogger(stderr, level, cfg.Log.Format)
	return nil
}

// config returns the loaded config, or the defaults.
func (o *RootOptions) config() config.Config {
	if o.Config == nil {
		return config.Default()
	}
	return *o.Config
}

// logger returns the installed logger, or one that discards everything.
func (o *RootOptions) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return o.Logger
}

// storePath returns the --store flag, or the configured path.
func (o *RootOptions) storePath() string {
	if o.StorePath != "" {
		return o.StorePath
	}
	cfg := o.config()
	return cfg.Resolve(cfg.Store.Path)
}

// newFormatter returns a formatter writing to the command's streams.
func (o *RootOptions) newFormatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   o.Verbose,
	}
}

func newLogger(w io.Writer, level slog.Level, format string) *slog.Logger {
	hopts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(format, "json") {
		return slog.New(slog.NewJSONHandler(w, hopts))
	}
	return slog.New(slog.NewTextHandler(w, hopts))
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}

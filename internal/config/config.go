// Package config loads project settings from msgidl.toml.
//
// Every setting has a default, so a project without a config file behaves
// the same as one with an empty file. Command-line flags override values
// loaded here.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// FileName is the name of the project config file.
const FileName = "msgidl.toml"

// DefaultStorePath is where build records are kept unless configured.
const DefaultStorePath = ".msgidl/builds.db"

// Config is the decoded form of msgidl.toml.
type Config struct {
	// Schemas lists schema files or directories, relative to the config file.
	Schemas []string `toml:"schemas"`

	// Languages are compiled when no --lang flag is given. An empty list
	// compiles the global namespace only.
	Languages []string `toml:"languages"`

	// StrictIntegerRange rejects integer initializers that do not fit their
	// field type.
	StrictIntegerRange bool `toml:"strict_integer_range"`

	Store StoreConfig `toml:"store"`
	Log   LogConfig   `toml:"log"`

	// dir is the directory the config was loaded from.
	dir string
}

// StoreConfig controls the build record database.
type StoreConfig struct {
	Path string `toml:"path"`
}

// LogConfig controls the CLI logger.
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Default returns the settings used when no config file exists.
func Default() Config {
	return Config{
		Store: StoreConfig{Path: DefaultStorePath},
		Log:   LogConfig{Level: "info", Format: "text"},
		dir:   ".",
	}
}

// Parse decodes data over the defaults. Unknown keys are rejected.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return Config{}, fmt.Errorf("unknown config key:\n%s", strict.String())
		}
		var decodeErr *toml.DecodeError
		if errors.As(err, &decodeErr) {
			row, col := decodeErr.Position()
			return Config{}, fmt.Errorf("line %d, column %d: %w", row, col, err)
		}
		return Config{}, err
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Load reads and parses the config file at path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	cfg.dir = filepath.Dir(path)
	return cfg, nil
}

// Find looks for FileName in dir and its parents. It returns "" when no
// config file exists.
func Find(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	for {
		candidate := filepath.Join(abs, FileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
		parent := filepath.Dir(abs)
		if parent == abs {
			return "", nil
		}
		abs = parent
	}
}

// LoadOrDefault loads the nearest config file above dir, or returns the
// defaults when there is none.
func LoadOrDefault(dir string) (Config, error) {
	path, err := Find(dir)
	if err != nil {
		return Config{}, err
	}
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}

// Resolve makes p relative to the config file directory unless it is
// absolute.
func (c Config) Resolve(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.dir, p)
}

// SchemaPaths returns Schemas resolved against the config directory.
func (c Config) SchemaPaths() []string {
	paths := make([]string, 0, len(c.Schemas))
	for _, s := range c.Schemas {
		paths = append(paths, c.Resolve(s))
	}
	return paths
}

// SlogLevel parses the configured log level.
func (l LogConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return 0, fmt.Errorf("log.level: %w", err)
	}
	return level, nil
}

func (c Config) validate() error {
	if _, err := c.Log.SlogLevel(); err != nil {
		return err
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}
	for _, lang := range c.Languages {
		if lang == "" {
			return errors.New("languages must not contain an empty name")
		}
	}
	return nil
}

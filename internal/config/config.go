// Package config loads the YAML configuration of the mwsql command.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/nao1215/mwsql"
	"github.com/nao1215/mwsql/fetch"
	"github.com/nao1215/mwsql/internal/logging"
)

// Config holds the settings shared by the mwsql subcommands.
type Config struct {
	// Encoding is the text encoding of dump files
	Encoding string `yaml:"encoding"`
	// MirrorDir is the root of a local dump mirror
	MirrorDir string `yaml:"mirror_dir"`
	// DumpsURL is the base URL dumps are downloaded from
	DumpsURL string `yaml:"dumps_url"`
	// OutputDir is where downloaded dumps are stored
	OutputDir string `yaml:"output_dir"`
	// LogLevel is one of debug, info, warn or error
	LogLevel string `yaml:"log_level"`
	// LogFormat is text or json
	LogFormat string `yaml:"log_format"`
}

// Default returns the configuration used when neither a file nor a flag sets a value.
func Default() Config {
	return Config{
		Encoding:  mwsql.DefaultEncoding,
		MirrorDir: fetch.DefaultMirrorDir,
		DumpsURL:  fetch.DefaultBaseURL,
		OutputDir: ".",
		LogLevel:  "info",
		LogFormat: "text",
	}
}

// Load reads the configuration file at path. An empty path returns an empty
// configuration, so that only flags and defaults apply.
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path) //nolint:gosec // user supplied config path
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}

// Override returns c with every non-empty field of o copied over it.
func (c Config) Override(o Config) Config {
	if o.Encoding != "" {
		c.Encoding = o.Encoding
	}
	if o.MirrorDir != "" {
		c.MirrorDir = o.MirrorDir
	}
	if o.DumpsURL != "" {
		c.DumpsURL = o.DumpsURL
	}
	if o.OutputDir != "" {
		c.OutputDir = o.OutputDir
	}
	if o.LogLevel != "" {
		c.LogLevel = o.LogLevel
	}
	if o.LogFormat != "" {
		c.LogFormat = o.LogFormat
	}
	return c
}

// WithDefaults fills the empty fields of c from Default.
func (c Config) WithDefaults() Config {
	return Default().Override(c)
}

// Validate checks the log settings. Encodings and paths are checked where they are used.
func (c Config) Validate() error {
	_, levelErr := logging.ParseLevel(c.LogLevel)
	_, formatErr := logging.ParseFormat(c.LogFormat)
	return errors.Join(levelErr, formatErr)
}

// Resolve loads the file at path, applies flags over it, fills defaults
// and validates the result.
func Resolve(path string, flags Config) (Config, error) {
	fromFile, err := Load(path)
	if err != nil {
		return Config{}, err
	}
	cfg := fromFile.Override(flags).WithDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

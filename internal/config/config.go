// Package config loads the settings of the ioc command.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v2"

	"github.com/io-lang/io-lang/internal/source"
)

// DefaultFile is read from the working directory when no path is given.
const DefaultFile = ".ioc.yml"

// Output formats understood by ioc parse.
const (
	FormatSExpr  = "sexpr"
	FormatYAML   = "yaml"
	FormatPretty = "pretty"
)

// Colour modes.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Config holds the settings shared by every ioc subcommand.
type Config struct {
	Encoding string `yaml:"encoding"`
	Format   string `yaml:"format"`
	Color    string `yaml:"color"`
	MaxDepth int    `yaml:"max_depth"`
	Jobs     int    `yaml:"jobs"`
}

// Default returns the settings used when neither a file nor a flag sets them.
func Default() Config {
	return Config{
		Encoding: source.Auto,
		Format:   FormatSExpr,
		Color:    ColorAuto,
		MaxDepth: 256,
		Jobs:     4,
	}
}

// Load reads the file at path over the defaults. An empty path means
// DefaultFile, which may be absent; a path given explicitly must exist.
func Load(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return Config{}, err
	}

	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML over the defaults. Unknown keys are an error.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.UnmarshalStrict(data, &cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks every field holds an accepted value.
func (c Config) Validate() error {
	if !source.Known(c.Encoding) {
		return fmt.Errorf("unknown encoding %q (want one of %s)", c.Encoding, strings.Join(source.Encodings(), ", "))
	}
	switch c.Format {
	case FormatSExpr, FormatYAML, FormatPretty:
	default:
		return fmt.Errorf("unknown format %q (want sexpr, yaml or pretty)", c.Format)
	}
	switch c.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("unknown color mode %q (want auto, always or never)", c.Color)
	}
	if c.MaxDepth < 1 {
		return fmt.Errorf("max_depth must be positive, got %d", c.MaxDepth)
	}
	if c.Jobs < 1 {
		return fmt.Errorf("jobs must be positive, got %d", c.Jobs)
	}
	return nil
}

// Package config holds driver settings that can come from a YAML file or
// from command-line flags.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"

	"gopkg.in/yaml.v3"

	"github.com/raymyers/ecc/pkg/qbegen"
)

// Code generation targets
const (
	TargetX86_64 = "x86-64"
	TargetQBE    = "qbe"
)

// Colour modes for diagnostics
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

var (
	// ErrUnknownTarget reports a code generator or QBE target ecc cannot use
	ErrUnknownTarget = errors.New("unknown target")
	// ErrInvalidColor reports a colour mode other than auto, always or never
	ErrInvalidColor = errors.New("invalid color mode")
	// ErrEmptyLinker reports a configuration with no linker command
	ErrEmptyLinker = errors.New("linker must not be empty")
)

// Config controls code generation and linking
type Config struct {
	Target     string   `yaml:"target"`
	QbeTarget  string   `yaml:"qbe_target"`
	Linker     string   `yaml:"linker"`
	LinkerArgs []string `yaml:"linker_args"`
	KeepAsm    bool     `yaml:"keep_asm"`
	Color      string   `yaml:"color"`
}

// Default returns the settings used when nothing is configured
func Default() *Config {
	return &Config{
		Target:    TargetX86_64,
		QbeTarget: qbegen.DefaultTarget(runtime.GOOS, runtime.GOARCH),
		Linker:    "cc",
		Color:     ColorAuto,
	}
}

// Load reads a YAML file over the defaults. Unknown keys are an error.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	defer f.Close()

	cfg := Default()
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the enumerated settings
func (c *Config) Validate() error {
	switch c.Target {
	case TargetX86_64:
	case TargetQBE:
		if !qbegen.IsTarget(c.QbeTarget) {
			return fmt.Errorf("%w: qbe target %q", ErrUnknownTarget, c.QbeTarget)
		}
	default:
		return fmt.Errorf("%w: %q (want %s or %s)", ErrUnknownTarget, c.Target, TargetX86_64, TargetQBE)
	}

	switch c.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidColor, c.Color)
	}

	if c.Linker == "" {
		return ErrEmptyLinker
	}
	return nil
}

// Package config reads loader configuration from a YAML file and the
// environment.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/librapid/librapid-go/internal/engine"
	"gopkg.in/yaml.v3"
)

// Environment variables consulted by ApplyEnv.
const (
	EnvHome       = "LIBRAPID_HOME"
	EnvLibrary    = "LIBRAPID_LIBRARY"
	EnvNumThreads = "LIBRAPID_NUM_THREADS"
)

// Config describes where the engine lives and how to tune it once loaded.
type Config struct {
	InstallDir string           `yaml:"install_dir"`
	Library    string           `yaml:"library"`
	Verbose    bool             `yaml:"verbose"`
	Settings   *engine.Settings `yaml:"settings"`
}

// Load reads the YAML file at path. Unknown keys are rejected.
func Load(path string) (*Config, error) {
	f, err := os.Open(path) //nolint:gosec // G304: path is user-provided by design
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	defer func() { _ = f.Close() }()

	cfg, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Decode parses a YAML document from r. Settings missing from the document
// keep their defaults. An empty document yields an empty Config.
func Decode(r io.Reader) (*Config, error) {
	var raw struct {
		InstallDir string     `yaml:"install_dir"`
		Library    string     `yaml:"library"`
		Verbose    bool       `yaml:"verbose"`
		Settings   *yaml.Node `yaml:"settings"`
	}

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}

	cfg := &Config{
		InstallDir: raw.InstallDir,
		Library:    raw.Library,
		Verbose:    raw.Verbose,
	}
	if raw.Settings != nil {
		s := engine.DefaultSettings()
		if err := decodeStrict(raw.Settings, &s); err != nil {
			return nil, fmt.Errorf("settings: %w", err)
		}
		if err := s.Validate(); err != nil {
			return nil, err
		}
		cfg.Settings = &s
	}
	return cfg, nil
}

// decodeStrict decodes node into v rejecting unknown keys, which
// yaml.Node.Decode on its own does not do.
func decodeStrict(node *yaml.Node, v any) error {
	out, err := yaml.Marshal(node)
	if err != nil {
		return err
	}
	dec := yaml.NewDecoder(bytes.NewReader(out))
	dec.KnownFields(true)
	return dec.Decode(v)
}

// ApplyEnv overlays environment overrides read through getenv.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	if v := getenv(EnvHome); v != "" {
		c.InstallDir = v
	}
	if v := getenv(EnvLibrary); v != "" {
		c.Library = v
	}
	if v := getenv(EnvNumThreads); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: %s=%q: %w", EnvNumThreads, v, err)
		}
		if c.Settings == nil {
			s := engine.DefaultSettings()
			c.Settings = &s
		}
		c.Settings.NumThreads = n
		if err := c.Settings.Validate(); err != nil {
			return fmt.Errorf("config: %s: %w", EnvNumThreads, err)
		}
	}
	return nil
}

// Marshal renders c as YAML.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// Copyright 2026 LibRapid Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package librapid

import (
	"os"
	"sync"

	"github.com/librapid/librapid-go/internal/config"
	"github.com/librapid/librapid-go/internal/engine"
	"github.com/librapid/librapid-go/internal/searchpath"
	"github.com/librapid/librapid-go/internal/shim"
)

// Engine is the API of the native engine.
type Engine = engine.Engine

// Settings holds the engine's tunable runtime state.
type Settings = engine.Settings

// LoadError reports which step of the load sequence failed.
type LoadError = shim.LoadError

// Stage names a step of the load sequence.
type Stage = shim.Stage

// Host identifies an operating system family by its GOOS name.
type Host = searchpath.Host

// Registrar registers a directory with the process-wide DLL search path.
type Registrar = searchpath.Registrar

// RegistrarFunc adapts a function to Registrar.
type RegistrarFunc = searchpath.RegistrarFunc

// Library is an opened native library as seen by the engine adapter.
type Library = shim.Library

// Config is the file and environment configuration used by Default.
type Config = config.Config

// ABIVersion is the engine ABI revision this package binds against.
const ABIVersion = engine.ABIVersion

// Load stages.
const (
	StageResolve  = shim.StageResolve
	StageRegister = shim.StageRegister
	StageOpen     = shim.StageOpen
	StageBind     = shim.StageBind
)

// Common errors.
var (
	ErrABIMismatch     = engine.ErrABIMismatch
	ErrClosed          = engine.ErrClosed
	ErrInvalidSettings = engine.ErrInvalidSettings
)

// DefaultSettings returns the engine defaults with one thread per CPU.
func DefaultSettings() Settings {
	return engine.DefaultSettings()
}

// LoadConfig reads a YAML configuration file.
func LoadConfig(path string) (*Config, error) {
	return config.Load(path)
}

// Load runs the load sequence and returns a new engine handle. Settings
// given through WithSettings or WithConfig are applied before returning;
// if they are rejected the engine is closed and the error returned.
func Load(opts ...Option) (Engine, error) {
	o := newOptions(opts)

	eng, err := o.loader.Load()
	if err != nil {
		return nil, err
	}
	if o.settings != nil {
		if err := eng.Apply(*o.settings); err != nil {
			_ = eng.Close()
			return nil, err
		}
	}
	return eng, nil
}

var (
	defaultOnce sync.Once
	defaultEng  Engine
	defaultErr  error

	// defaultOpts is extended by tests.
	defaultOpts []Option
)

// Default returns the process-wide engine, loading it on first use with the
// environment configuration. A failed load is remembered: every later call
// returns the same error.
func Default() (Engine, error) {
	defaultOnce.Do(func() {
		cfg := &config.Config{}
		if err := cfg.ApplyEnv(os.Getenv); err != nil {
			defaultErr = err
			return
		}
		opts := append([]Option{WithConfig(cfg)}, defaultOpts...)
		defaultEng, defaultErr = Load(opts...)
	})
	return defaultEng, defaultErr
}

// SetNumThreads sets the thread count of the default engine.
func SetNumThreads(n int) error {
	eng, err := Default()
	if err != nil {
		return err
	}
	s := eng.Settings()
	s.NumThreads = n
	s.Seed = nil
	return eng.Apply(s)
}

// NumThreads returns the thread count of the default engine.
func NumThreads() (int, error) {
	eng, err := Default()
	if err != nil {
		return 0, err
	}
	return eng.NumThreads(), nil
}

// SetSeed seeds the default engine's random generators.
func SetSeed(seed uint64) error {
	eng, err := Default()
	if err != nil {
		return err
	}
	eng.SetSeed(seed)
	return nil
}

// Seed returns the seed of the default engine.
func Seed() (uint64, error) {
	eng, err := Default()
	if err != nil {
		return 0, err
	}
	return eng.Seed(), nil
}

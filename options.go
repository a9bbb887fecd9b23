// Copyright 2026 LibRapid Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package librapid

import (
	"log"

	"github.com/librapid/librapid-go/internal/searchpath"
	"github.com/librapid/librapid-go/internal/shim"
)

// Option configures Load.
type Option func(*options)

type options struct {
	loader   shim.Loader
	settings *Settings
}

func newOptions(opts []Option) *options {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithInstallDir sets the directory holding the engine library and its
// blas dependency directory.
func WithInstallDir(dir string) Option {
	return func(o *options) { o.loader.InstallDir = dir }
}

// WithLibrary sets the engine library path explicitly.
func WithLibrary(path string) Option {
	return func(o *options) { o.loader.LibraryPath = path }
}

// WithHost overrides host detection with a GOOS name. Intended for tests.
func WithHost(goos string) Option {
	return func(o *options) { o.loader.Host = searchpath.Host(goos) }
}

// WithRegistrar replaces the SetDllDirectory call used on Windows.
func WithRegistrar(r Registrar) Option {
	return func(o *options) { o.loader.Registrar = r }
}

// WithOpener replaces the shared library loader.
func WithOpener(open func(path string) (Library, error)) Option {
	return func(o *options) { o.loader.Open = open }
}

// WithLogger enables progress logging.
func WithLogger(l *log.Logger) Option {
	return func(o *options) { o.loader.Logger = l }
}

// WithSettings applies s to the engine once it is loaded.
func WithSettings(s Settings) Option {
	return func(o *options) { o.settings = &s }
}

// WithConfig takes install directory, library path and settings from cfg.
// Empty fields leave earlier options untouched.
func WithConfig(cfg *Config) Option {
	return func(o *options) {
		if cfg == nil {
			return
		}
		if cfg.InstallDir != "" {
			o.loader.InstallDir = cfg.InstallDir
		}
		if cfg.Library != "" {
			o.loader.LibraryPath = cfg.Library
		}
		if cfg.Settings != nil {
			s := *cfg.Settings
			o.settings = &s
		}
	}
}

// Package searchpath configures where the OS dynamic loader looks for the
// shared libraries the native engine depends on.
//
// Windows does not search the directory of a loading module for its
// dependencies, so the bundled BLAS directory has to be registered with
// SetDllDirectory before the engine is opened. Every other platform relies
// on rpath and LD_LIBRARY_PATH style conventions and is left untouched.
//
// The path computation is pure and the registration goes through the
// Registrar interface, so the whole step can be exercised without touching
// real process state.
package searchpath

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"strings"
)

// DependencyDirName is the directory, next to the install location, holding
// the bundled shared libraries.
const DependencyDirName = "blas"

// ErrUnsupported is returned by the system registrar on platforms without a
// DLL search directory facility.
var ErrUnsupported = errors.New("searchpath: dll directory registration not supported on this platform")

// Host identifies an operating system family by its GOOS name.
type Host string

// Current returns the host the process runs on.
func Current() Host {
	return Host(runtime.GOOS)
}

// IsWindows reports whether h belongs to the Windows family.
func (h Host) IsWindows() bool {
	return h == "windows"
}

// Separator returns the path separator used by h.
func (h Host) Separator() string {
	if h.IsWindows() {
		return `\`
	}
	return "/"
}

// String implements fmt.Stringer.
func (h Host) String() string {
	return string(h)
}

// Registrar registers a directory with the process-wide DLL search path.
type Registrar interface {
	SetDllDirectory(dir string) error
}

// RegistrarFunc adapts a function to Registrar.
type RegistrarFunc func(dir string) error

// SetDllDirectory calls f(dir).
func (f RegistrarFunc) SetDllDirectory(dir string) error {
	return f(dir)
}

// DependencyDir joins installDir and DependencyDirName using the separator
// of host. It does not look at the filesystem.
func DependencyDir(host Host, installDir string) string {
	return Join(host, installDir, DependencyDirName)
}

// Join appends name to dir using the separator of host. Trailing
// separators on dir are not doubled.
func Join(host Host, dir, name string) string {
	sep := host.Separator()
	trimmed := strings.TrimRight(dir, `\/`)
	if trimmed == "" && dir != "" {
		// dir was a root such as "/" or `\`.
		return sep + name
	}
	if trimmed == "" {
		return name
	}
	return trimmed + sep + name
}

// Result describes what Configure did.
type Result struct {
	Dir        string // Dependency directory; empty when nothing was registered.
	Registered bool   // Whether the registrar was invoked successfully.
	Exists     bool   // Whether Dir existed at registration time (informational only).
}

// Configure registers the dependency directory below installDir when host is
// Windows. Other hosts skip registration and r is never called.
//
// The directory is registered even when it does not exist; a missing
// dependency surfaces later as a load error from the engine itself.
// Registering the same directory again is harmless.
func Configure(host Host, installDir string, r Registrar) (Result, error) {
	if !host.IsWindows() {
		return Result{}, nil
	}
	if r == nil {
		return Result{}, errors.New("searchpath: nil registrar")
	}

	dir := DependencyDir(host, installDir)
	res := Result{Dir: dir, Exists: dirExists(dir)}
	if err := r.SetDllDirectory(dir); err != nil {
		return res, fmt.Errorf("searchpath: set dll directory %q: %w", dir, err)
	}
	res.Registered = true
	return res, nil
}

func dirExists(dir string) bool {
	info, err := os.Stat(dir)
	return err == nil && info.IsDir()
}

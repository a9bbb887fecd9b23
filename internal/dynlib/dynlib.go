// Package dynlib opens native shared libraries and binds their C symbols to
// Go function variables without cgo.
//
// Unix platforms go through purego's dlopen wrappers, Windows through
// LoadLibrary/GetProcAddress from golang.org/x/sys/windows. Calls are made
// with purego.RegisterFunc on every platform.
package dynlib

import (
	"errors"
	"fmt"
	"sync"

	"github.com/ebitengine/purego"
)

// BaseName is the engine library name without platform prefix or suffix.
const BaseName = "librapid"

// ErrClosed is returned when a closed Library is used.
var ErrClosed = errors.New("dynlib: library closed")

// OpenError reports a failure to load a shared library.
type OpenError struct {
	Path string
	Err  error
}

// Error implements the error interface.
func (e *OpenError) Error() string {
	return fmt.Sprintf("dynlib: open %s: %v", e.Path, e.Err)
}

// Unwrap returns the platform error.
func (e *OpenError) Unwrap() error { return e.Err }

// SymbolError reports a symbol that could not be resolved or bound.
type SymbolError struct {
	Name string
	Err  error
}

// Error implements the error interface.
func (e *SymbolError) Error() string {
	return fmt.Sprintf("dynlib: symbol %s: %v", e.Name, e.Err)
}

// Unwrap returns the platform error.
func (e *SymbolError) Unwrap() error { return e.Err }

// FileName returns the platform file name of the engine library for goos.
func FileName(goos string) string {
	switch goos {
	case "windows":
		return BaseName + ".dll"
	case "darwin", "ios":
		return "lib" + BaseName + ".dylib"
	default:
		return "lib" + BaseName + ".so"
	}
}

// Library is an open shared library. It is safe for concurrent use.
type Library struct {
	path string

	mu     sync.Mutex
	handle uintptr
}

// Open loads the shared library at path. Its own dependencies are resolved
// by the OS loader using the current search path.
func Open(path string) (*Library, error) {
	handle, err := openLibrary(path)
	if err != nil {
		return nil, &OpenError{Path: path, Err: err}
	}
	if handle == 0 {
		return nil, &OpenError{Path: path, Err: errors.New("null handle")}
	}
	return &Library{path: path, handle: handle}, nil
}

// Path returns the path the library was opened from.
func (l *Library) Path() string {
	return l.path
}

// Symbol returns the address of the exported symbol name.
func (l *Library) Symbol(name string) (uintptr, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.handle == 0 {
		return 0, &SymbolError{Name: name, Err: ErrClosed}
	}
	addr, err := lookupSymbol(l.handle, name)
	if err != nil {
		return 0, &SymbolError{Name: name, Err: err}
	}
	if addr == 0 {
		return 0, &SymbolError{Name: name, Err: errors.New("null address")}
	}
	return addr, nil
}

// Bind resolves name and stores a callable Go function in fptr, which must
// be a pointer to a func variable.
func (l *Library) Bind(fptr any, name string) (err error) {
	addr, err := l.Symbol(name)
	if err != nil {
		return err
	}

	// RegisterFunc panics on argument or return types it cannot marshal.
	defer func() {
		if r := recover(); r != nil {
			err = &SymbolError{Name: name, Err: fmt.Errorf("register: %v", r)}
		}
	}()
	purego.RegisterFunc(fptr, addr)
	return nil
}

// Close unloads the library. Closing twice is a no-op.
func (l *Library) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.handle == 0 {
		return nil
	}
	err := closeLibrary(l.handle)
	l.handle = 0
	if err != nil {
		return fmt.Errorf("dynlib: close %s: %w", l.path, err)
	}
	return nil
}

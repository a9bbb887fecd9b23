// Package shim runs the engine load sequence: detect the host, point the
// Windows loader at the bundled dependency directory, open the native
// library and bind the engine interface.
//
// Every failure aborts the sequence and is returned as a *LoadError. There
// is no retry and no degraded mode.
package shim

import (
	"errors"
	"io"
	"log"
	"path/filepath"

	"github.com/librapid/librapid-go/internal/dynlib"
	"github.com/librapid/librapid-go/internal/engine"
	"github.com/librapid/librapid-go/internal/searchpath"
)

// Library is an opened native library.
type Library interface {
	engine.Library
}

// OpenFunc opens the native library at path.
type OpenFunc func(path string) (Library, error)

// OpenShared opens path with dynlib.
func OpenShared(path string) (Library, error) {
	lib, err := dynlib.Open(path)
	if err != nil {
		return nil, err
	}
	return lib, nil
}

// Loader holds everything the load sequence reads from its environment.
// Zero fields fall back to the real process environment.
type Loader struct {
	Host        searchpath.Host      // Defaults to searchpath.Current().
	InstallDir  string               // Defaults to searchpath.InstallDir().
	LibraryPath string               // Defaults to InstallDir joined with dynlib.FileName(Host).
	Registrar   searchpath.Registrar // Defaults to searchpath.System().
	Open        OpenFunc             // Defaults to OpenShared.
	Logger      *log.Logger          // Defaults to a discarding logger.
}

// Plan is the resolved input of a load.
type Plan struct {
	Host          searchpath.Host
	InstallDir    string
	DependencyDir string // Empty on hosts that skip registration.
	LibraryPath   string
}

// Resolve fills in defaults without touching process state.
func (l *Loader) Resolve() (Plan, error) {
	p := Plan{Host: l.Host, InstallDir: l.InstallDir, LibraryPath: l.LibraryPath}
	if p.Host == "" {
		p.Host = searchpath.Current()
	}
	if p.InstallDir == "" {
		dir, err := searchpath.InstallDir()
		if err != nil {
			return Plan{}, err
		}
		p.InstallDir = dir
	}
	if p.Host.IsWindows() {
		p.DependencyDir = searchpath.DependencyDir(p.Host, p.InstallDir)
	}
	if p.LibraryPath == "" {
		p.LibraryPath = libraryPath(p.Host, p.InstallDir)
	}
	return p, nil
}

func libraryPath(host searchpath.Host, installDir string) string {
	name := dynlib.FileName(host.String())
	if host == searchpath.Current() {
		return filepath.Join(installDir, name)
	}
	// Foreign host, only reached when a caller overrides Host.
	return searchpath.Join(host, installDir, name)
}

// Load runs the sequence once and returns the bound engine.
func (l *Loader) Load() (engine.Engine, error) {
	logger := l.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	plan, err := l.Resolve()
	if err != nil {
		return nil, &LoadError{Stage: StageResolve, Err: err}
	}

	if plan.Host.IsWindows() {
		registrar := l.Registrar
		if registrar == nil {
			registrar = searchpath.System()
		}
		logger.Printf("loading DLLs from %s", plan.DependencyDir)
		res, err := searchpath.Configure(plan.Host, plan.InstallDir, registrar)
		if err != nil {
			return nil, &LoadError{Stage: StageRegister, Path: plan.DependencyDir, Err: unwrapOnce(err)}
		}
		if !res.Exists {
			logger.Printf("dependency directory %s does not exist", res.Dir)
		}
	}

	open := l.Open
	if open == nil {
		open = OpenShared
	}
	logger.Printf("opening %s", plan.LibraryPath)
	lib, err := open(plan.LibraryPath)
	if err != nil {
		return nil, &LoadError{Stage: StageOpen, Path: plan.LibraryPath, Err: err}
	}

	eng, err := engine.Bind(lib)
	if err != nil {
		_ = lib.Close()
		return nil, &LoadError{Stage: StageBind, Path: plan.LibraryPath, Err: err}
	}
	logger.Printf("engine %s ready (ABI %d)", eng.Version(), eng.ABIVersion())
	return eng, nil
}

// unwrapOnce strips the searchpath context so LoadError carries the OS error
// itself; LoadError already names the directory.
func unwrapOnce(err error) error {
	if inner := errors.Unwrap(err); inner != nil {
		return inner
	}
	return err
}

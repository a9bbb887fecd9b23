//go:build !windows

package dynlib

import "github.com/ebitengine/purego"

func openLibrary(path string) (uintptr, error) {
	// RTLD_GLOBAL makes the engine's BLAS symbols visible to libraries
	// loaded after it.
	return purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_GLOBAL)
}

func lookupSymbol(handle uintptr, name string) (uintptr, error) {
	return purego.Dlsym(handle, name)
}

func closeLibrary(handle uintptr) error {
	return purego.Dlclose(handle)
}

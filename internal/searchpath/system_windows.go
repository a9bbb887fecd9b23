//go:build windows

package searchpath

import "golang.org/x/sys/windows"

type systemRegistrar struct{}

// System returns the registrar backed by the Win32 SetDllDirectoryW call.
// The change is process-wide and stays in effect for the process lifetime.
func System() Registrar {
	return systemRegistrar{}
}

func (systemRegistrar) SetDllDirectory(dir string) error {
	return windows.SetDllDirectory(dir)
}

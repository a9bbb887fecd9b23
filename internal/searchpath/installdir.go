package searchpath

import (
	"fmt"
	"os"
	"path/filepath"
)

// HomeEnv overrides the install location when set.
const HomeEnv = "LIBRAPID_HOME"

// InstallDir returns the directory the package is installed in: the value
// of LIBRAPID_HOME if set, otherwise the directory holding the running
// executable with symlinks resolved.
func InstallDir() (string, error) {
	if home := os.Getenv(HomeEnv); home != "" {
		return home, nil
	}

	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("searchpath: cannot locate executable: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(exe), nil
}

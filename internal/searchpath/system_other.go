//go:build !windows

package searchpath

type systemRegistrar struct{}

// System returns a registrar that always fails with ErrUnsupported.
// Configure never calls it, since only Windows hosts register a directory.
func System() Registrar {
	return systemRegistrar{}
}

func (systemRegistrar) SetDllDirectory(string) error {
	return ErrUnsupported
}

package shim

import "fmt"

// Stage names the step of the load sequence that failed.
type Stage string

// Load stages, in execution order.
const (
	StageResolve  Stage = "resolve"
	StageRegister Stage = "register"
	StageOpen     Stage = "open"
	StageBind     Stage = "bind"
)

// LoadError reports a failed load. The underlying error is kept unmodified
// and is reachable through errors.Is and errors.As.
type LoadError struct {
	Stage Stage
	Path  string // Directory or library involved.
	Err   error
}

// Error implements the error interface.
func (e *LoadError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("librapid: %s: %v", e.Stage, e.Err)
	}
	return fmt.Sprintf("librapid: %s %s: %v", e.Stage, e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *LoadError) Unwrap() error { return e.Err }

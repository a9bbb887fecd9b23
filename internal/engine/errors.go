package engine

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	ErrABIMismatch     = errors.New("native engine ABI version mismatch")
	ErrClosed          = errors.New("engine closed")
	ErrInvalidSettings = errors.New("invalid engine settings")
	ErrNilLibrary      = errors.New("nil native library")
)

// MismatchError reports an engine library built for another ABI version.
type MismatchError struct {
	Want uint32
	Got  uint32
}

// Error implements the error interface.
func (e *MismatchError) Error() string {
	return fmt.Sprintf("%v: want %d, library reports %d", ErrABIMismatch, e.Want, e.Got)
}

// Unwrap lets errors.Is match ErrABIMismatch.
func (e *MismatchError) Unwrap() error { return ErrABIMismatch }

// SettingsError describes which setting failed validation.
type SettingsError struct {
	Field  string
	Value  int
	Reason string
}

// Error implements the error interface.
func (e *SettingsError) Error() string {
	return fmt.Sprintf("%v: %s=%d: %s", ErrInvalidSettings, e.Field, e.Value, e.Reason)
}

// Unwrap lets errors.Is match ErrInvalidSettings.
func (e *SettingsError) Unwrap() error { return ErrInvalidSettings }

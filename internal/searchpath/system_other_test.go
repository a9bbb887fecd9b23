//go:build !windows

package searchpath

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSystem_Unsupported(t *testing.T) {
	err := System().SetDllDirectory("/tmp")
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestCurrent_NotWindows(t *testing.T) {
	assert.False(t, Current().IsWindows())
}

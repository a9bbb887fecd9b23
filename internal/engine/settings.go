package engine

import "runtime"

// Native defaults of the engine's runtime globals.
const (
	DefaultMultithreadThreshold     = 5000
	DefaultGemmMultithreadThreshold = 100
	DefaultGemvMultithreadThreshold = 100
)

// Settings holds the tunable runtime state of the engine.
type Settings struct {
	NumThreads               int     `yaml:"num_threads"`                // Worker threads, also handed to the BLAS backend.
	Seed                     *uint64 `yaml:"seed,omitempty"`             // Random seed; nil keeps the engine's own seed.
	ThrowOnAssert            bool    `yaml:"throw_on_assert"`            // Raise instead of abort on failed assertions.
	MultithreadThreshold     int     `yaml:"multithread_threshold"`      // Minimum elements before element-wise ops go parallel.
	GemmMultithreadThreshold int     `yaml:"gemm_multithread_threshold"` // Minimum dimension before GEMM goes parallel.
	GemvMultithreadThreshold int     `yaml:"gemv_multithread_threshold"` // Minimum dimension before GEMV goes parallel.
}

// DefaultSettings returns the engine defaults with one thread per CPU.
func DefaultSettings() Settings {
	return Settings{
		NumThreads:               runtime.NumCPU(),
		MultithreadThreshold:     DefaultMultithreadThreshold,
		GemmMultithreadThreshold: DefaultGemmMultithreadThreshold,
		GemvMultithreadThreshold: DefaultGemvMultithreadThreshold,
	}
}

// Validate checks that s can be applied to an engine.
func (s Settings) Validate() error {
	if s.NumThreads < 1 {
		return &SettingsError{Field: "num_threads", Value: s.NumThreads, Reason: "must be at least 1"}
	}
	thresholds := []struct {
		field string
		value int
	}{
		{"multithread_threshold", s.MultithreadThreshold},
		{"gemm_multithread_threshold", s.GemmMultithreadThreshold},
		{"gemv_multithread_threshold", s.GemvMultithreadThreshold},
	}
	for _, th := range thresholds {
		if th.value < 0 {
			return &SettingsError{Field: th.field, Value: th.value, Reason: "must not be negative"}
		}
	}
	return nil
}

// WithSeed returns a copy of s with the seed set.
func (s Settings) WithSeed(seed uint64) Settings {
	s.Seed = &seed
	return s
}

// Package engine defines the versioned interface between Go callers and the
// native LibRapid engine, and the adapter that implements it by delegating
// to the engine's exported C symbols.
//
// The native library owns all state. The adapter keeps nothing but the bound
// function pointers, so every getter reflects what the engine currently uses.
package engine

import (
	"fmt"
	"sync"
)

// ABIVersion is the C ABI revision this package binds against. The engine
// reports its own revision through librapid_abi_version.
const ABIVersion uint32 = 1

// Engine is the API of the native engine as seen from Go.
type Engine interface {
	// Version returns the engine's release string.
	Version() string
	// ABIVersion returns the ABI revision reported by the library.
	ABIVersion() uint32

	SetNumThreads(n int)
	NumThreads() int

	// SetSeed sets the random seed and makes the engine reseed its
	// generators before the next random draw.
	SetSeed(seed uint64)
	Seed() uint64

	SetThrowOnAssert(enabled bool)
	ThrowOnAssert() bool

	SetMultithreadThreshold(n int)
	MultithreadThreshold() int
	SetGemmMultithreadThreshold(n int)
	GemmMultithreadThreshold() int
	SetGemvMultithreadThreshold(n int)
	GemvMultithreadThreshold() int

	// CacheLineSize and MemoryAlignment are fixed when the library is built.
	CacheLineSize() int
	MemoryAlignment() int

	// Apply validates s and pushes every field to the engine.
	Apply(s Settings) error
	// Settings reads the current runtime state back from the engine.
	Settings() Settings

	// Close releases the native library. Later calls return zero values.
	Close() error
}

// Library is the part of a loaded shared library the adapter needs.
// *dynlib.Library satisfies it.
type Library interface {
	Bind(fptr any, name string) error
	Close() error
}

// Exported C symbols.
const (
	SymABIVersion                  = "librapid_abi_version"
	SymVersion                     = "librapid_version"
	SymSetNumThreads               = "librapid_set_num_threads"
	SymGetNumThreads               = "librapid_get_num_threads"
	SymSetSeed                     = "librapid_set_seed"
	SymGetSeed                     = "librapid_get_seed"
	SymSetThrowOnAssert            = "librapid_set_throw_on_assert"
	SymGetThrowOnAssert            = "librapid_get_throw_on_assert"
	SymSetMultithreadThreshold     = "librapid_set_multithread_threshold"
	SymGetMultithreadThreshold     = "librapid_get_multithread_threshold"
	SymSetGemmMultithreadThreshold = "librapid_set_gemm_multithread_threshold"
	SymGetGemmMultithreadThreshold = "librapid_get_gemm_multithread_threshold"
	SymSetGemvMultithreadThreshold = "librapid_set_gemv_multithread_threshold"
	SymGetGemvMultithreadThreshold = "librapid_get_gemv_multithread_threshold"
	SymGetCacheLineSize            = "librapid_get_cache_line_size"
	SymGetMemoryAlignment          = "librapid_get_memory_alignment"
)

// nativeFuncs mirrors the C declarations. size_t maps to uint64, which
// limits the adapter to 64-bit targets.
type nativeFuncs struct {
	abiVersion                  func() uint32
	version                     func() string
	setNumThreads               func(uint64)
	getNumThreads               func() uint64
	setSeed                     func(uint64)
	getSeed                     func() uint64
	setThrowOnAssert            func(bool)
	getThrowOnAssert            func() bool
	setMultithreadThreshold     func(uint64)
	getMultithreadThreshold     func() uint64
	setGemmMultithreadThreshold func(uint64)
	getGemmMultithreadThreshold func() uint64
	setGemvMultithreadThreshold func(uint64)
	getGemvMultithreadThreshold func() uint64
	getCacheLineSize            func() uint64
	getMemoryAlignment          func() uint64
}

type binding struct {
	name string
	fptr any
}

// bindings lists every symbol except the ABI probe, which is bound first.
func (f *nativeFuncs) bindings() []binding {
	return []binding{
		{SymVersion, &f.version},
		{SymSetNumThreads, &f.setNumThreads},
		{SymGetNumThreads, &f.getNumThreads},
		{SymSetSeed, &f.setSeed},
		{SymGetSeed, &f.getSeed},
		{SymSetThrowOnAssert, &f.setThrowOnAssert},
		{SymGetThrowOnAssert, &f.getThrowOnAssert},
		{SymSetMultithreadThreshold, &f.setMultithreadThreshold},
		{SymGetMultithreadThreshold, &f.getMultithreadThreshold},
		{SymSetGemmMultithreadThreshold, &f.setGemmMultithreadThreshold},
		{SymGetGemmMultithreadThreshold, &f.getGemmMultithreadThreshold},
		{SymSetGemvMultithreadThreshold, &f.setGemvMultithreadThreshold},
		{SymGetGemvMultithreadThreshold, &f.getGemvMultithreadThreshold},
		{SymGetCacheLineSize, &f.getCacheLineSize},
		{SymGetMemoryAlignment, &f.getMemoryAlignment},
	}
}

// Symbols returns the names of all C symbols Bind resolves, in binding order.
func Symbols() []string {
	var f nativeFuncs
	names := []string{SymABIVersion}
	for _, b := range f.bindings() {
		names = append(names, b.name)
	}
	return names
}

// Bind resolves the engine's symbols in lib and returns an Engine backed by
// them. The ABI revision is checked before anything else is bound. On error
// lib is left open; closing it is the caller's decision.
func Bind(lib Library) (Engine, error) {
	if lib == nil {
		return nil, ErrNilLibrary
	}

	n := &native{lib: lib}
	if err := lib.Bind(&n.fn.abiVersion, SymABIVersion); err != nil {
		return nil, fmt.Errorf("engine: bind: %w", err)
	}
	if got := n.fn.abiVersion(); got != ABIVersion {
		return nil, &MismatchError{Want: ABIVersion, Got: got}
	}

	for _, b := range n.fn.bindings() {
		if err := lib.Bind(b.fptr, b.name); err != nil {
			return nil, fmt.Errorf("engine: bind: %w", err)
		}
	}
	return n, nil
}

// native implements Engine on top of bound C functions.
type native struct {
	lib Library
	fn  nativeFuncs

	mu     sync.RWMutex
	closed bool
}

// live runs f unless the engine is closed and reports whether it ran.
func (n *native) live(f func()) bool {
	n.mu.RLock()
	defer n.mu.RUnlock()
	if n.closed {
		return false
	}
	f()
	return true
}

func (n *native) getInt(get func() uint64) int {
	var v int
	n.live(func() { v = int(get()) }) //nolint:gosec // G115: engine values fit in int
	return v
}

// setInt ignores negative values; the native globals are size_t.
func (n *native) setInt(set func(uint64), v int) {
	if v < 0 {
		return
	}
	n.live(func() { set(uint64(v)) }) //nolint:gosec // G115: v is non-negative
}

func (n *native) Version() string {
	var v string
	n.live(func() { v = n.fn.version() })
	return v
}

func (n *native) ABIVersion() uint32 {
	var v uint32
	n.live(func() { v = n.fn.abiVersion() })
	return v
}

func (n *native) SetNumThreads(threads int) { n.setInt(n.fn.setNumThreads, threads) }
func (n *native) NumThreads() int           { return n.getInt(n.fn.getNumThreads) }

func (n *native) SetSeed(seed uint64) {
	n.live(func() { n.fn.setSeed(seed) })
}

func (n *native) Seed() uint64 {
	var v uint64
	n.live(func() { v = n.fn.getSeed() })
	return v
}

func (n *native) SetThrowOnAssert(enabled bool) {
	n.live(func() { n.fn.setThrowOnAssert(enabled) })
}

func (n *native) ThrowOnAssert() bool {
	var v bool
	n.live(func() { v = n.fn.getThrowOnAssert() })
	return v
}

func (n *native) SetMultithreadThreshold(v int) { n.setInt(n.fn.setMultithreadThreshold, v) }
func (n *native) MultithreadThreshold() int     { return n.getInt(n.fn.getMultithreadThreshold) }

func (n *native) SetGemmMultithreadThreshold(v int) { n.setInt(n.fn.setGemmMultithreadThreshold, v) }
func (n *native) GemmMultithreadThreshold() int     { return n.getInt(n.fn.getGemmMultithreadThreshold) }

func (n *native) SetGemvMultithreadThreshold(v int) { n.setInt(n.fn.setGemvMultithreadThreshold, v) }
func (n *native) GemvMultithreadThreshold() int     { return n.getInt(n.fn.getGemvMultithreadThreshold) }

func (n *native) CacheLineSize() int   { return n.getInt(n.fn.getCacheLineSize) }
func (n *native) MemoryAlignment() int { return n.getInt(n.fn.getMemoryAlignment) }

func (n *native) Apply(s Settings) error {
	if err := s.Validate(); err != nil {
		return err
	}

	ok := n.live(func() {
		n.fn.setNumThreads(uint64(s.NumThreads))
		n.fn.setThrowOnAssert(s.ThrowOnAssert)
		n.fn.setMultithreadThreshold(uint64(s.MultithreadThreshold))
		n.fn.setGemmMultithreadThreshold(uint64(s.GemmMultithreadThreshold))
		n.fn.setGemvMultithreadThreshold(uint64(s.GemvMultithreadThreshold))
		if s.Seed != nil {
			n.fn.setSeed(*s.Seed)
		}
	})
	if !ok {
		return ErrClosed
	}
	return nil
}

func (n *native) Settings() Settings {
	var s Settings
	n.live(func() {
		seed := n.fn.getSeed()
		s = Settings{
			NumThreads:               int(n.fn.getNumThreads()),
			Seed:                     &seed,
			ThrowOnAssert:            n.fn.getThrowOnAssert(),
			MultithreadThreshold:     int(n.fn.getMultithreadThreshold()),
			GemmMultithreadThreshold: int(n.fn.getGemmMultithreadThreshold()),
			GemvMultithreadThreshold: int(n.fn.getGemvMultithreadThreshold()),
		}
	})
	return s
}

func (n *native) Close() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.closed {
		return nil
	}
	n.closed = true
	if err := n.lib.Close(); err != nil {
		return fmt.Errorf("engine: close: %w", err)
	}
	return nil
}

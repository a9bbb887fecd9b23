package engine

import (
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeState mimics the engine's runtime globals.
type fakeState struct {
	abi           uint32
	threads       uint64
	seed          uint64
	reseed        bool
	throwOnAssert bool
	multi         uint64
	gemm          uint64
	gemv          uint64
}

// fakeLibrary binds Go closures instead of C symbols.
type fakeLibrary struct {
	state   *fakeState
	symbols map[string]any
	missing string
	bound   []string
	closed  int
}

func newFakeLibrary() *fakeLibrary {
	st := &fakeState{abi: ABIVersion, threads: 8, multi: 5000, gemm: 100, gemv: 100}
	return &fakeLibrary{
		state: st,
		symbols: map[string]any{
			SymABIVersion:                  func() uint32 { return st.abi },
			SymVersion:                     func() string { return "0.7.2" },
			SymSetNumThreads:               func(n uint64) { st.threads = n },
			SymGetNumThreads:               func() uint64 { return st.threads },
			SymSetSeed:                     func(s uint64) { st.seed, st.reseed = s, true },
			SymGetSeed:                     func() uint64 { return st.seed },
			SymSetThrowOnAssert:            func(b bool) { st.throwOnAssert = b },
			SymGetThrowOnAssert:            func() bool { return st.throwOnAssert },
			SymSetMultithreadThreshold:     func(n uint64) { st.multi = n },
			SymGetMultithreadThreshold:     func() uint64 { return st.multi },
			SymSetGemmMultithreadThreshold: func(n uint64) { st.gemm = n },
			SymGetGemmMultithreadThreshold: func() uint64 { return st.gemm },
			SymSetGemvMultithreadThreshold: func(n uint64) { st.gemv = n },
			SymGetGemvMultithreadThreshold: func() uint64 { return st.gemv },
			SymGetCacheLineSize:            func() uint64 { return 64 },
			SymGetMemoryAlignment:          func() uint64 { return 32 },
		},
	}
}

var errNoSymbol = errors.New("symbol not found")

func (l *fakeLibrary) Bind(fptr any, name string) error {
	fn, ok := l.symbols[name]
	if !ok || name == l.missing {
		return fmt.Errorf("%s: %w", name, errNoSymbol)
	}
	dst := reflect.ValueOf(fptr).Elem()
	src := reflect.ValueOf(fn)
	if !src.Type().AssignableTo(dst.Type()) {
		return fmt.Errorf("%s: have %s, want %s", name, src.Type(), dst.Type())
	}
	dst.Set(src)
	l.bound = append(l.bound, name)
	return nil
}

func (l *fakeLibrary) Close() error {
	l.closed++
	return nil
}

func bindFake(t *testing.T) (Engine, *fakeLibrary) {
	t.Helper()
	lib := newFakeLibrary()
	eng, err := Bind(lib)
	require.NoError(t, err)
	return eng, lib
}

func TestBind_AllSymbols(t *testing.T) {
	_, lib := bindFake(t)
	assert.Equal(t, Symbols(), lib.bound)
	assert.Len(t, Symbols(), len(lib.symbols))
}

func TestBind_NilLibrary(t *testing.T) {
	_, err := Bind(nil)
	assert.ErrorIs(t, err, ErrNilLibrary)
}

func TestBind_MissingSymbol(t *testing.T) {
	lib := newFakeLibrary()
	lib.missing = SymGetGemvMultithreadThreshold

	eng, err := Bind(lib)
	require.Error(t, err)
	assert.Nil(t, eng)
	assert.ErrorIs(t, err, errNoSymbol)
	assert.Contains(t, err.Error(), SymGetGemvMultithreadThreshold)
	assert.Zero(t, lib.closed, "Bind must leave the library to its caller")
}

func TestBind_ABIMismatch(t *testing.T) {
	lib := newFakeLibrary()
	lib.state.abi = ABIVersion + 1

	_, err := Bind(lib)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrABIMismatch)

	var mm *MismatchError
	require.ErrorAs(t, err, &mm)
	assert.Equal(t, ABIVersion, mm.Want)
	assert.Equal(t, ABIVersion+1, mm.Got)
	assert.Equal(t, []string{SymABIVersion}, lib.bound, "nothing else is bound after a mismatch")
}

func TestEngine_Delegates(t *testing.T) {
	eng, lib := bindFake(t)
	st := lib.state

	assert.Equal(t, "0.7.2", eng.Version())
	assert.Equal(t, ABIVersion, eng.ABIVersion())
	assert.Equal(t, 64, eng.CacheLineSize())
	assert.Equal(t, 32, eng.MemoryAlignment())

	eng.SetNumThreads(3)
	assert.Equal(t, uint64(3), st.threads)
	assert.Equal(t, 3, eng.NumThreads())

	eng.SetSeed(42)
	assert.Equal(t, uint64(42), eng.Seed())
	assert.True(t, st.reseed)

	eng.SetThrowOnAssert(true)
	assert.True(t, eng.ThrowOnAssert())

	eng.SetMultithreadThreshold(10)
	eng.SetGemmMultithreadThreshold(20)
	eng.SetGemvMultithreadThreshold(30)
	assert.Equal(t, 10, eng.MultithreadThreshold())
	assert.Equal(t, 20, eng.GemmMultithreadThreshold())
	assert.Equal(t, 30, eng.GemvMultithreadThreshold())
}

func TestEngine_ApplyAndSettings(t *testing.T) {
	eng, lib := bindFake(t)

	s := DefaultSettings()
	s.NumThreads = 2
	s.ThrowOnAssert = true
	s.GemmMultithreadThreshold = 256
	s = s.WithSeed(7)

	require.NoError(t, eng.Apply(s))
	assert.True(t, lib.state.reseed)

	got := eng.Settings()
	require.NotNil(t, got.Seed)
	assert.Equal(t, uint64(7), *got.Seed)
	got.Seed, s.Seed = nil, nil
	assert.Equal(t, s, got)
}

func TestEngine_ApplyWithoutSeedKeepsSeed(t *testing.T) {
	eng, lib := bindFake(t)
	lib.state.seed = 99

	require.NoError(t, eng.Apply(DefaultSettings()))
	assert.Equal(t, uint64(99), eng.Seed())
	assert.False(t, lib.state.reseed)
}

func TestEngine_ApplyInvalid(t *testing.T) {
	eng, lib := bindFake(t)

	s := DefaultSettings()
	s.NumThreads = 0
	err := eng.Apply(s)
	assert.ErrorIs(t, err, ErrInvalidSettings)
	assert.Equal(t, uint64(8), lib.state.threads, "invalid settings must not be partially applied")
}

func TestEngine_Close(t *testing.T) {
	eng, lib := bindFake(t)

	require.NoError(t, eng.Close())
	require.NoError(t, eng.Close())
	assert.Equal(t, 1, lib.closed)

	eng.SetNumThreads(4)
	assert.Equal(t, uint64(8), lib.state.threads)
	assert.Zero(t, eng.NumThreads())
	assert.Empty(t, eng.Version())
	assert.ErrorIs(t, eng.Apply(DefaultSettings()), ErrClosed)
	assert.Equal(t, Settings{}, eng.Settings())
}

func TestEngine_NegativeSettersIgnored(t *testing.T) {
	tests := []struct {
		name string
		set  func(Engine)
		get  func(Engine) int
		want int
	}{
		{name: "num threads", set: func(e Engine) { e.SetNumThreads(-1) }, get: Engine.NumThreads, want: 8},
		{name: "multithread threshold", set: func(e Engine) { e.SetMultithreadThreshold(-5) }, get: Engine.MultithreadThreshold, want: 5000},
		{name: "gemm threshold", set: func(e Engine) { e.SetGemmMultithreadThreshold(-1) }, get: Engine.GemmMultithreadThreshold, want: 100},
		{name: "gemv threshold", set: func(e Engine) { e.SetGemvMultithreadThreshold(-1) }, get: Engine.GemvMultithreadThreshold, want: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eng, _ := bindFake(t)

			tt.set(eng)
			assert.Equal(t, tt.want, tt.get(eng))
			assert.NoError(t, eng.Settings().Validate())
			assert.NoError(t, eng.Apply(eng.Settings()))
		})
	}
}

func TestEngine_ZeroThresholdAccepted(t *testing.T) {
	eng, lib := bindFake(t)

	eng.SetMultithreadThreshold(0)
	assert.Equal(t, uint64(0), lib.state.multi)
}

// Package cpuinfo reports host CPU capabilities that matter when picking a
// build of the native engine and its BLAS backend.
//
// Detection runs once and is cached.
package cpuinfo

import (
	"runtime"
	"sync"
	"unsafe"

	"golang.org/x/sys/cpu"
)

// SIMDLevel is the widest vector instruction set the host supports.
type SIMDLevel int

const (
	SIMDNone SIMDLevel = iota
	SIMDSSE2
	SIMDAVX
	SIMDAVX2
	SIMDAVX512
	SIMDNEON
)

// String returns a human-readable name for the SIMD level.
func (s SIMDLevel) String() string {
	switch s {
	case SIMDNone:
		return "none"
	case SIMDSSE2:
		return "SSE2"
	case SIMDAVX:
		return "AVX"
	case SIMDAVX2:
		return "AVX2"
	case SIMDAVX512:
		return "AVX-512"
	case SIMDNEON:
		return "NEON"
	default:
		return "unknown"
	}
}

// Features describes the host CPU.
type Features struct {
	Arch          string    // runtime.GOARCH
	NumCPU        int       // Logical CPUs usable by the process.
	CacheLineSize int       // Cache line size assumed by x/sys/cpu for this arch.
	SIMD          SIMDLevel // Widest supported vector extension.
	HasFMA        bool      // Fused multiply-add (x86 FMA3 or ARM ASIMD).
}

var (
	detected   Features
	detectOnce sync.Once
)

// Detect returns the host features. Safe for concurrent use.
func Detect() Features {
	detectOnce.Do(func() {
		detected = detect()
	})
	return detected
}

func detect() Features {
	f := Features{
		Arch:          runtime.GOARCH,
		NumCPU:        runtime.NumCPU(),
		CacheLineSize: int(unsafe.Sizeof(cpu.CacheLinePad{})),
	}

	switch runtime.GOARCH {
	case "amd64", "386":
		f.SIMD = x86Level(cpu.X86.HasSSE2, cpu.X86.HasAVX, cpu.X86.HasAVX2, cpu.X86.HasAVX512F)
		f.HasFMA = cpu.X86.HasFMA
	case "arm64":
		if cpu.ARM64.HasASIMD {
			f.SIMD = SIMDNEON
		}
		f.HasFMA = cpu.ARM64.HasASIMD
	}
	return f
}

func x86Level(sse2, avx, avx2, avx512 bool) SIMDLevel {
	switch {
	case avx512:
		return SIMDAVX512
	case avx2:
		return SIMDAVX2
	case avx:
		return SIMDAVX
	case sse2:
		return SIMDSSE2
	default:
		return SIMDNone
	}
}

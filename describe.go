// Copyright 2026 LibRapid Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package librapid

import (
	"os"

	"github.com/librapid/librapid-go/internal/cpuinfo"
)

// Info describes where the engine would be loaded from on this host.
type Info struct {
	Host          string
	Arch          string
	NumCPU        int
	SIMD          string
	HasFMA        bool
	CacheLineSize int

	InstallDir          string
	DependencyDir       string // Empty when the host does not register one.
	DependencyDirExists bool
	LibraryPath         string
	LibraryExists       bool
	ABIVersion          uint32
}

// Describe resolves the load plan for opts without loading anything.
func Describe(opts ...Option) (Info, error) {
	o := newOptions(opts)
	plan, err := o.loader.Resolve()
	if err != nil {
		return Info{}, err
	}

	cpu := cpuinfo.Detect()
	info := Info{
		Host:          plan.Host.String(),
		Arch:          cpu.Arch,
		NumCPU:        cpu.NumCPU,
		SIMD:          cpu.SIMD.String(),
		HasFMA:        cpu.HasFMA,
		CacheLineSize: cpu.CacheLineSize,
		InstallDir:    plan.InstallDir,
		DependencyDir: plan.DependencyDir,
		LibraryPath:   plan.LibraryPath,
		ABIVersion:    ABIVersion,
	}
	if plan.DependencyDir != "" {
		info.DependencyDirExists = isDir(plan.DependencyDir)
	}
	if fi, err := os.Stat(plan.LibraryPath); err == nil && !fi.IsDir() {
		info.LibraryExists = true
	}
	return info, nil
}

func isDir(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.IsDir()
}

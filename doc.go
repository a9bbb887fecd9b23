// Copyright 2026 LibRapid Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package librapid gives Go programs access to the native LibRapid engine.
//
// The engine ships as a shared library (librapid.dll, liblibrapid.so or
// liblibrapid.dylib) next to the program, together with a blas directory
// holding its BLAS dependency on Windows. Loading runs a fixed sequence:
//
//  1. detect the host operating system;
//  2. on Windows, register <install dir>\blas with SetDllDirectory so the
//     engine's own dependencies resolve (other systems rely on rpath);
//  3. open the engine library and bind the Engine interface to it.
//
// Any failure aborts the load and is returned unmodified inside a
// *LoadError. There is no retry and no fallback engine.
//
// # Basic Usage
//
//	eng, err := librapid.Default()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	eng.SetNumThreads(4)
//	fmt.Println(eng.Version())
//
// # Explicit Loading
//
// Load runs the sequence with explicit options and returns an independent
// handle:
//
//	eng, err := librapid.Load(
//	    librapid.WithInstallDir(`C:\Program Files\app`),
//	    librapid.WithLogger(log.Default()),
//	)
//
// # Environment
//
// LIBRAPID_HOME overrides the install directory, LIBRAPID_LIBRARY the
// engine library path and LIBRAPID_NUM_THREADS the thread count applied by
// Default.
package librapid

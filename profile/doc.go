// Package profile provides optional runtime profiling for the pulua
// interpreter.
//
// # Overview
//
// This package integrates [github.com/pkg/profile] behind the "pprof" build
// tag. Without the tag [Modes] is empty, the CLI has no profiling flags and
// [Profiler.Start] is a no-op.
//
// # Available Profiling Modes
//
// The following profiling modes are supported when built with the pprof tag:
//
//   - allocs:    Memory allocation profiling (all allocations)
//   - block:     Block (synchronization) profiling
//   - clock:     Wall-clock profiling
//   - cpu:       CPU profiling
//   - goroutine: Goroutine profiling
//   - heap:      Heap memory profiling (live allocations)
//   - mem:       General memory profiling
//   - mutex:     Mutex contention profiling
//   - thread:    Thread creation profiling
//   - trace:     Execution trace profiling
//
// # Using File-Based Profiling
//
//	p := profile.Profiler{Mode: "cpu", Path: "/tmp/profiles", Quiet: true}
//	ctrl := p.Start()
//	defer ctrl.Stop()
//
// Profile files are written to the directory with names matching the mode
// (e.g., cpu.pprof, mem.pprof).
//
// # Command-Line Usage
//
//	go build -tags pprof .
//	./pulua --pprof-mode cpu fib.lua
//	go tool pprof ./pulua "$XDG_CACHE_HOME/pulua/pprof/cpu.pprof"
package profile

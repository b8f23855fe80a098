// Package profile wraps [github.com/pkg/profile] behind the pprof build
// tag.
//
// Without the tag, [Modes] is empty and [Profiler.Start] does nothing, so
// callers never need build constraints of their own:
//
//	p := profile.Make(profile.WithMode("cpu"), profile.WithPath(dir))
//	defer p.Start().Stop()
//
// Build with -tags pprof to enable the modes allocs, block, clock, cpu,
// goroutine, heap, mem, mutex, thread, and trace. The resulting profiles
// are read with go tool pprof, or go tool trace for the trace mode.
package profile

// Package profile starts optional runtime profiling with
// [github.com/pkg/profile].
//
// Profiling is compiled in only with the "pprof" build tag:
//
//	go build -tags pprof -o bakery .
//
// Without the tag, [Modes] is empty and [Profiler.Start] returns a no-op.
// With it, the following modes are accepted:
//
//   - allocs:    memory allocation profiling (all allocations)
//   - block:     blocking profiling
//   - clock:     wall-clock profiling
//   - cpu:       CPU profiling
//   - goroutine: goroutine profiling
//   - heap:      heap profiling (live allocations)
//   - mem:       general memory profiling
//   - mutex:     mutex contention profiling
//   - thread:    thread creation profiling
//   - trace:     execution trace
//
// Profiles are written under [Profiler.Path] as <mode>.pprof, or trace.out
// for traces. Loading a large project is the usual subject:
//
//	bakery --pprof-mode=cpu sections script.project
//	go tool pprof -http=: ~/.cache/bakery/pprof/cpu.pprof
//
// The pprof build also registers the [net/http/pprof] handlers.
package profile

// Tag is the build tag required to enable profiling.
const Tag = `pprof`

// Profiler configures one profiling run.
type Profiler struct {
	// Mode is one of [Modes]. An empty Mode disables profiling.
	Mode string
	// Path is the output directory, or the working directory when empty.
	Path string
	// Quiet suppresses the profiler's own start and stop messages.
	Quiet bool
}

// Start begins profiling and returns the handle that ends it. Unknown
// modes, an empty Mode, or a build without the pprof tag give a handle
// whose Stop does nothing.
func (p Profiler) Start() interface{ Stop() } {
	if p.Mode == "" {
		return ignore{}
	}

	return start(p)
}

type ignore struct{}

func (ignore) Stop() {}

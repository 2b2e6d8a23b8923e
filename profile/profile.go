package profile

// Tag is the build tag that enables profiling. It also names the
// subdirectory of the cache directory that profiles are written to.
const Tag = "pprof"

// Stopper ends a profiling session.
type Stopper interface{ Stop() }

// Profiler describes one profiling session.
type Profiler struct {
	// Mode is one of [Modes]. An empty mode disables profiling.
	Mode string
	// Path is the output directory. Empty means the working directory.
	Path string
	// Quiet suppresses the profiler's own log messages.
	Quiet bool
}

// Start begins profiling and returns a Stopper that ends it.
//
// If the pprof build tag or p.Mode are unset, or the mode is unknown, then
// Start returns a no-op implementation. Both Start and Stop are always safely
// callable.
func (p Profiler) Start() Stopper {
	if p.Mode == "" {
		return ignore{}
	}

	return start(p)
}

// Enabled reports whether profiling support is compiled in.
func Enabled() bool { return len(Modes()) > 0 }

type ignore struct{}

func (ignore) Stop() {}

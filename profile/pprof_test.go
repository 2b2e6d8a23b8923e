//go:build pprof

package profile

import (
	"slices"
	"testing"
)

func TestModes_Pprof(t *testing.T) {
	modes := Modes()

	for _, want := range []string{"allocs", "block", "clock", "cpu", "goroutine", "heap", "mem", "mutex", "thread", "trace"} {
		if !slices.Contains(modes, want) {
			t.Errorf("Modes() = %v, missing %q", modes, want)
		}
	}

	if !Enabled() {
		t.Error("Enabled() = false with the pprof tag")
	}
}

package lang

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/zeebo/xxh3"

	"github.com/ardnew/pulua/lang/ast"
	"github.com/ardnew/pulua/lang/parser"
	"github.com/ardnew/pulua/log"
)

func TestParseCached_SharesTrees(t *testing.T) {
	ClearCache()

	const src = "return 1 + 2 * 3"

	a, err := parseCached(t.Context(), src, parser.Standard, log.Logger{})
	if err != nil {
		t.Fatal(err)
	}

	b, err := parseCached(t.Context(), src, parser.Standard, log.Logger{})
	if err != nil {
		t.Fatal(err)
	}

	if a != b {
		t.Error("same source and options parsed twice")
	}

	c, err := parseCached(t.Context(), src, parser.Flat, log.Logger{})
	if err != nil {
		t.Fatal(err)
	}

	if a == c {
		t.Error("flat and standard parses share a tree")
	}

	ClearCache()

	d, err := parseCached(t.Context(), src, parser.Standard, log.Logger{})
	if err != nil {
		t.Fatal(err)
	}

	if a == d {
		t.Error("ClearCache kept the tree")
	}
}

func TestParseCached_CachesErrors(t *testing.T) {
	ClearCache()

	_, err1 := parseCached(t.Context(), "x = = 1", parser.Standard, log.Logger{})
	_, err2 := parseCached(t.Context(), "x = = 1", parser.Standard, log.Logger{})

	if err1 == nil || err1 != err2 {
		t.Errorf("errors = %v, %v, want the same cached error", err1, err2)
	}
}

func TestParseCached_ForgetsCancelled(t *testing.T) {
	ClearCache()

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	const src = "return 1"

	if _, err := parseCached(ctx, src, parser.Standard, log.Logger{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want %v", err, context.Canceled)
	}

	if _, err := parseCached(t.Context(), src, parser.Standard, log.Logger{}); err != nil {
		t.Errorf("parse after cancellation error = %v", err)
	}
}

func TestParseCached_EvictsOldest(t *testing.T) {
	ClearCache()

	saved := maxCachedTrees
	maxCachedTrees = 2

	t.Cleanup(func() {
		maxCachedTrees = saved
		ClearCache()
	})

	parse := func(src string) *ast.Block {
		t.Helper()

		b, err := parseCached(t.Context(), src, parser.Standard, log.Logger{})
		if err != nil {
			t.Fatal(err)
		}

		return b
	}

	first := parse("return 1")
	parse("return 2")

	if parse("return 1") != first {
		t.Fatal("tree evicted before the limit was reached")
	}

	parse("return 3")

	if n := len(cacheOrder); n != 2 {
		t.Errorf("cached trees = %d, want 2", n)
	}

	if parse("return 1") == first {
		t.Error("oldest tree was not evicted")
	}

	if _, ok := parseCache.Load(strconv.FormatUint(
		xxh3.HashString("return 2")^hashOptions(parser.Standard), 36)); ok {
		t.Error("second tree survived two newer entries")
	}
}

func TestReadSource(t *testing.T) {
	data, err := ReadSource(iotest.OneByteReader(strings.NewReader("print(1)")))
	if err != nil || string(data) != "print(1)" {
		t.Errorf("ReadSource() = %q, %v", data, err)
	}

	_, err = ReadSource(iotest.ErrReader(errors.New("boom")))
	if !errors.Is(err, ErrReadInput) {
		t.Errorf("ReadSource() error = %v, want %v", err, ErrReadInput)
	}
}

func TestState_DoReader(t *testing.T) {
	s := NewState()

	v, err := s.DoReader(t.Context(), "stdin", strings.NewReader("return 40 + 2"))
	if err != nil || v != Number(42) {
		t.Errorf("DoReader() = %v, %v", v, err)
	}

	_, err = s.DoReader(t.Context(), "stdin", iotest.ErrReader(errors.New("boom")))
	if Classify(err) != KindInput {
		t.Errorf("Classify() = %v, want input", Classify(err))
	}
}

func BenchmarkParseCached(b *testing.B) {
	src := strings.Repeat("x = x + 1\n", 200)

	for b.Loop() {
		if _, err := parseCached(b.Context(), src, parser.Standard, log.Logger{}); err != nil {
			b.Fatal(err)
		}
	}
}

package lang

import (
	"bytes"
	"context"
	"encoding/gob"
	"errors"
	"io"
	"log/slog"
	"slices"
	"strconv"
	"sync"

	"github.com/klauspost/readahead"
	"github.com/zeebo/xxh3"

	"github.com/ardnew/pulua/lang/ast"
	"github.com/ardnew/pulua/lang/lexer"
	"github.com/ardnew/pulua/lang/parser"
	"github.com/ardnew/pulua/log"
)

// parseCache stores parsed chunks keyed by a hash of the source text and the
// parse options. Trees are immutable, so one tree is shared by every State
// that loads the same source.
var parseCache sync.Map

// cacheOrder lists cached keys oldest first. Once it holds more than
// maxCachedTrees keys the oldest entries are evicted.
var (
	cacheMu        sync.Mutex
	cacheOrder     []string
	maxCachedTrees = 512
)

// remember records a newly stored key and evicts the oldest entries beyond
// the cache limit.
func remember(key string) {
	cacheMu.Lock()
	defer cacheMu.Unlock()

	cacheOrder = append(cacheOrder, key)

	for len(cacheOrder) > maxCachedTrees {
		parseCache.Delete(cacheOrder[0])
		cacheOrder = cacheOrder[1:]
	}
}

// entry tracks the parse of one source.
type entry struct {
	once  sync.Once
	block *ast.Block
	err   error
}

// hashOptions encodes options using gob and hashes with xxh3.
// Returns a hash that uniquely identifies the options configuration.
func hashOptions(prec parser.Precedence) uint64 {
	var buf bytes.Buffer

	enc := gob.NewEncoder(&buf)

	_ = enc.Encode(int(prec))

	return xxh3.Hash(buf.Bytes())
}

// forget drops key from the eviction order.
func forget(key string) {
	cacheMu.Lock()
	defer cacheMu.Unlock()

	if i := slices.Index(cacheOrder, key); i >= 0 {
		cacheOrder = slices.Delete(cacheOrder, i, i+1)
	}
}

// ReadSource reads all of r through an asynchronous read-ahead buffer.
func ReadSource(r io.Reader) ([]byte, error) {
	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return nil, ErrReadInput.Wrap(err)
	}

	return data, nil
}

// parseCached scans and parses source, reusing an earlier tree for the same
// source and precedence.
func parseCached(
	ctx context.Context,
	source string,
	prec parser.Precedence,
	logger log.Logger,
) (*ast.Block, error) {
	sourceHash := xxh3.HashString(source)
	optsHash := hashOptions(prec)
	key := strconv.FormatUint(sourceHash^optsHash, 36)

	value, cacheHit := parseCache.LoadOrStore(key, new(entry))
	if !cacheHit {
		remember(key)
	}

	cached, ok := value.(*entry)
	if !ok {
		return nil, ErrNotImplemented.With(slog.String("issue", "invalid parse cache entry"))
	}

	logger.TraceContext(
		ctx,
		"cache lookup",
		slog.String("source_hash", strconv.FormatUint(sourceHash, 16)),
		slog.String("opts_hash", strconv.FormatUint(optsHash, 16)),
		slog.Bool("cache_hit", cacheHit),
	)

	cached.once.Do(func() {
		toks, err := lexer.Scan(source)
		if err != nil {
			cached.err = err

			return
		}

		logger.TraceContext(ctx, "scan complete", slog.Int("tokens", len(toks)))

		cached.block, cached.err = parser.Parse(
			ctx, toks, parser.WithPrecedence(prec), parser.WithLogger(logger),
		)
	})

	// An interrupted parse says nothing about the source; forget it.
	if errors.Is(cached.err, context.Canceled) ||
		errors.Is(cached.err, context.DeadlineExceeded) {
		if parseCache.CompareAndDelete(key, cached) {
			forget(key)
		}
	}

	return cached.block, cached.err
}

// ClearCache removes all cached parse trees.
// This is primarily useful for testing or when memory needs to be reclaimed.
func ClearCache() {
	cacheMu.Lock()
	defer cacheMu.Unlock()

	parseCache.Clear()
	cacheOrder = nil
}

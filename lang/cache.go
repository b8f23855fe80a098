package lang

import (
	"bytes"
	"context"
	"encoding/gob"
	"io"
	"log/slog"
	"maps"
	"slices"
	"strconv"
	"sync"

	"github.com/klauspost/readahead"
	"github.com/zeebo/xxh3"
)

// parseCache stores parsed trees keyed by a hash of the source text and the
// options that affect parsing. Trees are immutable and safely shared.
var parseCache sync.Map

// entry holds the outcome of parsing one source.
type entry struct {
	once sync.Once
	root Expr
	err  error
}

// hashOptions hashes the options that influence the parse tree.
func hashOptions(o options) uint64 {
	var buf bytes.Buffer

	enc := gob.NewEncoder(&buf)

	_ = enc.Encode(o.maxDepth)

	for _, sym := range slices.Sorted(maps.Keys(o.precedence)) {
		_ = enc.Encode(sym)
		_ = enc.Encode(o.precedence[sym])
	}

	return xxh3.Hash(buf.Bytes())
}

// CompileCached is like [Compile] but reuses the tree of a previous call
// with the same source and parsing options. Diagnostics of a failed parse
// are available only through the returned [*SyntaxError].
func CompileCached(
	ctx context.Context,
	source string,
	opts ...Option,
) (*Equation, error) {
	o := makeOptions(opts...)

	sourceHash := xxh3.HashString(source)
	optsHash := hashOptions(o)
	key := strconv.FormatUint(sourceHash^optsHash, 36)

	value, hit := parseCache.LoadOrStore(key, new(entry))

	e, _ := value.(*entry)

	o.logger.TraceContext(ctx, "cache lookup",
		slog.String("source_hash", strconv.FormatUint(sourceHash, 16)),
		slog.String("opts_hash", strconv.FormatUint(optsHash, 16)),
		slog.Bool("cache_hit", hit),
	)

	e.once.Do(func() {
		e.root, e.err = ParseString(ctx, source, nil, opts...)
	})

	if e.err != nil {
		return nil, e.err
	}

	return &Equation{Root: e.root, Source: source, opts: o}, nil
}

// ParseReader reads an equation from r and compiles it through the parse
// cache. Surrounding whitespace is not significant.
func ParseReader(
	ctx context.Context,
	r io.Reader,
	opts ...Option,
) (*Equation, error) {
	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return nil, ErrReadInput.Wrap(err).
			With(slog.String("source", "reader"))
	}

	makeOptions(opts...).logger.TraceContext(ctx, "read input",
		slog.Int("source_bytes", len(data)),
		slog.Bool("read_ahead", true),
	)

	return CompileCached(ctx, string(bytes.TrimSpace(data)), opts...)
}

// ClearCache discards all cached parse trees.
func ClearCache() {
	parseCache.Clear()
}

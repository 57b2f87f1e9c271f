package search

import (
	"context"
	"slices"
	"strings"
	"sync/atomic"
	"time"

	"github.com/dshills/jlview/internal/lineindex"
)

const (
	// maxLineBytes caps the per-line read so documents with very long
	// lines keep a bounded worst-case scan cost.
	maxLineBytes = 4 << 10

	// publishInterval throttles intermediate publications to roughly
	// ten per second. The final publication is never throttled.
	publishInterval = 100 * time.Millisecond
)

// Update is one publication from an in-flight scan. Matches is the
// cumulative set of matching line indices so far, in ascending order.
type Update struct {
	Matches []int
	Done    bool

	// NoFilter reports that the query was empty: nothing is filtered,
	// which is distinct from a filter that matched nothing.
	NoFilter bool
}

// Publisher receives scan updates. It is invoked on the goroutine
// running the scan and must not block for long.
type Publisher func(Update)

// Searcher runs cancellable case-insensitive substring scans over a
// line index. Starting a new scan supersedes the previous one: a
// superseded scan publishes nothing further, so only the latest
// query's results are ever observed.
type Searcher struct {
	index *lineindex.Index
	gen   atomic.Uint64
}

// New creates a Searcher over the given index.
func New(index *lineindex.Index) *Searcher {
	return &Searcher{index: index}
}

// Cancel supersedes the in-flight scan, if any, without starting a new
// one.
func (s *Searcher) Cancel() {
	s.gen.Add(1)
}

// Search scans lines [0, lineCount) as observed at call time and
// publishes the ascending match set through publish, throttled to
// publishInterval with a guaranteed final Done publication. An empty
// query publishes a single NoFilter update.
//
// The scan stops silently when it is superseded by a newer Search or
// Cancel, when ctx is cancelled, or when the index's row count changes
// underneath it (a rebuild happened; the caller re-issues the query on
// the rebuild notification).
//
// Search blocks until the scan finishes; run it on a background
// goroutine.
func (s *Searcher) Search(ctx context.Context, query string, publish Publisher) {
	gen := s.gen.Add(1)

	if query == "" {
		publish(Update{Done: true, NoFilter: true})
		return
	}

	needle := strings.ToLower(query)
	total := s.index.LineCount()
	matches := make([]int, 0, 64)
	lastPublish := time.Now()

	for i := 0; i < total; i++ {
		if s.gen.Load() != gen || ctx.Err() != nil {
			return
		}
		if s.index.LineCount() != total {
			return
		}

		line, ok := s.index.ReadLine(i, maxLineBytes)
		if !ok {
			continue
		}
		if strings.Contains(strings.ToLower(line), needle) {
			matches = append(matches, i)
		}

		if time.Since(lastPublish) >= publishInterval {
			// Re-check right before publishing so a scan superseded
			// mid-iteration stays silent.
			if s.gen.Load() != gen || ctx.Err() != nil {
				return
			}
			publish(Update{Matches: slices.Clone(matches)})
			lastPublish = time.Now()
		}
	}

	if s.gen.Load() != gen || ctx.Err() != nil {
		return
	}
	publish(Update{Matches: matches, Done: true})
}

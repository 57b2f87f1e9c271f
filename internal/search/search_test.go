package search

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/jlview/internal/lineindex"
)

func indexFor(t *testing.T, lines ...string) *lineindex.Index {
	t.Helper()
	path := filepath.Join(t.TempDir(), "doc.jsonl")
	content := strings.Join(lines, "\n")
	if len(lines) > 0 {
		content += "\n"
	}
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	ix := lineindex.New(path)
	_, err := ix.Build(context.Background(), nil)
	require.NoError(t, err)
	return ix
}

// collector gathers updates from a scan.
type collector struct {
	mu      sync.Mutex
	updates []Update
}

func (c *collector) publish(u Update) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.updates = append(c.updates, u)
}

func (c *collector) final(t *testing.T) Update {
	t.Helper()
	c.mu.Lock()
	defer c.mu.Unlock()
	require.NotEmpty(t, c.updates)
	last := c.updates[len(c.updates)-1]
	require.True(t, last.Done, "scan did not complete")
	return last
}

func (c *collector) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.updates)
}

func TestSearch_AscendingMatches(t *testing.T) {
	ix := indexFor(t,
		`{"level":"info","msg":"started"}`,
		`{"level":"error","msg":"boom"}`,
		`{"level":"info","msg":"ok"}`,
		`{"level":"error","msg":"boom again"}`,
	)

	var c collector
	New(ix).Search(context.Background(), "error", c.publish)

	final := c.final(t)
	assert.Equal(t, []int{1, 3}, final.Matches)
	assert.False(t, final.NoFilter)
}

func TestSearch_CaseInsensitive(t *testing.T) {
	ix := indexFor(t, "Alpha", "BETA", "gamma")

	var c collector
	New(ix).Search(context.Background(), "beta", c.publish)

	assert.Equal(t, []int{1}, c.final(t).Matches)
}

func TestSearch_NoMatches(t *testing.T) {
	ix := indexFor(t, "one", "two")

	var c collector
	New(ix).Search(context.Background(), "zzz", c.publish)

	final := c.final(t)
	assert.Empty(t, final.Matches)
	assert.False(t, final.NoFilter, "zero matches is not the same as no filter")
}

func TestSearch_EmptyQueryIsNoFilter(t *testing.T) {
	ix := indexFor(t, "one", "two")

	var c collector
	New(ix).Search(context.Background(), "", c.publish)

	final := c.final(t)
	assert.True(t, final.NoFilter)
	assert.Empty(t, final.Matches)
	assert.Equal(t, 1, c.count(), "empty query publishes exactly once")
}

func TestSearch_NewSearchSupersedesOld(t *testing.T) {
	// Enough lines that the first scan is still running when the
	// second one starts; every line read opens its own file handle.
	lines := make([]string, 50000)
	for i := range lines {
		lines[i] = fmt.Sprintf(`{"i": %d}`, i)
	}
	ix := indexFor(t, lines...)
	s := New(ix)

	var first, second collector
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		s.Search(context.Background(), "1", first.publish)
	}()

	// Wait until the first scan has claimed its generation, then
	// supersede it.
	require.Eventually(t, func() bool { return s.gen.Load() == 1 },
		time.Second, time.Millisecond)
	s.Search(context.Background(), `{"i": 49999}`, second.publish)
	wg.Wait()

	final := second.final(t)
	assert.Equal(t, []int{49999}, final.Matches)

	first.mu.Lock()
	defer first.mu.Unlock()
	for _, u := range first.updates {
		assert.False(t, u.Done, "superseded search must not publish completion")
	}
}

func TestSearch_ContextCancelled(t *testing.T) {
	ix := indexFor(t, "a", "b")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var c collector
	New(ix).Search(ctx, "a", c.publish)
	assert.Zero(t, c.count())
}

func TestSearch_FinalPublishIncludesEverything(t *testing.T) {
	lines := make([]string, 500)
	for i := range lines {
		lines[i] = fmt.Sprintf("row %d match", i)
	}
	ix := indexFor(t, lines...)

	var c collector
	start := time.Now()
	New(ix).Search(context.Background(), "match", c.publish)

	final := c.final(t)
	assert.Len(t, final.Matches, 500)

	// A sub-interval scan still gets its one final publication.
	if time.Since(start) < publishInterval {
		assert.Equal(t, 1, c.count())
	}
}

package document

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/dshills/jlview/internal/lineindex"
	"github.com/dshills/jlview/internal/preview"
	"github.com/dshills/jlview/internal/search"
	"github.com/dshills/jlview/internal/watch"
)

// Options configures an open document. The zero value is usable.
type Options struct {
	// Quiescence overrides the refresh debounce window.
	Quiescence time.Duration

	// ChunkSize overrides the index scan read window.
	ChunkSize int

	// PreviewCapacity bounds the preview cache.
	PreviewCapacity int

	// PreviewFields supplies the active preview-field configuration,
	// typically backed by an external preferences subsystem.
	PreviewFields preview.ConfigSource

	// OnUpdate receives publications. It is invoked from background
	// goroutines; the presentation layer marshals to its own thread.
	OnUpdate func(Update)

	// DisableWatch opens the document without a file watcher, for
	// one-shot runs and tests.
	DisableWatch bool
}

// Update is one publication to the document's consumer.
type Update struct {
	Rows     int
	Progress float64 // build fraction in [0,1]

	Selected     int    // -1 when nothing is selected
	SelectedText string // populated when Selected >= 0 and re-resolved

	// Status carries a non-fatal failure notice ("" when healthy). The
	// document stays open with its last-good index when Status is set.
	Status string
}

// Document owns the access structures for one open file: the line
// index, its watcher and refresh loop, the preview cache, and the
// searcher. All mutation of the file on disk funnels through a full
// index rebuild.
type Document struct {
	path      string
	index     *lineindex.Index
	searcher  *search.Searcher
	previews  *preview.Cache
	watcher   *watch.Watcher
	refresher *watch.Refresher

	chunkSize int
	onUpdate  func(Update)

	mu       sync.Mutex
	selected int
	closed   bool
}

// Open indexes path and, unless disabled, begins watching it for
// mutation. The initial build blocks; progress and row counts stream
// through Options.OnUpdate while it runs.
func Open(ctx context.Context, path string, opts Options) (*Document, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}

	d := &Document{
		path:      abs,
		index:     lineindex.New(abs),
		chunkSize: opts.ChunkSize,
		onUpdate:  opts.OnUpdate,
		selected:  -1,
	}
	d.searcher = search.New(d.index)
	d.previews = preview.NewCache(opts.PreviewCapacity, opts.PreviewFields)

	if _, err := d.index.Build(ctx, d.buildOptions()); err != nil {
		return nil, err
	}

	if !opts.DisableWatch {
		d.refresher = watch.NewRefresher(opts.Quiescence, d.Rebuild)
		w, err := watch.Watch(abs, func(watch.Event) { d.refresher.Notify() })
		if err != nil {
			return nil, fmt.Errorf("watch %s: %w", abs, err)
		}
		d.watcher = w
	}

	return d, nil
}

// Path returns the absolute path of the open file.
func (d *Document) Path() string {
	return d.path
}

// Index exposes the line index for collaborators (tree builder, pretty
// printer) that read full line content themselves.
func (d *Document) Index() *lineindex.Index {
	return d.index
}

// LineCount returns the current number of indexed rows.
func (d *Document) LineCount() int {
	return d.index.LineCount()
}

// Select marks a row as the current selection. Out-of-range values
// clear the selection.
func (d *Document) Select(row int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if row < 0 || row >= d.index.LineCount() {
		d.selected = -1
		return
	}
	d.selected = row
}

// Selection returns the selected row, -1 when there is none.
func (d *Document) Selection() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.selected
}

// Search runs a cancellable substring scan; see the search package for
// ordering and cancellation semantics. Blocks until the scan finishes,
// so run it on a background goroutine.
func (d *Document) Search(ctx context.Context, query string, publish search.Publisher) {
	d.searcher.Search(ctx, query, publish)
}

// CancelSearch supersedes any in-flight scan.
func (d *Document) CancelSearch() {
	d.searcher.Cancel()
}

// Preview returns the bounded, field-projected preview for one row,
// computing and caching it on a miss. ok is false when the row is not
// (yet) indexed.
func (d *Document) Preview(row int) (string, bool) {
	if text, ok := d.previews.Get(row); ok {
		return text, true
	}
	raw, ok := d.index.ReadLine(row, preview.MaxBytes)
	if !ok {
		return "", false
	}
	text := d.previews.Project(raw)
	d.previews.Put(row, text)
	return text, true
}

// Rebuild runs a full index rebuild now. The refresh loop calls this
// after a quiescent burst of file events; tests and the CLI may call
// it directly. A failed rebuild leaves the last-good index live and is
// published as a status, never an error that closes the document.
func (d *Document) Rebuild() {
	stats, err := d.index.Refresh(context.Background(), d.buildOptions())
	if err != nil {
		d.publish(Update{
			Rows:     d.index.LineCount(),
			Progress: 1,
			Selected: d.Selection(),
			Status:   fmt.Sprintf("refresh failed: %v", err),
		})
		return
	}
	if stats == nil {
		return // cancelled; partial results dropped silently
	}

	// Row identities may have changed wholesale (truncate, rewrite),
	// so cached previews and any in-flight search are stale.
	d.searcher.Cancel()
	d.previews.Clear()
	d.reresolveSelection()
}

// reresolveSelection re-publishes the selected row after a rebuild: a
// row still in range gets its content re-fetched; one now out of range
// is cleared silently.
func (d *Document) reresolveSelection() {
	rows := d.index.LineCount()

	d.mu.Lock()
	if d.selected >= rows {
		d.selected = -1
	}
	sel := d.selected
	d.mu.Unlock()

	u := Update{Rows: rows, Progress: 1, Selected: sel}
	if sel >= 0 {
		u.SelectedText, _ = d.index.ReadLine(sel, 0)
	}
	d.publish(u)
}

func (d *Document) buildOptions() *lineindex.BuildOptions {
	return &lineindex.BuildOptions{
		ChunkSize: d.chunkSize,
		Progress: func(f float64) {
			d.publish(Update{Rows: d.index.LineCount(), Progress: f, Selected: d.Selection()})
		},
		OnRows: func(n int) {
			d.publish(Update{Rows: n, Selected: d.Selection()})
		},
		Cancel: d.isClosed,
	}
}

func (d *Document) isClosed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.closed
}

func (d *Document) publish(u Update) {
	if d.onUpdate != nil {
		d.onUpdate(u)
	}
}

// Close releases the watch handle and clears caches. Safe to call more
// than once.
func (d *Document) Close() error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil
	}
	d.closed = true
	d.mu.Unlock()

	d.searcher.Cancel()
	if d.refresher != nil {
		d.refresher.Stop()
	}
	d.previews.Clear()
	if d.watcher != nil {
		return d.watcher.Close()
	}
	return nil
}

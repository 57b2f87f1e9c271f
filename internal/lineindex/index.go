package lineindex

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/dshills/jlview/pkg/types"
)

// Index maps line numbers to byte ranges within a newline-delimited
// file. The offset table has lineCount+1 entries: offsets[0] is always
// 0 and line i occupies [offsets[i], offsets[i+1]). The table is built
// progressively, so readers may observe a partial table while a build
// is running; partial tables are internally consistent and only ever
// extended until the build finishes.
type Index struct {
	path string

	// mu is the synchronization boundary shared by the single build
	// worker and all readers.
	mu       sync.RWMutex
	offsets  []int64
	fileSize int64

	// buildMu serializes builds so exactly one writer mutates the table.
	buildMu sync.Mutex
}

// BuildOptions configures a build scan. All fields are optional.
type BuildOptions struct {
	ChunkSize int // read window in bytes (default DefaultChunkSize)

	// Progress receives a monotonic completion fraction in [0,1] after
	// each chunk, and 1.0 once more on completion.
	Progress func(fraction float64)

	// OnRows receives the row count after each chunk so consumers can
	// render partial results before indexing finishes.
	OnRows func(count int)

	// Cancel is polled between chunks for embedding the build in a
	// higher-level abort flow. A cancelled build returns nil stats and
	// nil error; the last-good table is left intact.
	Cancel func() bool
}

// BuildStats summarizes a completed build.
type BuildStats struct {
	Lines    int
	Bytes    int64
	Duration time.Duration
}

// New creates an empty index for the file at path. The table is
// populated by Build.
func New(path string) *Index {
	return &Index{
		path:    path,
		offsets: []int64{0},
	}
}

// Path returns the file this index describes.
func (ix *Index) Path() string {
	return ix.path
}

// Build scans the file and replaces the offset table. Partial tables
// are published after every chunk. On I/O failure or cancellation the
// previous table is restored, so readers never lose the last-good
// state. Build blocks its caller; run it on a background goroutine.
func (ix *Index) Build(ctx context.Context, opts *BuildOptions) (*BuildStats, error) {
	if opts == nil {
		opts = &BuildOptions{}
	}

	ix.buildMu.Lock()
	defer ix.buildMu.Unlock()

	start := time.Now()

	f, err := os.Open(ix.path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", ix.path, err)
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", ix.path, err)
	}
	sizeHint := info.Size()

	// Snapshot the last-good table so a failed or cancelled scan can
	// restore it after partial publication.
	ix.mu.RLock()
	prevOffsets, prevSize := ix.offsets, ix.fileSize
	ix.mu.RUnlock()

	restore := func() {
		ix.mu.Lock()
		ix.offsets, ix.fileSize = prevOffsets, prevSize
		ix.mu.Unlock()
	}

	offsets := make([]int64, 1, 1024) // offsets[0] == 0
	scanner := newByteScanner(f, opts.ChunkSize)
	published := false
	lastFraction := 0.0

	for {
		if ctx.Err() != nil || (opts.Cancel != nil && opts.Cancel()) {
			if published {
				restore()
			}
			return nil, nil
		}

		offs, eof, scanErr := scanner.nextChunk()
		offsets = append(offsets, offs...)
		if scanErr != nil {
			if published {
				restore()
			}
			return nil, fmt.Errorf("scan %s: %w", ix.path, scanErr)
		}

		if eof {
			end := scanner.pos
			if offsets[len(offsets)-1] != end {
				// The final line has no trailing newline; synthesize an
				// EOF offset so it is not dropped.
				offsets = append(offsets, end)
			}
			ix.mu.Lock()
			ix.offsets, ix.fileSize = offsets, end
			ix.mu.Unlock()

			if opts.OnRows != nil {
				opts.OnRows(len(offsets) - 1)
			}
			if opts.Progress != nil {
				opts.Progress(1.0)
			}
			return &BuildStats{
				Lines:    len(offsets) - 1,
				Bytes:    end,
				Duration: time.Since(start),
			}, nil
		}

		// Publish the partial table. Appends never touch entries below
		// the published length, so sharing the backing array with
		// readers is safe.
		ix.mu.Lock()
		ix.offsets, ix.fileSize = offsets, scanner.pos
		ix.mu.Unlock()
		published = true

		if opts.OnRows != nil {
			opts.OnRows(len(offsets) - 1)
		}
		if opts.Progress != nil {
			fraction := 1.0
			if sizeHint > 0 {
				fraction = float64(scanner.pos) / float64(sizeHint)
			}
			// Keep the fraction monotonic even if the file grew past
			// the size observed at scan start.
			if fraction > 1.0 {
				fraction = 1.0
			}
			if fraction > lastFraction {
				lastFraction = fraction
			}
			opts.Progress(lastFraction)
		}
	}
}

// Refresh performs a full rebuild. The file may have been appended to,
// truncated, or rewritten in place; a full scan is correct in every
// case where an incremental diff is not.
func (ix *Index) Refresh(ctx context.Context, opts *BuildOptions) (*BuildStats, error) {
	return ix.Build(ctx, opts)
}

// LineCount returns the number of fully indexed lines.
func (ix *Index) LineCount() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.offsets) - 1
}

// Size returns the file size observed by the most recent scan.
func (ix *Index) Size() int64 {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return ix.fileSize
}

// SliceRange returns the half-open byte interval of line i, computed
// from a single atomic snapshot of the table. ok is false when i is
// outside the current bounds, which is expected during a progressive
// build rather than an error.
func (ix *Index) SliceRange(i int) (types.LineRange, bool) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	if i < 0 || i >= len(ix.offsets)-1 {
		return types.LineRange{}, false
	}
	return types.LineRange{Start: ix.offsets[i], End: ix.offsets[i+1]}, true
}

// ReadLine returns line i's text with the trailing newline stripped.
// maxBytes > 0 caps the read at that many bytes from the line's start,
// for cheap previews of very long lines. ok is false when i is out of
// range or the read fails; a line whose bytes do not decode as UTF-8
// degrades to an empty string rather than an error.
//
// Each call opens its own short-lived file handle, so random reads
// never race a concurrent build scan over a shared handle.
func (ix *Index) ReadLine(i, maxBytes int) (string, bool) {
	rng, ok := ix.SliceRange(i)
	if !ok {
		return "", false
	}

	length := rng.Len()
	truncated := false
	if maxBytes > 0 && int64(maxBytes) < length {
		length = int64(maxBytes)
		truncated = true
	}

	f, err := os.Open(ix.path)
	if err != nil {
		return "", false
	}
	defer func() { _ = f.Close() }()

	buf := make([]byte, length)
	n, err := f.ReadAt(buf, rng.Start)
	if err != nil && err != io.EOF {
		return "", false
	}
	buf = buf[:n]

	buf = bytes.TrimSuffix(buf, []byte("\n"))
	buf = bytes.TrimSuffix(buf, []byte("\r"))
	if truncated {
		buf = trimPartialRune(buf)
	}

	if !utf8.Valid(buf) {
		return "", true
	}
	return string(buf), true
}

// trimPartialRune drops the bytes of a multi-byte rune that a capped
// read split mid-sequence. At most UTFMax-1 bytes are removed so
// genuinely invalid content is left for the caller to reject.
func trimPartialRune(b []byte) []byte {
	for i := 0; i < utf8.UTFMax-1 && len(b) > 0; i++ {
		r, size := utf8.DecodeLastRune(b)
		if r == utf8.RuneError && size == 1 {
			b = b[:len(b)-1]
			continue
		}
		break
	}
	return b
}

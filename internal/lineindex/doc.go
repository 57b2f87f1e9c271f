// Package lineindex provides near-O(1) random access to the Nth line
// of an arbitrarily large newline-delimited file.
//
// The index is a table of byte offsets, one entry per line boundary,
// built by a chunked scan that never holds more than one read window
// in memory. A gigabyte-scale file costs one sequential pass to index
// and a single bounded seek+read per random line access afterwards.
//
// # Basic Usage
//
//	ix := lineindex.New("/var/log/events.jsonl")
//
//	stats, err := ix.Build(ctx, &lineindex.BuildOptions{
//	    Progress: func(f float64) { fmt.Printf("\r%3.0f%%", f*100) },
//	    OnRows:   func(n int) { view.SetRowCount(n) },
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Printf("indexed %d lines (%d bytes) in %v\n",
//	    stats.Lines, stats.Bytes, stats.Duration)
//
//	line, ok := ix.ReadLine(1_000_000, 0)
//
// # Progressive Build
//
// Build publishes the partial offset table after every chunk, so
// consumers can render rows while indexing is still running. Partial
// tables are internally consistent and only ever extended; a reader
// that asks for a line beyond the published table gets a quiet absent
// result, not an error.
//
// # Offset Table Invariants
//
// For an index over a file of size S with N lines:
//
//   - offsets[0] == 0
//   - offsets are strictly increasing
//   - offsets[N] == S after the most recent successful build
//   - line i occupies the half-open range [offsets[i], offsets[i+1])
//
// A file whose last line lacks a trailing newline gets a synthesized
// EOF offset, so that line is never dropped. An empty file indexes to
// zero lines.
//
// # Rebuilds
//
// Refresh performs a full rescan. The file may have been truncated or
// rewritten in place (log rotation), which an append-only incremental
// update cannot safely assume, so the full scan is the only rebuild
// path. A failed or cancelled rebuild restores the last-good table.
//
// # Concurrency
//
// One build mutates the table at a time; all readers synchronize with
// the build worker through the same lock boundary. ReadLine opens its
// own short-lived file handle per call, trading one extra open for
// freedom from handle-sharing races with a concurrent build scan.
package lineindex

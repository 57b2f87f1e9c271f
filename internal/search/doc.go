// Package search implements cancellable substring search over a line
// index.
//
// A scan walks every indexed line, reads a bounded prefix of each, and
// publishes the ascending set of matching line indices. Publications
// are throttled to roughly ten per second so a fast scan does not
// flood its consumer; the complete match set is always published once
// on normal completion.
//
// # Cancellation
//
// Each Search bumps a generation counter and checks it every
// iteration. Starting a new search therefore cancels the previous one
// cooperatively, and a superseded scan publishes nothing further:
//
//	s := search.New(index)
//
//	go s.Search(ctx, "timeout", onUpdate)   // superseded below
//	go s.Search(ctx, "timeout exceeded", onUpdate)
//
// A scan also stops when the index's row count changes underneath it,
// which means a rebuild replaced the table; the caller re-issues the
// query when the rebuild is announced.
//
// An empty query means "no filter", never "matches everything" — the
// single NoFilter update it publishes is distinct from a completed
// scan with zero matches.
package search

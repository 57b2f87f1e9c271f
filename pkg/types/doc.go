// Package types provides shared type definitions for the jlview core.
//
// This package defines the small value types that cross component
// boundaries: byte ranges within the indexed file and the domain
// sentinel errors used by the document registry.
//
// # Core Types
//
// LineRange is the half-open byte interval occupied by one line:
//
//	rng, ok := index.SliceRange(42)
//	if ok {
//	    fmt.Printf("line 42 spans [%d, %d)\n", rng.Start, rng.End)
//	}
//
// Ranges always satisfy Start < End for indexed lines, and consecutive
// lines tile the file: line i's End equals line i+1's Start.
package types

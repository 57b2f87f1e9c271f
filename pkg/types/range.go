package types

// LineRange is the half-open byte interval [Start, End) that one line
// occupies within a file, including its trailing newline when present.
type LineRange struct {
	Start int64
	End   int64
}

// Len returns the number of bytes in the range.
func (r LineRange) Len() int64 {
	return r.End - r.Start
}

// Contains reports whether the absolute byte offset falls inside the range.
func (r LineRange) Contains(off int64) bool {
	return off >= r.Start && off < r.End
}

package lineindex

import (
	"bytes"
	"io"
	"os"
)

// DefaultChunkSize is the read window used by a build scan. The scan
// holds at most one chunk in memory regardless of file size.
const DefaultChunkSize = 8 << 20 // 8 MiB

// byteScanner walks a file in fixed-size chunks, reporting the absolute
// byte offset that follows every newline it encounters. Reads use
// explicit offsets, so a file that grows while the scan is running is
// simply read further; the offsets already reported stay valid.
type byteScanner struct {
	f   *os.File
	buf []byte
	pos int64 // absolute offset of the next byte to read
}

func newByteScanner(f *os.File, chunkSize int) *byteScanner {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return &byteScanner{f: f, buf: make([]byte, chunkSize)}
}

// nextChunk reads one chunk and returns the offsets following each
// newline within it, in ascending order. eof reports that the end of
// the file was observed; the scan is complete once eof is true.
func (s *byteScanner) nextChunk() (offs []int64, eof bool, err error) {
	n, err := s.f.ReadAt(s.buf, s.pos)
	if n > 0 {
		chunk := s.buf[:n]
		for i := 0; ; {
			j := bytes.IndexByte(chunk[i:], '\n')
			if j < 0 {
				break
			}
			offs = append(offs, s.pos+int64(i+j)+1)
			i += j + 1
		}
		s.pos += int64(n)
	}
	if err == io.EOF {
		return offs, true, nil
	}
	return offs, false, err
}

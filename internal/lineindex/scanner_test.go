package lineindex

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scanAll(t *testing.T, content string, chunkSize int) []int64 {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scan.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	s := newByteScanner(f, chunkSize)
	var all []int64
	for {
		offs, eof, err := s.nextChunk()
		require.NoError(t, err)
		all = append(all, offs...)
		if eof {
			return all
		}
	}
}

func TestByteScanner_OffsetsFollowNewlines(t *testing.T) {
	offs := scanAll(t, "ab\nc\n\nxyz\n", 1024)
	assert.Equal(t, []int64{3, 5, 6, 10}, offs)
}

func TestByteScanner_ChunkBoundaries(t *testing.T) {
	content := "ab\nc\n\nxyz\n"
	want := scanAll(t, content, 1024)

	// Every chunk size must produce identical offsets, including sizes
	// that land a newline exactly on a chunk boundary.
	for size := 1; size <= len(content)+1; size++ {
		assert.Equal(t, want, scanAll(t, content, size), "chunk size %d", size)
	}
}

func TestByteScanner_NoNewlines(t *testing.T) {
	offs := scanAll(t, "no newline here", 4)
	assert.Empty(t, offs)
}

func TestByteScanner_EmptyFile(t *testing.T) {
	offs := scanAll(t, "", 1024)
	assert.Empty(t, offs)
}

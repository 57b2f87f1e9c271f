package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/jlview/pkg/types"
)

func TestRegistry_RegisterGet(t *testing.T) {
	r := NewRegistry()
	d := openTestDoc(t, writeDoc(t, "one"), Options{})

	require.NoError(t, r.Register(d))
	assert.Equal(t, 1, r.Len())

	got, ok := r.Get(d.Path())
	require.True(t, ok)
	assert.Same(t, d, got)
}

func TestRegistry_DuplicateRejected(t *testing.T) {
	r := NewRegistry()
	d := openTestDoc(t, writeDoc(t, "one"), Options{})

	require.NoError(t, r.Register(d))
	assert.ErrorIs(t, r.Register(d), types.ErrAlreadyRegistered)
}

func TestRegistry_Unregister(t *testing.T) {
	r := NewRegistry()
	d := openTestDoc(t, writeDoc(t, "one"), Options{})

	require.NoError(t, r.Register(d))
	require.NoError(t, r.Unregister(d.Path()))

	_, ok := r.Get(d.Path())
	assert.False(t, ok)
	assert.ErrorIs(t, r.Unregister(d.Path()), types.ErrNotRegistered)
}

func TestRegistry_CloseAll(t *testing.T) {
	r := NewRegistry()
	a := openTestDoc(t, writeDoc(t, "a"), Options{})
	b := openTestDoc(t, writeDoc(t, "b"), Options{})

	require.NoError(t, r.Register(a))
	require.NoError(t, r.Register(b))

	assert.NoError(t, r.CloseAll())
	assert.Zero(t, r.Len())
}

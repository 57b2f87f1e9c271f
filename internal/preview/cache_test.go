package preview

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mutableConfig is a ConfigSource whose value tests can change.
type mutableConfig struct {
	value string
}

func (m *mutableConfig) source() string { return m.value }

func TestCache_GetPut(t *testing.T) {
	c := NewCache(16, nil)

	_, ok := c.Get(3)
	assert.False(t, ok)

	c.Put(3, "preview three")

	text, ok := c.Get(3)
	require.True(t, ok)
	assert.Equal(t, "preview three", text)
}

func TestCache_ConfigChangePurges(t *testing.T) {
	cfg := &mutableConfig{value: "level,msg"}
	c := NewCache(16, cfg.source)

	c.Put(0, "under first config")
	_, ok := c.Get(0)
	require.True(t, ok)

	cfg.value = "ts,level"

	// The fingerprint is recomputed on lookup; the stale entry is gone.
	_, ok = c.Get(0)
	assert.False(t, ok)

	// Recomputed entries live under the new configuration.
	c.Put(0, "under second config")
	text, ok := c.Get(0)
	require.True(t, ok)
	assert.Equal(t, "under second config", text)
}

func TestCache_ConfigChangeSeenByPut(t *testing.T) {
	cfg := &mutableConfig{value: ""}
	c := NewCache(16, cfg.source)

	c.Put(1, "old")
	cfg.value = "msg"
	c.Put(2, "new")

	// The Put under the new config purged the old entry first.
	_, ok := c.Get(1)
	assert.False(t, ok)

	text, ok := c.Get(2)
	require.True(t, ok)
	assert.Equal(t, "new", text)
}

func TestCache_Bounded(t *testing.T) {
	c := NewCache(8, nil)
	for i := 0; i < 100; i++ {
		c.Put(i, "p")
	}
	assert.LessOrEqual(t, c.Len(), 8)

	// The most recent rows survive.
	_, ok := c.Get(99)
	assert.True(t, ok)
}

func TestCache_Clear(t *testing.T) {
	c := NewCache(16, nil)
	c.Put(1, "a")
	c.Clear()
	assert.Zero(t, c.Len())
}

func TestProject_NoFieldsPassthrough(t *testing.T) {
	c := NewCache(16, nil)
	line := `{"level":"info","msg":"hello"}`
	assert.Equal(t, line, c.Project(line))
}

func TestProject_DotPathFields(t *testing.T) {
	cfg := &mutableConfig{value: "level, user.name"}
	c := NewCache(16, cfg.source)

	line := `{"level":"warn","user":{"name":"ada","id":7},"msg":"x"}`
	assert.Equal(t, "warn  ada", c.Project(line))
}

func TestProject_MissingFieldsSkipped(t *testing.T) {
	cfg := &mutableConfig{value: "level,nope"}
	c := NewCache(16, cfg.source)

	assert.Equal(t, "info", c.Project(`{"level":"info"}`))
}

func TestProject_AllFieldsMissingFallsBack(t *testing.T) {
	cfg := &mutableConfig{value: "a,b"}
	c := NewCache(16, cfg.source)

	line := `{"level":"info"}`
	assert.Equal(t, line, c.Project(line))
}

func TestProject_InvalidJSONPassthrough(t *testing.T) {
	cfg := &mutableConfig{value: "level"}
	c := NewCache(16, cfg.source)

	// A capped prefix read can cut a row short of valid JSON.
	truncated := `{"level":"info","msg":"a very long li`
	assert.Equal(t, truncated, c.Project(truncated))
}

package preview

import (
	"fmt"
	"strings"
	"sync"

	"github.com/cespare/xxhash/v2"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/tidwall/gjson"
)

const (
	// DefaultCapacity bounds the number of cached previews.
	DefaultCapacity = 4096

	// MaxBytes is the bounded prefix read from a row when computing its
	// preview. Full decoding of very long lines is never needed for a
	// one-row summary.
	MaxBytes = 4 << 10
)

// ConfigSource returns the active preview-field configuration: a
// comma-separated list of dot-path selectors, e.g. "ts,level,user.name".
// An empty string means no projection.
type ConfigSource func() string

// Cache is a bounded row-index → preview-string cache scoped to one
// configuration fingerprint. The fingerprint is recomputed before
// every lookup; any change purges the whole cache, so a value computed
// under one configuration is never served under another.
type Cache struct {
	config ConfigSource

	mu          sync.Mutex
	entries     *lru.Cache[int, string]
	fingerprint uint64
	fields      []string
}

// NewCache creates a cache holding at most capacity previews.
// capacity <= 0 selects DefaultCapacity.
func NewCache(capacity int, config ConfigSource) *Cache {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	entries, err := lru.New[int, string](capacity)
	if err != nil {
		// This should never happen with valid size parameter
		panic(fmt.Sprintf("failed to create LRU cache: %v", err))
	}

	c := &Cache{config: config, entries: entries}
	c.mu.Lock()
	c.syncConfigLocked()
	c.mu.Unlock()
	return c
}

// Get returns the cached preview for a row, after discarding the whole
// cache if the configuration fingerprint changed since it was filled.
func (c *Cache) Get(row int) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.syncConfigLocked()
	return c.entries.Get(row)
}

// Put stores a preview computed under the current configuration.
func (c *Cache) Put(row int, text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.syncConfigLocked()
	c.entries.Add(row, text)
}

// Clear discards every cached preview.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries.Purge()
}

// Len returns the number of cached previews.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entries.Len()
}

// Project renders the preview text for one row's raw prefix under the
// active configuration. With no selectors configured, or when the
// prefix is not valid JSON (a capped read may cut a row short), the
// prefix is returned unchanged.
func (c *Cache) Project(line string) string {
	c.mu.Lock()
	c.syncConfigLocked()
	fields := c.fields
	c.mu.Unlock()
	return projectFields(line, fields)
}

// syncConfigLocked recomputes the configuration fingerprint and purges
// every entry when it differs from the one the cache was filled under.
func (c *Cache) syncConfigLocked() {
	raw := ""
	if c.config != nil {
		raw = c.config()
	}
	fp := xxhash.Sum64String(raw)
	if fp == c.fingerprint && c.fields != nil {
		return
	}
	c.fingerprint = fp
	c.fields = parseFields(raw)
	c.entries.Purge()
}

// parseFields splits a comma-separated selector list, dropping empty
// entries. The result is never nil so a synced config is recognizable.
func parseFields(raw string) []string {
	fields := make([]string, 0, 4)
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			fields = append(fields, part)
		}
	}
	return fields
}

// projectFields extracts the configured dot-path selectors from a JSON
// row and joins them for display.
func projectFields(line string, fields []string) string {
	if len(fields) == 0 || !gjson.Valid(line) {
		return line
	}

	parts := make([]string, 0, len(fields))
	for _, res := range gjson.GetMany(line, fields...) {
		if res.Exists() {
			parts = append(parts, res.String())
		}
	}
	if len(parts) == 0 {
		return line
	}
	return strings.Join(parts, "  ")
}

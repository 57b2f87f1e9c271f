// Package preview caches short, optionally field-projected summaries
// of rows for cheap cell rendering.
//
// A preview is computed from a bounded prefix of the row — at most
// MaxBytes — and, when selectors are configured, projected down to
// specific JSON fields using gjson dot paths:
//
//	cache := preview.NewCache(0, prefs.PreviewFields)
//
//	text, ok := cache.Get(row)
//	if !ok {
//	    raw, _ := index.ReadLine(row, preview.MaxBytes)
//	    text = cache.Project(raw)
//	    cache.Put(row, text)
//	}
//
// The cache is bounded by an LRU and scoped to a configuration
// fingerprint. The fingerprint of the active selector string is
// recomputed before every lookup; when it changes the entire cache is
// purged first, so a preview computed under one configuration can
// never leak into another.
package preview

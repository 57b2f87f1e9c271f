package document

import (
	"errors"
	"sync"

	"github.com/dshills/jlview/pkg/types"
)

// Registry tracks the documents a process has open, keyed by absolute
// path. It is injected into whatever owns window or session lifecycle
// rather than living as a package-level default, so embedders and
// tests hold independent registries.
type Registry struct {
	mu   sync.RWMutex
	docs map[string]*Document
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{docs: make(map[string]*Document)}
}

// Register adds an open document. Registering the same path twice is
// an error; close and unregister the old document first.
func (r *Registry) Register(d *Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.docs[d.Path()]; exists {
		return types.ErrAlreadyRegistered
	}
	r.docs[d.Path()] = d
	return nil
}

// Unregister removes a document without closing it.
func (r *Registry) Unregister(path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.docs[path]; !exists {
		return types.ErrNotRegistered
	}
	delete(r.docs, path)
	return nil
}

// Get returns the document open at path, if any.
func (r *Registry) Get(path string) (*Document, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.docs[path]
	return d, ok
}

// Len returns the number of registered documents.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.docs)
}

// CloseAll closes and unregisters every document, returning the
// combined close errors.
func (r *Registry) CloseAll() error {
	r.mu.Lock()
	docs := r.docs
	r.docs = make(map[string]*Document)
	r.mu.Unlock()

	var errs []error
	for _, d := range docs {
		if err := d.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

package watch

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Op classifies a mutation of the watched file.
type Op int

const (
	OpWrite Op = iota
	OpCreate
	OpRemove
	OpRename
)

// String returns a short name for logging.
func (op Op) String() string {
	switch op {
	case OpWrite:
		return "write"
	case OpCreate:
		return "create"
	case OpRemove:
		return "remove"
	case OpRename:
		return "rename"
	}
	return "unknown"
}

// Event is one observed mutation of the watched file.
type Event struct {
	Path string
	Op   Op
}

// Watcher delivers OS change notifications for a single file. It
// watches the file's parent directory and filters events down to the
// target, so log rotation (rename away + recreate) is observed as well
// as in-place writes and truncation.
type Watcher struct {
	fs       *fsnotify.Watcher
	path     string
	onChange func(Event)

	done      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

// Watch begins delivering change events for path to onChange. onChange
// runs on the watcher's goroutine and must not block; hand the event
// to a debouncer or channel immediately.
//
// The returned Watcher holds an OS resource; Close releases it.
func Watch(path string, onChange func(Event)) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}

	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	dir := filepath.Dir(abs)
	if err := fs.Add(dir); err != nil {
		_ = fs.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}

	w := &Watcher{
		fs:       fs,
		path:     abs,
		onChange: onChange,
		done:     make(chan struct{}),
	}
	w.wg.Add(1)
	go w.run()
	return w, nil
}

// Path returns the watched file.
func (w *Watcher) Path() string {
	return w.path
}

func (w *Watcher) run() {
	defer w.wg.Done()
	for {
		select {
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if op, relevant := classify(ev.Op); relevant {
				w.onChange(Event{Path: w.path, Op: op})
			}
		case _, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			// Watch errors are transient overflow conditions; the next
			// real event still arrives, so they are dropped.
		case <-w.done:
			return
		}
	}
}

func classify(op fsnotify.Op) (Op, bool) {
	switch {
	case op&fsnotify.Write != 0:
		return OpWrite, true
	case op&fsnotify.Create != 0:
		return OpCreate, true
	case op&fsnotify.Remove != 0:
		return OpRemove, true
	case op&fsnotify.Rename != 0:
		return OpRename, true
	}
	return 0, false // chmod and friends
}

// Close releases the OS watch resource. Safe to call more than once;
// only the first call does the work.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.done)
		err = w.fs.Close()
		w.wg.Wait()
	})
	return err
}

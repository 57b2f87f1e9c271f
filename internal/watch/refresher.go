package watch

import (
	"sync"
	"time"
)

// DefaultQuiescence is the window a burst of file events must stay
// quiet for before a rebuild fires. Rapid successive writes therefore
// cost one rebuild, not one per OS event.
const DefaultQuiescence = 250 * time.Millisecond

// Refresher coalesces change notifications into debounced rebuilds.
// It keeps a single pending timer: every Notify replaces it, and the
// rebuild callback runs only once the quiescence window elapses with
// no further notification.
type Refresher struct {
	quiescence time.Duration
	rebuild    func()

	mu      sync.Mutex
	timer   *time.Timer
	stopped bool
}

// NewRefresher creates a refresher invoking rebuild after quiescence.
// quiescence <= 0 selects DefaultQuiescence. rebuild runs on a timer
// goroutine.
func NewRefresher(quiescence time.Duration, rebuild func()) *Refresher {
	if quiescence <= 0 {
		quiescence = DefaultQuiescence
	}
	return &Refresher{quiescence: quiescence, rebuild: rebuild}
}

// Notify records one change event, restarting the quiescence window.
func (r *Refresher) Notify() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stopped {
		return
	}
	if r.timer != nil {
		r.timer.Stop()
	}
	r.timer = time.AfterFunc(r.quiescence, r.fire)
}

func (r *Refresher) fire() {
	r.mu.Lock()
	r.timer = nil
	stopped := r.stopped
	r.mu.Unlock()
	if !stopped {
		r.rebuild()
	}
}

// Flush runs a pending rebuild immediately instead of waiting out the
// window. A no-op when nothing is pending.
func (r *Refresher) Flush() {
	r.mu.Lock()
	pending := r.timer != nil && r.timer.Stop()
	r.timer = nil
	stopped := r.stopped
	r.mu.Unlock()
	if pending && !stopped {
		r.rebuild()
	}
}

// Stop cancels any pending rebuild and ignores further notifications.
// Idempotent.
func (r *Refresher) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stopped = true
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
}

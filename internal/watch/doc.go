// Package watch turns OS file-change notifications into debounced
// rebuild triggers.
//
// Watcher wraps fsnotify around a single file, watching the parent
// directory so rotation (rename + recreate) is seen, not just in-place
// writes. Refresher debounces the resulting event bursts with a fixed
// quiescence window — each event restarts the window, and the rebuild
// callback fires only once it passes untouched:
//
//	r := watch.NewRefresher(0, doc.Rebuild)
//
//	w, err := watch.Watch(path, func(watch.Event) { r.Notify() })
//	if err != nil {
//	    return err
//	}
//	defer w.Close()
//
// The rebuild is always a full one. The watched file may have been
// truncated or rewritten in place, which an append-only incremental
// update cannot safely assume.
package watch

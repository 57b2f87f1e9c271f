// Package document wires the viewer core together for one open file.
//
// A Document owns the line index, the file watcher and its debounced
// refresh loop, the preview cache, and the searcher. Opening a
// document runs the initial progressive build; afterwards, any
// mutation of the file on disk funnels through a full rebuild, with
// the selected row re-resolved and consumers re-notified when it
// completes.
//
//	d, err := document.Open(ctx, path, document.Options{
//	    PreviewFields: prefs.PreviewFields,
//	    OnUpdate:      view.Apply,
//	})
//	if err != nil {
//	    return err
//	}
//	defer d.Close()
//
// Rebuild failures never close the document: the last-good index stays
// live and the failure is published as a status notice, so prior
// content remains visible on a hard I/O failure.
//
// Registry is the process-wide set of open documents, keyed by
// absolute path with an explicit register/unregister lifecycle.
package document

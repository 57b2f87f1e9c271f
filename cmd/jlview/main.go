package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/dshills/jlview/internal/document"
	"github.com/dshills/jlview/internal/search"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	var (
		showVersion = flag.Bool("version", false, "print version and exit")
		query       = flag.String("search", "", "print lines matching this substring (case-insensitive)")
		fields      = flag.String("fields", "", "comma-separated dot-path selectors for previews")
		head        = flag.Int("head", 0, "print previews of the first N rows")
		watchMode   = flag.Bool("watch", false, "stay open and re-index when the file changes")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("jlview\n")
		fmt.Printf("Version: %s\n", version)
		fmt.Printf("Build Time: %s\n", buildTime)
		os.Exit(0)
	}

	// Diagnostics go to stderr; stdout carries row output only.
	log.SetOutput(os.Stderr)

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: jlview [flags] <file.jsonl>\n")
		flag.PrintDefaults()
		os.Exit(2)
	}
	path := flag.Arg(0)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, path, *query, *fields, *head, *watchMode); err != nil {
		log.Fatalf("jlview: %v", err)
	}
}

func run(ctx context.Context, path, query, fields string, head int, watchMode bool) error {
	doc, err := document.Open(ctx, path, document.Options{
		PreviewFields: func() string { return fields },
		OnUpdate:      reportUpdate,
		DisableWatch:  !watchMode,
	})
	if err != nil {
		return err
	}
	defer func() { _ = doc.Close() }()

	log.Printf("indexed %d lines from %s", doc.LineCount(), doc.Path())

	g, gctx := errgroup.WithContext(ctx)

	if query != "" {
		g.Go(func() error {
			doc.Search(gctx, query, func(u search.Update) {
				if !u.Done {
					return
				}
				for _, row := range u.Matches {
					if line, ok := doc.Index().ReadLine(row, 0); ok {
						fmt.Printf("%d:%s\n", row, line)
					}
				}
				log.Printf("search %q: %d matches", query, len(u.Matches))
			})
			return nil
		})
	}

	if head > 0 {
		g.Go(func() error {
			n := min(head, doc.LineCount())
			for row := 0; row < n; row++ {
				if text, ok := doc.Preview(row); ok {
					fmt.Printf("%d:%s\n", row, text)
				}
			}
			return nil
		})
	}

	if watchMode {
		g.Go(func() error {
			log.Printf("watching %s, Ctrl-C to stop", doc.Path())
			<-gctx.Done()
			return nil
		})
	}

	return g.Wait()
}

// reportUpdate logs progress, row counts, and non-fatal status notices
// published by the document's background workers.
func reportUpdate(u document.Update) {
	switch {
	case u.Status != "":
		log.Printf("warning: %s (showing last indexed state, %d rows)", u.Status, u.Rows)
	case u.Progress > 0 && u.Progress < 1:
		log.Printf("indexing... %3.0f%% (%d rows)", u.Progress*100, u.Rows)
	case u.Progress == 1:
		log.Printf("indexed %d rows", u.Rows)
	}
}

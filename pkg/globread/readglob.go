// Package globread expands glob patterns into a stream of virtual files.
//
// ReadGlob delivers files on a channel and reads them in parallel;
// ReadGlobSync is a lazy iterator that does all of its work on the caller's
// goroutine. Both accept the same options and yield the same files, in an
// order that is not guaranteed.
//
//	for f, err := range globread.ReadGlobSync([]string{"src/**/*.md"}, globread.Encoding("utf8")) {
//		if err != nil {
//			return err
//		}
//		fmt.Println(f.Path(), f.Matter()["title"])
//	}
package globread

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/harrison/globreader/pkg/vfile"
)

// Result is one item of a ReadGlob stream. Exactly one of File and Err is
// set.
type Result struct {
	File *vfile.File
	Err  error
}

// ReadGlob scans the patterns in the background and streams matched files.
// Paths are expanded by one goroutine while up to Concurrency goroutines
// read content. The channel is closed when the scan finishes, fails or ctx
// is cancelled. A failure is delivered as the last Result. Callers that
// stop receiving early must cancel ctx.
func ReadGlob(ctx context.Context, patterns []string, opts ...Option) <-chan Result {
	out := make(chan Result)

	go func() {
		defer close(out)

		c, err := resolve(patterns, opts)
		if err != nil {
			send(ctx, out, Result{Err: err})
			return
		}

		g, gctx := errgroup.WithContext(ctx)
		paths := make(chan string)

		g.Go(func() error {
			defer close(paths)
			return c.walk(gctx, func(rel string) error {
				select {
				case paths <- rel:
					return nil
				case <-gctx.Done():
					return gctx.Err()
				}
			})
		})

		for range c.Concurrency {
			g.Go(func() error {
				for rel := range paths {
					f, err := c.load(rel)
					if err != nil {
						return err
					}
					c.debugf("globread: loaded %s (%s)", rel, f.Size())
					select {
					case out <- Result{File: f}:
					case <-gctx.Done():
						return gctx.Err()
					}
				}
				return nil
			})
		}

		if err := g.Wait(); err != nil && ctx.Err() == nil {
			send(ctx, out, Result{Err: err})
		}
	}()

	return out
}

func send(ctx context.Context, out chan<- Result, r Result) {
	select {
	case out <- r:
	case <-ctx.Done():
	}
}

package globread

import (
	"context"
	"errors"
	"iter"

	"github.com/harrison/globreader/pkg/vfile"
)

// ReadGlobSync returns a lazy iterator over the files matching patterns.
// Each file is read when the loop asks for it, and breaking out of the loop
// stops the expansion. An error is yielded once, with a nil file, and ends
// the sequence.
func ReadGlobSync(patterns []string, opts ...Option) iter.Seq2[*vfile.File, error] {
	return func(yield func(*vfile.File, error) bool) {
		c, err := resolve(patterns, opts)
		if err != nil {
			yield(nil, err)
			return
		}

		err = c.walk(context.Background(), func(rel string) error {
			f, err := c.load(rel)
			if err != nil {
				yield(nil, err)
				return errStopWalk
			}
			if !yield(f, nil) {
				return errStopWalk
			}
			return nil
		})
		if err != nil && !errors.Is(err, errStopWalk) {
			yield(nil, err)
		}
	}
}

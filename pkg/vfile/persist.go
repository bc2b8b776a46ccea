package vfile

import (
	"context"
	"fmt"

	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"
)

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// Write commits the file and its companions. The parent directory is created
// first, then the artifacts are written concurrently. Write waits for every
// artifact and returns the first failure. Dry files return nil.
func (f *File) Write(ctx context.Context) error {
	if f.Dry {
		return nil
	}
	actions, err := PlanWrite(f.Snapshot())
	if err != nil {
		return err
	}
	if err := applyConcurrent(ctx, f.FS(), actions); err != nil {
		return err
	}
	f.Stored = true
	return nil
}

// WriteSync is the sequential form of Write.
func (f *File) WriteSync() error {
	if f.Dry {
		return nil
	}
	actions, err := PlanWrite(f.Snapshot())
	if err != nil {
		return err
	}
	if err := applySequential(f.FS(), actions); err != nil {
		return err
	}
	f.Stored = true
	return nil
}

// Delete removes the file and its companions concurrently. Missing artifacts
// are reported as errors wrapping fs.ErrNotExist. Dry files return nil.
func (f *File) Delete(ctx context.Context) error {
	if f.Dry {
		return nil
	}
	actions, err := PlanDelete(f.Snapshot())
	if err != nil {
		return err
	}
	if err := applyConcurrent(ctx, f.FS(), actions); err != nil {
		return err
	}
	f.Stored = false
	return nil
}

// DeleteSync is the sequential form of Delete.
func (f *File) DeleteSync() error {
	if f.Dry {
		return nil
	}
	actions, err := PlanDelete(f.Snapshot())
	if err != nil {
		return err
	}
	if err := applySequential(f.FS(), actions); err != nil {
		return err
	}
	f.Stored = false
	return nil
}

func applySequential(fsys afero.Fs, actions []Action) error {
	for _, a := range actions {
		if err := apply(fsys, a); err != nil {
			return err
		}
	}
	return nil
}

// applyConcurrent runs directory creation before anything else, then fans
// out the remaining actions. Every started action is awaited.
func applyConcurrent(ctx context.Context, fsys afero.Fs, actions []Action) error {
	rest := actions[:0:0]
	for _, a := range actions {
		if a.Kind != ActionMkdir {
			rest = append(rest, a)
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := apply(fsys, a); err != nil {
			return err
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, a := range rest {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return apply(fsys, a)
		})
	}
	return g.Wait()
}

func apply(fsys afero.Fs, a Action) error {
	switch a.Kind {
	case ActionMkdir:
		return fsys.MkdirAll(a.Path, dirPerm)
	case ActionWrite:
		return afero.WriteFile(fsys, a.Path, a.Data, filePerm)
	case ActionRemove:
		return fsys.Remove(a.Path)
	default:
		return fmt.Errorf("vfile: unknown action %s", a.Kind)
	}
}

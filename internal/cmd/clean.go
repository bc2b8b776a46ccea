package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/harrison/globreader/internal/filelock"
	"github.com/harrison/globreader/internal/logger"
	"github.com/harrison/globreader/pkg/globread"
	"github.com/harrison/globreader/pkg/vfile"
)

// NewCleanCommand creates the clean command
func NewCleanCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean <pattern>...",
		Short: "Delete matched files",
		Long: `Delete every file matched by the given patterns.

With --maps the .map companion of each file is removed too, and with --min
its .min rendition. Companions that do not exist are left alone. Every
failure is reported; one failing file does not stop the others.

Examples:
  globreader clean "dist/**/*.html" --maps --min
  globreader clean "**/*.tmp" --dry-run`,
		Args: cobra.MinimumNArgs(1),
		RunE: runClean,
	}

	cmd.Flags().Bool("maps", false, "Also delete .map companions")
	cmd.Flags().Bool("min", false, "Also delete .min companions")

	return cmd
}

func runClean(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd, true)
	if err != nil {
		return err
	}

	maps, _ := cmd.Flags().GetBool("maps")
	mins, _ := cmd.Flags().GetBool("min")

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if !s.cfg.DryRun {
		if _, err := os.Stat(s.outDir()); err == nil {
			lock := filelock.NewFileLock(filepath.Join(s.outDir(), filelock.LockFileName))
			if err := lock.TryLock(); err != nil {
				return fmt.Errorf("a build is writing to %s: %w", s.outDir(), err)
			}
			defer lock.Unlock()
		}
	}

	// Content is never needed, so the scan itself is always dry.
	opts, err := s.scanOptions(args, globread.WithDry(true), globread.WithIgnore("**/"+filelock.LockFileName))
	if err != nil {
		return err
	}

	var files []*vfile.File
	for f, err := range globread.ReadGlobSync(args, opts...) {
		if err != nil {
			s.close(logger.Summary{Failed: 1})
			return err
		}
		files = append(files, f)
	}

	var (
		summary = logger.Summary{Matched: len(files)}
		mu      sync.Mutex
		errs    *multierror.Error
	)

	g, gctx := errgroup.WithContext(ctx)
	limit := s.cfg.Concurrency
	if limit < 1 {
		limit = len(files) + 1
	}
	g.SetLimit(limit)

	claimed := make(map[string]bool, len(files))
	for _, f := range files {
		claimed[fullPath(f)] = true
	}

	for _, f := range files {
		f.Dry = s.cfg.DryRun
		attachCompanions(s.fs, f, claimed, maps, mins)
		g.Go(func() error {
			err := f.Delete(gctx)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				summary.Failed++
				errs = multierror.Append(errs, fmt.Errorf("%s: %w", f.Path(), err))
				s.log.LogFile(logger.FileEvent{Action: logger.ActionFailed, Path: f.Path(), Err: err})
				return nil
			}
			summary.Deleted++
			s.log.LogFile(logger.FileEvent{Action: logger.ActionDeleted, Path: f.Path(), Dry: f.Dry})
			return nil
		})
	}
	_ = g.Wait()

	s.close(summary)
	return errs.ErrorOrNil()
}

// attachCompanions marks the companions of f that exist on disk so Delete
// removes them along with the file. Paths already in claimed (matched files
// and companions attached to other files) are skipped; attached companions
// are added to it.
func attachCompanions(fsys afero.Fs, f *vfile.File, claimed map[string]bool, maps, mins bool) {
	exists := func(p string) bool {
		if claimed[p] {
			return false
		}
		ok, err := afero.Exists(fsys, filepath.FromSlash(p))
		if ok && err == nil {
			claimed[p] = true
			return true
		}
		return false
	}

	full := fullPath(f)
	if maps && exists(vfile.MapPath(full)) {
		f.Map = &vfile.SourceMap{}
	}
	if !mins {
		return
	}
	minPath := vfile.MinPath(full)
	var companion vfile.Min
	if exists(minPath) {
		companion.Code = "-"
	}
	if maps && exists(vfile.MapPath(minPath)) {
		companion.Map = &vfile.SourceMap{}
	}
	if companion.Code != "" || companion.Map != nil {
		f.Min = &companion
	}
}

// fullPath returns the absolute slash path of f.
func fullPath(f *vfile.File) string {
	return filepath.ToSlash(filepath.Join(f.Cwd, filepath.FromSlash(f.Path())))
}

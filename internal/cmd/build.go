package cmd

import (
	"context"
	"errors"
	"fmt"
	"path"
	"path/filepath"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"

	"github.com/harrison/globreader/internal/filelock"
	"github.com/harrison/globreader/internal/logger"
	"github.com/harrison/globreader/internal/render"
	"github.com/harrison/globreader/pkg/check"
	"github.com/harrison/globreader/pkg/globread"
	"github.com/harrison/globreader/pkg/rename"
	"github.com/harrison/globreader/pkg/vfile"
)

// markdown selects the files build renders.
var markdown = check.Any{check.Ext(".md"), check.Ext(".markdown")}

// NewBuildCommand creates the build command
func NewBuildCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build <pattern>...",
		Short: "Render matched markdown files to HTML",
		Long: `Render every matched markdown file to HTML in the output directory,
keeping its directory layout relative to the scan root.

Frontmatter is stripped before rendering; a "title" key names the page.
Files that are not markdown are skipped. The output directory is locked
for the duration of the build so concurrent builds cannot interleave.

Examples:
  globreader build "**/*.md"
  globreader build "docs/**/*.md" --out public --ext .htm --minify --source-maps`,
		Args: cobra.MinimumNArgs(1),
		RunE: runBuild,
	}

	cmd.Flags().String("out", "", "Output directory (default from config: dist)")
	cmd.Flags().String("ext", "", "Extension of rendered files (default from config: .html)")
	cmd.Flags().Bool("minify", false, "Also write a minified .min companion")
	cmd.Flags().Bool("source-maps", false, "Also write .map companions")

	return cmd
}

func runBuild(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd, true)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("ext") {
		s.cfg.Build.Ext, _ = flags.GetString("ext")
		if err := s.cfg.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
	}
	if flags.Changed("minify") {
		s.cfg.Build.Minify, _ = flags.GetBool("minify")
	}
	if flags.Changed("source-maps") {
		s.cfg.Build.SourceMaps, _ = flags.GetBool("source-maps")
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	b := &builder{session: s, renderer: render.NewRenderer(), out: s.outDir()}

	if !s.cfg.DryRun {
		lock, err := filelock.ForDir(b.out)
		if err != nil {
			return err
		}
		if err := lock.TryLock(); err != nil {
			if errors.Is(err, filelock.ErrLocked) {
				return fmt.Errorf("another build is writing to %s: %w", b.out, err)
			}
			return err
		}
		defer lock.Unlock()
	}

	extra := []globread.Option{globread.WithStripMatter(true), globread.WithIgnore("**/" + filelock.LockFileName)}
	if ig := s.ignoreOutDir(); ig != "" {
		extra = append(extra, globread.WithIgnore(ig))
	}
	opts, err := s.scanOptions(args, extra...)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		summary logger.Summary
		errs    *multierror.Error
	)
	for res := range globread.ReadGlob(ctx, args, opts...) {
		if res.Err != nil {
			summary.Failed++
			s.log.LogError(fmt.Sprintf("scan failed: %v", res.Err))
			errs = multierror.Append(errs, res.Err)
			continue
		}
		summary.Matched++
		f := res.File

		if !f.Is(markdown) {
			s.log.LogFile(logger.FileEvent{Action: logger.ActionSkipped, Path: f.Path()})
			continue
		}

		source := f.Path()
		if err := b.build(ctx, f); err != nil {
			summary.Failed++
			s.log.LogFile(logger.FileEvent{Action: logger.ActionFailed, Path: source, Err: err})
			errs = multierror.Append(errs, fmt.Errorf("%s: %w", source, err))
			continue
		}
		summary.Written++
		summary.Bytes += int64(f.Bytes())
		s.log.LogFile(logger.FileEvent{Action: logger.ActionWritten, Path: f.Path(), Bytes: f.Bytes(), Dry: f.Dry})
	}

	s.close(summary)
	return errs.ErrorOrNil()
}

type builder struct {
	*session
	renderer *render.Renderer
	out      string
}

// build renders f and writes it, with its companions, into the output
// directory.
func (b *builder) build(ctx context.Context, f *vfile.File) error {
	sourcePath := filepath.Join(f.Cwd, filepath.FromSlash(f.Path()))
	original := f.Value

	doc, err := b.renderer.RenderFile(f)
	if err != nil {
		return err
	}
	f.SetString(string(doc))

	target := rename.Spec{
		Dirname: rename.To(path.Join(filepath.ToSlash(b.out), f.Dirname())),
		Extname: rename.To(b.cfg.Build.Ext),
	}
	if err := f.Rename(target); err != nil {
		return fmt.Errorf("failed to compute output path: %w", err)
	}

	if b.cfg.Build.SourceMaps {
		f.Map = render.SourceMap(f.Basename(), sourceFrom(f.Path(), sourcePath), original)
	}
	if b.cfg.Build.Minify {
		f.Min = &vfile.Min{Code: render.Minify(doc)}
		if b.cfg.Build.SourceMaps {
			minPath := vfile.MinPath(f.Path())
			f.Min.Map = render.SourceMap(path.Base(minPath), sourceFrom(minPath, sourcePath), original)
		}
	}

	return f.Write(ctx)
}

// sourceFrom returns the slash path of source relative to the directory of
// the generated file, falling back to source itself.
func sourceFrom(generated, source string) string {
	rel, err := filepath.Rel(filepath.Dir(filepath.FromSlash(generated)), source)
	if err != nil {
		return filepath.ToSlash(source)
	}
	return filepath.ToSlash(rel)
}

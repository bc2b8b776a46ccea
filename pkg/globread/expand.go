package globread

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/afero"

	"github.com/harrison/globreader/pkg/vfile"
)

// errStopWalk ends a walk early without surfacing an error.
var errStopWalk = errors.New("globread: stop walk")

// walk expands every pattern and calls fn once per matched file. Paths are
// slash separated and relative to Cwd; files outside Cwd are reached through
// ".." segments, or keep their absolute path when no relative path exists. A
// path matched by several patterns is reported once.
func (c *config) walk(ctx context.Context, fn func(rel string) error) error {
	seen := make(map[string]struct{})

	for _, pattern := range c.patterns {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("globread: pattern %q: %w", pattern, doublestar.ErrBadPattern)
		}
		base, glob := c.split(pattern)
		glob = c.fold(glob)
		c.debugf("globread: expanding %s in %s", glob, base)

		fsys := afero.NewIOFS(afero.NewBasePathFs(c.FS, base))
		err := doublestar.GlobWalk(fsys, glob, func(match string, _ fs.DirEntry) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if !c.Dot && !dotMatch(glob, match) {
				return nil
			}
			rel := c.relative(base, match)
			if _, dup := seen[rel]; dup {
				return nil
			}
			seen[rel] = struct{}{}
			if c.ignored(rel) {
				c.debugf("globread: ignoring %s", rel)
				return nil
			}
			return fn(rel)
		}, doublestar.WithFilesOnly())
		if err != nil {
			return err
		}
	}
	return nil
}

// split returns the directory a pattern is walked from and the pattern
// relative to it. Patterns inside Cwd walk from the root; absolute and
// parent-relative patterns walk from their literal leading directories.
func (c *config) split(pattern string) (base, glob string) {
	if !outsidePattern(pattern) {
		return c.root, pattern
	}
	base, glob = doublestar.SplitPattern(c.absPattern(pattern))
	return filepath.FromSlash(base), glob
}

// relative returns the slash path of base/match relative to the root.
func (c *config) relative(base, match string) string {
	full := filepath.Join(base, filepath.FromSlash(match))
	rel, err := filepath.Rel(c.root, full)
	if err != nil {
		return filepath.ToSlash(full)
	}
	return filepath.ToSlash(rel)
}

// ignored reports whether rel or one of its parent directories matches an
// ignore pattern.
func (c *config) ignored(rel string) bool {
	if len(c.ignore) == 0 {
		return false
	}
	for p := rel; p != "." && p != "/" && p != ""; p = path.Dir(p) {
		for _, ig := range c.ignore {
			if doublestar.MatchUnvalidated(ig, p) {
				return true
			}
		}
	}
	return false
}

// abs returns the filesystem path of a matched file.
func (c *config) abs(rel string) string {
	native := filepath.FromSlash(rel)
	if filepath.IsAbs(native) {
		return native
	}
	return filepath.Join(c.root, native)
}

// load builds the file for a matched path. Dry scans never touch the
// filesystem.
func (c *config) load(rel string) (*vfile.File, error) {
	if c.Dry {
		return c.newFile(rel, []byte(""), map[string]any{}), nil
	}

	full := c.abs(rel)
	raw, err := afero.ReadFile(c.FS, full)
	if err != nil {
		return nil, err
	}
	value, err := c.decoder.apply(raw)
	if err != nil {
		return nil, fmt.Errorf("globread: decode %s as %s: %w", rel, c.decoder.name, err)
	}

	var stat any = map[string]any{}
	if c.FsStats {
		info, err := c.FS.Stat(full)
		if err != nil {
			return nil, err
		}
		stat = info
	}
	return c.newFile(rel, value, stat), nil
}

func (c *config) newFile(rel string, value []byte, stat any) *vfile.File {
	return vfile.New(vfile.Options{
		Cwd:         c.Cwd,
		Path:        rel,
		Value:       value,
		Encoding:    c.decoder.name,
		Data:        map[string]any{"stat": stat},
		Dry:         c.Dry,
		StripMatter: c.StripMatter,
		FS:          c.FS,
	})
}

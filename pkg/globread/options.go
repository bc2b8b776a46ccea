package globread

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/afero"
)

// ErrNoPatterns is returned when a scan is started without any pattern.
var ErrNoPatterns = errors.New("globread: at least one pattern is required")

// Logger receives debug output from a scan.
type Logger interface {
	Debugf(format string, args ...interface{})
}

// Options configures a scan.
type Options struct {
	// Cwd is the directory patterns are relative to. Defaults to the
	// working directory. Files carry the value as given; relative values
	// resolve against the working directory for I/O.
	Cwd string
	// Ignore holds doublestar patterns excluded from the results.
	Ignore []string
	// Dot lets wildcards match names starting with a dot. Without it a
	// hidden file or directory is only matched when the pattern spells out
	// the leading dot.
	Dot bool
	// CaseInsensitive matches letters regardless of case.
	CaseInsensitive bool
	// Encoding decodes file content into text. Empty keeps raw bytes.
	Encoding string
	// FsStats attaches the file's fs.FileInfo under Data["stat"].
	// Ignored when Dry is set.
	FsStats bool
	// Dry skips every read and stat. Files carry an empty value.
	Dry bool
	// StripMatter removes frontmatter from the loaded value.
	StripMatter bool
	// Concurrency bounds the number of files read at once by ReadGlob.
	// Defaults to runtime.NumCPU().
	Concurrency int
	// FS is the filesystem to scan. Defaults to the OS.
	FS afero.Fs
	// Logger receives debug output. Nil disables logging.
	Logger Logger
}

// Option mutates Options.
type Option func(*Options)

// Encoding selects the text encoding used to decode file content.
func Encoding(name string) Option {
	return func(o *Options) {
		o.Encoding = name
	}
}

// WithOptions replaces every non-zero field of the current options with the
// value from opts.
func WithOptions(opts Options) Option {
	return func(o *Options) {
		if opts.Cwd != "" {
			o.Cwd = opts.Cwd
		}
		if opts.Ignore != nil {
			o.Ignore = append([]string(nil), opts.Ignore...)
		}
		if opts.Encoding != "" {
			o.Encoding = opts.Encoding
		}
		if opts.Concurrency > 0 {
			o.Concurrency = opts.Concurrency
		}
		if opts.FS != nil {
			o.FS = opts.FS
		}
		if opts.Logger != nil {
			o.Logger = opts.Logger
		}
		o.FsStats = o.FsStats || opts.FsStats
		o.Dot = o.Dot || opts.Dot
		o.CaseInsensitive = o.CaseInsensitive || opts.CaseInsensitive
		o.Dry = o.Dry || opts.Dry
		o.StripMatter = o.StripMatter || opts.StripMatter
	}
}

// WithCwd sets the scan root.
func WithCwd(cwd string) Option {
	return func(o *Options) {
		o.Cwd = cwd
	}
}

// WithIgnore adds patterns to exclude.
func WithIgnore(patterns ...string) Option {
	return func(o *Options) {
		o.Ignore = append(o.Ignore, patterns...)
	}
}

// WithDot lets wildcards match hidden files and directories.
func WithDot(enabled bool) Option {
	return func(o *Options) {
		o.Dot = enabled
	}
}

// WithCaseInsensitive matches patterns regardless of letter case.
func WithCaseInsensitive(enabled bool) Option {
	return func(o *Options) {
		o.CaseInsensitive = enabled
	}
}

// WithFsStats attaches stat metadata to each file.
func WithFsStats(enabled bool) Option {
	return func(o *Options) {
		o.FsStats = enabled
	}
}

// WithDry enables dry mode.
func WithDry(enabled bool) Option {
	return func(o *Options) {
		o.Dry = enabled
	}
}

// WithStripMatter removes frontmatter from loaded values.
func WithStripMatter(enabled bool) Option {
	return func(o *Options) {
		o.StripMatter = enabled
	}
}

// WithConcurrency bounds parallel reads in ReadGlob. Values below 1 reset to
// the default.
func WithConcurrency(n int) Option {
	return func(o *Options) {
		o.Concurrency = n
	}
}

// WithFS scans fsys instead of the OS filesystem.
func WithFS(fsys afero.Fs) Option {
	return func(o *Options) {
		o.FS = fsys
	}
}

// WithLogger sets the debug logger.
func WithLogger(l Logger) Option {
	return func(o *Options) {
		o.Logger = l
	}
}

// config is the resolved form of Options shared by both scanners.
type config struct {
	Options
	// root is Cwd made absolute.
	root     string
	patterns []string
	ignore   []string
	decoder  decoder
}

func resolve(patterns []string, opts []Option) (*config, error) {
	var o Options
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	if o.Cwd == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("globread: resolve working directory: %w", err)
		}
		o.Cwd = wd
	}
	root, err := filepath.Abs(o.Cwd)
	if err != nil {
		return nil, fmt.Errorf("globread: resolve cwd %q: %w", o.Cwd, err)
	}
	if o.Concurrency < 1 {
		o.Concurrency = runtime.NumCPU()
	}
	if o.FS == nil {
		o.FS = afero.NewOsFs()
	}

	dec, err := lookupDecoder(o.Encoding)
	if err != nil {
		return nil, err
	}

	c := &config{Options: o, root: root, decoder: dec}
	for _, p := range patterns {
		if neg, ok := strings.CutPrefix(p, "!"); ok {
			c.ignore = append(c.ignore, cleanPattern(neg))
			continue
		}
		if p = cleanPattern(p); p != "" {
			c.patterns = append(c.patterns, p)
		}
	}
	for _, p := range o.Ignore {
		c.ignore = append(c.ignore, cleanPattern(p))
	}
	for i, p := range c.ignore {
		c.ignore[i] = c.fold(c.relativeIgnore(p))
	}
	if len(c.patterns) == 0 {
		return nil, ErrNoPatterns
	}
	return c, nil
}

// Validate resolves the options and checks pattern syntax without scanning.
func Validate(patterns []string, opts ...Option) error {
	c, err := resolve(patterns, opts)
	if err != nil {
		return err
	}
	for _, p := range append(append([]string(nil), c.patterns...), c.ignore...) {
		if !doublestar.ValidatePattern(p) {
			return fmt.Errorf("globread: pattern %q: %w", p, doublestar.ErrBadPattern)
		}
	}
	return nil
}

func (c *config) debugf(format string, args ...interface{}) {
	if c.Logger != nil {
		c.Logger.Debugf(format, args...)
	}
}

// relativeIgnore rewrites an absolute or parent-relative ignore pattern
// relative to the scan root, the form matched paths are reported in.
func (c *config) relativeIgnore(p string) string {
	if !outsidePattern(p) {
		return p
	}
	rel, err := filepath.Rel(c.root, filepath.FromSlash(c.absPattern(p)))
	if err != nil {
		return p
	}
	return filepath.ToSlash(rel)
}

// outsidePattern reports whether p is absolute or climbs above the scan root
// with a ".." segment.
func outsidePattern(p string) bool {
	if path.IsAbs(p) || filepath.IsAbs(filepath.FromSlash(p)) {
		return true
	}
	for _, seg := range strings.Split(p, "/") {
		if seg == ".." {
			return true
		}
	}
	return false
}

// absPattern joins p onto the scan root and cleans it.
func (c *config) absPattern(p string) string {
	if path.IsAbs(p) || filepath.IsAbs(filepath.FromSlash(p)) {
		return path.Clean(p)
	}
	return path.Join(filepath.ToSlash(c.root), p)
}

func cleanPattern(p string) string {
	p = filepath.ToSlash(p)
	for strings.HasPrefix(p, "./") {
		p = p[2:]
	}
	return p
}

package vfile

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/harrison/globreader/pkg/matter"
	"github.com/harrison/globreader/pkg/message"
	"github.com/harrison/globreader/pkg/rename"
)

// ErrEmptyPath is returned when assigning an empty path.
var ErrEmptyPath = fmt.Errorf("vfile: path cannot be empty: %w", fs.ErrInvalid)

// ErrNotFileURL is returned by FromURL for URLs without the file scheme.
var ErrNotFileURL = errors.New("vfile: URL must use the file scheme")

// File is a virtual file. The zero value is not usable; use New or one of
// the From* constructors.
type File struct {
	// Cwd is the base directory the path resolves against.
	Cwd string
	// Value is the content. nil means no value has been set.
	Value []byte
	// Encoding names the text encoding Value was decoded from; empty means
	// the value is raw bytes.
	Encoding string
	// Data holds arbitrary metadata. Data["matter"] is populated on
	// construction and is always a matter.Matter.
	Data map[string]any
	// Messages are the diagnostics recorded on the file.
	Messages []*message.Message
	// Map is the source map of Value.
	Map *SourceMap
	// Min is the minified rendition of Value.
	Min *Min
	// Dry turns every persistence call into a no-op.
	Dry bool
	// Stored is true after a successful write and false after a delete.
	Stored bool
	// Extra carries caller-defined attributes that have no dedicated field.
	Extra map[string]any

	history []string
	fsys    afero.Fs
}

// Options configures New. Path components are applied in the order
// History, Path, Basename, Stem, Extname, Dirname; components that cannot
// be applied (such as Extname on a file without any path) are skipped.
type Options struct {
	Cwd      string
	History  []string
	Path     string
	Basename string
	Stem     string
	Extname  string
	Dirname  string

	Value    []byte
	Encoding string
	Data     map[string]any
	Map      *SourceMap
	Min      *Min
	Dry      bool
	Extra    map[string]any

	// StripMatter removes the parsed frontmatter block from Value.
	StripMatter bool
	// FS is the filesystem used by Write and Delete. Defaults to the OS.
	FS afero.Fs
}

// New creates a file from options. It never fails.
func New(opts Options) *File {
	f := &File{
		Cwd:      opts.Cwd,
		Value:    opts.Value,
		Encoding: opts.Encoding,
		Data:     make(map[string]any, len(opts.Data)+1),
		Map:      opts.Map,
		Min:      opts.Min,
		Dry:      opts.Dry,
		fsys:     opts.FS,
	}
	if f.Cwd == "" {
		f.Cwd = workingDir()
	}

	if len(opts.History) > 0 {
		f.history = append([]string(nil), opts.History...)
	}
	if opts.Path != "" {
		_ = f.SetPath(opts.Path)
	}
	if opts.Basename != "" {
		_ = f.SetBasename(opts.Basename)
	}
	if opts.Stem != "" {
		_ = f.SetStem(opts.Stem)
	}
	if opts.Extname != "" {
		_ = f.SetExtname(opts.Extname)
	}
	if opts.Dirname != "" {
		_ = f.SetDirname(opts.Dirname)
	}

	for k, v := range opts.Data {
		f.Data[k] = v
	}
	if len(opts.Extra) > 0 {
		f.Extra = make(map[string]any, len(opts.Extra))
		for k, v := range opts.Extra {
			f.Extra[k] = v
		}
	}

	f.parseMatter(opts.StripMatter)
	return f
}

// Empty creates a file with no path and no value.
func Empty() *File {
	return New(Options{})
}

// FromString creates a file holding text content and no path.
func FromString(s string) *File {
	return New(Options{Value: []byte(s), Encoding: "utf8"})
}

// FromBytes creates a file holding binary content and no path.
func FromBytes(b []byte) *File {
	if b == nil {
		b = []byte{}
	}
	return New(Options{Value: b})
}

// FromURL creates a file located at a file:// URL.
func FromURL(u *url.URL) (*File, error) {
	if u == nil || u.Scheme != "file" {
		return nil, ErrNotFileURL
	}
	p := u.Path
	if p == "" {
		p = u.Opaque
	}
	if p == "" {
		return nil, fmt.Errorf("%w: %s", ErrEmptyPath, u)
	}
	return New(Options{Path: filepath.ToSlash(p)}), nil
}

// Clone returns an independent copy. Slices and maps are copied so that
// mutating the clone never affects f. Frontmatter is not parsed again.
func (f *File) Clone() *File {
	c := &File{
		Cwd:      f.Cwd,
		Encoding: f.Encoding,
		Dry:      f.Dry,
		Stored:   f.Stored,
		Data:     cloneMap(f.Data),
		Extra:    cloneMap(f.Extra),
		Map:      f.Map.clone(),
		Min:      f.Min.clone(),
		history:  append([]string(nil), f.history...),
		fsys:     f.fsys,
	}
	if f.Value != nil {
		c.Value = append([]byte{}, f.Value...)
	}
	if len(f.Messages) > 0 {
		c.Messages = make([]*message.Message, len(f.Messages))
		for i, m := range f.Messages {
			cp := *m
			c.Messages[i] = &cp
		}
	}
	return c
}

// parseMatter runs frontmatter extraction against the current value.
func (f *File) parseMatter(strip bool) {
	res := matter.Parse(f.Value, strip)
	f.Data["matter"] = res.Matter
	if res.Stripped {
		f.Value = res.Body
	}
}

// Matter returns the parsed frontmatter.
func (f *File) Matter() matter.Matter {
	if m, ok := f.Data["matter"].(matter.Matter); ok {
		return m
	}
	return matter.Matter{}
}

// Stat returns the filesystem stat attached by the scanner, if any.
func (f *File) Stat() (fs.FileInfo, bool) {
	info, ok := f.Data["stat"].(fs.FileInfo)
	return info, ok
}

// String returns the value as text.
func (f *File) String() string {
	return string(f.Value)
}

// SetString replaces the value with text.
func (f *File) SetString(s string) {
	f.Value = []byte(s)
	f.Encoding = "utf8"
}

// SetBytes replaces the value with raw bytes.
func (f *File) SetBytes(b []byte) {
	f.Value = b
	f.Encoding = ""
}

// FS returns the filesystem used for persistence.
func (f *File) FS() afero.Fs {
	if f.fsys == nil {
		return afero.NewOsFs()
	}
	return f.fsys
}

// SetFS replaces the filesystem used for persistence.
func (f *File) SetFS(fsys afero.Fs) {
	f.fsys = fsys
}

// Path returns the current path, or "" when none has been set.
func (f *File) Path() string {
	if len(f.history) == 0 {
		return ""
	}
	return f.history[len(f.history)-1]
}

// HasPath reports whether a path has been assigned.
func (f *File) HasPath() bool {
	return len(f.history) > 0
}

// History returns every path the file has held, oldest first.
func (f *File) History() []string {
	return append([]string(nil), f.history...)
}

// SetPath moves the file. The history only grows when p differs from the
// current path.
func (f *File) SetPath(p string) error {
	if p == "" {
		return ErrEmptyPath
	}
	if p != f.Path() {
		f.history = append(f.history, p)
	}
	return nil
}

// Dirname returns the directory of the current path.
func (f *File) Dirname() string { return rename.Dirname(f.Path()) }

// Basename returns the last element of the current path.
func (f *File) Basename() string { return rename.Basename(f.Path()) }

// Stem returns the basename without its extension.
func (f *File) Stem() string { return rename.Stem(f.Path()) }

// Extname returns the extension of the current path, including the dot.
func (f *File) Extname() string { return rename.Extname(f.Path()) }

// SetDirname moves the file to another directory. Requires a path.
func (f *File) SetDirname(dirname string) error {
	p, err := rename.WithDirname(f.Path(), dirname)
	if err != nil {
		return err
	}
	return f.SetPath(p)
}

// SetBasename replaces the last path element.
func (f *File) SetBasename(basename string) error {
	p, err := rename.WithBasename(f.Path(), basename)
	if err != nil {
		return err
	}
	return f.SetPath(p)
}

// SetStem replaces the basename while keeping the extension.
func (f *File) SetStem(stem string) error {
	p, err := rename.WithStem(f.Path(), stem)
	if err != nil {
		return err
	}
	return f.SetPath(p)
}

// SetExtname replaces the extension. Requires a path.
func (f *File) SetExtname(extname string) error {
	p, err := rename.WithExtname(f.Path(), extname)
	if err != nil {
		return err
	}
	return f.SetPath(p)
}

// Field exposes named attributes to checks.
func (f *File) Field(name string) (any, bool) {
	switch name {
	case "path":
		return f.Path(), f.HasPath()
	case "dirname":
		return f.Dirname(), f.HasPath()
	case "basename":
		return f.Basename(), f.HasPath()
	case "stem":
		return f.Stem(), f.HasPath()
	case "extname":
		return f.Extname(), f.HasPath()
	case "cwd":
		return f.Cwd, true
	case "missing":
		return !f.HasPath(), true
	case "dry":
		return f.Dry, true
	case "stored":
		return f.Stored, true
	case "value":
		return f.String(), f.Value != nil
	}
	v, ok := f.Extra[name]
	return v, ok
}

func workingDir() string {
	wd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return wd
}

func cloneMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return cloneMap(val)
	case matter.Matter:
		return matter.Matter(cloneMap(val))
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = cloneValue(item)
		}
		return out
	case []byte:
		return append([]byte{}, val...)
	default:
		return v
	}
}

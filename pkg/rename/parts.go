package rename

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"
)

var (
	// ErrEmptyPart is returned when a basename or stem would become empty.
	ErrEmptyPart = fmt.Errorf("rename: part cannot be empty: %w", fs.ErrInvalid)
	// ErrPathPart is returned when a basename, stem or extname contains a separator.
	ErrPathPart = fmt.Errorf("rename: part cannot be a path: %w", fs.ErrInvalid)
	// ErrExtname is returned for an extname that does not start with a dot
	// or contains more than one.
	ErrExtname = fmt.Errorf("rename: extname must be a single dot-prefixed suffix: %w", fs.ErrInvalid)
	// ErrNeedsPath is returned when dirname or extname is changed on a file
	// without a path.
	ErrNeedsPath = errors.New("rename: setting dirname or extname requires a path")
)

// Dirname returns the directory part of a slash path, "" when p is empty.
func Dirname(p string) string {
	if p == "" {
		return ""
	}
	return path.Dir(p)
}

// Basename returns the last element of a slash path, "" when p is empty.
func Basename(p string) string {
	if p == "" {
		return ""
	}
	return path.Base(p)
}

// Extname returns the extension of the basename including the dot. Dotfiles
// such as ".env" have no extension.
func Extname(p string) string {
	base := Basename(p)
	if base == "" || base == "." || base == ".." {
		return ""
	}
	i := strings.LastIndexByte(base, '.')
	if i <= 0 {
		return ""
	}
	return base[i:]
}

// Stem returns the basename without its extension.
func Stem(p string) string {
	return strings.TrimSuffix(Basename(p), Extname(p))
}

// WithDirname replaces the directory of p.
func WithDirname(p, dirname string) (string, error) {
	if p == "" {
		return "", ErrNeedsPath
	}
	return path.Join(dirname, Basename(p)), nil
}

// WithBasename replaces the last element of p. An empty p yields basename.
func WithBasename(p, basename string) (string, error) {
	if err := checkPart(basename); err != nil {
		return "", err
	}
	return path.Join(dirOf(p), basename), nil
}

// WithStem replaces the basename of p while keeping its extension.
func WithStem(p, stem string) (string, error) {
	if err := checkPart(stem); err != nil {
		return "", err
	}
	return path.Join(dirOf(p), stem+Extname(p)), nil
}

// WithExtname replaces the extension of p; "" removes it.
func WithExtname(p, extname string) (string, error) {
	if p == "" {
		return "", ErrNeedsPath
	}
	if extname != "" {
		if strings.ContainsAny(extname, `/\`) {
			return "", ErrPathPart
		}
		if extname[0] != '.' || strings.Contains(extname[1:], ".") {
			return "", ErrExtname
		}
	}
	return path.Join(Dirname(p), Stem(p)+extname), nil
}

func checkPart(part string) error {
	if part == "" {
		return ErrEmptyPart
	}
	if strings.ContainsAny(part, `/\`) {
		return ErrPathPart
	}
	return nil
}

func dirOf(p string) string {
	if p == "" {
		return ""
	}
	return path.Dir(p)
}

// Package rename computes new slash paths from a current path and a partial
// override of its components.
package rename

import (
	"fmt"
)

// Renames computes a new path from the current one.
type Renames interface {
	Apply(p string) (string, error)
}

// Apply runs r against p. A nil r returns p unchanged.
func Apply(p string, r Renames) (string, error) {
	if r == nil {
		return p, nil
	}
	return r.Apply(p)
}

// Part describes how one component changes: Value (when non-nil) replaces
// it, then Prefix and Suffix are added around the result.
type Part struct {
	Value  *string
	Prefix string
	Suffix string
}

// To returns a Part that replaces the component with v.
func To(v string) *Part {
	return &Part{Value: &v}
}

// Affix returns a Part that wraps the existing component.
func Affix(prefix, suffix string) *Part {
	return &Part{Prefix: prefix, Suffix: suffix}
}

func (p *Part) apply(current string) string {
	if p.Value != nil {
		current = *p.Value
	}
	return p.Prefix + current + p.Suffix
}

// Spec overrides any of the path components. Components are applied in the
// order path, dirname, basename, stem, extname; nil parts are left alone.
type Spec struct {
	Path     *Part
	Dirname  *Part
	Basename *Part
	Stem     *Part
	Extname  *Part
}

// Apply implements Renames.
func (s Spec) Apply(p string) (string, error) {
	var err error

	if s.Path != nil {
		p = s.Path.apply(p)
	}
	if s.Dirname != nil {
		if p, err = WithDirname(p, s.Dirname.apply(Dirname(p))); err != nil {
			return "", fmt.Errorf("dirname: %w", err)
		}
	}
	if s.Basename != nil {
		if p, err = WithBasename(p, s.Basename.apply(Basename(p))); err != nil {
			return "", fmt.Errorf("basename: %w", err)
		}
	}
	if s.Stem != nil {
		if p, err = WithStem(p, s.Stem.apply(Stem(p))); err != nil {
			return "", fmt.Errorf("stem: %w", err)
		}
	}
	if s.Extname != nil {
		if p, err = WithExtname(p, s.Extname.apply(Extname(p))); err != nil {
			return "", fmt.Errorf("extname: %w", err)
		}
	}

	return p, nil
}

// Parse turns a shorthand string into a Spec: a leading dot sets the
// extname, anything else replaces the whole path.
func Parse(s string) Spec {
	if len(s) > 0 && s[0] == '.' {
		return Spec{Extname: To(s)}
	}
	return Spec{Path: To(s)}
}

// Chain applies several renames in sequence.
type Chain []Renames

// Apply implements Renames.
func (c Chain) Apply(p string) (string, error) {
	var err error
	for _, r := range c {
		if p, err = Apply(p, r); err != nil {
			return "", err
		}
	}
	return p, nil
}

// Func adapts a function into Renames.
type Func func(p string) (string, error)

// Apply implements Renames.
func (f Func) Apply(p string) (string, error) {
	return f(p)
}

// Package check tests virtual files against extension, glob and field
// predicates.
package check

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Subject is anything a Check can inspect. Field returns the value of a
// named attribute (path, dirname, basename, stem, extname, missing, ...).
type Subject interface {
	Path() string
	Field(name string) (any, bool)
}

// Check is a predicate over a Subject.
type Check interface {
	Test(s Subject) bool
}

// Test runs c against s. A nil check always passes.
func Test(s Subject, c Check) bool {
	if c == nil {
		return true
	}
	return c.Test(s)
}

// Func adapts a plain function into a Check.
type Func func(s Subject) bool

// Test implements Check.
func (f Func) Test(s Subject) bool {
	return f(s)
}

// Ext matches files whose extname equals the value, e.g. ".md".
type Ext string

// Test implements Check.
func (e Ext) Test(s Subject) bool {
	v, _ := s.Field("extname")
	ext, _ := v.(string)
	return ext != "" && ext == string(e)
}

// Glob matches the file path against a doublestar pattern.
type Glob string

// Test implements Check. Files without a path never match.
func (g Glob) Test(s Subject) bool {
	p := cleanPath(s.Path())
	if p == "" {
		return false
	}
	ok, err := doublestar.Match(cleanPath(string(g)), p)
	return err == nil && ok
}

// Parse turns a string into a Check: a bare extension such as ".md" compares
// extnames, anything else is a glob. A leading "!" negates the rest.
func Parse(s string) Check {
	if rest, ok := strings.CutPrefix(s, "!"); ok && rest != "" {
		return Not{Check: Parse(rest)}
	}
	if strings.HasPrefix(s, ".") && !strings.ContainsAny(s, `*?[]{}/\`) {
		return Ext(s)
	}
	return Glob(s)
}

// Not passes when its check fails.
type Not struct {
	Check Check
}

// Test implements Check.
func (n Not) Test(s Subject) bool {
	return !Test(s, n.Check)
}

// Any passes when at least one of its checks passes.
type Any []Check

// Test implements Check.
func (a Any) Test(s Subject) bool {
	for _, c := range a {
		if Test(s, c) {
			return true
		}
	}
	return false
}

// All passes when every one of its checks passes.
type All []Check

// Test implements Check.
func (a All) Test(s Subject) bool {
	for _, c := range a {
		if !Test(s, c) {
			return false
		}
	}
	return true
}

// Fields passes when every named field satisfies its condition.
type Fields map[string]Condition

// Test implements Check.
func (f Fields) Test(s Subject) bool {
	for name, cond := range f {
		v, ok := s.Field(name)
		if !cond.Match(v, ok) {
			return false
		}
	}
	return true
}

// Condition is a test on a single field value.
type Condition interface {
	Match(v any, present bool) bool
}

// Equals requires a string field equal to the value.
type Equals string

// Match implements Condition.
func (e Equals) Match(v any, present bool) bool {
	str, ok := v.(string)
	return present && ok && str == string(e)
}

// Affix requires a string field with the given prefix and/or suffix.
type Affix struct {
	Prefix string
	Suffix string
}

// Match implements Condition.
func (a Affix) Match(v any, present bool) bool {
	str, ok := v.(string)
	if !present || !ok || str == "" {
		return false
	}
	return strings.HasPrefix(str, a.Prefix) && strings.HasSuffix(str, a.Suffix)
}

// Truthy requires the field to be truthy (true) or falsy (false).
type Truthy bool

// Match implements Condition.
func (t Truthy) Match(v any, present bool) bool {
	return isTruthy(v, present) == bool(t)
}

func isTruthy(v any, present bool) bool {
	if !present || v == nil {
		return false
	}
	switch val := v.(type) {
	case bool:
		return val
	case string:
		return val != ""
	case int:
		return val != 0
	case int64:
		return val != 0
	case float64:
		return val != 0
	case []byte:
		return len(val) > 0
	default:
		return true
	}
}

// From converts a loosely typed value (as decoded from YAML or JSON) into a
// Check. Accepted shapes: nil, string, Check, []any / []string (any-of),
// and map[string]any of field conditions where each value is a string
// (equality), a bool (truthiness) or a map with "prefix"/"suffix" keys.
func From(v any) (Check, error) {
	switch val := v.(type) {
	case nil:
		return nil, nil
	case Check:
		return val, nil
	case string:
		return Parse(val), nil
	case []string:
		out := make(Any, 0, len(val))
		for _, s := range val {
			out = append(out, Parse(s))
		}
		return out, nil
	case []any:
		out := make(Any, 0, len(val))
		for i, item := range val {
			c, err := From(item)
			if err != nil {
				return nil, fmt.Errorf("check %d: %w", i, err)
			}
			out = append(out, c)
		}
		return out, nil
	case map[string]any:
		fields := make(Fields, len(val))
		for name, raw := range val {
			cond, err := conditionFrom(raw)
			if err != nil {
				return nil, fmt.Errorf("field %q: %w", name, err)
			}
			fields[name] = cond
		}
		return fields, nil
	default:
		return nil, fmt.Errorf("unsupported check type %T", v)
	}
}

func conditionFrom(v any) (Condition, error) {
	switch val := v.(type) {
	case Condition:
		return val, nil
	case string:
		return Equals(val), nil
	case bool:
		return Truthy(val), nil
	case map[string]any:
		var a Affix
		for k, raw := range val {
			s, ok := raw.(string)
			if !ok {
				return nil, fmt.Errorf("%s must be a string, got %T", k, raw)
			}
			switch k {
			case "prefix":
				a.Prefix = s
			case "suffix":
				a.Suffix = s
			default:
				return nil, fmt.Errorf("unknown condition key %q", k)
			}
		}
		return a, nil
	default:
		return nil, fmt.Errorf("unsupported condition type %T", v)
	}
}

func cleanPath(p string) string {
	p = filepath.ToSlash(p)
	for strings.HasPrefix(p, "./") {
		p = p[2:]
	}
	return p
}

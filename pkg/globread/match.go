package globread

import (
	"strings"
	"unicode"

	"github.com/bmatcuk/doublestar/v4"
)

// fold rewrites p to ignore letter case when CaseInsensitive is set.
func (c *config) fold(p string) string {
	if !c.CaseInsensitive {
		return p
	}
	return foldCase(p)
}

// foldCase turns every cased letter of a doublestar pattern into a class
// holding both cases, e.g. "*.md" becomes "*.[mM][dD]". Bracket expressions
// gain the other case of their letters and letter ranges. Escaped characters
// are kept as written.
func foldCase(p string) string {
	runes := []rune(p)
	var b strings.Builder
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case r == '\\' && i+1 < len(runes):
			b.WriteRune(r)
			i++
			b.WriteRune(runes[i])
		case r == '[':
			end := classEnd(runes, i)
			if end < 0 {
				b.WriteString(string(runes[i:]))
				return b.String()
			}
			b.WriteString(foldClass(runes[i+1 : end]))
			i = end
		default:
			lower, upper := unicode.ToLower(r), unicode.ToUpper(r)
			if lower == upper {
				b.WriteRune(r)
				continue
			}
			b.WriteRune('[')
			b.WriteRune(lower)
			b.WriteRune(upper)
			b.WriteRune(']')
		}
	}
	return b.String()
}

// classEnd returns the index of the ']' closing the class opened at start,
// or -1.
func classEnd(runes []rune, start int) int {
	for i := start + 1; i < len(runes); i++ {
		switch runes[i] {
		case '\\':
			i++
		case ']':
			return i
		}
	}
	return -1
}

func foldClass(inner []rune) string {
	var extra []rune
	for i := 0; i < len(inner); i++ {
		r := inner[i]
		if i == 0 && (r == '^' || r == '!') {
			continue
		}
		if r == '\\' {
			i++
			continue
		}
		if i+2 < len(inner) && inner[i+1] == '-' {
			lo, hi := inner[i], inner[i+2]
			if swapped, ok := swapRange(lo, hi); ok {
				extra = append(extra, swapped...)
			}
			i += 2
			continue
		}
		if other := swapCase(r); other != r {
			extra = append(extra, other)
		}
	}
	return "[" + string(inner) + string(extra) + "]"
}

func swapRange(lo, hi rune) ([]rune, bool) {
	switch {
	case unicode.IsLower(lo) && unicode.IsLower(hi):
		return []rune{unicode.ToUpper(lo), '-', unicode.ToUpper(hi)}, true
	case unicode.IsUpper(lo) && unicode.IsUpper(hi):
		return []rune{unicode.ToLower(lo), '-', unicode.ToLower(hi)}, true
	}
	return nil, false
}

func swapCase(r rune) rune {
	if unicode.IsUpper(r) {
		return unicode.ToLower(r)
	}
	return unicode.ToUpper(r)
}

// dotMatch reports whether match, a path matched by pattern, only enters
// hidden names where the pattern asks for them: a hidden segment has to be
// matched by a pattern segment that itself starts with a dot, and "**" never
// descends into one.
func dotMatch(pattern, match string) bool {
	if !hasHidden(match) {
		return true
	}
	if strings.Contains(pattern, "{") {
		// Alternatives may span segments; accept any explicit leading dot.
		return strings.HasPrefix(pattern, ".") || strings.Contains(pattern, "/.") ||
			strings.Contains(pattern, "{.") || strings.Contains(pattern, ",.")
	}
	return matchSegments(strings.Split(pattern, "/"), strings.Split(match, "/"))
}

func matchSegments(pattern, name []string) bool {
	if len(pattern) == 0 {
		return len(name) == 0
	}
	if pattern[0] == "**" {
		if matchSegments(pattern[1:], name) {
			return true
		}
		return len(name) > 0 && !hidden(name[0]) && matchSegments(pattern, name[1:])
	}
	if len(name) == 0 {
		return false
	}
	if hidden(name[0]) && !strings.HasPrefix(pattern[0], ".") {
		return false
	}
	return doublestar.MatchUnvalidated(pattern[0], name[0]) && matchSegments(pattern[1:], name[1:])
}

func hasHidden(p string) bool {
	for _, seg := range strings.Split(p, "/") {
		if hidden(seg) {
			return true
		}
	}
	return false
}

func hidden(name string) bool {
	return strings.HasPrefix(name, ".") && name != "." && name != ".."
}

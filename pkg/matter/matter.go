// Package matter extracts a leading YAML frontmatter block from text content.
//
// A frontmatter block is a "---" fenced region at the very start of the
// content:
//
//	---
//	title: Hello
//	tags: [a, b]
//	---
//	# Body starts here
//
// Parse never fails. Content without a block, an empty block, or a block
// that is not a YAML mapping all produce an empty, non-nil Matter.
package matter

import (
	"regexp"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

// Matter is parsed frontmatter data.
type Matter map[string]any

// Result is the outcome of Parse.
type Result struct {
	// Matter is never nil.
	Matter Matter
	// Body is the content with the block removed when stripping was
	// requested and the block parsed cleanly; otherwise the input unchanged.
	Body []byte
	// Found reports whether a fenced block was present at all.
	Found bool
	// Stripped reports whether Body differs from the input.
	Stripped bool
}

var blockRegex = regexp.MustCompile(`(?s)^---(?:\r?\n|\r)(?:(.*?)(?:\r?\n|\r))?---(?:\r?\n|\r|$)`)

// Parse reads the frontmatter block at the start of content. When strip is
// true and the block parses, the block (including its closing line break) is
// removed from the returned Body. The input slice is never modified.
func Parse(content []byte, strip bool) Result {
	res := Result{Matter: Matter{}, Body: content}
	if len(content) == 0 || !utf8.Valid(content) {
		return res
	}

	loc := blockRegex.FindSubmatchIndex(content)
	if loc == nil {
		return res
	}
	res.Found = true

	if loc[2] >= 0 {
		var parsed map[string]any
		if err := yaml.Unmarshal(content[loc[2]:loc[3]], &parsed); err != nil {
			// Malformed YAML degrades to empty matter and leaves content alone.
			return res
		}
		if parsed != nil {
			res.Matter = parsed
		}
	}

	if strip {
		body := make([]byte, len(content)-loc[1])
		copy(body, content[loc[1]:])
		res.Body = body
		res.Stripped = true
	}

	return res
}

// String returns the value under key when it is a string.
func (m Matter) String(key string) (string, bool) {
	v, ok := m[key].(string)
	return v, ok
}

// Has reports whether key is present with a non-nil value.
func (m Matter) Has(key string) bool {
	v, ok := m[key]
	return ok && v != nil
}

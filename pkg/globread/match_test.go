package globread

import (
	"testing"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/stretchr/testify/assert"
)

func TestFoldCase(t *testing.T) {
	tests := []struct {
		pattern string
		want    string
	}{
		{"*.md", "*.[mM][dD]"},
		{"README", "[rR][eE][aA][dD][mM][eE]"},
		{"[a-c]x", "[a-cA-C][xX]"},
		{"[^A]", "[^Aa]"},
		{`\*A`, `\*[aA]`},
		{"src/**/{a,b}.md", "[sS][rR][cC]/**/{[aA],[bB]}.[mM][dD]"},
		{"1_-?", "1_-?"},
		{"[unclosed", "[unclosed"},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			got := foldCase(tt.pattern)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, doublestar.ValidatePattern(tt.pattern), doublestar.ValidatePattern(got))
		})
	}
}

func TestFoldCaseMatches(t *testing.T) {
	assert.True(t, doublestar.MatchUnvalidated(foldCase("docs/*.md"), "Docs/Guide.MD"))
	assert.True(t, doublestar.MatchUnvalidated(foldCase("[a-c]*"), "Beta"))
	assert.False(t, doublestar.MatchUnvalidated(foldCase("[^a]*"), "Alpha"))
}

func TestDotMatch(t *testing.T) {
	tests := []struct {
		pattern string
		match   string
		want    bool
	}{
		{"**/*.md", "src/a.md", true},
		{"**/*.md", ".hidden.md", false},
		{"**/*.md", ".git/HEAD.md", false},
		{"**", "src/.drafts/d.md", false},
		{"*", ".env", false},
		{".*", ".env", true},
		{".git/*.md", ".git/HEAD.md", true},
		{"**/.drafts/*.md", "src/.drafts/d.md", true},
		{"src/.drafts/**", "src/.drafts/d.md", true},
		{"src/.drafts/**", "src/.drafts/.keep", false},
		{"{.git,src}/*.md", ".git/HEAD.md", true},
		{"{a,b}/*.md", ".git/HEAD.md", false},
		{"../src/*.md", "../src/a.md", true},
	}

	for _, tt := range tests {
		t.Run(tt.pattern+" "+tt.match, func(t *testing.T) {
			assert.Equal(t, tt.want, dotMatch(tt.pattern, tt.match))
		})
	}
}

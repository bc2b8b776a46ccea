package reporter

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/harrison/globreader/pkg/message"
)

func noColor() *bool {
	b := false
	return &b
}

func TestFormatSingleFile(t *testing.T) {
	in := Input{
		Path: "test/fixture/foo.js",
		Messages: []*message.Message{
			message.New("some message", message.SeverityInfo),
			message.New("some warning!", message.SeverityWarning, message.At(2, 4)),
		},
	}

	want := `test/fixture/foo.js
  1:1  info     some message
  2:4  warning  some warning!

2 messages (⚠ 1 warning)`

	assert.Equal(t, want, Format(Options{Color: noColor()}, in))
}

func TestFormatNoIssues(t *testing.T) {
	assert.Equal(t, "a.md: no issues found", Format(Options{Color: noColor()}, Input{Path: "a.md"}))
	assert.Equal(t, "no name: no issues found", Format(Options{Color: noColor()}, Input{}))
	assert.Equal(t, "stdin: no issues found", Format(Options{Color: noColor(), DefaultName: "stdin"}, Input{}))
	assert.Equal(t, "out.html: written", Format(Options{Color: noColor()}, Input{Path: "out.html", Stored: true}))
}

func TestFormatSummaryVariants(t *testing.T) {
	tests := []struct {
		name string
		msgs []*message.Message
		want string
	}{
		{
			name: "only errors",
			msgs: []*message.Message{message.New("a", message.SeverityError), message.New("b", message.SeverityError)},
			want: "✖ 2 errors",
		},
		{
			name: "only one warning",
			msgs: []*message.Message{message.New("a", message.SeverityWarning)},
			want: "⚠ 1 warning",
		},
		{
			name: "mixed",
			msgs: []*message.Message{
				message.New("a", message.SeverityError),
				message.New("b", message.SeverityWarning),
				message.New("c", message.SeverityWarning),
			},
			want: "3 messages (✖ 1 error, ⚠ 2 warnings)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Format(Options{Color: noColor()}, Input{Path: "x", Messages: tt.msgs})
			lines := strings.Split(out, "\n")
			assert.Equal(t, tt.want, lines[len(lines)-1])
		})
	}
}

func TestFormatOnlyInfoHasNoSummary(t *testing.T) {
	out := Format(Options{Color: noColor()}, Input{
		Path:     "a.md",
		Messages: []*message.Message{message.New("fyi", message.SeverityInfo)},
	})
	assert.Equal(t, "a.md\n  1:1  info  fyi", out)
}

func TestFormatSortsByPosition(t *testing.T) {
	out := Format(Options{Color: noColor()}, Input{
		Path: "a.md",
		Messages: []*message.Message{
			message.New("third", message.SeverityWarning, message.At(3, 1)),
			message.New("first", message.SeverityWarning, message.At(1, 2)),
			message.New("second", message.SeverityWarning, message.At(1, 9)),
		},
	})
	lines := strings.Split(out, "\n")
	assert.Contains(t, lines[1], "first")
	assert.Contains(t, lines[2], "second")
	assert.Contains(t, lines[3], "third")
}

func TestFormatRuleAndSource(t *testing.T) {
	out := Format(Options{Color: noColor()}, Input{
		Path: "a.md",
		Messages: []*message.Message{
			message.New("Missing title", message.SeverityWarning, message.WithRule("globreader", "require-matter")),
			message.New("x", message.SeverityWarning, message.Range(message.Point{Line: 10, Column: 1}, message.Point{Line: 12, Column: 3})),
		},
	})
	lines := strings.Split(out, "\n")
	assert.Equal(t, "        1:1  warning  Missing title  require-matter  globreader", lines[1])
	assert.Equal(t, "  10:1-12:3  warning  x", lines[2])
}

func TestFormatQuietAndSilent(t *testing.T) {
	clean := Input{Path: "clean.md"}
	infoOnly := Input{Path: "info.md", Messages: []*message.Message{message.New("fyi", message.SeverityInfo)}}
	warned := Input{Path: "warn.md", Messages: []*message.Message{
		message.New("fyi", message.SeverityInfo),
		message.New("careful", message.SeverityWarning),
	}}
	failed := Input{Path: "fail.md", Messages: []*message.Message{message.New("broken", message.SeverityError)}}

	quiet := Format(Options{Color: noColor(), Quiet: true}, clean, infoOnly, warned, failed)
	assert.NotContains(t, quiet, "clean.md")
	assert.NotContains(t, quiet, "info.md")
	assert.NotContains(t, quiet, "fyi")
	assert.Contains(t, quiet, "warn.md")
	assert.Contains(t, quiet, "careful")
	assert.Contains(t, quiet, "fail.md")

	silent := Format(Options{Color: noColor(), Silent: true}, clean, infoOnly, warned, failed)
	assert.NotContains(t, silent, "warn.md")
	assert.Contains(t, silent, "fail.md")
	assert.Contains(t, silent, "broken")
}

func TestFormatVerbose(t *testing.T) {
	m := message.New("bad front matter", message.SeverityError,
		message.WithNote("Frontmatter must be a mapping."),
		message.WithCause(errors.New("yaml: line 2")),
	)
	in := Input{Path: "a.md", Messages: []*message.Message{m}}

	terse := Format(Options{Color: noColor()}, in)
	assert.NotContains(t, terse, "Frontmatter must be a mapping.")

	verbose := Format(Options{Color: noColor(), Verbose: true}, in)
	assert.Contains(t, verbose, "  1:1  error  bad front matter\nFrontmatter must be a mapping.\n    caused by: yaml: line 2")
}

func TestFormatMultipleFilesSeparated(t *testing.T) {
	a := Input{Path: "a.md", Messages: []*message.Message{message.New("one", message.SeverityWarning)}}
	b := Input{Path: "b.md"}

	out := Format(Options{Color: noColor()}, a, b)
	assert.Equal(t, "a.md\n  1:1  warning  one\n\nb.md: no issues found\n\n⚠ 1 warning", out)
}

func TestFormatColor(t *testing.T) {
	yes := true
	out := Format(Options{Color: &yes}, Input{
		Path:     "a.md",
		Messages: []*message.Message{message.New("boom", message.SeverityError)},
	})
	assert.Contains(t, out, "\x1b[")
	assert.Contains(t, out, "boom")
}

func TestCount(t *testing.T) {
	s := Count([]*message.Message{
		message.New("a", message.SeverityInfo),
		message.New("b", message.SeverityWarning),
		message.New("c", message.SeverityError),
		message.New("d", message.SeverityError),
	})
	assert.Equal(t, Stats{Fatal: 2, Warn: 1, Info: 1, Total: 4}, s)
}

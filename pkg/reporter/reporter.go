// Package reporter formats the diagnostics of one or more files into a
// human-readable report.
//
// Layout:
//
//	docs/foo.md
//	  1:1  info     some message
//	  2:4  warning  some warning!
//
//	2 messages (⚠ 1 warning)
//
// Rows are aligned per column across the whole report. The trailing summary
// only appears when there is at least one warning or error.
package reporter

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/mattn/go-runewidth"

	"github.com/harrison/globreader/pkg/message"
)

// DefaultName labels files without a path when Options.DefaultName is empty.
const DefaultName = "no name"

// Options controls report output.
type Options struct {
	// DefaultName labels files that have no path.
	DefaultName string
	// Verbose adds notes, links and causes under each message.
	Verbose bool
	// Quiet hides files (and info rows) without warnings or errors.
	Quiet bool
	// Silent only shows fatal messages. Implies Quiet.
	Silent bool
	// Color forces color on or off; nil detects a terminal on stderr.
	Color *bool
}

// Input is one file's contribution to a report.
type Input struct {
	Path     string
	Messages []*message.Message
	// Stored marks files that were written; a clean stored file reads
	// "written" instead of "no issues found".
	Stored bool
}

// Stats counts messages by severity.
type Stats struct {
	Fatal int
	Warn  int
	Info  int
	Total int
}

// Count tallies msgs.
func Count(msgs []*message.Message) Stats {
	var s Stats
	for _, m := range msgs {
		switch m.Severity {
		case message.SeverityError:
			s.Fatal++
		case message.SeverityWarning:
			s.Warn++
		default:
			s.Info++
		}
		s.Total++
	}
	return s
}

type row struct {
	place  string
	label  string
	sev    message.Severity
	reason string
	rest   string
	ruleID string
	source string
}

type fileRows struct {
	in    Input
	stats Stats
	rows  []row
}

type widths struct {
	place, label, reason, ruleID int
}

var lineBreak = regexp.MustCompile(`\r?\n|\r`)

// Format renders a report for the given files.
func Format(opts Options, files ...Input) string {
	if opts.Silent {
		opts.Quiet = true
	}
	pal := newPalette(useColor(opts.Color))

	var (
		all    []*message.Message
		groups []fileRows
		w      widths
	)

	for _, in := range files {
		msgs := sortMessages(in.Messages)
		all = append(all, msgs...)
		stats := Count(msgs)

		group := fileRows{in: in, stats: stats}
		for _, m := range msgs {
			if opts.Silent && !m.Fatal() {
				continue
			}
			if opts.Quiet && m.Severity == message.SeverityInfo {
				continue
			}
			r := newRow(m, opts.Verbose)
			w.place = max(w.place, runewidth.StringWidth(r.place))
			w.label = max(w.label, runewidth.StringWidth(r.label))
			w.reason = max(w.reason, runewidth.StringWidth(r.reason))
			w.ruleID = max(w.ruleID, runewidth.StringWidth(r.ruleID))
			group.rows = append(group.rows, r)
		}

		if opts.Quiet && len(group.rows) == 0 {
			continue
		}
		groups = append(groups, group)
	}

	var lines []string
	for i, g := range groups {
		if i > 0 && len(groups[i-1].rows) > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, header(g, opts, pal))
		for _, r := range g.rows {
			lines = append(lines, formatRow(r, w, pal))
		}
	}

	if summary := summarize(Count(all), pal); summary != "" {
		lines = append(lines, "", summary)
	}

	return strings.Join(lines, "\n")
}

func newRow(m *message.Message, verbose bool) row {
	reason := m.Reason
	if verbose {
		if m.Note != "" {
			reason += "\n" + m.Note
		}
		if m.URL != "" {
			reason += "\n" + m.URL
		}
		if m.Cause != nil && m.Cause.Error() != m.Reason {
			reason += "\n    caused by: " + m.Cause.Error()
		}
	}

	var rest string
	if loc := lineBreak.FindStringIndex(reason); loc != nil {
		rest = reason[loc[0]:]
		reason = reason[:loc[0]]
	}

	return row{
		place:  m.Place.String(),
		label:  m.Severity.String(),
		sev:    m.Severity,
		reason: reason,
		rest:   rest,
		ruleID: m.RuleID,
		source: m.Source,
	}
}

func header(g fileRows, opts Options, pal palette) string {
	name := g.in.Path
	if name == "" {
		name = opts.DefaultName
	}
	if name == "" {
		name = DefaultName
	}

	var c *color.Color
	switch {
	case g.stats.Fatal > 0:
		c = pal.fatal
	case g.stats.Total > 0:
		c = pal.warn
	default:
		c = pal.ok
	}
	line := pal.underline(c, name)

	if g.stats.Total == 0 {
		if g.in.Stored {
			line += ": " + pal.warn.Sprint("written")
		} else {
			line += ": no issues found"
		}
	}
	return line
}

func formatRow(r row, w widths, pal palette) string {
	var b strings.Builder
	b.WriteString("  ")
	b.WriteString(pad(r.place, w.place, true))
	b.WriteString("  ")
	b.WriteString(pal.label(r.sev, r.label))
	b.WriteString(strings.Repeat(" ", w.label-runewidth.StringWidth(r.label)))
	b.WriteString("  ")
	b.WriteString(pad(r.reason, w.reason, false))
	b.WriteString("  ")
	b.WriteString(pad(r.ruleID, w.ruleID, false))
	b.WriteString("  ")
	b.WriteString(r.source)
	return strings.TrimRight(b.String(), " ") + r.rest
}

func summarize(s Stats, pal palette) string {
	if s.Fatal == 0 && s.Warn == 0 {
		return ""
	}

	var parts []string
	if s.Fatal > 0 {
		parts = append(parts, fmt.Sprintf("%s %d %s", pal.fatal.Sprint("✖"), s.Fatal, plural("error", s.Fatal)))
	}
	if s.Warn > 0 {
		parts = append(parts, fmt.Sprintf("%s %d %s", pal.warn.Sprint("⚠"), s.Warn, plural("warning", s.Warn)))
	}
	line := strings.Join(parts, ", ")

	if s.Total != s.Fatal && s.Total != s.Warn {
		line = fmt.Sprintf("%d messages (%s)", s.Total, line)
	}
	return line
}

func sortMessages(msgs []*message.Message) []*message.Message {
	out := make([]*message.Message, len(msgs))
	copy(out, msgs)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Place.Start, out[j].Place.Start
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Column < b.Column
	})
	return out
}

func pad(s string, width int, left bool) string {
	n := width - runewidth.StringWidth(s)
	if n <= 0 {
		return s
	}
	if left {
		return strings.Repeat(" ", n) + s
	}
	return s + strings.Repeat(" ", n)
}

func plural(word string, n int) string {
	if n == 1 {
		return word
	}
	return word + "s"
}

// useColor resolves the color option. Detection follows fatih/color's
// NO_COLOR handling and checks that stderr is a terminal.
func useColor(force *bool) bool {
	if force != nil {
		return *force
	}
	if color.NoColor {
		return false
	}
	fd := os.Stderr.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Package message defines the diagnostic entries a virtual file accumulates
// while it is processed.
package message

import (
	"fmt"
	"strings"
)

// Severity classifies a diagnostic entry.
type Severity int

const (
	// SeverityInfo is an informational note.
	SeverityInfo Severity = iota
	// SeverityWarning is a recoverable problem with the content.
	SeverityWarning
	// SeverityError is a fatal problem; files carrying one are failed.
	SeverityError
)

// String returns the label used in reports.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// Point is a 1-based line/column location. Zero values mean unknown.
type Point struct {
	Line   int `json:"line,omitempty" yaml:"line,omitempty"`
	Column int `json:"column,omitempty" yaml:"column,omitempty"`
}

// IsZero reports whether the point carries no location.
func (p Point) IsZero() bool {
	return p.Line == 0 && p.Column == 0
}

// String formats the point as "line:column", defaulting unknown parts to 1.
func (p Point) String() string {
	line, column := p.Line, p.Column
	if line < 1 {
		line = 1
	}
	if column < 1 {
		column = 1
	}
	return fmt.Sprintf("%d:%d", line, column)
}

// Position is a start point with an optional end point.
type Position struct {
	Start Point `json:"start" yaml:"start"`
	End   Point `json:"end,omitempty" yaml:"end,omitempty"`
}

// String formats the position as "L:C" or "L:C-L:C".
func (p Position) String() string {
	if p.End.IsZero() {
		return p.Start.String()
	}
	return p.Start.String() + "-" + p.End.String()
}

// Message is a single diagnostic entry attached to a file.
//
// Message implements error so a fatal entry can be returned directly from
// File.Fail and inspected with errors.As by the caller.
type Message struct {
	Reason   string
	Severity Severity
	Place    Position
	// File is the path of the file the message was recorded on, if any.
	File   string
	Source string
	RuleID string
	Note   string
	URL    string
	Cause  error
}

// Option configures a message as it is created.
type Option func(*Message)

// At places the message at a single line/column.
func At(line, column int) Option {
	return func(m *Message) {
		m.Place = Position{Start: Point{Line: line, Column: column}}
	}
}

// Range places the message over a span.
func Range(start, end Point) Option {
	return func(m *Message) {
		m.Place = Position{Start: start, End: end}
	}
}

// WithRule records which tool and rule produced the message.
func WithRule(source, ruleID string) Option {
	return func(m *Message) {
		m.Source = source
		m.RuleID = ruleID
	}
}

// WithCause attaches an underlying error.
func WithCause(err error) Option {
	return func(m *Message) {
		m.Cause = err
	}
}

// WithNote attaches a long-form description shown in verbose reports.
func WithNote(note string) Option {
	return func(m *Message) {
		m.Note = note
	}
}

// WithURL attaches a documentation link.
func WithURL(url string) Option {
	return func(m *Message) {
		m.URL = url
	}
}

// New creates a message. An empty reason falls back to the cause's text.
func New(reason string, severity Severity, opts ...Option) *Message {
	m := &Message{
		Reason:   reason,
		Severity: severity,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.Reason == "" && m.Cause != nil {
		m.Reason = m.Cause.Error()
	}
	return m
}

// Fatal reports whether the message is an error-severity entry.
func (m *Message) Fatal() bool {
	return m.Severity == SeverityError
}

// Error implements error as "file:L:C: reason".
func (m *Message) Error() string {
	var b strings.Builder
	if m.File != "" {
		b.WriteString(m.File)
		b.WriteString(":")
	}
	b.WriteString(m.Place.String())
	b.WriteString(": ")
	b.WriteString(m.Reason)
	return b.String()
}

// Unwrap returns the attached cause.
func (m *Message) Unwrap() error {
	return m.Cause
}

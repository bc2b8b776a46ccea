package vfile

import (
	"github.com/harrison/globreader/pkg/check"
	"github.com/harrison/globreader/pkg/message"
	"github.com/harrison/globreader/pkg/rename"
	"github.com/harrison/globreader/pkg/reporter"
)

// Message records a warning on the file and returns it.
func (f *File) Message(reason string, opts ...message.Option) *message.Message {
	return f.record(reason, message.SeverityWarning, opts)
}

// Info records an informational message on the file and returns it.
func (f *File) Info(reason string, opts ...message.Option) *message.Message {
	return f.record(reason, message.SeverityInfo, opts)
}

// Fail records a fatal message and returns it as an error so the caller can
// abort. Earlier messages are kept.
func (f *File) Fail(reason string, opts ...message.Option) error {
	return f.record(reason, message.SeverityError, opts)
}

func (f *File) record(reason string, sev message.Severity, opts []message.Option) *message.Message {
	m := message.New(reason, sev, opts...)
	m.File = f.Path()
	f.Messages = append(f.Messages, m)
	return m
}

// Failed reports whether any fatal message was recorded.
func (f *File) Failed() bool {
	for _, m := range f.Messages {
		if m.Fatal() {
			return true
		}
	}
	return false
}

// Reporter formats the file's messages under its path.
func (f *File) Reporter(opts reporter.Options) string {
	return reporter.Format(opts, f.ReportInput())
}

// ReportInput returns the file as a reporter input, for multi-file reports.
func (f *File) ReportInput() reporter.Input {
	return reporter.Input{
		Path:     f.Path(),
		Messages: f.Messages,
		Stored:   f.Stored,
	}
}

// Is reports whether the file passes c. A nil check always passes.
func (f *File) Is(c check.Check) bool {
	return check.Test(f, c)
}

// Rename computes a new path with r and moves the file there. A rename that
// yields the current path leaves the history untouched.
func (f *File) Rename(r rename.Renames) error {
	p, err := rename.Apply(f.Path(), r)
	if err != nil {
		return err
	}
	if p == "" || p == f.Path() {
		return nil
	}
	return f.SetPath(p)
}

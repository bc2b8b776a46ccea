// Package logger provides logging implementations for globreader commands.
//
// Commands report progress through the Logger interface: generic leveled
// messages plus file events (read, written, deleted, skipped) and a run
// summary. ConsoleLogger writes human-readable lines to a terminal,
// FileLogger keeps a rotating run log on disk, and Multi fans out to both.
// Implementations are safe for concurrent use.
package logger

import (
	"fmt"
	"strings"
	"time"
)

// Log level constants for filtering
const (
	levelTrace int = 0
	levelDebug int = 1
	levelInfo  int = 2
	levelWarn  int = 3
	levelError int = 4
)

// Logger is the sink commands report to. It also satisfies
// globread.Logger through Debugf.
type Logger interface {
	LogDebug(message string)
	LogInfo(message string)
	LogWarn(message string)
	LogError(message string)
	Debugf(format string, args ...interface{})
	LogFile(event FileEvent)
	LogSummary(summary Summary)
}

// Action names what happened to a file.
type Action string

const (
	ActionRead    Action = "read"
	ActionWritten Action = "written"
	ActionDeleted Action = "deleted"
	ActionSkipped Action = "skipped"
	ActionFailed  Action = "failed"
)

// FileEvent is one per-file outcome. File events are logged at DEBUG level,
// except failures which are logged at ERROR.
type FileEvent struct {
	Action Action
	Path   string
	Bytes  int
	Dry    bool
	Err    error
}

func (e FileEvent) String() string {
	var b strings.Builder
	b.WriteString(string(e.Action))
	b.WriteString(" ")
	b.WriteString(e.Path)
	if e.Bytes > 0 {
		fmt.Fprintf(&b, " (%d bytes)", e.Bytes)
	}
	if e.Dry {
		b.WriteString(" [dry run]")
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Summary describes a finished command run.
type Summary struct {
	Command  string
	RunID    string
	Matched  int
	Written  int
	Deleted  int
	Failed   int
	Bytes    int64
	Dry      bool
	Duration time.Duration
}

// Status returns SUCCESS, PARTIAL or FAILED.
func (s Summary) Status() string {
	switch {
	case s.Failed == 0:
		return "SUCCESS"
	case s.Failed < s.Matched:
		return "PARTIAL"
	default:
		return "FAILED"
	}
}

// normalizeLogLevel converts a log level string to lowercase and validates it.
// Returns "info" as default for empty or invalid levels.
func normalizeLogLevel(level string) string {
	normalized := strings.ToLower(strings.TrimSpace(level))

	switch normalized {
	case "trace", "debug", "info", "warn", "error":
		return normalized
	}
	return "info"
}

// ValidLevel reports whether level is one of trace, debug, info, warn, error.
func ValidLevel(level string) bool {
	return normalizeLogLevel(level) == strings.ToLower(strings.TrimSpace(level))
}

// logLevelToInt converts a log level string to its numeric value.
func logLevelToInt(level string) int {
	switch level {
	case "trace":
		return levelTrace
	case "debug":
		return levelDebug
	case "info":
		return levelInfo
	case "warn":
		return levelWarn
	case "error":
		return levelError
	default:
		return levelInfo
	}
}

func timestamp() string {
	return time.Now().Format("15:04:05")
}

// formatDuration converts a time.Duration to a short human-readable string.
// Examples: "120ms", "5s", "1m30s", "2h15m"
func formatDuration(d time.Duration) string {
	switch {
	case d >= time.Hour:
		hours := d / time.Hour
		remainder := d % time.Hour
		if remainder == 0 {
			return fmt.Sprintf("%dh", hours)
		}
		minutes := remainder / time.Minute
		remainder = remainder % time.Minute
		if remainder == 0 {
			return fmt.Sprintf("%dh%dm", hours, minutes)
		}
		seconds := remainder / time.Second
		return fmt.Sprintf("%dh%dm%ds", hours, minutes, seconds)
	case d >= time.Minute:
		minutes := d / time.Minute
		remainder := d % time.Minute
		if remainder == 0 {
			return fmt.Sprintf("%dm", minutes)
		}
		seconds := remainder / time.Second
		return fmt.Sprintf("%dm%ds", minutes, seconds)
	case d >= time.Second:
		return fmt.Sprintf("%ds", int64(d.Seconds()))
	default:
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
}

// Multi forwards every call to each of its loggers.
type Multi []Logger

// LogDebug forwards to all loggers
func (m Multi) LogDebug(message string) {
	for _, l := range m {
		l.LogDebug(message)
	}
}

// LogInfo forwards to all loggers
func (m Multi) LogInfo(message string) {
	for _, l := range m {
		l.LogInfo(message)
	}
}

// LogWarn forwards to all loggers
func (m Multi) LogWarn(message string) {
	for _, l := range m {
		l.LogWarn(message)
	}
}

// LogError forwards to all loggers
func (m Multi) LogError(message string) {
	for _, l := range m {
		l.LogError(message)
	}
}

// Debugf forwards to all loggers
func (m Multi) Debugf(format string, args ...interface{}) {
	for _, l := range m {
		l.Debugf(format, args...)
	}
}

// LogFile forwards to all loggers
func (m Multi) LogFile(event FileEvent) {
	for _, l := range m {
		l.LogFile(event)
	}
}

// LogSummary forwards to all loggers
func (m Multi) LogSummary(summary Summary) {
	for _, l := range m {
		l.LogSummary(summary)
	}
}

// NoOpLogger discards all log messages.
type NoOpLogger struct{}

// NewNoOpLogger creates a NoOpLogger instance.
func NewNoOpLogger() *NoOpLogger {
	return &NoOpLogger{}
}

func (n *NoOpLogger) LogDebug(string) {}
func (n *NoOpLogger) LogInfo(string) {}
func (n *NoOpLogger) LogWarn(string) {}
func (n *NoOpLogger) LogError(string) {}
func (n *NoOpLogger) Debugf(string, ...interface{}) {}
func (n *NoOpLogger) LogFile(FileEvent) {}
func (n *NoOpLogger) LogSummary(Summary) {}

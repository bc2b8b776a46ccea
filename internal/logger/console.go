package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// ConsoleLogger logs command progress to a writer with timestamps and thread safety.
// All output is prefixed with [HH:MM:SS] timestamps.
// It supports log level filtering to control message verbosity.
// Color output is automatically enabled for terminal output (os.Stdout/os.Stderr).
type ConsoleLogger struct {
	writer      io.Writer
	logLevel    string
	mutex       sync.Mutex
	colorOutput bool
}

// NewConsoleLogger creates a ConsoleLogger that writes to the provided io.Writer.
// If writer is nil, messages are silently discarded.
// Valid levels: trace, debug, info, warn, error (case-insensitive).
// If logLevel is empty or invalid, defaults to "info".
func NewConsoleLogger(writer io.Writer, logLevel string) *ConsoleLogger {
	return &ConsoleLogger{
		writer:      writer,
		logLevel:    normalizeLogLevel(logLevel),
		colorOutput: isTerminal(writer),
	}
}

// isTerminal checks if the writer is a terminal that supports colors.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok || (f != os.Stdout && f != os.Stderr) {
		return false
	}
	if color.NoColor {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// shouldLog checks if a message at the given level should be logged.
func (cl *ConsoleLogger) shouldLog(messageLevel string) bool {
	return logLevelToInt(messageLevel) >= logLevelToInt(cl.logLevel)
}

// LogTrace logs a trace-level message (most verbose).
// Format: "[HH:MM:SS] [TRACE] <message>"
func (cl *ConsoleLogger) LogTrace(message string) {
	cl.logWithLevel("TRACE", message)
}

// LogDebug logs a debug-level message.
// Format: "[HH:MM:SS] [DEBUG] <message>"
func (cl *ConsoleLogger) LogDebug(message string) {
	cl.logWithLevel("DEBUG", message)
}

// LogInfo logs an info-level message.
func (cl *ConsoleLogger) LogInfo(message string) {
	cl.logWithLevel("INFO", message)
}

// LogWarn logs a warning-level message.
func (cl *ConsoleLogger) LogWarn(message string) {
	cl.logWithLevel("WARN", message)
}

// LogError logs an error-level message.
func (cl *ConsoleLogger) LogError(message string) {
	cl.logWithLevel("ERROR", message)
}

// Debugf logs a formatted debug-level message.
func (cl *ConsoleLogger) Debugf(format string, args ...interface{}) {
	if !cl.shouldLog("debug") {
		return
	}
	cl.logWithLevel("DEBUG", fmt.Sprintf(format, args...))
}

// logWithLevel is a helper that logs a message at the specified level if filtering allows it.
func (cl *ConsoleLogger) logWithLevel(level string, message string) {
	if cl.writer == nil {
		return
	}
	if !cl.shouldLog(strings.ToLower(level)) {
		return
	}

	cl.mutex.Lock()
	defer cl.mutex.Unlock()

	ts := timestamp()
	var formatted string
	if cl.colorOutput {
		formatted = fmt.Sprintf("[%s] [%s] %s\n", ts, colorLevel(level), message)
	} else {
		formatted = fmt.Sprintf("[%s] [%s] %s\n", ts, level, message)
	}

	cl.writer.Write([]byte(formatted))
}

func colorLevel(level string) string {
	switch level {
	case "TRACE":
		return color.New(color.FgHiBlack).Sprint(level)
	case "DEBUG":
		return color.New(color.FgCyan).Sprint(level)
	case "INFO":
		return color.New(color.FgBlue).Sprint(level)
	case "WARN":
		return color.New(color.FgYellow).Sprint(level)
	case "ERROR":
		return color.New(color.FgRed).Sprint(level)
	default:
		return level
	}
}

// LogFile logs a per-file event.
// Format: "[HH:MM:SS] <action> <path> (<n> bytes)"
func (cl *ConsoleLogger) LogFile(event FileEvent) {
	if event.Action == ActionFailed {
		cl.LogError(event.String())
		return
	}
	if cl.writer == nil || !cl.shouldLog("debug") {
		return
	}

	cl.mutex.Lock()
	defer cl.mutex.Unlock()

	action := string(event.Action)
	if cl.colorOutput {
		switch event.Action {
		case ActionWritten:
			action = color.New(color.FgGreen).Sprint(action)
		case ActionDeleted:
			action = color.New(color.FgYellow).Sprint(action)
		case ActionSkipped:
			action = color.New(color.FgHiBlack).Sprint(action)
		}
	}
	line := strings.Replace(event.String(), string(event.Action), action, 1)
	fmt.Fprintf(cl.writer, "[%s] %s\n", timestamp(), line)
}

// LogSummary logs the run summary at INFO level.
// Format: "[HH:MM:SS] build: 3 matched, 3 written, 0 failed (1s) SUCCESS"
func (cl *ConsoleLogger) LogSummary(s Summary) {
	if cl.writer == nil || !cl.shouldLog("info") {
		return
	}

	cl.mutex.Lock()
	defer cl.mutex.Unlock()

	status := s.Status()
	if cl.colorOutput {
		switch status {
		case "SUCCESS":
			status = color.New(color.FgGreen, color.Bold).Sprint(status)
		case "PARTIAL":
			status = color.New(color.FgYellow, color.Bold).Sprint(status)
		default:
			status = color.New(color.FgRed, color.Bold).Sprint(status)
		}
	}

	var parts []string
	parts = append(parts, fmt.Sprintf("%d matched", s.Matched))
	if s.Written > 0 {
		parts = append(parts, fmt.Sprintf("%d written", s.Written))
	}
	if s.Deleted > 0 {
		parts = append(parts, fmt.Sprintf("%d deleted", s.Deleted))
	}
	parts = append(parts, fmt.Sprintf("%d failed", s.Failed))

	dry := ""
	if s.Dry {
		dry = " [dry run]"
	}
	fmt.Fprintf(cl.writer, "[%s] %s: %s (%s) %s%s\n",
		timestamp(), s.Command, strings.Join(parts, ", "), formatDuration(s.Duration), status, dry)
}

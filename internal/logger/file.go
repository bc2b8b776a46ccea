package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"gopkg.in/natefinch/lumberjack.v2"
)

// DefaultLogDir is where run logs go when no directory is configured.
const DefaultLogDir = ".globreader/logs"

// LogFileName is the active run log inside the log directory. Older logs are
// rotated next to it by lumberjack.
const LogFileName = "globreader.log"

// FileLogger appends command runs to a rotating log file. Every run starts
// with a header carrying a fresh run ID so interleaved runs stay separable.
// It is thread-safe and supports log level filtering.
type FileLogger struct {
	logDir   string
	runID    string
	logLevel string
	out      io.WriteCloser
	mu       sync.Mutex
}

// NewFileLogger creates a FileLogger writing to .globreader/logs/ with the
// default "info" level.
func NewFileLogger() (*FileLogger, error) {
	return NewFileLoggerWithDirAndLevel(DefaultLogDir, "info")
}

// NewFileLoggerWithDirAndLevel creates a FileLogger with a custom log directory and log level.
func NewFileLoggerWithDirAndLevel(logDir string, logLevel string) (*FileLogger, error) {
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	fl := &FileLogger{
		logDir:   logDir,
		runID:    uuid.NewString(),
		logLevel: normalizeLogLevel(logLevel),
		out: &lumberjack.Logger{
			Filename:   filepath.Join(logDir, LogFileName),
			MaxSize:    10, // megabytes
			MaxBackups: 5,
			MaxAge:     30, // days
		},
	}

	fl.write(fmt.Sprintf("=== globreader run %s ===\n", fl.runID))
	fl.write(fmt.Sprintf("Started at: %s\n", time.Now().Format(time.RFC3339)))
	return fl, nil
}

// RunID identifies this run in the log file.
func (fl *FileLogger) RunID() string {
	return fl.runID
}

// Path returns the active log file.
func (fl *FileLogger) Path() string {
	return filepath.Join(fl.logDir, LogFileName)
}

// shouldLog checks if a message at the given level should be logged.
func (fl *FileLogger) shouldLog(messageLevel string) bool {
	return logLevelToInt(messageLevel) >= logLevelToInt(fl.logLevel)
}

// LogTrace logs a trace-level message (most verbose).
func (fl *FileLogger) LogTrace(message string) {
	fl.logWithLevel("TRACE", message)
}

// LogDebug logs a debug-level message.
func (fl *FileLogger) LogDebug(message string) {
	fl.logWithLevel("DEBUG", message)
}

// LogInfo logs an info-level message.
func (fl *FileLogger) LogInfo(message string) {
	fl.logWithLevel("INFO", message)
}

// LogWarn logs a warning-level message.
func (fl *FileLogger) LogWarn(message string) {
	fl.logWithLevel("WARN", message)
}

// LogError logs an error-level message.
func (fl *FileLogger) LogError(message string) {
	fl.logWithLevel("ERROR", message)
}

// Debugf logs a formatted debug-level message.
func (fl *FileLogger) Debugf(format string, args ...interface{}) {
	if !fl.shouldLog("debug") {
		return
	}
	fl.logWithLevel("DEBUG", fmt.Sprintf(format, args...))
}

func (fl *FileLogger) logWithLevel(level string, message string) {
	if !fl.shouldLog(strings.ToLower(level)) {
		return
	}
	fl.write(fmt.Sprintf("[%s] [%s] %s\n", timestamp(), level, message))
}

// LogFile records a per-file event. Failures are recorded at ERROR level,
// everything else at DEBUG.
func (fl *FileLogger) LogFile(event FileEvent) {
	if event.Action == ActionFailed {
		fl.LogError(event.String())
		return
	}
	fl.LogDebug(event.String())
}

// LogSummary records the run summary at INFO level.
func (fl *FileLogger) LogSummary(s Summary) {
	if !fl.shouldLog("info") {
		return
	}

	ts := timestamp()
	message := fmt.Sprintf(
		"[%s] === %s SUMMARY ===\n"+
			"[%s] Matched:      %d\n"+
			"[%s] Written:      %d\n"+
			"[%s] Deleted:      %d\n"+
			"[%s] Failed:       %d\n"+
			"[%s] Bytes:        %d\n"+
			"[%s] Dry run:      %t\n"+
			"[%s] Total time:   %s\n"+
			"[%s] Status:       %s\n",
		ts, strings.ToUpper(s.Command),
		ts, s.Matched,
		ts, s.Written,
		ts, s.Deleted,
		ts, s.Failed,
		ts, s.Bytes,
		ts, s.Dry,
		ts, formatDuration(s.Duration),
		ts, s.Status(),
	)
	fl.write(message)
}

func (fl *FileLogger) write(s string) {
	fl.mu.Lock()
	defer fl.mu.Unlock()
	if fl.out == nil {
		return
	}
	fl.out.Write([]byte(s))
}

// Close flushes and closes the log file.
func (fl *FileLogger) Close() error {
	fl.mu.Lock()
	defer fl.mu.Unlock()
	if fl.out == nil {
		return nil
	}
	err := fl.out.Close()
	fl.out = nil
	return err
}

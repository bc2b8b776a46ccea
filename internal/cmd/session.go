package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/harrison/globreader/internal/config"
	"github.com/harrison/globreader/internal/logger"
	"github.com/harrison/globreader/pkg/globread"
)

// session is the state shared by a single command run: the merged
// configuration and the loggers.
type session struct {
	name    string
	cfg     *config.Config
	log     logger.Logger
	fileLog *logger.FileLogger
	fs      afero.Fs
	started time.Time
}

// openSession loads configuration (defaults, then file, then flags) and
// creates loggers. withFileLog adds a rotating run log unless --no-log-file
// was given.
func openSession(cmd *cobra.Command, withFileLog bool) (*session, error) {
	flags := cmd.Flags()

	configPath, _ := flags.GetString("config")
	var (
		cfg *config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.LoadConfig(configPath)
	} else {
		cfg, err = config.LoadConfigFromDir(".")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	var f config.Flags
	if flags.Changed("cwd") {
		v, _ := flags.GetString("cwd")
		f.Cwd = &v
	}
	if flags.Changed("encoding") {
		v, _ := flags.GetString("encoding")
		f.Encoding = &v
	}
	if flags.Changed("ignore") {
		f.Ignore, _ = flags.GetStringSlice("ignore")
	}
	if flags.Changed("dry-run") {
		v, _ := flags.GetBool("dry-run")
		f.DryRun = &v
	}
	if flags.Changed("dot") {
		v, _ := flags.GetBool("dot")
		f.Dot = &v
	}
	if flags.Changed("ignore-case") {
		v, _ := flags.GetBool("ignore-case")
		f.CaseInsensitive = &v
	}
	if flags.Changed("concurrency") {
		v, _ := flags.GetInt("concurrency")
		f.Concurrency = &v
	}
	if flags.Changed("log-level") {
		v, _ := flags.GetString("log-level")
		f.LogLevel = &v
	}
	if flags.Changed("log-dir") {
		v, _ := flags.GetString("log-dir")
		f.LogDir = &v
	}
	if flags.Lookup("out") != nil && flags.Changed("out") {
		v, _ := flags.GetString("out")
		f.OutDir = &v
	}
	cfg.MergeWithFlags(f)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if abs, err := filepath.Abs(cfg.Cwd); err == nil {
		cfg.Cwd = abs
	}

	s := &session{
		name:    cmd.Name(),
		cfg:     cfg,
		fs:      afero.NewOsFs(),
		started: time.Now(),
	}

	console := logger.NewConsoleLogger(cmd.ErrOrStderr(), cfg.LogLevel)
	s.log = console

	noLogFile, _ := flags.GetBool("no-log-file")
	if withFileLog && !noLogFile {
		fileLog, err := logger.NewFileLoggerWithDirAndLevel(cfg.LogDir, cfg.LogLevel)
		if err != nil {
			console.LogWarn(fmt.Sprintf("Failed to create file logger: %v", err))
		} else {
			s.fileLog = fileLog
			s.log = logger.Multi{console, fileLog}
		}
	}

	return s, nil
}

// scanOptions returns scanner options for the session configuration.
func (s *session) scanOptions(patterns []string, extra ...globread.Option) ([]globread.Option, error) {
	extra = append([]globread.Option{globread.WithFS(s.fs), globread.WithLogger(s.log)}, extra...)
	return s.cfg.ScanOptions(patterns, extra...)
}

// outDir returns the absolute output directory.
func (s *session) outDir() string {
	if filepath.IsAbs(s.cfg.OutDir) {
		return filepath.Clean(s.cfg.OutDir)
	}
	return filepath.Join(s.cfg.Cwd, s.cfg.OutDir)
}

// ignoreOutDir returns an ignore pattern excluding the output directory
// from scans, or "" when it lies outside the scan root.
func (s *session) ignoreOutDir() string {
	rel, err := filepath.Rel(s.cfg.Cwd, s.outDir())
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return ""
	}
	return filepath.ToSlash(rel) + "/**"
}

func (s *session) runID() string {
	if s.fileLog == nil {
		return ""
	}
	return s.fileLog.RunID()
}

// close logs the run summary and releases the run log.
func (s *session) close(summary logger.Summary) {
	summary.Command = s.name
	summary.RunID = s.runID()
	summary.Dry = s.cfg.DryRun
	summary.Duration = time.Since(s.started)
	s.log.LogSummary(summary)

	if s.fileLog != nil {
		if err := s.fileLog.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to close log file: %v\n", err)
		}
	}
}

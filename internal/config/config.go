package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/harrison/globreader/pkg/globread"
)

// FileName is the project configuration file.
const FileName = ".globreader.yaml"

// CheckConfig configures the check command.
type CheckConfig struct {
	// Require lists frontmatter keys every matched file must define
	Require []string `yaml:"require"`

	// Only restricts checking to files passing this check. Accepts the
	// shapes understood by check.From: a glob, an extension, a list, or a
	// map of field conditions.
	Only any `yaml:"only"`
}

// BuildConfig configures the build command.
type BuildConfig struct {
	// Ext is the extension given to rendered files
	Ext string `yaml:"ext"`

	// Minify also writes a whitespace-collapsed .min companion
	Minify bool `yaml:"minify"`

	// SourceMaps writes a .map companion next to every output
	SourceMaps bool `yaml:"source_maps"`
}

// Config represents globreader configuration options
type Config struct {
	// Cwd is the scan root; relative values resolve against the config file
	Cwd string `yaml:"cwd"`

	// Encoding decodes file content ("" keeps raw bytes)
	Encoding string `yaml:"encoding"`

	// Ignore lists patterns excluded from every scan
	Ignore []string `yaml:"ignore"`

	// FsStats attaches stat metadata to scanned files
	FsStats bool `yaml:"fs_stats"`

	// Dot lets wildcards match hidden files and directories
	Dot bool `yaml:"dot"`

	// CaseInsensitive matches patterns regardless of letter case
	CaseInsensitive bool `yaml:"case_insensitive"`

	// DryRun scans without reading or writing files
	DryRun bool `yaml:"dry_run"`

	// StripMatter removes frontmatter from loaded content
	StripMatter bool `yaml:"strip_matter"`

	// Concurrency bounds parallel reads (0 = number of CPUs)
	Concurrency int `yaml:"concurrency"`

	// LogLevel sets the logging verbosity (trace, debug, info, warn, error)
	LogLevel string `yaml:"log_level"`

	// LogDir is the directory where run logs will be written
	LogDir string `yaml:"log_dir"`

	// OutDir is where build writes its output
	OutDir string `yaml:"out_dir"`

	// Check contains check command configuration
	Check CheckConfig `yaml:"check"`

	// Build contains build command configuration
	Build BuildConfig `yaml:"build"`
}

// DefaultConfig returns a Config with sensible default values
func DefaultConfig() *Config {
	return &Config{
		Cwd:         ".",
		Encoding:    "utf8",
		Ignore:      []string{"**/node_modules/**", "**/.git/**"},
		FsStats:     false,
		DryRun:      false,
		StripMatter: false,
		Concurrency: 0,
		LogLevel:    "info",
		LogDir:      ".globreader/logs",
		OutDir:      "dist",
		Build: BuildConfig{
			Ext: ".html",
		},
	}
}

// LoadConfig loads configuration from the specified file path
// If the file doesn't exist, returns default configuration without error
// If the file exists but is malformed, returns an error
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var fileCfg Config
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Presence decides for keys whose zero value is meaningful
	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	has := func(m map[string]interface{}, key string) bool {
		_, ok := m[key]
		return ok
	}

	if fileCfg.Cwd != "" {
		cfg.Cwd = fileCfg.Cwd
	}
	if has(raw, "encoding") {
		cfg.Encoding = fileCfg.Encoding
	}
	if has(raw, "ignore") {
		cfg.Ignore = fileCfg.Ignore
	}
	if has(raw, "fs_stats") {
		cfg.FsStats = fileCfg.FsStats
	}
	if has(raw, "dot") {
		cfg.Dot = fileCfg.Dot
	}
	if has(raw, "case_insensitive") {
		cfg.CaseInsensitive = fileCfg.CaseInsensitive
	}
	if has(raw, "dry_run") {
		cfg.DryRun = fileCfg.DryRun
	}
	if has(raw, "strip_matter") {
		cfg.StripMatter = fileCfg.StripMatter
	}
	if fileCfg.Concurrency != 0 {
		cfg.Concurrency = fileCfg.Concurrency
	}
	if fileCfg.LogLevel != "" {
		cfg.LogLevel = fileCfg.LogLevel
	}
	if fileCfg.LogDir != "" {
		cfg.LogDir = fileCfg.LogDir
	}
	if fileCfg.OutDir != "" {
		cfg.OutDir = fileCfg.OutDir
	}

	if section, ok := raw["check"].(map[string]interface{}); ok {
		if has(section, "require") {
			cfg.Check.Require = fileCfg.Check.Require
		}
		if has(section, "only") {
			cfg.Check.Only = fileCfg.Check.Only
		}
	}
	if section, ok := raw["build"].(map[string]interface{}); ok {
		if has(section, "ext") {
			cfg.Build.Ext = fileCfg.Build.Ext
		}
		if has(section, "minify") {
			cfg.Build.Minify = fileCfg.Build.Minify
		}
		if has(section, "source_maps") {
			cfg.Build.SourceMaps = fileCfg.Build.SourceMaps
		}
	}

	// Relative paths in the file are relative to the file itself
	base := filepath.Dir(path)
	cfg.Cwd = resolveFrom(base, cfg.Cwd)
	if has(raw, "out_dir") {
		cfg.OutDir = resolveFrom(base, cfg.OutDir)
	}
	if has(raw, "log_dir") {
		cfg.LogDir = resolveFrom(base, cfg.LogDir)
	}

	return cfg, nil
}

// LoadConfigFromDir loads configuration from .globreader.yaml in the specified directory
// If the directory or file doesn't exist, returns default configuration without error
func LoadConfigFromDir(dir string) (*Config, error) {
	return LoadConfig(filepath.Join(dir, FileName))
}

// Flags holds CLI flag values. Nil fields were not set on the command line.
type Flags struct {
	Cwd             *string
	Encoding        *string
	Ignore          []string
	FsStats         *bool
	DryRun          *bool
	Dot             *bool
	CaseInsensitive *bool
	StripMatter     *bool
	Concurrency     *int
	LogLevel        *string
	LogDir          *string
	OutDir          *string
}

// MergeWithFlags merges CLI flags into the configuration
// Non-nil flag values override configuration values; ignore patterns from
// flags are appended to the configured ones
func (c *Config) MergeWithFlags(f Flags) {
	if f.Cwd != nil {
		c.Cwd = *f.Cwd
	}
	if f.Encoding != nil {
		c.Encoding = *f.Encoding
	}
	if len(f.Ignore) > 0 {
		c.Ignore = append(append([]string(nil), c.Ignore...), f.Ignore...)
	}
	if f.FsStats != nil {
		c.FsStats = *f.FsStats
	}
	if f.DryRun != nil {
		c.DryRun = *f.DryRun
	}
	if f.Dot != nil {
		c.Dot = *f.Dot
	}
	if f.CaseInsensitive != nil {
		c.CaseInsensitive = *f.CaseInsensitive
	}
	if f.StripMatter != nil {
		c.StripMatter = *f.StripMatter
	}
	if f.Concurrency != nil {
		c.Concurrency = *f.Concurrency
	}
	if f.LogLevel != nil {
		c.LogLevel = *f.LogLevel
	}
	if f.LogDir != nil {
		c.LogDir = *f.LogDir
	}
	if f.OutDir != nil {
		c.OutDir = *f.OutDir
	}
}

// Validate validates the configuration values
// Returns an error if any values are invalid
func (c *Config) Validate() error {
	if c.Concurrency < 0 {
		return fmt.Errorf("concurrency must be >= 0, got %d", c.Concurrency)
	}

	validLevels := map[string]bool{
		"trace": true,
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[c.LogLevel] {
		return fmt.Errorf("invalid log_level %q, must be one of: trace, debug, info, warn, error", c.LogLevel)
	}

	if c.Build.Ext != "" && (!strings.HasPrefix(c.Build.Ext, ".") || strings.Count(c.Build.Ext, ".") != 1) {
		return fmt.Errorf("build.ext must be a single dot-prefixed extension, got %q", c.Build.Ext)
	}

	// Resolving options validates the encoding name
	if _, err := c.ScanOptions([]string{"*"}); err != nil {
		return err
	}
	return nil
}

// ScanOptions converts the configuration into scanner options.
func (c *Config) ScanOptions(patterns []string, extra ...globread.Option) ([]globread.Option, error) {
	opts := []globread.Option{
		globread.WithOptions(globread.Options{
			Cwd:             c.Cwd,
			Ignore:          c.Ignore,
			Encoding:        c.Encoding,
			FsStats:         c.FsStats,
			Dry:             c.DryRun,
			StripMatter:     c.StripMatter,
			Concurrency:     c.Concurrency,
			Dot:             c.Dot,
			CaseInsensitive: c.CaseInsensitive,
		}),
	}
	opts = append(opts, extra...)
	if err := globread.Validate(patterns, opts...); err != nil {
		return nil, err
	}
	return opts, nil
}

func resolveFrom(base, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harrison/globreader/pkg/globread"
)

// TestDefaultConfig verifies default configuration values
func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Cwd != "." {
		t.Errorf("Cwd = %q, want %q", cfg.Cwd, ".")
	}
	if cfg.Encoding != "utf8" {
		t.Errorf("Encoding = %q, want %q", cfg.Encoding, "utf8")
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "info")
	}
	if cfg.LogDir != ".globreader/logs" {
		t.Errorf("LogDir = %q, want %q", cfg.LogDir, ".globreader/logs")
	}
	if cfg.OutDir != "dist" {
		t.Errorf("OutDir = %q, want %q", cfg.OutDir, "dist")
	}
	if cfg.Build.Ext != ".html" {
		t.Errorf("Build.Ext = %q, want %q", cfg.Build.Ext, ".html")
	}
	if cfg.DryRun || cfg.FsStats || cfg.StripMatter {
		t.Error("boolean options default to false")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config is invalid: %v", err)
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// TestLoadConfigValidFile tests loading a valid YAML config file
func TestLoadConfigValidFile(t *testing.T) {
	path := writeConfig(t, `cwd: content
encoding: latin1
ignore: ["drafts/**"]
fs_stats: true
dry_run: true
dot: true
case_insensitive: true
strip_matter: true
concurrency: 4
log_level: debug
log_dir: /var/log/globreader
out_dir: public
check:
  require: [title, date]
  only: ".md"
build:
  ext: .htm
  minify: true
  source_maps: true
`)
	dir := filepath.Dir(path)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "content"), cfg.Cwd)
	assert.Equal(t, "latin1", cfg.Encoding)
	assert.Equal(t, []string{"drafts/**"}, cfg.Ignore)
	assert.True(t, cfg.FsStats)
	assert.True(t, cfg.DryRun)
	assert.True(t, cfg.Dot)
	assert.True(t, cfg.CaseInsensitive)
	assert.True(t, cfg.StripMatter)
	assert.Equal(t, 4, cfg.Concurrency)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "/var/log/globreader", cfg.LogDir)
	assert.Equal(t, filepath.Join(dir, "public"), cfg.OutDir)
	assert.Equal(t, []string{"title", "date"}, cfg.Check.Require)
	assert.Equal(t, ".md", cfg.Check.Only)
	assert.Equal(t, ".htm", cfg.Build.Ext)
	assert.True(t, cfg.Build.Minify)
	assert.True(t, cfg.Build.SourceMaps)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfigPartialFileKeepsDefaults(t *testing.T) {
	path := writeConfig(t, "log_level: warn\n")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	defaults := DefaultConfig()
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, defaults.Encoding, cfg.Encoding)
	assert.Equal(t, defaults.Ignore, cfg.Ignore)
	assert.Equal(t, defaults.OutDir, cfg.OutDir)
	assert.Equal(t, defaults.Build.Ext, cfg.Build.Ext)
	assert.Equal(t, filepath.Dir(path), cfg.Cwd)
}

func TestLoadConfigExplicitZeroValues(t *testing.T) {
	path := writeConfig(t, `encoding: ""
ignore: []
build:
  ext: ""
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "", cfg.Encoding, "empty encoding means raw bytes")
	assert.Empty(t, cfg.Ignore)
	assert.Equal(t, "", cfg.Build.Ext)
}

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfigMalformed(t *testing.T) {
	path := writeConfig(t, "ignore: [unclosed\n")

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestLoadConfigFromDir(t *testing.T) {
	path := writeConfig(t, "out_dir: site\n")

	cfg, err := LoadConfigFromDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(filepath.Dir(path), "site"), cfg.OutDir)
}

func TestMergeWithFlags(t *testing.T) {
	cfg := DefaultConfig()

	cwd := "/src"
	dry := true
	conc := 8
	level := "error"
	cfg.MergeWithFlags(Flags{
		Cwd:             &cwd,
		DryRun:          &dry,
		Dot:             &dry,
		CaseInsensitive: &dry,
		Concurrency:     &conc,
		LogLevel:        &level,
		Ignore:          []string{"tmp/**"},
	})

	assert.Equal(t, "/src", cfg.Cwd)
	assert.True(t, cfg.DryRun)
	assert.True(t, cfg.Dot)
	assert.True(t, cfg.CaseInsensitive)
	assert.Equal(t, 8, cfg.Concurrency)
	assert.Equal(t, "error", cfg.LogLevel)
	assert.Equal(t, []string{"**/node_modules/**", "**/.git/**", "tmp/**"}, cfg.Ignore)
	assert.Equal(t, "utf8", cfg.Encoding, "unset flags keep config values")
	assert.Equal(t, []string{"**/node_modules/**", "**/.git/**"}, DefaultConfig().Ignore)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"negative concurrency", func(c *Config) { c.Concurrency = -1 }, "concurrency must be >= 0"},
		{"bad log level", func(c *Config) { c.LogLevel = "verbose" }, "invalid log_level"},
		{"bad ext", func(c *Config) { c.Build.Ext = "html" }, "build.ext"},
		{"double ext", func(c *Config) { c.Build.Ext = ".min.js" }, "build.ext"},
		{"unknown encoding", func(c *Config) { c.Encoding = "klingon" }, "unknown encoding"},
		{"bad ignore", func(c *Config) { c.Ignore = []string{"[a"} }, "pattern"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestScanOptions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Cwd = t.TempDir()
	cfg.DryRun = true

	opts, err := cfg.ScanOptions([]string{"**/*.md"}, globread.WithConcurrency(1))
	require.NoError(t, err)
	assert.Len(t, opts, 2)

	_, err = cfg.ScanOptions(nil)
	assert.ErrorIs(t, err, globread.ErrNoPatterns)
}

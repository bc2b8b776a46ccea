package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harrison/globreader/internal/config"
)

// executeCommand runs the root command with args and returns what it wrote
// to stdout and stderr.
func executeCommand(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := NewRootCommand()

	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

// writeTree creates files (slash paths relative to root) with content.
func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0644))
	}
}

// siteFixture returns a small content tree.
func siteFixture(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"a.md":                "---\ntitle: Alpha\ntags: [one, two]\n---\n# Alpha heading\n\nbody\n",
		"docs/b.md":           "# Beta\n\nSee `code`.\n",
		"docs/c.txt":          "plain text\n",
		"node_modules/pkg.md": "# Vendored\n",
	})
	return dir
}

func TestRootCommand(t *testing.T) {
	stdout, _, err := executeCommand(t, "--help")
	require.NoError(t, err)

	assert.Contains(t, stdout, "globreader")
	assert.Contains(t, stdout, "doublestar")
}

func TestRootCommandHasSubcommands(t *testing.T) {
	cmd := NewRootCommand()
	assert.Equal(t, "globreader", cmd.Use)

	var names []string
	for _, c := range cmd.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"list", "build", "check", "clean", "init"} {
		assert.Contains(t, names, want)
	}
}

func TestVersionFlag(t *testing.T) {
	stdout, _, err := executeCommand(t, "--version")
	require.NoError(t, err)
	assert.True(t, strings.Contains(stdout, "version"), stdout)
}

func TestPersistentFlagsValidated(t *testing.T) {
	dir := siteFixture(t)

	_, _, err := executeCommand(t, "list", "**/*.md", "--cwd", dir, "--encoding", "klingon")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")

	_, _, err = executeCommand(t, "list", "**/*.md", "--cwd", dir, "--log-level", "loud")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log_level")
}

func TestConfigFileIsLoaded(t *testing.T) {
	dir := siteFixture(t)
	writeTree(t, dir, map[string]string{
		".globreader.yaml": "ignore: [\"docs/**\"]\n",
	})

	stdout, _, err := executeCommand(t, "list", "**/*.md", "--config", filepath.Join(dir, ".globreader.yaml"))
	require.NoError(t, err)

	// cwd defaults to the config file's directory and the file replaces the
	// default ignores
	assert.Contains(t, stdout, "a.md")
	assert.Contains(t, stdout, "node_modules/pkg.md")
	assert.NotContains(t, stdout, "docs/b.md")
}

func TestSessionIgnoreOutDir(t *testing.T) {
	cwd := filepath.FromSlash("/srv/site")
	tests := []struct {
		out  string
		want string
	}{
		{"dist", "dist/**"},
		{filepath.FromSlash("build/html"), "build/html/**"},
		{filepath.FromSlash("/srv/site/public"), "public/**"},
		{filepath.FromSlash("/srv/other"), ""},
		{".", ""},
	}

	for _, tt := range tests {
		t.Run(tt.out, func(t *testing.T) {
			cfg := config.DefaultConfig()
			cfg.Cwd = cwd
			cfg.OutDir = tt.out
			s := &session{cfg: cfg}
			assert.Equal(t, tt.want, s.ignoreOutDir())
		})
	}
}

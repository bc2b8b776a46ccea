package cmd

import (
	"github.com/spf13/cobra"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// NewRootCommand creates and returns the root cobra command for globreader
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "globreader",
		Short: "Read, check and write files matched by glob patterns",
		Long: `globreader expands glob patterns into virtual files carrying their content,
frontmatter and stat metadata, and runs commands over them.

Patterns use doublestar syntax ("**/*.md"). Patterns starting with "!" are
treated as ignores.

Configuration is loaded from .globreader.yaml in the current directory if
present. CLI flags override configuration file settings.`,
		Version: Version,
		// Silence usage on errors to avoid duplicate help text
		SilenceUsage: true,
	}

	pf := cmd.PersistentFlags()
	pf.String("config", "", "Path to config file (default: ./.globreader.yaml)")
	pf.String("cwd", "", "Directory patterns are matched against")
	pf.StringSlice("ignore", nil, "Additional ignore pattern (repeatable)")
	pf.String("encoding", "", "Text encoding used to decode files (empty string keeps raw bytes)")
	pf.Bool("dry-run", false, "Match files without reading or writing them")
	pf.Bool("dot", false, "Let wildcards match hidden files and directories")
	pf.Bool("ignore-case", false, "Match patterns regardless of letter case")
	pf.Int("concurrency", 0, "Maximum number of parallel file reads (0 = number of CPUs)")
	pf.String("log-level", "", "Log level: trace, debug, info, warn, error")
	pf.String("log-dir", "", "Directory for run logs")
	pf.Bool("no-log-file", false, "Do not write a run log")

	// Add subcommands
	cmd.AddCommand(NewListCommand())
	cmd.AddCommand(NewBuildCommand())
	cmd.AddCommand(NewCheckCommand())
	cmd.AddCommand(NewCleanCommand())
	cmd.AddCommand(NewInitCommand())

	return cmd
}

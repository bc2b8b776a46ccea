package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/harrison/globreader/internal/logger"
	"github.com/harrison/globreader/pkg/globread"
	"github.com/harrison/globreader/pkg/vfile"
)

// NewListCommand creates the list command
func NewListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list <pattern>...",
		Short: "List files matched by glob patterns",
		Long: `List every file matched by the given patterns with its size.

Examples:
  globreader list "**/*.md"
  globreader list "src/**/*.go" "!**/*_test.go" --stats
  globreader list "posts/*.md" --matter`,
		Args: cobra.MinimumNArgs(1),
		RunE: runList,
	}

	cmd.Flags().Bool("stats", false, "Show file mode and modification time")
	cmd.Flags().Bool("matter", false, "Print the frontmatter of each file")

	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd, false)
	if err != nil {
		return err
	}

	stats, _ := cmd.Flags().GetBool("stats")
	showMatter, _ := cmd.Flags().GetBool("matter")

	opts, err := s.scanOptions(args, globread.WithFsStats(stats))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	var summary logger.Summary
	total := 0
	for f, err := range globread.ReadGlobSync(args, opts...) {
		if err != nil {
			summary.Failed++
			s.close(summary)
			return err
		}
		summary.Matched++
		total += f.Bytes()
		s.log.LogFile(logger.FileEvent{Action: logger.ActionRead, Path: f.Path(), Bytes: f.Bytes(), Dry: f.Dry})

		printListing(out, f, stats)
		if showMatter {
			if err := printMatter(out, f); err != nil {
				return err
			}
		}
	}

	fmt.Fprintf(out, "%d %s, %s\n", summary.Matched, plural("file", summary.Matched), humanize.Bytes(uint64(total)))
	summary.Bytes = int64(total)
	s.close(summary)
	return nil
}

func printListing(w io.Writer, f *vfile.File, stats bool) {
	if !stats {
		fmt.Fprintf(w, "%-8s %s\n", f.Size(), f.Path())
		return
	}
	info, ok := f.Stat()
	if !ok {
		fmt.Fprintf(w, "%-8s %-10s %-16s %s\n", f.Size(), "-", "-", f.Path())
		return
	}
	fmt.Fprintf(w, "%-8s %-10s %-16s %s\n", f.Size(), info.Mode().Perm(), humanize.Time(info.ModTime()), f.Path())
}

// printMatter writes the frontmatter as indented YAML. Keys come out
// sorted.
func printMatter(w io.Writer, f *vfile.File) error {
	m := f.Matter()
	if len(m) == 0 {
		return nil
	}
	data, err := yaml.Marshal(map[string]any(m))
	if err != nil {
		return fmt.Errorf("failed to format frontmatter of %s: %w", f.Path(), err)
	}
	for _, line := range strings.Split(strings.TrimRight(string(data), "\n"), "\n") {
		fmt.Fprintf(w, "    %s\n", line)
	}
	return nil
}

func plural(word string, n int) string {
	if n == 1 {
		return word
	}
	return word + "s"
}

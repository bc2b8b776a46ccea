package cmd

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/harrison/globreader/internal/logger"
	"github.com/harrison/globreader/pkg/check"
	"github.com/harrison/globreader/pkg/globread"
	"github.com/harrison/globreader/pkg/message"
	"github.com/harrison/globreader/pkg/reporter"
	"github.com/harrison/globreader/pkg/vfile"
)

// ruleSource tags messages recorded by the check command.
const ruleSource = "globreader"

// NewCheckCommand creates the check command
func NewCheckCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <pattern>...",
		Short: "Check frontmatter of matched files",
		Long: `Check that every matched file defines the required frontmatter keys and
print a report of the findings.

Missing keys are reported as warnings, or as errors with --fatal. The
command fails when any error was reported.

Examples:
  globreader check "posts/**/*.md" --require title --require date
  globreader check "**/*" --only .md --require title --fatal`,
		Args: cobra.MinimumNArgs(1),
		RunE: runCheck,
	}

	cmd.Flags().StringSlice("require", nil, "Frontmatter key every file must define (repeatable)")
	cmd.Flags().String("only", "", "Only check files matching this extension or glob")
	cmd.Flags().Bool("fatal", false, "Report missing keys as errors")
	cmd.Flags().Bool("quiet", false, "Hide files without warnings or errors")
	cmd.Flags().Bool("verbose", false, "Show notes and causes under each message")

	return cmd
}

func runCheck(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd, false)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	require := s.cfg.Check.Require
	if flags.Changed("require") {
		require, _ = flags.GetStringSlice("require")
	}
	onlyRaw := s.cfg.Check.Only
	if flags.Changed("only") {
		onlyRaw, _ = flags.GetString("only")
	}
	if str, ok := onlyRaw.(string); ok && str == "" {
		onlyRaw = nil
	}
	only, err := check.From(onlyRaw)
	if err != nil {
		return fmt.Errorf("invalid only check: %w", err)
	}
	fatal, _ := flags.GetBool("fatal")
	quiet, _ := flags.GetBool("quiet")
	verbose, _ := flags.GetBool("verbose")

	opts, err := s.scanOptions(args)
	if err != nil {
		return err
	}

	var (
		summary logger.Summary
		inputs  []reporter.Input
		all     []*message.Message
	)
	for f, err := range globread.ReadGlobSync(args, opts...) {
		if err != nil {
			s.close(summary)
			return err
		}
		if !f.Is(only) {
			s.log.LogFile(logger.FileEvent{Action: logger.ActionSkipped, Path: f.Path()})
			continue
		}
		summary.Matched++

		checkRequired(f, require, fatal)
		if f.Failed() {
			summary.Failed++
		}
		inputs = append(inputs, f.ReportInput())
		all = append(all, f.Messages...)
	}

	report := reporter.Format(reporter.Options{
		Quiet:   quiet,
		Verbose: verbose,
		Color:   colorFor(cmd),
	}, inputs...)
	if report != "" {
		fmt.Fprintln(cmd.OutOrStdout(), report)
	}
	s.close(summary)

	if stats := reporter.Count(all); stats.Fatal > 0 {
		return fmt.Errorf("check failed: %d %s", stats.Fatal, plural("error", stats.Fatal))
	}
	return nil
}

// checkRequired records a message on f for every required key its
// frontmatter lacks.
func checkRequired(f *vfile.File, require []string, fatal bool) {
	m := f.Matter()
	for _, key := range require {
		if m.Has(key) {
			continue
		}
		reason := fmt.Sprintf("Missing frontmatter key `%s`", key)
		opts := []message.Option{
			message.At(1, 1),
			message.WithRule(ruleSource, "require-matter"),
		}
		if fatal {
			_ = f.Fail(reason, opts...)
		} else {
			f.Message(reason, opts...)
		}
	}
}

// colorFor enables report colors when the command writes to a terminal.
func colorFor(cmd *cobra.Command) *bool {
	enabled := false
	if out, ok := cmd.OutOrStdout().(*os.File); ok {
		enabled = isatty.IsTerminal(out.Fd()) || isatty.IsCygwinTerminal(out.Fd())
	}
	return &enabled
}

package cmd

import (
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/yahsan2/gh-issue-batch/pkg/output"
)

var Version = "dev"

var rootCmd = &cobra.Command{
	Use:   "gh-issue-batch [file]",
	Short: "GitHub CLI extension for creating issues in bulk from a CSV file",
	Long: `A GitHub CLI extension that creates one GitHub issue per row of a CSV file.

The file needs a header row followed by rows with three columns:
title, body and labels. Rows with fewer than three columns or an empty
title are skipped. Issues are created one at a time with a pause between
calls so the GitHub rate limits are respected; a failed row is reported
and the run continues.`,
	Example: `  # Create issues from ./issues.csv
  gh issue-batch

  # Use another file and repository
  gh issue-batch backlog.csv --repo octocat/hello-world

  # Check which rows would be created
  gh issue-batch --dry-run`,
	Version:       Version,
	Args:          cobra.MaximumNArgs(1),
	RunE:          runCreate,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Global flags
var (
	inputFile    string
	repoName     string
	backendName  string
	outputFormat string
	configPath   string
	dryRun       bool
	noColor      bool
	verbose      bool
	delay        time.Duration
	timeout      time.Duration
)

func init() {
	addBatchFlags(rootCmd.PersistentFlags())
}

// addBatchFlags registers the flags shared by every command that reads the CSV file
func addBatchFlags(flags *pflag.FlagSet) {
	flags.StringVarP(&inputFile, "file", "f", "issues.csv", "CSV file to read issues from")
	flags.StringVarP(&repoName, "repo", "R", "", "Repository (owner/repo format)")
	flags.StringVar(&backendName, "backend", "cli", "How issues are created: cli (gh issue create) or api (REST)")
	flags.DurationVar(&delay, "delay", 3*time.Second, "Pause after each issue")
	flags.DurationVar(&timeout, "timeout", 30*time.Second, "Time limit for creating a single issue")
	flags.BoolVar(&dryRun, "dry-run", false, "Print the issues that would be created without creating them")
	flags.StringVarP(&outputFormat, "output", "o", "table", "Output format (table, json)")
	flags.BoolVar(&noColor, "no-color", false, "Disable colored output")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Show debug output")
	flags.StringVar(&configPath, "config", "", "Path to a configuration file (default: nearest .gh-issue-batch.yml)")
}

// resolvedOutput is the output format after the configuration file was applied
var resolvedOutput string

func Execute() int {
	resolvedOutput = ""
	if err := rootCmd.Execute(); err != nil {
		name := outputFormat
		if resolvedOutput != "" {
			name = resolvedOutput
		}
		formatType, _ := output.ParseFormat(name)
		formatter := output.NewFormatterWithWriter(formatType, rootCmd.ErrOrStderr(), false)
		formatter.FormatError(err)
		return 1
	}
	return 0
}

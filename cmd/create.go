package cmd

import (
	"context"
	"io"
	"log/slog"

	"github.com/cli/go-gh/v2/pkg/repository"
	"github.com/spf13/cobra"

	"github.com/yahsan2/gh-issue-batch/pkg/batch"
	"github.com/yahsan2/gh-issue-batch/pkg/config"
	"github.com/yahsan2/gh-issue-batch/pkg/issue"
	"github.com/yahsan2/gh-issue-batch/pkg/logging"
	"github.com/yahsan2/gh-issue-batch/pkg/output"
)

var createCmd = &cobra.Command{
	Use:   "create [file]",
	Short: "Create one issue per row of a CSV file",
	Long: `Create GitHub issues from a CSV file (issues.csv by default).

This command will:
- Skip the header row
- Skip rows with fewer than three columns or an empty title
- Create each remaining row as an issue with its title, body and labels
- Pause after every issue (3s by default) to respect rate limits
- Print a summary of created and failed issues

Running gh issue-batch without a subcommand does the same.`,
	Example: `  # Create issues from issues.csv in the current directory
  gh issue-batch create

  # Create through the REST API with a longer pause
  gh issue-batch create backlog.csv --backend api --repo octocat/hello-world --delay 5s

  # Machine readable result
  gh issue-batch create --output json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCreate,
}

func init() {
	rootCmd.AddCommand(createCmd)
}

// newSubmitter builds the submitter for the configured backend; tests replace it
var newSubmitter = defaultSubmitter

type CreateCommand struct {
	config    *config.Config
	formatter *output.Formatter
	logger    *slog.Logger
	dryRun    bool
}

func runCreate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	applyFlags(cmd, cfg, args)
	resolvedOutput = cfg.Output

	if err := cfg.Validate(); err != nil {
		return issue.NewValidationError("invalid options", err)
	}

	command, err := newCreateCommand(cfg, cmd.OutOrStdout(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	return command.Execute(cmd.Context())
}

func newCreateCommand(cfg *config.Config, out, errOut io.Writer) (*CreateCommand, error) {
	formatType, err := output.ParseFormat(cfg.Output)
	if err != nil {
		return nil, issue.NewValidationError("invalid options", err)
	}

	useColor := !noColor && output.ColorEnabled(out)

	return &CreateCommand{
		config:    cfg,
		formatter: output.NewFormatterWithWriter(formatType, out, useColor),
		logger:    logging.NewVerbose(errOut, verbose),
		dryRun:    dryRun,
	}, nil
}

// Execute creates the issues listed in the configured input file
func (c *CreateCommand) Execute(ctx context.Context) error {
	var submitter issue.Submitter
	if !c.dryRun {
		var err error
		submitter, err = newSubmitter(c.config)
		if err != nil {
			return err
		}
	}

	c.logger.Debug("starting batch",
		"file", c.config.Input,
		"backend", c.config.Backend,
		"repository", c.config.Repository,
		"delay", c.config.Delay,
		"timeout", c.config.Timeout)

	runner := batch.NewRunner(submitter, c.formatter, batch.Options{
		Delay:   c.config.Delay,
		Timeout: c.config.Timeout,
		DryRun:  c.dryRun,
	}).WithLogger(c.logger)

	_, err := runner.RunFile(ctx, c.config.Input)
	return err
}

func loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)

	if configPath != "" {
		cfg, err = config.LoadFile(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, issue.NewConfigurationError("failed to load configuration", err)
	}

	return cfg, nil
}

// applyFlags overrides configuration values with the flags the user set explicitly
func applyFlags(cmd *cobra.Command, cfg *config.Config, args []string) {
	flags := cmd.Flags()

	if flags.Changed("file") {
		cfg.Input = inputFile
	}
	if len(args) > 0 {
		cfg.Input = args[0]
	}
	if flags.Changed("repo") {
		cfg.Repository = repoName
	}
	if flags.Changed("backend") {
		cfg.Backend = backendName
	}
	if flags.Changed("delay") {
		cfg.Delay = delay
	}
	if flags.Changed("timeout") {
		cfg.Timeout = timeout
	}
	if flags.Changed("output") {
		cfg.Output = outputFormat
	}
}

func defaultSubmitter(cfg *config.Config) (issue.Submitter, error) {
	if cfg.Backend != config.BackendAPI {
		return issue.NewCLISubmitter(cfg.Repository), nil
	}

	repo, err := resolveRepository(cfg)
	if err != nil {
		return nil, err
	}
	return issue.NewAPISubmitter(repo, cfg.Timeout)
}

// resolveRepository returns the configured repository or the one of the working directory
func resolveRepository(cfg *config.Config) (repository.Repository, error) {
	if cfg.Repository != "" {
		repo, err := cfg.Repo()
		if err != nil {
			return repository.Repository{}, issue.NewValidationError("invalid options", err)
		}
		return repo, nil
	}

	repo, err := repository.Current()
	if err != nil {
		return repository.Repository{}, issue.NewValidationError("could not determine the target repository, use --repo owner/repo", err)
	}
	return repo, nil
}

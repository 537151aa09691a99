package cmd

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/cli/go-gh/v2/pkg/repository"
	"github.com/spf13/cobra"

	"github.com/yahsan2/gh-issue-batch/pkg/config"
	"github.com/yahsan2/gh-issue-batch/pkg/issue"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize gh-issue-batch configuration",
	Long: `Initialize a new gh-issue-batch configuration file (.gh-issue-batch.yml) in the current directory.

This command will:
- Create a .gh-issue-batch.yml file with the default settings
- Record the current repository when run inside a GitHub checkout
- Optionally write a sample issues.csv with the expected header`,
	Example: `  # Write the default configuration
  gh issue-batch init

  # Also write a sample issues.csv
  gh issue-batch init --sample

  # Overwrite an existing configuration
  gh issue-batch init --force --repo octocat/hello-world`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

var (
	initForce  bool
	initSample bool
)

// sampleRows are written by init --sample
var sampleRows = [][]string{
	{"title", "body", "labels"},
	{"Fix login redirect", "After signing in the user lands on a 404 page.", "bug"},
	{"Add CSV export", "Allow exporting the report table, including \"quoted\" cells, as CSV.", "enhancement,reports"},
}

// currentRepository is replaced in tests
var currentRepository = repository.Current

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing configuration file")
	initCmd.Flags().BoolVar(&initSample, "sample", false, "Also write a sample issues.csv")
}

func runInit(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	if _, err := os.Stat(config.ConfigFileName); err == nil && !initForce {
		fmt.Fprintf(out, "Configuration file %s already exists. Use --force to overwrite it.\n", config.ConfigFileName)
		return nil
	}

	cfg := config.DefaultConfig()
	applyFlags(cmd, cfg, args)

	// Try to detect from current repository first
	if cfg.Repository == "" {
		if repo, err := currentRepository(); err == nil {
			cfg.Repository = fmt.Sprintf("%s/%s", repo.Owner, repo.Name)
		}
	}

	if err := cfg.Validate(); err != nil {
		return issue.NewValidationError("invalid options", err)
	}

	if err := cfg.Save(config.ConfigFileName); err != nil {
		return issue.NewConfigurationError("failed to save configuration", err)
	}
	fmt.Fprintf(out, "✓ Wrote %s\n", config.ConfigFileName)

	if initSample {
		created, err := writeSample(cfg.Input)
		if err != nil {
			return issue.NewInputError(fmt.Sprintf("failed to write %s", cfg.Input), err)
		}
		if created {
			fmt.Fprintf(out, "✓ Wrote %s\n", cfg.Input)
		} else {
			fmt.Fprintf(out, "%s already exists, leaving it untouched\n", cfg.Input)
		}
	}

	return nil
}

// writeSample creates path with sampleRows unless it already exists
func writeSample(path string) (bool, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return false, nil
		}
		return false, err
	}

	if err := writeRows(f, sampleRows); err != nil {
		f.Close()
		return false, err
	}
	return true, f.Close()
}

func writeRows(w io.Writer, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(rows); err != nil {
		return err
	}
	return cw.Error()
}

package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yahsan2/gh-issue-batch/pkg/config"
	"github.com/yahsan2/gh-issue-batch/pkg/issue"
)

// recordingSubmitter creates every issue it is given
type recordingSubmitter struct {
	titles []string
}

func (r *recordingSubmitter) Submit(ctx context.Context, rec *issue.Record) (*issue.Result, error) {
	r.titles = append(r.titles, rec.Title)
	return &issue.Result{Title: rec.Title, Number: len(r.titles)}, nil
}

// newTestCommand returns a command with fresh batch flags parsed from args
func newTestCommand(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	c := &cobra.Command{Use: "test"}
	addBatchFlags(c.Flags())
	require.NoError(t, c.ParseFlags(args))
	return c
}

func stubSubmitter(t *testing.T, s issue.Submitter) {
	t.Helper()
	original := newSubmitter
	newSubmitter = func(cfg *config.Config) (issue.Submitter, error) { return s, nil }
	t.Cleanup(func() { newSubmitter = original })
}

func writeIssuesCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "issues.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name   string
		flags  []string
		args   []string
		expect func(t *testing.T, cfg *config.Config)
	}{
		{
			name:  "no flags keep configuration values",
			flags: []string{},
			expect: func(t *testing.T, cfg *config.Config) {
				assert.Equal(t, "from-config.csv", cfg.Input)
				assert.Equal(t, time.Second, cfg.Delay)
				assert.Equal(t, config.BackendAPI, cfg.Backend)
				assert.Equal(t, "json", cfg.Output)
			},
		},
		{
			name:  "explicit flags win",
			flags: []string{"--file", "flag.csv", "--delay", "5s", "--timeout", "1m", "--backend", "cli", "-o", "table", "-R", "octocat/hello-world"},
			expect: func(t *testing.T, cfg *config.Config) {
				assert.Equal(t, "flag.csv", cfg.Input)
				assert.Equal(t, 5*time.Second, cfg.Delay)
				assert.Equal(t, time.Minute, cfg.Timeout)
				assert.Equal(t, config.BackendCLI, cfg.Backend)
				assert.Equal(t, "table", cfg.Output)
				assert.Equal(t, "octocat/hello-world", cfg.Repository)
			},
		},
		{
			name:  "positional file beats --file",
			flags: []string{"--file", "flag.csv"},
			args:  []string{"arg.csv"},
			expect: func(t *testing.T, cfg *config.Config) {
				assert.Equal(t, "arg.csv", cfg.Input)
			},
		},
		{
			name:  "zero delay is honoured",
			flags: []string{"--delay", "0s"},
			expect: func(t *testing.T, cfg *config.Config) {
				assert.Equal(t, time.Duration(0), cfg.Delay)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.DefaultConfig()
			cfg.Input = "from-config.csv"
			cfg.Delay = time.Second
			cfg.Backend = config.BackendAPI
			cfg.Output = "json"

			applyFlags(newTestCommand(t, tt.flags...), cfg, tt.args)
			tt.expect(t, cfg)
		})
	}
}

func TestCreateCommand_Execute(t *testing.T) {
	submitter := &recordingSubmitter{}
	stubSubmitter(t, submitter)
	newTestCommand(t)

	cfg := config.DefaultConfig()
	cfg.Input = writeIssuesCSV(t, "title,body,labels\nBug A,desc A,bug\n,desc B,bug\nBug C,desc C,enhancement\n")
	cfg.Delay = 0

	var out, errOut bytes.Buffer
	command, err := newCreateCommand(cfg, &out, &errOut)
	require.NoError(t, err)

	require.NoError(t, command.Execute(context.Background()))

	assert.Equal(t, []string{"Bug A", "Bug C"}, submitter.titles)
	assert.Contains(t, out.String(), "✓ Created issue: Bug A...")
	assert.Contains(t, out.String(), "✓ Created issue: Bug C...")
	assert.Contains(t, out.String(), "Total issues processed: 2\nSuccessfully created: 2\nFailed: 0\n")
}

func TestCreateCommand_ExecuteJSON(t *testing.T) {
	submitter := &recordingSubmitter{}
	stubSubmitter(t, submitter)
	newTestCommand(t)

	cfg := config.DefaultConfig()
	cfg.Input = writeIssuesCSV(t, "title,body,labels\nBug A,desc A,bug\nshort,row\n")
	cfg.Delay = 0
	cfg.Output = "json"

	var out, errOut bytes.Buffer
	command, err := newCreateCommand(cfg, &out, &errOut)
	require.NoError(t, err)
	require.NoError(t, command.Execute(context.Background()))

	var summary issue.Summary
	require.NoError(t, json.Unmarshal(out.Bytes(), &summary))
	assert.Equal(t, 1, summary.Total)
	assert.Equal(t, 1, summary.Succeeded)
	assert.Equal(t, 1, summary.Skipped)
	require.Len(t, summary.Issues, 1)
	assert.Equal(t, "Bug A", summary.Issues[0].Title)
}

func TestCreateCommand_DryRunDoesNotBuildSubmitter(t *testing.T) {
	original := newSubmitter
	newSubmitter = func(cfg *config.Config) (issue.Submitter, error) {
		t.Fatal("submitter must not be created in dry-run mode")
		return nil, nil
	}
	t.Cleanup(func() { newSubmitter = original })
	newTestCommand(t, "--dry-run")

	cfg := config.DefaultConfig()
	cfg.Input = writeIssuesCSV(t, "title,body,labels\nBug A,desc A,bug\n")

	var out, errOut bytes.Buffer
	command, err := newCreateCommand(cfg, &out, &errOut)
	require.NoError(t, err)
	require.NoError(t, command.Execute(context.Background()))

	assert.Contains(t, out.String(), "• Would create issue: Bug A... (labels: bug)")
}

func TestCreateCommand_MissingFile(t *testing.T) {
	stubSubmitter(t, &recordingSubmitter{})
	newTestCommand(t)

	cfg := config.DefaultConfig()
	cfg.Input = filepath.Join(t.TempDir(), "issues.csv")

	var out, errOut bytes.Buffer
	command, err := newCreateCommand(cfg, &out, &errOut)
	require.NoError(t, err)

	err = command.Execute(context.Background())
	require.Error(t, err)
	assert.True(t, issue.IsInput(err))
	assert.Contains(t, err.Error(), "Could not find file '"+cfg.Input+"'")
	assert.Empty(t, out.String())
}

func TestExecute_MissingFileExitsWithOne(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "issues.csv")

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs([]string{missing, "--no-color"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	code := Execute()

	assert.Equal(t, 1, code)
	assert.Equal(t, "Error: Could not find file '"+missing+"'\n", errOut.String())
}

// brokenSubmitter fails the way a missing gh executable does
type brokenSubmitter struct{}

func (brokenSubmitter) Submit(ctx context.Context, rec *issue.Record) (*issue.Result, error) {
	return nil, errors.New(`could not find gh executable in PATH. error: exec: "gh": executable file not found in $PATH`)
}

func TestExecute_SubmitterThatCannotStartExitsWithOne(t *testing.T) {
	stubSubmitter(t, brokenSubmitter{})
	path := writeIssuesCSV(t, "title,body,labels\nBug A,desc A,bug\nBug B,desc B,bug\n")

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs([]string{path, "--no-color", "--delay", "0s"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	code := Execute()

	assert.Equal(t, 1, code)
	assert.Contains(t, errOut.String(), `Error: could not find gh executable in PATH`)
	assert.NotContains(t, out.String(), "Unknown error")
	assert.NotContains(t, out.String(), "Total issues processed")
}

func TestExecute_ErrorFormatFollowsConfigFile(t *testing.T) {
	dir := t.TempDir()
	configFile := filepath.Join(dir, "batch.yml")
	require.NoError(t, os.WriteFile(configFile, []byte("output: json\n"), 0644))
	missing := filepath.Join(dir, "issues.csv")

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs([]string{missing, "--config", configFile})
	t.Cleanup(func() {
		configPath = ""
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	code := Execute()

	assert.Equal(t, 1, code)
	var payload map[string]string
	require.NoError(t, json.Unmarshal(errOut.Bytes(), &payload))
	assert.Equal(t, "Could not find file '"+missing+"'", payload["error"])
}

func TestResolveRepository_Configured(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Repository = "octocat/hello-world"

	repo, err := resolveRepository(cfg)
	require.NoError(t, err)
	assert.Equal(t, "octocat", repo.Owner)
	assert.Equal(t, "hello-world", repo.Name)
}

func TestDefaultSubmitter_CLIBackend(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Repository = "octocat/hello-world"

	s, err := defaultSubmitter(cfg)
	require.NoError(t, err)

	cli, ok := s.(*issue.CLISubmitter)
	require.True(t, ok)
	assert.Contains(t, cli.Args(&issue.Record{Title: "x"}), "octocat/hello-world")
}

package issue

import (
	"bytes"
	"context"
	"errors"
	"os/exec"

	gh "github.com/cli/go-gh/v2"
)

// Submitter creates a single issue
type Submitter interface {
	Submit(ctx context.Context, rec *Record) (*Result, error)
}

// ExecFunc runs gh with the given arguments and returns its captured output
type ExecFunc func(ctx context.Context, args ...string) (stdout, stderr bytes.Buffer, err error)

// CLISubmitter creates issues by running `gh issue create`
type CLISubmitter struct {
	repo string
	exec ExecFunc
}

// NewCLISubmitter creates a submitter that shells out to the gh executable.
// An empty repo lets gh pick the repository of the working directory.
func NewCLISubmitter(repo string) *CLISubmitter {
	return NewCLISubmitterWithExec(repo, gh.ExecContext)
}

// NewCLISubmitterWithExec creates a submitter with a custom command runner
func NewCLISubmitterWithExec(repo string, exec ExecFunc) *CLISubmitter {
	return &CLISubmitter{
		repo: repo,
		exec: exec,
	}
}

// Args returns the gh arguments used to create rec
func (s *CLISubmitter) Args(rec *Record) []string {
	args := []string{"issue", "create", "--title", rec.Title, "--body", rec.Body}

	// gh rejects an empty --label value
	if rec.Labels != "" {
		args = append(args, "--label", rec.Labels)
	}

	if s.repo != "" {
		args = append(args, "--repo", s.repo)
	}

	return args
}

// Submit runs gh issue create for rec.
// Only a timeout or a non-zero exit of gh is reported as a failure of rec;
// any other error (gh missing, not executable) is returned as is.
func (s *CLISubmitter) Submit(ctx context.Context, rec *Record) (*Result, error) {
	stdout, stderr, err := s.exec(ctx, s.Args(rec)...)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, NewTimeoutError(err)
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, NewCommandError(stderr.String(), err)
		}
		return nil, err
	}

	url, number := ParseIssueURL(stdout.String())
	return &Result{
		Title:  rec.Title,
		Number: number,
		URL:    url,
		Line:   rec.Line,
	}, nil
}

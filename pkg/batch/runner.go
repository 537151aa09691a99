// Package batch creates one issue per CSV row, one at a time.
package batch

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/yahsan2/gh-issue-batch/pkg/csvfile"
	"github.com/yahsan2/gh-issue-batch/pkg/issue"
	"github.com/yahsan2/gh-issue-batch/pkg/logging"
	"github.com/yahsan2/gh-issue-batch/pkg/output"
)

const (
	// DefaultDelay is the pause after every submission attempt
	DefaultDelay = 3 * time.Second
	// DefaultTimeout bounds a single submission
	DefaultTimeout = 30 * time.Second
)

// Options controls a batch run
type Options struct {
	Delay   time.Duration
	Timeout time.Duration
	DryRun  bool
}

// DefaultOptions returns the options used when nothing is configured
func DefaultOptions() Options {
	return Options{
		Delay:   DefaultDelay,
		Timeout: DefaultTimeout,
	}
}

// RowSource yields CSV data rows until io.EOF
type RowSource interface {
	Next() (*csvfile.Row, error)
}

// SleepFunc blocks for d or until ctx is done
type SleepFunc func(ctx context.Context, d time.Duration) error

// Runner submits the rows of a CSV file
type Runner struct {
	submitter issue.Submitter
	formatter *output.Formatter
	logger    *slog.Logger
	sleep     SleepFunc
	opts      Options
}

// NewRunner creates a new runner
func NewRunner(submitter issue.Submitter, formatter *output.Formatter, opts Options) *Runner {
	return &Runner{
		submitter: submitter,
		formatter: formatter,
		logger:    logging.Discard(),
		sleep:     Sleep,
		opts:      opts,
	}
}

// WithLogger sets the diagnostics logger
func (r *Runner) WithLogger(logger *slog.Logger) *Runner {
	r.logger = logger
	return r
}

// WithSleep replaces the pause between submissions
func (r *Runner) WithSleep(sleep SleepFunc) *Runner {
	r.sleep = sleep
	return r
}

// Sleep waits for d unless ctx is cancelled first
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// RunFile opens path and processes every row in it
func (r *Runner) RunFile(ctx context.Context, path string) (*issue.Summary, error) {
	src, err := csvfile.Open(path)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	r.logger.Debug("reading issues", "file", path)
	return r.Run(ctx, src)
}

// Run processes every row of src and prints the summary.
// Row failures are counted; errors reading src, submitter errors that are not
// recoverable and a cancelled ctx abort the run.
func (r *Runner) Run(ctx context.Context, src RowSource) (*issue.Summary, error) {
	summary := issue.NewSummary()
	summary.DryRun = r.opts.DryRun

	for {
		row, err := src.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return summary, err
		}

		rec, err := issue.FromRow(row.Fields, row.Line)
		if err != nil {
			summary.Skipped++
			r.logger.Debug("skipping row", "line", row.Line, "reason", err)
			continue
		}

		summary.Total++
		r.formatter.Processing(summary.Total, rec)

		if r.opts.DryRun {
			r.formatter.Planned(rec)
			continue
		}

		if err := r.submitOne(ctx, summary, rec); err != nil {
			return summary, err
		}

		if err := r.sleep(ctx, r.opts.Delay); err != nil {
			return summary, err
		}
	}

	r.logger.Debug("batch finished",
		"total", summary.Total,
		"succeeded", summary.Succeeded,
		"failed", summary.Failed,
		"skipped", summary.Skipped)

	if err := r.formatter.FormatSummary(summary); err != nil {
		return summary, err
	}
	return summary, nil
}

func (r *Runner) submitOne(ctx context.Context, summary *issue.Summary, rec *issue.Record) error {
	callCtx := ctx
	if r.opts.Timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, r.opts.Timeout)
		defer cancel()
	}

	result, err := r.submitter.Submit(callCtx, rec)
	if err != nil && !issue.IsRecoverable(err) {
		r.logger.Debug("aborting batch", "line", rec.Line, "error", err)
		return err
	}
	if err != nil {
		r.logger.Debug("issue creation failed", "line", rec.Line, "title", rec.Title, "error", err)
		summary.AddFailure(summary.Total, rec, err)
		r.formatter.Failure(rec, err)
		return nil
	}

	if result != nil && result.URL != "" {
		r.logger.Debug("issue created", "line", rec.Line, "url", result.URL)
	}
	summary.AddSuccess(result)
	r.formatter.Success(rec, result)
	return nil
}

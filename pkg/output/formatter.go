package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/yahsan2/gh-issue-batch/pkg/issue"
)

// FormatType represents the output format type
type FormatType int

const (
	// FormatTable outputs human readable progress lines and a summary block
	FormatTable FormatType = iota
	// FormatJSON outputs the batch result as JSON
	FormatJSON
)

// TitleWidth is the number of title characters shown in progress lines
const TitleWidth = 50

const (
	successMark = "✓"
	failureMark = "✗"
)

// ParseFormat converts a format name into a FormatType
func ParseFormat(name string) (FormatType, error) {
	switch strings.ToLower(name) {
	case "", "table":
		return FormatTable, nil
	case "json":
		return FormatJSON, nil
	default:
		return FormatTable, fmt.Errorf("unknown output format '%s': must be table or json", name)
	}
}

// Formatter handles output formatting
type Formatter struct {
	format  FormatType
	writer  io.Writer
	success *color.Color
	failure *color.Color
}

// NewFormatter creates a new formatter writing to stdout
func NewFormatter(format FormatType) *Formatter {
	return NewFormatterWithWriter(format, os.Stdout, ColorEnabled(os.Stdout))
}

// NewFormatterWithWriter creates a new formatter with custom writer
func NewFormatterWithWriter(format FormatType, writer io.Writer, useColor bool) *Formatter {
	f := &Formatter{
		format:  format,
		writer:  writer,
		success: color.New(color.FgGreen),
		failure: color.New(color.FgRed),
	}
	if useColor {
		f.success.EnableColor()
		f.failure.EnableColor()
	} else {
		f.success.DisableColor()
		f.failure.DisableColor()
	}
	return f
}

// ColorEnabled reports whether w is a terminal that should receive colors
func ColorEnabled(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Truncate shortens s to at most n characters
func Truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

func short(title string) string {
	return Truncate(title, TitleWidth)
}

// Processing announces the issue about to be submitted
func (f *Formatter) Processing(index int, rec *issue.Record) {
	if f.format != FormatTable {
		return
	}
	fmt.Fprintf(f.writer, "\nProcessing issue %d: %s...\n", index, short(rec.Title))
}

// Planned reports an issue that would be created in dry-run mode
func (f *Formatter) Planned(rec *issue.Record) {
	if f.format != FormatTable {
		return
	}
	labels := rec.Labels
	if labels == "" {
		labels = "-"
	}
	fmt.Fprintf(f.writer, "• Would create issue: %s... (labels: %s)\n", short(rec.Title), labels)
}

// Success reports a created issue
func (f *Formatter) Success(rec *issue.Record, result *issue.Result) {
	if f.format != FormatTable {
		return
	}
	fmt.Fprintf(f.writer, "%s Created issue: %s...\n", f.success.Sprint(successMark), short(rec.Title))
}

// Failure reports an issue that could not be created
func (f *Formatter) Failure(rec *issue.Record, err error) {
	if f.format != FormatTable {
		return
	}
	mark := f.failure.Sprint(failureMark)
	if issue.IsTimeout(err) {
		fmt.Fprintf(f.writer, "%s Timeout creating issue '%s...': %s\n", mark, short(rec.Title), issue.Reason(err))
		return
	}
	fmt.Fprintf(f.writer, "%s Failed to create issue '%s...': %s\n", mark, short(rec.Title), issue.Reason(err))
}

// FormatSummary writes the totals of a batch run
func (f *Formatter) FormatSummary(summary *issue.Summary) error {
	switch f.format {
	case FormatJSON:
		return f.formatSummaryJSON(summary)
	default:
		return f.formatSummaryTable(summary)
	}
}

// formatSummaryTable writes the summary block
func (f *Formatter) formatSummaryTable(summary *issue.Summary) error {
	var b strings.Builder

	fmt.Fprintf(&b, "\n%s\n", strings.Repeat("=", TitleWidth))
	if summary.DryRun {
		fmt.Fprintf(&b, "Dry run: no issues were created\n")
	}
	fmt.Fprintf(&b, "Total issues processed: %d\n", summary.Total)
	fmt.Fprintf(&b, "Successfully created: %d\n", summary.Succeeded)
	fmt.Fprintf(&b, "Failed: %d\n", summary.Failed)

	_, err := io.WriteString(f.writer, b.String())
	return err
}

// formatSummaryJSON formats batch results as JSON
func (f *Formatter) formatSummaryJSON(summary *issue.Summary) error {
	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(summary)
}

// FormatError formats a fatal error for output
func (f *Formatter) FormatError(err error) error {
	if f.format == FormatJSON {
		errorData := map[string]string{
			"error": err.Error(),
		}

		// If it's an IssueError, include more details
		if issueErr, ok := err.(*issue.IssueError); ok {
			errorData["error"] = issueErr.Message
			errorData["type"] = fmt.Sprintf("%d", issueErr.Type)
			if issueErr.Suggestion != "" {
				errorData["suggestion"] = issueErr.Suggestion
			}
		}

		encoder := json.NewEncoder(f.writer)
		encoder.SetIndent("", "  ")
		return encoder.Encode(errorData)
	}

	_, printErr := fmt.Fprintf(f.writer, "Error: %s\n", err.Error())
	return printErr
}

package issue

import (
	"errors"
	"strconv"
	"strings"
)

// MinFields is the number of leading CSV columns a row must carry: title, body and labels
const MinFields = 3

var (
	// ErrShortRow is returned for rows with fewer than MinFields fields
	ErrShortRow = errors.New("row has fewer than 3 fields")
	// ErrEmptyTitle is returned for rows whose title is blank after trimming
	ErrEmptyTitle = errors.New("issue title is required")
)

// Record represents one issue to create, built from a single CSV row
type Record struct {
	Title  string `json:"title"`
	Body   string `json:"body"`
	Labels string `json:"labels"`
	Line   int    `json:"line,omitempty"`
}

// Result represents an issue that was created from a Record
type Result struct {
	Title  string `json:"title"`
	Number int    `json:"number,omitempty"`
	URL    string `json:"url,omitempty"`
	Line   int    `json:"line,omitempty"`
}

// FromRow builds a Record from the fields of a CSV row.
// Fields beyond the third are ignored.
func FromRow(fields []string, line int) (*Record, error) {
	if len(fields) < MinFields {
		return nil, ErrShortRow
	}

	rec := &Record{
		Title:  strings.TrimSpace(fields[0]),
		Body:   strings.TrimSpace(fields[1]),
		Labels: strings.TrimSpace(fields[2]),
		Line:   line,
	}

	if err := rec.Validate(); err != nil {
		return nil, err
	}

	return rec, nil
}

// Validate checks if the record can be submitted
func (r *Record) Validate() error {
	if r.Title == "" {
		return ErrEmptyTitle
	}
	return nil
}

// LabelList splits the label cell into individual label names
func (r *Record) LabelList() []string {
	if r.Labels == "" {
		return nil
	}

	labels := make([]string, 0)
	for _, label := range strings.Split(r.Labels, ",") {
		label = strings.TrimSpace(label)
		if label != "" {
			labels = append(labels, label)
		}
	}
	return labels
}

// ParseIssueURL finds the first issue URL in gh output and returns it with its number
func ParseIssueURL(output string) (string, int) {
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if !strings.Contains(line, "/issues/") {
			continue
		}

		parts := strings.SplitN(line, "/issues/", 2)
		numStr := parts[1]
		for i, ch := range numStr {
			if ch < '0' || ch > '9' {
				numStr = numStr[:i]
				break
			}
		}
		if num, err := strconv.Atoi(numStr); err == nil {
			return line, num
		}
	}
	return "", 0
}

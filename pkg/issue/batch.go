package issue

// Summary represents the outcome of a batch run
type Summary struct {
	Total     int          `json:"total"`
	Succeeded int          `json:"succeeded"`
	Failed    int          `json:"failed"`
	Skipped   int          `json:"skipped"`
	DryRun    bool         `json:"dry_run,omitempty"`
	Issues    []*Result    `json:"issues"`
	Errors    []BatchError `json:"errors,omitempty"`
}

// BatchError represents an error during batch processing
type BatchError struct {
	Index int    `json:"index"`
	Line  int    `json:"line,omitempty"`
	Title string `json:"title"`
	Error string `json:"error"`
}

// NewSummary creates an empty summary
func NewSummary() *Summary {
	return &Summary{
		Issues: []*Result{},
	}
}

// AddSuccess records a created issue
func (s *Summary) AddSuccess(result *Result) {
	s.Succeeded++
	if result != nil {
		s.Issues = append(s.Issues, result)
	}
}

// AddFailure records a failed submission for the issue at index
func (s *Summary) AddFailure(index int, rec *Record, err error) {
	s.Failed++
	s.Errors = append(s.Errors, BatchError{
		Index: index,
		Line:  rec.Line,
		Title: rec.Title,
		Error: Reason(err),
	})
}

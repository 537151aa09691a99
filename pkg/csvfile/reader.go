// Package csvfile reads issue rows from a CSV file with a header row.
package csvfile

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/yahsan2/gh-issue-batch/pkg/issue"
)

// DefaultFileName is the input file read when none is given
const DefaultFileName = "issues.csv"

// Row is one data row of the file
type Row struct {
	Line   int
	Fields []string
}

// Reader iterates over the data rows of a CSV file
type Reader struct {
	path string
	file io.Closer
	csv  *csv.Reader
}

// Open opens path and consumes its header row
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, issue.NewNotFoundError(path)
		}
		return nil, issue.NewInputError(fmt.Sprintf("failed to open %s", path), err)
	}

	r, err := newReader(path, f, f)
	if err != nil {
		f.Close()
		return nil, err
	}
	return r, nil
}

// NewReader reads rows from src; the header row is consumed immediately
func NewReader(name string, src io.Reader) (*Reader, error) {
	return newReader(name, src, nil)
}

func newReader(path string, src io.Reader, closer io.Closer) (*Reader, error) {
	cr := csv.NewReader(src)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	if _, err := cr.Read(); err != nil {
		if err == io.EOF {
			return nil, issue.NewInputError(fmt.Sprintf("%s is empty: a header row is required", path), nil)
		}
		return nil, issue.NewInputError(fmt.Sprintf("failed to read header of %s", path), err)
	}

	return &Reader{
		path: path,
		file: closer,
		csv:  cr,
	}, nil
}

// Next returns the next data row, or io.EOF when the file is exhausted
func (r *Reader) Next() (*Row, error) {
	fields, err := r.csv.Read()
	if err == io.EOF {
		return nil, io.EOF
	}
	if err != nil {
		return nil, issue.NewInputError(fmt.Sprintf("failed to read %s", r.path), err)
	}

	line, _ := r.csv.FieldPos(0)
	return &Row{
		Line:   line,
		Fields: fields,
	}, nil
}

// Path returns the name the reader was opened with
func (r *Reader) Path() string {
	return r.path
}

// Close releases the underlying file
func (r *Reader) Close() error {
	if r.file == nil {
		return nil
	}
	err := r.file.Close()
	r.file = nil
	return err
}

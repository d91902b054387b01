package dataset

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinels for errors.Is checks against the typed errors below.
var (
	ErrParse          = errors.New("malformed payload")
	ErrMissingColumns = errors.New("missing required columns")
	ErrEmptyDataset   = errors.New("empty dataset")
	ErrInvalidDate    = errors.New("invalid date")
)

// ParseError indicates the payload is not well-formed tabular data. Fatal to the load.
type ParseError struct {
	Name string
	Err  error
}

func (e *ParseError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("cannot read %s as tabular data: %v", e.Name, e.Err)
	}
	return fmt.Sprintf("cannot read payload as tabular data: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

func (e *ParseError) Is(target error) bool { return target == ErrParse }

// MissingColumnsError lists the required columns absent from a payload header.
type MissingColumnsError struct {
	Missing []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("missing expected columns: %s", strings.Join(e.Missing, ", "))
}

func (e *MissingColumnsError) Is(target error) bool { return target == ErrMissingColumns }

// EmptyDatasetError reports that no rows survived loading. It accompanies a
// valid, empty dataset; callers should render placeholders rather than fail.
type EmptyDatasetError struct {
	Name   string
	Window bool
	Start  Date
	End    Date
}

func (e *EmptyDatasetError) Error() string {
	if e.Window {
		return fmt.Sprintf("%s: no rows dated within %s..%s", e.label(), e.Start, e.End)
	}
	return fmt.Sprintf("%s: no data rows", e.label())
}

func (e *EmptyDatasetError) label() string {
	if e.Name == "" {
		return "dataset"
	}
	return e.Name
}

func (e *EmptyDatasetError) Is(target error) bool { return target == ErrEmptyDataset }

// InvalidDateError describes one row whose date was replaced by InvalidDate.
// It is collected per record and never returned from a load.
type InvalidDateError struct {
	Row   int
	Value string
}

func (e *InvalidDateError) Error() string {
	return fmt.Sprintf("row %d: cannot parse date %q", e.Row, e.Value)
}

func (e *InvalidDateError) Is(target error) bool { return target == ErrInvalidDate }

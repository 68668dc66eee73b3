package pipeline

import (
	"errors"
	"strings"
)

// ErrNoHeader means the billing export's column header row was never found;
// the file is almost certainly the wrong export.
var ErrNoHeader = errors.New("could not find column headers in file")

// ErrNoRecords means zero rows survived parsing across the whole billing file.
var ErrNoRecords = errors.New("no valid records could be processed from the file")

// SchemaError reports required columns missing from a detected header.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return "missing required columns: " + strings.Join(e.Missing, ", ")
}

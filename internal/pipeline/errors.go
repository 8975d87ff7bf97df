package pipeline

import (
	"errors"
	"fmt"
)

// Pipeline errors.
var (
	// ErrEmptyMapping is returned when normalization is requested without any column mapping.
	ErrEmptyMapping = errors.New("column mapping must not be empty")

	// ErrPrecondition is returned when aggregation is invoked on a table that was not validated.
	ErrPrecondition = errors.New("table does not satisfy aggregation preconditions")

	// ErrNoColumnsMatched is returned when none of the configured synonyms match a file's header.
	ErrNoColumnsMatched = errors.New("no column matches the configured mappings")
)

// FileError reports a failure isolated to a single input file.
type FileError struct {
	Source string // file name or URI
	Stage  string // step that failed, e.g. "read", "mapping"
	Err    error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Source, e.Stage, e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}

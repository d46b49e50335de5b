package camsfolio

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation classifies uploads rejected before extraction: wrong extension,
	// oversize or not a PDF.
	ErrValidation = errors.New("invalid statement file")
	// ErrIngestion classifies uploads that passed validation but could not be read:
	// missing or wrong password, corrupt file, unsupported layout.
	ErrIngestion = errors.New("cannot read statement")
	// ErrNoData is reported once when no uploaded file produced a single transaction.
	ErrNoData = errors.New("no transaction found in the uploaded statements")
)

// FileError is a per-file failure. It wraps ErrValidation or ErrIngestion.
type FileError struct {
	File string
	Err  error
}

func (e *FileError) Error() string { return fmt.Sprintf("%s: %v", e.File, e.Err) }
func (e *FileError) Unwrap() error { return e.Err }

// Kind returns "validation", "ingestion" or "error".
func (e *FileError) Kind() string {
	switch {
	case errors.Is(e.Err, ErrValidation):
		return "validation"
	case errors.Is(e.Err, ErrIngestion):
		return "ingestion"
	default:
		return "error"
	}
}

// Gap is a data quality finding on a statement row. Gaps are never fatal.
type Gap struct {
	Source string `json:"source"`
	Row    int    `json:"row"` // 1-based within its source
	Field  string `json:"field"`
	Value  string `json:"value"`
	Reason string `json:"reason"`
}

func (g Gap) String() string {
	return fmt.Sprintf("%s:%d: %s %q: %s", g.Source, g.Row, g.Field, g.Value, g.Reason)
}

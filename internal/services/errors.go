package services

import (
	"errors"
	"fmt"

	"github.com/ashmitsharp/dataexplorer-api/internal/models"
)

// Messages shown inline on the explorer page
const (
	MsgUnsupportedFormat  = "Unsupported file format."
	MsgNoUpload           = "Please upload a file to get started."
	MsgNoNumericDescribe  = "No numeric columns to describe."
	MsgNeedTwoCorrelation = "Need at least 2 numeric columns for correlation."
	MsgNeedTwoScatter     = "Need at least 2 numeric columns for scatter plot."
	MsgNoCategorical      = "No categorical columns found."
	MsgNoNumericHistogram = "No numeric columns available for histogram."
)

// ErrUnsupportedFormat is returned when a filename suffix is not one of the supported formats
var ErrUnsupportedFormat = errors.New("unsupported file format")

// ParseError wraps a decoder failure for a file with a supported suffix
type ParseError struct {
	Format models.Format
	Err    error
}

func (e *ParseError) Error() string {
	return e.Err.Error()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// GuardError reports that a chart cannot be drawn for the current table.
// It is a warning: the rest of the report is unaffected.
type GuardError struct {
	Kind    models.ChartKind
	Message string
}

func (e *GuardError) Error() string {
	return e.Message
}

func newGuardError(kind models.ChartKind, format string, args ...any) *GuardError {
	return &GuardError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// UserMessage converts an ingestion error into the banner text shown to the user
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, ErrUnsupportedFormat) {
		return MsgUnsupportedFormat
	}
	var guard *GuardError
	if errors.As(err, &guard) {
		return guard.Message
	}
	return fmt.Sprintf("Error processing file: %v", err)
}

package outline

import (
	"errors"
	"fmt"
)

var (
	// ErrEngineUnavailable is returned when no decoding engine was supplied.
	ErrEngineUnavailable = errors.New("pdf engine unavailable")

	// ErrOpen is returned when the engine could not open the document.
	ErrOpen = errors.New("failed to open document")

	// ErrInvalidSpan is returned for a span whose fields cannot be used.
	ErrInvalidSpan = errors.New("invalid span")
)

// AnalysisError is the single failure type surfaced by the analyzer.
// Use errors.Is against the sentinel errors above to tell kinds apart.
type AnalysisError struct {
	Op  string // "engine", "open", "page", "span"
	Err error
}

func (e *AnalysisError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *AnalysisError) Unwrap() error {
	return e.Err
}

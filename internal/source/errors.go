package source

import (
	"errors"
	"fmt"
)

// Kind categorizes a retrieval failure
type Kind string

const (
	// KindNetwork indicates a transport error, timeout, or non-success status
	KindNetwork Kind = "network"
	// KindMalformed indicates a response that arrived but did not match the
	// expected envelope (missing result, missing quote arrays)
	KindMalformed Kind = "malformed"
	// KindEmpty indicates a well-formed response with zero usable bars
	KindEmpty Kind = "empty"
	// KindInvalidAnchor indicates a non-positive first close that prevents
	// return computation
	KindInvalidAnchor Kind = "invalid_anchor"
	// KindUnavailable indicates every configured strategy failed for a symbol
	KindUnavailable Kind = "unavailable"
)

// SourceError is a structured failure from the retrieval pipeline. All
// kinds are recoverable at the per-symbol level: they are absorbed by the
// fallback and batch layers, never propagated as faults.
type SourceError struct {
	Kind       Kind
	StatusCode int
	Message    string
	Cause      error
}

// Error implements the error interface
func (e *SourceError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s error (status %d): %s", e.Kind, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s error: %s", e.Kind, e.Message)
}

// Unwrap implements error unwrapping for errors.Is and errors.As
func (e *SourceError) Unwrap() error {
	return e.Cause
}

// NewNetworkError wraps a transport-level failure
func NewNetworkError(cause error) *SourceError {
	return &SourceError{
		Kind:    KindNetwork,
		Message: "network request failed",
		Cause:   cause,
	}
}

// NewStatusError reports a non-success HTTP status
func NewStatusError(statusCode int) *SourceError {
	return &SourceError{
		Kind:       KindNetwork,
		StatusCode: statusCode,
		Message:    "upstream returned a non-success status",
	}
}

// NewMalformedError reports a schema mismatch in the upstream response
func NewMalformedError(message string) *SourceError {
	return &SourceError{
		Kind:    KindMalformed,
		Message: message,
	}
}

// NewEmptyError reports a response with no usable bars
func NewEmptyError(message string) *SourceError {
	return &SourceError{
		Kind:    KindEmpty,
		Message: message,
	}
}

// NewInvalidAnchorError reports a first close that cannot anchor a return
// series
func NewInvalidAnchorError(close0 float64) *SourceError {
	return &SourceError{
		Kind:    KindInvalidAnchor,
		Message: fmt.Sprintf("first close %v cannot anchor a return series", close0),
	}
}

// NewUnavailableError marks a symbol as unavailable after every strategy
// failed, keeping the last failure as the cause
func NewUnavailableError(cause error) *SourceError {
	return &SourceError{
		Kind:    KindUnavailable,
		Message: "all sources failed",
		Cause:   cause,
	}
}

// IsKind reports whether err is a SourceError of the given kind
func IsKind(err error, k Kind) bool {
	var se *SourceError
	return errors.As(err, &se) && se.Kind == k
}

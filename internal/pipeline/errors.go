package pipeline

import (
	"errors"
	"fmt"

	"github.com/jonathan/jd-enhancer/internal/kg"
	"github.com/jonathan/jd-enhancer/internal/types"
)

// ErrorKind classifies fatal enhancement failures.
type ErrorKind string

// Fatal failure kinds. Extraction and regeneration failures are recoverable
// and never surface here; only upstream graph failures abort a run.
const (
	ErrUpstreamTimeout     ErrorKind = "upstream_timeout"
	ErrUpstreamUnavailable ErrorKind = "upstream_unavailable"
	ErrMalformedUpstream   ErrorKind = "malformed_upstream_response"
	ErrInvalidInput        ErrorKind = "invalid_input"
)

// EnhancementError is a fatal pipeline failure. Partial carries whatever the
// run produced before the failing stage, so callers can report progress
// (extracted keywords, resolved skills) alongside the error.
type EnhancementError struct {
	Kind    ErrorKind
	Stage   string
	Partial *types.EnhancementResult
	Cause   error
}

func (e *EnhancementError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("enhancement failed at %s stage (%s): %v", e.Stage, e.Kind, e.Cause)
	}
	return fmt.Sprintf("enhancement failed at %s stage (%s)", e.Stage, e.Kind)
}

func (e *EnhancementError) Unwrap() error {
	return e.Cause
}

// fatal wraps an upstream failure with its classification and the partial
// state accumulated so far.
func fatal(stage string, partial *types.EnhancementResult, cause error) *EnhancementError {
	return &EnhancementError{
		Kind:    classifyCause(cause),
		Stage:   stage,
		Partial: partial,
		Cause:   cause,
	}
}

func classifyCause(err error) ErrorKind {
	var gerr *kg.GatewayError
	if errors.As(err, &gerr) {
		switch gerr.Class {
		case kg.FailureTimeout:
			return ErrUpstreamTimeout
		case kg.FailureConnection:
			return ErrUpstreamUnavailable
		default:
			return ErrMalformedUpstream
		}
	}
	return ErrMalformedUpstream
}

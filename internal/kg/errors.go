package kg

import (
	"context"
	"errors"
	"fmt"
	"net"
	"syscall"
)

// FailureClass categorizes a gateway failure. Every error leaving this
// package carries exactly one class so callers can decide on fallback
// behavior without string matching.
type FailureClass string

// Failure classes for gateway errors
const (
	// FailureTimeout means the query exceeded the configured deadline
	FailureTimeout FailureClass = "timeout"
	// FailureConnection means the endpoint could not be reached
	FailureConnection FailureClass = "connection_refused"
	// FailureMalformed means the endpoint answered with an unparseable response
	FailureMalformed FailureClass = "malformed_response"
)

// GatewayError is the typed error returned by all gateway operations.
type GatewayError struct {
	Class FailureClass
	Op    string
	Cause error
}

func (e *GatewayError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("knowledge graph %s failed (%s): %v", e.Op, e.Class, e.Cause)
	}
	return fmt.Sprintf("knowledge graph %s failed (%s)", e.Op, e.Class)
}

func (e *GatewayError) Unwrap() error {
	return e.Cause
}

// classify wraps a transport or parse error with its failure class.
func classify(op string, err error) *GatewayError {
	return &GatewayError{Class: classOf(err), Op: op, Cause: err}
}

func classOf(err error) FailureClass {
	if errors.Is(err, context.DeadlineExceeded) {
		return FailureTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return FailureTimeout
	}
	if errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.EHOSTUNREACH) {
		return FailureConnection
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return FailureConnection
	}
	return FailureMalformed
}

// malformed builds a malformed-response error without an underlying cause.
func malformed(op, message string) *GatewayError {
	return &GatewayError{Class: FailureMalformed, Op: op, Cause: errors.New(message)}
}

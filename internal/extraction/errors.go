package extraction

import "fmt"

// APICallError represents a failure calling the text-generation service.
type APICallError struct {
	Message string
	Cause   error
}

func (e *APICallError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("extraction call failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("extraction call failed: %s", e.Message)
}

func (e *APICallError) Unwrap() error {
	return e.Cause
}

// ParseError represents malformed output from the text-generation service.
type ParseError struct {
	Message string
	Cause   error
}

func (e *ParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("extraction parse error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("extraction parse error: %s", e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}

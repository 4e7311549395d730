package api

import "fmt"

// NetworkError wraps transport-level failures: DNS, connect, timeout, or an
// upstream 5xx. These are worth retrying.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ParseError means the response arrived but could not be understood: invalid
// JSON, an unexpected shape, or a non-200 API code.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// NotFoundError means the API has no data for the requested date or
// coordinate. Not retryable with the same parameters.
type NotFoundError struct {
	Detail string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no data: %s", e.Detail)
}

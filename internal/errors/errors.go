// Package errors provides the error types used by the Healthguru client.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common cases
var (
	ErrEmptyMessage    = errors.New("message cannot be empty")
	ErrInvalidResponse = errors.New("invalid response format")
	ErrNoSession       = errors.New("no session cookie found")
)

// NetworkError represents a transport failure: the request never completed.
type NetworkError struct {
	Endpoint string
	Err      error
}

func (e *NetworkError) Error() string {
	if e.Endpoint != "" {
		return fmt.Sprintf("network error at %s: %v", e.Endpoint, e.Err)
	}
	return fmt.Sprintf("network error: %v", e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// NewNetworkError creates a NetworkError for the given endpoint.
func NewNetworkError(endpoint string, err error) *NetworkError {
	return &NetworkError{Endpoint: endpoint, Err: err}
}

// ServerError represents a logical error the service reported in its payload
// `error` field. The transport succeeded; the request itself was refused.
type ServerError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

func (e *ServerError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("server error [%d]: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("server error: %s", e.Message)
}

// NewServerError creates a ServerError.
func NewServerError(statusCode int, endpoint, message string) *ServerError {
	return &ServerError{StatusCode: statusCode, Endpoint: endpoint, Message: message}
}

// ParseError represents an undecodable response body.
type ParseError struct {
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error: %s", e.Message)
}

// Is allows comparison with the ErrInvalidResponse sentinel.
func (e *ParseError) Is(target error) bool {
	if target == ErrInvalidResponse {
		return true
	}
	_, ok := target.(*ParseError)
	return ok
}

// NewParseError creates a ParseError.
func NewParseError(message string) *ParseError {
	return &ParseError{Message: message}
}

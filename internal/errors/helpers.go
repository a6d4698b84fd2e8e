package errors

import (
	"errors"
	"net"
	"os"
	"strings"
)

// IsNetworkError reports whether err is a transport failure.
func IsNetworkError(err error) bool {
	var netErr *NetworkError
	return errors.As(err, &netErr)
}

// IsServerError reports whether err is a server-reported logical error.
func IsServerError(err error) bool {
	var srvErr *ServerError
	return errors.As(err, &srvErr)
}

// IsParseError reports whether err is a response decode failure.
func IsParseError(err error) bool {
	var parseErr *ParseError
	return errors.As(err, &parseErr)
}

// IsTimeoutError reports whether err ultimately stems from a timeout.
func IsTimeoutError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "timeout")
}

// GetHTTPStatus returns the HTTP status carried by a ServerError, or 0.
func GetHTTPStatus(err error) int {
	var srvErr *ServerError
	if errors.As(err, &srvErr) {
		return srvErr.StatusCode
	}
	return 0
}

// GetEndpoint returns the endpoint a structured error is associated with.
func GetEndpoint(err error) string {
	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return netErr.Endpoint
	}
	var srvErr *ServerError
	if errors.As(err, &srvErr) {
		return srvErr.Endpoint
	}
	return ""
}

// ServerMessage returns the payload error text of a ServerError, or "".
func ServerMessage(err error) string {
	var srvErr *ServerError
	if errors.As(err, &srvErr) {
		return srvErr.Message
	}
	return ""
}

package stripe

import (
	"fmt"
	"strconv"
)

// APIError is a non rate-limit failure reported by Stripe.
type APIError struct {
	StatusCode int
	Type       string
	Code       string
	Message    string
	Param      string
	RequestID  string
}

// Error implements error.
func (e *APIError) Error() string {
	return fmt.Sprintf("stripe api error (status %d, code %s): %s", e.StatusCode, e.ErrorCode(), e.Message)
}

// ErrorCode returns the most specific code available.
func (e *APIError) ErrorCode() string {
	switch {
	case e.Code != "":
		return e.Code
	case e.Type != "":
		return e.Type
	default:
		return strconv.Itoa(e.StatusCode)
	}
}

// RateLimitError signals that requests are being rate limited.
type RateLimitError struct {
	// RetryAfter is the provider supplied delay in seconds, verbatim.
	RetryAfter string
	// Local is true when the client-side throttle rejected the request.
	Local   bool
	Message string
}

// Error implements error.
func (e *RateLimitError) Error() string {
	if e.RetryAfter == "" {
		return "stripe rate limit exceeded"
	}
	return fmt.Sprintf("stripe rate limit exceeded, retry after %s seconds", e.RetryAfter)
}

// MalformedResponseError reports a response that does not match the expected shape.
type MalformedResponseError struct {
	Reason string
}

// Error implements error.
func (e *MalformedResponseError) Error() string {
	return "malformed stripe response: " + e.Reason
}

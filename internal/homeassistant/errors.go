package homeassistant

import "errors"

// Sentinel errors for Home Assistant calls.
// Use errors.Is() to check for these errors in calling code.
var (
	// ErrRequestFailed is returned when the HTTP request could not be completed
	// (connection refused, timeout, DNS failure).
	ErrRequestFailed = errors.New("homeassistant: request failed")

	// ErrUnexpectedStatus is returned for any non-2xx response.
	ErrUnexpectedStatus = errors.New("homeassistant: unexpected status")

	// ErrInvalidResponse is returned when a response body cannot be decoded.
	ErrInvalidResponse = errors.New("homeassistant: invalid response body")

	// ErrInvalidConfig is returned by New for a missing URL or token.
	ErrInvalidConfig = errors.New("homeassistant: invalid configuration")
)

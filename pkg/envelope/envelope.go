// Package envelope implements the uniform response wrapper carried by
// every API response: a success flag and optional payload on the happy
// path, a wire error code on the failure path, and a server-generated
// timestamp plus a fixed API version on both.
package envelope

import "time"

// Version is reported in every response, success or error.
const Version = "1.0.0"

// Envelope wraps a successful response payload.
type Envelope[T any] struct {
	Success   bool   `json:"success"`
	Data      T      `json:"data"`
	Message   string `json:"message,omitempty"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
}

// ErrorEnvelope mirrors Envelope for failures. Success is always false
// and Data is absent; Error carries the wire code (e.g. TASK_NOT_FOUND).
type ErrorEnvelope struct {
	Success   bool   `json:"success"`
	Error     string `json:"error"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
}

// OK wraps data in a success envelope stamped with the current time.
func OK[T any](data T, message string) Envelope[T] {
	return Envelope[T]{
		Success:   true,
		Data:      data,
		Message:   message,
		Timestamp: Now(),
		Version:   Version,
	}
}

// Err builds the error envelope for a wire code and human message.
func Err(code, message string) ErrorEnvelope {
	return ErrorEnvelope{
		Success:   false,
		Error:     code,
		Message:   message,
		Timestamp: Now(),
		Version:   Version,
	}
}

// Now returns the envelope timestamp for the current moment (RFC3339, UTC).
func Now() string {
	return time.Now().UTC().Format(time.RFC3339)
}

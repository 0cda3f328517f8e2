package avatar

import "fmt"

// APIError is a failure reported by the avatar endpoint itself, such as
// "parameter already exists" or an authentication rejection. The
// endpoint's message is carried unchanged.
type APIError struct {
	// ErrorID is the endpoint's numeric error code.
	ErrorID int

	// Message is the endpoint's error message.
	Message string

	// RequestType is the message type of the request that failed.
	RequestType MessageType
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("avatar endpoint error %d for %s: %s", e.ErrorID, e.RequestType, e.Message)
}

// TransportError is a connection-level failure: a failed dial, a closed
// connection, a write error, or a request that outlived the connection.
type TransportError struct {
	// Op names the failed operation ("dial", "write", "receive", ...).
	Op string

	// Cause is the underlying error.
	Cause error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	return fmt.Sprintf("avatar transport %s failed: %v", e.Op, e.Cause)
}

// Unwrap returns the underlying error for error chain support.
func (e *TransportError) Unwrap() error {
	return e.Cause
}

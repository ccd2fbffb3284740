package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Connection/Availability errors (retryable)
const (
	// ErrCodeConnectionFailed indicates the connection could not be established,
	// was rejected during the handshake, or the client is already closed.
	ErrCodeConnectionFailed ErrorCode = "CONNECTION_FAILED"
	// ErrCodeRemote indicates a command failed on the network or was rejected by the server.
	ErrCodeRemote ErrorCode = "REMOTE_ERROR"
	// ErrCodeTimeout indicates the operation timed out.
	ErrCodeTimeout ErrorCode = "TIMEOUT"
)

// Payload errors
const (
	// ErrCodeSerialization indicates a value could not be encoded or a stored
	// payload could not be decoded into the requested type.
	ErrCodeSerialization ErrorCode = "SERIALIZATION_ERROR"
)

// Validation errors
const (
	// ErrCodeInvalidInput indicates the input is invalid.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrCodeMissingField indicates a required field is missing.
	ErrCodeMissingField ErrorCode = "MISSING_FIELD"
)

// State errors
const (
	// ErrCodeConflict indicates a conflict with the current state, such as a lock held elsewhere.
	ErrCodeConflict ErrorCode = "CONFLICT"
	// ErrCodeInternal indicates an unexpected internal error.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

var retryableCodes = map[ErrorCode]bool{
	ErrCodeConnectionFailed: true,
	ErrCodeRemote:           true,
	ErrCodeTimeout:          true,
	ErrCodeConflict:         true,
	ErrCodeSerialization:    false,
	ErrCodeInternal:         false,
}

// IsRetryableCode returns true if the error code indicates a retryable error.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}

package errors

// Code represents an error code
type Code string

// Error codes
const (
	CodeOK                 Code = "OK"
	CodeCanceled           Code = "CANCELED"
	CodeInvalidArgument    Code = "INVALID_ARGUMENT"
	CodeDeadlineExceeded   Code = "DEADLINE_EXCEEDED"
	CodeNotFound           Code = "NOT_FOUND"
	CodeAlreadyExists      Code = "ALREADY_EXISTS"
	CodePermissionDenied   Code = "PERMISSION_DENIED"
	CodeResourceExhausted  Code = "RESOURCE_EXHAUSTED"
	CodeFailedPrecondition Code = "FAILED_PRECONDITION"
	CodeOutOfRange         Code = "OUT_OF_RANGE"
	CodeInternal           Code = "INTERNAL"
	CodeUnavailable        Code = "UNAVAILABLE"
)

// String returns the string representation of the code
func (c Code) String() string {
	return string(c)
}

// UserFacing reports whether messages carrying this code are written for
// players and may be echoed back into the chat room verbatim.
func (c Code) UserFacing() bool {
	switch c {
	case CodeInvalidArgument,
		CodeNotFound,
		CodeAlreadyExists,
		CodePermissionDenied,
		CodeResourceExhausted,
		CodeFailedPrecondition,
		CodeOutOfRange:
		return true
	default:
		return false
	}
}

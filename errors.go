package medici

import (
	"fmt"
)

// ErrorCode is the server's own failure enumeration, carried through the
// Transport unchanged.
type ErrorCode int

const (
	CodeInvalid  ErrorCode = 1
	CodeNoHost   ErrorCode = 2
	CodeRefused  ErrorCode = 3
	CodeSend     ErrorCode = 4
	CodeRecv     ErrorCode = 5
	CodeKeep     ErrorCode = 6
	CodeNoRecord ErrorCode = 7
	CodeMisc     ErrorCode = 9999
)

// Error is a protocol-level failure reported by a Transport.  The core never
// reinterprets or retries these; retry policy belongs to the connection
// layer.
type Error struct {
	Code    ErrorCode
	Message string
}

func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

func (e *Error) Error() string {
	return fmt.Sprintf("server error %d: %s", e.Code, e.Message)
}

// IsNoRecord reports whether err is the server's "no record found" failure.
func IsNoRecord(err error) bool {
	e, ok := err.(*Error)
	return ok && e.Code == CodeNoRecord
}

// IsKeep reports whether err is the server's "existing record kept" failure
// from a putkeep on a key that already exists.
func IsKeep(err error) bool {
	e, ok := err.(*Error)
	return ok && e.Code == CodeKeep
}

// DecodeError reports a malformed record blob.  Garbled data is surfaced to
// the caller, never silently dropped or returned as an empty record.
type DecodeError struct {
	message string
}

func newDecodeError(format string, args ...interface{}) *DecodeError {
	return &DecodeError{message: fmt.Sprintf(format, args...)}
}

func (e *DecodeError) Error() string {
	return e.message
}

func IsDecodeError(err error) bool {
	_, ok := err.(*DecodeError)
	return ok
}

// ArgumentError reports a request the core refuses to build: an out-of-range
// limit, an unknown predicate or direction, an unsupported value type.
type ArgumentError struct {
	message string
}

func newArgumentError(format string, args ...interface{}) *ArgumentError {
	return &ArgumentError{message: fmt.Sprintf(format, args...)}
}

func (e *ArgumentError) Error() string {
	return e.message
}

func IsArgumentError(err error) bool {
	_, ok := err.(*ArgumentError)
	return ok
}

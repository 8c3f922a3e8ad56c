package domain

import (
	"errors"
	"fmt"
)

// ErrorCode classifies a failure independently of the transport that reports it.
type ErrorCode string

const (
	ErrCodeNotFound     ErrorCode = "NOT_FOUND"
	ErrCodeInvalid      ErrorCode = "INVALID"
	ErrCodeConflict     ErrorCode = "CONFLICT"
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	ErrCodeNoSession    ErrorCode = "NO_SESSION"
	ErrCodeOutOfRange   ErrorCode = "OUT_OF_RANGE"
	ErrCodeCorruptState ErrorCode = "CORRUPT_STATE"
	ErrCodeInternal     ErrorCode = "INTERNAL"
)

// Error is a classified failure. Two errors match under errors.Is when code and message agree,
// so a wrapped copy of a sentinel still compares equal to it.
type Error struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || e == nil || t == nil {
		return false
	}
	return e.Code == t.Code && e.Message == t.Message
}

func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WrapError classifies err under code.
func WrapError(code ErrorCode, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

var (
	ErrAccountNotFound    = NewError(ErrCodeNotFound, "account not found")
	ErrAlreadyExists      = NewError(ErrCodeConflict, "username already exists")
	ErrInvalidCredentials = NewError(ErrCodeUnauthorized, "invalid username or password")
	ErrNoActiveSession    = NewError(ErrCodeNoSession, "no active session")
	ErrIndexOutOfRange    = NewError(ErrCodeOutOfRange, "task position out of range")
	ErrUnknownTheme       = NewError(ErrCodeInvalid, "unknown theme")
	ErrInvalidPayload     = NewError(ErrCodeInvalid, "invalid payload")
)

// CodeOf returns the code of the outermost domain error in err's chain, or ErrCodeInternal.
func CodeOf(err error) ErrorCode {
	var dErr *Error
	if errors.As(err, &dErr) && dErr.Code != "" {
		return dErr.Code
	}
	return ErrCodeInternal
}

// IsDomainError reports whether err carries code.
func IsDomainError(err error, code ErrorCode) bool {
	return err != nil && CodeOf(err) == code
}

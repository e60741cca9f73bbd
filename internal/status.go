package internal

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Code classifies a failure. Values follow the canonical status code
// numbering so logs stay comparable with other services.
type Code int

const (
	CodeOK                 Code = 0
	CodeCancelled          Code = 1
	CodeUnknown            Code = 2
	CodeInvalidArgument    Code = 3
	CodeDeadlineExceeded   Code = 4
	CodeNotFound           Code = 5
	CodeAlreadyExists      Code = 6
	CodePermissionDenied   Code = 7
	CodeResourceExhausted  Code = 8
	CodeFailedPrecondition Code = 9
	CodeAborted            Code = 10
	CodeOutOfRange         Code = 11
	CodeUnimplemented      Code = 12
	CodeInternal           Code = 13
	CodeUnavailable        Code = 14
	CodeDataLoss           Code = 15
	CodeUnauthenticated    Code = 16
)

var codeNames = map[Code]string{
	CodeOK:                 "OK",
	CodeCancelled:          "CANCELLED",
	CodeUnknown:            "UNKNOWN",
	CodeInvalidArgument:    "INVALID_ARGUMENT",
	CodeDeadlineExceeded:   "DEADLINE_EXCEEDED",
	CodeNotFound:           "NOT_FOUND",
	CodeAlreadyExists:      "ALREADY_EXISTS",
	CodePermissionDenied:   "PERMISSION_DENIED",
	CodeResourceExhausted:  "RESOURCE_EXHAUSTED",
	CodeFailedPrecondition: "FAILED_PRECONDITION",
	CodeAborted:            "ABORTED",
	CodeOutOfRange:         "OUT_OF_RANGE",
	CodeUnimplemented:      "UNIMPLEMENTED",
	CodeInternal:           "INTERNAL",
	CodeUnavailable:        "UNAVAILABLE",
	CodeDataLoss:           "DATA_LOSS",
	CodeUnauthenticated:    "UNAUTHENTICATED",
}

func (c Code) String() string {
	if s, ok := codeNames[c]; ok {
		return s
	}
	return fmt.Sprintf("CODE(%d)", int(c))
}

// ParseCode accepts names as printed by String ("NOT_FOUND"), in any case.
func ParseCode(name string) (Code, bool) {
	name = strings.ToUpper(strings.TrimSpace(name))
	for c, s := range codeNames {
		if s == name {
			return c, true
		}
	}
	return 0, false
}

// HTTPStatus is the status an error page for c should carry.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeOK:
		return http.StatusOK
	case CodeInvalidArgument, CodeOutOfRange:
		return http.StatusBadRequest
	case CodeUnauthenticated:
		return http.StatusUnauthorized
	case CodePermissionDenied:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	case CodeAlreadyExists, CodeAborted:
		return http.StatusConflict
	case CodeFailedPrecondition:
		return http.StatusPreconditionFailed
	case CodeResourceExhausted:
		return http.StatusTooManyRequests
	case CodeCancelled:
		return 499
	case CodeUnimplemented:
		return http.StatusNotImplemented
	case CodeUnavailable:
		return http.StatusServiceUnavailable
	case CodeDeadlineExceeded:
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

// Status is the error value passed through continuations. It carries a
// code, a human-readable message and optionally the error that caused it.
type Status struct {
	err     error
	message string
	code    Code
}

// NewStatus creates a Status. A zero code is promoted to Unknown since an
// ok value is never an error.
func NewStatus(code Code, message string) *Status {
	if code == CodeOK {
		code = CodeUnknown
	}
	return &Status{code: code, message: message}
}

// Error formats as "<CODE>: <message>".
func (s *Status) Error() string {
	return s.code.String() + ": " + s.message
}

func (s *Status) Code() Code      { return s.code }
func (s *Status) Message() string { return s.message }
func (s *Status) Unwrap() error   { return s.err }

// Wrap returns a copy of s that also unwraps to cause.
func (s *Status) Wrap(cause error) *Status {
	c := *s
	c.err = cause
	return &c
}

// StatusOf converts err to a Status. Errors that carry no Status anywhere
// in their chain become Internal. StatusOf(nil) is nil.
func StatusOf(err error) *Status {
	if err == nil {
		return nil
	}
	var s *Status
	if errors.As(err, &s) {
		return s
	}
	return &Status{code: CodeInternal, message: err.Error(), err: err}
}

// CodeOf returns the code of err, CodeOK for nil.
func CodeOf(err error) Code {
	if err == nil {
		return CodeOK
	}
	return StatusOf(err).code
}

// IsCode reports whether err carries code.
func IsCode(err error, code Code) bool {
	return err != nil && CodeOf(err) == code
}

func InvalidArgumentError(format string, args ...any) *Status {
	return NewStatus(CodeInvalidArgument, fmt.Sprintf(format, args...))
}

func NotFoundError(format string, args ...any) *Status {
	return NewStatus(CodeNotFound, fmt.Sprintf(format, args...))
}

func FailedPreconditionError(format string, args ...any) *Status {
	return NewStatus(CodeFailedPrecondition, fmt.Sprintf(format, args...))
}

func AbortedError(format string, args ...any) *Status {
	return NewStatus(CodeAborted, fmt.Sprintf(format, args...))
}

func InternalError(format string, args ...any) *Status {
	return NewStatus(CodeInternal, fmt.Sprintf(format, args...))
}

func UnavailableError(format string, args ...any) *Status {
	return NewStatus(CodeUnavailable, fmt.Sprintf(format, args...))
}

func DataLossError(format string, args ...any) *Status {
	return NewStatus(CodeDataLoss, fmt.Sprintf(format, args...))
}

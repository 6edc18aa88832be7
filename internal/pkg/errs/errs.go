/*
Package errs provides the application's error type and its code table.

A CustomError carries a business code, a client-facing message and the HTTP status used when the
error ends a REST request. The same value is sent in-band as the payload of a websocket "error"
event, where the status is ignored.
*/
package errs

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"rtchat/internal/pkg/logx"
)

// CustomError is an application error identified by Code.
type CustomError struct {
	// Code is the business error code (see error_codes.go).
	Code int

	// Message is safe to show to clients.
	Message string

	// Status is the HTTP status for REST responses.
	Status int
}

// Error implements error.
func (e CustomError) Error() string {
	return fmt.Sprintf("Error Code %d (HTTP %d): %s", e.Code, e.Status, e.Message)
}

// Is reports whether target is a CustomError with the same code, so
// errors.Is(err, errs.NewError(errs.ErrForbidden)) matches regardless of message details.
func (e *CustomError) Is(target error) bool {
	var other *CustomError
	if !errors.As(target, &other) || other == nil {
		return false
	}
	return other.Code == e.Code
}

// NewError returns a fresh copy of the table entry for code. When the template message contains
// printf verbs, details fill them. Unknown codes yield ErrUnknown; for ErrUnknown itself the first
// detail, if it is an error, is logged as the underlying cause.
func NewError(code int, details ...any) *CustomError {
	entry, ok := errorMap[code]
	if !ok {
		logx.Error(
			fmt.Errorf("error code %d is not in errorMap", code),
			"Unknown error code requested",
			"requested_code", code,
		)
		entry = errorMap[ErrUnknown]
		details = nil
	}

	if entry.Status == 0 {
		entry.Status = http.StatusOK
	}

	switch {
	case len(details) == 0:
	case entry.Code == ErrUnknown:
		if cause, ok := details[0].(error); ok {
			logx.Error(cause, "Handling ErrUnknown with underlying error")
		}
	case strings.Contains(entry.Message, "%"):
		entry.Message = fmt.Sprintf(entry.Message, details...)
	default:
		logx.Warn("Error details ignored: message template has no placeholders", "code", code)
	}

	return &entry
}

// From converts any error into a *CustomError. Errors that already carry a CustomError
// are returned unchanged; everything else becomes ErrUnknown. A nil error yields nil.
func From(err error) *CustomError {
	if err == nil {
		return nil
	}

	var customErr *CustomError
	if errors.As(err, &customErr) {
		return customErr
	}

	return NewError(ErrUnknown, err)
}

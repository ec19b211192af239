package processor

import (
	"net/http"

	"github.com/pkg/errors"
)

// RequestError is a processing failure carrying the HTTP status returned to the sender.
type RequestError struct {
	StatusCode int
	Cause      error
}

func (e *RequestError) Error() string {
	if e.Cause == nil {
		return http.StatusText(e.StatusCode)
	}
	return e.Cause.Error()
}

func (e *RequestError) Unwrap() error {
	return e.Cause
}

// NewRequestError returns a RequestError with a formatted cause.
func NewRequestError(statusCode int, format string, args ...any) error {
	return &RequestError{StatusCode: statusCode, Cause: errors.Errorf(format, args...)}
}

// WrapRequestError returns a RequestError for cause. A nil cause yields nil.
func WrapRequestError(statusCode int, cause error) error {
	if cause == nil {
		return nil
	}
	return &RequestError{StatusCode: statusCode, Cause: cause}
}

package response

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind is the logical error category a request failed with.
type Kind string

const (
	KindNotFound   Kind = "not_found"
	KindValidation Kind = "validation_failure"
	KindStorage    Kind = "storage_failure"
)

// Status maps a Kind to its HTTP status code.
func (k Kind) Status() int {
	switch k {
	case KindNotFound:
		return http.StatusNotFound
	case KindValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// AppError carries a Kind to the HTTP boundary. Message is safe to show to
// callers; Err is kept for logs only.
type AppError struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NotFound(message string) *AppError {
	return &AppError{Kind: KindNotFound, Message: message}
}

func Validation(err error) *AppError {
	return &AppError{Kind: KindValidation, Message: err.Error(), Err: err}
}

func Storage(message string, err error) *AppError {
	return &AppError{Kind: KindStorage, Message: message, Err: err}
}

// AsError returns err as an *AppError, treating anything unclassified as a
// storage failure.
func AsError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Storage("internal storage error", err)
}

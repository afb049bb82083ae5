package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for the analysis pipeline. Every failure surfaced to the
// user wraps exactly one of these so callers can branch without string
// matching.
var (
	// ErrAuthentication means the AI credential was missing or rejected.
	// Fatal for the session: nothing is processed without a valid key.
	ErrAuthentication = errors.New("authentication failed")

	// ErrUnsupportedFormat means the upload's extension is not one of
	// md, txt, pdf, csv.
	ErrUnsupportedFormat = errors.New("unsupported file format")

	// ErrDecode means a txt/md upload was not valid UTF-8.
	ErrDecode = errors.New("decode failed")

	// ErrExtraction means a pdf upload could not be parsed.
	ErrExtraction = errors.New("extraction failed")

	// ErrTabularParse means a csv upload had ragged rows or a broken encoding.
	ErrTabularParse = errors.New("tabular parse failed")

	// ErrEmptyContent means parsing succeeded but yielded no usable text.
	ErrEmptyContent = errors.New("no content extracted")

	// ErrService means the external AI call failed (network, quota, prompt).
	ErrService = errors.New("ai service error")

	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
)

// AppError represents an application-specific error with an HTTP status code.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new AppError.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// MapError maps a pipeline error to an AppError with an appropriate HTTP
// status code. Upload-scoped parse failures are client errors; only the AI
// boundary maps to a 5xx.
func MapError(err error) *AppError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	switch {
	case errors.Is(err, ErrAuthentication):
		return NewAppError(http.StatusUnauthorized, "Invalid API credential", err)
	case errors.Is(err, ErrUnsupportedFormat):
		return NewAppError(http.StatusUnsupportedMediaType, "Unsupported file format", err)
	case errors.Is(err, ErrDecode), errors.Is(err, ErrExtraction), errors.Is(err, ErrTabularParse):
		return NewAppError(http.StatusUnprocessableEntity, "File could not be parsed", err)
	case errors.Is(err, ErrEmptyContent):
		return NewAppError(http.StatusUnprocessableEntity, "File contained no extractable text", err)
	case errors.Is(err, ErrInvalidInput):
		return NewAppError(http.StatusBadRequest, "Invalid request", err)
	case errors.Is(err, ErrNotFound):
		return NewAppError(http.StatusNotFound, "Resource not found", err)
	case errors.Is(err, ErrService):
		return NewAppError(http.StatusBadGateway, "AI service request failed", err)
	}

	return NewAppError(http.StatusInternalServerError, "Internal server error", err)
}

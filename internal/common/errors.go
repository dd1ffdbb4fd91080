package common

import (
	"errors"
	"fmt"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Common application errors
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrIntegrity    = errors.New("master dataset integrity error")
	ErrIngestion    = errors.New("master dataset ingestion error")
	ErrExtraction   = errors.New("extraction failed")
	ErrInternal     = errors.New("internal error")
)

// Error codes carried by AppError.
const (
	CodeConfig     = "CONFIG_ERROR"
	CodeIntegrity  = "INTEGRITY_ERROR"
	CodeIngestion  = "INGESTION_ERROR"
	CodeExtraction = "EXTRACTION_ERROR"
	CodeRender     = "RENDER_ERROR"
)

// Error constructors
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// IntegrityError reports a structurally unusable master dataset (e.g. a missing column).
func IntegrityError(format string, args ...any) error {
	return NewAppError(CodeIntegrity, fmt.Sprintf(format, args...), ErrIntegrity)
}

// IngestionError reports a master dataset that could not be opened or parsed.
func IngestionError(format string, args ...any) error {
	return NewAppError(CodeIngestion, fmt.Sprintf(format, args...), ErrIngestion)
}

// ExtractionError reports a per-image extraction failure.
func ExtractionError(format string, args ...any) error {
	return NewAppError(CodeExtraction, fmt.Sprintf(format, args...), ErrExtraction)
}

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

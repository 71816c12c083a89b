package services

import (
	"errors"
	"fmt"
)

// Error codes surfaced to callers. Handlers map these onto HTTP statuses;
// the codes themselves are stable API.
const (
	CodeInvalidInput      = "invalid_input"
	CodeInvalidCategory   = "invalid_category"
	CodeInvalidTags       = "invalid_tags"
	CodeInvalidVisibility = "invalid_visibility"
	CodeInvalidLocation   = "invalid_location"
	CodeCompressionFailed = "compression_failed"
	CodeUploadFailed      = "upload_failed"
	CodeQueryFailed       = "query_failed"
	CodeForbidden         = "forbidden"
	CodeNotFound          = "not_found"
)

// ServiceError is the error type returned by all domain services.
// Field is set for validation errors so the client can attach the
// message to the offending form field.
type ServiceError struct {
	Code    string
	Field   string
	Message string
	Err     error
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewFieldError builds a validation error tied to a single input field.
func NewFieldError(code, field, message string) *ServiceError {
	return &ServiceError{Code: code, Field: field, Message: message}
}

// NewServiceError wraps an underlying failure with a stable code.
func NewServiceError(code, message string, err error) *ServiceError {
	return &ServiceError{Code: code, Message: message, Err: err}
}

// ErrorCode extracts the stable code from err, or empty when err is not
// a ServiceError.
func ErrorCode(err error) string {
	var se *ServiceError
	if errors.As(err, &se) {
		return se.Code
	}
	return ""
}

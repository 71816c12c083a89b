package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"photo-portfolio-platform/services"
)

// ErrorResponse is the JSON error body shared by every endpoint.
type ErrorResponse struct {
	ErrorCode string      `json:"error_code"`
	Message   string      `json:"message"`
	Details   interface{} `json:"details,omitempty"`
}

// RespondWithError sends the shared error body with an explicit status.
func RespondWithError(c *gin.Context, statusCode int, errorCode, message string, details interface{}) {
	c.JSON(statusCode, ErrorResponse{
		ErrorCode: errorCode,
		Message:   message,
		Details:   details,
	})
}

// statusForCode maps the stable service error codes onto HTTP statuses.
// Validation codes are client errors; compression is unprocessable input;
// a remote-store failure is a bad gateway, not our fault nor the client's.
func statusForCode(code string) int {
	switch code {
	case services.CodeInvalidInput,
		services.CodeInvalidCategory,
		services.CodeInvalidTags,
		services.CodeInvalidVisibility,
		services.CodeInvalidLocation:
		return http.StatusBadRequest
	case services.CodeCompressionFailed:
		return http.StatusUnprocessableEntity
	case services.CodeUploadFailed:
		return http.StatusBadGateway
	case services.CodeForbidden:
		return http.StatusForbidden
	case services.CodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// RespondWithServiceError translates a ServiceError into the shared body,
// carrying the error code through unchanged and attaching the offending
// field for validation failures.
func RespondWithServiceError(c *gin.Context, err error) {
	var se *services.ServiceError
	if !errors.As(err, &se) {
		RespondWithInternalError(c, "unexpected error", nil)
		return
	}

	var details interface{}
	if se.Field != "" {
		details = gin.H{"field": se.Field}
	}
	RespondWithError(c, statusForCode(se.Code), se.Code, se.Message, details)
}

// RespondWithBadRequest sends a 400 Bad Request error
func RespondWithBadRequest(c *gin.Context, message string, details interface{}) {
	RespondWithError(c, http.StatusBadRequest, "bad_request", message, details)
}

// RespondWithUnauthorized sends a 401 Unauthorized error
func RespondWithUnauthorized(c *gin.Context, message string) {
	RespondWithError(c, http.StatusUnauthorized, "unauthorized", message, nil)
}

// RespondWithNotFound sends a 404 Not Found error
func RespondWithNotFound(c *gin.Context, message string) {
	RespondWithError(c, http.StatusNotFound, "not_found", message, nil)
}

// RespondWithInternalError sends a 500 Internal Server Error
func RespondWithInternalError(c *gin.Context, message string, details interface{}) {
	RespondWithError(c, http.StatusInternalServerError, "internal_error", message, details)
}

package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apperrors "github.com/xyz-asif/whistleblow/pkg/errors"
)

// ErrorResponse represents a standard error payload returned by the API
type ErrorResponse struct {
	Error  string                 `json:"error" example:"Report not found"`
	Code   string                 `json:"code,omitempty" example:"NOT_FOUND"`
	Fields []apperrors.FieldError `json:"fields,omitempty"`
}

// SuccessResponse represents a standard success payload
type SuccessResponse struct {
	Status   string      `json:"status" example:"success"`
	Message  string      `json:"message,omitempty" example:"Report created successfully"`
	Data     interface{} `json:"data"`
	Warnings []string    `json:"warnings,omitempty"`
}

// PaginatedResponse represents a paginated list response
type PaginatedResponse struct {
	Status string      `json:"status" example:"success"`
	Data   interface{} `json:"data"`
	Meta   interface{} `json:"meta"`
}

// Success sends a 200 OK response with data
func Success(c *gin.Context, data interface{}, message ...string) {
	c.JSON(http.StatusOK, SuccessResponse{
		Status:  "success",
		Message: first(message),
		Data:    data,
	})
}

// Created sends a 201 Created response
func Created(c *gin.Context, data interface{}, message ...string) {
	c.JSON(http.StatusCreated, SuccessResponse{
		Status:  "success",
		Message: first(message),
		Data:    data,
	})
}

// Degraded sends a success response whose side effects partially failed.
// The primary operation committed; warnings describe what did not.
func Degraded(c *gin.Context, statusCode int, data interface{}, message string, warnings []string) {
	status := "success"
	if len(warnings) > 0 {
		status = "partial_success"
	}
	c.JSON(statusCode, SuccessResponse{
		Status:   status,
		Message:  message,
		Data:     data,
		Warnings: warnings,
	})
}

// Paginated sends a paginated response
func Paginated(c *gin.Context, data interface{}, meta interface{}) {
	c.JSON(http.StatusOK, PaginatedResponse{
		Status: "success",
		Data:   data,
		Meta:   meta,
	})
}

// Error sends an error response with custom status code and message
func Error(c *gin.Context, statusCode int, message string, errorCode ...string) {
	c.JSON(statusCode, ErrorResponse{
		Error: message,
		Code:  first(errorCode),
	})
}

// FromError maps an application error to its HTTP status and stable code.
// Errors that are not *apperrors.Error never expose their text.
func FromError(c *gin.Context, err error) {
	var appErr *apperrors.Error
	if !apperrors.As(err, &appErr) {
		InternalServerError(c, "Internal server error", string(apperrors.KindInternal))
		return
	}

	message := appErr.Message
	if appErr.Kind == apperrors.KindInternal {
		message = "Internal server error"
	}

	c.JSON(StatusFor(appErr.Kind), ErrorResponse{
		Error:  message,
		Code:   string(appErr.Kind),
		Fields: appErr.Fields,
	})
}

// StatusFor returns the HTTP status used for an error kind.
func StatusFor(kind apperrors.Kind) int {
	switch kind {
	case apperrors.KindValidation:
		return http.StatusBadRequest
	case apperrors.KindNotFound:
		return http.StatusNotFound
	case apperrors.KindUnauthorized:
		return http.StatusUnauthorized
	case apperrors.KindForbidden:
		return http.StatusForbidden
	case apperrors.KindInvalidTransition, apperrors.KindConflict:
		return http.StatusConflict
	case apperrors.KindDependency:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// BadRequest sends a 400 Bad Request error
func BadRequest(c *gin.Context, message string, errorCode ...string) {
	Error(c, http.StatusBadRequest, message, errorCode...)
}

// Unauthorized sends a 401 Unauthorized error
func Unauthorized(c *gin.Context, message string, errorCode ...string) {
	Error(c, http.StatusUnauthorized, message, errorCode...)
}

// Forbidden sends a 403 Forbidden error
func Forbidden(c *gin.Context, message string, errorCode ...string) {
	Error(c, http.StatusForbidden, message, errorCode...)
}

// InternalServerError sends a 500 Internal Server Error
func InternalServerError(c *gin.Context, message string, errorCode ...string) {
	Error(c, http.StatusInternalServerError, message, errorCode...)
}

func first(values []string) string {
	if len(values) > 0 {
		return values[0]
	}
	return ""
}

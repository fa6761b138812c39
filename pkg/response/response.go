package response

import (
	"fmt"
	"log/slog"
	"net/http"
	"sync/atomic"

	"github.com/gin-gonic/gin"

	"github.com/mo-amir99/course-marketplace-go/pkg/apperrors"
)

// Envelope represents the standard API response shape.
type Envelope struct {
	Success       bool                   `json:"success"`
	Message       string                 `json:"message,omitempty"`
	Data          interface{}            `json:"data,omitempty"`
	ErrorMessages []apperrors.FieldError `json:"errorMessages,omitempty"`
	Stack         string                 `json:"stack,omitempty"`
	Pagination    interface{}            `json:"pagination,omitempty"`
}

var debug atomic.Bool

// SetDebug toggles stack details in error responses. Disabled in production.
func SetDebug(enabled bool) {
	debug.Store(enabled)
}

// Success writes a success response with optional message and data.
func Success(c *gin.Context, status int, data interface{}, message string, pagination interface{}) {
	c.JSON(status, Envelope{
		Success:    true,
		Message:    message,
		Data:       data,
		Pagination: pagination,
	})
}

// OK is a convenience helper for 200 responses.
func OK(c *gin.Context, data interface{}, message string) {
	Success(c, http.StatusOK, data, message, nil)
}

// Created is a convenience helper for POST 201 responses.
func Created(c *gin.Context, data interface{}, message string) {
	Success(c, http.StatusCreated, data, message, nil)
}

// Error writes an error response with optional field messages.
func Error(c *gin.Context, status int, message string, fields []apperrors.FieldError, err error) {
	env := Envelope{
		Success:       false,
		Message:       message,
		ErrorMessages: fields,
	}
	if len(env.ErrorMessages) == 0 && message != "" {
		env.ErrorMessages = []apperrors.FieldError{{Path: "", Message: message}}
	}
	if err != nil && debug.Load() {
		env.Stack = fmt.Sprintf("%+v", err)
	}
	c.JSON(status, env)
}

// ErrorWithLog writes an error response and logs the error via slog.
func ErrorWithLog(logger *slog.Logger, c *gin.Context, status int, message string, err error) {
	logError(logger, c, status, message, err)
	Error(c, status, message, nil, err)
}

// AppError writes an apperrors.AppError, falling back to 500 for plain errors.
func AppError(logger *slog.Logger, c *gin.Context, err error) {
	appErr, ok := apperrors.As(err)
	if !ok {
		ErrorWithLog(logger, c, http.StatusInternalServerError, "Internal server error", err)
		return
	}

	logError(logger, c, appErr.StatusCode(), appErr.Message(), err)
	Error(c, appErr.StatusCode(), appErr.Message(), appErr.Fields(), err)
}

func logError(logger *slog.Logger, c *gin.Context, status int, message string, err error) {
	if logger == nil || err == nil {
		return
	}

	attrs := []any{
		slog.Int("status", status),
		slog.String("path", c.Request.URL.Path),
		slog.String("error", err.Error()),
	}

	if status >= http.StatusInternalServerError {
		logger.ErrorContext(c.Request.Context(), message, attrs...)
		return
	}
	logger.InfoContext(c.Request.Context(), message, attrs...)
}

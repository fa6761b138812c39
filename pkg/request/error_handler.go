package request

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/mo-amir99/course-marketplace-go/pkg/apperrors"
	"github.com/mo-amir99/course-marketplace-go/pkg/response"
)

// Handler returns a middleware that standardises errors attached with c.Error.
func Handler(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := errors.Join(errorsFromContext(c.Errors)...)
		if err == nil {
			return
		}

		if _, ok := apperrors.As(err); ok {
			response.AppError(logger, c, err)
			return
		}

		status, message := classify(err)
		response.ErrorWithLog(logger, c, status, message, err)
	}
}

// NotFound answers unknown routes.
func NotFound(c *gin.Context) {
	response.Error(c, http.StatusNotFound, "Not found", []apperrors.FieldError{{
		Path:    c.Request.URL.Path,
		Message: "API not found",
	}}, nil)
}

func errorsFromContext(errs []*gin.Error) []error {
	list := make([]error, 0, len(errs))
	for _, item := range errs {
		if item != nil && item.Err != nil {
			list = append(list, item.Err)
		}
	}
	return list
}

func classify(err error) (int, string) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return http.StatusNotFound, "Resource not found"
	}

	if strings.Contains(err.Error(), "invalid input syntax for type uuid") {
		return http.StatusBadRequest, "Invalid ID format"
	}

	return http.StatusInternalServerError, "Internal server error"
}

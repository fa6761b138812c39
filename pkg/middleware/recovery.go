package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/mo-amir99/course-marketplace-go/pkg/response"
)

// Recovery recovers from panics, logs the stack and answers with a 500 envelope.
func Recovery(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}

			logger.Error("panic recovered",
				slog.String("request_id", GetRequestID(c)),
				slog.String("method", c.Request.Method),
				slog.String("path", c.Request.URL.Path),
				slog.String("client_ip", c.ClientIP()),
				slog.Any("error", rec),
				slog.String("stack", string(debug.Stack())),
			)

			response.Error(c, http.StatusInternalServerError, "Internal server error", nil, fmt.Errorf("panic: %v", rec))
			c.Abort()
		}()

		c.Next()
	}
}

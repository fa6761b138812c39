package response

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// SuccessWithCache sends a public, cacheable JSON response.
func SuccessWithCache(c *gin.Context, status int, data interface{}, message string, pagination interface{}, maxAge int) {
	c.Header("Cache-Control", formatCacheControl(maxAge))
	c.Header("Pragma", "")
	c.Header("Expires", "")
	Success(c, status, data, message, pagination)
}

func formatCacheControl(maxAge int) string {
	if maxAge <= 0 {
		return "no-cache"
	}
	return "public, max-age=" + strconv.Itoa(maxAge)
}

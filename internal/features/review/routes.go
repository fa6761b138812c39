package review

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts review creation under /course.
func RegisterRoutes(router *gin.RouterGroup, handler *Handler, signedIn []gin.HandlerFunc) {
	router.Group("/course").POST("/review/:courseId", append(signedIn, handler.Create)...)
}

package completion

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts completion tracking under /course.
func RegisterRoutes(router *gin.RouterGroup, handler *Handler, signedIn []gin.HandlerFunc) {
	courses := router.Group("/course")
	courses.POST("/lesson-list-completed", append(signedIn, handler.ListCompleted)...)
	courses.POST("/lesson-mark-as-completed", append(signedIn, handler.MarkCompleted)...)
	courses.POST("/lesson-mark-as-incompleted", append(signedIn, handler.MarkIncompleted)...)
}

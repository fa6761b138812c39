package course

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes attaches course authoring and catalog endpoints to the router.
func RegisterRoutes(router *gin.RouterGroup, handler *Handler, instructor []gin.HandlerFunc) {
	courses := router.Group("/course")

	courses.POST("/create-course", append(instructor, handler.Create)...)
	courses.POST("/update-course", append(instructor, handler.Update)...)
	courses.PUT("/publish-or-unpublish", append(instructor, handler.PublishOrUnpublish)...)
	courses.GET("/instructor-courses", append(instructor, handler.InstructorCourses)...)
	courses.GET("/courses-for-all", handler.CoursesForAll)
	courses.GET("/single-course/:slug", handler.SingleCourse)

	courses.POST("/lesson/:slug", append(instructor, handler.AddLesson)...)
	courses.PUT("/lesson/:slug", append(instructor, handler.UpdateLesson)...)
	courses.DELETE("/lesson/:slug/:lessonId", append(instructor, handler.RemoveLesson)...)
}

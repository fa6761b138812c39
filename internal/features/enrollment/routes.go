package enrollment

import "github.com/gin-gonic/gin"

// RegisterRoutes attaches enrollment endpoints under /course.
func RegisterRoutes(router *gin.RouterGroup, handler *Handler, signedIn []gin.HandlerFunc) {
	courses := router.Group("/course")

	courses.GET("/user-courses", append(signedIn, handler.UserCourses)...)
	courses.GET("/user/single-course/:slug", append(signedIn, handler.UserSingleCourse)...)
	courses.GET("/check-enrollment/:courseId", append(signedIn, handler.CheckEnrollment)...)
	courses.POST("/free-enrollment/:courseId", append(signedIn, handler.FreeEnrollment)...)
	courses.POST("/paid-enrollment/:courseId", append(signedIn, handler.PaidEnrollment)...)
	courses.GET("/stripe-success/:courseId", append(signedIn, handler.StripeSuccess)...)
}

package instructor

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts /instructor. Onboarding needs a signed-in user; reporting needs the Instructor role.
func RegisterRoutes(router *gin.RouterGroup, handler *Handler, signedIn, instructor []gin.HandlerFunc) {
	group := router.Group("/instructor")
	group.POST("/make-instructor", append(signedIn, handler.MakeInstructor)...)
	group.POST("/get-account-status", append(signedIn, handler.GetAccountStatus)...)
	group.GET("/balance", append(instructor, handler.Balance)...)
	group.GET("/payout-settings", append(instructor, handler.PayoutSettings)...)
	group.POST("/student-count", append(instructor, handler.StudentCount)...)
}

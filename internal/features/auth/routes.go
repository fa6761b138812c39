package auth

import "github.com/gin-gonic/gin"

// RegisterRoutes attaches authentication endpoints to the router.
// requireAuth guards the current-user route and sensitive throttles credential flows.
func RegisterRoutes(router *gin.RouterGroup, handler *Handler, requireAuth []gin.HandlerFunc, sensitive gin.HandlerFunc) {
	auth := router.Group("/auth")
	{
		auth.POST("/register", sensitive, handler.Register)
		auth.POST("/login", sensitive, handler.Login)
		auth.POST("/logout", handler.Logout)
		auth.GET("/current-user", append(requireAuth, handler.CurrentUser)...)
		auth.POST("/forget-password", sensitive, handler.ForgetPassword)
		auth.POST("/reset-password", sensitive, handler.ResetPassword)
		auth.POST("/send-test-email", handler.SendTestEmail)
	}
}

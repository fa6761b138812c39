package product

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts /products. Creation is limited by the admin guards.
func RegisterRoutes(router *gin.RouterGroup, handler *Handler, admin []gin.HandlerFunc) {
	products := router.Group("/products")
	products.POST("", append(admin, handler.Create)...)
	products.GET("", handler.List)
}

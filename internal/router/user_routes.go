package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterPublicRoutes 公开接口（无需认证）
func (rt *Router) RegisterPublicRoutes(rg *gin.RouterGroup) {
	users := rg.Group("/users")
	{
		users.POST("/register", rt.handlers.User.Register)
		users.POST("/login", rt.handlers.User.Login)
		users.POST("/refresh", rt.handlers.User.RefreshToken) // Refresh Token 换 Access Token
		users.POST("/reset-password", rt.handlers.User.ResetPassword)
	}
}

// RegisterUserRoutes 用户资料
func (rt *Router) RegisterUserRoutes(rg *gin.RouterGroup) {
	users := rg.Group("/users")
	{
		users.GET("", rt.handlers.User.ListUsers)
		users.GET("/:id", rt.handlers.User.GetUser)
		users.PUT("/:id", rt.handlers.User.UpdateUser)    // 本人或管理员
		users.DELETE("/:id", rt.handlers.User.DeleteUser) // 本人或管理员，级联删除
	}
}

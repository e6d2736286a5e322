// Package router 提供 HTTP 路由注册
// 本文件定义管理员相关的路由
package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterAdminRoutes 注册管理员路由，rg 已挂载 RequireAdmin
func (rt *Router) RegisterAdminRoutes(rg *gin.RouterGroup) {
	// ===== 用户管理 =====
	users := rg.Group("/users")
	{
		users.POST("/:id/role", rt.handlers.User.ChangeRole)
		users.POST("/:id/password", rt.handlers.User.AdminChangePassword)
	}

	// ===== 群组审核 =====
	groups := rg.Group("/groups")
	{
		groups.GET("/create-requests", rt.handlers.Group.ListCreateRequests)
		groups.POST("/create-requests/:id/audit", rt.handlers.Group.AuditCreateRequest)
		groups.GET("/update-requests", rt.handlers.Group.ListUpdateRequests)
		groups.POST("/update-requests/:id/audit", rt.handlers.Group.AuditUpdateRequest)
	}

	// ===== 举报审核 =====
	reports := rg.Group("/reports")
	{
		reports.GET("", rt.handlers.Report.ListReports)
		reports.POST("/:id/audit", rt.handlers.Report.AuditReport)
	}
}

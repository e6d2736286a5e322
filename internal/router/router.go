// Package router 提供 HTTP 路由注册
// 本文件是路由注册的入口，聚合所有子模块的路由
package router

import (
	"github.com/gin-gonic/gin"

	"group_chat_server/internal/handler"
	"group_chat_server/internal/infrastructure/middleware"
)

// Router 持有 Handler 聚合和认证依赖
type Router struct {
	handlers *handler.Handlers
	resolver middleware.ActorResolver
}

// NewRouter resolver 用于在 JWT 中间件中读取用户当前角色
func NewRouter(handlers *handler.Handlers, resolver middleware.ActorResolver) *Router {
	return &Router{handlers: handlers, resolver: resolver}
}

// RegisterRoutes 注册所有路由
// 业务接口都在 /api 下，除注册登录等公开接口外均需 Bearer Token
// /api/admin 额外要求系统管理员
func (rt *Router) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", rt.handlers.Health.Health)

	api := r.Group("/api")
	rt.RegisterPublicRoutes(api)

	authed := api.Group("")
	authed.Use(middleware.JWTAuth(rt.resolver))
	rt.RegisterUserRoutes(authed)
	rt.RegisterGroupRoutes(authed)
	rt.RegisterMemberRoutes(authed)
	rt.RegisterChatRoutes(authed)
	rt.RegisterReportRoutes(authed)
	rt.RegisterFileRoutes(authed)

	admin := authed.Group("/admin")
	admin.Use(middleware.RequireAdmin())
	rt.RegisterAdminRoutes(admin)
}

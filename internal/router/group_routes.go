package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterGroupRoutes 注册群组相关路由
func (rt *Router) RegisterGroupRoutes(rg *gin.RouterGroup) {
	groups := rg.Group("/groups")
	{
		groups.POST("", rt.handlers.Group.SubmitCreateRequest) // 提交建群申请
		groups.GET("", rt.handlers.Group.ListGroups)
		groups.GET("/my", rt.handlers.Group.MyGroups)
		groups.GET("/:id", rt.handlers.Group.GetGroup)
		groups.POST("/:id/pin", rt.handlers.Group.PinGroup)
		groups.POST("/:id/update-requests", rt.handlers.Group.SubmitUpdateRequest)
		groups.DELETE("/:id", rt.handlers.Group.DissolveGroup)
	}
}

// RegisterMemberRoutes 入群申请与成员管理
func (rt *Router) RegisterMemberRoutes(rg *gin.RouterGroup) {
	groups := rg.Group("/groups")
	{
		// 加群
		groups.POST("/:id/join-requests", rt.handlers.Member.SubmitJoinRequest)
		groups.GET("/:id/join-requests", rt.handlers.Member.ListJoinRequests)
		groups.POST("/join-requests/:rid/audit", rt.handlers.Member.AuditJoinRequest)

		// 成员
		groups.GET("/:id/members", rt.handlers.Member.ListMembers)
		groups.GET("/:id/members/search", rt.handlers.Member.SearchMembers)
		groups.POST("/:id/members/:uid/admin", rt.handlers.Member.SetMemberAdmin)
		groups.DELETE("/:id/members/:uid", rt.handlers.Member.RemoveMember)

		groups.POST("/:id/transfer", rt.handlers.Member.TransferOwnership)
		groups.POST("/:id/quit", rt.handlers.Member.QuitGroup)
	}
}

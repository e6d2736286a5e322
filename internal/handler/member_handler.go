package handler

import (
	"github.com/gin-gonic/gin"

	"group_chat_server/internal/dto/request"
	"group_chat_server/internal/infrastructure/middleware"
	"group_chat_server/internal/service"
)

// MemberHandler 群成员请求处理器
type MemberHandler struct {
	memberSvc service.MemberService
}

func NewMemberHandler(memberSvc service.MemberService) *MemberHandler {
	return &MemberHandler{memberSvc: memberSvc}
}

// SubmitJoinRequest 申请入群
// POST /api/groups/:id/join-requests
func (h *MemberHandler) SubmitJoinRequest(c *gin.Context) {
	groupID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req request.JoinGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.memberSvc.SubmitJoinRequest(middleware.ActorFrom(c), groupID, req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// ListJoinRequests 入群申请列表
// GET /api/groups/:id/join-requests
func (h *MemberHandler) ListJoinRequests(c *gin.Context) {
	groupID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req request.ListJoinRequestsQuery
	if err := c.ShouldBindQuery(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.memberSvc.ListJoinRequests(middleware.ActorFrom(c), groupID, req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, listOf(data, req.PageQuery))
}

// AuditJoinRequest 审核入群申请
// POST /api/groups/join-requests/:rid/audit
func (h *MemberHandler) AuditJoinRequest(c *gin.Context) {
	requestID, ok := pathID(c, "rid")
	if !ok {
		return
	}
	var req request.AuditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.memberSvc.AuditJoinRequest(middleware.ActorFrom(c), requestID, req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// ListMembers 成员列表
// GET /api/groups/:id/members
func (h *MemberHandler) ListMembers(c *gin.Context) {
	groupID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req request.PageQuery
	if err := c.ShouldBindQuery(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.memberSvc.ListMembers(groupID, req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, listOf(data, req))
}

// SearchMembers 按昵称或用户名搜索成员
// GET /api/groups/:id/members/search?q=
func (h *MemberHandler) SearchMembers(c *gin.Context) {
	groupID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req request.SearchMembersQuery
	if err := c.ShouldBindQuery(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.memberSvc.SearchMembers(groupID, req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// SetMemberAdmin 设置或取消群管理员
// POST /api/groups/:id/members/:uid/admin
func (h *MemberHandler) SetMemberAdmin(c *gin.Context) {
	groupID, ok := pathID(c, "id")
	if !ok {
		return
	}
	userID, ok := pathID(c, "uid")
	if !ok {
		return
	}
	var req request.SetMemberAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	if err := h.memberSvc.SetMemberAdmin(middleware.ActorFrom(c), groupID, userID, req); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// RemoveMember 移出成员
// DELETE /api/groups/:id/members/:uid
func (h *MemberHandler) RemoveMember(c *gin.Context) {
	groupID, ok := pathID(c, "id")
	if !ok {
		return
	}
	userID, ok := pathID(c, "uid")
	if !ok {
		return
	}
	if err := h.memberSvc.RemoveMember(middleware.ActorFrom(c), groupID, userID); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// TransferOwnership 转让群主
// POST /api/groups/:id/transfer
func (h *MemberHandler) TransferOwnership(c *gin.Context) {
	groupID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req request.TransferOwnershipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	if err := h.memberSvc.TransferOwnership(middleware.ActorFrom(c), groupID, req); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// QuitGroup 退群，群主需要指定新群主
// POST /api/groups/:id/quit
func (h *MemberHandler) QuitGroup(c *gin.Context) {
	groupID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req request.QuitGroupRequest
	// 请求体可以为空
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleParamError(c, err)
			return
		}
	}
	if err := h.memberSvc.QuitGroup(middleware.ActorFrom(c), groupID, req); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

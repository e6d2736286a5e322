package handler

import (
	"github.com/gin-gonic/gin"

	"group_chat_server/internal/dto/request"
	"group_chat_server/internal/infrastructure/middleware"
	"group_chat_server/internal/service"
)

// GroupHandler 群组请求处理器
type GroupHandler struct {
	groupSvc service.GroupService
}

// NewGroupHandler 创建群组处理器实例
func NewGroupHandler(groupSvc service.GroupService) *GroupHandler {
	return &GroupHandler{groupSvc: groupSvc}
}

// SubmitCreateRequest 提交建群申请
// POST /api/groups
func (h *GroupHandler) SubmitCreateRequest(c *gin.Context) {
	var req request.CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.groupSvc.SubmitCreateRequest(middleware.ActorFrom(c), req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// ListGroups 群列表
// GET /api/groups?audit_state=&q=&skip=&limit=
func (h *GroupHandler) ListGroups(c *gin.Context) {
	var req request.ListGroupsQuery
	if err := c.ShouldBindQuery(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.groupSvc.ListGroups(req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, listOf(data, req.PageQuery))
}

// MyGroups 我加入的群
// GET /api/groups/my
func (h *GroupHandler) MyGroups(c *gin.Context) {
	data, err := h.groupSvc.MyGroups(middleware.ActorFrom(c))
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// GetGroup 群详情
// GET /api/groups/:id
func (h *GroupHandler) GetGroup(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	data, err := h.groupSvc.GetGroup(id)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// PinGroup 成员置顶或取消置顶
// POST /api/groups/:id/pin
func (h *GroupHandler) PinGroup(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req request.PinGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	if err := h.groupSvc.PinGroup(middleware.ActorFrom(c), id, req); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// SubmitUpdateRequest 群主提交资料修改申请
// POST /api/groups/:id/update-requests
func (h *GroupHandler) SubmitUpdateRequest(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req request.UpdateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.groupSvc.SubmitUpdateRequest(middleware.ActorFrom(c), id, req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// DissolveGroup 解散群
// DELETE /api/groups/:id
func (h *GroupHandler) DissolveGroup(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.groupSvc.DissolveGroup(middleware.ActorFrom(c), id); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// ListCreateRequests 建群申请列表，默认只看待审核
// GET /api/admin/groups/create-requests
func (h *GroupHandler) ListCreateRequests(c *gin.Context) {
	var req request.ListCreateRequestsQuery
	if err := c.ShouldBindQuery(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.groupSvc.ListCreateRequests(req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, listOf(data, req.PageQuery))
}

// AuditCreateRequest 审核建群申请
// POST /api/admin/groups/create-requests/:id/audit
func (h *GroupHandler) AuditCreateRequest(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req request.AuditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.groupSvc.AuditCreateRequest(id, req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// ListUpdateRequests 资料修改申请列表
// GET /api/admin/groups/update-requests
func (h *GroupHandler) ListUpdateRequests(c *gin.Context) {
	var req request.ListUpdateRequestsQuery
	if err := c.ShouldBindQuery(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.groupSvc.ListUpdateRequests(req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, listOf(data, req.PageQuery))
}

// AuditUpdateRequest 审核资料修改申请
// POST /api/admin/groups/update-requests/:id/audit
func (h *GroupHandler) AuditUpdateRequest(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req request.AuditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.groupSvc.AuditUpdateRequest(id, req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

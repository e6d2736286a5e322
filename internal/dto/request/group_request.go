package request

// CreateGroupRequest 建群申请
// 使用位置:
//   - internal/handler/group_handler.go: SubmitCreateRequestHandler
//   - internal/service/group/service.go: SubmitCreateRequest
type CreateGroupRequest struct {
	Name          string `json:"name" binding:"required,max=100"`
	GroupType     string `json:"group_type" binding:"max=50"`
	Note          string `json:"note" binding:"max=500"`
	AnnounceLimit int    `json:"announce_limit" binding:"omitempty,min=0"`
	MemberLimit   int    `json:"member_limit" binding:"omitempty,min=1"`
	Announce      string `json:"announce"`
	AvatarURL     string `json:"avatar_url" binding:"max=255"`
}

// UpdateGroupRequest 群资料修改申请，字段为 null 表示不修改
type UpdateGroupRequest struct {
	Name          *string `json:"name" binding:"omitempty,min=1,max=100"`
	GroupType     *string `json:"group_type" binding:"omitempty,max=50"`
	Note          *string `json:"note" binding:"omitempty,max=500"`
	AnnounceLimit *int    `json:"announce_limit" binding:"omitempty,min=0"`
	MemberLimit   *int    `json:"member_limit" binding:"omitempty,min=1"`
	Announce      *string `json:"announce"`
	AvatarURL     *string `json:"avatar_url" binding:"omitempty,max=255"`
}

// ListGroupsQuery 群列表查询
type ListGroupsQuery struct {
	PageQuery
	AuditState string `form:"audit_state"`
	Q          string `form:"q"`
}

// ListCreateRequestsQuery 建群申请列表查询，audit_state 缺省为 pending
type ListCreateRequestsQuery struct {
	PageQuery
	AuditState string `form:"audit_state"`
	Q          string `form:"q"`
}

// ListUpdateRequestsQuery 修改申请列表查询，audit_state 缺省为 pending
type ListUpdateRequestsQuery struct {
	PageQuery
	AuditState string `form:"audit_state"`
	GroupID    uint   `form:"group_id"`
}

// PinGroupRequest 成员置顶群
type PinGroupRequest struct {
	Pinned *bool `json:"pinned" binding:"required"`
}

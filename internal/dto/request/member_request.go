package request

// JoinGroupRequest 入群申请
// 使用位置:
//   - internal/handler/member_handler.go: SubmitJoinRequestHandler
//   - internal/service/member/service.go: SubmitJoinRequest
type JoinGroupRequest struct {
	Nickname  string `json:"nickname" binding:"max=50"`
	AvatarURL string `json:"avatar_url" binding:"max=255"`
	Reason    string `json:"reason" binding:"max=500"`
}

// ListJoinRequestsQuery 入群申请列表查询
type ListJoinRequestsQuery struct {
	PageQuery
	AuditState string `form:"audit_state"`
}

// SearchMembersQuery 群成员搜索
type SearchMembersQuery struct {
	Q string `form:"q" binding:"required"`
}

// SetMemberAdminRequest 设置/取消群管理员
type SetMemberAdminRequest struct {
	IsGroupAdmin *bool `json:"is_group_admin" binding:"required"`
}

// TransferOwnershipRequest 转让群主
type TransferOwnershipRequest struct {
	NewOwnerUserID uint `json:"new_owner_user_id" binding:"required"`
}

// QuitGroupRequest 退群，群主退群必须指定新群主
type QuitGroupRequest struct {
	NewOwnerUserID *uint `json:"new_owner_user_id"`
}

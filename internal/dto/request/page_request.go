package request

// PageQuery skip/limit 分页参数，limit 为 0 时使用默认值
type PageQuery struct {
	Skip  int `form:"skip" binding:"omitempty,min=0"`
	Limit int `form:"limit" binding:"omitempty,min=1,max=500"`
}

// AuditRequest 审核请求
// 使用位置:
//   - internal/handler/group_handler.go: AuditCreateRequestHandler, AuditUpdateRequestHandler
//   - internal/handler/member_handler.go: AuditJoinRequestHandler
//   - internal/handler/report_handler.go: AuditReportHandler
type AuditRequest struct {
	Action string `json:"action" binding:"required,oneof=approve reject approved rejected"`
}

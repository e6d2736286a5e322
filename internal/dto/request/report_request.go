package request

// SubmitReportRequest 提交举报
// 使用位置:
//   - internal/handler/report_handler.go: SubmitReportHandler
//   - internal/service/report/service.go: Submit
type SubmitReportRequest struct {
	ReportContent  string `json:"report_content" binding:"required,max=2000"`
	ReportedUserID *uint  `json:"reported_user_id"`
	GroupID        *uint  `json:"group_id"`
	ChatMessageID  *uint  `json:"chat_message_id"`
}

// MyReportsQuery 我的举报
type MyReportsQuery struct {
	AuditState string `form:"audit_state"`
}

// ListReportsQuery 管理员举报列表查询
type ListReportsQuery struct {
	PageQuery
	AuditState     string `form:"audit_state"`
	ReporterID     uint   `form:"reporter_id"`
	ReportedUserID uint   `form:"reported_user_id"`
	GroupID        uint   `form:"group_id"`
}

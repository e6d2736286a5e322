package respond

import "group_chat_server/internal/model"

// ReportRespond 举报
type ReportRespond struct {
	ID             uint   `json:"id"`
	UserID         uint   `json:"user_id"`
	ReportContent  string `json:"report_content"`
	ReportedUserID *uint  `json:"reported_user_id"`
	GroupID        *uint  `json:"group_id"`
	ChatMessageID  *uint  `json:"chat_message_id"`
	AuditState     string `json:"audit_state"`
	CreatedAt      string `json:"created_at"`
}

// NewReportRespond 从模型构造
func NewReportRespond(r *model.Report) ReportRespond {
	return ReportRespond{
		ID:             r.ID,
		UserID:         r.UserID,
		ReportContent:  r.ReportContent,
		ReportedUserID: r.ReportedUserID,
		GroupID:        r.GroupID,
		ChatMessageID:  r.ChatMessageID,
		AuditState:     string(r.AuditState),
		CreatedAt:      formatTime(r.CreatedAt),
	}
}

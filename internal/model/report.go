package model

import "time"

// Report 举报，驳回后保留记录
type Report struct {
	ID             uint       `gorm:"primarykey"`
	UserID         uint       `gorm:"column:user_id;not null;index;comment:举报人"`
	ReportContent  string     `gorm:"column:report_content;type:text;not null"`
	ReportedUserID *uint      `gorm:"column:reported_user_id;index;comment:被举报用户"`
	GroupID        *uint      `gorm:"column:group_id;index"`
	ChatMessageID  *uint      `gorm:"column:chat_message_id;index"`
	AuditState     AuditState `gorm:"column:audit_state;type:varchar(10);index;not null"`
	CreatedAt      time.Time  `gorm:"column:created_at"`
	UpdatedAt      time.Time  `gorm:"column:updated_at"`
}

func (Report) TableName() string {
	return "report"
}

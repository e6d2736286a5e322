package respond

import "time"

// TimeLayout 对外展示的时间格式
const TimeLayout = "2006-01-02 15:04:05"

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(TimeLayout)
}

// ListRespond 分页列表
type ListRespond[T any] struct {
	Items []T `json:"items"`
	Skip  int `json:"skip"`
	Limit int `json:"limit"`
}

// AuditRespond 审核结果
// 建群申请通过时 Group 为新建的群，驳回时 Deleted 为 true
type AuditRespond struct {
	ID         uint           `json:"id"`
	AuditState string         `json:"audit_state"`
	Deleted    bool           `json:"deleted"`
	Group      *GroupRespond  `json:"group,omitempty"`
	Member     *MemberRespond `json:"member,omitempty"`
}

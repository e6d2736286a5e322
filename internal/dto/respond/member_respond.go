package respond

import "group_chat_server/internal/model"

// MemberRespond 群成员，nickname 为空时展示用户名
type MemberRespond struct {
	GroupID             uint   `json:"group_id"`
	UserID              uint   `json:"user_id"`
	Username            string `json:"username"`
	Nickname            string `json:"nickname"`
	AvatarURL           string `json:"avatar_url"`
	IsGroupAdmin        bool   `json:"is_group_admin"`
	IsOwner             bool   `json:"is_owner"`
	Pin                 string `json:"pin"`
	ApprovedReportCount int64  `json:"approved_report_count"`
	JoinedAt            string `json:"joined_at"`
}

// NewMemberRespond 从模型构造
func NewMemberRespond(m *model.GroupMember, username string, ownerID uint) MemberRespond {
	return MemberRespond{
		GroupID:      m.GroupID,
		UserID:       m.UserID,
		Username:     username,
		Nickname:     m.DisplayName(username),
		AvatarURL:    m.AvatarURL,
		IsGroupAdmin: m.IsGroupAdmin,
		IsOwner:      m.UserID == ownerID,
		Pin:          string(m.Pin),
		JoinedAt:     formatTime(m.JoinedAt),
	}
}

// JoinRequestRespond 入群申请
type JoinRequestRespond struct {
	ID         uint   `json:"id"`
	GroupID    uint   `json:"group_id"`
	UserID     uint   `json:"user_id"`
	Nickname   string `json:"nickname"`
	AvatarURL  string `json:"avatar_url"`
	Reason     string `json:"reason"`
	AuditState string `json:"audit_state"`
	CreatedAt  string `json:"created_at"`
}

// NewJoinRequestRespond 从模型构造
func NewJoinRequestRespond(r *model.GroupJoinRequest) JoinRequestRespond {
	return JoinRequestRespond{
		ID:         r.ID,
		GroupID:    r.GroupID,
		UserID:     r.UserID,
		Nickname:   r.Nickname,
		AvatarURL:  r.AvatarURL,
		Reason:     r.Reason,
		AuditState: string(r.AuditState),
		CreatedAt:  formatTime(r.CreatedAt),
	}
}

package respond

import "group_chat_server/internal/model"

// GroupRespond 群详情
type GroupRespond struct {
	ID                  uint   `json:"id"`
	Name                string `json:"name"`
	GroupType           string `json:"group_type"`
	Note                string `json:"note"`
	AnnounceLimit       int    `json:"announce_limit"`
	MemberLimit         int    `json:"member_limit"`
	Announce            string `json:"announce"`
	AvatarURL           string `json:"avatar_url"`
	CreatedByUserID     uint   `json:"created_by_user_id"`
	Pin                 string `json:"pin"`
	AuditState          string `json:"audit_state"`
	MemberCount         int64  `json:"member_count"`
	ApprovedReportCount int64  `json:"approved_report_count"`
	CreatedAt           string `json:"created_at"`
}

// NewGroupRespond 从模型构造，统计字段由调用方补充
func NewGroupRespond(g *model.Group) GroupRespond {
	return GroupRespond{
		ID:              g.ID,
		Name:            g.Name,
		GroupType:       g.GroupType,
		Note:            g.Note,
		AnnounceLimit:   g.AnnounceLimit,
		MemberLimit:     g.MemberLimit,
		Announce:        g.Announce,
		AvatarURL:       g.AvatarURL,
		CreatedByUserID: g.CreatedByUserID,
		Pin:             string(g.Pin),
		AuditState:      string(g.AuditState),
		CreatedAt:       formatTime(g.CreatedAt),
	}
}

// MyGroupRespond 我加入的群，pin 为成员自己的置顶状态
type MyGroupRespond struct {
	GroupRespond
	Pin          string `json:"pin"`
	IsOwner      bool   `json:"is_owner"`
	IsGroupAdmin bool   `json:"is_group_admin"`
}

// CreateRequestRespond 建群申请
type CreateRequestRespond struct {
	ID              uint   `json:"id"`
	Name            string `json:"name"`
	GroupType       string `json:"group_type"`
	Note            string `json:"note"`
	AnnounceLimit   int    `json:"announce_limit"`
	MemberLimit     int    `json:"member_limit"`
	Announce        string `json:"announce"`
	AvatarURL       string `json:"avatar_url"`
	CreatedByUserID uint   `json:"created_by_user_id"`
	AuditState      string `json:"audit_state"`
	CreatedAt       string `json:"created_at"`
}

// NewCreateRequestRespond 从模型构造
func NewCreateRequestRespond(r *model.GroupCreateRequest) CreateRequestRespond {
	return CreateRequestRespond{
		ID:              r.ID,
		Name:            r.Name,
		GroupType:       r.GroupType,
		Note:            r.Note,
		AnnounceLimit:   r.AnnounceLimit,
		MemberLimit:     r.MemberLimit,
		Announce:        r.Announce,
		AvatarURL:       r.AvatarURL,
		CreatedByUserID: r.CreatedByUserID,
		AuditState:      string(r.AuditState),
		CreatedAt:       formatTime(r.CreatedAt),
	}
}

// UpdateRequestRespond 群资料修改申请
// 展示时未修改的字段用群当前值填充，Changed 列出申请真正修改的字段
type UpdateRequestRespond struct {
	ID                uint     `json:"id"`
	GroupID           uint     `json:"group_id"`
	RequestedByUserID uint     `json:"requested_by_user_id"`
	Name              string   `json:"name"`
	GroupType         string   `json:"group_type"`
	Note              string   `json:"note"`
	AnnounceLimit     int      `json:"announce_limit"`
	MemberLimit       int      `json:"member_limit"`
	Announce          string   `json:"announce"`
	AvatarURL         string   `json:"avatar_url"`
	Changed           []string `json:"changed"`
	AuditState        string   `json:"audit_state"`
	CreatedAt         string   `json:"created_at"`
	UpdatedAt         string   `json:"updated_at"`
}

// NewUpdateRequestRespond 以 current 为底，叠加申请中的修改
// current 为 nil 时（群已解散）只展示申请本身的字段
func NewUpdateRequestRespond(r *model.GroupUpdateRequest, current *model.Group) UpdateRequestRespond {
	effective := model.Group{}
	if current != nil {
		effective = *current
	}
	r.GroupPatch.ApplyTo(&effective)
	return UpdateRequestRespond{
		ID:                r.ID,
		GroupID:           r.GroupID,
		RequestedByUserID: r.RequestedByUserID,
		Name:              effective.Name,
		GroupType:         effective.GroupType,
		Note:              effective.Note,
		AnnounceLimit:     effective.AnnounceLimit,
		MemberLimit:       effective.MemberLimit,
		Announce:          effective.Announce,
		AvatarURL:         effective.AvatarURL,
		Changed:           r.GroupPatch.Fields(),
		AuditState:        string(r.AuditState),
		CreatedAt:         formatTime(r.CreatedAt),
		UpdatedAt:         formatTime(r.UpdatedAt),
	}
}

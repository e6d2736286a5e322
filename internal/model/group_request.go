package model

import "time"

// GroupJoinRequest 入群申请
// 同一 (group, user) 同时最多一条 pending
type GroupJoinRequest struct {
	ID         uint       `gorm:"primarykey"`
	GroupID    uint       `gorm:"column:group_id;not null;index"`
	UserID     uint       `gorm:"column:user_id;not null;index"`
	Nickname   string     `gorm:"column:nickname;type:varchar(50)"`
	AvatarURL  string     `gorm:"column:avatar_url;type:varchar(255)"`
	Reason     string     `gorm:"column:reason;type:varchar(500)"`
	AuditState AuditState `gorm:"column:audit_state;type:varchar(10);index;not null"`
	CreatedAt  time.Time  `gorm:"column:created_at"`
	UpdatedAt  time.Time  `gorm:"column:updated_at"`
}

func (GroupJoinRequest) TableName() string {
	return "group_join_request"
}

// GroupCreateRequest 建群申请，审核通过后才真正创建 Group
type GroupCreateRequest struct {
	ID              uint       `gorm:"primarykey"`
	Name            string     `gorm:"column:name;type:varchar(100);not null"`
	GroupType       string     `gorm:"column:group_type;type:varchar(50)"`
	Note            string     `gorm:"column:note;type:varchar(500)"`
	AnnounceLimit   int        `gorm:"column:announce_limit;default:0"`
	MemberLimit     int        `gorm:"column:member_limit;default:200"`
	Announce        string     `gorm:"column:announce;type:text"`
	AvatarURL       string     `gorm:"column:avatar_url;type:varchar(255)"`
	CreatedByUserID uint       `gorm:"column:created_by_user_id;not null;index"`
	AuditState      AuditState `gorm:"column:audit_state;type:varchar(10);index;not null"`
	CreatedAt       time.Time  `gorm:"column:created_at"`
	UpdatedAt       time.Time  `gorm:"column:updated_at"`
}

func (GroupCreateRequest) TableName() string {
	return "group_create_request"
}

// ToGroup 按申请内容生成待落库的群
func (r *GroupCreateRequest) ToGroup() *Group {
	limit := r.MemberLimit
	if limit <= 0 {
		limit = DefaultMemberLimit
	}
	return &Group{
		Name:            r.Name,
		GroupType:       r.GroupType,
		Note:            r.Note,
		AnnounceLimit:   r.AnnounceLimit,
		MemberLimit:     limit,
		Announce:        r.Announce,
		AvatarURL:       r.AvatarURL,
		CreatedByUserID: r.CreatedByUserID,
		Pin:             Unpinned,
		AuditState:      AuditApproved,
	}
}

// GroupUpdateRequest 群资料修改申请
// 每个群同时最多一条 pending，字段为 NULL 表示不修改
type GroupUpdateRequest struct {
	ID                uint       `gorm:"primarykey"`
	GroupID           uint       `gorm:"column:group_id;not null;index"`
	RequestedByUserID uint       `gorm:"column:requested_by_user_id;not null;index"`
	GroupPatch        GroupPatch `gorm:"embedded"`
	AuditState        AuditState `gorm:"column:audit_state;type:varchar(10);index;not null"`
	CreatedAt         time.Time  `gorm:"column:created_at"`
	UpdatedAt         time.Time  `gorm:"column:updated_at"`
}

func (GroupUpdateRequest) TableName() string {
	return "group_update_request"
}

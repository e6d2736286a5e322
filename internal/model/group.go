package model

import "time"

// DefaultMemberLimit 未指定人数上限时的默认值
const DefaultMemberLimit = 200

// Group 群组
// CreatedByUserID 为当前群主，转让群主时随之变更
type Group struct {
	ID              uint       `gorm:"primarykey"`
	Name            string     `gorm:"column:name;type:varchar(100);not null;index;comment:群名称"`
	GroupType       string     `gorm:"column:group_type;type:varchar(50);comment:群类型"`
	Note            string     `gorm:"column:note;type:varchar(500);comment:群简介"`
	AnnounceLimit   int        `gorm:"column:announce_limit;default:0;comment:公告长度限制"`
	MemberLimit     int        `gorm:"column:member_limit;default:200;comment:人数上限"`
	Announce        string     `gorm:"column:announce;type:text;comment:群公告"`
	AvatarURL       string     `gorm:"column:avatar_url;type:varchar(255);comment:群头像"`
	CreatedByUserID uint       `gorm:"column:created_by_user_id;index;not null;comment:群主"`
	Pin             PinState   `gorm:"column:pin;type:varchar(10);default:unpinned;comment:全局置顶（已被成员置顶取代）"`
	AuditState      AuditState `gorm:"column:audit_state;type:varchar(10);index;not null;comment:审核状态"`
	LastChatNo      uint       `gorm:"column:last_chat_no;not null;default:0;comment:已分配的最大消息序号"`
	CreatedAt       time.Time  `gorm:"column:created_at"`
	UpdatedAt       time.Time  `gorm:"column:updated_at"`
}

func (Group) TableName() string {
	return "group_info"
}

// Usable 只有审核通过的群可以收消息、收入群申请
func (g *Group) Usable() bool {
	return g.AuditState == AuditApproved
}

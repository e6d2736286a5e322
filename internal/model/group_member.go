package model

import "time"

// GroupMember 群成员关联表
// (group_id, user_id) 唯一，并发入群时由唯一索引兜底
type GroupMember struct {
	ID           uint      `gorm:"primarykey"`
	GroupID      uint      `gorm:"column:group_id;not null;uniqueIndex:idx_group_user;comment:群组ID"`
	UserID       uint      `gorm:"column:user_id;not null;uniqueIndex:idx_group_user;index;comment:用户ID"`
	Nickname     string    `gorm:"column:nickname;type:varchar(50);comment:群昵称，为空时展示用户名"`
	AvatarURL    string    `gorm:"column:avatar_url;type:varchar(255)"`
	IsGroupAdmin bool      `gorm:"column:is_group_admin;not null;default:false"`
	Pin          PinState  `gorm:"column:pin;type:varchar(10);not null;default:unpinned;comment:成员自己的置顶"`
	JoinedAt     time.Time `gorm:"column:joined_at;autoCreateTime"`
}

func (GroupMember) TableName() string {
	return "group_member"
}

// DisplayName 昵称为空时回退到用户名
func (m *GroupMember) DisplayName(username string) string {
	if m.Nickname != "" {
		return m.Nickname
	}
	return username
}

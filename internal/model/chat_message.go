package model

import "time"

// ChatMessage 群聊消息
// chat_no 在群内单调递增，(group_id, chat_no) 唯一
type ChatMessage struct {
	ID         uint      `gorm:"primarykey"`
	ChatNo     uint      `gorm:"column:chat_no;not null;uniqueIndex:idx_group_chat_no"`
	GroupID    uint      `gorm:"column:group_id;not null;uniqueIndex:idx_group_chat_no;index"`
	UserID     uint      `gorm:"column:user_id;not null;index"`
	SenderName string    `gorm:"column:sender_name;type:varchar(50)"`
	Content    string    `gorm:"column:content;type:text;not null"`
	SentAt     time.Time `gorm:"column:sent_at;index"`
}

func (ChatMessage) TableName() string {
	return "chat_message"
}

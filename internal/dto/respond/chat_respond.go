package respond

import "group_chat_server/internal/model"

// ChatMessageRespond 群消息
type ChatMessageRespond struct {
	ID         uint   `json:"id"`
	GroupID    uint   `json:"group_id"`
	UserID     uint   `json:"user_id"`
	ChatNo     uint   `json:"chat_no"`
	SenderName string `json:"sender_name"`
	Content    string `json:"content"`
	SentAt     string `json:"sent_at"`
}

// NewChatMessageRespond 从模型构造
func NewChatMessageRespond(m *model.ChatMessage) ChatMessageRespond {
	return ChatMessageRespond{
		ID:         m.ID,
		GroupID:    m.GroupID,
		UserID:     m.UserID,
		ChatNo:     m.ChatNo,
		SenderName: m.SenderName,
		Content:    m.Content,
		SentAt:     formatTime(m.SentAt),
	}
}

// RetractRespond 撤回结果，同时作为撤回事件的推送内容
type RetractRespond struct {
	MessageID uint `json:"message_id"`
	GroupID   uint `json:"group_id"`
	ChatNo    uint `json:"chat_no"`
}

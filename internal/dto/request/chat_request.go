package request

// SendChatRequest 发送群消息
// chat_no 由服务端分配，客户端传入的值会被忽略
// 使用位置:
//   - internal/handler/chat_handler.go: SendMessageHandler
//   - internal/service/chat/service.go: SendMessage
type SendChatRequest struct {
	Content    string `json:"content" binding:"required,max=5000"`
	SenderName string `json:"sender_name" binding:"max=50"`
	ChatNo     *uint  `json:"chat_no"`
}

// ListChatsQuery 群消息列表查询
type ListChatsQuery struct {
	PageQuery
	MinChatNo uint   `form:"min_chat_no"`
	Q         string `form:"q"`
}

// ChatSubscribeQuery WebSocket 订阅参数，浏览器无法设置 Header 所以 token 放在 query 里
type ChatSubscribeQuery struct {
	GroupID uint   `form:"group_id" binding:"required"`
	Token   string `form:"token" binding:"required"`
}

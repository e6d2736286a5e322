package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterChatRoutes 群聊消息和 WebSocket 订阅
func (rt *Router) RegisterChatRoutes(rg *gin.RouterGroup) {
	rg.POST("/groups/:id/chats", rt.handlers.Chat.SendMessage)
	rg.GET("/groups/:id/chats", rt.handlers.Chat.ListMessages)
	rg.DELETE("/groups/:id/chats/:mid", rt.handlers.Chat.RetractMessage)

	// 请求示例: ws://host:port/api/chats/ws?group_id=1&token=xxx
	rg.GET("/chats/ws", rt.handlers.Chat.Subscribe)
}

package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"group_chat_server/internal/dto/request"
	"group_chat_server/internal/infrastructure/middleware"
	"group_chat_server/internal/service"
)

// Subscriber 群事件推送通道，由 websocket Hub 实现
type Subscriber interface {
	Serve(w http.ResponseWriter, r *http.Request, groupID, userID uint) error
}

// ChatHandler 群聊消息请求处理器
type ChatHandler struct {
	chatSvc service.ChatService
	hub     Subscriber
}

func NewChatHandler(chatSvc service.ChatService, hub Subscriber) *ChatHandler {
	return &ChatHandler{chatSvc: chatSvc, hub: hub}
}

// SendMessage 发送群消息
// POST /api/groups/:id/chats
func (h *ChatHandler) SendMessage(c *gin.Context) {
	groupID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req request.SendChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.chatSvc.SendMessage(middleware.ActorFrom(c), groupID, req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// ListMessages 群消息列表，按 chat_no 升序
// GET /api/groups/:id/chats?min_chat_no=&q=&skip=&limit=
func (h *ChatHandler) ListMessages(c *gin.Context) {
	groupID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req request.ListChatsQuery
	if err := c.ShouldBindQuery(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.chatSvc.ListMessages(middleware.ActorFrom(c), groupID, req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, listOf(data, req.PageQuery))
}

// RetractMessage 撤回消息
// DELETE /api/groups/:id/chats/:mid
func (h *ChatHandler) RetractMessage(c *gin.Context) {
	groupID, ok := pathID(c, "id")
	if !ok {
		return
	}
	messageID, ok := pathID(c, "mid")
	if !ok {
		return
	}
	data, err := h.chatSvc.RetractMessage(middleware.ActorFrom(c), groupID, messageID)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// Subscribe 升级为 WebSocket 并订阅群事件
// GET /api/chats/ws?group_id=&token=
func (h *ChatHandler) Subscribe(c *gin.Context) {
	var req request.ChatSubscribeQuery
	if err := c.ShouldBindQuery(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	actor := middleware.ActorFrom(c)
	if err := h.chatSvc.AuthorizeSubscribe(actor, req.GroupID); err != nil {
		HandleError(c, err)
		return
	}
	// 升级失败时 upgrader 已写出 HTTP 错误
	if err := h.hub.Serve(c.Writer, c.Request, req.GroupID, actor.UserID); err != nil {
		zap.L().Warn("ws upgrade failed", zap.Uint("group_id", req.GroupID), zap.Uint("user_id", actor.UserID), zap.Error(err))
	}
}

// Package websocket 群事件的实时推送
// Hub 按群 ID 维护在线订阅连接，实现 notify.Publisher
package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"go.uber.org/zap"

	"group_chat_server/internal/service/notify"
)

// Hub 维护各群的在线连接
type Hub struct {
	mu     sync.RWMutex
	rooms  map[uint]map[*Client]struct{}
	closed bool
}

// NewHub 创建 Hub
func NewHub() *Hub {
	return &Hub{rooms: make(map[uint]map[*Client]struct{})}
}

// Serve 升级连接并订阅指定群，权限检查由调用方完成
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, groupID, userID uint) error {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	client := &Client{
		hub:     h,
		conn:    conn,
		groupID: groupID,
		userID:  userID,
		send:    make(chan []byte, sendBufferSize),
	}
	if !h.register(client) {
		_ = conn.Close()
		return nil
	}
	zap.L().Info("ws连接成功", zap.Uint("group_id", groupID), zap.Uint("user_id", userID))
	go client.writePump()
	go client.readPump()
	return nil
}

func (h *Hub) register(c *Client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	room, ok := h.rooms[c.groupID]
	if !ok {
		room = make(map[*Client]struct{})
		h.rooms[c.groupID] = room
	}
	room[c] = struct{}{}
	return true
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(c)
}

// removeLocked 调用方持有写锁
func (h *Hub) removeLocked(c *Client) {
	room, ok := h.rooms[c.groupID]
	if !ok {
		return
	}
	if _, ok := room[c]; !ok {
		return
	}
	delete(room, c)
	close(c.send)
	if len(room) == 0 {
		delete(h.rooms, c.groupID)
	}
}

// Publish 推送给群内所有在线连接
// 发送缓冲已满的慢连接直接断开，解散事件推送后断开全部连接
func (h *Hub) Publish(_ context.Context, groupID uint, event notify.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.rooms[groupID] {
		select {
		case c.send <- payload:
		default:
			zap.L().Warn("ws send buffer full, dropping client", zap.Uint("group_id", groupID), zap.Uint("user_id", c.userID))
			h.removeLocked(c)
		}
	}
	if event.Kind == notify.KindDissolved {
		for c := range h.rooms[groupID] {
			h.removeLocked(c)
		}
	}
	return nil
}

// Count 群内在线连接数
func (h *Hub) Count(groupID uint) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[groupID])
}

// CloseGroup 群解散后断开所有订阅
func (h *Hub) CloseGroup(groupID uint) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.rooms[groupID] {
		h.removeLocked(c)
	}
}

// Close 关闭所有连接，之后不再接受新订阅
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for _, room := range h.rooms {
		for c := range room {
			h.removeLocked(c)
		}
	}
}

var _ notify.Publisher = (*Hub)(nil)

// Package notify 群事件推送端口
// 事务提交后调用，推送失败只记日志，不影响已提交的变更
package notify

import (
	"context"
	"time"

	"go.uber.org/zap"

	"group_chat_server/internal/infrastructure/worker"
)

// Kind 事件类型
type Kind string

const (
	KindMessage   Kind = "message"
	KindRetracted Kind = "retracted"
	// KindDissolved 群已解散，推送后断开该群所有订阅
	KindDissolved Kind = "dissolved"
)

// Event 推送给群内在线连接的事件
type Event struct {
	Kind    Kind        `json:"event"`
	GroupID uint        `json:"group_id"`
	Data    interface{} `json:"data"`
}

// Publisher 具体推送通道（WebSocket Hub、Kafka 等）
type Publisher interface {
	Publish(ctx context.Context, groupID uint, event Event) error
}

// Notifier Service 层依赖的通知接口
type Notifier interface {
	Notify(groupID uint, event Event)
}

// Dispatcher 把事件异步分发给所有 Publisher
type Dispatcher struct {
	publishers []Publisher
	tasks      worker.TrySubmitter
	timeout    time.Duration
}

// NewDispatcher 创建分发器
func NewDispatcher(tasks worker.TrySubmitter, publishers ...Publisher) *Dispatcher {
	return &Dispatcher{
		publishers: publishers,
		tasks:      tasks,
		timeout:    5 * time.Second,
	}
}

// Notify 提交推送任务后立即返回，队列已满时丢弃事件
func (d *Dispatcher) Notify(groupID uint, event Event) {
	event.GroupID = groupID
	ok := d.tasks.TrySubmit(func() {
		for _, p := range d.publishers {
			d.publishOne(p, groupID, event)
		}
	})
	if !ok {
		zap.L().Warn("notify queue full, event dropped",
			zap.Uint("group_id", groupID),
			zap.String("event", string(event.Kind)))
	}
}

// publishOne 单个 Publisher 的失败和 panic 不影响其他 Publisher
func (d *Dispatcher) publishOne(p Publisher, groupID uint, event Event) {
	defer func() {
		if rec := recover(); rec != nil {
			zap.L().Error("notify publisher panic", zap.Uint("group_id", groupID), zap.Any("recover", rec))
		}
	}()
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()
	if err := p.Publish(ctx, groupID, event); err != nil {
		zap.L().Warn("notify publish failed",
			zap.Uint("group_id", groupID),
			zap.String("event", string(event.Kind)),
			zap.Error(err))
	}
}

// Nop 不做任何推送
type Nop struct{}

func (Nop) Notify(uint, Event) {}

var (
	_ Notifier = (*Dispatcher)(nil)
	_ Notifier = Nop{}
)

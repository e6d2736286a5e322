package notify

import "sync"

// Recorder 同步记录所有事件，供测试断言
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *Recorder) Notify(groupID uint, event Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	event.GroupID = groupID
	r.events = append(r.events, event)
}

// Events 返回已记录事件的副本
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

var _ Notifier = (*Recorder)(nil)

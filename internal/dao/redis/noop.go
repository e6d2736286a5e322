package redis

import (
	"context"
	"time"

	"group_chat_server/internal/infrastructure/worker"
	"group_chat_server/pkg/errorx"
)

// NoopCache 未启用 Redis 时的空实现，读永远未命中
type NoopCache struct {
	tasks worker.Submitter
}

// NewNoopCache 创建空缓存，异步任务仍交给 Worker Pool
func NewNoopCache(tasks worker.Submitter) *NoopCache {
	return &NoopCache{tasks: tasks}
}

func (NoopCache) Set(context.Context, string, string, time.Duration) error { return nil }

func (NoopCache) Get(context.Context, string) (string, error) { return "", nil }

func (NoopCache) GetOrError(_ context.Context, key string) (string, error) {
	return "", errorx.Newf(errorx.CodeNotFound, "cache key %s not found", key)
}

func (NoopCache) Delete(context.Context, ...string) error { return nil }

func (NoopCache) DeleteByPattern(context.Context, string) error { return nil }

func (n NoopCache) SubmitTask(action func()) {
	if n.tasks == nil {
		action()
		return
	}
	n.tasks.Submit(action)
}

var _ AsyncCacheService = (*NoopCache)(nil)

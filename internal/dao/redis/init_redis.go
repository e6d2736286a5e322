// Package redis 提供 Redis 缓存操作的封装
// 使用 github.com/redis/go-redis/v9 作为底层客户端
package redis

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"group_chat_server/internal/config"
	"group_chat_server/internal/infrastructure/worker"
)

// Init 按配置创建缓存服务
// 未启用 Redis 时返回 NoopCache，连接失败返回错误
func Init(conf config.RedisConfig, tasks worker.Submitter) (AsyncCacheService, *redis.Client, error) {
	if !conf.Enabled {
		zap.L().Info("redis disabled, using noop cache")
		return NewNoopCache(tasks), nil, nil
	}

	port := conf.Port
	if port == 0 {
		port = 6379
	}
	client := redis.NewClient(&redis.Options{
		Addr:     conf.Host + ":" + strconv.Itoa(port),
		Password: conf.Password, // 无密码留空
		DB:       conf.Db,
		// 连接池配置
		PoolSize:     50,
		MinIdleConns: 10,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, err
	}
	return NewRedisCache(client, tasks), client, nil
}

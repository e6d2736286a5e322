package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"group_chat_server/internal/config"
	dao "group_chat_server/internal/dao/mysql"
	myredis "group_chat_server/internal/dao/redis"
	"group_chat_server/internal/gateway/websocket"
	"group_chat_server/internal/handler"
	"group_chat_server/internal/https_server"
	"group_chat_server/internal/infrastructure/logger"
	"group_chat_server/internal/infrastructure/mq"
	"group_chat_server/internal/infrastructure/worker"
	"group_chat_server/internal/service"
	"group_chat_server/internal/service/notify"
	"group_chat_server/pkg/constants"
	"group_chat_server/pkg/util/jwt"
)

func main() {
	// 1. 加载配置
	conf := config.GetConfig()

	// 2. 初始化日志
	if err := logger.Init(&conf.LogConfig, conf.Mode); err != nil {
		log.Fatalf("init logger failed: %v", err)
	}
	defer func() { _ = zap.L().Sync() }()
	zap.L().Info("日志初始化成功")

	if err := handler.InitTrans(constants.VALIDATOR_LOCALE); err != nil {
		zap.L().Fatal("init validator translator failed", zap.Error(err))
	}

	// 3. 初始化数据库并迁移表结构
	repos, err := dao.Init(conf.DatabaseConfig)
	if err != nil {
		zap.L().Fatal("数据库初始化失败", zap.Error(err))
	}
	zap.L().Info("数据库初始化成功", zap.String("driver", conf.Driver))

	// 4. 后台任务池：缓存失效和事件推送
	pool := worker.NewPool("background", constants.BACKGROUND_WORKERS, constants.BACKGROUND_QUEUE_SIZE)

	// 5. 初始化 Redis，未启用时使用空实现
	cache, redisClient, err := myredis.Init(conf.RedisConfig, pool)
	if err != nil {
		zap.L().Fatal("Redis 初始化失败", zap.Error(err))
	}
	zap.L().Info("Redis 初始化成功", zap.Bool("enabled", conf.RedisConfig.Enabled))

	// 6. 初始化 JWT
	jwt.Init(conf.Secret, conf.AccessTokenExpiry, conf.RefreshTokenExpiry)

	// 7. 群事件推送：WebSocket 必选，Kafka 可选
	hub := websocket.NewHub()
	publishers := []notify.Publisher{hub}
	var kafka *mq.KafkaPublisher
	if conf.KafkaConfig.Enabled {
		mq.EnsureTopic(conf.KafkaConfig, constants.EVENT_TOPIC_PARTITION)
		kafka = mq.NewKafkaPublisher(conf.KafkaConfig)
		publishers = append(publishers, kafka)
		zap.L().Info("Kafka 事件外发已启用", zap.String("topic", conf.EventTopic))
	}
	notifier := notify.NewDispatcher(pool, publishers...)

	// 8. Service 层 (依赖注入)
	svc := service.NewServices(service.Deps{
		Repos:    repos,
		Cache:    cache,
		Notifier: notifier,
		Config:   conf,
	})
	if err := svc.User.EnsureAdmin(conf.AdminConfig, conf.Mode); err != nil {
		zap.L().Fatal("初始化管理员账号失败", zap.Error(err))
	}

	// 9. HTTP 服务
	handlers := handler.NewHandlers(svc, hub, repos)
	engine := https_server.NewEngine(conf, handlers, svc.User)
	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", conf.MainConfig.Host, conf.MainConfig.Port),
		Handler: engine,
	}
	go func() {
		zap.L().Info("服务启动", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zap.L().Fatal("server running fault", zap.Error(err))
		}
	}()

	// 等待退出信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zap.L().Info("关闭服务器...")

	ctx, cancel := context.WithTimeout(context.Background(), constants.SHUTDOWN_TIMEOUT)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zap.L().Error("server shutdown", zap.Error(err))
	}
	hub.Close()
	// 先排空任务池，再关闭它依赖的 Kafka 和 Redis
	pool.Close()
	if kafka != nil {
		kafka.Close()
	}
	if redisClient != nil {
		_ = redisClient.Close()
	}
	if err := repos.Close(); err != nil {
		zap.L().Error("close database", zap.Error(err))
	}
	zap.L().Info("服务器已关闭")
}

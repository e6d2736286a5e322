// Package mq 群事件外发到 Kafka
// 下游服务（审计、离线推送等）订阅 EventTopic 即可拿到所有群事件
package mq

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"group_chat_server/internal/config"
	"group_chat_server/internal/service/notify"
)

// messageWriter kafka.Writer 的最小子集，便于测试替换
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher 实现 notify.Publisher
// 以群 ID 作为消息 Key，保证同一群的事件落在同一分区内有序
type KafkaPublisher struct {
	writer messageWriter
}

// NewKafkaPublisher 根据配置创建 Writer
func NewKafkaPublisher(conf config.KafkaConfig) *KafkaPublisher {
	timeout := conf.Timeout * time.Second
	if timeout <= 0 {
		timeout = time.Second
	}
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(conf.HostPort),
			Topic:                  conf.EventTopic,
			Balancer:               &kafka.Hash{},
			WriteTimeout:           timeout,
			RequiredAcks:           kafka.RequireOne,
			AllowAutoTopicCreation: true,
		},
	}
}

// Publish 写入一条群事件
func (k *KafkaPublisher) Publish(ctx context.Context, groupID uint, event notify.Event) error {
	value, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return k.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(strconv.FormatUint(uint64(groupID), 10)),
		Value: value,
		Time:  time.Now(),
	})
}

// Close 刷新缓冲并关闭 Writer
func (k *KafkaPublisher) Close() {
	if err := k.writer.Close(); err != nil {
		zap.L().Error("kafka writer close failed", zap.Error(err))
	}
}

// EnsureTopic 创建事件 topic，已存在时 Kafka 会返回错误，这里只记日志
func EnsureTopic(conf config.KafkaConfig, partitions int) {
	conn, err := kafka.Dial("tcp", conf.HostPort)
	if err != nil {
		zap.L().Error("kafka dial failed", zap.Error(err))
		return
	}
	defer conn.Close()

	if partitions <= 0 {
		partitions = 1
	}
	if err := conn.CreateTopics(kafka.TopicConfig{
		Topic:             conf.EventTopic,
		NumPartitions:     partitions,
		ReplicationFactor: 1,
	}); err != nil {
		zap.L().Warn("kafka create topic", zap.String("topic", conf.EventTopic), zap.Error(err))
	}
}

var _ notify.Publisher = (*KafkaPublisher)(nil)

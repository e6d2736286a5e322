package constants

import "time"

const (
	BACKGROUND_WORKERS    = 8                // 后台任务池协程数
	BACKGROUND_QUEUE_SIZE = 1024             // 后台任务队列长度
	SHUTDOWN_TIMEOUT      = 10 * time.Second // 优雅退出等待时间
	EVENT_TOPIC_PARTITION = 1                // 群事件主题分区数
	VALIDATOR_LOCALE      = "zh"             // 参数校验提示语言
)

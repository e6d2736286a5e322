// Package handler 提供 HTTP 请求处理器
// 本文件定义 Handler 聚合结构和构造函数
package handler

import (
	"group_chat_server/internal/service"
)

// Handlers 聚合所有 Handler 实例
// Router 层通过此结构访问各个 Handler
type Handlers struct {
	User   *UserHandler
	Group  *GroupHandler
	Member *MemberHandler
	Chat   *ChatHandler
	Report *ReportHandler
	File   *FileHandler
	Health *HealthHandler
}

// NewHandlers 创建并注入所有 Handler 实例
// hub: 群事件订阅通道，db: 健康检查使用的数据库
func NewHandlers(svc *service.Services, hub Subscriber, db Pinger) *Handlers {
	return &Handlers{
		User:   NewUserHandler(svc.User),
		Group:  NewGroupHandler(svc.Group),
		Member: NewMemberHandler(svc.Member),
		Chat:   NewChatHandler(svc.Chat, hub),
		Report: NewReportHandler(svc.Report),
		File:   NewFileHandler(svc.File),
		Health: NewHealthHandler(db),
	}
}

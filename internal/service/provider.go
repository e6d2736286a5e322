// Package service 提供业务逻辑层
// 本文件实现 Service 层的依赖注入和聚合
package service

import (
	"time"

	"group_chat_server/internal/config"
	"group_chat_server/internal/dao/mysql/repository"
	myredis "group_chat_server/internal/dao/redis"
	"group_chat_server/internal/service/audit"
	"group_chat_server/internal/service/auth"
	"group_chat_server/internal/service/chat"
	"group_chat_server/internal/service/file"
	"group_chat_server/internal/service/group"
	"group_chat_server/internal/service/member"
	"group_chat_server/internal/service/notify"
	"group_chat_server/internal/service/report"
	"group_chat_server/internal/service/user"
)

// Services 聚合所有 Service 实例
// 作为依赖注入的入口，Handler 层通过此结构访问各个 Service
type Services struct {
	User   UserService
	Group  GroupService
	Member MemberService
	Chat   ChatService
	Report ReportService
	File   FileService
}

// Deps Service 层依赖
type Deps struct {
	Repos    *repository.Repositories
	Cache    myredis.AsyncCacheService
	Notifier notify.Notifier
	Config   *config.Config
}

// NewServices 创建并注入所有 Service 实例
// 审核策略、撤回窗口、Token 有效期都从配置中读取
func NewServices(deps Deps) *Services {
	conf := deps.Config
	policy := audit.Policy{AllowReaudit: conf.AllowReaudit}
	refreshTTL := time.Duration(conf.RefreshTokenExpiry) * time.Hour

	return &Services{
		User:   user.NewUserService(deps.Repos, deps.Cache, auth.NewAuthService(deps.Cache), deps.Notifier, refreshTTL),
		Group:  group.NewGroupService(deps.Repos, deps.Cache, policy, deps.Notifier),
		Member: member.NewMemberService(deps.Repos, deps.Cache, policy),
		Chat:   chat.NewChatService(deps.Repos, deps.Notifier, conf.RetractDuration()),
		Report: report.NewReportService(deps.Repos, deps.Cache, policy),
		File:   file.NewFileService(conf.StaticSrcConfig),
	}
}

// Package auth 维护 Refresh Token 登记
// 每个用户只保留最近一次登录的 Token ID，旧的 Refresh Token 随之失效
package auth

import (
	"context"
	"time"

	myredis "group_chat_server/internal/dao/redis"
)

// Service 认证服务实现
type Service struct {
	cache myredis.CacheService // 缓存服务（依赖倒置）
}

// NewAuthService 创建认证服务实例
func NewAuthService(cache myredis.CacheService) *Service {
	return &Service{
		cache: cache,
	}
}

// Register 登录成功后记录最新的 Token ID，ttl 与 Refresh Token 有效期一致
func (s *Service) Register(userID uint, tokenID string, ttl time.Duration) error {
	return s.cache.Set(context.Background(), myredis.RefreshTokenKey(userID), tokenID, ttl)
}

// ValidateTokenID 验证用户的 Token ID 是否有效
// 没有登记记录时放行（未启用 Redis 或记录已过期），只拒绝被新登录顶掉的 Token
func (s *Service) ValidateTokenID(userID uint, tokenID string) (bool, error) {
	validTokenID, err := s.cache.Get(context.Background(), myredis.RefreshTokenKey(userID))
	if err != nil {
		return false, err
	}
	if validTokenID == "" {
		return true, nil
	}
	return tokenID == validTokenID, nil
}

// Revoke 删除用户的登记，用户删除时调用
func (s *Service) Revoke(userID uint) error {
	return s.cache.Delete(context.Background(), myredis.RefreshTokenKey(userID))
}

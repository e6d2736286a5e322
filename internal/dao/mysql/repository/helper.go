package repository

import (
	"errors"
	"strings"

	"group_chat_server/pkg/errorx"

	"gorm.io/gorm"
)

// ==================== 错误包装辅助函数 ====================

// wrapDBError 包装数据库错误
// 根据错误类型返回不同的错误码：
//   - ErrRecordNotFound -> CodeNotFound
//   - ErrDuplicatedKey -> CodeConflict（唯一索引冲突）
//   - 其他错误 -> CodeDBError
func wrapDBError(err error, msg string) error {
	if err == nil {
		return nil
	}
	return errorx.Wrap(err, dbErrorCode(err), msg)
}

// wrapDBErrorf 包装数据库错误（支持格式化消息）
func wrapDBErrorf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return errorx.Wrapf(err, dbErrorCode(err), format, args...)
}

func dbErrorCode(err error) int {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return errorx.CodeNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return errorx.CodeConflict
	default:
		return errorx.CodeDBError
	}
}

// ==================== 分页 ====================

const (
	DefaultLimit = 100
	MaxLimit     = 500
)

// Page skip/limit 分页参数
type Page struct {
	Skip  int
	Limit int
}

// scope 作为 GORM Scope 使用
func (p Page) scope(db *gorm.DB) *gorm.DB {
	skip, limit := p.Skip, p.Limit
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return db.Offset(skip).Limit(limit)
}

// likePattern 构造包含匹配的 LIKE 参数
func likePattern(q string) string {
	return "%" + strings.TrimSpace(q) + "%"
}

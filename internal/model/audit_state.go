// Package model 定义数据库实体模型
package model

// AuditState 审核状态，pending 为初始态，approved / rejected 为终态
type AuditState string

const (
	AuditPending  AuditState = "pending"
	AuditApproved AuditState = "approved"
	AuditRejected AuditState = "rejected"
)

// Valid 是否为已知状态
func (s AuditState) Valid() bool {
	switch s {
	case AuditPending, AuditApproved, AuditRejected:
		return true
	}
	return false
}

// IsTerminal 是否已审核完毕
func (s AuditState) IsTerminal() bool {
	return s == AuditApproved || s == AuditRejected
}

// PinState 置顶状态
type PinState string

const (
	Unpinned PinState = "unpinned"
	Pinned   PinState = "pinned"
)

// Role 系统角色
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// AllModels 返回需要迁移的全部模型
func AllModels() []interface{} {
	return []interface{}{
		&User{},
		&Group{},
		&GroupMember{},
		&GroupJoinRequest{},
		&GroupCreateRequest{},
		&GroupUpdateRequest{},
		&Report{},
		&ChatMessage{},
	}
}

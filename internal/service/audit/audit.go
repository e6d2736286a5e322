// Package audit 实现通用的三态审核状态机
// 入群申请、建群申请、改群申请、举报共用同一套迁移规则
package audit

import (
	"strings"

	"group_chat_server/internal/model"
	"group_chat_server/pkg/errorx"
)

// Action 审核动作
type Action string

const (
	Approve Action = "approve"
	Reject  Action = "reject"
)

// ParseAction 解析审核动作，兼容 approved / rejected 写法
func ParseAction(s string) (Action, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "approve", "approved":
		return Approve, nil
	case "reject", "rejected":
		return Reject, nil
	}
	return "", errorx.Validation("审核动作只能是 approve 或 reject")
}

// Target 审核动作对应的目标状态
func (a Action) Target() model.AuditState {
	if a == Approve {
		return model.AuditApproved
	}
	return model.AuditRejected
}

// Policy 审核策略
type Policy struct {
	// AllowReaudit 为 true 时允许对终态记录再次审核
	AllowReaudit bool
}

// Transition 计算迁移结果
// 记录已处于终态且策略不允许重审时返回 ErrAlreadyDecided
func (p Policy) Transition(current model.AuditState, action Action) (model.AuditState, error) {
	if action != Approve && action != Reject {
		return current, errorx.Validation("审核动作只能是 approve 或 reject")
	}
	if current.IsTerminal() && !p.AllowReaudit {
		return current, errorx.ErrAlreadyDecided
	}
	return action.Target(), nil
}

// ParseState 解析列表过滤用的状态，空串表示不过滤
func ParseState(s string) (model.AuditState, error) {
	if s == "" {
		return "", nil
	}
	state := model.AuditState(strings.ToLower(s))
	if !state.Valid() {
		return "", errorx.Validation("审核状态只能是 pending、approved 或 rejected")
	}
	return state, nil
}

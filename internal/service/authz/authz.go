// Package authz 权限判断
// 全部是无副作用的纯函数，每个操作显式组合所需的判断
package authz

import "group_chat_server/internal/model"

// Actor 当前请求的调用者
type Actor struct {
	UserID uint
	Role   model.Role
}

// IsSystemAdmin 系统管理员
func IsSystemAdmin(a Actor) bool {
	return a.Role == model.RoleAdmin
}

// IsOwner 用户是否为群主
func IsOwner(g *model.Group, userID uint) bool {
	return g != nil && g.CreatedByUserID == userID
}

// IsMember 成员记录存在即为成员
func IsMember(m *model.GroupMember) bool {
	return m != nil
}

// IsGroupAdmin 群管理员（群主同样带有该标记）
func IsGroupAdmin(m *model.GroupMember) bool {
	return m != nil && m.IsGroupAdmin
}

// IsSelf 操作对象是否为调用者自己
func IsSelf(a Actor, userID uint) bool {
	return a.UserID == userID
}

// CanModerateGroup 系统管理员、群主或群管理员
func CanModerateGroup(a Actor, g *model.Group, m *model.GroupMember) bool {
	return IsSystemAdmin(a) || IsOwner(g, a.UserID) || IsGroupAdmin(m)
}

// CanManageUser 系统管理员或用户本人
func CanManageUser(a Actor, userID uint) bool {
	return IsSystemAdmin(a) || IsSelf(a, userID)
}

// Package repository 提供数据访问层的具体实现
// 本文件实现 GroupMemberRepository 接口，处理群成员相关的数据库操作
package repository

import (
	"group_chat_server/internal/model"

	"gorm.io/gorm"
)

// groupMemberRepository GroupMemberRepository 接口的实现
type groupMemberRepository struct {
	db *gorm.DB // GORM 数据库实例
}

// NewGroupMemberRepository 创建 GroupMemberRepository 实例
func NewGroupMemberRepository(db *gorm.DB) GroupMemberRepository {
	return &groupMemberRepository{db: db}
}

// Find 根据群组和用户查找成员关系
// 用于检查用户是否已在群中
func (r *groupMemberRepository) Find(groupID, userID uint) (*model.GroupMember, error) {
	var member model.GroupMember
	if err := r.db.Where("group_id = ? AND user_id = ?", groupID, userID).First(&member).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询群成员 group_id=%d user_id=%d", groupID, userID)
	}
	return &member, nil
}

// Count 统计群当前人数
func (r *groupMemberRepository) Count(groupID uint) (int64, error) {
	var count int64
	if err := r.db.Model(&model.GroupMember{}).Where("group_id = ?", groupID).Count(&count).Error; err != nil {
		return 0, wrapDBErrorf(err, "统计群成员 group_id=%d", groupID)
	}
	return count, nil
}

// withUser 关联 user_info 取用户名
func (r *groupMemberRepository) withUser(groupID uint) *gorm.DB {
	return r.db.Table("group_member").
		Select("group_member.*, user_info.username AS username").
		Joins("LEFT JOIN user_info ON user_info.id = group_member.user_id").
		Where("group_member.group_id = ?", groupID)
}

// List 分页查询群成员（含用户名）
func (r *groupMemberRepository) List(groupID uint, page Page) ([]MemberWithUser, error) {
	var members []MemberWithUser
	if err := r.withUser(groupID).Order("group_member.id").Scopes(page.scope).Scan(&members).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询群成员 group_id=%d", groupID)
	}
	return members, nil
}

// Search 按群昵称或用户名搜索成员
func (r *groupMemberRepository) Search(groupID uint, q string) ([]MemberWithUser, error) {
	var members []MemberWithUser
	pattern := likePattern(q)
	if err := r.withUser(groupID).
		Where("group_member.nickname LIKE ? OR user_info.username LIKE ?", pattern, pattern).
		Order("group_member.id").
		Scan(&members).Error; err != nil {
		return nil, wrapDBErrorf(err, "搜索群成员 group_id=%d", groupID)
	}
	return members, nil
}

// ListMyGroups 查询用户加入的已审核群
// 成员自己置顶的群在前，其余按建群时间倒序
func (r *groupMemberRepository) ListMyGroups(userID uint) ([]MyGroupRow, error) {
	var rows []MyGroupRow
	if err := r.db.Table("group_member").
		Select("group_info.*, group_member.is_group_admin AS is_group_admin, group_member.pin AS member_pin").
		Joins("JOIN group_info ON group_info.id = group_member.group_id").
		Where("group_member.user_id = ? AND group_info.audit_state = ?", userID, model.AuditApproved).
		Order("CASE WHEN group_member.pin = '" + string(model.Pinned) + "' THEN 0 ELSE 1 END, group_info.created_at DESC, group_info.id DESC").
		Scan(&rows).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询我的群组 user_id=%d", userID)
	}
	return rows, nil
}

// UserIDs 获取群内所有成员ID
func (r *groupMemberRepository) UserIDs(groupID uint) ([]uint, error) {
	var ids []uint
	if err := r.db.Model(&model.GroupMember{}).Where("group_id = ?", groupID).Pluck("user_id", &ids).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询群成员ID group_id=%d", groupID)
	}
	return ids, nil
}

// Create 添加群成员
// (group_id, user_id) 冲突时返回 CodeConflict
func (r *groupMemberRepository) Create(member *model.GroupMember) error {
	if err := r.db.Create(member).Error; err != nil {
		return wrapDBErrorf(err, "创建群成员 group_id=%d user_id=%d", member.GroupID, member.UserID)
	}
	return nil
}

// SetAdmin 设置群管理员标记
func (r *groupMemberRepository) SetAdmin(groupID, userID uint, isAdmin bool) error {
	if err := r.db.Model(&model.GroupMember{}).
		Where("group_id = ? AND user_id = ?", groupID, userID).
		Update("is_group_admin", isAdmin).Error; err != nil {
		return wrapDBErrorf(err, "设置群管理员 group_id=%d user_id=%d", groupID, userID)
	}
	return nil
}

// SetPin 设置成员自己的置顶状态
func (r *groupMemberRepository) SetPin(groupID, userID uint, pin model.PinState) error {
	if err := r.db.Model(&model.GroupMember{}).
		Where("group_id = ? AND user_id = ?", groupID, userID).
		Update("pin", pin).Error; err != nil {
		return wrapDBErrorf(err, "设置群置顶 group_id=%d user_id=%d", groupID, userID)
	}
	return nil
}

// Delete 删除单个群成员
func (r *groupMemberRepository) Delete(groupID, userID uint) error {
	if err := r.db.Where("group_id = ? AND user_id = ?", groupID, userID).Delete(&model.GroupMember{}).Error; err != nil {
		return wrapDBErrorf(err, "删除群成员 group_id=%d user_id=%d", groupID, userID)
	}
	return nil
}

// DeleteByGroup 删除群组的所有成员
// 用于解散群组时清理成员数据
func (r *groupMemberRepository) DeleteByGroup(groupID uint) error {
	if err := r.db.Where("group_id = ?", groupID).Delete(&model.GroupMember{}).Error; err != nil {
		return wrapDBErrorf(err, "删除群所有成员 group_id=%d", groupID)
	}
	return nil
}

// GroupIDsByUser 用户加入的群
func (r *groupMemberRepository) GroupIDsByUser(userID uint) ([]uint, error) {
	var ids []uint
	if err := r.db.Model(&model.GroupMember{}).Where("user_id = ?", userID).Pluck("group_id", &ids).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询用户所在群 user_id=%d", userID)
	}
	return ids, nil
}

// DeleteByUser 删除用户的所有成员关系
func (r *groupMemberRepository) DeleteByUser(userID uint) error {
	if err := r.db.Where("user_id = ?", userID).Delete(&model.GroupMember{}).Error; err != nil {
		return wrapDBErrorf(err, "删除用户成员关系 user_id=%d", userID)
	}
	return nil
}

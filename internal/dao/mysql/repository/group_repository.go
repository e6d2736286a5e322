// Package repository 提供数据访问层的具体实现
// 本文件实现 GroupRepository 接口，处理群组相关的数据库操作
package repository

import (
	"time"

	"group_chat_server/internal/model"

	"gorm.io/gorm"
)

// groupRepository GroupRepository 接口的实现
type groupRepository struct {
	db *gorm.DB // GORM 数据库实例
}

// NewGroupRepository 创建 GroupRepository 实例
func NewGroupRepository(db *gorm.DB) GroupRepository {
	return &groupRepository{db: db}
}

// FindByID 根据 ID 查找群组
func (r *groupRepository) FindByID(id uint) (*model.Group, error) {
	var group model.Group
	if err := r.db.First(&group, id).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询群组 id=%d", id)
	}
	return &group, nil
}

// FindByOwner 根据群主查找群组
func (r *groupRepository) FindByOwner(userID uint) ([]model.Group, error) {
	var groups []model.Group
	if err := r.db.Where("created_by_user_id = ?", userID).Find(&groups).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询群主的群组 user_id=%d", userID)
	}
	return groups, nil
}

// List 分页查询群组
// state 为空时返回所有状态，q 为群名模糊匹配
func (r *groupRepository) List(state model.AuditState, q string, page Page) ([]model.Group, error) {
	var groups []model.Group
	query := r.db.Model(&model.Group{})
	if state != "" {
		query = query.Where("audit_state = ?", state)
	}
	if q != "" {
		query = query.Where("name LIKE ?", likePattern(q))
	}
	if err := query.Order("id DESC").Scopes(page.scope).Find(&groups).Error; err != nil {
		return nil, wrapDBError(err, "分页查询群组")
	}
	return groups, nil
}

// Create 创建群组
func (r *groupRepository) Create(group *model.Group) error {
	if err := r.db.Create(group).Error; err != nil {
		return wrapDBError(err, "创建群组")
	}
	return nil
}

// Save 更新群组信息（全字段更新），消息计数器只由 NextChatNo 修改
func (r *groupRepository) Save(group *model.Group) error {
	if err := r.db.Omit("last_chat_no").Save(group).Error; err != nil {
		return wrapDBErrorf(err, "更新群组 id=%d", group.ID)
	}
	return nil
}

// LockForWrite 通过一次无害的 UPDATE 取得行写锁
// MySQL/PostgreSQL 锁住该行直到事务结束，SQLite 直接升级为写事务
func (r *groupRepository) LockForWrite(id uint) error {
	if err := r.db.Model(&model.Group{}).Where("id = ?", id).UpdateColumn("updated_at", time.Now()).Error; err != nil {
		return wrapDBErrorf(err, "锁定群组 id=%d", id)
	}
	return nil
}

// NextChatNo 递增群消息计数器并返回新序号
// 撤回消息不回退计数器，序号只增不减
func (r *groupRepository) NextChatNo(id uint) (uint, error) {
	res := r.db.Model(&model.Group{}).Where("id = ?", id).
		UpdateColumn("last_chat_no", gorm.Expr("last_chat_no + ?", 1))
	if res.Error != nil {
		return 0, wrapDBErrorf(res.Error, "分配消息序号 group_id=%d", id)
	}
	if res.RowsAffected == 0 {
		return 0, wrapDBErrorf(gorm.ErrRecordNotFound, "分配消息序号 group_id=%d", id)
	}
	var next uint
	if err := r.db.Model(&model.Group{}).Select("last_chat_no").Where("id = ?", id).Scan(&next).Error; err != nil {
		return 0, wrapDBErrorf(err, "读取消息序号 group_id=%d", id)
	}
	return next, nil
}

// UpdateOwner 变更群主
func (r *groupRepository) UpdateOwner(id, userID uint) error {
	if err := r.db.Model(&model.Group{}).Where("id = ?", id).Update("created_by_user_id", userID).Error; err != nil {
		return wrapDBErrorf(err, "更新群主 id=%d", id)
	}
	return nil
}

// Delete 删除群组
func (r *groupRepository) Delete(id uint) error {
	if err := r.db.Delete(&model.Group{}, id).Error; err != nil {
		return wrapDBErrorf(err, "删除群组 id=%d", id)
	}
	return nil
}

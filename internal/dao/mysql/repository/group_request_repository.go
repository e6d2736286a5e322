// Package repository 提供数据访问层的具体实现
// 本文件实现入群、建群、改群三类申请的数据库操作
package repository

import (
	"group_chat_server/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ==================== 入群申请 ====================

type joinRequestRepository struct {
	db *gorm.DB
}

// NewJoinRequestRepository 创建 JoinRequestRepository 实例
func NewJoinRequestRepository(db *gorm.DB) JoinRequestRepository {
	return &joinRequestRepository{db: db}
}

func (r *joinRequestRepository) FindByID(id uint) (*model.GroupJoinRequest, error) {
	var req model.GroupJoinRequest
	if err := r.db.First(&req, id).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询入群申请 id=%d", id)
	}
	return &req, nil
}

// FindByIDForUpdate 加锁读，MySQL 下不会提前建立一致性读快照
func (r *joinRequestRepository) FindByIDForUpdate(id uint) (*model.GroupJoinRequest, error) {
	var req model.GroupJoinRequest
	if err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&req, id).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询入群申请 id=%d", id)
	}
	return &req, nil
}

// FindPending 查找待审核的入群申请，不存在返回 CodeNotFound
func (r *joinRequestRepository) FindPending(groupID, userID uint) (*model.GroupJoinRequest, error) {
	var req model.GroupJoinRequest
	if err := r.db.Where("group_id = ? AND user_id = ? AND audit_state = ?", groupID, userID, model.AuditPending).
		First(&req).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询待审核入群申请 group_id=%d user_id=%d", groupID, userID)
	}
	return &req, nil
}

func (r *joinRequestRepository) List(groupID uint, state model.AuditState, page Page) ([]model.GroupJoinRequest, error) {
	var reqs []model.GroupJoinRequest
	query := r.db.Where("group_id = ?", groupID)
	if state != "" {
		query = query.Where("audit_state = ?", state)
	}
	if err := query.Order("id DESC").Scopes(page.scope).Find(&reqs).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询入群申请 group_id=%d", groupID)
	}
	return reqs, nil
}

func (r *joinRequestRepository) Create(req *model.GroupJoinRequest) error {
	if err := r.db.Create(req).Error; err != nil {
		return wrapDBError(err, "创建入群申请")
	}
	return nil
}

func (r *joinRequestRepository) UpdateState(id uint, state model.AuditState) error {
	if err := r.db.Model(&model.GroupJoinRequest{}).Where("id = ?", id).Update("audit_state", state).Error; err != nil {
		return wrapDBErrorf(err, "更新入群申请状态 id=%d", id)
	}
	return nil
}

func (r *joinRequestRepository) Delete(id uint) error {
	if err := r.db.Delete(&model.GroupJoinRequest{}, id).Error; err != nil {
		return wrapDBErrorf(err, "删除入群申请 id=%d", id)
	}
	return nil
}

func (r *joinRequestRepository) DeleteByGroup(groupID uint) error {
	if err := r.db.Where("group_id = ?", groupID).Delete(&model.GroupJoinRequest{}).Error; err != nil {
		return wrapDBErrorf(err, "删除群的入群申请 group_id=%d", groupID)
	}
	return nil
}

func (r *joinRequestRepository) DeleteByUser(userID uint) error {
	if err := r.db.Where("user_id = ?", userID).Delete(&model.GroupJoinRequest{}).Error; err != nil {
		return wrapDBErrorf(err, "删除用户的入群申请 user_id=%d", userID)
	}
	return nil
}

// ==================== 建群申请 ====================

type createRequestRepository struct {
	db *gorm.DB
}

// NewCreateRequestRepository 创建 CreateRequestRepository 实例
func NewCreateRequestRepository(db *gorm.DB) CreateRequestRepository {
	return &createRequestRepository{db: db}
}

func (r *createRequestRepository) FindByID(id uint) (*model.GroupCreateRequest, error) {
	var req model.GroupCreateRequest
	if err := r.db.First(&req, id).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询建群申请 id=%d", id)
	}
	return &req, nil
}

func (r *createRequestRepository) List(state model.AuditState, q string, page Page) ([]model.GroupCreateRequest, error) {
	var reqs []model.GroupCreateRequest
	query := r.db.Model(&model.GroupCreateRequest{})
	if state != "" {
		query = query.Where("audit_state = ?", state)
	}
	if q != "" {
		query = query.Where("name LIKE ?", likePattern(q))
	}
	if err := query.Order("id DESC").Scopes(page.scope).Find(&reqs).Error; err != nil {
		return nil, wrapDBError(err, "查询建群申请")
	}
	return reqs, nil
}

func (r *createRequestRepository) Create(req *model.GroupCreateRequest) error {
	if err := r.db.Create(req).Error; err != nil {
		return wrapDBError(err, "创建建群申请")
	}
	return nil
}

func (r *createRequestRepository) UpdateState(id uint, state model.AuditState) error {
	if err := r.db.Model(&model.GroupCreateRequest{}).Where("id = ?", id).Update("audit_state", state).Error; err != nil {
		return wrapDBErrorf(err, "更新建群申请状态 id=%d", id)
	}
	return nil
}

func (r *createRequestRepository) Delete(id uint) error {
	if err := r.db.Delete(&model.GroupCreateRequest{}, id).Error; err != nil {
		return wrapDBErrorf(err, "删除建群申请 id=%d", id)
	}
	return nil
}

func (r *createRequestRepository) DeleteByUser(userID uint) error {
	if err := r.db.Where("created_by_user_id = ?", userID).Delete(&model.GroupCreateRequest{}).Error; err != nil {
		return wrapDBErrorf(err, "删除用户的建群申请 user_id=%d", userID)
	}
	return nil
}

// ==================== 群资料修改申请 ====================

type updateRequestRepository struct {
	db *gorm.DB
}

// NewUpdateRequestRepository 创建 UpdateRequestRepository 实例
func NewUpdateRequestRepository(db *gorm.DB) UpdateRequestRepository {
	return &updateRequestRepository{db: db}
}

func (r *updateRequestRepository) FindByID(id uint) (*model.GroupUpdateRequest, error) {
	var req model.GroupUpdateRequest
	if err := r.db.First(&req, id).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询修改申请 id=%d", id)
	}
	return &req, nil
}

// FindPendingByGroup 查找群的待审核修改申请，不存在返回 CodeNotFound
func (r *updateRequestRepository) FindPendingByGroup(groupID uint) (*model.GroupUpdateRequest, error) {
	var req model.GroupUpdateRequest
	if err := r.db.Where("group_id = ? AND audit_state = ?", groupID, model.AuditPending).
		First(&req).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询待审核修改申请 group_id=%d", groupID)
	}
	return &req, nil
}

func (r *updateRequestRepository) List(state model.AuditState, groupID uint, page Page) ([]model.GroupUpdateRequest, error) {
	var reqs []model.GroupUpdateRequest
	query := r.db.Model(&model.GroupUpdateRequest{})
	if state != "" {
		query = query.Where("audit_state = ?", state)
	}
	if groupID != 0 {
		query = query.Where("group_id = ?", groupID)
	}
	if err := query.Order("updated_at DESC").Order("id DESC").Scopes(page.scope).Find(&reqs).Error; err != nil {
		return nil, wrapDBError(err, "查询修改申请")
	}
	return reqs, nil
}

func (r *updateRequestRepository) Create(req *model.GroupUpdateRequest) error {
	if err := r.db.Create(req).Error; err != nil {
		return wrapDBError(err, "创建修改申请")
	}
	return nil
}

// Save 全字段保存，同时刷新 updated_at
func (r *updateRequestRepository) Save(req *model.GroupUpdateRequest) error {
	if err := r.db.Save(req).Error; err != nil {
		return wrapDBErrorf(err, "更新修改申请 id=%d", req.ID)
	}
	return nil
}

func (r *updateRequestRepository) UpdateState(id uint, state model.AuditState) error {
	if err := r.db.Model(&model.GroupUpdateRequest{}).Where("id = ?", id).Update("audit_state", state).Error; err != nil {
		return wrapDBErrorf(err, "更新修改申请状态 id=%d", id)
	}
	return nil
}

func (r *updateRequestRepository) Delete(id uint) error {
	if err := r.db.Delete(&model.GroupUpdateRequest{}, id).Error; err != nil {
		return wrapDBErrorf(err, "删除修改申请 id=%d", id)
	}
	return nil
}

func (r *updateRequestRepository) DeleteByGroup(groupID uint) error {
	if err := r.db.Where("group_id = ?", groupID).Delete(&model.GroupUpdateRequest{}).Error; err != nil {
		return wrapDBErrorf(err, "删除群的修改申请 group_id=%d", groupID)
	}
	return nil
}

func (r *updateRequestRepository) DeleteByUser(userID uint) error {
	if err := r.db.Where("requested_by_user_id = ?", userID).Delete(&model.GroupUpdateRequest{}).Error; err != nil {
		return wrapDBErrorf(err, "删除用户的修改申请 user_id=%d", userID)
	}
	return nil
}

package repository

import (
	"group_chat_server/internal/model"

	"gorm.io/gorm"
)

type reportRepository struct {
	db *gorm.DB
}

// NewReportRepository 创建举报 Repository
func NewReportRepository(db *gorm.DB) ReportRepository {
	return &reportRepository{db: db}
}

func (r *reportRepository) FindByID(id uint) (*model.Report, error) {
	var report model.Report
	if err := r.db.First(&report, id).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询举报 id=%d", id)
	}
	return &report, nil
}

func (r *reportRepository) List(filter ReportFilter, page Page) ([]model.Report, error) {
	var reports []model.Report
	query := r.db.Model(&model.Report{})
	if filter.State != "" {
		query = query.Where("audit_state = ?", filter.State)
	}
	if filter.ReporterID != 0 {
		query = query.Where("user_id = ?", filter.ReporterID)
	}
	if filter.ReportedUserID != 0 {
		query = query.Where("reported_user_id = ?", filter.ReportedUserID)
	}
	if filter.GroupID != 0 {
		query = query.Where("group_id = ?", filter.GroupID)
	}
	if err := query.Order("id DESC").Scopes(page.scope).Find(&reports).Error; err != nil {
		return nil, wrapDBError(err, "查询举报列表")
	}
	return reports, nil
}

func (r *reportRepository) Create(report *model.Report) error {
	if err := r.db.Create(report).Error; err != nil {
		return wrapDBError(err, "创建举报")
	}
	return nil
}

func (r *reportRepository) UpdateState(id uint, state model.AuditState) error {
	if err := r.db.Model(&model.Report{}).Where("id = ?", id).Update("audit_state", state).Error; err != nil {
		return wrapDBErrorf(err, "更新举报状态 id=%d", id)
	}
	return nil
}

func (r *reportRepository) Delete(id uint) error {
	if err := r.db.Delete(&model.Report{}, id).Error; err != nil {
		return wrapDBErrorf(err, "删除举报 id=%d", id)
	}
	return nil
}

// DeleteByGroup 需要在删除群消息之前调用，否则子查询取不到消息
func (r *reportRepository) DeleteByGroup(groupID uint) error {
	msgIDs := r.db.Model(&model.ChatMessage{}).Select("id").Where("group_id = ?", groupID)
	if err := r.db.Where("group_id = ? OR chat_message_id IN (?)", groupID, msgIDs).
		Delete(&model.Report{}).Error; err != nil {
		return wrapDBErrorf(err, "删除群相关举报 group_id=%d", groupID)
	}
	return nil
}

// byUser 该用户发起的、针对该用户的、以及针对其消息的举报
func (r *reportRepository) byUser(userID uint) *gorm.DB {
	msgIDs := r.db.Model(&model.ChatMessage{}).Select("id").Where("user_id = ?", userID)
	return r.db.Where("(user_id = ? OR reported_user_id = ? OR chat_message_id IN (?))", userID, userID, msgIDs)
}

// DeleteByUser 需要在删除用户消息之前调用
func (r *reportRepository) DeleteByUser(userID uint) error {
	if err := r.byUser(userID).Delete(&model.Report{}).Error; err != nil {
		return wrapDBErrorf(err, "删除用户相关举报 user_id=%d", userID)
	}
	return nil
}

func (r *reportRepository) GroupIDsByUser(userID uint) ([]uint, error) {
	var ids []uint
	if err := r.byUser(userID).Model(&model.Report{}).
		Where("group_id IS NOT NULL").
		Distinct().Pluck("group_id", &ids).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询用户举报涉及的群 user_id=%d", userID)
	}
	return ids, nil
}

// CountApprovedByGroup 读时聚合，不存计数列
func (r *reportRepository) CountApprovedByGroup(groupID uint) (int64, error) {
	var count int64
	if err := r.db.Model(&model.Report{}).
		Where("group_id = ? AND audit_state = ?", groupID, model.AuditApproved).
		Count(&count).Error; err != nil {
		return 0, wrapDBErrorf(err, "统计群举报 group_id=%d", groupID)
	}
	return count, nil
}

func (r *reportRepository) CountApprovedByUsers(userIDs []uint) (map[uint]int64, error) {
	counts := make(map[uint]int64, len(userIDs))
	if len(userIDs) == 0 {
		return counts, nil
	}
	var rows []struct {
		ReportedUserID uint
		Cnt            int64
	}
	if err := r.db.Model(&model.Report{}).
		Select("reported_user_id, COUNT(*) AS cnt").
		Where("reported_user_id IN ? AND audit_state = ?", userIDs, model.AuditApproved).
		Group("reported_user_id").
		Scan(&rows).Error; err != nil {
		return nil, wrapDBError(err, "统计用户举报")
	}
	for _, row := range rows {
		counts[row.ReportedUserID] = row.Cnt
	}
	return counts, nil
}

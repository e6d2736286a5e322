package repository

import (
	"group_chat_server/internal/model"

	"gorm.io/gorm"
)

type chatMessageRepository struct {
	db *gorm.DB
}

// NewChatMessageRepository 创建群聊消息 Repository
func NewChatMessageRepository(db *gorm.DB) ChatMessageRepository {
	return &chatMessageRepository{db: db}
}

func (r *chatMessageRepository) FindByID(id uint) (*model.ChatMessage, error) {
	var msg model.ChatMessage
	if err := r.db.First(&msg, id).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询消息 id=%d", id)
	}
	return &msg, nil
}

// List 按序号升序返回群消息
func (r *chatMessageRepository) List(filter ChatFilter, page Page) ([]model.ChatMessage, error) {
	var msgs []model.ChatMessage
	query := r.db.Where("group_id = ?", filter.GroupID)
	if filter.MinChatNo > 0 {
		query = query.Where("chat_no >= ?", filter.MinChatNo)
	}
	if filter.Q != "" {
		query = query.Where("content LIKE ?", likePattern(filter.Q))
	}
	if err := query.Order("chat_no").Scopes(page.scope).Find(&msgs).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询群消息 group_id=%d", filter.GroupID)
	}
	return msgs, nil
}

// Create 写入消息，(group_id, chat_no) 冲突时返回 CodeConflict
func (r *chatMessageRepository) Create(msg *model.ChatMessage) error {
	if err := r.db.Create(msg).Error; err != nil {
		return wrapDBErrorf(err, "创建消息 group_id=%d", msg.GroupID)
	}
	return nil
}

func (r *chatMessageRepository) Delete(id uint) error {
	if err := r.db.Delete(&model.ChatMessage{}, id).Error; err != nil {
		return wrapDBErrorf(err, "删除消息 id=%d", id)
	}
	return nil
}

func (r *chatMessageRepository) DeleteByGroup(groupID uint) error {
	if err := r.db.Where("group_id = ?", groupID).Delete(&model.ChatMessage{}).Error; err != nil {
		return wrapDBErrorf(err, "删除群消息 group_id=%d", groupID)
	}
	return nil
}

func (r *chatMessageRepository) DeleteByUser(userID uint) error {
	if err := r.db.Where("user_id = ?", userID).Delete(&model.ChatMessage{}).Error; err != nil {
		return wrapDBErrorf(err, "删除用户消息 user_id=%d", userID)
	}
	return nil
}

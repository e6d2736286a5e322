package repository

import (
	"fmt"

	"group_chat_server/internal/model"

	"gorm.io/gorm"
)

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository 创建用户 Repository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// uniqueUserFields 允许做唯一性检查的列
var uniqueUserFields = map[string]bool{
	"username": true,
	"phone":    true,
	"email":    true,
}

// FindByID 按 ID 查找用户
func (r *userRepository) FindByID(id uint) (*model.User, error) {
	var user model.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询用户 id=%d", id)
	}
	return &user, nil
}

// FindByIdentifier 用户名、邮箱或手机号登录
func (r *userRepository) FindByIdentifier(identifier string) (*model.User, error) {
	var user model.User
	if err := r.db.Where("username = ? OR email = ? OR phone = ?", identifier, identifier, identifier).
		First(&user).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询用户 identifier=%s", identifier)
	}
	return &user, nil
}

// ExistsByField 检查唯一字段是否已被占用，excludeID 为自身 ID（新建时传 0）
func (r *userRepository) ExistsByField(field, value string, excludeID uint) (bool, error) {
	if !uniqueUserFields[field] {
		return false, fmt.Errorf("field %q is not a unique user field", field)
	}
	var count int64
	query := r.db.Model(&model.User{}).Where(field+" = ?", value)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, wrapDBErrorf(err, "检查用户 %s 唯一性", field)
	}
	return count > 0, nil
}

// FindByIDs 按 ID 列表查找用户
func (r *userRepository) FindByIDs(ids []uint) ([]model.User, error) {
	var users []model.User
	if len(ids) == 0 {
		return users, nil
	}
	if err := r.db.Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, wrapDBError(err, "批量查询用户")
	}
	return users, nil
}

// List 分页查询用户，q 为用户名模糊匹配
func (r *userRepository) List(q string, page Page) ([]model.User, error) {
	var users []model.User
	query := r.db.Model(&model.User{})
	if q != "" {
		query = query.Where("username LIKE ?", likePattern(q))
	}
	if err := query.Order("id").Scopes(page.scope).Find(&users).Error; err != nil {
		return nil, wrapDBError(err, "查询用户列表")
	}
	return users, nil
}

// Create 创建用户
func (r *userRepository) Create(user *model.User) error {
	if err := r.db.Create(user).Error; err != nil {
		return wrapDBError(err, "创建用户")
	}
	return nil
}

// Save 全字段更新用户信息
func (r *userRepository) Save(user *model.User) error {
	if err := r.db.Save(user).Error; err != nil {
		return wrapDBErrorf(err, "更新用户 id=%d", user.ID)
	}
	return nil
}

// UpdateRole 修改系统角色
func (r *userRepository) UpdateRole(id uint, role model.Role) error {
	if err := r.db.Model(&model.User{}).Where("id = ?", id).Update("role", role).Error; err != nil {
		return wrapDBErrorf(err, "更新用户角色 id=%d", id)
	}
	return nil
}

// UpdatePassword 写入已哈希的密码
func (r *userRepository) UpdatePassword(id uint, hash string) error {
	if err := r.db.Model(&model.User{}).Where("id = ?", id).Update("password", hash).Error; err != nil {
		return wrapDBErrorf(err, "更新用户密码 id=%d", id)
	}
	return nil
}

// Delete 删除用户
func (r *userRepository) Delete(id uint) error {
	if err := r.db.Delete(&model.User{}, id).Error; err != nil {
		return wrapDBErrorf(err, "删除用户 id=%d", id)
	}
	return nil
}

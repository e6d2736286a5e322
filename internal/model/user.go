package model

import (
	"time"

	"golang.org/x/crypto/bcrypt" // 密码哈希库
	"gorm.io/gorm"
)

// User 用户模型
// 对应数据库 user_info 表，用户名、手机号、邮箱各自唯一
type User struct {
	ID        uint      `gorm:"primarykey"`
	Username  string    `gorm:"column:username;type:varchar(50);uniqueIndex;not null;comment:用户名"`
	Phone     string    `gorm:"column:phone;type:varchar(20);uniqueIndex;not null;comment:手机号"`
	Email     string    `gorm:"column:email;type:varchar(100);uniqueIndex;not null;comment:邮箱"`
	Password  string    `gorm:"column:password;type:varchar(100);not null;comment:bcrypt 哈希后的密码"`
	Role      Role      `gorm:"column:role;type:varchar(10);not null;default:user;comment:admin 或 user"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`

	// RawPassword 明文密码（不存入数据库）
	// 在 BeforeSave 中加密后写入 Password
	RawPassword string `gorm:"-" json:"-"`
}

func (User) TableName() string {
	return "user_info"
}

// BeforeSave GORM Hook：在创建和更新前自动调用
// 调用方只需设置 RawPassword，无需手动加密
func (u *User) BeforeSave(tx *gorm.DB) (err error) {
	if u.RawPassword != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.RawPassword), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		u.Password = string(hash)
		u.RawPassword = "" // 清空明文，防止泄露
	}
	if u.Role == "" {
		u.Role = RoleUser
	}
	return nil
}

// CheckPassword 校验密码是否正确
func (u *User) CheckPassword(plaintext string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(plaintext))
	return err == nil
}

// HashPassword 供批量更新场景使用（Updates 不会触发 BeforeSave 对 map 的处理）
func HashPassword(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Package dbtest 为测试提供基于内存 SQLite 的 Repositories 和种子数据
package dbtest

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"group_chat_server/internal/dao/mysql"
	"group_chat_server/internal/dao/mysql/repository"
	"group_chat_server/internal/model"
)

// ErrInjected FailOn 注入的写失败
var ErrInjected = errors.New("injected write failure")

// New 每个测试独立的内存数据库
func New(t testing.TB) *repository.Repositories {
	t.Helper()
	return repository.NewRepositories(Open(t))
}

// Open 返回已迁移的内存数据库
// 单连接保证事务和普通查询看到同一份数据
func Open(t testing.TB) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, mysql.Migrate(db))
	return db
}

// FailOn 让 db 上对 table 的某类写操作返回 ErrInjected
// op 取 create、update、delete
func FailOn(t testing.TB, db *gorm.DB, op, table string) {
	t.Helper()
	fail := func(tx *gorm.DB) {
		if tx.Statement.Table == table {
			_ = tx.AddError(ErrInjected)
		}
	}
	name := fmt.Sprintf("dbtest:fail_%s_%s", op, table)
	var err error
	switch op {
	case "create":
		err = db.Callback().Create().Before("gorm:create").Register(name, fail)
	case "update":
		err = db.Callback().Update().Before("gorm:update").Register(name, fail)
	case "delete":
		err = db.Callback().Delete().Before("gorm:delete").Register(name, fail)
	default:
		t.Fatalf("unknown op %q", op)
	}
	require.NoError(t, err)
}

// SeedUser 创建普通用户，密码固定为 secret
func SeedUser(t testing.TB, repos *repository.Repositories, username string) *model.User {
	t.Helper()
	u := &model.User{
		Username:    username,
		Phone:       "p-" + username,
		Email:       username + "@test.local",
		RawPassword: "secret",
		Role:        model.RoleUser,
	}
	require.NoError(t, repos.User.Create(u))
	return u
}

// SeedAdmin 创建系统管理员
func SeedAdmin(t testing.TB, repos *repository.Repositories, username string) *model.User {
	t.Helper()
	u := SeedUser(t, repos, username)
	require.NoError(t, repos.User.UpdateRole(u.ID, model.RoleAdmin))
	u.Role = model.RoleAdmin
	return u
}

// SeedGroup 创建已审核的群，群主作为管理员成员入群
func SeedGroup(t testing.TB, repos *repository.Repositories, ownerID uint, name string, memberLimit int) *model.Group {
	t.Helper()
	g := (&model.GroupCreateRequest{
		Name:            name,
		MemberLimit:     memberLimit,
		CreatedByUserID: ownerID,
	}).ToGroup()
	require.NoError(t, repos.Group.Create(g))
	require.NoError(t, repos.GroupMember.Create(&model.GroupMember{
		GroupID:      g.ID,
		UserID:       ownerID,
		IsGroupAdmin: true,
		Pin:          model.Unpinned,
	}))
	return g
}

// AddMember 直接写入成员关系
func AddMember(t testing.TB, repos *repository.Repositories, groupID, userID uint) *model.GroupMember {
	t.Helper()
	m := &model.GroupMember{GroupID: groupID, UserID: userID, Pin: model.Unpinned}
	require.NoError(t, repos.GroupMember.Create(m))
	return m
}

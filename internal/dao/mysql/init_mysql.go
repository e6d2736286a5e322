// Package mysql 提供数据访问层的初始化
// 负责按配置选择驱动、建立连接、自动迁移表结构、初始化 Repository 层
package mysql

import (
	"fmt"

	"group_chat_server/internal/config"                // 配置管理
	"group_chat_server/internal/dao/mysql/repository" // Repository 层
	"group_chat_server/internal/model"                // 数据模型

	mysqldriver "gorm.io/driver/mysql" // GORM MySQL 驱动
	"gorm.io/driver/postgres"          // GORM PostgreSQL 驱动
	"gorm.io/driver/sqlite"            // GORM SQLite 驱动
	"gorm.io/gorm"                     // GORM ORM 框架
)

// Dialector 根据配置构建 GORM 方言
// Dsn 不为空时直接使用，否则由各字段拼接
func Dialector(conf config.DatabaseConfig) (gorm.Dialector, error) {
	switch conf.Driver {
	case "", "mysql":
		dsn := conf.Dsn
		if dsn == "" {
			// 格式：user:password@tcp(host:port)/database?params
			dsn = fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
				conf.User, conf.Password, conf.Host, conf.Port, conf.DatabaseName)
		}
		return mysqldriver.Open(dsn), nil
	case "postgres":
		dsn := conf.Dsn
		if dsn == "" {
			dsn = fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable TimeZone=Asia/Shanghai",
				conf.Host, conf.Port, conf.User, conf.Password, conf.DatabaseName)
		}
		return postgres.Open(dsn), nil
	case "sqlite":
		dsn := conf.Dsn
		if dsn == "" {
			dsn = conf.DatabaseName + ".db"
		}
		return sqlite.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", conf.Driver)
	}
}

// Open 建立连接并迁移表结构
// TranslateError 打开后唯一索引冲突会被翻译成 gorm.ErrDuplicatedKey
func Open(conf config.DatabaseConfig) (*gorm.DB, error) {
	dialector, err := Dialector(conf)
	if err != nil {
		return nil, err
	}
	db, err := gorm.Open(dialector, &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, err
	}
	if conf.Driver == "sqlite" {
		// SQLite 单写者，限制连接数避免 database is locked
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}
	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate 自动迁移全部表结构
// 不会删除已有字段或数据
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(model.AllModels()...)
}

// Init 初始化数据库连接并返回 Repository 层实例
func Init(conf config.DatabaseConfig) (*repository.Repositories, error) {
	db, err := Open(conf)
	if err != nil {
		return nil, err
	}
	return repository.NewRepositories(db), nil
}

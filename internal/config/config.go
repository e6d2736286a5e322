// Package config 提供应用程序的配置加载和管理功能
// 使用 TOML 格式的配置文件，支持多路径查找
package config

import (
	"fmt"
	"time"

	"github.com/BurntSushi/toml" // TOML 配置文件解析库
)

// MainConfig 主配置，包含应用基本信息
type MainConfig struct {
	AppName string `toml:"appName"` // 应用名称，用于日志标识等
	Host    string `toml:"host"`    // 服务器监听地址，如 "0.0.0.0"
	Port    int    `toml:"port"`    // 服务器监听端口，如 8000
	Mode    string `toml:"mode"`    // 运行模式：dev / release
}

// DatabaseConfig 关系数据库连接配置
// Driver 可选 mysql、postgres、sqlite
type DatabaseConfig struct {
	Driver       string `toml:"driver"`
	Host         string `toml:"host"`
	Port         int    `toml:"port"`
	User         string `toml:"user"`
	Password     string `toml:"password"`
	DatabaseName string `toml:"databaseName"`
	Dsn          string `toml:"dsn"` // 直接指定 DSN 时忽略上面的字段，sqlite 下即文件路径
}

// RedisConfig Redis 连接配置
type RedisConfig struct {
	Enabled  bool   `toml:"enabled"`
	Host     string `toml:"host"`     // Redis 服务器地址
	Port     int    `toml:"port"`     // Redis 端口，默认 6379
	Password string `toml:"password"` // Redis 密码，无密码留空
	Db       int    `toml:"db"`       // Redis 数据库编号，默认 0
}

// LogConfig 日志配置，使用 lumberjack 进行日志轮转
type LogConfig struct {
	LogPath    string `toml:"logPath"`    // 日志文件存储目录
	FileName   string `toml:"fileName"`   // 日志文件名
	MaxSize    int    `toml:"maxSize"`    // 单个日志文件最大大小（MB）
	MaxBackups int    `toml:"maxBackups"` // 保留旧日志文件的最大个数
	MaxAge     int    `toml:"maxAge"`     // 保留旧日志文件的最大天数
	Level      string `toml:"level"`      // 日志级别：debug, info, warn, error
}

// KafkaConfig 群事件外发 Kafka 配置
type KafkaConfig struct {
	Enabled    bool          `toml:"enabled"`
	HostPort   string        `toml:"hostPort"`   // Kafka 服务器地址，如 "localhost:9092"
	EventTopic string        `toml:"eventTopic"` // 群事件主题
	Timeout    time.Duration `toml:"timeout"`    // 写超时（秒）
}

// StaticSrcConfig 上传文件存储配置
type StaticSrcConfig struct {
	UploadPath  string `toml:"uploadPath"`  // 上传根目录
	MaxFileSize int64  `toml:"maxFileSize"` // 单文件最大字节数
	URLPrefix   string `toml:"urlPrefix"`   // 对外访问前缀
}

// JWTConfig JWT 认证配置
type JWTConfig struct {
	Secret             string `toml:"secret"`             // JWT 签名密钥，建议 32 字符以上
	AccessTokenExpiry  int    `toml:"accessTokenExpiry"`  // Access Token 有效期（分钟）
	RefreshTokenExpiry int    `toml:"refreshTokenExpiry"` // Refresh Token 有效期（小时）
}

// AuditConfig 审核策略
type AuditConfig struct {
	AllowReaudit bool `toml:"allowReaudit"` // 是否允许对已审核记录再次审核
}

// ChatConfig 群聊配置
type ChatConfig struct {
	RetractWindow time.Duration `toml:"retractWindow"` // 发送者可撤回时长（秒）
}

// DefaultAdminPassword 未配置 adminConfig 时使用的管理员密码
const DefaultAdminPassword = "admin"

// AdminConfig 启动时自动创建的系统管理员
type AdminConfig struct {
	Username string `toml:"username"`
	Password string `toml:"password"`
	Email    string `toml:"email"`
	Phone    string `toml:"phone"`
}

// TLSConfig HTTPS 重定向配置
type TLSConfig struct {
	Enabled bool   `toml:"enabled"`
	Host    string `toml:"host"`
	Port    int    `toml:"port"`
}

// Config 应用程序总配置，聚合所有子配置
type Config struct {
	MainConfig      `toml:"mainConfig"`
	DatabaseConfig  `toml:"databaseConfig"`
	RedisConfig     `toml:"redisConfig"`
	LogConfig       `toml:"logConfig"`
	KafkaConfig     `toml:"kafkaConfig"`
	StaticSrcConfig `toml:"staticSrcConfig"`
	JWTConfig       `toml:"jwtConfig"`
	AuditConfig     `toml:"auditConfig"`
	ChatConfig      `toml:"chatConfig"`
	AdminConfig     `toml:"adminConfig"`
	TLSConfig       `toml:"tlsConfig"`
}

// config 全局配置单例，延迟加载
var config *Config

// searchPaths 候选配置文件路径（优先加载本地配置）
var searchPaths = []string{
	"configs/config_local.toml",
	"configs/config.toml",
	"../../configs/config_local.toml",
	"../../configs/config.toml",
}

// LoadConfig 从多个候选路径加载配置文件
// 按顺序尝试加载，找到第一个可用的配置文件即停止
func LoadConfig() error {
	for _, path := range searchPaths {
		conf, err := Load(path)
		if err == nil {
			config = conf
			return nil
		}
	}
	return fmt.Errorf("could not find configuration file in any of the search paths")
}

// Load 解析指定路径的配置文件并补全默认值
func Load(path string) (*Config, error) {
	conf := new(Config)
	if _, err := toml.DecodeFile(path, conf); err != nil {
		return nil, err
	}
	conf.applyDefaults()
	return conf, nil
}

// Default 返回只包含默认值的配置
func Default() *Config {
	conf := new(Config)
	conf.applyDefaults()
	return conf
}

// GetConfig 获取全局配置实例（单例模式）
// 首次调用时会自动加载配置文件，找不到时使用默认值
func GetConfig() *Config {
	if config == nil {
		if err := LoadConfig(); err != nil {
			config = Default()
		}
	}
	return config
}

func (c *Config) applyDefaults() {
	if c.AppName == "" {
		c.AppName = "group_chat_server"
	}
	if c.MainConfig.Host == "" {
		c.MainConfig.Host = "0.0.0.0"
	}
	if c.MainConfig.Port == 0 {
		c.MainConfig.Port = 8000
	}
	if c.Mode == "" {
		c.Mode = "dev"
	}
	if c.Driver == "" {
		c.Driver = "mysql"
	}
	if c.LogPath == "" {
		c.LogPath = "logs"
	}
	if c.UploadPath == "" {
		c.UploadPath = "uploads"
	}
	if c.MaxFileSize == 0 {
		c.MaxFileSize = 10 * 1024 * 1024
	}
	if c.URLPrefix == "" {
		c.URLPrefix = "/api/files"
	}
	if c.Secret == "" {
		c.Secret = "change-me-in-config"
	}
	if c.AccessTokenExpiry == 0 {
		c.AccessTokenExpiry = 120
	}
	if c.RefreshTokenExpiry == 0 {
		c.RefreshTokenExpiry = 168
	}
	if c.RetractWindow == 0 {
		c.RetractWindow = 120
	}
	if c.EventTopic == "" {
		c.EventTopic = "group_events"
	}
	if c.KafkaConfig.Timeout == 0 {
		c.KafkaConfig.Timeout = 1
	}
	if c.AdminConfig.Username == "" {
		c.AdminConfig.Username = "admin"
		c.AdminConfig.Password = DefaultAdminPassword
		c.AdminConfig.Email = "admin@example.com"
		c.AdminConfig.Phone = "00000000000"
	}
}

// UsesDefaultPassword 管理员密码仍是默认值
func (c AdminConfig) UsesDefaultPassword() bool {
	return c.Password == DefaultAdminPassword
}

// RetractDuration 发送者撤回窗口
func (c *Config) RetractDuration() time.Duration {
	return c.RetractWindow * time.Second
}

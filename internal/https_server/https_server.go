// Package https_server 负责创建 Gin 引擎实例并配置中间件和路由
package https_server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"group_chat_server/internal/config"
	"group_chat_server/internal/handler"
	"group_chat_server/internal/infrastructure/logger"
	"group_chat_server/internal/infrastructure/middleware"
	"group_chat_server/internal/router"
)

// NewEngine 创建配置完成的 Gin 引擎
// 配置顺序：日志和恢复中间件、CORS、可选的 HTTPS 重定向、业务路由
func NewEngine(conf *config.Config, handlers *handler.Handlers, resolver middleware.ActorResolver) *gin.Engine {
	if conf.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// 不使用 gin.Default() 以便完全控制中间件
	engine := gin.New()
	engine.Use(logger.GinLogger())
	engine.Use(logger.GinRecovery(true))

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"*"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	engine.Use(cors.New(corsConfig))

	// 由 Nginx 终止 SSL 时保持关闭
	if conf.TLSConfig.Enabled {
		engine.Use(middleware.TlsHandler(conf.TLSConfig.Host, conf.TLSConfig.Port))
	}

	// 上传接口整体大小上限，单文件大小由 FileService 校验
	engine.MaxMultipartMemory = conf.MaxFileSize

	rt := router.NewRouter(handlers, resolver)
	rt.RegisterRoutes(engine)
	return engine
}

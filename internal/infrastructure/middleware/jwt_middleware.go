package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"group_chat_server/internal/service/authz"
	"group_chat_server/pkg/errorx"
	"group_chat_server/pkg/util/jwt"
)

const (
	ctxUserID = "user_id"
	ctxRole   = "role"
	ctxActor  = "actor"
)

// ActorResolver 按用户 ID 读取当前角色
type ActorResolver interface {
	ActorOf(userID uint) (authz.Actor, error)
}

func abortUnauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"code": errorx.CodeUnauthorized,
		"msg":  msg,
		"data": nil,
	})
}

// bearerToken 优先读 Authorization 头，浏览器建立 websocket 时退回到 token 查询参数
func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		if token := c.Query("token"); token != "" {
			return token, true
		}
		return "", false
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

// JWTAuth JWT 认证中间件
// 验证 Access Token，并按数据库中的当前角色构造调用者存入上下文
func JWTAuth(resolver ActorResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			abortUnauthorized(c, "请先登录，使用 Bearer Token")
			return
		}

		claims, err := jwt.ParseAccessToken(token)
		if err != nil {
			abortUnauthorized(c, "Token 已过期或无效，请重新登录")
			return
		}

		actor, err := resolver.ActorOf(claims.UserID)
		if err != nil {
			if errorx.IsCode(err, errorx.CodeUnauthorized) {
				abortUnauthorized(c, "用户不存在或已被删除")
				return
			}
			c.AbortWithStatusJSON(http.StatusOK, gin.H{
				"code": errorx.ErrServerBusy.Code,
				"msg":  errorx.ErrServerBusy.Msg,
				"data": nil,
			})
			return
		}

		c.Set(ctxUserID, actor.UserID)
		c.Set(ctxRole, string(actor.Role))
		c.Set(ctxActor, actor)
		c.Next()
	}
}

// RequireAdmin 仅系统管理员可访问，必须挂在 JWTAuth 之后
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !authz.IsSystemAdmin(ActorFrom(c)) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"code": errorx.ErrAdminRequired.Code,
				"msg":  errorx.ErrAdminRequired.Msg,
				"data": nil,
			})
			return
		}
		c.Next()
	}
}

// ActorFrom 取出 JWTAuth 写入的调用者，未认证时返回零值
func ActorFrom(c *gin.Context) authz.Actor {
	if v, ok := c.Get(ctxActor); ok {
		if actor, ok := v.(authz.Actor); ok {
			return actor
		}
	}
	return authz.Actor{}
}

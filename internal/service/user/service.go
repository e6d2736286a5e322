// Package user 用户注册登录、资料维护、角色管理与级联删除
package user

import (
	"time"

	"go.uber.org/zap"

	"group_chat_server/internal/config"
	"group_chat_server/internal/dao/mysql/repository"
	myredis "group_chat_server/internal/dao/redis"
	"group_chat_server/internal/dto/request"
	"group_chat_server/internal/dto/respond"
	"group_chat_server/internal/model"
	"group_chat_server/internal/service/auth"
	"group_chat_server/internal/service/authz"
	"group_chat_server/internal/service/group"
	"group_chat_server/internal/service/guard"
	"group_chat_server/internal/service/notify"
	"group_chat_server/pkg/errorx"
	"group_chat_server/pkg/util/jwt"
)

const tokenType = "bearer"

// userInfoService 用户业务逻辑实现
type userInfoService struct {
	repos      *repository.Repositories
	cache      myredis.AsyncCacheService
	tokens     *auth.Service
	notifier   notify.Notifier
	refreshTTL time.Duration
}

// NewUserService 构造函数，注入所有依赖
// refreshTTL: Refresh Token 有效期，也是登记记录在 Redis 中的过期时间
func NewUserService(repos *repository.Repositories, cache myredis.AsyncCacheService, tokens *auth.Service, notifier notify.Notifier, refreshTTL time.Duration) *userInfoService {
	return &userInfoService{
		repos:      repos,
		cache:      cache,
		tokens:     tokens,
		notifier:   notifier,
		refreshTTL: refreshTTL,
	}
}

// checkUnique 逐个检查唯一字段，excludeID 为 0 表示新用户
func checkUnique(repos *repository.Repositories, excludeID uint, username, phone, email *string) error {
	fields := []struct {
		column string
		value  *string
		msg    string
	}{
		{"username", username, "用户名已存在"},
		{"phone", phone, "手机号已被使用"},
		{"email", email, "邮箱已被使用"},
	}
	for _, f := range fields {
		if f.value == nil {
			continue
		}
		exists, err := repos.User.ExistsByField(f.column, *f.value, excludeID)
		if err != nil {
			return guard.Busy(err)
		}
		if exists {
			return errorx.Conflict(f.msg)
		}
	}
	return nil
}

// uniqueRace 唯一索引兜底的并发冲突
func uniqueRace(err error) error {
	if errorx.IsCode(err, errorx.CodeConflict) {
		return errorx.Conflict("用户名、手机号或邮箱已被使用")
	}
	return guard.Busy(err)
}

// Register 注册新用户，密码经 bcrypt 哈希后存储
func (u *userInfoService) Register(req request.RegisterRequest) (*respond.UserRespond, error) {
	if err := checkUnique(u.repos, 0, &req.Username, &req.Phone, &req.Email); err != nil {
		return nil, err
	}
	user := model.User{
		Username:    req.Username,
		Phone:       req.Phone,
		Email:       req.Email,
		RawPassword: req.Password,
		Role:        model.RoleUser,
	}
	if err := u.repos.User.Create(&user); err != nil {
		return nil, uniqueRace(err)
	}
	zap.L().Info("user registered", zap.Uint("user_id", user.ID), zap.String("username", user.Username))
	rsp := respond.NewUserRespond(&user)
	return &rsp, nil
}

// Login 用户名、邮箱或手机号加密码登录
func (u *userInfoService) Login(req request.LoginRequest) (*respond.LoginRespond, error) {
	user, err := u.repos.User.FindByIdentifier(req.Identifier)
	if err != nil {
		if errorx.IsNotFound(err) {
			return nil, errorx.New(errorx.CodeUserNotExist, "用户不存在，请注册")
		}
		return nil, guard.Busy(err)
	}
	if !user.CheckPassword(req.Password) {
		return nil, errorx.New(errorx.CodeInvalidPassword, "密码不正确，请重试")
	}

	// 生成双 Token
	accessToken, err := jwt.GenerateAccessToken(user.ID)
	if err != nil {
		zap.L().Error("生成 Access Token 失败", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	refreshToken, tokenID, err := jwt.GenerateRefreshToken(user.ID)
	if err != nil {
		zap.L().Error("生成 Refresh Token 失败", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	// 登记失败不阻塞登录，仅记录日志
	if err := u.tokens.Register(user.ID, tokenID, u.refreshTTL); err != nil {
		zap.L().Error("存储 Token ID 失败", zap.Error(err))
	}

	return &respond.LoginRespond{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    tokenType,
		ID:           user.ID,
		Username:     user.Username,
		Role:         string(user.Role),
	}, nil
}

// RefreshToken 用 Refresh Token 换取新的 Access Token
func (u *userInfoService) RefreshToken(req request.RefreshTokenRequest) (*respond.RefreshTokenRespond, error) {
	claims, err := jwt.ParseRefreshToken(req.RefreshToken)
	if err != nil {
		return nil, errorx.New(errorx.CodeUnauthorized, "Refresh Token 无效或已过期")
	}
	if _, err := guard.User(u.repos, claims.UserID); err != nil {
		if errorx.IsNotFound(err) {
			return nil, errorx.New(errorx.CodeUnauthorized, "用户不存在")
		}
		return nil, err
	}
	valid, err := u.tokens.ValidateTokenID(claims.UserID, claims.TokenID)
	if err != nil {
		zap.L().Error("校验 Token ID 失败", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	if !valid {
		return nil, errorx.New(errorx.CodeUnauthorized, "账号已在其他地方登录，请重新登录")
	}

	accessToken, err := jwt.GenerateAccessToken(claims.UserID)
	if err != nil {
		zap.L().Error("生成 Access Token 失败", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	return &respond.RefreshTokenRespond{AccessToken: accessToken, TokenType: tokenType}, nil
}

// ResetPassword 按用户名、邮箱或手机号重置密码
func (u *userInfoService) ResetPassword(req request.ResetPasswordRequest) error {
	user, err := u.repos.User.FindByIdentifier(req.Identifier)
	if err != nil {
		if errorx.IsNotFound(err) {
			return errorx.New(errorx.CodeUserNotExist, "用户不存在")
		}
		return guard.Busy(err)
	}
	return u.setPassword(user.ID, req.NewPassword)
}

func (u *userInfoService) setPassword(userID uint, plaintext string) error {
	hash, err := model.HashPassword(plaintext)
	if err != nil {
		zap.L().Error("hash password error", zap.Error(err))
		return errorx.ErrServerBusy
	}
	return guard.Busy(u.repos.User.UpdatePassword(userID, hash))
}

// ListUsers 按用户名模糊查询
func (u *userInfoService) ListUsers(req request.ListUsersQuery) ([]respond.UserRespond, error) {
	users, err := u.repos.User.List(req.Q, repository.Page{Skip: req.Skip, Limit: req.Limit})
	if err != nil {
		return nil, guard.Busy(err)
	}
	rsp := make([]respond.UserRespond, 0, len(users))
	for i := range users {
		rsp = append(rsp, respond.NewUserRespond(&users[i]))
	}
	return rsp, nil
}

// GetUser 用户详情
func (u *userInfoService) GetUser(userID uint) (*respond.UserRespond, error) {
	user, err := guard.User(u.repos, userID)
	if err != nil {
		return nil, err
	}
	rsp := respond.NewUserRespond(user)
	return &rsp, nil
}

// UpdateUser 修改资料，本人或系统管理员可操作
func (u *userInfoService) UpdateUser(actor authz.Actor, userID uint, req request.UpdateUserRequest) (*respond.UserRespond, error) {
	if !authz.CanManageUser(actor, userID) {
		return nil, errorx.Forbidden("只能修改自己的资料")
	}

	var rsp respond.UserRespond
	err := u.repos.Transaction(func(txRepos *repository.Repositories) error {
		user, err := guard.User(txRepos, userID)
		if err != nil {
			return err
		}
		if err := checkUnique(txRepos, userID, req.Username, req.Phone, req.Email); err != nil {
			return err
		}
		if req.Username != nil {
			user.Username = *req.Username
		}
		if req.Phone != nil {
			user.Phone = *req.Phone
		}
		if req.Email != nil {
			user.Email = *req.Email
		}
		if req.Password != nil {
			user.RawPassword = *req.Password
		}
		if err := txRepos.User.Save(user); err != nil {
			return uniqueRace(err)
		}
		rsp = respond.NewUserRespond(user)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &rsp, nil
}

// DeleteUser 删除用户及其全部关联数据，本人或系统管理员可操作
// 用户作为群主的群整体解散
func (u *userInfoService) DeleteUser(actor authz.Actor, userID uint) error {
	if !authz.CanManageUser(actor, userID) {
		return errorx.Forbidden("只能删除自己的账号")
	}

	var ownedIDs, touchedIDs []uint
	err := u.repos.Transaction(func(txRepos *repository.Repositories) error {
		if _, err := guard.User(txRepos, userID); err != nil {
			return err
		}
		owned, err := txRepos.Group.FindByOwner(userID)
		if err != nil {
			return guard.Busy(err)
		}
		// 成员数或举报数会变化的群，详情缓存需要失效
		joined, err := txRepos.GroupMember.GroupIDsByUser(userID)
		if err != nil {
			return guard.Busy(err)
		}
		reported, err := txRepos.Report.GroupIDsByUser(userID)
		if err != nil {
			return guard.Busy(err)
		}
		touchedIDs = append(joined, reported...)
		// 举报通过子查询引用该用户的消息，先于消息删除
		if err := txRepos.Report.DeleteByUser(userID); err != nil {
			return guard.Busy(err)
		}
		for _, g := range owned {
			if err := group.Purge(txRepos, g.ID); err != nil {
				return guard.Busy(err)
			}
			ownedIDs = append(ownedIDs, g.ID)
		}
		steps := []func(uint) error{
			txRepos.ChatMessage.DeleteByUser,
			txRepos.JoinRequest.DeleteByUser,
			txRepos.CreateRequest.DeleteByUser,
			txRepos.UpdateRequest.DeleteByUser,
			txRepos.GroupMember.DeleteByUser,
			txRepos.User.Delete,
		}
		for _, step := range steps {
			if err := step(userID); err != nil {
				return guard.Busy(err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	if err := u.tokens.Revoke(userID); err != nil {
		zap.L().Error("revoke refresh token error", zap.Uint("user_id", userID), zap.Error(err))
	}
	myredis.InvalidateGroups(u.cache, append(touchedIDs, ownedIDs...)...)
	for _, id := range ownedIDs {
		u.notifier.Notify(id, notify.Event{Kind: notify.KindDissolved})
	}
	zap.L().Info("user deleted", zap.Uint("user_id", userID), zap.Int("dissolved_groups", len(ownedIDs)))
	return nil
}

// ChangeRole 修改系统角色（管理员）
func (u *userInfoService) ChangeRole(userID uint, req request.ChangeRoleRequest) error {
	if _, err := guard.User(u.repos, userID); err != nil {
		return err
	}
	return guard.Busy(u.repos.User.UpdateRole(userID, model.Role(req.Role)))
}

// AdminChangePassword 管理员直接设置用户密码
func (u *userInfoService) AdminChangePassword(userID uint, req request.AdminChangePasswordRequest) error {
	if _, err := guard.User(u.repos, userID); err != nil {
		return err
	}
	return u.setPassword(userID, req.NewPassword)
}

// ActorOf 读取用户当前角色，用户已删除时返回未授权
func (u *userInfoService) ActorOf(userID uint) (authz.Actor, error) {
	user, err := u.repos.User.FindByID(userID)
	if err != nil {
		if errorx.IsNotFound(err) {
			return authz.Actor{}, errorx.ErrUnauthorized
		}
		return authz.Actor{}, guard.Busy(err)
	}
	return authz.Actor{UserID: user.ID, Role: user.Role}, nil
}

// EnsureAdmin 启动时保证配置中的管理员账号存在
// release 模式下拒绝用默认密码创建管理员
func (u *userInfoService) EnsureAdmin(conf config.AdminConfig, mode string) error {
	user, err := u.repos.User.FindByIdentifier(conf.Username)
	switch {
	case err == nil:
		if user.Role != model.RoleAdmin {
			zap.L().Info("promote configured admin", zap.String("username", conf.Username))
			return u.repos.User.UpdateRole(user.ID, model.RoleAdmin)
		}
		return nil
	case errorx.IsNotFound(err):
		if conf.UsesDefaultPassword() {
			if mode == "release" {
				return errorx.New(errorx.CodeInvalidParam, "release 模式下必须在 adminConfig 中设置管理员密码")
			}
			zap.L().Warn("admin account seeded with the default password, set adminConfig.password",
				zap.String("username", conf.Username))
		}
		admin := model.User{
			Username:    conf.Username,
			Phone:       conf.Phone,
			Email:       conf.Email,
			RawPassword: conf.Password,
			Role:        model.RoleAdmin,
		}
		if err := u.repos.User.Create(&admin); err != nil {
			return err
		}
		zap.L().Info("admin account created", zap.String("username", conf.Username))
		return nil
	default:
		return err
	}
}

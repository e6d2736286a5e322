// Package guard 加载业务实体并把存储错误转换为对外错误
// 业务错误原样返回，其余错误记录日志后统一返回服务繁忙
package guard

import (
	"go.uber.org/zap"

	"group_chat_server/internal/dao/mysql/repository"
	"group_chat_server/internal/model"
	"group_chat_server/pkg/errorx"
)

// Busy 非业务错误记日志并转换为 ErrServerBusy
func Busy(err error) error {
	if err == nil || errorx.IsBusiness(err) {
		return err
	}
	zap.L().Error(err.Error())
	return errorx.ErrServerBusy
}

// notFound 把 CodeNotFound 替换为给定的提示
func notFound(err error, msg string) error {
	if errorx.IsNotFound(err) {
		return errorx.NotFound(msg)
	}
	return Busy(err)
}

// Group 加载群
func Group(repos *repository.Repositories, groupID uint) (*model.Group, error) {
	g, err := repos.Group.FindByID(groupID)
	if err != nil {
		return nil, notFound(err, "群不存在")
	}
	return g, nil
}

// UsableGroup 加载群并要求已审核通过
func UsableGroup(repos *repository.Repositories, groupID uint) (*model.Group, error) {
	g, err := Group(repos, groupID)
	if err != nil {
		return nil, err
	}
	if !g.Usable() {
		return nil, errorx.Conflict("群未通过审核")
	}
	return g, nil
}

// Membership 查询成员关系，不是成员时返回 nil, nil
func Membership(repos *repository.Repositories, groupID, userID uint) (*model.GroupMember, error) {
	m, err := repos.GroupMember.Find(groupID, userID)
	if err != nil {
		if errorx.IsNotFound(err) {
			return nil, nil
		}
		return nil, Busy(err)
	}
	return m, nil
}

// User 加载用户
func User(repos *repository.Repositories, userID uint) (*model.User, error) {
	u, err := repos.User.FindByID(userID)
	if err != nil {
		return nil, notFound(err, "用户不存在")
	}
	return u, nil
}

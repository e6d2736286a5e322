// Package chat 群聊消息：发送、查询、撤回，以及实时订阅前的成员校验
package chat

import (
	"errors"
	"time"

	"go.uber.org/zap"

	"group_chat_server/internal/dao/mysql/repository"
	"group_chat_server/internal/dto/request"
	"group_chat_server/internal/dto/respond"
	"group_chat_server/internal/model"
	"group_chat_server/internal/service/authz"
	"group_chat_server/internal/service/guard"
	"group_chat_server/internal/service/notify"
	"group_chat_server/pkg/errorx"
)

// maxSendAttempts chat_no 唯一索引冲突时的最多尝试次数
const maxSendAttempts = 3

var errChatNoTaken = errorx.Conflict("消息序号冲突，请重试")

type chatService struct {
	repos         *repository.Repositories
	notifier      notify.Notifier
	retractWindow time.Duration
	now           func() time.Time
}

// NewChatService 构造函数
// retractWindow: 发送者可撤回自己消息的时长
func NewChatService(repos *repository.Repositories, notifier notify.Notifier, retractWindow time.Duration) *chatService {
	return &chatService{
		repos:         repos,
		notifier:      notifier,
		retractWindow: retractWindow,
		now:           time.Now,
	}
}

// SendMessage 发送群消息
// chat_no 由群上的计数器在事务内分配，客户端传入的序号不采用
func (s *chatService) SendMessage(actor authz.Actor, groupID uint, req request.SendChatRequest) (*respond.ChatMessageRespond, error) {
	if req.ChatNo != nil {
		zap.L().Debug("ignore client chat_no", zap.Uint("group_id", groupID), zap.Uint("chat_no", *req.ChatNo))
	}

	var (
		msg *model.ChatMessage
		err error
	)
	for attempt := 1; attempt <= maxSendAttempts; attempt++ {
		msg, err = s.sendOnce(actor, groupID, req)
		if !errors.Is(err, errChatNoTaken) {
			break
		}
		zap.L().Warn("chat_no conflict, retrying", zap.Uint("group_id", groupID), zap.Int("attempt", attempt))
	}
	if err != nil {
		return nil, err
	}

	rsp := respond.NewChatMessageRespond(msg)
	s.notifier.Notify(groupID, notify.Event{Kind: notify.KindMessage, Data: rsp})
	return &rsp, nil
}

func (s *chatService) sendOnce(actor authz.Actor, groupID uint, req request.SendChatRequest) (*model.ChatMessage, error) {
	var msg model.ChatMessage
	err := s.repos.Transaction(func(txRepos *repository.Repositories) error {
		if _, err := guard.UsableGroup(txRepos, groupID); err != nil {
			return err
		}
		member, err := guard.Membership(txRepos, groupID, actor.UserID)
		if err != nil {
			return err
		}
		if !authz.IsMember(member) {
			return errorx.Forbidden("只有群成员可以发言")
		}
		senderName := req.SenderName
		if senderName == "" {
			user, err := guard.User(txRepos, actor.UserID)
			if err != nil {
				return err
			}
			senderName = member.DisplayName(user.Username)
		}

		chatNo, err := txRepos.Group.NextChatNo(groupID)
		if err != nil {
			return guard.Busy(err)
		}
		msg = model.ChatMessage{
			ChatNo:     chatNo,
			GroupID:    groupID,
			UserID:     actor.UserID,
			SenderName: senderName,
			Content:    req.Content,
			SentAt:     s.now(),
		}
		if err := txRepos.ChatMessage.Create(&msg); err != nil {
			if errorx.IsCode(err, errorx.CodeConflict) {
				return errChatNoTaken
			}
			return guard.Busy(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

// ListMessages 群消息列表，按 chat_no 升序
func (s *chatService) ListMessages(actor authz.Actor, groupID uint, req request.ListChatsQuery) ([]respond.ChatMessageRespond, error) {
	if err := s.AuthorizeSubscribe(actor, groupID); err != nil {
		return nil, err
	}
	list, err := s.repos.ChatMessage.List(repository.ChatFilter{
		GroupID:   groupID,
		MinChatNo: req.MinChatNo,
		Q:         req.Q,
	}, repository.Page{Skip: req.Skip, Limit: req.Limit})
	if err != nil {
		return nil, guard.Busy(err)
	}
	rsp := make([]respond.ChatMessageRespond, 0, len(list))
	for i := range list {
		rsp = append(rsp, respond.NewChatMessageRespond(&list[i]))
	}
	return rsp, nil
}

// AuthorizeSubscribe 查看消息和订阅实时事件都要求是群成员或系统管理员
func (s *chatService) AuthorizeSubscribe(actor authz.Actor, groupID uint) error {
	group, err := guard.Group(s.repos, groupID)
	if err != nil {
		return err
	}
	if authz.IsSystemAdmin(actor) || authz.IsOwner(group, actor.UserID) {
		return nil
	}
	member, err := guard.Membership(s.repos, groupID, actor.UserID)
	if err != nil {
		return err
	}
	if !authz.IsMember(member) {
		return errorx.Forbidden("只有群成员可以查看群消息")
	}
	return nil
}

// RetractMessage 撤回消息
// 群主随时可撤回，发送者只能在撤回时限内撤回自己的消息
func (s *chatService) RetractMessage(actor authz.Actor, groupID, messageID uint) (*respond.RetractRespond, error) {
	var rsp respond.RetractRespond
	err := s.repos.Transaction(func(txRepos *repository.Repositories) error {
		group, err := guard.Group(txRepos, groupID)
		if err != nil {
			return err
		}
		msg, err := txRepos.ChatMessage.FindByID(messageID)
		if err != nil {
			if errorx.IsNotFound(err) {
				return errorx.NotFound("消息不存在")
			}
			return guard.Busy(err)
		}
		if msg.GroupID != groupID {
			return errorx.NotFound("消息不存在")
		}

		switch {
		case authz.IsOwner(group, actor.UserID):
		case msg.UserID == actor.UserID:
			if s.now().Sub(msg.SentAt) > s.retractWindow {
				return errorx.Forbidden("已超过撤回时限")
			}
		default:
			return errorx.Forbidden("只能撤回自己发送的消息")
		}

		if err := txRepos.ChatMessage.Delete(msg.ID); err != nil {
			return guard.Busy(err)
		}
		rsp = respond.RetractRespond{MessageID: msg.ID, GroupID: msg.GroupID, ChatNo: msg.ChatNo}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Notify(groupID, notify.Event{Kind: notify.KindRetracted, Data: rsp})
	return &rsp, nil
}

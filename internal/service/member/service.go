// Package member 群成员管理：入群申请与审核、成员列表、群管理员、移除、转让与退群
package member

import (
	"go.uber.org/zap"

	"group_chat_server/internal/dao/mysql/repository"
	myredis "group_chat_server/internal/dao/redis"
	"group_chat_server/internal/dto/request"
	"group_chat_server/internal/dto/respond"
	"group_chat_server/internal/model"
	"group_chat_server/internal/service/audit"
	"group_chat_server/internal/service/authz"
	"group_chat_server/internal/service/guard"
	"group_chat_server/pkg/errorx"
)

type memberService struct {
	repos  *repository.Repositories
	cache  myredis.AsyncCacheService
	policy audit.Policy
}

// NewMemberService 构造函数
func NewMemberService(repos *repository.Repositories, cache myredis.AsyncCacheService, policy audit.Policy) *memberService {
	return &memberService{
		repos:  repos,
		cache:  cache,
		policy: policy,
	}
}

// ==================== 入群申请 ====================

// SubmitJoinRequest 提交入群申请
// 群必须已审核通过，已是成员或已有待审核申请时返回冲突
func (s *memberService) SubmitJoinRequest(actor authz.Actor, groupID uint, req request.JoinGroupRequest) (*respond.JoinRequestRespond, error) {
	var rsp respond.JoinRequestRespond
	err := s.repos.Transaction(func(txRepos *repository.Repositories) error {
		if err := txRepos.Group.LockForWrite(groupID); err != nil {
			return guard.Busy(err)
		}
		if _, err := guard.UsableGroup(txRepos, groupID); err != nil {
			return err
		}
		member, err := guard.Membership(txRepos, groupID, actor.UserID)
		if err != nil {
			return err
		}
		if authz.IsMember(member) {
			return errorx.Conflict("你已是群成员")
		}
		_, err = txRepos.JoinRequest.FindPending(groupID, actor.UserID)
		if err == nil {
			return errorx.Conflict("已有待审核的入群申请")
		}
		if !errorx.IsNotFound(err) {
			return guard.Busy(err)
		}

		joinReq := model.GroupJoinRequest{
			GroupID:    groupID,
			UserID:     actor.UserID,
			Nickname:   req.Nickname,
			AvatarURL:  req.AvatarURL,
			Reason:     req.Reason,
			AuditState: model.AuditPending,
		}
		if err := txRepos.JoinRequest.Create(&joinReq); err != nil {
			return guard.Busy(err)
		}
		rsp = respond.NewJoinRequestRespond(&joinReq)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &rsp, nil
}

// ListJoinRequests 群的入群申请，群主、群管理员或系统管理员可查看
func (s *memberService) ListJoinRequests(actor authz.Actor, groupID uint, req request.ListJoinRequestsQuery) ([]respond.JoinRequestRespond, error) {
	if _, err := s.moderatedGroup(s.repos, actor, groupID); err != nil {
		return nil, err
	}
	state, err := audit.ParseState(req.AuditState)
	if err != nil {
		return nil, err
	}
	list, err := s.repos.JoinRequest.List(groupID, state, repository.Page{Skip: req.Skip, Limit: req.Limit})
	if err != nil {
		return nil, guard.Busy(err)
	}
	rsp := make([]respond.JoinRequestRespond, 0, len(list))
	for i := range list {
		rsp = append(rsp, respond.NewJoinRequestRespond(&list[i]))
	}
	return rsp, nil
}

// AuditJoinRequest 审核入群申请
// 通过时按当前人数上限检查容量，并在群行锁内写入成员，驳回时删除申请
func (s *memberService) AuditJoinRequest(actor authz.Actor, requestID uint, req request.AuditRequest) (*respond.AuditRespond, error) {
	action, err := audit.ParseAction(req.Action)
	if err != nil {
		return nil, err
	}

	var rsp respond.AuditRespond
	var groupID uint
	err = s.repos.Transaction(func(txRepos *repository.Repositories) error {
		// 加锁读和群行锁都在第一条普通读之前，容量检查看到的是锁内最新人数
		joinReq, err := txRepos.JoinRequest.FindByIDForUpdate(requestID)
		if err != nil {
			if errorx.IsNotFound(err) {
				return errorx.NotFound("入群申请不存在")
			}
			return guard.Busy(err)
		}
		groupID = joinReq.GroupID
		if err := txRepos.Group.LockForWrite(joinReq.GroupID); err != nil {
			return guard.Busy(err)
		}
		group, err := s.moderatedGroup(txRepos, actor, joinReq.GroupID)
		if err != nil {
			return err
		}
		next, err := s.policy.Transition(joinReq.AuditState, action)
		if err != nil {
			return err
		}
		rsp.ID = joinReq.ID
		rsp.AuditState = string(next)

		if next == model.AuditRejected {
			if err := txRepos.JoinRequest.Delete(joinReq.ID); err != nil {
				return guard.Busy(err)
			}
			rsp.Deleted = true
			return nil
		}
		if joinReq.AuditState == model.AuditApproved {
			return nil
		}

		member, err := admit(txRepos, group, joinReq)
		if err != nil {
			return err
		}
		if err := txRepos.JoinRequest.UpdateState(joinReq.ID, model.AuditApproved); err != nil {
			return guard.Busy(err)
		}
		rsp.Member = &member
		return nil
	})
	if err != nil {
		return nil, err
	}

	if rsp.Member != nil {
		myredis.InvalidateGroups(s.cache, groupID)
	}
	return &rsp, nil
}

// admit 检查状态和容量后写入成员，昵称为空时使用用户名
func admit(txRepos *repository.Repositories, group *model.Group, joinReq *model.GroupJoinRequest) (respond.MemberRespond, error) {
	if !group.Usable() {
		return respond.MemberRespond{}, errorx.Conflict("群未通过审核")
	}
	existing, err := guard.Membership(txRepos, group.ID, joinReq.UserID)
	if err != nil {
		return respond.MemberRespond{}, err
	}
	if authz.IsMember(existing) {
		return respond.MemberRespond{}, errorx.Conflict("该用户已是群成员")
	}
	count, err := txRepos.GroupMember.Count(group.ID)
	if err != nil {
		return respond.MemberRespond{}, guard.Busy(err)
	}
	if count >= int64(group.MemberLimit) {
		return respond.MemberRespond{}, errorx.Capacity("群人数已达上限")
	}
	user, err := guard.User(txRepos, joinReq.UserID)
	if err != nil {
		return respond.MemberRespond{}, err
	}

	nickname := joinReq.Nickname
	if nickname == "" {
		nickname = user.Username
	}
	member := model.GroupMember{
		GroupID:   group.ID,
		UserID:    joinReq.UserID,
		Nickname:  nickname,
		AvatarURL: joinReq.AvatarURL,
		Pin:       model.Unpinned,
	}
	if err := txRepos.GroupMember.Create(&member); err != nil {
		if errorx.IsCode(err, errorx.CodeConflict) {
			return respond.MemberRespond{}, errorx.Conflict("该用户已是群成员")
		}
		return respond.MemberRespond{}, guard.Busy(err)
	}
	zap.L().Info("member admitted", zap.Uint("group_id", group.ID), zap.Uint("user_id", joinReq.UserID))
	return respond.NewMemberRespond(&member, user.Username, group.CreatedByUserID), nil
}

// moderatedGroup 加载群并要求调用者为系统管理员、群主或群管理员
func (s *memberService) moderatedGroup(repos *repository.Repositories, actor authz.Actor, groupID uint) (*model.Group, error) {
	group, err := guard.Group(repos, groupID)
	if err != nil {
		return nil, err
	}
	member, err := guard.Membership(repos, groupID, actor.UserID)
	if err != nil {
		return nil, err
	}
	if !authz.CanModerateGroup(actor, group, member) {
		return nil, errorx.Forbidden("只有群主、群管理员或系统管理员可以处理入群申请")
	}
	return group, nil
}

// ==================== 成员列表 ====================

// ListMembers 群成员列表，附带每个成员被审核通过的举报数
func (s *memberService) ListMembers(groupID uint, req request.PageQuery) ([]respond.MemberRespond, error) {
	group, err := guard.Group(s.repos, groupID)
	if err != nil {
		return nil, err
	}
	rows, err := s.repos.GroupMember.List(groupID, repository.Page{Skip: req.Skip, Limit: req.Limit})
	if err != nil {
		return nil, guard.Busy(err)
	}
	return s.toMembers(group, rows)
}

// SearchMembers 按昵称或用户名搜索群成员
func (s *memberService) SearchMembers(groupID uint, req request.SearchMembersQuery) ([]respond.MemberRespond, error) {
	group, err := guard.Group(s.repos, groupID)
	if err != nil {
		return nil, err
	}
	rows, err := s.repos.GroupMember.Search(groupID, req.Q)
	if err != nil {
		return nil, guard.Busy(err)
	}
	return s.toMembers(group, rows)
}

func (s *memberService) toMembers(group *model.Group, rows []repository.MemberWithUser) ([]respond.MemberRespond, error) {
	userIDs := make([]uint, 0, len(rows))
	for _, row := range rows {
		userIDs = append(userIDs, row.UserID)
	}
	counts, err := s.repos.Report.CountApprovedByUsers(userIDs)
	if err != nil {
		return nil, guard.Busy(err)
	}
	rsp := make([]respond.MemberRespond, 0, len(rows))
	for i := range rows {
		m := respond.NewMemberRespond(&rows[i].GroupMember, rows[i].Username, group.CreatedByUserID)
		m.ApprovedReportCount = counts[rows[i].UserID]
		rsp = append(rsp, m)
	}
	return rsp, nil
}

// ==================== 成员变更 ====================

// SetMemberAdmin 设置或取消群管理员，群主或系统管理员可操作
func (s *memberService) SetMemberAdmin(actor authz.Actor, groupID, userID uint, req request.SetMemberAdminRequest) error {
	err := s.repos.Transaction(func(txRepos *repository.Repositories) error {
		group, err := guard.Group(txRepos, groupID)
		if err != nil {
			return err
		}
		if !authz.IsSystemAdmin(actor) && !authz.IsOwner(group, actor.UserID) {
			return errorx.Forbidden("只有群主或系统管理员可以设置群管理员")
		}
		target, err := guard.Membership(txRepos, groupID, userID)
		if err != nil {
			return err
		}
		if !authz.IsMember(target) {
			return errorx.NotFound("该用户不是群成员")
		}
		if !*req.IsGroupAdmin && authz.IsOwner(group, userID) {
			return errorx.Conflict("不能取消群主的管理员身份")
		}
		return guard.Busy(txRepos.GroupMember.SetAdmin(groupID, userID, *req.IsGroupAdmin))
	})
	if err != nil {
		return err
	}
	myredis.InvalidateMyGroups(s.cache, userID)
	return nil
}

// RemoveMember 移除成员，系统管理员、群主或成员本人可操作
// 群主只能先转让再离开
func (s *memberService) RemoveMember(actor authz.Actor, groupID, userID uint) error {
	err := s.repos.Transaction(func(txRepos *repository.Repositories) error {
		group, err := guard.Group(txRepos, groupID)
		if err != nil {
			return err
		}
		if !authz.IsSystemAdmin(actor) && !authz.IsOwner(group, actor.UserID) && !authz.IsSelf(actor, userID) {
			return errorx.Forbidden("无权移除该成员")
		}
		if authz.IsOwner(group, userID) {
			return errorx.Conflict("群主不能被移除，请先转让群主")
		}
		target, err := guard.Membership(txRepos, groupID, userID)
		if err != nil {
			return err
		}
		if !authz.IsMember(target) {
			return errorx.NotFound("该用户不是群成员")
		}
		return guard.Busy(txRepos.GroupMember.Delete(groupID, userID))
	})
	if err != nil {
		return err
	}
	myredis.InvalidateGroups(s.cache, groupID)
	return nil
}

// TransferOwnership 群主转让给另一位成员
func (s *memberService) TransferOwnership(actor authz.Actor, groupID uint, req request.TransferOwnershipRequest) error {
	err := s.repos.Transaction(func(txRepos *repository.Repositories) error {
		group, err := guard.Group(txRepos, groupID)
		if err != nil {
			return err
		}
		if !authz.IsOwner(group, actor.UserID) {
			return errorx.Forbidden("只有群主可以转让群")
		}
		target, err := guard.Membership(txRepos, groupID, req.NewOwnerUserID)
		if err != nil {
			return err
		}
		if !authz.IsMember(target) {
			return errorx.NotFound("新群主必须是群成员")
		}
		return transfer(txRepos, group, req.NewOwnerUserID)
	})
	if err != nil {
		return err
	}
	myredis.InvalidateGroups(s.cache, groupID)
	return nil
}

// QuitGroup 成员退群，群主退群时必须同时指定新群主
func (s *memberService) QuitGroup(actor authz.Actor, groupID uint, req request.QuitGroupRequest) error {
	err := s.repos.Transaction(func(txRepos *repository.Repositories) error {
		group, err := guard.Group(txRepos, groupID)
		if err != nil {
			return err
		}
		self, err := guard.Membership(txRepos, groupID, actor.UserID)
		if err != nil {
			return err
		}
		if !authz.IsMember(self) {
			return errorx.NotFound("你不是该群成员")
		}

		if authz.IsOwner(group, actor.UserID) {
			if req.NewOwnerUserID == nil || *req.NewOwnerUserID == 0 {
				return errorx.Validation("群主退群必须指定新群主")
			}
			target, err := guard.Membership(txRepos, groupID, *req.NewOwnerUserID)
			if err != nil {
				return err
			}
			if !authz.IsMember(target) || target.UserID == actor.UserID {
				return errorx.Validation("新群主必须是其他群成员")
			}
			if err := transfer(txRepos, group, *req.NewOwnerUserID); err != nil {
				return err
			}
		}
		return guard.Busy(txRepos.GroupMember.Delete(groupID, actor.UserID))
	})
	if err != nil {
		return err
	}
	myredis.InvalidateGroups(s.cache, groupID)
	return nil
}

// transfer 原群主降为普通成员，新群主升为管理员，并更新群主字段
func transfer(txRepos *repository.Repositories, group *model.Group, toUserID uint) error {
	if toUserID == group.CreatedByUserID {
		return errorx.Validation("新群主不能是当前群主")
	}
	if err := txRepos.GroupMember.SetAdmin(group.ID, group.CreatedByUserID, false); err != nil {
		return guard.Busy(err)
	}
	if err := txRepos.GroupMember.SetAdmin(group.ID, toUserID, true); err != nil {
		return guard.Busy(err)
	}
	if err := txRepos.Group.UpdateOwner(group.ID, toUserID); err != nil {
		return guard.Busy(err)
	}
	group.CreatedByUserID = toUserID
	return nil
}

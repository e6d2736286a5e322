// Package group 群生命周期：建群申请、资料修改申请、解散以及群的读侧查询
package group

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"group_chat_server/internal/dao/mysql/repository"
	myredis "group_chat_server/internal/dao/redis"
	"group_chat_server/internal/dto/request"
	"group_chat_server/internal/dto/respond"
	"group_chat_server/internal/model"
	"group_chat_server/internal/service/audit"
	"group_chat_server/internal/service/authz"
	"group_chat_server/internal/service/guard"
	"group_chat_server/internal/service/notify"
	"group_chat_server/pkg/errorx"
)

// groupService 群组业务逻辑实现
// 通过构造函数注入 Repository、Cache、审核策略和通知依赖
type groupService struct {
	repos    *repository.Repositories
	cache    myredis.AsyncCacheService
	policy   audit.Policy
	notifier notify.Notifier
}

// NewGroupService 构造函数，注入所有依赖
func NewGroupService(repos *repository.Repositories, cache myredis.AsyncCacheService, policy audit.Policy, notifier notify.Notifier) *groupService {
	return &groupService{
		repos:    repos,
		cache:    cache,
		policy:   policy,
		notifier: notifier,
	}
}

func toPage(q request.PageQuery) repository.Page {
	return repository.Page{Skip: q.Skip, Limit: q.Limit}
}

// pendingByDefault 申请列表不传状态时只看待审核
func pendingByDefault(s string) (model.AuditState, error) {
	if s == "" {
		return model.AuditPending, nil
	}
	return audit.ParseState(s)
}

// ==================== 建群申请 ====================

// SubmitCreateRequest 提交建群申请，审核通过前不会创建群
func (g *groupService) SubmitCreateRequest(actor authz.Actor, req request.CreateGroupRequest) (*respond.CreateRequestRespond, error) {
	createReq := model.GroupCreateRequest{
		Name:            req.Name,
		GroupType:       req.GroupType,
		Note:            req.Note,
		AnnounceLimit:   req.AnnounceLimit,
		MemberLimit:     req.MemberLimit,
		Announce:        req.Announce,
		AvatarURL:       req.AvatarURL,
		CreatedByUserID: actor.UserID,
		AuditState:      model.AuditPending,
	}
	if createReq.MemberLimit <= 0 {
		createReq.MemberLimit = model.DefaultMemberLimit
	}
	if err := g.repos.CreateRequest.Create(&createReq); err != nil {
		return nil, guard.Busy(err)
	}
	rsp := respond.NewCreateRequestRespond(&createReq)
	return &rsp, nil
}

// ListCreateRequests 建群申请列表（管理员）
func (g *groupService) ListCreateRequests(req request.ListCreateRequestsQuery) ([]respond.CreateRequestRespond, error) {
	state, err := pendingByDefault(req.AuditState)
	if err != nil {
		return nil, err
	}
	list, err := g.repos.CreateRequest.List(state, req.Q, toPage(req.PageQuery))
	if err != nil {
		return nil, guard.Busy(err)
	}
	rsp := make([]respond.CreateRequestRespond, 0, len(list))
	for i := range list {
		rsp = append(rsp, respond.NewCreateRequestRespond(&list[i]))
	}
	return rsp, nil
}

// AuditCreateRequest 审核建群申请
// 通过时在同一事务里创建群、标记申请、群主以管理员身份入群；驳回时删除申请
func (g *groupService) AuditCreateRequest(id uint, req request.AuditRequest) (*respond.AuditRespond, error) {
	action, err := audit.ParseAction(req.Action)
	if err != nil {
		return nil, err
	}

	var (
		rsp     respond.AuditRespond
		ownerID uint
	)
	err = g.repos.Transaction(func(txRepos *repository.Repositories) error {
		createReq, err := txRepos.CreateRequest.FindByID(id)
		if err != nil {
			if errorx.IsNotFound(err) {
				return errorx.NotFound("建群申请不存在")
			}
			return guard.Busy(err)
		}
		next, err := g.policy.Transition(createReq.AuditState, action)
		if err != nil {
			return err
		}
		rsp.ID = createReq.ID
		rsp.AuditState = string(next)

		if next == model.AuditRejected {
			if err := txRepos.CreateRequest.Delete(createReq.ID); err != nil {
				return guard.Busy(err)
			}
			rsp.Deleted = true
			return nil
		}
		// 重审允许时，已通过的申请不会再建一次群
		if createReq.AuditState == model.AuditApproved {
			return nil
		}

		group := createReq.ToGroup()
		if err := txRepos.Group.Create(group); err != nil {
			return guard.Busy(err)
		}
		if err := txRepos.CreateRequest.UpdateState(createReq.ID, model.AuditApproved); err != nil {
			return guard.Busy(err)
		}
		owner := model.GroupMember{
			GroupID:      group.ID,
			UserID:       createReq.CreatedByUserID,
			IsGroupAdmin: true,
			Pin:          model.Unpinned,
		}
		if err := txRepos.GroupMember.Create(&owner); err != nil {
			return guard.Busy(err)
		}
		groupRsp := respond.NewGroupRespond(group)
		groupRsp.MemberCount = 1
		rsp.Group = &groupRsp
		ownerID = createReq.CreatedByUserID
		return nil
	})
	if err != nil {
		return nil, err
	}

	if rsp.Group != nil {
		myredis.InvalidateMyGroups(g.cache, ownerID)
	}
	return &rsp, nil
}

// ==================== 群资料修改申请 ====================

// SubmitUpdateRequest 群主提交资料修改申请
// 已有待审核申请时按字段合并，后提交的值覆盖先提交的值
func (g *groupService) SubmitUpdateRequest(actor authz.Actor, groupID uint, req request.UpdateGroupRequest) (*respond.UpdateRequestRespond, error) {
	patch := model.GroupPatch{
		Name:          req.Name,
		GroupType:     req.GroupType,
		Note:          req.Note,
		AnnounceLimit: req.AnnounceLimit,
		MemberLimit:   req.MemberLimit,
		Announce:      req.Announce,
		AvatarURL:     req.AvatarURL,
	}
	if patch.IsEmpty() {
		return nil, errorx.Validation("至少需要修改一个字段")
	}

	var rsp respond.UpdateRequestRespond
	err := g.repos.Transaction(func(txRepos *repository.Repositories) error {
		group, err := guard.Group(txRepos, groupID)
		if err != nil {
			return err
		}
		if !authz.IsOwner(group, actor.UserID) {
			return errorx.Forbidden("只有群主可以申请修改群资料")
		}

		pending, err := txRepos.UpdateRequest.FindPendingByGroup(groupID)
		switch {
		case err == nil:
			pending.GroupPatch = pending.GroupPatch.Merge(patch)
			pending.RequestedByUserID = actor.UserID
			if err := txRepos.UpdateRequest.Save(pending); err != nil {
				return guard.Busy(err)
			}
		case errorx.IsNotFound(err):
			pending = &model.GroupUpdateRequest{
				GroupID:           groupID,
				RequestedByUserID: actor.UserID,
				GroupPatch:        patch,
				AuditState:        model.AuditPending,
			}
			if err := txRepos.UpdateRequest.Create(pending); err != nil {
				return guard.Busy(err)
			}
		default:
			return guard.Busy(err)
		}
		rsp = respond.NewUpdateRequestRespond(pending, group)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &rsp, nil
}

// ListUpdateRequests 修改申请列表（管理员），未修改的字段用群当前值填充
func (g *groupService) ListUpdateRequests(req request.ListUpdateRequestsQuery) ([]respond.UpdateRequestRespond, error) {
	state, err := pendingByDefault(req.AuditState)
	if err != nil {
		return nil, err
	}
	list, err := g.repos.UpdateRequest.List(state, req.GroupID, toPage(req.PageQuery))
	if err != nil {
		return nil, guard.Busy(err)
	}

	groups := make(map[uint]*model.Group)
	rsp := make([]respond.UpdateRequestRespond, 0, len(list))
	for i := range list {
		current, ok := groups[list[i].GroupID]
		if !ok {
			current, err = g.repos.Group.FindByID(list[i].GroupID)
			if err != nil && !errorx.IsNotFound(err) {
				return nil, guard.Busy(err)
			}
			groups[list[i].GroupID] = current
		}
		rsp = append(rsp, respond.NewUpdateRequestRespond(&list[i], current))
	}
	return rsp, nil
}

// AuditUpdateRequest 审核修改申请
// 通过时把非空字段写入群并保留申请记录；驳回时删除申请
func (g *groupService) AuditUpdateRequest(id uint, req request.AuditRequest) (*respond.AuditRespond, error) {
	action, err := audit.ParseAction(req.Action)
	if err != nil {
		return nil, err
	}

	var (
		rsp     respond.AuditRespond
		groupID uint
	)
	err = g.repos.Transaction(func(txRepos *repository.Repositories) error {
		updateReq, err := txRepos.UpdateRequest.FindByID(id)
		if err != nil {
			if errorx.IsNotFound(err) {
				return errorx.NotFound("修改申请不存在")
			}
			return guard.Busy(err)
		}
		next, err := g.policy.Transition(updateReq.AuditState, action)
		if err != nil {
			return err
		}
		rsp.ID = updateReq.ID
		rsp.AuditState = string(next)
		groupID = updateReq.GroupID

		if next == model.AuditRejected {
			if err := txRepos.UpdateRequest.Delete(updateReq.ID); err != nil {
				return guard.Busy(err)
			}
			rsp.Deleted = true
			return nil
		}

		group, err := guard.Group(txRepos, updateReq.GroupID)
		if err != nil {
			return err
		}
		updateReq.GroupPatch.ApplyTo(group)
		if err := txRepos.Group.Save(group); err != nil {
			return guard.Busy(err)
		}
		if err := txRepos.UpdateRequest.UpdateState(updateReq.ID, model.AuditApproved); err != nil {
			return guard.Busy(err)
		}
		groupRsp := respond.NewGroupRespond(group)
		rsp.Group = &groupRsp
		return nil
	})
	if err != nil {
		return nil, err
	}

	if rsp.Group != nil {
		myredis.InvalidateGroups(g.cache, groupID)
	}
	return &rsp, nil
}

// ==================== 解散 ====================

// DissolveGroup 解散群，系统管理员或群主可操作
func (g *groupService) DissolveGroup(actor authz.Actor, groupID uint) error {
	err := g.repos.Transaction(func(txRepos *repository.Repositories) error {
		group, err := guard.Group(txRepos, groupID)
		if err != nil {
			return err
		}
		if !authz.IsSystemAdmin(actor) && !authz.IsOwner(group, actor.UserID) {
			member, err := guard.Membership(txRepos, groupID, actor.UserID)
			if err != nil {
				return err
			}
			if !authz.IsMember(member) {
				return errorx.Forbidden("你不是该群成员，不能解散该群")
			}
			return errorx.Forbidden("只有群主可以解散该群")
		}
		return guard.Busy(Purge(txRepos, groupID))
	})
	if err != nil {
		return err
	}

	myredis.InvalidateGroups(g.cache, groupID)
	g.notifier.Notify(groupID, notify.Event{Kind: notify.KindDissolved})
	return nil
}

// Purge 在调用方的事务里删除群及其下所有数据
// 举报通过子查询引用群消息，必须先于消息删除
func Purge(txRepos *repository.Repositories, groupID uint) error {
	steps := []func(uint) error{
		txRepos.GroupMember.DeleteByGroup,
		txRepos.Report.DeleteByGroup,
		txRepos.ChatMessage.DeleteByGroup,
		txRepos.JoinRequest.DeleteByGroup,
		txRepos.UpdateRequest.DeleteByGroup,
		txRepos.Group.Delete,
	}
	for _, step := range steps {
		if err := step(groupID); err != nil {
			return err
		}
	}
	return nil
}

// ==================== 读侧 ====================

// ListGroups 群列表，可按审核状态和群名过滤
func (g *groupService) ListGroups(req request.ListGroupsQuery) ([]respond.GroupRespond, error) {
	state, err := audit.ParseState(req.AuditState)
	if err != nil {
		return nil, err
	}
	list, err := g.repos.Group.List(state, req.Q, toPage(req.PageQuery))
	if err != nil {
		return nil, guard.Busy(err)
	}
	rsp := make([]respond.GroupRespond, 0, len(list))
	for i := range list {
		rsp = append(rsp, respond.NewGroupRespond(&list[i]))
	}
	return rsp, nil
}

// GetGroup 群详情，包含成员数和被审核通过的举报数
func (g *groupService) GetGroup(groupID uint) (*respond.GroupRespond, error) {
	cacheKey := myredis.GroupInfoKey(groupID)

	rspString, err := g.cache.Get(context.Background(), cacheKey)
	if err == nil && rspString != "" {
		var rsp respond.GroupRespond
		if err := json.Unmarshal([]byte(rspString), &rsp); err == nil {
			return &rsp, nil
		}
		zap.L().Error("Unmarshal group info cache error", zap.Error(err))
	} else if err != nil {
		zap.L().Error("Redis get error", zap.Error(err))
	}

	group, err := guard.Group(g.repos, groupID)
	if err != nil {
		return nil, err
	}
	memberCount, err := g.repos.GroupMember.Count(groupID)
	if err != nil {
		return nil, guard.Busy(err)
	}
	reportCount, err := g.repos.Report.CountApprovedByGroup(groupID)
	if err != nil {
		return nil, guard.Busy(err)
	}
	rsp := respond.NewGroupRespond(group)
	rsp.MemberCount = memberCount
	rsp.ApprovedReportCount = reportCount

	g.cache.SubmitTask(func() {
		rspBytes, err := json.Marshal(rsp)
		if err != nil {
			zap.L().Error("Marshal group info error", zap.Error(err))
			return
		}
		if err := g.cache.Set(context.Background(), cacheKey, string(rspBytes), myredis.GroupInfoTTL); err != nil {
			zap.L().Error("Set cache error", zap.Error(err))
		}
	})
	return &rsp, nil
}

// MyGroups 我加入的已审核群，成员置顶优先，其次新群优先
func (g *groupService) MyGroups(actor authz.Actor) ([]respond.MyGroupRespond, error) {
	cacheKey := myredis.MyGroupsKey(actor.UserID)

	rspString, err := g.cache.Get(context.Background(), cacheKey)
	if err == nil && rspString != "" {
		var rsp []respond.MyGroupRespond
		if err := json.Unmarshal([]byte(rspString), &rsp); err == nil {
			return rsp, nil
		}
		zap.L().Error("Unmarshal my group list cache error", zap.Error(err))
	} else if err != nil {
		zap.L().Error("Redis get error", zap.Error(err))
	}

	rows, err := g.repos.GroupMember.ListMyGroups(actor.UserID)
	if err != nil {
		return nil, guard.Busy(err)
	}
	// 使用 make 初始化 len=0，确保序列化后是 [] 而不是 null
	rsp := make([]respond.MyGroupRespond, 0, len(rows))
	for i := range rows {
		rsp = append(rsp, respond.MyGroupRespond{
			GroupRespond: respond.NewGroupRespond(&rows[i].Group),
			Pin:          string(rows[i].MemberPin),
			IsOwner:      authz.IsOwner(&rows[i].Group, actor.UserID),
			IsGroupAdmin: rows[i].IsGroupAdmin,
		})
	}

	g.cache.SubmitTask(func() {
		rspBytes, err := json.Marshal(rsp)
		if err != nil {
			zap.L().Error("Marshal my group list error", zap.Error(err))
			return
		}
		if err := g.cache.Set(context.Background(), cacheKey, string(rspBytes), myredis.MyGroupsTTL); err != nil {
			zap.L().Error("Set cache error", zap.Error(err))
		}
	})
	return rsp, nil
}

// PinGroup 成员置顶或取消置顶群
func (g *groupService) PinGroup(actor authz.Actor, groupID uint, req request.PinGroupRequest) error {
	if _, err := guard.Group(g.repos, groupID); err != nil {
		return err
	}
	member, err := guard.Membership(g.repos, groupID, actor.UserID)
	if err != nil {
		return err
	}
	if !authz.IsMember(member) {
		return errorx.Forbidden("只有群成员可以置顶该群")
	}
	pin := model.Unpinned
	if *req.Pinned {
		pin = model.Pinned
	}
	if err := g.repos.GroupMember.SetPin(groupID, actor.UserID, pin); err != nil {
		return guard.Busy(err)
	}
	myredis.InvalidateMyGroups(g.cache, actor.UserID)
	return nil
}

// Package report 举报的提交、查询、审核与删除
// 审核通过的举报数在群详情和成员列表中实时统计
package report

import (
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

type reportService struct {
	repos  *repository.Repositories
	cache  myredis.AsyncCacheService
	policy audit.Policy
}

// NewReportService 构造函数
func NewReportService(repos *repository.Repositories, cache myredis.AsyncCacheService, policy audit.Policy) *reportService {
	return &reportService{
		repos:  repos,
		cache:  cache,
		policy: policy,
	}
}

// Submit 提交举报，引用的用户、群、消息必须存在
func (s *reportService) Submit(actor authz.Actor, req request.SubmitReportRequest) (*respond.ReportRespond, error) {
	if req.ReportedUserID != nil {
		if _, err := guard.User(s.repos, *req.ReportedUserID); err != nil {
			return nil, err
		}
	}
	if req.GroupID != nil {
		if _, err := guard.Group(s.repos, *req.GroupID); err != nil {
			return nil, err
		}
	}
	if req.ChatMessageID != nil {
		if _, err := s.repos.ChatMessage.FindByID(*req.ChatMessageID); err != nil {
			if errorx.IsNotFound(err) {
				return nil, errorx.NotFound("消息不存在")
			}
			return nil, guard.Busy(err)
		}
	}

	report := model.Report{
		UserID:         actor.UserID,
		ReportContent:  req.ReportContent,
		ReportedUserID: req.ReportedUserID,
		GroupID:        req.GroupID,
		ChatMessageID:  req.ChatMessageID,
		AuditState:     model.AuditPending,
	}
	if err := s.repos.Report.Create(&report); err != nil {
		return nil, guard.Busy(err)
	}
	rsp := respond.NewReportRespond(&report)
	return &rsp, nil
}

// MyReports 我提交的举报
func (s *reportService) MyReports(actor authz.Actor, req request.MyReportsQuery) ([]respond.ReportRespond, error) {
	state, err := audit.ParseState(req.AuditState)
	if err != nil {
		return nil, err
	}
	return s.list(repository.ReportFilter{State: state, ReporterID: actor.UserID}, repository.Page{Limit: repository.MaxLimit})
}

// ListReports 举报列表（管理员）
func (s *reportService) ListReports(req request.ListReportsQuery) ([]respond.ReportRespond, error) {
	state, err := audit.ParseState(req.AuditState)
	if err != nil {
		return nil, err
	}
	return s.list(repository.ReportFilter{
		State:          state,
		ReporterID:     req.ReporterID,
		ReportedUserID: req.ReportedUserID,
		GroupID:        req.GroupID,
	}, repository.Page{Skip: req.Skip, Limit: req.Limit})
}

func (s *reportService) list(filter repository.ReportFilter, page repository.Page) ([]respond.ReportRespond, error) {
	list, err := s.repos.Report.List(filter, page)
	if err != nil {
		return nil, guard.Busy(err)
	}
	rsp := make([]respond.ReportRespond, 0, len(list))
	for i := range list {
		rsp = append(rsp, respond.NewReportRespond(&list[i]))
	}
	return rsp, nil
}

// AuditReport 审核举报，驳回的举报保留记录
func (s *reportService) AuditReport(id uint, req request.AuditRequest) (*respond.AuditRespond, error) {
	action, err := audit.ParseAction(req.Action)
	if err != nil {
		return nil, err
	}

	var (
		rsp     respond.AuditRespond
		groupID *uint
	)
	err = s.repos.Transaction(func(txRepos *repository.Repositories) error {
		report, err := findReport(txRepos, id)
		if err != nil {
			return err
		}
		next, err := s.policy.Transition(report.AuditState, action)
		if err != nil {
			return err
		}
		if err := txRepos.Report.UpdateState(report.ID, next); err != nil {
			return guard.Busy(err)
		}
		rsp.ID = report.ID
		rsp.AuditState = string(next)
		groupID = report.GroupID
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(groupID)
	return &rsp, nil
}

// DeleteReport 举报人本人或系统管理员可删除
func (s *reportService) DeleteReport(actor authz.Actor, id uint) error {
	var groupID *uint
	err := s.repos.Transaction(func(txRepos *repository.Repositories) error {
		report, err := findReport(txRepos, id)
		if err != nil {
			return err
		}
		if !authz.CanManageUser(actor, report.UserID) {
			return errorx.Forbidden("只能删除自己提交的举报")
		}
		groupID = report.GroupID
		return guard.Busy(txRepos.Report.Delete(report.ID))
	})
	if err != nil {
		return err
	}
	s.invalidate(groupID)
	return nil
}

// invalidate 群详情里的举报数随审核和删除变化
func (s *reportService) invalidate(groupID *uint) {
	if groupID != nil {
		myredis.InvalidateGroups(s.cache, *groupID)
	}
}

func findReport(repos *repository.Repositories, id uint) (*model.Report, error) {
	report, err := repos.Report.FindByID(id)
	if err != nil {
		if errorx.IsNotFound(err) {
			return nil, errorx.NotFound("举报不存在")
		}
		return nil, guard.Busy(err)
	}
	return report, nil
}

package handler

import (
	"github.com/gin-gonic/gin"

	"group_chat_server/internal/dto/request"
	"group_chat_server/internal/infrastructure/middleware"
	"group_chat_server/internal/service"
)

// ReportHandler 举报请求处理器
type ReportHandler struct {
	reportSvc service.ReportService
}

func NewReportHandler(reportSvc service.ReportService) *ReportHandler {
	return &ReportHandler{reportSvc: reportSvc}
}

// Submit 提交举报
// POST /api/reports
func (h *ReportHandler) Submit(c *gin.Context) {
	var req request.SubmitReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.reportSvc.Submit(middleware.ActorFrom(c), req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// MyReports 我提交的举报
// GET /api/reports/my?audit_state=
func (h *ReportHandler) MyReports(c *gin.Context) {
	var req request.MyReportsQuery
	if err := c.ShouldBindQuery(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.reportSvc.MyReports(middleware.ActorFrom(c), req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// DeleteReport 删除举报，举报人或系统管理员
// DELETE /api/reports/:id
func (h *ReportHandler) DeleteReport(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.reportSvc.DeleteReport(middleware.ActorFrom(c), id); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// ListReports 举报列表
// GET /api/admin/reports
func (h *ReportHandler) ListReports(c *gin.Context) {
	var req request.ListReportsQuery
	if err := c.ShouldBindQuery(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.reportSvc.ListReports(req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, listOf(data, req.PageQuery))
}

// AuditReport 审核举报
// POST /api/admin/reports/:id/audit
func (h *ReportHandler) AuditReport(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req request.AuditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.reportSvc.AuditReport(id, req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

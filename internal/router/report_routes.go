package router

import (
	"github.com/gin-gonic/gin"
)

func (rt *Router) RegisterReportRoutes(rg *gin.RouterGroup) {
	reports := rg.Group("/reports")
	{
		reports.POST("", rt.handlers.Report.Submit)
		reports.GET("/my", rt.handlers.Report.MyReports)
		reports.DELETE("/:id", rt.handlers.Report.DeleteReport)
	}
}

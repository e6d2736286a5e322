package router

import (
	"github.com/gin-gonic/gin"
)

func (rt *Router) RegisterFileRoutes(rg *gin.RouterGroup) {
	files := rg.Group("/files")
	{
		files.POST("/upload", rt.handlers.File.Upload)
		files.GET("/:category/:name", rt.handlers.File.Download)
		files.DELETE("/:category/:name", rt.handlers.File.Delete)
	}
}

package handler

import (
	"github.com/gin-gonic/gin"

	"group_chat_server/internal/service"
	"group_chat_server/pkg/errorx"
)

// FileHandler 文件上传下载
type FileHandler struct {
	fileSvc service.FileService
}

func NewFileHandler(fileSvc service.FileService) *FileHandler {
	return &FileHandler{fileSvc: fileSvc}
}

// Upload 上传单个文件，表单字段 file
// POST /api/files/upload
func (h *FileHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		HandleError(c, errorx.Validation("缺少上传文件字段 file"))
		return
	}
	data, err := h.fileSvc.Upload(fileHeader)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// Download 下载文件
// GET /api/files/:category/:name
func (h *FileHandler) Download(c *gin.Context) {
	path, err := h.fileSvc.Open(c.Param("category"), c.Param("name"))
	if err != nil {
		HandleError(c, err)
		return
	}
	c.File(path)
}

// Delete 删除文件
// DELETE /api/files/:category/:name
func (h *FileHandler) Delete(c *gin.Context) {
	if err := h.fileSvc.Delete(c.Param("category"), c.Param("name")); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

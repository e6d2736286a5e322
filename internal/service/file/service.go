// Package file 上传文件的存储、读取和删除
// 文件按类别分目录存放，文件名由服务端生成
package file

import (
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"group_chat_server/internal/config"
	"group_chat_server/internal/dto/respond"
	"group_chat_server/pkg/errorx"
)

// 文件类别，同时是存储子目录名
const (
	CategoryImages    = "images"
	CategoryDocuments = "documents"
	CategoryVideos    = "videos"
	CategoryAudios    = "audios"
	CategoryOthers    = "others"
)

var categories = map[string]struct{}{
	CategoryImages:    {},
	CategoryDocuments: {},
	CategoryVideos:    {},
	CategoryAudios:    {},
	CategoryOthers:    {},
}

var extCategories = map[string]string{
	".jpg": CategoryImages, ".jpeg": CategoryImages, ".png": CategoryImages, ".gif": CategoryImages,
	".bmp": CategoryImages, ".webp": CategoryImages, ".svg": CategoryImages,
	".pdf": CategoryDocuments, ".doc": CategoryDocuments, ".docx": CategoryDocuments,
	".xls": CategoryDocuments, ".xlsx": CategoryDocuments, ".ppt": CategoryDocuments,
	".pptx": CategoryDocuments, ".txt": CategoryDocuments, ".md": CategoryDocuments, ".csv": CategoryDocuments,
	".mp4": CategoryVideos, ".avi": CategoryVideos, ".mov": CategoryVideos, ".mkv": CategoryVideos, ".webm": CategoryVideos,
	".mp3": CategoryAudios, ".wav": CategoryAudios, ".ogg": CategoryAudios, ".flac": CategoryAudios,
	".aac": CategoryAudios, ".m4a": CategoryAudios,
}

type fileService struct {
	root      string
	maxSize   int64
	urlPrefix string
}

// NewFileService 构造函数
func NewFileService(conf config.StaticSrcConfig) *fileService {
	return &fileService{
		root:      conf.UploadPath,
		maxSize:   conf.MaxFileSize,
		urlPrefix: strings.TrimRight(conf.URLPrefix, "/"),
	}
}

// Upload 保存上传的文件，返回访问地址
func (s *fileService) Upload(fileHeader *multipart.FileHeader) (*respond.FileRespond, error) {
	if fileHeader.Size == 0 {
		return nil, errorx.Validation("文件为空")
	}
	if fileHeader.Size > s.maxSize {
		return nil, errorx.Validation("文件超过大小限制")
	}

	src, err := fileHeader.Open()
	if err != nil {
		zap.L().Error("open upload error", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	defer src.Close()

	// 读取文件头识别真实类型，再把读指针移回开头
	mtype, err := mimetype.DetectReader(src)
	if err != nil {
		zap.L().Error("detect mime error", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		zap.L().Error("seek upload error", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if ext == "" {
		ext = mtype.Extension()
	}
	category := Categorize(ext, mtype.String())
	name := strings.ReplaceAll(uuid.NewString(), "-", "") + ext

	dir := filepath.Join(s.root, category)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		zap.L().Error("mkdir upload dir error", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	out, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		zap.L().Error("create upload file error", zap.Error(err))
		return nil, errorx.ErrServerBusy
	}
	defer out.Close()

	written, err := io.Copy(out, io.LimitReader(src, s.maxSize+1))
	if err != nil || written > s.maxSize {
		_ = os.Remove(out.Name())
		if err != nil {
			zap.L().Error("write upload file error", zap.Error(err))
			return nil, errorx.ErrServerBusy
		}
		return nil, errorx.Validation("文件超过大小限制")
	}

	zap.L().Info("upload file success", zap.String("category", category), zap.String("filename", name), zap.Int64("size", written))
	return &respond.FileRespond{
		Category:    category,
		Filename:    name,
		URL:         path.Join(s.urlPrefix, category, name),
		Size:        written,
		ContentType: mtype.String(),
	}, nil
}

// Open 返回文件的本地路径
func (s *fileService) Open(category, name string) (string, error) {
	p, err := s.locate(category, name)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(p)
	if err != nil || info.IsDir() {
		return "", errorx.NotFound("文件不存在")
	}
	return p, nil
}

// Delete 删除文件
func (s *fileService) Delete(category, name string) error {
	p, err := s.locate(category, name)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil {
		if os.IsNotExist(err) {
			return errorx.NotFound("文件不存在")
		}
		zap.L().Error("remove file error", zap.Error(err))
		return errorx.ErrServerBusy
	}
	return nil
}

// locate 拒绝未知类别和任何可能跳出存储目录的文件名
func (s *fileService) locate(category, name string) (string, error) {
	if _, ok := categories[category]; !ok {
		return "", errorx.Validation("未知的文件类别")
	}
	if name == "" || name == "." || strings.Contains(name, "..") || strings.ContainsAny(name, `/\`) {
		return "", errorx.Validation("非法的文件名")
	}
	return filepath.Join(s.root, category, name), nil
}

// Categorize 先按扩展名归类，未知扩展名再按 MIME 类型
func Categorize(ext, mime string) string {
	if c, ok := extCategories[strings.ToLower(ext)]; ok {
		return c
	}
	switch {
	case strings.HasPrefix(mime, "image/"):
		return CategoryImages
	case strings.HasPrefix(mime, "video/"):
		return CategoryVideos
	case strings.HasPrefix(mime, "audio/"):
		return CategoryAudios
	case strings.HasPrefix(mime, "text/"), strings.HasPrefix(mime, "application/pdf"):
		return CategoryDocuments
	}
	return CategoryOthers
}

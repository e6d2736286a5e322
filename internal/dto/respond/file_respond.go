package respond

// FileRespond 上传文件信息
type FileRespond struct {
	Category    string `json:"category"`
	Filename    string `json:"filename"`
	URL         string `json:"url"`
	Size        int64  `json:"size"`
	ContentType string `json:"content_type"`
}

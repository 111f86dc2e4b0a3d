package handler

import (
	"github.com/fieldray/patrol/internal/patrol/service"
	"github.com/gin-gonic/gin"
)

// UploadHandler 文件上传处理器
type UploadHandler struct {
	storage *service.StorageService
}

// NewUploadHandler 创建文件上传处理器
func NewUploadHandler(storage *service.StorageService) *UploadHandler {
	return &UploadHandler{storage: storage}
}

// Upload 上传参考图到对象存储，返回公开URL。
// kind 参数标识用途（asset/template），作为对象名前缀。
// POST /upload
func (h *UploadHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		BadRequest(c, "没有上传文件")
		return
	}

	kind := c.PostForm("kind")
	if kind == "" {
		kind = c.Query("kind")
	}

	src, err := fileHeader.Open()
	if err != nil {
		InternalError(c, "读取上传文件失败: "+err.Error())
		return
	}
	defer src.Close()

	result, err := h.storage.Upload(
		c.Request.Context(),
		kind,
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
		src,
		fileHeader.Size,
	)
	if err != nil {
		InternalError(c, "上传文件失败: "+err.Error())
		return
	}

	Success(c, result)
}

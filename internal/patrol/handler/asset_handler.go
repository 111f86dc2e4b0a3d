package handler

import (
	"github.com/fieldray/patrol/internal/patrol/service"
	"github.com/gin-gonic/gin"
)

// AssetHandler 资产处理器
type AssetHandler struct {
	svc *service.AssetService
}

// NewAssetHandler 创建资产处理器
func NewAssetHandler(svc *service.AssetService) *AssetHandler {
	return &AssetHandler{svc: svc}
}

// List 获取资产列表
// GET /assets
func (h *AssetHandler) List(c *gin.Context) {
	assets, err := h.svc.List(c.Request.Context())
	if err != nil {
		InternalError(c, "获取资产列表失败: "+err.Error())
		return
	}
	Success(c, gin.H{"items": assets})
}

// Get 获取资产详情
// GET /assets/:id
func (h *AssetHandler) Get(c *gin.Context) {
	asset, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		FailOrNotFound(c, err, "获取资产失败")
		return
	}
	Success(c, asset)
}

// Create 创建资产
// POST /assets
func (h *AssetHandler) Create(c *gin.Context) {
	var req service.CreateAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	asset, err := h.svc.Create(c.Request.Context(), &req)
	if err != nil {
		BadRequest(c, err.Error())
		return
	}
	Created(c, asset)
}

// Update 更新资产
// PUT /assets/:id
func (h *AssetHandler) Update(c *gin.Context) {
	var req service.UpdateAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	asset, err := h.svc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		FailOrNotFound(c, err, "更新资产失败")
		return
	}
	Success(c, asset)
}

// Delete 删除资产
// DELETE /assets/:id
func (h *AssetHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		FailOrNotFound(c, err, "删除资产失败")
		return
	}
	Success(c, gin.H{"message": "deleted"})
}

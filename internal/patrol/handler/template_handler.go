package handler

import (
	"github.com/fieldray/patrol/internal/patrol/service"
	"github.com/gin-gonic/gin"
)

// TemplateHandler 模板处理器
type TemplateHandler struct {
	svc *service.TemplateService
}

// NewTemplateHandler 创建模板处理器
func NewTemplateHandler(svc *service.TemplateService) *TemplateHandler {
	return &TemplateHandler{svc: svc}
}

// List 获取模板列表
// GET /templates
func (h *TemplateHandler) List(c *gin.Context) {
	templates, err := h.svc.List(c.Request.Context())
	if err != nil {
		InternalError(c, "获取模板列表失败: "+err.Error())
		return
	}
	Success(c, gin.H{"items": templates})
}

// Get 获取模板详情（含检查项）
// GET /templates/:id
func (h *TemplateHandler) Get(c *gin.Context) {
	template, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		FailOrNotFound(c, err, "获取模板失败")
		return
	}
	Success(c, template)
}

// ListItems 获取模板检查项（套用模板用）
// GET /templates/:id/items
func (h *TemplateHandler) ListItems(c *gin.Context) {
	items, err := h.svc.ListItems(c.Request.Context(), c.Param("id"))
	if err != nil {
		FailOrNotFound(c, err, "获取模板检查项失败")
		return
	}
	Success(c, gin.H{"items": items})
}

// Create 创建模板
// POST /templates
func (h *TemplateHandler) Create(c *gin.Context) {
	var req service.CreateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	template, err := h.svc.Create(c.Request.Context(), &req)
	if err != nil {
		BadRequest(c, err.Error())
		return
	}
	Created(c, template)
}

// Update 更新模板
// PUT /templates/:id
func (h *TemplateHandler) Update(c *gin.Context) {
	var req service.UpdateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	template, err := h.svc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		FailOrNotFound(c, err, "更新模板失败")
		return
	}
	Success(c, template)
}

// SaveItems 整体替换模板检查项
// PUT /templates/:id/items
func (h *TemplateHandler) SaveItems(c *gin.Context) {
	var req struct {
		Items []service.CheckItemInput `json:"items"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	if err := h.svc.SaveItems(c.Request.Context(), c.Param("id"), req.Items); err != nil {
		BadRequest(c, err.Error())
		return
	}

	items, err := h.svc.ListItems(c.Request.Context(), c.Param("id"))
	if err != nil {
		FailOrNotFound(c, err, "获取模板检查项失败")
		return
	}
	Success(c, gin.H{"items": items})
}

// Delete 删除模板
// DELETE /templates/:id
func (h *TemplateHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		FailOrNotFound(c, err, "删除模板失败")
		return
	}
	Success(c, gin.H{"message": "deleted"})
}

package handler

import (
	"github.com/fieldray/patrol/internal/patrol/service"
	"github.com/gin-gonic/gin"
)

// PlanHandler 巡检计划处理器
type PlanHandler struct {
	svc *service.PlanService
}

// NewPlanHandler 创建巡检计划处理器
func NewPlanHandler(svc *service.PlanService) *PlanHandler {
	return &PlanHandler{svc: svc}
}

// List 获取计划列表
// GET /plans
func (h *PlanHandler) List(c *gin.Context) {
	plans, err := h.svc.List(c.Request.Context())
	if err != nil {
		InternalError(c, "获取计划列表失败: "+err.Error())
		return
	}
	Success(c, gin.H{"items": plans})
}

// Get 获取计划详情（含检查项）
// GET /plans/:id
func (h *PlanHandler) Get(c *gin.Context) {
	plan, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		FailOrNotFound(c, err, "获取计划失败")
		return
	}
	Success(c, plan)
}

// Create 创建计划。开始日期为今天且启用时同步生成当日任务。
// POST /plans
func (h *PlanHandler) Create(c *gin.Context) {
	var req service.SavePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	plan, err := h.svc.Create(c.Request.Context(), &req)
	if err != nil {
		BadRequest(c, err.Error())
		return
	}
	Created(c, plan)
}

// Update 更新计划
// PUT /plans/:id
func (h *PlanHandler) Update(c *gin.Context) {
	var req service.SavePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	plan, err := h.svc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		FailOrNotFound(c, err, "更新计划失败")
		return
	}
	Success(c, plan)
}

// SaveItems 整体替换计划检查项
// PUT /plans/:id/items
func (h *PlanHandler) SaveItems(c *gin.Context) {
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

	plan, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		FailOrNotFound(c, err, "获取计划失败")
		return
	}
	Success(c, plan)
}

// Delete 删除计划。已生成的任务保留。
// DELETE /plans/:id
func (h *PlanHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		FailOrNotFound(c, err, "删除计划失败")
		return
	}
	Success(c, gin.H{"message": "deleted"})
}

package handler

import (
	"errors"

	"github.com/fieldray/patrol/internal/patrol/repository"
	"github.com/fieldray/patrol/internal/patrol/service"
	"github.com/gin-gonic/gin"
)

// TaskHandler 巡检任务处理器
type TaskHandler struct {
	svc *service.TaskService
}

// NewTaskHandler 创建巡检任务处理器
func NewTaskHandler(svc *service.TaskService) *TaskHandler {
	return &TaskHandler{svc: svc}
}

// List 获取任务列表，支持 status/asset_id/assigned_user 过滤
// GET /tasks
func (h *TaskHandler) List(c *gin.Context) {
	filter := repository.TaskFilter{
		Status:       c.Query("status"),
		AssetID:      c.Query("asset_id"),
		AssignedUser: c.Query("assigned_user"),
	}

	tasks, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		InternalError(c, "获取任务列表失败: "+err.Error())
		return
	}
	Success(c, gin.H{"items": tasks})
}

// ListPending 获取待执行任务（巡检端），按指派日期正序
// GET /tasks/pending
func (h *TaskHandler) ListPending(c *gin.Context) {
	tasks, err := h.svc.ListPending(c.Request.Context())
	if err != nil {
		InternalError(c, "获取待执行任务失败: "+err.Error())
		return
	}
	Success(c, gin.H{"items": tasks})
}

// Get 获取任务详情（含检查项）
// GET /tasks/:id
func (h *TaskHandler) Get(c *gin.Context) {
	task, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		FailOrNotFound(c, err, "获取任务失败")
		return
	}
	Success(c, task)
}

// Create 创建任务（管理员直接建任务）
// POST /tasks
func (h *TaskHandler) Create(c *gin.Context) {
	var req service.SaveTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	task, err := h.svc.Create(c.Request.Context(), &req)
	if err != nil {
		BadRequest(c, err.Error())
		return
	}
	Created(c, task)
}

// Update 更新任务
// PUT /tasks/:id
func (h *TaskHandler) Update(c *gin.Context) {
	var req service.SaveTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	task, err := h.svc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		FailOrNotFound(c, err, "更新任务失败")
		return
	}
	Success(c, task)
}

// Complete 提交任务执行结果
// POST /tasks/:id/complete
func (h *TaskHandler) Complete(c *gin.Context) {
	var req service.CompleteTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	record, err := h.svc.Complete(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, "任务不存在")
			return
		}
		// 校验类错误：缺结果、取值不合法、重复提交
		BadRequest(c, err.Error())
		return
	}
	Success(c, record)
}

// Delete 删除任务
// DELETE /tasks/:id
func (h *TaskHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		FailOrNotFound(c, err, "删除任务失败")
		return
	}
	Success(c, gin.H{"message": "deleted"})
}

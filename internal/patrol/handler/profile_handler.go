package handler

import (
	"github.com/fieldray/patrol/internal/patrol/service"
	"github.com/gin-gonic/gin"
)

// ProfileHandler 用户档案处理器
type ProfileHandler struct {
	svc *service.ProfileService
}

// NewProfileHandler 创建用户档案处理器
func NewProfileHandler(svc *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{svc: svc}
}

// List 获取用户列表（指派下拉用）
// GET /profiles
func (h *ProfileHandler) List(c *gin.Context) {
	users, err := h.svc.List(c.Request.Context())
	if err != nil {
		InternalError(c, "获取用户列表失败: "+err.Error())
		return
	}
	Success(c, gin.H{"items": users})
}

// Create 创建用户（管理员）
// POST /profiles
func (h *ProfileHandler) Create(c *gin.Context) {
	var req service.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	user, err := h.svc.Create(c.Request.Context(), &req)
	if err != nil {
		BadRequest(c, err.Error())
		return
	}
	Created(c, user)
}

// UpdateThemeRequest 更新主题请求
type UpdateThemeRequest struct {
	Theme string `json:"theme" binding:"required"`
}

// UpdateTheme 更新当前用户的界面主题偏好
// PUT /profile/theme
func (h *ProfileHandler) UpdateTheme(c *gin.Context) {
	var req UpdateThemeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	user, err := h.svc.UpdateTheme(c.Request.Context(), GetUserID(c), req.Theme)
	if err != nil {
		BadRequest(c, err.Error())
		return
	}
	Success(c, user)
}

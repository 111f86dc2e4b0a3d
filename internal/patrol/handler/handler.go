package handler

import (
	"errors"

	"github.com/fieldray/patrol/internal/config"
	"github.com/fieldray/patrol/internal/patrol/repository"
	"github.com/fieldray/patrol/internal/patrol/service"
	"github.com/gin-gonic/gin"
)

// Handlers 处理器集合
type Handlers struct {
	Auth     *AuthHandler
	Profile  *ProfileHandler
	Asset    *AssetHandler
	Template *TemplateHandler
	Plan     *PlanHandler
	Task     *TaskHandler
	Record   *RecordHandler
	Upload   *UploadHandler
}

// NewHandlers 创建处理器集合
func NewHandlers(svc *service.Services, cfg *config.Config) *Handlers {
	return &Handlers{
		Auth:     NewAuthHandler(svc.Auth),
		Profile:  NewProfileHandler(svc.Profile),
		Asset:    NewAssetHandler(svc.Asset),
		Template: NewTemplateHandler(svc.Template),
		Plan:     NewPlanHandler(svc.Plan),
		Task:     NewTaskHandler(svc.Task),
		Record:   NewRecordHandler(svc.Record),
		Upload:   NewUploadHandler(svc.Storage),
	}
}

// Response 通用响应结构
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Success 成功响应
func Success(c *gin.Context, data interface{}) {
	c.JSON(200, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// Created 创建成功响应
func Created(c *gin.Context, data interface{}) {
	c.JSON(201, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// Error 错误响应
func Error(c *gin.Context, code int, message string) {
	statusCode := code / 100
	if statusCode < 100 || statusCode > 599 {
		statusCode = 500
	}
	c.JSON(statusCode, Response{
		Code:    code,
		Message: message,
	})
}

// BadRequest 参数错误响应
func BadRequest(c *gin.Context, message string) {
	Error(c, 40000, message)
}

// Unauthorized 未授权响应
func Unauthorized(c *gin.Context, message string) {
	Error(c, 40100, message)
}

// Forbidden 禁止访问响应
func Forbidden(c *gin.Context, message string) {
	Error(c, 40300, message)
}

// NotFound 资源不存在响应
func NotFound(c *gin.Context, message string) {
	Error(c, 40400, message)
}

// InternalError 服务器错误响应
func InternalError(c *gin.Context, message string) {
	Error(c, 50000, message)
}

// FailOrNotFound 区分资源不存在和其他服务错误
func FailOrNotFound(c *gin.Context, err error, message string) {
	if errors.Is(err, repository.ErrNotFound) {
		NotFound(c, "资源不存在")
		return
	}
	InternalError(c, message+": "+err.Error())
}

// GetUserID 从上下文获取用户ID
func GetUserID(c *gin.Context) string {
	userID, _ := c.Get("user_id")
	if id, ok := userID.(string); ok {
		return id
	}
	return ""
}

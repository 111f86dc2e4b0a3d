package handler

import (
	"github.com/fieldray/patrol/internal/patrol/service"
	"github.com/gin-gonic/gin"
)

// RecordHandler 巡检记录处理器。记录只读，无创建/修改/删除接口。
type RecordHandler struct {
	svc *service.RecordService
}

// NewRecordHandler 创建巡检记录处理器
func NewRecordHandler(svc *service.RecordService) *RecordHandler {
	return &RecordHandler{svc: svc}
}

// List 获取巡检记录，按提交时间倒序
// GET /records
func (h *RecordHandler) List(c *gin.Context) {
	records, err := h.svc.List(c.Request.Context())
	if err != nil {
		InternalError(c, "获取巡检记录失败: "+err.Error())
		return
	}
	Success(c, gin.H{"items": records})
}

// Get 获取巡检记录详情
// GET /records/:id
func (h *RecordHandler) Get(c *gin.Context) {
	record, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		FailOrNotFound(c, err, "获取巡检记录失败")
		return
	}
	Success(c, record)
}

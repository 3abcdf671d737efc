package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Dumessi/pricing-agent-ocr/server/services"
)

// SystemHandler 系统状态接口
type SystemHandler struct {
	materialService *services.MaterialService
}

// NewSystemHandler 创建系统接口处理器
func NewSystemHandler(materialService *services.MaterialService) *SystemHandler {
	return &SystemHandler{materialService: materialService}
}

// HandleHealth 处理 GET /api/health
func (h *SystemHandler) HandleHealth(c *gin.Context) {
	count, err := h.materialService.Count(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "degraded",
			"error":  "目录数据库不可用",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"materials": count,
	})
}

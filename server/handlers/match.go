package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/Dumessi/pricing-agent-ocr/server/errors"
	"github.com/Dumessi/pricing-agent-ocr/server/services"
)

// MatchHandler 物料匹配接口
type MatchHandler struct {
	matchService *services.MatchService
}

// NewMatchHandler 创建匹配接口处理器
func NewMatchHandler(matchService *services.MatchService) *MatchHandler {
	return &MatchHandler{matchService: matchService}
}

// matchRequest 单条匹配请求体
type matchRequest struct {
	Text          string `json:"text" binding:"required"`
	Specification string `json:"specification"`
}

// batchMatchRequest 批量匹配请求体
type batchMatchRequest struct {
	Items []services.BatchMatchItem `json:"items" binding:"required"`
}

// HandleMatch 处理 POST /api/match
func (h *MatchHandler) HandleMatch(c *gin.Context) {
	var req matchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, apperrors.NewValidationError("请求体无效：text 字段必填", err))
		return
	}

	result := h.matchService.Match(c.Request.Context(), req.Text, req.Specification)
	c.JSON(http.StatusOK, result)
}

// HandleMatchBatch 处理 POST /api/match/batch
func (h *MatchHandler) HandleMatchBatch(c *gin.Context) {
	var req batchMatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, apperrors.NewValidationError("请求体无效：items 字段必填", err))
		return
	}
	if len(req.Items) == 0 {
		writeError(c, apperrors.NewValidationError("items 不能为空", nil))
		return
	}
	if len(req.Items) > 1000 {
		writeError(c, apperrors.NewValidationError("单次批量匹配最多 1000 条", nil))
		return
	}

	results := h.matchService.MatchBatch(c.Request.Context(), req.Items)
	c.JSON(http.StatusOK, gin.H{
		"total":   len(results),
		"results": results,
	})
}

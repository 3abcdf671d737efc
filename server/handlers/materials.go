package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "github.com/Dumessi/pricing-agent-ocr/server/errors"
	"github.com/Dumessi/pricing-agent-ocr/server/services"
)

// MaterialHandler 物料目录接口
type MaterialHandler struct {
	materialService *services.MaterialService
}

// NewMaterialHandler 创建物料接口处理器
func NewMaterialHandler(materialService *services.MaterialService) *MaterialHandler {
	return &MaterialHandler{materialService: materialService}
}

// HandleSearch 处理 GET /api/materials
func (h *MaterialHandler) HandleSearch(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			limit = v
		}
	}

	records, err := h.materialService.Search(c.Request.Context(),
		c.Query("keyword"), c.Query("category"), c.Query("specification"), limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"total":     len(records),
		"materials": records,
	})
}

// HandleGet 处理 GET /api/materials/:code
func (h *MaterialHandler) HandleGet(c *gin.Context) {
	rec, err := h.materialService.Get(c.Request.Context(), c.Param("code"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

// HandleImport 处理 POST /api/materials/import，接收 Excel 文件
func (h *MaterialHandler) HandleImport(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		writeError(c, apperrors.NewValidationError("缺少上传文件", err))
		return
	}
	defer file.Close()

	if !isExcelFilename(header.Filename) {
		writeError(c, apperrors.NewValidationError("只支持 .xlsx / .xls 文件", nil))
		return
	}

	report, err := h.materialService.ImportExcel(c.Request.Context(), file)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// isExcelFilename 校验上传文件扩展名
func isExcelFilename(name string) bool {
	lower := strings.ToLower(name)
	return strings.HasSuffix(lower, ".xlsx") || strings.HasSuffix(lower, ".xls")
}

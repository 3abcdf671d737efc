package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/Dumessi/pricing-agent-ocr/server/errors"
	"github.com/Dumessi/pricing-agent-ocr/server/services"
)

// SynonymHandler 同义词组接口
type SynonymHandler struct {
	synonymService *services.SynonymService
}

// NewSynonymHandler 创建同义词接口处理器
func NewSynonymHandler(synonymService *services.SynonymService) *SynonymHandler {
	return &SynonymHandler{synonymService: synonymService}
}

// HandleCreate 处理 POST /api/synonyms
func (h *SynonymHandler) HandleCreate(c *gin.Context) {
	var req services.SynonymCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, apperrors.NewValidationError("请求体无效", err))
		return
	}

	group, err := h.synonymService.Create(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, group)
}

// batchCreateRequest 批量建组请求体
type batchCreateRequest struct {
	Groups []services.SynonymCreateRequest `json:"groups" binding:"required"`
}

// HandleCreateBatch 处理 POST /api/synonyms/batch
func (h *SynonymHandler) HandleCreateBatch(c *gin.Context) {
	var req batchCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, apperrors.NewValidationError("请求体无效：groups 字段必填", err))
		return
	}

	report, err := h.synonymService.CreateBatch(c.Request.Context(), req.Groups)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, report)
}

// HandleList 处理 GET /api/synonyms
func (h *SynonymHandler) HandleList(c *gin.Context) {
	groups, err := h.synonymService.List(c.Request.Context(), c.Query("category"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"total":  len(groups),
		"groups": groups,
	})
}

// HandleGet 处理 GET /api/synonyms/:id
func (h *SynonymHandler) HandleGet(c *gin.Context) {
	group, err := h.synonymService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, group)
}

// replaceSynonymsRequest 整组替换请求体
type replaceSynonymsRequest struct {
	Synonyms []string `json:"synonyms" binding:"required"`
}

// HandleReplace 处理 PUT /api/synonyms/:id
func (h *SynonymHandler) HandleReplace(c *gin.Context) {
	var req replaceSynonymsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, apperrors.NewValidationError("请求体无效：synonyms 字段必填", err))
		return
	}

	group, err := h.synonymService.ReplaceSynonyms(c.Request.Context(), c.Param("id"), req.Synonyms)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, group)
}

// HandleDelete 处理 DELETE /api/synonyms/:id
func (h *SynonymHandler) HandleDelete(c *gin.Context) {
	if err := h.synonymService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// HandleImport 处理 POST /api/synonyms/import，接收 Excel 文件
func (h *SynonymHandler) HandleImport(c *gin.Context) {
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

	report, err := h.synonymService.ImportExcel(c.Request.Context(), file)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// HandleGenerate 处理 POST /api/synonyms/generate，按目录批量生成
func (h *SynonymHandler) HandleGenerate(c *gin.Context) {
	report, err := h.synonymService.GenerateFromCatalog(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

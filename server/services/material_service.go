package services

import (
	"context"
	"io"

	"github.com/Dumessi/pricing-agent-ocr/database"
	"github.com/Dumessi/pricing-agent-ocr/importer"
	"github.com/Dumessi/pricing-agent-ocr/matching"
	apperrors "github.com/Dumessi/pricing-agent-ocr/server/errors"
)

// MaterialService 物料目录服务：搜索、详情、Excel 导入
type MaterialService struct {
	db *database.MaterialDB
}

// NewMaterialService 创建物料服务
func NewMaterialService(db *database.MaterialDB) *MaterialService {
	return &MaterialService{db: db}
}

// Search 组合条件搜索物料
func (ms *MaterialService) Search(ctx context.Context, keyword, category, spec string, limit int) ([]*matching.MaterialRecord, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	records, err := ms.db.Search(ctx, keyword, category, spec, limit)
	if err != nil {
		return nil, apperrors.NewInternalError("搜索物料失败", err)
	}
	return records, nil
}

// Get 按编码取物料详情
func (ms *MaterialService) Get(ctx context.Context, code string) (*matching.MaterialRecord, error) {
	if code == "" {
		return nil, apperrors.NewValidationError("物料编码不能为空", nil)
	}
	rec, err := ms.db.GetByCode(ctx, code)
	if err != nil {
		return nil, apperrors.NewInternalError("查询物料失败", err)
	}
	if rec == nil {
		return nil, apperrors.NewNotFoundError("物料不存在", nil)
	}
	return rec, nil
}

// ImportExcel 从 Excel 文件导入物料目录
func (ms *MaterialService) ImportExcel(ctx context.Context, r io.Reader) (*importer.ImportReport, error) {
	report, err := importer.ImportMaterials(ctx, r, ms.db)
	if err != nil {
		return nil, apperrors.NewValidationError("物料文件解析失败", err)
	}
	return report, nil
}

// Count 启用物料总数
func (ms *MaterialService) Count(ctx context.Context) (int, error) {
	count, err := ms.db.Count(ctx)
	if err != nil {
		return 0, apperrors.NewInternalError("统计物料失败", err)
	}
	return count, nil
}

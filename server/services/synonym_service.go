package services

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/Dumessi/pricing-agent-ocr/database"
	"github.com/Dumessi/pricing-agent-ocr/importer"
	"github.com/Dumessi/pricing-agent-ocr/matching"
	apperrors "github.com/Dumessi/pricing-agent-ocr/server/errors"
)

// SynonymService 同义词组服务：建组、整组替换、删除、查询，
// 以及基于物料目录的离线批量生成
type SynonymService struct {
	synonyms  *database.SynonymDB
	materials *database.MaterialDB
	generator *matching.SynonymGenerator
}

// SynonymCreateRequest 创建同义词组的请求体
type SynonymCreateRequest struct {
	StandardName  string   `json:"standard_name" binding:"required"`
	Synonyms      []string `json:"synonyms" binding:"required"`
	MaterialCode  string   `json:"material_code" binding:"required"`
	Specification string   `json:"specification"`
	Unit          string   `json:"unit"`
	Category      string   `json:"category"`
}

// GenerateReport 批量生成的结果统计
type GenerateReport struct {
	Materials int `json:"materials"`
	Created   int `json:"created"`
	Skipped   int `json:"skipped"`
}

// NewSynonymService 创建同义词服务
func NewSynonymService(synonyms *database.SynonymDB, materials *database.MaterialDB, generator *matching.SynonymGenerator) *SynonymService {
	return &SynonymService{synonyms: synonyms, materials: materials, generator: generator}
}

// Create 创建同义词组
func (ss *SynonymService) Create(ctx context.Context, req SynonymCreateRequest) (*matching.SynonymGroup, error) {
	if len(req.Synonyms) == 0 {
		return nil, apperrors.NewValidationError("同义词列表不能为空", nil)
	}

	group := &matching.SynonymGroup{
		StandardName:  req.StandardName,
		Synonyms:      req.Synonyms,
		MaterialCode:  req.MaterialCode,
		Specification: req.Specification,
		Unit:          req.Unit,
		Category:      req.Category,
	}
	created, err := ss.synonyms.CreateGroup(ctx, group)
	if err != nil {
		return nil, apperrors.NewInternalError("创建同义词组失败", err)
	}
	return created, nil
}

// BatchCreateReport 批量建组的结果统计
type BatchCreateReport struct {
	Total   int      `json:"total"`
	Created int      `json:"created"`
	Failed  int      `json:"failed"`
	Errors  []string `json:"errors,omitempty"`
}

// CreateBatch 批量创建同义词组，单组失败不中断整批
func (ss *SynonymService) CreateBatch(ctx context.Context, reqs []SynonymCreateRequest) (*BatchCreateReport, error) {
	if len(reqs) == 0 {
		return nil, apperrors.NewValidationError("groups 不能为空", nil)
	}

	report := &BatchCreateReport{Total: len(reqs)}
	for i, req := range reqs {
		if _, err := ss.Create(ctx, req); err != nil {
			report.Failed++
			report.Errors = append(report.Errors, fmt.Sprintf("第 %d 组: %v", i+1, err))
			continue
		}
		report.Created++
	}
	return report, nil
}

// Get 按组 ID 查询
func (ss *SynonymService) Get(ctx context.Context, groupID string) (*matching.SynonymGroup, error) {
	group, err := ss.synonyms.GetGroup(ctx, groupID)
	if err != nil {
		return nil, apperrors.NewInternalError("查询同义词组失败", err)
	}
	if group == nil {
		return nil, apperrors.NewNotFoundError("同义词组不存在", nil)
	}
	return group, nil
}

// List 列出类别下全部启用组
func (ss *SynonymService) List(ctx context.Context, category string) ([]*matching.SynonymGroup, error) {
	if category == "" {
		category = matching.CategoryMaterialName
	}
	groups, err := ss.synonyms.ListActive(ctx, category)
	if err != nil {
		return nil, apperrors.NewInternalError("列出同义词组失败", err)
	}
	return groups, nil
}

// ReplaceSynonyms 整组替换同义词集合
func (ss *SynonymService) ReplaceSynonyms(ctx context.Context, groupID string, synonyms []string) (*matching.SynonymGroup, error) {
	if len(synonyms) == 0 {
		return nil, apperrors.NewValidationError("同义词列表不能为空", nil)
	}
	group, err := ss.synonyms.ReplaceSynonyms(ctx, groupID, synonyms)
	if err != nil {
		return nil, apperrors.NewInternalError("更新同义词组失败", err)
	}
	if group == nil {
		return nil, apperrors.NewNotFoundError("同义词组不存在", nil)
	}
	return group, nil
}

// Delete 删除同义词组
func (ss *SynonymService) Delete(ctx context.Context, groupID string) error {
	deleted, err := ss.synonyms.DeleteGroup(ctx, groupID)
	if err != nil {
		return apperrors.NewInternalError("删除同义词组失败", err)
	}
	if !deleted {
		return apperrors.NewNotFoundError("同义词组不存在", nil)
	}
	return nil
}

// ImportExcel 从 Excel 文件导入同义词组
func (ss *SynonymService) ImportExcel(ctx context.Context, r io.Reader) (*importer.ImportReport, error) {
	report, err := importer.ImportSynonyms(ctx, r, ss.synonyms)
	if err != nil {
		return nil, apperrors.NewValidationError("同义词文件解析失败", err)
	}
	return report, nil
}

// GenerateFromCatalog 遍历物料目录，为还没有同义词组的物料批量生成。
// 生成是尽力而为的：单个物料失败只记日志，不中断整批。
func (ss *SynonymService) GenerateFromCatalog(ctx context.Context) (*GenerateReport, error) {
	records, err := ss.materials.ListActive(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError("读取物料目录失败", err)
	}

	report := &GenerateReport{Materials: len(records)}
	for _, rec := range records {
		existing, err := ss.synonyms.ListByMaterialCode(ctx, rec.Code)
		if err != nil {
			return nil, apperrors.NewInternalError("查询已有同义词组失败", err)
		}
		if len(existing) > 0 {
			report.Skipped++
			continue
		}

		synonyms := ss.generator.GenerateMaterialSynonyms(*rec)
		if len(synonyms) == 0 {
			report.Skipped++
			continue
		}

		group := &matching.SynonymGroup{
			StandardName:  rec.Name,
			Synonyms:      synonyms,
			MaterialCode:  rec.Code,
			Specification: rec.Specification,
			Unit:          rec.Unit,
			FactoryPrice:  rec.FactoryPrice,
			Category:      matching.CategoryMaterialName,
		}
		if _, err := ss.synonyms.CreateGroup(ctx, group); err != nil {
			log.Printf("物料 %s 的同义词组生成失败: %v", rec.Code, err)
			continue
		}
		report.Created++
	}
	return report, nil
}

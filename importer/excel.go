package importer

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/Dumessi/pricing-agent-ocr/matching"
)

// MaterialUpserter 物料导入的落库接口
type MaterialUpserter interface {
	Upsert(ctx context.Context, rec *matching.MaterialRecord) error
}

// SynonymCreator 同义词导入的落库接口
type SynonymCreator interface {
	CreateGroup(ctx context.Context, group *matching.SynonymGroup) (*matching.SynonymGroup, error)
}

// RowError 单行导入失败的记录，行号为 Excel 行号（含表头）
type RowError struct {
	Row   int    `json:"row"`
	Error string `json:"error"`
}

// ImportReport 导入结果统计
type ImportReport struct {
	Total   int        `json:"total"`
	Success int        `json:"success"`
	Failed  int        `json:"failed"`
	Errors  []RowError `json:"errors,omitempty"`
}

// 物料表必需列
var requiredMaterialColumns = []string{"物料编码", "物料名称", "单位"}

// ImportMaterials 从 Excel 工作簿导入物料目录。
// 必需列：物料编码、物料名称、单位；可选列：规格型号、厂价、一级分类、
// 二级分类，以及 attr_ 前缀的任意属性列。逐行导入，单行失败不中断。
func ImportMaterials(ctx context.Context, r io.Reader, store MaterialUpserter) (*ImportReport, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	rows, header, err := sheetRows(f)
	if err != nil {
		return nil, err
	}
	if err := checkColumns(header, requiredMaterialColumns); err != nil {
		return nil, err
	}

	report := &ImportReport{}
	for i, row := range rows {
		report.Total++
		rec, err := materialFromRow(header, row)
		if err == nil {
			err = store.Upsert(ctx, rec)
		}
		if err != nil {
			report.Failed++
			report.Errors = append(report.Errors, RowError{Row: i + 2, Error: err.Error()})
			continue
		}
		report.Success++
	}
	return report, nil
}

// ImportSynonyms 从 Excel 工作簿导入同义词组。
// 必需列：标准名称、同义词（逗号分隔）、物料编码；可选列：类别、规格型号、单位。
func ImportSynonyms(ctx context.Context, r io.Reader, store SynonymCreator) (*ImportReport, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	rows, header, err := sheetRows(f)
	if err != nil {
		return nil, err
	}
	if err := checkColumns(header, []string{"标准名称", "同义词", "物料编码"}); err != nil {
		return nil, err
	}

	report := &ImportReport{}
	for i, row := range rows {
		report.Total++
		group, err := synonymFromRow(header, row)
		if err == nil {
			_, err = store.CreateGroup(ctx, group)
		}
		if err != nil {
			report.Failed++
			report.Errors = append(report.Errors, RowError{Row: i + 2, Error: err.Error()})
			continue
		}
		report.Success++
	}
	return report, nil
}

// sheetRows 读取首个工作表，返回数据行与表头
func sheetRows(f *excelize.File) ([][]string, map[string]int, error) {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, fmt.Errorf("workbook has no sheets")
	}

	all, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}
	if len(all) < 1 {
		return nil, nil, fmt.Errorf("sheet %s is empty", sheets[0])
	}

	header := make(map[string]int, len(all[0]))
	for idx, name := range all[0] {
		header[strings.TrimSpace(name)] = idx
	}
	return all[1:], header, nil
}

// checkColumns 校验必需列是否齐全
func checkColumns(header map[string]int, required []string) error {
	var missing []string
	for _, col := range required {
		if _, ok := header[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}
	return nil
}

// cell 取一行中指定列的值，越界返回空串
func cell(header map[string]int, row []string, column string) string {
	idx, ok := header[column]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// materialFromRow 解析一行物料数据
func materialFromRow(header map[string]int, row []string) (*matching.MaterialRecord, error) {
	code := cell(header, row, "物料编码")
	name := cell(header, row, "物料名称")
	if code == "" || name == "" {
		return nil, fmt.Errorf("物料编码与物料名称不能为空")
	}

	unit := cell(header, row, "单位")
	if unit == "" {
		unit = "个"
	}

	rec := &matching.MaterialRecord{
		Code:          code,
		Name:          name,
		Specification: cell(header, row, "规格型号"),
		Unit:          unit,
		Category:      map[string]string{},
		Attributes:    map[string]string{},
		Status:        true,
	}

	if raw := cell(header, row, "厂价"); raw != "" {
		price, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", ""), 64)
		if err != nil {
			return nil, fmt.Errorf("厂价格式无效: %q", raw)
		}
		rec.FactoryPrice = &price
	}
	if v := cell(header, row, "一级分类"); v != "" {
		rec.Category["level1"] = v
	}
	if v := cell(header, row, "二级分类"); v != "" {
		rec.Category["level2"] = v
	}
	for column, idx := range header {
		if strings.HasPrefix(column, "attr_") && idx < len(row) {
			if v := strings.TrimSpace(row[idx]); v != "" {
				rec.Attributes[strings.TrimPrefix(column, "attr_")] = v
			}
		}
	}
	return rec, nil
}

// synonymFromRow 解析一行同义词数据
func synonymFromRow(header map[string]int, row []string) (*matching.SynonymGroup, error) {
	standardName := cell(header, row, "标准名称")
	materialCode := cell(header, row, "物料编码")
	if standardName == "" || materialCode == "" {
		return nil, fmt.Errorf("标准名称与物料编码不能为空")
	}

	var synonyms []string
	for _, s := range strings.FieldsFunc(cell(header, row, "同义词"), func(r rune) bool {
		return r == ',' || r == '，'
	}) {
		if s = strings.TrimSpace(s); s != "" {
			synonyms = append(synonyms, s)
		}
	}
	if len(synonyms) == 0 {
		return nil, fmt.Errorf("同义词列不能为空")
	}

	category := cell(header, row, "类别")
	if category == "" {
		category = matching.CategoryMaterialName
	}

	return &matching.SynonymGroup{
		StandardName:  standardName,
		Synonyms:      synonyms,
		MaterialCode:  materialCode,
		Specification: cell(header, row, "规格型号"),
		Unit:          cell(header, row, "单位"),
		Category:      category,
	}, nil
}

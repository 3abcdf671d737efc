package matching

import "context"

// 匹配类型常量，与 MatchResult.MatchType 对应
const (
	MatchTypeExact         = "exact"
	MatchTypeSynonym       = "synonym"
	MatchTypeSpecification = "specification"
	MatchTypeCategory      = "category"
	MatchTypeFuzzy         = "fuzzy"
	MatchTypeNone          = "none"
	MatchTypeError         = "error"
)

// 同义词组类别常量
const (
	CategoryMaterialName  = "material_name"
	CategorySpecification = "specification"
)

// MaterialRecord 物料目录中的一条标准物料记录（引擎只读）
type MaterialRecord struct {
	Code          string            `json:"material_code"`
	Name          string            `json:"material_name"`
	Specification string            `json:"specification,omitempty"`
	Unit          string            `json:"unit"`
	FactoryPrice  *float64          `json:"factory_price,omitempty"`
	Category      map[string]string `json:"category,omitempty"`
	Attributes    map[string]string `json:"attributes,omitempty"`
	Status        bool              `json:"status"`
}

// SynonymGroup 同义词组：一个标准名称及其可接受的别名集合，关联到一个物料编码
type SynonymGroup struct {
	GroupID       string   `json:"group_id"`
	StandardName  string   `json:"standard_name"`
	Synonyms      []string `json:"synonyms"`
	MaterialCode  string   `json:"material_code"`
	Specification string   `json:"specification,omitempty"`
	Unit          string   `json:"unit"`
	FactoryPrice  *float64 `json:"factory_price,omitempty"`
	Category      string   `json:"category"`
	Active        bool     `json:"status"`
}

// MatchResult 单次匹配的结果，构造后不再修改
type MatchResult struct {
	OriginalText string         `json:"original_text"`
	MatchedCode  string         `json:"matched_code"`
	Confidence   float64        `json:"confidence"`
	MatchType    string         `json:"match_type"`
	MaterialInfo MaterialRecord `json:"material_info"`
}

// MaterialStore 物料目录查询接口。实现方只需保证读一致性，
// 未命中时返回 (nil, nil) 而不是错误。
type MaterialStore interface {
	// GetByName 按名称精确查找（大小写不敏感）
	GetByName(ctx context.Context, name string) (*MaterialRecord, error)
	// GetByCode 按物料编码查找
	GetByCode(ctx context.Context, code string) (*MaterialRecord, error)
	// SearchNameAndSpec 查找名称或规格中同时包含 name 与 spec 的启用物料（子串，大小写不敏感）
	SearchNameAndSpec(ctx context.Context, name, spec string) ([]*MaterialRecord, error)
	// SearchByKeyword 查找名称中包含关键词的启用物料
	SearchByKeyword(ctx context.Context, keyword string) ([]*MaterialRecord, error)
	// ListActive 返回全部启用物料，按编码排序
	ListActive(ctx context.Context) ([]*MaterialRecord, error)
}

// SynonymStore 同义词库查询接口。返回顺序必须按 group_id 稳定排序，
// 同分并列时以此保证匹配结果可复现。
type SynonymStore interface {
	// FindExact 在启用的同义词组中精确查找 text（标准名称或同义词成员，大小写不敏感）
	FindExact(ctx context.Context, text, category string) (*SynonymGroup, error)
	// ListActive 返回指定类别下全部启用的同义词组
	ListActive(ctx context.Context, category string) ([]*SynonymGroup, error)
}

// PipelineConfig 匹配管线的全部阈值与权重，集中配置便于调优
type PipelineConfig struct {
	// 各阶段接受阈值（0.0–1.0）
	ExactThreshold    float64
	SpecThreshold     float64
	SynonymThreshold  float64
	CategoryThreshold float64
	FuzzyThreshold    float64

	// 规格阶段的加权混合
	NameWeight float64
	SpecWeight float64

	// 同义词模糊回退的接受分数（0–100）
	SynonymFuzzyScore float64

	// 未匹配时占位记录使用的默认单位
	DefaultUnit string
}

// DefaultPipelineConfig 返回默认管线配置
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		ExactThreshold:    0.85,
		SpecThreshold:     0.75,
		SynonymThreshold:  0.75,
		CategoryThreshold: 0.70,
		FuzzyThreshold:    0.60,
		NameWeight:        0.7,
		SpecWeight:        0.3,
		SynonymFuzzyScore: 85.0,
		DefaultUnit:       "个",
	}
}

// PlaceholderRecord 返回未匹配时的占位物料记录
func PlaceholderRecord(defaultUnit string) MaterialRecord {
	return MaterialRecord{Unit: defaultUnit}
}

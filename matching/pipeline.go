package matching

import (
	"context"
	"log"
	"strings"
)

// MatchPipeline 物料匹配管线：按固定顺序执行匹配策略，
// 首个过阈值的命中即返回。顺序为
// exact → specification → synonym → category → fuzzy，
// 全部未命中返回 none。任一阶段的存储故障只降级为该阶段未命中，
// 管线继续向后执行，保证 MatchMaterial 总能返回结果。
//
// 管线无内部共享可变状态，可被多个 goroutine 并发调用。
type MatchPipeline struct {
	materials  MaterialStore
	synonymIdx *SynonymIndex
	normalizer *TextNormalizer
	parser     *SpecificationParser
	categories *CategoryExtractor
	scorer     *Scorer
	cfg        PipelineConfig
	strategies []matchStrategy
}

// matchStrategy 一个匹配阶段：统一的 (结果, 是否命中) 契约
type matchStrategy struct {
	name string
	run  func(ctx context.Context, q *matchQuery) (MatchResult, bool, error)
}

// matchQuery 单次匹配的查询上下文，各阶段共享只读
type matchQuery struct {
	original string // 原始输入
	text     string // 归一化后的文本
	base     string // 剥离规格后的基础名称
	spec     string // 规范化规格记号，可能为空
	hasSpec  bool
}

// NewMatchPipeline 创建匹配管线。协作方通过构造注入，
// 测试时可用内存实现替换。
func NewMatchPipeline(materials MaterialStore, synonyms SynonymStore, cfg PipelineConfig) *MatchPipeline {
	normalizer := NewTextNormalizer(nil)
	parser := NewSpecificationParser(normalizer)
	scorer := NewScorer()

	p := &MatchPipeline{
		materials:  materials,
		synonymIdx: NewSynonymIndex(synonyms, parser, scorer, cfg),
		normalizer: normalizer,
		parser:     parser,
		categories: NewCategoryExtractor(),
		scorer:     scorer,
		cfg:        cfg,
	}
	p.strategies = []matchStrategy{
		{name: MatchTypeExact, run: p.matchExact},
		{name: MatchTypeSpecification, run: p.matchSpecification},
		{name: MatchTypeSynonym, run: p.matchSynonym},
		{name: MatchTypeCategory, run: p.matchCategory},
		{name: MatchTypeFuzzy, run: p.matchFuzzy},
	}
	return p
}

// MatchMaterial 把自由文本解析为目录物料。spec 为调用方已知的规格，可为空。
// 总是返回 MatchResult，从不 panic：内部故障以 match_type=error 报告。
func (p *MatchPipeline) MatchMaterial(ctx context.Context, text, spec string) (result MatchResult) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("匹配发生内部错误: %v (输入: %q)", r, text)
			result = MatchResult{
				OriginalText: text,
				MatchedCode:  "",
				Confidence:   0.0,
				MatchType:    MatchTypeError,
				MaterialInfo: PlaceholderRecord(p.cfg.DefaultUnit),
			}
		}
	}()

	if strings.TrimSpace(text) == "" {
		return p.noneResult(text)
	}

	q := p.buildQuery(text, spec)

	for _, strategy := range p.strategies {
		res, ok, err := strategy.run(ctx, q)
		if err != nil {
			// 存储故障只影响当前阶段，记录后降级继续
			log.Printf("匹配阶段 %s 失败，降级继续: %v", strategy.name, err)
			continue
		}
		if ok {
			return res
		}
	}
	return p.noneResult(text)
}

// buildQuery 归一化输入并解析规格。调用方提供的规格优先，
// 否则从文本中提取。
func (p *MatchPipeline) buildQuery(text, spec string) *matchQuery {
	q := &matchQuery{original: text}
	q.text = p.normalizer.Normalize(text)

	base, extracted, found := p.parser.ExtractSpecification(q.text)
	if spec != "" {
		normalizedSpec := p.normalizer.Normalize(spec)
		if _, canonical, ok := p.parser.ExtractSpecification(normalizedSpec); ok {
			q.spec = canonical
		} else {
			q.spec = normalizedSpec
		}
		q.hasSpec = true
		if found {
			q.base = base
		} else {
			q.base = q.text
		}
		return q
	}

	if found {
		q.base = base
		q.spec = extracted
		q.hasSpec = true
	} else {
		q.base = q.text
	}
	return q
}

// matchExact 阶段一：目录名称精确命中，置信度恒为 1.0
func (p *MatchPipeline) matchExact(ctx context.Context, q *matchQuery) (MatchResult, bool, error) {
	rec, err := p.materials.GetByName(ctx, q.text)
	if err != nil {
		return MatchResult{}, false, err
	}
	if rec == nil {
		// 归一化可能剥掉目录名自带的符号（如英寸引号），原文再查一次
		if original := strings.TrimSpace(q.original); original != q.text {
			rec, err = p.materials.GetByName(ctx, original)
			if err != nil {
				return MatchResult{}, false, err
			}
		}
	}
	if rec == nil {
		return MatchResult{}, false, nil
	}
	return p.hitResult(q, rec, 1.0, MatchTypeExact), true, nil
}

// matchSpecification 阶段二：按基础名+规格检索候选，
// 置信度 = 名称相似度×0.7 + 规格一致性×0.3
func (p *MatchPipeline) matchSpecification(ctx context.Context, q *matchQuery) (MatchResult, bool, error) {
	if !q.hasSpec {
		return MatchResult{}, false, nil
	}

	candidates, err := p.materials.SearchNameAndSpec(ctx, q.base, q.spec)
	if err != nil {
		return MatchResult{}, false, err
	}

	variants := p.parser.GenerateSpecVariants(q.spec)
	if len(candidates) == 0 {
		// 规范形未命中时用变体写法再查
		for _, v := range variants {
			candidates, err = p.materials.SearchNameAndSpec(ctx, q.base, v)
			if err != nil {
				return MatchResult{}, false, err
			}
			if len(candidates) > 0 {
				break
			}
		}
	}

	var best *MaterialRecord
	bestConf := 0.0
	for _, cand := range candidates {
		// 候选名称同样剥离规格后再比，避免规格串稀释名称相似度
		candBase, _, _ := p.parser.ExtractSpecification(cand.Name)
		nameRatio := p.scorer.TokenSortRatio(q.base, candBase)
		conf := p.scorer.BlendSpecScore(nameRatio, p.specAgrees(cand, q.spec, variants), p.cfg)
		if conf > bestConf {
			bestConf = conf
			best = cand
		}
	}

	if best == nil || bestConf < p.cfg.SpecThreshold {
		return MatchResult{}, false, nil
	}
	return p.hitResult(q, best, bestConf, MatchTypeSpecification), true, nil
}

// matchSynonym 阶段三：同义词索引命中后回查目录取物料信息
func (p *MatchPipeline) matchSynonym(ctx context.Context, q *matchQuery) (MatchResult, bool, error) {
	group, err := p.synonymIdx.FindSynonym(ctx, q.text, CategoryMaterialName)
	if err != nil {
		return MatchResult{}, false, err
	}
	if group == nil {
		return MatchResult{}, false, nil
	}

	conf := p.scorer.TokenSortRatio(q.text, group.StandardName) / 100
	if conf < 0.9 && groupContains(group, q.text, q.base) {
		// 精确同义词命中不应被标准名与别名间的字面差异拉低
		conf = 0.9
	}
	if conf < p.cfg.SynonymThreshold {
		return MatchResult{}, false, nil
	}

	rec, err := p.materials.GetByCode(ctx, group.MaterialCode)
	if err != nil {
		return MatchResult{}, false, err
	}
	if rec == nil {
		// 同义词组指向已删除的物料，用组内缓存兜底
		rec = recordFromGroup(group, p.cfg.DefaultUnit)
	}
	return p.hitResult(q, rec, conf, MatchTypeSynonym), true, nil
}

// matchCategory 阶段四：按类别关键词收窄候选，
// 相似度加上关键词与规格一致性的奖励分
func (p *MatchPipeline) matchCategory(ctx context.Context, q *matchQuery) (MatchResult, bool, error) {
	keywords := p.categories.ExtractCategories(q.text)
	if len(keywords) == 0 {
		return MatchResult{}, false, nil
	}

	variants := p.parser.GenerateSpecVariants(q.spec)
	var best *MaterialRecord
	bestConf := 0.0

	for _, keyword := range keywords {
		candidates, err := p.materials.SearchByKeyword(ctx, keyword)
		if err != nil {
			return MatchResult{}, false, err
		}
		for _, cand := range candidates {
			score := p.scorer.TokenSortRatio(q.text, cand.Name)
			if q.text == keyword {
				score += 20
			}
			if q.hasSpec {
				if strings.EqualFold(cand.Specification, q.spec) {
					score += 15
				} else if p.specAgrees(cand, q.spec, variants) {
					score += 10
				}
			}
			conf := clampConfidence(score / 100)
			if conf > bestConf {
				bestConf = conf
				best = cand
			}
		}
	}

	if best == nil || bestConf < p.cfg.CategoryThreshold {
		return MatchResult{}, false, nil
	}
	return p.hitResult(q, best, bestConf, MatchTypeCategory), true, nil
}

// matchFuzzy 阶段五：全目录扫描取最高相似度，唯一的 O(目录规模) 阶段
func (p *MatchPipeline) matchFuzzy(ctx context.Context, q *matchQuery) (MatchResult, bool, error) {
	records, err := p.materials.ListActive(ctx)
	if err != nil {
		return MatchResult{}, false, err
	}

	var best *MaterialRecord
	bestConf := 0.0
	for _, rec := range records {
		conf := p.scorer.FuzzyRatio(q.text, rec.Name) / 100
		if conf > bestConf {
			bestConf = conf
			best = rec
		}
	}

	if best == nil || bestConf < p.cfg.FuzzyThreshold {
		return MatchResult{}, false, nil
	}
	return p.hitResult(q, best, bestConf, MatchTypeFuzzy), true, nil
}

// specAgrees 候选的名称或规格字段是否包含规格的任一写法（大小写不敏感）
func (p *MatchPipeline) specAgrees(rec *MaterialRecord, spec string, variants []string) bool {
	if spec == "" {
		return false
	}
	haystack := strings.ToLower(rec.Name + " " + rec.Specification)
	if strings.Contains(haystack, strings.ToLower(spec)) {
		return true
	}
	for _, v := range variants {
		if strings.Contains(haystack, strings.ToLower(v)) {
			return true
		}
	}
	return false
}

// groupContains 文本或基础名是否精确命中组的标准名称或同义词成员
func groupContains(group *SynonymGroup, text, base string) bool {
	textLower := strings.ToLower(text)
	baseLower := strings.ToLower(base)
	if strings.ToLower(group.StandardName) == textLower || strings.ToLower(group.StandardName) == baseLower {
		return true
	}
	for _, syn := range group.Synonyms {
		synLower := strings.ToLower(syn)
		if synLower == textLower || synLower == baseLower {
			return true
		}
	}
	return false
}

// recordFromGroup 用同义词组缓存的展示字段构造物料记录
func recordFromGroup(group *SynonymGroup, defaultUnit string) *MaterialRecord {
	unit := group.Unit
	if unit == "" {
		unit = defaultUnit
	}
	return &MaterialRecord{
		Code:          group.MaterialCode,
		Name:          group.StandardName,
		Specification: group.Specification,
		Unit:          unit,
		FactoryPrice:  group.FactoryPrice,
		Status:        true,
	}
}

// hitResult 构造命中结果
func (p *MatchPipeline) hitResult(q *matchQuery, rec *MaterialRecord, confidence float64, matchType string) MatchResult {
	return MatchResult{
		OriginalText: q.original,
		MatchedCode:  rec.Code,
		Confidence:   clampConfidence(confidence),
		MatchType:    matchType,
		MaterialInfo: *rec,
	}
}

// noneResult 构造未命中结果，占位记录携带默认单位
func (p *MatchPipeline) noneResult(text string) MatchResult {
	return MatchResult{
		OriginalText: text,
		MatchedCode:  "",
		Confidence:   0.0,
		MatchType:    MatchTypeNone,
		MaterialInfo: PlaceholderRecord(p.cfg.DefaultUnit),
	}
}

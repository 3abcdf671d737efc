package matching

import (
	"context"
	"strings"
)

// SynonymIndex 同义词索引：把输入文本解析到同义词组。
// 查找顺序为四步独立查询，首个命中即返回：
// 精确命中 → 去规格后的基础名精确命中 → 基础名+规格子串命中 → 模糊回退。
type SynonymIndex struct {
	store  SynonymStore
	parser *SpecificationParser
	scorer *Scorer
	cfg    PipelineConfig
}

// NewSynonymIndex 创建同义词索引
func NewSynonymIndex(store SynonymStore, parser *SpecificationParser, scorer *Scorer, cfg PipelineConfig) *SynonymIndex {
	return &SynonymIndex{store: store, parser: parser, scorer: scorer, cfg: cfg}
}

// FindSynonym 在指定类别下查找文本对应的同义词组，未命中返回 (nil, nil)
func (si *SynonymIndex) FindSynonym(ctx context.Context, text, category string) (*SynonymGroup, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}

	// 1. 精确命中标准名称或同义词成员
	group, err := si.store.FindExact(ctx, text, category)
	if err != nil {
		return nil, err
	}
	if group != nil {
		return group, nil
	}

	base, spec, hasSpec := si.parser.ExtractSpecification(text)
	if hasSpec && base != text {
		// 2. 去掉规格后的基础名精确命中
		group, err = si.store.FindExact(ctx, base, category)
		if err != nil {
			return nil, err
		}
		if group != nil {
			return group, nil
		}

		// 3. 基础名在同义词列表中，且组内缓存规格包含提取出的规格
		group, err = si.findByBaseAndSpec(ctx, base, spec, category)
		if err != nil {
			return nil, err
		}
		if group != nil {
			return group, nil
		}
	}

	// 4. 模糊回退：遍历类别下全部启用组，取最高分
	return si.findFuzzy(ctx, text, spec, hasSpec, category)
}

// findByBaseAndSpec 同义词成员含基础名且缓存规格包含 spec 子串（大小写不敏感）
func (si *SynonymIndex) findByBaseAndSpec(ctx context.Context, base, spec, category string) (*SynonymGroup, error) {
	groups, err := si.store.ListActive(ctx, category)
	if err != nil {
		return nil, err
	}

	baseLower := strings.ToLower(base)
	specLower := strings.ToLower(spec)
	for _, g := range groups {
		if !strings.Contains(strings.ToLower(g.Specification), specLower) {
			continue
		}
		for _, syn := range g.Synonyms {
			if strings.ToLower(syn) == baseLower {
				return g, nil
			}
		}
	}
	return nil, nil
}

// findFuzzy 对每个组取标准名称与各同义词的最高 token-sort 相似度；
// 提取到规格时按名称 0.7 / 规格 0.3 混合。
// 分数并列时保留先遇到的组，store 按 group_id 稳定排序保证可复现。
func (si *SynonymIndex) findFuzzy(ctx context.Context, text, spec string, hasSpec bool, category string) (*SynonymGroup, error) {
	groups, err := si.store.ListActive(ctx, category)
	if err != nil {
		return nil, err
	}

	var best *SynonymGroup
	bestScore := 0.0

	for _, g := range groups {
		nameScore := si.scorer.TokenSortRatio(text, g.StandardName)
		for _, syn := range g.Synonyms {
			if s := si.scorer.TokenSortRatio(text, syn); s > nameScore {
				nameScore = s
			}
		}

		score := nameScore
		if hasSpec {
			specScore := 0.0
			if strings.Contains(strings.ToLower(g.Specification), strings.ToLower(spec)) {
				specScore = 100
			}
			score = si.cfg.NameWeight*nameScore + si.cfg.SpecWeight*specScore
		}

		if score > bestScore {
			bestScore = score
			best = g
		}
	}

	if best == nil || bestScore < si.cfg.SynonymFuzzyScore {
		return nil, nil
	}
	return best, nil
}

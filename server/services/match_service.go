package services

import (
	"context"
	"sync"

	"github.com/Dumessi/pricing-agent-ocr/matching"
)

// MatchService 匹配服务：包装匹配管线供 API 层调用，
// 批量匹配时限制并发度以约束对存储的压力
type MatchService struct {
	pipeline       *matching.MatchPipeline
	maxConcurrency int
}

// BatchMatchItem 批量匹配的一项输入
type BatchMatchItem struct {
	Text          string `json:"text" binding:"required"`
	Specification string `json:"specification"`
}

// NewMatchService 创建匹配服务
func NewMatchService(pipeline *matching.MatchPipeline, maxConcurrency int) *MatchService {
	if maxConcurrency <= 0 {
		maxConcurrency = 8
	}
	return &MatchService{pipeline: pipeline, maxConcurrency: maxConcurrency}
}

// Match 单条匹配。管线保证总是返回结果，从不报错。
func (ms *MatchService) Match(ctx context.Context, text, spec string) matching.MatchResult {
	return ms.pipeline.MatchMaterial(ctx, text, spec)
}

// MatchBatch 批量匹配，结果与输入顺序一一对应
func (ms *MatchService) MatchBatch(ctx context.Context, items []BatchMatchItem) []matching.MatchResult {
	results := make([]matching.MatchResult, len(items))
	sem := make(chan struct{}, ms.maxConcurrency)
	var wg sync.WaitGroup

	for i, item := range items {
		wg.Add(1)
		sem <- struct{}{}
		go func(idx int, it BatchMatchItem) {
			defer wg.Done()
			defer func() { <-sem }()
			results[idx] = ms.pipeline.MatchMaterial(ctx, it.Text, it.Specification)
		}(i, item)
	}
	wg.Wait()
	return results
}

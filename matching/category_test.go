package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractCategoriesLongestWins(t *testing.T) {
	ce := NewCategoryExtractor()

	// 长关键词消费区间后，内含的短关键词不再上报
	assert.Equal(t, []string{"湿式报警阀"}, ce.ExtractCategories("湿式报警阀DN100"))
	assert.Equal(t, []string{"球阀"}, ce.ExtractCategories("不锈钢球阀"))
	assert.Equal(t, []string{"水流指示器"}, ce.ExtractCategories("水流指示器DN100"))
}

func TestExtractCategoriesMultiple(t *testing.T) {
	ce := NewCategoryExtractor()

	matched := ce.ExtractCategories("球阀带法兰")
	assert.Contains(t, matched, "球阀")
	assert.Contains(t, matched, "法兰")
}

func TestExtractCategoriesNone(t *testing.T) {
	ce := NewCategoryExtractor()

	assert.Empty(t, ce.ExtractCategories("完全无关的文本"))
	assert.Empty(t, ce.ExtractCategories(""))
	assert.Empty(t, ce.ExtractCategories("   "))
}

func TestTopCategory(t *testing.T) {
	ce := NewCategoryExtractor()

	assert.Equal(t, "valve", ce.TopCategory("球阀"))
	assert.Equal(t, "valve", ce.TopCategory("湿式报警阀"))
	assert.Equal(t, "flange", ce.TopCategory("法兰"))
	assert.Equal(t, "pipe_fitting", ce.TopCategory("弯头"))
	assert.Equal(t, "pump", ce.TopCategory("消防泵"))
	assert.Empty(t, ce.TopCategory("不存在的关键词"))
}

package matching

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSynonymStore 内存同义词库，按切片顺序模拟 group_id 稳定排序
type fakeSynonymStore struct {
	groups []*SynonymGroup
	err    error
}

func (f *fakeSynonymStore) FindExact(ctx context.Context, text, category string) (*SynonymGroup, error) {
	if f.err != nil {
		return nil, f.err
	}
	textLower := strings.ToLower(text)
	for _, g := range f.groups {
		if g.Category != category || !g.Active {
			continue
		}
		if strings.ToLower(g.StandardName) == textLower {
			return g, nil
		}
		for _, syn := range g.Synonyms {
			if strings.ToLower(syn) == textLower {
				return g, nil
			}
		}
	}
	return nil, nil
}

func (f *fakeSynonymStore) ListActive(ctx context.Context, category string) ([]*SynonymGroup, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []*SynonymGroup
	for _, g := range f.groups {
		if g.Category == category && g.Active {
			out = append(out, g)
		}
	}
	return out, nil
}

func newTestSynonymIndex(store SynonymStore) *SynonymIndex {
	parser := NewSpecificationParser(nil)
	return NewSynonymIndex(store, parser, NewScorer(), DefaultPipelineConfig())
}

func testGroups() []*SynonymGroup {
	return []*SynonymGroup{
		{
			GroupID:       "g-001",
			StandardName:  "首联湿式报警阀DN100",
			Synonyms:      []string{"湿式阀", "湿式报警阀"},
			MaterialCode:  "M001",
			Specification: "DN100",
			Unit:          "个",
			Category:      CategoryMaterialName,
			Active:        true,
		},
		{
			GroupID:       "g-002",
			StandardName:  "球阀DN50",
			Synonyms:      []string{"不锈钢球阀", "手动球阀"},
			MaterialCode:  "M002",
			Specification: "DN50",
			Unit:          "个",
			Category:      CategoryMaterialName,
			Active:        true,
		},
	}
}

func TestFindSynonymExactStandardName(t *testing.T) {
	idx := newTestSynonymIndex(&fakeSynonymStore{groups: testGroups()})

	group, err := idx.FindSynonym(context.Background(), "首联湿式报警阀DN100", CategoryMaterialName)
	require.NoError(t, err)
	require.NotNil(t, group)
	assert.Equal(t, "M001", group.MaterialCode)
}

func TestFindSynonymExactMember(t *testing.T) {
	idx := newTestSynonymIndex(&fakeSynonymStore{groups: testGroups()})

	group, err := idx.FindSynonym(context.Background(), "湿式阀", CategoryMaterialName)
	require.NoError(t, err)
	require.NotNil(t, group)
	assert.Equal(t, "M001", group.MaterialCode)
}

func TestFindSynonymBaseAfterSpecStrip(t *testing.T) {
	idx := newTestSynonymIndex(&fakeSynonymStore{groups: testGroups()})

	// "湿式阀DN100" 整体不在词库中，剥掉规格后 "湿式阀" 精确命中
	group, err := idx.FindSynonym(context.Background(), "湿式阀DN100", CategoryMaterialName)
	require.NoError(t, err)
	require.NotNil(t, group)
	assert.Equal(t, "M001", group.MaterialCode)
}

func TestFindSynonymBaseAndSpecSubstring(t *testing.T) {
	groups := []*SynonymGroup{
		{
			GroupID:       "g-010",
			StandardName:  "无缝钢管国标",
			Synonyms:      []string{"钢管"},
			MaterialCode:  "M006",
			Specification: "DN100*4",
			Unit:          "米",
			Category:      CategoryMaterialName,
			Active:        true,
		},
	}
	idx := newTestSynonymIndex(&fakeSynonymStore{groups: groups})

	// 整体未命中，剥掉规格后的基础名命中同义词成员
	group, err := idx.FindSynonym(context.Background(), "钢管DN100", CategoryMaterialName)
	require.NoError(t, err)
	require.NotNil(t, group)
	assert.Equal(t, "M006", group.MaterialCode)
}

func TestFindSynonymFuzzyFallback(t *testing.T) {
	idx := newTestSynonymIndex(&fakeSynonymStore{groups: testGroups()})

	// 与标准名称仅一字之差，token-sort 相似度过 85 分
	group, err := idx.FindSynonym(context.Background(), "首联湿式报警阀门DN100", CategoryMaterialName)
	require.NoError(t, err)
	require.NotNil(t, group)
	assert.Equal(t, "M001", group.MaterialCode)
}

func TestFindSynonymMiss(t *testing.T) {
	idx := newTestSynonymIndex(&fakeSynonymStore{groups: testGroups()})

	group, err := idx.FindSynonym(context.Background(), "完全无关的东西", CategoryMaterialName)
	require.NoError(t, err)
	assert.Nil(t, group)
}

func TestFindSynonymEmptyText(t *testing.T) {
	idx := newTestSynonymIndex(&fakeSynonymStore{groups: testGroups()})

	group, err := idx.FindSynonym(context.Background(), "   ", CategoryMaterialName)
	require.NoError(t, err)
	assert.Nil(t, group)
}

func TestFindSynonymStoreError(t *testing.T) {
	idx := newTestSynonymIndex(&fakeSynonymStore{err: assert.AnError})

	group, err := idx.FindSynonym(context.Background(), "球阀", CategoryMaterialName)
	assert.Error(t, err)
	assert.Nil(t, group)
}

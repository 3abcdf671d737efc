package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dumessi/pricing-agent-ocr/matching"
)

func newTestSynonymDB(t *testing.T) *SynonymDB {
	t.Helper()
	db, err := NewSynonymDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func seedSynonymGroups(t *testing.T, db *SynonymDB) []*matching.SynonymGroup {
	t.Helper()
	ctx := context.Background()
	groups := []*matching.SynonymGroup{
		{
			GroupID:       "g-001",
			StandardName:  "首联湿式报警阀DN100",
			Synonyms:      []string{"湿式阀", "湿式报警阀"},
			MaterialCode:  "M001",
			Specification: "DN100",
			Unit:          "个",
		},
		{
			GroupID:      "g-002",
			StandardName: "球阀DN50",
			Synonyms:     []string{"手动球阀", "不锈钢球阀"},
			MaterialCode: "M002",
		},
	}
	for _, g := range groups {
		_, err := db.CreateGroup(ctx, g)
		require.NoError(t, err)
	}
	return groups
}

func TestSynonymCreateGroupDefaults(t *testing.T) {
	db := newTestSynonymDB(t)
	ctx := context.Background()

	created, err := db.CreateGroup(ctx, &matching.SynonymGroup{
		StandardName: "法兰",
		Synonyms:     []string{"法兰片", " 法兰盘 ", "法兰片", ""},
		MaterialCode: "M010",
	})
	require.NoError(t, err)

	// GroupID 自动生成，单位与类别填默认值，同义词去重排序
	assert.NotEmpty(t, created.GroupID)
	assert.Equal(t, "个", created.Unit)
	assert.Equal(t, matching.CategoryMaterialName, created.Category)
	assert.True(t, created.Active)
	assert.Equal(t, []string{"法兰片", "法兰盘"}, created.Synonyms)

	stored, err := db.GetGroup(ctx, created.GroupID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, created.Synonyms, stored.Synonyms)
}

func TestSynonymFindExactStandardName(t *testing.T) {
	db := newTestSynonymDB(t)
	seedSynonymGroups(t, db)
	ctx := context.Background()

	group, err := db.FindExact(ctx, "球阀DN50", matching.CategoryMaterialName)
	require.NoError(t, err)
	require.NotNil(t, group)
	assert.Equal(t, "g-002", group.GroupID)

	// 大小写不敏感
	group, err = db.FindExact(ctx, "球阀dn50", matching.CategoryMaterialName)
	require.NoError(t, err)
	require.NotNil(t, group)
	assert.Equal(t, "g-002", group.GroupID)
}

func TestSynonymFindExactMember(t *testing.T) {
	db := newTestSynonymDB(t)
	seedSynonymGroups(t, db)
	ctx := context.Background()

	group, err := db.FindExact(ctx, "湿式阀", matching.CategoryMaterialName)
	require.NoError(t, err)
	require.NotNil(t, group)
	assert.Equal(t, "g-001", group.GroupID)
	assert.Equal(t, "M001", group.MaterialCode)
}

func TestSynonymFindExactMiss(t *testing.T) {
	db := newTestSynonymDB(t)
	seedSynonymGroups(t, db)
	ctx := context.Background()

	group, err := db.FindExact(ctx, "不存在的名称", matching.CategoryMaterialName)
	require.NoError(t, err)
	assert.Nil(t, group)

	// 类别不同不命中
	group, err = db.FindExact(ctx, "球阀DN50", matching.CategorySpecification)
	require.NoError(t, err)
	assert.Nil(t, group)
}

func TestSynonymListActiveOrder(t *testing.T) {
	db := newTestSynonymDB(t)
	seedSynonymGroups(t, db)

	groups, err := db.ListActive(context.Background(), matching.CategoryMaterialName)
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, "g-001", groups[0].GroupID)
	assert.Equal(t, "g-002", groups[1].GroupID)
}

func TestSynonymReplaceSynonyms(t *testing.T) {
	db := newTestSynonymDB(t)
	seedSynonymGroups(t, db)
	ctx := context.Background()

	group, err := db.ReplaceSynonyms(ctx, "g-002", []string{"球形阀", "球型阀", "球形阀"})
	require.NoError(t, err)
	require.NotNil(t, group)
	assert.ElementsMatch(t, []string{"球形阀", "球型阀"}, group.Synonyms)

	// 组不存在返回 (nil, nil)
	group, err = db.ReplaceSynonyms(ctx, "g-999", []string{"任意"})
	require.NoError(t, err)
	assert.Nil(t, group)
}

func TestSynonymDeleteGroup(t *testing.T) {
	db := newTestSynonymDB(t)
	seedSynonymGroups(t, db)
	ctx := context.Background()

	deleted, err := db.DeleteGroup(ctx, "g-001")
	require.NoError(t, err)
	assert.True(t, deleted)

	group, err := db.GetGroup(ctx, "g-001")
	require.NoError(t, err)
	assert.Nil(t, group)

	deleted, err = db.DeleteGroup(ctx, "g-001")
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestSynonymListByMaterialCode(t *testing.T) {
	db := newTestSynonymDB(t)
	seedSynonymGroups(t, db)

	groups, err := db.ListByMaterialCode(context.Background(), "M001")
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, "g-001", groups[0].GroupID)

	groups, err = db.ListByMaterialCode(context.Background(), "M999")
	require.NoError(t, err)
	assert.Empty(t, groups)
}

package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dumessi/pricing-agent-ocr/matching"
)

func newTestMaterialDB(t *testing.T) *MaterialDB {
	t.Helper()
	db, err := NewMaterialDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func price(v float64) *float64 { return &v }

func seedMaterials(t *testing.T, db *MaterialDB) {
	t.Helper()
	ctx := context.Background()
	records := []matching.MaterialRecord{
		{Code: "M001", Name: "首联湿式报警阀DN100", Specification: "DN100", Unit: "个", FactoryPrice: price(1580),
			Category: map[string]string{"level1": "阀门", "level2": "报警阀"}, Status: true},
		{Code: "M002", Name: "球阀DN50", Specification: "DN50", Unit: "个", FactoryPrice: price(85),
			Category: map[string]string{"level1": "阀门"}, Attributes: map[string]string{"material": "不锈钢"}, Status: true},
		{Code: "M003", Name: "停用的旧球阀", Specification: "DN50", Unit: "个", Status: false},
	}
	for i := range records {
		require.NoError(t, db.Upsert(ctx, &records[i]))
	}
}

func TestMaterialGetByName(t *testing.T) {
	db := newTestMaterialDB(t)
	seedMaterials(t, db)
	ctx := context.Background()

	rec, err := db.GetByName(ctx, "球阀DN50")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "M002", rec.Code)
	assert.Equal(t, "个", rec.Unit)
	require.NotNil(t, rec.FactoryPrice)
	assert.Equal(t, 85.0, *rec.FactoryPrice)
	assert.Equal(t, "阀门", rec.Category["level1"])
	assert.Equal(t, "不锈钢", rec.Attributes["material"])

	// 大小写不敏感
	rec, err = db.GetByName(ctx, "球阀dn50")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "M002", rec.Code)
}

func TestMaterialGetByNameMiss(t *testing.T) {
	db := newTestMaterialDB(t)
	seedMaterials(t, db)
	ctx := context.Background()

	rec, err := db.GetByName(ctx, "不存在的物料")
	require.NoError(t, err)
	assert.Nil(t, rec)

	// 停用物料不参与名称查找
	rec, err = db.GetByName(ctx, "停用的旧球阀")
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestMaterialGetByCode(t *testing.T) {
	db := newTestMaterialDB(t)
	seedMaterials(t, db)
	ctx := context.Background()

	rec, err := db.GetByCode(ctx, "M001")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "首联湿式报警阀DN100", rec.Name)

	rec, err = db.GetByCode(ctx, "M999")
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestMaterialSearchNameAndSpec(t *testing.T) {
	db := newTestMaterialDB(t)
	seedMaterials(t, db)
	ctx := context.Background()

	records, err := db.SearchNameAndSpec(ctx, "球阀", "DN50")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "M002", records[0].Code)

	records, err = db.SearchNameAndSpec(ctx, "球阀", "DN999")
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestMaterialSearchByKeyword(t *testing.T) {
	db := newTestMaterialDB(t)
	seedMaterials(t, db)
	ctx := context.Background()

	records, err := db.SearchByKeyword(ctx, "阀")
	require.NoError(t, err)
	require.Len(t, records, 2)
	// 按编码排序
	assert.Equal(t, "M001", records[0].Code)
	assert.Equal(t, "M002", records[1].Code)
}

func TestMaterialListActive(t *testing.T) {
	db := newTestMaterialDB(t)
	seedMaterials(t, db)

	records, err := db.ListActive(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "M001", records[0].Code)
	assert.Equal(t, "M002", records[1].Code)
}

func TestMaterialSearch(t *testing.T) {
	db := newTestMaterialDB(t)
	seedMaterials(t, db)
	ctx := context.Background()

	records, err := db.Search(ctx, "球阀", "", "", 0)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "M002", records[0].Code)

	records, err = db.Search(ctx, "", "阀门", "", 0)
	require.NoError(t, err)
	assert.Len(t, records, 2)

	records, err = db.Search(ctx, "", "", "DN100", 0)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "M001", records[0].Code)

	records, err = db.Search(ctx, "", "", "", 1)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestMaterialUpsertUpdates(t *testing.T) {
	db := newTestMaterialDB(t)
	seedMaterials(t, db)
	ctx := context.Background()

	updated := matching.MaterialRecord{
		Code: "M002", Name: "球阀DN50", Specification: "DN50", Unit: "个",
		FactoryPrice: price(99.5), Status: true,
	}
	require.NoError(t, db.Upsert(ctx, &updated))

	rec, err := db.GetByCode(ctx, "M002")
	require.NoError(t, err)
	require.NotNil(t, rec)
	require.NotNil(t, rec.FactoryPrice)
	assert.Equal(t, 99.5, *rec.FactoryPrice)

	count, err := db.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestMaterialCount(t *testing.T) {
	db := newTestMaterialDB(t)

	count, err := db.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)

	seedMaterials(t, db)
	count, err = db.Count(context.Background())
	require.NoError(t, err)
	// 停用物料不计入
	assert.Equal(t, 2, count)
}

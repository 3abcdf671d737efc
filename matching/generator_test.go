package matching

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateMaterialSynonymsReplacements(t *testing.T) {
	sg := NewSynonymGenerator(nil)

	out := sg.GenerateMaterialSynonyms(MaterialRecord{Name: "球阀"})
	assert.Contains(t, out, "球形阀")
	assert.Contains(t, out, "球型阀")
	// 原始名称本身不出现在结果中
	assert.NotContains(t, out, "球阀")
}

func TestGenerateMaterialSynonymsBrand(t *testing.T) {
	sg := NewSynonymGenerator(nil)

	out := sg.GenerateMaterialSynonyms(MaterialRecord{Name: "球阀（沪工）"})
	assert.Contains(t, out, "球阀")
	assert.Contains(t, out, "沪工球阀")
	assert.Contains(t, out, "球阀-沪工")
}

func TestGenerateMaterialSynonymsMaterialPrefix(t *testing.T) {
	sg := NewSynonymGenerator(nil)

	out := sg.GenerateMaterialSynonyms(MaterialRecord{
		Name:       "球阀",
		Attributes: map[string]string{"material": "不锈钢"},
	})
	assert.Contains(t, out, "不锈钢球阀")
	assert.Contains(t, out, "304球阀")
	assert.Contains(t, out, "SS球阀")
}

func TestGenerateMaterialSynonymsConnectionPrefix(t *testing.T) {
	sg := NewSynonymGenerator(nil)

	out := sg.GenerateMaterialSynonyms(MaterialRecord{
		Name:       "弯头",
		Attributes: map[string]string{"connection": "沟槽"},
	})
	assert.Contains(t, out, "槽接弯头")
	assert.Contains(t, out, "沟槽式弯头")
}

func TestGenerateMaterialSynonymsSpecVariants(t *testing.T) {
	sg := NewSynonymGenerator(nil)

	out := sg.GenerateMaterialSynonyms(MaterialRecord{
		Name:          "球阀DN50",
		Specification: "DN50",
	})
	assert.Contains(t, out, "球阀DN 50")
	assert.Contains(t, out, "球阀D50")
	assert.Contains(t, out, "球阀50mm")
}

func TestGenerateMaterialSynonymsSortedAndDeduped(t *testing.T) {
	sg := NewSynonymGenerator(nil)

	out := sg.GenerateMaterialSynonyms(MaterialRecord{Name: "不锈钢球阀DN50", Specification: "DN50"})
	assert.True(t, sort.StringsAreSorted(out))

	seen := make(map[string]bool, len(out))
	for _, s := range out {
		assert.False(t, seen[s], "重复项: %s", s)
		seen[s] = true
	}
}

func TestGenerateMaterialSynonymsEmptyName(t *testing.T) {
	sg := NewSynonymGenerator(nil)

	assert.Nil(t, sg.GenerateMaterialSynonyms(MaterialRecord{Name: "   "}))
}

func TestGenerateSpecificationSynonyms(t *testing.T) {
	sg := NewSynonymGenerator(nil)

	out := sg.GenerateSpecificationSynonyms("DN100")
	assert.Contains(t, out, "DN 100")
	assert.Contains(t, out, "Φ100")
	assert.Contains(t, out, "100mm")
	assert.True(t, sort.StringsAreSorted(out))

	assert.Nil(t, sg.GenerateSpecificationSynonyms(""))
}

package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeFullwidth(t *testing.T) {
	tn := NewTextNormalizer(nil)

	// 全角字母数字折叠为半角
	assert.Equal(t, "DN100", tn.Normalize("ＤＮ１００"))
	// 全角空格与标点
	assert.Equal(t, "球阀 DN50", tn.Normalize("球阀　ＤＮ５０"))
}

func TestNormalizeWhitespace(t *testing.T) {
	tn := NewTextNormalizer(nil)

	assert.Equal(t, "球阀 DN50", tn.Normalize("  球阀   DN50  "))
	assert.Equal(t, "", tn.Normalize(""))
	assert.Equal(t, "", tn.Normalize("   "))
}

func TestNormalizeChineseDigits(t *testing.T) {
	tn := NewTextNormalizer(nil)

	assert.Equal(t, "2寸球阀", tn.Normalize("二寸球阀"))
	assert.Equal(t, "10个", tn.Normalize("十个"))
}

func TestNormalizeThousandsSeparator(t *testing.T) {
	tn := NewTextNormalizer(nil)

	assert.Equal(t, "1234", tn.Normalize("1,234"))
	assert.Equal(t, "1234567", tn.Normalize("1,234,567"))
}

func TestNormalizeTrimPunct(t *testing.T) {
	tn := NewTextNormalizer(nil)

	assert.Equal(t, "球阀", tn.Normalize("，球阀。"))
	assert.Equal(t, "法兰", tn.Normalize("(法兰)"))
}

func TestNormalizeUnits(t *testing.T) {
	tn := NewTextNormalizer(nil)

	assert.Equal(t, "个", tn.NormalizeUnit("件"))
	assert.Equal(t, "个", tn.NormalizeUnit("pcs"))
	assert.Equal(t, "个", tn.NormalizeUnit("只"))
	assert.Equal(t, "套", tn.NormalizeUnit("SET"))
	assert.Equal(t, "m", tn.NormalizeUnit("米"))
	// 未知单位原样返回
	assert.Equal(t, "桶", tn.NormalizeUnit("桶"))

	// 整词归一不破坏名称内的同形汉字
	assert.Equal(t, "球阀 个", tn.Normalize("球阀 件"))
	assert.Equal(t, "管件", tn.Normalize("管件"))
}

func TestNormalizeIdempotent(t *testing.T) {
	tn := NewTextNormalizer(nil)

	samples := []string{
		"ＤＮ１００",
		"  球阀   DN50  ",
		"二寸球阀",
		"1,234",
		"，湿式报警阀DN100。",
		"法兰 PN16",
	}
	for _, s := range samples {
		once := tn.Normalize(s)
		assert.Equal(t, once, tn.Normalize(once), "输入: %q", s)
	}
}

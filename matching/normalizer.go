package matching

import (
	"regexp"
	"strings"

	"golang.org/x/text/width"
)

// TextNormalizer 文本归一化器：全角转半角、中文数字转阿拉伯数字、
// 单位别名归一、空白与标点清理。所有操作幂等，Normalize 不会失败。
type TextNormalizer struct {
	unitMap map[string]string
}

// 中文数字到阿拉伯数字的映射，十 放在最前避免被单字替换拆散
var chineseDigits = strings.NewReplacer(
	"十", "10",
	"零", "0",
	"一", "1",
	"二", "2",
	"三", "3",
	"四", "4",
	"五", "5",
	"六", "6",
	"七", "7",
	"八", "8",
	"九", "9",
)

// 千分位分隔符：1,234 -> 1234
var thousandsSeparator = regexp.MustCompile(`(\d)[,，](\d{3})`)

// 首尾需要剥离的标点集合
const trimPunct = ".,;:!?()[]{}\"'，。；：、（）【】｡､"

// NewTextNormalizer 创建文本归一化器，unitMap 为空时使用默认单位映射
func NewTextNormalizer(unitMap map[string]string) *TextNormalizer {
	if unitMap == nil {
		unitMap = DefaultUnitMap()
	}
	return &TextNormalizer{unitMap: unitMap}
}

// DefaultUnitMap 返回默认的单位别名映射表
func DefaultUnitMap() map[string]string {
	return map[string]string{
		"个":   "个",
		"件":   "个",
		"pcs": "个",
		"PCS": "个",
		"只":   "个",
		"套":   "套",
		"SET": "套",
		"set": "套",
		"米":   "m",
		"M":   "m",
		"条":   "条",
		"台":   "台",
	}
}

// Normalize 执行完整归一化。幂等：Normalize(Normalize(s)) == Normalize(s)。
func (tn *TextNormalizer) Normalize(text string) string {
	if text == "" {
		return ""
	}

	// 1. 全角字符折叠为半角。全角空格与句号先行处理：
	// width.Narrow 会把 U+3000 和 U+3002 映射为半角片假名标点而非 ASCII
	text = strings.ReplaceAll(text, "　", " ")
	text = strings.ReplaceAll(text, "。", ".")
	text = width.Narrow.String(text)

	// 2. 合并连续空白
	text = strings.Join(strings.Fields(text), " ")

	// 3. 中文数字转阿拉伯数字
	text = chineseDigits.Replace(text)

	// 4. 千分位分隔符
	for thousandsSeparator.MatchString(text) {
		text = thousandsSeparator.ReplaceAllString(text, "$1$2")
	}

	// 5. 单位别名归一（仅整词替换，避免破坏名称中包含的同形汉字）
	text = tn.canonicalizeUnits(text)

	// 6. 剥离首尾标点
	text = strings.Trim(text, trimPunct)

	return strings.TrimSpace(text)
}

// NormalizeUnit 归一化单个单位记号，未知单位原样返回
func (tn *TextNormalizer) NormalizeUnit(unit string) string {
	unit = strings.TrimSpace(unit)
	if canonical, ok := tn.unitMap[unit]; ok {
		return canonical
	}
	return unit
}

// canonicalizeUnits 对空白分隔的整词应用单位映射
func (tn *TextNormalizer) canonicalizeUnits(text string) string {
	fields := strings.Split(text, " ")
	changed := false
	for i, f := range fields {
		if canonical, ok := tn.unitMap[f]; ok && canonical != f {
			fields[i] = canonical
			changed = true
		}
	}
	if !changed {
		return text
	}
	return strings.Join(fields, " ")
}

package matching

import (
	"sort"
	"strings"
)

// CategoryExtractor 从文本中识别领域类别关键词（阀门、管件、法兰等），
// 用于收窄候选搜索范围。关键词表静态维护，长词优先，
// 命中后消费对应区间，避免父类关键词对同一子串二次上报。
type CategoryExtractor struct {
	keywords []categoryKeyword
}

// categoryKeyword 一条类别关键词及其所属顶级类别
type categoryKeyword struct {
	Keyword  string
	Category string
}

// NewCategoryExtractor 创建类别提取器，使用内置关键词表
func NewCategoryExtractor() *CategoryExtractor {
	tables := map[string][]string{
		"valve": {
			"湿式报警阀", "雨淋报警阀", "预作用报警阀", "报警阀",
			"电磁阀", "截止阀", "止回阀", "单向阀", "调节阀", "减压阀", "安全阀", "泄压阀",
			"球阀", "闸阀", "蝶阀", "阀门", "阀",
		},
		"pipe_fitting": {
			"异径三通", "异径四通", "机械三通", "机械四通", "偏心大小头",
			"弯头", "三通", "四通", "变径", "大小头", "接头", "活接", "管箍", "管帽", "堵头",
			"卡箍", "管件", "管道", "管",
		},
		"flange": {
			"法兰盘", "盲法兰", "法兰", "盲板",
		},
		"fastener": {
			"六角螺母", "螺栓", "螺母", "螺丝", "垫片", "垫圈",
		},
		"instrument": {
			"压力表", "温度计", "流量计", "液位计", "水流指示器",
		},
		"pump": {
			"离心泵", "潜水泵", "消防泵", "水泵", "泵",
		},
		"electrical": {
			"配电箱", "桥架", "电缆", "电线",
		},
	}

	var keywords []categoryKeyword
	for category, words := range tables {
		for _, w := range words {
			keywords = append(keywords, categoryKeyword{Keyword: w, Category: category})
		}
	}
	// 长词优先；同长按字典序，保证提取顺序稳定
	sort.Slice(keywords, func(i, j int) bool {
		li, lj := len([]rune(keywords[i].Keyword)), len([]rune(keywords[j].Keyword))
		if li != lj {
			return li > lj
		}
		return keywords[i].Keyword < keywords[j].Keyword
	})

	return &CategoryExtractor{keywords: keywords}
}

// ExtractCategories 返回文本中命中的类别关键词，长词在前。
// 未命中返回空切片，不是错误。
func (ce *CategoryExtractor) ExtractCategories(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	runes := []rune(text)
	consumed := make([]bool, len(runes))
	var matched []string

	for _, kw := range ce.keywords {
		kwRunes := []rune(kw.Keyword)
		for i := 0; i+len(kwRunes) <= len(runes); i++ {
			if consumed[i] || string(runes[i:i+len(kwRunes)]) != kw.Keyword {
				continue
			}
			// 区间内任何位置已被更长的关键词占用则跳过
			overlap := false
			for j := i; j < i+len(kwRunes); j++ {
				if consumed[j] {
					overlap = true
					break
				}
			}
			if overlap {
				continue
			}
			for j := i; j < i+len(kwRunes); j++ {
				consumed[j] = true
			}
			matched = append(matched, kw.Keyword)
			break
		}
	}
	return matched
}

// TopCategory 返回关键词所属的顶级类别，未知关键词返回空串
func (ce *CategoryExtractor) TopCategory(keyword string) string {
	for _, kw := range ce.keywords {
		if kw.Keyword == keyword {
			return kw.Category
		}
	}
	return ""
}

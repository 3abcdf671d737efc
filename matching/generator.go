package matching

import (
	"regexp"
	"sort"
	"strings"
)

// SynonymGenerator 离线同义词生成：根据物料名称、材质、连接方式与规格
// 推导常见别名写法，供批量建组使用。表为静态配置，启动后不再修改。
type SynonymGenerator struct {
	parser *SpecificationParser
}

// nameReplacement 一条名称替换规则：标准写法与其变体
type nameReplacement struct {
	Standard string
	Variants []string
}

// 名称替换表，覆盖阀门、管件、法兰、紧固件与行业习惯缩写
var nameReplacements = []nameReplacement{
	{"阀门", []string{"阀", "闸阀", "阀体"}},
	{"球阀", []string{"球形阀", "球型阀"}},
	{"闸阀", []string{"闸门", "闸式阀门"}},
	{"蝶阀", []string{"蝶形阀", "蝶式阀"}},
	{"截止阀", []string{"截止", "截流阀"}},
	{"止回阀", []string{"单向阀", "逆止阀", "止逆阀"}},
	{"调节阀", []string{"调控阀"}},
	{"减压阀", []string{"减压器", "调压阀"}},
	{"安全阀", []string{"泄压阀", "安全泄压阀"}},
	{"管件", []string{"管配件", "配件"}},
	{"弯头", []string{"弯管", "弯接"}},
	{"三通", []string{"T型管", "三叉", "三岔"}},
	{"四通", []string{"十字管", "四叉", "四岔"}},
	{"变径", []string{"异径", "大小头", "异径管"}},
	{"接头", []string{"连接头", "接口", "连接器"}},
	{"管帽", []string{"堵头", "封头"}},
	{"管箍", []string{"套管", "管套"}},
	{"法兰", []string{"凸缘", "法兰盘", "法兰片"}},
	{"盲板", []string{"盲法兰", "堵板"}},
	{"螺栓", []string{"螺丝", "螺丝钉"}},
	{"螺母", []string{"螺帽", "六角螺母"}},
	{"垫片", []string{"垫圈", "密封垫"}},
	{"补偿器", []string{"膨胀节", "伸缩节", "补偿管"}},
	{"过滤器", []string{"过滤装置"}},
	{"电动", []string{"电动式", "电动型"}},
	{"手动", []string{"手动式", "手动型", "手扳"}},
	{"气动", []string{"气动式", "气动型", "气压式"}},
	{"液动", []string{"液动式", "液动型", "液压式"}},
	{"直通", []string{"管古"}},
	{"内接", []string{"同径外丝"}},
	{"堵头", []string{"管堵"}},
	{"活接", []string{"油任"}},
	{"补芯", []string{"补心"}},
	{"内外牙弯头", []string{"内外丝弯头"}},
	{"刚卡", []string{"刚性卡箍"}},
	{"挠卡", []string{"挠性卡箍"}},
	{"转换法兰", []string{"法兰短管"}},
	{"偏心大小头", []string{"偏心异径管箍"}},
}

// 材质别名表：标准材质到行业写法
var materialAliases = []nameReplacement{
	{"不锈钢", []string{"SS", "304", "316", "316L", "201", "321"}},
	{"碳钢", []string{"CS", "Q235", "20#", "45#", "A3", "碳素钢"}},
	{"铸铁", []string{"HT200", "QT400", "灰铸铁", "球墨铸铁"}},
	{"铸钢", []string{"WCB", "ZG230-450"}},
	{"铜", []string{"紫铜", "黄铜", "青铜"}},
	{"塑料", []string{"PP", "PE", "PVC", "UPVC", "PPR", "HDPE"}},
	{"铝", []string{"铝合金"}},
	{"合金钢", []string{"35CrMo", "42CrMo", "40Cr"}},
}

// 连接方式别名表
var connectionAliases = []nameReplacement{
	{"法兰", []string{"RF", "WN", "SO", "SW"}},
	{"螺纹", []string{"丝扣", "NPT", "BSPT", "G螺纹"}},
	{"焊接", []string{"对焊", "承插焊", "BW"}},
	{"卡箍", []string{"卡套", "快装", "抱箍"}},
	{"沟槽", []string{"槽接", "沟槽式"}},
	{"承插", []string{"插接", "套接", "承插式"}},
	{"压接", []string{"卡压", "压装"}},
	{"活接", []string{"活动接头", "活接头"}},
}

// 常见全称到简写
var abbreviations = []nameReplacement{
	{"不锈钢", []string{"不锈"}},
	{"螺纹", []string{"丝"}},
	{"弯头", []string{"弯"}},
	{"三通", []string{"三"}},
	{"四通", []string{"四"}},
	{"异径", []string{"异"}},
	{"内丝", []string{"内"}},
	{"外丝", []string{"外"}},
}

var brandBracket = regexp.MustCompile(`[（(]([^（）()]+)[）)]`)

// NewSynonymGenerator 创建同义词生成器
func NewSynonymGenerator(parser *SpecificationParser) *SynonymGenerator {
	if parser == nil {
		parser = NewSpecificationParser(nil)
	}
	return &SynonymGenerator{parser: parser}
}

// GenerateMaterialSynonyms 为一条物料记录生成名称同义词，
// 结果去重且按字典序排列，不包含原始名称本身。
func (sg *SynonymGenerator) GenerateMaterialSynonyms(rec MaterialRecord) []string {
	name := strings.TrimSpace(rec.Name)
	if name == "" {
		return nil
	}

	seen := map[string]bool{name: true}
	var out []string
	add := func(s string) {
		s = strings.TrimSpace(s)
		if s != "" && !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}

	// 品牌括号处理：带品牌的名称同时生成去品牌与品牌前置的写法
	cleanName := name
	brand := ""
	if m := brandBracket.FindStringSubmatch(name); m != nil {
		brand = m[1]
		cleanName = strings.TrimSpace(brandBracket.ReplaceAllString(name, ""))
		add(cleanName)
		add(brand + cleanName)
		add(cleanName + "-" + brand)
	}

	// 名称替换表的变体
	for _, repl := range nameReplacements {
		if !strings.Contains(cleanName, repl.Standard) {
			continue
		}
		for _, v := range repl.Variants {
			variant := strings.ReplaceAll(cleanName, repl.Standard, v)
			add(variant)
			if brand != "" {
				add(brand + variant)
			}
		}
	}

	// 材质前缀变体
	if materialType := rec.Attributes["material"]; materialType != "" {
		add(materialType + cleanName)
		for _, alias := range materialAliases {
			if !strings.Contains(materialType, alias.Standard) {
				continue
			}
			for _, v := range alias.Variants {
				add(v + cleanName)
			}
		}
	}

	// 连接方式前缀变体
	if connType := rec.Attributes["connection"]; connType != "" {
		for _, alias := range connectionAliases {
			if !strings.Contains(connType, alias.Standard) {
				continue
			}
			for _, v := range alias.Variants {
				add(v + cleanName)
			}
		}
	}

	// 规格变体：名称内嵌规格时按各种写法重排
	if rec.Specification != "" {
		base := strings.TrimSpace(strings.ReplaceAll(cleanName, strings.ToUpper(rec.Specification), ""))
		if base == cleanName {
			base = strings.TrimSpace(strings.ReplaceAll(cleanName, rec.Specification, ""))
		}
		if base != "" && base != cleanName {
			for _, v := range sg.parser.GenerateSpecVariants(rec.Specification) {
				add(base + v)
			}
		}
	}

	// 简写变体
	for _, abbr := range abbreviations {
		if !strings.Contains(cleanName, abbr.Standard) {
			continue
		}
		for _, v := range abbr.Variants {
			short := strings.ReplaceAll(cleanName, abbr.Standard, v)
			add(short)
			if rec.Specification != "" {
				add(short + rec.Specification)
				add(short + " " + rec.Specification)
			}
		}
	}

	sort.Strings(out)
	return out
}

// GenerateSpecificationSynonyms 为规格生成同义写法，委托给解析器的变体生成
func (sg *SynonymGenerator) GenerateSpecificationSynonyms(spec string) []string {
	variants := sg.parser.GenerateSpecVariants(spec)
	if len(variants) == 0 {
		return nil
	}
	out := make([]string, len(variants))
	copy(out, variants)
	sort.Strings(out)
	return out
}

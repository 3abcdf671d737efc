package matching

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// SpecificationParser 从自由文本中提取规格记号（如 DN100），
// 并为规格生成等价变体（空格、乘号、单位换算）。纯函数，无状态依赖。
type SpecificationParser struct {
	normalizer *TextNormalizer
	patterns   []specPattern
}

// specPattern 规格提取的单条规则，按顺序尝试，首个命中生效
type specPattern struct {
	re        *regexp.Regexp
	canonical func(m []string) string
}

// 常见公称直径系列，英寸换算后吸附到最近档位
var standardDN = []int{10, 15, 20, 25, 32, 40, 50, 65, 80, 100, 125, 150, 200, 250, 300, 350, 400, 450, 500, 600}

// 英寸的习惯分数写法
var fractionalInches = map[string]float64{
	"1/2":   0.5,
	"3/4":   0.75,
	"1-1/4": 1.25,
	"1-1/2": 1.5,
}

// NewSpecificationParser 创建规格解析器
func NewSpecificationParser(normalizer *TextNormalizer) *SpecificationParser {
	if normalizer == nil {
		normalizer = NewTextNormalizer(nil)
	}
	p := &SpecificationParser{normalizer: normalizer}
	p.patterns = []specPattern{
		// DN100, dn 100, DN100*80、多段乘号链
		{
			re: regexp.MustCompile(`(?i)DN\s*(\d+(?:\.\d+)?(?:\s*[*×xX]\s*\d+(?:\.\d+)?)*)`),
			canonical: func(m []string) string {
				return "DN" + joinMultiplyParts(m[1])
			},
		},
		// D100 / Φ100 / φ100，归一为 DN 形式
		{
			re: regexp.MustCompile(`(?i)[DΦφ]\s*(\d+(?:\.\d+)?)`),
			canonical: func(m []string) string {
				return "DN" + m[1]
			},
		},
		// 英寸：2寸、2"、1-1/2寸、3/4"
		{
			re: regexp.MustCompile(`(\d+-\d+/\d+|\d+/\d+|\d+(?:\.\d+)?)\s*(寸|")`),
			canonical: func(m []string) string {
				if dn, ok := inchToDN(m[1]); ok {
					return fmt.Sprintf("DN%d", dn)
				}
				return m[1] + m[2]
			},
		},
		// 毫米后缀：100mm、100毫米
		{
			re: regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(?:mm|毫米)`),
			canonical: func(m []string) string {
				return "DN" + m[1]
			},
		},
		// 无前缀的乘号规格：50*30、1.5×2
		{
			re: regexp.MustCompile(`(\d+(?:\.\d+)?(?:\s*[*×xX]\s*\d+(?:\.\d+)?)+)`),
			canonical: func(m []string) string {
				return joinMultiplyParts(m[1])
			},
		},
	}
	return p
}

// ExtractSpecification 提取首个命中的规格记号，并返回剥离规格后的基础名称。
// 未命中时返回原文与空规格，这不是错误。
func (p *SpecificationParser) ExtractSpecification(text string) (base string, spec string, found bool) {
	normalized := p.normalizer.Normalize(text)
	if normalized == "" {
		return text, "", false
	}

	for _, pat := range p.patterns {
		loc := pat.re.FindStringSubmatchIndex(normalized)
		if loc == nil {
			continue
		}
		m := pat.re.FindStringSubmatch(normalized)
		spec = pat.canonical(m)
		base = strings.TrimSpace(normalized[:loc[0]] + " " + normalized[loc[1]:])
		base = strings.Join(strings.Fields(base), " ")
		if base == "" {
			base = normalized
		}
		return base, spec, true
	}
	return text, "", false
}

// GenerateSpecVariants 为规格生成等价写法集合，结果顺序确定。
// DN 规格生成空格、D、Φ、裸数字、毫米及英寸换算变体；
// 乘号规格生成 * × X 三种分隔符的有空格/无空格排列。
func (p *SpecificationParser) GenerateSpecVariants(spec string) []string {
	spec = strings.ToUpper(strings.TrimSpace(spec))
	if spec == "" {
		return nil
	}

	var variants []string
	seen := make(map[string]bool)
	add := func(v string) {
		v = strings.TrimSpace(v)
		if v != "" && !seen[v] {
			seen[v] = true
			variants = append(variants, v)
		}
	}

	add(spec)

	if strings.HasPrefix(spec, "DN") {
		num := strings.TrimPrefix(spec, "DN")
		add("DN " + num)
		add("D" + num)
		add("Φ" + num)
		add(num)
		add(num + "mm")
		add(num + "毫米")

		// 仅单段数字做英制换算，乘号链没有习惯的英寸写法
		if mm, err := strconv.Atoi(num); err == nil {
			inch := math.Round(float64(mm)/25.4*10) / 10
			inchStr := formatInch(inch)
			add(inchStr + `"`)
			add(inchStr + "寸")
			for frac, val := range fractionalInches {
				if val == inch {
					add(frac + "寸")
					add(frac + `"`)
				}
			}
		}
	}

	if strings.ContainsAny(spec, "*×X") {
		parts := splitMultiplyParts(spec)
		if len(parts) > 1 {
			for _, sep := range []string{"*", "×", "X"} {
				add(strings.Join(parts, sep))
				add(strings.Join(parts, " "+sep+" "))
			}
		}
	}

	// 字母与数字之间补空格的变体：PN16 -> PN 16
	if !strings.Contains(spec, " ") {
		spaced := letterDigitBoundary.ReplaceAllString(spec, "$1 $2")
		add(spaced)
	}

	return variants
}

var letterDigitBoundary = regexp.MustCompile(`([A-Za-z])(\d)`)
var multiplySeparator = regexp.MustCompile(`\s*[*×xX]\s*`)

// joinMultiplyParts 把乘号链归一为 * 连接、无空格的形式
func joinMultiplyParts(raw string) string {
	parts := multiplySeparator.Split(raw, -1)
	return strings.Join(parts, "*")
}

// splitMultiplyParts 拆出乘号链中的各段
func splitMultiplyParts(raw string) []string {
	parts := multiplySeparator.Split(raw, -1)
	out := parts[:0]
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// inchToDN 英寸写法换算为最近的标准公称直径
func inchToDN(raw string) (int, bool) {
	var inch float64
	if v, ok := fractionalInches[raw]; ok {
		inch = v
	} else {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return 0, false
		}
		inch = v
	}

	mm := inch * 25.4
	best := standardDN[0]
	bestDiff := math.Abs(float64(best) - mm)
	for _, dn := range standardDN[1:] {
		if diff := math.Abs(float64(dn) - mm); diff < bestDiff {
			best = dn
			bestDiff = diff
		}
	}
	return best, true
}

// formatInch 渲染英寸数值，整数去掉小数尾巴：4.0 -> 4
func formatInch(inch float64) string {
	if inch == math.Trunc(inch) {
		return strconv.Itoa(int(inch))
	}
	return strconv.FormatFloat(inch, 'f', 1, 64)
}

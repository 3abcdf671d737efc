package matching

import (
	"sort"
	"strings"
	"unicode"

	"github.com/hbollon/go-edlib"
	"github.com/mozillazg/go-pinyin"
)

// Scorer 置信度打分器：token-sort 相似度、规格混合打分，
// 以及针对 OCR 同音误识（帽/冒、阀/法）的拼音辅助打分。
type Scorer struct {
	pinyinArgs pinyin.Args
}

// NewScorer 创建打分器
func NewScorer() *Scorer {
	args := pinyin.NewArgs()
	args.Style = pinyin.Normal
	args.Fallback = func(r rune, a pinyin.Args) []string {
		// 非汉字字符按原样保留，保证混排文本可比
		return []string{string(r)}
	}
	return &Scorer{pinyinArgs: args}
}

// TokenSortRatio 计算 token 排序后的相似度，0–100。
// 中文逐字成词，拉丁字母与数字按连续段成词，排序后比较，
// 与词序无关：「湿式报警阀 DN100」与「DN100 湿式报警阀」得满分。
func (s *Scorer) TokenSortRatio(a, b string) float64 {
	sortedA := sortedTokenString(a)
	sortedB := sortedTokenString(b)
	if sortedA == "" && sortedB == "" {
		return 100
	}
	if sortedA == "" || sortedB == "" {
		return 0
	}
	if sortedA == sortedB {
		return 100
	}

	sim, err := edlib.StringsSimilarity(sortedA, sortedB, edlib.Levenshtein)
	if err != nil {
		return 0
	}
	return float64(sim) * 100
}

// PhoneticRatio 按拼音比较两段文本，捕捉同音字替换，0–100
func (s *Scorer) PhoneticRatio(a, b string) float64 {
	pa := strings.Join(pinyin.LazyConvert(strings.ToLower(a), &s.pinyinArgs), " ")
	pb := strings.Join(pinyin.LazyConvert(strings.ToLower(b), &s.pinyinArgs), " ")
	if pa == "" || pb == "" {
		return 0
	}
	if pa == pb {
		return 100
	}
	sim, err := edlib.StringsSimilarity(pa, pb, edlib.Levenshtein)
	if err != nil {
		return 0
	}
	return float64(sim) * 100
}

// FuzzyRatio 模糊阶段使用的综合相似度：token-sort 为主，
// 拼音辅助仅在灰区内提升同音串的得分，0–100
func (s *Scorer) FuzzyRatio(a, b string) float64 {
	ratio := s.TokenSortRatio(a, b)
	if ratio >= 40 && ratio < 85 {
		if phonetic := s.PhoneticRatio(a, b) * 0.95; phonetic > ratio {
			ratio = phonetic
		}
	}
	return ratio
}

// BlendSpecScore 规格阶段的加权混合：名称相似度与规格一致性按权重合成，
// 返回 0.0–1.0 的置信度
func (s *Scorer) BlendSpecScore(nameRatio float64, specMatched bool, cfg PipelineConfig) float64 {
	specScore := 0.0
	if specMatched {
		specScore = 100
	}
	blended := cfg.NameWeight*nameRatio + cfg.SpecWeight*specScore
	return clampConfidence(blended / 100)
}

// Tokenize 混排文本分词：连续的字母数字段为一个 token，汉字逐字成 token
func Tokenize(text string) []string {
	text = strings.ToLower(text)
	var tokens []string
	var current strings.Builder

	flush := func() {
		if current.Len() > 0 {
			tokens = append(tokens, current.String())
			current.Reset()
		}
	}

	for _, r := range text {
		switch {
		case r < 128 && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			current.WriteRune(r)
		case unicode.Is(unicode.Han, r):
			flush()
			tokens = append(tokens, string(r))
		default:
			flush()
		}
	}
	flush()
	return tokens
}

// sortedTokenString 分词排序后重组，作为 token-sort 比较的规范形
func sortedTokenString(text string) string {
	tokens := Tokenize(text)
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}

// clampConfidence 把置信度压入 [0.0, 1.0]
func clampConfidence(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

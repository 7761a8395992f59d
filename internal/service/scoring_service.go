package service

import (
	"sort"
	"strings"

	"ponder-art-go/internal/config"
	"ponder-art-go/internal/model"
)

// ScoringService 接口定义了候选图片的相关性打分与排序操作。
type ScoringService interface {
	// ScoreAndRank 对候选集打分、过滤、按分数降序排序并截断到 limit。
	// 打分使用未做切分前的归一化检索词；返回的切片长度不超过 limit。
	ScoreAndRank(candidates []model.Image, normalizedTerm string, limit int, opts model.SearchOptions) []model.ScoredImage
}

// scoringService 是 ScoringService 的实现，权重在构造时固定。
type scoringService struct {
	weights config.SearchWeights
}

// NewScoringService 创建一个新的 ScoringService 实例。
func NewScoringService(weights config.SearchWeights) ScoringService {
	return &scoringService{weights: weights}
}

// ScoreAndRank 执行打分流水线：逐词累加打分 → 过滤 → 稳定排序 → 截断。
func (s *scoringService) ScoreAndRank(candidates []model.Image, normalizedTerm string, limit int, opts model.SearchOptions) []model.ScoredImage {
	words := strings.Fields(normalizedTerm)

	scored := make([]model.ScoredImage, 0, len(candidates))
	for _, candidate := range candidates {
		score := s.scoreImage(&candidate, words)

		// 零分候选无条件剔除：即使 minScore=0，“完全不匹配”也不返回
		if score == 0 {
			continue
		}

		if opts.ExactOnly {
			// 阈值启发式：达到 tag 精确档权重视为“至少含有一次精确命中”。
			// 精确的 prompt 或 tag 命中是到达该权重档的唯一途径，
			// 这里判断的是分数阈值而非字面意义上的“出现过精确匹配”。
			if score < s.weights.TagExact {
				continue
			}
		} else if score < opts.MinScore {
			continue
		}

		switch opts.TagFilter {
		case model.TagFilterWith:
			if len(candidate.Tags) == 0 {
				continue
			}
		case model.TagFilterWithout:
			if len(candidate.Tags) > 0 {
				continue
			}
		}

		if len(opts.SpecificTags) > 0 && !hasTagOverlap(candidate.Tags, opts.SpecificTags) {
			continue
		}

		scored = append(scored, model.ScoredImage{Image: candidate, Score: score})
	}

	// 稳定排序：同分保持输入顺序（候选取数已按最新优先，同分即新者在前）
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if len(scored) > limit {
		scored = scored[:limit]
	}
	return scored
}

// scoreImage 计算一张候选图片对全部检索词的总分（跨词累加）。
func (s *scoringService) scoreImage(img *model.Image, words []string) int {
	prompt := strings.ToLower(img.Prompt)
	original := strings.ToLower(img.OriginalPrompt)
	provider := strings.ToLower(img.Provider)
	modelName := strings.ToLower(img.Model)

	total := 0
	for _, word := range words {
		total += s.scoreWord(img, prompt, original, provider, modelName, word)
	}
	return total
}

// scoreWord 计算单个词的得分：prompt 分档取最高一档，原始提示词加成，
// 标签逐个累加，provider 与 model 相互独立各自加分。
func (s *scoringService) scoreWord(img *model.Image, prompt, original, provider, modelName, word string) int {
	score := 0

	// prompt：精确 > 前缀 > 包含，只取命中的最高档
	switch {
	case prompt == word:
		score += s.weights.PromptExact
	case strings.HasPrefix(prompt, word):
		score += s.weights.PromptPrefix
	case strings.Contains(prompt, word):
		score += s.weights.PromptContains
	}

	// 原始提示词加成：奖励用户亲手输入的文本（而非 AI 改写稿）命中的记录
	if original != "" && original != prompt && strings.Contains(original, word) {
		score += s.weights.OriginalBonus
	}

	// 标签：与 prompt 不同，所有命中的标签各自独立累加
	for _, tag := range img.Tags {
		lowered := strings.ToLower(tag)
		switch {
		case lowered == word:
			score += s.weights.TagExact
		case strings.HasPrefix(lowered, word):
			score += s.weights.TagPrefix
		case strings.Contains(lowered, word):
			score += s.weights.TagContains
		}
	}

	// provider 与 model 各自独立判断，同一个词可以两处都加分
	if provider != "" && strings.Contains(provider, word) {
		score += s.weights.ProviderModel
	}
	if modelName != "" && strings.Contains(modelName, word) {
		score += s.weights.ProviderModel
	}

	return score
}

// hasTagOverlap 判断候选标签与请求标签是否存在大小写不敏感的交集。
func hasTagOverlap(tags model.StringList, wanted []string) bool {
	if len(tags) == 0 {
		return false
	}
	wantedSet := make(map[string]struct{}, len(wanted))
	for _, w := range wanted {
		wantedSet[strings.ToLower(strings.TrimSpace(w))] = struct{}{}
	}
	for _, tag := range tags {
		if _, ok := wantedSet[strings.ToLower(tag)]; ok {
			return true
		}
	}
	return false
}

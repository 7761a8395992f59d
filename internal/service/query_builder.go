package service

import (
	"strings"

	"ponder-art-go/internal/model"
)

// searchableColumns 列出了参与文本匹配的列。
// 新增可检索字段时在此追加即可，谓词构建逻辑无需改动。
var searchableColumns = []string{
	"prompt",
	"original_prompt",
	"provider",
	"model",
}

// BuildSearchPredicate 把归一化检索词和调用方身份翻译为结构化谓词。
//
// 文本子句：检索词按空白切分为词，每个词对每个可检索列生成一个包含条件，
// 全部以 OR 组合——召回阶段刻意放宽，任何词命中任何列即入选候选池，
// 精确的区分留给打分阶段。
//
// 访问子句：is_deleted=false AND is_hidden=false，匿名调用方再加
// is_public=true；已认证调用方则是 (user_id=本人 OR is_public=true)。
// 访问子句始终以顶层 AND 与文本子句组合。已认证分支内部自带 OR，
// 必须作为独立的子分组嵌套，绝不能摊平进文本子句的 OR，否则私有记录会泄露。
func BuildSearchPredicate(userID *uint, normalizedTerm string) *model.Predicate {
	words := strings.Fields(normalizedTerm)

	textLeaves := make([]*model.Predicate, 0, len(words)*len(searchableColumns))
	for _, word := range words {
		for _, column := range searchableColumns {
			textLeaves = append(textLeaves, model.Contains(column, word))
		}
	}
	// words 为空时这里是一个空 OR，匹配不到任何记录。
	// 校验阶段保证了检索词非空，这条分支正常情况下不可达。
	textClause := model.Or(textLeaves...)

	var visibility *model.Predicate
	if userID == nil {
		visibility = model.Eq("is_public", true)
	} else {
		visibility = model.Or(
			model.Eq("user_id", *userID),
			model.Eq("is_public", true),
		)
	}

	return model.And(
		model.Eq("is_deleted", false),
		model.Eq("is_hidden", false),
		visibility,
		textClause,
	)
}

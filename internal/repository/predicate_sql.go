package repository

import (
	"fmt"
	"strings"

	"ponder-art-go/internal/model"
)

// predicateSQL 将结构化谓词树翻译为带占位符的 SQL 条件片段。
// 列名只来自代码内部的构建器，不接受外部输入；所有值一律走参数绑定。
func predicateSQL(p *model.Predicate) (string, []interface{}) {
	if p == nil {
		return "1 = 1", nil
	}

	switch p.Op {
	case model.PredicateAnd, model.PredicateOr:
		if len(p.Children) == 0 {
			// 空 AND 恒真；空 OR 恒假（匹配不到任何记录）
			if p.Op == model.PredicateAnd {
				return "1 = 1", nil
			}
			return "1 = 0", nil
		}
		sep := " AND "
		if p.Op == model.PredicateOr {
			sep = " OR "
		}
		parts := make([]string, 0, len(p.Children))
		var args []interface{}
		for _, child := range p.Children {
			sql, childArgs := predicateSQL(child)
			parts = append(parts, "("+sql+")")
			args = append(args, childArgs...)
		}
		return strings.Join(parts, sep), args

	case model.PredicateEq:
		return fmt.Sprintf("%s = ?", p.Field), []interface{}{p.Value}

	case model.PredicateContains:
		value, _ := p.Value.(string)
		return fmt.Sprintf("LOWER(%s) LIKE ?", p.Field), []interface{}{"%" + escapeLike(value) + "%"}

	default:
		// 未知节点恒假，避免把意外条件放大成全表匹配
		return "1 = 0", nil
	}
}

// escapeLike 转义 LIKE 模式中的特殊字符，保证检索词按字面匹配。
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}

// Package service 包含了应用的业务逻辑层。
package service

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"unicode/utf8"

	"ponder-art-go/internal/config"
	"ponder-art-go/internal/model"
)

// ValidateQuery 校验原始查询串。
// 只有两种可拒绝的情况：去除首尾空白后为空，或超过配置的最大长度。
// 其余情况一律放行，注入防护交给存储层的参数绑定。
func ValidateQuery(raw string, maxLength int) *model.ValidationError {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return &model.ValidationError{
			Message: "查询关键词不能为空",
			Status:  http.StatusBadRequest,
		}
	}
	// 长度上限按字符数而非字节数计算，多字节文字不受编码膨胀影响
	if utf8.RuneCountInString(trimmed) > maxLength {
		return &model.ValidationError{
			Message: fmt.Sprintf("查询关键词长度不能超过 %d 个字符", maxLength),
			Status:  http.StatusBadRequest,
		}
	}
	return nil
}

// NormalizeSearchTerm 将查询串小写并去除首尾空白。
func NormalizeSearchTerm(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// NormalizePagination 归一化分页参数。
// 非法或非数字的输入静默回落到默认值，分页参数永远不会导致请求被拒绝。
// page 下限为 1；limit 被夹在 [1, MaxLimit]；skip = (page-1)*limit。
func NormalizePagination(pageStr, limitStr string, cfg config.SearchConfig) model.Pagination {
	page, err := strconv.Atoi(strings.TrimSpace(pageStr))
	if err != nil || page < 1 {
		page = 1
	}

	limit, err := strconv.Atoi(strings.TrimSpace(limitStr))
	if err != nil || limit <= 0 {
		limit = cfg.DefaultLimit
	}
	if limit > cfg.MaxLimit {
		limit = cfg.MaxLimit
	}

	return model.Pagination{
		Page:  page,
		Limit: limit,
		Skip:  (page - 1) * limit,
	}
}

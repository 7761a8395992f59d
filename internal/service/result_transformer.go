package service

import (
	"fmt"
	"time"

	"ponder-art-go/internal/model"
)

// TransformImage 把内部的打分候选转换为对外响应结构。
// 对外字段名是 url；imageUrl 为向后兼容保留；内部分数不出现在公开结构中。
func TransformImage(scored model.ScoredImage) model.ImageResponseDTO {
	tags := scored.Tags
	if tags == nil {
		tags = model.StringList{}
	}
	return model.ImageResponseDTO{
		ID:             scored.ID,
		URL:            scored.ImageURL,
		ImageURL:       scored.ImageURL,
		Prompt:         scored.Prompt,
		OriginalPrompt: scored.OriginalPrompt,
		Provider:       scored.Provider,
		Model:          scored.Model,
		Guidance:       scored.Guidance,
		IsPublic:       scored.IsPublic,
		Rating:         scored.Rating,
		Tags:           tags,
		TaggedAt:       model.NewLocalTimePtr(scored.TaggedAt),
		CreatedAt:      model.LocalTime(scored.CreatedAt),
		UserID:         scored.UserID,
		Username:       scored.Username,
	}
}

// BuildSearchResponse 组装检索接口的响应信封。
//
// hasMore 用过滤后的返回条数和过滤前的粗筛总数比较得出；在 exactOnly、
// minScore、tagFilter 等限制性选项下，页面可能欠填、hasMore 也可能偏乐观。
// 这是原始设计遗留的口径差异，这里如实保留而不是擅自修正。
func BuildSearchResponse(result *model.SearchResult, requestID string, elapsed time.Duration, authenticated bool) model.SearchResponse {
	items := make([]model.ImageResponseDTO, 0, len(result.Items))
	for _, scored := range result.Items {
		items = append(items, TransformImage(scored))
	}

	filter := "public"
	if authenticated {
		filter = "authenticated"
	}

	return model.SearchResponse{
		Success: true,
		Data: model.SearchData{
			Items: items,
			Pagination: model.PaginationInfo{
				Page:  result.Pagination.Page,
				Limit: result.Pagination.Limit,
				Total: result.Total,
			},
			HasMore: int64(result.Pagination.Skip+len(items)) < result.Total,
			Meta: model.SearchMeta{
				Query:       result.Query,
				Filter:      filter,
				ResultCount: len(items),
			},
		},
		RequestID: requestID,
		Duration:  fmt.Sprintf("%dms", elapsed.Milliseconds()),
	}
}

// Package handler 包含了处理 HTTP 请求的控制器逻辑。
package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"ponder-art-go/internal/middleware"
	"ponder-art-go/internal/model"
	"ponder-art-go/internal/service"
	"ponder-art-go/pkg/log"
)

// SearchHandler 结构体定义了图片检索相关的处理器。
type SearchHandler struct {
	searchService service.SearchService
}

// NewSearchHandler 创建一个新的 SearchHandler 实例。
func NewSearchHandler(searchService service.SearchService) *SearchHandler {
	return &SearchHandler{
		searchService: searchService,
	}
}

// SearchImages 是处理图片检索请求的 Gin 处理函数。
// 接口同时面向登录用户与匿名访客：上下文中有 User 即为已认证调用方。
func (h *SearchHandler) SearchImages(c *gin.Context) {
	start := time.Now()
	requestID := middleware.RequestID(c)

	query := c.Query("q")
	opts := parseSearchOptions(c)
	log.Infof("[SearchHandler] 收到检索请求, requestId: %s, q: '%s'", requestID, query)

	var userID *uint
	authenticated := false
	if value, exists := c.Get("user"); exists {
		if user, ok := value.(*model.User); ok {
			userID = &user.ID
			authenticated = true
		}
	}

	result, err := h.searchService.Search(c.Request.Context(), query, c.Query("page"), c.Query("limit"), userID, opts)
	if err != nil {
		var vErr *model.ValidationError
		if errors.As(err, &vErr) {
			// 校验错误是预期内的、调用方可修正的失败，返回结构化 400
			c.JSON(vErr.Status, gin.H{"success": false, "message": vErr.Message})
			return
		}
		// 非预期错误统一在此记录并映射为 5xx 信封
		log.Errorw("[SearchHandler] 检索失败",
			"requestId", requestID,
			"stage", "search",
			"elapsed", time.Since(start).String(),
			"error", err,
		)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "检索失败"})
		return
	}

	resp := h.searchService.BuildResponse(result, requestID, time.Since(start), authenticated)
	log.Infof("[SearchHandler] 检索成功, requestId: %s, 返回 %d 条结果", requestID, resp.Data.Meta.ResultCount)
	c.JSON(http.StatusOK, resp)
}

// parseSearchOptions 在传输边界把查询串参数解析为类型良好的选项集合。
// 所有选项参数都不可拒绝：无法识别的值静默回落到默认值。
func parseSearchOptions(c *gin.Context) model.SearchOptions {
	exactOnlyStr := c.Query("exactOnly")
	exactOnly := exactOnlyStr == "true" || exactOnlyStr == "1"

	minScore, err := strconv.Atoi(c.Query("minScore"))
	if err != nil || minScore < 0 {
		minScore = 0
	}

	var specificTags []string
	if raw := c.Query("tags"); raw != "" {
		for _, tag := range strings.Split(raw, ",") {
			if trimmed := strings.TrimSpace(tag); trimmed != "" {
				specificTags = append(specificTags, trimmed)
			}
		}
	}

	return model.SearchOptions{
		MatchType:    c.Query("matchType"),
		ExactOnly:    exactOnly,
		MinScore:     minScore,
		TagFilter:    model.ParseTagFilter(c.DefaultQuery("tagFilter", "any")),
		SpecificTags: specificTags,
	}
}

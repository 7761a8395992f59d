package service

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ponder-art-go/internal/model"
)

func TestTransformImage_URLRename(t *testing.T) {
	scored := model.ScoredImage{
		Image: model.Image{
			ID:       7,
			ImageURL: "/ponder-images/images/abc123.png",
			Prompt:   "sunset over water",
			Username: "alice",
		},
		Score: 130,
	}

	dto := TransformImage(scored)

	assert.Equal(t, "/ponder-images/images/abc123.png", dto.URL)
	assert.Equal(t, "/ponder-images/images/abc123.png", dto.ImageURL)
	assert.Equal(t, "alice", dto.Username)
}

func TestTransformImage_ScoreNotExposed(t *testing.T) {
	scored := model.ScoredImage{
		Image: model.Image{ID: 1, Prompt: "sunset"},
		Score: 100,
	}

	raw, err := json.Marshal(TransformImage(scored))
	require.NoError(t, err)

	var fields map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &fields))
	// 内部打分是排序细节，不进入对外响应
	assert.NotContains(t, fields, "score")
	assert.Contains(t, fields, "url")
}

func TestTransformImage_NilTagsBecomeEmptyArray(t *testing.T) {
	dto := TransformImage(model.ScoredImage{Image: model.Image{ID: 1}})

	require.NotNil(t, dto.Tags)
	assert.Empty(t, dto.Tags)

	raw, err := json.Marshal(dto)
	require.NoError(t, err)
	// 序列化为 [] 而不是 null
	assert.Contains(t, string(raw), `"tags":[]`)
}

func newSearchResult(items []model.ScoredImage, total int64, page, limit, skip int) *model.SearchResult {
	return &model.SearchResult{
		Items:      items,
		Total:      total,
		Pagination: model.Pagination{Page: page, Limit: limit, Skip: skip},
		Query:      "sunset",
	}
}

func TestBuildSearchResponse_Envelope(t *testing.T) {
	items := []model.ScoredImage{
		{Image: model.Image{ID: 1, Prompt: "sunset"}, Score: 100},
	}
	resp := BuildSearchResponse(newSearchResult(items, 12, 1, 50, 0), "req-abc", 42*time.Millisecond, true)

	assert.True(t, resp.Success)
	assert.Equal(t, "req-abc", resp.RequestID)
	assert.Equal(t, "42ms", resp.Duration)
	assert.Equal(t, 1, resp.Data.Pagination.Page)
	assert.Equal(t, 50, resp.Data.Pagination.Limit)
	assert.Equal(t, int64(12), resp.Data.Pagination.Total)
	assert.Equal(t, "sunset", resp.Data.Meta.Query)
	assert.Equal(t, "authenticated", resp.Data.Meta.Filter)
	assert.Equal(t, 1, resp.Data.Meta.ResultCount)
}

func TestBuildSearchResponse_AnonymousFilter(t *testing.T) {
	resp := BuildSearchResponse(newSearchResult(nil, 0, 1, 50, 0), "req-abc", time.Millisecond, false)
	assert.Equal(t, "public", resp.Data.Meta.Filter)
}

func TestBuildSearchResponse_HasMore(t *testing.T) {
	items := []model.ScoredImage{
		{Image: model.Image{ID: 1}, Score: 50},
		{Image: model.Image{ID: 2}, Score: 50},
	}

	t.Run("后面还有更多页", func(t *testing.T) {
		resp := BuildSearchResponse(newSearchResult(items, 10, 1, 2, 0), "r", 0, false)
		assert.True(t, resp.Data.HasMore)
	})

	t.Run("已到最后一页", func(t *testing.T) {
		resp := BuildSearchResponse(newSearchResult(items, 2, 1, 2, 0), "r", 0, false)
		assert.False(t, resp.Data.HasMore)
	})

	t.Run("skip 计入判断", func(t *testing.T) {
		// skip=8 + 本页 2 条 = 总数 10，没有更多
		resp := BuildSearchResponse(newSearchResult(items, 10, 5, 2, 8), "r", 0, false)
		assert.False(t, resp.Data.HasMore)
	})
}

func TestBuildSearchResponse_EmptyItemsNotNull(t *testing.T) {
	resp := BuildSearchResponse(newSearchResult(nil, 0, 1, 50, 0), "r", 0, false)

	raw, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"items":[]`)
	assert.Equal(t, 0, resp.Data.Meta.ResultCount)
}

package service

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"ponder-art-go/internal/config"
)

func TestValidateQuery(t *testing.T) {
	maxLen := config.DefaultSearchConfig().MaxQueryLength

	t.Run("空查询被拒绝", func(t *testing.T) {
		err := ValidateQuery("", maxLen)
		assert.NotNil(t, err)
		assert.Equal(t, http.StatusBadRequest, err.Status)
	})

	t.Run("纯空白查询被拒绝", func(t *testing.T) {
		err := ValidateQuery("   \t  ", maxLen)
		assert.NotNil(t, err)
		assert.Equal(t, http.StatusBadRequest, err.Status)
	})

	t.Run("超长查询被拒绝", func(t *testing.T) {
		err := ValidateQuery(strings.Repeat("a", maxLen+1), maxLen)
		assert.NotNil(t, err)
		assert.Equal(t, http.StatusBadRequest, err.Status)
	})

	t.Run("正好到达长度上限的查询放行", func(t *testing.T) {
		assert.Nil(t, ValidateQuery(strings.Repeat("a", maxLen), maxLen))
	})

	t.Run("多字节字符按字符数而非字节数计长", func(t *testing.T) {
		// 250 个汉字占 750 字节，但字符数远低于上限，必须放行
		assert.Nil(t, ValidateQuery(strings.Repeat("山", 250), maxLen))
		// 上限处的多字节查询同样放行，超出一个字符则拒绝
		assert.Nil(t, ValidateQuery(strings.Repeat("山", maxLen), maxLen))
		err := ValidateQuery(strings.Repeat("山", maxLen+1), maxLen)
		assert.NotNil(t, err)
		assert.Equal(t, http.StatusBadRequest, err.Status)
	})

	t.Run("普通查询放行", func(t *testing.T) {
		assert.Nil(t, ValidateQuery("sunset over water", maxLen))
	})
}

func TestNormalizeSearchTerm(t *testing.T) {
	assert.Equal(t, "sunset", NormalizeSearchTerm("  Sunset  "))
	assert.Equal(t, "cat flux", NormalizeSearchTerm("CAT Flux"))
}

func TestNormalizePagination(t *testing.T) {
	cfg := config.DefaultSearchConfig()

	tests := []struct {
		name      string
		pageStr   string
		limitStr  string
		wantPage  int
		wantLimit int
		wantSkip  int
	}{
		{"全部缺省回落默认值", "", "", 1, 50, 0},
		{"非数字输入回落默认值", "abc", "xyz", 1, 50, 0},
		{"page 负数夹到 1", "-5", "20", 1, 20, 0},
		{"limit 为 0 回落默认值", "1", "0", 1, 50, 0},
		{"limit 超上限夹到最大值", "1", "1000", 1, 100, 0},
		{"正常翻页计算 skip", "3", "20", 3, 20, 40},
		{"小数输入回落默认值", "1.5", "2.5", 1, 50, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NormalizePagination(tt.pageStr, tt.limitStr, cfg)
			assert.Equal(t, tt.wantPage, p.Page)
			assert.Equal(t, tt.wantLimit, p.Limit)
			assert.Equal(t, tt.wantSkip, p.Skip)
			assert.GreaterOrEqual(t, p.Limit, 1)
			assert.LessOrEqual(t, p.Limit, cfg.MaxLimit)
		})
	}
}

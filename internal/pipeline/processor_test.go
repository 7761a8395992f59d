package pipeline

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveTags_Basic(t *testing.T) {
	tags := DeriveTags("A dramatic sunset over the ocean, golden hour")

	// 功能词与短词被过滤，其余按出现顺序保留
	assert.Equal(t, []string{"dramatic", "sunset", "ocean", "golden", "hour"}, tags)
}

func TestDeriveTags_StopwordsAndShortWords(t *testing.T) {
	tags := DeriveTags("a cat in the style of an oil painting")

	assert.NotContains(t, tags, "the")
	assert.NotContains(t, tags, "style")
	assert.NotContains(t, tags, "of")
	// 长度恰好为 3 的词保留
	assert.Contains(t, tags, "cat")
	assert.Contains(t, tags, "oil")
	assert.Contains(t, tags, "painting")
}

func TestDeriveTags_CaseAndPunctuation(t *testing.T) {
	tags := DeriveTags("Sunset, SUNSET! (sunset)... beach-side")

	// 小写化 + 非字母数字切分 + 去重
	assert.Equal(t, []string{"sunset", "beach", "side"}, tags)
}

func TestDeriveTags_Cap(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 20; i++ {
		fmt.Fprintf(&sb, "keyword%02d ", i)
	}

	tags := DeriveTags(sb.String())

	require.Len(t, tags, 10)
	assert.Equal(t, "keyword00", tags[0])
	assert.Equal(t, "keyword09", tags[9])
}

func TestDeriveTags_Empty(t *testing.T) {
	assert.Empty(t, DeriveTags(""))
	assert.Empty(t, DeriveTags("a an the of"))
	assert.Empty(t, DeriveTags("!!! ... ---"))
}

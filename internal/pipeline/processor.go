// Package pipeline 定义了图片自动打标的核心流程。
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"ponder-art-go/internal/config"
	"ponder-art-go/internal/model"
	"ponder-art-go/internal/repository"
	"ponder-art-go/pkg/log"
	"ponder-art-go/pkg/storage"
	"ponder-art-go/pkg/tasks"
)

// maxTagsPerImage 限制单张图片的自动标签数量。
const maxTagsPerImage = 10

// stopwords 是打标时跳过的功能词。
var stopwords = map[string]struct{}{
	"a": {}, "an": {}, "the": {}, "of": {}, "in": {}, "on": {}, "at": {},
	"by": {}, "to": {}, "for": {}, "and": {}, "or": {}, "with": {},
	"is": {}, "are": {}, "was": {}, "were": {}, "be": {}, "it": {},
	"this": {}, "that": {}, "as": {}, "from": {}, "into": {}, "over": {},
	"under": {}, "very": {}, "style": {},
}

// Processor 封装了图片打标的所有依赖和逻辑。
type Processor struct {
	minioCfg  config.MinIOConfig
	imageRepo repository.ImageRepository
}

// NewProcessor 创建一个新的 Processor 实例。
func NewProcessor(minioCfg config.MinIOConfig, imageRepo repository.ImageRepository) *Processor {
	return &Processor{
		minioCfg:  minioCfg,
		imageRepo: imageRepo,
	}
}

// Process 是打标任务的主函数：确认图片对象存在，从提示词提取标签并写回记录。
func (p *Processor) Process(ctx context.Context, task tasks.ImageTaggingTask) error {
	log.Infof("[Processor] 开始处理打标任务, ImageID: %d, Object: %s, UserID: %d", task.ImageID, task.ObjectName, task.UserID)

	// 1. 确认图片对象已经写入 MinIO
	exists, err := storage.StatImage(ctx, p.minioCfg.BucketName, task.ObjectName)
	if err != nil {
		log.Errorf("[Processor] 检查图片对象失败, Object: %s, Error: %v", task.ObjectName, err)
		return fmt.Errorf("检查图片对象失败: %w", err)
	}
	if !exists {
		log.Warnf("[Processor] 图片对象不存在, 处理中止, Object: %s", task.ObjectName)
		return errors.New("图片对象不存在")
	}

	// 2. 从提示词提取关键词作为标签
	tags := DeriveTags(task.Prompt)
	log.Infof("[Processor] 从提示词提取到 %d 个标签: %v", len(tags), tags)
	if len(tags) == 0 {
		// 标签为空也要写回打标时间，否则任务会被反复重试
		log.Warnf("[Processor] 提示词未产出任何标签, ImageID: %d", task.ImageID)
	}

	// 3. 写回标签与打标时间
	if err := p.imageRepo.UpdateTags(task.ImageID, model.StringList(tags), time.Now()); err != nil {
		log.Errorf("[Processor] 写回标签失败, ImageID: %d, Error: %v", task.ImageID, err)
		return fmt.Errorf("写回标签失败: %w", err)
	}

	log.Infof("[Processor] 打标任务处理完成, ImageID: %d", task.ImageID)
	return nil
}

// DeriveTags 从提示词中提取标签：小写化后按非字母数字切分，
// 过滤功能词与过短的词，按出现顺序去重，数量受上限约束。
func DeriveTags(prompt string) []string {
	words := strings.FieldsFunc(strings.ToLower(prompt), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	seen := make(map[string]struct{})
	tags := make([]string, 0, maxTagsPerImage)
	for _, word := range words {
		if len(word) < 3 {
			continue
		}
		if _, skip := stopwords[word]; skip {
			continue
		}
		if _, dup := seen[word]; dup {
			continue
		}
		seen[word] = struct{}{}
		tags = append(tags, word)
		if len(tags) == maxTagsPerImage {
			break
		}
	}
	return tags
}

// Package service 提供了搜索相关的业务逻辑。
package service

import (
	"context"
	"time"

	"ponder-art-go/internal/config"
	"ponder-art-go/internal/model"
	"ponder-art-go/internal/repository"
	"ponder-art-go/pkg/log"
)

// SearchService 接口定义了图片检索门面。
// 它负责串联 校验 → 构建谓词 → 取数 → 打分排序 四个阶段，
// 每次调用恰好执行一遍，任一阶段失败立即向调用方传播，没有重试。
type SearchService interface {
	// Search 执行一次完整的检索。userID 为 nil 表示匿名调用方。
	// 校验失败返回 *model.ValidationError；存储层错误原样透传。
	Search(ctx context.Context, rawQuery, pageStr, limitStr string, userID *uint, opts model.SearchOptions) (*model.SearchResult, error)

	// BuildResponse 把检索结果组装为对外响应信封。
	BuildResponse(result *model.SearchResult, requestID string, elapsed time.Duration, authenticated bool) model.SearchResponse
}

// searchService 是 SearchService 的实现。
// 只持有构造时注入的不可变依赖，可被多个请求并发安全地共享。
type searchService struct {
	imageRepo repository.ImageRepository
	scorer    ScoringService
	cfg       config.SearchConfig
}

// NewSearchService 创建一个新的 SearchService 实例。
func NewSearchService(imageRepo repository.ImageRepository, scorer ScoringService, cfg config.SearchConfig) SearchService {
	return &searchService{
		imageRepo: imageRepo,
		scorer:    scorer,
		cfg:       cfg,
	}
}

// Search 执行两阶段检索：宽召回取候选，再按权重精排。
func (s *searchService) Search(ctx context.Context, rawQuery, pageStr, limitStr string, userID *uint, opts model.SearchOptions) (*model.SearchResult, error) {
	// 1. 校验查询串；这是整条管道中唯一允许让请求直接失败的阶段
	if vErr := ValidateQuery(rawQuery, s.cfg.MaxQueryLength); vErr != nil {
		log.Warnf("[SearchService] 查询校验失败: %s", vErr.Message)
		return nil, vErr
	}

	// 2. 归一化检索词与分页参数
	term := NormalizeSearchTerm(rawQuery)
	pagination := NormalizePagination(pageStr, limitStr, s.cfg)
	log.Infof("[SearchService] 开始检索, term: '%s', page: %d, limit: %d, anonymous: %t",
		term, pagination.Page, pagination.Limit, userID == nil)

	// 3. 构建谓词（访问控制 AND 文本匹配）
	predicate := BuildSearchPredicate(userID, term)

	// 4. 召回阶段：超量取候选并统计粗筛总命中数
	candidates, total, err := s.imageRepo.Search(ctx, predicate, pagination.Skip, pagination.Limit)
	if err != nil {
		log.Errorf("[SearchService] 候选取数失败: %v", err)
		return nil, err
	}
	log.Infof("[SearchService] 召回 %d 个候选, 粗筛总命中 %d", len(candidates), total)

	// 5. 精排阶段：打分、过滤、排序、截断
	items := s.scorer.ScoreAndRank(candidates, term, pagination.Limit, opts)
	log.Infof("[SearchService] 精排后返回 %d 条结果", len(items))

	return &model.SearchResult{
		Items:          items,
		Total:          total,
		Pagination:     pagination,
		Query:          term,
		AppliedOptions: opts,
	}, nil
}

// BuildResponse 委托给结果转换器组装响应信封。
func (s *searchService) BuildResponse(result *model.SearchResult, requestID string, elapsed time.Duration, authenticated bool) model.SearchResponse {
	return BuildSearchResponse(result, requestID, elapsed, authenticated)
}

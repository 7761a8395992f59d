package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"ponder-art-go/internal/config"
	"ponder-art-go/internal/model"
)

// MockImageRepository 是 repository.ImageRepository 的 mock 实现。
type MockImageRepository struct {
	mock.Mock
}

func (m *MockImageRepository) Search(ctx context.Context, predicate *model.Predicate, skip, limit int) ([]model.Image, int64, error) {
	args := m.Called(ctx, predicate, skip, limit)
	var images []model.Image
	if args.Get(0) != nil {
		images = args.Get(0).([]model.Image)
	}
	return images, args.Get(1).(int64), args.Error(2)
}

func (m *MockImageRepository) Create(image *model.Image) error {
	args := m.Called(image)
	return args.Error(0)
}

func (m *MockImageRepository) FindByID(imageID uint) (*model.Image, error) {
	args := m.Called(imageID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Image), args.Error(1)
}

func (m *MockImageRepository) Update(image *model.Image) error {
	args := m.Called(image)
	return args.Error(0)
}

func (m *MockImageRepository) SoftDelete(imageID uint) error {
	args := m.Called(imageID)
	return args.Error(0)
}

func (m *MockImageRepository) UpdateTags(imageID uint, tags model.StringList, taggedAt time.Time) error {
	args := m.Called(imageID, tags, taggedAt)
	return args.Error(0)
}

func newTestSearchService(repo *MockImageRepository) SearchService {
	cfg := config.DefaultSearchConfig()
	return NewSearchService(repo, NewScoringService(cfg.Weights), cfg)
}

func TestSearch_ValidationShortCircuit(t *testing.T) {
	repo := new(MockImageRepository)
	svc := newTestSearchService(repo)

	result, err := svc.Search(context.Background(), "   ", "1", "50", nil, model.SearchOptions{})

	assert.Nil(t, result)
	var vErr *model.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, 400, vErr.Status)
	// 校验失败时不得触碰存储层
	repo.AssertNotCalled(t, "Search")
}

func TestSearch_RankedResults(t *testing.T) {
	repo := new(MockImageRepository)
	svc := newTestSearchService(repo)

	candidates := []model.Image{
		{ID: 1, Prompt: "a sunset over water", Username: "alice"}, // prompt 包含 = 50
		{ID: 2, Prompt: "mountain peak", Tags: model.StringList{"sunset"}, Username: "bob"}, // 标签精确 = 70
		{ID: 3, Prompt: "a quiet forest", Username: "carol"},                               // 0 分，被剔除
	}
	repo.On("Search", mock.Anything, mock.Anything, 0, 50).
		Return(candidates, int64(3), nil)

	result, err := svc.Search(context.Background(), "Sunset", "1", "50", nil,
		model.SearchOptions{TagFilter: model.TagFilterAny})

	require.NoError(t, err)
	require.Len(t, result.Items, 2)
	// 标签精确命中(70)排在 prompt 包含命中(50)之前
	assert.Equal(t, uint(2), result.Items[0].ID)
	assert.Equal(t, 70, result.Items[0].Score)
	assert.Equal(t, uint(1), result.Items[1].ID)
	assert.Equal(t, 50, result.Items[1].Score)
	// 粗筛总命中数原样透传
	assert.Equal(t, int64(3), result.Total)
	assert.Equal(t, "sunset", result.Query)
	repo.AssertExpectations(t)
}

func TestSearch_PredicateCarriesAccessControl(t *testing.T) {
	repo := new(MockImageRepository)
	svc := newTestSearchService(repo)

	var captured *model.Predicate
	repo.On("Search", mock.Anything, mock.Anything, 0, 50).
		Run(func(args mock.Arguments) {
			captured = args.Get(1).(*model.Predicate)
		}).
		Return([]model.Image{}, int64(0), nil)

	userID := uint(42)
	_, err := svc.Search(context.Background(), "sunset", "1", "50", &userID,
		model.SearchOptions{TagFilter: model.TagFilterAny})

	require.NoError(t, err)
	require.NotNil(t, captured)
	// 门面传给存储层的永远是 顶层 AND 的访问控制谓词
	assert.Equal(t, model.PredicateAnd, captured.Op)
	require.Len(t, captured.Children, 4)
}

func TestSearch_PaginationSkipForwarded(t *testing.T) {
	repo := new(MockImageRepository)
	svc := newTestSearchService(repo)

	repo.On("Search", mock.Anything, mock.Anything, 40, 20).
		Return([]model.Image{}, int64(0), nil)

	result, err := svc.Search(context.Background(), "sunset", "3", "20", nil,
		model.SearchOptions{TagFilter: model.TagFilterAny})

	require.NoError(t, err)
	assert.Equal(t, 3, result.Pagination.Page)
	assert.Equal(t, 20, result.Pagination.Limit)
	assert.Equal(t, 40, result.Pagination.Skip)
	repo.AssertExpectations(t)
}

func TestSearch_RepositoryErrorPropagates(t *testing.T) {
	repo := new(MockImageRepository)
	svc := newTestSearchService(repo)

	storageErr := errors.New("connection refused")
	repo.On("Search", mock.Anything, mock.Anything, 0, 50).
		Return(nil, int64(0), storageErr)

	result, err := svc.Search(context.Background(), "sunset", "1", "50", nil,
		model.SearchOptions{TagFilter: model.TagFilterAny})

	assert.Nil(t, result)
	assert.ErrorIs(t, err, storageErr)
}

func TestSearch_Idempotent(t *testing.T) {
	repo := new(MockImageRepository)
	svc := newTestSearchService(repo)

	candidates := []model.Image{
		{ID: 1, Prompt: "sunset"},
		{ID: 2, Prompt: "a sunset over water"},
	}
	repo.On("Search", mock.Anything, mock.Anything, 0, 50).
		Return(candidates, int64(2), nil)

	first, err := svc.Search(context.Background(), "sunset", "1", "50", nil,
		model.SearchOptions{TagFilter: model.TagFilterAny})
	require.NoError(t, err)
	second, err := svc.Search(context.Background(), "sunset", "1", "50", nil,
		model.SearchOptions{TagFilter: model.TagFilterAny})
	require.NoError(t, err)

	// 同样的输入、同样的候选集，两次调用的排序结果完全一致
	require.Equal(t, len(first.Items), len(second.Items))
	for i := range first.Items {
		assert.Equal(t, first.Items[i].ID, second.Items[i].ID)
		assert.Equal(t, first.Items[i].Score, second.Items[i].Score)
	}
}

package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"ponder-art-go/internal/model"
)

// MockUserRepository 是 UserRepository 的 mock 实现。
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(user *model.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByUsername(username string) (*model.User, error) {
	args := m.Called(username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindUsernamesByIDs(userIDs []uint) (map[uint]string, error) {
	args := m.Called(userIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uint]string), args.Error(1)
}

func TestFillUsernames_DelegatesToUserRepository(t *testing.T) {
	userRepo := new(MockUserRepository)
	repo := &imageRepository{userRepo: userRepo, overfetch: 1}

	images := []model.Image{
		{ID: 1, UserID: 1},
		{ID: 2, UserID: 2},
		{ID: 3, UserID: 2}, // 重复所有者，查询前去重
		{ID: 4, UserID: 0}, // 无所有者，不参与查询
	}

	userRepo.On("FindUsernamesByIDs", mock.MatchedBy(func(ids []uint) bool {
		if len(ids) != 2 {
			return false
		}
		seen := make(map[uint]bool, len(ids))
		for _, id := range ids {
			seen[id] = true
		}
		return seen[1] && seen[2]
	})).Return(map[uint]string{1: "alice"}, nil).Once()

	require.NoError(t, repo.fillUsernames(images))

	assert.Equal(t, "alice", images[0].Username)
	// 查不到所有者的候选使用兜底展示名
	assert.Equal(t, UnknownUsername, images[1].Username)
	assert.Equal(t, UnknownUsername, images[2].Username)
	assert.Equal(t, UnknownUsername, images[3].Username)
	userRepo.AssertExpectations(t)
}

func TestFillUsernames_NoOwnersNoLookup(t *testing.T) {
	userRepo := new(MockUserRepository)
	repo := &imageRepository{userRepo: userRepo, overfetch: 1}

	images := []model.Image{{ID: 1, UserID: 0}}

	require.NoError(t, repo.fillUsernames(images))
	userRepo.AssertNotCalled(t, "FindUsernamesByIDs")
}

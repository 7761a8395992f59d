package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"ponder-art-go/internal/model"
	"ponder-art-go/pkg/token"
)

// MockUserService 是 service.UserService 的 mock 实现。
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Register(username, password string) (*model.User, error) {
	args := m.Called(username, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserService) Login(username, password string) (string, string, error) {
	args := m.Called(username, password)
	return args.String(0), args.String(1), args.Error(2)
}

func (m *MockUserService) GetProfile(username string) (*model.User, error) {
	args := m.Called(username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserService) Logout(tokenString string) error {
	args := m.Called(tokenString)
	return args.Error(0)
}

func (m *MockUserService) IsTokenBlacklisted(ctx context.Context, tokenString string) bool {
	args := m.Called(ctx, tokenString)
	return args.Bool(0)
}

func (m *MockUserService) RefreshToken(refreshTokenString string) (string, string, error) {
	args := m.Called(refreshTokenString)
	return args.String(0), args.String(1), args.Error(2)
}

func authTestSetup(t *testing.T) (*token.JWTManager, string, *MockUserService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	jwtManager := token.NewJWTManager("test-secret", 1, 1)
	accessToken, err := jwtManager.GenerateToken(1, "alice")
	require.NoError(t, err)

	return jwtManager, accessToken, new(MockUserService)
}

func TestAuthMiddleware_BlacklistedTokenRejected(t *testing.T) {
	jwtManager, accessToken, userService := authTestSetup(t)
	userService.On("IsTokenBlacklisted", mock.Anything, accessToken).Return(true)

	router := gin.New()
	router.GET("/protected", AuthMiddleware(jwtManager, userService), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+accessToken)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	// 已登出的 token 在过期前也不再被接受
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	userService.AssertNotCalled(t, "GetProfile")
}

func TestAuthMiddleware_ValidTokenPasses(t *testing.T) {
	jwtManager, accessToken, userService := authTestSetup(t)
	userService.On("IsTokenBlacklisted", mock.Anything, accessToken).Return(false)
	userService.On("GetProfile", "alice").Return(&model.User{ID: 1, Username: "alice"}, nil)

	var seenUser *model.User
	router := gin.New()
	router.GET("/protected", AuthMiddleware(jwtManager, userService), func(c *gin.Context) {
		if value, exists := c.Get("user"); exists {
			seenUser = value.(*model.User)
		}
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+accessToken)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, seenUser)
	assert.Equal(t, uint(1), seenUser.ID)
}

func TestOptionalAuthMiddleware_BlacklistedTokenTreatedAsAnonymous(t *testing.T) {
	jwtManager, accessToken, userService := authTestSetup(t)
	userService.On("IsTokenBlacklisted", mock.Anything, accessToken).Return(true)

	var hadUser bool
	router := gin.New()
	router.GET("/search", OptionalAuthMiddleware(jwtManager, userService), func(c *gin.Context) {
		_, hadUser = c.Get("user")
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/search", nil)
	req.Header.Set("Authorization", "Bearer "+accessToken)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	// 请求放行但按匿名处理，可见性过滤收紧到公开记录
	assert.Equal(t, http.StatusOK, w.Code)
	assert.False(t, hadUser)
	userService.AssertNotCalled(t, "GetProfile")
}

func TestOptionalAuthMiddleware_MissingHeaderAnonymous(t *testing.T) {
	jwtManager, _, userService := authTestSetup(t)

	var hadUser bool
	router := gin.New()
	router.GET("/search", OptionalAuthMiddleware(jwtManager, userService), func(c *gin.Context) {
		_, hadUser = c.Get("user")
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/search", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.False(t, hadUser)
	userService.AssertNotCalled(t, "IsTokenBlacklisted")
}

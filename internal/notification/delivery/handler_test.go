package delivery

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"localmart-backend/internal/notification/domain"
	"localmart-backend/internal/notification/usecase"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockNotificationUsecase mocks the NotificationUsecase interface
type MockNotificationUsecase struct {
	mock.Mock
}

func (m *MockNotificationUsecase) Backlog(ctx context.Context, userID string) (*usecase.Backlog, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.Backlog), args.Error(1)
}

func (m *MockNotificationUsecase) MarkAsRead(ctx context.Context, userID, notificationID string) error {
	args := m.Called(userID, notificationID)
	return args.Error(0)
}

func (m *MockNotificationUsecase) MarkAllAsRead(ctx context.Context, userID string) error {
	args := m.Called(userID)
	return args.Error(0)
}

func (m *MockNotificationUsecase) Delete(ctx context.Context, userID, notificationID string) error {
	args := m.Called(userID, notificationID)
	return args.Error(0)
}

func (m *MockNotificationUsecase) ClearAll(ctx context.Context, userID string) error {
	args := m.Called(userID)
	return args.Error(0)
}

func (m *MockNotificationUsecase) RegisterToken(ctx context.Context, userID, token, provider, deviceInfo string) error {
	args := m.Called(userID, token, provider, deviceInfo)
	return args.Error(0)
}

func (m *MockNotificationUsecase) UnregisterToken(ctx context.Context, userID, token string) error {
	args := m.Called(userID, token)
	return args.Error(0)
}

func setupRouter(svc usecase.NotificationUsecase, userID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Next()
	})
	handler := NewNotificationHandler(svc)
	handler.RegisterRoutes(r.Group("/notifications"), r.Group("/push"))
	return r
}

func TestGetBacklog_Success(t *testing.T) {
	mockSvc := new(MockNotificationUsecase)
	router := setupRouter(mockSvc, "user-1")

	mockSvc.On("Backlog", "user-1").Return(&usecase.Backlog{
		Notifications: []domain.Notification{
			{ID: "n1", UserID: "user-1", Type: domain.TypeReview, Title: "New review"},
		},
		UnreadCount: 7,
	}, nil)

	req, _ := http.NewRequest("GET", "/notifications/my", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Notifications []domain.Notification `json:"notifications"`
		UnreadCount   int64                 `json:"unreadCount"`
	}
	json.Unmarshal(w.Body.Bytes(), &response)
	assert.Len(t, response.Notifications, 1)
	assert.Equal(t, int64(7), response.UnreadCount)

	mockSvc.AssertExpectations(t)
}

func TestMarkAsRead_Success(t *testing.T) {
	mockSvc := new(MockNotificationUsecase)
	router := setupRouter(mockSvc, "user-1")

	mockSvc.On("MarkAsRead", "user-1", "n1").Return(nil)

	req, _ := http.NewRequest("PUT", "/notifications/n1/read", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	mockSvc.AssertExpectations(t)
}

func TestMarkAsRead_NotOwned(t *testing.T) {
	mockSvc := new(MockNotificationUsecase)
	router := setupRouter(mockSvc, "user-1")

	mockSvc.On("MarkAsRead", "user-1", "other").Return(usecase.ErrNotificationNotFound)

	req, _ := http.NewRequest("PUT", "/notifications/other/read", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDelete_NotFound(t *testing.T) {
	mockSvc := new(MockNotificationUsecase)
	router := setupRouter(mockSvc, "user-1")

	mockSvc.On("Delete", "user-1", "gone").Return(usecase.ErrNotificationNotFound)

	req, _ := http.NewRequest("DELETE", "/notifications/gone", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRegisterToken_Success(t *testing.T) {
	mockSvc := new(MockNotificationUsecase)
	router := setupRouter(mockSvc, "user-1")

	mockSvc.On("RegisterToken", "user-1", "tok-abc", "fcm", "chrome").Return(nil)

	body, _ := json.Marshal(map[string]string{
		"token":      "tok-abc",
		"provider":   "fcm",
		"deviceInfo": "chrome",
	})
	req, _ := http.NewRequest("POST", "/push/register", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockSvc.AssertExpectations(t)
}

func TestRegisterToken_MissingToken(t *testing.T) {
	mockSvc := new(MockNotificationUsecase)
	router := setupRouter(mockSvc, "user-1")

	body, _ := json.Marshal(map[string]string{"provider": "fcm"})
	req, _ := http.NewRequest("POST", "/push/register", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockSvc.AssertNotCalled(t, "RegisterToken")
}

func TestUnregisterToken_EmptyBodyMeansAllTokens(t *testing.T) {
	mockSvc := new(MockNotificationUsecase)
	router := setupRouter(mockSvc, "user-1")

	mockSvc.On("UnregisterToken", "user-1", "").Return(nil)

	req, _ := http.NewRequest("POST", "/push/unregister", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockSvc.AssertExpectations(t)
}

func TestMarkAllAsRead_Success(t *testing.T) {
	mockSvc := new(MockNotificationUsecase)
	router := setupRouter(mockSvc, "user-1")

	mockSvc.On("MarkAllAsRead", "user-1").Return(nil)

	req, _ := http.NewRequest("PUT", "/notifications/read-all", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	mockSvc.AssertExpectations(t)
}

func TestClearAll_Success(t *testing.T) {
	mockSvc := new(MockNotificationUsecase)
	router := setupRouter(mockSvc, "user-1")

	mockSvc.On("ClearAll", "user-1").Return(nil)

	req, _ := http.NewRequest("DELETE", "/notifications/clear-all", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	mockSvc.AssertExpectations(t)
}

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"story-engine/internal/interfaces/mocks"
	"story-engine/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testCookieName = "reader_session"

func setupReaderSessionRouter(registry *mocks.ReaderSessionRepository, capture *models.Reader) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(ReaderSession(testCookieName, 3600, registry, zap.NewNop()))
	router.GET("/probe", func(c *gin.Context) {
		if reader, ok := ReaderFrom(c); ok {
			*capture = reader
		}
		c.Status(http.StatusOK)
	})
	return router
}

func TestReaderSession_MintsCookieOnFirstContact(t *testing.T) {
	registry := new(mocks.ReaderSessionRepository)
	registry.On("Touch", mock.Anything, mock.Anything, (*uuid.UUID)(nil)).Return(nil)

	var captured models.Reader
	router := setupReaderSessionRouter(registry, &captured)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.NotEmpty(t, captured.SessionKey)
	_, err := uuid.Parse(captured.SessionKey)
	assert.NoError(t, err)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, testCookieName, cookies[0].Name)
	assert.Equal(t, captured.SessionKey, cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
}

func TestReaderSession_ReusesExistingCookie(t *testing.T) {
	registry := new(mocks.ReaderSessionRepository)
	existing := uuid.NewString()
	registry.On("Touch", mock.Anything, existing, (*uuid.UUID)(nil)).Return(nil)

	var captured models.Reader
	router := setupReaderSessionRouter(registry, &captured)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.AddCookie(&http.Cookie{Name: testCookieName, Value: existing})
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, existing, captured.SessionKey)
	assert.Empty(t, w.Result().Cookies())
}

func TestReaderSession_RegistryFailureDoesNotFailRequest(t *testing.T) {
	registry := new(mocks.ReaderSessionRepository)
	registry.On("Touch", mock.Anything, mock.Anything, mock.Anything).Return(assert.AnError)

	var captured models.Reader
	router := setupReaderSessionRouter(registry, &captured)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/probe", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, captured.SessionKey)
}

func TestReaderSession_LinksAuthenticatedUser(t *testing.T) {
	registry := new(mocks.ReaderSessionRepository)
	userID := uuid.New()
	registry.On("Touch", mock.Anything, mock.Anything, mock.MatchedBy(func(id *uuid.UUID) bool {
		return id != nil && *id == userID
	})).Return(nil)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set(ContextClaimsKey, &models.Claims{UserID: userID})
	})
	var captured models.Reader
	router.Use(ReaderSession(testCookieName, 3600, registry, zap.NewNop()))
	router.GET("/probe", func(c *gin.Context) {
		reader, _ := ReaderFrom(c)
		captured = reader
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/probe", nil))

	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, captured.UserID)
	assert.Equal(t, userID, *captured.UserID)
	registry.AssertExpectations(t)
}

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"story-engine/internal/authutils"
	"story-engine/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testSecret = "middleware-test-secret"

func signTestToken(t *testing.T, userID uuid.UUID, roles ...string) string {
	t.Helper()
	claims := &models.Claims{
		UserID: userID,
		Roles:  roles,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func newAuthTestRouter(t *testing.T, protected bool) *gin.Engine {
	t.Helper()
	verifier, err := authutils.NewJWTVerifier(testSecret, zap.NewNop())
	require.NoError(t, err)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	if protected {
		router.Use(RequireAuth(verifier, zap.NewNop()), RequireAuthor(zap.NewNop()))
	} else {
		router.Use(OptionalAuth(verifier, zap.NewNop()))
	}
	router.GET("/probe", func(c *gin.Context) {
		caller := CallerFrom(c)
		if caller == nil {
			c.JSON(http.StatusOK, gin.H{"caller": "anonymous"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"caller": caller.ID.String()})
	})
	return router
}

func TestOptionalAuth_NoHeaderPassesAnonymously(t *testing.T) {
	router := newAuthTestRouter(t, false)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/probe", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "anonymous")
}

func TestOptionalAuth_InvalidTokenRejected(t *testing.T) {
	router := newAuthTestRouter(t, false)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestOptionalAuth_ValidTokenSetsClaims(t *testing.T) {
	router := newAuthTestRouter(t, false)
	userID := uuid.New()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("Authorization", "Bearer "+signTestToken(t, userID, models.RoleUser))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), userID.String())
}

func TestRequireAuth_MissingHeader(t *testing.T) {
	router := newAuthTestRouter(t, true)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/probe", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuthor_PlainUserForbidden(t *testing.T) {
	router := newAuthTestRouter(t, true)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("Authorization", "Bearer "+signTestToken(t, uuid.New(), models.RoleUser))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireAuthor_AuthorPasses(t *testing.T) {
	router := newAuthTestRouter(t, true)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("Authorization", "Bearer "+signTestToken(t, uuid.New(), models.RoleAuthor))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireAuthor_AdminPasses(t *testing.T) {
	router := newAuthTestRouter(t, true)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("Authorization", "Bearer "+signTestToken(t, uuid.New(), models.RoleAdmin))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"story-engine/internal/middleware"
	"story-engine/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// Mock TraversalService
type mockTraversalService struct {
	mock.Mock
}

func (m *mockTraversalService) Start(ctx context.Context, reader models.Reader, storyID int64, resume bool) (*models.TraversalResult, error) {
	args := m.Called(ctx, reader, storyID, resume)
	res, _ := args.Get(0).(*models.TraversalResult)
	return res, args.Error(1)
}

func (m *mockTraversalService) Advance(ctx context.Context, reader models.Reader, pageID int64) (*models.TraversalResult, error) {
	args := m.Called(ctx, reader, pageID)
	res, _ := args.Get(0).(*models.TraversalResult)
	return res, args.Error(1)
}

func (m *mockTraversalService) Choose(ctx context.Context, reader models.Reader, pageID, nextPageID int64) (*models.TraversalResult, error) {
	args := m.Called(ctx, reader, pageID, nextPageID)
	res, _ := args.Get(0).(*models.TraversalResult)
	return res, args.Error(1)
}

func (m *mockTraversalService) Reset(ctx context.Context, reader models.Reader, storyID int64) error {
	args := m.Called(ctx, reader, storyID)
	return args.Error(0)
}

type handlerFixture struct {
	traversal *mockTraversalService
	router    *gin.Engine
}

// newHandlerFixture wires only the reader-facing traversal routes with a
// fixed reader identity injected ahead of the handlers.
func newHandlerFixture(t *testing.T) *handlerFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	f := &handlerFixture{traversal: new(mockTraversalService)}
	h := &Handler{traversal: f.traversal, logger: zap.NewNop()}

	f.router = gin.New()
	f.router.Use(func(c *gin.Context) {
		c.Set(middleware.ContextReaderKey, models.Reader{SessionKey: "sess-test"})
	})
	f.router.POST("/stories/:story_id/play", h.StartPlay)
	f.router.DELETE("/stories/:story_id/play", h.ResetPlay)
	f.router.GET("/play/pages/:page_id", h.GetPlayPage)
	f.router.POST("/play/pages/:page_id/choose", h.Choose)
	return f
}

func TestStartPlay_ReturnsTraversalResult(t *testing.T) {
	f := newHandlerFixture(t)

	f.traversal.On("Start", mock.Anything, mock.Anything, int64(1), false).Return(&models.TraversalResult{
		Page:    models.Page{ID: 10, StoryID: 1, Text: "Opening"},
		Choices: []models.Choice{{ID: 100, PageID: 10, Text: "Go", NextPageID: 11}},
	}, nil)

	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/stories/1/play", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var body traversalDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, int64(10), body.Page.ID)
	assert.Len(t, body.Page.Choices, 1)
	assert.False(t, body.Ended)
}

func TestStartPlay_ResumeFlagForwarded(t *testing.T) {
	f := newHandlerFixture(t)

	f.traversal.On("Start", mock.Anything, mock.Anything, int64(1), true).Return(&models.TraversalResult{
		Page: models.Page{ID: 12, StoryID: 1},
	}, nil)

	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/stories/1/play?resume=true", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	f.traversal.AssertExpectations(t)
}

func TestStartPlay_SuspendedStoryConflict(t *testing.T) {
	f := newHandlerFixture(t)

	f.traversal.On("Start", mock.Anything, mock.Anything, int64(1), false).Return(nil, models.ErrSuspendedStory)

	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/stories/1/play", nil))

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestStartPlay_NoStartPageConflict(t *testing.T) {
	f := newHandlerFixture(t)

	f.traversal.On("Start", mock.Anything, mock.Anything, int64(1), false).Return(nil, models.ErrNoStartPage)

	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/stories/1/play", nil))

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestStartPlay_GraphUnreachableBadGateway(t *testing.T) {
	f := newHandlerFixture(t)

	f.traversal.On("Start", mock.Anything, mock.Anything, int64(1), false).Return(nil, models.ErrGraphUnreachable)

	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/stories/1/play", nil))

	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestStartPlay_MalformedStoryID(t *testing.T) {
	f := newHandlerFixture(t)

	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/stories/abc/play", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	f.traversal.AssertNotCalled(t, "Start", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestChoose_InvalidTransitionBadRequest(t *testing.T) {
	f := newHandlerFixture(t)

	f.traversal.On("Choose", mock.Anything, mock.Anything, int64(10), int64(99)).Return(nil, models.ErrInvalidTransition)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/play/pages/10/choose", strings.NewReader(`{"next_page_id": 99}`))
	req.Header.Set("Content-Type", "application/json")
	f.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestChoose_MissingBodyBadRequest(t *testing.T) {
	f := newHandlerFixture(t)

	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/play/pages/10/choose", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	f.traversal.AssertNotCalled(t, "Choose", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestGetPlayPage_EndingFlagsInResponse(t *testing.T) {
	f := newHandlerFixture(t)

	label := "The Good End"
	f.traversal.On("Advance", mock.Anything, mock.Anything, int64(20)).Return(&models.TraversalResult{
		Page:           models.Page{ID: 20, StoryID: 1, IsEnding: true, EndingLabel: &label},
		Ended:          true,
		EndingRecorded: true,
	}, nil)

	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/play/pages/20", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var body traversalDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Ended)
	assert.True(t, body.EndingRecorded)
	require.NotNil(t, body.Page.EndingLabel)
	assert.Equal(t, label, *body.Page.EndingLabel)
}

func TestResetPlay_NoContent(t *testing.T) {
	f := newHandlerFixture(t)

	f.traversal.On("Reset", mock.Anything, mock.Anything, int64(1)).Return(nil)

	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/stories/1/play", nil))

	assert.Equal(t, http.StatusNoContent, w.Code)
}

package service

import (
	"context"
	"testing"

	"story-engine/internal/interfaces/mocks"
	"story-engine/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type traversalFixture struct {
	graph    *mocks.GraphStoreClient
	sessions *mocks.PlaySessionRepository
	markers  *mocks.EndingMarkerRepository
	plays    *mocks.PlayRepository
	svc      TraversalService
}

func newTraversalFixture(t *testing.T, endingClearsSession bool) *traversalFixture {
	t.Helper()
	f := &traversalFixture{
		graph:    new(mocks.GraphStoreClient),
		sessions: new(mocks.PlaySessionRepository),
		markers:  new(mocks.EndingMarkerRepository),
		plays:    new(mocks.PlayRepository),
	}
	recorder := NewPlayRecorder(f.plays, nil, zap.NewNop())
	f.svc = NewTraversalService(f.graph, f.sessions, f.markers, recorder, endingClearsSession, zap.NewNop())
	return f
}

func (f *traversalFixture) assertExpectations(t *testing.T) {
	f.graph.AssertExpectations(t)
	f.sessions.AssertExpectations(t)
	f.markers.AssertExpectations(t)
	f.plays.AssertExpectations(t)
}

var testReader = models.Reader{SessionKey: "session-abc"}

func publishedStory(id int64) *models.Story {
	start := int64(10)
	return &models.Story{ID: id, Title: "The Cave", Status: models.StoryStatusPublished, StartPageID: &start}
}

func branchPage(id, storyID int64, nexts ...int64) *models.PageWithChoices {
	pw := &models.PageWithChoices{
		Page: models.Page{ID: id, StoryID: storyID, Text: "You stand at a fork."},
	}
	for i, next := range nexts {
		pw.Choices = append(pw.Choices, models.Choice{ID: int64(100 + i), PageID: id, Text: "Go", NextPageID: next})
	}
	return pw
}

func endingPage(id, storyID int64) *models.PageWithChoices {
	label := "The Good End"
	return &models.PageWithChoices{
		Page: models.Page{ID: id, StoryID: storyID, Text: "You made it out.", IsEnding: true, EndingLabel: &label},
	}
}

func TestTraversalService_Start_FreshRun(t *testing.T) {
	f := newTraversalFixture(t, false)
	ctx := context.Background()

	f.graph.On("GetStory", ctx, int64(1)).Return(publishedStory(1), nil)
	f.graph.On("GetStartPage", ctx, int64(1)).Return(branchPage(10, 1, 11, 12), nil)
	f.markers.On("ClearForReader", ctx, testReader.SessionKey, int64(1)).Return(nil)
	f.sessions.On("Upsert", ctx, mock.MatchedBy(func(s *models.PlaySession) bool {
		return s.SessionKey == testReader.SessionKey && s.StoryID == 1 && s.CurrentPageID == 10
	})).Return(nil)

	res, err := f.svc.Start(ctx, testReader, 1, false)

	require.NoError(t, err)
	assert.Equal(t, int64(10), res.Page.ID)
	assert.Len(t, res.Choices, 2)
	assert.False(t, res.Ended)
	assert.False(t, res.EndingRecorded)
	f.assertExpectations(t)
}

func TestTraversalService_Start_SuspendedStoryWritesNothing(t *testing.T) {
	f := newTraversalFixture(t, false)
	ctx := context.Background()

	story := publishedStory(1)
	story.Status = models.StoryStatusSuspended
	f.graph.On("GetStory", ctx, int64(1)).Return(story, nil)

	res, err := f.svc.Start(ctx, testReader, 1, false)

	require.ErrorIs(t, err, models.ErrSuspendedStory)
	assert.Nil(t, res)
	f.sessions.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
	f.markers.AssertNotCalled(t, "ClearForReader", mock.Anything, mock.Anything, mock.Anything)
	f.assertExpectations(t)
}

func TestTraversalService_Start_ResumeUsesSavedSession(t *testing.T) {
	f := newTraversalFixture(t, false)
	ctx := context.Background()

	f.graph.On("GetStory", ctx, int64(1)).Return(publishedStory(1), nil)
	f.sessions.On("Get", ctx, testReader.SessionKey, int64(1)).Return(&models.PlaySession{
		SessionKey:    testReader.SessionKey,
		StoryID:       1,
		CurrentPageID: 12,
	}, nil)
	f.graph.On("GetPage", ctx, int64(12)).Return(branchPage(12, 1, 13), nil)
	f.sessions.On("Upsert", ctx, mock.MatchedBy(func(s *models.PlaySession) bool {
		return s.CurrentPageID == 12
	})).Return(nil)

	res, err := f.svc.Start(ctx, testReader, 1, true)

	require.NoError(t, err)
	assert.Equal(t, int64(12), res.Page.ID)
	// A resume must not restart the run or re-arm ending counting.
	f.graph.AssertNotCalled(t, "GetStartPage", mock.Anything, mock.Anything)
	f.markers.AssertNotCalled(t, "ClearForReader", mock.Anything, mock.Anything, mock.Anything)
	f.assertExpectations(t)
}

func TestTraversalService_Start_ResumeWithoutSessionFallsBackToFresh(t *testing.T) {
	f := newTraversalFixture(t, false)
	ctx := context.Background()

	f.graph.On("GetStory", ctx, int64(1)).Return(publishedStory(1), nil)
	f.sessions.On("Get", ctx, testReader.SessionKey, int64(1)).Return(nil, models.ErrNotFound)
	f.graph.On("GetStartPage", ctx, int64(1)).Return(branchPage(10, 1, 11), nil)
	f.markers.On("ClearForReader", ctx, testReader.SessionKey, int64(1)).Return(nil)
	f.sessions.On("Upsert", ctx, mock.Anything).Return(nil)

	res, err := f.svc.Start(ctx, testReader, 1, true)

	require.NoError(t, err)
	assert.Equal(t, int64(10), res.Page.ID)
	f.assertExpectations(t)
}

func TestTraversalService_Start_NoStartPage(t *testing.T) {
	f := newTraversalFixture(t, false)
	ctx := context.Background()

	f.graph.On("GetStory", ctx, int64(1)).Return(publishedStory(1), nil)
	f.graph.On("GetStartPage", ctx, int64(1)).Return(nil, models.ErrNoStartPage)

	res, err := f.svc.Start(ctx, testReader, 1, false)

	require.ErrorIs(t, err, models.ErrNoStartPage)
	assert.Nil(t, res)
	// A failed fetch leaves engine state untouched.
	f.markers.AssertNotCalled(t, "ClearForReader", mock.Anything, mock.Anything, mock.Anything)
	f.assertExpectations(t)
}

func TestTraversalService_Choose_OfferedTransition(t *testing.T) {
	f := newTraversalFixture(t, false)
	ctx := context.Background()

	f.graph.On("GetPage", ctx, int64(10)).Return(branchPage(10, 1, 11, 12), nil)
	f.graph.On("GetPage", ctx, int64(11)).Return(branchPage(11, 1, 13), nil)
	f.sessions.On("Upsert", ctx, mock.MatchedBy(func(s *models.PlaySession) bool {
		return s.CurrentPageID == 11
	})).Return(nil)

	res, err := f.svc.Choose(ctx, testReader, 10, 11)

	require.NoError(t, err)
	assert.Equal(t, int64(11), res.Page.ID)
	f.assertExpectations(t)
}

func TestTraversalService_Choose_UnofferedTransitionLeavesStateUnchanged(t *testing.T) {
	f := newTraversalFixture(t, false)
	ctx := context.Background()

	f.graph.On("GetPage", ctx, int64(10)).Return(branchPage(10, 1, 11, 12), nil)

	res, err := f.svc.Choose(ctx, testReader, 10, 99)

	require.ErrorIs(t, err, models.ErrInvalidTransition)
	assert.Nil(t, res)
	f.sessions.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
	f.assertExpectations(t)
}

func TestTraversalService_Advance_EndingRecordsPlay(t *testing.T) {
	f := newTraversalFixture(t, false)
	ctx := context.Background()

	f.graph.On("GetPage", ctx, int64(20)).Return(endingPage(20, 1), nil)
	f.plays.On("RecordEnding", ctx, mock.MatchedBy(func(p *models.Play) bool {
		return p.SessionKey == testReader.SessionKey && p.StoryID == 1 && p.EndingPageID == 20
	})).Return(true, nil)
	f.sessions.On("Upsert", ctx, mock.MatchedBy(func(s *models.PlaySession) bool {
		return s.CurrentPageID == 20
	})).Return(nil)

	res, err := f.svc.Advance(ctx, testReader, 20)

	require.NoError(t, err)
	assert.True(t, res.Ended)
	assert.True(t, res.EndingRecorded)
	f.assertExpectations(t)
}

func TestTraversalService_Advance_RepeatedEndingIsNotRecounted(t *testing.T) {
	f := newTraversalFixture(t, false)
	ctx := context.Background()

	f.graph.On("GetPage", ctx, int64(20)).Return(endingPage(20, 1), nil)
	f.plays.On("RecordEnding", ctx, mock.Anything).Return(false, nil)
	f.sessions.On("Upsert", ctx, mock.Anything).Return(nil)

	res, err := f.svc.Advance(ctx, testReader, 20)

	require.NoError(t, err)
	assert.True(t, res.Ended)
	assert.False(t, res.EndingRecorded)
	f.assertExpectations(t)
}

func TestTraversalService_Advance_EndingClearsSessionWhenConfigured(t *testing.T) {
	f := newTraversalFixture(t, true)
	ctx := context.Background()

	f.graph.On("GetPage", ctx, int64(20)).Return(endingPage(20, 1), nil)
	f.plays.On("RecordEnding", ctx, mock.Anything).Return(true, nil)
	f.sessions.On("Delete", ctx, testReader.SessionKey, int64(1)).Return(nil)

	res, err := f.svc.Advance(ctx, testReader, 20)

	require.NoError(t, err)
	assert.True(t, res.EndingRecorded)
	f.sessions.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
	f.assertExpectations(t)
}

func TestTraversalService_Reset(t *testing.T) {
	f := newTraversalFixture(t, false)
	ctx := context.Background()

	f.sessions.On("Delete", ctx, testReader.SessionKey, int64(1)).Return(nil)
	f.markers.On("ClearForReader", ctx, testReader.SessionKey, int64(1)).Return(nil)

	err := f.svc.Reset(ctx, testReader, 1)

	require.NoError(t, err)
	f.assertExpectations(t)
}

package service

import (
	"context"
	"errors"
	"fmt"

	"story-engine/internal/interfaces"
	"story-engine/internal/models"

	"go.uber.org/zap"
)

// TraversalService orchestrates one traversal turn: it pulls graph data,
// updates the play session and triggers the play recorder on terminal
// pages. Graph state is re-fetched on every step; edits take effect
// immediately for in-flight play-throughs.
type TraversalService interface {
	// Start begins or resumes a play-through of a story. With resume set
	// and an existing session, the reader continues at the saved page; any
	// other case is a fresh run, which clears the reader's ending markers
	// for the story so endings can be counted again.
	Start(ctx context.Context, reader models.Reader, storyID int64, resume bool) (*models.TraversalResult, error)
	// Advance moves the reader to the given page, autosaving progress.
	Advance(ctx context.Context, reader models.Reader, pageID int64) (*models.TraversalResult, error)
	// Choose validates that nextPageID is offered by a choice on pageID
	// and then advances to it; an unoffered destination is rejected with
	// models.ErrInvalidTransition and state stays unchanged.
	Choose(ctx context.Context, reader models.Reader, pageID, nextPageID int64) (*models.TraversalResult, error)
	// Reset deletes the play session and the reader's ending markers for
	// the story, returning the machine to its initial state.
	Reset(ctx context.Context, reader models.Reader, storyID int64) error
}

type traversalServiceImpl struct {
	graph    interfaces.GraphStoreClient
	sessions interfaces.PlaySessionRepository
	markers  interfaces.EndingMarkerRepository
	recorder PlayRecorder
	// endingClearsSession deletes the session on arrival at an ending so
	// the next Start begins a fresh run.
	endingClearsSession bool
	logger              *zap.Logger
}

// NewTraversalService wires the traversal controller.
func NewTraversalService(
	graph interfaces.GraphStoreClient,
	sessions interfaces.PlaySessionRepository,
	markers interfaces.EndingMarkerRepository,
	recorder PlayRecorder,
	endingClearsSession bool,
	logger *zap.Logger,
) TraversalService {
	return &traversalServiceImpl{
		graph:               graph,
		sessions:            sessions,
		markers:             markers,
		recorder:            recorder,
		endingClearsSession: endingClearsSession,
		logger:              logger.Named("TraversalService"),
	}
}

func (s *traversalServiceImpl) Start(ctx context.Context, reader models.Reader, storyID int64, resume bool) (*models.TraversalResult, error) {
	log := s.logger.With(zap.String("sessionKey", reader.SessionKey), zap.Int64("storyID", storyID))

	// The status gate applies regardless of the resume flag.
	story, err := s.graph.GetStory(ctx, storyID)
	if err != nil {
		traversalStepsTotal.WithLabelValues("start", "error").Inc()
		return nil, fmt.Errorf("failed to fetch story: %w", err)
	}
	if story.Status == models.StoryStatusSuspended {
		traversalStepsTotal.WithLabelValues("start", "suspended").Inc()
		log.Info("Traversal refused: story is suspended")
		return nil, models.ErrSuspendedStory
	}

	if resume {
		session, err := s.sessions.Get(ctx, reader.SessionKey, storyID)
		if err == nil {
			log.Debug("Resuming play-through at saved page", zap.Int64("pageID", session.CurrentPageID))
			return s.Advance(ctx, reader, session.CurrentPageID)
		}
		if !errors.Is(err, models.ErrNotFound) {
			traversalStepsTotal.WithLabelValues("start", "error").Inc()
			return nil, fmt.Errorf("failed to load play session: %w", err)
		}
		// No saved session: fall through to a fresh start.
	}

	pw, err := s.graph.GetStartPage(ctx, storyID)
	if err != nil {
		traversalStepsTotal.WithLabelValues("start", "error").Inc()
		if errors.Is(err, models.ErrNotFound) || errors.Is(err, models.ErrNoStartPage) {
			return nil, models.ErrNoStartPage
		}
		return nil, fmt.Errorf("failed to fetch start page: %w", err)
	}

	// Marker and session writes happen only after the graph fetch
	// succeeded, so an unreachable store leaves no partial state. A fresh
	// run must be able to re-count an ending hit in a prior run.
	if err := s.markers.ClearForReader(ctx, reader.SessionKey, storyID); err != nil {
		traversalStepsTotal.WithLabelValues("start", "error").Inc()
		return nil, fmt.Errorf("failed to clear ending markers: %w", err)
	}

	result, err := s.finishStep(ctx, reader, pw)
	if err != nil {
		traversalStepsTotal.WithLabelValues("start", "error").Inc()
		return nil, err
	}
	traversalStepsTotal.WithLabelValues("start", "ok").Inc()
	return result, nil
}

func (s *traversalServiceImpl) Advance(ctx context.Context, reader models.Reader, pageID int64) (*models.TraversalResult, error) {
	pw, err := s.graph.GetPage(ctx, pageID)
	if err != nil {
		traversalStepsTotal.WithLabelValues("advance", "error").Inc()
		return nil, fmt.Errorf("failed to fetch page: %w", err)
	}

	result, err := s.finishStep(ctx, reader, pw)
	if err != nil {
		traversalStepsTotal.WithLabelValues("advance", "error").Inc()
		return nil, err
	}
	traversalStepsTotal.WithLabelValues("advance", "ok").Inc()
	return result, nil
}

func (s *traversalServiceImpl) Choose(ctx context.Context, reader models.Reader, pageID, nextPageID int64) (*models.TraversalResult, error) {
	pw, err := s.graph.GetPage(ctx, pageID)
	if err != nil {
		traversalStepsTotal.WithLabelValues("choose", "error").Inc()
		return nil, fmt.Errorf("failed to fetch current page: %w", err)
	}

	offered := false
	for _, choice := range pw.Choices {
		if choice.NextPageID == nextPageID {
			offered = true
			break
		}
	}
	if !offered {
		traversalStepsTotal.WithLabelValues("choose", "invalid").Inc()
		s.logger.Warn("Rejected unoffered transition",
			zap.String("sessionKey", reader.SessionKey),
			zap.Int64("pageID", pageID),
			zap.Int64("nextPageID", nextPageID))
		return nil, models.ErrInvalidTransition
	}

	return s.Advance(ctx, reader, nextPageID)
}

func (s *traversalServiceImpl) Reset(ctx context.Context, reader models.Reader, storyID int64) error {
	log := s.logger.With(zap.String("sessionKey", reader.SessionKey), zap.Int64("storyID", storyID))

	if err := s.sessions.Delete(ctx, reader.SessionKey, storyID); err != nil {
		traversalStepsTotal.WithLabelValues("reset", "error").Inc()
		return fmt.Errorf("failed to delete play session: %w", err)
	}
	if err := s.markers.ClearForReader(ctx, reader.SessionKey, storyID); err != nil {
		traversalStepsTotal.WithLabelValues("reset", "error").Inc()
		return fmt.Errorf("failed to clear ending markers: %w", err)
	}

	traversalStepsTotal.WithLabelValues("reset", "ok").Inc()
	log.Info("Reset play-through")
	return nil
}

// finishStep applies the engine-side effects of arriving at a page: record
// the ending arrival when the page is terminal, then autosave progress.
// The upsert is idempotent, so a reader who reloads resumes exactly where
// they left off, including at a terminal page.
func (s *traversalServiceImpl) finishStep(ctx context.Context, reader models.Reader, pw *models.PageWithChoices) (*models.TraversalResult, error) {
	result := &models.TraversalResult{
		Page:    pw.Page,
		Choices: pw.Choices,
		Ended:   pw.Page.IsEnding,
	}

	if pw.Page.IsEnding {
		recorded, err := s.recorder.RecordIfNew(ctx, reader, pw.Page.StoryID, pw.Page.ID)
		if err != nil {
			return nil, err
		}
		result.EndingRecorded = recorded

		if s.endingClearsSession {
			if err := s.sessions.Delete(ctx, reader.SessionKey, pw.Page.StoryID); err != nil {
				return nil, fmt.Errorf("failed to clear play session at ending: %w", err)
			}
			return result, nil
		}
	}

	session := &models.PlaySession{
		SessionKey:    reader.SessionKey,
		StoryID:       pw.Page.StoryID,
		CurrentPageID: pw.Page.ID,
		UserID:        reader.UserID,
	}
	if err := s.sessions.Upsert(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save progress: %w", err)
	}

	return result, nil
}

package mocks

import (
	"context"

	"story-engine/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// Mock PlaySessionRepository
type PlaySessionRepository struct {
	mock.Mock
}

func (m *PlaySessionRepository) Upsert(ctx context.Context, session *models.PlaySession) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *PlaySessionRepository) Get(ctx context.Context, sessionKey string, storyID int64) (*models.PlaySession, error) {
	args := m.Called(ctx, sessionKey, storyID)
	session, _ := args.Get(0).(*models.PlaySession)
	return session, args.Error(1)
}

func (m *PlaySessionRepository) Delete(ctx context.Context, sessionKey string, storyID int64) error {
	args := m.Called(ctx, sessionKey, storyID)
	return args.Error(0)
}

func (m *PlaySessionRepository) DeleteByStory(ctx context.Context, storyID int64) error {
	args := m.Called(ctx, storyID)
	return args.Error(0)
}

// Mock PlayRepository
type PlayRepository struct {
	mock.Mock
}

func (m *PlayRepository) RecordEnding(ctx context.Context, play *models.Play) (bool, error) {
	args := m.Called(ctx, play)
	return args.Bool(0), args.Error(1)
}

func (m *PlayRepository) PlaysPerStory(ctx context.Context, scope models.PlayScope) ([]models.StoryPlayCount, error) {
	args := m.Called(ctx, scope)
	counts, _ := args.Get(0).([]models.StoryPlayCount)
	return counts, args.Error(1)
}

func (m *PlayRepository) PlaysPerEnding(ctx context.Context, scope models.PlayScope) ([]models.EndingPlayCount, error) {
	args := m.Called(ctx, scope)
	counts, _ := args.Get(0).([]models.EndingPlayCount)
	return counts, args.Error(1)
}

// Mock EndingMarkerRepository
type EndingMarkerRepository struct {
	mock.Mock
}

func (m *EndingMarkerRepository) ClearForReader(ctx context.Context, sessionKey string, storyID int64) error {
	args := m.Called(ctx, sessionKey, storyID)
	return args.Error(0)
}

func (m *EndingMarkerRepository) DeleteByStory(ctx context.Context, storyID int64) error {
	args := m.Called(ctx, storyID)
	return args.Error(0)
}

// Mock StoryOwnershipRepository
type StoryOwnershipRepository struct {
	mock.Mock
}

func (m *StoryOwnershipRepository) Create(ctx context.Context, storyID int64, ownerID uuid.UUID) error {
	args := m.Called(ctx, storyID, ownerID)
	return args.Error(0)
}

func (m *StoryOwnershipRepository) GetOwner(ctx context.Context, storyID int64) (uuid.UUID, error) {
	args := m.Called(ctx, storyID)
	owner, _ := args.Get(0).(uuid.UUID)
	return owner, args.Error(1)
}

func (m *StoryOwnershipRepository) Delete(ctx context.Context, storyID int64) error {
	args := m.Called(ctx, storyID)
	return args.Error(0)
}

// Mock ReaderSessionRepository
type ReaderSessionRepository struct {
	mock.Mock
}

func (m *ReaderSessionRepository) Touch(ctx context.Context, sessionKey string, userID *uuid.UUID) error {
	args := m.Called(ctx, sessionKey, userID)
	return args.Error(0)
}

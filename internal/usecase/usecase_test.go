package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"cvchef-backend/internal/domain"
	"cvchef-backend/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// Mock Repositories
type MockResumeRepo struct {
	mock.Mock
}

func (m *MockResumeRepo) Create(ctx context.Context, ownerID string, fields domain.ResumeFields) (*domain.Resume, error) {
	args := m.Called(ctx, ownerID, fields)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Resume), args.Error(1)
}

func (m *MockResumeRepo) ListByOwner(ctx context.Context, ownerID string) ([]domain.Resume, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Resume), args.Error(1)
}

func (m *MockResumeRepo) GetByID(ctx context.Context, id string) (*domain.Resume, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Resume), args.Error(1)
}

func (m *MockResumeRepo) Update(ctx context.Context, id string, fields domain.ResumeFields, expectedRevision *int64) (int64, error) {
	args := m.Called(ctx, id, fields, expectedRevision)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockResumeRepo) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type MockCompletionService struct {
	mock.Mock
}

func (m *MockCompletionService) ChatCompletion(ctx context.Context, history []domain.ChatMessage) (string, error) {
	args := m.Called(ctx, history)
	return args.String(0), args.Error(1)
}

func (m *MockCompletionService) ATSCompare(ctx context.Context, resumeText, jobDescription string) (string, error) {
	args := m.Called(ctx, resumeText, jobDescription)
	return args.String(0), args.Error(1)
}

type MockRenderer struct {
	mock.Mock
}

func (m *MockRenderer) RenderPDF(ctx context.Context, resume domain.ResumeFields) ([]byte, error) {
	args := m.Called(ctx, resume)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

type MockArchiver struct {
	mock.Mock
}

func (m *MockArchiver) Put(ctx context.Context, key string, body []byte, contentType string) error {
	return m.Called(ctx, key, body, contentType).Error(0)
}

func assertAppError(t *testing.T, err error, code int, message string) {
	t.Helper()
	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr), "expected *apperror.AppError, got %v", err)
	assert.Equal(t, code, appErr.Code)
	assert.Equal(t, message, appErr.Message)
}

func storedResume(id, owner string) *domain.Resume {
	return &domain.Resume{
		ID:           id,
		OwnerID:      owner,
		ResumeFields: domain.NewResumeFields("Backend Engineer"),
		Revision:     1,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
}

const validFeedbackJSON = `{
  "overallScore": 81,
  "summary": "Strong match",
  "keywordAnalysis": {"jdKeywords": ["Go", "Kubernetes"], "resumeKeywords": ["Go"], "matchedKeywords": ["Go"], "missingKeywords": ["Kubernetes"]},
  "strengths": ["Go depth"],
  "areasForImprovement": ["Mention Kubernetes"],
  "detailedSuggestions": [{"section": "Skills", "suggestion": "Add Kubernetes", "originalText": "Go", "suggestedText": "Go Kubernetes"}]
}`

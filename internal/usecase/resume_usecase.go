package usecase

import (
	"context"
	"errors"
	"strings"

	"cvchef-backend/internal/domain"
	"cvchef-backend/internal/editor"
	"cvchef-backend/pkg/apperror"
	"cvchef-backend/pkg/logger"
)

const (
	msgNotAuthenticated = "User not authenticated"
	msgResumeNotFound   = "Resume not found"
	msgRevisionConflict = "Resume was modified by another session"
)

type resumeUsecase struct {
	repo domain.ResumeRepository
}

func NewResumeUsecase(repo domain.ResumeRepository) domain.ResumeUsecase {
	return &resumeUsecase{repo: repo}
}

func (u *resumeUsecase) Create(ctx context.Context, userID, title string) (string, error) {
	if userID == "" {
		return "", apperror.Unauthorized(msgNotAuthenticated)
	}
	if strings.TrimSpace(title) == "" {
		return "", apperror.BadRequest("Title is required")
	}

	resume, err := u.repo.Create(ctx, userID, domain.NewResumeFields(title))
	if err != nil {
		return "", apperror.Internal(err)
	}
	logger.Log.Info("Resume created", "resume_id", resume.ID, "user_id", userID)
	return resume.ID, nil
}

// List returns the caller's resumes, most recent first. Anonymous callers
// get an empty list rather than an error.
func (u *resumeUsecase) List(ctx context.Context, userID string) ([]domain.Resume, error) {
	if userID == "" {
		return []domain.Resume{}, nil
	}
	resumes, err := u.repo.ListByOwner(ctx, userID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return resumes, nil
}

func (u *resumeUsecase) Get(ctx context.Context, userID, id string) (*domain.Resume, error) {
	return u.owned(ctx, userID, id, "view")
}

// maxPatchAttempts bounds re-merging when a concurrent writer bumps the
// revision between read and write.
const maxPatchAttempts = 3

// Update merges the present fields onto the stored resume and normalises the
// result the same way an editor save does. Without an expected revision the
// merge is retried against fresh data on a concurrent write, so fields the
// caller did not send are never rolled back.
func (u *resumeUsecase) Update(ctx context.Context, userID, id string, patch domain.ResumePatch, expectedRevision *int64) (string, error) {
	for attempt := 1; ; attempt++ {
		stored, err := u.owned(ctx, userID, id, "update")
		if err != nil {
			return "", err
		}
		if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
			return "", apperror.BadRequest("Title is required")
		}
		if patch.Empty() {
			return id, nil
		}

		guard := expectedRevision
		if guard == nil {
			rev := stored.Revision
			guard = &rev
		}

		committed := editor.FromFields(patch.ApplyTo(stored.ResumeFields)).Commit()
		_, err = u.repo.Update(ctx, id, committed, guard)
		if err == nil {
			return id, nil
		}
		if expectedRevision == nil && errors.Is(err, domain.ErrRevisionConflict) && attempt < maxPatchAttempts {
			logger.Log.Debug("Retrying resume patch after concurrent write", "resume_id", id, "attempt", attempt)
			continue
		}
		return "", mapRepoError(err)
	}
}

func (u *resumeUsecase) Delete(ctx context.Context, userID, id string) (string, error) {
	if _, err := u.owned(ctx, userID, id, "delete"); err != nil {
		return "", err
	}
	if err := u.repo.Delete(ctx, id); err != nil {
		return "", mapRepoError(err)
	}
	logger.Log.Info("Resume deleted", "resume_id", id, "user_id", userID)
	return id, nil
}

// owned loads a resume and checks that userID created it.
func (u *resumeUsecase) owned(ctx context.Context, userID, id, action string) (*domain.Resume, error) {
	if userID == "" {
		return nil, apperror.Unauthorized(msgNotAuthenticated)
	}
	resume, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err)
	}
	if resume.OwnerID != userID {
		logger.Log.Warn("Resume access denied", "resume_id", id, "user_id", userID, "action", action)
		return nil, apperror.Forbidden("User not authorized to " + action + " this resume")
	}
	return resume, nil
}

func mapRepoError(err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return apperror.NotFound(msgResumeNotFound)
	case errors.Is(err, domain.ErrRevisionConflict):
		return apperror.Conflict(msgRevisionConflict)
	default:
		return apperror.Internal(err)
	}
}

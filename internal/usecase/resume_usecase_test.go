package usecase_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"cvchef-backend/internal/domain"
	"cvchef-backend/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestResumeCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("Should reject anonymous caller", func(t *testing.T) {
		repo := new(MockResumeRepo)
		uc := usecase.NewResumeUsecase(repo)

		_, err := uc.Create(ctx, "", "CV")
		assertAppError(t, err, http.StatusUnauthorized, "User not authenticated")
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Should create with empty collections", func(t *testing.T) {
		repo := new(MockResumeRepo)
		uc := usecase.NewResumeUsecase(repo)

		repo.On("Create", ctx, "user-1", domain.NewResumeFields("Backend Engineer")).
			Return(storedResume("r-1", "user-1"), nil).Once()

		id, err := uc.Create(ctx, "user-1", "Backend Engineer")
		require.NoError(t, err)
		assert.Equal(t, "r-1", id)
		repo.AssertExpectations(t)
	})
}

func TestResumeList(t *testing.T) {
	ctx := context.Background()

	t.Run("Anonymous caller gets an empty list", func(t *testing.T) {
		repo := new(MockResumeRepo)
		uc := usecase.NewResumeUsecase(repo)

		list, err := uc.List(ctx, "")
		require.NoError(t, err)
		assert.NotNil(t, list)
		assert.Empty(t, list)
		repo.AssertNotCalled(t, "ListByOwner", mock.Anything, mock.Anything)
	})

	t.Run("Owner gets their resumes", func(t *testing.T) {
		repo := new(MockResumeRepo)
		uc := usecase.NewResumeUsecase(repo)
		repo.On("ListByOwner", ctx, "user-1").Return([]domain.Resume{*storedResume("r-2", "user-1"), *storedResume("r-1", "user-1")}, nil)

		list, err := uc.List(ctx, "user-1")
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, "r-2", list[0].ID)
	})
}

func TestResumeOwnership(t *testing.T) {
	ctx := context.Background()
	repo := new(MockResumeRepo)
	uc := usecase.NewResumeUsecase(repo)
	repo.On("GetByID", ctx, "r-1").Return(storedResume("r-1", "owner"), nil)
	repo.On("GetByID", ctx, "missing").Return(nil, domain.ErrNotFound)

	t.Run("Get by another user is forbidden", func(t *testing.T) {
		_, err := uc.Get(ctx, "intruder", "r-1")
		assertAppError(t, err, http.StatusForbidden, "User not authorized to view this resume")
	})

	t.Run("Update by another user is forbidden", func(t *testing.T) {
		_, err := uc.Update(ctx, "intruder", "r-1", domain.ResumePatch{Title: strPtr("x")}, nil)
		assertAppError(t, err, http.StatusForbidden, "User not authorized to update this resume")
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Delete by another user is forbidden", func(t *testing.T) {
		_, err := uc.Delete(ctx, "intruder", "r-1")
		assertAppError(t, err, http.StatusForbidden, "User not authorized to delete this resume")
		repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("Missing resume is 404", func(t *testing.T) {
		_, err := uc.Get(ctx, "owner", "missing")
		assertAppError(t, err, http.StatusNotFound, "Resume not found")
	})

	t.Run("Anonymous get is 401", func(t *testing.T) {
		_, err := uc.Get(ctx, "", "r-1")
		assertAppError(t, err, http.StatusUnauthorized, "User not authenticated")
	})
}

func strPtr(s string) *string { return &s }

// richResume is a stored resume with content in every section.
func richResume() *domain.Resume {
	r := storedResume("r-1", "owner")
	r.Summary = "Seasoned"
	r.Skills = []string{"Go"}
	r.Experience = []domain.Experience{{ID: "e1", JobTitle: "Eng", Responsibilities: []string{"Built X"}}}
	r.Education = []domain.Education{{ID: "ed1", Institution: "MIT"}}
	return r
}

func TestResumeUpdate(t *testing.T) {
	ctx := context.Background()
	one := int64(1)

	t.Run("Omitted fields keep their stored values", func(t *testing.T) {
		repo := new(MockResumeRepo)
		uc := usecase.NewResumeUsecase(repo)
		repo.On("GetByID", ctx, "r-1").Return(richResume(), nil)
		repo.On("Update", ctx, "r-1", mock.MatchedBy(func(f domain.ResumeFields) bool {
			return f.Title == "Renamed" &&
				f.Summary == "Seasoned" &&
				assert.ObjectsAreEqual([]string{"Go"}, f.Skills) &&
				len(f.Experience) == 1 && f.Experience[0].ID == "e1" &&
				assert.ObjectsAreEqual([]string{"Built X"}, f.Experience[0].Responsibilities) &&
				len(f.Education) == 1
		}), &one).Return(int64(2), nil).Once()

		id, err := uc.Update(ctx, "owner", "r-1", domain.ResumePatch{Title: strPtr("Renamed")}, nil)
		require.NoError(t, err)
		assert.Equal(t, "r-1", id)
		repo.AssertExpectations(t)
	})

	t.Run("Explicit empty list clears the section", func(t *testing.T) {
		repo := new(MockResumeRepo)
		uc := usecase.NewResumeUsecase(repo)
		repo.On("GetByID", ctx, "r-1").Return(richResume(), nil)
		repo.On("Update", ctx, "r-1", mock.MatchedBy(func(f domain.ResumeFields) bool {
			return len(f.Skills) == 0 && f.Summary == "Seasoned"
		}), &one).Return(int64(2), nil).Once()

		_, err := uc.Update(ctx, "owner", "r-1", domain.ResumePatch{Skills: &[]string{}}, nil)
		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("Should normalise merged fields before saving", func(t *testing.T) {
		repo := new(MockResumeRepo)
		uc := usecase.NewResumeUsecase(repo)
		repo.On("GetByID", ctx, "r-1").Return(storedResume("r-1", "owner"), nil)

		experience := []domain.Experience{{JobTitle: "Eng", Responsibilities: []string{"Built X", "  "}}}
		custom := []domain.CustomSection{{SubSections: []domain.CustomSubSection{{}, {Content: "kept"}}}}

		repo.On("Update", ctx, "r-1", mock.MatchedBy(func(f domain.ResumeFields) bool {
			return len(f.Experience) == 1 &&
				f.Experience[0].ID != "" &&
				assert.ObjectsAreEqual([]string{"Built X"}, f.Experience[0].Responsibilities) &&
				f.CustomSections[0].Title == domain.DefaultCustomSectionTitle &&
				len(f.CustomSections[0].SubSections) == 1
		}), &one).Return(int64(2), nil).Once()

		_, err := uc.Update(ctx, "owner", "r-1", domain.ResumePatch{Experience: &experience, CustomSections: &custom}, nil)
		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("Concurrent write is merged again", func(t *testing.T) {
		repo := new(MockResumeRepo)
		uc := usecase.NewResumeUsecase(repo)

		fresh := richResume()
		fresh.Revision = 2
		fresh.Summary = "Updated elsewhere"
		two := int64(2)
		repo.On("GetByID", ctx, "r-1").Return(richResume(), nil).Once()
		repo.On("GetByID", ctx, "r-1").Return(fresh, nil).Once()
		repo.On("Update", ctx, "r-1", mock.Anything, &one).Return(int64(0), domain.ErrRevisionConflict).Once()
		repo.On("Update", ctx, "r-1", mock.MatchedBy(func(f domain.ResumeFields) bool {
			return f.Title == "Renamed" && f.Summary == "Updated elsewhere"
		}), &two).Return(int64(3), nil).Once()

		_, err := uc.Update(ctx, "owner", "r-1", domain.ResumePatch{Title: strPtr("Renamed")}, nil)
		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("Blank title is rejected", func(t *testing.T) {
		repo := new(MockResumeRepo)
		uc := usecase.NewResumeUsecase(repo)
		repo.On("GetByID", ctx, "r-1").Return(richResume(), nil)

		_, err := uc.Update(ctx, "owner", "r-1", domain.ResumePatch{Title: strPtr("  ")}, nil)
		assertAppError(t, err, http.StatusBadRequest, "Title is required")
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Stale client revision is a conflict", func(t *testing.T) {
		repo := new(MockResumeRepo)
		uc := usecase.NewResumeUsecase(repo)
		repo.On("GetByID", ctx, "r-1").Return(storedResume("r-1", "owner"), nil)
		rev := int64(1)
		repo.On("Update", ctx, "r-1", mock.Anything, &rev).Return(int64(0), domain.ErrRevisionConflict).Once()

		_, err := uc.Update(ctx, "owner", "r-1", domain.ResumePatch{Title: strPtr("CV")}, &rev)
		assertAppError(t, err, http.StatusConflict, "Resume was modified by another session")
		repo.AssertNumberOfCalls(t, "Update", 1)
	})

	t.Run("Database failure is internal", func(t *testing.T) {
		repo := new(MockResumeRepo)
		uc := usecase.NewResumeUsecase(repo)
		repo.On("GetByID", ctx, "r-1").Return(nil, errors.New("connection reset"))

		_, err := uc.Update(ctx, "owner", "r-1", domain.ResumePatch{Title: strPtr("CV")}, nil)
		assertAppError(t, err, http.StatusInternalServerError, "Internal Server Error")
	})
}

func TestResumeDelete(t *testing.T) {
	ctx := context.Background()
	repo := new(MockResumeRepo)
	uc := usecase.NewResumeUsecase(repo)
	repo.On("GetByID", ctx, "r-1").Return(storedResume("r-1", "owner"), nil)
	repo.On("Delete", ctx, "r-1").Return(nil).Once()

	id, err := uc.Delete(ctx, "owner", "r-1")
	require.NoError(t, err)
	assert.Equal(t, "r-1", id)
	repo.AssertExpectations(t)
}

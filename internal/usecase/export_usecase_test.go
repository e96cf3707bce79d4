package usecase_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"cvchef-backend/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestExport(t *testing.T) {
	ctx := context.Background()
	pdf := []byte("%PDF-1.4 fake")

	setup := func() (*MockResumeRepo, *MockRenderer, *MockArchiver) {
		repo := new(MockResumeRepo)
		resume := storedResume("r-1", "owner")
		resume.Title = "Senior  Go Engineer"
		repo.On("GetByID", ctx, "r-1").Return(resume, nil)
		return repo, new(MockRenderer), new(MockArchiver)
	}

	t.Run("Renders and archives the persisted resume", func(t *testing.T) {
		repo, r, archiver := setup()
		r.On("RenderPDF", ctx, mock.Anything).Return(pdf, nil).Once()
		archiver.On("Put", ctx, "exports/owner/r-1/Senior_Go_Engineer.pdf", pdf, "application/pdf").Return(nil).Once()

		uc := usecase.NewExportUsecase(usecase.NewResumeUsecase(repo), r, archiver)
		data, filename, err := uc.Export(ctx, "owner", "r-1")
		require.NoError(t, err)
		assert.Equal(t, pdf, data)
		assert.Equal(t, "Senior_Go_Engineer.pdf", filename)
		archiver.AssertExpectations(t)
	})

	t.Run("Archive failure does not fail the export", func(t *testing.T) {
		repo, r, archiver := setup()
		r.On("RenderPDF", ctx, mock.Anything).Return(pdf, nil).Once()
		archiver.On("Put", ctx, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("bucket gone")).Once()

		uc := usecase.NewExportUsecase(usecase.NewResumeUsecase(repo), r, archiver)
		_, _, err := uc.Export(ctx, "owner", "r-1")
		assert.NoError(t, err)
	})

	t.Run("Render failure is generic", func(t *testing.T) {
		repo, r, _ := setup()
		r.On("RenderPDF", ctx, mock.Anything).Return(nil, errors.New("chrome crashed")).Once()

		uc := usecase.NewExportUsecase(usecase.NewResumeUsecase(repo), r, nil)
		_, _, err := uc.Export(ctx, "owner", "r-1")
		assertAppError(t, err, http.StatusInternalServerError, "Failed to export resume. Please try again.")
	})

	t.Run("Other users cannot export", func(t *testing.T) {
		repo, r, _ := setup()
		uc := usecase.NewExportUsecase(usecase.NewResumeUsecase(repo), r, nil)
		_, _, err := uc.Export(ctx, "intruder", "r-1")
		assertAppError(t, err, http.StatusForbidden, "User not authorized to view this resume")
		r.AssertNotCalled(t, "RenderPDF", mock.Anything, mock.Anything)
	})
}

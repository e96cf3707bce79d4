package usecase

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"cvchef-backend/internal/domain"
	"cvchef-backend/pkg/apperror"
	"cvchef-backend/pkg/logger"
	"cvchef-backend/pkg/renderer"
)

const msgExportFailed = "Failed to export resume. Please try again."

type exportUsecase struct {
	resumes  domain.ResumeUsecase
	renderer domain.DocumentRenderer
	archiver domain.ExportArchiver
}

// NewExportUsecase wires the PDF pipeline. archiver may be nil, in which
// case exports are not archived.
func NewExportUsecase(resumes domain.ResumeUsecase, r domain.DocumentRenderer, archiver domain.ExportArchiver) domain.ExportUsecase {
	return &exportUsecase{resumes: resumes, renderer: r, archiver: archiver}
}

// Export renders the persisted resume, not any open working copy.
func (u *exportUsecase) Export(ctx context.Context, userID, resumeID string) ([]byte, string, error) {
	resume, err := u.resumes.Get(ctx, userID, resumeID)
	if err != nil {
		return nil, "", err
	}

	start := time.Now()
	pdf, err := u.renderer.RenderPDF(ctx, resume.ResumeFields)
	if err != nil {
		logger.Log.Error("Resume export failed", "resume_id", resumeID, "error", err)
		return nil, "", apperror.New(http.StatusInternalServerError, msgExportFailed, err)
	}

	filename := renderer.Filename(resume.Title)
	logger.Log.Info("Resume exported", "resume_id", resumeID, "bytes", len(pdf), "duration_ms", time.Since(start).Milliseconds())

	if u.archiver != nil {
		key := fmt.Sprintf("exports/%s/%s/%s", resume.OwnerID, resume.ID, filename)
		if err := u.archiver.Put(ctx, key, pdf, "application/pdf"); err != nil {
			logger.Log.Warn("Failed to archive export", "key", key, "error", err)
		}
	}
	return pdf, filename, nil
}

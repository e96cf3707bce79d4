package domain

import "context"

// DocumentRenderer turns resume fields into a single-page PDF.
type DocumentRenderer interface {
	RenderPDF(ctx context.Context, resume ResumeFields) ([]byte, error)
}

// ExportArchiver keeps a copy of exported documents.
type ExportArchiver interface {
	Put(ctx context.Context, key string, body []byte, contentType string) error
}

// ExportUsecase renders a persisted resume into a downloadable PDF.
type ExportUsecase interface {
	Export(ctx context.Context, userID, resumeID string) ([]byte, string, error)
}

package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"cvchef-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

type resumeRepo struct {
	db *pgxpool.Pool
}

func NewResumeRepository(db *pgxpool.Pool) domain.ResumeRepository {
	return &resumeRepo{db: db}
}

const resumeColumns = `id, owner_id, title, summary, personal_info, experience, education, skills, custom_sections, revision, created_at, updated_at`

// documentParams encodes the nested collections as jsonb text parameters.
type documentParams struct {
	personalInfo   string
	experience     string
	education      string
	customSections string
	skills         []string
}

func encodeDocument(f domain.ResumeFields) (*documentParams, error) {
	enc := func(v interface{}) (string, error) {
		b, err := json.Marshal(v)
		return string(b), err
	}
	var p documentParams
	var err error
	if p.personalInfo, err = enc(f.PersonalInfo); err != nil {
		return nil, fmt.Errorf("encode personal info: %w", err)
	}
	if p.experience, err = enc(nonNil(f.Experience)); err != nil {
		return nil, fmt.Errorf("encode experience: %w", err)
	}
	if p.education, err = enc(nonNil(f.Education)); err != nil {
		return nil, fmt.Errorf("encode education: %w", err)
	}
	if p.customSections, err = enc(nonNil(f.CustomSections)); err != nil {
		return nil, fmt.Errorf("encode custom sections: %w", err)
	}
	p.skills = nonNil(f.Skills)
	return &p, nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanResume(row rowScanner) (*domain.Resume, error) {
	var (
		r                                           domain.Resume
		personalInfo, experience, education, custom []byte
		skills                                      []string
	)
	err := row.Scan(
		&r.ID, &r.OwnerID, &r.Title, &r.Summary,
		&personalInfo, &experience, &education, pq.Array(&skills), &custom,
		&r.Revision, &r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	for _, col := range []struct {
		name string
		raw  []byte
		dst  interface{}
	}{
		{"personal_info", personalInfo, &r.PersonalInfo},
		{"experience", experience, &r.Experience},
		{"education", education, &r.Education},
		{"custom_sections", custom, &r.CustomSections},
	} {
		if len(col.raw) == 0 {
			continue
		}
		if err := json.Unmarshal(col.raw, col.dst); err != nil {
			return nil, fmt.Errorf("decode %s: %w", col.name, err)
		}
	}
	r.Experience = nonNil(r.Experience)
	r.Education = nonNil(r.Education)
	r.CustomSections = nonNil(r.CustomSections)
	r.Skills = nonNil(skills)
	return &r, nil
}

func (r *resumeRepo) Create(ctx context.Context, ownerID string, fields domain.ResumeFields) (*domain.Resume, error) {
	p, err := encodeDocument(fields)
	if err != nil {
		return nil, err
	}
	query := `INSERT INTO resumes (owner_id, title, summary, personal_info, experience, education, skills, custom_sections)
              VALUES ($1, $2, $3, $4::jsonb, $5::jsonb, $6::jsonb, $7, $8::jsonb)
              RETURNING ` + resumeColumns
	return scanResume(r.db.QueryRow(ctx, query,
		ownerID, fields.Title, fields.Summary,
		p.personalInfo, p.experience, p.education, pq.Array(p.skills), p.customSections,
	))
}

func (r *resumeRepo) ListByOwner(ctx context.Context, ownerID string) ([]domain.Resume, error) {
	query := `SELECT ` + resumeColumns + ` FROM resumes WHERE owner_id = $1 ORDER BY updated_at DESC, created_at DESC`
	rows, err := r.db.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	resumes := []domain.Resume{}
	for rows.Next() {
		res, err := scanResume(rows)
		if err != nil {
			return nil, err
		}
		resumes = append(resumes, *res)
	}
	return resumes, rows.Err()
}

func (r *resumeRepo) GetByID(ctx context.Context, id string) (*domain.Resume, error) {
	// Malformed ids can never match a uuid primary key.
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrNotFound
	}
	query := `SELECT ` + resumeColumns + ` FROM resumes WHERE id = $1`
	res, err := scanResume(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return res, err
}

func (r *resumeRepo) Update(ctx context.Context, id string, fields domain.ResumeFields, expectedRevision *int64) (int64, error) {
	if _, err := uuid.Parse(id); err != nil {
		return 0, domain.ErrNotFound
	}
	p, err := encodeDocument(fields)
	if err != nil {
		return 0, err
	}

	query := `UPDATE resumes
              SET title = $2, summary = $3, personal_info = $4::jsonb, experience = $5::jsonb,
                  education = $6::jsonb, skills = $7, custom_sections = $8::jsonb,
                  revision = revision + 1, updated_at = NOW()
              WHERE id = $1 AND ($9::bigint IS NULL OR revision = $9::bigint)
              RETURNING revision`

	var revision int64
	err = r.db.QueryRow(ctx, query,
		id, fields.Title, fields.Summary,
		p.personalInfo, p.experience, p.education, pq.Array(p.skills), p.customSections,
		expectedRevision,
	).Scan(&revision)
	if err == nil {
		return revision, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, err
	}
	if expectedRevision == nil {
		return 0, domain.ErrNotFound
	}

	// Distinguish a stale revision from a missing row.
	var exists bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM resumes WHERE id = $1)`, id).Scan(&exists); err != nil {
		return 0, err
	}
	if exists {
		return 0, domain.ErrRevisionConflict
	}
	return 0, domain.ErrNotFound
}

func (r *resumeRepo) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return domain.ErrNotFound
	}
	tag, err := r.db.Exec(ctx, `DELETE FROM resumes WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

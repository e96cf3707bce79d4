package domain

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound         = errors.New("resource not found")
	ErrRevisionConflict = errors.New("revision conflict")
)

// DefaultCustomSectionTitle is used when a custom section is saved without a title.
const DefaultCustomSectionTitle = "Custom Section"

// PersonalInfo fields are all optional; an empty record serialises as {}.
type PersonalInfo struct {
	FullName    string `json:"fullName,omitempty"`
	Email       string `json:"email,omitempty"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
	LinkedIn    string `json:"linkedin,omitempty"`
	GitHub      string `json:"github,omitempty"`
	Portfolio   string `json:"portfolio,omitempty"`
	Address     string `json:"address,omitempty"`
}

type Experience struct {
	ID               string   `json:"id"`
	JobTitle         string   `json:"jobTitle"`
	Company          string   `json:"company"`
	Location         string   `json:"location"`
	StartDate        string   `json:"startDate"`
	EndDate          string   `json:"endDate"`
	Responsibilities []string `json:"responsibilities"`
}

type Education struct {
	ID             string `json:"id"`
	Institution    string `json:"institution"`
	Degree         string `json:"degree"`
	FieldOfStudy   string `json:"fieldOfStudy"`
	GraduationDate string `json:"graduationDate"`
	GPA            string `json:"gpa"`
}

type CustomSubSection struct {
	ID       string `json:"id"`
	Subtitle string `json:"subtitle"`
	Content  string `json:"content"`
}

type CustomSection struct {
	ID          string             `json:"id"`
	Title       string             `json:"title"`
	Subtitle    string             `json:"subtitle"`
	Content     string             `json:"content"`
	SubSections []CustomSubSection `json:"subsections"`
}

// ResumeFields is the editable part of a resume and the payload of a save.
type ResumeFields struct {
	Title          string          `json:"title"`
	PersonalInfo   PersonalInfo    `json:"personalInfo"`
	Experience     []Experience    `json:"experience"`
	Education      []Education     `json:"education"`
	Skills         []string        `json:"skills"`
	Summary        string          `json:"summary"`
	CustomSections []CustomSection `json:"customSections"`
}

type Resume struct {
	ID      string `json:"id"`
	OwnerID string `json:"ownerId"`
	ResumeFields
	Revision  int64     `json:"revision"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewResumeFields returns an empty resume carrying only a title.
func NewResumeFields(title string) ResumeFields {
	return ResumeFields{
		Title:          title,
		Experience:     []Experience{},
		Education:      []Education{},
		Skills:         []string{},
		CustomSections: []CustomSection{},
	}
}

type CreateResumeRequest struct {
	Title string `json:"title" binding:"required,not_blank,max=200"`
}

// ResumePatch carries the fields a client sends on update. Absent (nil)
// fields keep their stored value; an explicit empty value clears it.
type ResumePatch struct {
	Title          *string          `json:"title,omitempty" binding:"omitempty,max=200"`
	PersonalInfo   *PersonalInfo    `json:"personalInfo,omitempty"`
	Experience     *[]Experience    `json:"experience,omitempty"`
	Education      *[]Education     `json:"education,omitempty"`
	Skills         *[]string        `json:"skills,omitempty"`
	Summary        *string          `json:"summary,omitempty"`
	CustomSections *[]CustomSection `json:"customSections,omitempty"`
}

// Empty reports whether the patch changes nothing.
func (p ResumePatch) Empty() bool {
	return p.Title == nil && p.PersonalInfo == nil && p.Experience == nil && p.Education == nil &&
		p.Skills == nil && p.Summary == nil && p.CustomSections == nil
}

// ApplyTo returns base with the present fields replaced.
func (p ResumePatch) ApplyTo(base ResumeFields) ResumeFields {
	out := base
	if p.Title != nil {
		out.Title = *p.Title
	}
	if p.PersonalInfo != nil {
		out.PersonalInfo = *p.PersonalInfo
	}
	if p.Experience != nil {
		out.Experience = *p.Experience
	}
	if p.Education != nil {
		out.Education = *p.Education
	}
	if p.Skills != nil {
		out.Skills = *p.Skills
	}
	if p.Summary != nil {
		out.Summary = *p.Summary
	}
	if p.CustomSections != nil {
		out.CustomSections = *p.CustomSections
	}
	return out
}

type UpdateResumeRequest struct {
	ResumePatch
	// Revision enables an optimistic concurrency check when set.
	Revision *int64 `json:"revision,omitempty"`
}

type ResumeRepository interface {
	Create(ctx context.Context, ownerID string, fields ResumeFields) (*Resume, error)
	ListByOwner(ctx context.Context, ownerID string) ([]Resume, error)
	GetByID(ctx context.Context, id string) (*Resume, error)
	// Update replaces every editable field. With expectedRevision set, the write
	// only happens if the stored revision still matches.
	Update(ctx context.Context, id string, fields ResumeFields, expectedRevision *int64) (int64, error)
	Delete(ctx context.Context, id string) error
}

type ResumeUsecase interface {
	Create(ctx context.Context, userID, title string) (string, error)
	List(ctx context.Context, userID string) ([]Resume, error)
	Get(ctx context.Context, userID, id string) (*Resume, error)
	// Update merges patch onto the stored fields.
	Update(ctx context.Context, userID, id string, patch ResumePatch, expectedRevision *int64) (string, error)
	Delete(ctx context.Context, userID, id string) (string, error)
}

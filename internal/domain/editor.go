package domain

import (
	"context"
	"time"
)

// Editor sections addressable by list operations.
const (
	SectionExperience     = "experience"
	SectionEducation      = "education"
	SectionCustomSections = "customSections"
	SectionSkills         = "skills"
)

// Edit operation kinds.
const (
	OpSetScalar            = "setScalar"
	OpSetListItemField     = "setListItemField"
	OpSetResponsibility    = "setResponsibility"
	OpSetSkills            = "setSkills"
	OpAddItem              = "addItem"
	OpRemoveItem           = "removeItem"
	OpMoveItem             = "moveItem"
	OpAddResponsibility    = "addResponsibility"
	OpRemoveResponsibility = "removeResponsibility"
	OpAddSubSection        = "addSubSection"
	OpRemoveSubSection     = "removeSubSection"
	OpSetSubSectionField   = "setSubSectionField"
)

// EditOp is one form edit addressed at the working copy. Index is the
// position of the list item, SubIndex the position inside it.
type EditOp struct {
	Op       string `json:"op" binding:"required,oneof=setScalar setListItemField setResponsibility setSkills addItem removeItem moveItem addResponsibility removeResponsibility addSubSection removeSubSection setSubSectionField"`
	Path     string `json:"path,omitempty"`
	Section  string `json:"section,omitempty" binding:"omitempty,editor_section"`
	Index    int    `json:"index"`
	SubIndex int    `json:"subIndex"`
	To       int    `json:"to"`
	Field    string `json:"field,omitempty"`
	Value    string `json:"value"`
}

type ApplyOpsRequest struct {
	Ops []EditOp `json:"ops" binding:"required,min=1,max=200,dive"`
}

type ApplyOpsResult struct {
	Applied []bool      `json:"applied"`
	Session SessionView `json:"session"`
}

type ChatTurnRequest struct {
	Message string `json:"message" binding:"required,not_blank,max=4000"`
}

type ATSSessionRequest struct {
	JobDescription string `json:"jobDescription"`
}

// SessionView is what the client renders for an open editor.
type SessionView struct {
	SessionID      string           `json:"sessionId"`
	ResumeID       string           `json:"resumeId"`
	Draft          ResumeFields     `json:"draft"`
	ContextSummary string           `json:"contextSummary"`
	Revision       uint64           `json:"revision"`
	BaseRevision   int64            `json:"baseRevision"`
	Transcript     []ChatMessage    `json:"transcript"`
	Feedback       *ATSFeedbackView `json:"feedback"`
	UpdatedAt      time.Time        `json:"updatedAt"`
}

type ChatTurnResult struct {
	Reply      ChatMessage   `json:"reply"`
	Failed     bool          `json:"failed"`
	Transcript []ChatMessage `json:"transcript"`
}

type EditorUsecase interface {
	Open(ctx context.Context, userID, resumeID string) (*SessionView, error)
	View(ctx context.Context, userID, sessionID string) (*SessionView, error)
	Apply(ctx context.Context, userID, sessionID string, ops []EditOp) (*ApplyOpsResult, error)
	Save(ctx context.Context, userID, sessionID string) (*SessionView, error)
	Close(ctx context.Context, userID, sessionID string) error
	AnalyzeATS(ctx context.Context, userID, sessionID, jobDescription string) (*ATSFeedbackView, error)
	Feedback(ctx context.Context, userID, sessionID string) (*ATSFeedbackView, error)
	Chat(ctx context.Context, userID, sessionID, message string) (*ChatTurnResult, error)
}

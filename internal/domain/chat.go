package domain

import "context"

type ChatRole string

const (
	RoleUser      ChatRole = "user"
	RoleAssistant ChatRole = "assistant"
	RoleSystem    ChatRole = "system"
)

// ResumeContextPrefix marks the system entry carrying the flattened resume.
const ResumeContextPrefix = "Current resume context:"

type ChatMessage struct {
	Role    ChatRole `json:"role"`
	Content string   `json:"content"`
}

// CompletionService is the hosted text-generation collaborator.
type CompletionService interface {
	ChatCompletion(ctx context.Context, history []ChatMessage) (string, error)
	// ATSCompare returns the raw model output; callers validate its shape.
	ATSCompare(ctx context.Context, resumeText, jobDescription string) (string, error)
}

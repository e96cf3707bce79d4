// Package assistant keeps the chat transcript between a user and the
// resume assistant.
package assistant

import (
	"context"
	"strings"

	"cvchef-backend/internal/domain"
)

const (
	Greeting       = "Hello! I'm CVChef's AI Assistant. How can I help you with your resume or job search today?"
	KickoffMessage = "Here's my current resume draft. Can you give me some feedback or help me improve it?"
	fallbackError  = "Could not connect to AI assistant."
)

// Conversation is an append-only transcript. It is not safe for concurrent
// use; the owning session serialises turns.
type Conversation struct {
	entries []domain.ChatMessage
	pending bool
}

// Start opens a transcript with the greeting. A non-empty resume context is
// injected once as a system entry followed by a request for feedback, which
// leaves a reply pending.
func Start(resumeContext string) *Conversation {
	c := &Conversation{
		entries: []domain.ChatMessage{{Role: domain.RoleAssistant, Content: Greeting}},
	}
	if strings.TrimSpace(resumeContext) != "" {
		c.entries = append(c.entries,
			domain.ChatMessage{Role: domain.RoleSystem, Content: domain.ResumeContextPrefix + " " + resumeContext},
			domain.ChatMessage{Role: domain.RoleUser, Content: KickoffMessage},
		)
		c.pending = true
	}
	return c
}

// Pending reports whether the last user entry still awaits a reply.
func (c *Conversation) Pending() bool {
	return c.pending
}

// History returns every entry, system entries included, as sent to the
// completion service.
func (c *Conversation) History() []domain.ChatMessage {
	return append([]domain.ChatMessage(nil), c.entries...)
}

// Display returns the entries a user sees.
func (c *Conversation) Display() []domain.ChatMessage {
	out := make([]domain.ChatMessage, 0, len(c.entries))
	for _, m := range c.entries {
		if m.Role != domain.RoleSystem {
			out = append(out, m)
		}
	}
	return out
}

// SendTurn appends the user's text and exchanges the history.
func (c *Conversation) SendTurn(ctx context.Context, completer domain.CompletionService, userText string) (domain.ChatMessage, bool) {
	c.entries = append(c.entries, domain.ChatMessage{Role: domain.RoleUser, Content: userText})
	c.pending = true
	return c.Reply(ctx, completer)
}

// Reply answers the pending user entry. A failure becomes an assistant entry
// describing the error and is reported through the returned flag.
func (c *Conversation) Reply(ctx context.Context, completer domain.CompletionService) (domain.ChatMessage, bool) {
	reply, err := completer.ChatCompletion(ctx, c.History())
	c.pending = false

	if err != nil {
		msg := err.Error()
		if msg == "" {
			msg = fallbackError
		}
		entry := domain.ChatMessage{Role: domain.RoleAssistant, Content: "Sorry, I encountered an error: " + msg}
		c.entries = append(c.entries, entry)
		return entry, false
	}
	entry := domain.ChatMessage{Role: domain.RoleAssistant, Content: reply}
	c.entries = append(c.entries, entry)
	return entry, true
}

// Clone copies the transcript so a turn can run without holding the owner's
// lock.
func (c *Conversation) Clone() *Conversation {
	return &Conversation{entries: c.History(), pending: c.pending}
}

package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"cvchef-backend/internal/assistant"
	"cvchef-backend/internal/domain"
	"cvchef-backend/internal/editor"
	"cvchef-backend/pkg/apperror"
	"cvchef-backend/pkg/logger"

	"github.com/google/uuid"
)

const (
	msgSessionNotFound  = "Editor session not found"
	msgSessionForbidden = "User not authorized to access this editor session"
	msgATSSuperseded    = "A newer analysis superseded this request"
	msgChatBusy         = "The assistant is still replying. Please wait."
	msgTooManySessions  = "Too many open editor sessions. Close one and try again."
)

// maxSessionsPerOwner bounds live editor sessions held for one user.
const maxSessionsPerOwner = 10

var errAIUnavailable = errors.New(msgAIUnavailable)

// unavailableCompleter stands in when no AI provider is configured so chat
// turns degrade into error entries.
type unavailableCompleter struct{}

func (unavailableCompleter) ChatCompletion(context.Context, []domain.ChatMessage) (string, error) {
	return "", errAIUnavailable
}

func (unavailableCompleter) ATSCompare(context.Context, string, string) (string, error) {
	return "", errAIUnavailable
}

// editorSession is one user's working copy of one resume. mu guards the
// working copy, the transcript and the feedback; chatMu keeps a single chat
// exchange in flight.
type editorSession struct {
	id       string
	ownerID  string
	resumeID string

	mu       sync.Mutex
	wc       *editor.WorkingCopy
	convo    *assistant.Conversation
	feedback *domain.ATSFeedbackView
	atsGen   uint64
	updated  time.Time

	chatMu   sync.Mutex
	lastUsed atomic.Int64
}

type editorUsecase struct {
	repo      domain.ResumeRepository
	atsUC     domain.ATSUsecase
	completer domain.CompletionService
	ttl       time.Duration
	now       func() time.Time

	mu       sync.RWMutex
	sessions map[string]*editorSession
}

// NewEditorUsecase creates the session registry. Sessions idle longer than
// ttl are evicted until ctx is cancelled.
func NewEditorUsecase(ctx context.Context, repo domain.ResumeRepository, atsUC domain.ATSUsecase, completer domain.CompletionService, ttl time.Duration) domain.EditorUsecase {
	if completer == nil {
		completer = unavailableCompleter{}
	}
	u := &editorUsecase{
		repo:      repo,
		atsUC:     atsUC,
		completer: completer,
		ttl:       ttl,
		now:       time.Now,
		sessions:  make(map[string]*editorSession),
	}
	if ttl > 0 {
		go u.runJanitor(ctx)
	}
	return u
}

func (u *editorUsecase) runJanitor(ctx context.Context) {
	interval := u.ttl / 4
	if interval < 10*time.Second {
		interval = 10 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			u.evictIdle()
		}
	}
}

func (u *editorUsecase) evictIdle() int {
	cutoff := u.now().Add(-u.ttl).UnixNano()
	u.mu.Lock()
	defer u.mu.Unlock()
	evicted := 0
	for id, s := range u.sessions {
		if s.lastUsed.Load() < cutoff {
			delete(u.sessions, id)
			evicted++
		}
	}
	if evicted > 0 {
		logger.Log.Info("Evicted idle editor sessions", "count", evicted)
	}
	return evicted
}

func (u *editorUsecase) Open(ctx context.Context, userID, resumeID string) (*domain.SessionView, error) {
	if userID == "" {
		return nil, apperror.Unauthorized(msgNotAuthenticated)
	}
	resume, err := u.repo.GetByID(ctx, resumeID)
	if err != nil {
		return nil, mapRepoError(err)
	}
	if resume.OwnerID != userID {
		return nil, apperror.Forbidden("User not authorized to update this resume")
	}

	if view := u.reuse(userID, resume); view != nil {
		return view, nil
	}
	if u.countOwned(userID) >= maxSessionsPerOwner {
		return nil, apperror.TooManyRequests(msgTooManySessions)
	}

	wc := editor.Load(resume)
	convo := assistant.Start(wc.DeriveContextSummary())
	if convo.Pending() {
		if _, ok := convo.Reply(ctx, u.completer); !ok {
			logger.Log.Warn("Assistant kickoff failed", "resume_id", resumeID)
		}
	}

	s := &editorSession{
		id:       uuid.NewString(),
		ownerID:  userID,
		resumeID: resume.ID,
		wc:       wc,
		convo:    convo,
		updated:  u.now(),
	}
	s.lastUsed.Store(u.now().UnixNano())

	u.mu.Lock()
	if u.countOwnedLocked(userID) >= maxSessionsPerOwner {
		u.mu.Unlock()
		return nil, apperror.TooManyRequests(msgTooManySessions)
	}
	u.sessions[s.id] = s
	u.mu.Unlock()

	logger.Log.Info("Editor session opened", "session_id", s.id, "resume_id", resumeID, "user_id", userID)

	s.mu.Lock()
	defer s.mu.Unlock()
	return u.view(s), nil
}

// reuse returns the owner's live session for resume when it still works on
// the stored revision. A session based on an older revision is dropped.
func (u *editorUsecase) reuse(userID string, resume *domain.Resume) *domain.SessionView {
	u.mu.RLock()
	var existing *editorSession
	for _, s := range u.sessions {
		if s.ownerID == userID && s.resumeID == resume.ID {
			existing = s
			break
		}
	}
	u.mu.RUnlock()
	if existing == nil {
		return nil
	}

	existing.mu.Lock()
	defer existing.mu.Unlock()
	if existing.wc.BaseRevision() != resume.Revision {
		logger.Log.Info("Replacing stale editor session", "session_id", existing.id, "resume_id", resume.ID)
		u.drop(existing.id)
		return nil
	}
	existing.lastUsed.Store(u.now().UnixNano())
	return u.view(existing)
}

func (u *editorUsecase) countOwned(userID string) int {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.countOwnedLocked(userID)
}

// countOwnedLocked must be called with u.mu held.
func (u *editorUsecase) countOwnedLocked(userID string) int {
	n := 0
	for _, s := range u.sessions {
		if s.ownerID == userID {
			n++
		}
	}
	return n
}

// session resolves an open session owned by userID.
func (u *editorUsecase) session(userID, sessionID string) (*editorSession, error) {
	if userID == "" {
		return nil, apperror.Unauthorized(msgNotAuthenticated)
	}
	u.mu.RLock()
	s, ok := u.sessions[sessionID]
	u.mu.RUnlock()
	if !ok {
		return nil, apperror.NotFound(msgSessionNotFound)
	}
	if s.ownerID != userID {
		return nil, apperror.Forbidden(msgSessionForbidden)
	}
	s.lastUsed.Store(u.now().UnixNano())
	return s, nil
}

// view must be called with s.mu held.
func (u *editorUsecase) view(s *editorSession) *domain.SessionView {
	return &domain.SessionView{
		SessionID:      s.id,
		ResumeID:       s.wc.ResumeID(),
		Draft:          s.wc.Draft(),
		ContextSummary: s.wc.DeriveContextSummary(),
		Revision:       s.wc.Revision(),
		BaseRevision:   s.wc.BaseRevision(),
		Transcript:     s.convo.Display(),
		Feedback:       s.feedback,
		UpdatedAt:      s.updated,
	}
}

func (u *editorUsecase) View(ctx context.Context, userID, sessionID string) (*domain.SessionView, error) {
	s, err := u.session(userID, sessionID)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return u.view(s), nil
}

// Apply runs the operations in order. Each op reports whether it changed the
// working copy; rejected ops leave it untouched.
func (u *editorUsecase) Apply(ctx context.Context, userID, sessionID string, ops []domain.EditOp) (*domain.ApplyOpsResult, error) {
	s, err := u.session(userID, sessionID)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	applied := make([]bool, len(ops))
	changed := false
	for i, op := range ops {
		applied[i] = s.wc.Apply(op)
		changed = changed || applied[i]
	}
	if changed {
		s.updated = u.now()
	}
	return &domain.ApplyOpsResult{Applied: applied, Session: *u.view(s)}, nil
}

// Save commits the working copy against the revision it was loaded from.
// A resume deleted elsewhere closes the session.
func (u *editorUsecase) Save(ctx context.Context, userID, sessionID string) (*domain.SessionView, error) {
	s, err := u.session(userID, sessionID)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	base := s.wc.BaseRevision()
	revision, err := u.repo.Update(ctx, s.wc.ResumeID(), s.wc.Commit(), &base)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			u.drop(sessionID)
			logger.Log.Info("Editor session closed, resume no longer exists", "session_id", sessionID)
		}
		return nil, mapRepoError(err)
	}

	s.wc.Rebase(revision)
	s.updated = u.now()
	logger.Log.Info("Resume saved", "resume_id", s.wc.ResumeID(), "revision", revision, "session_id", sessionID)
	return u.view(s), nil
}

func (u *editorUsecase) Close(ctx context.Context, userID, sessionID string) error {
	if _, err := u.session(userID, sessionID); err != nil {
		return err
	}
	u.drop(sessionID)
	return nil
}

func (u *editorUsecase) drop(sessionID string) {
	u.mu.Lock()
	delete(u.sessions, sessionID)
	u.mu.Unlock()
}

// AnalyzeATS compares the working copy with a job description. Only the
// newest request may publish its result; older ones are discarded.
func (u *editorUsecase) AnalyzeATS(ctx context.Context, userID, sessionID, jobDescription string) (*domain.ATSFeedbackView, error) {
	s, err := u.session(userID, sessionID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(jobDescription) == "" {
		return nil, apperror.BadRequest(msgBlankJobDescription)
	}

	s.mu.Lock()
	s.feedback = nil
	s.atsGen++
	gen := s.atsGen
	snapshot := s.wc.Snapshot()
	s.mu.Unlock()

	feedback, err := u.atsUC.Analyze(ctx, snapshot, jobDescription)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.atsGen {
		logger.Log.Info("Discarding stale ATS result", "session_id", sessionID, "generation", gen, "current", s.atsGen)
		return nil, apperror.Conflict(msgATSSuperseded)
	}
	if err != nil {
		return nil, err
	}
	s.feedback = u.atsUC.Present(feedback)
	return s.feedback, nil
}

func (u *editorUsecase) Feedback(ctx context.Context, userID, sessionID string) (*domain.ATSFeedbackView, error) {
	s, err := u.session(userID, sessionID)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.feedback, nil
}

// Chat sends one user turn. The exchange runs on a copy of the transcript
// so edits are not blocked while the model replies.
func (u *editorUsecase) Chat(ctx context.Context, userID, sessionID, message string) (*domain.ChatTurnResult, error) {
	s, err := u.session(userID, sessionID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(message) == "" {
		return nil, apperror.BadRequest("Message is required")
	}
	if !s.chatMu.TryLock() {
		return nil, apperror.Conflict(msgChatBusy)
	}
	defer s.chatMu.Unlock()

	s.mu.Lock()
	convo := s.convo.Clone()
	s.mu.Unlock()

	reply, ok := convo.SendTurn(ctx, u.completer, message)

	s.mu.Lock()
	s.convo = convo
	s.mu.Unlock()

	return &domain.ChatTurnResult{Reply: reply, Failed: !ok, Transcript: convo.Display()}, nil
}

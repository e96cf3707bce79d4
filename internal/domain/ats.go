package domain

import "context"

// ============================================================================
// ATS Feedback
// ============================================================================

type KeywordAnalysis struct {
	JDKeywords      []string `json:"jdKeywords"`
	ResumeKeywords  []string `json:"resumeKeywords"`
	MatchedKeywords []string `json:"matchedKeywords"`
	MissingKeywords []string `json:"missingKeywords"`
}

type Suggestion struct {
	Section       string `json:"section"`
	Suggestion    string `json:"suggestion"`
	OriginalText  string `json:"originalText,omitempty"`
	SuggestedText string `json:"suggestedText,omitempty"`
}

// ATSFeedback is the fixed shape the completion service must return.
type ATSFeedback struct {
	OverallScore        float64         `json:"overallScore"`
	Summary             string          `json:"summary"`
	KeywordAnalysis     KeywordAnalysis `json:"keywordAnalysis"`
	Strengths           []string        `json:"strengths"`
	AreasForImprovement []string        `json:"areasForImprovement"`
	DetailedSuggestions []Suggestion    `json:"detailedSuggestions"`
}

// ============================================================================
// Presentation
// ============================================================================

// Score bands
const (
	ScoreBandGood = "good"
	ScoreBandFair = "fair"
	ScoreBandPoor = "poor"
)

// Diff operations
const (
	DiffEqual  = "equal"
	DiffInsert = "insert"
	DiffDelete = "delete"
)

type DiffSegment struct {
	Op   string `json:"op"`
	Text string `json:"text"`
}

type SuggestionView struct {
	Suggestion
	Diff []DiffSegment `json:"diff,omitempty"`
}

type ATSFeedbackView struct {
	OverallScore        float64          `json:"overallScore"`
	ScoreBand           string           `json:"scoreBand"`
	Summary             string           `json:"summary"`
	KeywordAnalysis     KeywordAnalysis  `json:"keywordAnalysis"`
	Strengths           []string         `json:"strengths"`
	AreasForImprovement []string         `json:"areasForImprovement"`
	DetailedSuggestions []SuggestionView `json:"detailedSuggestions"`
}

// ============================================================================
// Requests
// ============================================================================

type ATSAnalyzeRequest struct {
	Resume         ResumeFields `json:"resume"`
	JobDescription string       `json:"jobDescription"`
}

type ATSReportRequest struct {
	Feedback ATSFeedback `json:"feedback"`
	Format   string      `json:"format" binding:"omitempty,oneof=xlsx csv"`
}

type ATSUsecase interface {
	// Analyze compares a committed-shape snapshot against a job description.
	Analyze(ctx context.Context, snapshot ResumeFields, jobDescription string) (*ATSFeedback, error)
	Present(feedback *ATSFeedback) *ATSFeedbackView
	ExportReport(ctx context.Context, feedback *ATSFeedback, format string) ([]byte, string, error)
}

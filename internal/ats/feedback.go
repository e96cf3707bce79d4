package ats

import (
	_ "embed"
	"encoding/json"
	"errors"
	"strings"

	"cvchef-backend/internal/domain"
	"cvchef-backend/pkg/cleaner"
	"cvchef-backend/pkg/logger"

	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/xeipuuv/gojsonschema"
)

// ErrInvalidFormat is returned when the model output does not match the
// feedback shape.
var ErrInvalidFormat = errors.New("AI returned an invalid format. Please try again.")

//go:embed feedback.schema.json
var feedbackSchemaJSON string

var feedbackSchema = mustSchema(feedbackSchemaJSON)

func mustSchema(src string) *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
	if err != nil {
		panic(err)
	}
	return schema
}

// ParseFeedback validates raw model output and decodes it. Any deviation
// from the schema yields ErrInvalidFormat and no partial result.
func ParseFeedback(raw string) (*domain.ATSFeedback, error) {
	body := cleaner.LLMResponse(raw)

	var doc map[string]interface{}
	if err := json.Unmarshal([]byte(body), &doc); err != nil {
		logger.Log.Warn("ATS response is not JSON", "error", err)
		return nil, ErrInvalidFormat
	}

	res, err := feedbackSchema.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return nil, ErrInvalidFormat
	}
	if !res.Valid() {
		msgs := make([]string, 0, len(res.Errors()))
		for _, e := range res.Errors() {
			msgs = append(msgs, e.String())
		}
		logger.Log.Warn("ATS response failed schema validation", "errors", strings.Join(msgs, "; "))
		return nil, ErrInvalidFormat
	}

	var feedback domain.ATSFeedback
	if err := json.Unmarshal([]byte(body), &feedback); err != nil {
		return nil, ErrInvalidFormat
	}
	return &feedback, nil
}

// ScoreBand classifies the overall score for display.
func ScoreBand(score float64) string {
	switch {
	case score >= 75:
		return domain.ScoreBandGood
	case score >= 50:
		return domain.ScoreBandFair
	default:
		return domain.ScoreBandPoor
	}
}

// Present prepares feedback for rendering, adding the score band and a word
// level diff for suggestions that carry both texts.
func Present(feedback *domain.ATSFeedback) *domain.ATSFeedbackView {
	if feedback == nil {
		return nil
	}
	view := &domain.ATSFeedbackView{
		OverallScore:        feedback.OverallScore,
		ScoreBand:           ScoreBand(feedback.OverallScore),
		Summary:             feedback.Summary,
		KeywordAnalysis:     feedback.KeywordAnalysis,
		Strengths:           feedback.Strengths,
		AreasForImprovement: feedback.AreasForImprovement,
		DetailedSuggestions: make([]domain.SuggestionView, 0, len(feedback.DetailedSuggestions)),
	}
	for _, s := range feedback.DetailedSuggestions {
		sv := domain.SuggestionView{Suggestion: s}
		if s.OriginalText != "" && s.SuggestedText != "" {
			sv.Diff = WordDiff(s.OriginalText, s.SuggestedText)
		}
		view.DetailedSuggestions = append(view.DetailedSuggestions, sv)
	}
	return view
}

// WordDiff diffs two texts on word boundaries.
func WordDiff(original, suggested string) []domain.DiffSegment {
	dmp := diffmatchpatch.New()
	a, b, words := wordsToChars(original, suggested)
	diffs := dmp.DiffMain(a, b, false)

	segments := make([]domain.DiffSegment, 0, len(diffs))
	for _, d := range diffs {
		op := domain.DiffEqual
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			op = domain.DiffInsert
		case diffmatchpatch.DiffDelete:
			op = domain.DiffDelete
		}
		var text strings.Builder
		for _, r := range d.Text {
			if i := int(r); i < len(words) {
				text.WriteString(words[i])
			}
		}
		segments = append(segments, domain.DiffSegment{Op: op, Text: text.String()})
	}
	return segments
}

// wordsToChars maps every word (with its trailing space) to one rune so the
// character diff runs per word.
func wordsToChars(a, b string) (string, string, []string) {
	words := []string{""}
	index := map[string]int{}
	encode := func(text string) string {
		var sb strings.Builder
		for _, w := range splitWords(text) {
			i, ok := index[w]
			if !ok {
				words = append(words, w)
				i = len(words) - 1
				index[w] = i
			}
			sb.WriteRune(rune(i))
		}
		return sb.String()
	}
	return encode(a), encode(b), words
}

func splitWords(text string) []string {
	var out []string
	start := 0
	for i, r := range text {
		if r == ' ' || r == '\n' {
			out = append(out, text[start:i+1])
			start = i + 1
		}
	}
	if start < len(text) {
		out = append(out, text[start:])
	}
	return out
}

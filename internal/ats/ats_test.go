package ats_test

import (
	"testing"

	"cvchef-backend/internal/ats"
	"cvchef-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validFeedback = `{
  "overallScore": 72,
  "summary": "Solid match",
  "keywordAnalysis": {"jdKeywords": ["Go"], "resumeKeywords": ["Go"], "matchedKeywords": ["Go"], "missingKeywords": []},
  "strengths": ["Backend depth"],
  "areasForImprovement": ["Quantify impact"],
  "detailedSuggestions": [{"section": "Summary", "suggestion": "Mention scale", "originalText": "Built APIs", "suggestedText": "Built scalable APIs"}]
}`

func TestFlatten(t *testing.T) {
	snapshot := domain.ResumeFields{
		Title:  "Backend Engineer",
		Skills: []string{"Go", "SQL"},
		Experience: []domain.Experience{
			{JobTitle: "Engineer", Company: "Acme", StartDate: "2020", Responsibilities: []string{"Built X"}},
		},
		Education: []domain.Education{
			{Degree: "BSc", FieldOfStudy: "CS", Institution: "MIT", GraduationDate: "2019"},
		},
		CustomSections: []domain.CustomSection{
			{Title: "Languages", Subtitle: "Spoken", SubSections: []domain.CustomSubSection{
				{Subtitle: "French", Content: "Fluent"},
				{Content: "German"},
			}},
		},
	}

	want := "Title: Backend Engineer\n" +
		"Summary: N/A\n" +
		"Skills: Go, SQL\n" +
		"Experience:\n" +
		"- Engineer at Acme (2020 - Present)\n" +
		"  - Built X\n" +
		"Education:\n" +
		"- BSc in CS from MIT (Graduated: 2019)\n" +
		"Languages (Spoken):\n" +
		"  - French: Fluent\n" +
		"  - German\n"
	assert.Equal(t, want, ats.Flatten(snapshot))
}

func TestParseFeedback(t *testing.T) {
	t.Run("Valid JSON decodes", func(t *testing.T) {
		fb, err := ats.ParseFeedback(validFeedback)
		require.NoError(t, err)
		assert.Equal(t, float64(72), fb.OverallScore)
		assert.Equal(t, []string{"Go"}, fb.KeywordAnalysis.MatchedKeywords)
		require.Len(t, fb.DetailedSuggestions, 1)
		assert.Equal(t, "Built scalable APIs", fb.DetailedSuggestions[0].SuggestedText)
	})

	t.Run("Fenced JSON decodes", func(t *testing.T) {
		fb, err := ats.ParseFeedback("```json\n" + validFeedback + "\n```")
		require.NoError(t, err)
		assert.Equal(t, "Solid match", fb.Summary)
	})

	t.Run("Non JSON is rejected", func(t *testing.T) {
		fb, err := ats.ParseFeedback("Sure! Your resume looks great.")
		assert.Nil(t, fb)
		assert.ErrorIs(t, err, ats.ErrInvalidFormat)
		assert.Equal(t, "AI returned an invalid format. Please try again.", err.Error())
	})

	t.Run("Wrong shape is rejected", func(t *testing.T) {
		fb, err := ats.ParseFeedback(`{"overallScore": "high", "summary": "ok"}`)
		assert.Nil(t, fb)
		assert.ErrorIs(t, err, ats.ErrInvalidFormat)
	})

	t.Run("Out of range score is rejected", func(t *testing.T) {
		_, err := ats.ParseFeedback(`{"overallScore": 140, "summary": "", "keywordAnalysis": {"jdKeywords": [], "resumeKeywords": [], "matchedKeywords": [], "missingKeywords": []}, "strengths": [], "areasForImprovement": [], "detailedSuggestions": []}`)
		assert.ErrorIs(t, err, ats.ErrInvalidFormat)
	})
}

func TestPresent(t *testing.T) {
	fb, err := ats.ParseFeedback(validFeedback)
	require.NoError(t, err)

	view := ats.Present(fb)
	assert.Equal(t, domain.ScoreBandFair, view.ScoreBand)
	require.Len(t, view.DetailedSuggestions, 1)
	assert.Equal(t, []domain.DiffSegment{
		{Op: domain.DiffEqual, Text: "Built "},
		{Op: domain.DiffInsert, Text: "scalable "},
		{Op: domain.DiffEqual, Text: "APIs"},
	}, view.DetailedSuggestions[0].Diff)

	assert.Nil(t, ats.Present(nil))
}

func TestScoreBand(t *testing.T) {
	assert.Equal(t, domain.ScoreBandGood, ats.ScoreBand(75))
	assert.Equal(t, domain.ScoreBandFair, ats.ScoreBand(50))
	assert.Equal(t, domain.ScoreBandPoor, ats.ScoreBand(49.9))
}

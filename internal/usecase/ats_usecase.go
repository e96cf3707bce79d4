package usecase

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"cvchef-backend/internal/ats"
	"cvchef-backend/internal/domain"
	"cvchef-backend/internal/editor"
	"cvchef-backend/pkg/ai"
	"cvchef-backend/pkg/apperror"
	"cvchef-backend/pkg/cleaner"
	"cvchef-backend/pkg/logger"

	"github.com/xuri/excelize/v2"
)

const (
	msgBlankJobDescription = "Please paste a job description to analyze."
	msgATSFailed           = "Failed to get ATS comparison from AI assistant."
	msgAIUnavailable       = "AI assistant is not configured."
)

type atsUsecase struct {
	completer domain.CompletionService
	now       func() time.Time
}

// NewATSUsecase creates a new ATS usecase instance. A nil completer makes
// every analysis fail with 503.
func NewATSUsecase(completer domain.CompletionService) domain.ATSUsecase {
	return &atsUsecase{completer: completer, now: time.Now}
}

// Analyze compares a resume against a job description. The input is
// normalised first, so raw client drafts flatten like a session snapshot.
func (u *atsUsecase) Analyze(ctx context.Context, snapshot domain.ResumeFields, jobDescription string) (*domain.ATSFeedback, error) {
	jd := cleaner.JobDescription(jobDescription)
	if strings.TrimSpace(jd) == "" {
		return nil, apperror.BadRequest(msgBlankJobDescription)
	}
	if u.completer == nil {
		return nil, apperror.New(http.StatusServiceUnavailable, msgAIUnavailable, nil)
	}

	resumeText := ats.Flatten(editor.FromFields(snapshot).Snapshot())
	raw, err := u.completer.ATSCompare(ctx, resumeText, jd)
	if err != nil {
		return nil, upstreamError(err, msgATSFailed)
	}

	feedback, err := ats.ParseFeedback(raw)
	if err != nil {
		return nil, apperror.BadGateway(err.Error(), err)
	}
	return feedback, nil
}

func (u *atsUsecase) Present(feedback *domain.ATSFeedback) *domain.ATSFeedbackView {
	return ats.Present(feedback)
}

// upstreamError surfaces provider messages verbatim and anything else with
// the fallback.
func upstreamError(err error, fallback string) error {
	var aiErr *ai.Error
	if errors.As(err, &aiErr) && aiErr.Message != "" {
		return apperror.BadGateway(aiErr.Message, err)
	}
	logger.Log.Error("AI request failed", "error", err)
	return apperror.BadGateway(fallback, err)
}

// ExportReport writes feedback to an Excel workbook or CSV file.
func (u *atsUsecase) ExportReport(ctx context.Context, feedback *domain.ATSFeedback, format string) ([]byte, string, error) {
	if feedback == nil {
		return nil, "", apperror.BadRequest("No feedback to export.")
	}
	switch format {
	case "csv":
		return u.exportCSV(*feedback)
	case "xlsx", "":
		return u.exportExcel(*feedback)
	default:
		return nil, "", apperror.BadRequest(fmt.Sprintf("unsupported export format: %s", format))
	}
}

func (u *atsUsecase) reportName(ext string) string {
	return fmt.Sprintf("ats_report_%s.%s", u.now().Format("20060102_150405"), ext)
}

type sheetData struct {
	name    string
	headers []string
	rows    [][]interface{}
}

func reportSheets(fb domain.ATSFeedback) []sheetData {
	overview := sheetData{
		name:    "Overview",
		headers: []string{"METRIC", "VALUE"},
		rows: [][]interface{}{
			{"Overall Score", fb.OverallScore},
			{"Score Band", strings.ToUpper(ats.ScoreBand(fb.OverallScore))},
			{"Summary", fb.Summary},
		},
	}
	for _, s := range fb.Strengths {
		overview.rows = append(overview.rows, []interface{}{"Strength", s})
	}
	for _, s := range fb.AreasForImprovement {
		overview.rows = append(overview.rows, []interface{}{"Area For Improvement", s})
	}

	keywords := sheetData{name: "Keywords", headers: []string{"KEYWORD", "IN JOB DESCRIPTION", "IN RESUME", "STATUS"}}
	inResume := toSet(fb.KeywordAnalysis.ResumeKeywords)
	matched := toSet(fb.KeywordAnalysis.MatchedKeywords)
	for _, k := range fb.KeywordAnalysis.JDKeywords {
		status := "MISSING"
		if matched[strings.ToLower(k)] {
			status = "MATCHED"
		}
		keywords.rows = append(keywords.rows, []interface{}{k, "YES", yesNo(inResume[strings.ToLower(k)]), status})
	}

	suggestions := sheetData{name: "Suggestions", headers: []string{"SECTION", "SUGGESTION", "ORIGINAL TEXT", "SUGGESTED TEXT"}}
	for _, s := range fb.DetailedSuggestions {
		suggestions.rows = append(suggestions.rows, []interface{}{s.Section, s.Suggestion, s.OriginalText, s.SuggestedText})
	}

	return []sheetData{overview, keywords, suggestions}
}

// exportExcel generates an Excel workbook with one sheet per report part
func (u *atsUsecase) exportExcel(fb domain.ATSFeedback) ([]byte, string, error) {
	f := excelize.NewFile()
	defer f.Close()

	// Style headers - Dark Blue background with White text
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#1E3A5F"}},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return nil, "", fmt.Errorf("failed to create header style: %w", err)
	}

	for i, sheet := range reportSheets(fb) {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet.name); err != nil {
				return nil, "", err
			}
		} else if _, err := f.NewSheet(sheet.name); err != nil {
			return nil, "", err
		}

		for col, h := range sheet.headers {
			cell, _ := excelize.CoordinatesToCellName(col+1, 1)
			f.SetCellValue(sheet.name, cell, h)
		}
		endCell, _ := excelize.CoordinatesToCellName(len(sheet.headers), 1)
		f.SetCellStyle(sheet.name, "A1", endCell, headerStyle)

		for rowIdx, row := range sheet.rows {
			for colIdx, value := range row {
				cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
				f.SetCellValue(sheet.name, cell, value)
			}
		}

		// Approximate widths; free text columns get more room
		for col := range sheet.headers {
			colName, _ := excelize.ColumnNumberToName(col + 1)
			width := 20.0
			if col > 0 && sheet.name != "Keywords" {
				width = 60
			}
			f.SetColWidth(sheet.name, colName, colName, width)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, "", fmt.Errorf("failed to write Excel file: %w", err)
	}
	return buf.Bytes(), u.reportName("xlsx"), nil
}

// exportCSV flattens every sheet into one cell per line
func (u *atsUsecase) exportCSV(fb domain.ATSFeedback) ([]byte, string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{"sheet", "row", "column", "value"})

	for _, sheet := range reportSheets(fb) {
		for rowIdx, row := range sheet.rows {
			for colIdx, value := range row {
				_ = w.Write([]string{sheet.name, strconv.Itoa(rowIdx + 1), sheet.headers[colIdx], fmt.Sprintf("%v", value)})
			}
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, "", fmt.Errorf("failed to write CSV file: %w", err)
	}
	return buf.Bytes(), u.reportName("csv"), nil
}

func toSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, it := range items {
		set[strings.ToLower(it)] = true
	}
	return set
}

func yesNo(b bool) string {
	if b {
		return "YES"
	}
	return "NO"
}

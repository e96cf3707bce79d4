// Package ats turns resumes into prompt text and model output into feedback.
package ats

import (
	"strings"

	"cvchef-backend/internal/domain"
)

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

// Flatten renders a committed-shape snapshot as plain text for the ATS
// prompt.
func Flatten(r domain.ResumeFields) string {
	var sb strings.Builder
	sb.WriteString("Title: " + orNA(r.Title) + "\n")
	sb.WriteString("Summary: " + orNA(r.Summary) + "\n")

	if len(r.Skills) > 0 {
		sb.WriteString("Skills: " + strings.Join(r.Skills, ", ") + "\n")
	}

	if len(r.Experience) > 0 {
		sb.WriteString("Experience:\n")
		for _, exp := range r.Experience {
			end := exp.EndDate
			if end == "" {
				end = "Present"
			}
			sb.WriteString("- " + exp.JobTitle + " at " + exp.Company + " (" + exp.StartDate + " - " + end + ")\n")
			for _, resp := range exp.Responsibilities {
				sb.WriteString("  - " + resp + "\n")
			}
		}
	}

	if len(r.Education) > 0 {
		sb.WriteString("Education:\n")
		for _, edu := range r.Education {
			sb.WriteString("- " + edu.Degree + " in " + edu.FieldOfStudy + " from " + edu.Institution +
				" (Graduated: " + edu.GraduationDate + ")\n")
		}
	}

	for _, cs := range r.CustomSections {
		heading := cs.Title
		if cs.Subtitle != "" {
			heading += " (" + cs.Subtitle + ")"
		}
		sb.WriteString(heading + ":\n")
		if cs.Content != "" {
			sb.WriteString(cs.Content + "\n")
		}
		for _, sub := range cs.SubSections {
			line := sub.Content
			if sub.Subtitle != "" {
				line = sub.Subtitle + ": " + sub.Content
			}
			sb.WriteString("  - " + line + "\n")
		}
	}
	return sb.String()
}

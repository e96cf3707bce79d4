package editor

import (
	"fmt"
	"strings"

	"cvchef-backend/internal/domain"
)

// DeriveContextSummary flattens the working copy into one line of prompt
// context. It is never persisted.
func (w *WorkingCopy) DeriveContextSummary() string {
	var experience []string
	w.experience.each(func(_ string, e *domain.Experience) {
		experience = append(experience, e.JobTitle+" at "+e.Company)
	})

	var education []string
	w.education.each(func(_ string, e *domain.Education) {
		education = append(education, e.Degree+" from "+e.Institution)
	})

	var custom []string
	w.custom.each(func(_ string, n *sectionNode) {
		heading := n.title
		if n.subtitle != "" {
			heading += " (" + n.subtitle + ")"
		}
		body := n.content
		if body == "" {
			var subs []string
			n.subs.each(func(_ string, s *domain.CustomSubSection) {
				if s.Subtitle != "" {
					subs = append(subs, s.Subtitle+": "+s.Content)
					return
				}
				subs = append(subs, s.Content)
			})
			body = strings.Join(subs, ", ")
		}
		custom = append(custom, heading+": "+body)
	})

	raw := fmt.Sprintf("Title: %s Summary: %s Skills: %s Experience: %s Education: %s Custom Sections: %s",
		w.title,
		w.summary,
		strings.Join(w.skills, ", "),
		strings.Join(experience, "; "),
		strings.Join(education, "; "),
		strings.Join(custom, "; "),
	)
	return strings.Join(strings.Fields(raw), " ")
}

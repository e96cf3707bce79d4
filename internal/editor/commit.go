package editor

import (
	"strings"

	"cvchef-backend/internal/domain"
)

// Commit normalises the working copy into the payload persisted on save.
// It fills defaults and prunes blank responsibilities, blank skills and
// subsections with neither subtitle nor content. The working copy itself is
// left untouched, so repeated commits yield identical payloads.
func (w *WorkingCopy) Commit() domain.ResumeFields {
	return w.normalize(true)
}

// Snapshot is the committed shape handed to ATS analysis. Subsections are
// kept as typed so the model sees everything on screen.
func (w *WorkingCopy) Snapshot() domain.ResumeFields {
	return w.normalize(false)
}

// Draft returns the raw working copy, blanks included, for display.
func (w *WorkingCopy) Draft() domain.ResumeFields {
	out := domain.NewResumeFields(w.title)
	out.Summary = w.summary
	out.PersonalInfo = w.personalInfo
	out.Skills = append(out.Skills, w.skills...)
	w.experience.each(func(id string, e *domain.Experience) {
		item := *e
		item.ID = id
		item.Responsibilities = append([]string{}, e.Responsibilities...)
		out.Experience = append(out.Experience, item)
	})
	w.education.each(func(id string, e *domain.Education) {
		item := *e
		item.ID = id
		out.Education = append(out.Education, item)
	})
	w.custom.each(func(id string, n *sectionNode) {
		out.CustomSections = append(out.CustomSections, n.toDomain(id, false))
	})
	return out
}

func (w *WorkingCopy) normalize(pruneSubSections bool) domain.ResumeFields {
	out := domain.NewResumeFields(w.title)
	out.Summary = w.summary
	out.PersonalInfo = w.personalInfo
	out.Skills = nonBlank(w.skills)

	w.experience.each(func(id string, e *domain.Experience) {
		item := *e
		item.ID = id
		item.Responsibilities = nonBlank(e.Responsibilities)
		out.Experience = append(out.Experience, item)
	})
	w.education.each(func(id string, e *domain.Education) {
		item := *e
		item.ID = id
		out.Education = append(out.Education, item)
	})
	w.custom.each(func(id string, n *sectionNode) {
		cs := n.toDomain(id, pruneSubSections)
		if cs.Title == "" {
			cs.Title = domain.DefaultCustomSectionTitle
		}
		out.CustomSections = append(out.CustomSections, cs)
	})
	return out
}

func (n *sectionNode) toDomain(id string, prune bool) domain.CustomSection {
	cs := domain.CustomSection{
		ID:          id,
		Title:       n.title,
		Subtitle:    n.subtitle,
		Content:     n.content,
		SubSections: []domain.CustomSubSection{},
	}
	n.subs.each(func(subID string, s *domain.CustomSubSection) {
		if prune && isBlank(s.Subtitle) && isBlank(s.Content) {
			return
		}
		sub := *s
		sub.ID = subID
		cs.SubSections = append(cs.SubSections, sub)
	})
	return cs
}

func nonBlank(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if !isBlank(v) {
			out = append(out, v)
		}
	}
	return out
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

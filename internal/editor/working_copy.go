// Package editor holds the working copy of a resume while it is being edited.
//
// Every mutation is total: an edit addressed at a position that no longer
// exists is ignored and reported as not applied. List items are stored by
// stable id with a separate order list, so index-addressed edits resolve to
// an id at call time and reordering never changes identity.
package editor

import (
	"strings"

	"cvchef-backend/internal/domain"

	"github.com/google/uuid"
)

// IDFunc generates stable ids for new list items.
type IDFunc func() string

type Option func(*WorkingCopy)

// WithIDFunc overrides the uuid generator, mostly for tests.
func WithIDFunc(fn IDFunc) Option {
	return func(w *WorkingCopy) {
		if fn != nil {
			w.newID = fn
		}
	}
}

type sectionNode struct {
	title    string
	subtitle string
	content  string
	subs     *orderedList[domain.CustomSubSection]
}

// WorkingCopy is not safe for concurrent use; callers own one per session.
type WorkingCopy struct {
	resumeID     string
	baseRevision int64
	revision     uint64

	title        string
	summary      string
	personalInfo domain.PersonalInfo
	experience   *orderedList[domain.Experience]
	education    *orderedList[domain.Education]
	skills       []string
	custom       *orderedList[sectionNode]

	newID IDFunc
}

// Load initialises a working copy from a persisted resume. Absent collections
// become empty and items without an id are given one.
func Load(resume *domain.Resume, opts ...Option) *WorkingCopy {
	if resume == nil {
		return FromFields(domain.ResumeFields{}, opts...)
	}
	w := FromFields(resume.ResumeFields, opts...)
	w.resumeID = resume.ID
	w.baseRevision = resume.Revision
	return w
}

// FromFields builds a working copy from bare editable fields.
func FromFields(fields domain.ResumeFields, opts ...Option) *WorkingCopy {
	w := &WorkingCopy{
		title:        fields.Title,
		summary:      fields.Summary,
		personalInfo: fields.PersonalInfo,
		experience:   newOrderedList[domain.Experience](),
		education:    newOrderedList[domain.Education](),
		skills:       append([]string{}, fields.Skills...),
		custom:       newOrderedList[sectionNode](),
		newID:        uuid.NewString,
	}
	for _, opt := range opts {
		opt(w)
	}

	for _, exp := range fields.Experience {
		item := exp
		item.Responsibilities = append([]string{}, exp.Responsibilities...)
		item.ID = w.claimID(exp.ID, w.experience.has)
		w.experience.push(item.ID, &item)
	}
	for _, edu := range fields.Education {
		item := edu
		item.ID = w.claimID(edu.ID, w.education.has)
		w.education.push(item.ID, &item)
	}
	for _, cs := range fields.CustomSections {
		node := &sectionNode{
			title:    cs.Title,
			subtitle: cs.Subtitle,
			content:  cs.Content,
			subs:     newOrderedList[domain.CustomSubSection](),
		}
		for _, sub := range cs.SubSections {
			s := sub
			s.ID = w.claimID(sub.ID, node.subs.has)
			node.subs.push(s.ID, &s)
		}
		w.custom.push(w.claimID(cs.ID, w.custom.has), node)
	}
	return w
}

// claimID keeps a persisted id unless it is missing or already taken.
func (w *WorkingCopy) claimID(id string, taken func(string) bool) string {
	if id != "" && !taken(id) {
		return id
	}
	for {
		next := w.newID()
		if !taken(next) {
			return next
		}
	}
}

func (w *WorkingCopy) ResumeID() string { return w.resumeID }

// Revision counts applied mutations since Load.
func (w *WorkingCopy) Revision() uint64 { return w.revision }

// BaseRevision is the persisted revision the copy was loaded from.
func (w *WorkingCopy) BaseRevision() int64 { return w.baseRevision }

// Rebase records a successful save so later saves check against it.
func (w *WorkingCopy) Rebase(revision int64) { w.baseRevision = revision }

func (w *WorkingCopy) touch() bool {
	w.revision++
	return true
}

// SetScalarField sets title, summary or personalInfo.<field>.
func (w *WorkingCopy) SetScalarField(path, value string) bool {
	head, rest, nested := strings.Cut(path, ".")
	if !nested {
		switch head {
		case "title":
			w.title = value
		case "summary":
			w.summary = value
		default:
			return false
		}
		return w.touch()
	}
	if head == "personalInfo" && personalInfoLens.set(&w.personalInfo, rest, value) {
		return w.touch()
	}
	return false
}

// SetListItemField sets one field of the item at index in experience,
// education or customSections.
func (w *WorkingCopy) SetListItemField(section string, index int, field, value string) bool {
	var ok bool
	switch section {
	case domain.SectionExperience:
		item, found := w.experience.at(index)
		ok = found && experienceLens.set(item, field, value)
	case domain.SectionEducation:
		item, found := w.education.at(index)
		ok = found && educationLens.set(item, field, value)
	case domain.SectionCustomSections:
		node, found := w.custom.at(index)
		ok = found && customSectionLens.set(node, field, value)
	}
	if !ok {
		return false
	}
	return w.touch()
}

func (w *WorkingCopy) SetResponsibility(expIndex, respIndex int, value string) bool {
	exp, ok := w.experience.at(expIndex)
	if !ok || respIndex < 0 || respIndex >= len(exp.Responsibilities) {
		return false
	}
	exp.Responsibilities[respIndex] = value
	return w.touch()
}

// SetSkillsFromCommaList replaces every skill. Tokens are trimmed but empty
// ones are kept until commit.
func (w *WorkingCopy) SetSkillsFromCommaList(text string) bool {
	parts := strings.Split(text, ",")
	skills := make([]string, len(parts))
	for i, p := range parts {
		skills[i] = strings.TrimSpace(p)
	}
	w.skills = skills
	return w.touch()
}

// AddItem appends a defaulted item and returns its id. Skills get a
// placeholder entry and no id.
func (w *WorkingCopy) AddItem(section string) (string, bool) {
	switch section {
	case domain.SectionExperience:
		id := w.claimID("", w.experience.has)
		w.experience.push(id, &domain.Experience{ID: id, Responsibilities: []string{""}})
		return id, w.touch()
	case domain.SectionEducation:
		id := w.claimID("", w.education.has)
		w.education.push(id, &domain.Education{ID: id})
		return id, w.touch()
	case domain.SectionCustomSections:
		id := w.claimID("", w.custom.has)
		w.custom.push(id, &sectionNode{
			title: domain.DefaultCustomSectionTitle,
			subs:  newOrderedList[domain.CustomSubSection](),
		})
		return id, w.touch()
	case domain.SectionSkills:
		w.skills = append(w.skills, "New Skill")
		return "", w.touch()
	}
	return "", false
}

func (w *WorkingCopy) RemoveItem(section string, index int) bool {
	var ok bool
	switch section {
	case domain.SectionExperience:
		ok = w.experience.removeAt(index)
	case domain.SectionEducation:
		ok = w.education.removeAt(index)
	case domain.SectionCustomSections:
		ok = w.custom.removeAt(index)
	case domain.SectionSkills:
		if index >= 0 && index < len(w.skills) {
			w.skills = append(w.skills[:index:index], w.skills[index+1:]...)
			ok = true
		}
	}
	if !ok {
		return false
	}
	return w.touch()
}

// MoveItem reorders a collection. Ids travel with their items.
func (w *WorkingCopy) MoveItem(section string, from, to int) bool {
	var ok bool
	switch section {
	case domain.SectionExperience:
		ok = w.experience.move(from, to)
	case domain.SectionEducation:
		ok = w.education.move(from, to)
	case domain.SectionCustomSections:
		ok = w.custom.move(from, to)
	case domain.SectionSkills:
		n := len(w.skills)
		if from >= 0 && from < n && to >= 0 && to < n {
			skill := w.skills[from]
			rest := append(w.skills[:from:from], w.skills[from+1:]...)
			w.skills = append(rest[:to:to], append([]string{skill}, rest[to:]...)...)
			ok = true
		}
	}
	if !ok {
		return false
	}
	return w.touch()
}

func (w *WorkingCopy) AddResponsibility(expIndex int) bool {
	exp, ok := w.experience.at(expIndex)
	if !ok {
		return false
	}
	exp.Responsibilities = append(exp.Responsibilities, "")
	return w.touch()
}

func (w *WorkingCopy) RemoveResponsibility(expIndex, respIndex int) bool {
	exp, ok := w.experience.at(expIndex)
	if !ok || respIndex < 0 || respIndex >= len(exp.Responsibilities) {
		return false
	}
	exp.Responsibilities = append(exp.Responsibilities[:respIndex:respIndex], exp.Responsibilities[respIndex+1:]...)
	return w.touch()
}

func (w *WorkingCopy) AddCustomSubSection(sectionIndex int) (string, bool) {
	node, ok := w.custom.at(sectionIndex)
	if !ok {
		return "", false
	}
	id := w.claimID("", node.subs.has)
	node.subs.push(id, &domain.CustomSubSection{ID: id})
	return id, w.touch()
}

func (w *WorkingCopy) RemoveCustomSubSection(sectionIndex, subIndex int) bool {
	node, ok := w.custom.at(sectionIndex)
	if !ok || !node.subs.removeAt(subIndex) {
		return false
	}
	return w.touch()
}

func (w *WorkingCopy) SetCustomSubSectionField(sectionIndex, subIndex int, field, value string) bool {
	node, ok := w.custom.at(sectionIndex)
	if !ok {
		return false
	}
	sub, ok := node.subs.at(subIndex)
	if !ok || !subSectionLens.set(sub, field, value) {
		return false
	}
	return w.touch()
}

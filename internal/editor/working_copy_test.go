package editor_test

import (
	"encoding/json"
	"fmt"
	"testing"

	"cvchef-backend/internal/domain"
	"cvchef-backend/internal/editor"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sequentialIDs() editor.Option {
	n := 0
	return editor.WithIDFunc(func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	})
}

func newResume(title string) *domain.Resume {
	return &domain.Resume{ID: "r1", OwnerID: "user1", ResumeFields: domain.NewResumeFields(title), Revision: 1}
}

func TestCommitScenarios(t *testing.T) {
	t.Run("Fresh resume commits to empty collections", func(t *testing.T) {
		w := editor.Load(newResume("Backend Engineer"), sequentialIDs())

		payload, err := json.Marshal(w.Commit())
		require.NoError(t, err)
		assert.Equal(t, `{"title":"Backend Engineer","personalInfo":{},"experience":[],"education":[],"skills":[],"summary":"","customSections":[]}`, string(payload))
	})

	t.Run("Blank responsibilities are pruned on commit", func(t *testing.T) {
		w := editor.Load(newResume("CV"), sequentialIDs())
		_, ok := w.AddItem(domain.SectionExperience)
		require.True(t, ok)
		assert.True(t, w.SetListItemField(domain.SectionExperience, 0, "jobTitle", "Engineer"))
		// the new item starts with one blank responsibility
		assert.True(t, w.SetResponsibility(0, 0, "Built X"))
		assert.True(t, w.AddResponsibility(0))

		assert.Equal(t, []string{"Built X", ""}, w.Draft().Experience[0].Responsibilities)

		out := w.Commit()
		require.Len(t, out.Experience, 1)
		assert.Equal(t, "Engineer", out.Experience[0].JobTitle)
		assert.Equal(t, []string{"Built X"}, out.Experience[0].Responsibilities)
	})

	t.Run("Custom section with subsection content survives, empty subsection is pruned", func(t *testing.T) {
		w := editor.Load(newResume("CV"), sequentialIDs())
		_, ok := w.AddItem(domain.SectionCustomSections)
		require.True(t, ok)
		keptID, ok := w.AddCustomSubSection(0)
		require.True(t, ok)
		assert.True(t, w.SetCustomSubSectionField(0, 0, "content", "Speaks French"))
		_, ok = w.AddCustomSubSection(0)
		require.True(t, ok)

		out := w.Commit()
		require.Len(t, out.CustomSections, 1)
		assert.Equal(t, "", out.CustomSections[0].Content)
		require.Len(t, out.CustomSections[0].SubSections, 1)
		assert.Equal(t, keptID, out.CustomSections[0].SubSections[0].ID)
		assert.Equal(t, "Speaks French", out.CustomSections[0].SubSections[0].Content)
	})
}

func TestCommitIsIdempotent(t *testing.T) {
	w := editor.Load(newResume("CV"), sequentialIDs())
	w.SetScalarField("personalInfo.email", "me@example.com")
	w.SetSkillsFromCommaList("Go, , SQL")
	w.AddItem(domain.SectionEducation)
	w.AddItem(domain.SectionCustomSections)
	w.AddCustomSubSection(0)

	first, err := json.Marshal(w.Commit())
	require.NoError(t, err)
	second, err := json.Marshal(w.Commit())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestCommitPruning(t *testing.T) {
	w := editor.Load(newResume("CV"), sequentialIDs())
	w.AddItem(domain.SectionExperience)
	w.AddResponsibility(0)
	w.SetResponsibility(0, 1, "   ")
	w.AddItem(domain.SectionCustomSections)
	w.AddCustomSubSection(0)
	w.SetCustomSubSectionField(0, 0, "subtitle", " ")
	w.AddCustomSubSection(0)
	w.SetCustomSubSectionField(0, 1, "subtitle", "Languages")
	w.SetSkillsFromCommaList(" ,Go,")

	out := w.Commit()
	for _, exp := range out.Experience {
		for _, r := range exp.Responsibilities {
			assert.NotEmpty(t, r)
		}
	}
	for _, cs := range out.CustomSections {
		for _, sub := range cs.SubSections {
			assert.False(t, sub.Subtitle == "" && sub.Content == "")
		}
	}
	assert.Equal(t, []string{"Go"}, out.Skills)
	require.Len(t, out.CustomSections[0].SubSections, 1)
	assert.Equal(t, "Languages", out.CustomSections[0].SubSections[0].Subtitle)
}

func TestLoadCommitRoundTrip(t *testing.T) {
	persisted := &domain.Resume{
		ID:       "r1",
		OwnerID:  "user1",
		Revision: 4,
		ResumeFields: domain.ResumeFields{
			Title:        "Staff Engineer",
			Summary:      "Builds things",
			PersonalInfo: domain.PersonalInfo{FullName: "Ada", Email: "ada@example.com"},
			Experience: []domain.Experience{
				{ID: "e1", JobTitle: "Engineer", Company: "Acme", Responsibilities: []string{"Shipped"}},
			},
			Education: []domain.Education{{ID: "d1", Institution: "MIT", Degree: "BSc"}},
			Skills:    []string{"Go", "SQL"},
			CustomSections: []domain.CustomSection{
				{ID: "c1", Title: "Languages", SubSections: []domain.CustomSubSection{{ID: "s1", Content: "French"}}},
			},
		},
	}

	w := editor.Load(persisted, sequentialIDs())
	assert.Equal(t, persisted.ResumeFields, w.Commit())
	assert.Equal(t, int64(4), w.BaseRevision())
	assert.Equal(t, uint64(0), w.Revision())
}

func TestLoadDefaults(t *testing.T) {
	t.Run("Absent collections become empty", func(t *testing.T) {
		w := editor.Load(&domain.Resume{ID: "r1", ResumeFields: domain.ResumeFields{Title: "T"}})
		draft := w.Draft()
		assert.NotNil(t, draft.Experience)
		assert.NotNil(t, draft.Education)
		assert.NotNil(t, draft.Skills)
		assert.NotNil(t, draft.CustomSections)
	})

	t.Run("Missing and duplicate ids are replaced", func(t *testing.T) {
		w := editor.Load(&domain.Resume{ResumeFields: domain.ResumeFields{
			Education: []domain.Education{{ID: ""}, {ID: "dup"}, {ID: "dup"}},
		}}, sequentialIDs())
		edu := w.Commit().Education
		require.Len(t, edu, 3)
		assert.Equal(t, "id-1", edu[0].ID)
		assert.Equal(t, "dup", edu[1].ID)
		assert.Equal(t, "id-2", edu[2].ID)
	})
}

func TestAddRemoveKeepsStableIDs(t *testing.T) {
	sections := []string{domain.SectionExperience, domain.SectionEducation, domain.SectionCustomSections}
	for _, section := range sections {
		t.Run(section, func(t *testing.T) {
			w := editor.Load(newResume("CV"), sequentialIDs())
			var ids []string
			for i := 0; i < 4; i++ {
				id, ok := w.AddItem(section)
				require.True(t, ok)
				ids = append(ids, id)
			}
			assert.True(t, w.RemoveItem(section, 1))
			assert.False(t, w.RemoveItem(section, 10))
			assert.True(t, w.RemoveItem(section, 0))

			got := idsOf(w.Commit(), section)
			assert.Equal(t, []string{ids[2], ids[3]}, got)
		})
	}

	t.Run("Responsibilities and subsections", func(t *testing.T) {
		w := editor.Load(newResume("CV"), sequentialIDs())
		w.AddItem(domain.SectionExperience)
		w.AddResponsibility(0)
		w.AddResponsibility(0)
		assert.True(t, w.RemoveResponsibility(0, 0))
		assert.False(t, w.RemoveResponsibility(0, 5))
		assert.Len(t, w.Draft().Experience[0].Responsibilities, 2)

		w.AddItem(domain.SectionCustomSections)
		first, _ := w.AddCustomSubSection(0)
		second, _ := w.AddCustomSubSection(0)
		assert.True(t, w.RemoveCustomSubSection(0, 0))
		subs := w.Draft().CustomSections[0].SubSections
		require.Len(t, subs, 1)
		assert.NotEqual(t, first, subs[0].ID)
		assert.Equal(t, second, subs[0].ID)
	})
}

func idsOf(fields domain.ResumeFields, section string) []string {
	var ids []string
	switch section {
	case domain.SectionExperience:
		for _, e := range fields.Experience {
			ids = append(ids, e.ID)
		}
	case domain.SectionEducation:
		for _, e := range fields.Education {
			ids = append(ids, e.ID)
		}
	case domain.SectionCustomSections:
		for _, c := range fields.CustomSections {
			ids = append(ids, c.ID)
		}
	}
	return ids
}

func TestOutOfRangeEditsAreNoOps(t *testing.T) {
	w := editor.Load(newResume("CV"), sequentialIDs())
	w.AddItem(domain.SectionExperience)
	w.AddItem(domain.SectionCustomSections)
	before := w.Draft()
	rev := w.Revision()

	assert.False(t, w.RemoveItem(domain.SectionExperience, 3))
	assert.False(t, w.RemoveItem(domain.SectionEducation, 0))
	assert.False(t, w.RemoveItem(domain.SectionCustomSections, -1))
	assert.False(t, w.SetListItemField(domain.SectionExperience, 2, "company", "X"))
	assert.False(t, w.SetResponsibility(0, 9, "X"))
	assert.False(t, w.AddResponsibility(4))
	assert.False(t, w.RemoveCustomSubSection(0, 0))
	assert.False(t, w.SetCustomSubSectionField(1, 0, "content", "X"))
	assert.False(t, w.SetScalarField("personalInfo.nickname", "X"))
	assert.False(t, w.SetListItemField(domain.SectionExperience, 0, "salary", "X"))
	assert.False(t, w.MoveItem(domain.SectionExperience, 0, 3))

	assert.Equal(t, before, w.Draft())
	assert.Equal(t, rev, w.Revision())
}

func TestSkillsFromCommaList(t *testing.T) {
	w := editor.Load(newResume("CV"))
	assert.True(t, w.SetSkillsFromCommaList(" Go ,SQL,, Docker"))
	assert.Equal(t, []string{"Go", "SQL", "", "Docker"}, w.Draft().Skills)
	assert.Equal(t, []string{"Go", "SQL", "Docker"}, w.Commit().Skills)

	_, ok := w.AddItem(domain.SectionSkills)
	assert.True(t, ok)
	assert.Equal(t, "New Skill", w.Draft().Skills[4])
}

func TestMoveItemKeepsIdentity(t *testing.T) {
	w := editor.Load(newResume("CV"), sequentialIDs())
	a, _ := w.AddItem(domain.SectionEducation)
	b, _ := w.AddItem(domain.SectionEducation)
	c, _ := w.AddItem(domain.SectionEducation)
	w.SetListItemField(domain.SectionEducation, 0, "institution", "First")

	assert.True(t, w.MoveItem(domain.SectionEducation, 0, 2))
	edu := w.Commit().Education
	assert.Equal(t, []string{b, c, a}, []string{edu[0].ID, edu[1].ID, edu[2].ID})
	assert.Equal(t, "First", edu[2].Institution)

	// positions resolve at call time after the move
	assert.True(t, w.SetListItemField(domain.SectionEducation, 0, "degree", "MSc"))
	assert.Equal(t, "MSc", w.Commit().Education[0].Degree)
	assert.Equal(t, b, w.Commit().Education[0].ID)
}

func TestDeriveContextSummary(t *testing.T) {
	w := editor.Load(newResume("Backend   Engineer"), sequentialIDs())
	w.SetScalarField("summary", "Go developer\nwith  APIs")
	w.SetSkillsFromCommaList("Go, SQL")
	w.AddItem(domain.SectionExperience)
	w.SetListItemField(domain.SectionExperience, 0, "jobTitle", "Engineer")
	w.SetListItemField(domain.SectionExperience, 0, "company", "Acme")
	w.AddItem(domain.SectionEducation)
	w.SetListItemField(domain.SectionEducation, 0, "degree", "BSc")
	w.SetListItemField(domain.SectionEducation, 0, "institution", "MIT")
	w.AddItem(domain.SectionCustomSections)
	w.SetListItemField(domain.SectionCustomSections, 0, "subtitle", "Spoken")
	w.AddCustomSubSection(0)
	w.SetCustomSubSectionField(0, 0, "subtitle", "French")
	w.SetCustomSubSectionField(0, 0, "content", "Fluent")
	w.AddCustomSubSection(0)
	w.SetCustomSubSectionField(0, 1, "content", "German")

	assert.Equal(t,
		"Title: Backend Engineer Summary: Go developer with APIs Skills: Go, SQL Experience: Engineer at Acme Education: BSc from MIT Custom Sections: Custom Section (Spoken): French: Fluent, German",
		w.DeriveContextSummary())
}

func TestApplyDispatch(t *testing.T) {
	w := editor.Load(newResume("CV"), sequentialIDs())
	ops := []domain.EditOp{
		{Op: domain.OpSetScalar, Path: "personalInfo.fullName", Value: "Ada"},
		{Op: domain.OpAddItem, Section: domain.SectionExperience},
		{Op: domain.OpSetListItemField, Section: domain.SectionExperience, Index: 0, Field: "company", Value: "Acme"},
		{Op: domain.OpSetResponsibility, Index: 0, SubIndex: 0, Value: "Led team"},
		{Op: domain.OpRemoveItem, Section: domain.SectionEducation, Index: 0},
		{Op: "renameEverything"},
	}
	var applied []bool
	for _, op := range ops {
		applied = append(applied, w.Apply(op))
	}

	assert.Equal(t, []bool{true, true, true, true, false, false}, applied)
	out := w.Commit()
	assert.Equal(t, "Ada", out.PersonalInfo.FullName)
	assert.Equal(t, "Acme", out.Experience[0].Company)
	assert.Equal(t, []string{"Led team"}, out.Experience[0].Responsibilities)
	assert.Equal(t, uint64(4), w.Revision())
}

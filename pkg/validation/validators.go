package validation

import (
	"strings"

	"cvchef-backend/internal/domain"

	"github.com/go-playground/validator/v10"
)

// RegisterValidators registers custom validators to the validator instance
func RegisterValidators(v *validator.Validate) {
	_ = v.RegisterValidation("not_blank", NotBlank)
	_ = v.RegisterValidation("editor_section", EditorSection)
}

// NotBlank rejects strings made only of whitespace.
func NotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// EditorSection accepts the list sections an edit operation may target.
func EditorSection(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case domain.SectionExperience, domain.SectionEducation, domain.SectionCustomSections, domain.SectionSkills:
		return true
	}
	return false
}

package validation_test

import (
	"errors"
	"testing"

	"cvchef-backend/internal/domain"
	"cvchef-backend/pkg/validation"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newValidator() *validator.Validate {
	v := validator.New()
	v.SetTagName("binding")
	validation.RegisterValidators(v)
	return v
}

func TestRequestValidation(t *testing.T) {
	v := newValidator()

	t.Run("Blank title is rejected", func(t *testing.T) {
		err := v.Struct(domain.CreateResumeRequest{Title: "   "})
		require.Error(t, err)
		assert.Equal(t, []string{"Title: must not be blank"}, validation.FormatValidationErrors(err))
	})

	t.Run("Valid title passes", func(t *testing.T) {
		assert.NoError(t, v.Struct(domain.CreateResumeRequest{Title: "Backend CV"}))
	})

	t.Run("Unknown section is rejected", func(t *testing.T) {
		err := v.Struct(domain.ApplyOpsRequest{Ops: []domain.EditOp{{Op: domain.OpAddItem, Section: "hobbies"}}})
		require.Error(t, err)
		assert.Contains(t, validation.Message(err), "Section: must be one of")
	})

	t.Run("Unknown op is rejected", func(t *testing.T) {
		err := v.Struct(domain.ApplyOpsRequest{Ops: []domain.EditOp{{Op: "explode"}}})
		require.Error(t, err)
		assert.Contains(t, validation.Message(err), "Operation: must be one of")
	})

	t.Run("Empty op list is rejected", func(t *testing.T) {
		err := v.Struct(domain.ApplyOpsRequest{})
		require.Error(t, err)
		assert.Equal(t, "Operations: is required", validation.Message(err))
	})
}

func TestFormatValidationErrorsPassThrough(t *testing.T) {
	assert.Equal(t, []string{"unexpected EOF"}, validation.FormatValidationErrors(errors.New("unexpected EOF")))
}

package validator

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	apperrors "github.com/xyz-asif/whistleblow/pkg/errors"
)

type sample struct {
	Title string `json:"title" validate:"required,minwords=5"`
	Date  string `json:"date" validate:"required,ddmmyyyy"`
}

func newValidate(t *testing.T) *validator.Validate {
	v := validator.New()
	require.NoError(t, Register(v))
	return v
}

func TestCustomRules(t *testing.T) {
	v := newValidate(t)

	require.NoError(t, v.Struct(sample{Title: "Dugaan korupsi dana desa tahun", Date: "12-03-2024"}))

	err := v.Struct(sample{Title: "too short title", Date: "2024-03-12"})
	require.Error(t, err)

	translated := Translate(err)
	var appErr *apperrors.Error
	require.True(t, apperrors.As(translated, &appErr))
	assert.Equal(t, apperrors.KindValidation, appErr.Kind)
	require.Len(t, appErr.Fields, 2)
	assert.Equal(t, "title", appErr.Fields[0].Field)
	assert.Equal(t, "must contain at least 5 words", appErr.Fields[0].Message)
	assert.Equal(t, "date", appErr.Fields[1].Field)
}

func TestIsValidDate(t *testing.T) {
	assert.True(t, IsValidDate("29-02-2024"))
	assert.False(t, IsValidDate("31-02-2024"))
	assert.False(t, IsValidDate("1-2-2024"))
}

func TestTranslateNonValidationError(t *testing.T) {
	err := Translate(assert.AnError)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
}

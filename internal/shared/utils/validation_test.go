package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/autopro-kz/autopro/internal/shared/errors"
	"github.com/autopro-kz/autopro/internal/shared/i18n"
)

type samplePatch struct {
	Name       *string `json:"name" validate:"omitempty,min=2,max=255"`
	PeriodDays *int    `json:"period_days" validate:"omitempty,gt=0"`
	Provider   string  `json:"provider" validate:"required,oneof=kassa24 kaspi"`
}

func TestValidateStruct(t *testing.T) {
	period := 0
	short := "a"
	err := ValidateStruct(samplePatch{Name: &short, PeriodDays: &period})
	require.Error(t, err)

	appErr := apperrors.GetAppError(err)
	require.NotNil(t, appErr)
	assert.Equal(t, i18n.KeyInvalidRequest, appErr.Message)
	assert.Contains(t, appErr.Details, "name must be at least 2 characters long")
	assert.Contains(t, appErr.Details, "period_days must be greater than 0")
	assert.Contains(t, appErr.Details, "provider is required")

	assert.NoError(t, ValidateStruct(samplePatch{Provider: "kassa24"}))
}

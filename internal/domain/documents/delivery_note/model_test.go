package delivery_note

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/kk-cool167/Invoice-generator-v2-sub001/internal/core/apperror"
	"github.com/kk-cool167/Invoice-generator-v2-sub001/internal/core/numerator"
)

func TestCheckDeliveryDate_IgnoresTimeOfDay(t *testing.T) {
	now := time.Date(2025, 3, 15, 23, 59, 0, 0, time.UTC)

	assert.NoError(t, CheckDeliveryDate(time.Date(2025, 3, 22, 0, 0, 1, 0, time.UTC), now))
	assert.Error(t, CheckDeliveryDate(time.Date(2025, 3, 23, 0, 0, 0, 0, time.UTC), now))
	assert.NoError(t, CheckDeliveryDate(time.Date(2025, 2, 13, 23, 0, 0, 0, time.UTC), now))
	assert.Error(t, CheckDeliveryDate(time.Date(2025, 2, 12, 12, 0, 0, 0, time.UTC), now))
}

func TestValidate_InternalNumberLeavesRoomForSuffix(t *testing.T) {
	note := basicNote(10, 500)
	note.InternalNumber = strings.Repeat("W", numerator.MaxSubmittedInternalNumberLength)
	assert.NoError(t, note.Validate(context.Background()))

	note.InternalNumber = " " + note.InternalNumber + " "
	assert.NoError(t, note.Validate(context.Background()), "surrounding blanks are trimmed")

	note.InternalNumber = strings.Repeat("W", numerator.MaxSubmittedInternalNumberLength+1)
	err := note.Validate(context.Background())
	appErr, ok := apperror.AsAppError(err)
	if assert.True(t, ok) {
		assert.Equal(t, apperror.CodeValidation, appErr.Code)
		assert.Equal(t, "internalNumber", appErr.Details["field"])
	}
}

package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindValidation, KindOf(New(KindValidation, "bad input")))
	assert.Equal(t, KindInternal, KindOf(errors.New("plain")))
	assert.Equal(t, KindInternal, KindOf(nil))
}

func TestKindSurvivesWrapping(t *testing.T) {
	err := New(KindDuplicateSettlement, "already recorded")
	wrapped := fmt.Errorf("recording donation: %w", err)

	assert.Equal(t, KindDuplicateSettlement, KindOf(wrapped))
	assert.True(t, Is(wrapped, KindDuplicateSettlement))
	assert.False(t, Is(wrapped, KindValidation))
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(KindLedgerRejected, cause, "failed to read campaign")

	require.ErrorIs(t, err, cause)
	assert.Equal(t, "failed to read campaign: connection refused", err.Error())
}

func TestWithDetail(t *testing.T) {
	err := WithDetail(KindPendingConfirmation, "not yet confirmed", "0xabc")
	assert.Equal(t, "0xabc", DetailOf(err))
	assert.Empty(t, DetailOf(errors.New("plain")))
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "duplicate_settlement", KindDuplicateSettlement.String())
	assert.Equal(t, "pending_confirmation", KindPendingConfirmation.String())
	assert.Equal(t, "internal", KindInternal.String())
}

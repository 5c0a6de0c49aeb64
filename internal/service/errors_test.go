package service

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestConflictRetryRerunsLostRaces(t *testing.T) {
	calls := 0
	err := withConflictRetry(func() error {
		calls++
		if calls == 1 {
			return fmt.Errorf("first attempt: %w", errLostRace)
		}
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, 2, calls)
}

func TestConflictRetrySkipsDeterministicConflicts(t *testing.T) {
	calls := 0
	err := withConflictRetry(func() error {
		calls++
		return fmt.Errorf("order 7 is already completed: %w", ErrConflict)
	})
	require.ErrorIs(t, err, ErrConflict)
	require.Equal(t, 1, calls)
}

func TestConflictRetryPassesOtherErrorsThrough(t *testing.T) {
	boom := errors.New("boom")
	calls := 0
	err := withConflictRetry(func() error {
		calls++
		return boom
	})
	require.ErrorIs(t, err, boom)
	require.Equal(t, 1, calls)
}

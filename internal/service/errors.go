package service

import (
	"errors"
	"fmt"
)

var (
	ErrValidation            = errors.New("validation")             // 400
	ErrAuthorization         = errors.New("forbidden")              // 403
	ErrNotFound              = errors.New("not found")              // 404
	ErrInsufficientInventory = errors.New("insufficient inventory") // 409
	ErrConflict              = errors.New("conflict")               // 409
)

// errLostRace marks a conflict caused by losing to a concurrent writer.
// It wraps ErrConflict, so callers still see a 409, but only this kind
// of conflict is worth re-running: a deterministic rejection, such as an
// order that was already completed, fails the same way every time.
var errLostRace = fmt.Errorf("lost concurrent update: %w", ErrConflict)

// withConflictRetry re-runs a mutating operation once after it loses a
// concurrent-modification race. The second run re-reads state and
// re-validates from scratch; if it still conflicts, the error surfaces.
func withConflictRetry(fn func() error) error {
	err := fn()
	if errors.Is(err, errLostRace) {
		err = fn()
	}
	return err
}

package domain

import "errors"

var (
	// Account errors
	ErrAccountNotFound   = errors.New("account not found")
	ErrSnapshotNotFound  = errors.New("balance snapshot not found")
	ErrInvalidAccountType = errors.New("invalid account type")
	ErrInvalidAccountRef  = errors.New("account reference is incomplete")

	// Materialization errors
	ErrInvariantViolation = errors.New("balance snapshot violates ledger invariant")
	ErrUnsupportedSource  = errors.New("source kind does not apply to account type")
	ErrUnknownPolarity    = errors.New("no polarity mapping for source kind and role")

	// Coordination errors
	ErrLockNotAcquired = errors.New("recalculation lock not acquired")
)

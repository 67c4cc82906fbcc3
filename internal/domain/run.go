package domain

import "time"

// RunOutcome classifies how a recalculation finished.
type RunOutcome string

const (
	RunOutcomeCompleted RunOutcome = "COMPLETED"
	RunOutcomeFailed    RunOutcome = "FAILED"
)

// RecalculationRun is the audit record of one materialization pass for one
// account. Runs are append-only and written best-effort after the pass.
type RecalculationRun struct {
	ID          string
	TenantID    string
	AccountID   string
	AccountType AccountType
	EntryCount  int
	RowsWritten int
	Outcome     RunOutcome
	Error       string
	Duration    time.Duration
	StartedAt   time.Time
}

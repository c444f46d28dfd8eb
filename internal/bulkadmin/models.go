package bulkadmin

import (
	"time"

	id "workpaper/pkg/domain"
)

// Action is an administrative mutation applied to every target in a batch.
type Action string

const (
	ActionSuspend    Action = "suspend"
	ActionReactivate Action = "reactivate"
	ActionDeactivate Action = "deactivate"
)

func ParseAction(s string) (Action, bool) {
	switch Action(s) {
	case ActionSuspend, ActionReactivate, ActionDeactivate:
		return Action(s), true
	}
	return "", false
}

// Outcome tags the aggregated result of a batch. The HTTP boundary maps each
// variant to a status code exhaustively; the coordinator never reasons about
// transport.
type Outcome string

const (
	// OutcomeFullSuccess: every target mutated.
	OutcomeFullSuccess Outcome = "FULL_SUCCESS"
	// OutcomeFullFailureValidation: every target failed pre-execution
	// validation; no state changed.
	OutcomeFullFailureValidation Outcome = "FULL_FAILURE_VALIDATION"
	// OutcomeFullFailureRollback: a storage transaction failure mid-batch;
	// executed mutations were rolled back, no target's state differs from
	// before the call.
	OutcomeFullFailureRollback Outcome = "FULL_FAILURE_ROLLBACK"
	// OutcomePartialSuccess: some targets mutated, others failed for
	// per-target business reasons; successes stand and can be undone while
	// the undo window is open.
	OutcomePartialSuccess Outcome = "PARTIAL_SUCCESS"
	// OutcomeTimeout: the batch exceeded its processing budget; committed
	// targets stand, unprocessed ones are reported not-attempted.
	OutcomeTimeout Outcome = "TIMEOUT"
)

// FailureClass distinguishes why a target failed so the caller can decide
// what to retry. Conflicts are kept apart from validation failures.
type FailureClass string

const (
	// FailureValidation: the target failed a business-rule check before or
	// during its mutation attempt.
	FailureValidation FailureClass = "validation"
	// FailureNotFound: the target identity does not exist.
	FailureNotFound FailureClass = "not_found"
	// FailureInvalidState: the target is already in (or cannot reach) the
	// requested state.
	FailureInvalidState FailureClass = "invalid_state"
	// FailureProtected: the target is a protected administrator.
	FailureProtected FailureClass = "protected"
	// FailureSelf: the caller targeted their own account.
	FailureSelf FailureClass = "self"
	// FailureConflict: a concurrent operation held the target's lock;
	// retrying just this target is safe.
	FailureConflict FailureClass = "conflict"
	// FailureNotAttempted: the batch timed out before this target was
	// processed; no mutation happened.
	FailureNotAttempted FailureClass = "not_attempted"
	// FailureRolledBack: the target itself succeeded but the batch's storage
	// transaction failed, so its mutation was reverted.
	FailureRolledBack FailureClass = "rolled_back"
)

// Failure is one target's failure entry.
type Failure struct {
	TargetID id.IdentityID `json:"target_id"`
	Class    FailureClass  `json:"class"`
	Reason   string        `json:"reason"`
}

// Result is the aggregated outcome of one batch.
type Result struct {
	BatchID      id.BatchID    `json:"batch_id"`
	Action       Action        `json:"action"`
	Outcome      Outcome       `json:"outcome"`
	TotalTargets int           `json:"total_targets"`
	SuccessCount int           `json:"success_count"`
	FailureCount int           `json:"failure_count"`
	Failures     []Failure     `json:"failures,omitempty"`
	// RolledBack is set when executed mutations were reverted after a
	// mid-batch storage failure.
	RolledBack bool `json:"rolled_back"`
	// UndoAvailable reports whether the batch's successes can still be
	// reverted via Undo; UndoExpiresAt is the window's end.
	UndoAvailable bool       `json:"undo_available"`
	UndoExpiresAt *time.Time `json:"undo_expires_at,omitempty"`
}

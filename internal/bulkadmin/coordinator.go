package bulkadmin

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"workpaper/internal/audit"
	bulkmetrics "workpaper/internal/bulkadmin/metrics"
	identitymodels "workpaper/internal/identity/models"
	identitystore "workpaper/internal/identity/store"
	"workpaper/internal/permission"
	id "workpaper/pkg/domain"
	dErrors "workpaper/pkg/domain-errors"
	"workpaper/pkg/platform/sentinel"
	"workpaper/pkg/requestcontext"
)

const (
	// DefaultMaxBatchSize bounds one batch's target count.
	DefaultMaxBatchSize = 100
	// DefaultParallelism bounds intra-batch concurrency.
	DefaultParallelism = 8
	// DefaultTimeout is the batch's overall processing budget.
	DefaultTimeout = 30 * time.Second
	// DefaultUndoWindow is how long a batch's successes stay undoable.
	DefaultUndoWindow = 24 * time.Hour
)

// Authorizer resolves whether the caller may run bulk actions.
type Authorizer interface {
	Check(ctx context.Context, callerID id.IdentityID, resource permission.Resource,
		action permission.Action, checkCtx permission.CheckContext) (permission.Decision, error)
}

// RoleInvalidator drops cached role sets for mutated targets.
type RoleInvalidator interface {
	Invalidate(ctx context.Context, identityID id.IdentityID)
}

// Config bounds a coordinator's batches.
type Config struct {
	MaxBatchSize int
	Parallelism  int
	Timeout      time.Duration
	UndoWindow   time.Duration
}

func (c Config) withDefaults() Config {
	if c.MaxBatchSize <= 0 {
		c.MaxBatchSize = DefaultMaxBatchSize
	}
	if c.Parallelism <= 0 {
		c.Parallelism = DefaultParallelism
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.UndoWindow <= 0 {
		c.UndoWindow = DefaultUndoWindow
	}
	return c
}

// Coordinator executes administrative actions against batches of identities
// with per-target isolation: every mutation runs under its target's store
// lock, targets proceed in parallel up to the configured bound, and failures
// are aggregated per target instead of aborting the batch. Only a storage
// transaction failure aborts and rolls the batch back.
type Coordinator struct {
	identities identitystore.Store
	authorizer Authorizer
	roles      RoleInvalidator
	publisher  *audit.Publisher
	journal    *Journal
	config     Config
	logger     *slog.Logger
	metrics    *bulkmetrics.Metrics
	tracer     trace.Tracer
}

type Option func(*Coordinator)

func WithLogger(logger *slog.Logger) Option {
	return func(c *Coordinator) {
		c.logger = logger
	}
}

func WithMetrics(m *bulkmetrics.Metrics) Option {
	return func(c *Coordinator) {
		c.metrics = m
	}
}

func WithPublisher(p *audit.Publisher) Option {
	return func(c *Coordinator) {
		c.publisher = p
	}
}

func NewCoordinator(identities identitystore.Store, authorizer Authorizer,
	roles RoleInvalidator, config Config, opts ...Option) *Coordinator {
	config = config.withDefaults()
	c := &Coordinator{
		identities: identities,
		authorizer: authorizer,
		roles:      roles,
		journal:    NewJournal(config.UndoWindow),
		config:     config,
		logger:     slog.Default(),
		tracer:     otel.Tracer("workpaper/bulkadmin"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Options tune one batch.
type Options struct {
	// Reason accompanies every audit event of the batch.
	Reason string
	// Override requests the protected-target exception be lifted. Honored
	// only for protected callers; see the permission rules.
	Override bool
}

// Execute runs the action against every target and aggregates the outcome.
//
// Pre-validation (caller authorization, batch shape, duplicates) fails the
// whole request before any target is touched. After that, targets are
// isolated: per-target business failures land in the failure list while the
// rest of the batch proceeds. A storage transaction failure is the only
// event that aborts and rolls back the batch as a unit.
func (c *Coordinator) Execute(ctx context.Context, callerID id.IdentityID, action Action,
	targetIDs []id.IdentityID, opts Options) (*Result, error) {

	ctx, span := c.tracer.Start(ctx, "bulkadmin.execute",
		trace.WithAttributes(
			attribute.String("bulk.action", string(action)),
			attribute.Int("bulk.targets", len(targetIDs)),
		))
	defer span.End()

	if err := c.preValidate(ctx, callerID, action, targetIDs); err != nil {
		return nil, err
	}

	batchID := id.NewBatchID()
	start := time.Now()
	result := c.run(ctx, batchID, callerID, action, targetIDs, opts)
	c.observe(action, result, start)
	c.emitOutcome(ctx, callerID, action, targetIDs, opts.Reason, result)
	span.SetAttributes(attribute.String("bulk.outcome", string(result.Outcome)))
	return result, nil
}

func (c *Coordinator) preValidate(ctx context.Context, callerID id.IdentityID, action Action, targetIDs []id.IdentityID) error {
	decision, err := c.authorizer.Check(ctx, callerID, permission.ResourceBulkAction,
		permission.ActionExecute, permission.CheckContext{})
	if err != nil {
		return err
	}
	if !decision.Granted {
		return dErrors.New(dErrors.CodeForbidden, decision.Reason)
	}

	if len(targetIDs) == 0 {
		return dErrors.NewValidation("batch validation failed",
			dErrors.FieldViolation{Field: "target_ids", Message: "must not be empty"})
	}
	if len(targetIDs) > c.config.MaxBatchSize {
		return dErrors.NewValidation("batch validation failed",
			dErrors.FieldViolation{
				Field:   "target_ids",
				Message: fmt.Sprintf("batch size %d exceeds maximum of %d", len(targetIDs), c.config.MaxBatchSize),
			})
	}
	if dupes := duplicateIDs(targetIDs); len(dupes) > 0 {
		return dErrors.NewValidation("batch validation failed",
			dErrors.FieldViolation{
				Field:   "target_ids",
				Message: fmt.Sprintf("duplicate target ids: %s", joinIDs(dupes)),
			})
	}
	return nil
}

// targetState is one target's slot in the batch. Slots are preallocated so
// aggregation after the errgroup join needs no locking.
type targetState struct {
	targetID id.IdentityID
	failure  *Failure
	snapshot *identitymodels.Identity
	done     bool
}

func (c *Coordinator) run(ctx context.Context, batchID id.BatchID, callerID id.IdentityID,
	action Action, targetIDs []id.IdentityID, opts Options) *Result {

	runCtx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	states := make([]*targetState, len(targetIDs))
	for i, targetID := range targetIDs {
		states[i] = &targetState{targetID: targetID}
	}

	// errTxAbort signals through the group that a storage transaction failed
	// and the batch must roll back.
	var txFailure error
	var txOnce sync.Once

	g, gctx := errgroup.WithContext(runCtx)
	g.SetLimit(c.config.Parallelism)
	for _, state := range states {
		state := state
		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}
			err := c.mutateTarget(gctx, callerID, action, state, opts)
			state.done = true
			if err == nil {
				return nil
			}
			if errors.Is(err, sentinel.ErrTxFailed) {
				txOnce.Do(func() { txFailure = err })
				return err
			}
			state.failure = classify(state.targetID, err)
			return nil
		})
	}
	groupErr := g.Wait()

	if txFailure != nil {
		return c.rollBack(ctx, batchID, action, states, txFailure)
	}

	result := &Result{
		BatchID:      batchID,
		Action:       action,
		TotalTargets: len(targetIDs),
	}
	var entries []journalEntry
	for _, state := range states {
		switch {
		case state.failure != nil:
			result.Failures = append(result.Failures, *state.failure)
		case state.done && state.snapshot != nil:
			result.SuccessCount++
			entries = append(entries, journalEntry{targetID: state.targetID, snapshot: state.snapshot})
		default:
			result.Failures = append(result.Failures, Failure{
				TargetID: state.targetID,
				Class:    FailureNotAttempted,
				Reason:   "batch timed out before this target was processed",
			})
		}
	}
	result.FailureCount = len(result.Failures)

	timedOut := errors.Is(groupErr, context.DeadlineExceeded) || runCtx.Err() != nil
	switch {
	case timedOut && result.SuccessCount < result.TotalTargets:
		result.Outcome = OutcomeTimeout
	case result.FailureCount == 0:
		result.Outcome = OutcomeFullSuccess
	case result.SuccessCount == 0:
		result.Outcome = OutcomeFullFailureValidation
	default:
		result.Outcome = OutcomePartialSuccess
	}

	if result.SuccessCount > 0 {
		expiresAt := c.journal.Record(batchID, entries)
		result.UndoAvailable = true
		result.UndoExpiresAt = &expiresAt
	}
	return result
}

// mutateTarget applies the action to one target under its store lock. The
// pre-mutation snapshot is captured inside the validate callback while the
// lock is held, so the journal entry is consistent with what was mutated.
func (c *Coordinator) mutateTarget(ctx context.Context, callerID id.IdentityID,
	action Action, state *targetState, opts Options) error {

	if state.targetID == callerID {
		return errSelfTarget
	}

	now := requestcontext.Now(ctx)
	var snapshot *identitymodels.Identity
	validate := func(i *identitymodels.Identity) error {
		if i.Protected && !opts.Override {
			return errProtectedTarget
		}
		if err := canApply(i, action); err != nil {
			return err
		}
		snapshot = i.Clone()
		return nil
	}
	mutate := func(i *identitymodels.Identity) {
		apply(i, action, now)
	}

	if _, err := c.identities.Execute(ctx, state.targetID, validate, mutate); err != nil {
		return err
	}
	state.snapshot = snapshot
	c.roles.Invalidate(ctx, state.targetID)
	return nil
}

// rollBack restores every executed target's snapshot after a mid-batch
// storage failure. The batch reports full failure; no target's state differs
// from before the call.
func (c *Coordinator) rollBack(ctx context.Context, batchID id.BatchID, action Action,
	states []*targetState, cause error) *Result {

	ctx, span := c.tracer.Start(ctx, "bulkadmin.rollback")
	defer span.End()

	result := &Result{
		BatchID:      batchID,
		Action:       action,
		Outcome:      OutcomeFullFailureRollback,
		TotalTargets: len(states),
		RolledBack:   true,
	}
	for _, state := range states {
		if state.snapshot != nil {
			if err := c.restore(ctx, state.snapshot); err != nil {
				// The snapshot could not be written back; surface it loudly,
				// this target needs operator attention.
				c.logger.ErrorContext(ctx, "bulk rollback failed for target",
					"batch_id", batchID, "target_id", state.targetID, "error", err)
			} else {
				c.roles.Invalidate(ctx, state.targetID)
			}
		}
		result.Failures = append(result.Failures, Failure{
			TargetID: state.targetID,
			Class:    FailureRolledBack,
			Reason:   "batch rolled back after storage transaction failure",
		})
	}
	result.FailureCount = len(result.Failures)
	c.logger.ErrorContext(ctx, "bulk batch rolled back",
		"batch_id", batchID, "action", action, "error", cause)
	return result
}

func (c *Coordinator) restore(ctx context.Context, snapshot *identitymodels.Identity) error {
	_, err := c.identities.Execute(ctx, snapshot.ID,
		func(*identitymodels.Identity) error { return nil },
		func(i *identitymodels.Identity) { *i = *snapshot.Clone() },
	)
	return err
}

// Undo restores every success of a prior batch from its journal snapshots.
// It fails once the undo window has closed or the batch is unknown.
func (c *Coordinator) Undo(ctx context.Context, callerID id.IdentityID, batchID id.BatchID) (*Result, error) {
	decision, err := c.authorizer.Check(ctx, callerID, permission.ResourceBulkAction,
		permission.ActionExecute, permission.CheckContext{})
	if err != nil {
		return nil, err
	}
	if !decision.Granted {
		return nil, dErrors.New(dErrors.CodeForbidden, decision.Reason)
	}

	entries, ok := c.journal.Take(batchID)
	if !ok {
		return nil, dErrors.New(dErrors.CodeNotFound, "batch is unknown or its undo window has closed")
	}

	result := &Result{
		BatchID:      batchID,
		Outcome:      OutcomeFullSuccess,
		TotalTargets: len(entries),
	}
	for _, entry := range entries {
		if err := c.restore(ctx, entry.snapshot); err != nil {
			result.Failures = append(result.Failures, *classify(entry.targetID, err))
			continue
		}
		c.roles.Invalidate(ctx, entry.targetID)
		result.SuccessCount++
	}
	result.FailureCount = len(result.Failures)
	if result.FailureCount > 0 {
		result.Outcome = OutcomePartialSuccess
	}

	c.emit(ctx, audit.Event{
		ActorID: callerID,
		Action:  audit.EventBulkActionUndone.String(),
		Outcome: string(result.Outcome),
		Reason:  batchID.String(),
	})
	return result, nil
}

var (
	errSelfTarget      = dErrors.New(dErrors.CodeForbidden, "cannot act on own account")
	errProtectedTarget = dErrors.New(dErrors.CodeForbidden, "target is protected")
)

func canApply(i *identitymodels.Identity, action Action) error {
	switch action {
	case ActionSuspend:
		return i.CanSuspend()
	case ActionReactivate:
		return i.CanReactivate()
	case ActionDeactivate:
		return i.CanDeactivate()
	}
	return dErrors.Newf(dErrors.CodeInvalidInput, "unknown action %q", action)
}

func apply(i *identitymodels.Identity, action Action, now time.Time) {
	switch action {
	case ActionSuspend:
		i.ApplySuspension(now)
	case ActionReactivate:
		i.ApplyReactivation(now)
	case ActionDeactivate:
		i.ApplyDeactivation(now)
	}
}

// classify folds an error into the per-target failure taxonomy.
func classify(targetID id.IdentityID, err error) *Failure {
	f := &Failure{TargetID: targetID, Reason: err.Error()}
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		f.Class = FailureNotAttempted
		f.Reason = "batch timed out before this target was processed"
	case errors.Is(err, sentinel.ErrNotFound):
		f.Class = FailureNotFound
		f.Reason = "not found"
	case errors.Is(err, sentinel.ErrConflict):
		f.Class = FailureConflict
		f.Reason = "target was being modified by a concurrent operation"
	case errors.Is(err, errProtectedTarget):
		f.Class = FailureProtected
	case errors.Is(err, errSelfTarget):
		f.Class = FailureSelf
	case dErrors.HasCode(err, dErrors.CodeInvariantViolation):
		f.Class = FailureInvalidState
	default:
		f.Class = FailureValidation
	}
	return f
}

func (c *Coordinator) emitOutcome(ctx context.Context, callerID id.IdentityID, action Action,
	targetIDs []id.IdentityID, reason string, result *Result) {

	event := audit.Event{
		ActorID:   callerID,
		TargetIDs: targetIDs,
		Action:    audit.EventBulkActionExecuted.String(),
		Outcome:   string(result.Outcome),
		Reason:    reason,
	}
	switch result.Outcome {
	case OutcomeFullFailureValidation, OutcomeTimeout:
		event.Action = audit.EventBulkActionFailed.String()
	case OutcomeFullFailureRollback:
		event.Action = audit.EventBulkActionRolledBack.String()
	}
	c.emit(ctx, event)
}

func (c *Coordinator) emit(ctx context.Context, event audit.Event) {
	if c.publisher == nil {
		return
	}
	event.RequestID = requestcontext.RequestID(ctx)
	event.Device = requestcontext.Device(ctx)
	if err := c.publisher.Emit(ctx, event); err != nil {
		c.logger.WarnContext(ctx, "failed to emit audit event", "action", event.Action, "error", err)
	}
}

func (c *Coordinator) observe(action Action, result *Result, start time.Time) {
	if c.metrics != nil {
		c.metrics.ObserveBatch(string(action), string(result.Outcome),
			result.TotalTargets, result.SuccessCount, start)
	}
}

func duplicateIDs(targetIDs []id.IdentityID) []id.IdentityID {
	seen := make(map[id.IdentityID]int, len(targetIDs))
	for _, targetID := range targetIDs {
		seen[targetID]++
	}
	var dupes []id.IdentityID
	for targetID, n := range seen {
		if n > 1 {
			dupes = append(dupes, targetID)
		}
	}
	sort.Slice(dupes, func(i, j int) bool { return dupes[i].String() < dupes[j].String() })
	return dupes
}

func joinIDs(ids []id.IdentityID) string {
	out := ""
	for i, identityID := range ids {
		if i > 0 {
			out += ", "
		}
		out += identityID.String()
	}
	return out
}

package bulkadmin

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"workpaper/internal/audit"
	auditmemory "workpaper/internal/audit/store/memory"
	identitymodels "workpaper/internal/identity/models"
	identitystore "workpaper/internal/identity/store"
	"workpaper/internal/permission"
	id "workpaper/pkg/domain"
	dErrors "workpaper/pkg/domain-errors"
	"workpaper/pkg/platform/sentinel"
	"workpaper/pkg/requestcontext"
)

var bulkNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

// grantAll authorizes every caller; denyAll rejects them.
type grantAll struct{}

func (grantAll) Check(context.Context, id.IdentityID, permission.Resource,
	permission.Action, permission.CheckContext) (permission.Decision, error) {
	return permission.Decision{Granted: true}, nil
}

type denyAll struct{}

func (denyAll) Check(context.Context, id.IdentityID, permission.Resource,
	permission.Action, permission.CheckContext) (permission.Decision, error) {
	return permission.Decision{Granted: false, Reason: "insufficient permissions"}, nil
}

type nopInvalidator struct{}

func (nopInvalidator) Invalidate(context.Context, id.IdentityID) {}

type CoordinatorSuite struct {
	suite.Suite
	identities  *identitystore.InMemory
	auditStore  *auditmemory.Store
	coordinator *Coordinator
	ctx         context.Context
	caller      id.IdentityID
}

func (s *CoordinatorSuite) SetupTest() {
	s.identities = identitystore.NewInMemory()
	s.auditStore = auditmemory.New()
	s.coordinator = NewCoordinator(s.identities, grantAll{}, nopInvalidator{},
		Config{Parallelism: 1},
		WithPublisher(audit.NewPublisher(s.auditStore)),
	)
	s.caller = id.NewIdentityID()
	s.ctx = requestcontext.WithActorID(
		requestcontext.WithTime(context.Background(), bulkNow), s.caller)
}

func (s *CoordinatorSuite) addIdentity(status identitymodels.IdentityStatus, protected bool) id.IdentityID {
	identity, err := identitymodels.NewIdentity(id.NewIdentityID(), id.IdentityPersonal, "Target", bulkNow)
	s.Require().NoError(err)
	identity.Status = status
	identity.Protected = protected
	s.Require().NoError(s.identities.Create(context.Background(), identity))
	return identity.ID
}

func (s *CoordinatorSuite) status(identityID id.IdentityID) identitymodels.IdentityStatus {
	identity, err := s.identities.FindByID(context.Background(), identityID)
	s.Require().NoError(err)
	return identity.Status
}

func (s *CoordinatorSuite) TestFullSuccess() {
	targets := []id.IdentityID{
		s.addIdentity(identitymodels.StatusActive, false),
		s.addIdentity(identitymodels.StatusActive, false),
	}

	result, err := s.coordinator.Execute(s.ctx, s.caller, ActionSuspend, targets, Options{Reason: "policy breach"})
	s.Require().NoError(err)
	s.Equal(OutcomeFullSuccess, result.Outcome)
	s.Equal(2, result.SuccessCount)
	s.Zero(result.FailureCount)
	s.True(result.UndoAvailable)
	s.Require().NotNil(result.UndoExpiresAt)
	for _, target := range targets {
		s.Equal(identitymodels.StatusSuspended, s.status(target))
	}

	events := s.auditStore.All()
	s.Require().Len(events, 1)
	s.Equal(audit.EventBulkActionExecuted.String(), events[0].Action)
	s.Equal(targets, events[0].TargetIDs)
}

func (s *CoordinatorSuite) TestCallerAuthorizationDeniedBeforeAnyMutation() {
	denied := NewCoordinator(s.identities, denyAll{}, nopInvalidator{}, Config{})
	target := s.addIdentity(identitymodels.StatusActive, false)

	_, err := denied.Execute(s.ctx, s.caller, ActionSuspend, []id.IdentityID{target}, Options{})
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
	s.Equal(identitymodels.StatusActive, s.status(target))
}

func (s *CoordinatorSuite) TestBatchSizeBoundary() {
	atLimit := make([]id.IdentityID, 0, 100)
	for range 100 {
		atLimit = append(atLimit, s.addIdentity(identitymodels.StatusActive, false))
	}
	result, err := s.coordinator.Execute(s.ctx, s.caller, ActionSuspend, atLimit, Options{})
	s.Require().NoError(err, "100 targets must pass validation")
	s.Equal(OutcomeFullSuccess, result.Outcome)

	overLimit := append(atLimit, s.addIdentity(identitymodels.StatusActive, false))
	_, err = s.coordinator.Execute(s.ctx, s.caller, ActionReactivate, overLimit, Options{})
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	violations := dErrors.ViolationsOf(err)
	s.Require().Len(violations, 1)
	s.Contains(violations[0].Message, "101")
	s.Contains(violations[0].Message, "100")
}

func (s *CoordinatorSuite) TestDuplicateTargetsRejectedNamingTheDuplicate() {
	u1 := s.addIdentity(identitymodels.StatusActive, false)
	u2 := s.addIdentity(identitymodels.StatusActive, false)

	_, err := s.coordinator.Execute(s.ctx, s.caller, ActionSuspend,
		[]id.IdentityID{u1, u2, u1}, Options{})
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	violations := dErrors.ViolationsOf(err)
	s.Require().Len(violations, 1)
	s.Contains(violations[0].Message, u1.String())
	s.NotContains(violations[0].Message, u2.String())
	s.Equal(identitymodels.StatusActive, s.status(u1), "duplicates must be rejected before any mutation")
}

func (s *CoordinatorSuite) TestEmptyBatchRejected() {
	_, err := s.coordinator.Execute(s.ctx, s.caller, ActionSuspend, nil, Options{})
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
}

func (s *CoordinatorSuite) TestPartialSuccessAccounting() {
	existing1 := s.addIdentity(identitymodels.StatusActive, false)
	existing2 := s.addIdentity(identitymodels.StatusActive, false)
	missing := id.NewIdentityID()

	result, err := s.coordinator.Execute(s.ctx, s.caller, ActionSuspend,
		[]id.IdentityID{existing1, existing2, missing}, Options{})
	s.Require().NoError(err)
	s.Equal(OutcomePartialSuccess, result.Outcome)
	s.Equal(3, result.TotalTargets)
	s.Equal(2, result.SuccessCount)
	s.Equal(1, result.FailureCount)
	s.Require().Len(result.Failures, 1)
	s.Equal(missing, result.Failures[0].TargetID)
	s.Equal(FailureNotFound, result.Failures[0].Class)
	s.Equal("not found", result.Failures[0].Reason)
	s.True(result.UndoAvailable)
}

func (s *CoordinatorSuite) TestAlreadyInStateIsInvalidStateFailure() {
	suspended := s.addIdentity(identitymodels.StatusSuspended, false)

	result, err := s.coordinator.Execute(s.ctx, s.caller, ActionSuspend,
		[]id.IdentityID{suspended}, Options{})
	s.Require().NoError(err)
	s.Equal(OutcomeFullFailureValidation, result.Outcome)
	s.Require().Len(result.Failures, 1)
	s.Equal(FailureInvalidState, result.Failures[0].Class)
	s.False(result.UndoAvailable)
}

func (s *CoordinatorSuite) TestConflictIsADistinctFailureClass() {
	contended := s.addIdentity(identitymodels.StatusActive, false)
	ok := s.addIdentity(identitymodels.StatusActive, false)
	s.identities.FailExecuteFor(contended, sentinel.ErrConflict)

	result, err := s.coordinator.Execute(s.ctx, s.caller, ActionSuspend,
		[]id.IdentityID{contended, ok}, Options{})
	s.Require().NoError(err)
	s.Equal(OutcomePartialSuccess, result.Outcome)
	s.Require().Len(result.Failures, 1)
	s.Equal(FailureConflict, result.Failures[0].Class)
}

func (s *CoordinatorSuite) TestProtectedTargetFails() {
	protected := s.addIdentity(identitymodels.StatusActive, true)

	result, err := s.coordinator.Execute(s.ctx, s.caller, ActionSuspend,
		[]id.IdentityID{protected}, Options{})
	s.Require().NoError(err)
	s.Require().Len(result.Failures, 1)
	s.Equal(FailureProtected, result.Failures[0].Class)
	s.Equal(identitymodels.StatusActive, s.status(protected))
}

func (s *CoordinatorSuite) TestProtectedTargetSucceedsWithOverride() {
	protected := s.addIdentity(identitymodels.StatusActive, true)

	result, err := s.coordinator.Execute(s.ctx, s.caller, ActionSuspend,
		[]id.IdentityID{protected}, Options{Override: true})
	s.Require().NoError(err)
	s.Equal(OutcomeFullSuccess, result.Outcome)
	s.Equal(identitymodels.StatusSuspended, s.status(protected))
}

func (s *CoordinatorSuite) TestSelfTargetFails() {
	caller := s.addIdentity(identitymodels.StatusActive, false)
	other := s.addIdentity(identitymodels.StatusActive, false)

	result, err := s.coordinator.Execute(s.ctx, caller, ActionSuspend,
		[]id.IdentityID{caller, other}, Options{})
	s.Require().NoError(err)
	s.Equal(OutcomePartialSuccess, result.Outcome)
	s.Require().Len(result.Failures, 1)
	s.Equal(FailureSelf, result.Failures[0].Class)
	s.Equal(caller, result.Failures[0].TargetID)
	s.Equal(identitymodels.StatusActive, s.status(caller))
	s.Equal(identitymodels.StatusSuspended, s.status(other))
}

func (s *CoordinatorSuite) TestRollbackOnTransactionFailure() {
	first := s.addIdentity(identitymodels.StatusActive, false)
	second := s.addIdentity(identitymodels.StatusActive, false)
	failing := s.addIdentity(identitymodels.StatusActive, false)
	s.identities.FailExecuteFor(failing, sentinel.ErrTxFailed)

	// Parallelism 1 processes targets in order, so the first two commit
	// before the storage failure fires.
	result, err := s.coordinator.Execute(s.ctx, s.caller, ActionSuspend,
		[]id.IdentityID{first, second, failing}, Options{})
	s.Require().NoError(err)
	s.Equal(OutcomeFullFailureRollback, result.Outcome)
	s.True(result.RolledBack)
	s.Zero(result.SuccessCount)
	s.False(result.UndoAvailable)

	for _, target := range []id.IdentityID{first, second, failing} {
		s.Equal(identitymodels.StatusActive, s.status(target),
			"no target's state may differ from before the call")
	}

	// Reverted targets report the rollback class, not a validation failure.
	s.Require().NotEmpty(result.Failures)
	for _, failure := range result.Failures {
		if failure.TargetID == failing {
			continue
		}
		s.Equal(FailureRolledBack, failure.Class)
		s.Equal("batch rolled back after storage transaction failure", failure.Reason)
	}

	events := s.auditStore.All()
	s.Require().Len(events, 1)
	s.Equal(audit.EventBulkActionRolledBack.String(), events[0].Action)
}

func (s *CoordinatorSuite) TestUndoRestoresSnapshots() {
	first := s.addIdentity(identitymodels.StatusActive, false)
	second := s.addIdentity(identitymodels.StatusActive, false)

	result, err := s.coordinator.Execute(s.ctx, s.caller, ActionSuspend,
		[]id.IdentityID{first, second}, Options{})
	s.Require().NoError(err)
	s.Equal(identitymodels.StatusSuspended, s.status(first))

	undone, err := s.coordinator.Undo(s.ctx, s.caller, result.BatchID)
	s.Require().NoError(err)
	s.Equal(OutcomeFullSuccess, undone.Outcome)
	s.Equal(2, undone.SuccessCount)
	s.Equal(identitymodels.StatusActive, s.status(first))
	s.Equal(identitymodels.StatusActive, s.status(second))

	_, err = s.coordinator.Undo(s.ctx, s.caller, result.BatchID)
	s.Require().Error(err, "a batch can only be undone once")
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *CoordinatorSuite) TestUndoUnknownBatch() {
	_, err := s.coordinator.Undo(s.ctx, s.caller, id.NewBatchID())
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func TestCoordinatorSuite(t *testing.T) {
	suite.Run(t, new(CoordinatorSuite))
}

// slowStore delays every Execute so timeout behavior is observable.
type slowStore struct {
	identitystore.Store
	delay time.Duration
}

func (s *slowStore) Execute(ctx context.Context, identityID id.IdentityID,
	validate func(*identitymodels.Identity) error,
	mutate func(*identitymodels.Identity)) (*identitymodels.Identity, error) {

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(s.delay):
	}
	return s.Store.Execute(ctx, identityID, validate, mutate)
}

func TestTimeoutReportsUnprocessedAsNotAttempted(t *testing.T) {
	store := identitystore.NewInMemory()
	targets := make([]id.IdentityID, 0, 3)
	for range 3 {
		identity, err := identitymodels.NewIdentity(id.NewIdentityID(), id.IdentityPersonal, "Target", bulkNow)
		require.NoError(t, err)
		require.NoError(t, store.Create(context.Background(), identity))
		targets = append(targets, identity.ID)
	}

	coordinator := NewCoordinator(&slowStore{Store: store, delay: 100 * time.Millisecond},
		grantAll{}, nopInvalidator{},
		Config{Parallelism: 1, Timeout: 150 * time.Millisecond})

	ctx := requestcontext.WithTime(context.Background(), bulkNow)
	result, err := coordinator.Execute(ctx, id.NewIdentityID(), ActionSuspend, targets, Options{})
	require.NoError(t, err)
	assert.Equal(t, OutcomeTimeout, result.Outcome)
	assert.Equal(t, 1, result.SuccessCount, "the first target commits before the deadline")
	assert.Equal(t, 2, result.FailureCount)
	for _, failure := range result.Failures {
		assert.Equal(t, FailureNotAttempted, failure.Class)
	}

	// Committed mutations stand after a timeout.
	first, err := store.FindByID(context.Background(), targets[0])
	require.NoError(t, err)
	assert.Equal(t, identitymodels.StatusSuspended, first.Status)
}

func TestJournalWindowExpiry(t *testing.T) {
	now := bulkNow
	journal := NewJournal(24*time.Hour, WithJournalClock(func() time.Time { return now }))
	batchID := id.NewBatchID()
	journal.Record(batchID, []journalEntry{{targetID: id.NewIdentityID()}})

	now = now.Add(25 * time.Hour)
	_, ok := journal.Take(batchID)
	assert.False(t, ok, "snapshots are unavailable once the undo window closes")
}

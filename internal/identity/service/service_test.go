package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"workpaper/internal/audit"
	auditmemory "workpaper/internal/audit/store/memory"
	"workpaper/internal/identity/models"
	"workpaper/internal/identity/store"
	id "workpaper/pkg/domain"
	dErrors "workpaper/pkg/domain-errors"
	"workpaper/pkg/platform/sentinel"
	"workpaper/pkg/requestcontext"
)

var serviceNow = time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC)

type countingInvalidator struct {
	calls map[id.IdentityID]int
}

func (c *countingInvalidator) Invalidate(_ context.Context, identityID id.IdentityID) {
	if c.calls == nil {
		c.calls = make(map[id.IdentityID]int)
	}
	c.calls[identityID]++
}

type IdentityServiceSuite struct {
	suite.Suite
	identities  *store.InMemory
	auditStore  *auditmemory.Store
	invalidator *countingInvalidator
	service     *Service
	ctx         context.Context
	actor       id.IdentityID
}

func (s *IdentityServiceSuite) SetupTest() {
	s.identities = store.NewInMemory()
	s.auditStore = auditmemory.New()
	s.invalidator = &countingInvalidator{}
	s.service = New(s.identities, s.invalidator, audit.NewPublisher(s.auditStore))
	s.actor = id.NewIdentityID()
	s.ctx = requestcontext.WithActorID(
		requestcontext.WithTime(context.Background(), serviceNow), s.actor)
}

func (s *IdentityServiceSuite) TestCreatePersonal() {
	identity, err := s.service.Create(s.ctx, id.IdentityPersonal, "Ann")
	s.Require().NoError(err)
	s.Equal(models.StatusActive, identity.Status)
	s.Equal(serviceNow, identity.CreatedAt)

	stored, err := s.service.Get(s.ctx, identity.ID)
	s.Require().NoError(err)
	s.Equal(identity.ID, stored.ID)
}

func (s *IdentityServiceSuite) TestCreateRejectsEmptyName() {
	_, err := s.service.Create(s.ctx, id.IdentityPersonal, "")
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeInvariantViolation))
}

func (s *IdentityServiceSuite) TestSuspendReactivateCycle() {
	identity, err := s.service.Create(s.ctx, id.IdentityPersonal, "Ann")
	s.Require().NoError(err)

	suspended, err := s.service.Suspend(s.ctx, identity.ID, "fraud review")
	s.Require().NoError(err)
	s.Equal(models.StatusSuspended, suspended.Status)
	s.Equal(1, s.invalidator.calls[identity.ID])

	reactivated, err := s.service.Reactivate(s.ctx, identity.ID, "review cleared")
	s.Require().NoError(err)
	s.Equal(models.StatusActive, reactivated.Status)
	s.Equal(2, s.invalidator.calls[identity.ID])

	events := s.auditStore.All()
	s.Require().Len(events, 2)
	s.Equal(audit.EventIdentitySuspended.String(), events[0].Action)
	s.Equal("fraud review", events[0].Reason)
	s.Equal(s.actor, events[0].ActorID)
	s.Equal(audit.EventIdentityReactivated.String(), events[1].Action)
}

func (s *IdentityServiceSuite) TestSuspendTwiceRejected() {
	identity, err := s.service.Create(s.ctx, id.IdentityPersonal, "Ann")
	s.Require().NoError(err)
	_, err = s.service.Suspend(s.ctx, identity.ID, "first")
	s.Require().NoError(err)

	_, err = s.service.Suspend(s.ctx, identity.ID, "second")
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	s.Equal(1, s.invalidator.calls[identity.ID], "failed transitions must not invalidate")
}

func (s *IdentityServiceSuite) TestDeactivationIsTerminal() {
	identity, err := s.service.Create(s.ctx, id.IdentityPersonal, "Ann")
	s.Require().NoError(err)
	deactivated, err := s.service.Deactivate(s.ctx, identity.ID, "account closed")
	s.Require().NoError(err)
	s.Equal(models.StatusDeactivated, deactivated.Status)

	_, err = s.service.Reactivate(s.ctx, identity.ID, "oops")
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeInvariantViolation))
}

func (s *IdentityServiceSuite) TestSuspendUnknownIdentity() {
	_, err := s.service.Suspend(s.ctx, id.NewIdentityID(), "fraud")
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func TestIdentityServiceSuite(t *testing.T) {
	suite.Run(t, new(IdentityServiceSuite))
}

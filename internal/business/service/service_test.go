package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"workpaper/internal/audit"
	auditmemory "workpaper/internal/audit/store/memory"
	"workpaper/internal/business/models"
	"workpaper/internal/business/store"
	papermodels "workpaper/internal/paper/models"
	paperstore "workpaper/internal/paper/store"
	id "workpaper/pkg/domain"
	dErrors "workpaper/pkg/domain-errors"
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

type BusinessServiceSuite struct {
	suite.Suite
	businesses  *store.InMemory
	papers      *paperstore.InMemory
	auditStore  *auditmemory.Store
	invalidator *countingInvalidator
	service     *Service
	ctx         context.Context
	owner       id.IdentityID
}

func (s *BusinessServiceSuite) SetupTest() {
	s.businesses = store.NewInMemory()
	s.papers = paperstore.NewInMemory()
	s.auditStore = auditmemory.New()
	s.invalidator = &countingInvalidator{}
	s.service = New(s.businesses, s.papers, s.invalidator, audit.NewPublisher(s.auditStore))
	s.owner = id.NewIdentityID()
	s.ctx = requestcontext.WithActorID(
		requestcontext.WithTime(context.Background(), serviceNow), s.owner)
}

func (s *BusinessServiceSuite) register(number string) *models.Business {
	business, err := s.service.Register(s.ctx, RegisterInput{
		RegistrationNumber: number,
		Name:               "Acme",
		BusinessType:       "LLC",
		OwnerIdentityID:    s.owner,
	})
	s.Require().NoError(err)
	return business
}

func (s *BusinessServiceSuite) addPaper(businessID id.BusinessID, holder id.IdentityID) id.PaperID {
	start := serviceNow.Add(-30 * 24 * time.Hour)
	paper, err := papermodels.NewPaper(id.NewPaperID(), id.PaperEmploymentContract, holder,
		&businessID, papermodels.Payload{Position: "clerk", StartDate: &start}, start, nil, serviceNow)
	s.Require().NoError(err)
	paper.ApplyReview(id.VerificationVerified, serviceNow)
	s.Require().NoError(s.papers.Create(s.ctx, paper))
	return paper.ID
}

func (s *BusinessServiceSuite) TestRegisterStartsUnverified() {
	business := s.register("REG-1")
	s.Equal(id.VerificationUnverified, business.Verification)
	s.True(business.Active)

	events := s.auditStore.All()
	s.Require().Len(events, 1)
	s.Equal(audit.EventBusinessRegistered.String(), events[0].Action)
}

func (s *BusinessServiceSuite) TestRegisterDuplicateNumberConflicts() {
	s.register("REG-1")
	_, err := s.service.Register(s.ctx, RegisterInput{
		RegistrationNumber: "REG-1",
		Name:               "Other",
		BusinessType:       "LLC",
		OwnerIdentityID:    id.NewIdentityID(),
	})
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeConflict))
}

func (s *BusinessServiceSuite) TestReviewVerifiedInvalidatesOwner() {
	business := s.register("REG-1")

	reviewed, err := s.service.Review(s.ctx, business.ID, id.VerificationVerified)
	s.Require().NoError(err)
	s.Equal(id.VerificationVerified, reviewed.Verification)
	s.Equal(1, s.invalidator.calls[s.owner])

	// The review outcome is terminal.
	_, err = s.service.Review(s.ctx, business.ID, id.VerificationRejected)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeInvariantViolation))
}

func (s *BusinessServiceSuite) TestReviewRejectsBadOutcome() {
	business := s.register("REG-1")
	_, err := s.service.Review(s.ctx, business.ID, id.VerificationUnverified)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
}

func (s *BusinessServiceSuite) TestDeactivateCascadesToPapers() {
	business := s.register("REG-1")
	_, err := s.service.Review(s.ctx, business.ID, id.VerificationVerified)
	s.Require().NoError(err)

	worker1 := id.NewIdentityID()
	worker2 := id.NewIdentityID()
	paper1 := s.addPaper(business.ID, worker1)
	paper2 := s.addPaper(business.ID, worker2)

	deactivated, err := s.service.Deactivate(s.ctx, business.ID, "closed down")
	s.Require().NoError(err)
	s.False(deactivated.Active)

	for _, paperID := range []id.PaperID{paper1, paper2} {
		paper, err := s.papers.FindByID(s.ctx, paperID)
		s.Require().NoError(err)
		s.False(paper.Active, "papers scoped to the business must be retired")
	}

	// Owner plus both paper holders lose their cached roles.
	s.Equal(1, s.invalidator.calls[worker1])
	s.Equal(1, s.invalidator.calls[worker2])
	s.GreaterOrEqual(s.invalidator.calls[s.owner], 1)
}

func (s *BusinessServiceSuite) TestDeactivateTwiceRejected() {
	business := s.register("REG-1")
	_, err := s.service.Deactivate(s.ctx, business.ID, "closed")
	s.Require().NoError(err)

	_, err = s.service.Deactivate(s.ctx, business.ID, "again")
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeInvariantViolation))
}

func (s *BusinessServiceSuite) TestDeactivateSkipsAlreadyRetiredPapers() {
	business := s.register("REG-1")
	worker := id.NewIdentityID()
	paperID := s.addPaper(business.ID, worker)

	_, err := s.papers.Execute(s.ctx, paperID,
		func(p *papermodels.Paper) error { return p.CanDeactivate() },
		func(p *papermodels.Paper) { p.ApplyDeactivation(serviceNow) },
	)
	s.Require().NoError(err)

	_, err = s.service.Deactivate(s.ctx, business.ID, "closed")
	s.Require().NoError(err)
	s.Zero(s.invalidator.calls[worker], "retired papers are outside the cascade")
}

func TestBusinessServiceSuite(t *testing.T) {
	suite.Run(t, new(BusinessServiceSuite))
}

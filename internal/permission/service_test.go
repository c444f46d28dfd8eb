package permission

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	identitymodels "workpaper/internal/identity/models"
	"workpaper/internal/role"
	id "workpaper/pkg/domain"
	dErrors "workpaper/pkg/domain-errors"
	"workpaper/pkg/platform/sentinel"
)

type stubRoleSource struct {
	sets map[id.IdentityID]role.Set
	err  error
}

func (s *stubRoleSource) Derive(_ context.Context, identityID id.IdentityID) (role.Set, error) {
	if s.err != nil {
		return role.Set{}, s.err
	}
	if set, ok := s.sets[identityID]; ok {
		return set, nil
	}
	return role.NewSet(role.Role{Type: id.RoleSeeker}), nil
}

type stubIdentityReader struct {
	identities map[id.IdentityID]*identitymodels.Identity
}

func (s *stubIdentityReader) FindByID(_ context.Context, identityID id.IdentityID) (*identitymodels.Identity, error) {
	identity, ok := s.identities[identityID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return identity, nil
}

type ServiceSuite struct {
	suite.Suite
	roles      *stubRoleSource
	identities *stubIdentityReader
	service    *Service
	ctx        context.Context

	caller   id.IdentityID
	business id.BusinessID
}

func (s *ServiceSuite) SetupTest() {
	s.roles = &stubRoleSource{sets: map[id.IdentityID]role.Set{}}
	s.identities = &stubIdentityReader{identities: map[id.IdentityID]*identitymodels.Identity{}}
	s.service = New(s.roles, s.identities)
	s.ctx = context.Background()
	s.caller = s.addIdentity(false)
	s.business = id.NewBusinessID()
}

func (s *ServiceSuite) addIdentity(protected bool) id.IdentityID {
	identityID := id.NewIdentityID()
	s.identities.identities[identityID] = &identitymodels.Identity{
		ID:        identityID,
		Type:      id.IdentityPersonal,
		Status:    identitymodels.StatusActive,
		Protected: protected,
	}
	return identityID
}

func (s *ServiceSuite) grantRole(identityID id.IdentityID, roleType id.RoleType, businessID *id.BusinessID) {
	set, ok := s.roles.sets[identityID]
	if !ok {
		set = role.NewSet()
	}
	s.roles.sets[identityID] = role.NewSet(append(set.Roles(), role.Role{Type: roleType, BusinessID: businessID})...)
}

func (s *ServiceSuite) check(resource Resource, action Action, checkCtx CheckContext) Decision {
	decision, err := s.service.Check(s.ctx, s.caller, resource, action, checkCtx)
	s.Require().NoError(err)
	return decision
}

func (s *ServiceSuite) TestSeekerCanReadOwnResources() {
	decision := s.check(ResourcePaper, ActionRead, CheckContext{ResourceOwnerID: &s.caller})
	s.True(decision.Granted)
	s.Equal(ReasonOwnResource, decision.Reason)
}

func (s *ServiceSuite) TestDefaultDeny() {
	decision := s.check(ResourceBusiness, ActionVerify, CheckContext{})
	s.False(decision.Granted)
	s.Equal(ReasonInsufficient, decision.Reason)
}

func (s *ServiceSuite) TestSupervisorCanSuspendInContext() {
	s.grantRole(s.caller, id.RoleSupervisor, &s.business)
	target := s.addIdentity(false)

	decision := s.check(ResourceIdentity, ActionSuspend, CheckContext{
		BusinessID:       &s.business,
		TargetIdentityID: &target,
	})
	s.True(decision.Granted)
	s.Equal(ReasonRoleGranted, decision.Reason)
}

func (s *ServiceSuite) TestManagerCannotSuspend() {
	s.grantRole(s.caller, id.RoleManager, &s.business)
	target := s.addIdentity(false)

	decision := s.check(ResourceIdentity, ActionSuspend, CheckContext{
		BusinessID:       &s.business,
		TargetIdentityID: &target,
	})
	s.False(decision.Granted)
}

func (s *ServiceSuite) TestContextScopingExcludesOtherBusinessRoles() {
	otherBusiness := id.NewBusinessID()
	s.grantRole(s.caller, id.RoleSupervisor, &otherBusiness)
	target := s.addIdentity(false)

	decision := s.check(ResourceIdentity, ActionSuspend, CheckContext{
		BusinessID:       &s.business,
		TargetIdentityID: &target,
	})
	s.False(decision.Granted)
}

func (s *ServiceSuite) TestSelfActionDeniedRegardlessOfRole() {
	s.grantRole(s.caller, id.RoleFranchisor, &s.business)

	decision := s.check(ResourceIdentity, ActionSuspend, CheckContext{
		TargetIdentityID: &s.caller,
	})
	s.False(decision.Granted)
	s.Equal(ReasonSelfAction, decision.Reason)
}

func (s *ServiceSuite) TestProtectedTargetDenied() {
	s.grantRole(s.caller, id.RoleFranchisor, &s.business)
	target := s.addIdentity(true)

	decision := s.check(ResourceIdentity, ActionDeactivate, CheckContext{
		TargetIdentityID: &target,
	})
	s.False(decision.Granted)
	s.Equal(ReasonTargetProtected, decision.Reason)
}

func (s *ServiceSuite) TestProtectedOverrideRequiresProtectedCaller() {
	s.grantRole(s.caller, id.RoleFranchisor, &s.business)
	target := s.addIdentity(true)

	decision := s.check(ResourceIdentity, ActionDeactivate, CheckContext{
		TargetIdentityID: &target,
		Override:         true,
	})
	s.False(decision.Granted, "override from an unprotected caller is ignored")

	protectedCaller := s.addIdentity(true)
	s.grantRole(protectedCaller, id.RoleFranchisor, &s.business)
	decision, err := s.service.Check(s.ctx, protectedCaller, ResourceIdentity, ActionDeactivate, CheckContext{
		BusinessID:       &s.business,
		TargetIdentityID: &target,
		Override:         true,
	})
	s.Require().NoError(err)
	s.True(decision.Granted)
}

func (s *ServiceSuite) TestOwnershipShortcutOnlyForSelfService() {
	// Owning the resource does not allow destructive actions on it.
	decision := s.check(ResourcePaper, ActionDeactivate, CheckContext{ResourceOwnerID: &s.caller})
	s.False(decision.Granted)
}

func (s *ServiceSuite) TestContainmentChain() {
	// Every pair the tier below permits is permitted by the tier above.
	chain := []id.RoleType{id.RoleSeeker, id.RoleWorker, id.RoleManager,
		id.RoleSupervisor, id.RoleOwner, id.RoleFranchisee, id.RoleFranchisor}
	for i := 1; i < len(chain); i++ {
		lower, higher := chain[i-1], chain[i]
		for cap := range capabilityTable[lower] {
			s.True(roleAllows(higher, cap.resource, cap.action),
				"%s must contain %s capability %s/%s", higher, lower, cap.resource, cap.action)
		}
	}
}

func (s *ServiceSuite) TestRoleSourceFailurePropagates() {
	s.roles.err = dErrors.New(dErrors.CodeUnavailable, "store down")

	_, err := s.service.Check(s.ctx, s.caller, ResourcePaper, ActionVerify, CheckContext{})
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeUnavailable))
}

func (s *ServiceSuite) TestNilCallerUnauthorized() {
	_, err := s.service.Check(s.ctx, id.IdentityID{}, ResourcePaper, ActionRead, CheckContext{})
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

package permission

import id "workpaper/pkg/domain"

// capability is one permitted (resource, action) pair.
type capability struct {
	resource Resource
	action   Action
}

// capabilityTable maps each role type to the pairs it permits. Built once at
// package init by folding each tier's additions onto the tier below, which
// keeps the containment chain
//
//	FRANCHISOR ⊇ OWNER/FRANCHISEE ⊇ SUPERVISOR/MANAGER ⊇ WORKER ⊇ SEEKER
//
// true by construction rather than by review.
var capabilityTable = buildCapabilityTable()

func buildCapabilityTable() map[id.RoleType]map[capability]bool {
	table := make(map[id.RoleType]map[capability]bool)

	grant := func(role id.RoleType, caps ...capability) {
		if table[role] == nil {
			table[role] = make(map[capability]bool)
		}
		for _, c := range caps {
			table[role][c] = true
		}
	}
	inherit := func(role, from id.RoleType) {
		for c := range table[from] {
			grant(role, c)
		}
	}

	// SEEKER: self service plus the registrations that bootstrap every
	// other role.
	grant(id.RoleSeeker,
		capability{ResourceIdentity, ActionRead},
		capability{ResourcePaper, ActionRead},
		capability{ResourcePaper, ActionCreate},
		capability{ResourceBusiness, ActionRead},
		capability{ResourceBusiness, ActionCreate},
	)

	// WORKER adds attendance self-service.
	inherit(id.RoleWorker, id.RoleSeeker)
	grant(id.RoleWorker,
		capability{ResourceAttendance, ActionRead},
		capability{ResourceAttendance, ActionCreate},
	)

	// MANAGER adds workforce reads and paper verification in context.
	inherit(id.RoleManager, id.RoleWorker)
	grant(id.RoleManager,
		capability{ResourceIdentity, ActionUpdate},
		capability{ResourcePaper, ActionVerify},
		capability{ResourceReport, ActionRead},
	)

	// SUPERVISOR adds destructive workforce actions in context.
	inherit(id.RoleSupervisor, id.RoleManager)
	grant(id.RoleSupervisor,
		capability{ResourceIdentity, ActionSuspend},
		capability{ResourceAttendance, ActionUpdate},
	)

	// OWNER adds business management and bulk execution.
	inherit(id.RoleOwner, id.RoleSupervisor)
	grant(id.RoleOwner,
		capability{ResourceBusiness, ActionUpdate},
		capability{ResourceBusiness, ActionDeactivate},
		capability{ResourcePaper, ActionDeactivate},
		capability{ResourcePaper, ActionExtend},
		capability{ResourceIdentity, ActionDeactivate},
		capability{ResourceBulkAction, ActionExecute},
	)

	// FRANCHISEE keeps full OWNER capabilities.
	inherit(id.RoleFranchisee, id.RoleOwner)

	// FRANCHISOR adds cross-business oversight.
	inherit(id.RoleFranchisor, id.RoleFranchisee)
	grant(id.RoleFranchisor,
		capability{ResourceBusiness, ActionVerify},
		capability{ResourceIdentity, ActionDelete},
		capability{ResourceIdentity, ActionDemote},
	)

	return table
}

// roleAllows reports whether the role type permits the pair.
func roleAllows(role id.RoleType, resource Resource, action Action) bool {
	return capabilityTable[role][capability{resource, action}]
}

package permission

import (
	id "workpaper/pkg/domain"
	dErrors "workpaper/pkg/domain-errors"
)

// Resource names an authorization-gated surface.
type Resource string

const (
	ResourceIdentity   Resource = "identity"
	ResourcePaper      Resource = "paper"
	ResourceBusiness   Resource = "business"
	ResourceAttendance Resource = "attendance"
	ResourceReport     Resource = "report"
	ResourceBulkAction Resource = "bulk_action"
)

var validResources = map[Resource]bool{
	ResourceIdentity:   true,
	ResourcePaper:      true,
	ResourceBusiness:   true,
	ResourceAttendance: true,
	ResourceReport:     true,
	ResourceBulkAction: true,
}

// ParseResource constructs a Resource from external input.
func ParseResource(s string) (Resource, error) {
	r := Resource(s)
	if !validResources[r] {
		return "", dErrors.New(dErrors.CodeInvalidInput, "invalid resource")
	}
	return r, nil
}

// Action names an operation on a resource.
type Action string

const (
	ActionRead       Action = "read"
	ActionCreate     Action = "create"
	ActionUpdate     Action = "update"
	ActionVerify     Action = "verify"
	ActionDeactivate Action = "deactivate"
	ActionExtend     Action = "extend"
	ActionSuspend    Action = "suspend"
	ActionDelete     Action = "delete"
	ActionDemote     Action = "demote"
	ActionExecute    Action = "execute"
)

var validActions = map[Action]bool{
	ActionRead:       true,
	ActionCreate:     true,
	ActionUpdate:     true,
	ActionVerify:     true,
	ActionDeactivate: true,
	ActionExtend:     true,
	ActionSuspend:    true,
	ActionDelete:     true,
	ActionDemote:     true,
	ActionExecute:    true,
}

// ParseAction constructs an Action from external input.
func ParseAction(s string) (Action, error) {
	a := Action(s)
	if !validActions[a] {
		return "", dErrors.New(dErrors.CodeInvalidInput, "invalid action")
	}
	return a, nil
}

// destructiveActions are the actions the self-action and protected-target
// exceptions apply to.
var destructiveActions = map[Action]bool{
	ActionSuspend:    true,
	ActionDelete:     true,
	ActionDemote:     true,
	ActionDeactivate: true,
}

// IsDestructive reports whether the action falls under the self-action and
// protected-target exceptions.
func (a Action) IsDestructive() bool {
	return destructiveActions[a]
}

// selfServiceActions are granted through the ownership shortcut when the
// caller owns the resource.
var selfServiceActions = map[Action]bool{
	ActionRead:   true,
	ActionUpdate: true,
}

// CheckContext carries the contextual inputs of a permission check.
type CheckContext struct {
	// BusinessID scopes the check to one business context; when nil the
	// caller's whole role set applies.
	BusinessID *id.BusinessID
	// TargetIdentityID is the identity the action is aimed at, for actions
	// that target another identity.
	TargetIdentityID *id.IdentityID
	// ResourceOwnerID is the identity owning the resource, for the ownership
	// shortcut.
	ResourceOwnerID *id.IdentityID
	// Override is the explicit break-glass capability: it permits acting on
	// a protected target, but only when the caller is itself protected.
	Override bool
}

// Decision is the outcome of a permission check.
type Decision struct {
	Granted bool   `json:"granted"`
	Reason  string `json:"reason"`
}

// Denial reasons. Distinct strings so callers and audit events can tell
// "insufficient role" from the contextual exceptions.
const (
	ReasonTargetProtected = "target is protected"
	ReasonSelfAction      = "cannot act on own account"
	ReasonOwnResource     = "caller owns the resource"
	ReasonRoleGranted     = "granted by role capability"
	ReasonInsufficient    = "insufficient permissions"
)

func grant(reason string) Decision {
	return Decision{Granted: true, Reason: reason}
}

func deny(reason string) Decision {
	return Decision{Granted: false, Reason: reason}
}

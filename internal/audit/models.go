package audit

import (
	"time"

	id "workpaper/pkg/domain"
)

// EventCategory classifies audit events by their primary purpose. Categories
// drive retention and routing downstream; the sink's storage format is
// external to this core.
type EventCategory string

const (
	// CategoryCompliance covers events with legal/regulatory significance
	// (paper verification, identity deactivation, bulk suspensions).
	CategoryCompliance EventCategory = "compliance"

	// CategorySecurity covers events relevant to security monitoring
	// (permission denials, protected-target attempts).
	CategorySecurity EventCategory = "security"

	// CategoryOperations covers routine operational events that can be
	// sampled (role derivations, paper reads).
	CategoryOperations EventCategory = "operations"
)

// Event is emitted from domain logic on every lifecycle mutation and bulk
// outcome. It is transport-agnostic so stores and sinks can fan out.
type Event struct {
	Category  EventCategory   `json:"category"`
	Timestamp time.Time       `json:"timestamp"`
	ActorID   id.IdentityID   `json:"actor_id"`
	TargetID  id.IdentityID   `json:"target_id,omitempty"`
	TargetIDs []id.IdentityID `json:"target_ids,omitempty"`
	PaperID   id.PaperID      `json:"paper_id,omitempty"`
	Action    string          `json:"action"`
	Outcome   string          `json:"outcome"`
	Reason    string          `json:"reason,omitempty"`
	RequestID string          `json:"request_id,omitempty"`
	// Device is the parsed browser/OS of the acting client, captured by the
	// metadata middleware for administrative actions.
	Device string `json:"device,omitempty"`
}

// AuditEvent names every action the core emits.
type AuditEvent string

const (
	// Paper lifecycle events
	EventPaperCreated     AuditEvent = "paper_created"
	EventPaperVerified    AuditEvent = "paper_verified"
	EventPaperRejected    AuditEvent = "paper_rejected"
	EventPaperDeactivated AuditEvent = "paper_deactivated"
	EventPaperExtended    AuditEvent = "paper_extended"

	// Business registration events
	EventBusinessRegistered  AuditEvent = "business_registered"
	EventBusinessDeactivated AuditEvent = "business_deactivated"

	// Identity events
	EventIdentitySuspended   AuditEvent = "identity_suspended"
	EventIdentityReactivated AuditEvent = "identity_reactivated"
	EventIdentityDeactivated AuditEvent = "identity_deactivated"

	// Permission events
	EventPermissionDenied AuditEvent = "permission_denied"

	// Bulk operation events
	EventBulkActionExecuted   AuditEvent = "bulk_action_executed"
	EventBulkActionFailed     AuditEvent = "bulk_action_failed"
	EventBulkActionRolledBack AuditEvent = "bulk_action_rolled_back"
	EventBulkActionUndone     AuditEvent = "bulk_action_undone"
)

// eventCategories maps each audit event to its category.
var eventCategories = map[AuditEvent]EventCategory{
	EventPaperCreated:     CategoryCompliance,
	EventPaperVerified:    CategoryCompliance,
	EventPaperRejected:    CategoryCompliance,
	EventPaperDeactivated: CategoryCompliance,
	EventPaperExtended:    CategoryCompliance,

	EventBusinessRegistered:  CategoryCompliance,
	EventBusinessDeactivated: CategoryCompliance,

	EventIdentitySuspended:   CategoryCompliance,
	EventIdentityReactivated: CategoryCompliance,
	EventIdentityDeactivated: CategoryCompliance,

	EventPermissionDenied: CategorySecurity,

	EventBulkActionExecuted:   CategoryCompliance,
	EventBulkActionFailed:     CategorySecurity,
	EventBulkActionRolledBack: CategorySecurity,
	EventBulkActionUndone:     CategoryCompliance,
}

// Category resolves the event's category, defaulting to operations for
// anything unmapped.
func (e AuditEvent) Category() EventCategory {
	if c, ok := eventCategories[e]; ok {
		return c
	}
	return CategoryOperations
}

func (e AuditEvent) String() string {
	return string(e)
}

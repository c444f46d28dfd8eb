package audit

import (
	"context"
	"time"

	id "workpaper/pkg/domain"
)

// Store is the persistence surface for audit events. Append-only.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByActor(ctx context.Context, actorID id.IdentityID) ([]Event, error)
}

// Publisher captures structured audit events. It is append-only and writes
// through the Store interface so tests can swap sinks.
type Publisher struct {
	store Store
}

func NewPublisher(store Store) *Publisher {
	return &Publisher{store: store}
}

func (p *Publisher) Emit(ctx context.Context, event Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if event.Category == "" {
		event.Category = AuditEvent(event.Action).Category()
	}
	return p.store.Append(ctx, event)
}

func (p *Publisher) List(ctx context.Context, actorID id.IdentityID) ([]Event, error) {
	return p.store.ListByActor(ctx, actorID)
}

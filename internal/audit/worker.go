package audit

import (
	"context"
	"log/slog"

	id "workpaper/pkg/domain"
)

// Worker decouples event producers from a slow sink. It is itself a Store:
// Append enqueues without blocking and Run drains the queue into the wrapped
// store. When the queue is full new events are dropped and logged rather than
// stalling the request path.
type Worker struct {
	store  Store
	inbox  chan Event
	logger *slog.Logger
}

var _ Store = (*Worker)(nil)

func NewWorker(store Store, buffer int, logger *slog.Logger) *Worker {
	if buffer <= 0 {
		buffer = 256
	}
	return &Worker{
		store:  store,
		inbox:  make(chan Event, buffer),
		logger: logger,
	}
}

// Append enqueues the event for asynchronous persistence. It never blocks:
// when the inbox is full the event is dropped and a warning is logged.
func (w *Worker) Append(_ context.Context, event Event) error {
	select {
	case w.inbox <- event:
	default:
		w.logger.Warn("audit inbox full, dropping event",
			slog.String("action", string(event.Action)),
			slog.String("actor_id", event.ActorID.String()))
	}
	return nil
}

// ListByActor reads straight from the wrapped store. Events still sitting in
// the inbox are not visible until Run has drained them.
func (w *Worker) ListByActor(ctx context.Context, actorID id.IdentityID) ([]Event, error) {
	return w.store.ListByActor(ctx, actorID)
}

// Run drains the inbox into the wrapped store until ctx is cancelled, then
// flushes whatever is still buffered before returning.
func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.flush()
			return ctx.Err()
		case event := <-w.inbox:
			w.persist(ctx, event)
		}
	}
}

func (w *Worker) persist(ctx context.Context, event Event) {
	if err := w.store.Append(ctx, event); err != nil {
		w.logger.Error("failed to persist audit event",
			slog.String("action", string(event.Action)),
			slog.String("error", err.Error()))
	}
}

func (w *Worker) flush() {
	ctx := context.Background()
	for {
		select {
		case event := <-w.inbox:
			w.persist(ctx, event)
		default:
			return
		}
	}
}

package audit

import (
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	id "workpaper/pkg/domain"
)

// recordingStore captures appended events in memory. It lives here rather
// than reusing the memory store to keep the package import graph acyclic.
type recordingStore struct {
	mu     sync.Mutex
	events []Event
}

func (r *recordingStore) Append(_ context.Context, event Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

func (r *recordingStore) ListByActor(_ context.Context, actorID id.IdentityID) ([]Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Event
	for _, e := range r.events {
		if e.ActorID == actorID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *recordingStore) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

type WorkerSuite struct {
	suite.Suite
	store  *recordingStore
	worker *Worker
	actor  id.IdentityID
}

func (s *WorkerSuite) SetupTest() {
	s.store = &recordingStore{}
	s.worker = NewWorker(s.store, 8, slog.New(slog.DiscardHandler))
	s.actor = id.NewIdentityID()
}

func (s *WorkerSuite) event(action string) Event {
	return Event{
		ActorID:   s.actor,
		Action:    action,
		Outcome:   "success",
		Category:  CategoryOperations,
		Timestamp: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (s *WorkerSuite) TestRunDrainsAppendedEvents() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = s.worker.Run(ctx)
	}()

	for _, action := range []string{"identity_created", "paper_created", "paper_verified"} {
		require.NoError(s.T(), s.worker.Append(ctx, s.event(action)))
	}

	require.Eventually(s.T(), func() bool {
		return s.store.count() == 3
	}, time.Second, 5*time.Millisecond)

	cancel()
	<-done

	events, err := s.store.ListByActor(context.Background(), s.actor)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "identity_created", events[0].Action)
}

func (s *WorkerSuite) TestAppendNeverBlocksWhenInboxFull() {
	// No Run loop: the inbox fills and further appends must drop, not stall.
	worker := NewWorker(s.store, 2, slog.New(slog.DiscardHandler))
	for i := 0; i < 10; i++ {
		require.NoError(s.T(), worker.Append(context.Background(), s.event("paper_created")))
	}
	assert.Zero(s.T(), s.store.count())
}

func (s *WorkerSuite) TestShutdownFlushesBufferedEvents() {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for i := 0; i < 3; i++ {
		require.NoError(s.T(), s.worker.Append(context.Background(), s.event("identity_suspended")))
	}

	err := s.worker.Run(ctx)
	require.ErrorIs(s.T(), err, context.Canceled)
	assert.Equal(s.T(), 3, s.store.count())
}

func (s *WorkerSuite) TestListByActorDelegatesToStore() {
	require.NoError(s.T(), s.store.Append(context.Background(), s.event("paper_read")))

	events, err := s.worker.ListByActor(context.Background(), s.actor)
	require.NoError(s.T(), err)
	require.Len(s.T(), events, 1)
	assert.Equal(s.T(), "paper_read", events[0].Action)
}

func TestWorkerSuite(t *testing.T) {
	suite.Run(t, new(WorkerSuite))
}

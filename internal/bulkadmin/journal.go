package bulkadmin

import (
	"sync"
	"time"

	identitymodels "workpaper/internal/identity/models"
	id "workpaper/pkg/domain"
)

// journalEntry is the pre-mutation snapshot of one successfully mutated
// target, kept so the batch can be undone while the window is open.
type journalEntry struct {
	targetID id.IdentityID
	snapshot *identitymodels.Identity
}

// Journal keeps pre-mutation snapshots per batch for the undo window.
// Entries are evicted lazily on access once expired.
type Journal struct {
	mu      sync.Mutex
	window  time.Duration
	clock   func() time.Time
	batches map[id.BatchID]*batchRecord
}

type batchRecord struct {
	entries   []journalEntry
	expiresAt time.Time
}

type JournalOption func(*Journal)

// WithJournalClock injects the time source for tests.
func WithJournalClock(clock func() time.Time) JournalOption {
	return func(j *Journal) {
		j.clock = clock
	}
}

func NewJournal(window time.Duration, opts ...JournalOption) *Journal {
	j := &Journal{
		window:  window,
		clock:   time.Now,
		batches: make(map[id.BatchID]*batchRecord),
	}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

// Record stores the batch's snapshots and returns the undo deadline.
func (j *Journal) Record(batchID id.BatchID, entries []journalEntry) time.Time {
	j.mu.Lock()
	defer j.mu.Unlock()
	expiresAt := j.clock().Add(j.window)
	j.batches[batchID] = &batchRecord{entries: entries, expiresAt: expiresAt}
	return expiresAt
}

// Take removes and returns the batch's snapshots if the window is still
// open. The second return is false when the batch is unknown or expired.
func (j *Journal) Take(batchID id.BatchID) ([]journalEntry, bool) {
	j.mu.Lock()
	defer j.mu.Unlock()
	rec, ok := j.batches[batchID]
	if !ok {
		return nil, false
	}
	delete(j.batches, batchID)
	if j.clock().After(rec.expiresAt) {
		return nil, false
	}
	return rec.entries, true
}

// Discard drops a batch's snapshots without restoring them.
func (j *Journal) Discard(batchID id.BatchID) {
	j.mu.Lock()
	defer j.mu.Unlock()
	delete(j.batches, batchID)
}

package repository

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/feedback/internal/domain/model"
	"github.com/okian/feedback/pkg/metrics"
)

var _ Store = (*SnapshotStore)(nil)

// published pairs a snapshot with its id index.
type published struct {
	snap Snapshot
	byID map[string]int
}

// SnapshotStore keeps the record set behind an atomic pointer so readers
// never block and never observe a partially replaced set.
type SnapshotStore struct {
	mu        sync.Mutex // serialises commits
	issued    atomic.Uint64
	committed Ticket
	current   atomic.Pointer[published]
	now       func() time.Time
}

// NewSnapshotStore returns an empty store at generation 0.
func NewSnapshotStore(opts ...Option) *SnapshotStore {
	s := &SnapshotStore{now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	s.current.Store(&published{byID: map[string]int{}})
	return s
}

// Begin issues the next ticket.
func (s *SnapshotStore) Begin() Ticket {
	return Ticket(s.issued.Add(1))
}

// Commit installs a private copy of records if t is newer than the last
// committed ticket.
func (s *SnapshotStore) Commit(t Ticket, records []model.Response) bool {
	start := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	if t <= s.committed {
		metrics.RecordStaleCommit()
		return false
	}

	recs := make([]model.Response, len(records))
	copy(recs, records)
	byID := make(map[string]int, len(recs))
	for i := range recs {
		// First occurrence wins for duplicate ids.
		if _, ok := byID[recs[i].ID]; !ok {
			byID[recs[i].ID] = i
		}
	}

	s.current.Store(&published{
		snap: Snapshot{Generation: t, LoadedAt: s.now(), Records: recs},
		byID: byID,
	})
	s.committed = t

	metrics.UpdateRecordsTotal(len(recs))
	metrics.UpdateSnapshotGeneration(uint64(t))
	metrics.RecordSnapshotPublishDuration(float64(time.Since(start).Microseconds()) / 1000)
	return true
}

// Snapshot returns the current view.
func (s *SnapshotStore) Snapshot() Snapshot {
	return s.current.Load().snap
}

// Get looks a response up by id in the current view.
func (s *SnapshotStore) Get(id string) (model.Response, error) {
	p := s.current.Load()
	i, ok := p.byID[id]
	if !ok {
		return model.Response{}, ErrNotFound
	}
	return p.snap.Records[i], nil
}

// Count returns the number of records in the current view.
func (s *SnapshotStore) Count() int {
	return len(s.current.Load().snap.Records)
}

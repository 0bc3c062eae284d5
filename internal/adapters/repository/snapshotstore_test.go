package repository

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/okian/feedback/internal/domain/model"
)

func records(n int) []model.Response {
	out := make([]model.Response, n)
	for i := range out {
		id := fmt.Sprintf("r-%d", i)
		out[i] = model.NewResponse(id, "Name "+id, "Engineering", model.NewTimestamp("2023-01-15"), nil, nil)
	}
	return out
}

func TestSnapshotStore_Empty(t *testing.T) {
	store := NewSnapshotStore()

	snap := store.Snapshot()
	if snap.Generation != 0 {
		t.Errorf("expected generation 0, got %d", snap.Generation)
	}
	if len(snap.Records) != 0 {
		t.Errorf("expected no records, got %d", len(snap.Records))
	}
	if store.Count() != 0 {
		t.Errorf("expected count 0, got %d", store.Count())
	}
	if _, err := store.Get("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSnapshotStore_CommitAndGet(t *testing.T) {
	loaded := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	store := NewSnapshotStore(WithClock(func() time.Time { return loaded }))

	in := records(3)
	ticket := store.Begin()
	if !store.Commit(ticket, in) {
		t.Fatal("expected first commit to land")
	}

	snap := store.Snapshot()
	if snap.Generation != ticket {
		t.Errorf("expected generation %d, got %d", ticket, snap.Generation)
	}
	if !snap.LoadedAt.Equal(loaded) {
		t.Errorf("expected loaded at %v, got %v", loaded, snap.LoadedAt)
	}
	if store.Count() != 3 {
		t.Errorf("expected count 3, got %d", store.Count())
	}
	for i, r := range snap.Records {
		if r.ID != in[i].ID {
			t.Errorf("record %d: expected %s, got %s", i, in[i].ID, r.ID)
		}
	}

	got, err := store.Get("r-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.FullName != "Name r-1" {
		t.Errorf("unexpected record %+v", got)
	}

	// Mutating the caller's slice must not leak into the snapshot.
	in[0].FullName = "changed"
	if store.Snapshot().Records[0].FullName != "Name r-0" {
		t.Error("snapshot shares the caller's backing array")
	}
}

func TestSnapshotStore_StaleCommitDiscarded(t *testing.T) {
	store := NewSnapshotStore()

	older := store.Begin()
	newer := store.Begin()

	if !store.Commit(newer, records(2)) {
		t.Fatal("expected newer commit to land")
	}
	if store.Commit(older, records(5)) {
		t.Error("expected older commit to be discarded")
	}
	if store.Count() != 2 {
		t.Errorf("expected newer snapshot to survive, got %d records", store.Count())
	}
	if store.Commit(newer, records(1)) {
		t.Error("expected re-commit of the same ticket to be discarded")
	}
}

func TestSnapshotStore_ReplaceWholesale(t *testing.T) {
	store := NewSnapshotStore()
	store.Commit(store.Begin(), records(4))
	store.Commit(store.Begin(), nil)

	if store.Count() != 0 {
		t.Errorf("expected empty snapshot after empty commit, got %d", store.Count())
	}
	if _, err := store.Get("r-0"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected old ids to be gone, got %v", err)
	}
}

func TestSnapshotStore_DuplicateIDs(t *testing.T) {
	store := NewSnapshotStore()
	a := model.NewResponse("dup", "First", "HR", model.Timestamp{}, nil, nil)
	b := model.NewResponse("dup", "Second", "HR", model.Timestamp{}, nil, nil)
	store.Commit(store.Begin(), []model.Response{a, b})

	got, err := store.Get("dup")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.FullName != "First" {
		t.Errorf("expected first occurrence, got %s", got.FullName)
	}
	if store.Count() != 2 {
		t.Errorf("duplicates must be kept in the record set, got %d", store.Count())
	}
}

func TestSnapshotStore_ConcurrentReadersAndWriters(t *testing.T) {
	store := NewSnapshotStore()
	var wg sync.WaitGroup

	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				store.Commit(store.Begin(), records(n+1))
			}
		}(w)
	}
	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				snap := store.Snapshot()
				// Every published set is one of the sizes written above.
				if n := len(snap.Records); n < 0 || n > 4 {
					t.Errorf("unexpected snapshot size %d", n)
				}
			}
		}()
	}
	wg.Wait()

	if store.Snapshot().Generation == 0 {
		t.Error("expected at least one commit to land")
	}
}

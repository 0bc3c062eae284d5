// Package repository holds the in-memory response snapshot.
package repository

import (
	"time"

	"github.com/okian/feedback/internal/domain/model"
)

// Ticket identifies one ingestion attempt. Tickets are issued in increasing
// order; a commit only lands if no later ticket has committed first.
type Ticket uint64

// Snapshot is an immutable view of the record set. Records must be treated
// as read-only by every caller.
type Snapshot struct {
	Generation Ticket
	LoadedAt   time.Time
	Records    []model.Response
}

// Store provides the current record set and wholesale replacement of it.
type Store interface {
	// Begin issues a ticket for a new ingestion attempt.
	Begin() Ticket

	// Commit installs records for ticket t. It returns false, leaving the
	// current snapshot untouched, when a newer ticket already committed.
	Commit(t Ticket, records []model.Response) bool

	// Snapshot returns the current view.
	Snapshot() Snapshot

	// Get returns the response with the given id.
	// Returns ErrNotFound if no current record carries it.
	Get(id string) (model.Response, error)

	// Count returns the number of records in the current view.
	Count() int
}

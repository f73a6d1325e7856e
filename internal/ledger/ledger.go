// Package ledger implements the operations over the record store: create,
// list, fetch, delete, export, plus the transient batch-selection state.
//
// Operations fully serialize their own read-modify-write sequence; callers
// issue one mutation, await it, then issue the next. Cross-process races (two
// instances against the same database) are an accepted limitation.
package ledger

import (
	"crypto/rand"
	"time"

	"github.com/oklog/ulid/v2"
)

// NewID generates a ULID for a new record. ULIDs are derived from the
// creation instant and sort lexicographically by time, so ids are never
// reused even after a record is deleted.
func NewID() (string, error) {
	entropy := ulid.Monotonic(rand.Reader, 0)
	id, err := ulid.New(ulid.Timestamp(time.Now()), entropy)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

package ledger

import (
	"strings"

	"github.com/mvcampos/protocolo/internal/errors"
	"github.com/mvcampos/protocolo/internal/kv"
)

// DeleteInput contains parameters for the Delete operation.
type DeleteInput struct {
	ID string

	// Confirm must be true for the mutation to run. Without it Delete returns
	// a CONFIRMATION_REQUIRED result carrying the id, and no state changes.
	// Deletion is irreversible and immediate once confirmed.
	Confirm bool
}

// DeleteOutput contains the result of the Delete operation.
type DeleteOutput struct {
	Deleted bool   `json:"deleted"`
	ID      string `json:"id"`
}

// Delete removes a record from the store. Deleting an id that does not exist
// is a no-op, not an error. The id is never recycled into a new record.
func Delete(store *kv.Store, input DeleteInput) (*DeleteOutput, error) {
	id := strings.TrimSpace(input.ID)
	if id == "" {
		return nil, errors.NewInvalidRequest("id is required")
	}

	if !input.Confirm {
		return nil, errors.NewConfirmationRequired("delete", id)
	}

	_, ok, err := store.Get(kv.RecordKey(id))
	if err != nil {
		return nil, err
	}
	if !ok {
		return &DeleteOutput{Deleted: false, ID: id}, nil
	}

	if err := store.Delete(kv.RecordKey(id)); err != nil {
		return nil, err
	}

	return &DeleteOutput{Deleted: true, ID: id}, nil
}

package ledger

import (
	"strings"

	"github.com/mvcampos/protocolo/internal/errors"
	"github.com/mvcampos/protocolo/internal/kv"
	"github.com/mvcampos/protocolo/internal/record"
)

// Fetch retrieves a single record by id.
func Fetch(store *kv.Store, id string) (*record.ProtocolRecord, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, errors.NewInvalidRequest("id is required")
	}

	value, ok, err := store.Get(kv.RecordKey(id))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errors.NewNotFound(id)
	}

	rec, err := record.Decode(value)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	return rec, nil
}

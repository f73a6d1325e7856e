package ledger

import (
	"sort"

	"github.com/mvcampos/protocolo/internal/kv"
	"github.com/mvcampos/protocolo/internal/record"
)

// ListOutput contains the result of the List operation.
type ListOutput struct {
	Items []record.ProtocolRecord `json:"items"`
	Total int                     `json:"total"`

	// SkippedCorrupt counts stored entries that failed to parse. Corrupt
	// entries never abort the listing; the count is reported so they do not
	// go unnoticed.
	SkippedCorrupt int `json:"skipped_corrupt"`
}

// List fetches every record in the store, newest first. Entries that vanish
// between the key scan and the fetch are skipped; entries that fail to parse
// are skipped and counted. Equal timestamps keep store-enumeration order.
func List(store *kv.Store) (*ListOutput, error) {
	keys, err := store.List(kv.RecordPrefix)
	if err != nil {
		return nil, err
	}

	items := make([]record.ProtocolRecord, 0, len(keys))
	skipped := 0
	for _, key := range keys {
		value, ok, err := store.Get(key)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		rec, err := record.Decode(value)
		if err != nil {
			skipped++
			continue
		}
		items = append(items, *rec)
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedTime().After(items[j].CreatedTime())
	})

	return &ListOutput{
		Items:          items,
		Total:          len(items),
		SkippedCorrupt: skipped,
	}, nil
}

package ledger

import (
	"strings"
	"time"

	"github.com/mvcampos/protocolo/internal/config"
	"github.com/mvcampos/protocolo/internal/errors"
	"github.com/mvcampos/protocolo/internal/kv"
	"github.com/mvcampos/protocolo/internal/record"
	"github.com/mvcampos/protocolo/internal/seq"
)

// CreateInput contains parameters for the Create operation.
type CreateInput struct {
	Draft record.Draft
	Year  int // 0 means the current year
}

// CreateOutput contains the result of the Create operation.
type CreateOutput struct {
	Record   *record.ProtocolRecord `json:"record"`
	FileName string                 `json:"file_name"`

	// NumberFallback is true when the protocol number came from the
	// clock-derived fallback path and is therefore best-effort only.
	NumberFallback bool `json:"number_fallback,omitempty"`
}

// Create validates a draft, stamps id, timestamps and a fresh protocol number,
// and persists the record. On any failure nothing is written, so no partial
// record ever becomes visible. The number is reserved here, on save, not at
// editor start; a rejected draft does not advance the counter.
func Create(store *kv.Store, cfg *config.Config, input CreateInput) (*CreateOutput, error) {
	draft := input.Draft

	if strings.TrimSpace(draft.FileLabel) == "" {
		return nil, errors.NewValidationFailed("file_label", "file_label is required")
	}

	docs := record.CleanDocuments(draft.Documents)
	if len(docs) > cfg.MaxDocuments {
		return nil, errors.NewTooManyDocuments(cfg.MaxDocuments, len(docs))
	}

	year := input.Year
	now := time.Now()
	if year == 0 {
		year = now.Year()
	}

	id, err := NewID()
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	// Counter advances before the record write. If the write below fails the
	// number is burned (a gap), which is acceptable; reuse is not.
	number := seq.Next(store, year)

	rec := &record.ProtocolRecord{
		ID:               id,
		ProtocolNumber:   number.Number,
		CreatedAt:        now.UTC().Format(time.RFC3339Nano),
		CreatedAtDisplay: record.DisplayDate(now),
		FileLabel:        strings.TrimSpace(draft.FileLabel),
		SenderSector:     strings.TrimSpace(draft.SenderSector),
		SenderUnit:       strings.TrimSpace(draft.SenderUnit),
		DestUnit:         strings.TrimSpace(draft.DestUnit),
		DestSector:       strings.TrimSpace(draft.DestSector),
		AttentionOf:      strings.TrimSpace(draft.AttentionOf),
		Documents:        docs,
		Notes:            strings.TrimSpace(draft.Notes),
	}

	value, err := record.Encode(rec)
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	if err := store.Put(kv.RecordKey(id), value); err != nil {
		return nil, err
	}

	return &CreateOutput{
		Record:         rec,
		FileName:       rec.FileName(),
		NumberFallback: number.Fallback,
	}, nil
}

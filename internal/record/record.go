package record

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// FileLabelFallback is the display text for legacy rows persisted without a
// file label. New records are rejected before reaching the store when the
// label is blank, so this only ever surfaces for pre-existing data.
const FileLabelFallback = "Sem nome"

// ProtocolRecord is one persisted transmittal record. Immutable once stored
// except via an explicit re-save.
type ProtocolRecord struct {
	// ID is a ULID that uniquely identifies this record. Derived from the
	// creation instant; never recycled after deletion.
	ID string `json:"id"`

	// ProtocolNumber is the year-scoped "<year>-<seq>" number, seq zero-padded
	// to 3 digits. Unique within its year.
	ProtocolNumber string `json:"protocol_number"`

	// CreatedAt is the RFC 3339 creation timestamp. Sort key, descending.
	CreatedAt string `json:"created_at"`

	// CreatedAtDisplay is the localized (pt-BR, dd/mm/yyyy) date. Presentational,
	// derived from CreatedAt.
	CreatedAtDisplay string `json:"created_at_display"`

	// FileLabel names the shipment. Required non-empty at persistence time.
	FileLabel string `json:"file_label"`

	SenderSector string `json:"sender_sector"`
	SenderUnit   string `json:"sender_unit"`
	DestUnit     string `json:"dest_unit"`
	DestSector   string `json:"dest_sector"`
	AttentionOf  string `json:"attention_of"`

	// Documents holds the attached-document descriptions in enumeration order.
	// Never contains blank entries.
	Documents []string `json:"documents"`

	// Notes is optional free-text markdown, shown on the detail page only.
	Notes string `json:"notes,omitempty"`
}

// Draft is the editor-session boundary object consumed by Ledger.Create.
type Draft struct {
	SenderSector string   `json:"sender_sector"`
	SenderUnit   string   `json:"sender_unit"`
	DestUnit     string   `json:"dest_unit"`
	DestSector   string   `json:"dest_sector"`
	AttentionOf  string   `json:"attention_of"`
	FileLabel    string   `json:"file_label"`
	Documents    []string `json:"documents"`
	Notes        string   `json:"notes,omitempty"`
}

// CleanDocuments trims every entry and drops blank ones, preserving order.
// The result is the enumeration order shown on the printed slip.
func CleanDocuments(docs []string) []string {
	cleaned := make([]string, 0, len(docs))
	for _, d := range docs {
		d = strings.TrimSpace(d)
		if d != "" {
			cleaned = append(cleaned, d)
		}
	}
	return cleaned
}

// Encode serializes a record for the store.
func Encode(r *ProtocolRecord) (string, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Decode parses a stored record value.
func Decode(value string) (*ProtocolRecord, error) {
	var r ProtocolRecord
	if err := json.Unmarshal([]byte(value), &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// CreatedTime parses CreatedAt. Returns the zero time for unparseable values,
// which sorts such records last in a descending listing.
func (r ProtocolRecord) CreatedTime() time.Time {
	t, err := time.Parse(time.RFC3339Nano, r.CreatedAt)
	if err != nil {
		return time.Time{}
	}
	return t
}

// DisplayLabel returns the file label, or the legacy fallback when blank.
func (r ProtocolRecord) DisplayLabel() string {
	if strings.TrimSpace(r.FileLabel) == "" {
		return FileLabelFallback
	}
	return r.FileLabel
}

// FileName derives the suggested export file name for this record.
// The name is derived on demand, never stored.
func (r ProtocolRecord) FileName() string {
	return fmt.Sprintf("PROTOCOLO - %s - %s.pdf", r.SenderSector, r.DisplayLabel())
}

// ToDraft copies the editable fields back into a fresh editor draft.
// The copy is one-way; the record itself is not marked as in-edit or locked.
func (r ProtocolRecord) ToDraft() Draft {
	docs := make([]string, len(r.Documents))
	copy(docs, r.Documents)
	return Draft{
		SenderSector: r.SenderSector,
		SenderUnit:   r.SenderUnit,
		DestUnit:     r.DestUnit,
		DestSector:   r.DestSector,
		AttentionOf:  r.AttentionOf,
		FileLabel:    r.FileLabel,
		Documents:    docs,
		Notes:        r.Notes,
	}
}

// DisplayDate formats a timestamp the way the printed slip shows dates.
func DisplayDate(t time.Time) string {
	return t.Format("02/01/2006")
}

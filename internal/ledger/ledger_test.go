package ledger

import (
	"testing"

	"github.com/mvcampos/protocolo/internal/kv"
	"github.com/mvcampos/protocolo/internal/record"
)

// newTestStore opens a real store in a temp directory.
func newTestStore(t *testing.T) *kv.Store {
	t.Helper()
	store, err := kv.Init(t.TempDir())
	if err != nil {
		t.Fatalf("kv.Init failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

// validDraft returns a draft that passes all Create validation.
func validDraft() record.Draft {
	return record.Draft{
		FileLabel:    "NF 1234",
		SenderSector: "MARKETING",
		SenderUnit:   "MATRIZ",
		DestUnit:     "FILIAL SP",
		DestSector:   "FINANCEIRO",
		AttentionOf:  "Maria",
		Documents:    []string{"Nota Fiscal", "Contrato"},
	}
}

func TestNewID_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id, err := NewID()
		if err != nil {
			t.Fatalf("NewID failed: %v", err)
		}
		if seen[id] {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = true
	}
}

package ledger

import (
	"testing"

	"github.com/mvcampos/protocolo/internal/config"
	"github.com/mvcampos/protocolo/internal/kv"
	"github.com/mvcampos/protocolo/internal/record"
)

func TestList_Empty(t *testing.T) {
	store := newTestStore(t)

	output, err := List(store)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if output.Total != 0 {
		t.Errorf("Total = %d, want 0", output.Total)
	}
	if output.Items == nil {
		t.Error("Items is nil, want empty slice")
	}
}

func TestList_NewestFirst(t *testing.T) {
	store := newTestStore(t)

	// Fixed timestamps so ordering doesn't depend on wall-clock spacing
	for _, r := range []record.ProtocolRecord{
		{ID: "a", ProtocolNumber: "2025-001", CreatedAt: "2025-06-01T10:00:00Z", FileLabel: "first"},
		{ID: "b", ProtocolNumber: "2025-002", CreatedAt: "2025-06-03T10:00:00Z", FileLabel: "third"},
		{ID: "c", ProtocolNumber: "2025-003", CreatedAt: "2025-06-02T10:00:00Z", FileLabel: "second"},
	} {
		value, err := record.Encode(&r)
		if err != nil {
			t.Fatalf("Encode failed: %v", err)
		}
		if err := store.Put(kv.RecordKey(r.ID), value); err != nil {
			t.Fatalf("Put failed: %v", err)
		}
	}

	output, err := List(store)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}

	want := []string{"third", "second", "first"}
	if len(output.Items) != 3 {
		t.Fatalf("Total = %d, want 3", len(output.Items))
	}
	for i, label := range want {
		if output.Items[i].FileLabel != label {
			t.Errorf("Items[%d].FileLabel = %q, want %q", i, output.Items[i].FileLabel, label)
		}
	}
}

func TestList_TiesKeepEnumerationOrder(t *testing.T) {
	store := newTestStore(t)

	// Same timestamp; store enumerates keys ascending, so a before b.
	for _, id := range []string{"b", "a"} {
		r := record.ProtocolRecord{ID: id, ProtocolNumber: "2025-00" + id, CreatedAt: "2025-06-01T10:00:00Z", FileLabel: id}
		value, err := record.Encode(&r)
		if err != nil {
			t.Fatalf("Encode failed: %v", err)
		}
		if err := store.Put(kv.RecordKey(id), value); err != nil {
			t.Fatalf("Put failed: %v", err)
		}
	}

	output, err := List(store)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if output.Items[0].ID != "a" || output.Items[1].ID != "b" {
		t.Errorf("tie order = [%s %s], want [a b]", output.Items[0].ID, output.Items[1].ID)
	}
}

func TestList_SkipsCorruptEntries(t *testing.T) {
	store := newTestStore(t)
	cfg := config.DefaultConfig()

	if _, err := Create(store, cfg, CreateInput{Draft: validDraft(), Year: 2025}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := store.Put(kv.RecordKey("corrupt"), "{not json"); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	output, err := List(store)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}

	// The corrupt entry never blocks the rest of the ledger from loading
	if output.Total != 1 {
		t.Errorf("Total = %d, want 1", output.Total)
	}
	if output.SkippedCorrupt != 1 {
		t.Errorf("SkippedCorrupt = %d, want 1", output.SkippedCorrupt)
	}
}

func TestList_IncludesNewRecordOnce(t *testing.T) {
	store := newTestStore(t)
	cfg := config.DefaultConfig()

	created, err := Create(store, cfg, CreateInput{Draft: validDraft(), Year: 2025})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	output, err := List(store)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}

	count := 0
	for _, item := range output.Items {
		if item.ID == created.Record.ID {
			count++
		}
	}
	if count != 1 {
		t.Errorf("new record appears %d times, want 1", count)
	}
}

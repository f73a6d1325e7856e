package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/mvcampos/protocolo/internal/config"
	"github.com/mvcampos/protocolo/internal/kv"
	"github.com/mvcampos/protocolo/internal/record"
)

// testSetup creates a temporary store and config for testing.
func testSetup(t *testing.T) (*Handlers, *kv.Store) {
	t.Helper()

	store, err := kv.Init(t.TempDir())
	if err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return NewHandlers(store, config.DefaultConfig()), store
}

// makeRequest creates a CallToolRequest with the given arguments.
func makeRequest(args map[string]any) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Arguments: args,
		},
	}
}

// resultText extracts the text payload from a tool result.
func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if len(res.Content) == 0 {
		t.Fatal("result has no content")
	}
	tc, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("content is %T, want TextContent", res.Content[0])
	}
	return tc.Text
}

// errorCode extracts the error code from an error result payload.
func errorCode(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if !res.IsError {
		t.Fatal("result is not an error")
	}
	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal([]byte(resultText(t, res)), &body); err != nil {
		t.Fatalf("unmarshal error payload: %v", err)
	}
	return body.Error.Code
}

func createViaTool(t *testing.T, h *Handlers, label string) *record.ProtocolRecord {
	t.Helper()
	res, err := h.HandleCreate(context.Background(), makeRequest(map[string]any{
		"file_label":    label,
		"sender_sector": "Financeiro",
		"documents":     []any{"Nota fiscal 421"},
	}))
	if err != nil {
		t.Fatalf("HandleCreate: %v", err)
	}
	if res.IsError {
		t.Fatalf("create failed: %s", resultText(t, res))
	}

	var out struct {
		Record record.ProtocolRecord `json:"record"`
	}
	if err := json.Unmarshal([]byte(resultText(t, res)), &out); err != nil {
		t.Fatalf("unmarshal create result: %v", err)
	}
	return &out.Record
}

func TestCreateAndFetch(t *testing.T) {
	h, _ := testSetup(t)

	rec := createViaTool(t, h, "Notas de junho")
	if rec.ID == "" {
		t.Fatal("created record should carry an id")
	}
	if rec.ProtocolNumber == "" {
		t.Fatal("created record should carry a protocol number")
	}

	res, err := h.HandleFetch(context.Background(), makeRequest(map[string]any{"id": rec.ID}))
	if err != nil {
		t.Fatalf("HandleFetch: %v", err)
	}
	if res.IsError {
		t.Fatalf("fetch failed: %s", resultText(t, res))
	}

	var fetched record.ProtocolRecord
	if err := json.Unmarshal([]byte(resultText(t, res)), &fetched); err != nil {
		t.Fatalf("unmarshal fetch result: %v", err)
	}
	if fetched.FileLabel != "Notas de junho" {
		t.Errorf("FileLabel = %q", fetched.FileLabel)
	}
}

func TestCreateBlankLabelRejected(t *testing.T) {
	h, _ := testSetup(t)

	res, err := h.HandleCreate(context.Background(), makeRequest(map[string]any{
		"file_label": "   ",
	}))
	if err != nil {
		t.Fatalf("HandleCreate: %v", err)
	}
	if code := errorCode(t, res); code != "VALIDATION_FAILED" {
		t.Errorf("code = %q, want VALIDATION_FAILED", code)
	}
}

func TestCreateTooManyDocuments(t *testing.T) {
	h, _ := testSetup(t)

	docs := make([]any, 9)
	for i := range docs {
		docs[i] = fmt.Sprintf("Documento %d", i+1)
	}

	res, err := h.HandleCreate(context.Background(), makeRequest(map[string]any{
		"file_label": "Lote grande",
		"documents":  docs,
	}))
	if err != nil {
		t.Fatalf("HandleCreate: %v", err)
	}
	if code := errorCode(t, res); code != "TOO_MANY_DOCUMENTS" {
		t.Errorf("code = %q, want TOO_MANY_DOCUMENTS", code)
	}
}

func TestFetchNotFound(t *testing.T) {
	h, _ := testSetup(t)

	res, err := h.HandleFetch(context.Background(), makeRequest(map[string]any{"id": "ghost"}))
	if err != nil {
		t.Fatalf("HandleFetch: %v", err)
	}
	if code := errorCode(t, res); code != "NOT_FOUND" {
		t.Errorf("code = %q, want NOT_FOUND", code)
	}
}

func TestDeleteRequiresConfirm(t *testing.T) {
	h, _ := testSetup(t)
	rec := createViaTool(t, h, "Para excluir")

	res, err := h.HandleDelete(context.Background(), makeRequest(map[string]any{"id": rec.ID}))
	if err != nil {
		t.Fatalf("HandleDelete: %v", err)
	}
	if code := errorCode(t, res); code != "CONFIRMATION_REQUIRED" {
		t.Errorf("code = %q, want CONFIRMATION_REQUIRED", code)
	}

	res, err = h.HandleDelete(context.Background(), makeRequest(map[string]any{
		"id":      rec.ID,
		"confirm": true,
	}))
	if err != nil {
		t.Fatalf("HandleDelete: %v", err)
	}
	if res.IsError {
		t.Fatalf("confirmed delete failed: %s", resultText(t, res))
	}

	res, _ = h.HandleFetch(context.Background(), makeRequest(map[string]any{"id": rec.ID}))
	if !res.IsError {
		t.Error("record should be gone after a confirmed delete")
	}
}

func TestNextNumberDoesNotAdvance(t *testing.T) {
	h, _ := testSetup(t)

	peek := func() int {
		res, err := h.HandleNextNumber(context.Background(), makeRequest(map[string]any{}))
		if err != nil {
			t.Fatalf("HandleNextNumber: %v", err)
		}
		var out struct {
			Seq int `json:"seq"`
		}
		if err := json.Unmarshal([]byte(resultText(t, res)), &out); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		return out.Seq
	}

	if got := peek(); got != 1 {
		t.Fatalf("first peek = %d, want 1", got)
	}
	if got := peek(); got != 1 {
		t.Fatalf("second peek = %d, previews must not advance the counter", got)
	}

	createViaTool(t, h, "Primeiro")
	if got := peek(); got != 2 {
		t.Errorf("peek after save = %d, want 2", got)
	}
}

func TestListCountsCorruptRecords(t *testing.T) {
	h, store := testSetup(t)
	createViaTool(t, h, "Legível")

	if err := store.Put(kv.RecordKey("bad"), "{not json"); err != nil {
		t.Fatalf("Put: %v", err)
	}

	res, err := h.HandleList(context.Background(), makeRequest(map[string]any{}))
	if err != nil {
		t.Fatalf("HandleList: %v", err)
	}
	var out struct {
		Total          int `json:"total"`
		SkippedCorrupt int `json:"skipped_corrupt"`
	}
	if err := json.Unmarshal([]byte(resultText(t, res)), &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.Total != 1 {
		t.Errorf("Total = %d, want 1", out.Total)
	}
	if out.SkippedCorrupt != 1 {
		t.Errorf("SkippedCorrupt = %d, want 1", out.SkippedCorrupt)
	}
}

func TestRenderSkipsMissingRecords(t *testing.T) {
	h, _ := testSetup(t)
	rec := createViaTool(t, h, "Notas de junho")

	res, err := h.HandleRender(context.Background(), makeRequest(map[string]any{
		"ids": []any{rec.ID, "ghost"},
	}))
	if err != nil {
		t.Fatalf("HandleRender: %v", err)
	}
	if res.IsError {
		t.Fatalf("render failed: %s", resultText(t, res))
	}

	var out struct {
		Rendered []string `json:"rendered"`
		Skipped  []struct {
			ID     string `json:"id"`
			Reason string `json:"reason"`
		} `json:"skipped"`
		FileName string `json:"file_name"`
	}
	if err := json.Unmarshal([]byte(resultText(t, res)), &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(out.Rendered) != 1 || out.Rendered[0] != rec.ID {
		t.Errorf("Rendered = %v", out.Rendered)
	}
	if len(out.Skipped) != 1 || out.Skipped[0].ID != "ghost" {
		t.Errorf("Skipped = %v", out.Skipped)
	}
	if out.FileName == "" {
		t.Error("render should suggest a file name")
	}
}

func TestRenderEmptyIDs(t *testing.T) {
	h, _ := testSetup(t)

	res, err := h.HandleRender(context.Background(), makeRequest(map[string]any{"ids": []any{}}))
	if err != nil {
		t.Fatalf("HandleRender: %v", err)
	}
	if code := errorCode(t, res); code != "INVALID_REQUEST" {
		t.Errorf("code = %q, want INVALID_REQUEST", code)
	}
}

func TestExportWritesFile(t *testing.T) {
	h, _ := testSetup(t)
	createViaTool(t, h, "Primeiro")
	createViaTool(t, h, "Segundo")

	path := filepath.Join(t.TempDir(), "out.jsonl")
	res, err := h.HandleExport(context.Background(), makeRequest(map[string]any{"path": path}))
	if err != nil {
		t.Fatalf("HandleExport: %v", err)
	}
	if res.IsError {
		t.Fatalf("export failed: %s", resultText(t, res))
	}

	var out struct {
		Count int    `json:"count"`
		Path  string `json:"path"`
	}
	if err := json.Unmarshal([]byte(resultText(t, res)), &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.Count != 2 {
		t.Errorf("Count = %d, want 2", out.Count)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("export file missing: %v", err)
	}
}

func TestValidateDisabledTools(t *testing.T) {
	unknown := ValidateDisabledTools([]string{"protocol_list", "capsule_store"})
	if len(unknown) != 1 || unknown[0] != "capsule_store" {
		t.Errorf("unknown = %v, want [capsule_store]", unknown)
	}
}

func TestAllToolNamesCoversRegistry(t *testing.T) {
	names := AllToolNames()
	if len(names) != len(toolRegistry) {
		t.Fatalf("len = %d, want %d", len(names), len(toolRegistry))
	}
	for _, name := range names {
		if _, ok := toolRegistry[name]; !ok {
			t.Errorf("unexpected tool name %q", name)
		}
	}
}

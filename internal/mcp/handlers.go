package mcp

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/mvcampos/protocolo/internal/config"
	"github.com/mvcampos/protocolo/internal/errors"
	"github.com/mvcampos/protocolo/internal/kv"
	"github.com/mvcampos/protocolo/internal/ledger"
	"github.com/mvcampos/protocolo/internal/record"
	"github.com/mvcampos/protocolo/internal/render"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	store *kv.Store
	cfg   *config.Config
	slips *render.Renderer
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(store *kv.Store, cfg *config.Config) *Handlers {
	return &Handlers{store: store, cfg: cfg, slips: render.New(cfg)}
}

// Request types for each tool

// CreateRequest represents the arguments for create.
type CreateRequest struct {
	SenderSector string   `json:"sender_sector,omitempty"`
	SenderUnit   string   `json:"sender_unit,omitempty"`
	DestUnit     string   `json:"dest_unit,omitempty"`
	DestSector   string   `json:"dest_sector,omitempty"`
	AttentionOf  string   `json:"attention_of,omitempty"`
	FileLabel    string   `json:"file_label"`
	Documents    []string `json:"documents,omitempty"`
	Notes        string   `json:"notes,omitempty"`
	Year         int      `json:"year,omitempty"`
}

// FetchRequest represents the arguments for fetch.
type FetchRequest struct {
	ID string `json:"id"`
}

// DeleteRequest represents the arguments for delete.
type DeleteRequest struct {
	ID      string `json:"id"`
	Confirm bool   `json:"confirm,omitempty"`
}

// NextNumberRequest represents the arguments for next_number.
type NextNumberRequest struct {
	Year int `json:"year,omitempty"`
}

// RenderRequest represents the arguments for render.
type RenderRequest struct {
	IDs []string `json:"ids"`
}

// ExportRequest represents the arguments for export.
type ExportRequest struct {
	Path string `json:"path,omitempty"`
}

// Handler implementations

// HandleCreate handles the create tool call.
func (h *Handlers) HandleCreate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[CreateRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ledger.Create(h.store, h.cfg, ledger.CreateInput{
		Draft: record.Draft{
			SenderSector: input.SenderSector,
			SenderUnit:   input.SenderUnit,
			DestUnit:     input.DestUnit,
			DestSector:   input.DestSector,
			AttentionOf:  input.AttentionOf,
			FileLabel:    input.FileLabel,
			Documents:    input.Documents,
			Notes:        input.Notes,
		},
		Year: input.Year,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleList handles the list tool call.
func (h *Handlers) HandleList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, err := ledger.List(h.store)
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleFetch handles the fetch tool call.
func (h *Handlers) HandleFetch(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[FetchRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ledger.Fetch(h.store, input.ID)
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleDelete handles the delete tool call.
func (h *Handlers) HandleDelete(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[DeleteRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ledger.Delete(h.store, ledger.DeleteInput{
		ID:      input.ID,
		Confirm: input.Confirm,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleNextNumber handles the next_number tool call.
func (h *Handlers) HandleNextNumber(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[NextNumberRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	return successResult(ledger.NextNumber(h.store, input.Year))
}

// HandleRender handles the render tool call.
func (h *Handlers) HandleRender(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[RenderRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	if len(input.IDs) == 0 {
		return errorResult(errors.NewInvalidRequest("ids must not be empty")), nil
	}

	// Missing records are reported alongside the structurally invalid ones;
	// the render proceeds with whatever remains.
	records := make([]record.ProtocolRecord, 0, len(input.IDs))
	missing := make([]render.Skipped, 0)
	for _, id := range input.IDs {
		rec, err := ledger.Fetch(h.store, id)
		if err != nil {
			switch {
			case errors.Is(err, errors.ErrNotFound):
				missing = append(missing, render.Skipped{ID: id, Reason: "record not found"})
				continue
			case errors.Is(err, errors.ErrInternal):
				missing = append(missing, render.Skipped{ID: id, Reason: "record unreadable"})
				continue
			}
			return errorResult(err), nil
		}
		records = append(records, *rec)
	}

	result, err := h.slips.Render(records)
	if err != nil {
		return errorResult(err), nil
	}
	result.Skipped = append(result.Skipped, missing...)

	return successResult(result)
}

// HandleExport handles the export tool call.
func (h *Handlers) HandleExport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ExportRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ledger.Export(h.store, ledger.ExportInput{Path: input.Path})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// Result helpers

// errorResult creates an MCP error result from any error.
// Uses IsError: true so MCP clients recognize failures properly.
// Note: Internal error details are not exposed to prevent leaking sensitive info.
func errorResult(err error) *mcp.CallToolResult {
	var payload map[string]any

	if pErr, ok := err.(*errors.Error); ok {
		errorObj := map[string]any{
			"code":    pErr.Code,
			"message": pErr.Message,
			"status":  pErr.Status,
		}
		// Only include details for non-internal errors to avoid leaking
		// sensitive info like file paths or SQL errors
		if pErr.Code != errors.ErrInternal && pErr.Details != nil {
			errorObj["details"] = pErr.Details
		}
		payload = map[string]any{"error": errorObj}
	} else {
		payload = map[string]any{
			"error": map[string]any{
				"code":    "INTERNAL",
				"message": "an internal error occurred",
				"status":  500,
			},
		}
	}

	content, _ := json.Marshal(payload)
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}

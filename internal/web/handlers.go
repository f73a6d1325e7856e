package web

import (
	stderrors "errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/mvcampos/protocolo/internal/config"
	"github.com/mvcampos/protocolo/internal/errors"
	"github.com/mvcampos/protocolo/internal/kv"
	"github.com/mvcampos/protocolo/internal/ledger"
	"github.com/mvcampos/protocolo/internal/record"
	"github.com/mvcampos/protocolo/internal/render"
)

// Handlers contains HTTP route handlers for the web UI.
type Handlers struct {
	store    *kv.Store
	cfg      *config.Config
	renderer *Renderer
	slips    *render.Renderer

	// session holds the single-user UI state (batch mode and selection).
	// HTTP handlers may overlap, so access goes through mu.
	mu      sync.Mutex
	session *ledger.Session
}

// pageData builds the common layout fields for a page.
func (h *Handlers) pageData(title, nav string) PageData {
	return PageData{
		Title:   title,
		Version: h.renderer.version,
		Nav:     nav,
		OrgName: h.cfg.OrgName,
	}
}

// HandleLedger handles GET /protocolos — the record history, newest first.
// In batch mode each row carries a selection checkbox.
func (h *Handlers) HandleLedger(w http.ResponseWriter, r *http.Request) {
	result, err := ledger.List(h.store)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	h.mu.Lock()
	batch := h.session.Mode() == ledger.ModeBatchSelecting
	selected := make(map[string]bool)
	count := 0
	if batch {
		for _, id := range h.session.Selection().IDs() {
			selected[id] = true
		}
		count = h.session.Selection().Len()
	}
	h.mu.Unlock()

	h.renderer.renderPage(w, r, "ledger", LedgerPageData{
		PageData:       h.pageData("Protocolos", "ledger"),
		Items:          result.Items,
		Total:          result.Total,
		SkippedCorrupt: result.SkippedCorrupt,
		BatchMode:      batch,
		SelectedIDs:    selected,
		SelectedCount:  count,
		Deleted:        r.URL.Query().Get("deleted") == "1",
	})
}

// HandleNew handles GET /protocolos/new — a blank editor form with a preview
// of the upcoming protocol number. The preview never advances the counter.
func (h *Handlers) HandleNew(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	h.session.EnterEditing()
	h.mu.Unlock()

	h.renderForm(w, r, http.StatusOK, record.Draft{}, "")
}

// HandleLoad handles GET /protocolos/{id}/load — the editor form pre-filled
// from an existing record. Saving creates a new record with a new number.
func (h *Handlers) HandleLoad(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("record id is required"))
		return
	}

	rec, err := ledger.Fetch(h.store, id)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	h.mu.Lock()
	h.session.EnterEditing()
	h.mu.Unlock()

	h.renderForm(w, r, http.StatusOK, rec.ToDraft(), "")
}

// HandleCreate handles POST /protocolos — persist a new record from the form.
func (h *Handlers) HandleCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("invalid form data"))
		return
	}

	draft := record.Draft{
		SenderSector: r.PostFormValue("sender_sector"),
		SenderUnit:   r.PostFormValue("sender_unit"),
		DestUnit:     r.PostFormValue("dest_unit"),
		DestSector:   r.PostFormValue("dest_sector"),
		AttentionOf:  r.PostFormValue("attention_of"),
		FileLabel:    r.PostFormValue("file_label"),
		Documents:    r.PostForm["documents"],
		Notes:        r.PostFormValue("notes"),
	}

	result, err := ledger.Create(h.store, h.cfg, ledger.CreateInput{Draft: draft})
	if err != nil {
		// Validation problems re-render the form with the entered values so
		// nothing the user typed is lost.
		var pErr *errors.Error
		if stderrors.As(err, &pErr) && (pErr.Code == errors.ErrValidationFailed || pErr.Code == errors.ErrTooManyDocuments) {
			h.renderForm(w, r, http.StatusUnprocessableEntity, draft, pErr.Message)
			return
		}
		h.renderer.renderError(w, r, err)
		return
	}

	http.Redirect(w, r, "/protocolos/"+result.Record.ID, http.StatusSeeOther)
}

// renderForm renders the editor form with the given draft and optional error.
func (h *Handlers) renderForm(w http.ResponseWriter, r *http.Request, status int, draft record.Draft, errMsg string) {
	next := ledger.NextNumber(h.store, 0)

	h.renderer.renderPageStatus(w, r, status, "form", FormPageData{
		PageData:       h.pageData("Novo protocolo", "new"),
		Draft:          draft,
		DocumentSlots:  documentSlots(draft.Documents, h.cfg.MaxDocuments),
		MaxDocuments:   h.cfg.MaxDocuments,
		NextNumber:     next.Number,
		NumberFallback: next.Fallback,
		Error:          errMsg,
	})
}

// HandleDetail handles GET /protocolos/{id} — view a single record.
func (h *Handlers) HandleDetail(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("record id is required"))
		return
	}

	rec, err := ledger.Fetch(h.store, id)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	data := DetailPageData{
		PageData: h.pageData(rec.ProtocolNumber, "ledger"),
		Record:   rec,
		FileName: rec.FileName(),
	}
	if rec.Notes != "" {
		data.NotesHTML = renderMarkdown(rec.Notes)
	}

	h.renderer.renderPage(w, r, "detail", data)
}

// HandlePrint handles GET /protocolos/{id}/print — a standalone printable
// page holding the record's slip. The browser's print dialog produces the PDF.
func (h *Handlers) HandlePrint(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("record id is required"))
		return
	}

	rec, err := ledger.Fetch(h.store, id)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	result, err := h.slips.Render([]record.ProtocolRecord{*rec})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	page, err := h.slips.Page(result, rec.ProtocolNumber)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(page)
}

// HandleDelete handles POST /protocolos/{id}/delete — remove a record.
// The form must carry confirm=true; deletion is immediate and irreversible.
func (h *Handlers) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("record id is required"))
		return
	}

	if err := r.ParseForm(); err != nil {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("invalid form data"))
		return
	}

	result, err := ledger.Delete(h.store, ledger.DeleteInput{
		ID:      id,
		Confirm: r.FormValue("confirm") == "true",
	})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	// A deleted id may still sit in the batch selection; drop it.
	h.mu.Lock()
	if h.session.Selection().IsSelected(id) {
		h.session.Selection().Toggle(id)
	}
	h.mu.Unlock()

	// HTMX request: redirect via HX-Redirect header
	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("HX-Redirect", "/protocolos?deleted=1")
		w.WriteHeader(http.StatusOK)
		return
	}

	// JSON request
	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		renderJSON(w, http.StatusOK, map[string]any{
			"deleted": result.Deleted,
			"id":      result.ID,
		})
		return
	}

	// Default: redirect
	http.Redirect(w, r, "/protocolos?deleted=1", http.StatusSeeOther)
}

// HandleBatchEnter handles POST /batch/enter — switch the ledger into batch
// selection mode with an empty selection.
func (h *Handlers) HandleBatchEnter(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	h.session.EnterBatch()
	h.mu.Unlock()

	http.Redirect(w, r, "/protocolos", http.StatusSeeOther)
}

// HandleBatchExit handles POST /batch/exit — leave batch mode, discarding the
// selection.
func (h *Handlers) HandleBatchExit(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	h.session.ExitBatch()
	h.mu.Unlock()

	http.Redirect(w, r, "/protocolos", http.StatusSeeOther)
}

// HandleBatchToggle handles POST /batch/toggle — flip one id in or out of the
// selection.
func (h *Handlers) HandleBatchToggle(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("invalid form data"))
		return
	}
	id := r.FormValue("id")
	if id == "" {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("record id is required"))
		return
	}

	h.mu.Lock()
	h.session.Selection().Toggle(id)
	h.mu.Unlock()

	http.Redirect(w, r, "/protocolos", http.StatusSeeOther)
}

// HandleBatchSelectAll handles POST /batch/select-all — select every listed
// record, or clear the selection when everything is already selected.
func (h *Handlers) HandleBatchSelectAll(w http.ResponseWriter, r *http.Request) {
	result, err := ledger.List(h.store)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	all := make([]string, 0, len(result.Items))
	for _, rec := range result.Items {
		all = append(all, rec.ID)
	}

	h.mu.Lock()
	h.session.Selection().SelectAll(all)
	h.mu.Unlock()

	http.Redirect(w, r, "/protocolos", http.StatusSeeOther)
}

// HandleBatchPrint handles GET /batch/print — one printable page holding the
// selected records, page breaks between them. Records that vanished since
// selection are skipped; the selection is cleared after a successful render.
func (h *Handlers) HandleBatchPrint(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	ids := h.session.Selection().IDs()
	h.mu.Unlock()

	if len(ids) == 0 {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("no records selected"))
		return
	}

	records := make([]record.ProtocolRecord, 0, len(ids))
	for _, id := range ids {
		rec, err := ledger.Fetch(h.store, id)
		if err != nil {
			if errors.Is(err, errors.ErrNotFound) {
				continue
			}
			h.renderer.renderError(w, r, err)
			return
		}
		records = append(records, *rec)
	}

	result, err := h.slips.Render(records)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	page, err := h.slips.Page(result, render.BatchTitle(len(result.Rendered)))
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	h.mu.Lock()
	h.session.ExitBatch()
	h.mu.Unlock()

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(page)
}

// HandleNextNumber handles GET /api/next-number — JSON preview of the number
// the next save will issue.
func (h *Handlers) HandleNextNumber(w http.ResponseWriter, r *http.Request) {
	renderJSON(w, http.StatusOK, ledger.NextNumber(h.store, time.Now().Year()))
}

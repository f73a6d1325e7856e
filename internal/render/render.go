// Package render composes printable transmittal documents. One record yields
// one self-contained page block; a batch joins the blocks with explicit page
// breaks. The same per-record template serves single and batch renders, so the
// two are structurally identical.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"

	"github.com/mvcampos/protocolo/internal/config"
	"github.com/mvcampos/protocolo/internal/errors"
	"github.com/mvcampos/protocolo/internal/record"
)

//go:embed templates/*.html
var templateFS embed.FS

// PageBreak separates consecutive page blocks. It sits between blocks, never
// before the first one.
const PageBreak = `<div class="page-break"></div>`

// Skipped describes a record excluded from a render.
type Skipped struct {
	ID     string `json:"id"`
	Reason string `json:"reason"`
}

// Result is a composed renderable document.
type Result struct {
	// HTML is the document body: one block per rendered record, page breaks
	// between consecutive blocks.
	HTML template.HTML `json:"html"`

	// Rendered lists the ids of records present in HTML, in render order.
	Rendered []string `json:"rendered"`

	// Skipped lists structurally invalid records the render proceeded without.
	Skipped []Skipped `json:"skipped,omitempty"`

	// FileName is the suggested export name, derived from the first rendered
	// record.
	FileName string `json:"file_name,omitempty"`
}

// Renderer renders records through the embedded slip templates.
type Renderer struct {
	slip    *template.Template
	page    *template.Template
	orgName string
	logoURL string
}

// slipData is the template data for one page block.
type slipData struct {
	Record  *record.ProtocolRecord
	OrgName string
	LogoURL string
}

// pageData is the template data for a standalone printable page.
type pageData struct {
	Title string
	Body  template.HTML
}

// New creates a Renderer from the embedded templates.
func New(cfg *config.Config) *Renderer {
	funcMap := template.FuncMap{
		"add":  func(a, b int) int { return a + b },
		"dash": dash,
	}

	slip := template.Must(template.New("slip").Funcs(funcMap).ParseFS(templateFS, "templates/slip.html"))
	page := template.Must(template.New("page").ParseFS(templateFS, "templates/page.html"))

	return &Renderer{
		slip:    slip,
		page:    page,
		orgName: cfg.OrgName,
		logoURL: cfg.LogoURL,
	}
}

// RenderBlock renders the page block for a single record.
func (r *Renderer) RenderBlock(rec *record.ProtocolRecord) (template.HTML, error) {
	var buf bytes.Buffer
	data := slipData{Record: rec, OrgName: r.orgName, LogoURL: r.logoURL}
	if err := r.slip.ExecuteTemplate(&buf, "slip", data); err != nil {
		return "", errors.NewInternal(err)
	}
	return template.HTML(buf.String()), nil
}

// Render composes a document from the given records in the given order.
// Structurally invalid records are skipped and reported; the render proceeds
// for the remaining valid ones rather than aborting the batch.
func (r *Renderer) Render(records []record.ProtocolRecord) (*Result, error) {
	result := &Result{Rendered: []string{}}

	var blocks []string
	for i := range records {
		rec := &records[i]
		if reason := structuralProblem(rec); reason != "" {
			result.Skipped = append(result.Skipped, Skipped{ID: rec.ID, Reason: reason})
			continue
		}
		block, err := r.RenderBlock(rec)
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, string(block))
		result.Rendered = append(result.Rendered, rec.ID)
		if result.FileName == "" {
			result.FileName = rec.FileName()
		}
	}

	result.HTML = template.HTML(strings.Join(blocks, "\n"+PageBreak+"\n"))
	return result, nil
}

// Page wraps a render result into a standalone printable HTML page with the
// fixed A4 format. Pagination to the output format is the browser's job.
func (r *Renderer) Page(result *Result, title string) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.page.ExecuteTemplate(&buf, "page", pageData{Title: title, Body: result.HTML}); err != nil {
		return nil, errors.NewInternal(err)
	}
	return buf.Bytes(), nil
}

// structuralProblem reports why a record cannot be rendered, or "" if it can.
// Records missing their identity fields never make it onto paper.
func structuralProblem(rec *record.ProtocolRecord) string {
	if strings.TrimSpace(rec.ID) == "" {
		return "missing id"
	}
	if strings.TrimSpace(rec.ProtocolNumber) == "" {
		return "missing protocol number"
	}
	return ""
}

// dash substitutes the placeholder dash for blank optional fields, so the
// printed slip never shows empty cells.
func dash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

// BatchTitle derives the document title for a multi-record render.
func BatchTitle(count int) string {
	if count == 1 {
		return "Protocolo de Envio de Documentos"
	}
	return fmt.Sprintf("Protocolos de Envio de Documentos (%d)", count)
}

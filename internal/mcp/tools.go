package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

var createToolDef = mcp.NewTool("protocol_create",
	mcp.WithDescription("Create a document transmittal record. Issues and reserves the next year-scoped protocol number on save."),
	mcp.WithString("file_label", mcp.Required(), mcp.Description("Name of the shipment (required, non-blank)")),
	mcp.WithString("sender_sector", mcp.Description("Sector sending the documents")),
	mcp.WithString("sender_unit", mcp.Description("Unit sending the documents")),
	mcp.WithString("dest_unit", mcp.Description("Destination unit")),
	mcp.WithString("dest_sector", mcp.Description("Destination sector")),
	mcp.WithString("attention_of", mcp.Description("Person the shipment is addressed to")),
	mcp.WithArray("documents", mcp.Description("Document descriptions, in shipment order (max 8 non-blank entries)"),
		mcp.Items(map[string]any{"type": "string"})),
	mcp.WithString("notes", mcp.Description("Optional free-text notes (markdown)")),
	mcp.WithNumber("year", mcp.Description("Protocol number year (defaults to the current year)")),
)

var listToolDef = mcp.NewTool("protocol_list",
	mcp.WithDescription("List all transmittal records, newest first. Unreadable records are skipped and counted."),
)

var fetchToolDef = mcp.NewTool("protocol_fetch",
	mcp.WithDescription("Fetch a single transmittal record by id."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Record id")),
)

var deleteToolDef = mcp.NewTool("protocol_delete",
	mcp.WithDescription("Delete a transmittal record. Requires confirm=true; deletion is immediate and irreversible."),
	mcp.WithString("id", mcp.Required(), mcp.Description("Record id")),
	mcp.WithBoolean("confirm", mcp.Description("Must be true for the deletion to run")),
)

var nextNumberToolDef = mcp.NewTool("protocol_next_number",
	mcp.WithDescription("Preview the protocol number the next create will issue. Does not advance the counter."),
	mcp.WithNumber("year", mcp.Description("Year to preview (defaults to the current year)")),
)

var renderToolDef = mcp.NewTool("protocol_render",
	mcp.WithDescription("Render records as a printable HTML document, page breaks between records. Invalid or missing records are skipped and reported."),
	mcp.WithArray("ids", mcp.Required(), mcp.Description("Record ids to render, in page order"),
		mcp.Items(map[string]any{"type": "string"})),
)

var exportToolDef = mcp.NewTool("protocol_export",
	mcp.WithDescription("Export all records to a JSONL file."),
	mcp.WithString("path", mcp.Description("Destination path (defaults to the exports directory)")),
)

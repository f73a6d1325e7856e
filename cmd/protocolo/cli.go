package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/mvcampos/protocolo/internal/config"
	"github.com/mvcampos/protocolo/internal/errors"
	"github.com/mvcampos/protocolo/internal/kv"
	"github.com/mvcampos/protocolo/internal/ledger"
	"github.com/mvcampos/protocolo/internal/record"
	"github.com/mvcampos/protocolo/internal/render"
	"github.com/mvcampos/protocolo/internal/web"
)

// newCLIApp creates the CLI application with all commands.
func newCLIApp(store *kv.Store, cfg *config.Config) *cli.App {
	app := &cli.App{
		Name:    "protocolo",
		Usage:   "Protocolo de envio de documentos",
		Version: Version,
		Commands: []*cli.Command{
			createCmd(store, cfg),
			fetchCmd(store),
			deleteCmd(store),
			listCmd(store),
			nextCmd(store),
			renderCmd(store, cfg),
			exportCmd(store),
			serveCmd(store, cfg),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// createCmd creates the create command.
func createCmd(store *kv.Store, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "create",
		Usage: "Create a transmittal record (reserves the next protocol number)",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "label", Aliases: []string{"l"}, Required: true, Usage: "File label (required)"},
			&cli.StringFlag{Name: "sender-sector", Usage: "Sender sector"},
			&cli.StringFlag{Name: "sender-unit", Usage: "Sender unit"},
			&cli.StringFlag{Name: "dest-unit", Usage: "Destination unit"},
			&cli.StringFlag{Name: "dest-sector", Usage: "Destination sector"},
			&cli.StringFlag{Name: "attention", Usage: "Person the shipment is addressed to"},
			&cli.StringSliceFlag{Name: "doc", Aliases: []string{"d"}, Usage: "Document description (repeatable, max 8)"},
			&cli.IntFlag{Name: "year", Usage: "Protocol number year (default: current year)"},
		},
		Action: func(c *cli.Context) error {
			draft := record.Draft{
				SenderSector: c.String("sender-sector"),
				SenderUnit:   c.String("sender-unit"),
				DestUnit:     c.String("dest-unit"),
				DestSector:   c.String("dest-sector"),
				AttentionOf:  c.String("attention"),
				FileLabel:    c.String("label"),
				Documents:    c.StringSlice("doc"),
			}

			// Notes come from stdin when piped
			if stdinHasData() {
				notes, err := readStdin()
				if err != nil {
					return outputError(errors.NewInternal(err))
				}
				draft.Notes = notes
			}

			output, err := ledger.Create(store, cfg, ledger.CreateInput{
				Draft: draft,
				Year:  c.Int("year"),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// fetchCmd creates the fetch command.
func fetchCmd(store *kv.Store) *cli.Command {
	return &cli.Command{
		Name:      "fetch",
		Usage:     "Fetch a record by ID",
		ArgsUsage: "<id>",
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return outputError(errors.NewInvalidRequest("id is required"))
			}

			output, err := ledger.Fetch(store, c.Args().First())
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// deleteCmd creates the delete command.
func deleteCmd(store *kv.Store) *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Usage:     "Delete a record (irreversible, requires --yes)",
		ArgsUsage: "<id>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "yes", Aliases: []string{"y"}, Usage: "Confirm the deletion"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return outputError(errors.NewInvalidRequest("id is required"))
			}

			output, err := ledger.Delete(store, ledger.DeleteInput{
				ID:      c.Args().First(),
				Confirm: c.Bool("yes"),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// listCmd creates the list command.
func listCmd(store *kv.Store) *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List all records, newest first",
		Action: func(c *cli.Context) error {
			output, err := ledger.List(store)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// nextCmd creates the next command.
func nextCmd(store *kv.Store) *cli.Command {
	return &cli.Command{
		Name:  "next",
		Usage: "Preview the next protocol number without advancing the counter",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "year", Usage: "Year to preview (default: current year)"},
		},
		Action: func(c *cli.Context) error {
			return outputJSON(ledger.NextNumber(store, c.Int("year")))
		},
	}
}

// renderCmd creates the render command.
func renderCmd(store *kv.Store, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "render",
		Usage:     "Render records as a printable HTML document",
		ArgsUsage: "<id> [id...]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "Write the HTML page to a file instead of stdout"},
			&cli.BoolFlag{Name: "json", Usage: "Emit the render result as JSON instead of the HTML page"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return outputError(errors.NewInvalidRequest("at least one id is required"))
			}

			records := make([]record.ProtocolRecord, 0, c.NArg())
			skipped := make([]render.Skipped, 0)
			for _, id := range c.Args().Slice() {
				rec, err := ledger.Fetch(store, id)
				if err != nil {
					if errors.Is(err, errors.ErrNotFound) {
						skipped = append(skipped, render.Skipped{ID: id, Reason: "record not found"})
						continue
					}
					if errors.Is(err, errors.ErrInternal) {
						skipped = append(skipped, render.Skipped{ID: id, Reason: "record unreadable"})
						continue
					}
					return outputError(err)
				}
				records = append(records, *rec)
			}

			renderer := render.New(cfg)
			result, err := renderer.Render(records)
			if err != nil {
				return outputError(err)
			}
			result.Skipped = append(result.Skipped, skipped...)

			if c.Bool("json") {
				return outputJSON(result)
			}

			title := render.BatchTitle(len(result.Rendered))
			if len(records) == 1 {
				title = records[0].ProtocolNumber
			}
			page, err := renderer.Page(result, title)
			if err != nil {
				return outputError(err)
			}

			for _, s := range result.Skipped {
				fmt.Fprintf(os.Stderr, "skipped %s: %s\n", s.ID, s.Reason)
			}

			if out := c.String("out"); out != "" {
				if err := os.WriteFile(out, page, 0600); err != nil {
					return outputError(errors.NewInternal(err))
				}
				fmt.Fprintf(os.Stderr, "wrote %s\n", out)
				return nil
			}

			_, err = os.Stdout.Write(page)
			return err
		},
	}
}

// exportCmd creates the export command.
func exportCmd(store *kv.Store) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export all records to a JSONL file",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "path", Aliases: []string{"p"}, Usage: "Export file path (default: ~/.protocolo/exports/protocolos-<timestamp>.jsonl)"},
		},
		Action: func(c *cli.Context) error {
			output, err := ledger.Export(store, ledger.ExportInput{
				Path: c.String("path"),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// serveCmd creates the serve command.
func serveCmd(store *kv.Store, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the web UI",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "bind", Value: "127.0.0.1", Usage: "Bind address"},
			&cli.IntFlag{Name: "port", Value: 0, Usage: "Listen port (default: from config)"},
		},
		Action: func(c *cli.Context) error {
			port := c.Int("port")
			if port == 0 {
				port = cfg.ListenPort
			}

			srv := web.NewServer(store, cfg, Version, c.String("bind"), port)
			return web.Run(srv)
		},
	}
}

// Helper functions

// outputJSON marshals result to stdout as JSON.
func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	if pErr, ok := err.(*errors.Error); ok {
		return cli.Exit(fmt.Sprintf("[%s] %s", pErr.Code, pErr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}

// stdinHasData returns true if stdin has piped data (not a terminal).
func stdinHasData() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}

// readStdin reads all content from stdin.
func readStdin() (string, error) {
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

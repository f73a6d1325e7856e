package ledger

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mvcampos/protocolo/internal/errors"
	"github.com/mvcampos/protocolo/internal/kv"
)

// ExportInput contains parameters for the Export operation.
type ExportInput struct {
	Path string // optional, default: <baseDir>/exports/protocolos-<timestamp>.jsonl
}

// ExportOutput contains the result of the Export operation.
type ExportOutput struct {
	Path       string `json:"path"`
	Count      int    `json:"count"`
	ExportedAt int64  `json:"exported_at"`
}

// ExportHeader is the first line of a JSONL export file.
type ExportHeader struct {
	ProtocoloExport bool   `json:"_protocolo_export"`
	SchemaVersion   string `json:"schema_version"`
	ExportedAt      int64  `json:"exported_at"`
}

// Export writes the full ledger to a JSONL file: one header line, then one
// record per line, newest first.
func Export(store *kv.Store, input ExportInput) (*ExportOutput, error) {
	now := time.Now()

	listing, err := List(store)
	if err != nil {
		return nil, err
	}

	exportPath := input.Path
	if exportPath == "" {
		exportPath = filepath.Join(store.ExportsDir(), fmt.Sprintf("protocolos-%s.jsonl", now.Format("20060102-150405")))
	}

	if err := os.MkdirAll(filepath.Dir(exportPath), 0700); err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to create export directory: %w", err))
	}

	// Write to a temp file first, then rename, so a failed export never
	// clobbers an existing file.
	randBytes := make([]byte, 8)
	if _, err := rand.Read(randBytes); err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to generate temp file name: %w", err))
	}
	tempPath := exportPath + "." + hex.EncodeToString(randBytes) + ".tmp"

	file, err := os.OpenFile(tempPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to create export file: %w", err))
	}

	cleanup := func() {
		file.Close()
		os.Remove(tempPath)
	}

	enc := json.NewEncoder(file)
	header := ExportHeader{
		ProtocoloExport: true,
		SchemaVersion:   "1",
		ExportedAt:      now.Unix(),
	}
	if err := enc.Encode(header); err != nil {
		cleanup()
		return nil, errors.NewInternal(fmt.Errorf("failed to write export header: %w", err))
	}

	for i := range listing.Items {
		if err := enc.Encode(&listing.Items[i]); err != nil {
			cleanup()
			return nil, errors.NewInternal(fmt.Errorf("failed to write export record: %w", err))
		}
	}

	if err := file.Close(); err != nil {
		os.Remove(tempPath)
		return nil, errors.NewInternal(fmt.Errorf("failed to close export file: %w", err))
	}
	if err := os.Rename(tempPath, exportPath); err != nil {
		os.Remove(tempPath)
		return nil, errors.NewInternal(fmt.Errorf("failed to finalize export file: %w", err))
	}

	return &ExportOutput{
		Path:       exportPath,
		Count:      len(listing.Items),
		ExportedAt: now.Unix(),
	}, nil
}

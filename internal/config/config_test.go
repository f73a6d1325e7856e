package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.MaxDocuments != 8 {
		t.Errorf("MaxDocuments = %d, want 8", cfg.MaxDocuments)
	}
	if cfg.OrgName != "Amara NZero" {
		t.Errorf("OrgName = %q, want %q", cfg.OrgName, "Amara NZero")
	}
	if cfg.ListenPort != 8724 {
		t.Errorf("ListenPort = %d, want 8724", cfg.ListenPort)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	tmpDir := t.TempDir()

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	// Missing file falls back to defaults
	if cfg.MaxDocuments != 8 {
		t.Errorf("MaxDocuments = %d, want 8", cfg.MaxDocuments)
	}
}

func TestLoad_PartialOverride(t *testing.T) {
	tmpDir := t.TempDir()
	content := `{"max_documents": 12, "org_name": "ACME"}`
	if err := os.WriteFile(filepath.Join(tmpDir, "config.json"), []byte(content), 0600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.MaxDocuments != 12 {
		t.Errorf("MaxDocuments = %d, want 12", cfg.MaxDocuments)
	}
	if cfg.OrgName != "ACME" {
		t.Errorf("OrgName = %q, want %q", cfg.OrgName, "ACME")
	}
	// Untouched scalar keeps its default
	if cfg.ListenPort != 8724 {
		t.Errorf("ListenPort = %d, want 8724", cfg.ListenPort)
	}
}

func TestLoad_InvalidJSON(t *testing.T) {
	tmpDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(tmpDir, "config.json"), []byte("{not json"), 0600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	_, err := Load(tmpDir)
	if err == nil {
		t.Error("Load with invalid JSON should fail")
	}
}

func TestMerge_Scalars(t *testing.T) {
	base := DefaultConfig()
	overlay := &Config{ListenPort: 9000, DBMaxOpenConns: 1}

	merged := Merge(base, overlay)

	if merged.ListenPort != 9000 {
		t.Errorf("ListenPort = %d, want 9000", merged.ListenPort)
	}
	if merged.DBMaxOpenConns != 1 {
		t.Errorf("DBMaxOpenConns = %d, want 1", merged.DBMaxOpenConns)
	}
	if merged.MaxDocuments != 8 {
		t.Errorf("MaxDocuments = %d, want 8", merged.MaxDocuments)
	}
}

func TestMerge_DisabledTools(t *testing.T) {
	base := &Config{DisabledTools: []string{"protocol_export", " protocol_render "}}
	overlay := &Config{DisabledTools: []string{"protocol_export", "protocol_delete"}}

	merged := Merge(base, overlay)

	want := []string{"protocol_export", "protocol_render", "protocol_delete"}
	if len(merged.DisabledTools) != len(want) {
		t.Fatalf("DisabledTools = %v, want %v", merged.DisabledTools, want)
	}
	for i, tool := range want {
		if merged.DisabledTools[i] != tool {
			t.Errorf("DisabledTools[%d] = %q, want %q", i, merged.DisabledTools[i], tool)
		}
	}
}

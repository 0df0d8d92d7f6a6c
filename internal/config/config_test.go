package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfig(t *testing.T) {
	t.Run("missing file yields defaults", func(t *testing.T) {
		cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}
		if cfg.Edit.SimilarityThreshold != 0.95 {
			t.Errorf("SimilarityThreshold = %v, want 0.95", cfg.Edit.SimilarityThreshold)
		}
		if len(cfg.Workspace.Roots) == 0 {
			t.Error("Workspace.Roots is empty, want the working directory")
		}
	})

	t.Run("parses the full config", func(t *testing.T) {
		content := `
log:
  path: /tmp/anchoredit.log
  development: true
workspace:
  roots:
    - /ws
  case_sensitive: false
edit:
  similarity_threshold: 0.9
confirm:
  auto_approve:
    - pattern: "docs/**"
      approved: true
    - pattern: "docs/internal/**"
      approved: false
`
		path := filepath.Join(t.TempDir(), "cfg.yaml")
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
		cfg, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("LoadConfig() error = %v", err)
		}
		if cfg.Log.Path != "/tmp/anchoredit.log" || !cfg.Log.Development {
			t.Errorf("Log = %+v", cfg.Log)
		}
		if len(cfg.Workspace.Roots) != 1 || cfg.Workspace.Roots[0] != "/ws" {
			t.Errorf("Roots = %v", cfg.Workspace.Roots)
		}
		if cfg.Workspace.CaseSensitive == nil || *cfg.Workspace.CaseSensitive {
			t.Error("CaseSensitive not parsed as false")
		}
		if cfg.Edit.SimilarityThreshold != 0.9 {
			t.Errorf("SimilarityThreshold = %v, want 0.9", cfg.Edit.SimilarityThreshold)
		}
		if len(cfg.Confirm.AutoApprove) != 2 {
			t.Fatalf("AutoApprove = %+v, want 2 rules", cfg.Confirm.AutoApprove)
		}
		if !cfg.Confirm.AutoApprove[0].Approved || cfg.Confirm.AutoApprove[1].Approved {
			t.Errorf("AutoApprove verdicts = %+v", cfg.Confirm.AutoApprove)
		}
	})

	t.Run("invalid yaml fails", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "cfg.yaml")
		if err := os.WriteFile(path, []byte("{{{"), 0644); err != nil {
			t.Fatal(err)
		}
		if _, err := LoadConfig(path); err == nil {
			t.Error("LoadConfig() error = nil, want parse failure")
		}
	})
}

func TestValidate(t *testing.T) {
	t.Run("threshold out of range", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Edit.SimilarityThreshold = 1.5
		if err := cfg.Validate(); err == nil {
			t.Error("Validate() = nil, want range error")
		}
	})

	t.Run("zero threshold falls back to default", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Edit.SimilarityThreshold = 0
		if err := cfg.Validate(); err != nil {
			t.Fatalf("Validate() error = %v", err)
		}
		if cfg.Edit.SimilarityThreshold != 0.95 {
			t.Errorf("SimilarityThreshold = %v, want 0.95", cfg.Edit.SimilarityThreshold)
		}
	})

	t.Run("empty rule pattern fails", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Confirm.AutoApprove = []AutoApproveRule{{Pattern: "", Approved: true}}
		if err := cfg.Validate(); err == nil {
			t.Error("Validate() = nil, want empty pattern error")
		}
	})
}

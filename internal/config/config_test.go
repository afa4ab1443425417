package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/julianstephens/remindue/internal/constants"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Storage != filepath.Join(dir, "remindue.db") {
		t.Errorf("Storage = %q, want default path", cfg.Storage)
	}
	if cfg.ActionListenAddr != constants.DefaultActionListenAddr {
		t.Errorf("ActionListenAddr = %q, want %q", cfg.ActionListenAddr, constants.DefaultActionListenAddr)
	}
	if cfg.Debug {
		t.Error("Debug = true, want false")
	}
}

func TestLoadReadsFile(t *testing.T) {
	dir := t.TempDir()
	content := "storage: /var/lib/remindue/data.db\ndebug: true\naction_listen_addr: 127.0.0.1:9000\n"
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Storage != "/var/lib/remindue/data.db" {
		t.Errorf("Storage = %q", cfg.Storage)
	}
	if !cfg.Debug {
		t.Error("Debug = false, want true")
	}
	if cfg.ActionListenAddr != "127.0.0.1:9000" {
		t.Errorf("ActionListenAddr = %q", cfg.ActionListenAddr)
	}
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("debug: true\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if !cfg.Debug {
		t.Error("Debug = false, want true")
	}
	if cfg.Storage == "" || cfg.ActionListenAddr == "" {
		t.Errorf("defaults not applied: %+v", cfg)
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("storage: [unclosed"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(dir); err == nil {
		t.Error("expected error for malformed yaml")
	}
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "cli.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server != "http://localhost:8000" {
		t.Errorf("Server = %q, want default", cfg.Server)
	}
	if cfg.Output != "table" {
		t.Errorf("Output = %q, want table", cfg.Output)
	}
	if cfg.IdleWindow != 5*time.Minute {
		t.Errorf("IdleWindow = %v, want 5m", cfg.IdleWindow)
	}
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cli.yaml")
	content := "server: https://mcp.example.com\noutput: json\nidle_window: 10m\n"
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server != "https://mcp.example.com" {
		t.Errorf("Server = %q, want file value", cfg.Server)
	}
	if cfg.Output != "json" {
		t.Errorf("Output = %q, want json", cfg.Output)
	}
	if cfg.IdleWindow != 10*time.Minute {
		t.Errorf("IdleWindow = %v, want 10m", cfg.IdleWindow)
	}
	// Untouched keys keep their defaults.
	if cfg.Timeout != 30*time.Second {
		t.Errorf("Timeout = %v, want default 30s", cfg.Timeout)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cli.yaml")
	if err := os.WriteFile(path, []byte("server: https://from-file\n"), 0600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("MCP_SERVER", "https://from-env")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server != "https://from-env" {
		t.Errorf("Server = %q, want env value", cfg.Server)
	}
}

func TestLoad_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cli.yaml")
	if err := os.WriteFile(path, []byte("server: [unclosed"), 0600); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Error("Load succeeded on malformed YAML")
	}
}

func TestSaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "cli.yaml")

	cfg := Default()
	cfg.Server = "https://saved.example.com"
	cfg.Output = "yaml"

	if err := Save(cfg, path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("config file mode = %o, want 0600", perm)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Server != cfg.Server || loaded.Output != cfg.Output {
		t.Errorf("reloaded = %+v, want saved values", loaded)
	}
}

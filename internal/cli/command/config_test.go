package command

import (
	"strings"
	"testing"

	"github.com/nesirat/MCP/internal/cli/config"
)

func TestConfigShow(t *testing.T) {
	h := newCmdHarness(t)

	if err := h.run("config", "show"); err != nil {
		t.Fatalf("config show: %v", err)
	}

	out := h.out.String()
	if !strings.Contains(out, h.server.URL) {
		t.Errorf("output missing server address:\n%s", out)
	}
	if !strings.Contains(out, "table") {
		t.Errorf("output missing output format:\n%s", out)
	}
}

func TestConfigPath_Default(t *testing.T) {
	h := newCmdHarness(t)

	if err := h.run("config", "path"); err != nil {
		t.Fatalf("config path: %v", err)
	}

	if !strings.Contains(h.out.String(), config.DefaultPath()) {
		t.Errorf("output = %q, want default path", h.out.String())
	}
}

func TestConfigPath_Explicit(t *testing.T) {
	h := newCmdHarness(t)
	h.rt.configPath = "/tmp/custom.yaml"

	if err := h.run("config", "path"); err != nil {
		t.Fatalf("config path: %v", err)
	}

	if !strings.Contains(h.out.String(), "/tmp/custom.yaml") {
		t.Errorf("output = %q, want explicit path", h.out.String())
	}
}

func TestApp_RejectsInvalidOutputFormat(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	app := App()
	err := app.Run([]string{"mcp-cli", "--output", "xml", "config", "path"})
	if err == nil || !strings.Contains(err.Error(), "invalid output format") {
		t.Errorf("error = %v, want invalid output format", err)
	}
}

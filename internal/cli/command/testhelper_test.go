package command

import (
	"bufio"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/nesirat/MCP/internal/cli/config"
	"github.com/nesirat/MCP/internal/core/domain"
)

// mockServer creates a test HTTP server with custom handlers.
type mockServer struct {
	*httptest.Server
	handlers map[string]http.HandlerFunc
}

func newMockServer() *mockServer {
	m := &mockServer{
		handlers: make(map[string]http.HandlerFunc),
	}
	m.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for pattern, handler := range m.handlers {
			if strings.HasPrefix(r.URL.Path, pattern) {
				handler(w, r)
				return
			}
		}
		http.NotFound(w, r)
	}))
	return m
}

func (m *mockServer) handle(pattern string, handler http.HandlerFunc) {
	m.handlers[pattern] = handler
}

func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func detailResponse(w http.ResponseWriter, status int, detail string) {
	jsonResponse(w, status, map[string]string{"detail": detail})
}

// cmdHarness runs the full app against a mock server with captured
// output and an isolated home directory.
type cmdHarness struct {
	server *mockServer
	rt     *runtime
	out    *strings.Builder
}

func newCmdHarness(t *testing.T) *cmdHarness {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	server := newMockServer()
	t.Cleanup(server.Close)

	cfg := config.Default()
	cfg.Server = server.URL

	rt := buildRuntime(cfg, "")
	out := &strings.Builder{}
	rt.in = bufio.NewReader(strings.NewReader(""))
	rt.out = out
	rt.errOut = out

	return &cmdHarness{server: server, rt: rt, out: out}
}

// run executes a command line through the app with the harness runtime.
func (h *cmdHarness) run(args ...string) error {
	app := App()
	app.Metadata = map[string]any{"runtime": h.rt}
	app.Writer = h.out
	app.ErrWriter = h.out
	return app.Run(append([]string{"mcp-cli"}, args...))
}

// stdin replaces the runtime's input stream.
func (h *cmdHarness) stdin(input string) {
	h.rt.in = bufio.NewReader(strings.NewReader(input))
}

func sampleKey(id int64, name string, active bool) domain.APIKey {
	return domain.APIKey{
		ID:        id,
		Name:      name,
		Key:       "mcp_0123456789abcdef",
		IsActive:  active,
		CreatedAt: time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC),
	}
}

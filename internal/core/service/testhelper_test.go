package service

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"

	"github.com/nesirat/MCP/internal/client"
	"github.com/nesirat/MCP/internal/core/domain"
	"github.com/nesirat/MCP/internal/credstore"
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

// fakeTimer records arm/cancel calls and fires only when told to.
type fakeTimer struct {
	mu       sync.Mutex
	fire     func()
	armed    bool
	armCount int
	lastArm  time.Duration
}

func (f *fakeTimer) Arm(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.armed = true
	f.armCount++
	f.lastArm = d
}

func (f *fakeTimer) Cancel() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.armed = false
}

func (f *fakeTimer) elapse() {
	f.mu.Lock()
	armed := f.armed
	f.armed = false
	f.mu.Unlock()
	if armed {
		f.fire()
	}
}

func (f *fakeTimer) isArmed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.armed
}

// harness wires a full service stack against a mock server with
// in-memory credential backends and a controllable expiry timer.
type harness struct {
	server  *mockServer
	session *domain.Session
	store   *credstore.Store
	client  *client.Client
	monitor *Monitor
	timer   *fakeTimer
	view    *KeyListView
	keys    *KeyService
	flow    *AuthFlow

	mu        sync.Mutex
	confirmOK bool
	notices   []string
}

func newHarness() *harness {
	h := &harness{
		server:    newMockServer(),
		session:   domain.NewSession(),
		store:     credstore.New(credstore.NewMemoryBackend(), credstore.NewMemoryBackend()),
		view:      NewKeyListView(),
		confirmOK: true,
	}
	h.client = client.New(h.server.URL, h.session.Token)
	h.monitor = NewMonitor(h.session, WithTimerFactory(func(fire func()) ExpiryTimer {
		h.timer = &fakeTimer{fire: fire}
		return h.timer
	}))
	h.keys = NewKeyService(h.client, h.session, h.view, h.monitor, h.confirm)
	h.flow = NewAuthFlow(h.client, h.store, h.session, h.monitor, h.keys, h.notice)
	return h
}

func (h *harness) close() {
	h.server.Close()
}

func (h *harness) confirm(string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.confirmOK
}

func (h *harness) setConfirm(ok bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.confirmOK = ok
}

func (h *harness) notice(msg string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.notices = append(h.notices, msg)
}

func (h *harness) noticeList() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]string, len(h.notices))
	copy(out, h.notices)
	return out
}

// loginHandler installs a /token handler issuing the given token.
func (h *harness) loginHandler(token string) {
	h.server.handle("/token", func(w http.ResponseWriter, r *http.Request) {
		jsonResponse(w, http.StatusOK, map[string]string{
			"access_token": token,
			"token_type":   "bearer",
		})
	})
}

// keyStoreHandler installs stateful /api-keys handlers over the given
// slice, supporting list, create, revoke, and delete.
func (h *harness) keyStoreHandler(initial []domain.APIKey) *keyStore {
	ks := &keyStore{keys: initial, nextID: int64(len(initial)) + 1}

	h.server.handle("/api-keys", func(w http.ResponseWriter, r *http.Request) {
		ks.mu.Lock()
		defer ks.mu.Unlock()

		switch {
		case r.Method == http.MethodGet:
			jsonResponse(w, http.StatusOK, ks.keys)

		case r.Method == http.MethodPost && strings.HasSuffix(r.URL.Path, "/revoke"):
			id := pathID(r.URL.Path, "/revoke")
			for i := range ks.keys {
				if ks.keys[i].ID == id {
					ks.keys[i].IsActive = false
					jsonResponse(w, http.StatusOK, map[string]string{"detail": "revoked"})
					return
				}
			}
			detailResponse(w, http.StatusNotFound, "API key not found")

		case r.Method == http.MethodPost:
			var req struct {
				Name        string `json:"name"`
				Description string `json:"description"`
			}
			json.NewDecoder(r.Body).Decode(&req)
			key := domain.APIKey{
				ID:          ks.nextID,
				Name:        req.Name,
				Description: req.Description,
				Key:         "mcp_secret_" + req.Name,
				IsActive:    true,
				CreatedAt:   time.Now().UTC(),
			}
			ks.nextID++
			ks.keys = append(ks.keys, key)
			jsonResponse(w, http.StatusCreated, key)

		case r.Method == http.MethodDelete:
			id := pathID(r.URL.Path, "")
			for i := range ks.keys {
				if ks.keys[i].ID == id {
					ks.keys = append(ks.keys[:i], ks.keys[i+1:]...)
					jsonResponse(w, http.StatusOK, map[string]string{"detail": "deleted"})
					return
				}
			}
			detailResponse(w, http.StatusNotFound, "API key not found")

		default:
			http.NotFound(w, r)
		}
	})
	return ks
}

type keyStore struct {
	mu     sync.Mutex
	keys   []domain.APIKey
	nextID int64
}

func (ks *keyStore) snapshot() []domain.APIKey {
	ks.mu.Lock()
	defer ks.mu.Unlock()
	out := make([]domain.APIKey, len(ks.keys))
	copy(out, ks.keys)
	return out
}

func pathID(path, suffix string) int64 {
	p := strings.TrimSuffix(path, suffix)
	p = strings.TrimPrefix(p, "/api-keys/")
	var id int64
	for _, c := range p {
		if c < '0' || c > '9' {
			break
		}
		id = id*10 + int64(c-'0')
	}
	return id
}

package service

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/nesirat/MCP/internal/core/domain"
)

func activeHarness(t *testing.T) *harness {
	t.Helper()
	h := newHarness()
	t.Cleanup(h.close)
	h.session.Begin("tok-test", false)
	h.monitor.Activate(false)
	return h
}

func TestKeyService_ListRebuildsView(t *testing.T) {
	h := activeHarness(t)
	h.keyStoreHandler([]domain.APIKey{
		{ID: 1, Name: "ci", IsActive: true},
		{ID: 2, Name: "staging", IsActive: false},
	})

	keys, err := h.keys.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(keys) != 2 {
		t.Fatalf("got %d keys, want 2", len(keys))
	}
	if h.view.Len() != 2 {
		t.Errorf("view has %d keys, want 2", h.view.Len())
	}
}

func TestKeyService_RequiresActiveSession(t *testing.T) {
	h := newHarness()
	defer h.close()

	var requests atomic.Int64
	h.server.handle("/api-keys", func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		jsonResponse(w, http.StatusOK, []domain.APIKey{})
	})

	ctx := context.Background()
	if _, err := h.keys.List(ctx); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Errorf("List error = %v, want ErrUnauthenticated", err)
	}
	if _, err := h.keys.Create(ctx, "name", ""); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Errorf("Create error = %v, want ErrUnauthenticated", err)
	}
	if _, err := h.keys.Revoke(ctx, 1); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Errorf("Revoke error = %v, want ErrUnauthenticated", err)
	}
	if _, err := h.keys.Delete(ctx, 1); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Errorf("Delete error = %v, want ErrUnauthenticated", err)
	}
	if requests.Load() != 0 {
		t.Errorf("server saw %d requests from an anonymous client, want 0", requests.Load())
	}
}

func TestKeyService_CreateAppendsWithoutRefetch(t *testing.T) {
	h := activeHarness(t)
	h.keyStoreHandler(nil)

	ctx := context.Background()
	if _, err := h.keys.List(ctx); err != nil {
		t.Fatalf("List: %v", err)
	}

	key, err := h.keys.Create(ctx, "deploy", "deployment key")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if key.Key == "" {
		t.Error("creation response missing secret value")
	}

	keys := h.view.Keys()
	if len(keys) != 1 {
		t.Fatalf("view has %d keys, want 1", len(keys))
	}
	if keys[0].ID != key.ID || !keys[0].IsActive {
		t.Errorf("view entry = %+v, want active key %d", keys[0], key.ID)
	}
}

func TestKeyService_CreateRejectsEmptyName(t *testing.T) {
	h := activeHarness(t)

	var requests atomic.Int64
	h.server.handle("/api-keys", func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
	})

	_, err := h.keys.Create(context.Background(), "  ", "desc")
	if !errors.Is(err, domain.ErrValidationFailed) {
		t.Errorf("error = %v, want ErrValidationFailed", err)
	}
	if requests.Load() != 0 {
		t.Errorf("invalid create reached the server")
	}
}

func TestKeyService_RevokeConfirmedRefetches(t *testing.T) {
	h := activeHarness(t)
	ks := h.keyStoreHandler([]domain.APIKey{{ID: 1, Name: "ci", IsActive: true}})

	ctx := context.Background()
	h.keys.List(ctx)

	done, err := h.keys.Revoke(ctx, 1)
	if err != nil {
		t.Fatalf("Revoke: %v", err)
	}
	if !done {
		t.Fatal("Revoke reported declined, want confirmed")
	}

	if ks.snapshot()[0].IsActive {
		t.Error("server key still active")
	}
	keys := h.view.Keys()
	if len(keys) != 1 || keys[0].IsActive {
		t.Errorf("view = %+v, want single inactive key", keys)
	}
}

func TestKeyService_RevokeDeclinedMakesNoRequest(t *testing.T) {
	h := activeHarness(t)
	ks := h.keyStoreHandler([]domain.APIKey{{ID: 1, Name: "ci", IsActive: true}})

	ctx := context.Background()
	h.keys.List(ctx)
	h.setConfirm(false)

	done, err := h.keys.Revoke(ctx, 1)
	if err != nil {
		t.Fatalf("Revoke: %v", err)
	}
	if done {
		t.Error("Revoke reported confirmed, want declined")
	}
	if !ks.snapshot()[0].IsActive {
		t.Error("server key revoked despite declined confirmation")
	}
	if !h.view.Keys()[0].IsActive {
		t.Error("view changed despite declined confirmation")
	}
}

func TestKeyService_DeleteConfirmedRefetches(t *testing.T) {
	h := activeHarness(t)
	ks := h.keyStoreHandler([]domain.APIKey{
		{ID: 1, Name: "ci", IsActive: true},
		{ID: 2, Name: "staging", IsActive: true},
	})

	ctx := context.Background()
	h.keys.List(ctx)

	done, err := h.keys.Delete(ctx, 1)
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if !done {
		t.Fatal("Delete reported declined, want confirmed")
	}

	if len(ks.snapshot()) != 1 {
		t.Errorf("server has %d keys, want 1", len(ks.snapshot()))
	}
	keys := h.view.Keys()
	if len(keys) != 1 || keys[0].ID != 2 {
		t.Errorf("view = %+v, want only key 2", keys)
	}
}

func TestKeyService_DeleteDeclinedMakesNoRequest(t *testing.T) {
	h := activeHarness(t)
	ks := h.keyStoreHandler([]domain.APIKey{{ID: 1, Name: "ci", IsActive: true}})

	ctx := context.Background()
	h.keys.List(ctx)
	h.setConfirm(false)

	done, err := h.keys.Delete(ctx, 1)
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if done {
		t.Error("Delete reported confirmed, want declined")
	}
	if len(ks.snapshot()) != 1 {
		t.Error("server key deleted despite declined confirmation")
	}
}

func TestKeyService_UnauthorizedForcesLogout(t *testing.T) {
	h := activeHarness(t)
	h.store.Save("tok-test", false)
	h.view.ReplaceAll([]domain.APIKey{{ID: 1, Name: "ci"}})

	h.server.handle("/api-keys", func(w http.ResponseWriter, r *http.Request) {
		detailResponse(w, http.StatusUnauthorized, "Could not validate credentials")
	})

	_, err := h.keys.List(context.Background())
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("error = %v, want ErrUnauthorized", err)
	}

	if h.session.Active() {
		t.Error("session still active after server rejection")
	}
	if h.view.Len() != 0 {
		t.Error("view not reset after forced logout")
	}
	if tok, _ := h.store.Load(); tok != "" {
		t.Error("token still stored after forced logout")
	}
	notices := h.noticeList()
	if len(notices) != 1 || notices[0] != "Session expired. Please login again." {
		t.Errorf("notices = %v, want single re-login notice", notices)
	}
}

func TestKeyService_RequestFailurePassesThrough(t *testing.T) {
	h := activeHarness(t)

	h.server.handle("/api-keys", func(w http.ResponseWriter, r *http.Request) {
		detailResponse(w, http.StatusInternalServerError, "database unavailable")
	})

	_, err := h.keys.List(context.Background())
	if !errors.Is(err, domain.ErrRequestFailed) {
		t.Fatalf("error = %v, want ErrRequestFailed", err)
	}
	if !h.session.Active() {
		t.Error("session ended on a non-auth failure")
	}
}

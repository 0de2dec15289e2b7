package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/nesirat/MCP/internal/client"
	"github.com/nesirat/MCP/internal/core/domain"
	"github.com/nesirat/MCP/internal/telemetry/logger"
)

// ConfirmFunc asks the user a yes/no question before a destructive
// operation. Returning false aborts the operation without any network
// call.
type ConfirmFunc func(prompt string) bool

// KeyService wraps the authenticated API-key operations and keeps the
// KeyListView consistent with server state. Every operation requires an
// active session; otherwise it fails client-side with
// ErrUnauthenticated and no request is made.
type KeyService struct {
	client  *client.Client
	session *domain.Session
	view    *KeyListView
	monitor *Monitor
	confirm ConfirmFunc
	log     logger.Logger
}

// NewKeyService creates a key service.
func NewKeyService(c *client.Client, session *domain.Session, view *KeyListView, monitor *Monitor, confirm ConfirmFunc) *KeyService {
	return &KeyService{
		client:  c,
		session: session,
		view:    view,
		monitor: monitor,
		confirm: confirm,
		log:     logger.Default(),
	}
}

// View returns the key list view model.
func (s *KeyService) View() *KeyListView {
	return s.view
}

// List fetches the full key collection and rebuilds the view.
func (s *KeyService) List(ctx context.Context) ([]domain.APIKey, error) {
	if !s.session.Active() {
		return nil, domain.ErrUnauthenticated
	}

	keys, err := s.client.ListKeys(ctx)
	if err != nil {
		return nil, s.checkUnauthorized(err)
	}

	s.view.ReplaceAll(keys)
	return keys, nil
}

// Create mints a new key and appends it to the view optimistically:
// the creation response is already authoritative for the new record,
// so no re-fetch happens.
func (s *KeyService) Create(ctx context.Context, name, description string) (*domain.APIKey, error) {
	if !s.session.Active() {
		return nil, domain.ErrUnauthenticated
	}
	if err := domain.ValidateCreate(name, description); err != nil {
		return nil, err
	}

	key, err := s.client.CreateKey(ctx, name, description)
	if err != nil {
		return nil, s.checkUnauthorized(err)
	}

	s.view.Append(*key)
	s.log.Info("api key created", "id", key.ID, "name", key.Name)
	return key, nil
}

// Revoke deactivates a key after user confirmation. Returns false with
// a nil error when the user declined; no request is made and the view
// is untouched. On success the view is rebuilt by a fresh List.
func (s *KeyService) Revoke(ctx context.Context, id int64) (bool, error) {
	if !s.session.Active() {
		return false, domain.ErrUnauthenticated
	}
	if !s.confirm(fmt.Sprintf("Are you sure you want to revoke API key %d?", id)) {
		return false, nil
	}

	if err := s.client.RevokeKey(ctx, id); err != nil {
		return true, s.checkUnauthorized(err)
	}

	if _, err := s.List(ctx); err != nil {
		return true, err
	}
	return true, nil
}

// Delete removes a key after user confirmation, with the same
// confirmation and re-fetch semantics as Revoke.
func (s *KeyService) Delete(ctx context.Context, id int64) (bool, error) {
	if !s.session.Active() {
		return false, domain.ErrUnauthenticated
	}
	if !s.confirm(fmt.Sprintf("Are you sure you want to delete API key %d?", id)) {
		return false, nil
	}

	if err := s.client.DeleteKey(ctx, id); err != nil {
		return true, s.checkUnauthorized(err)
	}

	if _, err := s.List(ctx); err != nil {
		return true, err
	}
	return true, nil
}

// checkUnauthorized forces the logout transition when the server
// rejected the token. The monitor fans the expiry out to the store and
// the view; every other error passes through untouched.
func (s *KeyService) checkUnauthorized(err error) error {
	if errors.Is(err, domain.ErrUnauthorized) {
		s.monitor.ForceExpire(domain.ErrUnauthorized)
	}
	return err
}

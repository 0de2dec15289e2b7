package service

import (
	"context"
	"errors"
	"strings"

	"github.com/nesirat/MCP/internal/client"
	"github.com/nesirat/MCP/internal/core/domain"
	"github.com/nesirat/MCP/internal/credstore"
	"github.com/nesirat/MCP/internal/telemetry/logger"
)

// NoticeFunc surfaces a transient user-visible notice.
type NoticeFunc func(message string)

// AuthFlow drives login, registration, logout, and session resume,
// transitioning the client between anonymous and authenticated state.
type AuthFlow struct {
	client  *client.Client
	store   *credstore.Store
	session *domain.Session
	monitor *Monitor
	keys    *KeyService
	notify  NoticeFunc
	log     logger.Logger
}

// NewAuthFlow wires the auth flow controller. It registers the expiry
// handler on the monitor: any forced session end clears the credential
// store, resets the key view, and surfaces a notice.
func NewAuthFlow(c *client.Client, store *credstore.Store, session *domain.Session, monitor *Monitor, keys *KeyService, notify NoticeFunc) *AuthFlow {
	f := &AuthFlow{
		client:  c,
		store:   store,
		session: session,
		monitor: monitor,
		keys:    keys,
		notify:  notify,
		log:     logger.Default(),
	}

	monitor.OnExpire(f.handleExpiry)
	return f
}

// Login submits credentials and, on success, persists the token,
// activates the session monitor with the chosen durability, and
// populates the key view. On failure the client remains anonymous and
// the server's error detail is returned.
func (f *AuthFlow) Login(ctx context.Context, email, password string, durable bool) error {
	token, err := f.client.Login(ctx, email, password, durable)
	if err != nil {
		f.log.Debug("login failed", "email", email, "error", err)
		return err
	}

	f.store.Save(token, durable)
	f.session.Begin(token, durable)
	f.monitor.Activate(durable)

	// Populating the key view is best-effort: a list failure does not
	// undo the login.
	if _, err := f.keys.List(ctx); err != nil {
		f.log.Warn("initial key list failed", "error", err)
	}

	f.log.Info("login successful", "email", email, "durable", durable)
	return nil
}

// Register validates the password policy client-side, then submits the
// registration. Policy violations block the request entirely; the
// server stays authoritative for everything else.
func (f *AuthFlow) Register(ctx context.Context, email, password string) error {
	if msgs := domain.ValidatePassword(password); len(msgs) > 0 {
		return domain.ErrValidationFailed.WithDetails(strings.Join(msgs, "; "))
	}
	return f.client.Register(ctx, email, password)
}

// Logout is the explicit transition to anonymous: cancel any pending
// expiry, drop the token from both storage scopes, and empty the view.
func (f *AuthFlow) Logout() {
	f.monitor.Deactivate()
	f.store.Clear()
	f.keys.View().Reset()
	f.log.Info("logged out")
}

// Resume restores a persisted session at startup. Returns false when no
// token is stored or the stored token is no longer accepted.
func (f *AuthFlow) Resume(ctx context.Context) (bool, error) {
	token, durable := f.store.Load()
	if token == "" {
		return false, nil
	}

	f.session.Begin(token, durable)
	f.monitor.Activate(durable)

	if _, err := f.client.Me(ctx); err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			// The stored token is dead; the expiry handler has already
			// cleaned up via the monitor.
			f.monitor.ForceExpire(domain.ErrUnauthorized)
			return false, nil
		}
		// Verification never happened, so the session must not stay
		// active. The stored token is kept for a later attempt.
		f.monitor.Deactivate()
		return false, err
	}

	if _, err := f.keys.List(ctx); err != nil {
		f.log.Warn("initial key list failed", "error", err)
	}
	return true, nil
}

// Whoami returns the account behind the current session.
func (f *AuthFlow) Whoami(ctx context.Context) (*client.Account, error) {
	if !f.session.Active() {
		return nil, domain.ErrUnauthenticated
	}

	account, err := f.client.Me(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			f.monitor.ForceExpire(domain.ErrUnauthorized)
		}
		return nil, err
	}
	return account, nil
}

// handleExpiry runs on every forced session end (inactivity or server
// rejection): clear stored credentials, empty the view, tell the user.
func (f *AuthFlow) handleExpiry(reason error) {
	f.store.Clear()
	f.keys.View().Reset()

	switch {
	case errors.Is(reason, domain.ErrUnauthorized):
		f.notify("Session expired. Please login again.")
	default:
		f.notify("Session expired due to inactivity")
	}
}

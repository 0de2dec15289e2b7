package service

import (
	"sync"
	"time"

	"github.com/nesirat/MCP/internal/core/domain"
	"github.com/nesirat/MCP/internal/telemetry/logger"
)

// DefaultIdleWindow is the inactivity window after which a non-durable
// session expires.
const DefaultIdleWindow = 5 * time.Minute

// ExpiryTimer is a single owned deferred action. Arm replaces any
// pending schedule (cancel-then-reschedule), so at most one expiry is
// ever pending.
type ExpiryTimer interface {
	Arm(d time.Duration)
	Cancel()
}

// TimerFactory builds an ExpiryTimer that invokes fire when it elapses.
type TimerFactory func(fire func()) ExpiryTimer

// afterFuncTimer implements ExpiryTimer on time.AfterFunc.
type afterFuncTimer struct {
	mu   sync.Mutex
	t    *time.Timer
	fire func()
}

func newAfterFuncTimer(fire func()) ExpiryTimer {
	return &afterFuncTimer{fire: fire}
}

func (a *afterFuncTimer) Arm(d time.Duration) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.t != nil {
		a.t.Stop()
	}
	a.t = time.AfterFunc(d, a.fire)
}

func (a *afterFuncTimer) Cancel() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.t != nil {
		a.t.Stop()
		a.t = nil
	}
}

// State is the session monitor state.
type State int

const (
	// StateAnonymous means no token is present.
	StateAnonymous State = iota

	// StateActive means a token is present. Non-durable active sessions
	// carry a pending expiry action.
	StateActive
)

// Monitor watches user activity and expires non-durable sessions after
// the inactivity window. Durable sessions persist until explicit
// logout. A server-side 401 is funneled through ForceExpire and treated
// identically to timer expiry.
type Monitor struct {
	mu       sync.Mutex
	session  *domain.Session
	window   time.Duration
	timer    ExpiryTimer
	onExpire []func(reason error)
	log      logger.Logger
}

// MonitorOption configures a Monitor.
type MonitorOption func(*Monitor)

// WithIdleWindow overrides the inactivity window.
func WithIdleWindow(d time.Duration) MonitorOption {
	return func(m *Monitor) {
		m.window = d
	}
}

// WithTimerFactory replaces the timer implementation (used in tests).
func WithTimerFactory(factory TimerFactory) MonitorOption {
	return func(m *Monitor) {
		m.timer = factory(m.timerFired)
	}
}

// NewMonitor creates a monitor over the given session.
func NewMonitor(session *domain.Session, opts ...MonitorOption) *Monitor {
	m := &Monitor{
		session: session,
		window:  DefaultIdleWindow,
		log:     logger.Default(),
	}
	m.timer = newAfterFuncTimer(m.timerFired)

	for _, opt := range opts {
		opt(m)
	}
	return m
}

// OnExpire registers a callback invoked when the session is forcibly
// ended, by timer or by a server rejection. The reason is
// ErrSessionExpired or ErrUnauthorized.
func (m *Monitor) OnExpire(callback func(reason error)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onExpire = append(m.onExpire, callback)
}

// State returns the current monitor state.
func (m *Monitor) State() State {
	if m.session.Active() {
		return StateActive
	}
	return StateAnonymous
}

// Activate enters the Active state after a successful login or resume.
// Non-durable sessions arm the inactivity timer; durable sessions arm
// nothing and persist until explicit logout.
func (m *Monitor) Activate(durable bool) {
	if durable {
		m.timer.Cancel()
		m.log.Debug("session active, durable")
		return
	}
	m.timer.Arm(m.window)
	m.log.Debug("session active, idle window armed", "window", m.window)
}

// Activity records a user-interaction signal. While active and
// non-durable it re-arms the timer, debouncing to the most recent
// activity.
func (m *Monitor) Activity() {
	if !m.session.Active() || m.session.Durable() {
		return
	}
	m.session.Touch()
	m.timer.Arm(m.window)
}

// Deactivate is the explicit logout transition: unconditional, cancels
// any pending timer. Expiry callbacks do not run.
func (m *Monitor) Deactivate() {
	m.timer.Cancel()
	m.session.End()
}

// ForceExpire ends the session as if the timer had fired. Used when an
// authenticated call comes back unauthorized, which means the server
// already considers the token dead.
func (m *Monitor) ForceExpire(reason error) {
	if !m.session.Active() {
		return
	}
	m.timer.Cancel()
	m.session.End()
	m.notifyExpire(reason)
}

// timerFired handles the inactivity deadline elapsing.
func (m *Monitor) timerFired() {
	if !m.session.Active() {
		return
	}
	m.session.End()
	m.log.Info("session expired due to inactivity")
	m.notifyExpire(domain.ErrSessionExpired)
}

func (m *Monitor) notifyExpire(reason error) {
	m.mu.Lock()
	callbacks := make([]func(error), len(m.onExpire))
	copy(callbacks, m.onExpire)
	m.mu.Unlock()

	for _, cb := range callbacks {
		cb(reason)
	}
}

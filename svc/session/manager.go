package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/dmitrymomot/pharmakit/pkg/jwt"
	"github.com/dmitrymomot/pharmakit/pkg/logger"
	"github.com/dmitrymomot/pharmakit/pkg/rbac"
	"github.com/dmitrymomot/pharmakit/pkg/tokenstore"
	"github.com/dmitrymomot/pharmakit/svc/auth"
)

// Authenticator is the subset of auth.Service the manager needs.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (auth.Credentials, error)
	Logout(ctx context.Context, token string)
}

// Manager owns the current session.
type Manager struct {
	auth     Authenticator
	store    tokenstore.Store
	logger   *slog.Logger
	now      func() time.Time
	interval time.Duration
	verifier *jwt.Service

	// persist pairs each token store write with its state change.
	persist sync.Mutex

	mu          sync.RWMutex
	state       State
	current     *Session
	subscribers map[int]func(Change)
	nextSubID   int

	// loop guards the expiry ticker so only one runs at a time.
	loop     sync.Mutex
	stopLoop context.CancelFunc
	loopDone chan struct{}
}

// NewManager creates an Anonymous manager. Call Restore to pick up a stored login.
func NewManager(authn Authenticator, store tokenstore.Store, opts ...Option) *Manager {
	if authn == nil || store == nil {
		panic("session: authenticator and token store are required")
	}

	m := &Manager{
		auth:        authn,
		store:       store,
		logger:      slog.Default(),
		now:         time.Now,
		interval:    DefaultCheckInterval,
		state:       Anonymous,
		subscribers: make(map[int]func(Change)),
	}
	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Login authenticates against the backend and, on success, replaces any
// current session. On failure the state is left untouched.
func (m *Manager) Login(ctx context.Context, email, password string) (rbac.Role, error) {
	creds, err := m.auth.Login(ctx, email, password)
	if err != nil {
		return "", err
	}

	sess, err := decodeToken(creds.Token, m.verifier)
	if err != nil {
		return "", errors.Join(auth.ErrMalformedResponse, err)
	}
	if sess.Expired(m.now()) {
		return "", errors.Join(auth.ErrMalformedResponse, ErrSessionExpired)
	}

	m.persist.Lock()
	if err := m.store.Save(ctx, tokenstore.Record{
		Token:     sess.Token,
		Role:      sess.Role.String(),
		ExpiresAt: sess.ExpiresAt,
	}); err != nil {
		m.persist.Unlock()
		return "", errors.Join(ErrStore, err)
	}
	notify, err := m.transition(EventLogin, &sess, nil, nil)
	m.persist.Unlock()
	if err != nil {
		return "", err
	}
	notify()

	m.logger.InfoContext(ctx, "logged in",
		logger.Component("session"),
		logger.Role(sess.Role),
		slog.Time("expires_at", sess.ExpiresAt),
	)

	return sess.Role, nil
}

// Logout ends the session unconditionally. It is safe to call when Anonymous.
func (m *Manager) Logout(ctx context.Context) {
	prev := m.end(ctx, EventLogout, nil, nil)
	if prev != nil {
		m.auth.Logout(ctx, prev.Token)
		m.logger.InfoContext(ctx, "logged out", logger.Component("session"), logger.Role(prev.Role))
	}
}

// Restore rehydrates the session from the token store. It reports whether a
// session was restored. Expired, undecodable or unreadable records are cleared.
func (m *Manager) Restore(ctx context.Context) bool {
	m.persist.Lock()
	restored, notify := m.restore(ctx)
	m.persist.Unlock()

	if restored {
		notify()
	}
	return restored
}

// restore must be called with persist held.
func (m *Manager) restore(ctx context.Context) (bool, func()) {
	rec, err := m.store.Read(ctx)
	if errors.Is(err, tokenstore.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		m.discard(ctx, "unreadable token store", err)
		return false, nil
	}

	sess, err := decodeToken(rec.Token, m.verifier)
	if err != nil {
		m.discard(ctx, "stored token rejected", err)
		return false, nil
	}
	if sess.Expired(m.now()) {
		m.discard(ctx, "stored token expired", ErrSessionExpired)
		return false, nil
	}

	notify, err := m.transition(EventRestore, &sess, nil, nil)
	if err != nil {
		// Already authenticated: a fresher login wins over the stored one.
		return false, nil
	}

	m.logger.InfoContext(ctx, "session restored", logger.Component("session"), logger.Role(sess.Role))
	return true, notify
}

// Check runs one expiry check and reports whether the session is still valid.
// An expired session is ended with ErrSessionExpired as the reason.
func (m *Manager) Check(ctx context.Context) bool {
	m.mu.RLock()
	cur := m.current
	m.mu.RUnlock()

	if cur == nil {
		return false
	}
	if !cur.Expired(m.now()) {
		return true
	}

	prev := m.end(ctx, EventExpire, ErrSessionExpired, cur)
	if prev == nil {
		// Replaced by a newer login while the check ran.
		_, ok := m.Current()
		return ok
	}
	m.logger.InfoContext(ctx, "session expired", logger.Component("session"), logger.Role(prev.Role))
	return false
}

// Current returns the session, or false when Anonymous or past expiry.
func (m *Manager) Current() (Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.current == nil || m.current.Expired(m.now()) {
		return Session{}, false
	}
	return *m.current, true
}

// State returns the current state.
func (m *Manager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// Token implements apiclient.TokenSource.
func (m *Manager) Token() (string, bool) {
	s, ok := m.Current()
	return s.Token, ok
}

// UserID returns the user id claim of the current session.
func (m *Manager) UserID() (string, bool) {
	s, ok := m.Current()
	if !ok || s.UserID == "" {
		return "", false
	}
	return s.UserID, true
}

// Subscribe registers fn for every completed transition and returns a function
// that removes it. fn runs synchronously on the goroutine that caused the change.
func (m *Manager) Subscribe(fn func(Change)) func() {
	m.mu.Lock()
	id := m.nextSubID
	m.nextSubID++
	m.subscribers[id] = fn
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.subscribers, id)
		m.mu.Unlock()
	}
}

// Start runs the periodic expiry check until Stop is called or ctx is done.
// A check runs immediately. Calling Start while the loop runs is a no-op.
func (m *Manager) Start(ctx context.Context) {
	m.loop.Lock()
	defer m.loop.Unlock()

	if m.loopDone != nil {
		select {
		case <-m.loopDone:
		default:
			return
		}
	}

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	m.stopLoop = cancel
	m.loopDone = done

	go m.run(ctx, done)
}

// Stop ends the expiry loop and waits for it to exit. It is idempotent.
func (m *Manager) Stop() {
	m.loop.Lock()
	defer m.loop.Unlock()

	if m.stopLoop == nil {
		return
	}
	m.stopLoop()
	<-m.loopDone
	m.stopLoop = nil
	m.loopDone = nil
}

// Running reports whether the expiry loop is active.
func (m *Manager) Running() bool {
	m.loop.Lock()
	defer m.loop.Unlock()

	if m.loopDone == nil {
		return false
	}
	select {
	case <-m.loopDone:
		return false
	default:
		return true
	}
}

func (m *Manager) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.Check(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Check(ctx)
		}
	}
}

// end moves to Anonymous via ev, clears the store and returns the session
// that was dropped, if any. With expect set, nothing happens unless expect is
// still the current session.
func (m *Manager) end(ctx context.Context, ev Event, reason error, expect *Session) *Session {
	m.persist.Lock()

	m.mu.RLock()
	prev := m.current
	m.mu.RUnlock()

	if expect != nil && prev != expect {
		m.persist.Unlock()
		return nil
	}

	if err := m.store.Clear(ctx); err != nil {
		m.logger.WarnContext(ctx, "failed to clear token store", logger.Component("session"), logger.Error(err))
	}

	if prev == nil {
		m.persist.Unlock()
		return nil
	}
	notify, err := m.transition(ev, nil, reason, prev)
	m.persist.Unlock()
	if err != nil {
		return nil
	}
	notify()
	return prev
}

// discard drops an unusable stored record.
func (m *Manager) discard(ctx context.Context, msg string, err error) {
	m.logger.InfoContext(ctx, msg, logger.Component("session"), logger.Error(err))
	if err := m.store.Clear(ctx); err != nil {
		m.logger.WarnContext(ctx, "failed to clear token store", logger.Component("session"), logger.Error(err))
	}
}

// transition applies ev and returns the subscriber notification, which the
// caller runs once no lock is held. With expect set the transition only
// applies while expect is the current session.
func (m *Manager) transition(ev Event, next *Session, reason error, expect *Session) (func(), error) {
	m.mu.Lock()
	if expect != nil && m.current != expect {
		m.mu.Unlock()
		return nil, ErrNoTransition
	}
	from := m.state
	to, err := nextState(from, ev)
	if err != nil {
		m.mu.Unlock()
		return nil, err
	}

	m.state = to
	m.current = next

	subs := make([]func(Change), 0, len(m.subscribers))
	for _, fn := range m.subscribers {
		subs = append(subs, fn)
	}
	m.mu.Unlock()

	change := Change{From: from, To: to, Event: ev, Reason: reason}
	if next != nil {
		cp := *next
		change.Session = &cp
	}
	return func() {
		for _, fn := range subs {
			fn(change)
		}
	}, nil
}

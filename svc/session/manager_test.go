package session_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/pharmakit/internal/testutil"
	"github.com/dmitrymomot/pharmakit/pkg/jwt"
	"github.com/dmitrymomot/pharmakit/pkg/logger"
	"github.com/dmitrymomot/pharmakit/pkg/rbac"
	"github.com/dmitrymomot/pharmakit/pkg/tokenstore"
	"github.com/dmitrymomot/pharmakit/svc/auth"
	"github.com/dmitrymomot/pharmakit/svc/session"
)

type fakeAuth struct {
	mu      sync.Mutex
	creds   auth.Credentials
	err     error
	logouts []string
}

func (f *fakeAuth) Login(_ context.Context, _, _ string) (auth.Credentials, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.creds, f.err
}

func (f *fakeAuth) Logout(_ context.Context, token string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logouts = append(f.logouts, token)
}

func (f *fakeAuth) respond(creds auth.Credentials, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creds, f.err = creds, err
}

func (f *fakeAuth) loggedOut() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.logouts...)
}

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type failingStore struct {
	tokenstore.MemoryStore
}

func (*failingStore) Save(context.Context, tokenstore.Record) error {
	return errors.New("disk full")
}

type hookStore struct {
	*tokenstore.MemoryStore
	afterSave func()
}

func (h *hookStore) Save(ctx context.Context, rec tokenstore.Record) error {
	if err := h.MemoryStore.Save(ctx, rec); err != nil {
		return err
	}
	if h.afterSave != nil {
		h.afterSave()
	}
	return nil
}

type fixture struct {
	auth  *fakeAuth
	store *tokenstore.MemoryStore
	clock *clock
	mgr   *session.Manager
}

func newFixture(t *testing.T, opts ...session.Option) *fixture {
	t.Helper()

	f := &fixture{
		auth:  &fakeAuth{},
		store: tokenstore.NewMemoryStore(),
		clock: &clock{now: time.Now().Truncate(time.Second)},
	}
	opts = append([]session.Option{
		session.WithClock(f.clock.Now),
		session.WithLogger(logger.Discard()),
	}, opts...)
	f.mgr = session.NewManager(f.auth, f.store, opts...)

	return f
}

func (f *fixture) token(t *testing.T, role rbac.Role, ttl time.Duration) string {
	t.Helper()
	return testutil.IssueToken(t, "user-1", role, f.clock.Now().Add(ttl))
}

func (f *fixture) login(t *testing.T, role rbac.Role, ttl time.Duration) string {
	t.Helper()

	tok := f.token(t, role, ttl)
	f.auth.respond(auth.Credentials{Token: tok, Role: role.String()}, nil)
	got, err := f.mgr.Login(context.Background(), "user@example.com", "secret")
	require.NoError(t, err)
	require.Equal(t, role, got)

	return tok
}

func TestManager_Login(t *testing.T) {
	t.Parallel()

	t.Run("pharmacist login persists session", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)

		var changes []session.Change
		f.mgr.Subscribe(func(c session.Change) { changes = append(changes, c) })

		tok := f.login(t, rbac.Pharmacist, time.Hour)

		cur, ok := f.mgr.Current()
		require.True(t, ok)
		assert.Equal(t, rbac.Pharmacist, cur.Role)
		assert.Equal(t, tok, cur.Token)
		assert.Equal(t, "user-1", cur.UserID)
		assert.Equal(t, f.clock.Now().Add(time.Hour).UnixMilli(), cur.ExpiresAtMillis())
		assert.Equal(t, session.Authenticated, f.mgr.State())

		rec, err := f.store.Read(context.Background())
		require.NoError(t, err)
		assert.Equal(t, tok, rec.Token)
		assert.Equal(t, "pharmacist", rec.Role)
		assert.Equal(t, cur.ExpiresAtMillis(), rec.ExpiryMillis())

		require.Len(t, changes, 1)
		assert.Equal(t, session.Anonymous, changes[0].From)
		assert.Equal(t, session.Authenticated, changes[0].To)
		assert.Equal(t, session.EventLogin, changes[0].Event)
		require.NotNil(t, changes[0].Session)
		assert.Equal(t, rbac.Pharmacist, changes[0].Session.Role)

		assert.NoError(t, rbac.NewSet(rbac.Pharmacist, rbac.Admin).Check(cur.Role))
		assert.ErrorIs(t, rbac.NewSet(rbac.Admin).Check(cur.Role), rbac.ErrInsufficientRole)
	})

	t.Run("role comes from the token", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)

		f.auth.respond(auth.Credentials{Token: f.token(t, rbac.Customer, time.Hour), Role: "admin"}, nil)
		role, err := f.mgr.Login(context.Background(), "user@example.com", "secret")
		require.NoError(t, err)
		assert.Equal(t, rbac.Customer, role)
	})

	t.Run("failed login keeps current session", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		tok := f.login(t, rbac.Customer, time.Hour)

		f.auth.respond(auth.Credentials{}, auth.ErrInvalidCredentials)
		_, err := f.mgr.Login(context.Background(), "user@example.com", "wrong")
		require.ErrorIs(t, err, auth.ErrInvalidCredentials)

		cur, ok := f.mgr.Current()
		require.True(t, ok)
		assert.Equal(t, tok, cur.Token)
	})

	t.Run("undecodable token is malformed", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)

		f.auth.respond(auth.Credentials{Token: "not-a-jwt", Role: "admin"}, nil)
		_, err := f.mgr.Login(context.Background(), "user@example.com", "secret")
		require.ErrorIs(t, err, auth.ErrMalformedResponse)
		assert.ErrorIs(t, err, session.ErrInvalidToken)

		_, ok := f.mgr.Current()
		assert.False(t, ok)
		_, err = f.store.Read(context.Background())
		assert.ErrorIs(t, err, tokenstore.ErrNotFound)
	})

	t.Run("unknown role claim is malformed", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)

		f.auth.respond(auth.Credentials{Token: f.token(t, rbac.Role("owner"), time.Hour), Role: "owner"}, nil)
		_, err := f.mgr.Login(context.Background(), "user@example.com", "secret")
		require.ErrorIs(t, err, auth.ErrMalformedResponse)
	})

	t.Run("already expired token is malformed", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)

		f.auth.respond(auth.Credentials{Token: f.token(t, rbac.Admin, -time.Minute), Role: "admin"}, nil)
		_, err := f.mgr.Login(context.Background(), "user@example.com", "secret")
		require.ErrorIs(t, err, auth.ErrMalformedResponse)
		assert.Equal(t, session.Anonymous, f.mgr.State())
	})

	t.Run("re-entrant login overwrites", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)

		f.login(t, rbac.Customer, time.Hour)
		second := f.login(t, rbac.Admin, 2*time.Hour)

		cur, ok := f.mgr.Current()
		require.True(t, ok)
		assert.Equal(t, rbac.Admin, cur.Role)
		assert.Equal(t, second, cur.Token)

		rec, err := f.store.Read(context.Background())
		require.NoError(t, err)
		assert.Equal(t, second, rec.Token)
	})

	t.Run("store failure leaves state unchanged", func(t *testing.T) {
		t.Parallel()
		a := &fakeAuth{}
		now := time.Now()
		mgr := session.NewManager(a, &failingStore{}, session.WithLogger(logger.Discard()))

		a.respond(auth.Credentials{Token: testutil.IssueToken(t, "u", rbac.Customer, now.Add(time.Hour)), Role: "customer"}, nil)
		_, err := mgr.Login(context.Background(), "user@example.com", "secret")
		require.ErrorIs(t, err, session.ErrStore)
		assert.Equal(t, session.Anonymous, mgr.State())
	})
}

func TestManager_Verifier(t *testing.T) {
	t.Parallel()

	other, err := jwt.NewFromString("some-other-key")
	require.NoError(t, err)

	f := newFixture(t, session.WithVerifier(other))
	f.auth.respond(auth.Credentials{Token: f.token(t, rbac.Admin, time.Hour), Role: "admin"}, nil)
	_, err = f.mgr.Login(context.Background(), "user@example.com", "secret")
	require.ErrorIs(t, err, auth.ErrMalformedResponse)

	g := newFixture(t, session.WithConfig(session.Config{TokenKey: testutil.SigningKey}))
	g.login(t, rbac.Admin, time.Hour)
}

func TestManager_Logout(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	tok := f.login(t, rbac.Customer, time.Hour)

	var changes []session.Change
	unsubscribe := f.mgr.Subscribe(func(c session.Change) { changes = append(changes, c) })

	f.mgr.Logout(context.Background())

	assert.Equal(t, session.Anonymous, f.mgr.State())
	_, ok := f.mgr.Current()
	assert.False(t, ok)
	_, ok = f.mgr.Token()
	assert.False(t, ok)
	_, err := f.store.Read(context.Background())
	assert.ErrorIs(t, err, tokenstore.ErrNotFound)
	assert.Equal(t, []string{tok}, f.auth.loggedOut())

	require.Len(t, changes, 1)
	assert.Equal(t, session.EventLogout, changes[0].Event)
	assert.Nil(t, changes[0].Session)
	assert.NoError(t, changes[0].Reason)

	unsubscribe()
	f.mgr.Logout(context.Background())
	assert.Len(t, f.auth.loggedOut(), 1, "second logout must not call the backend")
	assert.Len(t, changes, 1)
}

func TestManager_Restore(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("empty store", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		assert.False(t, f.mgr.Restore(ctx))
		assert.Equal(t, session.Anonymous, f.mgr.State())
	})

	t.Run("valid token", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		tok := f.token(t, rbac.Customer, time.Hour)
		require.NoError(t, f.store.Save(ctx, tokenstore.Record{Token: tok, Role: "admin", ExpiresAt: f.clock.Now().Add(time.Hour)}))

		require.True(t, f.mgr.Restore(ctx))
		cur, ok := f.mgr.Current()
		require.True(t, ok)
		assert.Equal(t, rbac.Customer, cur.Role, "role is taken from the token, not the stored field")
		assert.Empty(t, f.auth.loggedOut())
	})

	t.Run("expired token is discarded", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		tok := f.token(t, rbac.Customer, -time.Second)
		require.NoError(t, f.store.Save(ctx, tokenstore.Record{Token: tok, Role: "customer", ExpiresAt: f.clock.Now().Add(-time.Second)}))

		assert.False(t, f.mgr.Restore(ctx))
		_, ok := f.mgr.Current()
		assert.False(t, ok)
		_, err := f.store.Read(ctx)
		assert.ErrorIs(t, err, tokenstore.ErrNotFound)
	})

	t.Run("undecodable token is discarded", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		require.NoError(t, f.store.Save(ctx, tokenstore.Record{Token: "garbage", Role: "admin", ExpiresAt: f.clock.Now().Add(time.Hour)}))

		assert.False(t, f.mgr.Restore(ctx))
		_, err := f.store.Read(ctx)
		assert.ErrorIs(t, err, tokenstore.ErrNotFound)
	})

	t.Run("authenticated manager ignores stored token", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		tok := f.login(t, rbac.Admin, time.Hour)

		assert.False(t, f.mgr.Restore(ctx))
		cur, ok := f.mgr.Current()
		require.True(t, ok)
		assert.Equal(t, tok, cur.Token)
	})
}

func TestManager_Check(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	f := newFixture(t)
	assert.False(t, f.mgr.Check(ctx), "anonymous manager has nothing to check")

	f.login(t, rbac.Customer, 10*time.Minute)

	var changes []session.Change
	f.mgr.Subscribe(func(c session.Change) { changes = append(changes, c) })

	assert.True(t, f.mgr.Check(ctx))
	assert.Empty(t, changes)

	f.clock.Advance(10 * time.Minute)
	_, ok := f.mgr.Current()
	assert.False(t, ok, "expired session is hidden before the check runs")

	assert.False(t, f.mgr.Check(ctx))
	assert.Equal(t, session.Anonymous, f.mgr.State())

	require.Len(t, changes, 1)
	assert.Equal(t, session.EventExpire, changes[0].Event)
	assert.ErrorIs(t, changes[0].Reason, session.ErrSessionExpired)

	_, err := f.store.Read(ctx)
	assert.ErrorIs(t, err, tokenstore.ErrNotFound)
	assert.Empty(t, f.auth.loggedOut(), "expiry does not call the backend")

	assert.False(t, f.mgr.Check(ctx))
	assert.Len(t, changes, 1)
}

func TestManager_CheckDuringLoginKeepsNewToken(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	f := newFixture(t)
	store := &hookStore{MemoryStore: tokenstore.NewMemoryStore()}
	mgr := session.NewManager(f.auth, store,
		session.WithClock(f.clock.Now),
		session.WithLogger(logger.Discard()),
	)

	f.auth.respond(auth.Credentials{Token: f.token(t, rbac.Customer, time.Minute), Role: "customer"}, nil)
	_, err := mgr.Login(ctx, "user@example.com", "secret")
	require.NoError(t, err)

	f.clock.Advance(2 * time.Minute)
	fresh := f.token(t, rbac.Admin, time.Hour)
	f.auth.respond(auth.Credentials{Token: fresh, Role: "admin"}, nil)

	checked := make(chan bool, 1)
	store.afterSave = func() {
		// The expired session is still current here, so the check targets it.
		go func() { checked <- mgr.Check(ctx) }()
		time.Sleep(50 * time.Millisecond)
	}
	_, err = mgr.Login(ctx, "user@example.com", "secret")
	require.NoError(t, err)

	select {
	case ok := <-checked:
		assert.True(t, ok, "check sees the newer session")
	case <-time.After(time.Second):
		t.Fatal("check did not finish")
	}

	rec, err := store.Read(ctx)
	require.NoError(t, err, "new login must stay persisted")
	assert.Equal(t, fresh, rec.Token)

	cur, ok := mgr.Current()
	require.True(t, ok)
	assert.Equal(t, fresh, cur.Token)
	assert.Equal(t, rbac.Admin, cur.Role)
}

func TestManager_StartStop(t *testing.T) {
	t.Parallel()

	f := newFixture(t, session.WithCheckInterval(5*time.Millisecond))
	f.login(t, rbac.Admin, time.Minute)

	expired := make(chan session.Change, 1)
	f.mgr.Subscribe(func(c session.Change) {
		if c.Event == session.EventExpire {
			expired <- c
		}
	})

	ctx := context.Background()
	f.mgr.Start(ctx)
	f.mgr.Start(ctx)
	assert.True(t, f.mgr.Running())

	f.clock.Advance(time.Minute)

	select {
	case c := <-expired:
		assert.ErrorIs(t, c.Reason, session.ErrSessionExpired)
	case <-time.After(2 * time.Second):
		t.Fatal("expiry loop did not log the session out")
	}

	f.mgr.Stop()
	assert.False(t, f.mgr.Running())
	f.mgr.Stop()

	f.mgr.Start(ctx)
	assert.True(t, f.mgr.Running())
	f.mgr.Stop()
	assert.False(t, f.mgr.Running())
}

func TestManager_StartStopsWithContext(t *testing.T) {
	t.Parallel()

	f := newFixture(t, session.WithCheckInterval(time.Hour))
	ctx, cancel := context.WithCancel(context.Background())

	f.mgr.Start(ctx)
	require.True(t, f.mgr.Running())
	cancel()

	assert.Eventually(t, func() bool { return !f.mgr.Running() }, time.Second, 5*time.Millisecond)
	f.mgr.Stop()
}

func TestManager_TokenAndUserID(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	_, ok := f.mgr.UserID()
	assert.False(t, ok)

	tok := f.login(t, rbac.Customer, time.Hour)

	got, ok := f.mgr.Token()
	require.True(t, ok)
	assert.Equal(t, tok, got)

	id, ok := f.mgr.UserID()
	require.True(t, ok)
	assert.Equal(t, "user-1", id)
}

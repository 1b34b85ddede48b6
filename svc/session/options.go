package session

import (
	"log/slog"
	"time"

	"github.com/dmitrymomot/pharmakit/pkg/jwt"
)

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger for logins, logouts and expiry. Nil keeps slog.Default.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

// WithCheckInterval sets how often the expiry loop runs. Non-positive
// values keep DefaultCheckInterval.
func WithCheckInterval(d time.Duration) Option {
	return func(m *Manager) {
		if d > 0 {
			m.interval = d
		}
	}
}

// WithVerifier turns on signature verification of session tokens.
func WithVerifier(v *jwt.Service) Option {
	return func(m *Manager) {
		m.verifier = v
	}
}

// WithConfig applies cfg. Panics when TokenKey is set but unusable.
func WithConfig(cfg Config) Option {
	return func(m *Manager) {
		WithCheckInterval(cfg.CheckInterval)(m)
		if cfg.TokenKey != "" {
			v, err := jwt.NewFromString(cfg.TokenKey)
			if err != nil {
				panic("session: " + err.Error())
			}
			m.verifier = v
		}
	}
}

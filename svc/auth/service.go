package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/dmitrymomot/pharmakit/pkg/apiclient"
	"github.com/dmitrymomot/pharmakit/pkg/logger"
	"github.com/dmitrymomot/pharmakit/pkg/rbac"
	"github.com/dmitrymomot/pharmakit/pkg/sanitizer"
)

// logoutTimeout bounds the best-effort logout call.
const logoutTimeout = 3 * time.Second

// Credentials is a successful login response.
type Credentials struct {
	Token string `json:"token"`
	Role  string `json:"role"`
}

// Profile is the registration form.
type Profile struct {
	Name     string    `json:"name"`
	Email    string    `json:"email"`
	Password string    `json:"password"`
	Role     rbac.Role `json:"role"`
}

// Service calls the backend auth endpoints.
type Service struct {
	api    *apiclient.Client
	logger *slog.Logger

	// inflight tracks background logout calls.
	inflight sync.WaitGroup
}

// Option configures the Service.
type Option func(*Service)

// WithLogger sets the logger for swallowed logout failures. Nil keeps slog.Default.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewService creates an auth client on top of api. Requests never carry
// the session token, except logout, which is given its token explicitly.
func NewService(api *apiclient.Client, opts ...Option) *Service {
	s := &Service{api: api, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Login exchanges email and password for a token.
func (s *Service) Login(ctx context.Context, email, password string) (Credentials, error) {
	body := map[string]string{
		"email":    sanitizer.Email(email),
		"password": password,
	}

	var creds Credentials
	if err := s.api.Post(ctx, "/auth/login", body, apiclient.AuthNone, &creds); err != nil {
		return Credentials{}, classify(err, ErrInvalidCredentials)
	}

	if creds.Token == "" || creds.Role == "" {
		return Credentials{}, ErrMalformedResponse
	}

	return creds, nil
}

// Register creates a new account. An empty role registers a customer.
func (s *Service) Register(ctx context.Context, p Profile) error {
	p.Email = sanitizer.Email(p.Email)
	p.Name = sanitizer.Text(p.Name)
	if p.Role == "" {
		p.Role = rbac.Customer
	}

	if p.Email == "" || p.Password == "" {
		return errors.Join(ErrRegistrationFailed, errors.New("email and password are required"))
	}
	if !p.Role.Valid() {
		return errors.Join(ErrRegistrationFailed, rbac.ErrInvalidRole)
	}

	return classify(s.api.Post(ctx, "/auth/register", p, apiclient.AuthNone, nil), ErrRegistrationFailed)
}

// Logout tells the backend that token is no longer in use and returns at
// once. The call runs in the background, detached from ctx cancellation and
// bounded by its own timeout. Failures are logged and swallowed.
func (s *Service) Logout(ctx context.Context, token string) {
	if token == "" {
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), logoutTimeout)

	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()
		defer cancel()

		err := s.api.Do(ctx, apiclient.Request{
			Method: http.MethodPost,
			Path:   "/auth/logout",
			Auth:   apiclient.AuthRequired,
			Token:  token,
		}, nil)
		if err != nil {
			s.logger.DebugContext(ctx, "logout signal not delivered",
				logger.Component("auth"),
				logger.Error(err),
			)
		}
	}()
}

// Wait blocks until every background logout call has finished.
// Call it on shutdown so a pending logout is not cut off.
func (s *Service) Wait() {
	s.inflight.Wait()
}

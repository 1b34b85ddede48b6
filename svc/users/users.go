package users

import (
	"context"
	"errors"
	"log/slog"
	"net/url"

	"github.com/dmitrymomot/pharmakit/pkg/apiclient"
	"github.com/dmitrymomot/pharmakit/pkg/logger"
	"github.com/dmitrymomot/pharmakit/pkg/rbac"
	"github.com/dmitrymomot/pharmakit/pkg/sanitizer"
)

var (
	// ErrMissingID is returned by Update and Delete for an empty id.
	ErrMissingID = errors.New("users.missing_id")

	// ErrInvalidUpdate is returned for an update with nothing set or with an unknown role.
	ErrInvalidUpdate = errors.New("users.invalid_update")
)

// User is an account as the admin sees it.
type User struct {
	ID    string    `json:"_id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
	Role  rbac.Role `json:"role"`
}

// Update carries the editable fields. Empty fields are left unchanged.
type Update struct {
	Name  string    `json:"name,omitempty"`
	Email string    `json:"email,omitempty"`
	Role  rbac.Role `json:"role,omitempty"`
}

// Result is the backend's answer to a mutation.
type Result struct {
	Message string `json:"message"`
	User    *User  `json:"user,omitempty"`
}

// Service calls the admin user endpoints. Every call needs an admin token.
type Service struct {
	api    *apiclient.Client
	logger *slog.Logger
}

// Option configures the Service.
type Option func(*Service)

// WithLogger sets the logger for account changes. Nil keeps slog.Default.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewService creates a user admin client on top of api.
func NewService(api *apiclient.Client, opts ...Option) *Service {
	s := &Service{api: api, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List returns every account.
func (s *Service) List(ctx context.Context) ([]User, error) {
	var list []User
	if err := s.api.Get(ctx, "/users", nil, apiclient.AuthRequired, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// Update edits the account with id and returns the backend's message and user.
func (s *Service) Update(ctx context.Context, id string, u Update) (Result, error) {
	if id == "" {
		return Result{}, ErrMissingID
	}
	u.Name = sanitizer.Text(u.Name)
	u.Email = sanitizer.Email(u.Email)
	if u.Role != "" && !u.Role.Valid() {
		return Result{}, errors.Join(ErrInvalidUpdate, rbac.ErrInvalidRole)
	}
	if u == (Update{}) {
		return Result{}, errors.Join(ErrInvalidUpdate, errors.New("nothing to update"))
	}

	var res Result
	if err := s.api.Put(ctx, "/users/"+url.PathEscape(id), u, apiclient.AuthRequired, &res); err != nil {
		return Result{}, err
	}

	s.logger.InfoContext(ctx, "user updated",
		logger.Component("users"),
		slog.String("user_id", id),
		logger.Role(u.Role),
	)
	return res, nil
}

// Delete removes the account with id.
func (s *Service) Delete(ctx context.Context, id string) (Result, error) {
	if id == "" {
		return Result{}, ErrMissingID
	}

	var res Result
	if err := s.api.Delete(ctx, "/users/"+url.PathEscape(id), apiclient.AuthRequired, &res); err != nil {
		return Result{}, err
	}

	s.logger.InfoContext(ctx, "user deleted", logger.Component("users"), slog.String("user_id", id))
	return res, nil
}

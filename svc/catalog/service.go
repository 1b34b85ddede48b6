package catalog

import (
	"context"
	"log/slog"
	"net/url"
	"slices"
	"time"

	"github.com/dmitrymomot/pharmakit/pkg/apiclient"
	"github.com/dmitrymomot/pharmakit/pkg/cache"
	"github.com/dmitrymomot/pharmakit/pkg/logger"
	"github.com/dmitrymomot/pharmakit/pkg/sanitizer"
)

// Service talks to the medicine endpoints.
type Service struct {
	api          *apiclient.Client
	logger       *slog.Logger
	results      *cache.Cache[string, []Medicine]
	suggestDelay time.Duration
}

// Option configures the Service.
type Option func(*Service)

// WithLogger sets the logger for catalog changes. Nil keeps slog.Default.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithConfig sizes the search cache and the suggestion delay.
func WithConfig(cfg Config) Option {
	return func(s *Service) {
		if cfg.CacheSize > 0 {
			s.results = cache.New[string, []Medicine](cfg.CacheSize, cfg.CacheTTL)
		}
		if cfg.SuggestDelay > 0 {
			s.suggestDelay = cfg.SuggestDelay
		}
	}
}

// NewService creates a catalog client on top of api. The search cache and
// suggestion delay come from WithConfig, or the Config defaults.
func NewService(api *apiclient.Client, opts ...Option) *Service {
	s := &Service{
		api:          api,
		logger:       slog.Default(),
		results:      cache.New[string, []Medicine](64, time.Minute),
		suggestDelay: DefaultSuggestDelay,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Search finds medicines by name. A blank query returns nothing without a call.
func (s *Service) Search(ctx context.Context, query string) ([]Medicine, error) {
	key := sanitizer.Key(query)
	if key == "" {
		return nil, nil
	}

	if hit, ok := s.results.Get(key); ok {
		return slices.Clone(hit), nil
	}

	var found []Medicine
	if err := s.api.Get(ctx, "/search", url.Values{"q": {sanitizer.Text(query)}}, apiclient.AuthNone, &found); err != nil {
		return nil, err
	}

	s.results.Put(key, found)
	return slices.Clone(found), nil
}

// List returns the full catalog, sending the bearer token when there is one.
func (s *Service) List(ctx context.Context) ([]Medicine, error) {
	var all []Medicine
	if err := s.api.Get(ctx, "/medicines", nil, apiclient.AuthOptional, &all); err != nil {
		return nil, err
	}
	return all, nil
}

// Create adds m and returns the stored medicine.
func (s *Service) Create(ctx context.Context, m Medicine) (Medicine, error) {
	if err := m.Validate(); err != nil {
		return Medicine{}, err
	}
	m.ID = ""

	var created Medicine
	if err := s.api.Post(ctx, "/medicines", m, apiclient.AuthRequired, &created); err != nil {
		return Medicine{}, err
	}

	s.invalidate(ctx, "created", created.ID)
	return created, nil
}

// Update replaces the medicine with m.ID.
func (s *Service) Update(ctx context.Context, m Medicine) (Medicine, error) {
	if m.ID == "" {
		return Medicine{}, ErrMissingID
	}
	if err := m.Validate(); err != nil {
		return Medicine{}, err
	}

	var updated Medicine
	if err := s.api.Put(ctx, "/medicines/"+url.PathEscape(m.ID), m, apiclient.AuthRequired, &updated); err != nil {
		return Medicine{}, err
	}

	s.invalidate(ctx, "updated", m.ID)
	return updated, nil
}

// Delete removes the medicine with id.
func (s *Service) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrMissingID
	}
	if err := s.api.Delete(ctx, "/medicines/"+url.PathEscape(id), apiclient.AuthRequired, nil); err != nil {
		return err
	}

	s.invalidate(ctx, "deleted", id)
	return nil
}

func (s *Service) invalidate(ctx context.Context, event, id string) {
	s.results.Clear()
	s.logger.InfoContext(ctx, "medicine "+event,
		logger.Component("catalog"),
		logger.ProductID(id),
	)
}

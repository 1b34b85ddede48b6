package orders

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dmitrymomot/pharmakit/pkg/apiclient"
	"github.com/dmitrymomot/pharmakit/pkg/logger"
)

// Service talks to the order and payment endpoints.
type Service struct {
	api    *apiclient.Client
	logger *slog.Logger
}

// Option configures the Service.
type Option func(*Service)

// WithLogger sets the logger for placed orders and payments. Nil keeps slog.Default.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewService creates an orders client on top of api.
func NewService(api *apiclient.Client, opts ...Option) *Service {
	s := &Service{api: api, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Place submits o. The bearer token is sent when there is one.
func (s *Service) Place(ctx context.Context, o Order) (Placed, error) {
	if len(o.Items) == 0 {
		return Placed{}, ErrEmptyOrder
	}
	if o.UserID == "" {
		return Placed{}, ErrMissingUser
	}

	var res Placed
	if err := s.api.Post(ctx, "/orders/place-order", o, apiclient.AuthOptional, &res); err != nil {
		return Placed{}, err
	}
	if !res.Success {
		return Placed{}, ErrOrderRejected
	}

	s.logger.InfoContext(ctx, "order placed",
		logger.Component("orders"),
		slog.String("order_id", res.OrderID),
		slog.Int("items", len(o.Items)),
		slog.Float64("total", o.TotalAmount),
	)
	return res, nil
}

// Mine lists the caller's orders, newest as returned by the backend.
func (s *Service) Mine(ctx context.Context) ([]PlacedOrder, error) {
	var list []PlacedOrder
	if err := s.api.Get(ctx, "/orders/my", nil, apiclient.AuthRequired, &list); err != nil {
		return nil, err
	}
	for i := range list {
		if list[i].Status == "" {
			list[i].Status = DefaultStatus
		}
	}
	return list, nil
}

// ConfirmPayment records the payment choice for an order.
func (s *Service) ConfirmPayment(ctx context.Context, p Payment) error {
	p.Method = strings.ToLower(strings.TrimSpace(p.Method))
	if !validMethod(p.Method) {
		return errors.Join(ErrInvalidPaymentMethod, fmt.Errorf("method %q", p.Method))
	}

	var res struct {
		Success bool `json:"success"`
	}
	if err := s.api.Post(ctx, "/payment/confirm", p, apiclient.AuthNone, &res); err != nil {
		return err
	}
	if !res.Success {
		return ErrPaymentDeclined
	}

	s.logger.InfoContext(ctx, "payment confirmed",
		logger.Component("orders"),
		slog.String("order_id", p.OrderID),
		slog.String("method", p.Method),
	)
	return nil
}

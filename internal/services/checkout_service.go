package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/oklog/ulid/v2"

	"github.com/promostore/storefront/internal/domain"
	"github.com/promostore/storefront/internal/payments"
	"github.com/promostore/storefront/internal/pricing"
)

const maxSessionIDLength = 255

var (
	// ErrCheckoutInvalidInput indicates the caller supplied invalid input parameters.
	ErrCheckoutInvalidInput = errors.New("checkout: invalid input")
	// ErrCheckoutUnavailable indicates checkout dependencies are not configured.
	ErrCheckoutUnavailable = errors.New("checkout: unavailable")
	// ErrCheckoutSessionNotFound indicates the provider has no such session.
	ErrCheckoutSessionNotFound = errors.New("checkout: session not found")
	// ErrCheckoutProviderFailure covers every other provider or network failure.
	ErrCheckoutProviderFailure = errors.New("checkout: provider failure")
)

// CheckoutServiceDeps wires the dependencies required by the checkout service.
type CheckoutServiceDeps struct {
	Payments     payments.Provider
	Currency     string
	Logger       func(ctx context.Context, event string, fields map[string]any)
	Metrics      CheckoutMetrics
	OrderNumbers func() string
}

type checkoutService struct {
	payments     payments.Provider
	currency     string
	logger       func(ctx context.Context, event string, fields map[string]any)
	metrics      CheckoutMetrics
	orderNumbers func() string
}

var _ CheckoutService = (*checkoutService)(nil)

// NewCheckoutService constructs a CheckoutService validating required dependencies.
func NewCheckoutService(deps CheckoutServiceDeps) (CheckoutService, error) {
	if deps.Payments == nil {
		return nil, errors.New("checkout service: payment provider is required")
	}
	currency := strings.ToLower(strings.TrimSpace(deps.Currency))
	if len(currency) != 3 {
		return nil, fmt.Errorf("checkout service: invalid currency %q", deps.Currency)
	}

	logger := deps.Logger
	if logger == nil {
		logger = func(context.Context, string, map[string]any) {}
	}
	metrics := deps.Metrics
	if metrics == nil {
		metrics = noopCheckoutMetrics{}
	}
	orderNumbers := deps.OrderNumbers
	if orderNumbers == nil {
		orderNumbers = func() string { return "ORD-" + ulid.Make().String() }
	}

	return &checkoutService{
		payments:     deps.Payments,
		currency:     currency,
		logger:       logger,
		metrics:      metrics,
		orderNumbers: orderNumbers,
	}, nil
}

// CreateCheckoutSession builds line items from the order and opens a payment
// session with the provider. No idempotency key is sent, so a client retry
// after a lost response creates a second session.
func (s *checkoutService) CreateCheckoutSession(ctx context.Context, cmd CreateCheckoutSessionCommand) (domain.CheckoutSession, error) {
	if s == nil || s.payments == nil {
		return domain.CheckoutSession{}, ErrCheckoutUnavailable
	}

	successURL := strings.TrimSpace(cmd.SuccessURL)
	cancelURL := strings.TrimSpace(cmd.CancelURL)
	if successURL == "" || cancelURL == "" {
		s.metrics.CheckoutSessionFailed("invalid_input")
		return domain.CheckoutSession{}, fmt.Errorf("%w: success and cancel urls are required", ErrCheckoutInvalidInput)
	}

	order := cmd.Order
	order.OrderNumber = strings.TrimSpace(order.OrderNumber)
	if order.OrderNumber == "" {
		order.OrderNumber = s.orderNumbers()
	}

	lines := pricing.BuildLineItems(order)
	if len(lines) == 0 {
		s.metrics.CheckoutSessionFailed("invalid_input")
		return domain.CheckoutSession{}, fmt.Errorf("%w: order has no chargeable lines", ErrCheckoutInvalidInput)
	}

	if rec := pricing.Reconcile(order, lines); !rec.Balanced() {
		s.logger(ctx, "checkout.reconciliation_warning", map[string]any{
			"orderNumber":    order.OrderNumber,
			"declaredTotal":  rec.DeclaredTotal,
			"computedTotal":  rec.ComputedTotal,
			"lineItemsTotal": rec.LineItemsTotal,
		})
	}

	customerEmail := strings.TrimSpace(order.Customer.Email)
	session, err := s.payments.CreateCheckoutSession(ctx, payments.CheckoutSessionRequest{
		Currency:      s.currency,
		CustomerEmail: customerEmail,
		LineItems:     lines,
		SuccessURL:    successURL,
		CancelURL:     cancelURL,
		Metadata: map[string]string{
			domain.MetadataOrderNumber:   order.OrderNumber,
			domain.MetadataCustomerName:  strings.TrimSpace(order.Customer.Name),
			domain.MetadataCustomerEmail: customerEmail,
		},
	})
	if err != nil {
		s.metrics.CheckoutSessionFailed("provider")
		s.logger(ctx, "checkout.session.create_failed", map[string]any{
			"orderNumber": order.OrderNumber,
			"lineItems":   len(lines),
			"error":       err,
		})
		return domain.CheckoutSession{}, fmt.Errorf("%w: %w", ErrCheckoutProviderFailure, err)
	}

	s.metrics.CheckoutSessionCreated()
	s.logger(ctx, "checkout.session.created", map[string]any{
		"orderNumber": order.OrderNumber,
		"sessionId":   session.ID,
		"lineItems":   len(lines),
	})
	return session, nil
}

// GetCheckoutSession looks up a session. A blank id fails before any provider call.
func (s *checkoutService) GetCheckoutSession(ctx context.Context, sessionID string) (domain.CheckoutSession, error) {
	if s == nil || s.payments == nil {
		return domain.CheckoutSession{}, ErrCheckoutUnavailable
	}

	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		s.metrics.CheckoutSessionRetrieved("invalid_input")
		return domain.CheckoutSession{}, fmt.Errorf("%w: session id is required", ErrCheckoutInvalidInput)
	}
	// No provider issues identifiers this long.
	if len(sessionID) > maxSessionIDLength {
		s.metrics.CheckoutSessionRetrieved("not_found")
		return domain.CheckoutSession{}, fmt.Errorf("%w: session id exceeds %d characters", ErrCheckoutSessionNotFound, maxSessionIDLength)
	}

	session, err := s.payments.RetrieveCheckoutSession(ctx, sessionID)
	switch {
	case err == nil:
		s.metrics.CheckoutSessionRetrieved("found")
		return session, nil
	case errors.Is(err, payments.ErrSessionNotFound):
		s.metrics.CheckoutSessionRetrieved("not_found")
		return domain.CheckoutSession{}, fmt.Errorf("%w: %w", ErrCheckoutSessionNotFound, err)
	default:
		s.metrics.CheckoutSessionRetrieved("error")
		s.logger(ctx, "checkout.session.retrieve_failed", map[string]any{
			"sessionId": sessionID,
			"error":     err,
		})
		return domain.CheckoutSession{}, fmt.Errorf("%w: %w", ErrCheckoutProviderFailure, err)
	}
}

type noopCheckoutMetrics struct{}

func (noopCheckoutMetrics) CheckoutSessionCreated()         {}
func (noopCheckoutMetrics) CheckoutSessionFailed(string)    {}
func (noopCheckoutMetrics) CheckoutSessionRetrieved(string) {}

package payments

import (
	"context"
	"errors"

	"github.com/promostore/storefront/internal/domain"
)

// ErrSessionNotFound is returned when the provider has no session with the requested id.
var ErrSessionNotFound = errors.New("payments: checkout session not found")

// Provider creates and retrieves hosted checkout sessions.
type Provider interface {
	CreateCheckoutSession(ctx context.Context, req CheckoutSessionRequest) (domain.CheckoutSession, error)
	RetrieveCheckoutSession(ctx context.Context, sessionID string) (domain.CheckoutSession, error)
}

// CheckoutSessionRequest carries everything the provider needs for a one-off
// card payment. Line item amounts are minor units of Currency.
type CheckoutSessionRequest struct {
	Currency      string
	CustomerEmail string
	LineItems     []domain.LineItem
	Metadata      map[string]string
	SuccessURL    string
	CancelURL     string
}

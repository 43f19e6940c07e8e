package services

import (
	"context"

	"github.com/promostore/storefront/internal/domain"
)

// CheckoutService creates and reads hosted checkout sessions.
type CheckoutService interface {
	CreateCheckoutSession(ctx context.Context, cmd CreateCheckoutSessionCommand) (domain.CheckoutSession, error)
	GetCheckoutSession(ctx context.Context, sessionID string) (domain.CheckoutSession, error)
}

// TeamService resolves staff from the team directory and serves directory
// reads. Privilege checks happen here, before any list query is issued.
type TeamService interface {
	Authorize(ctx context.Context, email string, required domain.StaffRole) (domain.TeamMember, error)
	ListTeamMembers(ctx context.Context, actor domain.TeamMember) ([]domain.TeamMember, error)
}

// CatalogService serves the static product table.
type CatalogService interface {
	ListProducts(ctx context.Context) []domain.Product
	GetProductPage(ctx context.Context, slug string) (ProductPage, error)
}

// SystemService reports process health.
type SystemService interface {
	HealthReport(ctx context.Context) (domain.SystemHealthReport, error)
}

// CreateCheckoutSessionCommand is the create request after decoding.
type CreateCheckoutSessionCommand struct {
	Order      domain.OrderData
	SuccessURL string
	CancelURL  string
}

// ProductPage is a product with its description rendered to sanitised HTML.
type ProductPage struct {
	Product         domain.Product
	DescriptionHTML string
}

// CheckoutMetrics receives checkout outcome counts.
type CheckoutMetrics interface {
	CheckoutSessionCreated()
	CheckoutSessionFailed(kind string)
	CheckoutSessionRetrieved(outcome string)
}

// DirectoryMetrics receives team directory read outcomes.
type DirectoryMetrics interface {
	DirectoryRead(outcome string)
}

package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/promostore/storefront/internal/domain"
)

// ErrProductNotFound is returned for slugs absent from the catalog table.
var ErrProductNotFound = errors.New("catalog: product not found")

// ProductSource is the read side of the catalog table.
type ProductSource interface {
	Products() []domain.Product
	Product(slug string) (domain.Product, bool)
}

// MarkdownRenderer converts product descriptions to sanitised HTML.
type MarkdownRenderer interface {
	Render(source string) (string, error)
}

type CatalogServiceDeps struct {
	Products ProductSource
	Renderer MarkdownRenderer
	Logger   func(ctx context.Context, event string, fields map[string]any)
}

type catalogService struct {
	products ProductSource
	renderer MarkdownRenderer
	logger   func(ctx context.Context, event string, fields map[string]any)
}

var _ CatalogService = (*catalogService)(nil)

func NewCatalogService(deps CatalogServiceDeps) (CatalogService, error) {
	if deps.Products == nil {
		return nil, errors.New("catalog service: product source is required")
	}
	if deps.Renderer == nil {
		return nil, errors.New("catalog service: markdown renderer is required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = func(context.Context, string, map[string]any) {}
	}
	return &catalogService{products: deps.Products, renderer: deps.Renderer, logger: logger}, nil
}

func (s *catalogService) ListProducts(context.Context) []domain.Product {
	return s.products.Products()
}

// GetProductPage looks the product up and renders its description. A render
// failure degrades to an empty description rather than failing the page.
func (s *catalogService) GetProductPage(ctx context.Context, slug string) (ProductPage, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return ProductPage{}, ErrProductNotFound
	}
	product, ok := s.products.Product(slug)
	if !ok {
		return ProductPage{}, fmt.Errorf("%w: %s", ErrProductNotFound, slug)
	}

	html, err := s.renderer.Render(product.Description)
	if err != nil {
		s.logger(ctx, "catalog.render_failed", map[string]any{"slug": product.Slug, "error": err})
		html = ""
	}
	return ProductPage{Product: product, DescriptionHTML: html}, nil
}

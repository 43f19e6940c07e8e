package handlers

import (
	"errors"
	"net/http"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/promostore/storefront/internal/domain"
	"github.com/promostore/storefront/internal/platform/httpx"
	"github.com/promostore/storefront/internal/platform/requestctx"
	"github.com/promostore/storefront/internal/services"
	"github.com/promostore/storefront/internal/views"
)

// ProductHandlers serves catalog pages and their JSON projections.
type ProductHandlers struct {
	catalog services.CatalogService
}

func NewProductHandlers(catalog services.CatalogService) *ProductHandlers {
	return &ProductHandlers{catalog: catalog}
}

// PageRoutes registers the HTML catalog under /products.
func (h *ProductHandlers) PageRoutes(r chi.Router) {
	r.Get("/", h.index)
	r.Get("/{slug}", h.page)
}

// APIRoutes registers the JSON projections under the public API prefix.
func (h *ProductHandlers) APIRoutes(r chi.Router) {
	r.Get("/products", h.listJSON)
	r.Get("/products/{slug}", h.getJSON)
}

func (h *ProductHandlers) index(w http.ResponseWriter, r *http.Request) {
	templ.Handler(views.ProductIndex(h.catalog.ListProducts(r.Context()))).ServeHTTP(w, r)
}

func (h *ProductHandlers) page(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	page, err := h.catalog.GetProductPage(ctx, chi.URLParam(r, "slug"))
	if err != nil {
		if !errors.Is(err, services.ErrProductNotFound) {
			requestctx.Logger(ctx).Error("product page failed", zap.Error(err))
		}
		templ.Handler(views.NotFound("We could not find that product."), templ.WithStatus(http.StatusNotFound)).ServeHTTP(w, r)
		return
	}
	templ.Handler(views.ProductDetail(page.Product, page.DescriptionHTML)).ServeHTTP(w, r)
}

type productListResponse struct {
	Items []productResponse `json:"items"`
}

type productResponse struct {
	domain.Product
	DescriptionHTML string `json:"descriptionHtml,omitempty"`
	URL             string `json:"url"`
}

func (h *ProductHandlers) listJSON(w http.ResponseWriter, r *http.Request) {
	products := h.catalog.ListProducts(r.Context())
	resp := productListResponse{Items: make([]productResponse, 0, len(products))}
	for _, product := range products {
		product.Description = ""
		resp.Items = append(resp.Items, productResponse{Product: product, URL: views.ProductPath(product.Slug)})
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}

func (h *ProductHandlers) getJSON(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	page, err := h.catalog.GetProductPage(ctx, chi.URLParam(r, "slug"))
	if err != nil {
		if errors.Is(err, services.ErrProductNotFound) {
			httpx.WriteError(ctx, w, httpx.NewError("product_not_found", "product not found", http.StatusNotFound))
			return
		}
		requestctx.Logger(ctx).Error("product lookup failed", zap.Error(err))
		httpx.WriteError(ctx, w, httpx.NewError("product_lookup_failed", "unable to load product", http.StatusInternalServerError))
		return
	}
	httpx.WriteJSON(w, http.StatusOK, productResponse{
		Product:         page.Product,
		DescriptionHTML: page.DescriptionHTML,
		URL:             views.ProductPath(page.Product.Slug),
	})
}

package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/promostore/storefront/internal/catalog"
	"github.com/promostore/storefront/internal/services"
	"github.com/promostore/storefront/internal/testutil"
)

func newProductRouter(t *testing.T) http.Handler {
	t.Helper()
	products, err := catalog.Default()
	require.NoError(t, err)
	svc, err := services.NewCatalogService(services.CatalogServiceDeps{
		Products: products,
		Renderer: catalog.NewRenderer(),
	})
	require.NoError(t, err)
	h := NewProductHandlers(svc)
	return NewRouter(
		WithStorefrontRoutes(h.PageRoutes),
		WithPublicRoutes(h.APIRoutes),
	)
}

func TestProductIndexPage(t *testing.T) {
	router := newProductRouter(t)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/products", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	doc := testutil.ParseRecorder(t, rr)
	require.Equal(t, 6, doc.Find("li.product-card").Length())
	require.Equal(t, 1, doc.Find(`li[data-slug="cotton-tote-bag"]`).Length())
}

func TestProductDetailPage(t *testing.T) {
	router := newProductRouter(t)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/products/branded-ceramic-mug", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	doc := testutil.ParseRecorder(t, rr)
	require.Equal(t, "Branded Ceramic Mug", doc.Find("article.product h1").Text())
	require.Equal(t, "11oz ceramic mug", doc.Find(".description strong").First().Text())
	require.Equal(t, 4, doc.Find("tr.pricing-tier").Length())
	require.Contains(t, doc.Find("tr.pricing-tier").First().Text(), "3.95")
	require.Equal(t, 3, doc.Find(".specifications tr").Length())
}

func TestProductDetailUnknownSlug(t *testing.T) {
	router := newProductRouter(t)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/products/flying-car", nil))

	require.Equal(t, http.StatusNotFound, rr.Code)
	doc := testutil.ParseRecorder(t, rr)
	require.Equal(t, 1, doc.Find(`[data-page="not-found"]`).Length())
}

func TestProductJSONProjections(t *testing.T) {
	router := newProductRouter(t)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/public/products", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))

	var list struct {
		Items []struct {
			Slug         string `json:"slug"`
			URL          string `json:"url"`
			Description  string `json:"description"`
			PricingTiers []struct {
				MinQuantity int64  `json:"minQuantity"`
				UnitPrice   string `json:"unitPrice"`
			} `json:"pricingTiers"`
		} `json:"items"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &list))
	require.Len(t, list.Items, 6)
	for _, item := range list.Items {
		require.Equal(t, "/products/"+item.Slug, item.URL)
		require.Empty(t, item.Description)
		require.NotEmpty(t, item.PricingTiers)
	}

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/public/products/recycled-ballpen", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	var product map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &product))
	require.Equal(t, "Recycled Ballpen", product["name"])
	require.Contains(t, product["descriptionHtml"], "<strong>recycled plastic</strong>")

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/public/products/flying-car", nil))
	require.Equal(t, http.StatusNotFound, rr.Code)
}

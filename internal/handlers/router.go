package handlers

import (
	"net/http"
	"time"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/promostore/storefront/internal/platform/httpx"
	"github.com/promostore/storefront/internal/views"
)

// RouteRegistrar registers a set of routes against the provided router.
type RouteRegistrar func(r chi.Router)

type routerConfig struct {
	apiPrefix   string
	middlewares []func(http.Handler) http.Handler
	health      *HealthHandlers
	cors        httpx.CORSOptions

	checkout   RouteRegistrar
	publicAPI  RouteRegistrar
	storefront RouteRegistrar

	adminPath string
	admin     RouteRegistrar

	metricsPath string
	metrics     http.Handler
}

// Option customises the router configuration before construction.
type Option func(*routerConfig)

const (
	defaultAPIPrefix  = "/api/v1"
	defaultTimeout    = 60 * time.Second
	errorNotFoundCode = "route_not_found"
)

// NewRouter constructs the chi router with shared middleware and the API,
// storefront and admin route groups. CORS applies to the API group only.
func NewRouter(opts ...Option) chi.Router {
	cfg := routerConfig{
		apiPrefix: defaultAPIPrefix,
		adminPath: defaultAdminBasePath,
		middlewares: []func(http.Handler) http.Handler{
			middleware.RequestID,
			middleware.RealIP,
			middleware.Timeout(defaultTimeout),
		},
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	r := chi.NewRouter()

	if cfg.health == nil {
		cfg.health = NewHealthHandlers()
	}

	for _, mw := range cfg.middlewares {
		if mw != nil {
			r.Use(mw)
		}
	}

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		httpx.WriteError(req.Context(), w, httpx.NewError(errorNotFoundCode, "no route for "+req.URL.Path, http.StatusNotFound))
	})

	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		httpx.WriteError(req.Context(), w, httpx.NewError("method_not_allowed", "method "+req.Method+" not allowed on "+req.URL.Path, http.StatusMethodNotAllowed))
	})

	r.Get("/healthz", cfg.health.Healthz)
	r.Get("/readyz", cfg.health.Readyz)
	if cfg.metrics != nil && cfg.metricsPath != "" {
		r.Method(http.MethodGet, cfg.metricsPath, cfg.metrics)
	}

	r.Route(cfg.apiPrefix, func(api chi.Router) {
		api.Use(httpx.CORS(cfg.cors))

		if cfg.checkout != nil {
			cfg.checkout(api)
		} else {
			registerUnavailableRoute(api, "/checkout/session", "checkout_unavailable", "checkout service unavailable")
		}
		if cfg.publicAPI != nil {
			api.Route("/public", cfg.publicAPI)
		}
	})

	if cfg.storefront != nil {
		r.Route("/products", func(pages chi.Router) {
			pages.NotFound(pageNotFound)
			cfg.storefront(pages)
		})
	}

	if cfg.admin != nil {
		r.Route(cfg.adminPath, cfg.admin)
	}

	return r
}

// WithMiddlewares appends additional global middleware to the router.
func WithMiddlewares(mw ...func(http.Handler) http.Handler) Option {
	return func(cfg *routerConfig) {
		cfg.middlewares = append(cfg.middlewares, mw...)
	}
}

// WithHealthHandlers overrides the handlers used for /healthz and /readyz endpoints.
func WithHealthHandlers(h *HealthHandlers) Option {
	return func(cfg *routerConfig) {
		cfg.health = h
	}
}

// WithCORS configures the CORS policy of the API group.
func WithCORS(opts httpx.CORSOptions) Option {
	return func(cfg *routerConfig) {
		cfg.cors = opts
	}
}

// WithCheckoutRoutes configures the registrar responsible for checkout endpoints.
func WithCheckoutRoutes(reg RouteRegistrar) Option {
	return func(cfg *routerConfig) {
		cfg.checkout = reg
	}
}

// WithPublicRoutes configures the registrar for the public JSON API.
func WithPublicRoutes(reg RouteRegistrar) Option {
	return func(cfg *routerConfig) {
		cfg.publicAPI = reg
	}
}

// WithStorefrontRoutes configures the HTML catalog mounted at /products.
func WithStorefrontRoutes(reg RouteRegistrar) Option {
	return func(cfg *routerConfig) {
		cfg.storefront = reg
	}
}

// WithAdminRoutes mounts the admin area at basePath.
func WithAdminRoutes(basePath string, reg RouteRegistrar) Option {
	return func(cfg *routerConfig) {
		if basePath != "" {
			cfg.adminPath = basePath
		}
		cfg.admin = reg
	}
}

// WithMetricsHandler exposes the Prometheus handler at path.
func WithMetricsHandler(path string, h http.Handler) Option {
	return func(cfg *routerConfig) {
		cfg.metricsPath = path
		cfg.metrics = h
	}
}

func registerUnavailableRoute(r chi.Router, path, code, message string) {
	handler := func(w http.ResponseWriter, req *http.Request) {
		httpx.WriteError(req.Context(), w, httpx.NewError(code, message, http.StatusServiceUnavailable))
	}
	r.Get(path, handler)
	r.Post(path, handler)
}

func pageNotFound(w http.ResponseWriter, r *http.Request) {
	templ.Handler(views.NotFound("The page you were looking for does not exist."),
		templ.WithStatus(http.StatusNotFound)).ServeHTTP(w, r)
}

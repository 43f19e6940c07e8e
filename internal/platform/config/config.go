package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultEnvFile          = ".env"
	defaultPort             = "8080"
	defaultReadTimeout      = 15 * time.Second
	defaultWriteTimeout     = 30 * time.Second
	defaultIdleTimeout      = 120 * time.Second
	defaultShutdownTimeout  = 10 * time.Second
	defaultCheckoutCurrency = "gbp"
	defaultJWTAudience      = "authenticated"
	defaultAdminBasePath    = "/admin"
	defaultEnvironment      = "local"
	defaultLogLevel         = "info"
	defaultDBMaxConns       = 4
)

// Config captures all runtime configuration organised by concern.
type Config struct {
	Server   ServerConfig
	Checkout CheckoutConfig
	Supabase SupabaseConfig
	CORS     CORSConfig
	Admin    AdminConfig
	Metrics  MetricsConfig
	Build    BuildConfig
	LogLevel string
}

type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// CheckoutConfig holds the payment provider credential and the charge currency.
type CheckoutConfig struct {
	StripeSecretKey string
	Currency        string
}

// SupabaseConfig points at the project's Postgres database and the secret
// used to sign its access tokens.
type SupabaseConfig struct {
	DatabaseURL  string
	JWTSecret    string
	JWTAudience  string
	MaxDBConns   int
	QueryTimeout time.Duration
}

// Enabled reports whether the admin store is configured.
func (c SupabaseConfig) Enabled() bool {
	return strings.TrimSpace(c.DatabaseURL) != ""
}

type CORSConfig struct {
	AllowedOrigins []string
	MaxAge         time.Duration
}

type AdminConfig struct {
	BasePath string
}

type MetricsConfig struct {
	Enabled bool
	Path    string
}

type BuildConfig struct {
	Version     string
	CommitSHA   string
	Environment string
}

// ValidationError is returned when required configuration fields are missing or invalid.
type ValidationError struct {
	fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation failed: missing or invalid fields [%s]", strings.Join(e.fields, ", "))
}

// Fields returns a copy of the missing/invalid field list.
func (e *ValidationError) Fields() []string {
	out := make([]string, len(e.fields))
	copy(out, e.fields)
	return out
}

// Option customises Load behaviour.
type Option func(*loaderOptions)

type loaderOptions struct {
	envFile      string
	envMap       map[string]string
	useSystemEnv bool
}

// WithEnvFile overrides the .env file path. An empty path disables dotenv loading.
func WithEnvFile(path string) Option {
	return func(o *loaderOptions) {
		o.envFile = path
	}
}

// WithEnvMap injects explicit values that take precedence over every other source.
func WithEnvMap(values map[string]string) Option {
	return func(o *loaderOptions) {
		o.envMap = values
	}
}

// WithoutSystemEnv disables reading the process environment.
func WithoutSystemEnv() Option {
	return func(o *loaderOptions) {
		o.useSystemEnv = false
	}
}

// Load assembles configuration from defaults, the .env file, the process
// environment and explicit overrides, in increasing order of precedence.
func Load(_ context.Context, opts ...Option) (Config, error) {
	options := loaderOptions{
		envFile:      defaultEnvFile,
		useSystemEnv: true,
	}
	for _, opt := range opts {
		opt(&options)
	}

	dotEnvValues, err := loadDotEnv(options.envFile)
	if err != nil {
		return Config{}, err
	}

	lookup := func(key string) (string, bool) {
		if value, ok := options.envMap[key]; ok {
			return value, true
		}
		if options.useSystemEnv {
			if value, ok := os.LookupEnv(key); ok {
				return value, true
			}
		}
		if value, ok := dotEnvValues[key]; ok {
			return value, true
		}
		return "", false
	}

	stripeKey := stringWithDefault(lookup, "STOREFRONT_STRIPE_SECRET_KEY", "")
	if stripeKey == "" {
		stripeKey = stringWithDefault(lookup, "STRIPE_SECRET_KEY", "")
	}

	cfg := Config{
		Server: ServerConfig{
			Port:            stringWithDefault(lookup, "STOREFRONT_SERVER_PORT", stringWithDefault(lookup, "PORT", defaultPort)),
			ReadTimeout:     durationWithDefault(lookup, "STOREFRONT_SERVER_READ_TIMEOUT", defaultReadTimeout),
			WriteTimeout:    durationWithDefault(lookup, "STOREFRONT_SERVER_WRITE_TIMEOUT", defaultWriteTimeout),
			IdleTimeout:     durationWithDefault(lookup, "STOREFRONT_SERVER_IDLE_TIMEOUT", defaultIdleTimeout),
			ShutdownTimeout: durationWithDefault(lookup, "STOREFRONT_SERVER_SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
		},
		Checkout: CheckoutConfig{
			StripeSecretKey: stripeKey,
			Currency:        strings.ToLower(stringWithDefault(lookup, "STOREFRONT_CHECKOUT_CURRENCY", defaultCheckoutCurrency)),
		},
		Supabase: SupabaseConfig{
			DatabaseURL:  stringWithDefault(lookup, "STOREFRONT_SUPABASE_DB_URL", ""),
			JWTSecret:    stringWithDefault(lookup, "STOREFRONT_SUPABASE_JWT_SECRET", ""),
			JWTAudience:  stringWithDefault(lookup, "STOREFRONT_SUPABASE_JWT_AUDIENCE", defaultJWTAudience),
			MaxDBConns:   intWithDefault(lookup, "STOREFRONT_SUPABASE_DB_MAX_CONNS", defaultDBMaxConns),
			QueryTimeout: durationWithDefault(lookup, "STOREFRONT_SUPABASE_QUERY_TIMEOUT", 5*time.Second),
		},
		CORS: CORSConfig{
			AllowedOrigins: csvWithDefault(lookup, "STOREFRONT_CORS_ALLOWED_ORIGINS", []string{"*"}),
			MaxAge:         durationWithDefault(lookup, "STOREFRONT_CORS_MAX_AGE", 10*time.Minute),
		},
		Admin: AdminConfig{
			BasePath: normaliseBasePath(stringWithDefault(lookup, "STOREFRONT_ADMIN_BASE_PATH", defaultAdminBasePath)),
		},
		Metrics: MetricsConfig{
			Enabled: boolWithDefault(lookup, "STOREFRONT_METRICS_ENABLED", true),
			Path:    stringWithDefault(lookup, "STOREFRONT_METRICS_PATH", "/metrics"),
		},
		Build: BuildConfig{
			Version:     stringWithDefault(lookup, "STOREFRONT_BUILD_VERSION", "dev"),
			CommitSHA:   stringWithDefault(lookup, "STOREFRONT_BUILD_COMMIT_SHA", ""),
			Environment: strings.ToLower(stringWithDefault(lookup, "STOREFRONT_ENVIRONMENT", defaultEnvironment)),
		},
		LogLevel: stringWithDefault(lookup, "STOREFRONT_LOG_LEVEL", stringWithDefault(lookup, "LOG_LEVEL", defaultLogLevel)),
	}

	if err := validateConfig(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func validateConfig(cfg Config) error {
	var missing []string

	if cfg.Server.Port == "" {
		missing = append(missing, "Server.Port")
	} else if port, err := strconv.Atoi(cfg.Server.Port); err != nil || port <= 0 || port > 65535 {
		missing = append(missing, "Server.Port")
	}
	if cfg.Checkout.StripeSecretKey == "" {
		missing = append(missing, "Checkout.StripeSecretKey")
	}
	if len(cfg.Checkout.Currency) != 3 {
		missing = append(missing, "Checkout.Currency")
	}
	if cfg.Supabase.Enabled() {
		if cfg.Supabase.JWTSecret == "" {
			missing = append(missing, "Supabase.JWTSecret")
		}
		if cfg.Supabase.MaxDBConns <= 0 {
			missing = append(missing, "Supabase.MaxDBConns")
		}
	}

	if len(missing) > 0 {
		return &ValidationError{fields: missing}
	}
	return nil
}

func loadDotEnv(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}
	values, err := godotenv.Read(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: unable to read %s: %w", path, err)
	}
	return values, nil
}

func normaliseBasePath(path string) string {
	path = "/" + strings.Trim(strings.TrimSpace(path), "/")
	if path == "/" {
		return defaultAdminBasePath
	}
	return path
}

func stringWithDefault(lookup func(string) (string, bool), key, fallback string) string {
	if value, ok := lookup(key); ok && strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	return fallback
}

func durationWithDefault(lookup func(string) (string, bool), key string, fallback time.Duration) time.Duration {
	if value, ok := lookup(key); ok && value != "" {
		if d, err := time.ParseDuration(strings.TrimSpace(value)); err == nil {
			return d
		}
	}
	return fallback
}

func intWithDefault(lookup func(string) (string, bool), key string, fallback int) int {
	if value, ok := lookup(key); ok && value != "" {
		if v, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
			return v
		}
	}
	return fallback
}

func boolWithDefault(lookup func(string) (string, bool), key string, fallback bool) bool {
	if value, ok := lookup(key); ok && value != "" {
		if v, err := strconv.ParseBool(strings.TrimSpace(value)); err == nil {
			return v
		}
	}
	return fallback
}

func csvWithDefault(lookup func(string) (string, bool), key string, fallback []string) []string {
	raw, ok := lookup(key)
	if !ok || strings.TrimSpace(raw) == "" {
		return append([]string(nil), fallback...)
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

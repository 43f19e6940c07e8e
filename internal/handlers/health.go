package handlers

import (
	"net/http"
	"time"

	"github.com/promostore/storefront/internal/domain"
	"github.com/promostore/storefront/internal/platform/httpx"
	"github.com/promostore/storefront/internal/platform/requestctx"
	"github.com/promostore/storefront/internal/services"

	"go.uber.org/zap"
)

// HealthHandlers serves liveness and readiness probes.
type HealthHandlers struct {
	system    services.SystemService
	now       func() time.Time
	startedAt time.Time
}

type HealthOption func(*HealthHandlers)

// WithHealthSystemService wires the readiness report source.
func WithHealthSystemService(system services.SystemService) HealthOption {
	return func(h *HealthHandlers) {
		h.system = system
	}
}

func WithHealthClock(clock func() time.Time) HealthOption {
	return func(h *HealthHandlers) {
		if clock != nil {
			h.now = clock
		}
	}
}

func NewHealthHandlers(opts ...HealthOption) *HealthHandlers {
	h := &HealthHandlers{now: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(h)
		}
	}
	h.startedAt = h.now()
	return h
}

type healthResponse struct {
	Status    string                         `json:"status"`
	Uptime    string                         `json:"uptime,omitempty"`
	Version   string                         `json:"version,omitempty"`
	CommitSHA string                         `json:"commitSha,omitempty"`
	Timestamp string                         `json:"timestamp"`
	Checks    map[string]healthCheckResponse `json:"checks,omitempty"`
}

type healthCheckResponse struct {
	Status    string `json:"status"`
	LatencyMS int64  `json:"latencyMs"`
}

// Healthz reports that the process is serving.
func (h *HealthHandlers) Healthz(w http.ResponseWriter, _ *http.Request) {
	now := h.now()
	httpx.WriteJSON(w, http.StatusOK, healthResponse{
		Status:    domain.HealthStatusOK,
		Uptime:    now.Sub(h.startedAt).Round(time.Second).String(),
		Timestamp: now.UTC().Format(time.RFC3339),
	})
}

// Readyz runs the dependency checks. Degraded dependencies still answer 200;
// only an error status takes the instance out of rotation.
func (h *HealthHandlers) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.system == nil {
		h.Healthz(w, r)
		return
	}

	report, err := h.system.HealthReport(ctx)
	if err != nil {
		requestctx.Logger(ctx).Error("readiness report failed", zap.Error(err))
		httpx.WriteError(ctx, w, httpx.NewError("health_unavailable", "readiness report unavailable", http.StatusServiceUnavailable))
		return
	}

	resp := healthResponse{
		Status:    report.Status,
		Uptime:    report.Uptime.Round(time.Second).String(),
		Version:   report.Version,
		CommitSHA: report.CommitSHA,
		Timestamp: report.GeneratedAt.UTC().Format(time.RFC3339),
		Checks:    make(map[string]healthCheckResponse, len(report.Checks)),
	}
	for name, check := range report.Checks {
		if check.Error != "" {
			requestctx.Logger(ctx).Warn("dependency check failed",
				zap.String("check", name),
				zap.String("status", check.Status),
				zap.String("error", check.Error),
			)
		}
		resp.Checks[name] = healthCheckResponse{
			Status:    check.Status,
			LatencyMS: check.Latency.Milliseconds(),
		}
	}

	status := http.StatusOK
	if report.Status == domain.HealthStatusError {
		status = http.StatusServiceUnavailable
	}
	httpx.WriteJSON(w, status, resp)
}

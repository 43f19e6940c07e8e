package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/promostore/storefront/internal/domain"
	"github.com/promostore/storefront/internal/platform/httpx"
	"github.com/promostore/storefront/internal/services"
)

const maxCheckoutRequestBody = 64 * 1024

// CheckoutHandlers exposes the hosted checkout session endpoints.
type CheckoutHandlers struct {
	checkout services.CheckoutService
}

func NewCheckoutHandlers(checkout services.CheckoutService) *CheckoutHandlers {
	return &CheckoutHandlers{checkout: checkout}
}

// Routes registers checkout endpoints under the provided router. Methods other
// than GET and POST fall through to the router's 405 handler.
func (h *CheckoutHandlers) Routes(r chi.Router) {
	if r == nil {
		return
	}
	r.Post("/checkout/session", h.createSession)
	r.Get("/checkout/session", h.getSession)
}

type createSessionRequest struct {
	OrderData  domain.OrderData `json:"orderData"`
	SuccessURL string           `json:"successUrl"`
	CancelURL  string           `json:"cancelUrl"`
}

type createSessionResponse struct {
	SessionID string `json:"sessionId"`
	URL       string `json:"url"`
}

type sessionResponse struct {
	SessionID     string            `json:"sessionId"`
	Status        string            `json:"status"`
	SessionStatus string            `json:"sessionStatus,omitempty"`
	CustomerEmail string            `json:"customerEmail"`
	AmountTotal   int64             `json:"amountTotal"`
	Currency      string            `json:"currency"`
	Metadata      map[string]string `json:"metadata"`
}

func (h *CheckoutHandlers) createSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if h.checkout == nil {
		httpx.WriteError(ctx, w, httpx.NewError("checkout_unavailable", "checkout service unavailable", http.StatusServiceUnavailable))
		return
	}

	body, err := readLimitedBody(r, maxCheckoutRequestBody)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, errBodyTooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", bodyErrorMessage(err), status))
		return
	}

	var req createSessionRequest
	if err := json.Unmarshal(body, &req); err != nil {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "request body must be valid JSON", http.StatusBadRequest))
		return
	}

	session, err := h.checkout.CreateCheckoutSession(ctx, services.CreateCheckoutSessionCommand{
		Order:      req.OrderData,
		SuccessURL: strings.TrimSpace(req.SuccessURL),
		CancelURL:  strings.TrimSpace(req.CancelURL),
	})
	if err != nil {
		writeCheckoutError(ctx, w, err, "checkout_session_failed", "unable to create checkout session")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, createSessionResponse{SessionID: session.ID, URL: session.URL})
}

func (h *CheckoutHandlers) getSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sessionID := strings.TrimSpace(r.URL.Query().Get("sessionId"))
	if sessionID == "" {
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "sessionId is required", http.StatusBadRequest))
		return
	}
	if h.checkout == nil {
		httpx.WriteError(ctx, w, httpx.NewError("checkout_unavailable", "checkout service unavailable", http.StatusServiceUnavailable))
		return
	}

	session, err := h.checkout.GetCheckoutSession(ctx, sessionID)
	if err != nil {
		writeCheckoutError(ctx, w, err, "checkout_session_retrieve_failed", "unable to retrieve checkout session")
		return
	}

	metadata := session.Metadata
	if metadata == nil {
		metadata = map[string]string{}
	}
	httpx.WriteJSON(w, http.StatusOK, sessionResponse{
		SessionID:     session.ID,
		Status:        session.Status,
		SessionStatus: session.SessionStatus,
		CustomerEmail: session.CustomerEmail,
		AmountTotal:   session.AmountTotal,
		Currency:      session.Currency,
		Metadata:      metadata,
	})
}

// writeCheckoutError maps service errors to static client messages. The
// underlying error has already been logged by the service.
func writeCheckoutError(ctx context.Context, w http.ResponseWriter, err error, failureCode, failureMessage string) {
	switch {
	case errors.Is(err, services.ErrCheckoutInvalidInput):
		httpx.WriteError(ctx, w, httpx.NewError("invalid_request", "checkout request is missing required fields", http.StatusBadRequest))
	case errors.Is(err, services.ErrCheckoutSessionNotFound):
		httpx.WriteError(ctx, w, httpx.NewError("checkout_session_not_found", "checkout session not found", http.StatusNotFound))
	case errors.Is(err, services.ErrCheckoutUnavailable):
		httpx.WriteError(ctx, w, httpx.NewError("checkout_unavailable", "checkout service unavailable", http.StatusServiceUnavailable))
	default:
		httpx.WriteError(ctx, w, httpx.NewError(failureCode, failureMessage, http.StatusInternalServerError))
	}
}

func bodyErrorMessage(err error) string {
	switch {
	case errors.Is(err, errBodyTooLarge):
		return "request body too large"
	case errors.Is(err, errEmptyBody):
		return "request body is required"
	default:
		return "request body could not be read"
	}
}

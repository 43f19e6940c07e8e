package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/promostore/storefront/internal/domain"
	"github.com/promostore/storefront/internal/payments"
	"github.com/promostore/storefront/internal/services"
)

func newCheckoutRouter(t *testing.T, provider payments.Provider) chi.Router {
	t.Helper()
	svc, err := services.NewCheckoutService(services.CheckoutServiceDeps{
		Payments:     provider,
		Currency:     "gbp",
		OrderNumbers: func() string { return "ORD-TEST" },
	})
	if err != nil {
		t.Fatalf("NewCheckoutService: %v", err)
	}
	router := chi.NewRouter()
	NewCheckoutHandlers(svc).Routes(router)
	return router
}

type errorEnvelope struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) errorEnvelope {
	t.Helper()
	var env errorEnvelope
	if err := json.Unmarshal(rr.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode error envelope: %v (body %q)", err, rr.Body.String())
	}
	return env
}

const createPayload = `{
	"orderData": {
		"customer": {"name": "Jo Bloggs", "email": "jo@example.com"},
		"items": [{"name": "Mug", "price": 10.00, "quantity": 2}],
		"subtotal": 20.00,
		"shipping": 2.50,
		"vat": 2.50,
		"total": 25.00
	},
	"successUrl": "https://shop.example/success",
	"cancelUrl": "https://shop.example/cancel"
}`

func TestCheckoutCreateSessionBuildsLineItems(t *testing.T) {
	var captured payments.CheckoutSessionRequest
	provider := &stubProvider{
		createFunc: func(_ context.Context, req payments.CheckoutSessionRequest) (domain.CheckoutSession, error) {
			captured = req
			return domain.CheckoutSession{ID: "cs_test_1", URL: "https://checkout.stripe.test/cs_test_1"}, nil
		},
	}
	router := newCheckoutRouter(t, provider)

	req := httptest.NewRequest(http.MethodPost, "/checkout/session", strings.NewReader(createPayload))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var resp createSessionResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.SessionID != "cs_test_1" || resp.URL != "https://checkout.stripe.test/cs_test_1" {
		t.Fatalf("unexpected response %+v", resp)
	}

	want := []struct {
		name     string
		amount   int64
		quantity int64
	}{
		{"Mug", 1000, 2},
		{"Shipping", 250, 1},
		{"VAT", 250, 1},
	}
	if len(captured.LineItems) != len(want) {
		t.Fatalf("expected %d line items, got %+v", len(want), captured.LineItems)
	}
	for i, w := range want {
		got := captured.LineItems[i]
		if got.Name != w.name || got.UnitAmount != w.amount || got.Quantity != w.quantity {
			t.Fatalf("line %d: expected %+v, got %+v", i, w, got)
		}
	}
	if captured.CustomerEmail != "jo@example.com" {
		t.Fatalf("unexpected customer email %q", captured.CustomerEmail)
	}
	if captured.Metadata[domain.MetadataOrderNumber] != "ORD-TEST" || captured.Metadata[domain.MetadataCustomerName] != "Jo Bloggs" {
		t.Fatalf("unexpected metadata %#v", captured.Metadata)
	}
	if captured.SuccessURL != "https://shop.example/success" || captured.CancelURL != "https://shop.example/cancel" {
		t.Fatalf("unexpected redirect urls %q %q", captured.SuccessURL, captured.CancelURL)
	}
}

func TestCheckoutCreateSessionProviderFailureIsStatic(t *testing.T) {
	provider := &stubProvider{
		createFunc: func(context.Context, payments.CheckoutSessionRequest) (domain.CheckoutSession, error) {
			return domain.CheckoutSession{}, errors.New("Invalid API Key provided: sk_live_****1234")
		},
	}
	router := newCheckoutRouter(t, provider)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/checkout/session", strings.NewReader(createPayload)))

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", rr.Code)
	}
	env := decodeError(t, rr)
	if env.Error != "checkout_session_failed" || env.Message != "unable to create checkout session" {
		t.Fatalf("unexpected envelope %+v", env)
	}
	if strings.Contains(rr.Body.String(), "sk_live") {
		t.Fatalf("provider error leaked to client: %s", rr.Body.String())
	}
}

func TestCheckoutCreateSessionRejectsBadBodies(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		status int
	}{
		{name: "empty", body: "", status: http.StatusBadRequest},
		{name: "invalid json", body: "{", status: http.StatusBadRequest},
		{name: "missing urls", body: `{"orderData":{"items":[{"name":"Mug","price":1,"quantity":1}]}}`, status: http.StatusBadRequest},
		{name: "no lines", body: `{"orderData":{"items":[]},"successUrl":"https://a","cancelUrl":"https://b"}`, status: http.StatusBadRequest},
		{name: "too large", body: `{"pad":"` + strings.Repeat("x", maxCheckoutRequestBody) + `"}`, status: http.StatusRequestEntityTooLarge},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			provider := &stubProvider{}
			router := newCheckoutRouter(t, provider)

			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/checkout/session", strings.NewReader(tc.body)))

			if rr.Code != tc.status {
				t.Fatalf("expected status %d, got %d: %s", tc.status, rr.Code, rr.Body.String())
			}
			if provider.createCalls != 0 {
				t.Fatalf("expected no provider calls, got %d", provider.createCalls)
			}
		})
	}
}

func TestCheckoutGetSessionMissingIDSkipsProvider(t *testing.T) {
	provider := &stubProvider{}
	router := newCheckoutRouter(t, provider)

	for _, target := range []string{"/checkout/session", "/checkout/session?sessionId=", "/checkout/session?sessionId=%20"} {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, target, nil))

		if rr.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected status 400, got %d", target, rr.Code)
		}
	}
	if provider.retrieveCalls != 0 {
		t.Fatalf("expected zero provider calls, got %d", provider.retrieveCalls)
	}
}

func TestCheckoutGetSessionUnknownIDReturns404(t *testing.T) {
	provider := &stubProvider{
		retrieveFunc: func(context.Context, string) (domain.CheckoutSession, error) {
			return domain.CheckoutSession{}, errors.Join(payments.ErrSessionNotFound, errors.New("No such checkout.session"))
		},
	}
	router := newCheckoutRouter(t, provider)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/checkout/session?sessionId=cs_missing", nil))

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rr.Code)
	}
	if env := decodeError(t, rr); env.Error != "checkout_session_not_found" {
		t.Fatalf("unexpected envelope %+v", env)
	}
}

func TestCheckoutGetSessionOverlongIDReturns404(t *testing.T) {
	provider := &stubProvider{
		retrieveFunc: func(context.Context, string) (domain.CheckoutSession, error) {
			return domain.CheckoutSession{}, payments.ErrSessionNotFound
		},
	}
	router := newCheckoutRouter(t, provider)

	rr := httptest.NewRecorder()
	target := "/checkout/session?sessionId=cs_test_" + strings.Repeat("a", 300)
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, target, nil))

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d (%s)", rr.Code, rr.Body.String())
	}
	if env := decodeError(t, rr); env.Error != "checkout_session_not_found" {
		t.Fatalf("unexpected envelope %+v", env)
	}
	if provider.retrieveCalls != 0 {
		t.Fatalf("expected zero provider calls, got %d", provider.retrieveCalls)
	}
}

func TestCheckoutGetSessionProviderFailure(t *testing.T) {
	provider := &stubProvider{
		retrieveFunc: func(context.Context, string) (domain.CheckoutSession, error) {
			return domain.CheckoutSession{}, errors.New("connection reset by peer")
		},
	}
	router := newCheckoutRouter(t, provider)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/checkout/session?sessionId=cs_1", nil))

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", rr.Code)
	}
	if strings.Contains(rr.Body.String(), "connection reset") {
		t.Fatalf("provider error leaked to client: %s", rr.Body.String())
	}
}

func TestCheckoutGetSessionProjection(t *testing.T) {
	provider := &stubProvider{
		retrieveFunc: func(_ context.Context, id string) (domain.CheckoutSession, error) {
			return domain.CheckoutSession{
				ID:            id,
				Status:        "paid",
				SessionStatus: "complete",
				CustomerEmail: "jo@example.com",
				AmountTotal:   2500,
				Currency:      "gbp",
				Metadata:      map[string]string{domain.MetadataOrderNumber: "ORD-1"},
			}, nil
		},
	}
	router := newCheckoutRouter(t, provider)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/checkout/session?sessionId=cs_1", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	var resp map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp["sessionId"] != "cs_1" || resp["status"] != "paid" || resp["customerEmail"] != "jo@example.com" {
		t.Fatalf("unexpected projection %#v", resp)
	}
	if resp["amountTotal"] != float64(2500) || resp["currency"] != "gbp" {
		t.Fatalf("unexpected amount %#v", resp)
	}
	metadata, _ := resp["metadata"].(map[string]any)
	if metadata["orderNumber"] != "ORD-1" {
		t.Fatalf("unexpected metadata %#v", resp["metadata"])
	}
}

func TestCheckoutHandlersWithoutServiceAreUnavailable(t *testing.T) {
	router := chi.NewRouter()
	NewCheckoutHandlers(nil).Routes(router)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/checkout/session?sessionId=cs_1", nil))
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected status 503, got %d", rr.Code)
	}
}

package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v78"

	"github.com/promostore/storefront/internal/domain"
	"github.com/promostore/storefront/internal/payments"
)

type stubPaymentProvider struct {
	createFunc   func(ctx context.Context, req payments.CheckoutSessionRequest) (domain.CheckoutSession, error)
	retrieveFunc func(ctx context.Context, id string) (domain.CheckoutSession, error)

	createCalls   int
	retrieveCalls int
}

func (s *stubPaymentProvider) CreateCheckoutSession(ctx context.Context, req payments.CheckoutSessionRequest) (domain.CheckoutSession, error) {
	s.createCalls++
	if s.createFunc == nil {
		return domain.CheckoutSession{}, errors.New("not implemented")
	}
	return s.createFunc(ctx, req)
}

func (s *stubPaymentProvider) RetrieveCheckoutSession(ctx context.Context, id string) (domain.CheckoutSession, error) {
	s.retrieveCalls++
	if s.retrieveFunc == nil {
		return domain.CheckoutSession{}, errors.New("not implemented")
	}
	return s.retrieveFunc(ctx, id)
}

type recordingCheckoutMetrics struct {
	created   int
	failed    []string
	retrieved []string
}

func (m *recordingCheckoutMetrics) CheckoutSessionCreated()           { m.created++ }
func (m *recordingCheckoutMetrics) CheckoutSessionFailed(kind string) { m.failed = append(m.failed, kind) }
func (m *recordingCheckoutMetrics) CheckoutSessionRetrieved(outcome string) {
	m.retrieved = append(m.retrieved, outcome)
}

type loggedEvent struct {
	name   string
	fields map[string]any
}

func newTestCheckoutService(t *testing.T, provider payments.Provider, metrics CheckoutMetrics, events *[]loggedEvent) CheckoutService {
	t.Helper()
	svc, err := NewCheckoutService(CheckoutServiceDeps{
		Payments:     provider,
		Currency:     "GBP",
		Metrics:      metrics,
		OrderNumbers: func() string { return "ORD-GENERATED" },
		Logger: func(_ context.Context, event string, fields map[string]any) {
			if events != nil {
				*events = append(*events, loggedEvent{name: event, fields: fields})
			}
		},
	})
	if err != nil {
		t.Fatalf("NewCheckoutService: %v", err)
	}
	return svc
}

func sampleOrder() domain.OrderData {
	return domain.OrderData{
		OrderNumber: "ORD-1001",
		Customer:    domain.Customer{Name: "Jo Buyer", Email: " jo@example.com "},
		Items: []domain.OrderItem{
			{Name: "Branded Cap", Color: "Navy", Price: decimal.RequireFromString("10.00"), Quantity: 2},
		},
		Subtotal: decimal.RequireFromString("20.00"),
		Shipping: decimal.RequireFromString("2.50"),
		VAT:      decimal.RequireFromString("2.50"),
		Total:    decimal.RequireFromString("25.00"),
	}
}

func TestNewCheckoutServiceValidatesDeps(t *testing.T) {
	if _, err := NewCheckoutService(CheckoutServiceDeps{Currency: "gbp"}); err == nil {
		t.Fatalf("expected error without provider")
	}
	if _, err := NewCheckoutService(CheckoutServiceDeps{Payments: &stubPaymentProvider{}, Currency: "pounds"}); err == nil {
		t.Fatalf("expected error for invalid currency")
	}
}

func TestCheckoutServiceCreateSessionSuccess(t *testing.T) {
	var got payments.CheckoutSessionRequest
	provider := &stubPaymentProvider{
		createFunc: func(_ context.Context, req payments.CheckoutSessionRequest) (domain.CheckoutSession, error) {
			got = req
			return domain.CheckoutSession{ID: "cs_test_1", URL: "https://checkout.stripe.com/c/pay/cs_test_1"}, nil
		},
	}
	metrics := &recordingCheckoutMetrics{}
	var events []loggedEvent
	svc := newTestCheckoutService(t, provider, metrics, &events)

	session, err := svc.CreateCheckoutSession(context.Background(), CreateCheckoutSessionCommand{
		Order:      sampleOrder(),
		SuccessURL: "https://shop.example.com/checkout/success?session_id={CHECKOUT_SESSION_ID}",
		CancelURL:  "https://shop.example.com/basket",
	})
	if err != nil {
		t.Fatalf("CreateCheckoutSession: %v", err)
	}
	if session.ID != "cs_test_1" {
		t.Fatalf("unexpected session %+v", session)
	}

	if got.Currency != "gbp" {
		t.Fatalf("expected gbp, got %q", got.Currency)
	}
	if got.CustomerEmail != "jo@example.com" {
		t.Fatalf("expected trimmed email, got %q", got.CustomerEmail)
	}
	wantMeta := map[string]string{
		domain.MetadataOrderNumber:   "ORD-1001",
		domain.MetadataCustomerName:  "Jo Buyer",
		domain.MetadataCustomerEmail: "jo@example.com",
	}
	for k, v := range wantMeta {
		if got.Metadata[k] != v {
			t.Fatalf("metadata %s: expected %q, got %q", k, v, got.Metadata[k])
		}
	}

	want := []domain.LineItem{
		{Kind: domain.LineItemProduct, Name: "Branded Cap", Description: "Colour: Navy", UnitAmount: 1000, Quantity: 2},
		{Kind: domain.LineItemShipping, Name: "Shipping", UnitAmount: 250, Quantity: 1},
		{Kind: domain.LineItemVAT, Name: "VAT", UnitAmount: 250, Quantity: 1},
	}
	if len(got.LineItems) != len(want) {
		t.Fatalf("expected %d line items, got %d", len(want), len(got.LineItems))
	}
	for i := range want {
		if got.LineItems[i] != want[i] {
			t.Fatalf("line %d: expected %+v, got %+v", i, want[i], got.LineItems[i])
		}
	}

	if metrics.created != 1 {
		t.Fatalf("expected created metric, got %d", metrics.created)
	}
	for _, event := range events {
		if event.name == "checkout.reconciliation_warning" {
			t.Fatalf("balanced order must not warn")
		}
	}
}

func TestCheckoutServiceGeneratesOrderNumberAndWarnsOnImbalance(t *testing.T) {
	var got payments.CheckoutSessionRequest
	provider := &stubPaymentProvider{
		createFunc: func(_ context.Context, req payments.CheckoutSessionRequest) (domain.CheckoutSession, error) {
			got = req
			return domain.CheckoutSession{ID: "cs_2"}, nil
		},
	}
	var events []loggedEvent
	svc := newTestCheckoutService(t, provider, nil, &events)

	order := sampleOrder()
	order.OrderNumber = "  "
	order.Total = decimal.RequireFromString("99.00")

	if _, err := svc.CreateCheckoutSession(context.Background(), CreateCheckoutSessionCommand{
		Order: order, SuccessURL: "https://a", CancelURL: "https://b",
	}); err != nil {
		t.Fatalf("CreateCheckoutSession: %v", err)
	}
	if got.Metadata[domain.MetadataOrderNumber] != "ORD-GENERATED" {
		t.Fatalf("expected generated order number, got %q", got.Metadata[domain.MetadataOrderNumber])
	}

	warned := false
	for _, event := range events {
		if event.name == "checkout.reconciliation_warning" {
			warned = true
			if event.fields["declaredTotal"] != int64(9900) {
				t.Fatalf("unexpected declared total %v", event.fields["declaredTotal"])
			}
		}
	}
	if !warned {
		t.Fatalf("expected reconciliation warning")
	}
}

func TestCheckoutServiceCreateSessionInvalidInput(t *testing.T) {
	provider := &stubPaymentProvider{}
	metrics := &recordingCheckoutMetrics{}
	svc := newTestCheckoutService(t, provider, metrics, nil)

	cases := map[string]CreateCheckoutSessionCommand{
		"missing urls": {Order: sampleOrder()},
		"no lines":     {Order: domain.OrderData{}, SuccessURL: "https://a", CancelURL: "https://b"},
	}
	for name, cmd := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.CreateCheckoutSession(context.Background(), cmd)
			if !errors.Is(err, ErrCheckoutInvalidInput) {
				t.Fatalf("expected invalid input, got %v", err)
			}
		})
	}
	if provider.createCalls != 0 {
		t.Fatalf("expected no provider calls, got %d", provider.createCalls)
	}
}

func TestCheckoutServiceCreateSessionProviderFailure(t *testing.T) {
	upstream := &stripe.Error{Msg: "Your card was declined: internal detail", HTTPStatusCode: 402}
	provider := &stubPaymentProvider{
		createFunc: func(context.Context, payments.CheckoutSessionRequest) (domain.CheckoutSession, error) {
			return domain.CheckoutSession{}, upstream
		},
	}
	metrics := &recordingCheckoutMetrics{}
	var events []loggedEvent
	svc := newTestCheckoutService(t, provider, metrics, &events)

	_, err := svc.CreateCheckoutSession(context.Background(), CreateCheckoutSessionCommand{
		Order: sampleOrder(), SuccessURL: "https://a", CancelURL: "https://b",
	})
	if !errors.Is(err, ErrCheckoutProviderFailure) {
		t.Fatalf("expected provider failure, got %v", err)
	}
	var stripeErr *stripe.Error
	if !errors.As(err, &stripeErr) {
		t.Fatalf("expected upstream error to stay wrapped for logging")
	}
	if len(metrics.failed) != 1 || metrics.failed[0] != "provider" {
		t.Fatalf("unexpected failure metrics %v", metrics.failed)
	}
	if len(events) == 0 || events[len(events)-1].name != "checkout.session.create_failed" {
		t.Fatalf("expected failure to be logged, got %+v", events)
	}
}

func TestCheckoutServiceGetSession(t *testing.T) {
	provider := &stubPaymentProvider{
		retrieveFunc: func(_ context.Context, id string) (domain.CheckoutSession, error) {
			switch id {
			case "cs_paid":
				return domain.CheckoutSession{ID: id, Status: "paid", AmountTotal: 2500, Currency: "gbp"}, nil
			case "cs_missing":
				return domain.CheckoutSession{}, payments.ErrSessionNotFound
			default:
				return domain.CheckoutSession{}, errors.New("connection reset")
			}
		},
	}
	metrics := &recordingCheckoutMetrics{}
	svc := newTestCheckoutService(t, provider, metrics, nil)
	ctx := context.Background()

	session, err := svc.GetCheckoutSession(ctx, " cs_paid ")
	if err != nil || session.Status != "paid" {
		t.Fatalf("unexpected result %+v %v", session, err)
	}

	if _, err := svc.GetCheckoutSession(ctx, "cs_missing"); !errors.Is(err, ErrCheckoutSessionNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := svc.GetCheckoutSession(ctx, "cs_flaky"); !errors.Is(err, ErrCheckoutProviderFailure) || errors.Is(err, ErrCheckoutSessionNotFound) {
		t.Fatalf("expected provider failure, got %v", err)
	}

	calls := provider.retrieveCalls
	if _, err := svc.GetCheckoutSession(ctx, "   "); !errors.Is(err, ErrCheckoutInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
	if provider.retrieveCalls != calls {
		t.Fatalf("blank id must not reach the provider")
	}

	want := []string{"found", "not_found", "error", "invalid_input"}
	if len(metrics.retrieved) != len(want) {
		t.Fatalf("unexpected outcomes %v", metrics.retrieved)
	}
	for i := range want {
		if metrics.retrieved[i] != want[i] {
			t.Fatalf("outcome %d: expected %s, got %s", i, want[i], metrics.retrieved[i])
		}
	}
}

func TestCheckoutServiceGetSessionOverlongIDIsNotFound(t *testing.T) {
	provider := &stubPaymentProvider{}
	metrics := &recordingCheckoutMetrics{}
	svc := newTestCheckoutService(t, provider, metrics, nil)

	_, err := svc.GetCheckoutSession(context.Background(), "cs_test_"+strings.Repeat("a", 300))
	if !errors.Is(err, ErrCheckoutSessionNotFound) || errors.Is(err, ErrCheckoutInvalidInput) {
		t.Fatalf("expected not found, got %v", err)
	}
	if provider.retrieveCalls != 0 {
		t.Fatalf("expected zero provider calls, got %d", provider.retrieveCalls)
	}
	if len(metrics.retrieved) != 1 || metrics.retrieved[0] != "not_found" {
		t.Fatalf("unexpected outcomes %v", metrics.retrieved)
	}
}

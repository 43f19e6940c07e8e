package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/promostore/storefront/internal/platform/requestctx"
)

func TestWriteErrorEnvelope(t *testing.T) {
	ctx := requestctx.WithTrace(context.Background(), requestctx.TraceInfo{TraceID: "abc123"})
	rec := httptest.NewRecorder()

	WriteError(ctx, rec, NewError("invalid_request", "bad\ninput", http.StatusBadRequest))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["error"] != "invalid_request" || body["message"] != "bad input" {
		t.Fatalf("unexpected body %v", body)
	}
	if body["trace_id"] != "abc123" {
		t.Fatalf("expected trace id, got %v", body["trace_id"])
	}
	if _, ok := body["request_id"]; ok {
		t.Fatalf("expected request_id to be omitted without middleware")
	}
}

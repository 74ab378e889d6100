package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"portfolio_advisor/internal/analytics"
	"portfolio_advisor/internal/chat"
	"portfolio_advisor/internal/models"
	"portfolio_advisor/internal/session"
	"portfolio_advisor/internal/tools"
)

// staticModel answers every completion with a fixed reply, or fails.
type staticModel struct {
	reply string
	fail  bool
}

func (m *staticModel) Complete(_ context.Context, _ []models.Message, _ []*tools.Spec) (*chat.ModelResponse, error) {
	if m.fail {
		return nil, errors.New("upstream model unavailable")
	}
	return &chat.ModelResponse{Text: m.reply}, nil
}

type deadProvider struct{}

func (deadProvider) Quote(_ context.Context, ticker string) models.PriceQuote {
	return models.PriceQuote{Ticker: models.CanonicalTicker(ticker), Err: "no market data in tests"}
}

func (deadProvider) History(_ context.Context, _ string, _ string) ([]models.Candle, error) {
	return nil, errors.New("no market data in tests")
}

func newTestHandler(model chat.ModelCaller) http.Handler {
	registry := tools.New(analytics.New(deadProvider{}))
	store := session.NewStore(func() *chat.Conversation {
		return chat.New(model, registry)
	})
	return New(store).Handler()
}

func post(t *testing.T, handler http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("Response is not valid JSON: %v (body: %s)", err, rec.Body.String())
	}
	return out
}

func TestHealth(t *testing.T) {
	handler := newTestHandler(&staticModel{reply: "ok"})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if out := decode(t, rec); out["status"] != "ok" {
		t.Errorf("Expected status ok, got %v", out["status"])
	}
}

func TestChat_NewSession(t *testing.T) {
	handler := newTestHandler(&staticModel{reply: "Hello there."})

	rec := post(t, handler, "/chat", `{"message":"hi"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	out := decode(t, rec)
	if out["message"] != "Hello there." {
		t.Errorf("Unexpected reply: %v", out["message"])
	}
	if id, _ := out["session_id"].(string); id == "" {
		t.Error("Expected a generated session_id")
	}
	if out["status"] != "success" {
		t.Errorf("Expected status success, got %v", out["status"])
	}
}

func TestChat_EmptyMessage(t *testing.T) {
	handler := newTestHandler(&staticModel{reply: "unused"})

	rec := post(t, handler, "/chat", `{"message":""}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for empty message, got %d", rec.Code)
	}
}

func TestChat_ModelFailure(t *testing.T) {
	handler := newTestHandler(&staticModel{fail: true})

	rec := post(t, handler, "/chat", `{"message":"hi"}`)
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("Expected 502 for model failure, got %d", rec.Code)
	}

	// The client sees a generic message, never the upstream detail.
	out := decode(t, rec)
	msg, _ := out["message"].(string)
	if strings.Contains(msg, "upstream model unavailable") {
		t.Errorf("Upstream error detail leaked to the client: %q", msg)
	}
	if out["status"] != "error" {
		t.Errorf("Expected status error, got %v", out["status"])
	}
}

func TestPortfolioAndReset(t *testing.T) {
	handler := newTestHandler(&staticModel{reply: "ok"})

	rec := post(t, handler, "/portfolio", `{"session_id":"alice","portfolio":{"AAPL":10,"msft":5}}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	out := decode(t, rec)
	msg, _ := out["message"].(string)
	if !strings.Contains(msg, "10 AAPL") || !strings.Contains(msg, "5 MSFT") {
		t.Errorf("Expected canonicalized holdings in confirmation, got %q", msg)
	}

	rec = post(t, handler, "/reset", `{"session_id":"alice"}`)
	if rec.Code != http.StatusOK {
		t.Errorf("Expected 200 resetting a live session, got %d", rec.Code)
	}

	rec = post(t, handler, "/reset", `{"session_id":"ghost"}`)
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404 resetting an unknown session, got %d", rec.Code)
	}
}

func TestPortfolio_InvalidShares(t *testing.T) {
	handler := newTestHandler(&staticModel{reply: "ok"})

	rec := post(t, handler, "/portfolio", `{"portfolio":{"AAPL":0}}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for non-positive shares, got %d", rec.Code)
	}
}

package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"portfolio_advisor/internal/analytics"
	"portfolio_advisor/internal/models"

	"github.com/shopspring/decimal"
)

// fakeProvider implements market.DataProvider for dispatch tests.
type fakeProvider struct {
	prices    map[string]float64
	histories map[string][]models.Candle
}

func (f *fakeProvider) Quote(_ context.Context, ticker string) models.PriceQuote {
	symbol := models.CanonicalTicker(ticker)
	q := models.PriceQuote{Ticker: symbol, Currency: "USD", AsOf: time.Now()}
	p, ok := f.prices[symbol]
	if !ok {
		q.Err = "price fetch failed: unknown symbol"
		return q
	}
	q.Price = decimal.NewFromFloat(p)
	return q
}

func (f *fakeProvider) History(_ context.Context, ticker string, _ string) ([]models.Candle, error) {
	symbol := models.CanonicalTicker(ticker)
	h, ok := f.histories[symbol]
	if !ok {
		return nil, fmt.Errorf("no history for %s", symbol)
	}
	return h, nil
}

func newTestRegistry(prices map[string]float64) *Registry {
	return New(analytics.New(&fakeProvider{prices: prices}))
}

// failure mirrors the payload Dispatch emits on any tool failure.
type failure struct {
	Success bool   `json:"success"`
	Code    string `json:"code"`
	Error   string `json:"error"`
}

func decodeFailure(t *testing.T, raw string) failure {
	t.Helper()
	var f failure
	if err := json.Unmarshal([]byte(raw), &f); err != nil {
		t.Fatalf("Result is not valid JSON: %v (raw: %s)", err, raw)
	}
	return f
}

func TestDispatch_UnknownTool(t *testing.T) {
	r := newTestRegistry(nil)

	raw := r.Dispatch(context.Background(), "get_weather", nil, nil)
	f := decodeFailure(t, raw)
	if f.Success {
		t.Error("Expected success=false for unknown tool")
	}
	if f.Code != "unknown_tool" {
		t.Errorf("Expected code unknown_tool, got %q", f.Code)
	}
}

func TestDispatch_MissingRequiredParameter(t *testing.T) {
	r := newTestRegistry(nil)

	raw := r.Dispatch(context.Background(), "get_stock_price", map[string]any{}, nil)
	f := decodeFailure(t, raw)
	if f.Code != "invalid_arguments" {
		t.Errorf("Expected code invalid_arguments, got %q", f.Code)
	}
}

func TestDispatch_WrongParameterType(t *testing.T) {
	r := newTestRegistry(nil)

	raw := r.Dispatch(context.Background(), "get_stock_price", map[string]any{"ticker": 42.0}, nil)
	f := decodeFailure(t, raw)
	if f.Code != "invalid_arguments" {
		t.Errorf("Expected code invalid_arguments, got %q", f.Code)
	}
}

func TestDispatch_TickerListShorthand(t *testing.T) {
	// Models frequently pass "['AAPL', 'msft']" or "AAPL, msft, AAPL" instead
	// of a JSON array. Both must coerce to the same canonical list.
	r := newTestRegistry(map[string]float64{"AAPL": 150, "MSFT": 50})

	raw := r.Dispatch(context.Background(), "get_multiple_stock_prices",
		map[string]any{"tickers": "aapl, MSFT ,AAPL"}, nil)

	var out map[string]struct {
		Success bool   `json:"success"`
		Price   string `json:"price"`
	}
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		t.Fatalf("Result is not valid JSON: %v (raw: %s)", err, raw)
	}
	if len(out) != 2 {
		t.Fatalf("Expected 2 de-duplicated tickers, got %d: %v", len(out), out)
	}
	if !out["AAPL"].Success || out["AAPL"].Price != "150.00" {
		t.Errorf("Expected AAPL at 150.00, got %+v", out["AAPL"])
	}
	if !out["MSFT"].Success || out["MSFT"].Price != "50.00" {
		t.Errorf("Expected MSFT at 50.00, got %+v", out["MSFT"])
	}
}

func TestDispatch_NoPortfolioAvailable(t *testing.T) {
	// With no explicit argument and no conversation portfolio, the tool must
	// fail; a fabricated default would produce confident nonsense.
	r := newTestRegistry(map[string]float64{"AAPL": 150})

	raw := r.Dispatch(context.Background(), "get_portfolio_value", map[string]any{}, nil)
	f := decodeFailure(t, raw)
	if f.Success {
		t.Error("Expected success=false when no portfolio is available")
	}
	if f.Code != "no_portfolio_available" {
		t.Errorf("Expected code no_portfolio_available, got %q", f.Code)
	}
}

func TestDispatch_PortfolioInjection(t *testing.T) {
	r := newTestRegistry(map[string]float64{"AAPL": 150})
	active, _ := models.NewPortfolio(map[string]int64{"AAPL": 10})

	raw := r.Dispatch(context.Background(), "get_portfolio_value", map[string]any{}, active)

	var out struct {
		Success bool            `json:"success"`
		Total   decimal.Decimal `json:"portfolio_value"`
	}
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		t.Fatalf("Result is not valid JSON: %v (raw: %s)", err, raw)
	}
	if !out.Success {
		t.Errorf("Expected success with injected portfolio, got %s", raw)
	}
	if !out.Total.Equal(decimal.NewFromInt(1500)) {
		t.Errorf("Expected total 1500, got %s", out.Total)
	}
}

func TestDispatch_ExplicitPortfolioWins(t *testing.T) {
	r := newTestRegistry(map[string]float64{"AAPL": 150, "MSFT": 50})
	active, _ := models.NewPortfolio(map[string]int64{"AAPL": 10})

	raw := r.Dispatch(context.Background(), "get_portfolio_value",
		map[string]any{"portfolio": map[string]any{"MSFT": 2.0}}, active)

	var out struct {
		Success   bool                       `json:"success"`
		Total     decimal.Decimal            `json:"portfolio_value"`
		Breakdown map[string]json.RawMessage `json:"breakdown"`
	}
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		t.Fatalf("Result is not valid JSON: %v (raw: %s)", err, raw)
	}
	if !out.Total.Equal(decimal.NewFromInt(100)) {
		t.Errorf("Explicit portfolio must override the active one: expected 100, got %s", out.Total)
	}
	if _, present := out.Breakdown["AAPL"]; present {
		t.Error("Active portfolio leaked into an explicit-portfolio call")
	}
}

func TestDispatch_FractionalShareCount(t *testing.T) {
	r := newTestRegistry(map[string]float64{"AAPL": 150})

	raw := r.Dispatch(context.Background(), "get_portfolio_value",
		map[string]any{"portfolio": map[string]any{"AAPL": 1.5}}, nil)
	f := decodeFailure(t, raw)
	if f.Code != "invalid_arguments" {
		t.Errorf("Expected code invalid_arguments for fractional shares, got %q", f.Code)
	}
}

func TestDispatch_DefaultRiskProfile(t *testing.T) {
	r := newTestRegistry(nil)

	raw := r.Dispatch(context.Background(), "rebalance_by_asset_class", map[string]any{}, nil)

	var out struct {
		Success     bool               `json:"success"`
		RiskProfile string             `json:"risk_profile"`
		Weights     map[string]float64 `json:"target_weights"`
	}
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		t.Fatalf("Result is not valid JSON: %v (raw: %s)", err, raw)
	}
	if out.RiskProfile != "moderate" {
		t.Errorf("Expected default profile moderate, got %q", out.RiskProfile)
	}
	if out.Weights["equity"] != 0.60 {
		t.Errorf("Expected 0.60 equity for moderate, got %v", out.Weights["equity"])
	}
}

func TestDispatch_AnalyticsErrorCodes(t *testing.T) {
	r := newTestRegistry(map[string]float64{"AAPL": 150})
	active, _ := models.NewPortfolio(map[string]int64{"AAPL": 10})

	raw := r.Dispatch(context.Background(), "rebalance_by_risk_profile",
		map[string]any{"risk_profile": "balanced"}, active)
	f := decodeFailure(t, raw)
	if f.Code != "unknown_risk_profile" {
		t.Errorf("Expected code unknown_risk_profile, got %q", f.Code)
	}

	raw = r.Dispatch(context.Background(), "suggest_stocks_by_goal",
		map[string]any{"goal": "moonshot"}, nil)
	f = decodeFailure(t, raw)
	if f.Code != "unknown_goal" {
		t.Errorf("Expected code unknown_goal, got %q", f.Code)
	}
}

func TestDispatch_HandlerPanicRecovered(t *testing.T) {
	r := newTestRegistry(nil)
	err := r.Register(&Spec{
		Name:        "explode",
		Description: "test tool",
		Handler: func(ctx context.Context, args Args) (any, error) {
			panic("boom")
		},
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	raw := r.Dispatch(context.Background(), "explode", nil, nil)
	f := decodeFailure(t, raw)
	if f.Success {
		t.Error("Expected failure payload after handler panic")
	}
	if f.Code != "upstream_data_unavailable" {
		t.Errorf("Expected fallback code, got %q", f.Code)
	}
}

func TestRegister_DuplicateName(t *testing.T) {
	r := newTestRegistry(nil)
	err := r.Register(&Spec{Name: "get_stock_price", Handler: func(context.Context, Args) (any, error) { return nil, nil }})
	if err == nil {
		t.Error("Expected error registering a duplicate tool name")
	}
}

func TestSpecs_RegistrationOrder(t *testing.T) {
	r := newTestRegistry(nil)
	specs := r.Specs()
	if len(specs) != 11 {
		t.Fatalf("Expected 11 builtin tools, got %d", len(specs))
	}
	if specs[0].Name != "get_stock_price" {
		t.Errorf("Expected get_stock_price first, got %s", specs[0].Name)
	}
	if specs[len(specs)-1].Name != "recommend_portfolio_adjustments" {
		t.Errorf("Expected recommend_portfolio_adjustments last, got %s", specs[len(specs)-1].Name)
	}
}

func TestCoerceTickerList(t *testing.T) {
	cases := []struct {
		in      any
		want    []string
		wantErr bool
	}{
		{"AAPL, msft ,AAPL", []string{"AAPL", "MSFT"}, false},
		{"['AAPL','MSFT']", []string{"AAPL", "MSFT"}, false},
		{[]any{"nvda", "NVDA", "amd"}, []string{"NVDA", "AMD"}, false},
		{"", nil, true},
		{42.0, nil, true},
		{[]any{1.0}, nil, true},
	}

	for _, tc := range cases {
		got, err := coerceTickerList(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("coerceTickerList(%v): expected error, got %v", tc.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("coerceTickerList(%v): unexpected error %v", tc.in, err)
			continue
		}
		if len(got) != len(tc.want) {
			t.Errorf("coerceTickerList(%v) = %v, want %v", tc.in, got, tc.want)
			continue
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Errorf("coerceTickerList(%v) = %v, want %v", tc.in, got, tc.want)
				break
			}
		}
	}
}

func TestErrorCodeMapping(t *testing.T) {
	wrapped := fmt.Errorf("dispatch: %w", ErrNoPortfolio)
	if code := errorCode(wrapped); code != "no_portfolio_available" {
		t.Errorf("Expected wrapped sentinel to map, got %q", code)
	}
	if code := errorCode(errors.New("something else")); code != "upstream_data_unavailable" {
		t.Errorf("Expected fallback code for unknown errors, got %q", code)
	}
}

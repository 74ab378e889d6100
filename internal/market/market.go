package market

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"portfolio_advisor/internal/models"
)

// DataProvider is the market-data gateway the analytics engine talks to.
// Any struct implementing these two methods satisfies it, which lets tests
// substitute deterministic fakes for the real Alpaca client.
//
// Quote never returns an error for "not found": a per-ticker failure comes
// back inside the PriceQuote so multi-ticker computations can keep going.
// History returns an error (or an empty series) when no data is available.
type DataProvider interface {
	Quote(ctx context.Context, ticker string) models.PriceQuote
	History(ctx context.Context, ticker string, window string) ([]models.Candle, error)
}

// DefaultWindow is the lookback used when a tool omits one. Matches the
// one-year history the volatility and beta formulas assume.
const DefaultWindow = "1y"

// ParseWindow converts a compact lookback ("90d", "6m", "1y", "2w") into a
// start time relative to now. An empty window means DefaultWindow.
func ParseWindow(window string, now time.Time) (time.Time, error) {
	w := strings.ToLower(strings.TrimSpace(window))
	if w == "" {
		w = DefaultWindow
	}
	if len(w) < 2 {
		return time.Time{}, fmt.Errorf("invalid window %q", window)
	}

	n, err := strconv.Atoi(w[:len(w)-1])
	if err != nil || n <= 0 {
		return time.Time{}, fmt.Errorf("invalid window %q", window)
	}

	switch w[len(w)-1] {
	case 'd':
		return now.AddDate(0, 0, -n), nil
	case 'w':
		return now.AddDate(0, 0, -7*n), nil
	case 'm':
		return now.AddDate(0, -n, 0), nil
	case 'y':
		return now.AddDate(-n, 0, 0), nil
	default:
		return time.Time{}, fmt.Errorf("invalid window %q: unit must be d, w, m or y", window)
	}
}

package alpaca

import (
	"context"
	"fmt"
	"time"

	"portfolio_advisor/internal/market"
	"portfolio_advisor/internal/models"

	"github.com/alpacahq/alpaca-trade-api-go/v3/alpaca"
	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"
	"github.com/shopspring/decimal"
)

// Provider implements the market.DataProvider gateway on top of Alpaca.
// The clients read their API keys from the environment (APCA_API_KEY_ID,
// APCA_API_SECRET_KEY), which config.Load validates at startup.
type Provider struct {
	mdClient    *marketdata.Client
	tradeClient *alpaca.Client
}

// Ensure Provider implements the interface.
var _ market.DataProvider = (*Provider)(nil)

// NewProvider returns a new Alpaca-backed data provider.
func NewProvider() *Provider {
	return &Provider{
		mdClient:    marketdata.NewClient(marketdata.ClientOpts{}),
		tradeClient: alpaca.NewClient(alpaca.ClientOpts{}),
	}
}

// Quote fetches the latest trade price for a ticker. Lookup failures are
// folded into the returned quote rather than raised, so a dead ticker never
// sinks a whole portfolio valuation.
func (p *Provider) Quote(ctx context.Context, ticker string) models.PriceQuote {
	symbol := models.CanonicalTicker(ticker)
	quote := models.PriceQuote{Ticker: symbol, AsOf: time.Now().UTC(), Currency: "USD"}

	trade, err := p.mdClient.GetLatestTrade(symbol, marketdata.GetLatestTradeRequest{})
	if err != nil {
		quote.Err = fmt.Sprintf("price fetch failed: %v", err)
		return quote
	}
	if trade == nil || trade.Price <= 0 {
		quote.Err = "no price available"
		return quote
	}

	quote.Price = decimal.NewFromFloat(trade.Price)
	quote.AsOf = trade.Timestamp
	if asset, err := p.tradeClient.GetAsset(symbol); err == nil && asset != nil {
		quote.Name = asset.Name
	}
	return quote
}

// History fetches daily close prices over the lookback window, oldest first.
func (p *Provider) History(ctx context.Context, ticker string, window string) ([]models.Candle, error) {
	symbol := models.CanonicalTicker(ticker)
	start, err := market.ParseWindow(window, time.Now())
	if err != nil {
		return nil, err
	}

	bars, err := p.mdClient.GetBars(symbol, marketdata.GetBarsRequest{
		TimeFrame: marketdata.OneDay,
		Start:     start,
	})
	if err != nil {
		return nil, fmt.Errorf("history fetch for %s failed: %w", symbol, err)
	}

	candles := make([]models.Candle, 0, len(bars))
	for _, b := range bars {
		candles = append(candles, models.Candle{
			Date:  b.Timestamp,
			Close: b.Close,
		})
	}
	return candles, nil
}

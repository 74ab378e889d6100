package tools

import (
	"context"

	"portfolio_advisor/internal/analytics"
	"portfolio_advisor/internal/models"
)

// defaultBenchmark is what beta is measured against when the model does not
// name one.
const defaultBenchmark = "SPY"

var (
	tickerParam = Param{
		Name: "ticker", Kind: KindTicker, Required: true,
		Description: "Stock ticker symbol, e.g. AAPL",
	}
	windowParam = Param{
		Name: "window", Kind: KindString,
		Description: "Lookback window like 90d, 6m or 1y (default 1y)",
	}
	portfolioParam = Param{
		Name: "portfolio", Kind: KindPortfolio,
		Description: "Object of ticker to share count; omit to use the conversation's portfolio",
	}
	riskProfileParam = Param{
		Name: "risk_profile", Kind: KindString, Default: "moderate",
		Description: "One of conservative, moderate, aggressive",
	}
	goalParam = Param{
		Name: "goal", Kind: KindString, Default: "growth",
		Description: "Investing goal, e.g. growth, income, value, stability",
	}
)

// registerBuiltins wires the advisor tool surface to the analytics service.
func registerBuiltins(r *Registry, svc *analytics.Service, d Defaults) {
	windowParam := windowParam
	if d.Window != "" {
		windowParam.Default = d.Window
	}
	benchmark := defaultBenchmark
	if d.Benchmark != "" {
		benchmark = models.CanonicalTicker(d.Benchmark)
	}

	specs := []*Spec{
		{
			Name:        "get_stock_price",
			Description: "Fetch the current price of a stock ticker.",
			Params:      []Param{tickerParam},
			Handler: func(ctx context.Context, args Args) (any, error) {
				return quotePayload(svc.Quote(ctx, args.String("ticker"))), nil
			},
		},
		{
			Name:        "get_multiple_stock_prices",
			Description: "Fetch current prices for several tickers at once.",
			Params: []Param{{
				Name: "tickers", Kind: KindTickerList, Required: true,
				Description: "List of ticker symbols",
			}},
			Handler: func(ctx context.Context, args Args) (any, error) {
				quotes := svc.QuoteMany(ctx, args.List("tickers"))
				out := make(map[string]priceResult, len(quotes))
				for symbol, q := range quotes {
					out[symbol] = quotePayload(q)
				}
				return out, nil
			},
		},
		{
			Name:        "get_stock_volatility",
			Description: "Annualized volatility of a stock's daily log returns.",
			Params:      []Param{tickerParam, windowParam},
			Handler: func(ctx context.Context, args Args) (any, error) {
				return svc.Volatility(ctx, args.String("ticker"), args.String("window"))
			},
		},
		{
			Name:        "get_stock_beta",
			Description: "Beta of a stock against a benchmark (default SPY).",
			Params: []Param{tickerParam, windowParam, {
				Name: "benchmark", Kind: KindTicker, Default: benchmark,
				Description: "Benchmark ticker (default SPY)",
			}},
			Handler: func(ctx context.Context, args Args) (any, error) {
				return svc.Beta(ctx, args.String("ticker"), args.String("benchmark"), args.String("window"))
			},
		},
		{
			Name:              "get_portfolio_value",
			Description:       "Total market value of the portfolio with a per-ticker breakdown.",
			Params:            []Param{portfolioParam},
			RequiresPortfolio: true,
			Handler: func(ctx context.Context, args Args) (any, error) {
				return svc.Value(ctx, args.Portfolio)
			},
		},
		{
			Name:              "get_portfolio_diversification",
			Description:       "Diversification score from pairwise return correlations of the holdings.",
			Params:            []Param{portfolioParam, windowParam},
			RequiresPortfolio: true,
			Handler: func(ctx context.Context, args Args) (any, error) {
				return svc.Diversification(ctx, args.Portfolio, args.String("window"))
			},
		},
		{
			Name:              "rebalance_equal_weight",
			Description:       "Dollar adjustments that give every holding an equal share of the total.",
			Params:            []Param{portfolioParam},
			RequiresPortfolio: true,
			Handler: func(ctx context.Context, args Args) (any, error) {
				return svc.RebalanceEqualWeight(ctx, args.Portfolio)
			},
		},
		{
			Name:              "rebalance_by_risk_profile",
			Description:       "Target dollar allocations per ticker for a named risk profile.",
			Params:            []Param{portfolioParam, riskProfileParam},
			RequiresPortfolio: true,
			Handler: func(ctx context.Context, args Args) (any, error) {
				return svc.RebalanceByRiskProfile(ctx, args.Portfolio, args.String("risk_profile"))
			},
		},
		{
			Name:        "rebalance_by_asset_class",
			Description: "Target asset-class weights (equity/bonds/alternatives) for a named risk profile.",
			Params:      []Param{riskProfileParam},
			Handler: func(ctx context.Context, args Args) (any, error) {
				return svc.RebalanceByAssetClass(args.String("risk_profile"))
			},
		},
		{
			Name:        "suggest_stocks_by_goal",
			Description: "Stocks aligned with an investing goal such as growth or income.",
			Params:      []Param{goalParam},
			Handler: func(ctx context.Context, args Args) (any, error) {
				return svc.SuggestByGoal(args.String("goal"))
			},
		},
		{
			Name:              "recommend_portfolio_adjustments",
			Description:       "Goal-aligned stock suggestions annotated with the portfolio's diversification score.",
			Params:            []Param{portfolioParam, goalParam},
			RequiresPortfolio: true,
			Handler: func(ctx context.Context, args Args) (any, error) {
				return svc.RecommendAdjustments(ctx, args.Portfolio, args.String("goal"))
			},
		},
	}

	for _, spec := range specs {
		if err := r.Register(spec); err != nil {
			// Builtins are registered once from a static list.
			panic(err)
		}
	}
}

// priceResult is the JSON shape of a single quote, failed or not. A failed
// quote is data for the model, not a dispatch error.
type priceResult struct {
	Success  bool   `json:"success"`
	Ticker   string `json:"ticker"`
	Price    string `json:"price,omitempty"`
	Currency string `json:"currency,omitempty"`
	Name     string `json:"company_name,omitempty"`
	AsOf     string `json:"timestamp,omitempty"`
	Error    string `json:"error,omitempty"`
}

func quotePayload(q models.PriceQuote) priceResult {
	if !q.OK() {
		return priceResult{Success: false, Ticker: q.Ticker, Error: q.Err}
	}
	return priceResult{
		Success:  true,
		Ticker:   q.Ticker,
		Price:    q.Price.StringFixed(2),
		Currency: q.Currency,
		Name:     q.Name,
		AsOf:     q.AsOf.Format("2006-01-02T15:04:05Z07:00"),
	}
}

package analytics

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"portfolio_advisor/internal/market"
	"portfolio_advisor/internal/models"

	"github.com/shopspring/decimal"
)

// Service computes portfolio measures on top of a market-data gateway.
// All methods are side-effect free apart from gateway calls; nothing is
// cached between invocations.
type Service struct {
	data market.DataProvider
}

// New returns an analytics service backed by the given provider.
func New(data market.DataProvider) *Service {
	return &Service{data: data}
}

// Quote fetches the latest price for one ticker. Failures come back inside
// the quote, never as an error.
func (s *Service) Quote(ctx context.Context, ticker string) models.PriceQuote {
	q := s.data.Quote(ctx, ticker)
	q.Price = q.Price.Round(2)
	return q
}

// QuoteMany fetches quotes for several tickers, keyed by canonical symbol.
func (s *Service) QuoteMany(ctx context.Context, tickers []string) map[string]models.PriceQuote {
	out := make(map[string]models.PriceQuote, len(tickers))
	for _, t := range tickers {
		symbol := models.CanonicalTicker(t)
		out[symbol] = s.Quote(ctx, symbol)
	}
	return out
}

// Value prices every holding and sums the resolvable ones. Per-ticker quote
// failures are recorded in the breakdown and excluded from the total; the
// report still succeeds.
func (s *Service) Value(ctx context.Context, portfolio models.Portfolio) (*PortfolioValue, error) {
	if len(portfolio) == 0 {
		return nil, ErrEmptyPortfolio
	}

	total := decimal.Zero
	breakdown := make(map[string]Holding, len(portfolio))

	for _, ticker := range portfolio.Tickers() {
		shares := portfolio[ticker]
		quote := s.data.Quote(ctx, ticker)
		if !quote.OK() {
			breakdown[ticker] = Holding{Shares: shares, Error: quote.Err}
			continue
		}
		value := quote.Price.Mul(decimal.NewFromInt(shares))
		total = total.Add(value)
		breakdown[ticker] = Holding{
			Shares: shares,
			Price:  quote.Price.Round(2),
			Value:  value.Round(2),
		}
	}

	return &PortfolioValue{
		Success:   true,
		Total:     total.Round(2),
		Breakdown: breakdown,
	}, nil
}

// Volatility computes annualized sample volatility of daily log returns.
func (s *Service) Volatility(ctx context.Context, ticker, window string) (*VolatilityReport, error) {
	if window == "" {
		window = market.DefaultWindow
	}
	closes, err := s.closes(ctx, ticker, window)
	if err != nil {
		return nil, err
	}

	returns := logReturns(closes)
	if len(returns) < 2 {
		return nil, fmt.Errorf("%w: %s has %d closes in %s", ErrInsufficientHistory, models.CanonicalTicker(ticker), len(closes), window)
	}

	vol := sampleStdev(returns) * sqrtTradingDays
	return &VolatilityReport{
		Success:    true,
		Ticker:     models.CanonicalTicker(ticker),
		Window:     window,
		Volatility: round4(vol),
	}, nil
}

// Beta computes cov(asset, benchmark) / var(benchmark) over daily log
// returns, truncating both series to the shorter one from the recent end.
func (s *Service) Beta(ctx context.Context, ticker, benchmark, window string) (*BetaReport, error) {
	if window == "" {
		window = market.DefaultWindow
	}
	symbol := models.CanonicalTicker(ticker)
	bench := models.CanonicalTicker(benchmark)

	assetCloses, err := s.closes(ctx, symbol, window)
	if err != nil {
		return nil, err
	}
	benchCloses, err := s.closes(ctx, bench, window)
	if err != nil {
		return nil, err
	}

	assetReturns := logReturns(assetCloses)
	benchReturns := logReturns(benchCloses)

	n := len(assetReturns)
	if len(benchReturns) < n {
		n = len(benchReturns)
	}
	if n < 2 {
		return nil, fmt.Errorf("%w: only %d overlapping return samples for %s vs %s", ErrInsufficientHistory, n, symbol, bench)
	}

	// Last n points of each, so both series end "now".
	assetReturns = assetReturns[len(assetReturns)-n:]
	benchReturns = benchReturns[len(benchReturns)-n:]

	benchVar := sampleVariance(benchReturns)
	if benchVar == 0 {
		return nil, fmt.Errorf("%w: %s returns are constant over %s", ErrDegenerateVariance, bench, window)
	}

	beta := sampleCovariance(assetReturns, benchReturns) / benchVar
	return &BetaReport{
		Success:   true,
		Ticker:    symbol,
		Benchmark: bench,
		Window:    window,
		Beta:      round4(beta),
		Samples:   n,
	}, nil
}

// Diversification inner-joins the holdings' daily return series on common
// dates and scores the portfolio as 1 minus the mean pairwise correlation.
// Pairs whose correlation is undefined (constant returns) are skipped.
func (s *Service) Diversification(ctx context.Context, portfolio models.Portfolio, window string) (*DiversificationReport, error) {
	if window == "" {
		window = market.DefaultWindow
	}
	tickers := portfolio.Tickers()
	if len(tickers) < 2 {
		return nil, fmt.Errorf("%w: need at least 2 tickers, got %d", ErrInsufficientOverlap, len(tickers))
	}

	// Per-ticker return series keyed by the date of p_t.
	series := make(map[string]map[string]float64, len(tickers))
	for _, ticker := range tickers {
		candles, err := s.data.History(ctx, ticker, window)
		if err != nil || len(candles) < 2 {
			// A dead series leaves no common dates; surface that as overlap
			// failure rather than aborting on the single ticker.
			series[ticker] = map[string]float64{}
			continue
		}
		rets := make(map[string]float64, len(candles)-1)
		for i := 1; i < len(candles); i++ {
			if candles[i-1].Close <= 0 || candles[i].Close <= 0 {
				continue
			}
			day := candles[i].Date.Format("2006-01-02")
			rets[day] = logReturn(candles[i-1].Close, candles[i].Close)
		}
		series[ticker] = rets
	}

	common := commonDates(series, tickers)
	if len(common) < 2 {
		return nil, fmt.Errorf("%w: %d common return dates across %s", ErrInsufficientOverlap, len(common), strings.Join(tickers, ", "))
	}

	// Aligned return vectors in shared date order.
	aligned := make(map[string][]float64, len(tickers))
	for _, ticker := range tickers {
		vec := make([]float64, len(common))
		for i, day := range common {
			vec[i] = series[ticker][day]
		}
		aligned[ticker] = vec
	}

	var corrSum float64
	var pairs int
	for i := 0; i < len(tickers); i++ {
		for j := i + 1; j < len(tickers); j++ {
			if c, ok := pearson(aligned[tickers[i]], aligned[tickers[j]]); ok {
				corrSum += c
				pairs++
			}
		}
	}
	if pairs == 0 {
		return nil, fmt.Errorf("%w: no correlatable pairs remain", ErrInsufficientOverlap)
	}

	score := 1 - corrSum/float64(pairs)
	return &DiversificationReport{
		Success:       true,
		Score:         round4(score),
		Concentration: round4(s.valueConcentration(ctx, portfolio)),
		Tickers:       tickers,
		CommonDates:   len(common),
	}, nil
}

// RebalanceEqualWeight proposes dollar adjustments that even out the
// resolvable holdings. Adjustments sum to zero within rounding.
func (s *Service) RebalanceEqualWeight(ctx context.Context, portfolio models.Portfolio) (*RebalanceRecommendation, error) {
	if len(portfolio) == 0 {
		return nil, ErrEmptyPortfolio
	}

	value, err := s.Value(ctx, portfolio)
	if err != nil {
		return nil, err
	}

	resolved := make([]string, 0, len(value.Breakdown))
	skipped := make(map[string]string)
	for ticker, h := range value.Breakdown {
		if h.Error != "" {
			skipped[ticker] = h.Error
			continue
		}
		resolved = append(resolved, ticker)
	}
	if len(resolved) == 0 {
		return nil, fmt.Errorf("%w: no holding could be priced", ErrUpstreamData)
	}
	sort.Strings(resolved)

	target := value.Total.Div(decimal.NewFromInt(int64(len(resolved))))
	adjustments := make(map[string]decimal.Decimal, len(resolved))
	for _, ticker := range resolved {
		adjustments[ticker] = target.Sub(value.Breakdown[ticker].Value).Round(2)
	}

	rec := &RebalanceRecommendation{
		Success:     true,
		Strategy:    "equal_weight",
		TargetEach:  target.Round(2),
		Adjustments: adjustments,
	}
	if len(skipped) > 0 {
		rec.Skipped = skipped
	}
	return rec, nil
}

// RebalanceByRiskProfile allocates the portfolio's current total across the
// ticker-keyed target table for the named profile.
func (s *Service) RebalanceByRiskProfile(ctx context.Context, portfolio models.Portfolio, profile string) (*RiskProfileRecommendation, error) {
	key := strings.ToLower(strings.TrimSpace(profile))
	targets, ok := riskProfiles[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q (use conservative, moderate, or aggressive)", ErrUnknownRiskProfile, profile)
	}

	value, err := s.Value(ctx, portfolio)
	if err != nil {
		return nil, err
	}

	allocations := make(map[string]decimal.Decimal, len(targets))
	for ticker, weight := range targets {
		allocations[ticker] = value.Total.Mul(decimal.NewFromFloat(weight)).Round(2)
	}

	return &RiskProfileRecommendation{
		Success:           true,
		RiskProfile:       key,
		TotalValue:        value.Total,
		TargetAllocations: allocations,
		Notes:             fmt.Sprintf("Shift toward these allocations to match a %s risk profile.", key),
	}, nil
}

// RebalanceByAssetClass returns the asset-class target weights for the named
// profile. This variant does not price holdings.
func (s *Service) RebalanceByAssetClass(profile string) (*AssetClassRecommendation, error) {
	key := strings.ToLower(strings.TrimSpace(profile))
	targets, ok := assetClassProfiles[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q (use conservative, moderate, or aggressive)", ErrUnknownRiskProfile, profile)
	}

	weights := make(map[string]float64, len(targets))
	for class, w := range targets {
		weights[class] = w
	}

	return &AssetClassRecommendation{
		Success:       true,
		RiskProfile:   key,
		TargetWeights: weights,
		Notes:         fmt.Sprintf("Target asset-class split for a %s investor.", key),
	}, nil
}

// SuggestByGoal returns the static ticker list for an investing goal.
// Deterministic: repeated calls return the same ordered list.
func (s *Service) SuggestByGoal(goal string) (*GoalSuggestion, error) {
	key := strings.ToLower(strings.TrimSpace(goal))
	list, ok := goalSuggestions[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q (try growth, income, value, stability, tech, or balanced)", ErrUnknownGoal, goal)
	}

	suggestions := make([]string, len(list))
	copy(suggestions, list)

	return &GoalSuggestion{Success: true, Goal: key, Suggestions: suggestions}, nil
}

// RecommendAdjustments composes SuggestByGoal and Diversification; a failure
// in either propagates unchanged.
func (s *Service) RecommendAdjustments(ctx context.Context, portfolio models.Portfolio, goal string) (*AdjustmentAdvice, error) {
	suggestion, err := s.SuggestByGoal(goal)
	if err != nil {
		return nil, err
	}
	diversification, err := s.Diversification(ctx, portfolio, market.DefaultWindow)
	if err != nil {
		return nil, err
	}

	return &AdjustmentAdvice{
		Success:              true,
		Goal:                 suggestion.Goal,
		Suggestions:          suggestion.Suggestions,
		DiversificationScore: diversification.Score,
		Notes:                "These stocks align with your goal and may improve diversification depending on your current holdings.",
	}, nil
}

// closes fetches a history and flattens it to close prices, oldest first.
func (s *Service) closes(ctx context.Context, ticker, window string) ([]float64, error) {
	candles, err := s.data.History(ctx, ticker, window)
	if err != nil {
		return nil, fmt.Errorf("%w for %s: %v", ErrUpstreamData, models.CanonicalTicker(ticker), err)
	}
	if len(candles) < 2 {
		return nil, fmt.Errorf("%w: %s has %d closes in %s", ErrInsufficientHistory, models.CanonicalTicker(ticker), len(candles), window)
	}
	out := make([]float64, len(candles))
	for i, c := range candles {
		out[i] = c.Close
	}
	return out, nil
}

// valueConcentration computes the Herfindahl index of current value weights.
// Quote failures simply drop out of the weighting; a portfolio with no
// priceable holdings scores zero.
func (s *Service) valueConcentration(ctx context.Context, portfolio models.Portfolio) float64 {
	var total float64
	values := make(map[string]float64, len(portfolio))
	for ticker, shares := range portfolio {
		quote := s.data.Quote(ctx, ticker)
		if !quote.OK() {
			continue
		}
		v, _ := quote.Price.Mul(decimal.NewFromInt(shares)).Float64()
		values[ticker] = v
		total += v
	}
	if total == 0 {
		return 0
	}
	var hhi float64
	for _, v := range values {
		w := v / total
		hhi += w * w
	}
	return hhi
}

// commonDates intersects the return-series dates of all tickers, sorted.
func commonDates(series map[string]map[string]float64, tickers []string) []string {
	counts := make(map[string]int)
	for _, ticker := range tickers {
		for day := range series[ticker] {
			counts[day]++
		}
	}
	var common []string
	for day, n := range counts {
		if n == len(tickers) {
			common = append(common, day)
		}
	}
	sort.Strings(common)
	return common
}

package analytics

import "github.com/shopspring/decimal"

// Report types mirror the JSON shape the model sees in tool results.
// Monetary fields are rounded to 2 decimal places and ratios to 4, once,
// when the report is assembled.

// Holding is one portfolio entry in a value breakdown. A holding that failed
// to resolve carries Error and zero value; it is excluded from the total.
type Holding struct {
	Shares int64           `json:"shares"`
	Price  decimal.Decimal `json:"price"`
	Value  decimal.Decimal `json:"value"`
	Error  string          `json:"error,omitempty"`
}

// PortfolioValue is partial-failure tolerant: Success stays true even when
// individual tickers failed, and Total covers resolvable holdings only.
type PortfolioValue struct {
	Success   bool               `json:"success"`
	Total     decimal.Decimal    `json:"portfolio_value"`
	Breakdown map[string]Holding `json:"breakdown"`
}

// VolatilityReport carries annualized log-return volatility.
type VolatilityReport struct {
	Success    bool    `json:"success"`
	Ticker     string  `json:"ticker"`
	Window     string  `json:"window"`
	Volatility float64 `json:"volatility"`
}

// BetaReport carries beta against a benchmark over a shared window.
type BetaReport struct {
	Success   bool    `json:"success"`
	Ticker    string  `json:"ticker"`
	Benchmark string  `json:"benchmark"`
	Window    string  `json:"window"`
	Beta      float64 `json:"beta"`
	Samples   int     `json:"samples"`
}

// DiversificationReport scores a portfolio by pairwise return correlation.
// Concentration is the Herfindahl index of current value weights (0..1,
// lower is more spread out).
type DiversificationReport struct {
	Success       bool     `json:"success"`
	Score         float64  `json:"diversification_score"`
	Concentration float64  `json:"value_concentration_hhi"`
	Tickers       []string `json:"tickers"`
	CommonDates   int      `json:"common_dates"`
}

// RebalanceRecommendation describes equal-weight adjustments. Adjustments
// are zero-sum across resolved holdings; Skipped lists tickers whose quotes
// failed, with the upstream error.
type RebalanceRecommendation struct {
	Success     bool                       `json:"success"`
	Strategy    string                     `json:"strategy"`
	TargetEach  decimal.Decimal            `json:"target_value_each"`
	Adjustments map[string]decimal.Decimal `json:"adjustments"`
	Skipped     map[string]string          `json:"skipped,omitempty"`
}

// RiskProfileRecommendation allocates the current total across the
// ticker-keyed target table for a named risk profile.
type RiskProfileRecommendation struct {
	Success           bool                       `json:"success"`
	RiskProfile       string                     `json:"risk_profile"`
	TotalValue        decimal.Decimal            `json:"total_value"`
	TargetAllocations map[string]decimal.Decimal `json:"target_allocations"`
	Notes             string                     `json:"notes"`
}

// AssetClassRecommendation carries the asset-class-keyed target weights for
// a named risk profile. Weights, not dollars: this variant does not price
// the portfolio.
type AssetClassRecommendation struct {
	Success       bool               `json:"success"`
	RiskProfile   string             `json:"risk_profile"`
	TargetWeights map[string]float64 `json:"target_weights"`
	Notes         string             `json:"notes"`
}

// GoalSuggestion is the static ticker list for an investing goal.
type GoalSuggestion struct {
	Success     bool     `json:"success"`
	Goal        string   `json:"goal"`
	Suggestions []string `json:"suggestions"`
}

// AdjustmentAdvice composes goal suggestions with the portfolio's current
// diversification score.
type AdjustmentAdvice struct {
	Success              bool     `json:"success"`
	Goal                 string   `json:"goal"`
	Suggestions          []string `json:"suggestions"`
	DiversificationScore float64  `json:"diversification_score"`
	Notes                string   `json:"notes"`
}

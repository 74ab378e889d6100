package analytics

import "errors"

// Sentinel errors for the analytics failure taxonomy. Tool handlers embed
// these in a success=false payload; they never escape a dispatch.
var (
	// ErrInsufficientHistory: a price history is too short to compute returns.
	ErrInsufficientHistory = errors.New("insufficient price history")
	// ErrDegenerateVariance: the benchmark's return variance is zero, so beta
	// is undefined (never reported as ±Inf or NaN).
	ErrDegenerateVariance = errors.New("benchmark variance is zero")
	// ErrInsufficientOverlap: fewer than two tickers, or no usable common
	// dates remain after the inner join of return series.
	ErrInsufficientOverlap = errors.New("insufficient overlapping history")
	// ErrEmptyPortfolio: an operation that needs holdings got none.
	ErrEmptyPortfolio = errors.New("portfolio is empty")
	// ErrUnknownRiskProfile: not conservative, moderate or aggressive.
	ErrUnknownRiskProfile = errors.New("unknown risk profile")
	// ErrUnknownGoal: no suggestion list exists for the goal keyword.
	ErrUnknownGoal = errors.New("unknown goal")
	// ErrUpstreamData: every holding failed to resolve, so there is nothing
	// left to compute on. Single-ticker upstream failures are embedded in
	// result breakdowns instead.
	ErrUpstreamData = errors.New("market data unavailable")
)

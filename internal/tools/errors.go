package tools

import (
	"errors"

	"portfolio_advisor/internal/analytics"
)

// Dispatch-level failures. Together with the analytics sentinels these form
// the full error taxonomy the model sees in failed tool results.
var (
	ErrUnknownTool      = errors.New("unknown tool")
	ErrInvalidArguments = errors.New("invalid arguments")
	ErrNoPortfolio      = errors.New("no portfolio available")
)

// errorCode maps a dispatch or analytics failure to its taxonomy code.
// Anything unrecognized is an upstream data problem by elimination.
func errorCode(err error) string {
	switch {
	case errors.Is(err, ErrUnknownTool):
		return "unknown_tool"
	case errors.Is(err, ErrInvalidArguments):
		return "invalid_arguments"
	case errors.Is(err, ErrNoPortfolio):
		return "no_portfolio_available"
	case errors.Is(err, analytics.ErrInsufficientHistory):
		return "insufficient_history"
	case errors.Is(err, analytics.ErrDegenerateVariance):
		return "degenerate_variance"
	case errors.Is(err, analytics.ErrInsufficientOverlap):
		return "insufficient_overlap"
	case errors.Is(err, analytics.ErrEmptyPortfolio):
		return "empty_portfolio"
	case errors.Is(err, analytics.ErrUnknownRiskProfile):
		return "unknown_risk_profile"
	case errors.Is(err, analytics.ErrUnknownGoal):
		return "unknown_goal"
	default:
		return "upstream_data_unavailable"
	}
}

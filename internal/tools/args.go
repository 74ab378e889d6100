package tools

import (
	"fmt"
	"math"
	"strings"

	"portfolio_advisor/internal/models"
)

// Kind describes how a declared parameter is validated and coerced.
type Kind int

const (
	// KindString is a plain string (risk profiles, goals, windows).
	KindString Kind = iota
	// KindTicker is a string canonicalized to an uppercase symbol.
	KindTicker
	// KindTickerList accepts a JSON array of symbols or the delimited
	// shorthand models like to emit ("AAPL, msft, AAPL" or "['AAPL','MSFT']").
	KindTickerList
	// KindPortfolio accepts a ticker→share-count object.
	KindPortfolio
)

// Param declares one tool parameter. A missing optional param takes its
// Default; a missing required one fails validation.
type Param struct {
	Name        string
	Kind        Kind
	Description string
	Required    bool
	Default     any
}

// Args holds validated, coerced arguments for a handler.
type Args struct {
	values    map[string]any
	Portfolio models.Portfolio
}

// String returns a coerced string argument (empty when absent).
func (a Args) String(name string) string {
	s, _ := a.values[name].(string)
	return s
}

// List returns a coerced ticker-list argument.
func (a Args) List(name string) []string {
	l, _ := a.values[name].([]string)
	return l
}

// coerce validates raw model-supplied arguments against the declared params.
// Every failure wraps ErrInvalidArguments so dispatch can tag it.
func coerce(params []Param, raw map[string]any) (Args, models.Portfolio, error) {
	args := Args{values: make(map[string]any, len(params))}
	var explicit models.Portfolio

	for _, p := range params {
		value, present := raw[p.Name]
		if !present || value == nil {
			if p.Required && p.Default == nil {
				return args, nil, fmt.Errorf("%w: missing required parameter %q", ErrInvalidArguments, p.Name)
			}
			if p.Default != nil {
				value = p.Default
			} else {
				continue
			}
		}

		switch p.Kind {
		case KindString:
			s, ok := value.(string)
			if !ok {
				return args, nil, fmt.Errorf("%w: parameter %q must be a string, got %T", ErrInvalidArguments, p.Name, value)
			}
			args.values[p.Name] = strings.TrimSpace(s)

		case KindTicker:
			s, ok := value.(string)
			if !ok {
				return args, nil, fmt.Errorf("%w: parameter %q must be a ticker string, got %T", ErrInvalidArguments, p.Name, value)
			}
			symbol := models.CanonicalTicker(s)
			if symbol == "" {
				return args, nil, fmt.Errorf("%w: parameter %q is empty", ErrInvalidArguments, p.Name)
			}
			args.values[p.Name] = symbol

		case KindTickerList:
			list, err := coerceTickerList(value)
			if err != nil {
				return args, nil, fmt.Errorf("%w: parameter %q: %v", ErrInvalidArguments, p.Name, err)
			}
			args.values[p.Name] = list

		case KindPortfolio:
			portfolio, err := coercePortfolio(value)
			if err != nil {
				return args, nil, fmt.Errorf("%w: parameter %q: %v", ErrInvalidArguments, p.Name, err)
			}
			explicit = portfolio
		}
	}

	return args, explicit, nil
}

// coerceTickerList splits, trims, uppercases and de-duplicates while
// preserving first-seen order.
func coerceTickerList(value any) ([]string, error) {
	var rawItems []string
	switch v := value.(type) {
	case string:
		cleaned := strings.NewReplacer("[", "", "]", "", "'", "", `"`, "").Replace(v)
		rawItems = strings.Split(cleaned, ",")
	case []string:
		rawItems = v
	case []any:
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("list items must be strings, got %T", item)
			}
			rawItems = append(rawItems, s)
		}
	default:
		return nil, fmt.Errorf("must be a list of tickers or a delimited string, got %T", value)
	}

	seen := make(map[string]bool, len(rawItems))
	out := make([]string, 0, len(rawItems))
	for _, item := range rawItems {
		symbol := models.CanonicalTicker(item)
		if symbol == "" || seen[symbol] {
			continue
		}
		seen[symbol] = true
		out = append(out, symbol)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no tickers supplied")
	}
	return out, nil
}

// coercePortfolio turns a JSON object into a Portfolio. JSON numbers arrive
// as float64; share counts must be positive integers.
func coercePortfolio(value any) (models.Portfolio, error) {
	obj, ok := value.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("must be an object of ticker to share count, got %T", value)
	}

	portfolio := make(models.Portfolio, len(obj))
	for ticker, rawShares := range obj {
		var shares int64
		switch n := rawShares.(type) {
		case float64:
			if n != math.Trunc(n) {
				return nil, fmt.Errorf("share count for %s must be a whole number, got %v", ticker, n)
			}
			shares = int64(n)
		case int:
			shares = int64(n)
		case int64:
			shares = n
		default:
			return nil, fmt.Errorf("share count for %s must be a number, got %T", ticker, rawShares)
		}
		if err := portfolio.Set(ticker, shares); err != nil {
			return nil, err
		}
	}
	return portfolio, nil
}

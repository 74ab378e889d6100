package models

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Portfolio maps a canonical (uppercase) ticker symbol to a share count.
// Share counts are strictly positive; setting a ticker twice overwrites.
type Portfolio map[string]int64

// portfolioPattern matches holdings spoken as "10 AAPL" or "5 msft".
var portfolioPattern = regexp.MustCompile(`(\d+)\s+([A-Za-z]+)`)

// NewPortfolio builds a Portfolio from raw holdings, canonicalizing tickers
// and rejecting non-positive share counts.
func NewPortfolio(holdings map[string]int64) (Portfolio, error) {
	p := make(Portfolio, len(holdings))
	for ticker, shares := range holdings {
		if err := p.Set(ticker, shares); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// Set adds or overwrites one holding.
func (p Portfolio) Set(ticker string, shares int64) error {
	symbol := CanonicalTicker(ticker)
	if symbol == "" {
		return fmt.Errorf("empty ticker symbol")
	}
	if shares <= 0 {
		return fmt.Errorf("share count for %s must be positive, got %d", symbol, shares)
	}
	p[symbol] = shares
	return nil
}

// Clone returns an independent copy so the conversation can hand its
// portfolio to tools without sharing mutable state.
func (p Portfolio) Clone() Portfolio {
	if p == nil {
		return nil
	}
	c := make(Portfolio, len(p))
	for t, s := range p {
		c[t] = s
	}
	return c
}

// Tickers returns the held symbols in deterministic (sorted) order.
func (p Portfolio) Tickers() []string {
	out := make([]string, 0, len(p))
	for t := range p {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// String renders holdings as "10 AAPL, 5 MSFT" for prompts and logs.
func (p Portfolio) String() string {
	parts := make([]string, 0, len(p))
	for _, t := range p.Tickers() {
		parts = append(parts, fmt.Sprintf("%d %s", p[t], t))
	}
	return strings.Join(parts, ", ")
}

// ParsePortfolio extracts holdings from free text like "I own 10 AAPL and
// 5 MSFT". It returns nil when the text carries no holdings at all, so
// callers can tell "no portfolio mentioned" apart from "empty portfolio".
func ParsePortfolio(text string) Portfolio {
	matches := portfolioPattern.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil
	}
	p := make(Portfolio, len(matches))
	for _, m := range matches {
		shares, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil || shares <= 0 {
			continue
		}
		p[CanonicalTicker(m[2])] = shares
	}
	if len(p) == 0 {
		return nil
	}
	return p
}

// CanonicalTicker trims and uppercases a raw symbol.
func CanonicalTicker(ticker string) string {
	return strings.ToUpper(strings.TrimSpace(ticker))
}

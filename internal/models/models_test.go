package models

import "testing"

func TestParsePortfolio(t *testing.T) {
	p := ParsePortfolio("I own 10 AAPL and 5 msft, plus 3 Voo")
	if p == nil {
		t.Fatal("Expected holdings to parse")
	}
	if p["AAPL"] != 10 || p["MSFT"] != 5 || p["VOO"] != 3 {
		t.Errorf("Unexpected holdings: %v", p)
	}
	if len(p) != 3 {
		t.Errorf("Expected 3 holdings, got %d", len(p))
	}
}

func TestParsePortfolio_NoHoldings(t *testing.T) {
	// nil means "no portfolio mentioned"; callers must be able to tell that
	// apart from an explicitly empty portfolio.
	for _, text := range []string{"what is AAPL trading at?", "hello", ""} {
		if p := ParsePortfolio(text); p != nil {
			t.Errorf("ParsePortfolio(%q) = %v, want nil", text, p)
		}
	}
}

func TestParsePortfolio_ZeroShares(t *testing.T) {
	if p := ParsePortfolio("I hold 0 AAPL"); p != nil {
		t.Errorf("Zero-share mentions must not parse, got %v", p)
	}
}

func TestSet(t *testing.T) {
	p := make(Portfolio)
	if err := p.Set(" aapl ", 10); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}
	if p["AAPL"] != 10 {
		t.Errorf("Expected canonical AAPL key, got %v", p)
	}

	if err := p.Set("MSFT", 0); err == nil {
		t.Error("Expected error for zero shares")
	}
	if err := p.Set("MSFT", -5); err == nil {
		t.Error("Expected error for negative shares")
	}
	if err := p.Set("  ", 5); err == nil {
		t.Error("Expected error for empty ticker")
	}
}

func TestString(t *testing.T) {
	p, _ := NewPortfolio(map[string]int64{"MSFT": 5, "AAPL": 10})
	if got := p.String(); got != "10 AAPL, 5 MSFT" {
		t.Errorf("Expected sorted rendering, got %q", got)
	}
}

func TestClone_Independent(t *testing.T) {
	p, _ := NewPortfolio(map[string]int64{"AAPL": 10})
	c := p.Clone()
	c["AAPL"] = 99
	if p["AAPL"] != 10 {
		t.Error("Clone must not share storage with the original")
	}
	if Portfolio(nil).Clone() != nil {
		t.Error("Clone of nil must stay nil")
	}
}

package analytics

// riskProfiles keys target allocations by ticker. A second, asset-class-keyed
// table exists under assetClassProfiles; the two are exposed as separate
// tools because they answer different questions.
var riskProfiles = map[string]map[string]float64{
	"conservative": {
		"VOO": 0.50, "BND": 0.30, "GLD": 0.10, "AAPL": 0.05, "QQQ": 0.05,
	},
	"moderate": {
		"VOO": 0.40, "QQQ": 0.25, "AAPL": 0.20, "BND": 0.10, "GLD": 0.05,
	},
	"aggressive": {
		"QQQ": 0.40, "AAPL": 0.30, "VOO": 0.20, "NVDA": 0.10,
	},
}

// assetClassProfiles keys target weights by broad asset class.
var assetClassProfiles = map[string]map[string]float64{
	"conservative": {"equity": 0.40, "bonds": 0.50, "alternatives": 0.10},
	"moderate":     {"equity": 0.60, "bonds": 0.30, "alternatives": 0.10},
	"aggressive":   {"equity": 0.85, "bonds": 0.10, "alternatives": 0.05},
}

// goalSuggestions maps an investing goal to a static, ordered ticker list.
// Order matters: repeated calls must return the same list.
var goalSuggestions = map[string][]string{
	"growth":    {"NVDA", "TSLA", "AAPL", "AMD"},
	"income":    {"JNJ", "PG", "KO", "O", "VZ"},
	"value":     {"BRK-B", "JPM", "CVX", "WMT"},
	"stability": {"VOO", "BND", "XLU"},
	"tech":      {"AAPL", "MSFT", "GOOGL", "NVDA", "AMD"},
	"balanced":  {"VOO", "QQQ", "BND", "VNQ"},
}

package analytics

import (
	"math"
	"testing"
)

func TestLogReturns_SkipsNonPositive(t *testing.T) {
	// Zero and negative closes cannot produce a log return; the series just
	// gets shorter rather than going NaN.
	returns := logReturns([]float64{100, 0, 110, 121})
	if len(returns) != 1 {
		t.Fatalf("Expected 1 usable return, got %d: %v", len(returns), returns)
	}
	if math.Abs(returns[0]-math.Log(1.1)) > 1e-12 {
		t.Errorf("Expected ln(1.1), got %v", returns[0])
	}
}

func TestSampleVariance(t *testing.T) {
	// Var of {2,4,4,4,5,5,7,9} with n-1 is 32/7.
	got := sampleVariance([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	if math.Abs(got-32.0/7.0) > 1e-12 {
		t.Errorf("Expected 32/7, got %v", got)
	}
}

func TestPearson_Undefined(t *testing.T) {
	if _, ok := pearson([]float64{1, 1, 1}, []float64{1, 2, 3}); ok {
		t.Error("Correlation against a constant series must be undefined")
	}
	if _, ok := pearson([]float64{1}, []float64{2}); ok {
		t.Error("Correlation of single points must be undefined")
	}
}

func TestPearson_Perfect(t *testing.T) {
	c, ok := pearson([]float64{1, 2, 3}, []float64{10, 20, 30})
	if !ok || math.Abs(c-1) > 1e-12 {
		t.Errorf("Expected correlation 1, got %v (ok=%v)", c, ok)
	}
	c, ok = pearson([]float64{1, 2, 3}, []float64{3, 2, 1})
	if !ok || math.Abs(c+1) > 1e-12 {
		t.Errorf("Expected correlation -1, got %v (ok=%v)", c, ok)
	}
}

func TestRound4(t *testing.T) {
	if got := round4(1.280479); got != 1.2805 {
		t.Errorf("Expected 1.2805, got %v", got)
	}
	if got := round4(-0.00004); got != 0 {
		t.Errorf("Expected 0, got %v", got)
	}
}

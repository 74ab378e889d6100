package analytics

import "math"

// tradingDaysPerYear annualizes daily return volatility.
const tradingDaysPerYear = 252

var sqrtTradingDays = math.Sqrt(tradingDaysPerYear)

// logReturn is one step of a log-return series.
func logReturn(prev, cur float64) float64 {
	return math.Log(cur / prev)
}

// logReturns computes ln(p_t / p_{t-1}) over consecutive closes.
// Non-positive prices produce no return for that step.
func logReturns(closes []float64) []float64 {
	if len(closes) < 2 {
		return nil
	}
	out := make([]float64, 0, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		if closes[i-1] <= 0 || closes[i] <= 0 {
			continue
		}
		out = append(out, math.Log(closes[i]/closes[i-1]))
	}
	return out
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// sampleVariance uses the n-1 denominator. Requires len >= 2.
func sampleVariance(xs []float64) float64 {
	m := mean(xs)
	var sum float64
	for _, x := range xs {
		d := x - m
		sum += d * d
	}
	return sum / float64(len(xs)-1)
}

func sampleStdev(xs []float64) float64 {
	return math.Sqrt(sampleVariance(xs))
}

// sampleCovariance pairs xs[i] with ys[i]. Slices must be equal length >= 2.
func sampleCovariance(xs, ys []float64) float64 {
	mx, my := mean(xs), mean(ys)
	var sum float64
	for i := range xs {
		sum += (xs[i] - mx) * (ys[i] - my)
	}
	return sum / float64(len(xs)-1)
}

// pearson returns the correlation of two equal-length series and whether it
// is defined (both series need non-zero variance).
func pearson(xs, ys []float64) (float64, bool) {
	if len(xs) < 2 {
		return 0, false
	}
	vx, vy := sampleVariance(xs), sampleVariance(ys)
	if vx == 0 || vy == 0 {
		return 0, false
	}
	return sampleCovariance(xs, ys) / math.Sqrt(vx*vy), true
}

// round4 rounds ratios and scores once, at the output boundary.
func round4(x float64) float64 {
	return math.Round(x*1e4) / 1e4
}

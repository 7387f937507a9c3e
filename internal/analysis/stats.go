package analysis

import "math"

const (
	// confidenceWindow is how many history records feed the confidence
	// ratio.
	confidenceWindow = 50

	// minReturnsForConfidence is the smallest sample the ratio accepts;
	// below it the confidence is 0.
	minReturnsForConfidence = 5

	// confidenceEpsilon keeps the denominator nonzero for flat series.
	confidenceEpsilon = 1e-6
)

// computeMean calculates the arithmetic mean.
func computeMean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// computeStddev calculates population standard deviation (n denominator).
func computeStddev(xs []float64, mean float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sumSq := 0.0
	for _, x := range xs {
		diff := x - mean
		sumSq += diff * diff
	}
	return math.Sqrt(sumSq / float64(len(xs)))
}

// computeReturns derives step-over-step returns from a chronological price
// series: (p[i] - p[i-1]) / p[i-1]. Steps starting from a zero price are
// skipped rather than producing Inf.
func computeReturns(prices []float64) []float64 {
	var returns []float64
	for i := 1; i < len(prices); i++ {
		prev := prices[i-1]
		if prev == 0 {
			continue
		}
		returns = append(returns, (prices[i]-prev)/prev)
	}
	return returns
}

// computeConfidence calculates a Sharpe-like ratio over returns:
// (mean - riskFree) / (stddev + epsilon). Fewer than
// minReturnsForConfidence samples yield 0. Informational only, never
// gates a detection.
func computeConfidence(returns []float64, riskFree float64) float64 {
	if len(returns) < minReturnsForConfidence {
		return 0
	}
	mean := computeMean(returns)
	stddev := computeStddev(returns, mean)
	return (mean - riskFree) / (stddev + confidenceEpsilon)
}

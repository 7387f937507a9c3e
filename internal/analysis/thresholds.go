package analysis

import "time"

const (
	// volatilityScale converts a price-change stddev into an adjustment:
	// adjustment = 1 + volatility/volatilityScale.
	volatilityScale = 50

	// minVolatilitySamples is the smallest window that moves the tracker.
	minVolatilitySamples = 2
)

// Thresholds are the detection bounds. Rug and Pump scale with the
// adaptive adjustment; Dip stays fixed.
type Thresholds struct {
	Rug                 float64       // 24h change percent, negative
	Pump                float64       // 24h change percent, positive
	Dip                 float64       // 24h change percent, negative
	RugLiquidityCeiling float64       // USD, rug requires liquidity below this
	PumpVolumeFloor     float64       // USD, pump requires volume above this
	NewPairWindow       time.Duration // max pair age for a "new" detection
}

// DefaultThresholds returns the stock detection bounds.
func DefaultThresholds() Thresholds {
	return Thresholds{
		Rug:                 -50,
		Pump:                100,
		Dip:                 -10,
		RugLiquidityCeiling: 1000,
		PumpVolumeFloor:     100000,
		NewPairWindow:       24 * time.Hour,
	}
}

// Adjusted scales the volatility-sensitive bounds by the adaptive
// multiplier. Multiplication preserves sign: rug -50 at adjustment 1.2
// becomes -60.
func (t Thresholds) Adjusted(adjustment float64) Thresholds {
	out := t
	out.Rug = t.Rug * adjustment
	out.Pump = t.Pump * adjustment
	return out
}

// AdaptiveTracker derives the threshold adjustment from recent market
// volatility. Cold start reports adjustment 1. Not safe for concurrent
// use; the watcher goroutine owns it.
type AdaptiveTracker struct {
	volatility float64
	adjustment float64
}

// NewAdaptiveTracker creates a tracker in its cold-start state.
func NewAdaptiveTracker() *AdaptiveTracker {
	return &AdaptiveTracker{adjustment: 1}
}

// Update recomputes volatility as the population stddev of the given
// price-change samples. Fewer than two samples leaves state unchanged.
func (a *AdaptiveTracker) Update(samples []float64) {
	if len(samples) < minVolatilitySamples {
		return
	}
	mean := computeMean(samples)
	a.volatility = computeStddev(samples, mean)
	a.adjustment = 1 + a.volatility/volatilityScale
}

// Volatility returns the last computed price-change stddev.
func (a *AdaptiveTracker) Volatility() float64 {
	return a.volatility
}

// Adjustment returns the current threshold multiplier.
func (a *AdaptiveTracker) Adjustment() float64 {
	return a.adjustment
}

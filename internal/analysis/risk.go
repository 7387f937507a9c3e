package analysis

import "math"

const (
	// DefaultPositionFraction caps a single position at this share of the
	// portfolio.
	DefaultPositionFraction = 0.10

	// DefaultPortfolioValue is the assumed bankroll in USD.
	DefaultPortfolioValue = 10000.0

	// liquidityFloorUSD is the pool size at or below which no position is
	// taken.
	liquidityFloorUSD = 100.0

	// liquidityCapFraction bounds a position to a share of pool liquidity
	// so a buy cannot move a thin pool.
	liquidityCapFraction = 0.01
)

// RiskSizer converts pool liquidity into a position size. Sizing
// parameters are fixed at construction, not hot state.
type RiskSizer struct {
	positionFraction float64
	portfolioValue   float64
}

// NewRiskSizer builds a sizer. Zero or negative inputs fall back to the
// defaults.
func NewRiskSizer(positionFraction, portfolioValue float64) *RiskSizer {
	if positionFraction <= 0 {
		positionFraction = DefaultPositionFraction
	}
	if portfolioValue <= 0 {
		portfolioValue = DefaultPortfolioValue
	}
	return &RiskSizer{
		positionFraction: positionFraction,
		portfolioValue:   portfolioValue,
	}
}

// Size returns the position size in units for a pool with the given
// liquidity: the portfolio cap or the liquidity cap, whichever is smaller.
// Non-finite readings and pools at or below the liquidity floor size to 0.
func (r *RiskSizer) Size(liquidityUSD float64) float64 {
	if math.IsNaN(liquidityUSD) || math.IsInf(liquidityUSD, 0) {
		return 0
	}
	if liquidityUSD <= liquidityFloorUSD {
		return 0
	}
	return math.Min(r.positionFraction*r.portfolioValue, liquidityUSD*liquidityCapFraction)
}

package analysis

// FilterConfig is the admission filter applied to every snapshot before
// detection. All three bounds are inclusive minimums.
type FilterConfig struct {
	MinLiquidityUSD   float64
	MinVolume24h      float64
	MinPriceChange24h float64
}

// DefaultFilterConfig returns the stock admission bounds.
func DefaultFilterConfig() FilterConfig {
	return FilterConfig{
		MinLiquidityUSD:   1000,
		MinVolume24h:      10000,
		MinPriceChange24h: -1000,
	}
}

// Passes reports whether an observation clears all three bounds.
func (f FilterConfig) Passes(liquidityUSD, volume24h, priceChange24h float64) bool {
	return liquidityUSD >= f.MinLiquidityUSD &&
		volume24h >= f.MinVolume24h &&
		priceChange24h >= f.MinPriceChange24h
}

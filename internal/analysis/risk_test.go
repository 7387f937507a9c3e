package analysis

import (
	"math"
	"testing"
)

func TestRiskSizer_Defaults(t *testing.T) {
	sizer := NewRiskSizer(0, 0)

	// Deep pool: capped by the portfolio side, 0.10 * 10000 = 1000.
	if got := sizer.Size(200000); !almostEqual(got, 1000) {
		t.Errorf("Size(200000) = %v, want 1000", got)
	}
	// And never above 1% of liquidity.
	if got := sizer.Size(200000); got > 200000*0.01 {
		t.Errorf("Size(200000) = %v, exceeds the liquidity cap %v", got, 200000*0.01)
	}

	// Thin pool: capped by the liquidity side, 5000 * 0.01 = 50.
	if got := sizer.Size(5000); !almostEqual(got, 50) {
		t.Errorf("Size(5000) = %v, want 50", got)
	}
}

func TestRiskSizer_LiquidityFloor(t *testing.T) {
	sizer := NewRiskSizer(0, 0)

	if got := sizer.Size(50); got != 0 {
		t.Errorf("Size(50) = %v, want 0", got)
	}
	// The floor itself is excluded.
	if got := sizer.Size(100); got != 0 {
		t.Errorf("Size(100) = %v, want 0", got)
	}
	if got := sizer.Size(101); got <= 0 {
		t.Errorf("Size(101) = %v, want positive", got)
	}
}

func TestRiskSizer_NonFinite(t *testing.T) {
	sizer := NewRiskSizer(0, 0)

	for _, liq := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		if got := sizer.Size(liq); got != 0 {
			t.Errorf("Size(%v) = %v, want 0", liq, got)
		}
	}
}

func TestRiskSizer_CustomParameters(t *testing.T) {
	sizer := NewRiskSizer(0.05, 50000)

	// 0.05 * 50000 = 2500 vs 500000 * 0.01 = 5000.
	if got := sizer.Size(500000); !almostEqual(got, 2500) {
		t.Errorf("Size(500000) = %v, want 2500", got)
	}

	// Negative construction inputs fall back to defaults.
	fallback := NewRiskSizer(-1, -100)
	if got := fallback.Size(200000); !almostEqual(got, 1000) {
		t.Errorf("Fallback Size(200000) = %v, want 1000", got)
	}
}

package reconciliation

import (
	"math"

	"github.com/shopspring/decimal"
)

// matchTolerance absorbs floating-point noise in quantities read from storage
var matchTolerance = decimal.New(1, -9)

// amount coerces an optional stored number to a decimal. Absent and
// non-finite values count as zero.
func amount(v *float64) decimal.Decimal {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(*v)
}

// optionalAmount keeps nil as nil and coerces everything else like amount.
func optionalAmount(v *float64) *float64 {
	if v == nil {
		return nil
	}
	f := amount(v).InexactFloat64()
	return &f
}

func toFloat(d decimal.Decimal) float64 {
	return d.InexactFloat64()
}

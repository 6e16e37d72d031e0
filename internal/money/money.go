// Package money keeps amount comparisons off raw float equality.
// Amounts live as float64 in the models; every rounding, bucketing and
// tolerance decision goes through decimals here.
package money

import "github.com/shopspring/decimal"

// Tolerance is the absolute slack allowed when a summed side of a
// match group is compared against its single counterpart.
var Tolerance = decimal.RequireFromString("0.01")

// Key returns the canonical 2-decimal form of an amount, used as the
// amount-index bucket key ("1000.00", "0.50", ...).
func Key(amount float64) string {
	return decimal.NewFromFloat(amount).Round(2).StringFixed(2)
}

// Round2 rounds an amount to 2 decimal places.
func Round2(amount float64) float64 {
	f, _ := decimal.NewFromFloat(amount).Round(2).Float64()
	return f
}

// Sum adds a list of amounts exactly.
func Sum(amounts []float64) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(decimal.NewFromFloat(a))
	}
	return total
}

// WithinTolerance reports whether |sum - target| <= Tolerance.
func WithinTolerance(sum decimal.Decimal, target float64) bool {
	diff := sum.Sub(decimal.NewFromFloat(target)).Abs()
	return diff.LessThanOrEqual(Tolerance)
}

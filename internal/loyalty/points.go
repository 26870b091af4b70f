package loyalty

import "math"

// Exchange rates: 10 points buy 1 currency unit of discount, and every
// 10 currency units spent earn 1 point.
const (
	PointsPerCurrencyUnit = 10
	SpendPerPoint         = 10
)

// ClampRedemption returns the points actually redeemed: the requested amount
// capped at the available balance. Redeemed points are deducted in full, not
// just the whole-unit portion that produced a discount.
func ClampRedemption(requested, balance int) int {
	if requested < 0 {
		return 0
	}
	if requested > balance {
		return balance
	}
	return requested
}

// Discount converts redeemed points into currency units, flooring away any
// partial unit below the 10-point threshold.
func Discount(pointsRedeemed int) float64 {
	if pointsRedeemed <= 0 {
		return 0
	}
	return float64(pointsRedeemed / PointsPerCurrencyUnit)
}

// Earned returns the points accrued for a final order total.
func Earned(finalTotal float64) int {
	if finalTotal <= 0 {
		return 0
	}
	return int(math.Floor(finalTotal / SpendPerPoint))
}

// FinalTotal applies the points discount to the caller's pre-redemption
// total, never going below zero.
func FinalTotal(total float64, pointsRedeemed int) float64 {
	final := total - Discount(pointsRedeemed)
	if final < 0 {
		return 0
	}
	return final
}

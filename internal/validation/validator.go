package validation

import (
	"fmt"
	"math"

	validatorv10 "github.com/go-playground/validator/v10"
)

// New returns a configured validator with custom struct-level validation registered.
func New() *validatorv10.Validate {
	v := validatorv10.New()

	// register struct-level validation to ensure the claimed total matches
	// the sum of (price * quantity) of items. The checkout total is the
	// pre-redemption total; the points discount is applied server-side.
	v.RegisterStructValidation(checkoutStructValidation, CheckoutRequest{})
	v.RegisterStructValidation(offlineOrderStructValidation, OfflineOrderRequest{})

	return v
}

func checkoutStructValidation(sl validatorv10.StructLevel) {
	req := sl.Current().Interface().(CheckoutRequest)
	reportTotalMismatch(sl, req.Items, req.Total)
}

func offlineOrderStructValidation(sl validatorv10.StructLevel) {
	req := sl.Current().Interface().(OfflineOrderRequest)
	reportTotalMismatch(sl, req.Items, req.Total)
}

// reportTotalMismatch verifies the aggregated total of items equals Total (within paise).
func reportTotalMismatch(sl validatorv10.StructLevel, items []Item, total float64) {
	var sum float64
	for _, it := range items {
		sum += float64(it.Quantity) * it.Price
	}

	sumPaise := int(math.Round(sum * 100))
	totalPaise := int(math.Round(total * 100))
	if sumPaise != totalPaise {
		sl.ReportError(total, "total", "Total", "total_match_items", fmt.Sprintf("items sum %.2f != total %.2f", sum, total))
	}
}

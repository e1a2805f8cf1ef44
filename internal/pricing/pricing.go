// Package pricing computes order totals. All functions are pure: the
// checkout service feeds them menu snapshots and a resolved delivery zone,
// and persists whatever they return.
package pricing

import (
	"math"
)

// TaxRate is the fixed rate applied to subtotal plus delivery fee
const TaxRate = 0.077

// Line is one cart line reduced to what pricing needs
type Line struct {
	UnitPrice float64
	Quantity  int
}

// Totals is the monetary breakdown persisted on an order at creation.
// It is never recomputed from live menu prices afterwards.
type Totals struct {
	Subtotal    float64 `json:"subtotal"`
	DeliveryFee float64 `json:"delivery_fee"`
	Tax         float64 `json:"tax"`
	Total       float64 `json:"total"`
}

// RoundCHF rounds a monetary amount half-up to cents
func RoundCHF(amount float64) float64 {
	return math.Round(amount*100) / 100
}

// UnitPrice prices a single customized pizza: the base price scaled by the
// size multiplier, plus the crust's flat price, plus the selected toppings.
func UnitPrice(basePrice, sizeMultiplier, crustPrice float64, toppingPrices []float64) float64 {
	price := basePrice*sizeMultiplier + crustPrice
	for _, p := range toppingPrices {
		price += p
	}
	return RoundCHF(price)
}

// Subtotal sums unit price times quantity over all lines
func Subtotal(lines []Line) float64 {
	var sum float64
	for _, l := range lines {
		sum += l.UnitPrice * float64(l.Quantity)
	}
	return RoundCHF(sum)
}

// Quote computes the full breakdown for a cart delivered into a zone with
// the given flat fee. Total = Subtotal + DeliveryFee + Tax, with
// Tax = RoundCHF(TaxRate * (Subtotal + DeliveryFee)). Holds for the empty
// cart as well: everything is zero plus the fee and its tax.
func Quote(lines []Line, deliveryFee float64) Totals {
	subtotal := Subtotal(lines)
	tax := RoundCHF(TaxRate * (subtotal + deliveryFee))
	return Totals{
		Subtotal:    subtotal,
		DeliveryFee: deliveryFee,
		Tax:         tax,
		Total:       RoundCHF(subtotal + deliveryFee + tax),
	}
}

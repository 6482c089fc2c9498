package service

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Cheertaboi/restaurant-service/internal/models"
)

var hundred = decimal.NewFromInt(100)

// roundMoney rounds to whole currency units, half away from zero.
func roundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(0)
}

// Discount computes the coupon discount for subtotal. The result is never
// negative and never exceeds subtotal.
func Discount(c models.Coupon, subtotal decimal.Decimal) decimal.Decimal {
	if subtotal.IsNegative() {
		return decimal.Zero
	}

	var d decimal.Decimal
	switch c.Type {
	case models.DiscountPercent:
		d = roundMoney(subtotal.Mul(c.Value).Div(hundred))
	case models.DiscountFixed:
		d = c.Value
	}

	if d.IsNegative() {
		return decimal.Zero
	}
	return decimal.Min(d, subtotal)
}

// LineUnitPrice prices one unit of item with the chosen variant and add-ons.
// A variant replaces the base price; add-ons are added on top.
func LineUnitPrice(item models.MenuItem, variant string, addons []string) (decimal.Decimal, error) {
	price := item.Price
	if variant != "" {
		v, ok := item.FindVariant(variant)
		if !ok {
			return decimal.Zero, fmt.Errorf("unknown variant %q for %s", variant, item.Name)
		}
		price = v.Price
	}
	for _, name := range addons {
		a, ok := item.FindAddon(name)
		if !ok {
			return decimal.Zero, fmt.Errorf("unknown add-on %q for %s", name, item.Name)
		}
		price = price.Add(a.Price)
	}
	return price, nil
}

type Totals struct {
	Subtotal       decimal.Decimal
	DeliveryFee    decimal.Decimal
	DiscountAmount decimal.Decimal
	TaxAmount      decimal.Decimal
	TotalAmount    decimal.Decimal
}

// ComputeTotals assembles the order totals. Tax applies to the discounted
// subtotal. total = subtotal + delivery fee + tax - discount always holds.
func ComputeTotals(subtotal, deliveryFee, discount, taxPercent decimal.Decimal) Totals {
	discount = decimal.Min(discount, subtotal)
	taxable := subtotal.Sub(discount)
	tax := roundMoney(taxable.Mul(taxPercent).Div(hundred))

	return Totals{
		Subtotal:       subtotal,
		DeliveryFee:    deliveryFee,
		DiscountAmount: discount,
		TaxAmount:      tax,
		TotalAmount:    subtotal.Add(deliveryFee).Add(tax).Sub(discount),
	}
}

// EstimateReady returns when an order placed at now should be ready.
func EstimateReady(now time.Time, t models.OrderType, delivery, takeaway time.Duration) time.Time {
	if t == models.OrderDelivery {
		return now.Add(delivery)
	}
	return now.Add(takeaway)
}

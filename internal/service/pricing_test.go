package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Cheertaboi/restaurant-service/internal/models"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestDiscount(t *testing.T) {
	tests := []struct {
		name     string
		coupon   models.Coupon
		subtotal string
		want     string
	}{
		{"percent", models.Coupon{Type: models.DiscountPercent, Value: d("10")}, "1000", "100"},
		{"percent rounds half up", models.Coupon{Type: models.DiscountPercent, Value: d("15")}, "1010", "152"},
		{"percent rounds down", models.Coupon{Type: models.DiscountPercent, Value: d("15")}, "1003", "150"},
		{"full percent", models.Coupon{Type: models.DiscountPercent, Value: d("100")}, "640", "640"},
		{"fixed", models.Coupon{Type: models.DiscountFixed, Value: d("200")}, "1000", "200"},
		{"fixed capped", models.Coupon{Type: models.DiscountFixed, Value: d("200")}, "150", "150"},
		{"zero subtotal", models.Coupon{Type: models.DiscountFixed, Value: d("200")}, "0", "0"},
		{"unknown type", models.Coupon{Type: "bogo", Value: d("200")}, "1000", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Discount(tt.coupon, d(tt.subtotal))
			assert.True(t, got.Equal(d(tt.want)), "got %s want %s", got, tt.want)
		})
	}
}

func TestDiscount_NeverExceedsSubtotal(t *testing.T) {
	for _, v := range []string{"1", "50", "99", "100"} {
		for _, s := range []string{"0", "1", "333", "999", "12345"} {
			c := models.Coupon{Type: models.DiscountPercent, Value: d(v)}
			got := Discount(c, d(s))
			assert.False(t, got.IsNegative())
			assert.True(t, got.LessThanOrEqual(d(s)), "percent %s of %s gave %s", v, s, got)
		}
	}
}

func TestComputeTotals(t *testing.T) {
	got := ComputeTotals(d("2000"), d("150"), d("200"), d("16"))

	// tax on (2000 - 200) at 16%
	assert.True(t, got.TaxAmount.Equal(d("288")))
	assert.True(t, got.TotalAmount.Equal(d("2238")))
}

func TestComputeTotals_Invariant(t *testing.T) {
	cases := [][4]string{
		{"0", "0", "0", "0"},
		{"1190", "150", "119", "5"},
		{"999", "0", "5000", "17"},
		{"5400", "250", "540", "13"},
	}
	for _, c := range cases {
		got := ComputeTotals(d(c[0]), d(c[1]), d(c[2]), d(c[3]))
		want := got.Subtotal.Add(got.DeliveryFee).Add(got.TaxAmount).Sub(got.DiscountAmount)
		assert.True(t, got.TotalAmount.Equal(want))
		assert.True(t, got.DiscountAmount.LessThanOrEqual(got.Subtotal))
	}
}

func TestLineUnitPrice(t *testing.T) {
	item := models.MenuItem{
		Name:     "Chicken Karahi",
		Price:    d("1200"),
		Variants: []models.Variant{{Name: "Full", Price: d("2200")}},
		Addons:   []models.Addon{{Name: "Extra Butter", Price: d("150")}, {Name: "Raita", Price: d("80")}},
	}

	price, err := LineUnitPrice(item, "", nil)
	require.NoError(t, err)
	assert.True(t, price.Equal(d("1200")))

	price, err = LineUnitPrice(item, "Full", []string{"Extra Butter", "Raita"})
	require.NoError(t, err)
	assert.True(t, price.Equal(d("2430")))

	_, err = LineUnitPrice(item, "Family", nil)
	assert.Error(t, err)
	_, err = LineUnitPrice(item, "", []string{"Cheese"})
	assert.Error(t, err)
}

func TestEstimateReady(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, now.Add(45*time.Minute), EstimateReady(now, models.OrderDelivery, 45*time.Minute, 20*time.Minute))
	assert.Equal(t, now.Add(20*time.Minute), EstimateReady(now, models.OrderTakeaway, 45*time.Minute, 20*time.Minute))
}

func TestNewNumbers(t *testing.T) {
	now := time.UnixMilli(1767225612345)

	order := NewOrderNumber(now)
	assert.Regexp(t, `^DF25612345[0-9A-F]{4}$`, order)

	res := NewReservationNumber(now)
	assert.Regexp(t, `^RES25612345[0-9A-F]{4}$`, res)

	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		seen[NewOrderNumber(now)] = true
	}
	assert.Greater(t, len(seen), 190, "same-millisecond numbers should rarely collide")
}

func TestStoreFailure(t *testing.T) {
	var se *Error

	err := storeFailure("Failed to create order", errors.New("connection reset"))
	require.ErrorAs(t, err, &se)
	assert.Equal(t, KindPersistence, se.Kind)
	assert.Equal(t, "Failed to create order", se.Message)

	err = storeFailure("x", models.ErrDuplicate)
	require.ErrorAs(t, err, &se)
	assert.Equal(t, CodeDuplicate, se.Code)

	err = storeFailure("x", context.DeadlineExceeded)
	require.ErrorAs(t, err, &se)
	assert.Equal(t, KindTimeout, se.Kind)

	slotFull := ineligible(CodeSlotFull, "Time slot is not available")
	assert.Same(t, slotFull, storeFailure("x", slotFull))
}

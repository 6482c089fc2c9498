package messaging

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Cheertaboi/restaurant-service/internal/models"
)

func TestNewOrderPlaced(t *testing.T) {
	placed := time.Date(2026, 3, 1, 19, 0, 0, 0, time.UTC)
	code := "WELCOME10"
	o := models.Order{
		OrderNumber:   "DF12345678ABCD",
		OrderType:     models.OrderDelivery,
		CustomerName:  "Ayesha",
		CustomerPhone: "03001234567",
		Items: []models.OrderItem{
			{Name: "Chicken Karahi", Quantity: 2, Variant: "Full", UnitPrice: decimal.NewFromInt(1800)},
		},
		TotalAmount:       decimal.NewFromInt(3390),
		CouponCode:        &code,
		EstimatedDelivery: placed.Add(45 * time.Minute),
		CreatedAt:         placed,
	}

	key, event := newOrderPlaced(o)
	assert.Equal(t, "order.placed.delivery", key)
	assert.Equal(t, "DF12345678ABCD", event.OrderNumber)
	require.Len(t, event.Items, 1)
	assert.Equal(t, EventItem{Name: "Chicken Karahi", Quantity: 2, Variant: "Full"}, event.Items[0])

	body, err := json.Marshal(event)
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(body, &decoded))
	assert.Equal(t, "WELCOME10", decoded["coupon_code"])
	assert.Equal(t, "delivery", decoded["order_type"])
}

func TestNewReservationConfirmed(t *testing.T) {
	r := models.Reservation{
		ReservationNumber: "RES12345678ABCD",
		CustomerName:      "Bilal",
		PartySize:         4,
		ReservationDate:   "2026-03-02",
		ReservationTime:   "19:30",
	}

	key, event := newReservationConfirmed(r)
	assert.Equal(t, "reservation.confirmed", key)
	assert.Equal(t, 4, event.PartySize)
	assert.Equal(t, "19:30", event.Time)
}

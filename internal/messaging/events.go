package messaging

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Cheertaboi/restaurant-service/internal/models"
)

const (
	routingOrderPlaced          = "order.placed."
	routingReservationConfirmed = "reservation.confirmed"
)

// OrderPlacedEvent is published once an order has committed. Kitchen and
// notification consumers bind on "order.placed.*".
type OrderPlacedEvent struct {
	OrderNumber       string          `json:"order_number"`
	OrderType         string          `json:"order_type"`
	CustomerName      string          `json:"customer_name"`
	CustomerPhone     string          `json:"customer_phone"`
	Items             []EventItem     `json:"items"`
	TotalAmount       decimal.Decimal `json:"total_amount"`
	CouponCode        *string         `json:"coupon_code,omitempty"`
	EstimatedDelivery time.Time       `json:"estimated_delivery"`
	PlacedAt          time.Time       `json:"placed_at"`
}

type EventItem struct {
	Name     string   `json:"name"`
	Quantity int      `json:"quantity"`
	Variant  string   `json:"variant,omitempty"`
	Addons   []string `json:"addons,omitempty"`
}

type ReservationConfirmedEvent struct {
	ReservationNumber string    `json:"reservation_number"`
	CustomerName      string    `json:"customer_name"`
	CustomerPhone     string    `json:"customer_phone"`
	PartySize         int       `json:"party_size"`
	Date              string    `json:"date"`
	Time              string    `json:"time"`
	ConfirmedAt       time.Time `json:"confirmed_at"`
}

func newOrderPlaced(o models.Order) (string, OrderPlacedEvent) {
	items := make([]EventItem, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, EventItem{
			Name:     it.Name,
			Quantity: it.Quantity,
			Variant:  it.Variant,
			Addons:   it.Addons,
		})
	}
	return routingOrderPlaced + string(o.OrderType), OrderPlacedEvent{
		OrderNumber:       o.OrderNumber,
		OrderType:         string(o.OrderType),
		CustomerName:      o.CustomerName,
		CustomerPhone:     o.CustomerPhone,
		Items:             items,
		TotalAmount:       o.TotalAmount,
		CouponCode:        o.CouponCode,
		EstimatedDelivery: o.EstimatedDelivery,
		PlacedAt:          o.CreatedAt,
	}
}

func newReservationConfirmed(r models.Reservation) (string, ReservationConfirmedEvent) {
	return routingReservationConfirmed, ReservationConfirmedEvent{
		ReservationNumber: r.ReservationNumber,
		CustomerName:      r.CustomerName,
		CustomerPhone:     r.CustomerPhone,
		PartySize:         r.PartySize,
		Date:              r.ReservationDate,
		Time:              r.ReservationTime,
		ConfirmedAt:       r.CreatedAt,
	}
}

package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderType string

const (
	OrderDelivery OrderType = "delivery"
	OrderTakeaway OrderType = "takeaway"
)

func (t OrderType) Valid() bool {
	return t == OrderDelivery || t == OrderTakeaway
}

const (
	PaymentPending   = "pending"
	PaymentCompleted = "completed"
)

// CartItem is one line as submitted by the customer. UnitPrice is what the
// client displayed; it is checked, never trusted.
type CartItem struct {
	MenuItemID int              `json:"menu_item_id"`
	Quantity   int              `json:"quantity"`
	Variant    string           `json:"variant,omitempty"`
	Addons     []string         `json:"addons,omitempty"`
	UnitPrice  *decimal.Decimal `json:"unit_price,omitempty"`
}

// OrderItem is a priced line stored with the order.
type OrderItem struct {
	MenuItemID int             `json:"menu_item_id"`
	Name       string          `json:"name"`
	Quantity   int             `json:"quantity"`
	Variant    string          `json:"variant,omitempty"`
	Addons     []string        `json:"addons,omitempty"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	LineTotal  decimal.Decimal `json:"line_total"`
}

type Order struct {
	ID                int64           `json:"id"`
	OrderNumber       string          `json:"order_number"`
	CustomerName      string          `json:"customer_name"`
	CustomerPhone     string          `json:"customer_phone"`
	CustomerEmail     string          `json:"customer_email"`
	OrderType         OrderType       `json:"order_type"`
	DeliveryAddress   string          `json:"delivery_address"`
	DeliveryNotes     string          `json:"delivery_notes"`
	Items             []OrderItem     `json:"items"`
	Subtotal          decimal.Decimal `json:"subtotal"`
	DeliveryFee       decimal.Decimal `json:"delivery_fee"`
	DiscountAmount    decimal.Decimal `json:"discount_amount"`
	TaxAmount         decimal.Decimal `json:"tax_amount"`
	TotalAmount       decimal.Decimal `json:"total_amount"`
	CouponCode        *string         `json:"coupon_code"`
	PaymentMethod     string          `json:"payment_method"`
	PaymentStatus     string          `json:"payment_status"`
	EstimatedDelivery time.Time       `json:"estimated_delivery"`
	CreatedAt         time.Time       `json:"created_at"`
}

type OrderFilter struct {
	Phone       string
	OrderNumber string
}

package handlers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/Cheertaboi/restaurant-service/internal/models"
	"github.com/Cheertaboi/restaurant-service/internal/service"
)

// CreateOrderRequest carries the client's view of the totals. They are
// checked against the server computation and never stored as sent.
type CreateOrderRequest struct {
	CustomerName    string            `json:"customer_name"`
	CustomerPhone   string            `json:"customer_phone"`
	CustomerEmail   string            `json:"customer_email"`
	OrderType       models.OrderType  `json:"order_type"`
	DeliveryAddress string            `json:"delivery_address"`
	DeliveryNotes   string            `json:"delivery_notes"`
	DeliveryZoneID  *int              `json:"delivery_zone_id"`
	Items           []models.CartItem `json:"items"`
	Subtotal        *decimal.Decimal  `json:"subtotal"`
	DeliveryFee     *decimal.Decimal  `json:"delivery_fee"`
	DiscountAmount  *decimal.Decimal  `json:"discount_amount"`
	TaxAmount       *decimal.Decimal  `json:"tax_amount"`
	TotalAmount     *decimal.Decimal  `json:"total_amount"`
	CouponCode      string            `json:"coupon_code"`
	PaymentMethod   string            `json:"payment_method"`
}

type OrderHandler struct {
	service *service.OrderService
}

func NewOrderHandler(svc *service.OrderService) *OrderHandler {
	return &OrderHandler{service: svc}
}

// CreateOrder handles POST /orders
func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	order, err := h.service.PlaceOrder(r.Context(), service.OrderRequest{
		CustomerName:    req.CustomerName,
		CustomerPhone:   req.CustomerPhone,
		CustomerEmail:   req.CustomerEmail,
		OrderType:       req.OrderType,
		DeliveryAddress: req.DeliveryAddress,
		DeliveryNotes:   req.DeliveryNotes,
		DeliveryZoneID:  req.DeliveryZoneID,
		Items:           req.Items,
		CouponCode:      req.CouponCode,
		PaymentMethod:   req.PaymentMethod,
		Claimed: service.ClaimedTotals{
			Subtotal:       req.Subtotal,
			DeliveryFee:    req.DeliveryFee,
			DiscountAmount: req.DiscountAmount,
			TaxAmount:      req.TaxAmount,
			TotalAmount:    req.TotalAmount,
		},
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, order, "Order placed successfully! Your order number is "+order.OrderNumber)
}

// ListOrders handles GET /orders?phone=&order_number=
func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	out, err := h.service.List(r.Context(), models.OrderFilter{
		Phone:       q.Get("phone"),
		OrderNumber: q.Get("order_number"),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, out, "")
}

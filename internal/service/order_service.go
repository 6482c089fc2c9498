package service

import (
	"context"
	"database/sql"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Cheertaboi/restaurant-service/internal/config"
	"github.com/Cheertaboi/restaurant-service/internal/logger"
	"github.com/Cheertaboi/restaurant-service/internal/models"
)

// OrderRequest is a checkout as submitted by the customer. Claimed holds the
// totals the client displayed; they are compared against the server
// computation, never stored.
type OrderRequest struct {
	CustomerName    string
	CustomerPhone   string
	CustomerEmail   string
	OrderType       models.OrderType
	DeliveryAddress string
	DeliveryNotes   string
	DeliveryZoneID  *int
	Items           []models.CartItem
	CouponCode      string
	PaymentMethod   string
	Claimed         ClaimedTotals
}

// ClaimedTotals are optional client-side amounts. Nil fields are not checked.
type ClaimedTotals struct {
	Subtotal       *decimal.Decimal
	DeliveryFee    *decimal.Decimal
	DiscountAmount *decimal.Decimal
	TaxAmount      *decimal.Decimal
	TotalAmount    *decimal.Decimal
}

type OrderService struct {
	tx         Transactor
	orderRepo  OrderRepo
	itemRepo   ItemRepo
	couponRepo CouponRepo
	usageRepo  UsageRepo
	zones      CatalogRepo
	publisher  EventPublisher
	pricing    config.PricingConfig
	timeout    time.Duration
	now        func() time.Time
	log        *slog.Logger
}

func NewOrderService(
	tx Transactor,
	oRepo OrderRepo,
	iRepo ItemRepo,
	cRepo CouponRepo,
	uRepo UsageRepo,
	zones CatalogRepo,
	publisher EventPublisher,
	pricing config.PricingConfig,
	timeout time.Duration,
	log *slog.Logger,
) *OrderService {
	return &OrderService{
		tx:         tx,
		orderRepo:  oRepo,
		itemRepo:   iRepo,
		couponRepo: cRepo,
		usageRepo:  uRepo,
		zones:      zones,
		publisher:  publisher,
		pricing:    pricing,
		timeout:    timeout,
		now:        time.Now,
		log:        log,
	}
}

// SetClock replaces time.Now; used by tests.
func (s *OrderService) SetClock(now func() time.Time) { s.now = now }

func (s *OrderService) validate(req *OrderRequest) error {
	req.CustomerName = strings.TrimSpace(req.CustomerName)
	req.CustomerPhone = strings.TrimSpace(req.CustomerPhone)
	req.CustomerEmail = strings.TrimSpace(req.CustomerEmail)
	req.DeliveryAddress = strings.TrimSpace(req.DeliveryAddress)
	req.CouponCode = strings.TrimSpace(req.CouponCode)

	if req.CustomerName == "" || req.CustomerPhone == "" {
		return validationf("Name and phone number are required")
	}
	if !req.OrderType.Valid() {
		return validationf("Order type must be delivery or takeaway")
	}
	if req.OrderType == models.OrderDelivery && req.DeliveryAddress == "" {
		return validationf("Delivery address is required for delivery orders")
	}
	if len(req.Items) == 0 {
		return validationf("Your cart is empty")
	}
	for _, it := range req.Items {
		if it.Quantity < 1 || it.Quantity > s.pricing.MaxQuantity {
			return validationf("Quantity must be between 1 and %d", s.pricing.MaxQuantity)
		}
	}
	if req.PaymentMethod == "" {
		req.PaymentMethod = s.pricing.PaymentMethods[0]
	}
	if !slices.Contains(s.pricing.PaymentMethods, req.PaymentMethod) {
		return validationf("Payment method %q is not accepted", req.PaymentMethod)
	}
	return nil
}

// priceItems rebuilds every line from the menu. Client unit prices are
// checked against the menu and otherwise ignored.
func (s *OrderService) priceItems(ctx context.Context, cart []models.CartItem) ([]models.OrderItem, decimal.Decimal, error) {
	ids := make([]int, 0, len(cart))
	for _, it := range cart {
		ids = append(ids, it.MenuItemID)
	}
	menu, err := s.itemRepo.GetPricing(ctx, ids)
	if err != nil {
		return nil, decimal.Zero, err
	}

	items := make([]models.OrderItem, 0, len(cart))
	subtotal := decimal.Zero
	for _, it := range cart {
		m, ok := menu[it.MenuItemID]
		if !ok {
			return nil, decimal.Zero, validationf("Menu item %d does not exist", it.MenuItemID)
		}
		if !m.IsAvailable {
			return nil, decimal.Zero, validationf("%s is currently unavailable", m.Name)
		}
		unit, err := LineUnitPrice(m, it.Variant, it.Addons)
		if err != nil {
			return nil, decimal.Zero, validationf("%s", err.Error())
		}
		if it.UnitPrice != nil && !withinTolerance(*it.UnitPrice, unit, s.pricing.TotalTolerance) {
			return nil, decimal.Zero, totalMismatch()
		}

		line := unit.Mul(decimal.NewFromInt(int64(it.Quantity)))
		items = append(items, models.OrderItem{
			MenuItemID: m.ID,
			Name:       m.Name,
			Quantity:   it.Quantity,
			Variant:    it.Variant,
			Addons:     it.Addons,
			UnitPrice:  unit,
			LineTotal:  line,
		})
		subtotal = subtotal.Add(line)
	}
	return items, subtotal, nil
}

func (s *OrderService) deliveryFee(ctx context.Context, req OrderRequest, subtotal decimal.Decimal) (decimal.Decimal, error) {
	if req.OrderType != models.OrderDelivery {
		return decimal.Zero, nil
	}
	if req.DeliveryZoneID == nil {
		return s.pricing.DefaultDeliveryFee, nil
	}

	zone, err := s.zones.GetDeliveryZone(ctx, *req.DeliveryZoneID)
	if err != nil {
		return decimal.Zero, err
	}
	if zone == nil {
		return decimal.Zero, validationf("We do not deliver to the selected area")
	}
	if subtotal.LessThan(zone.MinOrder) {
		return decimal.Zero, validationf("Minimum order for %s is %s %s", zone.Name, s.pricing.Currency, zone.MinOrder.String())
	}
	return zone.Fee, nil
}

func withinTolerance(claimed, actual, tolerance decimal.Decimal) bool {
	return claimed.Sub(actual).Abs().LessThanOrEqual(tolerance)
}

func totalMismatch() *Error {
	return &Error{Kind: KindValidation, Code: CodeTotalMismatch, Message: "Prices have changed, please review your cart and try again"}
}

func (c ClaimedTotals) check(t Totals, tolerance decimal.Decimal) error {
	pairs := []struct {
		claimed *decimal.Decimal
		actual  decimal.Decimal
	}{
		{c.Subtotal, t.Subtotal},
		{c.DeliveryFee, t.DeliveryFee},
		{c.DiscountAmount, t.DiscountAmount},
		{c.TaxAmount, t.TaxAmount},
		{c.TotalAmount, t.TotalAmount},
	}
	for _, p := range pairs {
		if p.claimed != nil && !withinTolerance(*p.claimed, p.actual, tolerance) {
			return totalMismatch()
		}
	}
	return nil
}

// PlaceOrder prices the cart on the server, consumes the coupon if any and
// stores the order. Coupon consumption, the order row and the redemption
// record commit together or not at all.
func (s *OrderService) PlaceOrder(ctx context.Context, req OrderRequest) (*models.Order, error) {
	if err := s.validate(&req); err != nil {
		return nil, err
	}

	now := s.now()
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	items, subtotal, err := s.priceItems(ctx, req.Items)
	if err != nil {
		return nil, fail(ctx, s.log, "order_pricing", "Failed to create order", err)
	}
	fee, err := s.deliveryFee(ctx, req, subtotal)
	if err != nil {
		return nil, fail(ctx, s.log, "order_delivery_fee", "Failed to create order", err)
	}

	order := &models.Order{
		CustomerName:      req.CustomerName,
		CustomerPhone:     req.CustomerPhone,
		CustomerEmail:     req.CustomerEmail,
		OrderType:         req.OrderType,
		DeliveryNotes:     strings.TrimSpace(req.DeliveryNotes),
		Items:             items,
		PaymentMethod:     req.PaymentMethod,
		PaymentStatus:     models.PaymentPending,
		EstimatedDelivery: EstimateReady(now, req.OrderType, s.pricing.DeliveryETA, s.pricing.TakeawayETA),
	}
	if req.OrderType == models.OrderDelivery {
		order.DeliveryAddress = req.DeliveryAddress
	}

	err = s.tx.InTx(ctx, func(tx *sql.Tx) error {
		discount := decimal.Zero
		var coupon *models.Coupon
		if req.CouponCode != "" {
			c, err := s.couponRepo.ConsumeCoupon(ctx, tx, req.CouponCode)
			if err != nil {
				return err
			}
			if c == nil {
				return ineligible(CodeInvalidOrExpiredCoupon, "Invalid or expired coupon code")
			}
			if err := checkMinimum(*c, subtotal, s.pricing.Currency); err != nil {
				return err
			}
			coupon = c
			discount = Discount(*c, subtotal)
			code := c.Code
			order.CouponCode = &code
		}

		totals := ComputeTotals(subtotal, fee, discount, s.pricing.TaxPercent)
		if err := req.Claimed.check(totals, s.pricing.TotalTolerance); err != nil {
			return err
		}
		order.Subtotal = totals.Subtotal
		order.DeliveryFee = totals.DeliveryFee
		order.DiscountAmount = totals.DiscountAmount
		order.TaxAmount = totals.TaxAmount
		order.TotalAmount = totals.TotalAmount

		inserted := false
		for attempt := 0; attempt < maxNumberAttempts && !inserted; attempt++ {
			order.OrderNumber = NewOrderNumber(s.now())
			ok, err := s.orderRepo.InsertOrder(ctx, tx, order)
			if err != nil {
				return err
			}
			inserted = ok
		}
		if !inserted {
			return &Error{Kind: KindPersistence, Message: "Failed to create order"}
		}

		if coupon != nil {
			return s.usageRepo.RecordRedemption(ctx, tx, models.CouponRedemption{
				CouponID:       coupon.ID,
				OrderNumber:    order.OrderNumber,
				DiscountAmount: discount,
				RedeemedAt:     now,
			})
		}
		return nil
	})
	if err != nil {
		return nil, fail(ctx, s.log, "order_create", "Failed to create order", err)
	}

	logger.FromContext(ctx, s.log).Info("order placed",
		slog.String("order_number", order.OrderNumber),
		slog.String("order_type", string(order.OrderType)),
		slog.String("total", order.TotalAmount.String()),
	)
	if err := s.publisher.PublishOrderPlaced(ctx, *order); err != nil {
		logger.FromContext(ctx, s.log).Warn("failed to publish order event",
			slog.String("order_number", order.OrderNumber),
			slog.Any("error", err),
		)
	}
	return order, nil
}

// List returns orders newest first. Filters are optional and ANDed.
func (s *OrderService) List(ctx context.Context, f models.OrderFilter) ([]models.Order, error) {
	f.Phone = strings.TrimSpace(f.Phone)
	f.OrderNumber = strings.TrimSpace(f.OrderNumber)

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	out, err := s.orderRepo.ListOrders(ctx, f)
	if err != nil {
		return nil, fail(ctx, s.log, "order_list", "Failed to fetch orders", err)
	}
	return out, nil
}

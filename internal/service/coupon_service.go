package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Cheertaboi/restaurant-service/internal/models"
)

type CouponService struct {
	couponRepo CouponRepo
	timeout    time.Duration
	currency   string
	log        *slog.Logger
}

func NewCouponService(cRepo CouponRepo, timeout time.Duration, currency string, log *slog.Logger) *CouponService {
	return &CouponService{
		couponRepo: cRepo,
		timeout:    timeout,
		currency:   currency,
		log:        log,
	}
}

// ValidateCoupon checks code against subtotal without consuming a use. The
// returned message is the customer-facing success text.
func (s *CouponService) ValidateCoupon(ctx context.Context, code string, subtotal decimal.Decimal) (*models.CouponValidation, string, error) {
	if strings.TrimSpace(code) == "" {
		return nil, "", validationf("Coupon code is required")
	}
	if subtotal.IsNegative() {
		return nil, "", validationf("Subtotal must not be negative")
	}

	// short request-scoped deadline to avoid long-running ops
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	c, err := s.couponRepo.GetEligibleCoupon(ctx, code)
	if err != nil {
		return nil, "", fail(ctx, s.log, "coupon_validate", "Failed to validate coupon", err)
	}
	if c == nil {
		return nil, "", ineligible(CodeInvalidOrExpiredCoupon, "Invalid or expired coupon code")
	}
	if err := checkMinimum(*c, subtotal, s.currency); err != nil {
		return nil, "", err
	}

	discount := Discount(*c, subtotal)
	return &models.CouponValidation{
		Code:           c.Code,
		Type:           c.Type,
		Value:          c.Value,
		DiscountAmount: discount,
	}, "Coupon applied! You saved " + s.currency + " " + discount.String(), nil
}

// checkMinimum rejects subtotals below the coupon's minimum. A zero or
// missing minimum means no minimum.
func checkMinimum(c models.Coupon, subtotal decimal.Decimal, currency string) error {
	if c.MinSubtotal == nil || !c.MinSubtotal.IsPositive() {
		return nil
	}
	if subtotal.LessThan(*c.MinSubtotal) {
		return ineligible(CodeMinimumNotMet,
			"Minimum order amount of "+currency+" "+c.MinSubtotal.String()+" required for this coupon")
	}
	return nil
}

// CreateCoupon registers a new coupon code.
func (s *CouponService) CreateCoupon(ctx context.Context, c *models.Coupon) error {
	c.Code = strings.TrimSpace(c.Code)
	switch {
	case c.Code == "":
		return validationf("Coupon code is required")
	case !c.Type.Valid():
		return validationf("Coupon type must be percent or fixed")
	case !c.Value.IsPositive():
		return validationf("Coupon value must be greater than zero")
	case c.Type == models.DiscountPercent && c.Value.GreaterThan(hundred):
		return validationf("Percent coupons cannot exceed 100")
	case c.UsageLimit != nil && *c.UsageLimit < 0:
		return validationf("Usage limit must not be negative")
	case c.MinSubtotal != nil && c.MinSubtotal.IsNegative():
		return validationf("Minimum subtotal must not be negative")
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.couponRepo.CreateCoupon(ctx, c); err != nil {
		classified := fail(ctx, s.log, "coupon_create", "Failed to create coupon", err)
		if se, ok := classified.(*Error); ok && se.Code == CodeDuplicate {
			se.Message = "Coupon code already exists"
		}
		return classified
	}
	return nil
}

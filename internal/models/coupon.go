package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type DiscountType string

const (
	DiscountPercent DiscountType = "percent"
	DiscountFixed   DiscountType = "fixed"
)

func (t DiscountType) Valid() bool {
	return t == DiscountPercent || t == DiscountFixed
}

type Coupon struct {
	ID          int              `json:"id"`
	Code        string           `json:"code"`
	Type        DiscountType     `json:"type"`
	Value       decimal.Decimal  `json:"value"`
	IsActive    bool             `json:"is_active"`
	ExpiresAt   *time.Time       `json:"expires_at"`
	UsageLimit  *int             `json:"usage_limit"`
	UsedCount   int              `json:"used_count"`
	MinSubtotal *decimal.Decimal `json:"min_subtotal"`
	CreatedAt   time.Time        `json:"created_at"`
}

// Eligible mirrors the store-side filter: active, unexpired at now, and
// under its usage limit.
func (c Coupon) Eligible(now time.Time) bool {
	if !c.IsActive {
		return false
	}
	if c.ExpiresAt != nil && !c.ExpiresAt.After(now) {
		return false
	}
	if c.UsageLimit != nil && c.UsedCount >= *c.UsageLimit {
		return false
	}
	return true
}

// CouponValidation is the result of a successful validation.
type CouponValidation struct {
	Code           string          `json:"code"`
	Type           DiscountType    `json:"type"`
	Value          decimal.Decimal `json:"value"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`
}

// CouponRedemption links a consumed coupon use to the order that consumed it.
type CouponRedemption struct {
	CouponID       int             `json:"coupon_id"`
	OrderNumber    string          `json:"order_number"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	RedeemedAt     time.Time       `json:"redeemed_at"`
}

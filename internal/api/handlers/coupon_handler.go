package handlers

import (
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Cheertaboi/restaurant-service/internal/models"
	"github.com/Cheertaboi/restaurant-service/internal/service"
)

// --- Request DTOs ---

type ValidateCouponRequest struct {
	Code     string          `json:"code"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

type CreateCouponRequest struct {
	Code        string              `json:"code"`
	Type        models.DiscountType `json:"type"`
	Value       decimal.Decimal     `json:"value"`
	IsActive    *bool               `json:"is_active"`
	ExpiresAt   *time.Time          `json:"expires_at"` // RFC3339
	UsageLimit  *int                `json:"usage_limit"`
	MinSubtotal *decimal.Decimal    `json:"min_subtotal"`
}

type CouponHandler struct {
	service *service.CouponService
}

func NewCouponHandler(svc *service.CouponService) *CouponHandler {
	return &CouponHandler{service: svc}
}

// ValidateCoupon handles POST /coupons/validate. Nothing is consumed.
func (h *CouponHandler) ValidateCoupon(w http.ResponseWriter, r *http.Request) {
	var req ValidateCouponRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	result, message, err := h.service.ValidateCoupon(r.Context(), req.Code, req.Subtotal)
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, result, message)
}

// CreateCoupon handles POST /admin/coupons
func (h *CouponHandler) CreateCoupon(w http.ResponseWriter, r *http.Request) {
	var req CreateCouponRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	c := &models.Coupon{
		Code:        req.Code,
		Type:        req.Type,
		Value:       req.Value,
		IsActive:    true,
		ExpiresAt:   req.ExpiresAt,
		UsageLimit:  req.UsageLimit,
		MinSubtotal: req.MinSubtotal,
	}
	if req.IsActive != nil {
		c.IsActive = *req.IsActive
	}

	if err := h.service.CreateCoupon(r.Context(), c); err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusCreated, c, "Coupon created successfully")
}

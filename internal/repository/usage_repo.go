package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Cheertaboi/restaurant-service/internal/models"
)

// UsageRepo keeps the per-order ledger of coupon redemptions.
type UsageRepo struct {
	db *sql.DB
}

func NewUsageRepo(db *sql.DB) *UsageRepo {
	return &UsageRepo{db: db}
}

// RecordRedemption must run in the same transaction as the coupon consume
// and the order insert.
func (r *UsageRepo) RecordRedemption(ctx context.Context, tx *sql.Tx, red models.CouponRedemption) error {
	query := `
		INSERT INTO coupon_redemptions (coupon_id, order_number, discount_amount, redeemed_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := tx.ExecContext(ctx, query, red.CouponID, red.OrderNumber, red.DiscountAmount, red.RedeemedAt)
	if err != nil {
		return fmt.Errorf("record redemption for %s: %w", red.OrderNumber, err)
	}
	return nil
}

package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/Cheertaboi/restaurant-service/internal/models"
)

type CouponRepo struct {
	db *sql.DB
}

func NewCouponRepo(db *sql.DB) *CouponRepo {
	return &CouponRepo{db: db}
}

const couponColumns = `id, code, type, value, is_active, expires_at, usage_limit, used_count, min_subtotal, created_at`

// eligibleCouponWhere is shared by the read-only lookup and the consuming
// update so both apply the same predicate.
const eligibleCouponWhere = `
	code = $1
	AND is_active = true
	AND (expires_at IS NULL OR expires_at > NOW())
	AND (usage_limit IS NULL OR used_count < usage_limit)`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCoupon(row rowScanner) (*models.Coupon, error) {
	var (
		c           models.Coupon
		expiresAt   sql.NullTime
		usageLimit  sql.NullInt64
		minSubtotal decimal.NullDecimal
	)
	err := row.Scan(
		&c.ID,
		&c.Code,
		&c.Type,
		&c.Value,
		&c.IsActive,
		&expiresAt,
		&usageLimit,
		&c.UsedCount,
		&minSubtotal,
		&c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if expiresAt.Valid {
		t := expiresAt.Time
		c.ExpiresAt = &t
	}
	if usageLimit.Valid {
		n := int(usageLimit.Int64)
		c.UsageLimit = &n
	}
	if minSubtotal.Valid {
		d := minSubtotal.Decimal
		c.MinSubtotal = &d
	}
	return &c, nil
}

func (r *CouponRepo) GetEligibleCoupon(ctx context.Context, code string) (*models.Coupon, error) {
	query := `SELECT ` + couponColumns + ` FROM coupons WHERE ` + eligibleCouponWhere

	c, err := scanCoupon(r.db.QueryRowContext(ctx, query, code))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get coupon %q: %w", code, err)
	}
	return c, nil
}

// ConsumeCoupon is a single conditional increment: the affected row count is
// the eligibility check, so two racing orders cannot both take the last use.
func (r *CouponRepo) ConsumeCoupon(ctx context.Context, tx *sql.Tx, code string) (*models.Coupon, error) {
	query := `
		UPDATE coupons
		SET used_count = used_count + 1
		WHERE ` + eligibleCouponWhere + `
		RETURNING ` + couponColumns

	c, err := scanCoupon(tx.QueryRowContext(ctx, query, code))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("consume coupon %q: %w", code, err)
	}
	return c, nil
}

func (r *CouponRepo) CreateCoupon(ctx context.Context, c *models.Coupon) error {
	query := `
		INSERT INTO coupons (code, type, value, is_active, expires_at, usage_limit, min_subtotal)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, used_count, created_at
	`

	var minSubtotal decimal.NullDecimal
	if c.MinSubtotal != nil {
		minSubtotal = decimal.NewNullDecimal(*c.MinSubtotal)
	}

	err := r.db.QueryRowContext(ctx, query,
		c.Code,
		c.Type,
		c.Value,
		c.IsActive,
		c.ExpiresAt,
		c.UsageLimit,
		minSubtotal,
	).Scan(&c.ID, &c.UsedCount, &c.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return models.ErrDuplicate
		}
		return fmt.Errorf("create coupon %q: %w", c.Code, err)
	}
	return nil
}

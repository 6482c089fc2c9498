package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Cheertaboi/restaurant-service/internal/models"
)

type OrderRepo struct {
	db *sql.DB
}

func NewOrderRepo(db *sql.DB) *OrderRepo {
	return &OrderRepo{db: db}
}

const orderColumns = `
	id, order_number, customer_name, customer_phone, COALESCE(customer_email, ''),
	order_type, COALESCE(delivery_address, ''), COALESCE(delivery_notes, ''), items,
	subtotal, delivery_fee, discount_amount, tax_amount, total_amount,
	coupon_code, payment_method, payment_status, estimated_delivery, created_at`

func scanOrder(row rowScanner) (*models.Order, error) {
	var (
		o          models.Order
		items      []byte
		couponCode sql.NullString
	)
	err := row.Scan(
		&o.ID, &o.OrderNumber, &o.CustomerName, &o.CustomerPhone, &o.CustomerEmail,
		&o.OrderType, &o.DeliveryAddress, &o.DeliveryNotes, &items,
		&o.Subtotal, &o.DeliveryFee, &o.DiscountAmount, &o.TaxAmount, &o.TotalAmount,
		&couponCode, &o.PaymentMethod, &o.PaymentStatus, &o.EstimatedDelivery, &o.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(items, &o.Items); err != nil {
		return nil, fmt.Errorf("decode items of order %s: %w", o.OrderNumber, err)
	}
	if couponCode.Valid {
		o.CouponCode = &couponCode.String
	}
	return &o, nil
}

// InsertOrder writes o and fills its generated columns. It returns false,
// nil when o.OrderNumber already exists so the caller can pick another.
func (r *OrderRepo) InsertOrder(ctx context.Context, tx *sql.Tx, o *models.Order) (bool, error) {
	items, err := json.Marshal(o.Items)
	if err != nil {
		return false, fmt.Errorf("encode order items: %w", err)
	}

	query := `
		INSERT INTO orders (
			order_number, customer_name, customer_phone, customer_email,
			order_type, delivery_address, delivery_notes, items,
			subtotal, delivery_fee, discount_amount, tax_amount, total_amount,
			coupon_code, payment_method, payment_status, estimated_delivery
		) VALUES (
			$1, $2, $3, NULLIF($4, ''),
			$5, NULLIF($6, ''), NULLIF($7, ''), $8,
			$9, $10, $11, $12, $13,
			$14, $15, $16, $17
		)
		ON CONFLICT (order_number) DO NOTHING
		RETURNING ` + orderColumns

	inserted, err := scanOrder(tx.QueryRowContext(ctx, query,
		o.OrderNumber, o.CustomerName, o.CustomerPhone, o.CustomerEmail,
		o.OrderType, o.DeliveryAddress, o.DeliveryNotes, string(items),
		o.Subtotal, o.DeliveryFee, o.DiscountAmount, o.TaxAmount, o.TotalAmount,
		o.CouponCode, o.PaymentMethod, o.PaymentStatus, o.EstimatedDelivery,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("insert order %s: %w", o.OrderNumber, err)
	}
	*o = *inserted
	return true, nil
}

func (r *OrderRepo) ListOrders(ctx context.Context, f models.OrderFilter) ([]models.Order, error) {
	var w whereBuilder
	if f.Phone != "" {
		w.add("customer_phone = %s", f.Phone)
	}
	if f.OrderNumber != "" {
		w.add("order_number = %s", f.OrderNumber)
	}
	query := `SELECT ` + orderColumns + ` FROM orders` + w.String() + ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	orders := []models.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *o)
	}
	return orders, rows.Err()
}

// HasCompletedOrder reports whether a paid order with this number was placed
// with this email. Used to mark testimonials as verified.
func (r *OrderRepo) HasCompletedOrder(ctx context.Context, email, orderNumber string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM orders
			WHERE customer_email = $1 AND order_number = $2 AND payment_status = $3
		)
	`
	var ok bool
	if err := r.db.QueryRowContext(ctx, query, email, orderNumber, models.PaymentCompleted).Scan(&ok); err != nil {
		return false, fmt.Errorf("check completed order: %w", err)
	}
	return ok, nil
}

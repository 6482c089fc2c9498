package service

import (
	"context"
	"database/sql"

	"github.com/Cheertaboi/restaurant-service/internal/models"
)

// Repos required by services (interfaces so the in-memory store can stand in).
// Methods taking a *sql.Tx must be called inside Transactor.InTx; other
// stores may receive a nil tx.

type Transactor interface {
	InTx(ctx context.Context, fn func(tx *sql.Tx) error) error
}

type CouponRepo interface {
	// GetEligibleCoupon returns nil, nil when no active, unexpired, under-limit
	// coupon has this code.
	GetEligibleCoupon(ctx context.Context, code string) (*models.Coupon, error)
	// ConsumeCoupon increments used_count only if the coupon is still
	// eligible, returning the updated row, or nil when nothing was consumed.
	ConsumeCoupon(ctx context.Context, tx *sql.Tx, code string) (*models.Coupon, error)
	CreateCoupon(ctx context.Context, c *models.Coupon) error
}

type UsageRepo interface {
	RecordRedemption(ctx context.Context, tx *sql.Tx, r models.CouponRedemption) error
}

type ItemRepo interface {
	// GetPricing returns the authoritative menu rows for ids, keyed by id.
	// Missing ids are absent from the map.
	GetPricing(ctx context.Context, ids []int) (map[int]models.MenuItem, error)
}

type OrderRepo interface {
	// InsertOrder returns false when the order number is already taken.
	InsertOrder(ctx context.Context, tx *sql.Tx, o *models.Order) (bool, error)
	ListOrders(ctx context.Context, f models.OrderFilter) ([]models.Order, error)
	HasCompletedOrder(ctx context.Context, email, orderNumber string) (bool, error)
}

type ReservationRepo interface {
	// LockSlot serializes writers on one (date, time) slot until tx ends.
	LockSlot(ctx context.Context, tx *sql.Tx, date, slot string) error
	CountActive(ctx context.Context, tx *sql.Tx, date, slot string) (int, error)
	// InsertReservation returns false when the reservation number is taken.
	InsertReservation(ctx context.Context, tx *sql.Tx, r *models.Reservation) (bool, error)
	ListReservations(ctx context.Context, f models.ReservationFilter) ([]models.Reservation, error)
	CancelReservation(ctx context.Context, number string) (*models.Reservation, error)
}

type CatalogRepo interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
	CreateCategory(ctx context.Context, c *models.Category) error
	ListMenuItems(ctx context.Context, f models.MenuFilter) ([]models.MenuItem, error)
	CreateMenuItem(ctx context.Context, m *models.MenuItem) error
	ListHighlights(ctx context.Context, limit int) ([]models.MenuItem, error)
	TodayDeal(ctx context.Context) (*models.Deal, error)
	ListHours(ctx context.Context) ([]models.OperatingHours, error)
	UpdateHours(ctx context.Context, tx *sql.Tx, h models.HoursUpdate) error
	ListTestimonials(ctx context.Context, limit int) ([]models.Testimonial, error)
	CreateTestimonial(ctx context.Context, t *models.Testimonial) error
	ListGallery(ctx context.Context, tag string) ([]models.GalleryImage, error)
	ListDeliveryZones(ctx context.Context) ([]models.DeliveryZone, error)
	GetDeliveryZone(ctx context.Context, id int) (*models.DeliveryZone, error)
}

// EventPublisher announces committed state changes. Failures are logged by
// the caller and never undo the change.
type EventPublisher interface {
	PublishOrderPlaced(ctx context.Context, o models.Order) error
	PublishReservationConfirmed(ctx context.Context, r models.Reservation) error
}

package memory

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Cheertaboi/restaurant-service/internal/models"
)

func fixedClock() func() time.Time {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time { return now }
}

func TestInTx_RollsBackOnError(t *testing.T) {
	ctx := context.Background()
	limit := 1
	s := New(WithClock(fixedClock()))
	s.AddCoupon(models.Coupon{Code: "ONCE", Type: models.DiscountFixed, Value: decimal.NewFromInt(50), IsActive: true, UsageLimit: &limit})

	boom := errors.New("boom")
	err := s.InTx(ctx, func(tx *sql.Tx) error {
		c, err := s.ConsumeCoupon(ctx, tx, "ONCE")
		require.NoError(t, err)
		require.NotNil(t, c)
		_, err = s.InsertOrder(ctx, tx, &models.Order{OrderNumber: "DF1"})
		require.NoError(t, err)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	c, ok := s.Coupon("ONCE")
	require.True(t, ok)
	assert.Equal(t, 0, c.UsedCount)
	orders, err := s.ListOrders(ctx, models.OrderFilter{})
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestInTx_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := New().InTx(ctx, func(*sql.Tx) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestConsumeCoupon_RespectsLimit(t *testing.T) {
	ctx := context.Background()
	limit := 2
	s := New(WithClock(fixedClock()))
	s.AddCoupon(models.Coupon{Code: "TWICE", Type: models.DiscountPercent, Value: decimal.NewFromInt(10), IsActive: true, UsageLimit: &limit})

	consume := func() *models.Coupon {
		var got *models.Coupon
		require.NoError(t, s.InTx(ctx, func(tx *sql.Tx) error {
			var err error
			got, err = s.ConsumeCoupon(ctx, tx, "TWICE")
			return err
		}))
		return got
	}

	assert.NotNil(t, consume())
	assert.NotNil(t, consume())
	assert.Nil(t, consume())

	eligible, err := s.GetEligibleCoupon(ctx, "TWICE")
	require.NoError(t, err)
	assert.Nil(t, eligible)
}

func TestCreateCoupon_Duplicate(t *testing.T) {
	ctx := context.Background()
	s := New()
	require.NoError(t, s.CreateCoupon(ctx, &models.Coupon{Code: "NEW", Type: models.DiscountFixed, Value: decimal.NewFromInt(1), IsActive: true}))
	err := s.CreateCoupon(ctx, &models.Coupon{Code: "NEW", Type: models.DiscountFixed, Value: decimal.NewFromInt(2), IsActive: true})
	assert.ErrorIs(t, err, models.ErrDuplicate)
}

func TestReservations_CountIgnoresCancelled(t *testing.T) {
	ctx := context.Background()
	s := New(WithClock(fixedClock()))

	for _, number := range []string{"RES1", "RES2"} {
		require.NoError(t, s.InTx(ctx, func(tx *sql.Tx) error {
			_, err := s.InsertReservation(ctx, tx, &models.Reservation{
				ReservationNumber: number, CustomerPhone: "0300", ReservationDate: "2026-03-02",
				ReservationTime: "19:00", Status: models.ReservationConfirmed,
			})
			return err
		}))
	}
	cancelled, err := s.CancelReservation(ctx, "RES1")
	require.NoError(t, err)
	assert.Equal(t, models.ReservationCancelled, cancelled.Status)

	missing, err := s.CancelReservation(ctx, "RES9")
	require.NoError(t, err)
	assert.Nil(t, missing)

	var n int
	require.NoError(t, s.InTx(ctx, func(tx *sql.Tx) error {
		n, err = s.CountActive(ctx, tx, "2026-03-02", "19:00")
		return err
	}))
	assert.Equal(t, 1, n)
}

func TestInsertOrder_DuplicateNumber(t *testing.T) {
	ctx := context.Background()
	s := New()
	var first, second bool
	require.NoError(t, s.InTx(ctx, func(tx *sql.Tx) error {
		var err error
		if first, err = s.InsertOrder(ctx, tx, &models.Order{OrderNumber: "DF1", CustomerPhone: "0300"}); err != nil {
			return err
		}
		second, err = s.InsertOrder(ctx, tx, &models.Order{OrderNumber: "DF1", CustomerPhone: "0311"})
		return err
	}))
	assert.True(t, first)
	assert.False(t, second)

	orders, err := s.ListOrders(ctx, models.OrderFilter{Phone: "0311"})
	require.NoError(t, err)
	assert.Empty(t, orders)
}

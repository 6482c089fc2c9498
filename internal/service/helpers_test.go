package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Cheertaboi/restaurant-service/internal/config"
	"github.com/Cheertaboi/restaurant-service/internal/logger"
	"github.com/Cheertaboi/restaurant-service/internal/models"
	"github.com/Cheertaboi/restaurant-service/internal/service"
	"github.com/Cheertaboi/restaurant-service/internal/storage/memory"
)

const testTimeout = 2 * time.Second

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func decPtr(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func intPtr(v int) *int { return &v }

// recordingPublisher keeps every event it is given.
type recordingPublisher struct {
	mu           sync.Mutex
	orders       []models.Order
	reservations []models.Reservation
	err          error
}

func (p *recordingPublisher) PublishOrderPlaced(_ context.Context, o models.Order) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.orders = append(p.orders, o)
	return p.err
}

func (p *recordingPublisher) PublishReservationConfirmed(_ context.Context, r models.Reservation) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.reservations = append(p.reservations, r)
	return p.err
}

// menu holds the ids of the items seeded by seedMenu.
type menu struct {
	karahi  models.MenuItem
	naan    models.MenuItem
	soldOut models.MenuItem
}

func seedMenu(store *memory.Store) menu {
	cat := store.AddCategory(models.Category{Name: "Karahi", Slug: "karahi", DisplayOrder: 1})
	return menu{
		karahi: store.AddMenuItem(models.MenuItem{
			CategoryID:  cat.ID,
			Name:        "Chicken Karahi",
			Slug:        "chicken-karahi",
			Price:       dec(1200),
			IsAvailable: true,
			Variants: []models.Variant{
				{Name: "Half", Price: dec(1200)},
				{Name: "Full", Price: dec(2200)},
			},
			Addons: []models.Addon{
				{Name: "Extra Butter", Price: dec(150)},
			},
		}),
		naan: store.AddMenuItem(models.MenuItem{
			CategoryID:  cat.ID,
			Name:        "Garlic Naan",
			Slug:        "garlic-naan",
			Price:       dec(120),
			IsAvailable: true,
		}),
		soldOut: store.AddMenuItem(models.MenuItem{
			CategoryID:  cat.ID,
			Name:        "Mutton Paya",
			Slug:        "mutton-paya",
			Price:       dec(1500),
			IsAvailable: false,
		}),
	}
}

func newOrderService(t *testing.T, store *memory.Store, pub service.EventPublisher) *service.OrderService {
	t.Helper()
	pricing := config.Default().Pricing
	return service.NewOrderService(store, store, store, store, store, store, pub, pricing, testTimeout, logger.Discard())
}

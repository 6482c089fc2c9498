package api_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Cheertaboi/restaurant-service/internal/api"
	"github.com/Cheertaboi/restaurant-service/internal/api/middleware"
	"github.com/Cheertaboi/restaurant-service/internal/cache"
	"github.com/Cheertaboi/restaurant-service/internal/config"
	"github.com/Cheertaboi/restaurant-service/internal/logger"
	"github.com/Cheertaboi/restaurant-service/internal/messaging"
	"github.com/Cheertaboi/restaurant-service/internal/models"
	"github.com/Cheertaboi/restaurant-service/internal/service"
	"github.com/Cheertaboi/restaurant-service/internal/storage/memory"
)

type testServer struct {
	handler http.Handler
	store   *memory.Store
	karahi  models.MenuItem
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	cfg := config.Default()
	fixtures := config.DefaultFixtures()
	log := logger.Discard()
	timeout := 2 * time.Second

	store := memory.New()
	store.Seed(fixtures)
	cat := store.AddCategory(models.Category{Name: "Karahi", Slug: "karahi", DisplayOrder: 2})
	karahi := store.AddMenuItem(models.MenuItem{
		CategoryID: cat.ID, Name: "Mutton Karahi", Slug: "mutton-karahi",
		Price: decimal.NewFromInt(1800), IsAvailable: true,
	})
	store.AddCoupon(models.Coupon{Code: "SAVE100", Type: models.DiscountFixed, Value: decimal.NewFromInt(100), IsActive: true})

	publisher := messaging.NopPublisher{}
	svc := api.Services{
		Coupons: service.NewCouponService(store, timeout, cfg.Pricing.Currency, log),
		Reservations: service.NewReservationService(store, store, publisher, cfg.Reservations,
			cfg.ReservationLocation(), timeout, log),
		Orders: service.NewOrderService(store, store, store, store, store, store, publisher,
			cfg.Pricing, timeout, log),
		Catalog: service.NewCatalogService(store, store, store, cache.NewCatalogCache(time.Minute),
			fixtures, timeout, log),
	}
	return &testServer{
		handler: api.NewRouter(svc, log, 5*time.Second),
		store:   store,
		karahi:  karahi,
	}
}

func (s *testServer) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return env
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get(middleware.RequestIDHeader))
}

func TestValidateCoupon(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/coupons/validate", `{"code":"SAVE100","subtotal":1500}`)
	require.Equal(t, http.StatusOK, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.True(t, env.Success)
	assert.Equal(t, "Coupon applied! You saved Rs. 100", env.Message)
	assert.JSONEq(t, `{"code":"SAVE100","type":"fixed","value":100,"discountAmount":100}`, string(env.Data))

	rec = s.do(t, http.MethodPost, "/coupons/validate", `{"code":"NOPE","subtotal":1500}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"success":false,"error":"Invalid or expired coupon code"}`, rec.Body.String())

	rec = s.do(t, http.MethodPost, "/coupons/validate", ``)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Request body is required", decodeEnvelope(t, rec).Error)
}

func TestCreateCoupon(t *testing.T) {
	s := newTestServer(t)

	body := `{"code":"FRIDAY20","type":"percent","value":20,"usage_limit":50}`
	rec := s.do(t, http.MethodPost, "/admin/coupons", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	c, ok := s.store.Coupon("FRIDAY20")
	require.True(t, ok)
	assert.True(t, c.IsActive)

	rec = s.do(t, http.MethodPost, "/admin/coupons", body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Coupon code already exists", decodeEnvelope(t, rec).Error)
}

func TestCreateAndListReservations(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/reservations", `{
		"customer_name": "Ayesha",
		"customer_phone": "03001234567",
		"party_size": "4",
		"reservation_date": "2099-06-01",
		"reservation_time": "19:00"
	}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	env := decodeEnvelope(t, rec)

	var res models.Reservation
	require.NoError(t, json.Unmarshal(env.Data, &res))
	assert.True(t, strings.HasPrefix(res.ReservationNumber, "RES"))
	assert.Equal(t, 4, res.PartySize)
	assert.Equal(t, "Reservation confirmed! Your reservation number is "+res.ReservationNumber, env.Message)

	rec = s.do(t, http.MethodGet, "/reservations?phone=03001234567", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list []models.Reservation
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &list))
	require.Len(t, list, 1)

	rec = s.do(t, http.MethodPost, "/reservations/"+res.ReservationNumber+"/cancel", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodPost, "/reservations/RES00000000FFFF/cancel", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateReservation_LargeParty(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, http.MethodPost, "/reservations", `{
		"customer_name": "Hassan",
		"customer_phone": "03007654321",
		"party_size": "13+",
		"reservation_date": "2099-06-01",
		"reservation_time": "19:00"
	}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeEnvelope(t, rec).Error, "13 or more")
}

func TestCreateOrder(t *testing.T) {
	s := newTestServer(t)

	body := `{
		"customer_name": "Fatima",
		"customer_phone": "03111111111",
		"order_type": "takeaway",
		"items": [{"menu_item_id": ` + itoa(s.karahi.ID) + `, "quantity": 2}],
		"coupon_code": "SAVE100",
		"total_amount": 3500
	}`
	rec := s.do(t, http.MethodPost, "/orders", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	env := decodeEnvelope(t, rec)

	var order models.Order
	require.NoError(t, json.Unmarshal(env.Data, &order))
	assert.True(t, strings.HasPrefix(order.OrderNumber, "DF"))
	assert.Equal(t, "3600", order.Subtotal.String())
	assert.Equal(t, "100", order.DiscountAmount.String())
	assert.Equal(t, "3500", order.TotalAmount.String())
	assert.Equal(t, "Order placed successfully! Your order number is "+order.OrderNumber, env.Message)

	rec = s.do(t, http.MethodGet, "/orders?order_number="+order.OrderNumber, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list []models.Order
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &list))
	require.Len(t, list, 1)
	assert.Equal(t, "03111111111", list[0].CustomerPhone)
}

func TestCreateOrder_TotalMismatch(t *testing.T) {
	s := newTestServer(t)
	body := `{
		"customer_name": "Fatima",
		"customer_phone": "03111111111",
		"order_type": "takeaway",
		"items": [{"menu_item_id": ` + itoa(s.karahi.ID) + `, "quantity": 1}],
		"total_amount": 900
	}`
	rec := s.do(t, http.MethodPost, "/orders", body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodGet, "/orders", "")
	var list []models.Order
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &list))
	assert.Empty(t, list)
}

func TestTodayDeal_CacheHeaders(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, http.MethodGet, "/deals/today", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "public, s-maxage=120, stale-while-revalidate=300", rec.Header().Get("Cache-Control"))

	var deal models.Deal
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &deal))
	assert.Equal(t, "Family Feast Special", deal.Title)
	assert.Equal(t, "401", deal.Savings.String())
	assert.EqualValues(t, 14, deal.Discount)
}

func TestCategoriesAndMenu(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/categories", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var cats []models.Category
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &cats))
	require.Len(t, cats, 2)
	assert.Equal(t, "desi", cats[0].Slug)

	rec = s.do(t, http.MethodGet, "/menu?category=karahi", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var items []models.MenuItem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
	require.Len(t, items, 1)
	assert.Equal(t, "Mutton Karahi", items[0].Name)
	assert.NotEmpty(t, items[0].Image, "default image is filled in")

	rec = s.do(t, http.MethodGet, "/menu?isVeg=maybe", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMenu_HidesUnavailableByDefault(t *testing.T) {
	s := newTestServer(t)
	s.store.AddMenuItem(models.MenuItem{
		CategoryID: s.karahi.CategoryID, Name: "Sold Out Paya", Slug: "sold-out-paya",
		Price: decimal.NewFromInt(900), IsAvailable: false,
	})

	names := func(path string) []string {
		rec := s.do(t, http.MethodGet, path, "")
		require.Equal(t, http.StatusOK, rec.Code)
		var items []models.MenuItem
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
		var out []string
		for _, it := range items {
			out = append(out, it.Name)
		}
		return out
	}

	assert.NotContains(t, names("/menu?category=karahi"), "Sold Out Paya")
	assert.NotContains(t, names("/menu?category=karahi&available=true"), "Sold Out Paya")
	assert.Contains(t, names("/menu?category=karahi&available=false"), "Sold Out Paya")
}

func TestHome(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, http.MethodGet, "/home", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body, "highlights")
	assert.Contains(t, body, "deal")
	assert.Contains(t, body, "testimonials")
	assert.Contains(t, body, "hours")
}

func itoa(n int) string {
	b, _ := json.Marshal(n)
	return string(b)
}

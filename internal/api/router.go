package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/Cheertaboi/restaurant-service/internal/api/handlers"
	"github.com/Cheertaboi/restaurant-service/internal/api/middleware"
	"github.com/Cheertaboi/restaurant-service/internal/service"
)

// Services are the domain services the router exposes.
type Services struct {
	Coupons      *service.CouponService
	Reservations *service.ReservationService
	Orders       *service.OrderService
	Catalog      *service.CatalogService
}

// NewRouter builds the HTTP router for the restaurant service
func NewRouter(svc Services, log *slog.Logger, requestTimeout time.Duration) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(log))
	r.Use(chimw.Recoverer)
	if requestTimeout > 0 {
		r.Use(chimw.Timeout(requestTimeout))
	}

	couponHandler := handlers.NewCouponHandler(svc.Coupons)
	reservationHandler := handlers.NewReservationHandler(svc.Reservations)
	orderHandler := handlers.NewOrderHandler(svc.Orders)
	catalogHandler := handlers.NewCatalogHandler(svc.Catalog)

	// Public coupon endpoints
	r.Route("/coupons", func(r chi.Router) {
		r.Post("/validate", couponHandler.ValidateCoupon)
	})

	r.Route("/reservations", func(r chi.Router) {
		r.Post("/", reservationHandler.CreateReservation)
		r.Get("/", reservationHandler.ListReservations)
		r.Post("/{number}/cancel", reservationHandler.CancelReservation)
	})

	r.Route("/orders", func(r chi.Router) {
		r.Post("/", orderHandler.CreateOrder)
		r.Get("/", orderHandler.ListOrders)
	})

	// Catalog
	r.Get("/categories", catalogHandler.ListCategories)
	r.Post("/categories", catalogHandler.CreateCategory)
	r.Route("/menu", func(r chi.Router) {
		r.Get("/", catalogHandler.ListMenu)
		r.Post("/", catalogHandler.CreateMenuItem)
		r.Get("/highlights", catalogHandler.Highlights)
	})
	r.Get("/deals/today", catalogHandler.TodayDeal)
	r.Get("/hours", catalogHandler.Hours)
	r.Put("/hours", catalogHandler.UpdateHours)
	r.Get("/testimonials", catalogHandler.Testimonials)
	r.Post("/testimonials", catalogHandler.CreateTestimonial)
	r.Get("/gallery", catalogHandler.Gallery)
	r.Get("/delivery-zones", catalogHandler.DeliveryZones)
	r.Get("/home", catalogHandler.Home)

	// Admin endpoints
	r.Route("/admin", func(r chi.Router) {
		r.Post("/coupons", couponHandler.CreateCoupon)
	})

	// health
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	return r
}

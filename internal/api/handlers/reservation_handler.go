package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Cheertaboi/restaurant-service/internal/models"
	"github.com/Cheertaboi/restaurant-service/internal/service"
)

type CreateReservationRequest struct {
	CustomerName    string           `json:"customer_name"`
	CustomerPhone   string           `json:"customer_phone"`
	CustomerEmail   string           `json:"customer_email"`
	PartySize       models.PartySize `json:"party_size"`
	ReservationDate string           `json:"reservation_date"`
	ReservationTime string           `json:"reservation_time"`
	SpecialNotes    string           `json:"special_notes"`
}

type ReservationHandler struct {
	service *service.ReservationService
}

func NewReservationHandler(svc *service.ReservationService) *ReservationHandler {
	return &ReservationHandler{service: svc}
}

// CreateReservation handles POST /reservations
func (h *ReservationHandler) CreateReservation(w http.ResponseWriter, r *http.Request) {
	var req CreateReservationRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	res, err := h.service.Reserve(r.Context(), service.ReservationRequest{
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		CustomerEmail: req.CustomerEmail,
		PartySize:     req.PartySize,
		Date:          req.ReservationDate,
		Time:          req.ReservationTime,
		Notes:         req.SpecialNotes,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, res, "Reservation confirmed! Your reservation number is "+res.ReservationNumber)
}

// ListReservations handles GET /reservations?phone=&date=
func (h *ReservationHandler) ListReservations(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	out, err := h.service.List(r.Context(), models.ReservationFilter{
		Phone: q.Get("phone"),
		Date:  q.Get("date"),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, out, "")
}

// CancelReservation handles POST /reservations/{number}/cancel
func (h *ReservationHandler) CancelReservation(w http.ResponseWriter, r *http.Request) {
	res, err := h.service.Cancel(r.Context(), chi.URLParam(r, "number"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeSuccess(w, http.StatusOK, res, "Reservation cancelled")
}

package service

import (
	"context"
	"database/sql"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/Cheertaboi/restaurant-service/internal/config"
	"github.com/Cheertaboi/restaurant-service/internal/logger"
	"github.com/Cheertaboi/restaurant-service/internal/models"
)

const dateLayout = "2006-01-02"

// ReservationRequest is a table booking as submitted by the customer.
type ReservationRequest struct {
	CustomerName  string
	CustomerPhone string
	CustomerEmail string
	PartySize     models.PartySize
	Date          string
	Time          string
	Notes         string
}

type ReservationService struct {
	tx        Transactor
	repo      ReservationRepo
	publisher EventPublisher
	cfg       config.ReservationConfig
	loc       *time.Location
	timeout   time.Duration
	now       func() time.Time
	log       *slog.Logger
}

func NewReservationService(tx Transactor, repo ReservationRepo, publisher EventPublisher, cfg config.ReservationConfig, loc *time.Location, timeout time.Duration, log *slog.Logger) *ReservationService {
	if loc == nil {
		loc = time.UTC
	}
	return &ReservationService{
		tx:        tx,
		repo:      repo,
		publisher: publisher,
		cfg:       cfg,
		loc:       loc,
		timeout:   timeout,
		now:       time.Now,
		log:       log,
	}
}

// SetClock replaces time.Now; used by tests.
func (s *ReservationService) SetClock(now func() time.Time) { s.now = now }

func (s *ReservationService) validate(req *ReservationRequest) error {
	req.CustomerName = strings.TrimSpace(req.CustomerName)
	req.CustomerPhone = strings.TrimSpace(req.CustomerPhone)
	req.CustomerEmail = strings.TrimSpace(req.CustomerEmail)

	if req.CustomerName == "" || req.CustomerPhone == "" {
		return validationf("Name and phone number are required")
	}
	if req.PartySize.Large || req.PartySize.N > s.cfg.MaxPartySize {
		msg := "For parties of 13 or more guests, please call us to book"
		if s.cfg.LargePartyPhone != "" {
			msg += " at " + s.cfg.LargePartyPhone
		}
		return &Error{Kind: KindValidation, Code: CodeLargeParty, Message: msg}
	}
	if req.PartySize.N < 1 {
		return validationf("Party size must be at least 1")
	}

	day, err := time.ParseInLocation(dateLayout, req.Date, s.loc)
	if err != nil {
		return validationf("Reservation date must be in YYYY-MM-DD format")
	}
	today := s.now().In(s.loc)
	today = time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, s.loc)
	if day.Before(today) {
		return validationf("Reservation date cannot be in the past")
	}
	if !slices.Contains(s.cfg.Slots, req.Time) {
		return validationf("Please choose an available time slot")
	}
	return nil
}

// Reserve books a table. The slot is locked for the duration of the
// transaction, so concurrent bookings of one slot never exceed capacity.
func (s *ReservationService) Reserve(ctx context.Context, req ReservationRequest) (*models.Reservation, error) {
	if err := s.validate(&req); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	res := &models.Reservation{
		CustomerName:    req.CustomerName,
		CustomerPhone:   req.CustomerPhone,
		CustomerEmail:   req.CustomerEmail,
		PartySize:       req.PartySize.N,
		ReservationDate: req.Date,
		ReservationTime: req.Time,
		SpecialNotes:    strings.TrimSpace(req.Notes),
		Status:          models.ReservationConfirmed,
	}

	err := s.tx.InTx(ctx, func(tx *sql.Tx) error {
		if err := s.repo.LockSlot(ctx, tx, req.Date, req.Time); err != nil {
			return err
		}
		n, err := s.repo.CountActive(ctx, tx, req.Date, req.Time)
		if err != nil {
			return err
		}
		if n >= s.cfg.SlotCapacity {
			return ineligible(CodeSlotFull, "Time slot is not available")
		}

		for attempt := 0; attempt < maxNumberAttempts; attempt++ {
			res.ReservationNumber = NewReservationNumber(s.now())
			ok, err := s.repo.InsertReservation(ctx, tx, res)
			if err != nil {
				return err
			}
			if ok {
				return nil
			}
		}
		return &Error{Kind: KindPersistence, Message: "Failed to create reservation"}
	})
	if err != nil {
		return nil, fail(ctx, s.log, "reservation_create", "Failed to create reservation", err)
	}

	logger.FromContext(ctx, s.log).Info("reservation confirmed",
		slog.String("reservation_number", res.ReservationNumber),
		slog.String("date", res.ReservationDate),
		slog.String("time", res.ReservationTime),
		slog.Int("party_size", res.PartySize),
	)
	if err := s.publisher.PublishReservationConfirmed(ctx, *res); err != nil {
		logger.FromContext(ctx, s.log).Warn("failed to publish reservation event",
			slog.String("reservation_number", res.ReservationNumber),
			slog.Any("error", err),
		)
	}
	return res, nil
}

// List returns reservations newest first. Filters are optional and ANDed.
func (s *ReservationService) List(ctx context.Context, f models.ReservationFilter) ([]models.Reservation, error) {
	f.Phone = strings.TrimSpace(f.Phone)
	if f.Date != "" {
		if _, err := time.Parse(dateLayout, f.Date); err != nil {
			return nil, validationf("Date must be in YYYY-MM-DD format")
		}
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	out, err := s.repo.ListReservations(ctx, f)
	if err != nil {
		return nil, fail(ctx, s.log, "reservation_list", "Failed to fetch reservations", err)
	}
	return out, nil
}

// Cancel releases a reservation's seat in its slot.
func (s *ReservationService) Cancel(ctx context.Context, number string) (*models.Reservation, error) {
	number = strings.TrimSpace(number)
	if number == "" {
		return nil, validationf("Reservation number is required")
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	res, err := s.repo.CancelReservation(ctx, number)
	if err != nil {
		return nil, fail(ctx, s.log, "reservation_cancel", "Failed to cancel reservation", err)
	}
	if res == nil {
		return nil, &Error{Kind: KindValidation, Code: CodeNotFound, Message: "Reservation not found"}
	}
	return res, nil
}

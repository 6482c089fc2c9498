package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Cheertaboi/restaurant-service/internal/models"
)

type ReservationRepo struct {
	db *sql.DB
}

func NewReservationRepo(db *sql.DB) *ReservationRepo {
	return &ReservationRepo{db: db}
}

const reservationColumns = `
	id, reservation_number, customer_name, customer_phone, COALESCE(customer_email, ''),
	party_size, to_char(reservation_date, 'YYYY-MM-DD'), reservation_time,
	COALESCE(special_notes, ''), status, created_at`

func scanReservation(row rowScanner) (*models.Reservation, error) {
	var r models.Reservation
	err := row.Scan(
		&r.ID, &r.ReservationNumber, &r.CustomerName, &r.CustomerPhone, &r.CustomerEmail,
		&r.PartySize, &r.ReservationDate, &r.ReservationTime,
		&r.SpecialNotes, &r.Status, &r.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// LockSlot takes a transaction-scoped advisory lock on the slot, so the
// count and insert that follow are not interleaved with another booking
// for the same slot.
func (r *ReservationRepo) LockSlot(ctx context.Context, tx *sql.Tx, date, slot string) error {
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, date+" "+slot); err != nil {
		return fmt.Errorf("lock slot %s %s: %w", date, slot, err)
	}
	return nil
}

func (r *ReservationRepo) CountActive(ctx context.Context, tx *sql.Tx, date, slot string) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM reservations
		WHERE reservation_date = $1
		  AND reservation_time = $2
		  AND status != $3
	`
	var n int
	if err := tx.QueryRowContext(ctx, query, date, slot, models.ReservationCancelled).Scan(&n); err != nil {
		return 0, fmt.Errorf("count reservations for %s %s: %w", date, slot, err)
	}
	return n, nil
}

func (r *ReservationRepo) InsertReservation(ctx context.Context, tx *sql.Tx, res *models.Reservation) (bool, error) {
	query := `
		INSERT INTO reservations (
			reservation_number, customer_name, customer_phone, customer_email,
			party_size, reservation_date, reservation_time, special_notes, status
		) VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7, NULLIF($8, ''), $9)
		ON CONFLICT (reservation_number) DO NOTHING
		RETURNING ` + reservationColumns

	inserted, err := scanReservation(tx.QueryRowContext(ctx, query,
		res.ReservationNumber, res.CustomerName, res.CustomerPhone, res.CustomerEmail,
		res.PartySize, res.ReservationDate, res.ReservationTime, res.SpecialNotes, res.Status,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("insert reservation %s: %w", res.ReservationNumber, err)
	}
	*res = *inserted
	return true, nil
}

func (r *ReservationRepo) ListReservations(ctx context.Context, f models.ReservationFilter) ([]models.Reservation, error) {
	var w whereBuilder
	if f.Phone != "" {
		w.add("customer_phone = %s", f.Phone)
	}
	if f.Date != "" {
		w.add("reservation_date = %s", f.Date)
	}
	query := `SELECT ` + reservationColumns + ` FROM reservations` + w.String() +
		` ORDER BY reservation_date DESC, reservation_time DESC`

	rows, err := r.db.QueryContext(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list reservations: %w", err)
	}
	defer rows.Close()

	out := []models.Reservation{}
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *res)
	}
	return out, rows.Err()
}

// CancelReservation marks a reservation cancelled, freeing its place in the
// slot. It returns nil, nil for an unknown number.
func (r *ReservationRepo) CancelReservation(ctx context.Context, number string) (*models.Reservation, error) {
	query := `
		UPDATE reservations SET status = $2
		WHERE reservation_number = $1
		RETURNING ` + reservationColumns

	res, err := scanReservation(r.db.QueryRowContext(ctx, query, number, models.ReservationCancelled))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("cancel reservation %s: %w", number, err)
	}
	return res, nil
}

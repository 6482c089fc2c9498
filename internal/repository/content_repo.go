package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/Cheertaboi/restaurant-service/internal/models"
)

// Deals, hours, testimonials, gallery and delivery zones.

func (r *CatalogRepo) TodayDeal(ctx context.Context) (*models.Deal, error) {
	query := `
		SELECT id, title, COALESCE(description, ''), items, original_price, deal_price,
		       COALESCE(image, ''), expires_at
		FROM deals
		WHERE is_active = true
		  AND (expires_at IS NULL OR expires_at > NOW())
		ORDER BY created_at DESC
		LIMIT 1
	`
	var (
		d         models.Deal
		items     []byte
		expiresAt sql.NullTime
	)
	err := r.db.QueryRowContext(ctx, query).Scan(
		&d.ID, &d.Title, &d.Description, &items, &d.OriginalPrice, &d.DealPrice, &d.Image, &expiresAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get today's deal: %w", err)
	}
	if err := json.Unmarshal(items, &d.Items); err != nil {
		return nil, fmt.Errorf("decode deal items: %w", err)
	}
	if expiresAt.Valid {
		t := expiresAt.Time
		d.ExpiresAt = &t
	}
	return &d, nil
}

func (r *CatalogRepo) ListHours(ctx context.Context) ([]models.OperatingHours, error) {
	query := `
		SELECT day_of_week, open_time, close_time, is_closed
		FROM operating_hours
		ORDER BY day_of_week
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list hours: %w", err)
	}
	defer rows.Close()

	hours := []models.OperatingHours{}
	for rows.Next() {
		var (
			h               models.OperatingHours
			openAt, closeAt sql.NullString
		)
		if err := rows.Scan(&h.DayOfWeek, &openAt, &closeAt, &h.IsClosed); err != nil {
			return nil, err
		}
		if openAt.Valid {
			h.Open = &openAt.String
		}
		if closeAt.Valid {
			h.Close = &closeAt.String
		}
		hours = append(hours, h)
	}
	return hours, rows.Err()
}

// UpdateHours upserts one day. Closed days store no times.
func (r *CatalogRepo) UpdateHours(ctx context.Context, tx *sql.Tx, h models.HoursUpdate) error {
	var openAt, closeAt sql.NullString
	if !h.IsClosed {
		openAt = sql.NullString{String: h.OpenTime, Valid: true}
		closeAt = sql.NullString{String: h.CloseTime, Valid: true}
	}

	query := `
		INSERT INTO operating_hours (day_of_week, open_time, close_time, is_closed)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (day_of_week) DO UPDATE SET
			open_time = EXCLUDED.open_time,
			close_time = EXCLUDED.close_time,
			is_closed = EXCLUDED.is_closed
	`
	if _, err := tx.ExecContext(ctx, query, h.DayOfWeek, openAt, closeAt, h.IsClosed); err != nil {
		return fmt.Errorf("update hours for day %d: %w", h.DayOfWeek, err)
	}
	return nil
}

func (r *CatalogRepo) ListTestimonials(ctx context.Context, limit int) ([]models.Testimonial, error) {
	query := `
		SELECT id, name, rating, comment, COALESCE(avatar, ''), is_verified, created_at
		FROM testimonials
		WHERE is_published = true
		ORDER BY is_verified DESC, created_at DESC
		LIMIT $1
	`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list testimonials: %w", err)
	}
	defer rows.Close()

	out := []models.Testimonial{}
	for rows.Next() {
		t := models.Testimonial{IsPublished: true}
		if err := rows.Scan(&t.ID, &t.Name, &t.Rating, &t.Comment, &t.Avatar, &t.IsVerified, &t.Date); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *CatalogRepo) CreateTestimonial(ctx context.Context, t *models.Testimonial) error {
	query := `
		INSERT INTO testimonials (name, rating, comment, is_verified, is_published)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`
	err := r.db.QueryRowContext(ctx, query, t.Name, t.Rating, t.Comment, t.IsVerified, t.IsPublished).
		Scan(&t.ID, &t.Date)
	if err != nil {
		return fmt.Errorf("create testimonial: %w", err)
	}
	return nil
}

func (r *CatalogRepo) ListGallery(ctx context.Context, tag string) ([]models.GalleryImage, error) {
	var w whereBuilder
	if tag != "" {
		w.add("%s = ANY(tags)", tag)
	}
	query := `
		SELECT id, title, image, tags, COALESCE(alt_text, ''), display_order, created_at
		FROM gallery_images` + w.String() + `
		ORDER BY display_order ASC, created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list gallery: %w", err)
	}
	defer rows.Close()

	images := []models.GalleryImage{}
	for rows.Next() {
		var (
			img  models.GalleryImage
			tags pq.StringArray
		)
		if err := rows.Scan(&img.ID, &img.Title, &img.Image, &tags, &img.AltText, &img.DisplayOrder, &img.CreatedAt); err != nil {
			return nil, err
		}
		img.Tags = []string(tags)
		images = append(images, img)
	}
	return images, rows.Err()
}

const zoneColumns = `id, name, fee, min_order, estimated_minutes, is_active`

func scanZone(row rowScanner) (*models.DeliveryZone, error) {
	var (
		z       models.DeliveryZone
		minutes sql.NullInt64
	)
	if err := row.Scan(&z.ID, &z.Name, &z.Fee, &z.MinOrder, &minutes, &z.IsActive); err != nil {
		return nil, err
	}
	if minutes.Valid {
		n := int(minutes.Int64)
		z.EstimatedMinutes = &n
	}
	return &z, nil
}

func (r *CatalogRepo) ListDeliveryZones(ctx context.Context) ([]models.DeliveryZone, error) {
	query := `SELECT ` + zoneColumns + ` FROM delivery_zones WHERE is_active = true ORDER BY fee ASC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list delivery zones: %w", err)
	}
	defer rows.Close()

	zones := []models.DeliveryZone{}
	for rows.Next() {
		z, err := scanZone(rows)
		if err != nil {
			return nil, err
		}
		zones = append(zones, *z)
	}
	return zones, rows.Err()
}

// GetDeliveryZone returns nil, nil for an unknown or inactive zone.
func (r *CatalogRepo) GetDeliveryZone(ctx context.Context, id int) (*models.DeliveryZone, error) {
	query := `SELECT ` + zoneColumns + ` FROM delivery_zones WHERE id = $1 AND is_active = true`
	z, err := scanZone(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get delivery zone %d: %w", id, err)
	}
	return z, nil
}

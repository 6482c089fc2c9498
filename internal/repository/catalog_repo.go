package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/Cheertaboi/restaurant-service/internal/models"
)

type CatalogRepo struct {
	db *sql.DB
}

func NewCatalogRepo(db *sql.DB) *CatalogRepo {
	return &CatalogRepo{db: db}
}

func (r *CatalogRepo) ListCategories(ctx context.Context) ([]models.Category, error) {
	query := `
		SELECT id, name, slug, description, image, display_order
		FROM categories
		ORDER BY display_order ASC, name ASC
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	categories := []models.Category{}
	for rows.Next() {
		var (
			c           models.Category
			description sql.NullString
			image       sql.NullString
		)
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &description, &image, &c.DisplayOrder); err != nil {
			return nil, err
		}
		if description.Valid {
			c.Description = &description.String
		}
		if image.Valid {
			c.Image = &image.String
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (r *CatalogRepo) CreateCategory(ctx context.Context, c *models.Category) error {
	query := `
		INSERT INTO categories (name, slug, description, image, display_order)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	err := r.db.QueryRowContext(ctx, query, c.Name, c.Slug, c.Description, c.Image, c.DisplayOrder).Scan(&c.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return models.ErrDuplicate
		}
		return fmt.Errorf("create category %q: %w", c.Slug, err)
	}
	return nil
}

const menuItemSelect = `
	SELECT
		mi.id, mi.category_id, mi.name, mi.slug, COALESCE(mi.description, ''),
		mi.price, mi.spice_level, mi.is_veg, COALESCE(mi.image, ''),
		mi.is_bestseller, mi.is_available, mi.variants, mi.addons,
		c.name, c.slug
	FROM menu_items mi
	JOIN categories c ON mi.category_id = c.id`

func scanMenuItem(row rowScanner) (*models.MenuItem, error) {
	var (
		m        models.MenuItem
		variants []byte
		addons   []byte
	)
	err := row.Scan(
		&m.ID, &m.CategoryID, &m.Name, &m.Slug, &m.Description,
		&m.Price, &m.SpiceLevel, &m.IsVeg, &m.Image,
		&m.IsBestseller, &m.IsAvailable, &variants, &addons,
		&m.Category.Name, &m.Category.Slug,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(variants, &m.Variants); err != nil {
		return nil, fmt.Errorf("decode variants of item %d: %w", m.ID, err)
	}
	if err := json.Unmarshal(addons, &m.Addons); err != nil {
		return nil, fmt.Errorf("decode addons of item %d: %w", m.ID, err)
	}
	return &m, nil
}

func (r *CatalogRepo) queryMenuItems(ctx context.Context, query string, args ...any) ([]models.MenuItem, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list menu items: %w", err)
	}
	defer rows.Close()

	items := []models.MenuItem{}
	for rows.Next() {
		item, err := scanMenuItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

func (r *CatalogRepo) ListMenuItems(ctx context.Context, f models.MenuFilter) ([]models.MenuItem, error) {
	var w whereBuilder
	if !f.IncludeUnavailable {
		w.add("mi.is_available = %s", true)
	}
	if f.CategorySlug != "" {
		w.add("c.slug = %s", f.CategorySlug)
	}
	if f.Search != "" {
		pattern := containsPattern(f.Search)
		w.add("(LOWER(mi.name) LIKE LOWER(%s) OR LOWER(mi.description) LIKE LOWER(%s))", pattern, pattern)
	}
	if f.SpiceLevel != "" {
		w.add("mi.spice_level = %s", f.SpiceLevel)
	}
	if f.IsVeg != nil {
		w.add("mi.is_veg = %s", *f.IsVeg)
	}

	query := menuItemSelect + w.String() + ` ORDER BY mi.is_bestseller DESC, mi.name ASC`
	return r.queryMenuItems(ctx, query, w.args...)
}

func (r *CatalogRepo) ListHighlights(ctx context.Context, limit int) ([]models.MenuItem, error) {
	query := menuItemSelect + `
		WHERE mi.is_bestseller = true AND mi.is_available = true
		ORDER BY mi.name
		LIMIT $1`
	return r.queryMenuItems(ctx, query, limit)
}

const insertMenuItem = `
	INSERT INTO menu_items (
		name, slug, category_id, description, price, spice_level,
		is_veg, image, is_bestseller, is_available, variants, addons
	)
	VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7, NULLIF($8, ''), $9, $10, $11, $12)
	RETURNING id
`

// menuItemArgs lists m's fields in insertMenuItem column order.
func menuItemArgs(m *models.MenuItem) ([]any, error) {
	variants, err := json.Marshal(nonNil(m.Variants))
	if err != nil {
		return nil, fmt.Errorf("encode variants: %w", err)
	}
	addons, err := json.Marshal(nonNil(m.Addons))
	if err != nil {
		return nil, fmt.Errorf("encode addons: %w", err)
	}
	return []any{
		m.Name, m.Slug, m.CategoryID, m.Description, m.Price, m.SpiceLevel,
		m.IsVeg, m.Image, m.IsBestseller, m.IsAvailable, string(variants), string(addons),
	}, nil
}

// CreateMenuItem returns models.ErrDuplicate for a taken slug and
// models.ErrNotFound when the category does not exist.
func (r *CatalogRepo) CreateMenuItem(ctx context.Context, m *models.MenuItem) error {
	args, err := menuItemArgs(m)
	if err != nil {
		return err
	}
	err = r.db.QueryRowContext(ctx, insertMenuItem, args...).Scan(&m.ID)
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return models.ErrDuplicate
		case isForeignKeyViolation(err):
			return models.ErrNotFound
		}
		return fmt.Errorf("create menu item %q: %w", m.Slug, err)
	}

	created, err := scanMenuItem(r.db.QueryRowContext(ctx, menuItemSelect+` WHERE mi.id = $1`, m.ID))
	if err != nil {
		return fmt.Errorf("reload menu item %d: %w", m.ID, err)
	}
	*m = *created
	return nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

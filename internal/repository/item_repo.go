package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/Cheertaboi/restaurant-service/internal/models"
)

// ItemRepo reads the authoritative prices used to price orders.
type ItemRepo struct {
	db *sql.DB
}

func NewItemRepo(db *sql.DB) *ItemRepo {
	return &ItemRepo{db: db}
}

func (r *ItemRepo) GetPricing(ctx context.Context, ids []int) (map[int]models.MenuItem, error) {
	out := make(map[int]models.MenuItem, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	keys := make(pq.Int64Array, len(ids))
	for i, id := range ids {
		keys[i] = int64(id)
	}

	rows, err := r.db.QueryContext(ctx, menuItemSelect+` WHERE mi.id = ANY($1)`, keys)
	if err != nil {
		return nil, fmt.Errorf("get item pricing: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		item, err := scanMenuItem(rows)
		if err != nil {
			return nil, err
		}
		out[item.ID] = *item
	}
	return out, rows.Err()
}

package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

// ErrBasketNotFound is returned when a basket ID does not exist.
var ErrBasketNotFound = errors.New("basket not found")

// SavedBasket is a named, persisted shopping basket.
type SavedBasket struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Items     []string  `json:"items"` // product IDs; repetition denotes quantity
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BasketRepository persists baskets in Postgres.
type BasketRepository struct {
	db *DB
}

// NewBasketRepository creates a basket repository over db.
func NewBasketRepository(db *DB) *BasketRepository {
	return &BasketRepository{db: db}
}

// Create inserts a basket and fills in its generated fields.
func (r *BasketRepository) Create(ctx context.Context, basket *SavedBasket) error {
	err := r.db.pool.QueryRow(ctx,
		`INSERT INTO baskets (name, items) VALUES ($1, $2)
		 RETURNING id, created_at, updated_at`,
		basket.Name, basket.Items,
	).Scan(&basket.ID, &basket.CreatedAt, &basket.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create basket: %w", err)
	}
	return nil
}

// Get fetches a basket by ID.
func (r *BasketRepository) Get(ctx context.Context, id int64) (*SavedBasket, error) {
	var basket SavedBasket
	err := r.db.pool.QueryRow(ctx,
		`SELECT id, name, items, created_at, updated_at FROM baskets WHERE id = $1`,
		id,
	).Scan(&basket.ID, &basket.Name, &basket.Items, &basket.CreatedAt, &basket.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrBasketNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get basket: %w", err)
	}
	return &basket, nil
}

// List returns every saved basket, newest first.
func (r *BasketRepository) List(ctx context.Context) ([]SavedBasket, error) {
	rows, err := r.db.pool.Query(ctx,
		`SELECT id, name, items, created_at, updated_at FROM baskets ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list baskets: %w", err)
	}
	defer rows.Close()

	var baskets []SavedBasket
	for rows.Next() {
		var b SavedBasket
		if err := rows.Scan(&b.ID, &b.Name, &b.Items, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan basket: %w", err)
		}
		baskets = append(baskets, b)
	}
	return baskets, rows.Err()
}

// Update replaces a basket's name and items.
func (r *BasketRepository) Update(ctx context.Context, basket *SavedBasket) error {
	tag, err := r.db.pool.Exec(ctx,
		`UPDATE baskets SET name = $1, items = $2, updated_at = now() WHERE id = $3`,
		basket.Name, basket.Items, basket.ID)
	if err != nil {
		return fmt.Errorf("failed to update basket: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrBasketNotFound
	}
	return nil
}

// Delete removes a basket by ID.
func (r *BasketRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.pool.Exec(ctx, `DELETE FROM baskets WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete basket: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrBasketNotFound
	}
	return nil
}

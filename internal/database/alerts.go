package database

import (
	"context"
	"fmt"

	"github.com/pricecomparator/market-service/internal/alerts"
)

// AlertRepository persists price alerts in Postgres. It implements
// alerts.Store.
type AlertRepository struct {
	db *DB
}

// NewAlertRepository creates an alert repository over db.
func NewAlertRepository(db *DB) *AlertRepository {
	return &AlertRepository{db: db}
}

// Create inserts a new alert and fills in its generated ID.
func (r *AlertRepository) Create(ctx context.Context, alert *alerts.Alert) error {
	err := r.db.pool.QueryRow(ctx,
		`INSERT INTO price_alerts (product_id, product_name, target_price, user_id, active)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		alert.ProductID, alert.ProductName, alert.TargetPrice, alert.UserID, alert.Active,
	).Scan(&alert.ID)
	if err != nil {
		return fmt.Errorf("failed to create alert: %w", err)
	}
	return nil
}

// ListActive returns every alert that has not yet triggered.
func (r *AlertRepository) ListActive(ctx context.Context) ([]alerts.Alert, error) {
	rows, err := r.db.pool.Query(ctx,
		`SELECT id, product_id, product_name, target_price, user_id, active
		 FROM price_alerts WHERE active ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list alerts: %w", err)
	}
	defer rows.Close()

	var result []alerts.Alert
	for rows.Next() {
		var a alerts.Alert
		if err := rows.Scan(&a.ID, &a.ProductID, &a.ProductName, &a.TargetPrice, &a.UserID, &a.Active); err != nil {
			return nil, fmt.Errorf("failed to scan alert: %w", err)
		}
		result = append(result, a)
	}
	return result, rows.Err()
}

// Deactivate marks an alert as triggered.
func (r *AlertRepository) Deactivate(ctx context.Context, id int64) error {
	_, err := r.db.pool.Exec(ctx,
		`UPDATE price_alerts SET active = false WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to deactivate alert: %w", err)
	}
	return nil
}

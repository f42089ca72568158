package database

import "context"

const schema = `
CREATE TABLE IF NOT EXISTS baskets (
    id          BIGSERIAL PRIMARY KEY,
    name        TEXT NOT NULL,
    items       TEXT[] NOT NULL,
    created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS price_alerts (
    id           BIGSERIAL PRIMARY KEY,
    product_id   TEXT NOT NULL,
    product_name TEXT NOT NULL DEFAULT '',
    target_price DOUBLE PRECISION NOT NULL,
    user_id      TEXT NOT NULL DEFAULT '',
    active       BOOLEAN NOT NULL DEFAULT true,
    created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_price_alerts_active ON price_alerts (active) WHERE active;
`

// Migrate applies the schema. Statements are idempotent so it is safe to run
// on every startup.
func (d *DB) Migrate(ctx context.Context) error {
	_, err := d.pool.Exec(ctx, schema)
	return err
}

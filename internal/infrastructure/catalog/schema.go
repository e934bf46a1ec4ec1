package catalog

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// Supported database drivers
const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

// dialect hides the few differences between SQLite and PostgreSQL
type dialect struct {
	driver string
}

func (d dialect) postgres() bool {
	return d.driver == DriverPostgres
}

// rebind turns ? placeholders into $n for PostgreSQL
func (d dialect) rebind(query string) string {
	if !d.postgres() {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (d dialect) schema() []string {
	serial := "INTEGER PRIMARY KEY AUTOINCREMENT"
	float := "REAL"
	if d.postgres() {
		serial = "BIGSERIAL PRIMARY KEY"
		float = "DOUBLE PRECISION"
	}

	return []string{
		`CREATE TABLE IF NOT EXISTS products (
			store_id TEXT NOT NULL,
			id TEXT NOT NULL,
			name TEXT NOT NULL,
			category_name TEXT NOT NULL DEFAULT '',
			current_price ` + float + ` NOT NULL DEFAULT 0,
			min_price ` + float + ` NOT NULL DEFAULT 0,
			max_price ` + float + ` NOT NULL DEFAULT 0,
			brand TEXT NOT NULL DEFAULT '',
			volume_ml ` + float + `,
			weight_g ` + float + `,
			fat_percent ` + float + `,
			quantity INTEGER,
			image_url TEXT NOT NULL DEFAULT '',
			url TEXT NOT NULL DEFAULT '',
			first_seen TIMESTAMP NOT NULL,
			last_updated TIMESTAMP NOT NULL,
			PRIMARY KEY (store_id, id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_products_category ON products (store_id, category_name)`,
		`CREATE TABLE IF NOT EXISTS price_history (
			id ` + serial + `,
			store_id TEXT NOT NULL,
			product_id TEXT NOT NULL,
			price ` + float + ` NOT NULL,
			previous_price ` + float + `,
			recorded_at TIMESTAMP NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_price_history_product ON price_history (store_id, product_id, recorded_at)`,
		`CREATE TABLE IF NOT EXISTS price_alerts (
			id ` + serial + `,
			user_id TEXT NOT NULL,
			store_id TEXT NOT NULL,
			product_id TEXT NOT NULL,
			target_price ` + float + `,
			notify_any_decrease BOOLEAN NOT NULL DEFAULT TRUE,
			last_price ` + float + `,
			last_notified_at TIMESTAMP,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMP NOT NULL,
			UNIQUE (user_id, store_id, product_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_price_alerts_active ON price_alerts (is_active)`,
	}
}

// Migrate creates the tables if they don't exist
func (r *SQLRepository) Migrate(ctx context.Context) error {
	for _, query := range r.dialect.schema() {
		if _, err := r.db.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	return nil
}

package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pricio/backend/internal/domain"
)

const productColumns = `store_id, id, name, category_name, current_price, min_price, max_price,
	brand, volume_ml, weight_g, fat_percent, quantity, image_url, url, first_seen, last_updated`

// SQLRepository stores catalogs, price history and alerts in SQLite or PostgreSQL
type SQLRepository struct {
	db      *sql.DB
	dialect dialect
	now     func() time.Time
}

// Open connects to the database, checks the connection and creates the schema
func Open(ctx context.Context, driver, dsn string) (*SQLRepository, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if driver == DriverSQLite {
		// SQLite allows a single writer
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	repo, err := NewSQLRepository(db, driver)
	if err != nil {
		db.Close()
		return nil, err
	}
	if err := repo.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return repo, nil
}

// NewSQLRepository wraps an open database handle
func NewSQLRepository(db *sql.DB, driver string) (*SQLRepository, error) {
	if driver != DriverSQLite && driver != DriverPostgres {
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
	return &SQLRepository{
		db:      db,
		dialect: dialect{driver: driver},
		now:     time.Now,
	}, nil
}

// Close closes the database handle
func (r *SQLRepository) Close() error {
	return r.db.Close()
}

// Ping checks the database connection
func (r *SQLRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// ListProducts returns the products of a store ordered by name.
// An empty category returns the whole store.
func (r *SQLRepository) ListProducts(ctx context.Context, storeID, category string) ([]domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE store_id = ?`
	args := []interface{}{storeID}
	if category != "" {
		query += ` AND category_name = ?`
		args = append(args, category)
	}
	query += ` ORDER BY name, id`

	rows, err := r.db.QueryContext(ctx, r.dialect.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(productDest(&p)...); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

// GetProduct returns a single product or domain.ErrProductNotFound
func (r *SQLRepository) GetProduct(ctx context.Context, storeID, productID string) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE store_id = ? AND id = ?`

	var p domain.Product
	err := r.db.QueryRowContext(ctx, r.dialect.rebind(query), storeID, productID).Scan(productDest(&p)...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return &p, nil
}

// UpsertProducts inserts new products and updates known ones in one transaction.
// Every price change is appended to the price history together with the
// previous price; min and max prices widen to include the new price.
// Products without a store, id or name are skipped.
func (r *SQLRepository) UpsertProducts(ctx context.Context, products []domain.Product) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := r.now().UTC()
	count := 0
	for _, p := range products {
		if p.StoreID == "" || p.ID == "" || strings.TrimSpace(p.Name) == "" {
			continue
		}
		if err := r.upsertProduct(ctx, tx, p, now); err != nil {
			return 0, fmt.Errorf("product %s/%s: %w", p.StoreID, p.ID, err)
		}
		count++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit products: %w", err)
	}
	return count, nil
}

func (r *SQLRepository) upsertProduct(ctx context.Context, tx *sql.Tx, p domain.Product, now time.Time) error {
	var current, minPrice, maxPrice float64
	err := tx.QueryRowContext(ctx,
		r.dialect.rebind(`SELECT current_price, min_price, max_price FROM products WHERE store_id = ? AND id = ?`),
		p.StoreID, p.ID,
	).Scan(&current, &minPrice, &maxPrice)

	if errors.Is(err, sql.ErrNoRows) {
		_, err = tx.ExecContext(ctx, r.dialect.rebind(`INSERT INTO products (`+productColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
			p.StoreID, p.ID, p.Name, p.CategoryName, p.CurrentPrice, p.CurrentPrice, p.CurrentPrice,
			p.Brand, p.VolumeML, p.WeightG, p.FatPercent, p.Quantity, p.ImageURL, p.URL, now, now,
		)
		if err != nil {
			return fmt.Errorf("insert: %w", err)
		}
		return r.recordPrice(ctx, tx, p, nil, now)
	}
	if err != nil {
		return fmt.Errorf("select: %w", err)
	}

	if p.CurrentPrice < minPrice {
		minPrice = p.CurrentPrice
	}
	if p.CurrentPrice > maxPrice {
		maxPrice = p.CurrentPrice
	}

	_, err = tx.ExecContext(ctx, r.dialect.rebind(`UPDATE products SET
			name = ?, category_name = ?, current_price = ?, min_price = ?, max_price = ?,
			brand = ?, volume_ml = ?, weight_g = ?, fat_percent = ?, quantity = ?,
			image_url = ?, url = ?, last_updated = ?
		WHERE store_id = ? AND id = ?`),
		p.Name, p.CategoryName, p.CurrentPrice, minPrice, maxPrice,
		p.Brand, p.VolumeML, p.WeightG, p.FatPercent, p.Quantity,
		p.ImageURL, p.URL, now,
		p.StoreID, p.ID,
	)
	if err != nil {
		return fmt.Errorf("update: %w", err)
	}

	if p.CurrentPrice != current {
		return r.recordPrice(ctx, tx, p, &current, now)
	}
	return nil
}

func (r *SQLRepository) recordPrice(ctx context.Context, tx *sql.Tx, p domain.Product, previous *float64, now time.Time) error {
	_, err := tx.ExecContext(ctx, r.dialect.rebind(`INSERT INTO price_history
			(store_id, product_id, price, previous_price, recorded_at)
		VALUES (?, ?, ?, ?, ?)`),
		p.StoreID, p.ID, p.CurrentPrice, previous, now,
	)
	if err != nil {
		return fmt.Errorf("history: %w", err)
	}
	return nil
}

// PriceHistory returns the latest price changes of a product, newest first
func (r *SQLRepository) PriceHistory(ctx context.Context, storeID, productID string, limit int) ([]domain.PriceHistoryEntry, error) {
	if limit <= 0 {
		limit = 30
	}

	rows, err := r.db.QueryContext(ctx, r.dialect.rebind(`SELECT product_id, store_id, price, previous_price, recorded_at
		FROM price_history
		WHERE store_id = ? AND product_id = ?
		ORDER BY recorded_at DESC, id DESC
		LIMIT ?`), storeID, productID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get price history: %w", err)
	}
	defer rows.Close()

	var entries []domain.PriceHistoryEntry
	for rows.Next() {
		var e domain.PriceHistoryEntry
		if err := rows.Scan(&e.ProductID, &e.StoreID, &e.Price, &e.PreviousPrice, &e.RecordedAt); err != nil {
			return nil, fmt.Errorf("failed to scan price history: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// productDest lists scan destinations in productColumns order
func productDest(p *domain.Product) []interface{} {
	return []interface{}{
		&p.StoreID, &p.ID, &p.Name, &p.CategoryName, &p.CurrentPrice, &p.MinPrice, &p.MaxPrice,
		&p.Brand, &p.VolumeML, &p.WeightG, &p.FatPercent, &p.Quantity, &p.ImageURL, &p.URL,
		&p.FirstSeen, &p.LastUpdated,
	}
}

package catalog

import (
	"context"
	"fmt"

	"github.com/pricio/backend/internal/domain"
)

// CreateAlert stores an alert. A user has at most one alert per product:
// creating it again replaces the trigger settings and reactivates it.
func (r *SQLRepository) CreateAlert(ctx context.Context, alert *domain.PriceAlert) error {
	created := alert.CreatedAt
	if created.IsZero() {
		created = r.now().UTC()
	}

	err := r.db.QueryRowContext(ctx, r.dialect.rebind(`INSERT INTO price_alerts
			(user_id, store_id, product_id, target_price, notify_any_decrease, last_price, is_active, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id, store_id, product_id) DO UPDATE SET
			target_price = excluded.target_price,
			notify_any_decrease = excluded.notify_any_decrease,
			last_price = excluded.last_price,
			is_active = excluded.is_active
		RETURNING id`),
		alert.UserID, alert.StoreID, alert.ProductID, alert.TargetPrice,
		alert.NotifyAnyDecrease, alert.LastPrice, true, created,
	).Scan(&alert.ID)
	if err != nil {
		return fmt.Errorf("failed to create alert: %w", err)
	}

	alert.IsActive = true
	alert.CreatedAt = created
	return nil
}

// ListActiveAlerts returns active alerts joined with their current product
func (r *SQLRepository) ListActiveAlerts(ctx context.Context) ([]domain.PriceAlert, error) {
	rows, err := r.db.QueryContext(ctx, r.dialect.rebind(`SELECT
			a.id, a.user_id, a.store_id, a.product_id, a.target_price, a.notify_any_decrease,
			a.last_price, a.last_notified_at, a.is_active, a.created_at,
			p.store_id, p.id, p.name, p.category_name, p.current_price, p.min_price, p.max_price,
			p.brand, p.volume_ml, p.weight_g, p.fat_percent, p.quantity, p.image_url, p.url,
			p.first_seen, p.last_updated
		FROM price_alerts a
		JOIN products p ON p.store_id = a.store_id AND p.id = a.product_id
		WHERE a.is_active = ?
		ORDER BY a.id`), true)
	if err != nil {
		return nil, fmt.Errorf("failed to list alerts: %w", err)
	}
	defer rows.Close()

	var alerts []domain.PriceAlert
	for rows.Next() {
		var (
			a domain.PriceAlert
			p domain.Product
		)
		dest := []interface{}{
			&a.ID, &a.UserID, &a.StoreID, &a.ProductID, &a.TargetPrice, &a.NotifyAnyDecrease,
			&a.LastPrice, &a.LastNotifiedAt, &a.IsActive, &a.CreatedAt,
		}
		if err := rows.Scan(append(dest, productDest(&p)...)...); err != nil {
			return nil, fmt.Errorf("failed to scan alert: %w", err)
		}
		a.Product = &p
		alerts = append(alerts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list alerts: %w", err)
	}
	return alerts, nil
}

// UpdateAlert saves trigger state and bookkeeping of an alert
func (r *SQLRepository) UpdateAlert(ctx context.Context, alert *domain.PriceAlert) error {
	res, err := r.db.ExecContext(ctx, r.dialect.rebind(`UPDATE price_alerts SET
			target_price = ?, notify_any_decrease = ?, last_price = ?, last_notified_at = ?, is_active = ?
		WHERE id = ?`),
		alert.TargetPrice, alert.NotifyAnyDecrease, alert.LastPrice, alert.LastNotifiedAt, alert.IsActive,
		alert.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update alert: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("alert %d: %w", alert.ID, domain.ErrAlertNotFound)
	}
	return nil
}

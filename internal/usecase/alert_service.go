package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/pricio/backend/internal/domain"
)

// Alert trigger reasons
const (
	ReasonPriceDecreased = "price decreased"
	reasonTargetFormat   = "reached target price %.2f"
)

// AlertService checks active price alerts and notifies users about price drops
type AlertService struct {
	alerts   domain.AlertRepository
	notifier domain.Notifier
	stores   map[string]string
	now      func() time.Time
	logger   zerolog.Logger
}

// NewAlertService creates an alert service
func NewAlertService(
	alerts domain.AlertRepository,
	notifier domain.Notifier,
	stores []domain.Store,
	logger zerolog.Logger,
) *AlertService {
	names := make(map[string]string, len(stores))
	for _, st := range stores {
		names[st.ID] = st.Name
	}
	return &AlertService{
		alerts:   alerts,
		notifier: notifier,
		stores:   names,
		now:      time.Now,
		logger:   logger,
	}
}

// CreateAlert validates and stores a new alert. The current product price
// becomes the reference for "any decrease" alerts.
func (s *AlertService) CreateAlert(ctx context.Context, alert *domain.PriceAlert, currentPrice float64) error {
	if alert == nil || alert.UserID == "" || alert.ProductID == "" || alert.StoreID == "" {
		return domain.ErrInvalidRequest
	}
	if alert.TargetPrice != nil && *alert.TargetPrice <= 0 {
		return domain.ErrInvalidRequest
	}
	if !alert.NotifyAnyDecrease && alert.TargetPrice == nil {
		return domain.ErrInvalidRequest
	}

	price := currentPrice
	alert.LastPrice = &price
	alert.IsActive = true
	alert.CreatedAt = s.now()
	return s.alerts.CreateAlert(ctx, alert)
}

// CheckAlerts evaluates every active alert against the current product price
// and returns how many notifications were delivered.
func (s *AlertService) CheckAlerts(ctx context.Context) (int, error) {
	alerts, err := s.alerts.ListActiveAlerts(ctx)
	if err != nil {
		return 0, fmt.Errorf("list alerts: %w", err)
	}

	s.logger.Info().Int("alerts", len(alerts)).Msg("checking price alerts")

	sent := 0
	for i := range alerts {
		if err := ctx.Err(); err != nil {
			return sent, err
		}
		alert := &alerts[i]
		if alert.Product == nil {
			continue
		}
		current := alert.Product.CurrentPrice

		if alert.LastPrice == nil {
			alert.LastPrice = &current
			if err := s.alerts.UpdateAlert(ctx, alert); err != nil {
				s.logger.Error().Err(err).Int64("alert", alert.ID).Msg("update alert failed")
			}
			continue
		}
		last := *alert.LastPrice
		notified := false

		if drop, ok := s.evaluate(*alert, last, current); ok {
			if err := s.notifier.NotifyPriceDrop(ctx, drop); err != nil {
				s.logger.Error().Err(err).Int64("alert", alert.ID).Str("user", alert.UserID).Msg("notification failed")
			} else {
				sent++
				notified = true
				notifiedAt := s.now()
				alert.LastNotifiedAt = &notifiedAt
			}
		}

		if current != last || notified {
			alert.LastPrice = &current
			if err := s.alerts.UpdateAlert(ctx, alert); err != nil {
				s.logger.Error().Err(err).Int64("alert", alert.ID).Msg("update alert failed")
			}
		}
	}

	s.logger.Info().Int("sent", sent).Msg("price alerts checked")
	return sent, nil
}

// evaluate decides whether an alert fires: any decrease below the last seen
// price, or the price reaching the target.
func (s *AlertService) evaluate(alert domain.PriceAlert, last, current float64) (domain.PriceDrop, bool) {
	var reason string
	switch {
	case alert.NotifyAnyDecrease && current < last:
		reason = ReasonPriceDecreased
	case alert.TargetPrice != nil && current <= *alert.TargetPrice:
		reason = fmt.Sprintf(reasonTargetFormat, *alert.TargetPrice)
	default:
		return domain.PriceDrop{}, false
	}

	savings := last - current
	percent := 0.0
	if last != 0 {
		percent = savings / last * 100
	}

	return domain.PriceDrop{
		Alert:          alert,
		Product:        *alert.Product,
		StoreName:      s.stores[alert.StoreID],
		OldPrice:       last,
		NewPrice:       current,
		Savings:        savings,
		SavingsPercent: percent,
		Reason:         reason,
	}, true
}

package webhook

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/pricio/backend/internal/domain"
)

// LogNotifier writes price drops to the log. It is used when no webhook is configured.
type LogNotifier struct {
	logger zerolog.Logger
}

// NewLogNotifier creates a notifier that only logs
func NewLogNotifier(logger zerolog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// NotifyPriceDrop logs the drop and never fails
func (n *LogNotifier) NotifyPriceDrop(_ context.Context, drop domain.PriceDrop) error {
	n.logger.Info().
		Str("user", drop.Alert.UserID).
		Str("store", drop.Product.StoreID).
		Str("product", drop.Product.Name).
		Float64("old_price", drop.OldPrice).
		Float64("new_price", drop.NewPrice).
		Float64("savings_percent", drop.SavingsPercent).
		Str("reason", drop.Reason).
		Msg("price drop")
	return nil
}

package webhook

import (
	"fmt"
	"strings"

	"github.com/pricio/backend/internal/domain"
)

// Payload is the JSON body posted for a price drop
type Payload struct {
	UserID         string  `json:"userId"`
	StoreID        string  `json:"storeId"`
	StoreName      string  `json:"storeName"`
	ProductID      string  `json:"productId"`
	ProductName    string  `json:"productName"`
	ProductURL     string  `json:"productUrl,omitempty"`
	OldPrice       float64 `json:"oldPrice"`
	NewPrice       float64 `json:"newPrice"`
	Savings        float64 `json:"savings"`
	SavingsPercent float64 `json:"savingsPercent"`
	Reason         string  `json:"reason"`
	Text           string  `json:"text"`
}

// NewPayload builds the webhook body for a price drop
func NewPayload(drop domain.PriceDrop) Payload {
	return Payload{
		UserID:         drop.Alert.UserID,
		StoreID:        drop.Product.StoreID,
		StoreName:      drop.StoreName,
		ProductID:      drop.Product.ID,
		ProductName:    drop.Product.Name,
		ProductURL:     drop.Product.URL,
		OldPrice:       drop.OldPrice,
		NewPrice:       drop.NewPrice,
		Savings:        drop.Savings,
		SavingsPercent: drop.SavingsPercent,
		Reason:         drop.Reason,
		Text:           MessageText(drop),
	}
}

// MessageText renders the human-readable notification in Russian
func MessageText(drop domain.PriceDrop) string {
	var b strings.Builder
	b.WriteString("Цена снизилась!\n\n")
	b.WriteString(drop.Product.Name)
	b.WriteString("\n")
	if drop.StoreName != "" {
		b.WriteString(drop.StoreName)
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "\nБыло: %.2f₽\n", drop.OldPrice)
	fmt.Fprintf(&b, "Стало: %.2f₽\n\n", drop.NewPrice)
	fmt.Fprintf(&b, "Экономия: %.2f₽ (%.1f%%)", drop.Savings, drop.SavingsPercent)
	return b.String()
}

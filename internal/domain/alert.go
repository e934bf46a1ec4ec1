package domain

import "time"

// PriceAlert subscribes a user to price drops of one product
type PriceAlert struct {
	ID                int64      `json:"id"`
	UserID            string     `json:"userId"`
	ProductID         string     `json:"productId"`
	StoreID           string     `json:"storeId"`
	TargetPrice       *float64   `json:"targetPrice,omitempty"`
	NotifyAnyDecrease bool       `json:"notifyAnyDecrease"`
	LastPrice         *float64   `json:"lastPrice,omitempty"`
	LastNotifiedAt    *time.Time `json:"lastNotifiedAt,omitempty"`
	IsActive          bool       `json:"isActive"`
	CreatedAt         time.Time  `json:"createdAt"`

	// Product is populated by the repository when alerts are listed for checking
	Product *Product `json:"product,omitempty"`
}

// PriceDrop describes a triggered alert
type PriceDrop struct {
	Alert          PriceAlert `json:"alert"`
	Product        Product    `json:"product"`
	StoreName      string     `json:"storeName"`
	OldPrice       float64    `json:"oldPrice"`
	NewPrice       float64    `json:"newPrice"`
	Savings        float64    `json:"savings"`
	SavingsPercent float64    `json:"savingsPercent"`
	Reason         string     `json:"reason"`
}

// PriceHistoryEntry is one recorded price of a product
type PriceHistoryEntry struct {
	ProductID     string    `json:"productId"`
	StoreID       string    `json:"storeId"`
	Price         float64   `json:"price"`
	PreviousPrice *float64  `json:"previousPrice,omitempty"`
	RecordedAt    time.Time `json:"recordedAt"`
}

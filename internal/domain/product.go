package domain

import "time"

// Store represents a retailer whose catalog is tracked
type Store struct {
	ID   string `json:"id" mapstructure:"id"`
	Name string `json:"name" mapstructure:"name"`
}

// Product represents a catalog record for one store.
// The matching core only reads ID, StoreID, Name, CategoryName and CurrentPrice.
type Product struct {
	ID           string    `json:"id"`
	StoreID      string    `json:"storeId"`
	Name         string    `json:"name"`
	CategoryName string    `json:"categoryName,omitempty"`
	CurrentPrice float64   `json:"currentPrice"`
	MinPrice     float64   `json:"minPrice,omitempty"`
	MaxPrice     float64   `json:"maxPrice,omitempty"`
	Brand        string    `json:"brand,omitempty"`
	VolumeML     *float64  `json:"volumeMl,omitempty"`
	WeightG      *float64  `json:"weightG,omitempty"`
	FatPercent   *float64  `json:"fatPercent,omitempty"`
	Quantity     *int      `json:"quantity,omitempty"`
	ImageURL     string    `json:"imageUrl,omitempty"`
	URL          string    `json:"url,omitempty"`
	FirstSeen    time.Time `json:"firstSeen,omitempty"`
	LastUpdated  time.Time `json:"lastUpdated,omitempty"`
}

// ProductAttributes holds structured attributes parsed from a product name.
// A nil pointer or empty string means the attribute was not found.
type ProductAttributes struct {
	ProductType string   `json:"productType,omitempty"`
	Brand       string   `json:"brand,omitempty"`
	VolumeML    *float64 `json:"volumeMl,omitempty"`
	WeightG     *float64 `json:"weightG,omitempty"`
	FatPercent  *float64 `json:"fatPercent,omitempty"`
	Quantity    *int     `json:"quantity,omitempty"`
}

// SourceProduct identifies the product that similar items are searched for
type SourceProduct struct {
	ID           string  `json:"productId"`
	Name         string  `json:"productName"`
	CurrentPrice float64 `json:"currentPrice"`
}

// UnitPrice is a price normalized per liter or per kilogram
type UnitPrice struct {
	Value   float64 `json:"value"`
	Unit    string  `json:"unit"`
	Display string  `json:"display"`
}

// ScoredCandidate is a comparable product with its similarity to a source product
type ScoredCandidate struct {
	Product         Product    `json:"product"`
	SimilarityScore int        `json:"similarityScore"`
	PriceDiff       float64    `json:"priceDiff"`
	IsCheaper       bool       `json:"isCheaper"`
	IsExactMatch    bool       `json:"isExactMatch"`
	PricePerUnit    *UnitPrice `json:"pricePerUnit,omitempty"`
}

// SearchResult is a product ranked against a free-text query
type SearchResult struct {
	Product Product `json:"product"`
	Score   int     `json:"score"`
}

// ProductComparison bundles everything shown next to a single product
type ProductComparison struct {
	Product        Product           `json:"product"`
	PricePerUnit   *UnitPrice        `json:"pricePerUnit,omitempty"`
	Similar        []ScoredCandidate `json:"similar"`
	TargetStore    *Store            `json:"targetStore,omitempty"`
	CrossStore     []ScoredCandidate `json:"crossStore"`
	BestCrossStore *ScoredCandidate  `json:"bestCrossStore,omitempty"`
}

// ImportReport summarizes one catalog file import
type ImportReport struct {
	StoreID  string `json:"storeId"`
	Rows     int    `json:"rows"`
	Products int    `json:"products"`
	Skipped  int    `json:"skipped"`
	Saved    int    `json:"saved"`
	DryRun   bool   `json:"dryRun"`
}

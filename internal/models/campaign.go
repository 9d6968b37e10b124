package models

import "time"

// VariantSnapshot captures a variant's live prices just before a publish so
// a campaign can be rolled back to them later.
type VariantSnapshot struct {
	VariantID      string   `json:"variant_id"`
	Price          float64  `json:"price"`
	CompareAtPrice *float64 `json:"compare_at_price,omitempty"`
}

// Campaign records one publish event. Created on publish, read for rollback
// and listing, never mutated after creation apart from the rolled-back mark.
type Campaign struct {
	ID           string            `json:"id"`
	Week         string            `json:"week"`
	CreatedAt    time.Time         `json:"created_at"`
	ProductIDs   []string          `json:"product_ids"`
	VariantIDs   []string          `json:"variant_ids"`
	ProductCount int               `json:"product_count"`
	ItemCount    int               `json:"item_count"`
	Snapshot     []VariantSnapshot `json:"snapshot"`
	RolledBack   bool              `json:"rolled_back"`
}

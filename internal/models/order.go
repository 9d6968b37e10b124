package models

import "time"

// LineItem is one order line. Orders are pulled without customer fields, so
// a line carries only what the planner needs for velocity and KPIs.
type LineItem struct {
	VariantID string `json:"variant_id"`
	Quantity  int    `json:"quantity"`
}

type Order struct {
	ID          string     `json:"id"`
	CreatedAt   time.Time  `json:"created_at"`
	LineItems   []LineItem `json:"line_items"`
	TotalAmount float64    `json:"total_amount,omitempty"`
}

// UnitsByVariant sums line quantities per variant across the order window.
// Missing or zero quantities contribute nothing.
func UnitsByVariant(orders []Order) map[string]int {
	units := make(map[string]int)
	for _, o := range orders {
		for _, li := range o.LineItems {
			if li.VariantID == "" || li.Quantity <= 0 {
				continue
			}
			units[li.VariantID] += li.Quantity
		}
	}
	return units
}

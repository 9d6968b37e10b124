package models

// Category buckets used for the per-category selection caps. Shopify's
// productType is lowercased and matched loosely, so "Fresh Fruit" still
// lands in the fruit bucket.
const (
	CategoryFruit     = "fruit"
	CategoryVegetable = "vegetable"
	CategoryOther     = "other"
)

// CandidateItem is one product variant under consideration for a promo week.
// It is built fresh each run from the catalog snapshot plus the trailing
// order window and discarded once a draft is produced.
type CandidateItem struct {
	ProductID     string   `json:"product_id"`
	VariantID     string   `json:"variant_id"`
	SKU           string   `json:"sku"`
	Title         string   `json:"title"`
	VariantLabel  string   `json:"variant"`
	Category      string   `json:"category"`
	Tags          []string `json:"tags"`
	IsHero        bool     `json:"hero"`
	DoNotDiscount bool     `json:"do_not_discount"`

	RegularPrice   float64 `json:"price"`
	UnitCost       float64 `json:"cost"`
	CostEstimated  bool    `json:"cost_estimated"` // cost came from the fallback ratio, not the source
	CompareAtPrice float64 `json:"compare_at,omitempty"`

	InventoryQuantity int `json:"inventory"`
	RecentVelocity    int `json:"velocity"` // units sold in the trailing order window

	// Derived during selection, never supplied by the source.
	MarginHeadroomNorm float64 `json:"margin_headroom_norm"`
	StockPressureNorm  float64 `json:"stock_pressure_norm"`
	VelocityNorm       float64 `json:"velocity_norm"`
	HeroBoost          float64 `json:"hero_boost"`
	Score              float64 `json:"score"`
}

// PricedItem is a candidate that survived selection and guardrail pricing.
type PricedItem struct {
	CandidateItem
	PromoPrice    float64 `json:"promo_price"`
	MarginAtPromo float64 `json:"margin_promo"`
	RoundingRule  string  `json:"round_rule"`
}

// HasTag reports whether the candidate carries the given (lowercased) tag.
func (c *CandidateItem) HasTag(tag string) bool {
	for _, t := range c.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

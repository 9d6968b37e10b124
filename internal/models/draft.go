package models

import "time"

const (
	StatusDraft     = "draft"
	StatusPublished = "published"
	StatusReverted  = "reverted"
	StatusEmpty     = "empty" // synthesized for reads of absent weeks, never persisted
)

// DraftWeek is the weekly output artifact, keyed by WeekKey. Once published
// the recorded prices are the ones actually pushed to the catalog source.
type DraftWeek struct {
	WeekKey   string       `json:"week"`
	Items     []PricedItem `json:"items"`
	Status    string       `json:"status"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// ContainsVariant reports whether the draft includes the given variant.
func (d *DraftWeek) ContainsVariant(variantID string) bool {
	for i := range d.Items {
		if d.Items[i].VariantID == variantID {
			return true
		}
	}
	return false
}

// VariantIDs returns the variant IDs of the draft's items in draft order.
func (d *DraftWeek) VariantIDs() []string {
	ids := make([]string, 0, len(d.Items))
	for i := range d.Items {
		ids = append(ids, d.Items[i].VariantID)
	}
	return ids
}

// WeekKey formats t as the calendar-date key used for weekly records.
// Fatigue lookups walk this key backwards in 7-day steps.
func WeekKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

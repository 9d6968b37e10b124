package engine

import (
	"sort"

	"github.com/noumanabid-jpg/Promo-Calculator/internal/models"
)

// ComputeKPIs aggregates the order window against the week's promoted
// variants: total units, line-level revenue at the promo price, and the
// number of distinct orders containing at least one promoted variant.
// GrossMargin, Markdown and Retention14 remain placeholders at zero.
func ComputeKPIs(week string, items []models.PricedItem, orders []models.Order) models.WeekKPI {
	promoPrice := make(map[string]float64, len(items))
	for i := range items {
		promoPrice[items[i].VariantID] = items[i].PromoPrice
	}

	kpi := models.WeekKPI{Week: week}
	for _, o := range orders {
		touched := false
		for _, li := range o.LineItems {
			price, ok := promoPrice[li.VariantID]
			if !ok || li.Quantity <= 0 {
				continue
			}
			kpi.Units += int64(li.Quantity)
			kpi.Revenue += Money(price * float64(li.Quantity))
			touched = true
		}
		if touched {
			kpi.Orders++
		}
	}
	kpi.Revenue = Money(kpi.Revenue)
	return kpi
}

// LearnHeroes flags top-quartile performers by units sold. The cutoff is the
// unit count at rank floor(n/4); every product at or above it is a hero.
// Fewer than 4 items is too small a sample and returns an empty set.
func LearnHeroes(perf []models.ProductUnits) map[string]bool {
	heroes := make(map[string]bool)
	if len(perf) < 4 {
		return heroes
	}

	sorted := make([]models.ProductUnits, len(perf))
	copy(sorted, perf)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Units > sorted[j].Units
	})

	cutoff := sorted[len(sorted)/4].Units
	for _, p := range sorted {
		if p.Units >= cutoff {
			heroes[p.ProductID] = true
		}
	}
	return heroes
}

package planner

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/noumanabid-jpg/Promo-Calculator/internal/engine"
	"github.com/noumanabid-jpg/Promo-Calculator/internal/export"
	"github.com/noumanabid-jpg/Promo-Calculator/internal/models"
)

// Measure computes KPIs for last week's published promo, persists the
// metrics row, exports it as parquet, and feeds hero learning back into the
// catalog. Runs a week after publish, typically on a schedule.
func (p *Planner) Measure(ctx context.Context, now time.Time) (*models.WeekKPI, error) {
	lastWeek := models.WeekKey(now.AddDate(0, 0, -7))

	promo, err := p.Drafts.Get(ctx, lastWeek)
	if err != nil {
		return nil, err
	}
	if promo == nil || len(promo.Items) == 0 || promo.Status != models.StatusPublished {
		log.Printf("no published promo at %s, nothing to measure", lastWeek)
		return nil, nil
	}

	orders, err := p.Catalog.FetchOrdersSince(ctx, p.Config.Planner.OrderWindowDays)
	if err != nil {
		return nil, fmt.Errorf("fetching orders: %w", err)
	}

	kpi := engine.ComputeKPIs(lastWeek, promo.Items, orders)
	if p.Metrics != nil {
		if err := p.Metrics.WriteWeekKPI(ctx, kpi); err != nil {
			return nil, fmt.Errorf("persisting metrics: %w", err)
		}
	}

	if location, err := export.ExportWeekKPIParquet(p.Config.Export, kpi); err != nil {
		log.Printf("metrics parquet export failed: %v", err)
	} else {
		log.Printf("metrics exported to %s", location)
	}

	p.learnAndFlagHeroes(ctx, promo, orders)
	return &kpi, nil
}

// learnAndFlagHeroes turns last week's per-product units into hero flags on
// the catalog. Failures here are logged, not fatal; the flags only bias
// future scoring.
func (p *Planner) learnAndFlagHeroes(ctx context.Context, promo *models.DraftWeek, orders []models.Order) {
	units := models.UnitsByVariant(orders)

	perf := make([]models.ProductUnits, 0, len(promo.Items))
	for i := range promo.Items {
		it := &promo.Items[i]
		perf = append(perf, models.ProductUnits{
			ProductID: it.ProductID,
			Units:     units[it.VariantID],
		})
	}

	heroes := engine.LearnHeroes(perf)
	for productID := range heroes {
		if err := p.Catalog.SetHeroFlag(ctx, productID); err != nil {
			log.Printf("failed to flag hero %s: %v", productID, err)
		}
	}
	if len(heroes) > 0 {
		log.Printf("flagged %d heroes for week %s", len(heroes), promo.WeekKey)
	}
}

package planner

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/noumanabid-jpg/Promo-Calculator/internal/engine"
	"github.com/noumanabid-jpg/Promo-Calculator/internal/events"
	"github.com/noumanabid-jpg/Promo-Calculator/internal/models"
	"github.com/noumanabid-jpg/Promo-Calculator/internal/repositories"
)

// CatalogSource is the external catalog/order collaborator. The live
// implementation is the Shopify client; demo runs swap in a synthetic one.
type CatalogSource interface {
	FetchCandidates(ctx context.Context, cfg models.PlannerConfig) ([]models.CandidateItem, error)
	FetchOrdersSince(ctx context.Context, sinceDays int) ([]models.Order, error)
	VariantSnapshot(ctx context.Context, variantID string) (*models.VariantSnapshot, error)
	UpdateVariantPrice(ctx context.Context, variantID string, price float64, compareAt *float64) error
	VariantUnitCost(ctx context.Context, variantID string) (float64, error)
	SetHeroFlag(ctx context.Context, productID string) error
}

// MetricsSink persists weekly KPI rows.
type MetricsSink interface {
	WriteWeekKPI(ctx context.Context, kpi models.WeekKPI) error
}

// Planner runs the weekly promo pipeline against its collaborators. One run
// reads a fresh snapshot, computes a draft, and writes one record keyed by
// week; runs for different weeks cannot conflict.
type Planner struct {
	Config    *models.Config
	Catalog   CatalogSource
	Drafts    repositories.DraftRepository
	Campaigns repositories.CampaignRepository
	Events    events.Sink
	Metrics   MetricsSink
}

// GenerateDraft fetches the catalog snapshot and trailing order window,
// selects and prices this week's candidates, and persists the draft. The
// draft is written only after selection fully completes; an upstream
// failure aborts the run with nothing persisted.
func (p *Planner) GenerateDraft(ctx context.Context, now time.Time) (*models.DraftWeek, engine.Diagnostics, error) {
	cfg := p.Config.Planner
	week := models.WeekKey(now)

	candidates, err := p.Catalog.FetchCandidates(ctx, cfg)
	if err != nil {
		return nil, engine.Diagnostics{}, fmt.Errorf("fetching candidates: %w", err)
	}

	orders, err := p.Catalog.FetchOrdersSince(ctx, cfg.OrderWindowDays)
	if err != nil {
		return nil, engine.Diagnostics{}, fmt.Errorf("fetching orders: %w", err)
	}

	units := models.UnitsByVariant(orders)
	for i := range candidates {
		candidates[i].RecentVelocity = units[candidates[i].VariantID]
	}

	history, err := p.loadAppearanceIndex(ctx, now)
	if err != nil {
		return nil, engine.Diagnostics{}, fmt.Errorf("loading appearance history: %w", err)
	}

	sel := engine.NewSelector(cfg, history).SelectAndPrice(candidates)

	draft := &models.DraftWeek{
		WeekKey:   week,
		Items:     sel.Picks,
		Status:    models.StatusDraft,
		UpdatedAt: now.UTC(),
	}
	if err := p.Drafts.Save(ctx, draft); err != nil {
		return nil, sel.Diagnostics, fmt.Errorf("saving draft: %w", err)
	}

	log.Printf("draft %s: %d items selected of %d candidates", week, len(sel.Picks), sel.Diagnostics.Total)
	return draft, sel.Diagnostics, nil
}

// loadAppearanceIndex pre-loads the last N weekly snapshots, walking the
// week key backwards in 7-day steps from now, and indexes them by variant.
func (p *Planner) loadAppearanceIndex(ctx context.Context, now time.Time) (engine.AppearanceIndex, error) {
	// The walk starts at today's key, so when a week is regenerated its
	// existing draft counts as one appearance.
	weeksBack := p.Config.Planner.FatigueWeeksBack
	snapshots := make([]*models.DraftWeek, 0, weeksBack)
	for i := 0; i < weeksBack; i++ {
		key := models.WeekKey(now.AddDate(0, 0, -7*i))
		week, err := p.Drafts.Get(ctx, key)
		if err != nil {
			return nil, err
		}
		snapshots = append(snapshots, week) // nil weeks are fine, they count nothing
	}
	return engine.BuildAppearanceIndex(snapshots), nil
}

// CurrentDraft reads the draft for the given week. An absent week comes
// back as an empty well-formed draft, not an error.
func (p *Planner) CurrentDraft(ctx context.Context, weekKey string) (*models.DraftWeek, error) {
	draft, err := p.Drafts.Get(ctx, weekKey)
	if err != nil {
		return nil, err
	}
	if draft == nil {
		return &models.DraftWeek{
			WeekKey: weekKey,
			Items:   []models.PricedItem{},
			Status:  models.StatusEmpty,
		}, nil
	}
	return draft, nil
}

// SaveDraft overwrites a week's items while the week is still in draft.
// Published weeks are immutable; a new run is required to change them.
func (p *Planner) SaveDraft(ctx context.Context, weekKey string, items []models.PricedItem) error {
	existing, err := p.Drafts.Get(ctx, weekKey)
	if err != nil {
		return err
	}
	if existing != nil && existing.Status != models.StatusDraft {
		return fmt.Errorf("week %s is %s and cannot be edited", weekKey, existing.Status)
	}
	return p.Drafts.Save(ctx, &models.DraftWeek{
		WeekKey:   weekKey,
		Items:     items,
		Status:    models.StatusDraft,
		UpdatedAt: time.Now().UTC(),
	})
}

// EnrichCost replaces estimated unit costs in a week's draft with real
// costs looked up from the catalog source, and recomputes each enriched
// item's margin at the already-set promo price. Only drafts can be
// enriched. Returns how many items were enriched.
func (p *Planner) EnrichCost(ctx context.Context, weekKey string) (int, error) {
	draft, err := p.Drafts.Get(ctx, weekKey)
	if err != nil {
		return 0, err
	}
	if draft == nil {
		return 0, fmt.Errorf("no draft found for week %s", weekKey)
	}
	if draft.Status != models.StatusDraft {
		return 0, fmt.Errorf("week %s is %s and cannot be enriched", weekKey, draft.Status)
	}

	enriched := 0
	for i := range draft.Items {
		it := &draft.Items[i]
		if !it.CostEstimated {
			continue
		}
		cost, err := p.Catalog.VariantUnitCost(ctx, it.VariantID)
		if err != nil {
			log.Printf("cost lookup failed for %s: %v", it.VariantID, err)
			continue
		}
		if cost <= 0 || cost >= engine.Money(it.RegularPrice) {
			continue
		}
		it.UnitCost = engine.Money(cost)
		it.CostEstimated = false
		it.MarginAtPromo = engine.MarginAt(it.PromoPrice, it.UnitCost)
		enriched++
	}

	if enriched == 0 {
		return 0, nil
	}
	draft.UpdatedAt = time.Now().UTC()
	if err := p.Drafts.Save(ctx, draft); err != nil {
		return enriched, fmt.Errorf("saving enriched draft: %w", err)
	}
	log.Printf("enriched %d estimated costs for week %s", enriched, weekKey)
	return enriched, nil
}

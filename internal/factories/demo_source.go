package factories

import (
	"context"
	"log"
	"sync"

	"github.com/noumanabid-jpg/Promo-Calculator/internal/engine"
	"github.com/noumanabid-jpg/Promo-Calculator/internal/models"
	"github.com/noumanabid-jpg/Promo-Calculator/internal/shopify"
)

// DemoSource is a synthetic stand-in for the live catalog so the whole
// pipeline can run dry against no store. Price writes are logged no-ops.
type DemoSource struct {
	factory *CatalogFactory

	mu    sync.Mutex
	items []models.CandidateItem
}

func NewDemoSource(seed int64) *DemoSource {
	return &DemoSource{factory: NewCatalogFactory(seed)}
}

func (d *DemoSource) FetchCandidates(ctx context.Context, cfg models.PlannerConfig) ([]models.CandidateItem, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.items == nil {
		d.items = d.factory.CreateCatalog(80, cfg)
		for i := range d.items {
			shopify.ApplyCostFallback(&d.items[i], cfg.CostFallbackRatio)
		}
	}
	out := make([]models.CandidateItem, len(d.items))
	copy(out, d.items)
	return out, nil
}

func (d *DemoSource) FetchOrdersSince(ctx context.Context, sinceDays int) ([]models.Order, error) {
	d.mu.Lock()
	items := d.items
	d.mu.Unlock()
	return d.factory.CreateOrders(items, sinceDays, 200), nil
}

func (d *DemoSource) VariantSnapshot(ctx context.Context, variantID string) (*models.VariantSnapshot, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i := range d.items {
		if d.items[i].VariantID == variantID {
			price := engine.Money(d.items[i].RegularPrice)
			return &models.VariantSnapshot{VariantID: variantID, Price: price}, nil
		}
	}
	return &models.VariantSnapshot{VariantID: variantID}, nil
}

func (d *DemoSource) UpdateVariantPrice(ctx context.Context, variantID string, price float64, compareAt *float64) error {
	log.Printf("demo: would set %s to %.2f", variantID, price)
	return nil
}

func (d *DemoSource) VariantUnitCost(ctx context.Context, variantID string) (float64, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i := range d.items {
		if d.items[i].VariantID == variantID {
			return d.items[i].UnitCost, nil
		}
	}
	return 0, nil
}

func (d *DemoSource) SetHeroFlag(ctx context.Context, productID string) error {
	log.Printf("demo: would flag hero %s", productID)
	return nil
}

package planner

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noumanabid-jpg/Promo-Calculator/internal/events"
	"github.com/noumanabid-jpg/Promo-Calculator/internal/models"
)

type fakeCatalog struct {
	candidates []models.CandidateItem
	orders     []models.Order
	fetchErr   error

	prices    map[string]float64
	heroFlags map[string]bool
	unitCosts map[string]float64
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		prices:    make(map[string]float64),
		heroFlags: make(map[string]bool),
		unitCosts: make(map[string]float64),
	}
}

func (f *fakeCatalog) FetchCandidates(_ context.Context, _ models.PlannerConfig) ([]models.CandidateItem, error) {
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return f.candidates, nil
}

func (f *fakeCatalog) FetchOrdersSince(_ context.Context, _ int) ([]models.Order, error) {
	return f.orders, nil
}

func (f *fakeCatalog) VariantSnapshot(_ context.Context, variantID string) (*models.VariantSnapshot, error) {
	price := 10.0
	return &models.VariantSnapshot{VariantID: variantID, Price: price}, nil
}

func (f *fakeCatalog) UpdateVariantPrice(_ context.Context, variantID string, price float64, _ *float64) error {
	f.prices[variantID] = price
	return nil
}

func (f *fakeCatalog) VariantUnitCost(_ context.Context, variantID string) (float64, error) {
	return f.unitCosts[variantID], nil
}

func (f *fakeCatalog) SetHeroFlag(_ context.Context, productID string) error {
	f.heroFlags[productID] = true
	return nil
}

type memoryDrafts struct {
	weeks map[string]*models.DraftWeek
}

func newMemoryDrafts() *memoryDrafts {
	return &memoryDrafts{weeks: make(map[string]*models.DraftWeek)}
}

func (m *memoryDrafts) Get(_ context.Context, weekKey string) (*models.DraftWeek, error) {
	draft, ok := m.weeks[weekKey]
	if !ok {
		return nil, nil
	}
	copied := *draft
	return &copied, nil
}

func (m *memoryDrafts) Save(_ context.Context, draft *models.DraftWeek) error {
	copied := *draft
	m.weeks[draft.WeekKey] = &copied
	return nil
}

func (m *memoryDrafts) UpdateStatus(_ context.Context, weekKey, status string) error {
	draft, ok := m.weeks[weekKey]
	if !ok {
		return fmt.Errorf("no draft found for week %s", weekKey)
	}
	draft.Status = status
	return nil
}

type memoryCampaigns struct {
	campaigns []*models.Campaign
}

func (m *memoryCampaigns) Create(_ context.Context, c *models.Campaign) error {
	copied := *c
	m.campaigns = append(m.campaigns, &copied)
	return nil
}

func (m *memoryCampaigns) Get(_ context.Context, id string) (*models.Campaign, error) {
	for _, c := range m.campaigns {
		if c.ID == id {
			copied := *c
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *memoryCampaigns) Latest(_ context.Context) (*models.Campaign, error) {
	for i := len(m.campaigns) - 1; i >= 0; i-- {
		if !m.campaigns[i].RolledBack {
			copied := *m.campaigns[i]
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *memoryCampaigns) List(_ context.Context, _ int) ([]*models.Campaign, error) {
	return m.campaigns, nil
}

func (m *memoryCampaigns) MarkRolledBack(_ context.Context, id string) error {
	for _, c := range m.campaigns {
		if c.ID == id {
			c.RolledBack = true
			return nil
		}
	}
	return fmt.Errorf("no campaign found with id %s", id)
}

type nopMetrics struct {
	written []models.WeekKPI
}

func (n *nopMetrics) WriteWeekKPI(_ context.Context, kpi models.WeekKPI) error {
	n.written = append(n.written, kpi)
	return nil
}

func testPlanner(catalog *fakeCatalog) (*Planner, *memoryDrafts, *memoryCampaigns) {
	drafts := newMemoryDrafts()
	campaigns := &memoryCampaigns{}
	cfg := &models.Config{Planner: models.DefaultPlannerConfig()}
	cfg.Kafka.Topic = "promo_price_updates"
	cfg.Export.OutputPath = "" // exports unused in tests
	p := &Planner{
		Config:    cfg,
		Catalog:   catalog,
		Drafts:    drafts,
		Campaigns: campaigns,
		Events:    &events.ConsoleSink{},
		Metrics:   &nopMetrics{},
	}
	return p, drafts, campaigns
}

func fruitCandidate(i int) models.CandidateItem {
	return models.CandidateItem{
		ProductID:         fmt.Sprintf("p%d", i),
		VariantID:         fmt.Sprintf("v%d", i),
		Title:             fmt.Sprintf("Fruit %d", i),
		Category:          models.CategoryFruit,
		RegularPrice:      10,
		UnitCost:          5,
		InventoryQuantity: 50 + i,
	}
}

func TestGenerateDraftPersistsSelection(t *testing.T) {
	catalog := newFakeCatalog()
	for i := 0; i < 4; i++ {
		catalog.candidates = append(catalog.candidates, fruitCandidate(i))
	}
	catalog.orders = []models.Order{
		{ID: "o1", LineItems: []models.LineItem{{VariantID: "v0", Quantity: 7}}},
	}

	p, drafts, _ := testPlanner(catalog)
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)

	draft, diag, err := p.GenerateDraft(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, "2026-08-31", draft.WeekKey)
	assert.Equal(t, models.StatusDraft, draft.Status)
	assert.Len(t, draft.Items, 4)
	assert.Equal(t, 4, diag.Total)

	stored, err := drafts.Get(context.Background(), "2026-08-31")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Len(t, stored.Items, 4)

	// velocity flowed in from the order window and boosted v0's rank
	assert.Equal(t, "v0", draft.Items[0].VariantID)
	assert.Equal(t, 7, draft.Items[0].RecentVelocity)
}

func TestGenerateDraftUpstreamFailureWritesNothing(t *testing.T) {
	catalog := newFakeCatalog()
	catalog.fetchErr = fmt.Errorf("catalog unavailable")

	p, drafts, _ := testPlanner(catalog)
	_, _, err := p.GenerateDraft(context.Background(), time.Now())
	require.Error(t, err)
	assert.Empty(t, drafts.weeks)
}

func TestGenerateDraftAppliesFatigueFromPastWeeks(t *testing.T) {
	catalog := newFakeCatalog()
	catalog.candidates = []models.CandidateItem{fruitCandidate(0), fruitCandidate(1)}

	p, drafts, _ := testPlanner(catalog)
	now := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)

	// v0 appeared in 3 of the last 8 weekly snapshots
	for _, back := range []int{1, 2, 3} {
		key := models.WeekKey(now.AddDate(0, 0, -7*back))
		require.NoError(t, drafts.Save(context.Background(), &models.DraftWeek{
			WeekKey: key,
			Status:  models.StatusPublished,
			Items: []models.PricedItem{
				{CandidateItem: models.CandidateItem{VariantID: "v0"}},
			},
		}))
	}

	draft, diag, err := p.GenerateDraft(context.Background(), now)
	require.NoError(t, err)
	require.Len(t, draft.Items, 1)
	assert.Equal(t, "v1", draft.Items[0].VariantID)
	assert.Equal(t, 1, diag.SkippedFatigued)
}

func TestCurrentDraftAbsentWeek(t *testing.T) {
	p, _, _ := testPlanner(newFakeCatalog())
	draft, err := p.CurrentDraft(context.Background(), "2026-01-05")
	require.NoError(t, err)
	assert.Equal(t, models.StatusEmpty, draft.Status)
	assert.Empty(t, draft.Items)
}

func TestPublishRecordsCampaignAndFlipsStatus(t *testing.T) {
	catalog := newFakeCatalog()
	for i := 0; i < 3; i++ {
		catalog.candidates = append(catalog.candidates, fruitCandidate(i))
	}

	p, drafts, campaigns := testPlanner(catalog)
	now := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	_, _, err := p.GenerateDraft(context.Background(), now)
	require.NoError(t, err)

	campaign, itemErrors, err := p.Publish(context.Background(), "2026-08-31")
	require.NoError(t, err)
	assert.Empty(t, itemErrors)
	assert.NotEmpty(t, campaign.ID)
	assert.Equal(t, 3, campaign.ItemCount)
	assert.Len(t, campaign.Snapshot, 3)

	stored, _ := drafts.Get(context.Background(), "2026-08-31")
	assert.Equal(t, models.StatusPublished, stored.Status)
	require.Len(t, campaigns.campaigns, 1)

	// promo prices actually reached the catalog
	assert.Equal(t, stored.Items[0].PromoPrice, catalog.prices[stored.Items[0].VariantID])
}

func TestPublishRefusesSecondPublish(t *testing.T) {
	catalog := newFakeCatalog()
	catalog.candidates = []models.CandidateItem{fruitCandidate(0)}

	p, _, _ := testPlanner(catalog)
	now := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	_, _, err := p.GenerateDraft(context.Background(), now)
	require.NoError(t, err)

	_, _, err = p.Publish(context.Background(), "2026-08-31")
	require.NoError(t, err)

	_, _, err = p.Publish(context.Background(), "2026-08-31")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already published")
}

func TestRollbackRestoresSnapshotPrices(t *testing.T) {
	catalog := newFakeCatalog()
	catalog.candidates = []models.CandidateItem{fruitCandidate(0), fruitCandidate(1)}

	p, drafts, _ := testPlanner(catalog)
	now := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	_, _, err := p.GenerateDraft(context.Background(), now)
	require.NoError(t, err)

	campaign, _, err := p.Publish(context.Background(), "2026-08-31")
	require.NoError(t, err)

	rolled, itemErrors, err := p.Rollback(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, itemErrors)
	assert.Equal(t, campaign.ID, rolled.ID)

	// snapshot price (10.0) restored on every variant
	for _, snap := range campaign.Snapshot {
		assert.Equal(t, snap.Price, catalog.prices[snap.VariantID])
	}

	stored, _ := drafts.Get(context.Background(), "2026-08-31")
	assert.Equal(t, models.StatusReverted, stored.Status)

	// a second rollback finds nothing outstanding
	_, _, err = p.Rollback(context.Background(), "")
	require.Error(t, err)
}

func TestSaveDraftRefusesPublishedWeek(t *testing.T) {
	catalog := newFakeCatalog()
	catalog.candidates = []models.CandidateItem{fruitCandidate(0)}

	p, _, _ := testPlanner(catalog)
	now := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	_, _, err := p.GenerateDraft(context.Background(), now)
	require.NoError(t, err)
	_, _, err = p.Publish(context.Background(), "2026-08-31")
	require.NoError(t, err)

	err = p.SaveDraft(context.Background(), "2026-08-31", nil)
	require.Error(t, err)
}

func TestEnrichCostReplacesEstimates(t *testing.T) {
	catalog := newFakeCatalog()
	estimated := fruitCandidate(0)
	estimated.UnitCost = 7 // 70% fallback of 10
	estimated.CostEstimated = true
	real := fruitCandidate(1)
	catalog.candidates = []models.CandidateItem{estimated, real}
	catalog.unitCosts["v0"] = 4.20

	p, drafts, _ := testPlanner(catalog)
	now := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	_, _, err := p.GenerateDraft(context.Background(), now)
	require.NoError(t, err)

	enriched, err := p.EnrichCost(context.Background(), "2026-08-31")
	require.NoError(t, err)
	assert.Equal(t, 1, enriched)

	stored, _ := drafts.Get(context.Background(), "2026-08-31")
	for i := range stored.Items {
		it := stored.Items[i]
		switch it.VariantID {
		case "v0":
			assert.Equal(t, 4.20, it.UnitCost)
			assert.False(t, it.CostEstimated)
		case "v1":
			assert.Equal(t, 5.0, it.UnitCost) // untouched
		}
	}
}

func TestEnrichCostRefusesPublishedWeek(t *testing.T) {
	catalog := newFakeCatalog()
	catalog.candidates = []models.CandidateItem{fruitCandidate(0)}

	p, _, _ := testPlanner(catalog)
	now := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	_, _, err := p.GenerateDraft(context.Background(), now)
	require.NoError(t, err)
	_, _, err = p.Publish(context.Background(), "2026-08-31")
	require.NoError(t, err)

	_, err = p.EnrichCost(context.Background(), "2026-08-31")
	require.Error(t, err)
}

func TestMeasureComputesKPIsForPublishedWeek(t *testing.T) {
	catalog := newFakeCatalog()
	for i := 0; i < 4; i++ {
		catalog.candidates = append(catalog.candidates, fruitCandidate(i))
	}

	p, _, _ := testPlanner(catalog)
	metrics := &nopMetrics{}
	p.Metrics = metrics
	p.Config.Export.OutputPath = t.TempDir()

	lastWeek := time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC)
	_, _, err := p.GenerateDraft(context.Background(), lastWeek)
	require.NoError(t, err)
	_, _, err = p.Publish(context.Background(), "2026-08-24")
	require.NoError(t, err)

	catalog.orders = []models.Order{
		{ID: "o1", LineItems: []models.LineItem{{VariantID: "v0", Quantity: 3}}},
		{ID: "o2", LineItems: []models.LineItem{{VariantID: "not-promoted", Quantity: 5}}},
	}

	kpi, err := p.Measure(context.Background(), lastWeek.AddDate(0, 0, 7))
	require.NoError(t, err)
	require.NotNil(t, kpi)
	assert.Equal(t, int64(3), kpi.Units)
	assert.Equal(t, int64(1), kpi.Orders)
	require.Len(t, metrics.written, 1)
	assert.Equal(t, "2026-08-24", metrics.written[0].Week)
}

func TestMeasureSkipsUnpublishedWeek(t *testing.T) {
	p, _, _ := testPlanner(newFakeCatalog())
	kpi, err := p.Measure(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Nil(t, kpi)
}

package engine

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noumanabid-jpg/Promo-Calculator/internal/models"
)

func candidate(i int, category string) models.CandidateItem {
	return models.CandidateItem{
		ProductID:         fmt.Sprintf("p%d", i),
		VariantID:         fmt.Sprintf("v%d", i),
		Title:             fmt.Sprintf("Item %d", i),
		Category:          category,
		RegularPrice:      10,
		UnitCost:          5,
		InventoryQuantity: 10,
		RecentVelocity:    5,
	}
}

func testConfig() models.PlannerConfig {
	return models.DefaultPlannerConfig()
}

func TestSelectAndPriceCapsPerCategory(t *testing.T) {
	var candidates []models.CandidateItem
	for i := 0; i < 10; i++ {
		c := candidate(i, models.CategoryFruit)
		c.InventoryQuantity = 100 - i*10 // descending stock pressure
		candidates = append(candidates, c)
	}

	sel := NewSelector(testConfig(), nil).SelectAndPrice(candidates)
	require.Len(t, sel.Picks, 6)

	// top 6 by score, in descending score order
	for i := 0; i < 6; i++ {
		assert.Equal(t, fmt.Sprintf("v%d", i), sel.Picks[i].VariantID)
		if i > 0 {
			assert.GreaterOrEqual(t, sel.Picks[i-1].Score, sel.Picks[i].Score)
		}
	}
}

func TestSelectAndPriceStableTieBreak(t *testing.T) {
	// identical signals produce identical scores; first-seen order must win
	var candidates []models.CandidateItem
	for i := 0; i < 8; i++ {
		candidates = append(candidates, candidate(i, models.CategoryVegetable))
	}

	sel := NewSelector(testConfig(), nil).SelectAndPrice(candidates)
	require.Len(t, sel.Picks, 6)
	for i := 0; i < 6; i++ {
		assert.Equal(t, fmt.Sprintf("v%d", i), sel.Picks[i].VariantID)
	}
}

func TestSelectAndPriceCategoriesConcatenated(t *testing.T) {
	candidates := []models.CandidateItem{
		candidate(0, models.CategoryVegetable),
		candidate(1, models.CategoryFruit),
		candidate(2, "fresh fruit"), // loose category match
		candidate(3, models.CategoryOther),
	}

	sel := NewSelector(testConfig(), nil).SelectAndPrice(candidates)
	require.Len(t, sel.Picks, 3)
	// fruit group first, then vegetables; "other" never selected
	assert.Equal(t, "v1", sel.Picks[0].VariantID)
	assert.Equal(t, "v2", sel.Picks[1].VariantID)
	assert.Equal(t, "v0", sel.Picks[2].VariantID)
}

func TestSelectAndPriceEligibility(t *testing.T) {
	noPrice := candidate(0, models.CategoryFruit)
	noPrice.RegularPrice = 0

	noMargin := candidate(1, models.CategoryFruit)
	noMargin.UnitCost = noMargin.RegularPrice + 1

	doNot := candidate(2, models.CategoryFruit)
	doNot.DoNotDiscount = true

	noIdentity := candidate(3, models.CategoryFruit)
	noIdentity.VariantID = ""

	ok := candidate(4, models.CategoryFruit)

	sel := NewSelector(testConfig(), nil).SelectAndPrice(
		[]models.CandidateItem{noPrice, noMargin, doNot, noIdentity, ok})

	require.Len(t, sel.Picks, 1)
	assert.Equal(t, "v4", sel.Picks[0].VariantID)
	assert.Equal(t, 1, sel.Diagnostics.SkippedNoPrice)
	assert.Equal(t, 1, sel.Diagnostics.SkippedNoMargin)
	assert.Equal(t, 1, sel.Diagnostics.SkippedDoNotDiscount)
	assert.Equal(t, 1, sel.Diagnostics.SkippedInvalid)
	assert.Equal(t, 1, sel.Diagnostics.Eligible)
}

func TestSelectAndPriceFatigueThreshold(t *testing.T) {
	history := AppearanceIndex{"v0": 3, "v1": 2}

	sel := NewSelector(testConfig(), history).SelectAndPrice([]models.CandidateItem{
		candidate(0, models.CategoryFruit), // 3 appearances: excluded
		candidate(1, models.CategoryFruit), // 2 appearances: kept
	})

	require.Len(t, sel.Picks, 1)
	assert.Equal(t, "v1", sel.Picks[0].VariantID)
	assert.Equal(t, 1, sel.Diagnostics.SkippedFatigued)
}

func TestSelectAndPriceHeroBoostRanksHigher(t *testing.T) {
	plain := candidate(0, models.CategoryFruit)
	hero := candidate(1, models.CategoryFruit)
	hero.IsHero = true

	sel := NewSelector(testConfig(), nil).SelectAndPrice([]models.CandidateItem{plain, hero})
	require.Len(t, sel.Picks, 2)
	assert.Equal(t, "v1", sel.Picks[0].VariantID)
	assert.Equal(t, 1.0, sel.Picks[0].HeroBoost)
}

func TestSelectAndPriceEmptyPopulation(t *testing.T) {
	sel := NewSelector(testConfig(), nil).SelectAndPrice(nil)
	assert.Empty(t, sel.Picks)
	assert.Equal(t, "no-eligible-candidates", sel.Diagnostics.Reason)
}

func TestSelectAndPricePromoFieldsPopulated(t *testing.T) {
	sel := NewSelector(testConfig(), nil).SelectAndPrice(
		[]models.CandidateItem{candidate(0, models.CategoryFruit)})
	require.Len(t, sel.Picks, 1)

	p := sel.Picks[0]
	assert.Equal(t, 8.50, p.PromoPrice) // 20% off 10 -> 8, rounded to 8.50
	assert.Equal(t, RoundingRule, p.RoundingRule)
	assert.InDelta(t, MarginAt(8.50, 5), p.MarginAtPromo, 1e-9)
	assert.Greater(t, p.Score, 0.0)
}

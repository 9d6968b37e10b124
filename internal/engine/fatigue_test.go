package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noumanabid-jpg/Promo-Calculator/internal/models"
)

func weekWith(key string, variantIDs ...string) *models.DraftWeek {
	w := &models.DraftWeek{WeekKey: key, Status: models.StatusDraft}
	for _, id := range variantIDs {
		w.Items = append(w.Items, models.PricedItem{
			CandidateItem: models.CandidateItem{VariantID: id},
		})
	}
	return w
}

func TestBuildAppearanceIndex(t *testing.T) {
	snapshots := []*models.DraftWeek{
		weekWith("2026-08-24", "v1", "v2"),
		weekWith("2026-08-17", "v1"),
		nil, // absent week
		weekWith("2026-08-10", "v1", "v1"), // duplicate within a week counts once
		weekWith("2026-08-03", "v2"),
	}

	ix := BuildAppearanceIndex(snapshots)
	assert.Equal(t, 3, ix["v1"])
	assert.Equal(t, 2, ix["v2"])
	assert.Equal(t, 0, ix["v3"])
}

func TestIsFatiguedThreshold(t *testing.T) {
	ix := AppearanceIndex{"three": 3, "two": 2}

	// more than 2 appearances in the sampled window is fatigued
	assert.True(t, ix.IsFatigued("three", 2))
	assert.False(t, ix.IsFatigued("two", 2))
	assert.False(t, ix.IsFatigued("never-seen", 2))
}

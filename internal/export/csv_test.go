package export

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noumanabid-jpg/Promo-Calculator/internal/models"
)

func TestWriteDraftCSV(t *testing.T) {
	draft := &models.DraftWeek{
		WeekKey:   "2026-08-31",
		Status:    models.StatusDraft,
		UpdatedAt: time.Now(),
		Items: []models.PricedItem{
			{
				CandidateItem: models.CandidateItem{
					SKU:               "APL-01",
					Title:             "Gala Apples",
					VariantLabel:      "1kg",
					Category:          models.CategoryFruit,
					RegularPrice:      4.99,
					InventoryQuantity: 120,
					RecentVelocity:    37,
					Score:             0.7421,
					CostEstimated:     true,
				},
				PromoPrice:    3.95,
				MarginAtPromo: 0.12,
				RoundingRule:  ".50/.95",
			},
			{
				CandidateItem: models.CandidateItem{
					SKU:      "CRT-02",
					Title:    "Carrots",
					Category: models.CategoryVegetable,
				},
				PromoPrice: 0.95,
			},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteDraftCSV(&buf, draft))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3) // header + 2 items

	assert.Equal(t, draftHeader, records[0])
	assert.Equal(t, "2026-08-31", records[1][0])
	assert.Equal(t, "APL-01", records[1][1])
	assert.Equal(t, "4.99", records[1][5])
	assert.Equal(t, "3.95", records[1][6])
	assert.Equal(t, "true", records[1][12])
	assert.Equal(t, "CRT-02", records[2][1])
}

func TestWriteDraftCSVEmptyDraft(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteDraftCSV(&buf, &models.DraftWeek{WeekKey: "2026-08-31"}))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Len(t, records, 1) // header only
}

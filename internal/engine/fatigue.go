package engine

import (
	"github.com/noumanabid-jpg/Promo-Calculator/internal/models"
)

// AppearanceIndex counts, per variant, how many of the sampled weekly
// snapshots included the variant. The planner pre-loads the last N weekly
// drafts once per run instead of probing the store per variant; the
// semantics are identical.
//
// Note this counts any appearance across the sampled snapshots, not true
// consecutive-week adjacency.
type AppearanceIndex map[string]int

// BuildAppearanceIndex indexes the given weekly snapshots by variant.
// A variant counts at most once per snapshot.
func BuildAppearanceIndex(snapshots []*models.DraftWeek) AppearanceIndex {
	ix := make(AppearanceIndex)
	for _, week := range snapshots {
		if week == nil {
			continue
		}
		seen := make(map[string]bool, len(week.Items))
		for i := range week.Items {
			id := week.Items[i].VariantID
			if id == "" || seen[id] {
				continue
			}
			seen[id] = true
			ix[id]++
		}
	}
	return ix
}

// IsFatigued reports whether the variant appeared in strictly more than
// maxAppearances of the sampled weeks.
func (ix AppearanceIndex) IsFatigued(variantID string, maxAppearances int) bool {
	return ix[variantID] > maxAppearances
}

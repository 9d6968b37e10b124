package engine

import (
	"errors"
	"math"
	"sort"
	"strings"

	"github.com/noumanabid-jpg/Promo-Calculator/internal/models"
)

// Diagnostics tallies why candidates fell out of a run. Per-item anomalies
// are absorbed here rather than failing the run.
type Diagnostics struct {
	Total                int            `json:"total"`
	Eligible             int            `json:"eligible"`
	SkippedNoPrice       int            `json:"skipped_no_price"`
	SkippedNoMargin      int            `json:"skipped_no_margin"`
	SkippedDoNotDiscount int            `json:"skipped_do_not_discount"`
	SkippedFatigued      int            `json:"skipped_fatigued"`
	SkippedInvalid       int            `json:"skipped_invalid"`
	RejectedPricing      map[string]int `json:"rejected_pricing,omitempty"`
	Reason               string         `json:"reason,omitempty"`
}

// Selection is the in-memory priced list for a run plus its diagnostics.
type Selection struct {
	Picks       []models.PricedItem
	Diagnostics Diagnostics
}

// Selector orchestrates eligibility, normalization, scoring, per-category
// ranking and guardrail pricing over one run's candidate snapshot.
type Selector struct {
	cfg        models.PlannerConfig
	guardrails Guardrails
	history    AppearanceIndex
}

func NewSelector(cfg models.PlannerConfig, history AppearanceIndex) *Selector {
	if history == nil {
		history = make(AppearanceIndex)
	}
	return &Selector{
		cfg: cfg,
		guardrails: Guardrails{
			MinMargin:         cfg.MinMargin,
			TargetDiscount:    cfg.TargetDiscount,
			CategoryDiscounts: cfg.CategoryDiscounts,
			MaxRetries:        cfg.MaxPricingRetries,
		},
		history: history,
	}
}

// SelectAndPrice runs the full pipeline over the candidate snapshot. The
// result is always well-formed; a degenerate population yields an empty
// selection with a diagnostic reason, never an error.
func (s *Selector) SelectAndPrice(candidates []models.CandidateItem) Selection {
	diag := Diagnostics{
		Total:           len(candidates),
		RejectedPricing: make(map[string]int),
	}

	eligible := make([]models.CandidateItem, 0, len(candidates))
	for _, c := range candidates {
		switch {
		case c.VariantID == "" || c.ProductID == "":
			diag.SkippedInvalid++
		case c.DoNotDiscount:
			diag.SkippedDoNotDiscount++
		case Money(c.RegularPrice) <= 0:
			diag.SkippedNoPrice++
		case Money(c.UnitCost) <= 0 || Money(c.UnitCost) >= Money(c.RegularPrice):
			// not priceable at any discount, never priced at a loss
			diag.SkippedNoMargin++
		case s.history.IsFatigued(c.VariantID, s.cfg.FatigueMaxAppearances):
			diag.SkippedFatigued++
		default:
			eligible = append(eligible, c)
		}
	}
	diag.Eligible = len(eligible)

	if len(eligible) == 0 {
		diag.Reason = "no-eligible-candidates"
		return Selection{Diagnostics: diag}
	}

	invMin, invMax := 0.0, 1.0
	velMin, velMax := 0.0, 1.0
	for i := range eligible {
		invMax = math.Max(invMax, float64(eligible[i].InventoryQuantity))
		velMax = math.Max(velMax, float64(eligible[i].RecentVelocity))
	}

	for i := range eligible {
		it := &eligible[i]
		headroom := (it.RegularPrice - it.UnitCost) / it.RegularPrice
		it.MarginHeadroomNorm = Normalize(headroom, 0, 0.5)
		it.StockPressureNorm = Normalize(float64(it.InventoryQuantity), invMin, invMax)
		it.VelocityNorm = Normalize(float64(it.RecentVelocity), velMin, velMax)
		it.HeroBoost = 0
		if it.IsHero {
			it.HeroBoost = 1
		}
		it.Score = Score(it.StockPressureNorm, it.MarginHeadroomNorm, it.VelocityNorm, it.HeroBoost)
	}

	fruits := topByCategory(eligible, models.CategoryFruit, s.cfg.TopNFruit)
	vegs := topByCategory(eligible, models.CategoryVegetable, s.cfg.TopNVegetable)
	picks := append(fruits, vegs...)

	if len(picks) == 0 {
		diag.Reason = "no-picks-by-category"
		return Selection{Diagnostics: diag}
	}

	out := make([]models.PricedItem, 0, len(picks))
	for _, it := range picks {
		promo, err := s.guardrails.ComputePromoPrice(it.RegularPrice, it.UnitCost, it.Category)
		if err != nil {
			var reason string
			switch {
			case errors.Is(err, ErrNoPrice):
				reason = ErrNoPrice.Error()
			case errors.Is(err, ErrNoMargin):
				reason = ErrNoMargin.Error()
			default:
				reason = ErrCannotHitMargin.Error()
			}
			diag.RejectedPricing[reason]++
			continue
		}
		out = append(out, models.PricedItem{
			CandidateItem: it,
			PromoPrice:    promo,
			MarginAtPromo: MarginAt(promo, Money(it.UnitCost)),
			RoundingRule:  RoundingRule,
		})
	}

	if len(out) == 0 {
		diag.Reason = "no-items-survived-pricing"
	}
	return Selection{Picks: out, Diagnostics: diag}
}

// topByCategory returns the top n candidates whose category matches the
// bucket, sorted by descending score. The sort is stable so ties keep their
// first-seen input order and runs stay deterministic.
func topByCategory(items []models.CandidateItem, bucket string, n int) []models.CandidateItem {
	if n <= 0 {
		return nil
	}
	var group []models.CandidateItem
	for _, it := range items {
		if strings.Contains(it.Category, bucket) {
			group = append(group, it)
		}
	}
	sort.SliceStable(group, func(i, j int) bool {
		return group[i].Score > group[j].Score
	})
	if len(group) > n {
		group = group[:n]
	}
	return group
}

package engine

import (
	"errors"
	"math"
)

// Rejection reasons surfaced by guardrail pricing. Each maps to a distinct
// diagnostic tally so an operator can see why items fell out of a draft.
var (
	ErrNoPrice         = errors.New("no-price")
	ErrNoMargin        = errors.New("no-margin")
	ErrCannotHitMargin = errors.New("cannot-hit-margin")
)

// RoundingRule names the psychological-rounding convention applied to every
// accepted promo price.
const RoundingRule = ".50/.95"

const (
	defaultMaxRetries = 4
	marginEpsilon     = 1e-9
)

// Guardrails computes promo prices under a minimum-margin floor and the
// .50/.95 psychological-rounding rule.
type Guardrails struct {
	MinMargin         float64
	TargetDiscount    float64
	CategoryDiscounts map[string]float64
	MaxRetries        int
}

func (g Guardrails) discountFor(category string) float64 {
	if d, ok := g.CategoryDiscounts[category]; ok && d > 0 && d < 1 {
		return d
	}
	return g.TargetDiscount
}

// ComputePromoPrice finds the lowest acceptable promo price for the item, or
// a rejection. It starts from the target-discount candidate, rounds up to an
// attractive ending, and bumps towards the margin-floor price for a bounded
// number of retries when the margin comes up short. Idempotent for the same
// inputs; never returns a price <= 0 or a margin below the floor.
func (g Guardrails) ComputePromoPrice(regularPrice, unitCost float64, category string) (float64, error) {
	price := Money(regularPrice)
	cost := Money(unitCost)

	if price <= 0 {
		return 0, ErrNoPrice
	}
	if cost >= price {
		return 0, ErrNoMargin
	}

	promo := RoundPsych(price * (1 - g.discountFor(category)))
	if promo <= 0 {
		return 0, ErrCannotHitMargin
	}

	retries := g.MaxRetries
	if retries <= 0 {
		retries = defaultMaxRetries
	}

	for i := 0; i < retries; i++ {
		if MarginAt(promo, cost) >= g.MinMargin-marginEpsilon {
			return promo, nil
		}
		// Price at which the margin floor holds exactly, re-rounded upward.
		floor := RoundPsych(cost / (1 - g.MinMargin))
		if floor <= promo {
			floor = nextEnding(promo)
		}
		promo = floor
	}

	if MarginAt(promo, cost) >= g.MinMargin-marginEpsilon {
		return promo, nil
	}
	return 0, ErrCannotHitMargin
}

// MarginAt returns the fractional margin of selling at price against cost.
func MarginAt(price, cost float64) float64 {
	if price <= 0 {
		return 0
	}
	return (price - cost) / price
}

// RoundPsych rounds value up to the nearest price ending in .50 or .95.
// The result is never below the input: when both endings of the current
// whole undershoot, it advances to the next whole's .50.
func RoundPsych(value float64) float64 {
	v := Money(value)
	if v <= 0 {
		return 0
	}
	whole := math.Floor(v)
	for _, ending := range []float64{0.50, 0.95, 1.50} {
		candidate := Money(whole + ending)
		if candidate >= v-marginEpsilon {
			return candidate
		}
	}
	return Money(whole + 1.50) // unreachable, endings cover the unit interval
}

// nextEnding returns the attractive ending strictly above p.
func nextEnding(p float64) float64 {
	return RoundPsych(Money(p) + 0.01)
}

// Money clamps to non-negative and rounds to cents.
func Money(v float64) float64 {
	if v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return math.Round(v*100) / 100
}

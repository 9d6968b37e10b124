package engine

// Composite score weights. Stock pressure dominates: the point of the promo
// is moving inventory before it spoils.
const (
	weightStockPressure  = 0.35
	weightMarginHeadroom = 0.25
	weightVelocity       = 0.20
	weightHeroBoost      = 0.20
)

// Score combines the four normalized signals into one composite score.
// All inputs are expected in [0,1] (heroBoost is binary), so the output is
// already bounded and needs no clamping.
func Score(stockPressure, marginHeadroom, velocity, heroBoost float64) float64 {
	return weightStockPressure*stockPressure +
		weightMarginHeadroom*marginHeadroom +
		weightVelocity*velocity +
		weightHeroBoost*heroBoost
}

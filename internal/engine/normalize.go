package engine

// Normalize maps value into [0,1] given an observed min/max range. Values
// outside the range are clipped, not extrapolated. A degenerate range
// (max <= min, which includes single-valued populations) yields the neutral
// 0.5 so a uniform signal neither favours nor penalises any candidate.
func Normalize(value, min, max float64) float64 {
	if max <= min {
		return 0.5
	}
	x := (value - min) / (max - min)
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

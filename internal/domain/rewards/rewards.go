// Package rewards derives economic outcomes from a performance score.
package rewards

import "math"

// Multiplier shape constants. Payment doubles at a perfect score, fame
// triples, and the secondary streams pivot around the 50-point midline.
const (
	paymentScoreDivisor = 100.0
	fameScoreDivisor    = 50.0
	midline             = 50.0
	fanConversionRate   = 0.15
)

// Input carries everything the calculator needs. AvgEnergy is the mean crowd
// energy over the whole performance in [0,100].
type Input struct {
	Score        int
	BasePayment  float64
	BaseFame     float64
	BaseMerch    float64
	AudienceSize int
	AvgEnergy    float64
}

// Breakdown is the computed reward set. Every field is non-negative.
type Breakdown struct {
	Payment      int
	Fame         int
	MerchRevenue int
	NewFans      int
}

// Calculate maps score and context to rewards. Pure arithmetic: all
// multipliers are monotonically non-decreasing in score, and no output is
// ever negative.
func Calculate(in Input) Breakdown {
	score := float64(clampScore(in.Score))

	paymentMultiplier := 1 + score/paymentScoreDivisor
	fameMultiplier := 1 + score/fameScoreDivisor

	payment := math.Round(nonNegative(in.BasePayment) * paymentMultiplier)
	fame := math.Round(nonNegative(in.BaseFame) * fameMultiplier)
	merch := math.Round(nonNegative(in.BaseMerch) * (score / midline) * (nonNegative(in.AvgEnergy) / midline))

	audience := float64(in.AudienceSize)
	if audience < 0 {
		audience = 0
	}
	fans := math.Round(audience * (score / 100) * (nonNegative(in.AvgEnergy) / 100) * fanConversionRate)

	return Breakdown{
		Payment:      int(payment),
		Fame:         int(fame),
		MerchRevenue: int(merch),
		NewFans:      int(fans),
	}
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

func nonNegative(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}

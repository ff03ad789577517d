// Package review turns a performance score into press and fan reception.
package review

import (
	"math"
	"math/rand"
)

// Category is a score bucket driving the narrative tone.
type Category string

// Review categories, best to worst.
const (
	CategoryExcellent Category = "excellent"
	CategoryGood      Category = "good"
	CategoryAverage   Category = "average"
	CategoryPoor      Category = "poor"
)

// Bucket thresholds (inclusive lower bounds) and variance shape. Fan scores
// run a fixed bias above critic scores.
const (
	excellentFloor = 85
	goodFloor      = 70
	averageFloor   = 50

	criticVariance = 10.0
	fanVariance    = 7.5
	fanBias        = 5
)

// Review is the narrative outcome of a performance.
type Review struct {
	Category    Category `json:"category"`
	Headline    string   `json:"headline"`
	Summary     string   `json:"summary"`
	CriticScore int      `json:"critic_score"`
	FanScore    int      `json:"fan_score"`
}

// pool bundles the fixed strings for one category.
type pool struct {
	headlines []string
	summary   string
}

// pools is static configuration, read-only after init.
var pools = map[Category]pool{
	CategoryExcellent: {
		headlines: []string{
			"A Night That Will Be Talked About For Years",
			"Flawless From Soundcheck To Encore",
			"The Hottest Ticket In Town Just Got Hotter",
		},
		summary: "The band delivered a near-perfect set, holding the crowd in the palm of their hand from the first note to the last.",
	},
	CategoryGood: {
		headlines: []string{
			"A Strong Showing From A Band On The Rise",
			"Solid Set Keeps The Crowd Moving",
			"Few Missteps In A Confident Performance",
		},
		summary: "A well-executed show with real high points, even if it never quite caught fire end to end.",
	},
	CategoryAverage: {
		headlines: []string{
			"An Uneven Night With Flashes Of Promise",
			"Competent, But The Spark Never Caught",
			"The Crowd Got What It Paid For, Barely",
		},
		summary: "The band got through the set without disaster, but the room never fully came alive.",
	},
	CategoryPoor: {
		headlines: []string{
			"A Set Best Forgotten",
			"Rough Night Leaves The Crowd Cold",
			"Growing Pains On Full Display",
		},
		summary: "Between missed cues and a restless crowd, this was a night the band will want to put behind them.",
	},
}

// Categorize maps a score to its bucket. Bounds are inclusive on the lower
// edge and cover all of [0,100] without gaps.
func Categorize(score int) Category {
	switch {
	case score >= excellentFloor:
		return CategoryExcellent
	case score >= goodFloor:
		return CategoryGood
	case score >= averageFloor:
		return CategoryAverage
	default:
		return CategoryPoor
	}
}

// Generator produces reviews with bounded random variance.
type Generator struct {
	rng *rand.Rand
}

// New creates a Generator drawing variance from rng.
func New(rng *rand.Rand) *Generator {
	return &Generator{rng: rng}
}

// Generate builds the review for a final score. The headline is chosen
// uniformly from the category pool; critic and fan sub-scores vary around
// the score within fixed bounds.
func (g *Generator) Generate(score int) Review {
	category := Categorize(score)
	p := pools[category]

	critic := clamp(score + g.variance(criticVariance))
	fan := clamp(score + g.variance(fanVariance) + fanBias)

	return Review{
		Category:    category,
		Headline:    p.headlines[g.rng.Intn(len(p.headlines))],
		Summary:     p.summary,
		CriticScore: critic,
		FanScore:    fan,
	}
}

// variance draws a symmetric integer offset in [-width, +width].
func (g *Generator) variance(width float64) int {
	return int(math.Round((g.rng.Float64()*2 - 1) * width))
}

func clamp(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

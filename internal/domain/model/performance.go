package model

import "time"

// BandSnapshot is the read-only metrics snapshot fetched once per performance.
// All values are in [0,100].
type BandSnapshot struct {
	SongFamiliarity float64 `json:"song_familiarity"`
	GearQuality     float64 `json:"gear_quality"`
	BandChemistry   float64 `json:"band_chemistry"`
	SetlistFlow     float64 `json:"setlist_flow"`
}

// PerformanceContext supplies the reward baselines and audience context for
// one scheduled performance.
type PerformanceContext struct {
	BandID       string  `json:"band_id"`
	Venue        string  `json:"venue"`
	BasePayment  float64 `json:"base_payment"`
	BaseFame     float64 `json:"base_fame"`
	BaseMerch    float64 `json:"base_merch"`
	AudienceSize int     `json:"audience_size"`
}

// PerformanceMetrics is the scoring input vector assembled at completion time.
// Every field is already bounded to [0,100] by the assembler.
type PerformanceMetrics struct {
	SongFamiliarity float64 `json:"song_familiarity"`
	GearQuality     float64 `json:"gear_quality"`
	BandChemistry   float64 `json:"band_chemistry"`
	SetlistFlow     float64 `json:"setlist_flow"`
	CrowdManagement float64 `json:"crowd_management"`
	EventResponses  float64 `json:"event_responses"`
}

// PerformanceResult is the terminal artifact of a completed session. It is
// created exactly once and never mutated; ownership passes to the caller.
type PerformanceResult struct {
	SessionID     string             `json:"session_id"`
	BandID        string             `json:"band_id"`
	Venue         string             `json:"venue"`
	Score         int                `json:"score"`
	Metrics       PerformanceMetrics `json:"metrics"`
	EnergyPeak    float64            `json:"energy_peak"`
	EnergyAverage float64            `json:"energy_average"`
	Payment       int                `json:"payment"`
	Fame          int                `json:"fame"`
	MerchRevenue  int                `json:"merch_revenue"`
	NewFans       int                `json:"new_fans"`
	CriticScore   int                `json:"critic_score"`
	FanScore      int                `json:"fan_score"`
	Headline      string             `json:"headline"`
	Summary       string             `json:"summary"`
	Highlights    []string           `json:"highlights"`
	CompletedAt   time.Time          `json:"completed_at"`
}

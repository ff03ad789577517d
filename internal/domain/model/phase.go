// Package model contains domain models passed between layers.
package model

import "time"

// PhaseType tags a performance phase with its role in the show.
type PhaseType string

// Built-in phase types, in stage order.
const (
	PhaseSoundcheck       PhaseType = "soundcheck"
	PhaseOpening          PhaseType = "opening"
	PhaseMainSet          PhaseType = "main_set"
	PhaseCrowdInteraction PhaseType = "crowd_interaction"
	PhaseClimax           PhaseType = "climax"
)

// Phase is an immutable descriptor of one stage of a performance.
type Phase struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Duration    time.Duration `json:"duration"`
	Type        PhaseType     `json:"type"`
}

// phaseCatalog is the fixed sequence every performance runs through.
// It is read-only after package init and shared across sessions.
var phaseCatalog = []Phase{
	{
		ID:          "soundcheck",
		Name:        "Soundcheck",
		Description: "Final checks before the doors open. Levels, monitors, nerves.",
		Duration:    30 * time.Second,
		Type:        PhaseSoundcheck,
	},
	{
		ID:          "opening",
		Name:        "Opening",
		Description: "First song of the night. The crowd is still deciding.",
		Duration:    45 * time.Second,
		Type:        PhaseOpening,
	},
	{
		ID:          "main_set",
		Name:        "Main Set",
		Description: "The heart of the show, song after song.",
		Duration:    90 * time.Second,
		Type:        PhaseMainSet,
	},
	{
		ID:          "crowd_interaction",
		Name:        "Crowd Interaction",
		Description: "Banter, call and response, a moment to breathe.",
		Duration:    30 * time.Second,
		Type:        PhaseCrowdInteraction,
	},
	{
		ID:          "climax",
		Name:        "Climax",
		Description: "The big finish. Everything the night was building toward.",
		Duration:    60 * time.Second,
		Type:        PhaseClimax,
	},
}

// Phases returns the static phase sequence. Callers must treat it as read-only.
func Phases() []Phase {
	return phaseCatalog
}

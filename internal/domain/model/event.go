package model

import "time"

// EventType tags a performance event with its incident kind.
type EventType string

// Built-in event types.
const (
	EventTechnicalIssue   EventType = "technical_issue"
	EventCrowdSurfer      EventType = "crowd_surfer"
	EventEquipmentFailure EventType = "equipment_failure"
	EventCrowdChant       EventType = "crowd_chant"
	EventEncoreRequest    EventType = "encore_request"
)

// EventOption is one pre-scored way to respond to a performance event.
type EventOption struct {
	Label string `json:"label"`
	Score int    `json:"score"` // fixed response quality in [0,100]
}

// PerformanceEvent is a mid-performance incident awaiting a player response.
// It lives from generation until exactly one option is chosen or the event
// is explicitly discarded.
type PerformanceEvent struct {
	ID          string        `json:"id"`
	Type        EventType     `json:"type"`
	Description string        `json:"description"`
	Options     []EventOption `json:"options"`
	CreatedAt   time.Time     `json:"created_at"`
}

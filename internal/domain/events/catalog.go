// Package events generates and describes mid-performance incidents.
package events

import (
	"github.com/okian/encore/internal/domain/model"
)

// Template is a static event blueprint. Option scores are fixed
// configuration; only the template selection is randomized.
type Template struct {
	Type        model.EventType
	Description string
	Options     []model.EventOption
}

// catalog holds the built-in event templates. Read-only after init.
var catalog = []Template{
	{
		Type:        model.EventTechnicalIssue,
		Description: "The lead guitar drops out of the mix mid-song.",
		Options: []model.EventOption{
			{Label: "Vamp on bass and drums while the tech scrambles", Score: 75},
			{Label: "Stop the song and restart it", Score: 40},
			{Label: "Play on and hope nobody notices", Score: 20},
		},
	},
	{
		Type:        model.EventCrowdSurfer,
		Description: "A fan climbs on stage and dives back into the pit.",
		Options: []model.EventOption{
			{Label: "Call it out and hype the crowd", Score: 85},
			{Label: "Keep playing, eyes on the set", Score: 55},
			{Label: "Wave security over", Score: 30},
		},
	},
	{
		Type:        model.EventEquipmentFailure,
		Description: "A bass string snaps on the first chorus.",
		Options: []model.EventOption{
			{Label: "Swap to the backup bass without missing a bar", Score: 80},
			{Label: "Retune around the missing string", Score: 50},
		},
	},
	{
		Type:        model.EventCrowdChant,
		Description: "The crowd starts chanting the band's name between songs.",
		Options: []model.EventOption{
			{Label: "Lead the chant into the next song", Score: 90},
			{Label: "Smile and count in the next track", Score: 60},
			{Label: "Talk over it about the merch table", Score: 25},
		},
	},
	{
		Type:        model.EventEncoreRequest,
		Description: "House lights up, but the room is screaming for one more.",
		Options: []model.EventOption{
			{Label: "Play the fan favorite one more time", Score: 95},
			{Label: "Acoustic sendoff from the front of the stage", Score: 70},
			{Label: "Wave goodnight and walk off", Score: 35},
		},
	},
}

// Catalog returns the built-in templates. Callers must treat it as read-only.
func Catalog() []Template {
	return catalog
}

package models

import (
	"time"
)

// Player represents a roster member of one of the two teams
type Player struct {
	// ID is the unique identifier for the player
	ID string `json:"id"`

	// Name is the display name of the player
	Name string `json:"name"`

	// Number is the jersey number as displayed (not guaranteed numeric)
	Number string `json:"number"`

	// Team is the team the player belongs to
	Team Team `json:"team"`

	// OnCourt indicates if the player is currently on court
	OnCourt bool `json:"onCourt"`

	// CurrentTime is the play time accrued in the current on-court session
	CurrentTime time.Duration `json:"currentTime"`

	// TotalTime is the play time accrued in completed on-court sessions
	TotalTime time.Duration `json:"totalTime"`

	// Score is the player's cumulative score
	Score int `json:"score"`

	// Fouls is the player's cumulative foul count
	Fouls int `json:"fouls"`

	// PlusMinus is the net score swing while the player was on court
	PlusMinus int `json:"plusMinus"`

	// PresetID links the player to a preset roster entry, if any
	PresetID string `json:"presetId,omitempty"`
}

// Clone returns a copy of the player
func (p *Player) Clone() *Player {
	cp := *p
	return &cp
}

// PresetPlayer is a reusable roster identity that can be added to either team
type PresetPlayer struct {
	// ID is the unique identifier for the preset entry
	ID string `json:"id"`

	// Name is the display name of the preset player
	Name string `json:"name"`

	// Number is the jersey number of the preset player
	Number string `json:"number"`
}

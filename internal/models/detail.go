package models

import (
	"time"
)

// EventKind identifies the type of a detail event
type EventKind string

const (
	// EventGameStart indicates the game clock was started
	EventGameStart EventKind = "game-start"

	// EventGamePause indicates the game clock was paused
	EventGamePause EventKind = "game-pause"

	// EventPeriodChange indicates play advanced to a new period
	EventPeriodChange EventKind = "period-change"

	// EventPlayerAdd indicates a player joined the roster
	EventPlayerAdd EventKind = "player-add"

	// EventPlayerRemove indicates a player left the roster
	EventPlayerRemove EventKind = "player-remove"

	// EventSubIn indicates a player went on court
	EventSubIn EventKind = "sub-in"

	// EventSubOut indicates a player went to the bench
	EventSubOut EventKind = "sub-out"

	// EventScore indicates a scoring change
	EventScore EventKind = "score"

	// EventFoul indicates a foul-count change
	EventFoul EventKind = "foul"
)

// Detail is one immutable entry of the append-only event ledger
type Detail struct {
	// Timestamp is the absolute wall-clock time of the event
	Timestamp time.Time `json:"timestamp"`

	// Seq is a monotonic sequence number breaking ties between
	// events recorded within the same timestamp
	Seq int64 `json:"seq"`

	// Period is the period the game was in when the event occurred
	Period int `json:"period"`

	// GameSeconds is the game-relative elapsed time in seconds,
	// zero when the event occurred while the game was not running
	GameSeconds int64 `json:"gameSeconds"`

	// Kind is the type of the event
	Kind EventKind `json:"kind"`

	// Team is the team the event belongs to, empty for game-level events
	Team Team `json:"team,omitempty"`

	// PlayerName is the name of the player involved, if any
	PlayerName string `json:"playerName,omitempty"`

	// PlayerNumber is the jersey number of the player involved, if any
	PlayerNumber string `json:"playerNumber,omitempty"`

	// Value carries the numeric payload of score and foul events
	Value *int `json:"value,omitempty"`
}

// Before reports whether d is ordered before other, by timestamp with the
// sequence number as the tie-break
func (d *Detail) Before(other *Detail) bool {
	if d.Timestamp.Equal(other.Timestamp) {
		return d.Seq < other.Seq
	}
	return d.Timestamp.Before(other.Timestamp)
}

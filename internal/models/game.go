package models

import (
	"time"
)

const (
	// FirstPeriod is the lowest valid period number
	FirstPeriod = 1

	// LastPeriod is the highest valid period number (no overtime modeled)
	LastPeriod = 4

	// MaxOnCourt is the maximum number of players per team on court at once
	MaxOnCourt = 5
)

// GameState is the live projection of the single current game
type GameState struct {
	// TeamScores holds each team's cumulative score
	TeamScores map[Team]int `json:"teamScores"`

	// TeamFouls holds each team's foul tally keyed by period
	TeamFouls map[Team]map[int]int `json:"teamFouls"`

	// CurrentPeriod is the period currently being played, within [1,4]
	CurrentPeriod int `json:"currentPeriod"`

	// Running indicates if the game clock is running
	Running bool `json:"running"`

	// LastUpdateTime is when play time was last accrued
	LastUpdateTime time.Time `json:"lastUpdateTime"`

	// StartTime is when the game first started; zero until the first start
	StartTime time.Time `json:"startTime"`

	// Players is the full roster across both teams
	Players []*Player `json:"players"`
}

// NewGameState returns a zeroed projection with period-1 foul tallies in place
func NewGameState() *GameState {
	return &GameState{
		TeamScores: map[Team]int{
			TeamRed:   0,
			TeamBlack: 0,
		},
		TeamFouls: map[Team]map[int]int{
			TeamRed:   {FirstPeriod: 0},
			TeamBlack: {FirstPeriod: 0},
		},
		CurrentPeriod: FirstPeriod,
		Players:       []*Player{},
	}
}

// Clone returns a deep copy of the projection, decoupling persistence and
// export encoding from the live mutable state
func (g *GameState) Clone() *GameState {
	cp := &GameState{
		TeamScores:     make(map[Team]int, len(g.TeamScores)),
		TeamFouls:      make(map[Team]map[int]int, len(g.TeamFouls)),
		CurrentPeriod:  g.CurrentPeriod,
		Running:        g.Running,
		LastUpdateTime: g.LastUpdateTime,
		StartTime:      g.StartTime,
		Players:        make([]*Player, 0, len(g.Players)),
	}

	for team, score := range g.TeamScores {
		cp.TeamScores[team] = score
	}

	for team, fouls := range g.TeamFouls {
		periodFouls := make(map[int]int, len(fouls))
		for period, count := range fouls {
			periodFouls[period] = count
		}
		cp.TeamFouls[team] = periodFouls
	}

	for _, p := range g.Players {
		cp.Players = append(cp.Players, p.Clone())
	}

	return cp
}

// Normalize fills in any missing maps or period entries after a load or import
func (g *GameState) Normalize() {
	if g.TeamScores == nil {
		g.TeamScores = map[Team]int{}
	}
	if g.TeamFouls == nil {
		g.TeamFouls = map[Team]map[int]int{}
	}
	for _, team := range Teams {
		if _, ok := g.TeamScores[team]; !ok {
			g.TeamScores[team] = 0
		}
		if g.TeamFouls[team] == nil {
			g.TeamFouls[team] = map[int]int{}
		}
		if _, ok := g.TeamFouls[team][FirstPeriod]; !ok {
			g.TeamFouls[team][FirstPeriod] = 0
		}
	}
	if g.CurrentPeriod < FirstPeriod {
		g.CurrentPeriod = FirstPeriod
	}
	if g.Players == nil {
		g.Players = []*Player{}
	}
}

// OnCourtCount returns how many players of the given team are on court
func (g *GameState) OnCourtCount(team Team) int {
	count := 0
	for _, p := range g.Players {
		if p.Team == team && p.OnCourt {
			count++
		}
	}
	return count
}

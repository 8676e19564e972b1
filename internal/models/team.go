package models

// Team identifies one of the two fixed teams in a game
type Team string

const (
	// TeamRed is the first of the two fixed teams
	TeamRed Team = "red"

	// TeamBlack is the second of the two fixed teams
	TeamBlack Team = "black"
)

// Teams lists both fixed teams
var Teams = []Team{TeamRed, TeamBlack}

// Opponent returns the other team
func (t Team) Opponent() Team {
	if t == TeamRed {
		return TeamBlack
	}
	return TeamRed
}

// Valid reports whether t is one of the two fixed teams
func (t Team) Valid() bool {
	return t == TeamRed || t == TeamBlack
}

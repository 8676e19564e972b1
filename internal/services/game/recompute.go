package game

import (
	"context"
	"fmt"

	"github.com/courtside/scorekeeper/internal/models"
	gameRepo "github.com/courtside/scorekeeper/internal/repositories/game"
)

// RecalculatePlusMinus rebuilds every player's scoring differential purely
// from the event ledger, replacing whatever the incremental bookkeeping
// accumulated. Used after imports from sources that predate differential
// tracking.
func (s *service) RecalculatePlusMinus(ctx context.Context, input *RecalculatePlusMinusInput) (*RecalculatePlusMinusOutput, error) {
	s.mu.Lock()

	for _, p := range s.state.Players {
		p.PlusMinus = 0
	}

	// Chronological sub history per (team, number) identity
	subEvents := make(map[string][]*models.Detail)
	for _, p := range s.state.Players {
		subEvents[playerKey(p.Team, p.Number)] = nil
	}

	ordered := make([]*models.Detail, len(s.details))
	copy(ordered, s.details)
	sortDetails(ordered)

	var scores []*models.Detail
	for _, d := range ordered {
		switch d.Kind {
		case models.EventSubIn, models.EventSubOut:
			key := playerKey(d.Team, d.PlayerNumber)
			if _, ok := subEvents[key]; ok {
				subEvents[key] = append(subEvents[key], d)
			}
		case models.EventScore:
			if d.Value != nil {
				scores = append(scores, d)
			}
		}
	}

	for _, score := range scores {
		points := *score.Value
		for _, p := range s.state.Players {
			if !onCourtAt(subEvents[playerKey(p.Team, p.Number)], score) {
				continue
			}
			if p.Team == score.Team {
				p.PlusMinus += points
			} else {
				p.PlusMinus -= points
			}
		}
	}

	snap := s.state.Clone()
	s.mu.Unlock()

	// Recomputation is an explicit request; a failed persist is surfaced
	if err := s.gameRepo.SaveSnapshot(ctx, &gameRepo.SaveSnapshotInput{State: snap}); err != nil {
		return nil, fmt.Errorf("failed to persist recomputed snapshot: %w", err)
	}

	return &RecalculatePlusMinusOutput{}, nil
}

// onCourtAt reports whether the latest sub event at-or-before the score
// event was a sub-in. A player with no prior sub event is off court.
func onCourtAt(events []*models.Detail, score *models.Detail) bool {
	active := false
	for _, e := range events {
		if score.Before(e) {
			break
		}
		active = e.Kind == models.EventSubIn
	}
	return active
}

// playerKey identifies a player across the ledger, where events carry
// team and jersey number rather than roster IDs
func playerKey(team models.Team, number string) string {
	return string(team) + "_" + number
}

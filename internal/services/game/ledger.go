package game

import (
	"context"
	"sort"

	"github.com/courtside/scorekeeper/internal/models"
)

// recordLocked stamps and appends one event to the in-memory ledger. The
// caller must hold s.mu and persist the returned event after unlocking.
// Seq is the tie-break between events sharing a timestamp.
func (s *service) recordLocked(kind models.EventKind, team models.Team, name, number string, value *int) *models.Detail {
	now := s.clock.Now()

	var gameSeconds int64
	if s.state.Running && !s.state.StartTime.IsZero() {
		gameSeconds = int64(now.Sub(s.state.StartTime).Seconds())
	}

	s.seq++
	d := &models.Detail{
		Timestamp:    now,
		Seq:          s.seq,
		Period:       s.state.CurrentPeriod,
		GameSeconds:  gameSeconds,
		Kind:         kind,
		Team:         team,
		PlayerName:   name,
		PlayerNumber: number,
		Value:        value,
	}
	s.details = append(s.details, d)

	return d
}

// DetailsForPeriod returns ledger events for a period, newest first. The
// kind filter accepts "" or "all" for every kind and "sub" for sub-in and
// sub-out together.
func (s *service) DetailsForPeriod(ctx context.Context, input *DetailsForPeriodInput) (*DetailsForPeriodOutput, error) {
	if input == nil {
		input = &DetailsForPeriodInput{Period: models.FirstPeriod}
	}

	s.mu.Lock()
	matched := make([]*models.Detail, 0)
	for _, d := range s.details {
		if d.Period != input.Period {
			continue
		}
		if !matchKind(d.Kind, input.Kind) {
			continue
		}
		matched = append(matched, d)
	}
	s.mu.Unlock()

	sort.Slice(matched, func(i, j int) bool {
		return matched[j].Before(matched[i])
	})

	return &DetailsForPeriodOutput{Details: matched}, nil
}

// Periods returns the sorted set of distinct periods seen in the ledger,
// defaulting to the first period when the ledger is empty
func (s *service) Periods(ctx context.Context, input *PeriodsInput) (*PeriodsOutput, error) {
	s.mu.Lock()
	seen := make(map[int]struct{})
	for _, d := range s.details {
		seen[d.Period] = struct{}{}
	}
	s.mu.Unlock()

	if len(seen) == 0 {
		return &PeriodsOutput{Periods: []int{models.FirstPeriod}}, nil
	}

	periods := make([]int, 0, len(seen))
	for p := range seen {
		periods = append(periods, p)
	}
	sort.Ints(periods)

	return &PeriodsOutput{Periods: periods}, nil
}

// matchKind reports whether an event kind passes the filter
func matchKind(kind models.EventKind, filter string) bool {
	switch filter {
	case "", "all":
		return true
	case "sub":
		return kind == models.EventSubIn || kind == models.EventSubOut
	default:
		return string(kind) == filter
	}
}

// sortDetails orders events by timestamp with Seq as the tie-break
func sortDetails(details []*models.Detail) {
	sort.Slice(details, func(i, j int) bool {
		return details[i].Before(details[j])
	})
}

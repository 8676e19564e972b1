package game

import (
	"context"
	"time"

	"github.com/courtside/scorekeeper/internal/models"
)

// armClockLocked starts the tick loop. Arming while already armed is a
// no-op. The caller must hold s.mu.
func (s *service) armClockLocked() {
	if s.tickStop != nil {
		return
	}
	stop := make(chan struct{})
	s.tickStop = stop
	go s.runClock(stop)
}

// disarmClockLocked cancels the tick loop. Disarming while already
// disarmed is a no-op. The caller must hold s.mu.
func (s *service) disarmClockLocked() {
	if s.tickStop == nil {
		return
	}
	close(s.tickStop)
	s.tickStop = nil
	s.tickCount = 0
}

// runClock accrues play time once per tick interval until stopped
func (s *service) runClock(stop <-chan struct{}) {
	ticker := time.NewTicker(s.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			s.tick()
		}
	}
}

// tick adds the wall-clock delta since the last tick to every on-court
// player's session time. Every snapshotEveryTicks ticks the projection is
// flushed; flush failures are swallowed so live play is never interrupted.
func (s *service) tick() {
	s.mu.Lock()

	// A tick may have been in flight when the clock was disarmed; a
	// stale tick must not revive time accrual
	if !s.state.Running {
		s.mu.Unlock()
		return
	}

	now := s.clock.Now()
	delta := now.Sub(s.state.LastUpdateTime)
	if delta < 0 {
		delta = 0
	}

	for _, p := range s.state.Players {
		if p.OnCourt {
			p.CurrentTime += delta
		}
	}
	s.state.LastUpdateTime = now

	s.tickCount++
	var snap *models.GameState
	if s.tickCount%s.snapshotEveryTicks == 0 {
		snap = s.state.Clone()
	}

	s.mu.Unlock()

	if snap != nil {
		s.persistSnapshot(context.Background(), snap)
	}
}

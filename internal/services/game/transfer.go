package game

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/courtside/scorekeeper/internal/models"
	detailRepo "github.com/courtside/scorekeeper/internal/repositories/detail"
	gameRepo "github.com/courtside/scorekeeper/internal/repositories/game"
)

// Load restores the persisted game. A running flag in the snapshot means
// the process stopped while the clock was live; the gap since the last
// persisted tick is credited to every on-court player before the flag is
// forced back to false. Read failures are non-fatal: the engine proceeds
// with empty state.
func (s *service) Load(ctx context.Context, input *LoadInput) (*LoadOutput, error) {
	state, err := s.gameRepo.GetSnapshot(ctx, &gameRepo.GetSnapshotInput{})
	if err != nil {
		if !errors.Is(err, gameRepo.ErrSnapshotNotFound) {
			s.logger.WarnContext(ctx, "snapshot read failed, starting empty", "error", err)
		}
		state = models.NewGameState()
	}
	state.Normalize()

	if state.Running && !state.LastUpdateTime.IsZero() {
		gap := s.clock.Now().Sub(state.LastUpdateTime)
		if gap > 0 {
			for _, p := range state.Players {
				if p.OnCourt {
					p.CurrentTime += gap
				}
			}
		}
	}

	// Resuming requires an explicit start
	state.Running = false

	var details []*models.Detail
	detailsOut, err := s.detailRepo.GetAllDetails(ctx, &detailRepo.GetAllDetailsInput{})
	if err != nil {
		s.logger.WarnContext(ctx, "detail read failed, starting with empty ledger", "error", err)
	} else {
		details = detailsOut.Details
	}
	sortDetails(details)

	var maxSeq int64
	for _, d := range details {
		if d.Seq > maxSeq {
			maxSeq = d.Seq
		}
	}

	s.mu.Lock()
	s.disarmClockLocked()
	s.state = state
	s.details = details
	s.seq = maxSeq
	snap := s.state.Clone()
	s.mu.Unlock()

	return &LoadOutput{Game: snap, Details: len(details)}, nil
}

// ClearAll erases the projection and the ledger after confirmation. Storage
// failures on this explicit destructive path are surfaced.
func (s *service) ClearAll(ctx context.Context, input *ClearAllInput) (*ClearAllOutput, error) {
	ok, err := s.confirmer.Confirm(ctx, "Clear all game data? This cannot be undone.")
	if err != nil {
		return nil, fmt.Errorf("confirmation failed: %w", err)
	}
	if !ok {
		return &ClearAllOutput{Cancelled: true}, nil
	}

	s.mu.Lock()
	s.disarmClockLocked()
	s.state = models.NewGameState()
	s.details = []*models.Detail{}
	s.seq = 0
	s.mu.Unlock()

	if err := s.gameRepo.DeleteSnapshot(ctx, &gameRepo.DeleteSnapshotInput{}); err != nil {
		s.notifier.Error(ctx, "Failed to clear stored game")
		return nil, fmt.Errorf("failed to clear snapshot: %w", err)
	}

	if err := s.detailRepo.ClearDetails(ctx, &detailRepo.ClearDetailsInput{}); err != nil {
		s.notifier.Error(ctx, "Failed to clear stored game details")
		return nil, fmt.Errorf("failed to clear details: %w", err)
	}

	s.notifier.Success(ctx, "All data cleared")

	return &ClearAllOutput{}, nil
}

// Import replaces all state with the contents of an export document. The
// document is parsed in full before anything destructive happens. When the
// document holds score events but no differential data, plus-minus is
// rebuilt from the imported ledger.
func (s *service) Import(ctx context.Context, input *ImportInput) (*ImportOutput, error) {
	if input == nil || len(input.Data) == 0 {
		return nil, ErrInvalidImport
	}

	var doc models.ExportDocument
	if err := json.Unmarshal(input.Data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse import document: %w", err)
	}
	if doc.Game == nil {
		return nil, ErrInvalidImport
	}

	state := doc.Game
	state.Normalize()
	state.Running = false

	details := doc.Details
	if details == nil {
		details = []*models.Detail{}
	}
	sortDetails(details)

	hasScores := false
	for _, d := range details {
		if d.Kind == models.EventScore {
			hasScores = true
			break
		}
	}
	hasPlusMinus := false
	for _, p := range state.Players {
		if p.PlusMinus != 0 {
			hasPlusMinus = true
			break
		}
	}

	var maxSeq int64
	for _, d := range details {
		if d.Seq > maxSeq {
			maxSeq = d.Seq
		}
	}

	s.mu.Lock()
	s.disarmClockLocked()
	s.state = state
	s.details = details
	s.seq = maxSeq
	snap := s.state.Clone()
	s.mu.Unlock()

	// Rewrite storage; import is explicit, so failures are surfaced
	if err := s.detailRepo.ClearDetails(ctx, &detailRepo.ClearDetailsInput{}); err != nil {
		return nil, fmt.Errorf("failed to clear details before import: %w", err)
	}
	for _, d := range details {
		if err := s.detailRepo.AppendDetail(ctx, &detailRepo.AppendDetailInput{Detail: d}); err != nil {
			return nil, fmt.Errorf("failed to store imported detail: %w", err)
		}
	}
	if err := s.gameRepo.SaveSnapshot(ctx, &gameRepo.SaveSnapshotInput{State: snap}); err != nil {
		return nil, fmt.Errorf("failed to store imported game: %w", err)
	}

	recomputed := false
	if hasScores && !hasPlusMinus {
		if _, err := s.RecalculatePlusMinus(ctx, &RecalculatePlusMinusInput{}); err != nil {
			return nil, err
		}
		recomputed = true
	}

	s.notifier.Success(ctx, "Import complete")

	return &ImportOutput{
		Players:    len(state.Players),
		Details:    len(details),
		Recomputed: recomputed,
	}, nil
}

// Export serializes the projection and the ledger, read-consistent at the
// moment the engine lock is held
func (s *service) Export(ctx context.Context, input *ExportInput) (*ExportOutput, error) {
	s.mu.Lock()
	doc := models.ExportDocument{
		Game:    s.state.Clone(),
		Details: make([]*models.Detail, len(s.details)),
	}
	copy(doc.Details, s.details)
	s.mu.Unlock()

	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal export document: %w", err)
	}

	return &ExportOutput{Data: data}, nil
}

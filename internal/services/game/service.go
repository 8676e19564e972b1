package game

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/courtside/scorekeeper/internal/common/clock"
	"github.com/courtside/scorekeeper/internal/common/confirm"
	"github.com/courtside/scorekeeper/internal/common/uuid"
	"github.com/courtside/scorekeeper/internal/models"
	"github.com/courtside/scorekeeper/internal/notify"
	detailRepo "github.com/courtside/scorekeeper/internal/repositories/detail"
	gameRepo "github.com/courtside/scorekeeper/internal/repositories/game"
)

// service implements the Service interface
type service struct {
	gameRepo      gameRepo.Repository
	detailRepo    detailRepo.Repository
	clock         clock.Clock
	uuidGenerator uuid.UUID
	notifier      notify.Notifier
	confirmer     confirm.Confirmer
	logger        *slog.Logger

	tickInterval       time.Duration
	snapshotEveryTicks int
	presets            []*models.PresetPlayer

	// mu guards the live projection, the in-memory ledger, and the
	// tick state. User actions and the clock tick run on real
	// goroutines, so every mutation serializes through it.
	mu        sync.Mutex
	state     *models.GameState
	details   []*models.Detail
	seq       int64
	tickStop  chan struct{}
	tickCount int
}

// New creates a new game service
func New(cfg *Config) (*service, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	if cfg.GameRepo == nil {
		return nil, ErrNilGameRepo
	}

	if cfg.DetailRepo == nil {
		return nil, ErrNilDetailRepo
	}

	s := &service{
		gameRepo:           cfg.GameRepo,
		detailRepo:         cfg.DetailRepo,
		clock:              cfg.Clock,
		uuidGenerator:      cfg.UUIDGenerator,
		notifier:           cfg.Notifier,
		confirmer:          cfg.Confirmer,
		logger:             cfg.Logger,
		tickInterval:       cfg.TickInterval,
		snapshotEveryTicks: cfg.SnapshotEveryTicks,
		presets:            cfg.Presets,
		state:              models.NewGameState(),
		details:            []*models.Detail{},
	}

	if s.clock == nil {
		s.clock = &clock.DefaultClock{}
	}
	if s.uuidGenerator == nil {
		s.uuidGenerator = uuid.New()
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.notifier == nil {
		s.notifier = notify.NewLogNotifier(s.logger)
	}
	if s.confirmer == nil {
		s.confirmer = &confirm.AutoConfirmer{}
	}
	if s.tickInterval <= 0 {
		s.tickInterval = DefaultTickInterval
	}
	if s.snapshotEveryTicks <= 0 {
		s.snapshotEveryTicks = DefaultSnapshotEveryTicks
	}
	if s.presets == nil {
		s.presets = DefaultPresets
	}

	return s, nil
}

// AddPlayer adds a new player to the roster
func (s *service) AddPlayer(ctx context.Context, input *AddPlayerInput) (*AddPlayerOutput, error) {
	if input == nil || input.Name == "" || input.Number == "" {
		return nil, ErrMissingIdentity
	}

	if !input.Team.Valid() {
		return nil, ErrInvalidTeam
	}

	s.mu.Lock()

	if err := s.checkDuplicateLocked(input.Name, input.Number, input.Team); err != nil {
		s.mu.Unlock()
		return nil, err
	}

	player := &models.Player{
		ID:     s.uuidGenerator.NewUUID(),
		Name:   input.Name,
		Number: input.Number,
		Team:   input.Team,
	}
	s.state.Players = append(s.state.Players, player)

	event := s.recordLocked(models.EventPlayerAdd, player.Team, player.Name, player.Number, nil)
	snap := s.state.Clone()
	out := &AddPlayerOutput{Player: player.Clone()}

	s.mu.Unlock()

	s.persistDetail(ctx, event)
	s.persistSnapshot(ctx, snap)

	return out, nil
}

// AddPresetPlayer adds a player from the preset pool to the roster
func (s *service) AddPresetPlayer(ctx context.Context, input *AddPresetPlayerInput) (*AddPresetPlayerOutput, error) {
	if input == nil || input.PresetID == "" {
		return nil, ErrPresetNotFound
	}

	if !input.Team.Valid() {
		return nil, ErrInvalidTeam
	}

	var preset *models.PresetPlayer
	for _, p := range s.presets {
		if p.ID == input.PresetID {
			preset = p
			break
		}
	}
	if preset == nil {
		return nil, ErrPresetNotFound
	}

	s.mu.Lock()

	if err := s.checkDuplicateLocked(preset.Name, preset.Number, input.Team); err != nil {
		s.mu.Unlock()
		return nil, err
	}

	player := &models.Player{
		ID:       s.uuidGenerator.NewUUID(),
		Name:     preset.Name,
		Number:   preset.Number,
		Team:     input.Team,
		PresetID: preset.ID,
	}
	s.state.Players = append(s.state.Players, player)

	event := s.recordLocked(models.EventPlayerAdd, player.Team, player.Name, player.Number, nil)
	snap := s.state.Clone()
	out := &AddPresetPlayerOutput{Player: player.Clone()}

	s.mu.Unlock()

	s.persistDetail(ctx, event)
	s.persistSnapshot(ctx, snap)

	return out, nil
}

// RemovePlayer removes a player from the roster after confirmation. The
// player's events remain in the ledger.
func (s *service) RemovePlayer(ctx context.Context, input *RemovePlayerInput) (*RemovePlayerOutput, error) {
	if input == nil || input.PlayerID == "" {
		return nil, ErrPlayerNotFound
	}

	s.mu.Lock()
	player := s.findPlayerLocked(input.PlayerID)
	if player == nil {
		s.mu.Unlock()
		return nil, ErrPlayerNotFound
	}
	name, number := player.Name, player.Number
	s.mu.Unlock()

	// The prompt is external I/O; never hold the lock across it
	ok, err := s.confirmer.Confirm(ctx, fmt.Sprintf("Remove player #%s %s?", number, name))
	if err != nil {
		return nil, fmt.Errorf("confirmation failed: %w", err)
	}
	if !ok {
		return &RemovePlayerOutput{Cancelled: true}, nil
	}

	s.mu.Lock()
	player = s.findPlayerLocked(input.PlayerID)
	if player == nil {
		// Removed while the prompt was open
		s.mu.Unlock()
		return nil, ErrPlayerNotFound
	}

	players := make([]*models.Player, 0, len(s.state.Players)-1)
	for _, p := range s.state.Players {
		if p.ID != input.PlayerID {
			players = append(players, p)
		}
	}
	s.state.Players = players

	event := s.recordLocked(models.EventPlayerRemove, player.Team, player.Name, player.Number, nil)
	snap := s.state.Clone()
	s.mu.Unlock()

	s.persistDetail(ctx, event)
	s.persistSnapshot(ctx, snap)
	s.notifier.Success(ctx, fmt.Sprintf("Removed player %s", name))

	return &RemovePlayerOutput{}, nil
}

// TogglePlayer moves a player between court and bench
func (s *service) TogglePlayer(ctx context.Context, input *TogglePlayerInput) (*TogglePlayerOutput, error) {
	if input == nil || input.PlayerID == "" {
		return nil, ErrPlayerNotFound
	}

	s.mu.Lock()
	player := s.findPlayerLocked(input.PlayerID)
	if player == nil {
		s.mu.Unlock()
		return nil, ErrPlayerNotFound
	}

	if !player.OnCourt && s.state.OnCourtCount(player.Team) >= models.MaxOnCourt {
		s.mu.Unlock()
		s.notifier.Warning(ctx, fmt.Sprintf("At most %d players per team on court", models.MaxOnCourt))
		return &TogglePlayerOutput{Success: false, OnCourt: false}, nil
	}

	var event *models.Detail
	if player.OnCourt {
		// Fold the current session into accumulated play time
		player.TotalTime += player.CurrentTime
		player.CurrentTime = 0
		event = s.recordLocked(models.EventSubOut, player.Team, player.Name, player.Number, nil)
	} else {
		player.CurrentTime = 0
		event = s.recordLocked(models.EventSubIn, player.Team, player.Name, player.Number, nil)
	}
	player.OnCourt = !player.OnCourt

	onCourt := player.OnCourt
	snap := s.state.Clone()
	s.mu.Unlock()

	s.persistDetail(ctx, event)
	s.persistSnapshot(ctx, snap)

	return &TogglePlayerOutput{Success: true, OnCourt: onCourt}, nil
}

// UpdateScore applies a scoring change to a player and their team, and
// incrementally updates the plus-minus of every on-court player
func (s *service) UpdateScore(ctx context.Context, input *UpdateScoreInput) (*UpdateScoreOutput, error) {
	if input == nil || input.PlayerID == "" {
		return nil, ErrPlayerNotFound
	}

	s.mu.Lock()
	player := s.findPlayerLocked(input.PlayerID)
	if player == nil {
		s.mu.Unlock()
		return nil, ErrPlayerNotFound
	}

	if !s.state.Running {
		s.mu.Unlock()
		s.notifier.Warning(ctx, "Scores can only change while the game is running")
		return &UpdateScoreOutput{Success: false}, nil
	}

	if input.Delta < 0 && player.Score <= 0 {
		s.mu.Unlock()
		return &UpdateScoreOutput{Success: false}, nil
	}

	// Clamp the applied delta at the player's floor so the player score,
	// the team total, and the recorded event stay consistent
	applied := input.Delta
	if player.Score+applied < 0 {
		applied = -player.Score
	}

	player.Score += applied
	s.state.TeamScores[player.Team] += applied

	value := applied
	event := s.recordLocked(models.EventScore, player.Team, player.Name, player.Number, &value)

	for _, p := range s.state.Players {
		if !p.OnCourt {
			continue
		}
		if p.Team == player.Team {
			p.PlusMinus += applied
		} else {
			p.PlusMinus -= applied
		}
	}

	snap := s.state.Clone()
	s.mu.Unlock()

	s.persistDetail(ctx, event)
	s.persistSnapshot(ctx, snap)

	return &UpdateScoreOutput{Success: true, Applied: applied}, nil
}

// AddFoul applies a foul-count change to a player and to the team's tally
// for the current period
func (s *service) AddFoul(ctx context.Context, input *AddFoulInput) (*AddFoulOutput, error) {
	if input == nil || input.PlayerID == "" {
		return nil, ErrPlayerNotFound
	}

	s.mu.Lock()
	player := s.findPlayerLocked(input.PlayerID)
	if player == nil {
		s.mu.Unlock()
		return nil, ErrPlayerNotFound
	}

	if !s.state.Running {
		s.mu.Unlock()
		s.notifier.Warning(ctx, "Fouls can only change while the game is running")
		return &AddFoulOutput{Success: false}, nil
	}

	if input.Delta < 0 && player.Fouls <= 0 {
		s.mu.Unlock()
		return &AddFoulOutput{Success: false}, nil
	}

	applied := input.Delta
	if player.Fouls+applied < 0 {
		applied = -player.Fouls
	}
	player.Fouls += applied

	period := s.state.CurrentPeriod
	if s.state.TeamFouls[player.Team] == nil {
		s.state.TeamFouls[player.Team] = map[int]int{}
	}
	s.state.TeamFouls[player.Team][period] += applied
	if s.state.TeamFouls[player.Team][period] < 0 {
		s.state.TeamFouls[player.Team][period] = 0
	}

	value := applied
	event := s.recordLocked(models.EventFoul, player.Team, player.Name, player.Number, &value)
	snap := s.state.Clone()
	s.mu.Unlock()

	s.persistDetail(ctx, event)
	s.persistSnapshot(ctx, snap)

	return &AddFoulOutput{Success: true}, nil
}

// StartGame starts the game clock and arms the tick loop
func (s *service) StartGame(ctx context.Context, input *StartGameInput) (*StartGameOutput, error) {
	s.mu.Lock()
	if s.state.Running {
		s.mu.Unlock()
		return &StartGameOutput{Success: false}, nil
	}

	now := s.clock.Now()
	s.state.Running = true
	s.state.LastUpdateTime = now
	if s.state.StartTime.IsZero() {
		// Game-relative time is measured from the very first start
		s.state.StartTime = now
	}

	event := s.recordLocked(models.EventGameStart, "", "", "", nil)
	s.armClockLocked()
	snap := s.state.Clone()
	s.mu.Unlock()

	s.persistDetail(ctx, event)
	s.persistSnapshot(ctx, snap)

	return &StartGameOutput{Success: true}, nil
}

// PauseGame pauses the game clock, disarming the tick loop before any
// further mutation is accepted
func (s *service) PauseGame(ctx context.Context, input *PauseGameInput) (*PauseGameOutput, error) {
	s.mu.Lock()
	if !s.state.Running {
		s.mu.Unlock()
		return &PauseGameOutput{Success: false}, nil
	}

	s.state.Running = false
	s.disarmClockLocked()

	event := s.recordLocked(models.EventGamePause, "", "", "", nil)
	snap := s.state.Clone()
	s.mu.Unlock()

	s.persistDetail(ctx, event)
	s.persistSnapshot(ctx, snap)

	return &PauseGameOutput{Success: true}, nil
}

// NextPeriod advances to the next period
func (s *service) NextPeriod(ctx context.Context, input *NextPeriodInput) (*NextPeriodOutput, error) {
	s.mu.Lock()
	if s.state.CurrentPeriod >= models.LastPeriod {
		period := s.state.CurrentPeriod
		s.mu.Unlock()
		return &NextPeriodOutput{Success: false, Period: period}, nil
	}

	s.state.CurrentPeriod++
	period := s.state.CurrentPeriod

	// Zero-initialize the new period's foul tallies
	for _, team := range models.Teams {
		if s.state.TeamFouls[team] == nil {
			s.state.TeamFouls[team] = map[int]int{}
		}
		if _, ok := s.state.TeamFouls[team][period]; !ok {
			s.state.TeamFouls[team][period] = 0
		}
	}

	value := period
	event := s.recordLocked(models.EventPeriodChange, "", "", "", &value)
	snap := s.state.Clone()
	s.mu.Unlock()

	s.persistDetail(ctx, event)
	s.persistSnapshot(ctx, snap)

	return &NextPeriodOutput{Success: true, Period: period}, nil
}

// PrevPeriod moves back to the previous period
func (s *service) PrevPeriod(ctx context.Context, input *PrevPeriodInput) (*PrevPeriodOutput, error) {
	s.mu.Lock()
	if s.state.CurrentPeriod <= models.FirstPeriod {
		period := s.state.CurrentPeriod
		s.mu.Unlock()
		return &PrevPeriodOutput{Success: false, Period: period}, nil
	}

	s.state.CurrentPeriod--
	period := s.state.CurrentPeriod
	snap := s.state.Clone()
	s.mu.Unlock()

	s.persistSnapshot(ctx, snap)

	return &PrevPeriodOutput{Success: true, Period: period}, nil
}

// GetGame returns a copy of the live projection
func (s *service) GetGame(ctx context.Context, input *GetGameInput) (*GetGameOutput, error) {
	s.mu.Lock()
	snap := s.state.Clone()
	s.mu.Unlock()

	status := GameStatusNotStarted
	switch {
	case snap.Running:
		status = GameStatusRunning
	case !snap.StartTime.IsZero():
		status = GameStatusPaused
	}

	return &GetGameOutput{Game: snap, Status: status}, nil
}

// AvailablePresets returns preset entries not yet linked to a roster player
func (s *service) AvailablePresets(ctx context.Context, input *AvailablePresetsInput) (*AvailablePresetsOutput, error) {
	s.mu.Lock()
	used := make(map[string]struct{}, len(s.state.Players))
	for _, p := range s.state.Players {
		if p.PresetID != "" {
			used[p.PresetID] = struct{}{}
		}
	}
	s.mu.Unlock()

	available := make([]*models.PresetPlayer, 0, len(s.presets))
	for _, preset := range s.presets {
		if _, ok := used[preset.ID]; !ok {
			available = append(available, preset)
		}
	}

	return &AvailablePresetsOutput{Presets: available}, nil
}

// findPlayerLocked returns the roster player with the given ID, or nil
func (s *service) findPlayerLocked(playerID string) *models.Player {
	for _, p := range s.state.Players {
		if p.ID == playerID {
			return p
		}
	}
	return nil
}

// checkDuplicateLocked validates that the (name, team) and (number, team)
// pairs are unused
func (s *service) checkDuplicateLocked(name, number string, team models.Team) error {
	nameExists := false
	numberExists := false
	for _, p := range s.state.Players {
		if p.Team != team {
			continue
		}
		if p.Name == name {
			nameExists = true
		}
		if p.Number == number {
			numberExists = true
		}
	}

	switch {
	case nameExists && numberExists:
		return ErrDuplicateIdentity
	case nameExists:
		return ErrDuplicateName
	case numberExists:
		return ErrDuplicateNumber
	}

	return nil
}

// persistSnapshot writes a projection snapshot. Failures never roll back
// in-memory state; they are logged and the next flush catches up.
func (s *service) persistSnapshot(ctx context.Context, snap *models.GameState) {
	if err := s.gameRepo.SaveSnapshot(ctx, &gameRepo.SaveSnapshotInput{State: snap}); err != nil {
		s.logger.WarnContext(ctx, "snapshot write failed", "error", err)
	}
}

// persistDetail writes one ledger event. Failures never roll back the
// in-memory append; the ledger may run ahead of storage but never backward.
func (s *service) persistDetail(ctx context.Context, d *models.Detail) {
	if err := s.detailRepo.AppendDetail(ctx, &detailRepo.AppendDetailInput{Detail: d}); err != nil {
		s.logger.WarnContext(ctx, "detail write failed", "error", err, "kind", d.Kind)
	}
}

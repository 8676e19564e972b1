package game

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/courtside/scorekeeper/internal/common/clock/mocks"
	confirmMocks "github.com/courtside/scorekeeper/internal/common/confirm/mocks"
	uuidMocks "github.com/courtside/scorekeeper/internal/common/uuid/mocks"
	"github.com/courtside/scorekeeper/internal/models"
	notifyMocks "github.com/courtside/scorekeeper/internal/notify/mocks"
	detailRepo "github.com/courtside/scorekeeper/internal/repositories/detail"
	detailMocks "github.com/courtside/scorekeeper/internal/repositories/detail/mocks"
	gameRepo "github.com/courtside/scorekeeper/internal/repositories/game"
	gameMocks "github.com/courtside/scorekeeper/internal/repositories/game/mocks"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type GameServiceTestSuite struct {
	suite.Suite
	mockCtrl       *gomock.Controller
	mockGameRepo   *gameMocks.MockRepository
	mockDetailRepo *detailMocks.MockRepository
	mockClock      *mocks.MockClock
	mockUUID       *uuidMocks.MockUUID
	mockNotifier   *notifyMocks.MockNotifier
	mockConfirmer  *confirmMocks.MockConfirmer
	gameService    Service
	ctx            context.Context

	// now is what the mocked clock reports; tests advance it directly
	now       time.Time
	uuidCount int
}

func (s *GameServiceTestSuite) SetupTest() {
	s.mockCtrl = gomock.NewController(s.T())
	s.mockGameRepo = gameMocks.NewMockRepository(s.mockCtrl)
	s.mockDetailRepo = detailMocks.NewMockRepository(s.mockCtrl)
	s.mockClock = mocks.NewMockClock(s.mockCtrl)
	s.mockUUID = uuidMocks.NewMockUUID(s.mockCtrl)
	s.mockNotifier = notifyMocks.NewMockNotifier(s.mockCtrl)
	s.mockConfirmer = confirmMocks.NewMockConfirmer(s.mockCtrl)

	s.ctx = context.Background()
	s.now = time.Date(2026, 3, 14, 19, 0, 0, 0, time.UTC)
	s.uuidCount = 0

	s.mockClock.EXPECT().Now().DoAndReturn(func() time.Time {
		return s.now
	}).AnyTimes()

	s.mockUUID.EXPECT().NewUUID().DoAndReturn(func() string {
		s.uuidCount++
		return fmt.Sprintf("player-%d", s.uuidCount)
	}).AnyTimes()

	// Individual calls assert on outputs, not persistence traffic
	s.mockGameRepo.EXPECT().SaveSnapshot(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	s.mockDetailRepo.EXPECT().AppendDetail(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	s.mockNotifier.EXPECT().Success(gomock.Any(), gomock.Any()).AnyTimes()
	s.mockNotifier.EXPECT().Warning(gomock.Any(), gomock.Any()).AnyTimes()
	s.mockNotifier.EXPECT().Error(gomock.Any(), gomock.Any()).AnyTimes()

	svc, err := New(&Config{
		GameRepo:      s.mockGameRepo,
		DetailRepo:    s.mockDetailRepo,
		Clock:         s.mockClock,
		UUIDGenerator: s.mockUUID,
		Notifier:      s.mockNotifier,
		Confirmer:     s.mockConfirmer,
		Logger:        slog.New(slog.DiscardHandler),
		// Long enough that the background ticker never fires mid-test
		TickInterval: time.Hour,
	})
	s.Require().NoError(err)
	s.gameService = svc
}

func (s *GameServiceTestSuite) TearDownTest() {
	// Disarm the clock goroutine if a test left the game running
	_, _ = s.gameService.PauseGame(s.ctx, &PauseGameInput{})
	s.mockCtrl.Finish()
}

// addPlayer is a helper that adds a player and fails the test on error
func (s *GameServiceTestSuite) addPlayer(name, number string, team models.Team) *models.Player {
	out, err := s.gameService.AddPlayer(s.ctx, &AddPlayerInput{
		Name:   name,
		Number: number,
		Team:   team,
	})
	s.Require().NoError(err)
	return out.Player
}

// toggleOn puts a player on court and fails the test if it is rejected
func (s *GameServiceTestSuite) toggleOn(playerID string) {
	out, err := s.gameService.TogglePlayer(s.ctx, &TogglePlayerInput{PlayerID: playerID})
	s.Require().NoError(err)
	s.Require().True(out.Success)
	s.Require().True(out.OnCourt)
}

// startGame starts the clock and fails the test if it does not transition
func (s *GameServiceTestSuite) startGame() {
	out, err := s.gameService.StartGame(s.ctx, &StartGameInput{})
	s.Require().NoError(err)
	s.Require().True(out.Success)
}

func (s *GameServiceTestSuite) TestAddPlayer_HappyPath() {
	player := s.addPlayer("Avery", "12", models.TeamRed)

	s.NotEmpty(player.ID)
	s.Equal("Avery", player.Name)
	s.Equal("12", player.Number)
	s.Equal(models.TeamRed, player.Team)
	s.False(player.OnCourt)

	game, err := s.gameService.GetGame(s.ctx, &GetGameInput{})
	s.Require().NoError(err)
	s.Len(game.Game.Players, 1)

	details, err := s.gameService.DetailsForPeriod(s.ctx, &DetailsForPeriodInput{
		Period: models.FirstPeriod,
		Kind:   string(models.EventPlayerAdd),
	})
	s.Require().NoError(err)
	s.Require().Len(details.Details, 1)
	s.Equal("Avery", details.Details[0].PlayerName)
	s.Equal("12", details.Details[0].PlayerNumber)
}

func (s *GameServiceTestSuite) TestAddPlayer_MissingIdentity() {
	_, err := s.gameService.AddPlayer(s.ctx, &AddPlayerInput{Number: "12", Team: models.TeamRed})
	s.ErrorIs(err, ErrMissingIdentity)

	_, err = s.gameService.AddPlayer(s.ctx, &AddPlayerInput{Name: "Avery", Team: models.TeamRed})
	s.ErrorIs(err, ErrMissingIdentity)
}

func (s *GameServiceTestSuite) TestAddPlayer_InvalidTeam() {
	_, err := s.gameService.AddPlayer(s.ctx, &AddPlayerInput{Name: "Avery", Number: "12", Team: "blue"})
	s.ErrorIs(err, ErrInvalidTeam)
}

func (s *GameServiceTestSuite) TestAddPlayer_Duplicates() {
	s.addPlayer("Avery", "12", models.TeamRed)

	_, err := s.gameService.AddPlayer(s.ctx, &AddPlayerInput{Name: "Avery", Number: "12", Team: models.TeamRed})
	s.ErrorIs(err, ErrDuplicateIdentity)

	_, err = s.gameService.AddPlayer(s.ctx, &AddPlayerInput{Name: "Avery", Number: "13", Team: models.TeamRed})
	s.ErrorIs(err, ErrDuplicateName)

	_, err = s.gameService.AddPlayer(s.ctx, &AddPlayerInput{Name: "Blake", Number: "12", Team: models.TeamRed})
	s.ErrorIs(err, ErrDuplicateNumber)

	// The same identity on the other team is fine
	s.addPlayer("Avery", "12", models.TeamBlack)
}

func (s *GameServiceTestSuite) TestAddPresetPlayer_HappyPath() {
	out, err := s.gameService.AddPresetPlayer(s.ctx, &AddPresetPlayerInput{
		PresetID: "preset-1",
		Team:     models.TeamBlack,
	})
	s.Require().NoError(err)
	s.Equal("Avery", out.Player.Name)
	s.Equal("preset-1", out.Player.PresetID)
	s.Equal(models.TeamBlack, out.Player.Team)

	available, err := s.gameService.AvailablePresets(s.ctx, &AvailablePresetsInput{})
	s.Require().NoError(err)
	s.Len(available.Presets, len(DefaultPresets)-1)
	for _, p := range available.Presets {
		s.NotEqual("preset-1", p.ID)
	}
}

func (s *GameServiceTestSuite) TestAddPresetPlayer_NotFound() {
	_, err := s.gameService.AddPresetPlayer(s.ctx, &AddPresetPlayerInput{
		PresetID: "preset-99",
		Team:     models.TeamRed,
	})
	s.ErrorIs(err, ErrPresetNotFound)
}

func (s *GameServiceTestSuite) TestTogglePlayer_OnAndOff() {
	player := s.addPlayer("Avery", "12", models.TeamRed)

	s.toggleOn(player.ID)

	out, err := s.gameService.TogglePlayer(s.ctx, &TogglePlayerInput{PlayerID: player.ID})
	s.Require().NoError(err)
	s.True(out.Success)
	s.False(out.OnCourt)

	details, err := s.gameService.DetailsForPeriod(s.ctx, &DetailsForPeriodInput{
		Period: models.FirstPeriod,
		Kind:   "sub",
	})
	s.Require().NoError(err)
	s.Require().Len(details.Details, 2)
	// Newest first
	s.Equal(models.EventSubOut, details.Details[0].Kind)
	s.Equal(models.EventSubIn, details.Details[1].Kind)
}

func (s *GameServiceTestSuite) TestTogglePlayer_CourtCapacity() {
	numbers := []string{"1", "2", "3", "4", "5", "6"}
	var players []*models.Player
	for i, n := range numbers {
		players = append(players, s.addPlayer("Player"+n, n, models.TeamRed))
		if i < models.MaxOnCourt {
			s.toggleOn(players[i].ID)
		}
	}

	out, err := s.gameService.TogglePlayer(s.ctx, &TogglePlayerInput{PlayerID: players[5].ID})
	s.Require().NoError(err)
	s.False(out.Success)
	s.False(out.OnCourt)

	// The other team has its own court
	black := s.addPlayer("Visitor", "1", models.TeamBlack)
	s.toggleOn(black.ID)
}

func (s *GameServiceTestSuite) TestUpdateScore_HappyPath() {
	a := s.addPlayer("Avery", "1", models.TeamRed)
	b := s.addPlayer("Blake", "2", models.TeamRed)
	s.toggleOn(a.ID)
	s.startGame()

	out, err := s.gameService.UpdateScore(s.ctx, &UpdateScoreInput{PlayerID: a.ID, Delta: 2})
	s.Require().NoError(err)
	s.True(out.Success)
	s.Equal(2, out.Applied)

	out, err = s.gameService.UpdateScore(s.ctx, &UpdateScoreInput{PlayerID: b.ID, Delta: 3})
	s.Require().NoError(err)
	s.True(out.Success)

	game, err := s.gameService.GetGame(s.ctx, &GetGameInput{})
	s.Require().NoError(err)

	// Team total always equals the sum of its players' scores
	sum := 0
	for _, p := range game.Game.Players {
		sum += p.Score
	}
	s.Equal(5, game.Game.TeamScores[models.TeamRed])
	s.Equal(sum, game.Game.TeamScores[models.TeamRed])
	s.Equal(0, game.Game.TeamScores[models.TeamBlack])
}

func (s *GameServiceTestSuite) TestUpdateScore_NotRunning() {
	a := s.addPlayer("Avery", "1", models.TeamRed)

	out, err := s.gameService.UpdateScore(s.ctx, &UpdateScoreInput{PlayerID: a.ID, Delta: 2})
	s.Require().NoError(err)
	s.False(out.Success)

	game, err := s.gameService.GetGame(s.ctx, &GetGameInput{})
	s.Require().NoError(err)
	s.Equal(0, game.Game.TeamScores[models.TeamRed])
}

func (s *GameServiceTestSuite) TestUpdateScore_ClampAtZero() {
	a := s.addPlayer("Avery", "1", models.TeamRed)
	s.startGame()

	// At zero a decrement is a no-op and records nothing
	out, err := s.gameService.UpdateScore(s.ctx, &UpdateScoreInput{PlayerID: a.ID, Delta: -1})
	s.Require().NoError(err)
	s.False(out.Success)

	_, err = s.gameService.UpdateScore(s.ctx, &UpdateScoreInput{PlayerID: a.ID, Delta: 2})
	s.Require().NoError(err)

	// A decrement past zero is clamped to the player's floor
	out, err = s.gameService.UpdateScore(s.ctx, &UpdateScoreInput{PlayerID: a.ID, Delta: -3})
	s.Require().NoError(err)
	s.True(out.Success)
	s.Equal(-2, out.Applied)

	game, err := s.gameService.GetGame(s.ctx, &GetGameInput{})
	s.Require().NoError(err)
	s.Equal(0, game.Game.Players[0].Score)
	s.Equal(0, game.Game.TeamScores[models.TeamRed])

	// The recorded event carries the clamped value
	details, err := s.gameService.DetailsForPeriod(s.ctx, &DetailsForPeriodInput{
		Period: models.FirstPeriod,
		Kind:   string(models.EventScore),
	})
	s.Require().NoError(err)
	s.Require().Len(details.Details, 2)
	s.Require().NotNil(details.Details[0].Value)
	s.Equal(-2, *details.Details[0].Value)
}

func (s *GameServiceTestSuite) TestUpdateScore_PlusMinus() {
	a := s.addPlayer("Avery", "1", models.TeamRed)
	b := s.addPlayer("Blake", "1", models.TeamBlack)
	c := s.addPlayer("Casey", "2", models.TeamRed)
	s.toggleOn(a.ID)
	s.toggleOn(b.ID)
	s.startGame()

	_, err := s.gameService.UpdateScore(s.ctx, &UpdateScoreInput{PlayerID: a.ID, Delta: 2})
	s.Require().NoError(err)

	game, err := s.gameService.GetGame(s.ctx, &GetGameInput{})
	s.Require().NoError(err)

	byID := make(map[string]*models.Player)
	for _, p := range game.Game.Players {
		byID[p.ID] = p
	}
	s.Equal(2, byID[a.ID].PlusMinus)
	s.Equal(-2, byID[b.ID].PlusMinus)
	// Bench players are unaffected
	s.Equal(0, byID[c.ID].PlusMinus)
}

func (s *GameServiceTestSuite) TestAddFoul() {
	a := s.addPlayer("Avery", "1", models.TeamRed)
	s.startGame()

	out, err := s.gameService.AddFoul(s.ctx, &AddFoulInput{PlayerID: a.ID, Delta: 1})
	s.Require().NoError(err)
	s.True(out.Success)

	_, err = s.gameService.AddFoul(s.ctx, &AddFoulInput{PlayerID: a.ID, Delta: 1})
	s.Require().NoError(err)

	game, err := s.gameService.GetGame(s.ctx, &GetGameInput{})
	s.Require().NoError(err)
	s.Equal(2, game.Game.Players[0].Fouls)
	s.Equal(2, game.Game.TeamFouls[models.TeamRed][models.FirstPeriod])

	// Decrement below zero is a no-op
	_, err = s.gameService.AddFoul(s.ctx, &AddFoulInput{PlayerID: a.ID, Delta: -1})
	s.Require().NoError(err)
	_, err = s.gameService.AddFoul(s.ctx, &AddFoulInput{PlayerID: a.ID, Delta: -1})
	s.Require().NoError(err)
	out, err = s.gameService.AddFoul(s.ctx, &AddFoulInput{PlayerID: a.ID, Delta: -1})
	s.Require().NoError(err)
	s.False(out.Success)
}

func (s *GameServiceTestSuite) TestAddFoul_NotRunning() {
	a := s.addPlayer("Avery", "1", models.TeamRed)

	out, err := s.gameService.AddFoul(s.ctx, &AddFoulInput{PlayerID: a.ID, Delta: 1})
	s.Require().NoError(err)
	s.False(out.Success)
}

func (s *GameServiceTestSuite) TestStartAndPause() {
	game, err := s.gameService.GetGame(s.ctx, &GetGameInput{})
	s.Require().NoError(err)
	s.Equal(GameStatusNotStarted, game.Status)

	s.startGame()

	// Starting twice is a no-op
	out, err := s.gameService.StartGame(s.ctx, &StartGameInput{})
	s.Require().NoError(err)
	s.False(out.Success)

	game, err = s.gameService.GetGame(s.ctx, &GetGameInput{})
	s.Require().NoError(err)
	s.Equal(GameStatusRunning, game.Status)

	pause, err := s.gameService.PauseGame(s.ctx, &PauseGameInput{})
	s.Require().NoError(err)
	s.True(pause.Success)

	game, err = s.gameService.GetGame(s.ctx, &GetGameInput{})
	s.Require().NoError(err)
	s.Equal(GameStatusPaused, game.Status)

	// Pausing a paused game is a no-op
	pause, err = s.gameService.PauseGame(s.ctx, &PauseGameInput{})
	s.Require().NoError(err)
	s.False(pause.Success)
}

func (s *GameServiceTestSuite) TestPauseGame_NeverStarted() {
	out, err := s.gameService.PauseGame(s.ctx, &PauseGameInput{})
	s.Require().NoError(err)
	s.False(out.Success)
}

func (s *GameServiceTestSuite) TestPeriodBounds() {
	for want := models.FirstPeriod + 1; want <= models.LastPeriod; want++ {
		out, err := s.gameService.NextPeriod(s.ctx, &NextPeriodInput{})
		s.Require().NoError(err)
		s.True(out.Success)
		s.Equal(want, out.Period)
	}

	// Past the last period is a no-op
	out, err := s.gameService.NextPeriod(s.ctx, &NextPeriodInput{})
	s.Require().NoError(err)
	s.False(out.Success)
	s.Equal(models.LastPeriod, out.Period)

	for want := models.LastPeriod - 1; want >= models.FirstPeriod; want-- {
		prev, err := s.gameService.PrevPeriod(s.ctx, &PrevPeriodInput{})
		s.Require().NoError(err)
		s.True(prev.Success)
		s.Equal(want, prev.Period)
	}

	prev, err := s.gameService.PrevPeriod(s.ctx, &PrevPeriodInput{})
	s.Require().NoError(err)
	s.False(prev.Success)
	s.Equal(models.FirstPeriod, prev.Period)
}

func (s *GameServiceTestSuite) TestPrevPeriod_RecordsNoEvent() {
	_, err := s.gameService.NextPeriod(s.ctx, &NextPeriodInput{})
	s.Require().NoError(err)

	before, err := s.gameService.DetailsForPeriod(s.ctx, &DetailsForPeriodInput{Period: models.FirstPeriod})
	s.Require().NoError(err)

	_, err = s.gameService.PrevPeriod(s.ctx, &PrevPeriodInput{})
	s.Require().NoError(err)

	after, err := s.gameService.DetailsForPeriod(s.ctx, &DetailsForPeriodInput{Period: models.FirstPeriod})
	s.Require().NoError(err)
	s.Len(after.Details, len(before.Details))
}

func (s *GameServiceTestSuite) TestDetailsForPeriod_SeqTieBreak() {
	// The mocked clock is frozen, so both events share a timestamp
	s.addPlayer("Avery", "1", models.TeamRed)
	s.addPlayer("Blake", "2", models.TeamRed)

	details, err := s.gameService.DetailsForPeriod(s.ctx, &DetailsForPeriodInput{
		Period: models.FirstPeriod,
		Kind:   string(models.EventPlayerAdd),
	})
	s.Require().NoError(err)
	s.Require().Len(details.Details, 2)
	s.Equal("Blake", details.Details[0].PlayerName)
	s.Equal("Avery", details.Details[1].PlayerName)
}

func (s *GameServiceTestSuite) TestPeriods() {
	out, err := s.gameService.Periods(s.ctx, &PeriodsInput{})
	s.Require().NoError(err)
	s.Equal([]int{models.FirstPeriod}, out.Periods)

	s.addPlayer("Avery", "1", models.TeamRed)
	_, err = s.gameService.NextPeriod(s.ctx, &NextPeriodInput{})
	s.Require().NoError(err)
	s.addPlayer("Blake", "2", models.TeamRed)

	out, err = s.gameService.Periods(s.ctx, &PeriodsInput{})
	s.Require().NoError(err)
	s.Equal([]int{1, 2}, out.Periods)
}

func (s *GameServiceTestSuite) TestRemovePlayer_Declined() {
	player := s.addPlayer("Avery", "1", models.TeamRed)

	s.mockConfirmer.EXPECT().Confirm(gomock.Any(), gomock.Any()).Return(false, nil)

	out, err := s.gameService.RemovePlayer(s.ctx, &RemovePlayerInput{PlayerID: player.ID})
	s.Require().NoError(err)
	s.True(out.Cancelled)

	game, err := s.gameService.GetGame(s.ctx, &GetGameInput{})
	s.Require().NoError(err)
	s.Len(game.Game.Players, 1)
}

func (s *GameServiceTestSuite) TestRemovePlayer_Confirmed() {
	player := s.addPlayer("Avery", "1", models.TeamRed)

	s.mockConfirmer.EXPECT().Confirm(gomock.Any(), gomock.Any()).Return(true, nil)

	out, err := s.gameService.RemovePlayer(s.ctx, &RemovePlayerInput{PlayerID: player.ID})
	s.Require().NoError(err)
	s.False(out.Cancelled)

	game, err := s.gameService.GetGame(s.ctx, &GetGameInput{})
	s.Require().NoError(err)
	s.Empty(game.Game.Players)

	// The player's history stays in the ledger
	details, err := s.gameService.DetailsForPeriod(s.ctx, &DetailsForPeriodInput{Period: models.FirstPeriod})
	s.Require().NoError(err)
	s.Require().Len(details.Details, 2)
	s.Equal(models.EventPlayerRemove, details.Details[0].Kind)
	s.Equal(models.EventPlayerAdd, details.Details[1].Kind)
}

func (s *GameServiceTestSuite) TestRemovePlayer_NotFound() {
	_, err := s.gameService.RemovePlayer(s.ctx, &RemovePlayerInput{PlayerID: "missing"})
	s.ErrorIs(err, ErrPlayerNotFound)
}

func (s *GameServiceTestSuite) TestRecalculatePlusMinus_MatchesIncremental() {
	a := s.addPlayer("Avery", "1", models.TeamRed)
	b := s.addPlayer("Blake", "1", models.TeamBlack)
	c := s.addPlayer("Casey", "2", models.TeamRed)
	s.toggleOn(a.ID)
	s.toggleOn(b.ID)
	s.startGame()

	s.now = s.now.Add(time.Second)
	_, err := s.gameService.UpdateScore(s.ctx, &UpdateScoreInput{PlayerID: a.ID, Delta: 2})
	s.Require().NoError(err)

	// Sub Blake out, then a score Blake should not be charged for
	s.now = s.now.Add(time.Second)
	_, err = s.gameService.TogglePlayer(s.ctx, &TogglePlayerInput{PlayerID: b.ID})
	s.Require().NoError(err)

	s.now = s.now.Add(time.Second)
	_, err = s.gameService.UpdateScore(s.ctx, &UpdateScoreInput{PlayerID: a.ID, Delta: 3})
	s.Require().NoError(err)

	before, err := s.gameService.GetGame(s.ctx, &GetGameInput{})
	s.Require().NoError(err)

	_, err = s.gameService.RecalculatePlusMinus(s.ctx, &RecalculatePlusMinusInput{})
	s.Require().NoError(err)

	after, err := s.gameService.GetGame(s.ctx, &GetGameInput{})
	s.Require().NoError(err)

	byID := make(map[string]*models.Player)
	for _, p := range after.Game.Players {
		byID[p.ID] = p
	}
	s.Equal(5, byID[a.ID].PlusMinus)
	s.Equal(-2, byID[b.ID].PlusMinus)
	s.Equal(0, byID[c.ID].PlusMinus)

	// Replay agrees with the incremental bookkeeping
	for i, p := range before.Game.Players {
		s.Equal(p.PlusMinus, byID[before.Game.Players[i].ID].PlusMinus)
	}

	// Replaying again changes nothing
	_, err = s.gameService.RecalculatePlusMinus(s.ctx, &RecalculatePlusMinusInput{})
	s.Require().NoError(err)
	again, err := s.gameService.GetGame(s.ctx, &GetGameInput{})
	s.Require().NoError(err)
	for _, p := range again.Game.Players {
		s.Equal(byID[p.ID].PlusMinus, p.PlusMinus)
	}
}

func (s *GameServiceTestSuite) TestClockTick_AccrualAndFlush() {
	// Dedicated mocks so snapshot writes can be counted exactly
	gRepo := gameMocks.NewMockRepository(s.mockCtrl)
	dRepo := detailMocks.NewMockRepository(s.mockCtrl)
	dRepo.EXPECT().AppendDetail(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	svc, err := New(&Config{
		GameRepo:      gRepo,
		DetailRepo:    dRepo,
		Clock:         s.mockClock,
		UUIDGenerator: s.mockUUID,
		Notifier:      s.mockNotifier,
		Confirmer:     s.mockConfirmer,
		Logger:        slog.New(slog.DiscardHandler),
		TickInterval:  time.Hour,
	})
	s.Require().NoError(err)

	// Roster setup and start each write one snapshot
	gRepo.EXPECT().SaveSnapshot(gomock.Any(), gomock.Any()).Return(nil).Times(4)

	a, err := svc.AddPlayer(s.ctx, &AddPlayerInput{Name: "Avery", Number: "1", Team: models.TeamRed})
	s.Require().NoError(err)
	b, err := svc.AddPlayer(s.ctx, &AddPlayerInput{Name: "Blake", Number: "2", Team: models.TeamRed})
	s.Require().NoError(err)

	toggled, err := svc.TogglePlayer(s.ctx, &TogglePlayerInput{PlayerID: a.Player.ID})
	s.Require().NoError(err)
	s.Require().True(toggled.Success)

	started, err := svc.StartGame(s.ctx, &StartGameInput{})
	s.Require().NoError(err)
	s.Require().True(started.Success)

	playerTimes := func() (time.Duration, time.Duration) {
		game, err := svc.GetGame(s.ctx, &GetGameInput{})
		s.Require().NoError(err)
		var aTime, bTime time.Duration
		for _, p := range game.Game.Players {
			switch p.ID {
			case a.Player.ID:
				aTime = p.CurrentTime
			case b.Player.ID:
				bTime = p.CurrentTime
			}
		}
		return aTime, bTime
	}

	// Four ticks accrue the wall-clock delta without flushing
	for i := 0; i < 4; i++ {
		s.now = s.now.Add(time.Second)
		svc.tick()
	}

	aTime, bTime := playerTimes()
	s.Equal(4*time.Second, aTime)
	s.Equal(time.Duration(0), bTime)

	// The fifth tick flushes the projection
	gRepo.EXPECT().SaveSnapshot(gomock.Any(), gomock.Any()).Return(nil).Times(1)
	s.now = s.now.Add(time.Second)
	svc.tick()

	aTime, _ = playerTimes()
	s.Equal(5*time.Second, aTime)

	// Pause writes one snapshot and disarms the clock
	gRepo.EXPECT().SaveSnapshot(gomock.Any(), gomock.Any()).Return(nil).Times(1)
	paused, err := svc.PauseGame(s.ctx, &PauseGameInput{})
	s.Require().NoError(err)
	s.Require().True(paused.Success)

	// A tick already in flight at pause time must not revive accrual
	s.now = s.now.Add(time.Second)
	svc.tick()

	aTime, bTime = playerTimes()
	s.Equal(5*time.Second, aTime)
	s.Equal(time.Duration(0), bTime)
}

func (s *GameServiceTestSuite) TestRecalculatePlusMinus_NoSubEvents() {
	a := s.addPlayer("Avery", "1", models.TeamRed)
	s.startGame()

	_, err := s.gameService.UpdateScore(s.ctx, &UpdateScoreInput{PlayerID: a.ID, Delta: 2})
	s.Require().NoError(err)

	_, err = s.gameService.RecalculatePlusMinus(s.ctx, &RecalculatePlusMinusInput{})
	s.Require().NoError(err)

	// A player who never subbed in was never on court for any score
	game, err := s.gameService.GetGame(s.ctx, &GetGameInput{})
	s.Require().NoError(err)
	s.Equal(0, game.Game.Players[0].PlusMinus)
}

func (s *GameServiceTestSuite) TestRecalculatePlusMinus_SameTimestampOrdering() {
	a := s.addPlayer("Avery", "1", models.TeamRed)
	b := s.addPlayer("Blake", "1", models.TeamBlack)
	c := s.addPlayer("Casey", "2", models.TeamRed)
	s.toggleOn(a.ID)
	s.toggleOn(b.ID)
	s.startGame()

	// The clock stays frozen, so everything below shares one timestamp
	// and only the sequence number orders the replay

	// Blake subs out, then a score lands on the same timestamp
	out, err := s.gameService.TogglePlayer(s.ctx, &TogglePlayerInput{PlayerID: b.ID})
	s.Require().NoError(err)
	s.Require().False(out.OnCourt)

	_, err = s.gameService.UpdateScore(s.ctx, &UpdateScoreInput{PlayerID: a.ID, Delta: 2})
	s.Require().NoError(err)

	// Casey subs in, then another score lands on the same timestamp
	s.toggleOn(c.ID)
	_, err = s.gameService.UpdateScore(s.ctx, &UpdateScoreInput{PlayerID: a.ID, Delta: 3})
	s.Require().NoError(err)

	_, err = s.gameService.RecalculatePlusMinus(s.ctx, &RecalculatePlusMinusInput{})
	s.Require().NoError(err)

	game, err := s.gameService.GetGame(s.ctx, &GetGameInput{})
	s.Require().NoError(err)

	byID := make(map[string]*models.Player)
	for _, p := range game.Game.Players {
		byID[p.ID] = p
	}

	// The sub-out is applied before the score it shares a timestamp with
	s.Equal(0, byID[b.ID].PlusMinus)
	// The sub-in is applied before the score it shares a timestamp with
	s.Equal(3, byID[c.ID].PlusMinus)
	s.Equal(5, byID[a.ID].PlusMinus)
}

func (s *GameServiceTestSuite) TestLoad_NoSnapshot() {
	s.mockGameRepo.EXPECT().
		GetSnapshot(s.ctx, gomock.Any()).
		Return(nil, gameRepo.ErrSnapshotNotFound)
	s.mockDetailRepo.EXPECT().
		GetAllDetails(s.ctx, gomock.Any()).
		Return(&detailRepo.GetAllDetailsOutput{}, nil)

	out, err := s.gameService.Load(s.ctx, &LoadInput{})
	s.Require().NoError(err)
	s.Equal(0, out.Details)
	s.Equal(models.FirstPeriod, out.Game.CurrentPeriod)
	s.False(out.Game.Running)
	s.Empty(out.Game.Players)
}

func (s *GameServiceTestSuite) TestLoad_RecoveryReconciliation() {
	// The process died 30 seconds ago with the clock running
	persisted := &models.GameState{
		Running:        true,
		LastUpdateTime: s.now.Add(-30 * time.Second),
		StartTime:      s.now.Add(-10 * time.Minute),
		CurrentPeriod:  2,
		Players: []*models.Player{
			{ID: "p1", Name: "Avery", Number: "1", Team: models.TeamRed, OnCourt: true, CurrentTime: 2 * time.Minute},
			{ID: "p2", Name: "Blake", Number: "2", Team: models.TeamRed, CurrentTime: time.Minute},
		},
	}
	s.mockGameRepo.EXPECT().
		GetSnapshot(s.ctx, gomock.Any()).
		Return(persisted, nil)
	s.mockDetailRepo.EXPECT().
		GetAllDetails(s.ctx, gomock.Any()).
		Return(&detailRepo.GetAllDetailsOutput{Details: []*models.Detail{
			{Timestamp: s.now.Add(-10 * time.Minute), Seq: 1, Period: 1, Kind: models.EventGameStart},
			{Timestamp: s.now.Add(-5 * time.Minute), Seq: 2, Period: 1, Kind: models.EventSubIn, Team: models.TeamRed, PlayerName: "Avery", PlayerNumber: "1"},
		}}, nil)

	out, err := s.gameService.Load(s.ctx, &LoadInput{})
	s.Require().NoError(err)
	s.Equal(2, out.Details)

	// The offline gap is credited to the on-court player only
	s.Equal(2*time.Minute+30*time.Second, out.Game.Players[0].CurrentTime)
	s.Equal(time.Minute, out.Game.Players[1].CurrentTime)

	// Resuming requires an explicit start
	s.False(out.Game.Running)

	game, err := s.gameService.GetGame(s.ctx, &GetGameInput{})
	s.Require().NoError(err)
	s.Equal(GameStatusPaused, game.Status)
}

func (s *GameServiceTestSuite) TestLoad_ReadFailureStartsEmpty() {
	s.mockGameRepo.EXPECT().
		GetSnapshot(s.ctx, gomock.Any()).
		Return(nil, gameRepo.ErrSnapshotNotFound)
	s.mockDetailRepo.EXPECT().
		GetAllDetails(s.ctx, gomock.Any()).
		Return(nil, errors.New("connection refused"))

	out, err := s.gameService.Load(s.ctx, &LoadInput{})
	s.Require().NoError(err)
	s.Equal(0, out.Details)
}

func (s *GameServiceTestSuite) TestClearAll_Declined() {
	s.addPlayer("Avery", "1", models.TeamRed)

	s.mockConfirmer.EXPECT().Confirm(gomock.Any(), gomock.Any()).Return(false, nil)

	out, err := s.gameService.ClearAll(s.ctx, &ClearAllInput{})
	s.Require().NoError(err)
	s.True(out.Cancelled)

	game, err := s.gameService.GetGame(s.ctx, &GetGameInput{})
	s.Require().NoError(err)
	s.Len(game.Game.Players, 1)
}

func (s *GameServiceTestSuite) TestClearAll_Confirmed() {
	s.addPlayer("Avery", "1", models.TeamRed)
	s.startGame()

	s.mockConfirmer.EXPECT().Confirm(gomock.Any(), gomock.Any()).Return(true, nil)
	s.mockGameRepo.EXPECT().DeleteSnapshot(s.ctx, gomock.Any()).Return(nil)
	s.mockDetailRepo.EXPECT().ClearDetails(s.ctx, gomock.Any()).Return(nil)

	out, err := s.gameService.ClearAll(s.ctx, &ClearAllInput{})
	s.Require().NoError(err)
	s.False(out.Cancelled)

	game, err := s.gameService.GetGame(s.ctx, &GetGameInput{})
	s.Require().NoError(err)
	s.Empty(game.Game.Players)
	s.Equal(GameStatusNotStarted, game.Status)

	details, err := s.gameService.DetailsForPeriod(s.ctx, &DetailsForPeriodInput{Period: models.FirstPeriod})
	s.Require().NoError(err)
	s.Empty(details.Details)
}

func (s *GameServiceTestSuite) TestExportImport_RoundTrip() {
	a := s.addPlayer("Avery", "1", models.TeamRed)
	b := s.addPlayer("Blake", "1", models.TeamBlack)
	s.toggleOn(a.ID)
	s.toggleOn(b.ID)
	s.startGame()

	s.now = s.now.Add(time.Second)
	_, err := s.gameService.UpdateScore(s.ctx, &UpdateScoreInput{PlayerID: a.ID, Delta: 2})
	s.Require().NoError(err)

	exported, err := s.gameService.Export(s.ctx, &ExportInput{})
	s.Require().NoError(err)
	s.Require().NotEmpty(exported.Data)

	s.mockDetailRepo.EXPECT().ClearDetails(s.ctx, gomock.Any()).Return(nil)

	imported, err := s.gameService.Import(s.ctx, &ImportInput{Data: exported.Data})
	s.Require().NoError(err)
	s.Equal(2, imported.Players)
	// 2 player-adds + 2 sub-ins + game-start + score
	s.Equal(6, imported.Details)
	// Differential data was present, so no replay was needed
	s.False(imported.Recomputed)

	game, err := s.gameService.GetGame(s.ctx, &GetGameInput{})
	s.Require().NoError(err)
	s.Equal(2, game.Game.TeamScores[models.TeamRed])
	s.Equal(2, game.Game.Players[0].PlusMinus)
	// An imported game never resumes on its own
	s.False(game.Game.Running)
}

func (s *GameServiceTestSuite) TestImport_RecomputesPlusMinus() {
	// A document from a source without differential tracking: score events
	// exist but every plus-minus is zero
	base := s.now.Add(-time.Hour)
	points := 3
	doc := models.ExportDocument{
		Game: &models.GameState{
			CurrentPeriod: 1,
			TeamScores:    map[models.Team]int{models.TeamRed: 3},
			Players: []*models.Player{
				{ID: "p1", Name: "Avery", Number: "1", Team: models.TeamRed, OnCourt: true, Score: 3},
				{ID: "p2", Name: "Blake", Number: "1", Team: models.TeamBlack, OnCourt: true},
			},
		},
		Details: []*models.Detail{
			{Timestamp: base, Seq: 1, Period: 1, Kind: models.EventSubIn, Team: models.TeamRed, PlayerName: "Avery", PlayerNumber: "1"},
			{Timestamp: base, Seq: 2, Period: 1, Kind: models.EventSubIn, Team: models.TeamBlack, PlayerName: "Blake", PlayerNumber: "1"},
			{Timestamp: base.Add(time.Minute), Seq: 3, Period: 1, Kind: models.EventScore, Team: models.TeamRed, PlayerName: "Avery", PlayerNumber: "1", Value: &points},
		},
	}
	data, err := json.Marshal(doc)
	s.Require().NoError(err)

	s.mockDetailRepo.EXPECT().ClearDetails(s.ctx, gomock.Any()).Return(nil)

	out, err := s.gameService.Import(s.ctx, &ImportInput{Data: data})
	s.Require().NoError(err)
	s.True(out.Recomputed)

	game, err := s.gameService.GetGame(s.ctx, &GetGameInput{})
	s.Require().NoError(err)
	byName := make(map[string]*models.Player)
	for _, p := range game.Game.Players {
		byName[p.Name] = p
	}
	s.Equal(3, byName["Avery"].PlusMinus)
	s.Equal(-3, byName["Blake"].PlusMinus)
}

func (s *GameServiceTestSuite) TestImport_InvalidData() {
	_, err := s.gameService.Import(s.ctx, &ImportInput{})
	s.ErrorIs(err, ErrInvalidImport)

	_, err = s.gameService.Import(s.ctx, &ImportInput{Data: []byte("not json")})
	s.Error(err)

	// A document without a game is rejected before anything is touched
	_, err = s.gameService.Import(s.ctx, &ImportInput{Data: []byte(`{"details":[]}`)})
	s.ErrorIs(err, ErrInvalidImport)
}

func (s *GameServiceTestSuite) TestNew_Validation() {
	_, err := New(nil)
	s.ErrorIs(err, ErrNilConfig)

	_, err = New(&Config{DetailRepo: s.mockDetailRepo})
	s.ErrorIs(err, ErrNilGameRepo)

	_, err = New(&Config{GameRepo: s.mockGameRepo})
	s.ErrorIs(err, ErrNilDetailRepo)
}

func TestGameServiceSuite(t *testing.T) {
	suite.Run(t, new(GameServiceTestSuite))
}

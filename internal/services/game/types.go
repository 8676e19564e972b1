package game

import (
	"log/slog"
	"time"

	"github.com/courtside/scorekeeper/internal/common/clock"
	"github.com/courtside/scorekeeper/internal/common/confirm"
	"github.com/courtside/scorekeeper/internal/common/uuid"
	"github.com/courtside/scorekeeper/internal/models"
	"github.com/courtside/scorekeeper/internal/notify"
	detailRepo "github.com/courtside/scorekeeper/internal/repositories/detail"
	gameRepo "github.com/courtside/scorekeeper/internal/repositories/game"
)

const (
	// DefaultTickInterval is the cadence of play-time accrual
	DefaultTickInterval = time.Second

	// DefaultSnapshotEveryTicks is how many ticks pass between background
	// snapshot flushes
	DefaultSnapshotEveryTicks = 5
)

// Config holds configuration for the game service
type Config struct {
	// Repository dependencies
	GameRepo   gameRepo.Repository
	DetailRepo detailRepo.Repository

	// Collaborator dependencies
	Clock         clock.Clock
	UUIDGenerator uuid.UUID
	Notifier      notify.Notifier
	Confirmer     confirm.Confirmer
	Logger        *slog.Logger

	// TickInterval overrides the play-time accrual cadence
	TickInterval time.Duration

	// SnapshotEveryTicks overrides the background flush cadence
	SnapshotEveryTicks int

	// Presets overrides the preset player pool
	Presets []*models.PresetPlayer
}

// DefaultPresets is the built-in preset player pool
var DefaultPresets = []*models.PresetPlayer{
	{ID: "preset-1", Name: "Avery", Number: "0"},
	{ID: "preset-2", Name: "Blake", Number: "3"},
	{ID: "preset-3", Name: "Casey", Number: "5"},
	{ID: "preset-4", Name: "Devon", Number: "7"},
	{ID: "preset-5", Name: "Emery", Number: "8"},
	{ID: "preset-6", Name: "Flynn", Number: "11"},
	{ID: "preset-7", Name: "Gray", Number: "13"},
	{ID: "preset-8", Name: "Hollis", Number: "21"},
	{ID: "preset-9", Name: "Indigo", Number: "23"},
	{ID: "preset-10", Name: "Jules", Number: "33"},
}

// GameStatus is the human-readable state of the game
type GameStatus string

const (
	// GameStatusNotStarted indicates the game has never been started
	GameStatusNotStarted GameStatus = "not started"

	// GameStatusRunning indicates the game clock is running
	GameStatusRunning GameStatus = "running"

	// GameStatusPaused indicates the game has started and is paused
	GameStatusPaused GameStatus = "paused"
)

// LoadInput contains parameters for loading the persisted game
type LoadInput struct{}

// LoadOutput contains the result of loading the persisted game
type LoadOutput struct {
	// Game is a copy of the loaded projection
	Game *models.GameState

	// Details is how many ledger events were loaded
	Details int
}

// AddPlayerInput contains parameters for adding a player
type AddPlayerInput struct {
	// Name is the display name of the new player
	Name string

	// Number is the jersey number of the new player
	Number string

	// Team is the team the player joins
	Team models.Team
}

// AddPlayerOutput contains the result of adding a player
type AddPlayerOutput struct {
	// Player is a copy of the created player
	Player *models.Player
}

// AddPresetPlayerInput contains parameters for adding a preset player
type AddPresetPlayerInput struct {
	// PresetID identifies the preset entry to add
	PresetID string

	// Team is the team the player joins
	Team models.Team
}

// AddPresetPlayerOutput contains the result of adding a preset player
type AddPresetPlayerOutput struct {
	// Player is a copy of the created player
	Player *models.Player
}

// RemovePlayerInput contains parameters for removing a player
type RemovePlayerInput struct {
	// PlayerID identifies the player to remove
	PlayerID string
}

// RemovePlayerOutput contains the result of removing a player
type RemovePlayerOutput struct {
	// Cancelled indicates the user declined the confirmation prompt
	Cancelled bool
}

// TogglePlayerInput contains parameters for toggling a player's court state
type TogglePlayerInput struct {
	// PlayerID identifies the player to toggle
	PlayerID string
}

// TogglePlayerOutput contains the result of toggling a player
type TogglePlayerOutput struct {
	// Success indicates if the toggle was applied
	Success bool

	// OnCourt is the player's court state after the call
	OnCourt bool
}

// UpdateScoreInput contains parameters for a scoring change
type UpdateScoreInput struct {
	// PlayerID identifies the scoring player
	PlayerID string

	// Delta is the requested score change, positive or negative
	Delta int
}

// UpdateScoreOutput contains the result of a scoring change
type UpdateScoreOutput struct {
	// Success indicates if the change was applied
	Success bool

	// Applied is the delta actually applied after clamping at zero
	Applied int
}

// AddFoulInput contains parameters for a foul-count change
type AddFoulInput struct {
	// PlayerID identifies the fouling player
	PlayerID string

	// Delta is the requested foul-count change
	Delta int
}

// AddFoulOutput contains the result of a foul-count change
type AddFoulOutput struct {
	// Success indicates if the change was applied
	Success bool
}

// StartGameInput contains parameters for starting the game
type StartGameInput struct{}

// StartGameOutput contains the result of starting the game
type StartGameOutput struct {
	// Success indicates if the game transitioned to running
	Success bool
}

// PauseGameInput contains parameters for pausing the game
type PauseGameInput struct{}

// PauseGameOutput contains the result of pausing the game
type PauseGameOutput struct {
	// Success indicates if the game transitioned to paused
	Success bool
}

// NextPeriodInput contains parameters for advancing the period
type NextPeriodInput struct{}

// NextPeriodOutput contains the result of advancing the period
type NextPeriodOutput struct {
	// Success indicates if the period changed
	Success bool

	// Period is the current period after the call
	Period int
}

// PrevPeriodInput contains parameters for moving back a period
type PrevPeriodInput struct{}

// PrevPeriodOutput contains the result of moving back a period
type PrevPeriodOutput struct {
	// Success indicates if the period changed
	Success bool

	// Period is the current period after the call
	Period int
}

// ClearAllInput contains parameters for clearing all data
type ClearAllInput struct{}

// ClearAllOutput contains the result of clearing all data
type ClearAllOutput struct {
	// Cancelled indicates the user declined the confirmation prompt
	Cancelled bool
}

// RecalculatePlusMinusInput contains parameters for a full plus-minus replay
type RecalculatePlusMinusInput struct{}

// RecalculatePlusMinusOutput contains the result of a full plus-minus replay
type RecalculatePlusMinusOutput struct{}

// ImportInput contains parameters for a bulk import
type ImportInput struct {
	// Data is the serialized export document
	Data []byte
}

// ImportOutput contains the result of a bulk import
type ImportOutput struct {
	// Players is how many players the imported roster holds
	Players int

	// Details is how many ledger events were imported
	Details int

	// Recomputed indicates plus-minus was rebuilt from the ledger
	Recomputed bool
}

// ExportInput contains parameters for a bulk export
type ExportInput struct{}

// ExportOutput contains the result of a bulk export
type ExportOutput struct {
	// Data is the serialized export document
	Data []byte
}

// GetGameInput contains parameters for reading the current game
type GetGameInput struct{}

// GetGameOutput contains the result of reading the current game
type GetGameOutput struct {
	// Game is a copy of the live projection
	Game *models.GameState

	// Status is the human-readable game state
	Status GameStatus
}

// DetailsForPeriodInput contains parameters for reading ledger events
type DetailsForPeriodInput struct {
	// Period is the period to read events for
	Period int

	// Kind filters events: empty or "all" for every kind, "sub" for
	// sub-in and sub-out, otherwise an exact event kind
	Kind string
}

// DetailsForPeriodOutput contains the result of reading ledger events
type DetailsForPeriodOutput struct {
	// Details is the matching events, newest first
	Details []*models.Detail
}

// PeriodsInput contains parameters for reading the distinct periods
type PeriodsInput struct{}

// PeriodsOutput contains the result of reading the distinct periods
type PeriodsOutput struct {
	// Periods is the sorted set of periods seen in the ledger
	Periods []int
}

// AvailablePresetsInput contains parameters for reading unused presets
type AvailablePresetsInput struct{}

// AvailablePresetsOutput contains the result of reading unused presets
type AvailablePresetsOutput struct {
	// Presets is the preset entries not yet linked to a roster player
	Presets []*models.PresetPlayer
}

package game

import "context"

// Service defines the interface for game operations
type Service interface {
	// Load restores the persisted game, reconciling time missed while
	// the process was not running
	Load(ctx context.Context, input *LoadInput) (*LoadOutput, error)

	// AddPlayer adds a new player to the roster
	AddPlayer(ctx context.Context, input *AddPlayerInput) (*AddPlayerOutput, error)

	// AddPresetPlayer adds a player from the preset pool to the roster
	AddPresetPlayer(ctx context.Context, input *AddPresetPlayerInput) (*AddPresetPlayerOutput, error)

	// RemovePlayer removes a player from the roster after confirmation
	RemovePlayer(ctx context.Context, input *RemovePlayerInput) (*RemovePlayerOutput, error)

	// TogglePlayer moves a player between court and bench
	TogglePlayer(ctx context.Context, input *TogglePlayerInput) (*TogglePlayerOutput, error)

	// UpdateScore applies a scoring change to a player and their team
	UpdateScore(ctx context.Context, input *UpdateScoreInput) (*UpdateScoreOutput, error)

	// AddFoul applies a foul-count change to a player and their team
	AddFoul(ctx context.Context, input *AddFoulInput) (*AddFoulOutput, error)

	// StartGame starts the game clock
	StartGame(ctx context.Context, input *StartGameInput) (*StartGameOutput, error)

	// PauseGame pauses the game clock
	PauseGame(ctx context.Context, input *PauseGameInput) (*PauseGameOutput, error)

	// NextPeriod advances to the next period
	NextPeriod(ctx context.Context, input *NextPeriodInput) (*NextPeriodOutput, error)

	// PrevPeriod moves back to the previous period
	PrevPeriod(ctx context.Context, input *PrevPeriodInput) (*PrevPeriodOutput, error)

	// ClearAll erases the game and its ledger after confirmation
	ClearAll(ctx context.Context, input *ClearAllInput) (*ClearAllOutput, error)

	// RecalculatePlusMinus rebuilds every player's scoring differential
	// from the event ledger
	RecalculatePlusMinus(ctx context.Context, input *RecalculatePlusMinusInput) (*RecalculatePlusMinusOutput, error)

	// Import replaces all state with the contents of an export document
	Import(ctx context.Context, input *ImportInput) (*ImportOutput, error)

	// Export serializes the game and its ledger to a document
	Export(ctx context.Context, input *ExportInput) (*ExportOutput, error)

	// GetGame returns a copy of the live projection
	GetGame(ctx context.Context, input *GetGameInput) (*GetGameOutput, error)

	// DetailsForPeriod returns ledger events for a period, newest first
	DetailsForPeriod(ctx context.Context, input *DetailsForPeriodInput) (*DetailsForPeriodOutput, error)

	// Periods returns the sorted set of periods seen in the ledger
	Periods(ctx context.Context, input *PeriodsInput) (*PeriodsOutput, error)

	// AvailablePresets returns preset entries not yet on the roster
	AvailablePresets(ctx context.Context, input *AvailablePresetsInput) (*AvailablePresetsOutput, error)
}

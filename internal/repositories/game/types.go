package game

import "github.com/courtside/scorekeeper/internal/models"

// SaveSnapshotInput contains parameters for saving the current-game snapshot
type SaveSnapshotInput struct {
	State *models.GameState
}

// GetSnapshotInput contains parameters for retrieving the current-game snapshot
type GetSnapshotInput struct{}

// DeleteSnapshotInput contains parameters for deleting the current-game snapshot
type DeleteSnapshotInput struct{}

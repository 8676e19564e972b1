package game

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/courtside/scorekeeper/internal/repositories/game Repository

import (
	"context"

	"github.com/courtside/scorekeeper/internal/models"
)

// Repository defines the interface for current-game snapshot persistence
type Repository interface {
	// SaveSnapshot overwrites the single current-game snapshot
	SaveSnapshot(ctx context.Context, input *SaveSnapshotInput) error

	// GetSnapshot retrieves the current-game snapshot
	GetSnapshot(ctx context.Context, input *GetSnapshotInput) (*models.GameState, error)

	// DeleteSnapshot removes the current-game snapshot
	DeleteSnapshot(ctx context.Context, input *DeleteSnapshotInput) error
}

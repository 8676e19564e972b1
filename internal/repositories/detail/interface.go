package detail

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/courtside/scorekeeper/internal/repositories/detail Repository

import (
	"context"
)

// Repository defines the interface for detail event persistence
type Repository interface {
	// AppendDetail adds one detail event to the ledger
	AppendDetail(ctx context.Context, input *AppendDetailInput) error

	// GetAllDetails retrieves every detail event; ordering is up to the caller
	GetAllDetails(ctx context.Context, input *GetAllDetailsInput) (*GetAllDetailsOutput, error)

	// ClearDetails removes every detail event
	ClearDetails(ctx context.Context, input *ClearDetailsInput) error
}

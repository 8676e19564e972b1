package detail

import "github.com/courtside/scorekeeper/internal/models"

// AppendDetailInput contains parameters for appending a detail event
type AppendDetailInput struct {
	Detail *models.Detail
}

// GetAllDetailsInput contains parameters for retrieving all detail events
type GetAllDetailsInput struct{}

// GetAllDetailsOutput contains the result of retrieving all detail events
type GetAllDetailsOutput struct {
	Details []*models.Detail
}

// ClearDetailsInput contains parameters for clearing all detail events
type ClearDetailsInput struct{}

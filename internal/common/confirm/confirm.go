package confirm

import "context"

//go:generate mockgen -package=mocks -destination=mocks/mock_confirmer.go github.com/courtside/scorekeeper/internal/common/confirm Confirmer

// Confirmer asks the user to approve a destructive operation. A false answer
// is a normal aborted-operation path, not an error.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// AutoConfirmer approves every prompt. Surfaces that collect the confirmation
// themselves (a UI dialog before the request is sent) wire this in.
type AutoConfirmer struct{}

// Confirm always approves
func (c *AutoConfirmer) Confirm(ctx context.Context, prompt string) (bool, error) {
	return true, nil
}

package notify

import (
	"context"
	"log/slog"
)

//go:generate mockgen -package=mocks -destination=mocks/mock_notifier.go github.com/courtside/scorekeeper/internal/notify Notifier

// Notifier delivers user-facing messages about completed or rejected
// operations. Implementations must not block the caller on delivery.
type Notifier interface {
	// Success reports a completed operation
	Success(ctx context.Context, message string)

	// Warning reports a rejected operation the user can correct
	Warning(ctx context.Context, message string)

	// Error reports a failed operation
	Error(ctx context.Context, message string)
}

// LogNotifier writes notifications to a structured logger
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier creates a notifier backed by the given logger, or the
// default logger when nil
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogNotifier{logger: logger}
}

// Success reports a completed operation
func (n *LogNotifier) Success(ctx context.Context, message string) {
	n.logger.InfoContext(ctx, message, "notice", "success")
}

// Warning reports a rejected operation
func (n *LogNotifier) Warning(ctx context.Context, message string) {
	n.logger.WarnContext(ctx, message, "notice", "warning")
}

// Error reports a failed operation
func (n *LogNotifier) Error(ctx context.Context, message string) {
	n.logger.ErrorContext(ctx, message, "notice", "error")
}

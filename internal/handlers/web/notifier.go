package web

import (
	"context"
	"log/slog"
	"time"
)

// ToastNotifier delivers user-facing notices as toast frames to every
// connected scoreboard, mirroring them to the log
type ToastNotifier struct {
	hub    *Hub
	logger *slog.Logger
}

// NewToastNotifier creates a notifier backed by the given hub
func NewToastNotifier(hub *Hub, logger *slog.Logger) *ToastNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &ToastNotifier{hub: hub, logger: logger}
}

// Success reports a completed operation
func (n *ToastNotifier) Success(ctx context.Context, message string) {
	n.logger.InfoContext(ctx, message, "notice", "success")
	n.push("success", message)
}

// Warning reports a rejected operation the user can correct
func (n *ToastNotifier) Warning(ctx context.Context, message string) {
	n.logger.WarnContext(ctx, message, "notice", "warning")
	n.push("warning", message)
}

// Error reports a failed operation
func (n *ToastNotifier) Error(ctx context.Context, message string) {
	n.logger.ErrorContext(ctx, message, "notice", "error")
	n.push("error", message)
}

func (n *ToastNotifier) push(level, message string) {
	n.hub.Broadcast(Message{
		Type:      MessageTypeToast,
		Payload:   Toast{Level: level, Message: message},
		Timestamp: time.Now(),
	})
}

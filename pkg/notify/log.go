package notify

import (
	"context"

	"go.uber.org/zap"
)

// Logger writes notifications to the log instead of the OS. It serves
// headless runs and platforms without Notification Center.
type Logger struct {
	log *zap.Logger
}

// NewLogger returns a log-backed notifier.
func NewLogger(log *zap.Logger) *Logger {
	if log == nil {
		log = zap.NewNop()
	}
	return &Logger{log: log}
}

// Notify records the notification at info level.
func (l *Logger) Notify(_ context.Context, n Notification) error {
	l.log.Info("notification",
		zap.String("title", n.Title),
		zap.String("subtitle", n.Subtitle),
		zap.String("body", n.Body),
	)
	return nil
}

package adapter

import (
	"context"
	"log/slog"
)

// LogNotifier implements port.Notifier by writing notifications to the log.
// Default driver for development environments without SMTP or Kafka.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier creates a log-backed notifier.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Send logs the notification instead of delivering it.
func (n *LogNotifier) Send(ctx context.Context, userID, templateID string, vars map[string]string) error {
	attrs := []any{"user_id", userID, "template", templateID}
	for k, v := range vars {
		attrs = append(attrs, k, v)
	}
	n.logger.InfoContext(ctx, "notification", attrs...)
	return nil
}

package notify

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/grosnap/backend/internal/domain"
)

// LogNotifier writes notifications to the log instead of sending them.
// Used when SMTP is not configured.
type LogNotifier struct {
	logger zerolog.Logger
}

// NewLogNotifier creates a notifier that only logs
func NewLogNotifier(logger *zerolog.Logger) *LogNotifier {
	l := zerolog.Nop()
	if logger != nil {
		l = *logger
	}
	return &LogNotifier{logger: l.With().Str("component", "notify").Logger()}
}

// Notify logs n and never fails
func (l *LogNotifier) Notify(ctx context.Context, n domain.Notification) error {
	l.logger.Info().
		Str("to", n.Destination).
		Str("subject", n.Subject).
		Str("message", n.Message).
		Msg("Notification (not delivered, smtp disabled)")
	return nil
}

package notify

import (
	"context"
	"errors"
	"log/slog"
)

// LogSender writes a line per message. Useful in development and as a
// delivery audit trail next to real senders. Sensitive payload values are
// never logged.
type LogSender struct {
	Logger *slog.Logger
}

func (s LogSender) Send(_ context.Context, msg Message) error {
	attrs := []any{
		slog.String("kind", string(msg.Kind)),
		slog.String("to", msg.To),
	}
	for k, v := range msg.Payload {
		if sensitiveKeys[k] {
			continue
		}
		attrs = append(attrs, slog.String(k, v))
	}
	s.Logger.Info("notification", attrs...)
	return nil
}

// MultiSender delivers to every sender and joins their errors.
type MultiSender []Sender

func (m MultiSender) Send(ctx context.Context, msg Message) error {
	var errs []error
	for _, s := range m {
		if err := s.Send(ctx, msg); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

package messaging

import (
	"context"
	"log/slog"
)

// Message is one outbox job handed to a notifier. ID is stable across redeliveries so
// consumers can deduplicate.
type Message struct {
	ID      string
	Kind    string
	Topic   string
	Payload []byte
}

type Notifier interface {
	Notify(ctx context.Context, msg Message) error
}

// LogNotifier stands in when no broker is configured; delivery is a structured log line.
type LogNotifier struct{}

func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

func (n *LogNotifier) Notify(ctx context.Context, msg Message) error {
	slog.InfoContext(ctx, "notification",
		"id", msg.ID,
		"kind", msg.Kind,
		"topic", msg.Topic,
		"payload", string(msg.Payload))
	return nil
}

func (n *LogNotifier) Close() error { return nil }

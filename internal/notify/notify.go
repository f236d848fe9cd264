// Package notify carries best-effort notifications out of the core. Sinks
// must never fail the operation that triggered them; delivery problems are
// logged and swallowed.
package notify

import (
	"context"
	"log/slog"
)

const (
	EventTaskCompleted = "task_completed"
	EventChatMessage   = "chat_message"
)

type Event struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

type Sink interface {
	Publish(ctx context.Context, e Event)
}

// LogSink writes events to the structured log. It stands in for the realtime
// broadcast channel in deployments without one.
type LogSink struct{}

func (LogSink) Publish(_ context.Context, e Event) {
	slog.Info("notification", "type", e.Type, "payload", e.Payload)
}

type NopSink struct{}

func (NopSink) Publish(context.Context, Event) {}

// Fanout publishes to every sink in order.
type Fanout []Sink

func (f Fanout) Publish(ctx context.Context, e Event) {
	for _, s := range f {
		s.Publish(ctx, e)
	}
}

// README: Chat activity log; one append-only entry per handled message.
package chatlog

import (
	"context"
	"time"
)

// Path is the RTDB node and the Postgres table that receive entries.
const Path = "chat_logs"

type Entry struct {
	Timestamp      string `json:"timestamp"`
	UserMessage    string `json:"user_message"`
	SystemResponse string `json:"system_response"`
}

// NewEntry stamps an entry with at in UTC.
func NewEntry(at time.Time, userMessage, systemResponse string) Entry {
	return Entry{
		Timestamp:      at.UTC().Format(time.RFC3339Nano),
		UserMessage:    userMessage,
		SystemResponse: systemResponse,
	}
}

// Sink appends entries to durable storage.
type Sink interface {
	Name() string
	Append(ctx context.Context, e Entry) error
}

// NopSink drops every entry.
type NopSink struct{}

func (NopSink) Name() string { return "none" }
func (NopSink) Append(context.Context, Entry) error { return nil }

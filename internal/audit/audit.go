// Package audit records tool calls and resource reads.
package audit

import (
	"context"
	"log/slog"
	"time"
)

// Event types.
const (
	EventToolCall     = "tool_call"
	EventToolOK       = "tool_ok"
	EventToolError    = "tool_error"
	EventResourceRead = "resource_read"
)

// Event is one audit entry.
type Event struct {
	// Type is one of the Event* constants.
	Type string
	// Tool is the tool name or resource URI.
	Tool string
	// CorrelationID links the events of one call.
	CorrelationID string
	// Kind is the error kind of a failed call.
	Kind string
	// Reason is the user-visible message of a failed call.
	Reason string
	// Elapsed is the call duration for completion events.
	Elapsed time.Duration
}

// Logger records audit events.
type Logger interface {
	Record(ctx context.Context, event Event)
}

// StdLogger writes audit events to slog.
type StdLogger struct {
	logger *slog.Logger
}

// New returns a StdLogger.
func New(logger *slog.Logger) *StdLogger {
	return &StdLogger{logger: logger}
}

// Record logs an audit event. Empty fields are omitted.
func (l *StdLogger) Record(ctx context.Context, event Event) {
	if l == nil || l.logger == nil {
		return
	}
	attrs := []slog.Attr{
		slog.String("type", event.Type),
		slog.String("tool", event.Tool),
		slog.String("correlation_id", event.CorrelationID),
	}
	if event.Kind != "" {
		attrs = append(attrs, slog.String("kind", event.Kind))
	}
	if event.Reason != "" {
		attrs = append(attrs, slog.String("reason", event.Reason))
	}
	if event.Elapsed > 0 {
		attrs = append(attrs, slog.Duration("elapsed", event.Elapsed))
	}
	l.logger.LogAttrs(ctx, slog.LevelInfo, "audit", attrs...)
}

// Nop discards events.
type Nop struct{}

// Record implements Logger.
func (Nop) Record(context.Context, Event) {}

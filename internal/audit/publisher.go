package audit

import (
	"context"
	"log/slog"
	"time"

	"certvault/internal/platform/middleware"
)

// Sink receives audit events. Implementations: memory (tests, single node),
// kafka (production fan-out).
type Sink interface {
	Append(ctx context.Context, event Event) error
	Close() error
}

// Publisher hands events to a buffered inbox consumed by the Worker. Emission
// is fail-open: the audit trail must never take a registration or login down
// with it, so a full inbox drops the event and logs.
type Publisher struct {
	inbox  chan Event
	logger *slog.Logger
}

func NewPublisher(buffer int, logger *slog.Logger) *Publisher {
	return &Publisher{
		inbox:  make(chan Event, buffer),
		logger: logger,
	}
}

func (p *Publisher) Emit(ctx context.Context, event Event) {
	if p == nil {
		return
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if event.RequestID == "" {
		event.RequestID = middleware.GetRequestID(ctx)
	}
	select {
	case p.inbox <- event:
	default:
		p.logger.WarnContext(ctx, "audit inbox full, dropping event",
			"action", event.Action,
			"phone", event.Phone,
		)
	}
}

// Inbox exposes the receive side for the worker.
func (p *Publisher) Inbox() <-chan Event {
	return p.inbox
}

// Worker consumes audit events from the publisher inbox and persists them.
type Worker struct {
	sink   Sink
	inbox  <-chan Event
	logger *slog.Logger
}

func NewWorker(sink Sink, inbox <-chan Event, logger *slog.Logger) *Worker {
	return &Worker{sink: sink, inbox: inbox, logger: logger}
}

// Run loops until ctx is canceled. Sink failures are logged and the event
// dropped; audit delivery is best-effort.
func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event := <-w.inbox:
			if err := w.sink.Append(ctx, event); err != nil {
				w.logger.ErrorContext(ctx, "audit append failed",
					"action", event.Action,
					"error", err,
				)
			}
		}
	}
}

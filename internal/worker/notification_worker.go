package worker

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/idea-portal/internal/events"
)

// NotificationHandler delivers notifications for an event.
type NotificationHandler interface {
	Handle(ctx context.Context, event events.Event) error
}

// NotificationWorker moves notification delivery off the request path. Events are queued
// by the dispatcher and delivered by a single background goroutine.
type NotificationWorker struct {
	handler NotificationHandler
	queue   chan events.Event
	logger  *zap.Logger
	done    chan struct{}
}

// NewNotificationWorker creates a worker with room for size pending events.
func NewNotificationWorker(handler NotificationHandler, size int, logger *zap.Logger) *NotificationWorker {
	if size <= 0 {
		size = 64
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationWorker{
		handler: handler,
		queue:   make(chan events.Event, size),
		logger:  logger,
		done:    make(chan struct{}),
	}
}

// Subscribe routes the idea events of dispatcher into the worker queue.
func (w *NotificationWorker) Subscribe(dispatcher events.Dispatcher) {
	dispatcher.Subscribe(events.EventIdeaSubmitted, w.enqueue)
	dispatcher.Subscribe(events.EventIdeaReviewed, w.enqueue)
}

// enqueue never blocks the publisher; a full queue drops the event.
func (w *NotificationWorker) enqueue(_ context.Context, event events.Event) error {
	select {
	case w.queue <- event:
	default:
		w.logger.Warn("notification queue full, dropping event",
			zap.String("event_type", string(event.Type)),
			zap.String("idea_id", event.IdeaID))
	}
	return nil
}

// Run delivers queued events until ctx is cancelled, then drains what is left.
func (w *NotificationWorker) Run(ctx context.Context) {
	defer close(w.done)
	for {
		select {
		case event := <-w.queue:
			w.deliver(ctx, event)
		case <-ctx.Done():
			w.drain()
			return
		}
	}
}

// Wait blocks until Run has returned.
func (w *NotificationWorker) Wait() {
	<-w.done
}

func (w *NotificationWorker) drain() {
	for {
		select {
		case event := <-w.queue:
			w.deliver(context.Background(), event)
		default:
			return
		}
	}
}

func (w *NotificationWorker) deliver(ctx context.Context, event events.Event) {
	if err := w.handler.Handle(ctx, event); err != nil {
		w.logger.Warn("notification delivery failed",
			zap.String("event_type", string(event.Type)),
			zap.String("idea_id", event.IdeaID),
			zap.Error(err))
	}
}

// StartNotificationWorker subscribes a worker to dispatcher and runs it until ctx ends.
func StartNotificationWorker(ctx context.Context, dispatcher events.Dispatcher, handler NotificationHandler, logger *zap.Logger) *NotificationWorker {
	w := NewNotificationWorker(handler, 0, logger)
	w.Subscribe(dispatcher)
	go w.Run(ctx)
	return w
}

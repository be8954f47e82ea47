package workers

import (
	"context"
	"sync"

	"postapi/internal/metrics"
	postPort "postapi/internal/ports/post"

	"go.uber.org/zap"
)

// EventWorker moves post events off the request path. Publish only enqueues;
// Run hands queued events to the downstream publisher.
type EventWorker struct {
	Downstream postPort.EventPublisher
	Logger     *zap.Logger

	queue chan postPort.Event

	// mu orders Publish against stop: once stopped is set under the write
	// lock, no event can enter the queue, so drain sees every accepted one.
	mu      sync.RWMutex
	stopped bool
}

func NewEventWorker(downstream postPort.EventPublisher, queueSize int, logger *zap.Logger) *EventWorker {
	if queueSize <= 0 {
		queueSize = 100
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EventWorker{
		Downstream: downstream,
		Logger:     logger,
		queue:      make(chan postPort.Event, queueSize),
	}
}

// Publish enqueues event without blocking. A full queue drops the event and
// reports ErrQueueFull.
func (w *EventWorker) Publish(_ context.Context, event postPort.Event) error {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if w.stopped {
		metrics.PostEvents.WithLabelValues(string(event.Type), metrics.OutcomeRejected).Inc()
		return ErrWorkerStopped
	}

	select {
	case w.queue <- event:
		metrics.PostEvents.WithLabelValues(string(event.Type), metrics.OutcomeAccepted).Inc()
		return nil
	default:
		metrics.PostEvents.WithLabelValues(string(event.Type), metrics.OutcomeRejected).Inc()
		return ErrQueueFull
	}
}

// Run publishes queued events until ctx is cancelled, then flushes what is
// left in the queue.
func (w *EventWorker) Run(ctx context.Context) {
	w.Logger.Info("event worker started")
	defer w.stop()

	for {
		select {
		case <-ctx.Done():
			w.drain()
			w.Logger.Info("event worker stopped")
			return
		case event := <-w.queue:
			w.dispatch(context.WithoutCancel(ctx), event)
		}
	}
}

func (w *EventWorker) drain() {
	w.stop()
	for {
		select {
		case event := <-w.queue:
			w.dispatch(context.Background(), event)
		default:
			return
		}
	}
}

func (w *EventWorker) stop() {
	w.mu.Lock()
	w.stopped = true
	w.mu.Unlock()
}

func (w *EventWorker) dispatch(ctx context.Context, event postPort.Event) {
	if err := w.Downstream.Publish(ctx, event); err != nil {
		metrics.PostEvents.WithLabelValues(string(event.Type), metrics.OutcomeFailed).Inc()
		w.Logger.Warn("could not publish post event",
			zap.String("type", string(event.Type)),
			zap.String("postID", event.PostID),
			zap.Error(err),
		)
		return
	}
	metrics.PostEvents.WithLabelValues(string(event.Type), metrics.OutcomePublished).Inc()
}

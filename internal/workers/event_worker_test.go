package workers

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"postapi/internal/metrics"
	postPort "postapi/internal/ports/post"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type channelPublisher struct {
	mu     sync.Mutex
	events chan postPort.Event
	err    error
}

func newChannelPublisher(size int) *channelPublisher {
	return &channelPublisher{events: make(chan postPort.Event, size)}
}

func (p *channelPublisher) Publish(_ context.Context, event postPort.Event) error {
	p.mu.Lock()
	err := p.err
	p.mu.Unlock()
	p.events <- event
	return err
}

func Test_EventWorker(t *testing.T) {
	t.Run("Should forward queued events downstream", func(t *testing.T) {
		downstream := newChannelPublisher(10)
		worker := NewEventWorker(downstream, 10, nil)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go worker.Run(ctx)

		event := postPort.Event{Type: postPort.EventCreated, PostID: "p1"}
		require.NoError(t, worker.Publish(context.Background(), event))

		select {
		case got := <-downstream.events:
			assert.Equal(t, event, got)
		case <-time.After(5 * time.Second):
			t.Fatal("event was not forwarded")
		}
	})

	t.Run("Should report a full queue", func(t *testing.T) {
		worker := NewEventWorker(newChannelPublisher(10), 1, nil)

		require.NoError(t, worker.Publish(context.Background(), postPort.Event{PostID: "p1"}))
		err := worker.Publish(context.Background(), postPort.Event{PostID: "p2"})
		assert.ErrorIs(t, err, ErrQueueFull)
	})

	t.Run("Should flush pending events on shutdown", func(t *testing.T) {
		downstream := newChannelPublisher(10)
		worker := NewEventWorker(downstream, 10, nil)
		for _, id := range []string{"p1", "p2", "p3"} {
			require.NoError(t, worker.Publish(context.Background(), postPort.Event{PostID: id}))
		}

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		worker.Run(ctx)

		assert.Len(t, downstream.events, 3)
		err := worker.Publish(context.Background(), postPort.Event{PostID: "p4"})
		assert.ErrorIs(t, err, ErrWorkerStopped)
	})

	t.Run("Should keep running after a downstream failure", func(t *testing.T) {
		downstream := newChannelPublisher(10)
		downstream.err = errors.New("broker down")
		worker := NewEventWorker(downstream, 10, nil)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go worker.Run(ctx)

		for _, id := range []string{"p1", "p2"} {
			require.NoError(t, worker.Publish(context.Background(), postPort.Event{PostID: id}))
		}
		for i := 0; i < 2; i++ {
			select {
			case <-downstream.events:
			case <-time.After(5 * time.Second):
				t.Fatal("event was not forwarded")
			}
		}
	})

	t.Run("Should dispatch every accepted event when shutdown races publishers", func(t *testing.T) {
		const publishers, perPublisher = 8, 50
		downstream := newChannelPublisher(publishers * perPublisher)
		worker := NewEventWorker(downstream, publishers*perPublisher, nil)

		ctx, cancel := context.WithCancel(context.Background())
		runDone := make(chan struct{})
		go func() {
			defer close(runDone)
			worker.Run(ctx)
		}()

		var accepted atomic.Int64
		var wg sync.WaitGroup
		for i := 0; i < publishers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				for j := 0; j < perPublisher; j++ {
					event := postPort.Event{PostID: fmt.Sprintf("p%d-%d", i, j)}
					if err := worker.Publish(context.Background(), event); err == nil {
						accepted.Add(1)
					}
					if i == 0 && j == perPublisher/2 {
						cancel()
					}
				}
			}(i)
		}
		wg.Wait()
		cancel()
		<-runDone

		assert.Equal(t, int(accepted.Load()), len(downstream.events))
	})

	t.Run("Should count accepted and rejected events", func(t *testing.T) {
		const eventType postPort.EventType = "post.counted"
		accepted := metrics.PostEvents.WithLabelValues(string(eventType), metrics.OutcomeAccepted)
		rejected := metrics.PostEvents.WithLabelValues(string(eventType), metrics.OutcomeRejected)
		acceptedBefore := testutil.ToFloat64(accepted)
		rejectedBefore := testutil.ToFloat64(rejected)

		worker := NewEventWorker(newChannelPublisher(10), 1, nil)
		require.NoError(t, worker.Publish(context.Background(), postPort.Event{Type: eventType}))
		assert.ErrorIs(t, worker.Publish(context.Background(), postPort.Event{Type: eventType}), ErrQueueFull)

		assert.Equal(t, acceptedBefore+1, testutil.ToFloat64(accepted))
		assert.Equal(t, rejectedBefore+1, testutil.ToFloat64(rejected))
	})
}

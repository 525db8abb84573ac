package queue

import (
	"context"
	"hash/fnv"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/forumhub/forum-api/internal/api/metrics"
	"github.com/forumhub/forum-api/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Dispatcher routes post-created events to a fixed set of workers using
// consistent hashing on the theme id, so notifications for one theme are
// always processed in order.
type Dispatcher struct {
	workers []chan ports.PostEventInput
	service ports.NotifyService
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, service ports.NotifyService, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan ports.PostEventInput, numWorkers),
		service: service,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.PostEventInput, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue sends an event to the worker responsible for its theme.
// The call is non-blocking up to channelBuffer capacity.
func (d *Dispatcher) Enqueue(event ports.PostEventInput) {
	i := d.shardIndex(event.ThemeID)
	d.workers[i] <- event
	metrics.NotifyQueueDepth.WithLabelValues(workerLabel(i)).Set(float64(len(d.workers[i])))
}

// shardIndex maps a theme id deterministically to a worker index.
func (d *Dispatcher) shardIndex(themeID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(themeID))
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.PostEventInput) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			if err := d.service.Process(ctx, event); err != nil {
				metrics.NotifyErrorsTotal.WithLabelValues("process_failed").Inc()
				d.log.Error().Err(err).
					Str("theme_id", event.ThemeID).
					Str("post_id", event.PostID).
					Int("worker_id", id).
					Msg("notification fanout failed")
			}
			metrics.NotifyQueueDepth.WithLabelValues(workerLabel(id)).Set(float64(len(ch)))
		}
	}
}

func workerLabel(i int) string {
	return strconv.Itoa(i)
}

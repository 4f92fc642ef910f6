package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/bazaar/marketplace-api/internal/core/ports"
	"github.com/bazaar/marketplace-api/internal/pkg/metrics"
)

const (
	defaultWorkers  = 4
	channelBuffer   = 256
	deliveryTimeout = 5 * time.Second
)

// Dispatcher delivers notifications off the request path. Each recipient is
// pinned to one worker, so a user's notifications are stored in enqueue order.
type Dispatcher struct {
	workers []chan ports.NotificationInput
	service ports.NotificationService
	log     zerolog.Logger

	mu      sync.RWMutex
	stopped bool
	wg      sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, service ports.NotificationService, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan ports.NotificationInput, numWorkers),
		service: service,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.NotificationInput, channelBuffer)
	}
	return d
}

// Start launches the worker goroutines. They run until Stop drains them.
func (d *Dispatcher) Start() {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(i, ch)
	}
}

// Enqueue hands n to the worker that owns its recipient. It never blocks:
// when that worker's buffer is full or the dispatcher is stopped, n is dropped.
func (d *Dispatcher) Enqueue(n ports.NotificationInput) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.stopped {
		metrics.NotificationsDeliveredTotal.WithLabelValues("dropped").Inc()
		d.log.Warn().Str("user_id", n.UserID).Msg("notification dropped, dispatcher stopped")
		return
	}

	idx := d.shardIndex(n.UserID)
	select {
	case d.workers[idx] <- n:
		metrics.NotificationQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
	default:
		metrics.NotificationsDeliveredTotal.WithLabelValues("dropped").Inc()
		d.log.Warn().Str("user_id", n.UserID).Int("worker_id", idx).Msg("notification dropped, queue full")
	}
}

// Stop closes the worker channels and waits for queued notifications to be
// delivered or for ctx to expire.
func (d *Dispatcher) Stop(ctx context.Context) error {
	d.mu.Lock()
	if !d.stopped {
		d.stopped = true
		for _, ch := range d.workers {
			close(ch)
		}
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// shardIndex maps a user id deterministically to a worker index.
func (d *Dispatcher) shardIndex(userID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(userID))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(id int, ch <-chan ports.NotificationInput) {
	defer d.wg.Done()
	label := strconv.Itoa(id)

	for n := range ch {
		metrics.NotificationQueueDepth.WithLabelValues(label).Set(float64(len(ch)))

		ctx, cancel := context.WithTimeout(context.Background(), deliveryTimeout)
		err := d.service.Deliver(ctx, n)
		cancel()

		if err != nil {
			metrics.NotificationsDeliveredTotal.WithLabelValues("error").Inc()
			d.log.Error().Err(err).
				Str("user_id", n.UserID).
				Int("worker_id", id).
				Msg("notification delivery failed")
			continue
		}
		metrics.NotificationsDeliveredTotal.WithLabelValues("ok").Inc()
	}
}

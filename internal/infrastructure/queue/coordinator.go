package queue

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/safespace/support-portal/internal/core/ports"
	"github.com/safespace/support-portal/internal/pkg/metrics"
)

const (
	defaultWorkers = 3
	channelBuffer  = 64
)

// ErrStopped is returned for jobs submitted after the coordinator shut down.
var ErrStopped = errors.New("coordinator stopped")

type job struct {
	ctx        context.Context
	collection string
	fn         func(ctx context.Context) error
	done       chan error
}

// Coordinator owns the persisted collections. Jobs are routed to a fixed set
// of workers by hashing the collection name, so every load-modify-save of a
// given collection runs on the same goroutine, one at a time, in submission
// order.
type Coordinator struct {
	workers []chan job
	stopped chan struct{}
	log     zerolog.Logger
}

var _ ports.CollectionCoordinator = (*Coordinator)(nil)

// NewCoordinator creates a Coordinator with numWorkers workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewCoordinator(numWorkers int, log zerolog.Logger) *Coordinator {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	c := &Coordinator{
		workers: make([]chan job, numWorkers),
		stopped: make(chan struct{}),
		log:     log,
	}
	for i := range c.workers {
		c.workers[i] = make(chan job, channelBuffer)
	}
	return c
}

// Start launches the workers. They stop when ctx is cancelled; jobs still
// queued at that point fail with ErrStopped.
func (c *Coordinator) Start(ctx context.Context) {
	for i, ch := range c.workers {
		go c.runWorker(ctx, i, ch)
	}
	go func() {
		<-ctx.Done()
		close(c.stopped)
	}()
}

// Do runs fn on the worker owning collection and waits for it to finish.
// Jobs must not call Do themselves.
func (c *Coordinator) Do(ctx context.Context, collection string, fn func(ctx context.Context) error) error {
	select {
	case <-c.stopped:
		return ErrStopped
	default:
	}

	j := job{ctx: ctx, collection: collection, fn: fn, done: make(chan error, 1)}
	idx := c.shardIndex(collection)

	select {
	case c.workers[idx] <- j:
		metrics.CoordinatorQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(c.workers[idx])))
	case <-ctx.Done():
		return ctx.Err()
	case <-c.stopped:
		return ErrStopped
	}

	select {
	case err := <-j.done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	case <-c.stopped:
		return ErrStopped
	}
}

// shardIndex maps a collection name deterministically to a worker index.
func (c *Coordinator) shardIndex(collection string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(collection))
	return int(h.Sum32() % uint32(len(c.workers)))
}

func (c *Coordinator) runWorker(ctx context.Context, id int, ch <-chan job) {
	for {
		select {
		case <-ctx.Done():
			c.drain(ch)
			return
		case j := <-ch:
			j.done <- c.run(j)
			metrics.CoordinatorQueueDepth.WithLabelValues(strconv.Itoa(id)).Set(float64(len(ch)))
		}
	}
}

// run executes a job, skipping callers that already gave up.
func (c *Coordinator) run(j job) (err error) {
	if err := j.ctx.Err(); err != nil {
		return err
	}
	defer func() {
		if r := recover(); r != nil {
			c.log.Error().Str("collection", j.collection).Interface("panic", r).Msg("collection job panicked")
			err = fmt.Errorf("collection %s: job panicked: %v", j.collection, r)
		}
	}()
	return j.fn(j.ctx)
}

func (c *Coordinator) drain(ch <-chan job) {
	for {
		select {
		case j := <-ch:
			j.done <- ErrStopped
		default:
			return
		}
	}
}

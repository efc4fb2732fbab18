package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"conferencecentral/internal/domain"
)

// Dispatcher runs domain.Tasks on a fixed pool of workers. Enqueue never
// blocks: when the queue is full the task is dropped and logged.
type Dispatcher struct {
	logger      *slog.Logger
	queue       chan domain.Task
	workers     int
	taskTimeout time.Duration

	mu     sync.RWMutex
	closed bool
}

// NewDispatcher returns a dispatcher with the given worker count and queue capacity.
func NewDispatcher(logger *slog.Logger, workers, queueSize int, taskTimeout time.Duration) *Dispatcher {
	if workers < 1 {
		workers = 1
	}
	return &Dispatcher{
		logger:      logger,
		queue:       make(chan domain.Task, queueSize),
		workers:     workers,
		taskTimeout: taskTimeout,
	}
}

var _ domain.TaskDispatcher = (*Dispatcher)(nil)

func (d *Dispatcher) Enqueue(t domain.Task) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		d.logger.Warn("task dropped: dispatcher closed", "task", t.Name)
		return false
	}
	select {
	case d.queue <- t:
		return true
	default:
		d.logger.Warn("task dropped: queue full", "task", t.Name)
		return false
	}
}

// Run processes tasks until ctx is cancelled, then stops accepting new tasks,
// drains the queue and returns. Task failures are logged, never returned.
func (d *Dispatcher) Run(ctx context.Context) error {
	g := new(errgroup.Group)
	for i := 0; i < d.workers; i++ {
		g.Go(func() error {
			for t := range d.queue {
				d.execute(t)
			}
			return nil
		})
	}
	<-ctx.Done()
	d.mu.Lock()
	d.closed = true
	close(d.queue)
	d.mu.Unlock()
	return g.Wait()
}

func (d *Dispatcher) execute(t domain.Task) {
	// Tasks outlive the request that queued them.
	ctx := context.Background()
	if d.taskTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.taskTimeout)
		defer cancel()
	}
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("task panicked", "task", t.Name, "err", fmt.Sprint(r))
		}
	}()
	if err := t.Run(ctx); err != nil {
		d.logger.Error("task failed", "task", t.Name, "err", err, "duration_ms", time.Since(start).Milliseconds())
		return
	}
	d.logger.Debug("task done", "task", t.Name, "duration_ms", time.Since(start).Milliseconds())
}

package tasks

import (
	"context"
	"time"

	"conferencecentral/internal/domain"
)

// Schedule enqueues t on d once immediately and then every interval until ctx
// is cancelled. A non-positive interval only runs the initial enqueue.
func Schedule(ctx context.Context, d domain.TaskDispatcher, interval time.Duration, t domain.Task) error {
	d.Enqueue(t)
	if interval <= 0 {
		return nil
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			d.Enqueue(t)
		}
	}
}

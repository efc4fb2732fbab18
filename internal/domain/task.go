package domain

import "context"

// Task is a unit of background work run after the triggering request returns.
type Task struct {
	Name string
	Run  func(ctx context.Context) error
}

// TaskDispatcher queues tasks for asynchronous execution.
type TaskDispatcher interface {
	// Enqueue schedules t and reports whether it was accepted.
	Enqueue(t Task) bool
}

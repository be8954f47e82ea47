package workers

import "errors"

var (
	ErrQueueFull     = errors.New("event queue is full")
	ErrWorkerStopped = errors.New("event worker stopped")
)

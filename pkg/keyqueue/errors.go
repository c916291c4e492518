package keyqueue

import "errors"

var (
	// ErrInvalidKey is returned when an operation is submitted with a nil key.
	ErrInvalidKey = errors.New("keyqueue: invalid key")

	// ErrNilOperation is returned when a nil operation is submitted.
	ErrNilOperation = errors.New("keyqueue: operation cannot be nil")

	// ErrQueueClosed is returned when submitting to a queue that is shutting down.
	ErrQueueClosed = errors.New("keyqueue: queue is closed")

	// ErrOperationPanicked wraps the value recovered from a panicking operation.
	ErrOperationPanicked = errors.New("keyqueue: operation panicked")
)

package util

import (
	"sync"
)

// AtomicEvent holds the latest value published by one goroutine for
// another. Send never blocks and only the most recent value is kept;
// readers are woken through a notification channel of size one.
type AtomicEvent[T any] struct {
	mu     sync.Mutex
	value  T
	seq    uint64
	notify chan struct{}
}

func NewAtomicEvent[T any]() *AtomicEvent[T] {
	return &AtomicEvent[T]{
		notify: make(chan struct{}, 1),
	}
}

// Send replaces the value and signals a pending notification.
func (ae *AtomicEvent[T]) Send(event T) {
	ae.mu.Lock()
	defer ae.mu.Unlock()

	ae.value = event
	ae.seq++

	select {
	case ae.notify <- struct{}{}:
	default:
		// notification already pending
	}
}

// Channel returns the notification channel for use in select statements.
func (ae *AtomicEvent[T]) Channel() <-chan struct{} {
	return ae.notify
}

func (ae *AtomicEvent[T]) Value() T {
	ae.mu.Lock()
	defer ae.mu.Unlock()
	return ae.value
}

// Load returns the value together with the number of Sends so far. A
// zero count means nothing was ever published.
func (ae *AtomicEvent[T]) Load() (T, uint64) {
	ae.mu.Lock()
	defer ae.mu.Unlock()
	return ae.value, ae.seq
}

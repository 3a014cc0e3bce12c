// Copyright (C) 2021 Aung Maw
// Licensed under the GNU General Public License v3.0

package emitter

import (
	"sync"
)

const minBuffer = 5

// Subscription receives events from an Emitter until it's unsubscribed
type Subscription[T any] struct {
	emitter *Emitter[T]
	ch      chan T
	once    sync.Once
}

// Events returns the channel of received events
// the channel is closed on Unsubscribe
func (s *Subscription[T]) Events() <-chan T {
	return s.ch
}

// Unsubscribe stops getting new events, safe to call more than once
func (s *Subscription[T]) Unsubscribe() {
	s.once.Do(func() {
		s.emitter.delete(s)
		close(s.ch)
	})
}

// emit drops the event when the subscriber's buffer is full
func (s *Subscription[T]) emit(event T) {
	select {
	case s.ch <- event:
	default:
	}
}

// Emitter fans out events to all subscriptions
type Emitter[T any] struct {
	mtx           sync.RWMutex
	subscriptions map[*Subscription[T]]struct{}
}

// New creates a new Emitter
func New[T any]() *Emitter[T] {
	return &Emitter[T]{
		subscriptions: make(map[*Subscription[T]]struct{}),
	}
}

// Subscribe creates a new subscription with the given channel buffer size
func (e *Emitter[T]) Subscribe(buffer int) *Subscription[T] {
	s := &Subscription[T]{
		emitter: e,
		ch:      make(chan T, max(buffer, minBuffer)),
	}
	e.mtx.Lock()
	defer e.mtx.Unlock()
	e.subscriptions[s] = struct{}{}
	return s
}

// Emit sends the event to all subscriptions
func (e *Emitter[T]) Emit(event T) {
	e.mtx.RLock()
	defer e.mtx.RUnlock()
	for s := range e.subscriptions {
		s.emit(event)
	}
}

func (e *Emitter[T]) delete(s *Subscription[T]) {
	e.mtx.Lock()
	defer e.mtx.Unlock()
	delete(e.subscriptions, s)
}

package realtime

import (
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

// Conn is a live push handle. Two handles are the same connection only if
// they are the same value; the directory compares them with ==.
type Conn interface {
	ID() string
	// Push enqueues ev without blocking and reports whether it was accepted.
	Push(ev Event) bool
}

// DefaultOutboxSize bounds the per-connection queue.
const DefaultOutboxSize = 64

// Outbox is a Conn backed by a bounded channel. A transport goroutine drains
// Events() onto its wire until Done() is closed. When the queue is full new
// events are dropped; clients re-fetch on reconnect.
type Outbox struct {
	id      string
	ch      chan Event
	done    chan struct{}
	once    sync.Once
	dropped atomic.Int64
}

func NewOutbox(size int) *Outbox {
	if size <= 0 {
		size = DefaultOutboxSize
	}
	return &Outbox{
		id:   uuid.New().String(),
		ch:   make(chan Event, size),
		done: make(chan struct{}),
	}
}

func (o *Outbox) ID() string { return o.id }

func (o *Outbox) Push(ev Event) bool {
	select {
	case <-o.done:
		return false
	default:
	}
	select {
	case o.ch <- ev:
		return true
	default:
		o.dropped.Add(1)
		return false
	}
}

func (o *Outbox) Events() <-chan Event { return o.ch }

func (o *Outbox) Done() <-chan struct{} { return o.done }

// Dropped counts events rejected because the queue was full.
func (o *Outbox) Dropped() int64 { return o.dropped.Load() }

func (o *Outbox) Close() { o.once.Do(func() { close(o.done) }) }

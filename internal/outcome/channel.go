package outcome

import (
	"context"
	"errors"
	"sync/atomic"
)

var (
	// ErrAlreadySent is returned when a worker tries to report a second outcome.
	ErrAlreadySent = errors.New("outcome: worker already reported its outcome")
	// ErrInvalidOutcome is returned for an outcome without a valid Status.
	ErrInvalidOutcome = errors.New("outcome: invalid status")
)

// Sink is the write-only capability a worker receives. A worker must call
// Send exactly once before it returns.
type Sink interface {
	Send(ctx context.Context, o Outcome) error
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(ctx context.Context, o Outcome) error

// Send calls f.
func (f SinkFunc) Send(ctx context.Context, o Outcome) error { return f(ctx, o) }

// Channel is a bounded multi-producer, single-consumer conduit of outcomes.
//
// Producers write through per-worker sinks obtained from Sink; the consumer
// reads with Receive. Receive blocks on an empty channel instead of failing.
type Channel struct {
	items    chan Outcome
	accepted atomic.Int64
	rejected atomic.Int64
}

// NewChannel creates a channel buffering up to capacity outcomes.
// A capacity below one is raised to one.
func NewChannel(capacity int) *Channel {
	if capacity < 1 {
		capacity = 1
	}
	return &Channel{items: make(chan Outcome, capacity)}
}

// Sink returns the write handle for the worker identified by id. The handle
// accepts a single outcome; any further send is refused and counted in
// Rejected so the coordinator can report it.
func (c *Channel) Sink(id WorkerID) Sink {
	return &workerSink{ch: c, id: id}
}

// Receive returns the next outcome, blocking while the channel is empty.
// It only returns an error when ctx ends first.
func (c *Channel) Receive(ctx context.Context) (Outcome, error) {
	select {
	case o := <-c.items:
		return o, nil
	default:
	}
	select {
	case o := <-c.items:
		return o, nil
	case <-ctx.Done():
		return Outcome{}, ctx.Err()
	}
}

// Len returns the number of buffered outcomes.
func (c *Channel) Len() int { return len(c.items) }

// Cap returns the buffer capacity.
func (c *Channel) Cap() int { return cap(c.items) }

// Accepted returns the number of outcomes that entered the channel.
func (c *Channel) Accepted() int64 { return c.accepted.Load() }

// Rejected returns the number of refused sends: duplicates and invalid outcomes.
func (c *Channel) Rejected() int64 { return c.rejected.Load() }

type workerSink struct {
	ch   *Channel
	id   WorkerID
	sent atomic.Bool
}

// Send enqueues o. If the buffer is full it waits for space until ctx ends,
// in which case the slot is released so the worker may try again.
func (s *workerSink) Send(ctx context.Context, o Outcome) error {
	if !o.Status.Valid() {
		s.ch.rejected.Add(1)
		return ErrInvalidOutcome
	}
	if !s.sent.CompareAndSwap(false, true) {
		s.ch.rejected.Add(1)
		return ErrAlreadySent
	}
	if o.Worker.IsZero() {
		o.Worker = s.id
	}

	// A buffered slot is taken even when ctx is already done, so a worker
	// reporting its own cancellation still gets through.
	select {
	case s.ch.items <- o:
		s.ch.accepted.Add(1)
		return nil
	default:
	}
	select {
	case s.ch.items <- o:
		s.ch.accepted.Add(1)
		return nil
	case <-ctx.Done():
		s.sent.Store(false)
		return ctx.Err()
	}
}

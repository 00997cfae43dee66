// Package dispatcher serializes document work onto a single goroutine. The
// host permits only one in-flight mutation at a time, so every request is
// queued and executed in submission order on the dispatcher's run loop; the
// submitter is never blocked and receives exactly one typed completion per
// request.
package dispatcher

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrClosed is delivered to requests submitted after Close.
var ErrClosed = errors.New("dispatcher closed")

// Outcome is the typed completion payload of one submitted request.
type Outcome[T any] struct {
	Value T
	Err   error
}

type request struct {
	id   uuid.UUID
	name string
	run  func(ctx context.Context)
	drop func(err error)
}

// Dispatcher owns the request queue and its single execution goroutine.
// The queue is unbounded so UI bursts never block the submitting goroutine.
type Dispatcher struct {
	logger *zap.Logger

	mu     sync.Mutex
	queue  []request
	closed bool
	signal chan struct{}
}

// New creates a Dispatcher. Call Run on the goroutine that is allowed to
// touch the document.
func New(logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		logger: logger.Named("dispatcher"),
		signal: make(chan struct{}, 1),
	}
}

// Submit enqueues fn for serial execution and returns a buffered channel
// that receives exactly one Outcome. Once fn starts it runs to completion;
// there is no mid-request cancellation.
func Submit[T any](d *Dispatcher, name string, fn func(ctx context.Context) (T, error)) <-chan Outcome[T] {
	done := make(chan Outcome[T], 1)
	req := request{
		id:   uuid.New(),
		name: name,
		run: func(ctx context.Context) {
			value, err := fn(ctx)
			done <- Outcome[T]{Value: value, Err: err}
		},
		drop: func(err error) {
			var zero T
			done <- Outcome[T]{Value: zero, Err: err}
		},
	}

	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		req.drop(ErrClosed)
		return done
	}
	d.queue = append(d.queue, req)
	d.mu.Unlock()

	select {
	case d.signal <- struct{}{}:
	default:
	}
	return done
}

// Run executes queued requests until ctx is done or Close is called.
// Pending requests are failed with the closing error rather than dropped so
// every submitted batch still fires its completion.
func (d *Dispatcher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			d.shutdown(ctx.Err())
			return
		default:
		}

		req, ok := d.dequeue()
		if ok {
			d.logger.Debug("executing request",
				zap.String("request_id", req.id.String()),
				zap.String("request", req.name))
			req.run(ctx)
			continue
		}

		if d.isClosed() {
			return
		}
		select {
		case <-ctx.Done():
			d.shutdown(ctx.Err())
			return
		case <-d.signal:
		}
	}
}

// Close stops accepting requests and fails anything still queued.
func (d *Dispatcher) Close() {
	d.shutdown(ErrClosed)
}

func (d *Dispatcher) dequeue() (request, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.queue) == 0 {
		return request{}, false
	}
	req := d.queue[0]
	d.queue[0] = request{}
	d.queue = d.queue[1:]
	if len(d.queue) == 0 {
		d.queue = nil
	}
	return req, true
}

func (d *Dispatcher) isClosed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.closed
}

func (d *Dispatcher) shutdown(cause error) {
	d.mu.Lock()
	pending := d.queue
	d.queue = nil
	d.closed = true
	d.mu.Unlock()

	// Wake the run loop so it can observe the closed state.
	select {
	case d.signal <- struct{}{}:
	default:
	}

	for _, req := range pending {
		req.drop(cause)
	}
	if len(pending) > 0 {
		d.logger.Warn("failed pending requests on shutdown",
			zap.Int("count", len(pending)),
			zap.Error(cause))
	}
}

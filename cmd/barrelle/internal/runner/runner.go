// Package runner serializes barrel generation requests through a FIFO
// queue so two invocations never run over the same tree simultaneously.
package runner

import (
	"context"
	"errors"
	"sync"

	"github.com/albertocavalcante/barrelle/pkg/barrel"
)

// ErrQueueClosed is returned for requests submitted after Close.
var ErrQueueClosed = errors.New("run queue closed")

// DefaultBuffer is the request channel capacity when none is given.
const DefaultBuffer = 16

// GenerateFunc performs one generation run.
type GenerateFunc func(ctx context.Context, dir string, opts barrel.Options) (barrel.Stats, error)

// Result is the outcome of one queued generation request.
type Result struct {
	Stats barrel.Stats
	Err   error
}

type request struct {
	ctx    context.Context
	dir    string
	opts   barrel.Options
	result chan Result
}

// Queue runs generation requests one at a time in submission order.
type Queue struct {
	fn   GenerateFunc
	done chan struct{}

	mu     sync.Mutex // guards reqs against send-after-close
	reqs   chan request
	closed bool
}

// New creates a queue over fn and starts its worker. buffer <= 0 selects
// DefaultBuffer.
func New(fn GenerateFunc, buffer int) *Queue {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	q := &Queue{
		fn:   fn,
		reqs: make(chan request, buffer),
		done: make(chan struct{}),
	}
	go q.work()
	return q
}

func (q *Queue) work() {
	defer close(q.done)
	for req := range q.reqs {
		if err := req.ctx.Err(); err != nil {
			req.result <- Result{Err: err}
			continue
		}
		stats, err := q.fn(req.ctx, req.dir, req.opts)
		req.result <- Result{Stats: stats, Err: err}
	}
}

// Submit enqueues a generation request and returns a channel carrying its
// result. The channel is buffered; the caller may drop it without reading.
func (q *Queue) Submit(ctx context.Context, dir string, opts barrel.Options) <-chan Result {
	result := make(chan Result, 1)

	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		result <- Result{Err: ErrQueueClosed}
		return result
	}
	select {
	case q.reqs <- request{ctx: ctx, dir: dir, opts: opts, result: result}:
	case <-ctx.Done():
		result <- Result{Err: ctx.Err()}
	}
	return result
}

// Generate enqueues a request and waits for its result.
func (q *Queue) Generate(ctx context.Context, dir string, opts barrel.Options) (barrel.Stats, error) {
	select {
	case r := <-q.Submit(ctx, dir, opts):
		return r.Stats, r.Err
	case <-ctx.Done():
		return barrel.Stats{}, ctx.Err()
	}
}

// Close stops accepting requests and waits for in-flight work to finish.
func (q *Queue) Close() {
	q.mu.Lock()
	if !q.closed {
		q.closed = true
		close(q.reqs)
	}
	q.mu.Unlock()
	<-q.done
}

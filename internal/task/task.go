// Package task runs single transport calls as cold, restartable operations.
package task

import (
	"context"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/semaphore"

	"github.com/five82/wanreader/internal/result"
)

const defaultWorkers = 4

// Executor runs operations on background goroutines, at most Workers at a
// time. Submissions wait in a FIFO queue and a single dispatcher hands out
// slots, so calls start in submission order. The zero value is not usable;
// build one with NewExecutor.
type Executor struct {
	sem *semaphore.Weighted
	wg  sync.WaitGroup

	mu    sync.Mutex
	queue []*job
	wake  chan struct{}
}

// NewExecutor returns an executor bounded to workers concurrent calls.
// Non-positive values use the default of 4.
func NewExecutor(workers int) *Executor {
	if workers <= 0 {
		workers = defaultWorkers
	}
	e := &Executor{
		sem:  semaphore.NewWeighted(int64(workers)),
		wake: make(chan struct{}, 1),
	}
	go e.dispatch()
	return e
}

// Wait blocks until every submitted operation has returned or been dropped.
func (e *Executor) Wait() {
	e.wg.Wait()
}

const (
	jobQueued int32 = iota
	jobRunning
	jobDropped
)

// job is one queued submission. state moves from queued to running or
// dropped exactly once.
type job struct {
	ctx     context.Context
	run     func()
	drop    func()
	state   atomic.Int32
	started chan struct{}
}

// submit queues run. drop is called instead when ctx ends before a slot is
// granted. Never blocks.
func (e *Executor) submit(ctx context.Context, run, drop func()) {
	j := &job{ctx: ctx, run: run, drop: drop, started: make(chan struct{})}
	e.wg.Add(1)

	e.mu.Lock()
	e.queue = append(e.queue, j)
	e.mu.Unlock()
	select {
	case e.wake <- struct{}{}:
	default:
	}

	go func() {
		select {
		case <-ctx.Done():
			e.abandon(j)
		case <-j.started:
		}
	}()
}

func (e *Executor) next() *job {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.queue) == 0 {
		return nil
	}
	j := e.queue[0]
	e.queue[0] = nil
	e.queue = e.queue[1:]
	return j
}

func (e *Executor) dispatch() {
	for range e.wake {
		for j := e.next(); j != nil; j = e.next() {
			e.launch(j)
		}
	}
}

// launch waits for a slot for j and starts it, unless j was dropped first.
func (e *Executor) launch(j *job) {
	if j.state.Load() != jobQueued {
		return
	}
	if err := e.sem.Acquire(j.ctx, 1); err != nil {
		e.abandon(j)
		return
	}
	if j.ctx.Err() != nil {
		e.sem.Release(1)
		e.abandon(j)
		return
	}
	if !j.state.CompareAndSwap(jobQueued, jobRunning) {
		e.sem.Release(1)
		return
	}
	close(j.started)
	go func() {
		defer e.wg.Done()
		defer e.sem.Release(1)
		j.run()
	}()
}

func (e *Executor) abandon(j *job) {
	if j.state.CompareAndSwap(jobQueued, jobDropped) {
		j.drop()
		e.wg.Done()
	}
}

// Op wraps one call. Nothing happens until Start; each Start performs a
// fresh call.
type Op[T any] struct {
	exec *Executor
	call func(context.Context) result.Outcome[T]
}

// New builds an operation around call.
func New[T any](exec *Executor, call func(context.Context) result.Outcome[T]) Op[T] {
	return Op[T]{exec: exec, call: call}
}

// Start runs the call and returns a channel that yields exactly one outcome
// and is then closed. When ctx ends before the outcome is ready the channel
// is closed without a value.
func (o Op[T]) Start(ctx context.Context) <-chan result.Outcome[T] {
	out := make(chan result.Outcome[T], 1)
	run := func() {
		defer close(out)
		outcome := o.call(ctx)
		if ctx.Err() != nil {
			return
		}
		out <- outcome
	}

	if o.exec == nil {
		go run()
		return out
	}
	o.exec.submit(ctx, run, func() { close(out) })
	return out
}

// Await starts the operation and blocks for its outcome. ok is false when
// ctx ended first.
func (o Op[T]) Await(ctx context.Context) (outcome result.Outcome[T], ok bool) {
	outcome, ok = <-o.Start(ctx)
	return outcome, ok
}
